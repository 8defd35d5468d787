// Copyright ©2026 The bíogo Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package seqload

import (
	"bufio"
	"fmt"
	"io"
	"strings"

	"github.com/biogo/biogo/alphabet"
	"github.com/biogo/biogo/seq"
	"github.com/biogo/biogo/seq/linear"
)

// genbankReader is a minimal GenBank flat file reader. Only the LOCUS name,
// the DEFINITION line and the ORIGIN sequence block are retained.
type genbankReader struct {
	sc   *bufio.Scanner
	line int
}

func newGenbankReader(r io.Reader) *genbankReader {
	sc := bufio.NewScanner(r)
	sc.Buffer(make([]byte, 0, 64*1024), 16*1024*1024)
	return &genbankReader{sc: sc}
}

// Read returns the next GenBank record as a *linear.Seq.
func (r *genbankReader) Read() (seq.Sequence, error) {
	var (
		id, desc  string
		l         alphabet.Letters
		started   bool
		inDef     bool
		inOrigin  bool
		locusLine int
	)
	for r.sc.Scan() {
		r.line++
		text := r.sc.Text()
		trimmed := strings.TrimSpace(text)
		if !started {
			if trimmed == "" {
				continue
			}
			if !strings.HasPrefix(text, "LOCUS") {
				return nil, fmt.Errorf("genbank: line %d: expected LOCUS", r.line)
			}
			f := strings.Fields(text)
			if len(f) < 2 {
				return nil, fmt.Errorf("genbank: line %d: LOCUS without name", r.line)
			}
			id, started, locusLine = f[1], true, r.line
			continue
		}

		switch {
		case trimmed == "//":
			s := linear.NewSeq(id, l, alphabet.DNA)
			s.Desc = desc
			return s, nil
		case inOrigin:
			for i := 0; i < len(text); i++ {
				b := text[i]
				if ('a' <= b && b <= 'z') || ('A' <= b && b <= 'Z') {
					l = append(l, alphabet.Letter(b))
				}
			}
		case strings.HasPrefix(text, "ORIGIN"):
			inDef, inOrigin = false, true
		case strings.HasPrefix(text, "DEFINITION"):
			desc = strings.TrimSpace(strings.TrimPrefix(text, "DEFINITION"))
			inDef = true
		case inDef && strings.HasPrefix(text, " "):
			desc += " " + trimmed
		default:
			inDef = false
		}
	}
	if err := r.sc.Err(); err != nil {
		return nil, err
	}
	if started {
		return nil, fmt.Errorf("genbank: record %q at line %d: missing // terminator", id, locusLine)
	}
	return nil, io.EOF
}
