// Copyright ©2026 The bíogo Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

// Package seqload reads coding DNA sequence files in FASTA, FASTQ or GenBank
// format into bíogo linear sequences.
package seqload

import (
	"bufio"
	"bytes"
	"fmt"
	"os"
	"strings"

	"github.com/biogo/biogo/alphabet"
	"github.com/biogo/biogo/io/seqio"
	"github.com/biogo/biogo/io/seqio/fasta"
	"github.com/biogo/biogo/io/seqio/fastq"
	"github.com/biogo/biogo/seq"
	"github.com/biogo/biogo/seq/linear"

	"github.com/biogo/kaks/errs"
)

const op = "seqload"

// Format is a sequence file format.
type Format int

const (
	Auto Format = iota
	Fasta
	Fastq
	Genbank
)

func (f Format) String() string {
	switch f {
	case Auto:
		return "auto"
	case Fasta:
		return "fasta"
	case Fastq:
		return "fastq"
	case Genbank:
		return "genbank"
	}
	return fmt.Sprintf("format(%d)", int(f))
}

// ParseFormat returns the Format named by s.
func ParseFormat(s string) (Format, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "auto", "":
		return Auto, nil
	case "fasta", "fa", "fas", "fna", "ffn":
		return Fasta, nil
	case "fastq", "fq":
		return Fastq, nil
	case "genbank", "gb", "gbk":
		return Genbank, nil
	}
	return Auto, errs.New(errs.Format, op, "unknown sequence format %q", s)
}

// Reader is a lazy sequence reader over an open file.
type Reader struct {
	path   string
	format Format
	f      *os.File
	sc     *seqio.Scanner
	cur    *linear.Seq
}

// Open opens the sequence file at path for reading in the given format. If
// format is Auto the format is determined from the start of the file.
func Open(path string, format Format) (*Reader, error) {
	fi, err := os.Stat(path)
	if err != nil {
		return nil, errs.Wrap(errs.UnreadableInput, op, err, "")
	}
	if fi.IsDir() {
		return nil, errs.New(errs.UnreadableInput, op, "%s is a directory", path)
	}
	if fi.Size() == 0 {
		return nil, errs.New(errs.UnreadableInput, op, "%s is empty", path)
	}
	f, err := os.Open(path)
	if err != nil {
		return nil, errs.Wrap(errs.UnreadableInput, op, err, "")
	}
	br := bufio.NewReader(f)
	if format == Auto {
		format, err = sniff(br)
		if err != nil {
			f.Close()
			return nil, errs.Wrap(errs.Format, op, err, "%s", path)
		}
	}

	var r seqio.Reader
	switch format {
	case Fasta:
		r = fasta.NewReader(br, linear.NewSeq("", nil, alphabet.DNA))
	case Fastq:
		r = fastq.NewReader(br, linear.NewQSeq("", nil, alphabet.DNA, alphabet.Sanger))
	case Genbank:
		r = newGenbankReader(br)
	default:
		f.Close()
		return nil, errs.New(errs.Format, op, "unsupported format %v", format)
	}
	return &Reader{path: path, format: format, f: f, sc: seqio.NewScanner(r)}, nil
}

// sniff guesses the format from the first non-blank bytes of br.
func sniff(br *bufio.Reader) (Format, error) {
	b, _ := br.Peek(4096)
	b = bytes.TrimLeft(b, " \t\r\n")
	switch {
	case len(b) == 0:
		return Auto, fmt.Errorf("no sequence data")
	case b[0] == '>':
		return Fasta, nil
	case b[0] == '@':
		return Fastq, nil
	case bytes.HasPrefix(b, []byte("LOCUS")):
		return Genbank, nil
	}
	return Auto, fmt.Errorf("could not detect sequence format")
}

// Format returns the format used by the reader.
func (r *Reader) Format() Format { return r.format }

// Next advances to the next sequence, returning false at the end of the
// file or on error.
func (r *Reader) Next() bool {
	r.cur = nil
	if !r.sc.Next() {
		return false
	}
	r.cur = asLinear(r.sc.Seq())
	return true
}

// Seq returns the current sequence.
func (r *Reader) Seq() *linear.Seq { return r.cur }

// Error returns the first decoding error encountered by the reader.
func (r *Reader) Error() error {
	if err := r.sc.Error(); err != nil {
		return errs.Wrap(errs.Format, op, err, "%s (%v)", r.path, r.format)
	}
	return nil
}

// Close closes the underlying file.
func (r *Reader) Close() error { return r.f.Close() }

func asLinear(s seq.Sequence) *linear.Seq {
	switch s := s.(type) {
	case *linear.Seq:
		return s
	case *linear.QSeq:
		l := make(alphabet.Letters, len(s.Seq))
		for i, ql := range s.Seq {
			l[i] = ql.L
		}
		ls := linear.NewSeq(s.ID, l, alphabet.DNA)
		ls.Desc = s.Desc
		return ls
	}
	panic(fmt.Sprintf("seqload: unexpected sequence type %T", s))
}

// Load reads all sequences from the file at path. It is an error for the
// file to contain no sequence or to repeat an identifier.
func Load(path string, format Format) ([]*linear.Seq, error) {
	r, err := Open(path, format)
	if err != nil {
		return nil, err
	}
	defer r.Close()

	var (
		recs []*linear.Seq
		seen = make(map[string]bool)
	)
	for r.Next() {
		s := r.Seq()
		if s.Name() == "" {
			return nil, errs.New(errs.Format, op, "%s: record %d has no identifier", path, len(recs)+1)
		}
		if seen[s.Name()] {
			return nil, errs.New(errs.Format, op, "%s: duplicate identifier %q", path, s.Name())
		}
		seen[s.Name()] = true
		recs = append(recs, s)
	}
	if err := r.Error(); err != nil {
		return nil, err
	}
	if len(recs) == 0 {
		return nil, errs.New(errs.Format, op, "no %v records in %s", r.Format(), path)
	}
	return recs, nil
}

// Index returns a map from identifier to record.
func Index(recs []*linear.Seq) map[string]*linear.Seq {
	idx := make(map[string]*linear.Seq, len(recs))
	for _, s := range recs {
		idx[s.Name()] = s
	}
	return idx
}
