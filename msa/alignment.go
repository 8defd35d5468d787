// Copyright ©2026 The bíogo Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package msa

import (
	"fmt"

	"github.com/biogo/biogo/alphabet"
	"github.com/biogo/biogo/seq"
	"github.com/biogo/biogo/seq/linear"
	"github.com/biogo/biogo/seq/multi"
)

// Alignment is an ordered set of equal-length aligned sequences.
type Alignment struct {
	m   *multi.Multi
	len int
}

// New returns an alignment of the given rows, which must all be the same
// length. The rows are held, not copied.
func New(id string, rows []*linear.Seq) (*Alignment, error) {
	if len(rows) == 0 {
		return nil, fmt.Errorf("msa: no rows in alignment %q", id)
	}
	n := rows[0].Len()
	ss := make([]seq.Sequence, len(rows))
	for i, r := range rows {
		if r.Len() != n {
			return nil, fmt.Errorf("msa: alignment %q is not flush: %q has length %d, %q has length %d",
				id, rows[0].Name(), n, r.Name(), r.Len())
		}
		ss[i] = r
	}
	m, err := multi.NewMulti(id, ss, seq.DefaultConsensus)
	if err != nil {
		return nil, fmt.Errorf("msa: %v", err)
	}
	return &Alignment{m: m, len: n}, nil
}

// Multi returns the underlying bíogo multiple sequence.
func (a *Alignment) Multi() *multi.Multi { return a.m }

// Rows returns the number of sequences in the alignment.
func (a *Alignment) Rows() int { return len(a.m.Seq) }

// Len returns the number of columns in the alignment.
func (a *Alignment) Len() int { return a.len }

// Seq returns the ith aligned sequence.
func (a *Alignment) Seq(i int) *linear.Seq { return a.m.Seq[i].(*linear.Seq) }

// ID returns the identifier of the ith sequence.
func (a *Alignment) ID(i int) string { return a.m.Seq[i].Name() }

// Row returns the letters of the ith sequence including gaps.
func (a *Alignment) Row(i int) []byte { return alphabet.LettersToBytes(a.Seq(i).Seq) }

// IDs returns the identifiers of the alignment in row order.
func (a *Alignment) IDs() []string {
	ids := make([]string, a.Rows())
	for i := range ids {
		ids[i] = a.ID(i)
	}
	return ids
}

// Index returns the row of the sequence with the given identifier, or -1
// if it is not present.
func (a *Alignment) Index(id string) int {
	for i := 0; i < a.Rows(); i++ {
		if a.ID(i) == id {
			return i
		}
	}
	return -1
}

// IsGap returns whether b is an alignment gap character.
func IsGap(b byte) bool { return b == '-' || b == '.' }
