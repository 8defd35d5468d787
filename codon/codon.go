// Copyright ©2026 The bíogo Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

// Package codon projects protein alignments back onto their coding
// sequences.
package codon

import (
	"github.com/biogo/biogo/alphabet"
	"github.com/biogo/biogo/seq/linear"

	"github.com/biogo/kaks/errs"
	"github.com/biogo/kaks/msa"
	"github.com/biogo/kaks/translate"
)

const op = "codon"

var gapCodon = []alphabet.Letter{'-', '-', '-'}

// Project returns the codon alignment implied by the protein alignment prot
// and the coding sequences in nuc, keyed by identifier. Each aligned residue
// is replaced by its codon and each gap by three gaps. Rows are in the order
// of prot.
//
// The ungapped length of each protein row must be a third of the length of
// its coding sequence, rounded down, or one less than that when the coding
// sequence ends in a stop codon.
func Project(prot *msa.Alignment, nuc map[string]*linear.Seq) (*msa.Alignment, error) {
	rows := make([]*linear.Seq, prot.Rows())
	for i := range rows {
		id := prot.ID(i)
		n, ok := nuc[id]
		if !ok {
			return nil, errs.New(errs.ProjectionMismatch, op, "no coding sequence for aligned protein %q", id)
		}
		cds := alphabet.LettersToBytes(n.Seq)
		aa := prot.Row(i)

		var residues int
		for _, b := range aa {
			if !msa.IsGap(b) {
				residues++
			}
		}
		codons := len(cds) / 3
		if residues != codons && !(residues == codons-1 && translate.IsStop(cds[3*residues:])) {
			return nil, errs.New(errs.ProjectionMismatch, op,
				"protein %q has %d residues but its coding sequence has %d codons", id, residues, codons)
		}

		l := make(alphabet.Letters, 0, 3*len(aa))
		var k int
		for _, b := range aa {
			if msa.IsGap(b) {
				l = append(l, gapCodon...)
				continue
			}
			l = append(l, n.Seq[3*k:3*k+3]...)
			k++
		}
		s := linear.NewSeq(id, l, alphabet.DNAgapped)
		s.Desc = n.Desc
		rows[i] = s
	}
	return msa.New("codon", rows)
}
