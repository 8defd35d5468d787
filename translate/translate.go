// Copyright ©2026 The bíogo Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

// Package translate translates coding DNA sequences to protein using the
// standard genetic code and checks them for use in codon-based analyses.
package translate

import (
	"github.com/biogo/biogo/alphabet"
	"github.com/biogo/biogo/seq/linear"

	"github.com/biogo/kaks/errs"
)

const op = "translate"

const (
	// Stop is the translation of a stop codon.
	Stop = '*'
	// Unknown is the translation of a codon with an ambiguous base.
	Unknown = 'X'
)

// standard is the standard genetic code indexed by base order TCAG.
const standard = "FFLLSSSSYY**CC*W" +
	"LLLLPPPPHHQQRRRR" +
	"IIIMTTTTNNKKSSRR" +
	"VVVVAAAADDEEGGGG"

func base(b byte) int {
	switch b {
	case 'T', 't', 'U', 'u':
		return 0
	case 'C', 'c':
		return 1
	case 'A', 'a':
		return 2
	case 'G', 'g':
		return 3
	}
	return -1
}

// Codon returns the amino acid encoded by the first three bases of c.
func Codon(c []byte) byte {
	if len(c) < 3 {
		return Unknown
	}
	i, j, k := base(c[0]), base(c[1]), base(c[2])
	if i < 0 || j < 0 || k < 0 {
		return Unknown
	}
	return standard[i*16+j*4+k]
}

// IsStop returns whether the codon c is a stop codon.
func IsStop(c []byte) bool { return Codon(c) == Stop }

// Translate returns the protein translation of s. Only complete codons are
// translated. The returned sequence has the same ID and description as s.
func Translate(s *linear.Seq) *linear.Seq {
	b := alphabet.LettersToBytes(s.Seq)
	p := make([]byte, len(b)/3)
	for i := range p {
		p[i] = Codon(b[i*3 : i*3+3])
	}
	ps := linear.NewSeq(s.ID, alphabet.BytesToLetters(p), alphabet.Protein)
	ps.Desc = s.Desc
	return ps
}

// Proteins translates each of the coding sequences in nuc, dropping a single
// trailing stop from each translation. It is an error for a translation to
// contain a stop before its final position or for fewer than two sequences
// to be provided.
func Proteins(nuc []*linear.Seq) ([]*linear.Seq, error) {
	prot := make([]*linear.Seq, 0, len(nuc))
	for _, s := range nuc {
		p := Translate(s)
		if n := len(p.Seq); n > 0 && p.Seq[n-1] == Stop {
			p.Seq = p.Seq[:n-1]
		}
		for i, aa := range p.Seq {
			if aa == Stop {
				return nil, errs.New(errs.InternalStopCodon, op,
					"sequence %q has a stop codon at residue %d: internal stops are not supported",
					s.Name(), i+1,
				)
			}
		}
		prot = append(prot, p)
	}
	if len(prot) < 2 {
		return nil, errs.New(errs.InsufficientSequences, op, "need at least 2 sequences, have %d", len(prot))
	}
	return prot, nil
}
