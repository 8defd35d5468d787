// Copyright ©2026 The bíogo Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package translate

import (
	"testing"

	"github.com/biogo/biogo/alphabet"
	"github.com/biogo/biogo/seq/linear"
	"gopkg.in/check.v1"

	"github.com/biogo/kaks/errs"
)

func Test(t *testing.T) { check.TestingT(t) }

type S struct{}

var _ = check.Suite(&S{})

func dna(id, s string) *linear.Seq {
	return linear.NewSeq(id, alphabet.BytesToLetters([]byte(s)), alphabet.DNA)
}

func (s *S) TestCodon(c *check.C) {
	for _, t := range []struct {
		codon string
		aa    byte
	}{
		{"ATG", 'M'},
		{"atg", 'M'},
		{"AUG", 'M'},
		{"TGG", 'W'},
		{"TAA", '*'},
		{"TAG", '*'},
		{"TGA", '*'},
		{"GCN", 'X'},
		{"A-G", 'X'},
		{"AT", 'X'},
		{"AGA", 'R'},
		{"ggc", 'G'},
	} {
		c.Check(Codon([]byte(t.codon)), check.Equals, t.aa, check.Commentf("%s", t.codon))
	}
	c.Check(IsStop([]byte("tga")), check.Equals, true)
	c.Check(IsStop([]byte("tgg")), check.Equals, false)
}

func (s *S) TestTranslate(c *check.C) {
	p := Translate(dna("x", "ATGAAACCCGGGTAAGC"))
	c.Check(p.Name(), check.Equals, "x")
	c.Check(p.Seq.String(), check.Equals, "MKPG*")
	c.Check(p.Alphabet(), check.Equals, alphabet.Protein)
}

func (s *S) TestProteins(c *check.C) {
	prots, err := Proteins([]*linear.Seq{
		dna("A", "ATGAAACCCGGGTAA"),
		dna("B", "ATGAAACCCGGG"),
	})
	c.Assert(err, check.IsNil)
	c.Assert(prots, check.HasLen, 2)
	c.Check(prots[0].Seq.String(), check.Equals, "MKPG")
	c.Check(prots[1].Seq.String(), check.Equals, "MKPG")
}

func (s *S) TestProteinsOnlyOneTrailingStop(c *check.C) {
	_, err := Proteins([]*linear.Seq{
		dna("A", "ATGAAATAATAA"),
		dna("B", "ATGAAACCC"),
	})
	c.Check(errs.KindOf(err), check.Equals, errs.InternalStopCodon)
}

func (s *S) TestProteinsErrors(c *check.C) {
	for _, t := range []struct {
		in   []*linear.Seq
		kind errs.Kind
	}{
		{[]*linear.Seq{dna("A", "ATGTAACCC"), dna("B", "ATGAAACCC")}, errs.InternalStopCodon},
		{[]*linear.Seq{dna("A", "ATGAAACCC")}, errs.InsufficientSequences},
		{nil, errs.InsufficientSequences},
	} {
		_, err := Proteins(t.in)
		c.Check(err, check.NotNil)
		c.Check(errs.KindOf(err), check.Equals, t.kind, check.Commentf("%v", err))
	}
}

func (s *S) TestInternalStopMessage(c *check.C) {
	_, err := Proteins([]*linear.Seq{dna("A", "ATGAAACCC"), dna("B", "ATGTGACCCTAG")})
	c.Assert(err, check.NotNil)
	c.Check(err, check.ErrorMatches, `.*"B".*residue 2.*`)
}
