// Copyright ©2026 The bíogo Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package msa

import (
	"context"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/biogo/biogo/alphabet"
	"github.com/biogo/biogo/seq/linear"
	"gopkg.in/check.v1"

	"github.com/biogo/kaks/errs"
)

func Test(t *testing.T) { check.TestingT(t) }

type S struct{}

var _ = check.Suite(&S{})

func prot(id, s string) *linear.Seq {
	return linear.NewSeq(id, alphabet.BytesToLetters([]byte(s)), alphabet.Protein)
}

func (s *S) TestParseKind(c *check.C) {
	for _, t := range []struct {
		in   string
		want Kind
	}{
		{"clustalw", Clustalw},
		{"ClustalW2", Clustalw},
		{"tcoffee", TCoffee},
		{"t_coffee", TCoffee},
		{"muscle", Muscle},
		{"MAFFT", Mafft},
	} {
		k, err := ParseKind(t.in)
		c.Check(err, check.IsNil)
		c.Check(k, check.Equals, t.want, check.Commentf("%q", t.in))
	}
	_, err := ParseKind("probcons")
	c.Check(errs.KindOf(err), check.Equals, errs.Usage)
}

func (s *S) TestAlignment(c *check.C) {
	a, err := New("test", []*linear.Seq{prot("A", "MK-PG"), prot("B", "MKLPG"), prot("C", "M--PG")})
	c.Assert(err, check.IsNil)
	c.Check(a.Rows(), check.Equals, 3)
	c.Check(a.Len(), check.Equals, 5)
	c.Check(a.IDs(), check.DeepEquals, []string{"A", "B", "C"})
	c.Check(string(a.Row(2)), check.Equals, "M--PG")
	c.Check(a.Index("B"), check.Equals, 1)
	c.Check(a.Index("D"), check.Equals, -1)
	c.Check(a.Multi(), check.NotNil)

	_, err = New("ragged", []*linear.Seq{prot("A", "MK"), prot("B", "MKL")})
	c.Check(err, check.ErrorMatches, `msa: alignment "ragged" is not flush.*`)
	_, err = New("empty", nil)
	c.Check(err, check.NotNil)
}

func (s *S) TestReadFasta(c *check.C) {
	a, err := ReadFasta(strings.NewReader(">A\nMK-PG\n>B desc\nMKLPG\n"), "p", alphabet.Protein)
	c.Assert(err, check.IsNil)
	c.Check(a.IDs(), check.DeepEquals, []string{"A", "B"})
	c.Check(string(a.Row(0)), check.Equals, "MK-PG")
}

func contains(args []string, want string) bool {
	for _, a := range args {
		if a == want {
			return true
		}
	}
	return false
}

func (s *S) TestBuilders(c *check.C) {
	cmd, err := ClustalW{InFile: "in.fa", Align: true, Output: "FASTA", OutFile: "out.fa"}.BuildCommand()
	c.Assert(err, check.IsNil)
	c.Check(cmd.Args[0], check.Equals, "clustalw2")
	for _, a := range []string{"-INFILE=in.fa", "-ALIGN", "-OUTPUT=FASTA", "-OUTFILE=out.fa"} {
		c.Check(contains(cmd.Args, a), check.Equals, true, check.Commentf("missing %s in %q", a, cmd.Args))
	}
	c.Check(contains(cmd.Args, "-QUIET"), check.Equals, false)

	cmd, err = TCoffeeCmd{InFile: "in.fa", Output: "fasta_aln", Quiet: true}.BuildCommand()
	c.Assert(err, check.IsNil)
	c.Check(cmd.Args[0], check.Equals, "t_coffee")
	for _, a := range []string{"-infile=in.fa", "-output=fasta_aln", "-quiet"} {
		c.Check(contains(cmd.Args, a), check.Equals, true, check.Commentf("missing %s in %q", a, cmd.Args))
	}

	_, err = ClustalW{}.BuildCommand()
	c.Check(err, check.Equals, ErrMissingRequired)
	_, err = TCoffeeCmd{}.BuildCommand()
	c.Check(err, check.Equals, ErrMissingRequired)
}

func (s *S) TestUnavailable(c *check.C) {
	_, err := NewAligner(Clustalw, Options{Exec: filepath.Join(c.MkDir(), "clustalw2")})
	c.Check(errs.KindOf(err), check.Equals, errs.AlignerUnavailable)
	c.Check(err, check.ErrorMatches, `.*clustalw.*`)
}

func script(c *check.C, name, body string) string {
	if _, err := os.Stat("/bin/sh"); err != nil {
		c.Skip("no /bin/sh")
	}
	path := filepath.Join(c.MkDir(), name)
	err := os.WriteFile(path, []byte("#!/bin/sh\n"+body), 0o755)
	c.Assert(err, check.IsNil)
	return path
}

// copyAligner stands in for clustalw2 by copying its input to its output.
const copyAligner = `for a in "$@"; do
	case "$a" in
	-INFILE=*) in="${a#-INFILE=}";;
	-OUTFILE=*) out="${a#-OUTFILE=}";;
	esac
done
cp "$in" "$out"
`

func (s *S) TestAlignExternal(c *check.C) {
	exe := script(c, "clustalw2", copyAligner)
	al, err := NewAligner(Clustalw, Options{Exec: exe, TempDir: c.MkDir()})
	c.Assert(err, check.IsNil)
	c.Check(al.Kind(), check.Equals, Clustalw)
	a, err := al.Align(context.Background(), []*linear.Seq{prot("A", "MKPG"), prot("B", "MKLG")})
	c.Assert(err, check.IsNil)
	c.Check(a.IDs(), check.DeepEquals, []string{"A", "B"})
	c.Check(string(a.Row(1)), check.Equals, "MKLG")
}

func (s *S) TestAlignStdout(c *check.C) {
	exe := script(c, "mafft", `for a in "$@"; do last="$a"; done
cat "$last"
`)
	al, err := NewAligner(Mafft, Options{Exec: exe, TempDir: c.MkDir()})
	c.Assert(err, check.IsNil)
	a, err := al.Align(context.Background(), []*linear.Seq{prot("A", "MKPG"), prot("B", "MKLG")})
	c.Assert(err, check.IsNil)
	c.Check(a.Rows(), check.Equals, 2)
}

func (s *S) TestAlignFailed(c *check.C) {
	exe := script(c, "t_coffee", "echo 'FATAL: no memory' >&2\nexit 3\n")
	al, err := NewAligner(TCoffee, Options{Exec: exe, TempDir: c.MkDir()})
	c.Assert(err, check.IsNil)
	_, err = al.Align(context.Background(), []*linear.Seq{prot("A", "MKPG"), prot("B", "MKLG")})
	c.Check(errs.KindOf(err), check.Equals, errs.AlignmentFailed)
	c.Check(err, check.ErrorMatches, `(?s).*FATAL: no memory.*`)
}

func (s *S) TestAlignNoOutput(c *check.C) {
	exe := script(c, "clustalw2", "exit 0\n")
	al, err := NewAligner(Clustalw, Options{Exec: exe, TempDir: c.MkDir()})
	c.Assert(err, check.IsNil)
	_, err = al.Align(context.Background(), []*linear.Seq{prot("A", "MKPG"), prot("B", "MKLG")})
	c.Check(errs.KindOf(err), check.Equals, errs.AlignmentFailed)
}
