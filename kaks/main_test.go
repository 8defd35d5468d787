// Copyright ©2026 The bíogo Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package main

import (
	"bytes"
	"context"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"gopkg.in/check.v1"

	"github.com/biogo/kaks/errs"
)

func Test(t *testing.T) { check.TestingT(t) }

type S struct {
	path string
	bin  string
	in   string
}

var _ = check.Suite(&S{})

func (s *S) SetUpTest(c *check.C) {
	if _, err := os.Stat("/bin/sh"); err != nil {
		c.Skip("no /bin/sh")
	}
	s.path = os.Getenv("PATH")
	s.bin = c.MkDir()
	c.Assert(os.Setenv("PATH", s.bin+string(os.PathListSeparator)+"/usr/bin:/bin"), check.IsNil)

	s.in = filepath.Join(c.MkDir(), "abc.fa")
	err := os.WriteFile(s.in, []byte(`>A first
ATGAAACCCGGGTAA
>B
ATGAAACTCGGGTAA
>C
ATGAAGCCAGGC
`), 0o644)
	c.Assert(err, check.IsNil)
}

func (s *S) TearDownTest(c *check.C) {
	os.Setenv("PATH", s.path)
}

func (s *S) install(c *check.C, name, body string) {
	err := os.WriteFile(filepath.Join(s.bin, name), []byte("#!/bin/sh\n"+body), 0o755)
	c.Assert(err, check.IsNil)
}

const clustalw = `for a in "$@"; do
	case "$a" in
	-INFILE=*) in="${a#-INFILE=}";;
	-OUTFILE=*) out="${a#-OUTFILE=}";;
	esac
done
cp "$in" "$out"
`

func codeml(version string) string {
	return `cat > results.txt <<'END'
CODONML (in paml version ` + version + `, February 2020)  seqfile.txt
ns =   3  ls =  12

pairwise comparison, codon frequencies: F3x4.


2 (B) ... 1 (A)
lnL = -40.0
  0.10000  2.00000  0.50000

t= 0.1000  S=     8.0  N=    28.0  dN/dS=  0.5000  dN = 0.0300  dS = 0.0600


3 (C) ... 1 (A)
lnL = -41.0
  0.20000  1.50000  0.25000

t= 0.2000  S=     8.0  N=    28.0  dN/dS=  0.2500  dN = 0.0250  dS = 0.1000


3 (C) ... 2 (B)
lnL = -42.0
  0.30000  3.00000  1.00000

t= 0.3000  S=     8.0  N=    28.0  dN/dS=  1.0000  dN = 0.0700  dS = 0.0700
END
`
}

func (s *S) TestHelp(c *check.C) {
	for _, args := range [][]string{{"-h"}, {"--help"}, {"-help", "-i", "x"}} {
		var stdout, stderr bytes.Buffer
		status := run(context.Background(), args, &stdout, &stderr)
		c.Check(status, check.Equals, 0)
		c.Check(strings.HasPrefix(stdout.String(), "Usage: kaks"), check.Equals, true)
		c.Check(strings.Contains(stdout.String(), "-timeout"), check.Equals, true)
		c.Check(stderr.Len(), check.Equals, 0)
	}
}

func (s *S) TestNoInput(c *check.C) {
	var stdout, stderr bytes.Buffer
	c.Check(run(context.Background(), nil, &stdout, &stderr), check.Equals, 0)
	c.Check(strings.Contains(stderr.String(), "no input file"), check.Equals, true)
	c.Check(strings.Contains(stderr.String(), "Usage: kaks"), check.Equals, true)
	c.Check(run(context.Background(), []string{"-strict"}, &stdout, &stderr), check.Equals, errs.Usage.ExitCode())
	c.Check(stdout.Len(), check.Equals, 0)
}

func (s *S) TestRun(c *check.C) {
	s.install(c, "clustalw2", clustalw)
	s.install(c, "codeml", codeml("4.9j"))

	var stdout, stderr bytes.Buffer
	status := run(context.Background(), []string{"-i", s.in, "-tmp", c.MkDir()}, &stdout, &stderr)
	c.Assert(status, check.Equals, 0, check.Commentf("%s", stderr.String()))
	c.Check(stdout.String(), check.Equals, ""+
		"SEQ1\tSEQ2\tKa\tKs\tKa/Ks\tPROT_PERCENTID\tCDNA_PERCENTID\n"+
		"A\tB\t0.03\t0.06\t0.5\t75.00\t91.67\n"+
		"A\tC\t0.025\t0.1\t0.25\t100.00\t75.00\n"+
		"B\tC\t0.07\t0.07\t1\t75.00\t66.67\n",
	)
}

func (s *S) TestRunOutputFile(c *check.C) {
	s.install(c, "clustalw2", clustalw)
	s.install(c, "codeml", codeml("4.9j"))

	dir := c.MkDir()
	out := filepath.Join(dir, "kaks.tsv")
	plot := filepath.Join(dir, "kaks.png")
	var stdout, stderr bytes.Buffer
	status := run(context.Background(), []string{"--input", s.in, "--output", out, "-plot", plot, "-v"}, &stdout, &stderr)
	c.Assert(status, check.Equals, 0, check.Commentf("%s", stderr.String()))
	c.Check(stdout.Len(), check.Equals, 0)
	b, err := os.ReadFile(out)
	c.Assert(err, check.IsNil)
	c.Check(strings.Count(string(b), "\n"), check.Equals, 4)
	_, err = os.Stat(plot)
	c.Check(err, check.IsNil)
	c.Check(strings.Contains(stderr.String(), "3 pairs"), check.Equals, true)
}

func (s *S) TestMissingAligner(c *check.C) {
	s.install(c, "codeml", codeml("4.9j"))
	c.Assert(os.Setenv("PATH", s.bin), check.IsNil)

	out := filepath.Join(c.MkDir(), "kaks.tsv")
	var stdout, stderr bytes.Buffer
	status := run(context.Background(), []string{"-i", s.in, "-o", out}, &stdout, &stderr)
	c.Check(status, check.Equals, 0)
	c.Check(strings.Contains(stderr.String(), "clustalw"), check.Equals, true)
	_, err := os.Stat(out)
	c.Check(os.IsNotExist(err), check.Equals, true)

	stderr.Reset()
	status = run(context.Background(), []string{"-strict", "-i", s.in}, &stdout, &stderr)
	c.Check(status, check.Equals, errs.AlignerUnavailable.ExitCode())
	c.Check(stdout.Len(), check.Equals, 0)
}

func (s *S) TestBrokenVersion(c *check.C) {
	s.install(c, "clustalw2", clustalw)
	s.install(c, "codeml", codeml("3.12"))

	var stdout, stderr bytes.Buffer
	status := run(context.Background(), []string{"-i", s.in}, &stdout, &stderr)
	c.Check(status, check.Equals, 0)
	c.Check(stdout.Len(), check.Equals, 0)
	c.Check(stderr.String(), check.Matches, `(?s).*PAML version 3\.12.*upgrade.*`)

	status = run(context.Background(), []string{"-i", s.in, "-strict"}, &stdout, &stderr)
	c.Check(status, check.Equals, errs.UnsupportedVersion.ExitCode())
}

func (s *S) TestBadSelector(c *check.C) {
	var stdout, stderr bytes.Buffer
	status := run(context.Background(), []string{"-i", s.in, "-msa", "probcons", "-strict"}, &stdout, &stderr)
	c.Check(status, check.Equals, errs.Usage.ExitCode())
	c.Check(strings.Contains(stderr.String(), "probcons"), check.Equals, true)
}
