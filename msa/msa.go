// Copyright ©2026 The bíogo Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

// Package msa runs external multiple sequence aligners over protein
// sequences and holds the resulting alignments.
//
// Four aligners are supported: ClustalW, T-Coffee, MUSCLE and MAFFT. All are
// run with FASTA output and behave identically from the caller's point of
// view.
package msa

import (
	"bytes"
	"context"
	"fmt"
	"io"
	"os"
	"os/exec"
	"path/filepath"
	"strings"

	"github.com/biogo/biogo/alphabet"
	"github.com/biogo/biogo/io/seqio"
	"github.com/biogo/biogo/io/seqio/fasta"
	"github.com/biogo/biogo/seq/linear"
	"github.com/biogo/external/mafft"
	"github.com/biogo/external/muscle"

	"github.com/biogo/kaks/errs"
)

// Kind is an aligner backend.
type Kind int

const (
	Clustalw Kind = iota
	TCoffee
	Muscle
	Mafft
)

var kinds = [...]struct {
	name  string
	execs []string
}{
	Clustalw: {"clustalw", []string{"clustalw2", "clustalw"}},
	TCoffee:  {"tcoffee", []string{"t_coffee"}},
	Muscle:   {"muscle", []string{"muscle"}},
	Mafft:    {"mafft", []string{"mafft"}},
}

func (k Kind) String() string {
	if k < 0 || int(k) >= len(kinds) {
		return fmt.Sprintf("aligner(%d)", int(k))
	}
	return kinds[k].name
}

// Executables returns the program names searched for the kind, in order.
func (k Kind) Executables() []string {
	if k < 0 || int(k) >= len(kinds) {
		return nil
	}
	return append([]string(nil), kinds[k].execs...)
}

// ParseKind returns the aligner selected by s. Selection is by
// case-insensitive substring so "clustalw2" and "ClustalW" both select
// Clustalw.
func ParseKind(s string) (Kind, error) {
	l := strings.ToLower(s)
	switch {
	case strings.Contains(l, "clus"):
		return Clustalw, nil
	case strings.Contains(l, "tcof"), strings.Contains(l, "t_cof"):
		return TCoffee, nil
	case strings.Contains(l, "musc"):
		return Muscle, nil
	case strings.Contains(l, "mafft"):
		return Mafft, nil
	}
	return 0, errs.New(errs.Usage, "msa", "unknown aligner %q: want clustalw, tcoffee, muscle or mafft", s)
}

// Options holds aligner run options.
type Options struct {
	// Exec is the aligner executable. If empty the
	// kind's executables are searched for in PATH.
	Exec string

	// TempDir is the parent of the working directory
	// of each run. If empty os.TempDir is used.
	TempDir string

	// Keep retains working directories after a run.
	Keep bool

	// Verbose runs the aligner without its quiet
	// option and copies its diagnostics to Log.
	Verbose bool
	Log     io.Writer
}

// Aligner aligns a set of protein sequences.
type Aligner interface {
	Kind() Kind
	Align(ctx context.Context, prots []*linear.Seq) (*Alignment, error)
}

// NewAligner returns an Aligner of kind k. It is an error for the aligner's
// executable to be missing.
func NewAligner(k Kind, o Options) (Aligner, error) {
	path, err := lookPath(k, o.Exec)
	if err != nil {
		return nil, err
	}
	return &runner{kind: k, path: path, opts: o}, nil
}

func lookPath(k Kind, exe string) (string, error) {
	names := k.Executables()
	if names == nil {
		return "", errs.New(errs.Usage, "msa", "invalid aligner kind %d", int(k))
	}
	if exe != "" {
		names = []string{exe}
	}
	for _, n := range names {
		path, err := exec.LookPath(n)
		if err == nil {
			return path, nil
		}
	}
	return "", errs.New(errs.AlignerUnavailable, k.String(),
		"cannot find %s executable (tried %s)", k, strings.Join(names, ", "))
}

// runner is an Aligner running an external program.
type runner struct {
	kind Kind
	path string
	opts Options
}

func (a *runner) Kind() Kind { return a.kind }

// Path returns the path of the aligner executable.
func (a *runner) Path() string { return a.path }

// Align writes prots to a temporary FASTA file, aligns them with the
// external program and returns the resulting protein alignment.
func (a *runner) Align(ctx context.Context, prots []*linear.Seq) (*Alignment, error) {
	op := a.kind.String()
	dir, err := os.MkdirTemp(a.opts.TempDir, "kaks-"+op+"-")
	if err != nil {
		return nil, errs.Wrap(errs.AlignmentFailed, op, err, "")
	}
	if !a.opts.Keep {
		defer os.RemoveAll(dir)
	}

	in := filepath.Join(dir, "in.fa")
	out := filepath.Join(dir, "out.fa")
	err = writeFasta(in, prots)
	if err != nil {
		return nil, errs.Wrap(errs.AlignmentFailed, op, err, "")
	}

	cmd, err := a.command(in, out)
	if err != nil {
		return nil, errs.Wrap(errs.AlignmentFailed, op, err, "")
	}
	cmd = bind(ctx, a.path, cmd)
	cmd.Dir = dir
	var stdout, stderr bytes.Buffer
	cmd.Stdout = &stdout
	cmd.Stderr = &stderr
	if a.opts.Verbose && a.opts.Log != nil {
		cmd.Stderr = io.MultiWriter(&stderr, a.opts.Log)
	}
	err = cmd.Run()
	if err != nil {
		return nil, errs.Wrap(errs.AlignmentFailed, op, err, "%s", diagnostic(&stderr, &stdout))
	}

	var r io.Reader
	if a.toStdout() {
		r = &stdout
	} else {
		f, err := os.Open(out)
		if err != nil {
			return nil, errs.Wrap(errs.AlignmentFailed, op, err, "no alignment produced: %s", diagnostic(&stderr, &stdout))
		}
		defer f.Close()
		r = f
	}
	aln, err := ReadFasta(r, "protein", alphabet.Protein)
	if err != nil {
		return nil, errs.Wrap(errs.AlignmentFailed, op, err, "")
	}
	if aln.Rows() != len(prots) {
		return nil, errs.New(errs.AlignmentFailed, op, "aligned %d of %d sequences", aln.Rows(), len(prots))
	}
	return aln, nil
}

func (a *runner) toStdout() bool { return a.kind == Muscle || a.kind == Mafft }

func (a *runner) command(in, out string) (*exec.Cmd, error) {
	quiet := !a.opts.Verbose
	switch a.kind {
	case Clustalw:
		return ClustalW{
			Cmd:      a.path,
			InFile:   in,
			Align:    true,
			Type:     "PROTEIN",
			Output:   "FASTA",
			OutFile:  out,
			OutOrder: "INPUT",
			Quiet:    quiet,
		}.BuildCommand()
	case TCoffee:
		return TCoffeeCmd{
			Cmd:     a.path,
			InFile:  in,
			Type:    "protein",
			Output:  "fasta_aln",
			OutFile: out,
			Quiet:   quiet,
		}.BuildCommand()
	case Muscle:
		return muscle.Muscle{InFile: in, Quiet: quiet}.BuildCommand()
	case Mafft:
		return mafft.Mafft{InFile: in, Auto: true, Quiet: quiet}.BuildCommand()
	}
	return nil, fmt.Errorf("no command for %v", a.kind)
}

// bind returns a copy of c running the program at path that is killed when
// ctx is done.
func bind(ctx context.Context, path string, c *exec.Cmd) *exec.Cmd {
	if ctx == nil {
		ctx = context.Background()
	}
	return exec.CommandContext(ctx, path, c.Args[1:]...)
}

// diagnostic returns the trimmed text of the first non-empty buffer.
func diagnostic(bufs ...*bytes.Buffer) string {
	for _, b := range bufs {
		if s := strings.TrimSpace(b.String()); s != "" {
			return s
		}
	}
	return "no diagnostic output"
}

func writeFasta(path string, ss []*linear.Seq) error {
	f, err := os.Create(path)
	if err != nil {
		return err
	}
	w := fasta.NewWriter(f, 60)
	for _, s := range ss {
		_, err = w.Write(s)
		if err != nil {
			f.Close()
			return fmt.Errorf("failed to write sequence %q: %v", s.Name(), err)
		}
	}
	return f.Close()
}

// ReadFasta reads an aligned FASTA stream into an Alignment using the
// provided alphabet.
func ReadFasta(r io.Reader, id string, alpha alphabet.Alphabet) (*Alignment, error) {
	sc := seqio.NewScanner(fasta.NewReader(r, linear.NewSeq("", nil, alpha)))
	var rows []*linear.Seq
	for sc.Next() {
		rows = append(rows, sc.Seq().(*linear.Seq))
	}
	if err := sc.Error(); err != nil {
		return nil, fmt.Errorf("failed during read: %v", err)
	}
	return New(id, rows)
}
