// Copyright ©2026 The bíogo Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

// Package paml runs the PAML programs codeml and yn00 to estimate pairwise
// non-synonymous and synonymous substitution rates for codon alignments,
// and parses their output.
package paml

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"os/exec"
	"path/filepath"
	"strings"

	"github.com/biogo/external"

	"github.com/biogo/kaks/errs"
	"github.com/biogo/kaks/msa"
)

// Kind is an estimator backend.
type Kind int

const (
	// Codeml estimates rates by maximum likelihood for
	// each pair of sequences (runmode = -2, seqtype = 1).
	Codeml Kind = iota
	// Yn00 uses the approximate method of Yang and
	// Nielsen (2000).
	Yn00
)

func (k Kind) String() string {
	switch k {
	case Codeml:
		return "codeml"
	case Yn00:
		return "yn00"
	}
	return fmt.Sprintf("estimator(%d)", int(k))
}

// ParseKind returns the estimator selected by s. Selection is by
// case-insensitive substring.
func ParseKind(s string) (Kind, error) {
	l := strings.ToLower(s)
	switch {
	case strings.Contains(l, "yn00"):
		return Yn00, nil
	case strings.Contains(l, "codeml"):
		return Codeml, nil
	}
	return 0, errs.New(errs.Usage, "paml", "unknown estimator %q: want codeml or yn00", s)
}

// Options holds estimator run options.
type Options struct {
	// Exec is the program executable. If empty the
	// program is searched for in PATH.
	Exec string

	// TempDir is the parent of the working directory
	// of each run. If empty os.TempDir is used.
	TempDir string

	// Keep retains working directories after a run.
	Keep bool

	// Params overrides or adds control file settings.
	Params map[string]string

	// Verbose requests verbose program output and
	// copies it to Log.
	Verbose bool
	Log     io.Writer
}

// Estimator estimates pairwise rates for a codon alignment.
type Estimator interface {
	Kind() Kind
	Estimate(ctx context.Context, aln *msa.Alignment) (*Result, error)
}

// NewEstimator returns an Estimator of kind k. It is an error for the
// program's executable to be missing.
func NewEstimator(k Kind, o Options) (Estimator, error) {
	if k != Codeml && k != Yn00 {
		return nil, errs.New(errs.Usage, "paml", "invalid estimator kind %d", int(k))
	}
	name := k.String()
	if o.Exec != "" {
		name = o.Exec
	}
	path, err := exec.LookPath(name)
	if err != nil {
		return nil, errs.Wrap(errs.EstimatorUnavailable, k.String(), err, "cannot find %s executable", k)
	}
	return &runner{kind: k, path: path, opts: o}, nil
}

// Command is a command builder for a PAML program reading a control file.
type Command struct {
	// Usage: codeml|yn00 <ctlfile>
	Cmd     string `buildarg:"{{.}}"`                 // codeml|yn00
	CtlFile string `buildarg:"{{if .}}{{.}}{{end}}"` // <ctlfile>
}

// BuildCommand returns an exec.Cmd built from the parameters in c.
func (c Command) BuildCommand() (*exec.Cmd, error) {
	if c.Cmd == "" || c.CtlFile == "" {
		return nil, errors.New("paml: missing required argument")
	}
	cl := external.Must(external.Build(c))
	return exec.Command(cl[0], cl[1:]...), nil
}

const (
	seqFile = "seqfile.txt"
	outFile = "results.txt"
)

// runner is an Estimator running a PAML program.
type runner struct {
	kind Kind
	path string
	opts Options
}

func (e *runner) Kind() Kind { return e.kind }

// Path returns the path of the program executable.
func (e *runner) Path() string { return e.path }

// Estimate runs the PAML program over aln in a temporary directory and
// returns the parsed pairwise results.
func (e *runner) Estimate(ctx context.Context, aln *msa.Alignment) (*Result, error) {
	op := e.kind.String()
	if aln.Rows() < 2 {
		return nil, errs.New(errs.EstimatorRun, op, "need at least 2 sequences, have %d", aln.Rows())
	}
	dir, err := os.MkdirTemp(e.opts.TempDir, "kaks-"+op+"-")
	if err != nil {
		return nil, errs.Wrap(errs.EstimatorRun, op, err, "")
	}
	if !e.opts.Keep {
		defer os.RemoveAll(dir)
	}

	err = writeFile(filepath.Join(dir, seqFile), func(w io.Writer) error { return WritePhylip(w, aln) })
	if err != nil {
		return nil, errs.Wrap(errs.EstimatorRun, op, err, "")
	}
	var ctl control
	switch e.kind {
	case Codeml:
		ctl = codemlControl(seqFile, outFile, e.opts.Verbose)
	case Yn00:
		ctl = yn00Control(seqFile, outFile, e.opts.Verbose)
	}
	ctl = ctl.with(e.opts.Params)
	ctlFile := op + ".ctl"
	err = writeFile(filepath.Join(dir, ctlFile), ctl.writeTo)
	if err != nil {
		return nil, errs.Wrap(errs.EstimatorRun, op, err, "")
	}

	cmd, err := Command{Cmd: e.path, CtlFile: ctlFile}.BuildCommand()
	if err != nil {
		return nil, errs.Wrap(errs.EstimatorRun, op, err, "")
	}
	if ctx == nil {
		ctx = context.Background()
	}
	cmd = exec.CommandContext(ctx, e.path, cmd.Args[1:]...)
	cmd.Dir = dir
	// Some PAML releases wait for a key press before exiting.
	cmd.Stdin = strings.NewReader("\n")
	var out bytes.Buffer
	cmd.Stdout = &out
	cmd.Stderr = &out
	if e.opts.Verbose && e.opts.Log != nil {
		cmd.Stdout = io.MultiWriter(&out, e.opts.Log)
		cmd.Stderr = cmd.Stdout
	}
	err = cmd.Run()
	if err != nil {
		return nil, errs.Wrap(errs.EstimatorRun, op, err, "%s", diagnostic(&out))
	}

	f, err := os.Open(filepath.Join(dir, outFile))
	if err != nil {
		return nil, errs.Wrap(errs.EstimatorRun, op, err, "no results: %s", diagnostic(&out))
	}
	defer f.Close()
	var res *Result
	switch e.kind {
	case Codeml:
		res, err = ParseCodeml(f)
	case Yn00:
		res, err = ParseYn00(f)
	}
	if err != nil {
		return nil, errs.Wrap(errs.EstimatorRun, op, err, "")
	}
	if !Supported(res.Version) {
		return nil, errs.New(errs.UnsupportedVersion, op,
			"PAML version %s has broken pairwise output, please upgrade", res.Version)
	}
	return res, nil
}

func writeFile(path string, fn func(io.Writer) error) error {
	f, err := os.Create(path)
	if err != nil {
		return err
	}
	err = fn(f)
	if err != nil {
		f.Close()
		return err
	}
	return f.Close()
}

func diagnostic(b *bytes.Buffer) string {
	s := strings.TrimSpace(b.String())
	if s == "" {
		return "no diagnostic output"
	}
	return s
}
