// Copyright ©2026 The bíogo Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

// kaks computes pairwise non-synonymous (Ka) and synonymous (Ks)
// substitution rates for a set of coding sequences.
//
// The coding sequences are translated and the proteins aligned with an
// external aligner. The protein alignment is projected back onto the codons
// and the rates are estimated with PAML's codeml or yn00. The result is
// written as a tab-separated table with one row per pair of sequences.
package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"io"
	"log"
	"os"
	"os/signal"
	"path/filepath"
	"syscall"
	"time"

	"github.com/biogo/kaks/errs"
	"github.com/biogo/kaks/msa"
	"github.com/biogo/kaks/paml"
	"github.com/biogo/kaks/pipeline"
	"github.com/biogo/kaks/report"
	"github.com/biogo/kaks/seqload"
)

const doc = `Usage: kaks -i <cdna file> [options]

kaks aligns the translations of a set of coding sequences, projects the
protein alignment onto the codons and estimates Ka, Ks and Ka/Ks for every
pair of sequences with PAML.

Output columns:
	SEQ1 SEQ2 Ka Ks Ka/Ks PROT_PERCENTID CDNA_PERCENTID

Aligners (-msa): clustalw, tcoffee, muscle, mafft.
Estimators (-kaks): codeml, yn00.

Errors are reported on stderr. The exit status is 0 unless -strict is given.

Options:
`

type debug struct{ *log.Logger }

func (d debug) Printf(format string, v ...interface{}) {
	if d.Logger != nil {
		d.Logger.Printf(format, v...)
	}
}

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	status := run(ctx, os.Args[1:], os.Stdout, os.Stderr)
	if ctx.Err() != nil && status == 0 {
		status = 130
	}
	stop()
	os.Exit(status)
}

func run(ctx context.Context, args []string, stdout, stderr io.Writer) int {
	var (
		in, out, format string
		msaName         string
		kaksName        string
		plotName        string
		tmp             string
		verbose, help   bool
		keep, strict    bool
		timeout         time.Duration
	)
	fs := flag.NewFlagSet("kaks", flag.ContinueOnError)
	fs.SetOutput(stderr)
	fs.StringVar(&in, "i", "", "Filename of cDNA sequences (required).")
	fs.StringVar(&in, "input", "", "Same as -i.")
	fs.StringVar(&format, "f", "fasta", "Input format: fasta, fastq, genbank or auto.")
	fs.StringVar(&format, "format", "fasta", "Same as -f.")
	fs.StringVar(&out, "o", "", "Filename for output. Defaults to stdout.")
	fs.StringVar(&out, "output", "", "Same as -o.")
	fs.StringVar(&msaName, "msa", "clustalw", "Protein aligner.")
	fs.StringVar(&kaksName, "kaks", "codeml", "Rate estimator.")
	fs.BoolVar(&verbose, "v", false, "Verbose output from the external programs.")
	fs.BoolVar(&verbose, "verbose", false, "Same as -v.")
	fs.BoolVar(&help, "h", false, "Print this message.")
	fs.BoolVar(&help, "help", false, "Same as -h.")
	fs.DurationVar(&timeout, "timeout", 0, "Time limit for each external program (0 for none).")
	fs.StringVar(&plotName, "plot", "", "Filename for a Ka against Ks plot (.png, .svg, .pdf or .eps).")
	fs.StringVar(&tmp, "tmp", "", "Directory for temporary files. Defaults to the system directory.")
	fs.BoolVar(&keep, "keep", false, "Keep temporary files.")
	fs.BoolVar(&strict, "strict", false, "Exit with a non-zero status on error.")
	fs.Usage = func() {
		fmt.Fprint(fs.Output(), doc)
		fs.PrintDefaults()
	}

	logger := log.New(stderr, "kaks: ", 0)
	fail := func(err error) int {
		logger.Print(err)
		if strict {
			return errs.KindOf(err).ExitCode()
		}
		return 0
	}

	err := fs.Parse(args)
	if err == flag.ErrHelp {
		return 0
	}
	if err != nil {
		return fail(errs.Wrap(errs.Usage, "kaks", err, ""))
	}
	if help {
		fs.SetOutput(stdout)
		fs.Usage()
		return 0
	}
	if in == "" {
		fs.Usage()
		return fail(errs.New(errs.Usage, "kaks", "no input file given"))
	}
	if fs.NArg() != 0 {
		return fail(errs.New(errs.Usage, "kaks", "unexpected arguments: %q", fs.Args()))
	}

	inFormat, err := seqload.ParseFormat(format)
	if err != nil {
		return fail(err)
	}
	mk, err := msa.ParseKind(msaName)
	if err != nil {
		return fail(err)
	}
	ek, err := paml.ParseKind(kaksName)
	if err != nil {
		return fail(err)
	}

	aligner, err := msa.NewAligner(mk, msa.Options{TempDir: tmp, Keep: keep, Verbose: verbose, Log: stderr})
	if err != nil {
		return fail(err)
	}
	estimator, err := paml.NewEstimator(ek, paml.Options{TempDir: tmp, Keep: keep, Verbose: verbose, Log: stderr})
	if err != nil {
		return fail(err)
	}

	var bug debug
	if verbose {
		bug.Logger = logger
	}
	p := pipeline.Pipeline{Aligner: aligner, Estimator: estimator, Timeout: timeout, Log: bug}
	res, err := p.Run(ctx, in, inFormat)
	if err != nil {
		return fail(err)
	}

	sum := report.Summarize(res.Rows)
	bug.Printf("%d pairs: mean Ka %.4g (sd %.4g), mean Ks %.4g (sd %.4g), mean Ka/Ks %.4g (sd %.4g)",
		sum.Pairs, sum.MeanKa, sum.StdKa, sum.MeanKs, sum.StdKs, sum.MeanOmega, sum.StdOmega)

	err = write(out, stdout, res.Rows)
	if err != nil {
		return fail(errs.Wrap(errs.Other, "kaks", err, "writing report"))
	}
	if plotName != "" {
		err = report.Plot(res.Rows, filepath.Base(in), plotName)
		if err != nil {
			return fail(errs.Wrap(errs.Other, "kaks", err, "writing plot"))
		}
		bug.Printf("wrote plot to %s", plotName)
	}
	return 0
}

// write writes rows to the named file, or to stdout if name is empty.
// A closed stdout is not an error.
func write(name string, stdout io.Writer, rows []report.Row) error {
	if name == "" {
		err := report.Write(stdout, rows)
		if isBrokenPipe(err) {
			return nil
		}
		return err
	}
	f, err := os.Create(name)
	if err != nil {
		return err
	}
	err = report.Write(f, rows)
	if cerr := f.Close(); err == nil {
		err = cerr
	}
	return err
}

func isBrokenPipe(err error) bool {
	return err != nil && (errors.Is(err, syscall.EPIPE) || errors.Is(err, io.ErrClosedPipe))
}
