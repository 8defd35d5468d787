// Copyright ©2026 The bíogo Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

// Package pipeline chains sequence loading, translation, protein alignment,
// codon projection, rate estimation and reporting into a single forward pass.
package pipeline

import (
	"context"
	"fmt"
	"time"

	"github.com/biogo/kaks/codon"
	"github.com/biogo/kaks/errs"
	"github.com/biogo/kaks/msa"
	"github.com/biogo/kaks/paml"
	"github.com/biogo/kaks/report"
	"github.com/biogo/kaks/seqload"
	"github.com/biogo/kaks/translate"
)

// Printer is the logging interface used for progress messages.
// *log.Logger satisfies Printer.
type Printer interface {
	Printf(format string, v ...interface{})
}

// Pipeline holds the backends of a run.
type Pipeline struct {
	Aligner   msa.Aligner
	Estimator paml.Estimator

	// Timeout limits each external invocation.
	// Zero means no limit.
	Timeout time.Duration

	// Log receives progress messages if not nil.
	Log Printer
}

// Outcome is the product of a successful run.
type Outcome struct {
	Protein *msa.Alignment
	Codon   *msa.Alignment
	Result  *paml.Result
	Rows    []report.Row
}

func (p *Pipeline) logf(format string, v ...interface{}) {
	if p.Log != nil {
		p.Log.Printf(format, v...)
	}
}

func (p *Pipeline) bound(ctx context.Context) (context.Context, context.CancelFunc) {
	if p.Timeout > 0 {
		return context.WithTimeout(ctx, p.Timeout)
	}
	return context.WithCancel(ctx)
}

// Run reads the cDNA sequences in the named file and returns the pairwise
// rate report for them. No rows are returned if any stage fails.
func (p *Pipeline) Run(ctx context.Context, path string, format seqload.Format) (*Outcome, error) {
	if p.Aligner == nil || p.Estimator == nil {
		return nil, errs.New(errs.Usage, "pipeline", "missing backend")
	}
	if ctx == nil {
		ctx = context.Background()
	}

	nuc, err := seqload.Load(path, format)
	if err != nil {
		return nil, err
	}
	p.logf("read %d sequences from %s", len(nuc), path)

	prots, err := translate.Proteins(nuc)
	if err != nil {
		return nil, err
	}
	byID := seqload.Index(nuc)

	actx, cancel := p.bound(ctx)
	prot, err := p.Aligner.Align(actx, prots)
	err = stopped(actx, err)
	cancel()
	if err != nil {
		return nil, err
	}
	p.logf("%s alignment: %d sequences, %d columns", p.Aligner.Kind(), prot.Rows(), prot.Len())

	cdna, err := codon.Project(prot, byID)
	if err != nil {
		return nil, err
	}
	p.logf("codon alignment: %d columns", cdna.Len())

	ectx, cancel := p.bound(ctx)
	res, err := p.Estimator.Estimate(ectx, cdna)
	err = stopped(ectx, err)
	cancel()
	if err != nil {
		return nil, err
	}
	p.logf("%s version %s: %d sequences", res.Program, res.Version, res.Len())

	rows, err := report.Build(res, prot, cdna)
	if err != nil {
		return nil, err
	}
	return &Outcome{Protein: prot, Codon: cdna, Result: res, Rows: rows}, nil
}

// stopped annotates err with the reason ctx was done, if it is.
func stopped(ctx context.Context, err error) error {
	if err == nil || ctx.Err() == nil {
		return err
	}
	return fmt.Errorf("%w (%v)", err, ctx.Err())
}
