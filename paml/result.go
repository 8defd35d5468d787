// Copyright ©2026 The bíogo Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package paml

import (
	"fmt"
	"strings"

	"gonum.org/v1/gonum/mat"
)

// Rate holds the estimates for one pair of sequences.
type Rate struct {
	DN    float64 // Non-synonymous substitutions per non-synonymous site.
	DS    float64 // Synonymous substitutions per synonymous site.
	Omega float64 // DN/DS.
	T     float64 // Divergence in nucleotide substitutions per codon.
	Kappa float64 // Transition/transversion ratio.
	S     float64 // Number of synonymous sites.
	N     float64 // Number of non-synonymous sites.
	LnL   float64 // Log likelihood, zero if not reported.
}

// Result is the pairwise rate matrix reported by a PAML program. Matrix
// indices follow the program's own sequence order given by Seqs, which need
// not match the order of the input alignment.
type Result struct {
	Program string
	Version string
	Seqs    []string

	dn, ds, omega *mat.SymDense
	t, kappa      *mat.SymDense
	s, n, lnL     *mat.SymDense
	set           []bool
}

func newResult(program, version string, seqs []string) *Result {
	n := len(seqs)
	return &Result{
		Program: program,
		Version: version,
		Seqs:    seqs,
		dn:      mat.NewSymDense(n, nil),
		ds:      mat.NewSymDense(n, nil),
		omega:   mat.NewSymDense(n, nil),
		t:       mat.NewSymDense(n, nil),
		kappa:   mat.NewSymDense(n, nil),
		s:       mat.NewSymDense(n, nil),
		n:       mat.NewSymDense(n, nil),
		lnL:     mat.NewSymDense(n, nil),
		set:     make([]bool, n*n),
	}
}

func (r *Result) setRate(i, j int, v Rate) {
	r.dn.SetSym(i, j, v.DN)
	r.ds.SetSym(i, j, v.DS)
	r.omega.SetSym(i, j, v.Omega)
	r.t.SetSym(i, j, v.T)
	r.kappa.SetSym(i, j, v.Kappa)
	r.s.SetSym(i, j, v.S)
	r.n.SetSym(i, j, v.N)
	r.lnL.SetSym(i, j, v.LnL)
	r.set[i*len(r.Seqs)+j] = true
	r.set[j*len(r.Seqs)+i] = true
}

// Len returns the number of sequences in the result.
func (r *Result) Len() int { return len(r.Seqs) }

// Has returns whether the pair (i, j) has been estimated.
func (r *Result) Has(i, j int) bool {
	n := len(r.Seqs)
	if i < 0 || j < 0 || i >= n || j >= n {
		return false
	}
	return r.set[i*n+j]
}

// Rate returns the estimates for the pair (i, j) in the program's order.
func (r *Result) Rate(i, j int) Rate {
	return Rate{
		DN:    r.dn.At(i, j),
		DS:    r.ds.At(i, j),
		Omega: r.omega.At(i, j),
		T:     r.t.At(i, j),
		Kappa: r.kappa.At(i, j),
		S:     r.s.At(i, j),
		N:     r.n.At(i, j),
		LnL:   r.lnL.At(i, j),
	}
}

// DN returns the matrix of non-synonymous rates.
func (r *Result) DN() mat.Symmetric { return r.dn }

// DS returns the matrix of synonymous rates.
func (r *Result) DS() mat.Symmetric { return r.ds }

// Omega returns the matrix of dN/dS ratios.
func (r *Result) Omega() mat.Symmetric { return r.omega }

// Index returns the program's index for the sequence id, or -1.
func (r *Result) Index(id string) int {
	for i, s := range r.Seqs {
		if s == id {
			return i
		}
	}
	return -1
}

func (r *Result) complete() error {
	var missing []string
	for i := range r.Seqs {
		for j := i + 1; j < len(r.Seqs); j++ {
			if !r.Has(i, j) {
				missing = append(missing, fmt.Sprintf("%s/%s", r.Seqs[i], r.Seqs[j]))
			}
		}
	}
	if missing != nil {
		return fmt.Errorf("%s output is missing %d pairs: %s", r.Program, len(missing), strings.Join(missing, ", "))
	}
	return nil
}

// NewResult returns a Result for the named program over seqs with all
// pairs taken from rates, which must be indexed by the program's order and
// be at least upper triangular. It is intended for estimators that do not
// run a PAML program.
func NewResult(program, version string, seqs []string, rates [][]Rate) (*Result, error) {
	if len(seqs) < 2 {
		return nil, fmt.Errorf("paml: need at least 2 sequences, have %d", len(seqs))
	}
	if len(rates) != len(seqs) {
		return nil, fmt.Errorf("paml: rate matrix has %d rows for %d sequences", len(rates), len(seqs))
	}
	r := newResult(program, version, seqs)
	for i := range seqs {
		if len(rates[i]) != len(seqs) {
			return nil, fmt.Errorf("paml: rate matrix row %d has %d columns for %d sequences", i, len(rates[i]), len(seqs))
		}
		for j := i + 1; j < len(seqs); j++ {
			r.setRate(i, j, rates[i][j])
		}
	}
	return r, nil
}
