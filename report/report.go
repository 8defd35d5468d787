// Copyright ©2026 The bíogo Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

// Package report formats pairwise Ka/Ks estimates with the percent identity
// of the underlying protein and cDNA alignments.
package report

import (
	"bufio"
	"fmt"
	"io"
	"strconv"
	"strings"

	"github.com/biogo/kaks/errs"
	"github.com/biogo/kaks/msa"
	"github.com/biogo/kaks/paml"
)

// Header is the column header of a report.
var Header = []string{"SEQ1", "SEQ2", "Ka", "Ks", "Ka/Ks", "PROT_PERCENTID", "CDNA_PERCENTID"}

// Row is the result for one pair of sequences.
type Row struct {
	Seq1, Seq2 string
	DN, DS     float64
	Omega      float64
	ProtID     float64 // Percent identity of the protein pair.
	CDNAID     float64 // Percent identity of the cDNA pair.
}

// Build returns a row for every pair i < j in the estimator's sequence
// order. Sequences are found in the alignments by name since the estimator
// may not keep the alignment order.
func Build(res *paml.Result, prot, cdna *msa.Alignment) ([]Row, error) {
	n := res.Len()
	pp := make([]int, n)
	cp := make([]int, n)
	for i, id := range res.Seqs {
		pp[i] = prot.Index(id)
		cp[i] = cdna.Index(id)
		if pp[i] < 0 || cp[i] < 0 {
			return nil, errs.New(errs.ProjectionMismatch, "report", "%s sequence %q is not in the alignment", res.Program, id)
		}
	}

	rows := make([]Row, 0, n*(n-1)/2)
	for i := 0; i < n; i++ {
		for j := i + 1; j < n; j++ {
			r := res.Rate(i, j)
			rows = append(rows, Row{
				Seq1:   cdna.ID(cp[i]),
				Seq2:   cdna.ID(cp[j]),
				DN:     r.DN,
				DS:     r.DS,
				Omega:  r.Omega,
				ProtID: Identity(prot.Row(pp[i]), prot.Row(pp[j])),
				CDNAID: Identity(cdna.Row(cp[i]), cdna.Row(cp[j])),
			})
		}
	}
	return rows, nil
}

func isLetter(b byte) bool { return ('A' <= b && b <= 'Z') || ('a' <= b && b <= 'z') }

func upper(b byte) byte {
	if 'a' <= b && b <= 'z' {
		return b - 'a' + 'A'
	}
	return b
}

// Identity returns the percentage of the columns of the pairwise alignment
// of a and b that hold the same letter in both sequences. Gap columns count
// toward the alignment length but never match. Case is ignored. Identity
// returns 0 for an empty alignment.
func Identity(a, b []byte) float64 {
	n := len(a)
	if len(b) > n {
		n = len(b)
	}
	if n == 0 {
		return 0
	}
	var same int
	for i := 0; i < len(a) && i < len(b); i++ {
		if isLetter(a[i]) && upper(a[i]) == upper(b[i]) {
			same++
		}
	}
	return 100 * float64(same) / float64(n)
}

// Fields returns the text fields of the row.
func (r Row) Fields() []string {
	return []string{
		r.Seq1,
		r.Seq2,
		formatRate(r.DN),
		formatRate(r.DS),
		formatRate(r.Omega),
		fmt.Sprintf("%.2f", r.ProtID),
		fmt.Sprintf("%.2f", r.CDNAID),
	}
}

func formatRate(v float64) string { return strconv.FormatFloat(v, 'f', -1, 64) }

// Write writes the header and rows to w as tab-separated text.
func Write(w io.Writer, rows []Row) error {
	bw := bufio.NewWriter(w)
	fmt.Fprintln(bw, strings.Join(Header, "\t"))
	for _, r := range rows {
		fmt.Fprintln(bw, strings.Join(r.Fields(), "\t"))
	}
	return bw.Flush()
}
