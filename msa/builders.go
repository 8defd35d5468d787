// Copyright ©2026 The bíogo Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package msa

import (
	"errors"
	"os/exec"

	"github.com/biogo/external"
)

// ErrMissingRequired is returned by command builders when a required
// argument is not set.
var ErrMissingRequired = errors.New("msa: missing required argument")

// ClustalW is a command builder for ClustalW 2.
type ClustalW struct {
	// Usage: clustalw2 -INFILE=<file> -ALIGN -OUTPUT=FASTA -OUTFILE=<file>
	Cmd string `buildarg:"{{if .}}{{.}}{{else}}clustalw2{{end}}"` // clustalw2

	InFile   string `buildarg:"{{if .}}-INFILE={{.}}{{end}}"`   // -INFILE=<file>
	Align    bool   `buildarg:"{{if .}}-ALIGN{{end}}"`          // -ALIGN
	Type     string `buildarg:"{{if .}}-TYPE={{.}}{{end}}"`     // -TYPE=PROTEIN|DNA
	Output   string `buildarg:"{{if .}}-OUTPUT={{.}}{{end}}"`   // -OUTPUT=FASTA|GCG|GDE|PHYLIP|PIR|NEXUS
	OutFile  string `buildarg:"{{if .}}-OUTFILE={{.}}{{end}}"`  // -OUTFILE=<file>
	OutOrder string `buildarg:"{{if .}}-OUTORDER={{.}}{{end}}"` // -OUTORDER=INPUT|ALIGNED
	Quiet    bool   `buildarg:"{{if .}}-QUIET{{end}}"`          // -QUIET
}

// BuildCommand returns an exec.Cmd built from the parameters in c.
func (c ClustalW) BuildCommand() (*exec.Cmd, error) {
	if c.InFile == "" {
		return nil, ErrMissingRequired
	}
	cl := external.Must(external.Build(c))
	return exec.Command(cl[0], cl[1:]...), nil
}

// TCoffeeCmd is a command builder for T-Coffee.
type TCoffeeCmd struct {
	// Usage: t_coffee -infile=<file> -output=fasta_aln -outfile=<file>
	Cmd string `buildarg:"{{if .}}{{.}}{{else}}t_coffee{{end}}"` // t_coffee

	InFile  string `buildarg:"{{if .}}-infile={{.}}{{end}}"`  // -infile=<file>
	Type    string `buildarg:"{{if .}}-type={{.}}{{end}}"`    // -type=protein|dna
	Output  string `buildarg:"{{if .}}-output={{.}}{{end}}"`  // -output=fasta_aln|clustalw_aln|...
	OutFile string `buildarg:"{{if .}}-outfile={{.}}{{end}}"` // -outfile=<file>
	Quiet   bool   `buildarg:"{{if .}}-quiet{{end}}"`         // -quiet
}

// BuildCommand returns an exec.Cmd built from the parameters in t.
func (t TCoffeeCmd) BuildCommand() (*exec.Cmd, error) {
	if t.InFile == "" {
		return nil, ErrMissingRequired
	}
	cl := external.Must(external.Build(t))
	return exec.Command(cl[0], cl[1:]...), nil
}
