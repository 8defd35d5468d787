// Copyright ©2026 The bíogo Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package paml

import (
	"bufio"
	"fmt"
	"io"
	"sort"
)

// param is a control file setting.
type param struct {
	key, value string
}

// control is an ordered set of control file settings.
type control []param

// set sets key to value, replacing an existing setting.
func (c control) set(key, value string) control {
	for i, p := range c {
		if p.key == key {
			c[i].value = value
			return c
		}
	}
	return append(c, param{key: key, value: value})
}

// with returns a copy of c updated by the settings in over, applied in
// key order.
func (c control) with(over map[string]string) control {
	u := append(control(nil), c...)
	keys := make([]string, 0, len(over))
	for k := range over {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	for _, k := range keys {
		u = u.set(k, over[k])
	}
	return u
}

func (c control) writeTo(w io.Writer) error {
	bw := bufio.NewWriter(w)
	for _, p := range c {
		fmt.Fprintf(bw, "%14s = %s\n", p.key, p.value)
	}
	return bw.Flush()
}

func onOff(b bool) string {
	if b {
		return "1"
	}
	return "0"
}

// codemlControl returns the settings for pairwise codon likelihood
// estimation.
func codemlControl(seqfile, outfile string, verbose bool) control {
	noisy := "0"
	if verbose {
		noisy = "3"
	}
	return control{
		{"seqfile", seqfile},
		{"outfile", outfile},
		{"noisy", noisy},
		{"verbose", onOff(verbose)},
		{"runmode", "-2"},
		{"seqtype", "1"},
		{"CodonFreq", "2"},
		{"ndata", "1"},
		{"clock", "0"},
		{"aaDist", "0"},
		{"model", "0"},
		{"NSsites", "0"},
		{"icode", "0"},
		{"Mgene", "0"},
		{"fix_kappa", "0"},
		{"kappa", "2"},
		{"fix_omega", "0"},
		{"omega", ".4"},
		{"fix_alpha", "1"},
		{"alpha", "0"},
		{"Malpha", "0"},
		{"ncatG", "8"},
		{"getSE", "0"},
		{"RateAncestor", "0"},
		{"Small_Diff", ".5e-6"},
		{"cleandata", "0"},
		{"method", "0"},
	}
}

// yn00Control returns the settings for the Yang and Nielsen approximate
// method.
func yn00Control(seqfile, outfile string, verbose bool) control {
	return control{
		{"seqfile", seqfile},
		{"outfile", outfile},
		{"verbose", onOff(verbose)},
		{"icode", "0"},
		{"weighting", "0"},
		{"commonf3x4", "0"},
		{"ndata", "1"},
	}
}
