// Copyright ©2026 The bíogo Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package paml

import (
	"bufio"
	"fmt"
	"io"
	"math"
	"regexp"
	"strconv"
	"strings"
)

var (
	versionRE = regexp.MustCompile(`(?i)\bpaml\s+(?:version\s+)?([0-9][^\s,)]*)`)
	nsRE      = regexp.MustCompile(`\bns\s*=\s*(\d+)`)
	pairRE    = regexp.MustCompile(`^\s*(\d+)\s+\((.+?)\)\s+\.\.\.\s+(\d+)\s+\((.+)\)\s*$`)
	lnLRE     = regexp.MustCompile(`^\s*lnL\s*=\s*(\S+)`)
	ratesRE   = regexp.MustCompile(`\bt\s*=\s*(\S+)\s+S\s*=\s*(\S+)\s+N\s*=\s*(\S+)\s+dN/dS\s*=\s*(\S+)\s+dN\s*=\s*(\S+)\s+dS\s*=\s*(\S+)`)
)

func lines(r io.Reader) ([]string, error) {
	sc := bufio.NewScanner(r)
	sc.Buffer(make([]byte, 0, 64*1024), 16*1024*1024)
	var l []string
	for sc.Scan() {
		l = append(l, sc.Text())
	}
	return l, sc.Err()
}

func parseFloats(s ...string) ([]float64, error) {
	f := make([]float64, len(s))
	for i, v := range s {
		// C libraries print 0/0 as nan or -nan.
		switch strings.ToLower(v) {
		case "nan", "-nan", "+nan":
			f[i] = math.NaN()
			continue
		}
		var err error
		f[i], err = strconv.ParseFloat(v, 64)
		if err != nil {
			return nil, err
		}
	}
	return f, nil
}

func findVersion(l []string) string {
	for _, s := range l {
		if m := versionRE.FindStringSubmatch(s); m != nil {
			return m[1]
		}
	}
	return ""
}

func findNS(l []string) int {
	for _, s := range l {
		if m := nsRE.FindStringSubmatch(s); m != nil {
			n, _ := strconv.Atoi(m[1])
			return n
		}
	}
	return 0
}

// nameTable collects sequence names by 1-based index.
type nameTable map[int]string

func (t nameTable) add(i int, name string) error {
	if old, ok := t[i]; ok && old != name {
		return fmt.Errorf("sequence %d named both %q and %q", i, old, name)
	}
	t[i] = name
	return nil
}

func (t nameTable) names(n int) ([]string, error) {
	if n == 0 {
		for i := range t {
			if i > n {
				n = i
			}
		}
	}
	if n < 2 {
		return nil, fmt.Errorf("found %d sequences", n)
	}
	seqs := make([]string, n)
	for i := range seqs {
		name, ok := t[i+1]
		if !ok {
			return nil, fmt.Errorf("no name for sequence %d", i+1)
		}
		seqs[i] = name
	}
	return seqs, nil
}

// ParseCodeml parses the main output file of a codeml pairwise run
// (runmode = -2, seqtype = 1).
func ParseCodeml(r io.Reader) (*Result, error) {
	l, err := lines(r)
	if err != nil {
		return nil, err
	}

	type pair struct {
		i, j int
		rate Rate
	}
	var (
		names   = make(nameTable)
		pairs   []pair
		cur     *pair
		wantPar bool
		inPairs bool
	)
	for n, s := range l {
		if !inPairs {
			inPairs = strings.HasPrefix(strings.TrimSpace(s), "pairwise comparison")
			continue
		}
		if m := pairRE.FindStringSubmatch(s); m != nil {
			i, _ := strconv.Atoi(m[1])
			j, _ := strconv.Atoi(m[3])
			if i < 1 || j < 1 || i == j {
				return nil, fmt.Errorf("codeml: line %d: bad pair %d/%d", n+1, i, j)
			}
			if err := names.add(i, m[2]); err != nil {
				return nil, fmt.Errorf("codeml: line %d: %v", n+1, err)
			}
			if err := names.add(j, m[4]); err != nil {
				return nil, fmt.Errorf("codeml: line %d: %v", n+1, err)
			}
			pairs = append(pairs, pair{i: i, j: j})
			cur = &pairs[len(pairs)-1]
			wantPar = false
			continue
		}
		if cur == nil {
			continue
		}
		if m := lnLRE.FindStringSubmatch(s); m != nil {
			v, err := strconv.ParseFloat(m[1], 64)
			if err != nil {
				return nil, fmt.Errorf("codeml: line %d: bad lnL: %v", n+1, err)
			}
			cur.rate.LnL = v
			wantPar = true
			continue
		}
		if m := ratesRE.FindStringSubmatch(s); m != nil {
			v, err := parseFloats(m[1:]...)
			if err != nil {
				return nil, fmt.Errorf("codeml: line %d: bad rates: %v", n+1, err)
			}
			cur.rate.T, cur.rate.S, cur.rate.N = v[0], v[1], v[2]
			cur.rate.Omega, cur.rate.DN, cur.rate.DS = v[3], v[4], v[5]
			cur = nil
			wantPar = false
			continue
		}
		// The line following lnL holds the t, kappa and omega estimates.
		if f := strings.Fields(s); wantPar && len(f) == 3 {
			if v, err := parseFloats(f...); err == nil {
				cur.rate.Kappa = v[1]
			}
			wantPar = false
		}
	}
	if !inPairs {
		return nil, fmt.Errorf("codeml: no pairwise comparison section")
	}

	seqs, err := names.names(findNS(l))
	if err != nil {
		return nil, fmt.Errorf("codeml: %v", err)
	}
	res := newResult("codeml", findVersion(l), seqs)
	for _, p := range pairs {
		if p.i > len(seqs) || p.j > len(seqs) {
			return nil, fmt.Errorf("codeml: pair %d/%d out of range for %d sequences", p.i, p.j, len(seqs))
		}
		res.setRate(p.i-1, p.j-1, p.rate)
	}
	return res, res.complete()
}

// ParseYn00 parses the main output file of yn00, taking rates from the
// Yang & Nielsen (2000) section.
func ParseYn00(r io.Reader) (*Result, error) {
	l, err := lines(r)
	if err != nil {
		return nil, err
	}

	// Sequence names are the row labels of the Nei & Gojobori matrix.
	names := make(nameTable)
	for n := 0; n < len(l); n++ {
		if !strings.HasPrefix(strings.TrimSpace(l[n]), "Nei & Gojobori 1986") {
			continue
		}
		n++
		for ; n < len(l); n++ {
			s := strings.TrimSpace(l[n])
			if s != "" && !strings.HasPrefix(s, "(") && !strings.HasPrefix(s, "Use runmode") {
				break
			}
		}
		for i := 1; n < len(l); n, i = n+1, i+1 {
			f := strings.Fields(l[n])
			if len(f) == 0 {
				break
			}
			if err := names.add(i, f[0]); err != nil {
				return nil, fmt.Errorf("yn00: line %d: %v", n+1, err)
			}
		}
		break
	}
	if len(names) == 0 {
		return nil, fmt.Errorf("yn00: no Nei & Gojobori section")
	}
	seqs, err := names.names(findNS(l))
	if err != nil {
		return nil, fmt.Errorf("yn00: %v", err)
	}
	res := newResult("yn00", findVersion(l), seqs)

	var inYN, inTable, found bool
	for n, s := range l {
		t := strings.TrimSpace(s)
		switch {
		case strings.HasPrefix(t, "(B) Yang & Nielsen"):
			inYN, found = true, true
			continue
		case !inYN:
			continue
		case strings.HasPrefix(t, "(C)"):
			inYN = false
			continue
		case strings.HasPrefix(t, "seq. seq."):
			inTable = true
			continue
		case !inTable:
			continue
		}
		f := strings.Fields(s)
		if len(f) < 13 {
			continue
		}
		i, erri := strconv.Atoi(f[0])
		j, errj := strconv.Atoi(f[1])
		if erri != nil || errj != nil {
			continue
		}
		if i < 1 || j < 1 || i > len(seqs) || j > len(seqs) || i == j {
			return nil, fmt.Errorf("yn00: line %d: bad pair %d/%d", n+1, i, j)
		}
		v, err := parseFloats(f[2], f[3], f[4], f[5], f[6], f[7], f[10])
		if err != nil {
			return nil, fmt.Errorf("yn00: line %d: bad rates: %v", n+1, err)
		}
		res.setRate(i-1, j-1, Rate{S: v[0], N: v[1], T: v[2], Kappa: v[3], Omega: v[4], DN: v[5], DS: v[6]})
	}
	if !found {
		return nil, fmt.Errorf("yn00: no Yang & Nielsen section")
	}
	return res, res.complete()
}

// unsupported lists PAML releases with broken pairwise output.
var unsupported = []string{"3.12"}

// Supported returns whether results from the given PAML version can be used.
func Supported(version string) bool {
	for _, v := range unsupported {
		if version == v || strings.HasPrefix(version, v) && !isDigit(version[len(v)]) {
			return false
		}
	}
	return true
}

func isDigit(b byte) bool { return '0' <= b && b <= '9' }
