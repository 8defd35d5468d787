// Copyright ©2026 The bíogo Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package paml

import (
	"bufio"
	"bytes"
	"fmt"
	"io"
	"strings"

	"github.com/biogo/kaks/msa"
)

// WritePhylip writes a in sequential PHYLIP format as read by PAML: a
// header line giving the number of sequences and the alignment length, then
// one line per sequence with the name separated from the sequence by two
// spaces.
func WritePhylip(w io.Writer, a *msa.Alignment) error {
	bw := bufio.NewWriter(w)
	fmt.Fprintf(bw, " %d %d\n", a.Rows(), a.Len())
	for i := 0; i < a.Rows(); i++ {
		id := a.ID(i)
		if id == "" || strings.ContainsAny(id, " \t\r\n") {
			return fmt.Errorf("paml: sequence name %q cannot be written to PHYLIP", id)
		}
		fmt.Fprintf(bw, "%s  %s\n", id, bytes.ToUpper(a.Row(i)))
	}
	return bw.Flush()
}
