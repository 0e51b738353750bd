package bitstream

import (
	"bufio"
	"fmt"
	"io"

	"github.com/sarchlab/doda/doda"
)

// WriteText emits bs in the textual bitstream format: a "# Cluster N"
// header followed by PES_PER_CLUSTER 128-character binary words, one
// cluster's block separated from the next by a blank line.
func WriteText(w io.Writer, bs Bitstream) error {
	bw := bufio.NewWriter(w)

	for cluster := 0; cluster < doda.NumCluster; cluster++ {
		if _, err := fmt.Fprintf(bw, "# Cluster %d\n", cluster); err != nil {
			return err
		}
		for pe := 0; pe < doda.PESPerCluster; pe++ {
			if _, err := fmt.Fprintln(bw, bs[cluster][pe].String()); err != nil {
				return err
			}
		}
		if cluster != doda.NumCluster-1 {
			if _, err := fmt.Fprintln(bw); err != nil {
				return err
			}
		}
	}

	return bw.Flush()
}
