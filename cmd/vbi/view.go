package main

import (
	"bufio"
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/sounkou-bioinfo/vbi/internal/vbi"
)

func newViewCmd() *cobra.Command {
	var limit int64

	cmd := &cobra.Command{
		Use:   "view <index.vbi>",
		Short: "Print index entries",
		Long:  "Load a .vbi index (from a file or URL) and print its entries as record number, chromosome, position, and seek offset.",
		Example: `  vbi view sample.vcf.gz.vbi
  vbi view -n 20 sample.vcf.gz.vbi
  vbi view https://example.org/sample.vbi`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			ix, err := vbi.FetchIndex(args[0])
			if err != nil {
				return err
			}

			n := ix.RecordCount()
			if limit > 0 && limit < n {
				n = limit
			}

			w := bufio.NewWriter(os.Stdout)
			fmt.Fprintf(w, "# samples=%d records=%d chromosomes=%d\n",
				ix.SampleCount, ix.RecordCount(), len(ix.Chroms))
			for i := int64(0); i < n; i++ {
				fmt.Fprintf(w, "%d: %s\t%d\toffset=%d\n",
					i+1, ix.ChromName(i), ix.Positions[i], ix.Offsets[i])
			}
			return w.Flush()
		},
	}

	cmd.Flags().Int64VarP(&limit, "limit", "n", 0, "Print at most N entries (0 = all)")

	return cmd
}
