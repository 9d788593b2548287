package main

import (
	"fmt"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"
	"go.uber.org/zap"

	"github.com/sounkou-bioinfo/vbi/internal/vbi"
)

func newIndexCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "index <input.vcf[.gz]> [output.vbi]",
		Short: "Build a binary index for a VCF file",
		Long:  "Scan a VCF file once, sequentially, and write a .vbi index holding the chromosome, position, and seek offset of every record.",
		Example: `  vbi index sample.vcf.gz
  vbi index sample.vcf.gz /data/indexes/sample.vbi
  vbi index --threads 4 sample.vcf.gz`,
		Args: cobra.RangeArgs(1, 2),
		RunE: func(cmd *cobra.Command, args []string) error {
			src := args[0]
			out := ""
			if len(args) == 2 {
				out = args[1]
			}
			out = resolveIndexPath(src, out)

			ix, err := vbi.Build(src, out, viper.GetInt("threads"))
			if err != nil {
				return err
			}

			logger.Info("index written",
				zap.String("path", out),
				zap.Int64("records", ix.RecordCount()))
			fmt.Printf("Indexing finished: %d samples, %d markers, %d chromosomes\n",
				ix.SampleCount, ix.RecordCount(), len(ix.Chroms))
			return nil
		},
	}
}
