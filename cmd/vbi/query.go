package main

import (
	"fmt"
	"io"
	"os"
	"strconv"
	"strings"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"github.com/sounkou-bioinfo/vbi/internal/output"
	"github.com/sounkou-bioinfo/vbi/internal/vbi"
)

func newQueryCmd() *cobra.Command {
	var (
		vcfPath    string
		indexPath  string
		recRange   string
		useTree    bool
		asTable    bool
		withInfo   bool
		withFormat bool
		withGeno   bool
		outputFile string
	)

	cmd := &cobra.Command{
		Use:   "query [regions]",
		Short: "Query indexed records by region or record range",
		Long: `Query a VCF file through its .vbi index. Regions are given as a
comma-separated list of CHR, CHR:POS, or CHR:START-END specifiers; --range
selects by 1-based record number instead. By default matching records are
printed as VCF (header plus record lines); --table switches to a tab layout
with optional INFO, FORMAT, and GENOTYPES columns.`,
		Example: `  vbi query --vcf sample.vcf.gz chr1:100-200
  vbi query --vcf sample.vcf.gz "chr1:100-200,chr2:500"
  vbi query --vcf sample.vcf.gz --tree chr1
  vbi query --vcf sample.vcf.gz --range 10-20
  vbi query --vcf sample.vcf.gz --table --genotypes chr1:100-200
  vbi query --vcf sample.vcf.gz --vbi https://example.org/sample.vbi chr1`,
		Args: cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			if vcfPath == "" {
				return fmt.Errorf("--vcf is required")
			}
			if recRange == "" && len(args) == 0 {
				return fmt.Errorf("a region argument or --range is required")
			}
			if recRange != "" && len(args) > 0 {
				return fmt.Errorf("regions and --range are mutually exclusive")
			}

			sess, err := vbi.OpenSession(vcfPath, resolveIndexPath(vcfPath, indexPath), viper.GetInt("threads"))
			if err != nil {
				return err
			}
			defer sess.Close()
			sess.SetLogger(logger)

			out := io.Writer(os.Stdout)
			if outputFile != "" {
				f, err := os.Create(outputFile)
				if err != nil {
					return fmt.Errorf("create output file: %w", err)
				}
				defer f.Close()
				out = f
			}

			if asTable {
				flags := vbi.Flags{
					IncludeInfo:      withInfo,
					IncludeFormat:    withFormat,
					IncludeGenotypes: withGeno,
				}
				rows, err := queryRows(sess, args, recRange, useTree, flags)
				if err != nil {
					return err
				}
				return output.NewTableWriter(out, flags).WriteAll(rows)
			}

			lines, err := queryLines(sess, args, recRange, useTree)
			if err != nil {
				return err
			}
			if _, err := io.WriteString(out, sess.Header().String()); err != nil {
				return err
			}
			for _, line := range lines {
				if line == "" {
					continue
				}
				if _, err := io.WriteString(out, line+"\n"); err != nil {
					return err
				}
			}
			return nil
		},
	}

	cmd.Flags().StringVar(&vcfPath, "vcf", "", "Source VCF file (plain or BGZF-compressed)")
	cmd.Flags().StringVar(&indexPath, "vbi", "", "Index file or URL (default: <vcf>.vbi)")
	cmd.Flags().StringVar(&recRange, "range", "", "1-based inclusive record range, e.g. 10-20")
	cmd.Flags().BoolVar(&useTree, "tree", false, "Resolve regions through the interval index")
	cmd.Flags().BoolVar(&asTable, "table", false, "Tab-delimited output instead of VCF lines")
	cmd.Flags().BoolVar(&withInfo, "info", false, "Include the INFO column (with --table)")
	cmd.Flags().BoolVar(&withFormat, "format", false, "Include the FORMAT column (with --table)")
	cmd.Flags().BoolVar(&withGeno, "genotypes", false, "Include the GENOTYPES column (with --table)")
	cmd.Flags().StringVarP(&outputFile, "output", "o", "", "Output file (default: stdout)")

	return cmd
}

func queryRows(sess *vbi.Session, args []string, recRange string, useTree bool, flags vbi.Flags) ([]vbi.Row, error) {
	if recRange != "" {
		start, end, err := parseRecordRange(recRange)
		if err != nil {
			return nil, err
		}
		return sess.QueryRange(start, end, flags), nil
	}
	if useTree {
		return sess.QueryRegionsTree(args[0], flags), nil
	}
	return sess.QueryRegions(args[0], flags), nil
}

func queryLines(sess *vbi.Session, args []string, recRange string, useTree bool) ([]string, error) {
	if recRange != "" {
		start, end, err := parseRecordRange(recRange)
		if err != nil {
			return nil, err
		}
		return sess.RangeLines(start, end), nil
	}
	return sess.RegionLines(args[0], useTree), nil
}

// parseRecordRange parses "START-END" or a single "N" into 1-based bounds.
func parseRecordRange(spec string) (int64, int64, error) {
	startStr, endStr, found := strings.Cut(spec, "-")
	if !found {
		endStr = startStr
	}
	start, err := strconv.ParseInt(startStr, 10, 64)
	if err != nil {
		return 0, 0, fmt.Errorf("invalid record range %q", spec)
	}
	end, err := strconv.ParseInt(endStr, 10, 64)
	if err != nil {
		return 0, 0, fmt.Errorf("invalid record range %q", spec)
	}
	return start, end, nil
}
