package main

import (
	"fmt"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/sounkou-bioinfo/vbi/internal/duckdb"
	"github.com/sounkou-bioinfo/vbi/internal/region"
	"github.com/sounkou-bioinfo/vbi/internal/vbi"
)

func newExportCmd() *cobra.Command {
	var (
		vcfPath   string
		indexPath string
		regions   string
		useTree   bool
		dbPath    string
		clear     bool
		workers   int
	)

	cmd := &cobra.Command{
		Use:   "export",
		Short: "Export query results to a DuckDB database",
		Long: `Materialize the records matching a region specifier (or the whole file
when no regions are given) and write them into a DuckDB database, where they
can be queried with SQL. The source file's identity is recorded alongside the
rows. Records are materialized across a pool of workers, each with its own
read cursor.`,
		Example: `  vbi export --vcf sample.vcf.gz --db sample.duckdb
  vbi export --vcf sample.vcf.gz --db sample.duckdb --regions chr1:100-200
  vbi export --vcf sample.vcf.gz --db sample.duckdb --workers 8 --clear`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			if vcfPath == "" {
				return fmt.Errorf("--vcf is required")
			}
			if dbPath == "" {
				return fmt.Errorf("--db is required")
			}

			ix, err := vbi.FetchIndex(resolveIndexPath(vcfPath, indexPath))
			if err != nil {
				return err
			}
			if err := ix.Fingerprint.Verify(vcfPath); err != nil {
				return err
			}

			var ids []int64
			switch {
			case regions == "":
				ids = vbi.QueryIndexRange(ix, 1, ix.RecordCount())
			case useTree:
				ids = vbi.QueryRegionsTree(ix, region.ParseMulti(regions))
			default:
				ids = vbi.QueryRegionsLinear(ix, region.ParseMulti(regions))
			}

			flags := vbi.Flags{IncludeInfo: true, IncludeFormat: true, IncludeGenotypes: true}
			rows, err := vbi.MaterializeParallel(vcfPath, ix, ids, flags, workers, logger)
			if err != nil {
				return err
			}

			store, err := duckdb.Open(dbPath)
			if err != nil {
				return err
			}
			defer store.Close()

			if clear {
				if err := store.ClearRows(); err != nil {
					return fmt.Errorf("clear rows: %w", err)
				}
			}
			if err := store.WriteRows(rows); err != nil {
				return err
			}

			fp, err := duckdb.StatFile(vcfPath)
			if err != nil {
				return err
			}
			if err := store.RecordSource(fp); err != nil {
				return err
			}

			logger.Info("export written",
				zap.String("db", dbPath),
				zap.Int("rows", len(rows)))
			fmt.Printf("Exported %d rows to %s\n", len(rows), dbPath)
			return nil
		},
	}

	cmd.Flags().StringVar(&vcfPath, "vcf", "", "Source VCF file (plain or BGZF-compressed)")
	cmd.Flags().StringVar(&indexPath, "vbi", "", "Index file or URL (default: <vcf>.vbi)")
	cmd.Flags().StringVar(&regions, "regions", "", "Comma-separated region specifiers (default: all records)")
	cmd.Flags().BoolVar(&useTree, "tree", false, "Resolve regions through the interval index")
	cmd.Flags().StringVar(&dbPath, "db", "", "DuckDB database file")
	cmd.Flags().BoolVar(&clear, "clear", false, "Clear previously exported rows first")
	cmd.Flags().IntVar(&workers, "workers", 1, "Materialization workers (0 = all CPUs)")

	return cmd
}
