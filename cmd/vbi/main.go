// Package main provides the vbi command-line tool.
package main

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"
	"go.uber.org/zap"
)

// Version information (set at build time)
var (
	version = "dev"
	commit  = "none"
	date    = "unknown"
)

var logger = zap.NewNop()

func main() {
	if err := newRootCmd().Execute(); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}

func newRootCmd() *cobra.Command {
	var verbose bool

	cmd := &cobra.Command{
		Use:     "vbi",
		Short:   "Build and query binary indexes for VCF files",
		Long:    "vbi builds a binary positional index (.vbi) for a VCF file and answers region and range queries against it without rescanning the file.",
		Version: fmt.Sprintf("%s (%s) built %s", version, commit, date),
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			if err := initConfig(); err != nil {
				return err
			}
			if verbose {
				l, err := zap.NewDevelopment()
				if err != nil {
					return fmt.Errorf("init logger: %w", err)
				}
				logger = l
			}
			return nil
		},
		SilenceUsage: true,
	}

	cmd.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "Enable verbose logging")
	cmd.PersistentFlags().Int("threads", 1, "BGZF decompression threads")
	viper.BindPFlag("threads", cmd.PersistentFlags().Lookup("threads"))

	cmd.AddCommand(newIndexCmd())
	cmd.AddCommand(newQueryCmd())
	cmd.AddCommand(newViewCmd())
	cmd.AddCommand(newExportCmd())
	cmd.AddCommand(newConfigCmd())
	cmd.AddCommand(newVersionCmd())

	return cmd
}

// initConfig loads ~/.vbi.yaml if present and wires VBI_* environment
// variables. A missing config file is not an error.
func initConfig() error {
	home, err := os.UserHomeDir()
	if err == nil {
		viper.AddConfigPath(home)
		viper.SetConfigName(".vbi")
		viper.SetConfigType("yaml")
	}
	viper.SetEnvPrefix("VBI")
	viper.AutomaticEnv()

	if err := viper.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		if !errors.As(err, &notFound) && !os.IsNotExist(err) {
			return fmt.Errorf("reading config: %w", err)
		}
	}
	return nil
}

// defaultIndexPath derives the index path from a VCF path.
func defaultIndexPath(vcfPath string) string {
	return vcfPath + ".vbi"
}

// resolveIndexPath picks the explicit index path when given, otherwise the
// conventional sibling of the VCF.
func resolveIndexPath(vcfPath, indexPath string) string {
	if indexPath != "" {
		return indexPath
	}
	return defaultIndexPath(filepath.Clean(vcfPath))
}
