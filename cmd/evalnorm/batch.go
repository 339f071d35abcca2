package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/JonMunkholm/evalnorm/internal/config"
	"github.com/JonMunkholm/evalnorm/internal/export"
	"github.com/JonMunkholm/evalnorm/internal/pipeline"
	"github.com/JonMunkholm/evalnorm/internal/source"
)

func newBatchCmd(a *app) *cobra.Command {
	var initPath string

	cmd := &cobra.Command{
		Use:   "batch [manifest.toml]",
		Short: "Clean every term listed in a manifest into one combined table",
		Long: `Clean every term listed in a manifest into one combined table.

The first file is written with a header, later files are appended. Without
a manifest the full fa05 through su17 set is cleaned from the current
directory. Use --init to write that default manifest for editing.`,
		Args: cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			if initPath != "" {
				if err := config.WriteManifest(initPath, config.DefaultManifest()); err != nil {
					return err
				}
				fmt.Fprintf(cmd.OutOrStdout(), "wrote %s\n", initPath)
				return nil
			}
			return a.runBatch(cmd, args)
		},
	}

	cmd.Flags().StringVar(&initPath, "init", "", "write the default manifest to this path and exit")
	return cmd
}

func (a *app) runBatch(cmd *cobra.Command, args []string) error {
	ctx := cmd.Context()

	m := config.DefaultManifest()
	if len(args) == 1 {
		loaded, err := config.LoadManifest(args[0])
		if err != nil {
			return err
		}
		m = loaded
	}

	jobs, err := m.Jobs()
	if err != nil {
		return err
	}
	delim, err := config.ParseDelimiter(m.Delimiter)
	if err != nil {
		return err
	}

	sqlitePath := a.cfg.SQLite.Path
	if m.SQLitePath != "" {
		sqlitePath = m.SQLitePath
	}
	sinks, err := openDatabaseSinks(ctx, sqlitePath, a.cfg.Database)
	if err != nil {
		return err
	}
	defer sinks.Close()

	sheet := a.cfg.Clean.Sheet
	if m.Sheet != "" {
		sheet = m.Sheet
	}

	csvSink := export.NewCSVSink(m.Output, export.CSVOptions{Delimiter: delim, Append: m.Append})
	cleaner := pipeline.NewCleaner(source.Options{Sheet: sheet})

	sum, err := cleaner.RunBatch(ctx, jobs, sinks.With(csvSink))
	if err != nil {
		return err
	}

	fmt.Fprintf(cmd.OutOrStdout(), "%s: %d sections from %d files (%d rows dropped)\n",
		m.Output, sum.Sections, sum.Files, sum.Dropped)
	return nil
}
