package main

import (
	"fmt"
	"log/slog"

	"github.com/spf13/cobra"

	"github.com/JonMunkholm/evalnorm/internal/config"
	"github.com/JonMunkholm/evalnorm/internal/evaluation"
	"github.com/JonMunkholm/evalnorm/internal/export"
	"github.com/JonMunkholm/evalnorm/internal/pipeline"
	"github.com/JonMunkholm/evalnorm/internal/source"
)

type cleanFlags struct {
	append      bool
	delimiter   string
	sheet       string
	sqlitePath  string
	databaseURL string
}

func newCleanCmd(a *app) *cobra.Command {
	var f cleanFlags

	cmd := &cobra.Command{
		Use:   "clean <input> <output> [era]",
		Short: "Clean one evaluation file into a CSV table",
		Long: `Clean one evaluation file into a CSV table.

The era selects the column layout: fa05, sp05, 06 (also fa06, sp06) or
modern. Any other value, or none, uses EVALNORM_DEFAULT_ERA.`,
		Args: func(cmd *cobra.Command, args []string) error {
			if len(args) < 2 {
				return fmt.Errorf("input at least two arguments, an input and output file name")
			}
			return cobra.MaximumNArgs(3)(cmd, args)
		},
		RunE: func(cmd *cobra.Command, args []string) error {
			return a.runClean(cmd, args, f)
		},
	}

	cmd.Flags().BoolVar(&f.append, "append", false, "append to output without writing a header")
	cmd.Flags().StringVar(&f.delimiter, "delim", "", "output delimiter (default: EVALNORM_DELIMITER)")
	cmd.Flags().StringVar(&f.sheet, "sheet", "", "worksheet name (default: first sheet)")
	cmd.Flags().StringVar(&f.sqlitePath, "sqlite", "", "also store sections in this SQLite database")
	cmd.Flags().StringVar(&f.databaseURL, "database-url", "", "also store sections in PostgreSQL")

	return cmd
}

func (a *app) runClean(cmd *cobra.Command, args []string, f cleanFlags) error {
	ctx := cmd.Context()
	input, output := args[0], args[1]

	era := evaluation.ResolveEra(a.cfg.Clean.DefaultEra)
	if len(args) == 3 {
		era = evaluation.ResolveEra(args[2])
	}

	delim := a.cfg.Clean.DelimiterRune()
	if f.delimiter != "" {
		d, err := config.ParseDelimiter(f.delimiter)
		if err != nil {
			return err
		}
		delim = d
	}

	opts := source.Options{Sheet: a.cfg.Clean.Sheet}
	if f.sheet != "" {
		opts.Sheet = f.sheet
	}

	db := a.cfg.Database
	if f.databaseURL != "" {
		db.URL = f.databaseURL
	}
	sqlitePath := a.cfg.SQLite.Path
	if f.sqlitePath != "" {
		sqlitePath = f.sqlitePath
	}

	sinks, err := openDatabaseSinks(ctx, sqlitePath, db)
	if err != nil {
		return err
	}
	defer sinks.Close()

	csvSink := export.NewCSVSink(output, export.CSVOptions{Delimiter: delim, Append: f.append})
	cleaner := pipeline.NewCleaner(opts)

	result, err := cleaner.CleanWrite(ctx, input, era, sinks.With(csvSink))
	if err != nil {
		slog.Error("clean failed", "input", input, "era", string(era), "run_id", cleaner.RunID.String(), "error", err)
		return err
	}

	fmt.Fprintf(cmd.OutOrStdout(), "%s: %d sections from %d records (%d dropped)\n",
		result.Source, result.Registry.Len(), result.Registry.Stats().Records, result.Registry.Stats().DroppedTotal())
	return nil
}
