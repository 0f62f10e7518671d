package cli

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/spf13/cobra"

	"github.com/mithrel/gridspike/internal/config"
	"github.com/mithrel/gridspike/internal/dataset"
	"github.com/mithrel/gridspike/internal/db"
	"github.com/mithrel/gridspike/pkg/api"
)

func newImportCmd() *cobra.Command {
	var name string
	var schema string
	var remember bool
	cmd := &cobra.Command{
		Use:   "import FILE...",
		Short: "Import CSV files into the local store",
		Long: `Import parses each CSV file and stores it under a dataset name. The name
defaults to the file name without extension. A dataset named after a
built-in schema (stocks, houses), or any file imported with --schema, is
typed by that schema; other files get an inferred schema.
Multiple files are imported in one transaction.`,
		Args: cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			if name != "" && len(args) > 1 {
				return fmt.Errorf("--name applies to a single file")
			}
			app := getApp(cmd)

			ctx, tx, err := app.Store.Begin(cmd.Context())
			if err != nil && !errors.Is(err, db.ErrNoTx) {
				return err
			}
			if tx != nil {
				defer func() { _ = tx.Rollback() }()
			}

			var imported []api.DatasetInfo
			var sources []config.DatasetSource
			for _, file := range args {
				dsName := name
				if dsName == "" {
					dsName = baseName(file)
				}
				parseAs := dsName
				if schema != "" {
					parseAs = schema
				}
				ds, err := dataset.LoadFile(file, parseAs)
				if err != nil {
					return fmt.Errorf("import %s: %w", file, err)
				}
				ds.Schema.Name = dsName
				info, err := app.Store.Datasets.PutDataset(ctx, *ds)
				if err != nil {
					return fmt.Errorf("import %s: %w", file, err)
				}
				app.Log.Debugw("dataset imported", "dataset", dsName, "rows", info.RowCount, "file", file)
				imported = append(imported, info)

				abs, err := filepath.Abs(file)
				if err != nil {
					abs = file
				}
				sources = append(sources, config.DatasetSource{Name: dsName, File: abs, Schema: parseAs})
			}
			if tx != nil {
				if err := tx.Commit(); err != nil {
					return err
				}
			}

			for _, info := range imported {
				_, _ = fmt.Fprintf(cmd.OutOrStdout(), "Imported %s: %d rows (%s)\n", info.Name, info.RowCount, shortSum(info.Checksum))
			}
			if remember {
				path := configPath(app)
				if err := rememberSources(path, sources); err != nil {
					return err
				}
				_, _ = fmt.Fprintf(cmd.OutOrStdout(), "Remembered in %s\n", path)
			}
			return nil
		},
	}
	cmd.Flags().StringVarP(&name, "name", "n", "", "dataset name (single file only)")
	cmd.Flags().StringVar(&schema, "schema", "", "parse with a built-in schema: stocks|houses")
	cmd.Flags().BoolVar(&remember, "remember", false, "also register the file under [datasets.<name>] in config")
	_ = cmd.RegisterFlagCompletionFunc("schema", func(cmd *cobra.Command, args []string, toComplete string) ([]string, cobra.ShellCompDirective) {
		return dataset.BuiltinNames(), cobra.ShellCompDirectiveNoFileComp
	})
	return cmd
}

func rememberSources(path string, sources []config.DatasetSource) error {
	if err := os.MkdirAll(filepath.Dir(path), 0o700); err != nil {
		return err
	}
	data, err := os.ReadFile(path)
	if err != nil && !os.IsNotExist(err) {
		return err
	}
	content := string(data)
	for _, src := range sources {
		content = config.UpsertDatasetConfig(content, src)
	}
	return os.WriteFile(path, []byte(content), 0o600)
}

func baseName(path string) string {
	base := filepath.Base(path)
	return strings.TrimSuffix(base, filepath.Ext(base))
}

func shortSum(sum string) string {
	if len(sum) > 12 {
		return sum[:12]
	}
	return sum
}
