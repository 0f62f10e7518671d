package cli

import (
	"errors"
	"fmt"
	"io"
	"os"
	"sort"
	"strings"

	"github.com/spf13/cobra"

	"github.com/mithrel/gridspike/internal/config"
	"github.com/mithrel/gridspike/internal/db"
	"github.com/mithrel/gridspike/internal/grid"
	"github.com/mithrel/gridspike/internal/present"
	"github.com/mithrel/gridspike/internal/wire"
	"github.com/mithrel/gridspike/pkg/api"
)

var datasetColumns = []api.Column{
	{ID: "name", Header: "Name", Kind: api.KindString},
	{ID: "origin", Header: "Origin", Kind: api.KindString},
	{ID: "rows", Header: "Rows", Kind: api.KindNumber},
	{ID: "checksum", Header: "Checksum", Kind: api.KindString},
	{ID: "imported", Header: "Imported", Kind: api.KindDate},
	{ID: "source", Header: "Source", Kind: api.KindString},
}

func newDatasetsCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:     "datasets",
		Aliases: []string{"ds"},
		Short:   "List and remove datasets",
	}
	cmd.AddCommand(newDatasetsListCmd())
	cmd.AddCommand(newDatasetsRmCmd())
	return cmd
}

func newDatasetsListCmd() *cobra.Command {
	var outputMode string
	var noHeaders bool
	cmd := &cobra.Command{
		Use:   "list",
		Short: "List imported and configured datasets",
		RunE: func(cmd *cobra.Command, args []string) error {
			app := getApp(cmd)
			mode, ok := present.ParseMode(strings.ToLower(outputMode))
			if !ok || mode == present.ModeTUI {
				return fmt.Errorf("invalid --output: %s", outputMode)
			}
			rows, err := datasetRows(cmd, app)
			if err != nil {
				return err
			}
			res := grid.Result{Rows: rows, Total: len(rows), Page: 1, PageSize: len(rows), PageCount: 1,
				Label: fmt.Sprintf("%d datasets", len(rows))}
			opts := present.Options{Mode: mode, Headers: !noHeaders, Title: "datasets"}
			return withPager(cmd.Context(), mode, cmd.OutOrStdout(), cmd.ErrOrStderr(), func(w io.Writer) error {
				return present.RenderPage(w, datasetColumns, res, opts)
			})
		},
	}
	cmd.Flags().StringVarP(&outputMode, "output", "o", "plain", "output mode: plain|pretty|json|ndjson")
	cmd.Flags().BoolVar(&noHeaders, "noheaders", false, "hide column headers (plain)")
	return cmd
}

// datasetRows merges stored datasets with configured CSV sources.
func datasetRows(cmd *cobra.Command, app *wire.App) ([]api.Row, error) {
	infos, err := app.Store.Datasets.ListDatasets(cmd.Context())
	if err != nil {
		return nil, err
	}
	var rows []api.Row
	for _, info := range infos {
		origin := "store"
		if _, ok := config.LookupDataset(app.Cfg, info.Name); ok {
			origin = "store+config"
		}
		rows = append(rows, api.Row{ID: info.Name, Fields: map[string]any{
			"name":     info.Name,
			"origin":   origin,
			"rows":     float64(info.RowCount),
			"checksum": shortSum(info.Checksum),
			"imported": info.ImportedAt,
			"source":   info.Source,
		}})
	}
	stored := make(map[string]bool, len(infos))
	for _, info := range infos {
		stored[info.Name] = true
	}
	for _, name := range configuredDatasets(app) {
		if stored[name] {
			continue
		}
		src, _ := config.LookupDataset(app.Cfg, name)
		rows = append(rows, api.Row{ID: name, Fields: map[string]any{
			"name":   name,
			"origin": "config",
			"source": src.File,
		}})
	}
	return rows, nil
}

func configuredDatasets(app *wire.App) []string {
	var names []string
	for name := range app.Cfg.GetStringMap("datasets") {
		if _, ok := config.LookupDataset(app.Cfg, name); ok {
			names = append(names, name)
		}
	}
	sort.Strings(names)
	return names
}

func newDatasetsRmCmd() *cobra.Command {
	var forget bool
	cmd := &cobra.Command{
		Use:   "rm NAME...",
		Short: "Remove imported datasets",
		Args:  cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			app := getApp(cmd)
			for _, name := range args {
				err := app.Store.Datasets.DeleteDataset(cmd.Context(), name)
				switch {
				case err == nil:
					_, _ = fmt.Fprintf(cmd.OutOrStdout(), "Removed %s\n", name)
				case errors.Is(err, db.ErrNotFound) && forget:
				case errors.Is(err, db.ErrNotFound):
					return fmt.Errorf("dataset %q not found", name)
				default:
					return err
				}
				if !forget {
					continue
				}
				removed, err := forgetSource(configPath(app), name)
				if err != nil {
					return err
				}
				if removed {
					_, _ = fmt.Fprintf(cmd.OutOrStdout(), "Forgot [datasets.%s]\n", name)
				}
			}
			return nil
		},
	}
	cmd.Flags().BoolVar(&forget, "forget", false, "also remove [datasets.<name>] from config")
	registerDatasetCompletion(cmd)
	return cmd
}

func forgetSource(path, name string) (bool, error) {
	data, err := os.ReadFile(path)
	if os.IsNotExist(err) {
		return false, nil
	}
	if err != nil {
		return false, err
	}
	out, removed := config.DeleteDatasetConfig(string(data), name)
	if !removed {
		return false, nil
	}
	return true, os.WriteFile(path, []byte(out), 0o600)
}
