package cli

import (
	"fmt"
	"io"
	"strconv"
	"strings"
	"time"

	"github.com/spf13/cobra"

	"github.com/mithrel/gridspike/internal/columns"
	"github.com/mithrel/gridspike/internal/debounce"
	"github.com/mithrel/gridspike/internal/filter"
	"github.com/mithrel/gridspike/internal/grid"
	"github.com/mithrel/gridspike/internal/params"
	"github.com/mithrel/gridspike/internal/present"
	"github.com/mithrel/gridspike/internal/present/tui"
	"github.com/mithrel/gridspike/internal/util"
	"github.com/mithrel/gridspike/internal/wire"
	"github.com/mithrel/gridspike/pkg/api"
)

// gridFlags collects the grid command's state flags. They layer on top of
// --query in flag order: query, --set, then the dedicated flags.
type gridFlags struct {
	dataset   string
	file      string
	query     string
	sets      []string
	sort      string
	search    string
	page      int
	pageSize  int
	dateFrom  string
	dateTo    string
	matches   []string
	columns   string
	output    string
	noHeaders bool
	all       bool
	showQuery bool
}

func newGridCmd() *cobra.Command {
	var f gridFlags
	cmd := &cobra.Command{
		Use:   "grid",
		Short: "Show a filtered, sorted page of a dataset",
		Example: `  gridspike-cli grid -d houses --set bedrooms=3 --sort price.desc -o plain
  gridspike-cli grid -d stocks -q 'symbol=SPY&dateFrom=2017-01-01' --page 2
  gridspike-cli grid -d houses --match furnishingstatus=semi --all -o ndjson`,
		RunE: func(cmd *cobra.Command, args []string) error {
			app := getApp(cmd)
			mode, ok := present.ParseMode(strings.ToLower(f.output))
			if !ok {
				return fmt.Errorf("invalid --output: %s", f.output)
			}
			name := f.dataset
			if name == "" && f.file == "" {
				name = app.Cfg.GetString("dataset")
			}
			ds, err := app.LoadDataset(cmd.Context(), name, f.file)
			if err != nil {
				return err
			}
			snap, err := f.snapshot(time.Now())
			if err != nil {
				return err
			}

			var sched debounce.Scheduler = debounce.NewRealScheduler()
			view := app.NewView(ds, params.NewMemoryStore(snap), sched)
			defer view.Controller.Close()
			if err := applyMatches(view, f.matches); err != nil {
				return err
			}
			cols := columns.New(ds.Schema)
			if f.columns != "" {
				cols.SetVisible(splitCSV(f.columns))
			}

			opts := present.Options{
				Mode:    mode,
				Headers: !f.noHeaders,
				Title:   ds.Schema.Name,
			}
			out, errOut := cmd.OutOrStdout(), cmd.ErrOrStderr()
			switch {
			case mode == present.ModeTUI:
				return runTUI(cmd, app, ds, view, opts)
			case f.all:
				return withPager(cmd.Context(), mode, out, errOut, func(w io.Writer) error {
					return exportAll(w, view, ds, cols.Ordered(), opts, app.Cfg.GetInt("grid.page_size"))
				})
			}

			res := view.Compute(ds.Rows)
			opts.Query = view.Controller.Snapshot().Query()
			err = withPager(cmd.Context(), mode, out, errOut, func(w io.Writer) error {
				return present.RenderPage(w, cols.Ordered(), res, opts)
			})
			if err != nil {
				return err
			}
			if mode == present.ModePlain && opts.Headers {
				_, _ = fmt.Fprintf(errOut, "%s · page %d of %d\n", res.Label, res.Page, max(res.PageCount, 1))
			}
			if f.showQuery {
				_, _ = fmt.Fprintf(errOut, "query: %s\n", opts.Query)
			}
			return nil
		},
	}

	fl := cmd.Flags()
	fl.StringVarP(&f.dataset, "dataset", "d", "", "dataset name (defaults to config dataset)")
	fl.StringVarP(&f.file, "file", "f", "", "read rows from a CSV file instead of the store")
	fl.StringVarP(&f.query, "query", "q", "", "grid state as a query string, e.g. 'bedrooms=3&sortBy=price.desc'")
	fl.StringArrayVar(&f.sets, "set", nil, "set one state key (key=value); repeatable")
	fl.StringVar(&f.sort, "sort", "", "sort order, e.g. price.desc,area.asc (max 3 keys)")
	fl.StringVarP(&f.search, "search", "s", "", "global search text")
	fl.IntVar(&f.page, "page", 0, "1-based page number")
	fl.IntVar(&f.pageSize, "page-size", 0, "rows per page (0 uses config)")
	fl.StringVar(&f.dateFrom, "date-from", "", "earliest date: YYYY-MM-DD or a duration like 30d")
	fl.StringVar(&f.dateTo, "date-to", "", "latest date: YYYY-MM-DD or a duration like 7d")
	fl.StringArrayVar(&f.matches, "match", nil, "fuzzy filter one column (column=text); repeatable")
	fl.StringVar(&f.columns, "columns", "", "comma-separated visible columns")
	fl.StringVarP(&f.output, "output", "o", "tui", "output mode: plain|pretty|json|ndjson|tui")
	fl.BoolVar(&f.noHeaders, "noheaders", false, "hide column headers (plain/tui)")
	fl.BoolVar(&f.all, "all", false, "export every matching row instead of one page (plain/json/ndjson)")
	fl.BoolVar(&f.showQuery, "show-query", false, "print the resulting grid state as a query string")

	_ = cmd.RegisterFlagCompletionFunc("output", func(cmd *cobra.Command, args []string, toComplete string) ([]string, cobra.ShellCompDirective) {
		return []string{"plain", "pretty", "json", "ndjson", "tui"}, cobra.ShellCompDirectiveNoFileComp
	})
	registerDatasetCompletion(cmd)
	return cmd
}

// snapshot merges the state flags into one cleaned snapshot.
func (f gridFlags) snapshot(now time.Time) (params.Snapshot, error) {
	snap := params.ParseQuery(f.query)
	p := params.Params{}
	for _, kv := range f.sets {
		k, v, ok := strings.Cut(kv, "=")
		if !ok || strings.TrimSpace(k) == "" {
			return nil, fmt.Errorf("invalid --set %q: want key=value", kv)
		}
		p[strings.TrimSpace(k)] = strings.TrimSpace(v)
	}
	if f.sort != "" {
		p[params.KeySortBy] = params.SortParam(params.DecodeSort(f.sort))
	}
	if f.search != "" {
		p[params.KeyGlobalFilter] = f.search
	}
	if f.page > 0 {
		p[params.KeyPage] = strconv.Itoa(f.page)
	}
	if f.pageSize > 0 {
		p[params.KeyPageSize] = strconv.Itoa(f.pageSize)
	}
	if f.dateFrom != "" || f.dateTo != "" {
		from, to, err := util.NormalizeDateRange(f.dateFrom, f.dateTo, now)
		if err != nil {
			return nil, err
		}
		if from != "" {
			p[params.KeyDateFrom] = from
		}
		if to != "" {
			p[params.KeyDateTo] = to
		}
	}
	return params.Merge(snap, p), nil
}

// applyMatches installs per-column fuzzy filters.
func applyMatches(view *grid.View, matches []string) error {
	for _, m := range matches {
		col, q, ok := strings.Cut(m, "=")
		col = strings.TrimSpace(col)
		if !ok || col == "" {
			return fmt.Errorf("invalid --match %q: want column=text", m)
		}
		if !view.Schema.Has(col) {
			return fmt.Errorf("invalid --match %q: unknown column %s", m, col)
		}
		if view.Extra == nil {
			view.Extra = filter.Set{}
		}
		view.Extra[col] = filter.Fuzzy{Query: q}
	}
	return nil
}

// exportAll streams every matching row in batches of the page size.
func exportAll(w io.Writer, view *grid.View, ds *api.Dataset, cols []api.Column, opts present.Options, batch int) error {
	rw, err := present.NewRowWriter(w, cols, opts)
	if err != nil {
		return err
	}
	view.Pager.SetPageSize(max(len(ds.Rows), 1))
	view.Pager.SetPage(1)
	res := view.Compute(ds.Rows)
	if batch <= 0 {
		batch = len(res.Rows)
	}
	for start := 0; start < len(res.Rows); start += batch {
		end := min(start+batch, len(res.Rows))
		if err := rw.WriteRows(res.Rows[start:end]); err != nil {
			return err
		}
	}
	return rw.Close()
}

func runTUI(cmd *cobra.Command, app *wire.App, ds *api.Dataset, view *grid.View, opts present.Options) error {
	if !isTerminal(cmd.OutOrStdout()) {
		return fmt.Errorf("tui output needs a terminal; use --output plain|json")
	}
	selected, err := tui.Run(cmd.Context(), ds, view, tui.Options{
		Headers:     opts.Headers,
		DefaultSize: app.Cfg.GetInt("grid.page_size"),
	})
	if err != nil {
		return err
	}
	for _, id := range selected {
		_, _ = fmt.Fprintln(cmd.OutOrStdout(), id)
	}
	if q := view.Controller.Snapshot().Query(); q != "" {
		_, _ = fmt.Fprintf(cmd.ErrOrStderr(), "query: %s\n", q)
	}
	return nil
}

// splitCSV splits a comma-separated list into trimmed non-empty strings.
func splitCSV(s string) []string {
	if s == "" {
		return nil
	}
	parts := strings.Split(s, ",")
	out := make([]string, 0, len(parts))
	for _, p := range parts {
		t := strings.TrimSpace(p)
		if t != "" {
			out = append(out, t)
		}
	}
	return out
}
