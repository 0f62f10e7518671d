package cli

import (
	"sort"

	"github.com/spf13/cobra"

	"github.com/mithrel/gridspike/internal/config"
	"github.com/mithrel/gridspike/internal/dataset"
	"github.com/mithrel/gridspike/internal/util"
	"github.com/mithrel/gridspike/internal/wire"
)

const maxCompletions = 20

func newCompletionCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:         "completion",
		Short:       "Generate shell completion scripts",
		Annotations: map[string]string{noAppAnnotation: "true"},
	}

	cmd.AddCommand(&cobra.Command{
		Use:         "bash",
		Short:       "Generate Bash completions",
		Annotations: map[string]string{noAppAnnotation: "true"},
		RunE: func(cmd *cobra.Command, args []string) error {
			return cmd.Root().GenBashCompletion(cmd.OutOrStdout())
		},
	})
	cmd.AddCommand(&cobra.Command{
		Use:         "zsh",
		Short:       "Generate Zsh completions",
		Annotations: map[string]string{noAppAnnotation: "true"},
		RunE: func(cmd *cobra.Command, args []string) error {
			return cmd.Root().GenZshCompletion(cmd.OutOrStdout())
		},
	})
	cmd.AddCommand(&cobra.Command{
		Use:         "fish",
		Short:       "Generate Fish completions",
		Annotations: map[string]string{noAppAnnotation: "true"},
		RunE: func(cmd *cobra.Command, args []string) error {
			return cmd.Root().GenFishCompletion(cmd.OutOrStdout(), true)
		},
	})

	return cmd
}

// registerDatasetCompletion completes --dataset and positional names with
// fuzzy-ranked dataset names, recently imported ones first on ties.
func registerDatasetCompletion(cmd *cobra.Command) {
	complete := func(cmd *cobra.Command, args []string, toComplete string) ([]string, cobra.ShellCompDirective) {
		return util.RankCompletions(toComplete, datasetCandidates(cmd), maxCompletions), cobra.ShellCompDirectiveNoFileComp
	}
	if cmd.Flags().Lookup("dataset") != nil {
		_ = cmd.RegisterFlagCompletionFunc("dataset", complete)
	} else {
		cmd.ValidArgsFunction = complete
	}
}

// datasetCandidates gathers built-in, configured and stored dataset names,
// carrying the import time of stored ones. The completion hook runs outside
// the normal pre-run, so the app is built here.
func datasetCandidates(cmd *cobra.Command) []util.Candidate {
	seen := map[string]int64{}
	for _, n := range dataset.BuiltinNames() {
		seen[n] = 0
	}
	cfgPath, _ := cmd.Flags().GetString("config")
	if v, err := loadConfig(cmd.Context(), cfgPath); err == nil {
		for n := range v.GetStringMap("datasets") {
			if _, ok := config.LookupDataset(v, n); ok {
				seen[n] = 0
			}
		}
		if app, err := wire.BuildApp(cmd.Context(), v); err == nil {
			if infos, err := app.Store.Datasets.ListDatasets(cmd.Context()); err == nil {
				for _, info := range infos {
					seen[info.Name] = info.ImportedAt
				}
			}
			_ = app.Close()
		}
	}
	out := make([]util.Candidate, 0, len(seen))
	for n, at := range seen {
		out = append(out, util.Candidate{Name: n, Recency: at})
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Name < out[j].Name })
	return out
}
