package cli

import (
	"errors"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/mithrel/gridspike/internal/config"
)

func newConfigCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:         "config",
		Short:       "Manage configuration",
		Annotations: map[string]string{noAppAnnotation: "true"},
	}
	cmd.AddCommand(newConfigGenerateCmd())
	cmd.AddCommand(newConfigCheckCmd())
	return cmd
}

func newConfigGenerateCmd() *cobra.Command {
	var out string
	var overwrite, update bool
	cmd := &cobra.Command{
		Use:         "generate",
		Short:       "Generate a default config.toml",
		Annotations: map[string]string{noAppAnnotation: "true"},
		RunE: func(cmd *cobra.Command, args []string) error {
			if overwrite && update {
				return fmt.Errorf("choose either --overwrite or --update")
			}
			if out == "" {
				out = config.DefaultConfigPath()
			}
			mode := config.WriteNew
			switch {
			case overwrite:
				mode = config.WriteOverwrite
			case update:
				mode = config.WriteUpdate
			}
			res, err := config.WriteFile(out, mode)
			if errors.Is(err, config.ErrExists) {
				return fmt.Errorf("%w; use --overwrite to replace it (a backup is kept) or --update to merge defaults", err)
			}
			if err != nil {
				return err
			}
			w := cmd.OutOrStdout()
			if res.Unchanged {
				_, _ = fmt.Fprintf(w, "Config already up to date: %s\n", res.Path)
				return nil
			}
			_, _ = fmt.Fprintf(w, "Wrote %s\n", res.Path)
			if res.Backup != "" {
				_, _ = fmt.Fprintf(w, "Backup: %s\n", res.Backup)
			}
			return nil
		},
	}
	cmd.Flags().StringVarP(&out, "output", "o", "", "output path for config.toml")
	cmd.Flags().BoolVar(&overwrite, "overwrite", false, "overwrite existing config (creates a backup)")
	cmd.Flags().BoolVar(&update, "update", false, "merge defaults into existing config (creates a backup)")
	return cmd
}

func newConfigCheckCmd() *cobra.Command {
	return &cobra.Command{
		Use:         "check",
		Short:       "Validate the effective configuration",
		Annotations: map[string]string{noAppAnnotation: "true"},
		RunE: func(cmd *cobra.Command, args []string) error {
			cfgPath, _ := cmd.Flags().GetString("config")
			v, err := loadConfig(cmd.Context(), cfgPath)
			if err != nil {
				return err
			}
			if err := config.CheckConfigValidity(v); err != nil {
				return err
			}
			used := v.ConfigFileUsed()
			if used == "" {
				used = "(defaults only)"
			}
			_, _ = fmt.Fprintf(cmd.OutOrStdout(), "Config OK: %s\n", used)
			return nil
		},
	}
}
