package main

import (
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"strings"

	"github.com/spf13/cobra"

	"dupecheck/internal/config"
	"dupecheck/internal/matcher"
)

func newConfigCommand(ctx *commandContext) *cobra.Command {
	configCmd := &cobra.Command{
		Use:   "config",
		Short: "Configuration utilities",
	}

	configCmd.AddCommand(newConfigValidateCommand(ctx))
	configCmd.AddCommand(newConfigInitCommand())

	return configCmd
}

func newConfigInitCommand() *cobra.Command {
	var targetPath string
	var overwrite bool

	cmd := &cobra.Command{
		Use:         "init",
		Short:       "Create a sample configuration file",
		Annotations: map[string]string{"skipConfigLoad": "true"},
		RunE: func(cmd *cobra.Command, args []string) error {
			target := strings.TrimSpace(targetPath)
			if target == "" {
				defaultPath, err := config.DefaultConfigPath()
				if err != nil {
					return fmt.Errorf("determine default config path: %w", err)
				}
				target = defaultPath
			} else {
				expanded, err := config.ExpandPath(target)
				if err != nil {
					return fmt.Errorf("resolve config path: %w", err)
				}
				target = expanded
			}

			dir := filepath.Dir(target)
			if err := os.MkdirAll(dir, 0o755); err != nil {
				return fmt.Errorf("create config directory %q: %w", dir, err)
			}

			if !overwrite {
				if _, err := os.Stat(target); err == nil {
					return fmt.Errorf("config file already exists at %s (use --overwrite to replace it)", target)
				} else if !os.IsNotExist(err) {
					return fmt.Errorf("check config path: %w", err)
				}
			}

			if err := config.CreateSample(target); err != nil {
				return fmt.Errorf("create sample config: %w", err)
			}

			out := cmd.OutOrStdout()
			fmt.Fprintf(out, "Wrote sample configuration to %s\n", target)
			fmt.Fprintln(out, "Review the [matching] thresholds and set api_token before exposing `dupecheck serve`.")
			return nil
		},
	}

	cmd.Flags().StringVarP(&targetPath, "path", "p", "", "Destination for the configuration file")
	cmd.Flags().BoolVar(&overwrite, "overwrite", false, "Overwrite existing configuration if present")
	return cmd
}

func newConfigValidateCommand(ctx *commandContext) *cobra.Command {
	var showPolicy bool

	cmd := &cobra.Command{
		Use:         "validate",
		Short:       "Validate configuration file",
		Annotations: map[string]string{"skipConfigLoad": "true"},
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, path, exists, err := config.Load(ctx.configPath())
			if err != nil {
				return fmt.Errorf("load config: %w", err)
			}
			if err := cfg.EnsureDirectories(); err != nil {
				return fmt.Errorf("ensure directories: %w", err)
			}
			out := cmd.OutOrStdout()
			fmt.Fprintf(out, "Config path: %s\n", path)
			if !exists {
				fmt.Fprintln(out, "Config file did not exist; defaults were used")
			}
			if showPolicy {
				fmt.Fprintln(out, renderPolicy(matcher.PolicyFromConfig(cfg.Matching)))
			}
			fmt.Fprintln(out, "Configuration valid")
			return nil
		},
	}
	cmd.Flags().BoolVar(&showPolicy, "show-policy", false, "Print the effective matching thresholds")
	return cmd
}

func renderPolicy(p matcher.Policy) string {
	pct := func(v int) string { return strconv.Itoa(v) + "%" }
	bits := func(v int) string { return strconv.Itoa(v) + " bits" }
	return renderFields("Matching policy", [][2]string{
		{"Post minimum words", strconv.Itoa(p.PostMinWords)},
		{"Video minimum words", strconv.Itoa(p.VideoMinWords)},
		{"Duplicate", pct(p.DuplicatePercent)},
		{"Long text duplicate", fmt.Sprintf("%s from %d words", pct(p.LongTextDuplicatePercent), p.LongTextWords)},
		{"Copyright", pct(p.CopyrightPercent)},
		{"Clip caption", pct(p.ClipCaptionPercent)},
		{"Image distance", bits(p.ImageMaxDistance)},
		{"Frame distance", bits(p.FrameMaxDistance)},
		{"Audio distance", bits(p.AudioMaxDistance)},
		{"Sequence rule", fmt.Sprintf("run %d or coverage %s", p.MinRun, pct(p.MinCoveragePercent))},
		{"Shingles", fmt.Sprintf("%d words, minimum %d, short text below %d words", p.ShingleSize, p.MinShingles, p.ShortTextWords)},
		{"Duration tolerance", strconv.FormatFloat(p.DurationTolerance, 'f', -1, 64) + "s"},
	})
}
