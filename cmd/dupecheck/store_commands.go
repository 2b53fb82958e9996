package main

import (
	"fmt"
	"strconv"
	"strings"
	"time"

	"github.com/spf13/cobra"

	"dupecheck/internal/content"
	"dupecheck/internal/store"
)

func newStoreCommand(ctx *commandContext) *cobra.Command {
	storeCmd := &cobra.Command{
		Use:   "store",
		Short: "Inspect and maintain the content database",
	}
	storeCmd.AddCommand(newStoreStatsCommand(ctx))
	storeCmd.AddCommand(newStorePruneCommand(ctx))
	storeCmd.AddCommand(newStoreRemoveCommand(ctx))
	return storeCmd
}

type storeStatsView struct {
	Database     string            `json:"database"`
	Total        int               `json:"total"`
	Types        []store.TypeStats `json:"types"`
	FrameSamples int               `json:"frame_samples"`
	AudioSamples int               `json:"audio_samples"`
}

func newStoreStatsCommand(ctx *commandContext) *cobra.Command {
	var jsonOutput bool

	cmd := &cobra.Command{
		Use:   "stats",
		Short: "Show item counts per content type",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			sess, err := ctx.openSession(nil)
			if err != nil {
				return err
			}
			defer sess.Close()

			stats, err := sess.store.Stats(cmd.Context())
			if err != nil {
				return err
			}
			if jsonOutput {
				return writeJSON(cmd, storeStatsView{
					Database:     sess.store.Path(),
					Total:        stats.Total(),
					Types:        stats.Types,
					FrameSamples: stats.FrameSamples,
					AudioSamples: stats.AudioSamples,
				})
			}

			rows := make([][]string, 0, len(stats.Types))
			for _, t := range stats.Types {
				rows = append(rows, []string{
					string(t.Type),
					strconv.Itoa(t.Published),
					strconv.Itoa(t.Protected),
					strconv.Itoa(t.Removed),
				})
			}
			out := cmd.OutOrStdout()
			fmt.Fprintf(out, "Database: %s\n", sess.store.Path())
			if len(rows) == 0 {
				fmt.Fprintln(out, "No items stored")
				return nil
			}
			fmt.Fprintln(out, renderTable("Items", []string{"Type", "Published", "Protected", "Removed"}, rows,
				[]columnAlignment{alignLeft, alignRight, alignRight, alignRight}))
			fmt.Fprintf(out, "Frame samples: %d\nAudio samples: %d\n", stats.FrameSamples, stats.AudioSamples)
			return nil
		},
	}
	cmd.Flags().BoolVar(&jsonOutput, "json", false, "Output as JSON")
	return cmd
}

func newStorePruneCommand(ctx *commandContext) *cobra.Command {
	var olderThan string

	cmd := &cobra.Command{
		Use:   "prune",
		Short: "Delete items published before the retrieval window",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := ctx.ensureConfig()
			if err != nil {
				return err
			}
			age := time.Duration(cfg.Retrieval.WindowDays) * 24 * time.Hour
			if strings.TrimSpace(olderThan) != "" {
				if age, err = parseAge(olderThan); err != nil {
					return err
				}
			}
			cutoff := time.Now().Add(-age)

			var removed int64
			err = ctx.withWriteLock(func() error {
				sess, err := ctx.openSession(nil)
				if err != nil {
					return err
				}
				defer sess.Close()
				removed, err = sess.store.Prune(cmd.Context(), cutoff)
				return err
			})
			if err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "Pruned %d item(s) published before %s\n", removed, cutoff.UTC().Format(time.DateOnly))
			return nil
		},
	}
	cmd.Flags().StringVar(&olderThan, "older-than", "", "Age cutoff such as 120d or 720h (default: retrieval window)")
	return cmd
}

// parseAge accepts Go durations plus a whole-day "Nd" form.
func parseAge(value string) (time.Duration, error) {
	value = strings.TrimSpace(value)
	if days, ok := strings.CutSuffix(value, "d"); ok {
		n, err := strconv.Atoi(days)
		if err != nil || n <= 0 {
			return 0, fmt.Errorf("invalid age %q", value)
		}
		return time.Duration(n) * 24 * time.Hour, nil
	}
	d, err := time.ParseDuration(value)
	if err != nil || d <= 0 {
		return 0, fmt.Errorf("invalid age %q", value)
	}
	return d, nil
}

func newStoreRemoveCommand(ctx *commandContext) *cobra.Command {
	return &cobra.Command{
		Use:   "remove <item-id>...",
		Short: "Mark items removed so they no longer match",
		Args:  cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return ctx.withWriteLock(func() error {
				sess, err := ctx.openSession(nil)
				if err != nil {
					return err
				}
				defer sess.Close()
				out := cmd.OutOrStdout()
				for _, id := range args {
					if err := sess.store.Remove(cmd.Context(), id); err != nil {
						return err
					}
					fmt.Fprintf(out, "Removed %s (%s)\n", id, content.StatusRemoved)
				}
				return nil
			})
		},
	}
}
