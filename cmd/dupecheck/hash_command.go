package main

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/spf13/cobra"

	"dupecheck/internal/content"
	"dupecheck/internal/fingerprint"
	"dupecheck/internal/imagehash"
	"dupecheck/internal/textutil"
)

func newHashCommand() *cobra.Command {
	hashCmd := &cobra.Command{
		Use:         "hash",
		Short:       "Compute fingerprints locally",
		Annotations: map[string]string{"skipConfigLoad": "true"},
	}
	hashCmd.AddCommand(newHashImageCommand())
	hashCmd.AddCommand(newHashTextCommand())
	return hashCmd
}

type imageHashView struct {
	Path string       `json:"path"`
	Hash content.Hash `json:"hash"`
}

func newHashImageCommand() *cobra.Command {
	var jsonOutput bool

	cmd := &cobra.Command{
		Use:   "image <file>...",
		Short: "Print the perceptual hash of JPEG, PNG, GIF or WebP images",
		Args:  cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			views := make([]imageHashView, 0, len(args))
			for _, path := range args {
				f, err := os.Open(path)
				if err != nil {
					return fmt.Errorf("open image: %w", err)
				}
				h, err := imagehash.Decode(f)
				_ = f.Close()
				if err != nil {
					return fmt.Errorf("%s: %w", path, err)
				}
				views = append(views, imageHashView{Path: path, Hash: h})
			}

			if jsonOutput {
				return writeJSON(cmd, views)
			}
			rows := make([][]string, 0, len(views))
			for _, v := range views {
				rows = append(rows, []string{filepath.Base(v.Path), v.Hash.String()})
			}
			fmt.Fprintln(cmd.OutOrStdout(), renderTable("", []string{"File", "dHash"}, rows, nil))
			return nil
		},
	}
	cmd.Flags().BoolVar(&jsonOutput, "json", false, "Output as JSON")
	return cmd
}

type textHashView struct {
	ContentHash string `json:"content_hash"`
	WordCount   int    `json:"word_count"`
	Normalized  string `json:"normalized,omitempty"`
}

func newHashTextCommand() *cobra.Command {
	var (
		showNormalized bool
		jsonOutput     bool
	)

	cmd := &cobra.Command{
		Use:   "text <file | ->",
		Short: "Print the exact content hash and word count of a body",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			data, err := readInput(cmd, args[0])
			if err != nil {
				return fmt.Errorf("read text: %w", err)
			}
			doc := textutil.Prepare(string(data))
			view := textHashView{
				ContentHash: fingerprint.Text(doc.Text),
				WordCount:   len(doc.Words),
			}
			if showNormalized {
				view.Normalized = doc.Text
			}
			if jsonOutput {
				return writeJSON(cmd, view)
			}
			fields := [][2]string{
				{"Content hash", valueOr(view.ContentHash, "(empty)")},
				{"Words", fmt.Sprintf("%d", view.WordCount)},
			}
			if showNormalized {
				fields = append(fields, [2]string{"Normalized", view.Normalized})
			}
			fmt.Fprintln(cmd.OutOrStdout(), renderFields("", fields))
			return nil
		},
	}
	cmd.Flags().BoolVar(&showNormalized, "normalized", false, "Include the normalized text")
	cmd.Flags().BoolVar(&jsonOutput, "json", false, "Output as JSON")
	return cmd
}
