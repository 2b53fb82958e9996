package main

import (
	"bufio"
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/spf13/cobra"

	"dupecheck/internal/content"
	"dupecheck/internal/logging"
	"dupecheck/internal/matcher"
)

// ingestRecord is one JSON line of an ingest file: a stored item plus an
// optional thumbnail given inline (base64) or as a path relative to the file.
type ingestRecord struct {
	content.Item
	Image     []byte `json:"image,omitempty"`
	ImagePath string `json:"image_path,omitempty"`
}

type ingestSummary struct {
	Ingested []string `json:"ingested"`
	Failed   int      `json:"failed"`
}

func newIngestCommand(ctx *commandContext) *cobra.Command {
	var (
		keepGoing  bool
		jsonOutput bool
	)

	cmd := &cobra.Command{
		Use:   "ingest <file.jsonl | ->",
		Short: "Load published content and compute its fingerprints",
		Long: `Ingest reads one JSON item per line, stores it and records its content
hash, word count, thumbnail hash and sample sequences so later submissions
can match against it. Blank lines and lines starting with # are skipped.`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			data, err := readInput(cmd, args[0])
			if err != nil {
				return fmt.Errorf("read ingest file: %w", err)
			}
			baseDir := "."
			if args[0] != "-" {
				baseDir = filepath.Dir(args[0])
			}

			var summary ingestSummary
			err = ctx.withWriteLock(func() error {
				sess, err := ctx.openSession(nil)
				if err != nil {
					return err
				}
				defer sess.Close()
				summary, err = ingestLines(cmd.Context(), sess, data, baseDir, keepGoing)
				return err
			})
			if err != nil {
				return err
			}

			if jsonOutput {
				return writeJSON(cmd, summary)
			}
			out := cmd.OutOrStdout()
			fmt.Fprintf(out, "Ingested %d item(s)\n", len(summary.Ingested))
			if summary.Failed > 0 {
				fmt.Fprintf(out, "Skipped %d item(s); see the log for details\n", summary.Failed)
			}
			return nil
		},
	}
	cmd.Flags().BoolVar(&keepGoing, "keep-going", false, "Log and skip invalid lines instead of stopping")
	cmd.Flags().BoolVar(&jsonOutput, "json", false, "Output as JSON")
	return cmd
}

func ingestLines(ctx context.Context, sess *session, data []byte, baseDir string, keepGoing bool) (ingestSummary, error) {
	if ctx == nil {
		ctx = context.Background()
	}
	summary := ingestSummary{Ingested: []string{}}
	scanner := bufio.NewScanner(bytes.NewReader(data))
	scanner.Buffer(make([]byte, 64*1024), 32<<20)
	lineNo := 0
	for scanner.Scan() {
		lineNo++
		line := strings.TrimSpace(scanner.Text())
		if line == "" || strings.HasPrefix(line, "#") {
			continue
		}
		id, err := ingestLine(ctx, sess, []byte(line), baseDir)
		if err != nil {
			if !keepGoing {
				return summary, fmt.Errorf("line %d: %w", lineNo, err)
			}
			summary.Failed++
			sess.logger.Warn("ingest line skipped",
				logging.Int("line", lineNo),
				logging.ErrorKind(err),
				logging.Error(err),
			)
			continue
		}
		summary.Ingested = append(summary.Ingested, id)
	}
	if err := scanner.Err(); err != nil {
		return summary, fmt.Errorf("scan ingest file: %w", err)
	}
	return summary, nil
}

func ingestLine(ctx context.Context, sess *session, line []byte, baseDir string) (string, error) {
	var rec ingestRecord
	dec := json.NewDecoder(bytes.NewReader(line))
	dec.DisallowUnknownFields()
	if err := dec.Decode(&rec); err != nil {
		return "", fmt.Errorf("parse item: %w", err)
	}
	if rec.ImagePath != "" {
		path := rec.ImagePath
		if !filepath.IsAbs(path) {
			path = filepath.Join(baseDir, path)
		}
		data, err := os.ReadFile(path)
		if err != nil {
			return "", fmt.Errorf("read image: %w", err)
		}
		rec.Image = data
	}

	sub := matcher.Submission{
		AuthorID:      rec.AuthorID,
		Type:          rec.Type,
		Body:          rec.Body,
		ImageHash:     rec.ImageHash,
		Image:         rec.Image,
		VideoURL:      rec.VideoURL,
		VideoDuration: rec.VideoDuration,
		Frames:        rec.FrameHashes,
		Audio:         rec.AudioHashes,
	}
	stored, err := sess.store.Insert(ctx, rec.Item)
	if err != nil {
		return "", err
	}
	if _, err := sess.router.Record(ctx, stored.ID, sub); err != nil {
		if rmErr := sess.store.Remove(ctx, stored.ID); rmErr != nil {
			sess.logger.Warn("remove partially ingested item", logging.ItemID(stored.ID), logging.Error(rmErr))
		}
		return "", err
	}
	return stored.ID, nil
}
