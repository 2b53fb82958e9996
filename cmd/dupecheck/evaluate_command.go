package main

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"strconv"
	"strings"

	"github.com/spf13/cobra"

	"dupecheck/internal/content"
	"dupecheck/internal/logging"
	"dupecheck/internal/matcher"
)

type submissionFlags struct {
	input       string
	contentType string
	author      string
	body        string
	bodyFile    string
	image       string
	imageHash   string
	videoURL    string
	duration    float64
	excludeItem string
	itemID      string
	correlation string
}

func (f *submissionFlags) register(cmd *cobra.Command) {
	flags := cmd.Flags()
	flags.StringVarP(&f.input, "input", "i", "", "JSON submission file (- for stdin)")
	flags.StringVarP(&f.contentType, "type", "t", "", "Content type: post, video or clip")
	flags.StringVar(&f.author, "author", "", "Submitting author ID")
	flags.StringVar(&f.body, "body", "", "Body text (HTML allowed)")
	flags.StringVar(&f.bodyFile, "body-file", "", "Read body text from a file")
	flags.StringVar(&f.image, "image", "", "Thumbnail image file to hash")
	flags.StringVar(&f.imageHash, "image-hash", "", "Precomputed thumbnail dHash (hex)")
	flags.StringVar(&f.videoURL, "video-url", "", "Referenced video URL")
	flags.Float64Var(&f.duration, "duration", 0, "Video duration in seconds")
	flags.StringVar(&f.excludeItem, "exclude-item", "", "Stored item to skip (edit in place)")
	flags.StringVar(&f.itemID, "item-id", "", "Submission item ID for log correlation")
	flags.StringVar(&f.correlation, "correlation-id", "", "Correlation ID attached to log lines")
}

// submission merges the JSON input with explicitly set flags; flags win.
func (f *submissionFlags) submission(cmd *cobra.Command) (matcher.Submission, error) {
	var sub matcher.Submission
	if f.input != "" {
		data, err := readInput(cmd, f.input)
		if err != nil {
			return sub, fmt.Errorf("read submission: %w", err)
		}
		if err := json.Unmarshal(data, &sub); err != nil {
			return sub, fmt.Errorf("parse submission: %w", err)
		}
	}
	changed := cmd.Flags().Changed
	if changed("type") {
		sub.Type = content.ContentType(f.contentType)
	}
	if changed("author") {
		sub.AuthorID = f.author
	}
	if changed("body") {
		sub.Body = f.body
	}
	if changed("body-file") {
		data, err := os.ReadFile(f.bodyFile)
		if err != nil {
			return sub, fmt.Errorf("read body file: %w", err)
		}
		sub.Body = string(data)
	}
	if changed("image") {
		data, err := os.ReadFile(f.image)
		if err != nil {
			return sub, fmt.Errorf("read image: %w", err)
		}
		sub.Image = data
	}
	if changed("image-hash") {
		h, err := content.ParseHash(f.imageHash)
		if err != nil {
			return sub, err
		}
		sub.ImageHash = &h
	}
	if changed("video-url") {
		sub.VideoURL = f.videoURL
	}
	if changed("duration") {
		sub.VideoDuration = f.duration
	}
	if changed("exclude-item") {
		sub.ExcludeItemID = f.excludeItem
	}
	if changed("item-id") {
		sub.ItemID = f.itemID
	}
	if sub.Type == "" {
		sub.Type = content.TypePost
	}
	return sub, nil
}

func newEvaluateCommand(ctx *commandContext) *cobra.Command {
	var (
		flags      submissionFlags
		strict     bool
		jsonOutput bool
	)

	cmd := &cobra.Command{
		Use:   "evaluate",
		Short: "Check a submission against stored content",
		Long: `Evaluate a post, video or clip against the local content database.

By default lookup and hashing failures yield a clean verdict, the same way the
publish pipeline fails open. Use --strict to surface those errors instead;
input below the minimum word count is still reported as a clean verdict.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			sub, err := flags.submission(cmd)
			if err != nil {
				return err
			}
			sess, err := ctx.openSession(nil)
			if err != nil {
				return err
			}
			defer sess.Close()

			runCtx := cmd.Context()
			if runCtx == nil {
				runCtx = context.Background()
			}
			runCtx = logging.WithCorrelationID(runCtx, flags.correlation)
			var verdict content.Verdict
			if strict {
				verdict, err = sess.router.Check(runCtx, sub)
				if err != nil && !errors.Is(err, content.ErrInputTooShort) {
					return fmt.Errorf("evaluate: %w", err)
				}
			} else {
				verdict = sess.router.Evaluate(runCtx, sub)
			}

			if jsonOutput {
				return writeJSON(cmd, verdict)
			}
			fmt.Fprintln(cmd.OutOrStdout(), renderVerdict(verdict))
			return nil
		},
	}
	flags.register(cmd)
	cmd.Flags().BoolVar(&strict, "strict", false, "Return lookup and hashing errors instead of failing open")
	cmd.Flags().BoolVar(&jsonOutput, "json", false, "Output as JSON")
	return cmd
}

func renderVerdict(v content.Verdict) string {
	fields := [][2]string{
		{"Flagged", yesNo(v.Flagged)},
		{"Category", string(v.Category)},
		{"Strength", string(v.Strength)},
		{"Similarity", strconv.Itoa(v.SimilarityPercent) + "%"},
	}
	if v.Signal != content.SignalNone {
		fields = append(fields, [2]string{"Signal", string(v.Signal)})
	}
	if v.MatchedItemID != "" {
		fields = append(fields, [2]string{"Matched item", v.MatchedItemID}, [2]string{"Matched author", v.MatchedAuthorID})
	}
	if v.LongestRun > 0 {
		fields = append(fields, [2]string{"Longest run", strconv.Itoa(v.LongestRun)})
	}
	if reason := strings.TrimSpace(v.Reason); reason != "" {
		fields = append(fields, [2]string{"Reason", reason})
	}
	return renderFields("Verdict", fields)
}
