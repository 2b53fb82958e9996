package matcher

import (
	"context"
	"errors"
	"fmt"
	"log/slog"

	"github.com/google/uuid"

	"dupecheck/internal/candidates"
	"dupecheck/internal/content"
	"dupecheck/internal/logging"
)

// Router evaluates submissions against stored content. It holds no
// per-request state and is safe for concurrent use.
type Router struct {
	candidates *candidates.Adapter
	writer     candidates.HashWriter
	policy     Policy
	logger     *slog.Logger
}

// Option customises the Router.
type Option func(*Router)

// WithPolicy overrides the default thresholds.
func WithPolicy(p Policy) Option {
	return func(r *Router) {
		r.policy = p.normalized()
	}
}

// WithLogger sets the base logger.
func WithLogger(logger *slog.Logger) Option {
	return func(r *Router) {
		if logger != nil {
			r.logger = logger
		}
	}
}

// WithHashWriter enables Record.
func WithHashWriter(w candidates.HashWriter) Option {
	return func(r *Router) {
		if w != nil {
			r.writer = w
		}
	}
}

// New constructs a Router reading candidates through adapter.
func New(adapter *candidates.Adapter, opts ...Option) *Router {
	r := &Router{
		candidates: adapter,
		policy:     DefaultPolicy(),
		logger:     logging.NewNop(),
	}
	for _, opt := range opts {
		opt(r)
	}
	r.logger = logging.NewComponentLogger(r.logger, "matcher")
	return r
}

// Policy returns the effective thresholds.
func (r *Router) Policy() Policy {
	return r.policy
}

// Evaluate returns the verdict for sub. It never fails: retrieval and hash
// errors are logged and yield the neutral verdict so publishing is never
// blocked by the similarity check.
func (r *Router) Evaluate(ctx context.Context, sub Submission) content.Verdict {
	ctx = annotate(ctx, sub)
	verdict, err := r.Check(ctx, sub)
	logger := logging.WithContext(ctx, r.logger)

	switch {
	case err == nil:
	case errors.Is(err, content.ErrInputTooShort):
		logger.Debug("similarity check skipped", logging.String("reason", err.Error()))
		return verdict
	case errors.Is(err, content.ErrRetrieval), errors.Is(err, content.ErrHashComputation):
		logger.Warn("similarity check failed open",
			logging.Alert("fail_open"),
			logging.ErrorKind(err),
			logging.Error(err),
		)
		return content.Neutral("similarity check unavailable")
	default:
		logger.Error("similarity check failed open",
			logging.Alert("fail_open"),
			logging.ErrorKind(err),
			logging.Error(err),
		)
		return content.Neutral("similarity check unavailable")
	}

	if verdict.Flagged {
		logger.Info("submission flagged",
			logging.Signal(verdict.Signal),
			logging.CandidateID(verdict.MatchedItemID),
			logging.String("category", string(verdict.Category)),
			logging.String("match_strength", string(verdict.Strength)),
			logging.Int("similarity_percent", verdict.SimilarityPercent),
		)
	} else {
		logger.Debug("submission clear", logging.String("reason", verdict.Reason))
	}
	return verdict
}

// Check is Evaluate without the fail-open conversion. The verdict is neutral
// whenever err is non-nil; ErrInputTooShort marks a defined skip.
func (r *Router) Check(ctx context.Context, sub Submission) (content.Verdict, error) {
	ctx = annotate(ctx, sub)
	p, err := r.prepare(sub)
	if err != nil {
		return content.Neutral("submission could not be fingerprinted"), err
	}

	var verdict content.Verdict
	switch p.Type {
	case content.TypePost:
		verdict, err = r.checkPost(ctx, p)
	case content.TypeVideo:
		verdict, err = r.checkVideo(ctx, p)
	case content.TypeClip:
		verdict, err = r.checkClip(ctx, p)
	default:
		err = fmt.Errorf("unsupported content type %q", p.Type)
	}
	if err != nil && !errors.Is(err, content.ErrInputTooShort) {
		return content.Neutral("similarity check unavailable"), err
	}
	return verdict, err
}

// annotate attaches the correlation ID (generating one when absent), item ID
// and content type used by every log line of one evaluation.
func annotate(ctx context.Context, sub Submission) context.Context {
	if ctx == nil {
		ctx = context.Background()
	}
	if _, ok := logging.CorrelationIDFromContext(ctx); !ok {
		ctx = logging.WithCorrelationID(ctx, uuid.NewString())
	}
	if _, ok := logging.ItemIDFromContext(ctx); !ok {
		ctx = logging.WithItemID(ctx, sub.ItemID)
	}
	if _, ok := logging.ContentTypeFromContext(ctx); !ok {
		ctx = logging.WithContentType(ctx, string(sub.Type))
	}
	return ctx
}

func tooShort(kind content.ContentType, words, minimum int) error {
	return fmt.Errorf("%s has %d words, minimum %d: %w", kind, words, minimum, content.ErrInputTooShort)
}
