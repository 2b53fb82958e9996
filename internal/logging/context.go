package logging

import (
	"context"
	"log/slog"
)

const (
	// FieldComponent is the standardized structured logging key for component names.
	FieldComponent = "component"
	// FieldItemID is the standardized structured logging key for content item identifiers.
	FieldItemID = "item_id"
	// FieldContentType is the standardized structured logging key for post/video/clip.
	FieldContentType = "content_type"
	// FieldCorrelationID is the standardized structured logging key for request correlation identifiers.
	FieldCorrelationID = "correlation_id"
	// FieldSignal names the check (text, image, frames...) a line refers to.
	FieldSignal = "signal"
	// FieldCandidateID identifies the stored item a submission was compared to.
	FieldCandidateID = "candidate_id"
	// FieldAlert flags warnings or anomalies that should stand out in structured logs.
	FieldAlert = "alert"
	// FieldErrorKind carries the error taxonomy name (retrieval, hash_computation...).
	FieldErrorKind = "error_kind"
)

type contextKey string

const (
	itemIDKey        contextKey = "item_id"
	contentTypeKey   contextKey = "content_type"
	correlationIDKey contextKey = "correlation_id"
)

// WithItemID annotates ctx with the submission's item identifier.
func WithItemID(ctx context.Context, id string) context.Context {
	if id == "" {
		return ctx
	}
	return context.WithValue(ctx, itemIDKey, id)
}

// ItemIDFromContext returns the item identifier if present.
func ItemIDFromContext(ctx context.Context) (string, bool) {
	return stringValue(ctx, itemIDKey)
}

// WithContentType annotates ctx with the submission's content type.
func WithContentType(ctx context.Context, contentType string) context.Context {
	if contentType == "" {
		return ctx
	}
	return context.WithValue(ctx, contentTypeKey, contentType)
}

// ContentTypeFromContext returns the content type if present.
func ContentTypeFromContext(ctx context.Context) (string, bool) {
	return stringValue(ctx, contentTypeKey)
}

// WithCorrelationID annotates ctx with a request correlation identifier.
func WithCorrelationID(ctx context.Context, id string) context.Context {
	if id == "" {
		return ctx
	}
	return context.WithValue(ctx, correlationIDKey, id)
}

// CorrelationIDFromContext returns the correlation identifier if present.
func CorrelationIDFromContext(ctx context.Context) (string, bool) {
	return stringValue(ctx, correlationIDKey)
}

func stringValue(ctx context.Context, key contextKey) (string, bool) {
	if ctx == nil {
		return "", false
	}
	if str, ok := ctx.Value(key).(string); ok && str != "" {
		return str, true
	}
	return "", false
}

// ContextFields extracts standardized slog attributes from the provided context.
func ContextFields(ctx context.Context) []slog.Attr {
	if ctx == nil {
		return nil
	}
	fields := make([]slog.Attr, 0, 3)
	if id, ok := CorrelationIDFromContext(ctx); ok {
		fields = append(fields, slog.String(FieldCorrelationID, id))
	}
	if id, ok := ItemIDFromContext(ctx); ok {
		fields = append(fields, slog.String(FieldItemID, id))
	}
	if ct, ok := ContentTypeFromContext(ctx); ok {
		fields = append(fields, slog.String(FieldContentType, ct))
	}
	return fields
}

// WithContext returns a logger augmented with structured fields derived from the supplied context.
func WithContext(ctx context.Context, logger *slog.Logger) *slog.Logger {
	if logger == nil {
		logger = NewNop()
	}
	fields := ContextFields(ctx)
	if len(fields) == 0 {
		return logger
	}
	return logger.With(toArgs(fields)...)
}
