package server

import (
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"strings"
	"time"

	"dupecheck/internal/content"
	"dupecheck/internal/logging"
	"dupecheck/internal/matcher"
)

// maxBodyBytes bounds request bodies; thumbnails travel inline as base64.
const maxBodyBytes = 16 << 20

// CorrelationHeader carries the caller's request identifier into logs.
const CorrelationHeader = "X-Correlation-ID"

// RecordRequest is the body of POST /v1/record.
type RecordRequest struct {
	ItemID     string             `json:"item_id"`
	Submission matcher.Submission `json:"submission"`
}

// RecordResponse summarises the fingerprints written for an item.
type RecordResponse struct {
	ItemID       string        `json:"item_id"`
	ContentHash  string        `json:"content_hash,omitempty"`
	WordCount    int           `json:"word_count"`
	ImageHash    *content.Hash `json:"image_hash,omitempty"`
	FrameSamples int           `json:"frame_samples"`
	AudioSamples int           `json:"audio_samples"`
}

// HealthResponse is the body of GET /v1/health.
type HealthResponse struct {
	Status        string `json:"status"`
	UptimeSeconds int64  `json:"uptime_seconds"`
	Items         *int   `json:"items,omitempty"`
	Error         string `json:"error,omitempty"`
}

func (s *Server) handleEvaluate(w http.ResponseWriter, r *http.Request) {
	var sub matcher.Submission
	if err := decodeBody(w, r, &sub); err != nil {
		s.writeError(w, http.StatusBadRequest, err.Error())
		return
	}
	ctx := logging.WithCorrelationID(r.Context(), strings.TrimSpace(r.Header.Get(CorrelationHeader)))
	s.writeJSON(w, http.StatusOK, s.router.Evaluate(ctx, sub))
}

func (s *Server) handleRecord(w http.ResponseWriter, r *http.Request) {
	var req RecordRequest
	if err := decodeBody(w, r, &req); err != nil {
		s.writeError(w, http.StatusBadRequest, err.Error())
		return
	}
	if strings.TrimSpace(req.ItemID) == "" {
		s.writeError(w, http.StatusBadRequest, "item_id is required")
		return
	}
	ctx := logging.WithCorrelationID(r.Context(), strings.TrimSpace(r.Header.Get(CorrelationHeader)))
	hashes, err := s.router.Record(ctx, req.ItemID, req.Submission)
	switch {
	case errors.Is(err, content.ErrItemNotFound):
		s.writeError(w, http.StatusNotFound, err.Error())
		return
	case errors.Is(err, content.ErrHashComputation):
		s.writeError(w, http.StatusUnprocessableEntity, err.Error())
		return
	case err != nil:
		logging.WithContext(ctx, s.logger).Error("record hashes failed",
			logging.ItemID(req.ItemID),
			logging.ErrorKind(err),
			logging.Error(err),
		)
		s.writeError(w, http.StatusInternalServerError, err.Error())
		return
	}
	s.writeJSON(w, http.StatusOK, RecordResponse{
		ItemID:       req.ItemID,
		ContentHash:  hashes.ContentHash,
		WordCount:    hashes.WordCount,
		ImageHash:    hashes.ImageHash,
		FrameSamples: len(hashes.Frames),
		AudioSamples: len(hashes.Audio),
	})
}

func (s *Server) handleHealth(w http.ResponseWriter, r *http.Request) {
	resp := HealthResponse{Status: "ok"}
	s.mu.Lock()
	if !s.started.IsZero() {
		resp.UptimeSeconds = int64(time.Since(s.started).Seconds())
	}
	s.mu.Unlock()

	if s.stats != nil {
		stats, err := s.stats.Stats(r.Context())
		if err != nil {
			resp.Status = "degraded"
			resp.Error = err.Error()
			s.writeJSON(w, http.StatusServiceUnavailable, resp)
			return
		}
		total := stats.Total()
		resp.Items = &total
	}
	s.writeJSON(w, http.StatusOK, resp)
}

func decodeBody(w http.ResponseWriter, r *http.Request, dst any) error {
	dec := json.NewDecoder(http.MaxBytesReader(w, r.Body, maxBodyBytes))
	dec.DisallowUnknownFields()
	if err := dec.Decode(dst); err != nil {
		return fmt.Errorf("decode request: %w", err)
	}
	return nil
}

func (s *Server) writeJSON(w http.ResponseWriter, status int, payload any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if payload == nil {
		return
	}
	if err := json.NewEncoder(w).Encode(payload); err != nil {
		s.logger.Error("failed to encode response", logging.Error(err))
	}
}

func (s *Server) writeError(w http.ResponseWriter, status int, message string) {
	s.writeJSON(w, status, map[string]string{"error": message})
}
