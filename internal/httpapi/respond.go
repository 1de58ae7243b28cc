package httpapi

import (
	"encoding/json"
	"errors"
	"net/http"
	"strconv"
	"strings"
	"time"

	"productivity-tracker/internal/repository"
	"productivity-tracker/internal/service"
)

func respondJSON(w http.ResponseWriter, status int, payload interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(payload)
}

func respondError(w http.ResponseWriter, status int, message string) {
	respondJSON(w, status, map[string]interface{}{
		"status":  "error",
		"message": message,
		"code":    status,
	})
}

// statusFor maps manager errors onto HTTP status codes.
func statusFor(err error) int {
	switch {
	case errors.Is(err, service.ErrValidation):
		return http.StatusBadRequest
	case errors.Is(err, service.ErrNotFound):
		return http.StatusNotFound
	case errors.Is(err, service.ErrConflict), errors.Is(err, service.ErrCategoryInUse):
		return http.StatusConflict
	default:
		return http.StatusInternalServerError
	}
}

func (s *Server) fail(w http.ResponseWriter, r *http.Request, err error) {
	status := statusFor(err)
	if status == http.StatusInternalServerError {
		s.log.Error().Err(err).Str("method", r.Method).Str("path", r.URL.Path).Msg("request failed")
		respondError(w, status, "Internal server error")
		return
	}
	respondError(w, status, err.Error())
}

func decode(r *http.Request, v interface{}) error {
	dec := json.NewDecoder(r.Body)
	dec.DisallowUnknownFields()
	if err := dec.Decode(v); err != nil {
		var verr *service.ValidationError
		if errors.As(err, &verr) {
			return verr
		}
		return &service.ValidationError{Field: "body", Msg: "malformed JSON: " + err.Error()}
	}
	return nil
}

func pathID(r *http.Request) (uint, error) {
	raw := r.PathValue("id")
	id, err := strconv.ParseUint(raw, 10, 64)
	if err != nil || id == 0 {
		return 0, &service.ValidationError{Field: "id", Msg: "must be a positive integer"}
	}
	return uint(id), nil
}

// pageRequest reads ?page=&size=. ok is false when neither is present.
func pageRequest(r *http.Request) (req repository.PageRequest, ok bool, err error) {
	q := r.URL.Query()
	if !q.Has("page") && !q.Has("size") {
		return req, false, nil
	}
	if raw := q.Get("page"); raw != "" {
		if req.Page, err = strconv.Atoi(raw); err != nil || req.Page < 0 {
			return req, true, &service.ValidationError{Field: "page", Msg: "must be a non-negative integer"}
		}
	}
	if raw := q.Get("size"); raw != "" {
		if req.Size, err = strconv.Atoi(raw); err != nil || req.Size <= 0 {
			return req, true, &service.ValidationError{Field: "size", Msg: "must be a positive integer"}
		}
	}
	return req.Normalize(), true, nil
}

var dateLayouts = []string{time.RFC3339Nano, "2006-01-02T15:04:05", "2006-01-02T15:04", "2006-01-02"}

// dateTime accepts RFC 3339 as well as zone-less local date-times, read as UTC.
type dateTime time.Time

func (d *dateTime) UnmarshalJSON(data []byte) error {
	raw := strings.Trim(string(data), `"`)
	for _, layout := range dateLayouts {
		if t, err := time.Parse(layout, raw); err == nil {
			*d = dateTime(t)
			return nil
		}
	}
	return &service.ValidationError{Field: "dueDate", Msg: "must be an ISO-8601 date-time"}
}

func (d *dateTime) value() *time.Time {
	if d == nil {
		return nil
	}
	t := time.Time(*d)
	return &t
}
