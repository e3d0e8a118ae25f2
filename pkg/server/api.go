package server

import (
	"encoding/json"
	"fmt"
	"math"
	"net/http"
	"strings"
	"time"

	"github.com/go-chi/chi/v5"
	"go.opentelemetry.io/otel/attribute"

	"github.com/vango-dev/toast/internal/errors"
	"github.com/vango-dev/toast/pkg/toast"
)

// maxBodySize limits POST /toasts payloads.
const maxBodySize = 64 * 1024

// maxDurationMillis is the longest duration that fits a time.Duration.
const maxDurationMillis = math.MaxInt64 / int64(time.Millisecond)

// CreateRequest is the body of POST /toasts.
type CreateRequest struct {
	Message     string        `json:"message"`
	Type        string        `json:"type,omitempty"`
	Title       string        `json:"title,omitempty"`
	Duration    *int64        `json:"duration,omitempty"` // ms, 0 persists
	Dismissible *bool         `json:"dismissible,omitempty"`
	Action      *toast.Action `json:"action,omitempty"`
}

// CreateResponse is the body returned by POST /toasts.
type CreateResponse struct {
	ID string `json:"id"`
}

// options validates r and converts it to enqueue options.
func (r CreateRequest) options() ([]toast.Option, error) {
	if strings.TrimSpace(r.Message) == "" {
		return nil, errors.New("T201").WithDetail("message is required")
	}

	typ, err := toast.ParseType(r.Type)
	if err != nil {
		return nil, errors.New("T201").WithDetail("type must be info, success, warning or error")
	}
	opts := []toast.Option{toast.WithType(typ)}

	if r.Title != "" {
		opts = append(opts, toast.WithTitle(r.Title))
	}
	if r.Duration != nil {
		if *r.Duration < 0 {
			return nil, errors.New("T201").WithDetail("duration must not be negative")
		}
		if *r.Duration > maxDurationMillis {
			return nil, errors.New("T201").
				WithDetail(fmt.Sprintf("duration must not exceed %d ms", maxDurationMillis))
		}
		opts = append(opts, toast.WithDuration(time.Duration(*r.Duration)*time.Millisecond))
	}
	if r.Dismissible != nil {
		opts = append(opts, toast.WithDismissible(*r.Dismissible))
	}
	if r.Action != nil {
		if r.Action.Label == "" || r.Action.ID == "" {
			return nil, errors.New("T201").WithDetail("action needs a label and an id")
		}
		opts = append(opts, toast.WithAction(r.Action.Label, r.Action.ID))
	}
	return opts, nil
}

func (s *Server) handleHealth(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, map[string]any{
		"status": "ok",
		"closed": s.manager.Closed(),
	})
}

func (s *Server) handleList(w http.ResponseWriter, r *http.Request) {
	_, span := s.startSpan(r, "toast.list")
	defer span.End()

	snap := s.manager.Snapshot()
	span.SetAttributes(attribute.Int("toast.total", snap.Total))
	writeJSON(w, http.StatusOK, snap)
}

func (s *Server) handleGet(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")
	_, span := s.startSpan(r, "toast.get", attribute.String("toast.id", id))
	defer span.End()

	n, ok := s.manager.Get(id)
	if !ok {
		http.NotFound(w, r)
		return
	}
	writeJSON(w, http.StatusOK, n)
}

func (s *Server) handleCreate(w http.ResponseWriter, r *http.Request) {
	_, span := s.startSpan(r, "toast.enqueue")
	defer span.End()

	var req CreateRequest
	dec := json.NewDecoder(http.MaxBytesReader(w, r.Body, maxBodySize))
	dec.DisallowUnknownFields()
	if err := dec.Decode(&req); err != nil {
		s.fail(w, span, http.StatusBadRequest, errors.New("T201").WithDetail("body must be a JSON toast").Wrap(err))
		return
	}

	opts, err := req.options()
	if err != nil {
		s.fail(w, span, http.StatusBadRequest, err)
		return
	}

	id := s.manager.Enqueue(req.Message, opts...)
	span.SetAttributes(attribute.String("toast.id", id))
	writeJSON(w, http.StatusCreated, CreateResponse{ID: id})
}

// handleDismiss refuses non-dismissible toasts: HTTP clients act for the
// end user, who only gets a close button when the toast is dismissible.
func (s *Server) handleDismiss(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")
	_, span := s.startSpan(r, "toast.dismiss", attribute.String("toast.id", id))
	defer span.End()

	if n, ok := s.manager.Get(id); ok && !n.Dismissible {
		s.fail(w, span, http.StatusConflict, errors.New("T202").WithDetail(id))
		return
	}
	s.manager.Dismiss(id)
	w.WriteHeader(http.StatusNoContent)
}

func (s *Server) handlePause(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")
	_, span := s.startSpan(r, "toast.pause", attribute.String("toast.id", id))
	defer span.End()

	s.manager.Pause(id)
	w.WriteHeader(http.StatusNoContent)
}

func (s *Server) handleResume(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")
	_, span := s.startSpan(r, "toast.resume", attribute.String("toast.id", id))
	defer span.End()

	s.manager.Resume(id)
	w.WriteHeader(http.StatusNoContent)
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}

type errorResponse struct {
	Error error `json:"error"`
}

func writeError(w http.ResponseWriter, status int, err error) {
	te := errors.FromError(err, "T201")
	writeJSON(w, status, errorResponse{Error: te})
}
