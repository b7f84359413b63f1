package handler

import (
	"errors"
	"io"
	"log/slog"
	"mime"
	"net/http"

	"github.com/stevenscomputer/site/internal/logging"
	"github.com/stevenscomputer/site/internal/metrics"
	"github.com/stevenscomputer/site/internal/model"
	"github.com/stevenscomputer/site/internal/service"
)

const maxBodyBytes = 64 << 10

// Public messages. Internal error text never reaches the response body.
const (
	msgSubmitted      = "Pesan berhasil dikirim. Terima kasih!"
	msgUnavailable    = "Database not available"
	msgBusy           = "Server busy, try again later"
	msgDatabaseError  = "Database error"
	msgBodyTooLarge   = "Request body too large"
	msgUnexpectedFail = "Internal server error"
)

// ContactHandler handles contact form submission and the debug listing.
type ContactHandler struct {
	contactService service.ContactService
	metrics        *metrics.Metrics
}

// NewContactHandler creates a ContactHandler with the given service.
func NewContactHandler(contactService service.ContactService, m *metrics.Metrics) *ContactHandler {
	return &ContactHandler{contactService: contactService, metrics: m}
}

type submitResponse struct {
	Success bool   `json:"success"`
	ID      int64  `json:"id"`
	Message string `json:"message"`
}

// Submit handles POST /api/contact.
// name and email are required; phone and message default to "".
func (h *ContactHandler) Submit(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	body, err := io.ReadAll(http.MaxBytesReader(w, r.Body, maxBodyBytes))
	if err != nil {
		var tooLarge *http.MaxBytesError
		if errors.As(err, &tooLarge) {
			h.record(metrics.OutcomeInvalid)
			slog.InfoContext(ctx, "contact submission", "outcome", metrics.OutcomeInvalid, "reason", msgBodyTooLarge)
			writeJSON(w, http.StatusRequestEntityTooLarge, errorResponse{Error: msgBodyTooLarge})
			return
		}
		h.record(metrics.OutcomeInvalid)
		slog.InfoContext(ctx, "contact submission", "outcome", metrics.OutcomeInvalid, "error", err)
		writeJSON(w, http.StatusBadRequest, errorResponse{Error: service.ReasonInvalidJSON})
		return
	}

	msg, err := parseBody(r, body)
	if err != nil {
		h.writeError(w, r, "contact submission", err)
		return
	}

	id, err := h.contactService.Submit(ctx, msg)
	if err != nil {
		h.writeError(w, r, "contact submission", err)
		return
	}

	h.record(metrics.OutcomeSuccess)
	slog.InfoContext(ctx, "contact submission", "outcome", metrics.OutcomeSuccess, "id", id)
	writeJSON(w, http.StatusOK, submitResponse{Success: true, ID: id, Message: msgSubmitted})
}

// parseBody accepts JSON and, for browsers without the client script, form posts.
func parseBody(r *http.Request, body []byte) (*model.ContactMessage, error) {
	mediaType, _, _ := mime.ParseMediaType(r.Header.Get("Content-Type"))
	if mediaType == "application/x-www-form-urlencoded" {
		return service.ParseFormSubmission(body)
	}
	return service.ParseSubmission(body)
}

// List handles GET /api/contacts: the 50 newest messages, newest first.
// Development only; the route is not registered unless debug endpoints are enabled.
func (h *ContactHandler) List(w http.ResponseWriter, r *http.Request) {
	messages, err := h.contactService.ListRecent(r.Context())
	if err != nil {
		h.writeError(w, r, "contact listing", err)
		return
	}

	// Return [] not null for empty lists
	if messages == nil {
		messages = []*model.ContactMessage{}
	}
	writeJSON(w, http.StatusOK, messages)
}

// writeError maps the error taxonomy to a status and a sanitized body, and
// logs the internal diagnostic under the request id.
func (h *ContactHandler) writeError(w http.ResponseWriter, r *http.Request, op string, err error) {
	ctx := r.Context()
	submit := op == "contact submission"

	var ve *service.ValidationError
	switch {
	case errors.As(err, &ve):
		if submit {
			h.record(metrics.OutcomeInvalid)
		}
		slog.InfoContext(ctx, op, "outcome", metrics.OutcomeInvalid, "reason", ve.Reason)
		writeJSON(w, http.StatusBadRequest, errorResponse{Error: ve.Reason})

	case errors.Is(err, service.ErrUnavailable):
		if submit {
			h.record(metrics.OutcomeUnavailable)
		}
		slog.ErrorContext(ctx, op, "outcome", metrics.OutcomeUnavailable, "error", err)
		writeJSON(w, http.StatusInternalServerError, errorResponse{Error: msgUnavailable})

	case errors.Is(err, service.ErrBusy):
		if submit {
			h.record(metrics.OutcomeBusy)
		}
		slog.WarnContext(ctx, op, "outcome", metrics.OutcomeBusy)
		w.Header().Set("Retry-After", "1")
		writeJSON(w, http.StatusServiceUnavailable, errorResponse{Error: msgBusy})

	case errors.Is(err, service.ErrStorage):
		if submit {
			h.record(metrics.OutcomeStorage)
		}
		slog.ErrorContext(ctx, op, "outcome", metrics.OutcomeStorage, "error", err)
		resp := errorResponse{Error: msgDatabaseError}
		if submit {
			if id := logging.RequestID(ctx); id != "" {
				resp.Details = "ref " + id
			}
		}
		writeJSON(w, http.StatusInternalServerError, resp)

	default:
		if submit {
			h.record(metrics.OutcomeError)
		}
		slog.ErrorContext(ctx, op, "outcome", metrics.OutcomeError, "error", err)
		writeJSON(w, http.StatusInternalServerError, errorResponse{Error: msgUnexpectedFail})
	}
}

func (h *ContactHandler) record(outcome string) {
	if h.metrics != nil {
		h.metrics.RecordSubmission(outcome)
	}
}
