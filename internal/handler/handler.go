package handler

import (
	"encoding/json"
	"errors"
	"net/http"
	"strconv"

	"cycle-kart/internal/model"
	"cycle-kart/internal/service"
	"cycle-kart/internal/session"

	"github.com/rs/zerolog"
)

// writeJSON writes a JSON response with the given status code.
func writeJSON(w http.ResponseWriter, status int, data interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(data); err != nil {
		// Log the error but don't expose it to the client
		return
	}
}

// writeError writes an error response with the given status code and message.
func writeError(w http.ResponseWriter, status int, code, message string, logger zerolog.Logger) {
	logger.Error().Str("code", code).Str("error", message).Int("status", status).Msg("handler error")
	writeJSON(w, status, model.ErrorResponse{Error: code, Message: message})
}

// writeInternalError reports an infrastructure failure without exposing it.
func writeInternalError(w http.ResponseWriter, err error, logger zerolog.Logger) {
	writeError(w, http.StatusInternalServerError, model.ErrCodeInternalError, "internal server error",
		logger.With().Err(err).Logger())
}

// sessionID returns the session bound by the session middleware. A request
// without one is a wiring error and is answered with 500.
func sessionID(w http.ResponseWriter, r *http.Request, logger zerolog.Logger) (string, bool) {
	id, ok := session.FromContext(r.Context())
	if !ok {
		writeInternalError(w, errors.New("no session bound to request"), logger)
		return "", false
	}
	return id, true
}

// pathID parses the {id} path segment.
func pathID(r *http.Request) (int, bool) {
	id, err := strconv.Atoi(r.PathValue("id"))
	return id, err == nil
}

// formQuantity parses the "quantity" form field, or returns def when the
// field is absent.
func formQuantity(r *http.Request, def int) (int, error) {
	raw := r.FormValue("quantity")
	if raw == "" {
		return def, nil
	}
	q, err := strconv.Atoi(raw)
	if err != nil {
		return 0, model.ErrInvalidQuantity
	}
	return q, nil
}

// asDomainError extracts a domain error from err.
func asDomainError(err error) (*model.DomainError, bool) {
	var domainErr *model.DomainError
	if errors.As(err, &domainErr) {
		return domainErr, true
	}
	return nil, false
}

// redirector queues a notification for the next page render and answers
// with 303 See Other.
type redirector struct {
	flashes service.FlashService
	logger  zerolog.Logger
}

func (rd redirector) redirect(w http.ResponseWriter, r *http.Request, sid, target string, n model.Notification) {
	if err := rd.flashes.Push(r.Context(), sid, n); err != nil {
		rd.logger.Warn().Err(err).Str("session_id", sid).Msg("dropping notification")
	}
	http.Redirect(w, r, target, http.StatusSeeOther)
}

// fail redirects to target with err as an error notification. Errors that
// are not domain errors become a 500 response.
func (rd redirector) fail(w http.ResponseWriter, r *http.Request, sid, target string, err error) {
	domainErr, ok := asDomainError(err)
	if !ok {
		writeInternalError(w, err, rd.logger)
		return
	}
	rd.redirect(w, r, sid, target, domainErr.Notification())
}

// popFlashes returns the queued notifications. A failure is logged and
// yields none so the page still renders.
func (rd redirector) popFlashes(r *http.Request, sid string) []model.Notification {
	flashes, err := rd.flashes.Pop(r.Context(), sid)
	if err != nil {
		rd.logger.Warn().Err(err).Str("session_id", sid).Msg("failed to load notifications")
		return []model.Notification{}
	}
	return flashes
}
