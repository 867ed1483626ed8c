package http

import (
	"context"
	"encoding/json"
	stderrors "errors"
	"net/http"

	"github.com/lmco/eurekastreams/internal/domain"
	"github.com/lmco/eurekastreams/internal/notification/translator"
	"github.com/lmco/eurekastreams/internal/pkg/errors"
	"github.com/lmco/eurekastreams/internal/service"
	"github.com/lmco/eurekastreams/internal/validation"
)

// EventService is the processing surface the handlers drive.
type EventService interface {
	Handle(ctx context.Context, eventID string, ev domain.Event) (service.Result, error)
	Preview(ctx context.Context, ev domain.Event) ([]service.Preview, error)
}

type Handler struct {
	Events EventService
	Shares *validation.ShareValidator
	// Types lists the event types that have translators.
	Types func() []domain.EventType
	// Ready reports whether the stores and brokers are reachable. Nil means always ready.
	Ready func(ctx context.Context) error
}

func NewHandler(events EventService, shares *validation.ShareValidator, types func() []domain.EventType, ready func(ctx context.Context) error) *Handler {
	return &Handler{Events: events, Shares: shares, Types: types, Ready: ready}
}

func (h *Handler) Healthz(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, map[string]string{"status": "ok"})
}

func (h *Handler) Readyz(w http.ResponseWriter, r *http.Request) {
	if h.Ready != nil {
		if err := h.Ready(r.Context()); err != nil {
			errors.WriteError(w, r, errors.Wrap(http.StatusServiceUnavailable, "Service Unavailable", err))
			return
		}
	}
	writeJSON(w, http.StatusOK, map[string]string{"status": "ready"})
}

func (h *Handler) ListEventTypes(w http.ResponseWriter, r *http.Request) {
	var types []domain.EventType
	if h.Types != nil {
		types = h.Types()
	}
	writeJSON(w, http.StatusOK, map[string]any{"types": types})
}

// IngestEvent handles an event envelope the same way the bus consumer does.
func (h *Handler) IngestEvent(w http.ResponseWriter, r *http.Request) {
	env, ev, ok := decodeEnvelope(w, r)
	if !ok {
		return
	}
	res, err := h.Events.Handle(r.Context(), env.ID, ev)
	if err != nil {
		errors.WriteError(w, r, problemFor(err))
		return
	}
	status := http.StatusAccepted
	if res.Duplicate {
		status = http.StatusOK
	}
	writeJSON(w, status, res)
}

// PreviewNotifications shows what an event would produce without sending anything.
func (h *Handler) PreviewNotifications(w http.ResponseWriter, r *http.Request) {
	_, ev, ok := decodeEnvelope(w, r)
	if !ok {
		return
	}
	previews, err := h.Events.Preview(r.Context(), ev)
	if err != nil {
		errors.WriteError(w, r, problemFor(err))
		return
	}
	if previews == nil {
		previews = []service.Preview{}
	}
	writeJSON(w, http.StatusOK, map[string]any{"batches": previews})
}

func (h *Handler) ValidateShare(w http.ResponseWriter, r *http.Request) {
	var a domain.Activity
	if err := json.NewDecoder(r.Body).Decode(&a); err != nil {
		errors.WriteError(w, r, errors.New(http.StatusBadRequest, "Bad Request", "invalid JSON body"))
		return
	}
	if err := h.Shares.Validate(r.Context(), a); err != nil {
		errors.WriteError(w, r, problemFor(err))
		return
	}
	writeJSON(w, http.StatusOK, map[string]bool{"valid": true})
}

func decodeEnvelope(w http.ResponseWriter, r *http.Request) (domain.Envelope, domain.Event, bool) {
	var env domain.Envelope
	if err := json.NewDecoder(r.Body).Decode(&env); err != nil {
		errors.WriteError(w, r, errors.New(http.StatusBadRequest, "Bad Request", "invalid JSON body"))
		return env, nil, false
	}
	ev, err := env.Decode()
	if err != nil {
		status := http.StatusBadRequest
		if stderrors.Is(err, domain.ErrUnknownEventType) {
			status = http.StatusUnprocessableEntity
		}
		errors.WriteError(w, r, errors.Wrap(status, http.StatusText(status), err))
		return env, nil, false
	}
	return env, ev, true
}

// problemFor maps processing errors to HTTP problems. Store and broker failures stay
// opaque.
func problemFor(err error) error {
	var verr *validation.Error
	if stderrors.As(err, &verr) {
		return errors.New(http.StatusBadRequest, "Validation Error", "request has invalid fields").
			With("violations", verr.Violations)
	}
	if stderrors.Is(err, translator.ErrNoTranslator) ||
		stderrors.Is(err, translator.ErrRequestMismatch) ||
		stderrors.Is(err, translator.ErrUnknownDecision) {
		return errors.Wrap(http.StatusUnprocessableEntity, "Unprocessable Entity", err)
	}
	return err
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}
