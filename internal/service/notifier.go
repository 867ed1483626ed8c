package service

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"golang.org/x/sync/errgroup"

	"github.com/lmco/eurekastreams/internal/domain"
	"github.com/lmco/eurekastreams/internal/notification"
	"github.com/lmco/eurekastreams/internal/pkg/logger"
	"github.com/lmco/eurekastreams/internal/pkg/tracing"
	"github.com/lmco/eurekastreams/internal/port"
	"github.com/lmco/eurekastreams/internal/validation"
)

// EventTranslator turns one event into zero or more batches. *translator.Registry
// implements it.
type EventTranslator interface {
	Translate(ctx context.Context, ev domain.Event) ([]*notification.Batch, error)
}

// EventObserver is told about every event the notifier handled for the first time,
// after its batches were handed off.
type EventObserver interface {
	Observe(ctx context.Context, ev domain.Event)
}

// Result summarizes one handled event. It is also what the idempotency store keeps, so
// a redelivered event reports the original outcome.
type Result struct {
	EventID    string   `json:"eventId,omitempty"`
	EventType  string   `json:"eventType"`
	BatchIDs   []string `json:"batchIds"`
	Recipients int      `json:"recipients"`
	Duplicate  bool     `json:"duplicate,omitempty"`
}

// Preview is a batch with its properties resolved, as a delivery worker would see it.
type Preview struct {
	Recipients map[notification.Category][]int64 `json:"recipients"`
	Properties map[string]any                    `json:"properties"`
}

// Notifier validates, translates and hands off domain events. With an outbox the
// batches and the idempotency key are written in one transaction and the relay
// publishes them later; without one they are published directly.
type Notifier struct {
	Translator  EventTranslator
	Resolver    *notification.EntityResolver
	Publisher   port.BatchPublisher
	Outbox      port.OutboxRepository
	Idempotency port.IdempotencyStore
	TxManager   port.TxManager
	Topic       string
	Observers   []EventObserver

	validator *validation.Validator
	now       func() time.Time
	newID     func() string
}

func NewNotifier(translator EventTranslator, resolver *notification.EntityResolver, publisher port.BatchPublisher, outbox port.OutboxRepository, idempotency port.IdempotencyStore, txManager port.TxManager, topic string) *Notifier {
	return &Notifier{
		Translator:  translator,
		Resolver:    resolver,
		Publisher:   publisher,
		Outbox:      outbox,
		Idempotency: idempotency,
		TxManager:   txManager,
		Topic:       topic,
		validator:   validation.New(),
		now:         time.Now,
		newID:       uuid.NewString,
	}
}

func (n *Notifier) Handle(ctx context.Context, eventID string, ev domain.Event) (res Result, err error) {
	typ := string(ev.EventType())
	ctx, span := tracing.Tracer().Start(ctx, "notifier.handle")
	span.SetAttributes(
		attribute.String("event.type", typ),
		attribute.String("event.id", eventID),
		attribute.Int64("event.actor_id", ev.Actor()),
	)
	defer func() {
		outcome := "ok"
		switch {
		case err != nil:
			outcome = "error"
			span.RecordError(err)
			span.SetStatus(codes.Error, err.Error())
		case res.Duplicate:
			outcome = "duplicate"
		case len(res.BatchIDs) == 0:
			outcome = "none"
		}
		eventsHandled.WithLabelValues(typ, outcome).Inc()
		span.End()
	}()

	log := logger.From(ctx).With("event", typ, "event_id", eventID, "actor_id", ev.Actor())

	if err := n.validator.Struct(ev); err != nil {
		return res, wrapStage(StageValidate, ErrCodeInvalidEvent, typ, err)
	}

	key := idempotencyKey(eventID)
	if key != "" && n.Idempotency != nil {
		done, data, err := n.Idempotency.Check(ctx, key)
		if err != nil {
			return res, wrapStage(StageStore, ErrCodeIdempotency, "check", err)
		}
		if done {
			if err := json.Unmarshal(data, &res); err != nil {
				return res, wrapStage(StageStore, ErrCodeIdempotency, "decode summary", err)
			}
			res.Duplicate = true
			log.Info("event already handled", "batches", len(res.BatchIDs))
			return res, nil
		}
	}

	start := n.now()
	batches, err := n.Translator.Translate(ctx, ev)
	translateDuration.WithLabelValues(typ).Observe(time.Since(start).Seconds())
	if err != nil {
		return res, wrapStage(StageTranslate, ErrCodeTranslate, typ, err)
	}

	res = Result{EventID: eventID, EventType: typ, BatchIDs: []string{}}
	msgs := make([]port.BatchMessage, 0, len(batches))
	for _, b := range batches {
		msg, err := n.encode(eventID, typ, b)
		if err != nil {
			return Result{}, wrapStage(StageEncode, ErrCodeEncodeBatch, typ, err)
		}
		msgs = append(msgs, msg)
		res.BatchIDs = append(res.BatchIDs, msg.ID)
		res.Recipients += len(b.AllRecipients())
	}

	if err := n.handOff(ctx, key, msgs, res); err != nil {
		return Result{}, err
	}
	for _, o := range n.Observers {
		o.Observe(ctx, ev)
	}

	for _, b := range batches {
		for _, c := range b.Categories() {
			recipientsNotified.WithLabelValues(string(c)).Add(float64(len(b.Recipients(c))))
		}
	}
	log.Info("event translated",
		"batches", len(msgs),
		"recipients", res.Recipients,
		"categories", categoryNames(batches),
	)
	return res, nil
}

func (n *Notifier) encode(eventID, typ string, b *notification.Batch) (port.BatchMessage, error) {
	env := notification.Envelope{
		ID:        n.newID(),
		EventID:   eventID,
		EventType: typ,
		CreatedAt: n.now().UTC(),
		Batch:     b,
	}
	payload, err := json.Marshal(env)
	if err != nil {
		return port.BatchMessage{}, fmt.Errorf("encode batch %s: %w", env.ID, err)
	}
	return port.BatchMessage{ID: env.ID, Topic: n.Topic, Payload: payload}, nil
}

func (n *Notifier) handOff(ctx context.Context, key string, msgs []port.BatchMessage, res Result) error {
	summary, err := json.Marshal(res)
	if err != nil {
		return wrapStage(StageEncode, ErrCodeEncodeBatch, "summary", err)
	}

	if n.Outbox != nil {
		return n.withTx(ctx, func(ctx context.Context) error {
			for _, m := range msgs {
				if err := n.Outbox.SaveEvent(ctx, m.ID, m.Topic, m.Payload); err != nil {
					return wrapStage(StageStore, ErrCodeOutbox, "save "+m.ID, err)
				}
			}
			return n.remember(ctx, key, summary)
		})
	}

	if n.Publisher == nil && len(msgs) > 0 {
		return wrapStage(StagePublish, ErrCodePublishBatch, "", errors.New("no publisher or outbox configured"))
	}
	for _, m := range msgs {
		if err := n.Publisher.Publish(ctx, m); err != nil {
			return wrapStage(StagePublish, ErrCodePublishBatch, m.ID, err)
		}
	}
	return n.remember(ctx, key, summary)
}

func (n *Notifier) remember(ctx context.Context, key string, summary []byte) error {
	if key == "" || n.Idempotency == nil {
		return nil
	}
	if err := n.Idempotency.Save(ctx, key, summary); err != nil {
		return wrapStage(StageStore, ErrCodeIdempotency, "save", err)
	}
	return nil
}

func (n *Notifier) withTx(ctx context.Context, fn func(ctx context.Context) error) error {
	if n.TxManager == nil {
		return fn(ctx)
	}
	return n.TxManager.WithTx(ctx, fn)
}

// Preview translates ev and resolves every batch without handing anything off.
func (n *Notifier) Preview(ctx context.Context, ev domain.Event) ([]Preview, error) {
	typ := string(ev.EventType())
	ctx, span := tracing.Tracer().Start(ctx, "notifier.preview")
	defer span.End()

	if err := n.validator.Struct(ev); err != nil {
		return nil, wrapStage(StageValidate, ErrCodeInvalidEvent, typ, err)
	}
	batches, err := n.Translator.Translate(ctx, ev)
	if err != nil {
		return nil, wrapStage(StageTranslate, ErrCodeTranslate, typ, err)
	}

	out := make([]Preview, len(batches))
	g, gctx := errgroup.WithContext(ctx)
	for i, b := range batches {
		out[i].Recipients = make(map[notification.Category][]int64, len(b.Categories()))
		for _, c := range b.Categories() {
			out[i].Recipients[c] = b.Recipients(c)
		}
		g.Go(func() error {
			props, err := n.resolve(gctx, b)
			if err != nil {
				return wrapStage(StageTranslate, ErrCodeResolveProperty, typ, err)
			}
			out[i].Properties = props
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}
	return out, nil
}

func (n *Notifier) resolve(ctx context.Context, b *notification.Batch) (map[string]any, error) {
	if n.Resolver != nil {
		return n.Resolver.Resolve(ctx, b)
	}
	props := make(map[string]any)
	for name := range b.Properties() {
		if v, ok := b.Property(name); ok {
			props[name] = v
		}
	}
	for name := range b.Aliases() {
		if v, ok := b.Property(name); ok {
			props[name] = v
		}
	}
	return props, nil
}

func idempotencyKey(eventID string) string {
	eventID = strings.TrimSpace(eventID)
	if eventID == "" {
		return ""
	}
	return "event:" + eventID
}

func categoryNames(batches []*notification.Batch) []string {
	var out []string
	for _, b := range batches {
		for _, c := range b.Categories() {
			out = append(out, string(c))
		}
	}
	return out
}
