package translator

import (
	"context"

	"github.com/lmco/eurekastreams/internal/domain"
	"github.com/lmco/eurekastreams/internal/notification"
)

// PreBuiltTranslator reshapes a notification composed by an administrator or an
// application. The source is the sending app when one is named, otherwise the person.
type PreBuiltTranslator struct{}

func NewPreBuiltTranslator() *PreBuiltTranslator {
	return &PreBuiltTranslator{}
}

func (t *PreBuiltTranslator) Translate(_ context.Context, req domain.PreBuiltEvent) (*notification.Batch, error) {
	fromApp := req.ClientID != ""
	if !fromApp && req.RecipientID == req.ActorID {
		return nil, nil
	}

	batch := notification.NewBatchFor(notification.PassThrough, req.RecipientID)
	if fromApp {
		batch.SetKeyRef(notification.PropSource, notification.KindApp, req.ClientID)
	} else {
		batch.SetRef(notification.PropSource, notification.KindPerson, req.ActorID)
	}
	if err := batch.SetPropertyAlias(notification.PropActor, notification.PropSource); err != nil {
		return nil, err
	}
	batch.SetProperty(notification.PropMessage, req.Message)
	if req.URL != "" {
		batch.SetProperty(notification.PropURL, req.URL)
	}
	if req.HighPriority {
		batch.SetProperty(notification.PropHighPriority, true)
	}
	return batch, nil
}
