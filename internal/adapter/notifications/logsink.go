package notifications

import (
	"context"

	"github.com/lmco/eurekastreams/internal/pkg/logger"
	"github.com/lmco/eurekastreams/internal/port"
)

// LogSink writes batches to the log. It stands in for a broker in local runs.
type LogSink struct{}

func (LogSink) Publish(ctx context.Context, msg port.BatchMessage) error {
	logger.From(ctx).Info("notification batch",
		"batch_id", msg.ID,
		"topic", msg.Topic,
		"payload", string(msg.Payload),
	)
	return nil
}
