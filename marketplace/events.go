package marketplace

import (
	"context"

	"go.uber.org/zap"

	"github.com/casperpad/kunft-marketplace-contract/types"
)

type logSink struct {
	logger *zap.Logger
}

// NewLogSink returns an EventSink that writes each event to the logger.
func NewLogSink(logger *zap.Logger) EventSink {
	return logSink{logger: logger.With(zap.String("module", "events"))}
}

func (s logSink) Emit(_ context.Context, event types.Event) {
	s.logger.Info("event", zap.String("name", event.EventName()), zap.Any("data", event))
}
