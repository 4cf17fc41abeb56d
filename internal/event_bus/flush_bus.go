package event_bus

import (
	"errors"
	"fmt"

	"github.com/asaskevich/EventBus"
	"go.uber.org/zap"
)

// FlushTopic carries a FlushNotice after each successful write buffer flush.
const FlushTopic = "write_buffer.flushed"

// FlushNotice names the wallets whose documents just reached Index.
type FlushNotice struct {
	Index     string
	WalletIds []string
}

// FlushBus announces flushes to the components of the same process. Subscribers
// pick the index they care about and run asynchronously to the publisher.
type FlushBus interface {
	Publish(notice FlushNotice) error
	Subscribe(index string, handler func(walletIds []string)) error
}

type FlushBusImpl struct {
	eventBus EventBus.Bus
	logger   *zap.Logger
}

func NewFlushBus(eventBus EventBus.Bus, logger *zap.Logger) *FlushBusImpl {
	return &FlushBusImpl{
		eventBus: eventBus,
		logger:   logger,
	}
}

func (fb *FlushBusImpl) Publish(notice FlushNotice) error {
	if notice.Index == "" {
		return ErrMissingIndex
	}
	if len(notice.WalletIds) == 0 {
		return nil
	}
	fb.eventBus.Publish(FlushTopic, notice)
	return nil
}

func (fb *FlushBusImpl) Subscribe(index string, handler func(walletIds []string)) error {
	err := fb.eventBus.SubscribeAsync(
		FlushTopic,
		func(notice FlushNotice) {
			if notice.Index != index {
				return
			}
			fb.logger.Debug(
				"Delivering flush notice",
				zap.String("index", index),
				zap.Int("wallets", len(notice.WalletIds)),
			)
			handler(notice.WalletIds)
		},
		false,
	)
	if err != nil {
		return fmt.Errorf("failed to subscribe to flushes of %s: %w", index, err)
	}
	return nil
}

// WaitAsync blocks until every subscriber has handled the notices published so far.
func (fb *FlushBusImpl) WaitAsync() {
	fb.eventBus.WaitAsync()
}

var ErrMissingIndex = errors.New("flush notice has no index")
