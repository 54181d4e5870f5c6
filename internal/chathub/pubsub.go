package chathub

import (
	"context"

	"tutormatch/backend/internal/models"

	"go.uber.org/zap"
)

// startPubSubListener підписується на канал повідомлень у Redis.
// It returns nil when there is no broker or the subscription fails;
// the hub then delivers in-process only.
func (h *Hub) startPubSubListener(ctx context.Context) <-chan models.Delivery {
	if h.broker == nil {
		return nil
	}

	deliveries, closeSub, err := h.broker.SubscribeDeliveries(ctx)
	if err != nil {
		h.logger.Warn("redis subscribe failed, using local delivery", zap.Error(err))
		h.brokerDown.Store(true)
		return nil
	}

	go func() {
		<-ctx.Done()
		if err := closeSub(); err != nil {
			h.logger.Debug("closing redis subscription", zap.Error(err))
		}
	}()

	h.logger.Info("listening for deliveries on redis")
	return deliveries
}
