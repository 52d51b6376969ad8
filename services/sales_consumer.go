package services

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"

	"go.uber.org/zap"

	awspkg "github.com/Brutalvik/smartai-shopping-sub000/pkg/aws"
)

// ICacheInvalidator drops a seller's cached dashboard lists.
type ICacheInvalidator interface {
	Invalidate(ctx context.Context, sellerID string) error
}

// IQueuePoller delivers queue messages to a handler until ctx ends.
type IQueuePoller interface {
	StartPolling(ctx context.Context, handler awspkg.MessageHandler) error
}

// salesEvent is the part of a sales or order event the consumer reads. Order
// events may touch several sellers.
type salesEvent struct {
	Type    string `json:"type"`
	Payload struct {
		SellerID  string   `json:"seller_id"`
		SellerIDs []string `json:"seller_ids"`
	} `json:"payload"`
}

// SalesConsumer listens for sales activity and invalidates the affected
// sellers' dashboard caches so new sales show up before the TTL runs out.
type SalesConsumer struct {
	poller      IQueuePoller
	invalidator ICacheInvalidator
	cw          *awspkg.MetricsClient
	logger      *zap.Logger
}

func NewSalesConsumer(poller IQueuePoller, invalidator ICacheInvalidator, cw *awspkg.MetricsClient, logger *zap.Logger) *SalesConsumer {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &SalesConsumer{poller: poller, invalidator: invalidator, cw: cw, logger: logger}
}

// Start polls until ctx is cancelled.
func (c *SalesConsumer) Start(ctx context.Context) {
	c.logger.Info("starting sales event consumer")
	err := c.poller.StartPolling(ctx, c.HandleMessage)
	if err != nil && !errors.Is(err, context.Canceled) {
		c.logger.Error("sales consumer stopped", zap.Error(err))
	}
}

// HandleMessage processes one queue message. Malformed messages are dropped;
// a failed invalidation is returned so the message is retried.
func (c *SalesConsumer) HandleMessage(ctx context.Context, body string) error {
	// Messages fanned out from SNS arrive wrapped in an envelope.
	var envelope struct {
		Message string `json:"Message"`
	}
	if err := json.Unmarshal([]byte(body), &envelope); err == nil && envelope.Message != "" {
		body = envelope.Message
	}

	var evt salesEvent
	if err := json.Unmarshal([]byte(body), &evt); err != nil {
		c.logger.Warn("dropping malformed sales event", zap.Error(err))
		return nil
	}

	sellers := evt.Payload.SellerIDs
	if evt.Payload.SellerID != "" {
		sellers = append(sellers, evt.Payload.SellerID)
	}
	if len(sellers) == 0 {
		c.logger.Debug("sales event without seller", zap.String("type", evt.Type))
		return nil
	}

	seen := make(map[string]bool, len(sellers))
	for _, sellerID := range sellers {
		if sellerID == "" || seen[sellerID] {
			continue
		}
		seen[sellerID] = true
		if err := c.invalidator.Invalidate(ctx, sellerID); err != nil {
			return fmt.Errorf("invalidate dashboard for seller %s: %w", sellerID, err)
		}
	}

	_ = c.cw.RecordCount(ctx, awspkg.MetricSQSMessages, map[string]string{"Type": evt.Type})
	c.logger.Debug("sales event processed", zap.String("type", evt.Type), zap.Int("sellers", len(seen)))
	return nil
}
