package database

import (
	"context"
	"encoding/json"
	"errors"
	"time"

	"github.com/redis/go-redis/v9"

	"github.com/Brutalvik/smartai-shopping-sub000/models"
)

// SessionRepository stores onboarding flows as JSON blobs with a TTL.
type SessionRepository struct {
	client *redis.Client
	ttl    time.Duration
}

func NewSessionRepository(client *redis.Client, ttl time.Duration) *SessionRepository {
	return &SessionRepository{client: client, ttl: ttl}
}

func (r *SessionRepository) key(flowID string) string {
	return "onboarding:" + flowID
}

// GetFlow returns nil, nil when the flow does not exist or has expired.
func (r *SessionRepository) GetFlow(ctx context.Context, flowID string) (*models.OnboardingFlow, error) {
	data, err := r.client.Get(ctx, r.key(flowID)).Bytes()
	if errors.Is(err, redis.Nil) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}

	var flow models.OnboardingFlow
	if err := json.Unmarshal(data, &flow); err != nil {
		return nil, err
	}
	return &flow, nil
}

// SaveFlow writes the flow and restarts its TTL.
func (r *SessionRepository) SaveFlow(ctx context.Context, flow *models.OnboardingFlow) error {
	flow.UpdatedAt = time.Now().UTC()
	data, err := json.Marshal(flow)
	if err != nil {
		return err
	}
	return r.client.Set(ctx, r.key(flow.ID), data, r.ttl).Err()
}

func (r *SessionRepository) DeleteFlow(ctx context.Context, flowID string) error {
	return r.client.Del(ctx, r.key(flowID)).Err()
}
