package internal

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"

	"phipay/config"
	"phipay/entity"
)

const (
	attemptKeyPrefix  = "payphi:attempt:"
	inFlightKeyPrefix = "payphi:inflight:"
	finalKeyPrefix    = "payphi:final:"

	// attemptTTL bounds abandoned checkouts; the flow clears the keys
	// explicitly once the order is placed.
	attemptTTL = 24 * time.Hour
	// finalResponseTTL is the transient expiry: the final response must
	// outlive the redirect round-trip but not the checkout attempt's day.
	finalResponseTTL = 24 * time.Hour
	inFlightTTL      = 24 * time.Hour
)

// RedisAttempts keeps per-session checkout attempt state in Redis: the
// attempt value object, the atomic in-flight flag and the final response
// transient. Each buyer's attempt is isolated by its session key.
type RedisAttempts struct {
	client *redis.Client
}

func NewRedisAttempts(conf *config.Config) *RedisAttempts {
	return &RedisAttempts{
		client: redis.NewClient(&redis.Options{
			Addr:     conf.Redis.Address,
			Password: conf.Redis.Password,
			DB:       conf.Redis.Database,
		}),
	}
}

func (s *RedisAttempts) GetAttempt(ctx context.Context, sessionId string) (*entity.CheckoutAttempt, error) {
	data, err := s.client.Get(ctx, attemptKeyPrefix+sessionId).Bytes()
	if errors.Is(err, redis.Nil) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("get attempt: %w", err)
	}
	var attempt entity.CheckoutAttempt
	if err = json.Unmarshal(data, &attempt); err != nil {
		return nil, fmt.Errorf("decode attempt: %w", err)
	}
	return &attempt, nil
}

func (s *RedisAttempts) SaveAttempt(ctx context.Context, sessionId string, attempt *entity.CheckoutAttempt) error {
	data, err := json.Marshal(attempt)
	if err != nil {
		return fmt.Errorf("encode attempt: %w", err)
	}
	if err = s.client.Set(ctx, attemptKeyPrefix+sessionId, data, attemptTTL).Err(); err != nil {
		return fmt.Errorf("save attempt: %w", err)
	}
	return nil
}

func (s *RedisAttempts) ClearAttempt(ctx context.Context, sessionId string) error {
	if err := s.client.Del(ctx, attemptKeyPrefix+sessionId).Err(); err != nil {
		return fmt.Errorf("clear attempt: %w", err)
	}
	return nil
}

// MarkInFlight claims the in-flight flag with SETNX. Exactly one of two
// overlapping submissions wins; the loser must not issue a sale call.
func (s *RedisAttempts) MarkInFlight(ctx context.Context, sessionId string) (bool, error) {
	won, err := s.client.SetNX(ctx, inFlightKeyPrefix+sessionId, "yes", inFlightTTL).Result()
	if err != nil {
		return false, fmt.Errorf("set in-flight flag: %w", err)
	}
	return won, nil
}

func (s *RedisAttempts) ClearInFlight(ctx context.Context, sessionId string) error {
	if err := s.client.Del(ctx, inFlightKeyPrefix+sessionId).Err(); err != nil {
		return fmt.Errorf("clear in-flight flag: %w", err)
	}
	return nil
}

func (s *RedisAttempts) SetFinalResponse(ctx context.Context, sessionId string, response *entity.FinalResponse) error {
	data, err := json.Marshal(response)
	if err != nil {
		return fmt.Errorf("encode final response: %w", err)
	}
	if err = s.client.Set(ctx, finalKeyPrefix+sessionId, data, finalResponseTTL).Err(); err != nil {
		return fmt.Errorf("save final response: %w", err)
	}
	return nil
}

func (s *RedisAttempts) GetFinalResponse(ctx context.Context, sessionId string) (*entity.FinalResponse, error) {
	data, err := s.client.Get(ctx, finalKeyPrefix+sessionId).Bytes()
	if errors.Is(err, redis.Nil) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("get final response: %w", err)
	}
	var response entity.FinalResponse
	if err = json.Unmarshal(data, &response); err != nil {
		return nil, fmt.Errorf("decode final response: %w", err)
	}
	return &response, nil
}

func (s *RedisAttempts) ClearFinalResponse(ctx context.Context, sessionId string) error {
	if err := s.client.Del(ctx, finalKeyPrefix+sessionId).Err(); err != nil {
		return fmt.Errorf("clear final response: %w", err)
	}
	return nil
}
