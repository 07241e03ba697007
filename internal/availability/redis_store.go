package availability

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"

	"github.com/m04kA/SMC-AppointmentService/internal/domain"
)

const (
	redisKeyPrefix = "availability:"
	scanBatch      = 100
)

// RedisStore хранилище в Redis, общее для всех экземпляров сервиса
type RedisStore struct {
	client *redis.Client
	ttl    time.Duration
}

// NewRedisStore создает хранилище поверх клиента Redis
func NewRedisStore(client *redis.Client, ttl time.Duration) *RedisStore {
	return &RedisStore{
		client: client,
		ttl:    ttl,
	}
}

type redisValue struct {
	Slots          []string           `json:"slots"`
	ByProfessional map[int64][]string `json:"by_professional"`
}

func (s *RedisStore) Get(ctx context.Context, key string) (*domain.Availability, bool, error) {
	raw, err := s.client.Get(ctx, redisKeyPrefix+key).Bytes()
	if err != nil {
		if errors.Is(err, redis.Nil) {
			return nil, false, nil
		}
		return nil, false, fmt.Errorf("%w: RedisStore.Get - key %s: %v", ErrStore, key, err)
	}

	var value redisValue
	if err := json.Unmarshal(raw, &value); err != nil {
		return nil, false, fmt.Errorf("%w: RedisStore.Get - decode key %s: %v", ErrStore, key, err)
	}

	return value.toDomain(), true, nil
}

func (s *RedisStore) Set(ctx context.Context, key string, value *domain.Availability) error {
	raw, err := json.Marshal(fromDomain(value))
	if err != nil {
		return fmt.Errorf("%w: RedisStore.Set - encode key %s: %v", ErrStore, key, err)
	}

	if err := s.client.Set(ctx, redisKeyPrefix+key, raw, s.ttl).Err(); err != nil {
		return fmt.Errorf("%w: RedisStore.Set - key %s: %v", ErrStore, key, err)
	}
	return nil
}

func (s *RedisStore) Delete(ctx context.Context, key string) error {
	if err := s.client.Del(ctx, redisKeyPrefix+key).Err(); err != nil {
		return fmt.Errorf("%w: RedisStore.Delete - key %s: %v", ErrStore, key, err)
	}
	return nil
}

func (s *RedisStore) DeletePrefix(ctx context.Context, prefix string) error {
	iter := s.client.Scan(ctx, 0, redisKeyPrefix+prefix+"*", scanBatch).Iterator()

	keys := make([]string, 0)
	for iter.Next(ctx) {
		keys = append(keys, iter.Val())
	}
	if err := iter.Err(); err != nil {
		return fmt.Errorf("%w: RedisStore.DeletePrefix - scan %s: %v", ErrStore, prefix, err)
	}

	if len(keys) == 0 {
		return nil
	}

	if err := s.client.Del(ctx, keys...).Err(); err != nil {
		return fmt.Errorf("%w: RedisStore.DeletePrefix - del %s: %v", ErrStore, prefix, err)
	}
	return nil
}

func fromDomain(a *domain.Availability) redisValue {
	value := redisValue{
		Slots:          toStrings(a.Slots),
		ByProfessional: make(map[int64][]string, len(a.ByProfessional)),
	}
	for id, slots := range a.ByProfessional {
		value.ByProfessional[id] = toStrings(slots)
	}
	return value
}

func (v redisValue) toDomain() *domain.Availability {
	a := &domain.Availability{
		Slots:          toSlots(v.Slots),
		ByProfessional: make(map[int64][]domain.TimeSlot, len(v.ByProfessional)),
	}
	for id, slots := range v.ByProfessional {
		a.ByProfessional[id] = toSlots(slots)
	}
	return a
}

func toStrings(slots []domain.TimeSlot) []string {
	result := make([]string, len(slots))
	for i, s := range slots {
		result[i] = s.String()
	}
	return result
}

func toSlots(values []string) []domain.TimeSlot {
	result := make([]domain.TimeSlot, len(values))
	for i, v := range values {
		result[i] = domain.TimeSlot(v)
	}
	return result
}
