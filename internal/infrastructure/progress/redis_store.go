package progress

import (
	"context"
	"fmt"
	"strconv"

	"github.com/go-redis/redis/v8"
	"github.com/nordbooks/fiken-sync/internal/domain"
	"go.uber.org/zap"
)

// RedisStore keeps the checkpoint in redis: a set of processed charge ids
// and a running-total counter. Suits runs on hosts without a durable local
// disk.
type RedisStore struct {
	client *redis.Client
	prefix string
	logger *zap.Logger
}

func NewRedisStore(client *redis.Client, prefix string, logger *zap.Logger) *RedisStore {
	return &RedisStore{client: client, prefix: prefix, logger: logger}
}

func (s *RedisStore) Load(ctx context.Context) (domain.SyncCheckpoint, error) {
	checkpoint := domain.NewSyncCheckpoint()

	ids, err := s.client.SMembers(ctx, s.processedKey()).Result()
	if err != nil {
		return domain.SyncCheckpoint{}, fmt.Errorf("failed to load processed ids: %w", err)
	}
	for _, id := range ids {
		checkpoint.ProcessedIDs[id] = struct{}{}
	}

	total, err := s.client.Get(ctx, s.totalKey()).Result()
	if err == redis.Nil {
		return checkpoint, nil
	}
	if err != nil {
		return domain.SyncCheckpoint{}, fmt.Errorf("failed to load running total: %w", err)
	}

	checkpoint.RunningTotal, err = strconv.ParseInt(total, 10, 64)
	if err != nil {
		return domain.SyncCheckpoint{}, fmt.Errorf("corrupt running total %q: %w", total, err)
	}
	return checkpoint, nil
}

// Record adds the charge to the processed set and advances the total in one
// atomic script, so recording the same charge twice never double-counts.
func (s *RedisStore) Record(ctx context.Context, chargeID string, amount int64) error {
	script := `
		if redis.call('SADD', KEYS[1], ARGV[1]) == 1 then
			redis.call('INCRBY', KEYS[2], ARGV[2])
		end
		return 'OK'
	`

	_, err := s.client.Eval(ctx, script, []string{s.processedKey(), s.totalKey()}, chargeID, amount).Result()
	if err != nil {
		return fmt.Errorf("failed to record charge: %w", err)
	}

	s.logger.Debug("checkpoint updated", zap.String("charge_id", chargeID))
	return nil
}

func (s *RedisStore) processedKey() string {
	return fmt.Sprintf("%s:processed_ids", s.prefix)
}

func (s *RedisStore) totalKey() string {
	return fmt.Sprintf("%s:running_total", s.prefix)
}
