package progress

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/nordbooks/fiken-sync/internal/domain"
	"github.com/nordbooks/fiken-sync/internal/infrastructure/persistence"
	"go.uber.org/zap"
	"gorm.io/gorm"
)

// GormStore keeps the checkpoint in MySQL, one row per processed charge. The
// primary key on charge_id makes Record idempotent under re-runs.
type GormStore struct {
	db     *gorm.DB
	logger *zap.Logger
}

func NewGormStore(db *gorm.DB, logger *zap.Logger) *GormStore {
	return &GormStore{db: db, logger: logger}
}

func (s *GormStore) Load(ctx context.Context) (domain.SyncCheckpoint, error) {
	var models []persistence.ProcessedChargeModel

	result := s.db.WithContext(ctx).Find(&models)
	if result.Error != nil {
		return domain.SyncCheckpoint{}, fmt.Errorf("database error: %w", result.Error)
	}

	return persistence.CheckpointFromModels(models), nil
}

func (s *GormStore) Record(ctx context.Context, chargeID string, amount int64) error {
	model := persistence.ProcessedChargeModel{
		ChargeID: chargeID,
		Amount:   amount,
	}

	result := s.db.WithContext(ctx).Create(&model)
	if result.Error != nil {
		if isDuplicateError(result.Error) {
			return nil
		}
		s.logger.Error("failed to record charge", zap.Error(result.Error))
		return fmt.Errorf("database error: %w", result.Error)
	}

	s.logger.Debug("checkpoint updated", zap.String("charge_id", chargeID))
	return nil
}

func isDuplicateError(err error) bool {
	if err == nil {
		return false
	}
	return errors.Is(err, gorm.ErrDuplicatedKey) ||
		strings.Contains(err.Error(), "Duplicate entry") ||
		strings.Contains(err.Error(), "UNIQUE constraint")
}
