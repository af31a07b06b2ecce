package persistence

import (
	"time"

	"github.com/nordbooks/fiken-sync/internal/domain"
)

// ProcessedChargeModel is the database schema for checkpoint rows: one row
// per charge whose invoice the ledger confirmed. The running total is the
// sum of the amounts.
type ProcessedChargeModel struct {
	ChargeID    string    `gorm:"primaryKey;type:varchar(64)"`
	Amount      int64     `gorm:"not null"`
	ProcessedAt time.Time `gorm:"autoCreateTime;index"`
}

func (ProcessedChargeModel) TableName() string {
	return "processed_charges"
}

// CheckpointFromModels rebuilds the in-memory checkpoint from stored rows.
func CheckpointFromModels(models []ProcessedChargeModel) domain.SyncCheckpoint {
	checkpoint := domain.NewSyncCheckpoint()
	for _, m := range models {
		checkpoint.MarkProcessed(m.ChargeID, m.Amount)
	}
	return checkpoint
}
