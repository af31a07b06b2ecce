package archive

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"

	"github.com/nordbooks/fiken-sync/internal/domain"
	"go.uber.org/zap"
)

// Writer dumps each invoiced charge to its own JSON file for manual
// inspection. The dumps are informational only and never read back.
type Writer struct {
	dir    string
	logger *zap.Logger
}

func NewWriter(dir string, logger *zap.Logger) *Writer {
	return &Writer{dir: dir, logger: logger}
}

type chargeDump struct {
	ID            string `json:"id"`
	Amount        int64  `json:"amount"`
	Currency      string `json:"currency"`
	Date          string `json:"date"`
	Description   string `json:"description,omitempty"`
	CustomerName  string `json:"customer_name"`
	CustomerEmail string `json:"customer_email"`
}

func (w *Writer) Save(charge domain.Charge) error {
	if err := os.MkdirAll(w.dir, 0o755); err != nil {
		return fmt.Errorf("failed to create archive dir: %w", err)
	}

	dump := chargeDump{
		ID:            charge.ID,
		Amount:        charge.Amount,
		Currency:      charge.Currency,
		Date:          charge.Created.Format("2006-01-02"),
		Description:   charge.Description,
		CustomerName:  charge.CustomerName,
		CustomerEmail: charge.CustomerEmail,
	}

	data, err := json.MarshalIndent(dump, "", "  ")
	if err != nil {
		return fmt.Errorf("failed to marshal charge dump: %w", err)
	}

	path := filepath.Join(w.dir, charge.ID+"_data.json")
	if err := os.WriteFile(path, data, 0o644); err != nil {
		return fmt.Errorf("failed to write charge dump: %w", err)
	}

	w.logger.Debug("charge dump written", zap.String("path", path))
	return nil
}
