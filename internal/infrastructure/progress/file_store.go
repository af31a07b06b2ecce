package progress

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"

	"github.com/nordbooks/fiken-sync/internal/domain"
	"go.uber.org/zap"
)

// checkpointDocument is the on-disk JSON shape of the checkpoint.
type checkpointDocument struct {
	ProcessedChargeIDs []string `json:"processed_charge_ids"`
	RunningTotal       int64    `json:"running_total"`
}

// FileStore keeps the checkpoint in a single JSON document. Every write goes
// to a temp file in the same directory followed by a rename, so a crash
// mid-write cannot corrupt the previously saved checkpoint.
type FileStore struct {
	path   string
	logger *zap.Logger
}

func NewFileStore(path string, logger *zap.Logger) *FileStore {
	return &FileStore{path: path, logger: logger}
}

func (s *FileStore) Load(ctx context.Context) (domain.SyncCheckpoint, error) {
	doc, err := s.read()
	if err != nil {
		return domain.SyncCheckpoint{}, err
	}

	checkpoint := domain.NewSyncCheckpoint()
	for _, id := range doc.ProcessedChargeIDs {
		checkpoint.ProcessedIDs[id] = struct{}{}
	}
	checkpoint.RunningTotal = doc.RunningTotal
	return checkpoint, nil
}

func (s *FileStore) Record(ctx context.Context, chargeID string, amount int64) error {
	doc, err := s.read()
	if err != nil {
		return err
	}

	for _, id := range doc.ProcessedChargeIDs {
		if id == chargeID {
			return nil
		}
	}
	doc.ProcessedChargeIDs = append(doc.ProcessedChargeIDs, chargeID)
	doc.RunningTotal += amount

	if err := s.write(doc); err != nil {
		return err
	}

	s.logger.Debug("checkpoint updated",
		zap.String("charge_id", chargeID),
		zap.Int("processed", len(doc.ProcessedChargeIDs)),
		zap.Int64("running_total", doc.RunningTotal),
	)
	return nil
}

func (s *FileStore) read() (checkpointDocument, error) {
	var doc checkpointDocument

	data, err := os.ReadFile(s.path)
	if errors.Is(err, os.ErrNotExist) {
		return doc, nil
	}
	if err != nil {
		return doc, fmt.Errorf("failed to read checkpoint: %w", err)
	}

	if err := json.Unmarshal(data, &doc); err != nil {
		return doc, fmt.Errorf("failed to parse checkpoint %s: %w", s.path, err)
	}
	return doc, nil
}

func (s *FileStore) write(doc checkpointDocument) error {
	data, err := json.MarshalIndent(doc, "", "  ")
	if err != nil {
		return fmt.Errorf("failed to marshal checkpoint: %w", err)
	}

	dir := filepath.Dir(s.path)
	tmp, err := os.CreateTemp(dir, filepath.Base(s.path)+".tmp-*")
	if err != nil {
		return fmt.Errorf("failed to create temp checkpoint: %w", err)
	}

	if _, err := tmp.Write(data); err != nil {
		tmp.Close()
		os.Remove(tmp.Name())
		return fmt.Errorf("failed to write checkpoint: %w", err)
	}
	if err := tmp.Close(); err != nil {
		os.Remove(tmp.Name())
		return fmt.Errorf("failed to close temp checkpoint: %w", err)
	}
	if err := os.Rename(tmp.Name(), s.path); err != nil {
		os.Remove(tmp.Name())
		return fmt.Errorf("failed to replace checkpoint: %w", err)
	}
	return nil
}
