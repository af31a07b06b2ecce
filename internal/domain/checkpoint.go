package domain

// SyncCheckpoint tracks sync progress: the set of charge ids whose invoices
// the ledger has confirmed, and the cumulative gross amount of those charges.
// A charge id in ProcessedIDs implies its invoice was accepted at least once.
// The sync driver is the checkpoint's only writer.
type SyncCheckpoint struct {
	ProcessedIDs map[string]struct{}
	RunningTotal int64
}

func NewSyncCheckpoint() SyncCheckpoint {
	return SyncCheckpoint{ProcessedIDs: make(map[string]struct{})}
}

func (c SyncCheckpoint) IsProcessed(chargeID string) bool {
	_, ok := c.ProcessedIDs[chargeID]
	return ok
}

// MarkProcessed records a confirmed charge and advances the running total.
// Recording the same charge twice is a no-op so the total is never
// double-applied.
func (c *SyncCheckpoint) MarkProcessed(chargeID string, amount int64) {
	if c.ProcessedIDs == nil {
		c.ProcessedIDs = make(map[string]struct{})
	}
	if _, ok := c.ProcessedIDs[chargeID]; ok {
		return
	}
	c.ProcessedIDs[chargeID] = struct{}{}
	c.RunningTotal += amount
}
