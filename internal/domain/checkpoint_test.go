package domain

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestMarkProcessed_AdvancesTotalOncePerCharge(t *testing.T) {
	checkpoint := NewSyncCheckpoint()

	checkpoint.MarkProcessed("ch_1", 39400)
	checkpoint.MarkProcessed("ch_1", 39400)
	checkpoint.MarkProcessed("ch_2", 600)

	assert.True(t, checkpoint.IsProcessed("ch_1"))
	assert.True(t, checkpoint.IsProcessed("ch_2"))
	assert.False(t, checkpoint.IsProcessed("ch_3"))
	assert.Equal(t, int64(40000), checkpoint.RunningTotal)
}

func TestMarkProcessed_InitializesNilSet(t *testing.T) {
	var checkpoint SyncCheckpoint

	checkpoint.MarkProcessed("ch_1", 100)

	assert.True(t, checkpoint.IsProcessed("ch_1"))
	assert.Equal(t, int64(100), checkpoint.RunningTotal)
}
