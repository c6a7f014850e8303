package store

import (
	"pes/internal/models"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestGuard_BackupAndRestore(t *testing.T) {
	ts := newTestStore(t)

	ts.guard.Backup([]string{"LT-1"}, []string{"MO-1"})

	snap := ts.guard.RestoreIfAvailable()
	require.NotNil(t, snap)
	assert.Equal(t, []string{"LT-1"}, snap.UsedLifetime)
	assert.Equal(t, []string{"MO-1"}, snap.UsedMonthly)
	assert.Equal(t, ts.identity.InstallID(), snap.InstallID)
}

func TestGuard_NoSnapshotRestoresNothing(t *testing.T) {
	ts := newTestStore(t)
	assert.Nil(t, ts.guard.RestoreIfAvailable())
	assert.Zero(t, ts.metrics.RestoreRejections)
}

func TestGuard_CrossDeviceRestoreRejected(t *testing.T) {
	ts := newTestStore(t)

	ts.guard.Backup([]string{"LT-1"}, nil)

	// Simulate the snapshot landing on another device: the current install
	// identity changes while the snapshot keeps the old one.
	ts.kvs.Delete(keyInstallID)
	_ = ts.identity.InstallID()

	assert.Nil(t, ts.guard.RestoreIfAvailable())
	assert.Equal(t, 1, ts.metrics.RestoreRejections)
}

func TestGuard_LastWriteWins(t *testing.T) {
	ts := newTestStore(t)

	ts.guard.Backup([]string{"LT-1"}, nil)
	ts.guard.Backup([]string{"LT-1", "LT-2"}, []string{"MO-1"})

	snap := ts.guard.RestoreIfAvailable()
	require.NotNil(t, snap)
	assert.Equal(t, []string{"LT-1", "LT-2"}, snap.UsedLifetime)
	assert.Equal(t, 2, ts.metrics.Backups)
}

func TestGuard_BackupNeeded(t *testing.T) {
	ts := newTestStore(t)

	base := time.Date(2026, 8, 1, 0, 0, 0, 0, time.UTC)
	ts.guard.now = func() time.Time { return base }

	// Never backed up
	assert.True(t, ts.guard.BackupNeeded())

	ts.guard.Backup(nil, nil)
	assert.False(t, ts.guard.BackupNeeded())

	// Still fresh within the window
	ts.guard.now = func() time.Time { return base.Add(23 * time.Hour) }
	assert.False(t, ts.guard.BackupNeeded())

	// Stale past 24h
	ts.guard.now = func() time.Time { return base.Add(25 * time.Hour) }
	assert.True(t, ts.guard.BackupNeeded())
}

func TestGuard_DetectDataReset(t *testing.T) {
	ts := newTestStore(t)

	// Nothing persisted: no reset signal
	assert.False(t, ts.guard.DetectDataReset())

	ts.kvs.SetStrings(keyUsedLifetime, []string{"LT-1"})
	ts.guard.Backup([]string{"LT-1"}, nil)
	assert.False(t, ts.guard.DetectDataReset())

	// Identity regenerated while used-code keys survived: looks like a
	// data-preserving reinstall.
	ts.kvs.Delete(keyInstallID)
	_ = ts.identity.InstallID()
	assert.True(t, ts.guard.DetectDataReset())
}

func TestLedger_RestoreFromBackupPopulatesEmptySets(t *testing.T) {
	ts := newTestStore(t)

	ts.guard.Backup([]string{"LT-1"}, []string{"MO-1"})

	require.True(t, ts.ledger.RestoreFromBackup())
	assert.Equal(t, []string{"LT-1"}, ts.ledger.UsedCodes(models.CodeTypeLifetime))
	assert.Equal(t, []string{"MO-1"}, ts.ledger.UsedCodes(models.CodeTypeMonthly))
}

func TestLedger_RestoreNeverOverwritesExistingSets(t *testing.T) {
	ts := newTestStore(t)

	ts.kvs.SetStrings(keyUsedLifetime, []string{"LT-LOCAL"})
	ts.guard.Backup([]string{"LT-REMOTE"}, nil)

	assert.False(t, ts.ledger.RestoreFromBackup())
	assert.Equal(t, []string{"LT-LOCAL"}, ts.ledger.UsedCodes(models.CodeTypeLifetime))
}
