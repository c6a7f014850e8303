package store

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestIdentity_FreshInstallBeforeLazyCreate(t *testing.T) {
	ts := newTestStore(t)

	// Ordering contract: IsFreshInstall must be checked before InstallID
	// lazily creates the identifier.
	assert.True(t, ts.identity.IsFreshInstall())

	id := ts.identity.InstallID()
	assert.NotEmpty(t, id)
	assert.False(t, ts.identity.IsFreshInstall())
}

func TestIdentity_StableAcrossCalls(t *testing.T) {
	ts := newTestStore(t)

	id1 := ts.identity.InstallID()
	id2 := ts.identity.InstallID()
	assert.Equal(t, id1, id2)
}

func TestIdentity_NewAfterDataWipe(t *testing.T) {
	ts := newTestStore(t)

	id1 := ts.identity.InstallID()

	// A genuine reinstall wipes the identity key.
	ts.kvs.Delete(keyInstallID)
	assert.True(t, ts.identity.IsFreshInstall())

	id2 := ts.identity.InstallID()
	assert.NotEqual(t, id1, id2)
}
