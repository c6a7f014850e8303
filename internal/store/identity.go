package store

import (
	"pes/internal/providers"

	"github.com/google/uuid"
)

// IdentityManager owns the opaque per-install identifier that scopes backups
// and redemption records. The identifier is generated exactly once and then
// survives every app update; it only changes when the app data is genuinely
// wiped (a real reinstall).
type IdentityManager struct {
	kvs    *KVStore
	logger providers.Logger
}

func NewIdentityManager(kvs *KVStore, logger providers.Logger) *IdentityManager {
	return &IdentityManager{kvs: kvs, logger: logger}
}

// IsFreshInstall reports whether no install identifier has been persisted yet.
// Callers that need to distinguish an update from a reinstall must call this
// BEFORE InstallID, which lazily creates the identifier and would make this
// always return false afterwards.
func (m *IdentityManager) IsFreshInstall() bool {
	return !m.kvs.Has(keyInstallID)
}

// InstallID returns the persisted identifier, generating and persisting a new
// random one on first call. Pure read after that.
func (m *IdentityManager) InstallID() string {
	if id, ok := m.kvs.GetString(keyInstallID); ok && id != "" {
		return id
	}

	id := uuid.NewString()
	m.kvs.SetString(keyInstallID, id)
	m.logger.Infof(providers.TypeStore, "Generated new install identity")
	return id
}
