package models

import "time"

// BackupSnapshot is the single last-known-good copy of the ledger used-sets.
// One overwritten slot, not a history: last write wins. The install identity
// it carries is the whole trust boundary for restores: a snapshot written on
// one install is never applied to another.
type BackupSnapshot struct {
	UsedLifetime []string  `json:"used_lifetime"`
	UsedMonthly  []string  `json:"used_monthly"`
	Timestamp    time.Time `json:"timestamp"`
	InstallID    string    `json:"install_id"`
}
