package models

import "time"

// CodeType partitions promo codes into independent used-sets. A code consumed
// as one type can still be consumed as the other.
type CodeType string

const (
	CodeTypeLifetime CodeType = "lifetime"
	CodeTypeMonthly  CodeType = "monthly"
)

// RedemptionRecord is one entry of the bounded redemption history log.
// Immutable once written; the log only ever drops records (FIFO trim at the
// size bound, retention purge after a year).
type RedemptionRecord struct {
	Code              string    `json:"code"`
	Type              CodeType  `json:"type"`
	Timestamp         time.Time `json:"timestamp"`
	InstallID         string    `json:"install_id"`
	DeviceFingerprint string    `json:"device_fingerprint"`
}
