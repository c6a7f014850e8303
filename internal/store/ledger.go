package store

import (
	"errors"
	"pes/internal/models"
	"pes/internal/providers"
	"pes/internal/structures"
	"sort"
	"time"

	"go.uber.org/atomic"
)

// ErrAlreadyRedeemed is returned when a code is already present in the
// used-set matching the requested type. User-visible and non-fatal; the
// ledger state is unchanged.
var ErrAlreadyRedeemed = errors.New("promo code already redeemed")

// PromoLedger tracks which promo codes this install has consumed. Two
// disjoint ordered used-sets (lifetime, monthly) decide whether a code can be
// redeemed again; the bounded redemption history decides whether *this*
// install ever redeemed it. Backups are requested as an intent the ledger
// itself fulfills, so the guard never needs the set values pushed into it.
type PromoLedger struct {
	kvs          *KVStore
	identity     *IdentityManager
	guard        *BackupGuard
	logger       providers.Logger
	metrics      providers.MetricsProviderInterface
	maxRecords   int
	retention    time.Duration
	fingerprint  string
	backupWanted atomic.Bool
	now          func() time.Time
}

func NewPromoLedger(conf *structures.Config, kvs *KVStore, identity *IdentityManager, guard *BackupGuard, logger providers.Logger, metrics providers.MetricsProviderInterface) *PromoLedger {
	return &PromoLedger{
		kvs:         kvs,
		identity:    identity,
		guard:       guard,
		logger:      logger,
		metrics:     metrics,
		maxRecords:  conf.Ledger.MaxRecords,
		retention:   time.Duration(conf.Ledger.RetentionDays) * 24 * time.Hour,
		fingerprint: conf.Device.Fingerprint,
		now:         time.Now,
	}
}

func usedSetKey(t models.CodeType) string {
	if t == models.CodeTypeMonthly {
		return keyUsedMonthly
	}
	return keyUsedLifetime
}

// UsedCodes returns the ordered used-set for the given type.
func (l *PromoLedger) UsedCodes(t models.CodeType) []string {
	codes, _ := l.kvs.GetStrings(usedSetKey(t))
	return codes
}

// Redeem consumes a code for the given type. Fails with ErrAlreadyRedeemed
// when the code is already in the matching set; the two sets are independent,
// so the same code can be consumed once per type. On success the code joins
// the set, a history record is appended (trimming the log to the newest
// maxRecords entries) and a backup is requested out of band.
func (l *PromoLedger) Redeem(code string, t models.CodeType) error {
	key := usedSetKey(t)
	codes, _ := l.kvs.GetStrings(key)

	idx := sort.SearchStrings(codes, code)
	if idx < len(codes) && codes[idx] == code {
		l.metrics.IncRedemption(string(t), "already_redeemed")
		return ErrAlreadyRedeemed
	}

	codes = append(codes, "")
	copy(codes[idx+1:], codes[idx:])
	codes[idx] = code
	l.kvs.SetStrings(key, codes)

	l.appendRecord(models.RedemptionRecord{
		Code:              code,
		Type:              t,
		Timestamp:         l.now(),
		InstallID:         l.identity.InstallID(),
		DeviceFingerprint: l.fingerprint,
	})

	l.metrics.IncRedemption(string(t), "redeemed")
	l.logger.Infof(providers.TypeStore, "Redeemed %s code", t)
	l.RequestBackup()
	return nil
}

func (l *PromoLedger) appendRecord(rec models.RedemptionRecord) {
	var records []models.RedemptionRecord
	l.kvs.GetJSON(keyRedemptionLog, &records)

	records = append(records, rec)
	if len(records) > l.maxRecords {
		records = records[len(records)-l.maxRecords:]
	}

	if err := l.kvs.SetJSON(keyRedemptionLog, records); err != nil {
		l.logger.Errorf(providers.TypeStore, "Failed to append redemption record: %s", err)
		return
	}
	l.metrics.SetRedemptionLogSize(len(records))
}

// WasRedeemedOnThisInstall reports whether a history record bound to the
// current install identity exists for the code. Independent of the used-sets:
// the sets are the authority for "can redeem again", the history is the
// authority for "did this install redeem it".
func (l *PromoLedger) WasRedeemedOnThisInstall(code string) bool {
	var records []models.RedemptionRecord
	if !l.kvs.GetJSON(keyRedemptionLog, &records) {
		return false
	}
	installID := l.identity.InstallID()
	for _, rec := range records {
		if rec.Code == code && rec.InstallID == installID {
			return true
		}
	}
	return false
}

// PurgeExpiredRecords drops history records older than the retention window.
// Called opportunistically; no background scheduling is required for
// correctness. Returns the number of purged records.
func (l *PromoLedger) PurgeExpiredRecords() int {
	var records []models.RedemptionRecord
	if !l.kvs.GetJSON(keyRedemptionLog, &records) {
		return 0
	}

	cutoff := l.now().Add(-l.retention)
	kept := records[:0]
	for _, rec := range records {
		if rec.Timestamp.After(cutoff) {
			kept = append(kept, rec)
		}
	}

	purged := len(records) - len(kept)
	if purged == 0 {
		return 0
	}

	if err := l.kvs.SetJSON(keyRedemptionLog, kept); err != nil {
		l.logger.Errorf(providers.TypeStore, "Failed to rewrite redemption log: %s", err)
		return 0
	}
	l.metrics.SetRedemptionLogSize(len(kept))
	l.logger.Infof(providers.TypeStore, "Purged %d expired redemption records", purged)
	return purged
}

// RequestBackup marks that a snapshot should be written. The write itself
// happens in SyncBackup, keeping the guard free of any dependency on the
// ledger.
func (l *PromoLedger) RequestBackup() {
	l.backupWanted.Store(true)
}

// SyncBackup fulfills a pending backup intent, or refreshes a snapshot that
// the guard reports as stale. Safe to call at any time; a no-op when nothing
// is wanted.
func (l *PromoLedger) SyncBackup() {
	if !l.backupWanted.Load() && !l.guard.BackupNeeded() {
		return
	}
	lifetime, _ := l.kvs.GetStrings(keyUsedLifetime)
	monthly, _ := l.kvs.GetStrings(keyUsedMonthly)
	l.guard.Backup(lifetime, monthly)
	l.backupWanted.Store(false)

	if err := l.kvs.Flush(); err != nil {
		l.logger.Errorf(providers.TypeStore, "Failed to checkpoint after backup: %s", err)
	}
}

// RestoreFromBackup repopulates empty used-sets from the snapshot slot, if
// the guard accepts it for this install. Used-sets that already hold data are
// never overwritten. A nil from the guard is the expected outcome on a fresh
// install or after a cross-device copy and is deliberately not logged as a
// failure.
func (l *PromoLedger) RestoreFromBackup() bool {
	if l.kvs.Has(keyUsedLifetime) || l.kvs.Has(keyUsedMonthly) {
		return false
	}
	snap := l.guard.RestoreIfAvailable()
	if snap == nil {
		return false
	}
	l.kvs.SetStrings(keyUsedLifetime, snap.UsedLifetime)
	l.kvs.SetStrings(keyUsedMonthly, snap.UsedMonthly)
	l.logger.Infof(providers.TypeStore, "Restored used-code sets from backup snapshot")
	return true
}
