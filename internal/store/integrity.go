package store

import (
	"fmt"
	"pes/internal/providers"
	"strconv"
	"time"

	"github.com/cespare/xxhash/v2"
)

// IntegrityVerifier stamps a deterministic digest next to the entitlement
// flags whenever they change and can later check whether the stored values
// still match it. A mismatch means the underlying keys were edited outside
// the normal mutation API. Detection only: a mismatch is logged and counted
// but never revokes access, since legitimate migrations can trip it.
type IntegrityVerifier struct {
	kvs     *KVStore
	logger  providers.Logger
	metrics providers.MetricsProviderInterface
}

func NewIntegrityVerifier(kvs *KVStore, logger providers.Logger, metrics providers.MetricsProviderInterface) *IntegrityVerifier {
	return &IntegrityVerifier{kvs: kvs, logger: logger, metrics: metrics}
}

// ComputeHash digests the entitlement tuple. Expiry enters at second
// precision so the digest is stable across serialization round-trips.
func (v *IntegrityVerifier) ComputeHash(hasLifetime, externalActive bool, expiry time.Time) uint64 {
	d := xxhash.New()
	fmt.Fprintf(d, "%t|%t|%d", hasLifetime, externalActive, expiry.Unix())
	return d.Sum64()
}

// Stamp records the digest of the given tuple. Called by the resolver after
// every entitlement mutation.
func (v *IntegrityVerifier) Stamp(hasLifetime, externalActive bool, expiry time.Time) {
	digest := v.ComputeHash(hasLifetime, externalActive, expiry)
	// Stored as a decimal string: uint64 does not survive a JSON number.
	v.kvs.SetString(keyIntegrityHash, strconv.FormatUint(digest, 10))
}

// Verify recomputes the digest from the currently stored entitlement values
// and compares it to the stored one. True when they match or when nothing has
// ever been stamped.
func (v *IntegrityVerifier) Verify() bool {
	stored, ok := v.kvs.GetString(keyIntegrityHash)
	if !ok {
		hasLifetime, _ := v.kvs.GetBool(keyLifetimeGrant)
		externalActive, _ := v.kvs.GetBool(keyExternalActive)
		_, hasExpiry := v.kvs.GetTime(keySubscriptionExpiry)
		if hasLifetime || externalActive || hasExpiry {
			v.logger.Warnf(providers.TypeStore, "Entitlement flags present without integrity stamp")
			v.metrics.IncIntegrityMismatch()
			return false
		}
		return true
	}

	storedDigest, err := strconv.ParseUint(stored, 10, 64)
	if err != nil {
		v.logger.Errorf(providers.TypeStore, "Unreadable integrity stamp: %s", err)
		v.metrics.IncIntegrityMismatch()
		return false
	}

	hasLifetime, _ := v.kvs.GetBool(keyLifetimeGrant)
	externalActive, _ := v.kvs.GetBool(keyExternalActive)
	expiry, _ := v.kvs.GetTime(keySubscriptionExpiry)

	if v.ComputeHash(hasLifetime, externalActive, expiry) != storedDigest {
		v.logger.Warnf(providers.TypeStore, "Entitlement integrity mismatch detected")
		v.metrics.IncIntegrityMismatch()
		return false
	}
	return true
}
