package store

import (
	"pes/internal/models"
	"pes/internal/providers"
	"pes/internal/structures"
	"time"
)

// EntitlementResolver combines the one-time lifetime grant, the time-bound
// subscription and the mirrored billing-provider state into the single
// premium flag. Mutations come from billing callbacks or explicit grant
// calls; the UI never touches the underlying keys. Every mutation re-stamps
// the integrity digest and checkpoints the store.
type EntitlementResolver struct {
	kvs         *KVStore
	verifier    *IntegrityVerifier
	logger      providers.Logger
	lifetimeSKU string
	now         func() time.Time
}

func NewEntitlementResolver(conf *structures.Config, kvs *KVStore, verifier *IntegrityVerifier, logger providers.Logger) *EntitlementResolver {
	return &EntitlementResolver{
		kvs:         kvs,
		verifier:    verifier,
		logger:      logger,
		lifetimeSKU: conf.Billing.LifetimeProductID,
		now:         time.Now,
	}
}

// State reads the currently stored entitlement tuple.
func (r *EntitlementResolver) State() models.EntitlementState {
	var st models.EntitlementState
	st.HasLifetimeGrant, _ = r.kvs.GetBool(keyLifetimeGrant)
	st.ExternalActive, _ = r.kvs.GetBool(keyExternalActive)
	st.SubscriptionExpiry, _ = r.kvs.GetTime(keySubscriptionExpiry)
	return st
}

// IsPremium answers from the last-synced local state only. It never blocks on
// network I/O; refreshing the state is a separate async operation owned by
// the caller. Subscription expiry is re-evaluated lazily against the clock,
// so no background timer is involved.
func (r *EntitlementResolver) IsPremium() bool {
	return r.State().IsPremiumAt(r.now())
}

// GrantLifetime sets the lifetime grant. Terminal: once set it is never
// unset, regardless of any later billing callback.
func (r *EntitlementResolver) GrantLifetime() {
	if has, _ := r.kvs.GetBool(keyLifetimeGrant); has {
		return
	}
	r.kvs.SetBool(keyLifetimeGrant, true)
	r.logger.Infof(providers.TypeStore, "Lifetime grant set")
	r.commit()
}

// GrantSubscription stores the subscription expiry. Whether the subscription
// still counts is a pure function of this timestamp and the clock.
func (r *EntitlementResolver) GrantSubscription(expiry time.Time) {
	r.kvs.SetTime(keySubscriptionExpiry, expiry)
	r.logger.Infof(providers.TypeStore, "Subscription recorded, expires %s", expiry.Format(time.RFC3339))
	r.commit()
}

// ReceiveExternalEntitlement mirrors the billing-provider truth. A matching
// lifetime SKU promotes to the irrevocable lifetime grant; the promotion is
// one-way, a later inactive callback only clears the external flag.
func (r *EntitlementResolver) ReceiveExternalEntitlement(active bool, productID string) {
	r.kvs.SetBool(keyExternalActive, active)
	r.logger.Infof(providers.TypeBilling, "External entitlement update: active=%t product=%s", active, productID)

	if active && productID != "" && productID == r.lifetimeSKU {
		if has, _ := r.kvs.GetBool(keyLifetimeGrant); !has {
			r.kvs.SetBool(keyLifetimeGrant, true)
			r.logger.Infof(providers.TypeBilling, "Lifetime SKU observed, promoting to lifetime grant")
		}
	}
	r.commit()
}

// commit re-stamps the integrity digest over the freshly mutated tuple and
// checkpoints. A failed checkpoint is logged and swallowed: nothing on this
// path may block a paying user from reading the in-memory state.
func (r *EntitlementResolver) commit() {
	st := r.State()
	r.verifier.Stamp(st.HasLifetimeGrant, st.ExternalActive, st.SubscriptionExpiry)
	if err := r.kvs.Flush(); err != nil {
		r.logger.Errorf(providers.TypeStore, "Failed to checkpoint entitlement state: %s", err)
	}
}
