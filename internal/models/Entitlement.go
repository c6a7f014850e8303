package models

import "time"

// EntitlementState is the locally persisted paid-access tuple. It is mutated
// only by the entitlement resolver; UI code reads the derived premium flag.
type EntitlementState struct {
	HasLifetimeGrant   bool      `json:"has_lifetime_grant"`
	SubscriptionExpiry time.Time `json:"subscription_expiry"`
	ExternalActive     bool      `json:"external_active"`
}

// IsPremiumAt derives the premium flag at the given instant.
// Lifetime grant is irrevocable and always wins. External provider state
// reflects the freshest server-verified truth and wins over a locally stored
// subscription expiry. A subscription only counts while its expiry is in the
// future.
func (s EntitlementState) IsPremiumAt(now time.Time) bool {
	if s.HasLifetimeGrant {
		return true
	}
	if s.ExternalActive {
		return true
	}
	return !s.SubscriptionExpiry.IsZero() && now.Before(s.SubscriptionExpiry)
}

// ProviderEntitlement is one active-entitlement snapshot delivered by the
// platform billing provider.
type ProviderEntitlement struct {
	ProductID string    `json:"product_id"`
	Active    bool      `json:"active"`
	Expiry    time.Time `json:"expiry"`
}
