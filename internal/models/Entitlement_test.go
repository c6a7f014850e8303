package models

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestEntitlementState_FreeByDefault(t *testing.T) {
	var st EntitlementState
	assert.False(t, st.IsPremiumAt(time.Now()))
}

func TestEntitlementState_LifetimeAlwaysWins(t *testing.T) {
	now := time.Date(2026, 8, 1, 0, 0, 0, 0, time.UTC)
	st := EntitlementState{
		HasLifetimeGrant:   true,
		ExternalActive:     false,
		SubscriptionExpiry: now.Add(-time.Hour),
	}
	assert.True(t, st.IsPremiumAt(now))
}

func TestEntitlementState_ExternalActive(t *testing.T) {
	st := EntitlementState{ExternalActive: true}
	assert.True(t, st.IsPremiumAt(time.Now()))
}

func TestEntitlementState_SubscriptionWindow(t *testing.T) {
	now := time.Date(2026, 8, 1, 0, 0, 0, 0, time.UTC)
	st := EntitlementState{SubscriptionExpiry: now.Add(time.Minute)}

	assert.True(t, st.IsPremiumAt(now))
	assert.False(t, st.IsPremiumAt(now.Add(2*time.Minute)))
	// Expiry instant itself is not premium
	assert.False(t, st.IsPremiumAt(now.Add(time.Minute)))
}
