package services

import (
	"context"
	"errors"
	"pes/internal/models"
	"pes/internal/providers"
	"pes/internal/store"
	"pes/internal/structures"
)

// ErrNoBillingProvider is returned by RefreshEntitlements when no provider
// has been attached by the embedding app.
var ErrNoBillingProvider = errors.New("no billing provider attached")

// BillingProviderInterface is the contract of the platform billing provider:
// it supplies the active-entitlement snapshots (product identifier, active
// flag, expiry). Implemented outside this library.
type BillingProviderInterface interface {
	Entitlements(ctx context.Context) ([]models.ProviderEntitlement, error)
}

// PaywallServiceInterface is the optional secondary source of truth for
// "is this anonymous identity entitled". Not required for correctness;
// consulted best-effort when the billing provider reports no entitlement.
type PaywallServiceInterface interface {
	IsEntitled(ctx context.Context, installID string) (bool, error)
}

// StoreServiceInterface is the surface the UI layer talks to. It never
// exposes the underlying keys; reads answer from local state and never block
// on network I/O.
type StoreServiceInterface interface {
	IsPremium() bool
	CanPerformGatedAction() bool
	TrackRedemption(code string, codeType models.CodeType) error
	WasRedeemedOnThisInstall(code string) bool
	IsFreshInstall() bool
	InstallID() string
	HandleEntitlementUpdate(productID string, isActive bool)
	RefreshEntitlements(ctx context.Context) error
	AttachBillingProvider(p BillingProviderInterface)
	AttachPaywallService(p PaywallServiceInterface)
}

type StoreService struct {
	resolver      *store.EntitlementResolver
	ledger        *store.PromoLedger
	identity      *store.IdentityManager
	logger        providers.Logger
	entitlementID string
	lifetimeSKU   string
	billing       BillingProviderInterface
	paywall       PaywallServiceInterface
}

func NewStoreService(conf *structures.Config, resolver *store.EntitlementResolver, ledger *store.PromoLedger, identity *store.IdentityManager, logger providers.Logger) StoreServiceInterface {
	return &StoreService{
		resolver:      resolver,
		ledger:        ledger,
		identity:      identity,
		logger:        logger,
		entitlementID: conf.Billing.EntitlementID,
		lifetimeSKU:   conf.Billing.LifetimeProductID,
	}
}

func (s *StoreService) AttachBillingProvider(p BillingProviderInterface) {
	s.billing = p
}

func (s *StoreService) AttachPaywallService(p PaywallServiceInterface) {
	s.paywall = p
}

func (s *StoreService) IsPremium() bool {
	return s.resolver.IsPremium()
}

// CanPerformGatedAction gates premium-only operations. Currently equivalent
// to IsPremium; kept separate so gating policy can diverge from the raw
// entitlement without touching callers.
func (s *StoreService) CanPerformGatedAction() bool {
	return s.resolver.IsPremium()
}

func (s *StoreService) TrackRedemption(code string, codeType models.CodeType) error {
	if err := s.ledger.Redeem(code, codeType); err != nil {
		return err
	}
	s.ledger.SyncBackup()
	return nil
}

func (s *StoreService) WasRedeemedOnThisInstall(code string) bool {
	return s.ledger.WasRedeemedOnThisInstall(code)
}

func (s *StoreService) IsFreshInstall() bool {
	return s.identity.IsFreshInstall()
}

func (s *StoreService) InstallID() string {
	return s.identity.InstallID()
}

// HandleEntitlementUpdate is the billing-provider callback entry point. The
// configured entitlement identifier mirrors into the external-active flag;
// the configured lifetime product identifier triggers the one-way lifetime
// grant. Anything else is ignored.
func (s *StoreService) HandleEntitlementUpdate(productID string, isActive bool) {
	switch productID {
	case s.entitlementID:
		s.resolver.ReceiveExternalEntitlement(isActive, productID)
	case s.lifetimeSKU:
		if isActive {
			s.resolver.ReceiveExternalEntitlement(true, productID)
		}
	default:
		s.logger.Debugf(providers.TypeBilling, "Ignoring entitlement update for unknown product %s", productID)
	}
}

// RefreshEntitlements pulls the current snapshots from the billing provider
// and commits them locally. Explicitly async from the reader's point of view:
// IsPremium keeps answering the pre-refresh value until this commits. When
// the provider reports nothing active, the optional paywall service is
// consulted as a secondary source before the external flag is cleared.
func (s *StoreService) RefreshEntitlements(ctx context.Context) error {
	if s.billing == nil {
		return ErrNoBillingProvider
	}

	ents, err := s.billing.Entitlements(ctx)
	if err != nil {
		return err
	}

	externalActive := false
	for _, ent := range ents {
		if !ent.Active {
			continue
		}
		switch ent.ProductID {
		case s.lifetimeSKU:
			s.resolver.GrantLifetime()
		case s.entitlementID:
			externalActive = true
			if !ent.Expiry.IsZero() {
				s.resolver.GrantSubscription(ent.Expiry)
			}
		default:
			if !ent.Expiry.IsZero() {
				s.resolver.GrantSubscription(ent.Expiry)
			}
		}
	}

	if !externalActive && s.paywall != nil {
		entitled, err := s.paywall.IsEntitled(ctx, s.identity.InstallID())
		if err != nil {
			s.logger.Warnf(providers.TypeBilling, "Paywall service lookup failed: %s", err)
		} else if entitled {
			externalActive = true
		}
	}

	s.resolver.ReceiveExternalEntitlement(externalActive, s.entitlementID)
	return nil
}
