//go:build wireinject
// +build wireinject

package di

import (
	wire "github.com/google/wire"
	"pes/internal"
	"pes/internal/providers"
	"pes/internal/services"
	"pes/internal/store"
	"pes/internal/structures"
)

func InitApp(cfg *structures.CliFlags) (*internal.App, error) {

	wire.Build(
		providers.NewConfigProvider,
		providers.NewLogProvider,
		providers.NewMetricsProvider,
		providers.NewInstrumentedCacheProvider,

		store.NewZstdCompressor,
		store.NewKVStore,
		store.NewIdentityManager,
		store.NewIntegrityVerifier,
		store.NewEntitlementResolver,
		store.NewBackupGuard,
		store.NewPromoLedger,
		store.NewLegacyDirMigrator,
		store.NewScheduler,
		services.NewStoreService,
		internal.NewApp,
	)

	return nil, nil
}
