package internal

import (
	"pes/internal/providers"
	"pes/internal/services"
	"pes/internal/store"
	"pes/internal/store/interfaces"
	"pes/internal/structures"
)

// App is the composition root of the store. It restores the checkpoint, runs
// the one-time migrations, and exposes the UI-facing service. There is no
// server and no CLI: the embedding application constructs the App at process
// start and calls Shutdown when it terminates.
type App struct {
	Service   services.StoreServiceInterface
	scheduler interfaces.SchedulerInterface
	kvs       *store.KVStore
	logger    providers.Logger
}

func NewApp(service services.StoreServiceInterface, scheduler interfaces.SchedulerInterface, ledger *store.PromoLedger, verifier *store.IntegrityVerifier, dirMigrator *store.LegacyDirMigrator, kvs *store.KVStore, conf *structures.Config, logger providers.Logger) (*App, error) {
	logger.Infof(providers.TypeApp, "Starting %s", conf.AppName)

	if err := scheduler.Restore(); err != nil {
		// A broken checkpoint must never block entitlement reads; the store
		// degrades to an empty state and the diagnostics keep the evidence.
		logger.Errorf(providers.TypeApp, "Restore error: %s", err)
	}

	if err := ledger.Migrate(); err != nil {
		logger.Errorf(providers.TypeMigration, "Ledger migration failed: %s", err)
	}

	dirMigrator.Run()

	if !verifier.Verify() {
		logger.Warnf(providers.TypeApp, "Entitlement integrity check failed at startup")
	}

	ledger.RestoreFromBackup()
	ledger.PurgeExpiredRecords()

	scheduler.Init()

	return &App{
		Service:   service,
		scheduler: scheduler,
		kvs:       kvs,
		logger:    logger,
	}, nil
}

// Shutdown stops the periodic bookkeeping and writes a final checkpoint.
func (a *App) Shutdown() error {
	a.scheduler.Stop()
	if err := a.scheduler.Persist(); err != nil {
		return err
	}
	a.kvs.Close()
	a.logger.Infof(providers.TypeApp, "gracefully stopped")
	a.logger.Close()
	return nil
}
