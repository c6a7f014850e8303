package store

import (
	"pes/internal/providers"
	"pes/internal/store/interfaces"
	"pes/internal/structures"
	"sync"
	"time"

	"github.com/roylee0704/gron"
)

// Scheduler drives the periodic bookkeeping: checkpointing the key-value
// store and the ledger's backup-freshness / retention sweep. Everything it
// runs is also triggered opportunistically by the components themselves, so
// the scheduler is a safeguard, not a correctness requirement.
type Scheduler struct {
	config  *structures.Config
	logger  providers.Logger
	metrics providers.MetricsProviderInterface
	kvs     *KVStore
	ledger  *PromoLedger
	cron    *gron.Cron
	opsMu   sync.Mutex
}

func (s *Scheduler) Init() {
	s.cron = gron.New()

	s.cron.AddFunc(gron.Every(s.config.Persistence.SaveInterval), func() {
		s.opsMu.Lock()
		defer s.opsMu.Unlock()

		start := time.Now()
		err := s.kvs.Flush()
		if err != nil {
			s.logger.Errorf(providers.TypeStore, "Error while persisting data: %s", err)
			return
		}
		s.metrics.ObservePersistenceDuration(time.Since(start))
	})

	s.cron.AddFunc(gron.Every(s.config.Ledger.CheckInterval), func() {
		s.opsMu.Lock()
		defer s.opsMu.Unlock()

		s.ledger.SyncBackup()
		s.ledger.PurgeExpiredRecords()
	})

	s.cron.Start()
}

func (s *Scheduler) Stop() {
	if s.cron != nil {
		s.cron.Stop()
	}
}

func (s *Scheduler) Restore() error {
	return s.kvs.Load()
}

func (s *Scheduler) Persist() error {
	s.opsMu.Lock()
	defer s.opsMu.Unlock()

	s.logger.Infof(providers.TypeStore, "Persisting store to file...")
	err := s.kvs.Flush()
	if err != nil {
		s.logger.Errorf(providers.TypeStore, "Error while persisting data: %s", err)
		return err
	}
	return nil
}

func NewScheduler(config *structures.Config, logger providers.Logger, metrics providers.MetricsProviderInterface, kvs *KVStore, ledger *PromoLedger) interfaces.SchedulerInterface {
	return &Scheduler{
		config:  config,
		logger:  logger,
		metrics: metrics,
		kvs:     kvs,
		ledger:  ledger,
	}
}
