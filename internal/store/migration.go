package store

import (
	"pes/internal/providers"
	"sort"
	"strings"
)

// ledgerSchemaVersion gates the one-time structural transforms of the promo
// keys. A transform for version N runs at most once, and only when the stored
// version is below N.
const ledgerSchemaVersion = 2

// Migrate upgrades the persisted promo schema to the current version.
// Idempotent: the version check makes repeated invocation (including two
// concurrent startup paths calling it back to back) a no-op after the first
// success. The new version is written only after a fully successful
// transform, and a failure on the final checkpoint leaves the on-disk
// pre-migration data untouched; no in-progress intermediate state is ever
// persisted.
func (l *PromoLedger) Migrate() error {
	version, _ := l.kvs.GetInt64(keyMigrationVersion)
	if version >= ledgerSchemaVersion {
		return nil
	}

	if err := l.migrateV1toV2(); err != nil {
		return err
	}

	l.kvs.SetInt64(keyMigrationVersion, ledgerSchemaVersion)
	if err := l.kvs.Flush(); err != nil {
		return err
	}

	l.metrics.IncMigrationRun("ledger")
	l.logger.Infof(providers.TypeMigration, "Promo schema migrated to v%d", ledgerSchemaVersion)
	return nil
}

// migrateV1toV2 partitions the legacy single undifferentiated used-code set
// into the lifetime and monthly sets using the code-prefix heuristic. The
// heuristic is best-effort, not authoritative: a code with no recognized
// prefix is guessed as lifetime, the higher-value and more restrictive
// category.
func (l *PromoLedger) migrateV1toV2() error {
	legacy, ok := l.kvs.GetStrings(keyUsedLegacy)
	if !ok {
		return nil
	}

	lifetime, _ := l.kvs.GetStrings(keyUsedLifetime)
	monthly, _ := l.kvs.GetStrings(keyUsedMonthly)

	for _, code := range legacy {
		if isMonthlyCode(code) {
			monthly = insertSorted(monthly, code)
		} else {
			lifetime = insertSorted(lifetime, code)
		}
	}

	l.kvs.SetStrings(keyUsedLifetime, lifetime)
	l.kvs.SetStrings(keyUsedMonthly, monthly)
	l.kvs.Delete(keyUsedLegacy)
	l.logger.Infof(providers.TypeMigration, "Partitioned %d legacy codes: %d lifetime, %d monthly",
		len(legacy), len(lifetime), len(monthly))
	return nil
}

// isMonthlyCode matches the MO / MO- prefix family; LT / LT- and everything
// unrecognized fall through to the lifetime set.
func isMonthlyCode(code string) bool {
	return strings.HasPrefix(code, "MO")
}

func insertSorted(codes []string, code string) []string {
	idx := sort.SearchStrings(codes, code)
	if idx < len(codes) && codes[idx] == code {
		return codes
	}
	codes = append(codes, "")
	copy(codes[idx+1:], codes[idx:])
	codes[idx] = code
	return codes
}
