package store

import (
	"os"
	"path/filepath"
	"pes/internal/providers"
	"pes/internal/structures"
)

const canonicalBaseName = "Wallpapers"

// legacyBasePath is the historical nested location of the artifact tree,
// relative to the app data root.
var legacyBasePath = filepath.Join("Cache", "Wallpapers")

// legacyFolderRenames maps the historically numbered sub-folders to their
// descriptive names inside the canonical base.
var legacyFolderRenames = map[string]string{
	"wallpapers_1": "generated",
	"wallpapers_2": "favorites",
}

// canonicalSubDirs are the typed artifact categories the canonical base holds.
var canonicalSubDirs = []string{"generated", "favorites", "imported"}

// LegacyDirMigrator consolidates the historical on-disk wallpaper layouts into
// the canonical one. One-shot, run at startup, strictly best-effort: every
// individual failure is swallowed into the migration log so that nothing here
// can ever prevent a subsequent wallpaper write from succeeding. Repeated
// invocation is a no-op; moves only happen when the destination is absent.
type LegacyDirMigrator struct {
	baseDir string
	logger  providers.Logger
	metrics providers.MetricsProviderInterface
}

func NewLegacyDirMigrator(conf *structures.Config, logger providers.Logger, metrics providers.MetricsProviderInterface) *LegacyDirMigrator {
	return &LegacyDirMigrator{
		baseDir: conf.Artifacts.BaseDir,
		logger:  logger,
		metrics: metrics,
	}
}

// Run executes the full consolidation. Step errors are reported through the
// migration log channel and deliberately discarded.
func (m *LegacyDirMigrator) Run() {
	if err := m.consolidateBase(); err != nil {
		m.logger.Warnf(providers.TypeMigration, "Base dir consolidation incomplete: %s", err)
	}
	m.renameNumberedFolders()
	if err := m.ensureCanonicalLayout(); err != nil {
		m.logger.Warnf(providers.TypeMigration, "Canonical layout incomplete: %s", err)
	}
	m.metrics.IncMigrationRun("directories")
}

func (m *LegacyDirMigrator) canonicalBase() string {
	return filepath.Join(m.baseDir, canonicalBaseName)
}

func (m *LegacyDirMigrator) legacyBase() string {
	return filepath.Join(m.baseDir, legacyBasePath)
}

// consolidateBase moves everything from the legacy nested base into the
// canonical base, never overwriting, then removes the legacy tree if it
// emptied out. Residual files are left in place silently.
func (m *LegacyDirMigrator) consolidateBase() error {
	legacy := m.legacyBase()
	if _, err := os.Stat(legacy); err != nil {
		return nil
	}

	canonical := m.canonicalBase()
	if err := os.MkdirAll(canonical, 0755); err != nil {
		return err
	}

	if err := m.moveContents(legacy, canonical); err != nil {
		return err
	}

	// Only an emptied tree goes away; os.Remove refuses non-empty dirs.
	if err := os.Remove(legacy); err == nil {
		os.Remove(filepath.Dir(legacy))
	}
	return nil
}

// moveContents renames every item from src into dst that does not already
// exist at the destination. Individual failures are logged and skipped.
func (m *LegacyDirMigrator) moveContents(src, dst string) error {
	items, err := os.ReadDir(src)
	if err != nil {
		return err
	}
	for _, item := range items {
		from := filepath.Join(src, item.Name())
		to := filepath.Join(dst, item.Name())
		if _, err := os.Stat(to); err == nil {
			continue
		}
		if err := os.Rename(from, to); err != nil {
			m.logger.Warnf(providers.TypeMigration, "Could not move %s: %s", from, err)
		}
	}
	return nil
}

// renameNumberedFolders upgrades each historically numbered sub-folder to its
// descriptive name. When only the old name exists it is renamed; when both
// exist they are merged file-by-file with destination wins (the source file
// is discarded) and the old directory is removed.
func (m *LegacyDirMigrator) renameNumberedFolders() {
	canonical := m.canonicalBase()
	for oldName, newName := range legacyFolderRenames {
		oldDir := filepath.Join(canonical, oldName)
		newDir := filepath.Join(canonical, newName)

		if _, err := os.Stat(oldDir); err != nil {
			continue
		}

		if _, err := os.Stat(newDir); err != nil {
			if err := os.Rename(oldDir, newDir); err != nil {
				m.logger.Warnf(providers.TypeMigration, "Could not rename %s to %s: %s", oldDir, newDir, err)
			}
			continue
		}

		if err := m.mergeDir(oldDir, newDir); err != nil {
			m.logger.Warnf(providers.TypeMigration, "Could not merge %s into %s: %s", oldDir, newDir, err)
			continue
		}
		if err := os.RemoveAll(oldDir); err != nil {
			m.logger.Warnf(providers.TypeMigration, "Could not remove %s: %s", oldDir, err)
		}
	}
}

// mergeDir moves files from src into dst, keeping the destination copy on
// name conflicts.
func (m *LegacyDirMigrator) mergeDir(src, dst string) error {
	items, err := os.ReadDir(src)
	if err != nil {
		return err
	}
	for _, item := range items {
		from := filepath.Join(src, item.Name())
		to := filepath.Join(dst, item.Name())
		if _, err := os.Stat(to); err == nil {
			continue
		}
		if err := os.Rename(from, to); err != nil {
			m.logger.Warnf(providers.TypeMigration, "Could not move %s: %s", from, err)
		}
	}
	return nil
}

// ensureCanonicalLayout creates the canonical base and its typed category
// sub-directories so wallpaper writes always have a destination.
func (m *LegacyDirMigrator) ensureCanonicalLayout() error {
	canonical := m.canonicalBase()
	for _, sub := range canonicalSubDirs {
		if err := os.MkdirAll(filepath.Join(canonical, sub), 0755); err != nil {
			return err
		}
	}
	return nil
}
