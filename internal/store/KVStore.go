package store

import (
	"os"
	"pes/internal/providers"
	"pes/internal/store/interfaces"
	"pes/internal/structures"
	"sort"
	"strings"
	"sync"
	"time"

	json "github.com/goccy/go-json"
)

const kvFormatVersion = 1

type kvFile struct {
	Version int                        `json:"version"`
	Entries map[string]json.RawMessage `json:"entries"`
}

// KVStore is the durable string-key to value mapping every other component
// persists through. Values are held as raw JSON in memory and checkpointed to
// a single zstd-compressed file with an atomic tmp+rename write. Reads of hot
// keys are fronted by the cache provider; any write invalidates the cached
// entry before updating it.
type KVStore struct {
	mu         sync.RWMutex
	entries    map[string]json.RawMessage
	dirty      bool
	filePath   string
	compressor interfaces.CompressorInterface
	cache      providers.CacheProviderInterface
	logger     providers.Logger
}

func NewKVStore(conf *structures.Config, compressor interfaces.CompressorInterface, cache providers.CacheProviderInterface, logger providers.Logger) *KVStore {
	return &KVStore{
		entries:    make(map[string]json.RawMessage),
		filePath:   conf.Persistence.FilePath,
		compressor: compressor,
		cache:      cache,
		logger:     logger,
	}
}

// Load reads the checkpoint file into memory. A missing file is a fresh
// install, not an error.
func (s *KVStore) Load() error {
	data, err := os.ReadFile(s.filePath)
	if err != nil {
		if os.IsNotExist(err) {
			return nil
		}
		return err
	}

	decompressed, err := s.compressor.Decompress(data)
	if err != nil {
		return err
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	var file kvFile
	if err := json.Unmarshal(decompressed, &file); err == nil && file.Entries != nil {
		s.entries = file.Entries
		return nil
	}

	// Pre-envelope format: a bare key→value object.
	s.logger.Warnf(providers.TypeStore, "Checkpoint without envelope found, reading legacy layout")
	var bare map[string]json.RawMessage
	if err := json.Unmarshal(decompressed, &bare); err != nil {
		return err
	}
	s.entries = bare
	s.dirty = true
	return nil
}

// Flush checkpoints the in-memory state to disk. The write is atomic: data is
// written and fsynced to a temp file which then replaces the checkpoint, so a
// crash mid-write leaves the previous checkpoint intact.
func (s *KVStore) Flush() error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if !s.dirty {
		return nil
	}

	jsonData, err := json.Marshal(kvFile{Version: kvFormatVersion, Entries: s.entries})
	if err != nil {
		return err
	}
	data, err := s.compressor.Compress(jsonData)
	if err != nil {
		return err
	}

	tmpFile := s.filePath + ".tmp"
	file, err := os.Create(tmpFile)
	if err != nil {
		return err
	}

	_, err = file.Write(data)
	if err != nil {
		file.Close()
		os.Remove(tmpFile)
		return err
	}

	if err = file.Sync(); err != nil {
		file.Close()
		os.Remove(tmpFile)
		return err
	}

	if err = file.Close(); err != nil {
		os.Remove(tmpFile)
		return err
	}

	if err = os.Rename(tmpFile, s.filePath); err != nil {
		return err
	}
	s.dirty = false
	return nil
}

func (s *KVStore) Close() {
	s.compressor.Close()
}

func (s *KVStore) Has(key string) bool {
	s.mu.RLock()
	defer s.mu.RUnlock()
	_, ok := s.entries[key]
	return ok
}

// KeysWithPrefix returns the sorted keys under the given namespace prefix.
func (s *KVStore) KeysWithPrefix(prefix string) []string {
	s.mu.RLock()
	defer s.mu.RUnlock()
	var keys []string
	for k := range s.entries {
		if strings.HasPrefix(k, prefix) {
			keys = append(keys, k)
		}
	}
	sort.Strings(keys)
	return keys
}

func (s *KVStore) Delete(key string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, ok := s.entries[key]; !ok {
		return
	}
	delete(s.entries, key)
	s.cache.Del(key)
	s.dirty = true
}

func (s *KVStore) getRaw(key string) (json.RawMessage, bool) {
	if val, ok := s.cache.Get(key); ok {
		return val, true
	}

	s.mu.RLock()
	raw, ok := s.entries[key]
	s.mu.RUnlock()
	if !ok {
		return nil, false
	}
	s.cache.Set(key, raw)
	return raw, true
}

func (s *KVStore) setRaw(key string, raw json.RawMessage) {
	s.mu.Lock()
	s.entries[key] = raw
	s.dirty = true
	s.mu.Unlock()
	s.cache.Set(key, raw)
}

// SetJSON stores any JSON-serializable value under key.
func (s *KVStore) SetJSON(key string, v interface{}) error {
	raw, err := json.Marshal(v)
	if err != nil {
		return err
	}
	s.setRaw(key, raw)
	return nil
}

// GetJSON unmarshals the value stored under key into out. Returns false when
// the key is absent; a present but undecodable value is logged and treated as
// absent so a corrupted entry never blocks a read path.
func (s *KVStore) GetJSON(key string, out interface{}) bool {
	raw, ok := s.getRaw(key)
	if !ok {
		return false
	}
	if err := json.Unmarshal(raw, out); err != nil {
		s.logger.Errorf(providers.TypeStore, "Undecodable value at key %s: %s", key, err)
		return false
	}
	return true
}

func (s *KVStore) SetString(key, val string) {
	_ = s.SetJSON(key, val)
}

func (s *KVStore) GetString(key string) (string, bool) {
	var v string
	if !s.GetJSON(key, &v) {
		return "", false
	}
	return v, true
}

func (s *KVStore) SetBool(key string, val bool) {
	_ = s.SetJSON(key, val)
}

func (s *KVStore) GetBool(key string) (bool, bool) {
	var v bool
	if !s.GetJSON(key, &v) {
		return false, false
	}
	return v, true
}

func (s *KVStore) SetInt64(key string, val int64) {
	_ = s.SetJSON(key, val)
}

func (s *KVStore) GetInt64(key string) (int64, bool) {
	var v int64
	if !s.GetJSON(key, &v) {
		return 0, false
	}
	return v, true
}

func (s *KVStore) SetTime(key string, val time.Time) {
	_ = s.SetJSON(key, val)
}

func (s *KVStore) GetTime(key string) (time.Time, bool) {
	var v time.Time
	if !s.GetJSON(key, &v) {
		return time.Time{}, false
	}
	return v, true
}

func (s *KVStore) SetStrings(key string, val []string) {
	_ = s.SetJSON(key, val)
}

func (s *KVStore) GetStrings(key string) ([]string, bool) {
	var v []string
	if !s.GetJSON(key, &v) {
		return nil, false
	}
	return v, true
}
