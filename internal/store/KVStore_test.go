package store

import (
	"os"
	"testing"
	"time"

	json "github.com/goccy/go-json"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestKVStore_RoundTrip(t *testing.T) {
	conf := testConfig(t)
	s := newTestKVS(t, conf)

	s.SetString("str", "hello")
	s.SetBool("flag", true)
	s.SetInt64("num", 42)
	now := time.Now().Truncate(time.Second)
	s.SetTime("ts", now)
	s.SetStrings("list", []string{"a", "b"})

	require.NoError(t, s.Flush())

	// Reload from disk into a fresh store
	s2 := newTestKVS(t, conf)
	require.NoError(t, s2.Load())

	str, ok := s2.GetString("str")
	assert.True(t, ok)
	assert.Equal(t, "hello", str)

	flag, ok := s2.GetBool("flag")
	assert.True(t, ok)
	assert.True(t, flag)

	num, ok := s2.GetInt64("num")
	assert.True(t, ok)
	assert.Equal(t, int64(42), num)

	ts, ok := s2.GetTime("ts")
	assert.True(t, ok)
	assert.True(t, ts.Equal(now))

	list, ok := s2.GetStrings("list")
	assert.True(t, ok)
	assert.Equal(t, []string{"a", "b"}, list)
}

func TestKVStore_Flush_AtomicWrite(t *testing.T) {
	conf := testConfig(t)
	s := newTestKVS(t, conf)
	s.SetString("k", "v")

	require.NoError(t, s.Flush())

	_, err := os.Stat(conf.Persistence.FilePath)
	assert.NoError(t, err)

	// Temp file should not exist
	_, err = os.Stat(conf.Persistence.FilePath + ".tmp")
	assert.True(t, os.IsNotExist(err))
}

func TestKVStore_Flush_SkipsWhenClean(t *testing.T) {
	conf := testConfig(t)
	s := newTestKVS(t, conf)

	require.NoError(t, s.Flush())
	_, err := os.Stat(conf.Persistence.FilePath)
	assert.True(t, os.IsNotExist(err)) // nothing dirty, nothing written
}

func TestKVStore_Load_FileNotExist(t *testing.T) {
	conf := testConfig(t)
	s := newTestKVS(t, conf)
	assert.NoError(t, s.Load()) // not an error, just no data
}

func TestKVStore_Load_LegacyBareFormat(t *testing.T) {
	conf := testConfig(t)

	bare := map[string]json.RawMessage{
		"old": json.RawMessage(`"value"`),
	}
	data, _ := json.Marshal(bare)
	require.NoError(t, os.WriteFile(conf.Persistence.FilePath, data, 0644))

	s := newTestKVS(t, conf)
	require.NoError(t, s.Load())

	v, ok := s.GetString("old")
	assert.True(t, ok)
	assert.Equal(t, "value", v)
}

func TestKVStore_HasAndDelete(t *testing.T) {
	conf := testConfig(t)
	s := newTestKVS(t, conf)

	assert.False(t, s.Has("k"))
	s.SetString("k", "v")
	assert.True(t, s.Has("k"))

	s.Delete("k")
	assert.False(t, s.Has("k"))
	_, ok := s.GetString("k")
	assert.False(t, ok)
}

func TestKVStore_KeysWithPrefix(t *testing.T) {
	conf := testConfig(t)
	s := newTestKVS(t, conf)

	s.SetString("promo.b", "1")
	s.SetString("promo.a", "2")
	s.SetString("backup.x", "3")

	assert.Equal(t, []string{"promo.a", "promo.b"}, s.KeysWithPrefix("promo."))
	assert.Empty(t, s.KeysWithPrefix("identity."))
}

func TestKVStore_GetJSON_UndecodableValue(t *testing.T) {
	conf := testConfig(t)
	s := newTestKVS(t, conf)

	s.SetString("k", "not-a-number")

	var out int64
	assert.False(t, s.GetJSON("k", &out)) // treated as absent, read path unblocked
}
