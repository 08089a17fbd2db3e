package store

import (
	"context"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func openTestSQLite(t *testing.T) *SQLite {
	t.Helper()
	s, err := OpenSQLite(context.Background(), filepath.Join(t.TempDir(), "test.db"))
	require.NoError(t, err)
	t.Cleanup(func() { s.Close() })
	return s
}

func backends(t *testing.T) map[string]KV {
	t.Helper()
	kvs := map[string]KV{
		"sqlite": openTestSQLite(t),
		"memory": NewMemory(),
	}
	if url := os.Getenv("MATHDRILL_TEST_REDIS_URL"); url != "" {
		r, err := OpenRedis(context.Background(), url, "mathdrill-test:"+t.Name()+":", zerolog.Nop())
		require.NoError(t, err)
		t.Cleanup(func() { r.Close() })
		kvs["redis"] = r
	}
	return kvs
}

func TestKV_Contract(t *testing.T) {
	ctx := context.Background()
	for name, kv := range backends(t) {
		t.Run(name, func(t *testing.T) {
			v, err := kv.Get(ctx, "missing")
			require.NoError(t, err)
			assert.Nil(t, v)

			require.NoError(t, kv.Put(ctx, "history", []byte(`[1]`)))
			require.NoError(t, kv.Put(ctx, "history", []byte(`[1,2]`)))
			v, err = kv.Get(ctx, "history")
			require.NoError(t, err)
			assert.Equal(t, `[1,2]`, string(v))

			require.NoError(t, kv.Delete(ctx, "history"))
			require.NoError(t, kv.Delete(ctx, "history"))
			v, err = kv.Get(ctx, "history")
			require.NoError(t, err)
			assert.Nil(t, v)
		})
	}
}

func TestSQLite_PragmasApplied(t *testing.T) {
	s := openTestSQLite(t)

	tests := []struct {
		pragma string
		want   string
	}{
		{"journal_mode", "wal"},
		{"foreign_keys", "1"},
		{"synchronous", "1"}, // NORMAL = 1
	}
	for _, tt := range tests {
		var got string
		require.NoError(t, s.DB().QueryRow("PRAGMA "+tt.pragma).Scan(&got), tt.pragma)
		assert.Equal(t, tt.want, got, "PRAGMA %s", tt.pragma)
	}
}

func TestSQLite_PersistsAcrossReopen(t *testing.T) {
	ctx := context.Background()
	path := filepath.Join(t.TempDir(), "reopen.db")

	s, err := OpenSQLite(ctx, path)
	require.NoError(t, err)
	require.NoError(t, s.Put(ctx, "best-time", []byte(`{"borrow":1.5}`)))
	require.NoError(t, s.Close())

	s, err = OpenSQLite(ctx, path)
	require.NoError(t, err)
	defer s.Close()
	v, err := s.Get(ctx, "best-time")
	require.NoError(t, err)
	assert.JSONEq(t, `{"borrow":1.5}`, string(v))
}

func TestEventLog_SequenceAndFilters(t *testing.T) {
	ctx := context.Background()
	base := time.Date(2024, 5, 1, 12, 0, 0, 0, time.UTC)
	logs := map[string]EventLog{
		"sqlite": openTestSQLite(t),
		"memory": NewMemory(),
	}
	for name, log := range logs {
		t.Run(name, func(t *testing.T) {
			for i, action := range []string{"commit", "commit", "delete"} {
				require.NoError(t, log.AppendSessionEvent(ctx, SessionEvent{
					SessionID:      "s" + string(rune('a'+i)),
					Action:         action,
					QuestionType:   "borrow",
					CorrectAnswers: i,
					TotalQuestions: 10,
					Timestamp:      base.Add(time.Duration(i) * time.Hour),
				}))
			}

			all, err := log.SessionEvents(ctx, QueryOpts{})
			require.NoError(t, err)
			require.Len(t, all, 3)
			for i := 1; i < len(all); i++ {
				assert.Greater(t, all[i].Sequence, all[i-1].Sequence)
			}
			assert.Equal(t, "delete", all[2].Action)
			assert.True(t, all[1].Timestamp.Equal(base.Add(time.Hour)))

			after, err := log.SessionEvents(ctx, QueryOpts{After: all[0].Sequence})
			require.NoError(t, err)
			assert.Len(t, after, 2)

			recent, err := log.SessionEvents(ctx, QueryOpts{From: base.Add(90 * time.Minute)})
			require.NoError(t, err)
			require.Len(t, recent, 1)
			assert.Equal(t, "sc", recent[0].SessionID)

			limited, err := log.SessionEvents(ctx, QueryOpts{Limit: 1})
			require.NoError(t, err)
			assert.Len(t, limited, 1)
		})
	}
}

func TestOpen_Backends(t *testing.T) {
	ctx := context.Background()

	kv, err := Open(ctx, Options{Backend: BackendMemory}, zerolog.Nop())
	require.NoError(t, err)
	assert.IsType(t, &Memory{}, kv)

	kv, err = Open(ctx, Options{DBPath: filepath.Join(t.TempDir(), "nested", "x.db")}, zerolog.Nop())
	require.NoError(t, err)
	assert.IsType(t, &SQLite{}, kv)
	kv.Close()

	_, err = Open(ctx, Options{Backend: BackendRedis}, zerolog.Nop())
	assert.Error(t, err)

	_, err = Open(ctx, Options{Backend: "etcd"}, zerolog.Nop())
	assert.ErrorContains(t, err, "unknown store backend")
}

func TestDefaultDBPath_XDG(t *testing.T) {
	dir := t.TempDir()
	t.Setenv("XDG_DATA_HOME", dir)
	assert.Equal(t, filepath.Join(dir, "mathdrill", "mathdrill.db"), DefaultDBPath())
}

func TestOpen_CreatesDatabaseDir(t *testing.T) {
	path := filepath.Join(t.TempDir(), "nested", "drill.db")
	kv, err := Open(context.Background(), Options{DBPath: path}, zerolog.Nop())
	require.NoError(t, err)
	defer kv.Close()
	assert.FileExists(t, path)
}

func TestSQLite_SequenceSurvivesReopen(t *testing.T) {
	ctx := context.Background()
	path := filepath.Join(t.TempDir(), "seq.db")

	s, err := OpenSQLite(ctx, path)
	require.NoError(t, err)
	require.NoError(t, s.AppendSessionEvent(ctx, SessionEvent{SessionID: "a", Action: "commit"}))
	require.NoError(t, s.AppendSessionEvent(ctx, SessionEvent{SessionID: "b", Action: "commit"}))
	require.NoError(t, s.Close())

	s, err = OpenSQLite(ctx, path)
	require.NoError(t, err)
	defer s.Close()
	require.NoError(t, s.AppendSessionEvent(ctx, SessionEvent{SessionID: "c", Action: "delete"}))

	events, err := s.SessionEvents(ctx, QueryOpts{})
	require.NoError(t, err)
	require.Len(t, events, 3)
	assert.Equal(t, []int64{1, 2, 3}, []int64{events[0].Sequence, events[1].Sequence, events[2].Sequence})
}
