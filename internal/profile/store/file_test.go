package store

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"testing"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/stretchr/testify/suite"

	"welcome/internal/platform/metrics"
	"welcome/pkg/domain"
	pkgtestutil "welcome/pkg/testutil"
)

type FileStoreSuite struct {
	suite.Suite
	ctx   context.Context
	path  string
	store *FileStore
}

func TestFileStoreSuite(t *testing.T) {
	suite.Run(t, new(FileStoreSuite))
}

func (s *FileStoreSuite) SetupTest() {
	s.ctx = context.Background()
	s.path = filepath.Join(s.T().TempDir(), "cards.json")
	store, err := NewFile(s.path)
	s.Require().NoError(err)
	s.store = store
}

func (s *FileStoreSuite) readSnapshot() map[string]map[string]string {
	data, err := os.ReadFile(s.path)
	s.Require().NoError(err)
	var snap map[string]map[string]string
	s.Require().NoError(json.Unmarshal(data, &snap))
	return snap
}

func (s *FileStoreSuite) TestGet() {
	s.Run("unknown key is an empty card", func() {
		card, err := s.store.Get(s.ctx, "nope")
		s.Require().NoError(err)
		s.NotNil(card)
		s.Empty(card)
	})

	s.Run("returned card is a copy", func() {
		_, err := s.store.Merge(s.ctx, "k1", pkgtestutil.Card("name", "Bob"))
		s.Require().NoError(err)

		card, _ := s.store.Get(s.ctx, "k1")
		card["name"] = "Mallory"

		again, _ := s.store.Get(s.ctx, "k1")
		s.Equal("Bob", again["name"])
	})
}

func (s *FileStoreSuite) TestMerge() {
	s.Run("merge keeps untouched fields and is idempotent", func() {
		_, err := s.store.Merge(s.ctx, "k2", pkgtestutil.Card("name", "A"))
		s.Require().NoError(err)

		first, err := s.store.Merge(s.ctx, "k2", pkgtestutil.Card("seat", "12"))
		s.Require().NoError(err)
		second, err := s.store.Merge(s.ctx, "k2", pkgtestutil.Card("seat", "12"))
		s.Require().NoError(err)

		want := pkgtestutil.Card("name", "A", "seat", "12")
		s.True(want.Equal(first))
		s.True(want.Equal(second))
	})

	s.Run("snapshot is written before merge returns", func() {
		_, err := s.store.Merge(s.ctx, "k3", pkgtestutil.Card("name", "Carol"))
		s.Require().NoError(err)
		s.Equal("Carol", s.readSnapshot()["k3"]["name"])
	})

	s.Run("no temp files are left behind", func() {
		entries, err := os.ReadDir(filepath.Dir(s.path))
		s.Require().NoError(err)
		s.Len(entries, 1)
	})
}

func (s *FileStoreSuite) TestDurabilityAcrossRestart() {
	_, err := s.store.Merge(s.ctx, "k1", pkgtestutil.Card("name", "Bob"))
	s.Require().NoError(err)

	reopened, err := NewFile(s.path)
	s.Require().NoError(err)

	card, err := reopened.Get(s.ctx, "k1")
	s.Require().NoError(err)
	s.True(pkgtestutil.Card("name", "Bob").Equal(card))
	s.Equal(1, reopened.Len())
}

func (s *FileStoreSuite) TestWriteFailure() {
	_, err := s.store.Merge(s.ctx, "k1", pkgtestutil.Card("name", "Bob"))
	s.Require().NoError(err)
	before, err := os.ReadFile(s.path)
	s.Require().NoError(err)

	failing, err := NewFile(s.path, WithWriteFunc(func(string, []byte) error {
		return errors.New("disk full")
	}))
	s.Require().NoError(err)

	_, err = failing.Merge(s.ctx, "k1", pkgtestutil.Card("name", "Robert", "seat", "4"))
	s.Require().Error(err)
	s.Contains(err.Error(), "disk full")

	s.Run("failed merge is not committed in memory", func() {
		card, _ := failing.Get(s.ctx, "k1")
		s.True(pkgtestutil.Card("name", "Bob").Equal(card))
	})

	s.Run("previous snapshot is untouched", func() {
		after, err := os.ReadFile(s.path)
		s.Require().NoError(err)
		s.Equal(before, after)
	})
}

func (s *FileStoreSuite) TestLoad() {
	s.Run("corrupt snapshot is an error", func() {
		path := filepath.Join(s.T().TempDir(), "cards.json")
		s.Require().NoError(os.WriteFile(path, []byte("{not json"), 0o644))
		_, err := NewFile(path)
		s.Error(err)
	})

	s.Run("empty file is an empty store", func() {
		path := filepath.Join(s.T().TempDir(), "cards.json")
		s.Require().NoError(os.WriteFile(path, nil, 0o644))
		store, err := NewFile(path)
		s.Require().NoError(err)
		s.Equal(0, store.Len())
	})
}

func (s *FileStoreSuite) TestConcurrentMerges() {
	s.Run("same key keeps every field", func() {
		const n = 40
		result := pkgtestutil.RunConcurrent(n, func(idx int) error {
			_, err := s.store.Merge(s.ctx, "busy", domain.Card{fmt.Sprintf("f%02d", idx): "x"})
			return err
		})
		s.Equal(int32(n), result.Successes)

		card, _ := s.store.Get(s.ctx, "busy")
		s.Len(card, n)
		s.Len(s.readSnapshot()["busy"], n)
	})

	s.Run("distinct keys all reach the snapshot", func() {
		const n = 30
		result := pkgtestutil.RunConcurrent(n, func(idx int) error {
			_, err := s.store.Merge(s.ctx, domain.AttendeeKey(fmt.Sprintf("key-%02d", idx)), pkgtestutil.Card("n", "1"))
			return err
		})
		s.Equal(int32(n), result.Successes)

		snap := s.readSnapshot()
		for i := range n {
			s.Contains(snap, fmt.Sprintf("key-%02d", i))
		}
	})
}

func (s *FileStoreSuite) TestCancelledContext() {
	ctx, cancel := context.WithCancel(s.ctx)
	cancel()
	_, err := s.store.Merge(ctx, "k1", pkgtestutil.Card("name", "Bob"))
	s.ErrorIs(err, context.Canceled)
}

func (s *FileStoreSuite) TestHealth() {
	s.NoError(s.store.Health(s.ctx))
}

func TestInstrument(t *testing.T) {
	fs, err := NewFile(filepath.Join(t.TempDir(), "cards.json"), WithWriteFunc(func(string, []byte) error {
		return errors.New("read-only filesystem")
	}))
	require.NoError(t, err)

	m := metrics.New(prometheus.NewRegistry())
	s := Instrument(fs, "file", m)

	_, err = s.Merge(context.Background(), "k1", pkgtestutil.Card("name", "Bob"))
	require.Error(t, err)

	assert.InDelta(t, 1, testutil.ToFloat64(m.StoreErrors.WithLabelValues("merge")), 0)
	assert.Equal(t, 1, testutil.CollectAndCount(m.StoreWriteLatency))
	assert.Same(t, fs, Instrument(fs, "file", nil))
}
