//go:build integration

package store_test

import (
	"context"
	"fmt"
	"testing"

	"github.com/stretchr/testify/suite"

	"welcome/internal/profile/store"
	"welcome/pkg/domain"
	"welcome/pkg/testutil"
	"welcome/pkg/testutil/containers"
)

type PostgresStoreSuite struct {
	suite.Suite
	postgres *containers.PostgresContainer
	store    *store.PostgresStore
}

func TestPostgresStoreSuite(t *testing.T) {
	if testing.Short() {
		t.Skip("skipping integration test in short mode")
	}
	suite.Run(t, new(PostgresStoreSuite))
}

func (s *PostgresStoreSuite) SetupSuite() {
	s.postgres = containers.GetManager().GetPostgres(s.T())
	s.store = store.NewPostgres(s.postgres.DB)
}

func (s *PostgresStoreSuite) SetupTest() {
	s.Require().NoError(s.postgres.TruncateCards(context.Background()))
}

func (s *PostgresStoreSuite) TestUnknownKeyIsEmpty() {
	card, err := s.store.Get(context.Background(), "nope")
	s.Require().NoError(err)
	s.Empty(card)
}

func (s *PostgresStoreSuite) TestMergeKeepsUntouchedFields() {
	ctx := context.Background()
	_, err := s.store.Merge(ctx, "k1", testutil.Card("name", "A"))
	s.Require().NoError(err)

	card, err := s.store.Merge(ctx, "k1", testutil.Card("seat", "12"))
	s.Require().NoError(err)
	s.True(testutil.Card("name", "A", "seat", "12").Equal(card))

	got, err := s.store.Get(ctx, "k1")
	s.Require().NoError(err)
	s.True(card.Equal(got))
}

func (s *PostgresStoreSuite) TestConcurrentMergesOnOneKey() {
	ctx := context.Background()
	const n = 50

	result := testutil.RunConcurrent(n, func(idx int) error {
		_, err := s.store.Merge(ctx, "busy", domain.Card{fmt.Sprintf("f%02d", idx): "x"})
		return err
	})
	s.Equal(int32(n), result.Successes)

	card, err := s.store.Get(ctx, "busy")
	s.Require().NoError(err)
	s.Len(card, n)
}
