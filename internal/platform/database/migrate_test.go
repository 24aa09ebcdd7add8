package database

import (
	"context"
	"testing"
	"testing/fstest"

	"github.com/stretchr/testify/require"
)

func TestMigrateSkipsNonUpFiles(t *testing.T) {
	fsys := fstest.MapFS{
		"001_cards.down.sql": &fstest.MapFile{Data: []byte("DROP TABLE cards;")},
		"README.md":          &fstest.MapFile{Data: []byte("schema notes")},
	}

	// No *.up.sql files means the database is never touched.
	require.NoError(t, Migrate(context.Background(), nil, fsys))
}

func TestOpenRequiresURL(t *testing.T) {
	_, err := Open(context.Background(), DefaultConfig(""))
	require.EqualError(t, err, "database url is empty")
}
