package storage

import (
	"testing"
	"testing/fstest"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestListMigrations(t *testing.T) {
	fsys := fstest.MapFS{
		"002_indexes.sql": {Data: []byte("SELECT 2;")},
		"001_init.sql":    {Data: []byte("SELECT 1;")},
		"README.md":       {Data: []byte("notes")},
		"old/000.sql":     {Data: []byte("SELECT 0;")},
	}

	got, err := listMigrations(fsys)
	require.NoError(t, err)
	assert.Equal(t, []string{"001_init.sql", "002_indexes.sql"}, got)
}

func TestPendingMigrations(t *testing.T) {
	all := []string{"001_init.sql", "002_indexes.sql", "003_more.sql"}
	applied := map[string]bool{"001_init.sql": true, "003_more.sql": true}

	assert.Equal(t, []string{"002_indexes.sql"}, pendingMigrations(all, applied))
	assert.Empty(t, pendingMigrations(all, map[string]bool{"001_init.sql": true, "002_indexes.sql": true, "003_more.sql": true}))
}
