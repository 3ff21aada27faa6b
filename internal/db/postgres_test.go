package db

import (
	"testing"
	"testing/fstest"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/caelus-market/caelus-backend/migrations"
)

func TestMigrationNames_SortedAndFiltered(t *testing.T) {
	fsys := fstest.MapFS{
		"002_b.sql":     {Data: []byte("SELECT 2")},
		"001_a.sql":     {Data: []byte("SELECT 1")},
		"README.md":     {Data: []byte("docs")},
		"sub/003_c.sql": {Data: []byte("SELECT 3")},
	}

	names, err := migrationNames(fsys)
	require.NoError(t, err)
	assert.Equal(t, []string{"001_a.sql", "002_b.sql"}, names)
}

func TestMigrationNames_Embedded(t *testing.T) {
	names, err := migrationNames(migrations.FS)
	require.NoError(t, err)
	assert.Contains(t, names, "001_designer_tags.sql")
}
