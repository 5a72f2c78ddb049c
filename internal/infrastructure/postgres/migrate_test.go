package postgres

import (
	"io/fs"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jhoicas/Prospectos-api/internal/infrastructure/postgres/migrations"
)

func TestExtractUp(t *testing.T) {
	sql := "-- +migrate Up\nCREATE TABLE a (id int);\n-- +migrate Down\nDROP TABLE a;\n"
	up := extractUp(sql)
	assert.Contains(t, up, "CREATE TABLE a")
	assert.NotContains(t, up, "DROP TABLE")

	assert.Equal(t, "SELECT 1;", extractUp("SELECT 1;"))
}

func TestEmbeddedSchema_DefinesAllTables(t *testing.T) {
	content, err := fs.ReadFile(migrations.FS, "001_leads.sql")
	require.NoError(t, err)
	up := extractUp(string(content))
	for _, table := range []string{"users", "leads", "companies", "contacts", "interactions", "notifications"} {
		assert.True(t, strings.Contains(up, "CREATE TABLE IF NOT EXISTS "+table+" ("), table)
	}
}
