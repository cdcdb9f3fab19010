package migrations

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestStatements(t *testing.T) {
	sql := `
-- first
CREATE TABLE a (id INT);

-- second
CREATE INDEX a_idx ON a (id);
`
	got := Statements(sql)
	require.Len(t, got, 2)
	assert.Equal(t, "CREATE TABLE a (id INT)", got[0])
	assert.Equal(t, "CREATE INDEX a_idx ON a (id)", got[1])
}

func TestEmbeddedMigrations(t *testing.T) {
	names, err := Names()
	require.NoError(t, err)
	require.NotEmpty(t, names)
	assert.Equal(t, "0001_invoices.sql", names[0])

	content, err := files.ReadFile(names[0])
	require.NoError(t, err)
	stmts := Statements(string(content))
	require.Len(t, stmts, 2)
	assert.Contains(t, stmts[0], "CREATE TABLE IF NOT EXISTS invoices")
}
