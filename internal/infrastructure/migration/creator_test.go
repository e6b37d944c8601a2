package migration

import (
	"os"
	"path/filepath"
	"strings"
	"testing"
	"testing/fstest"

	"github.com/finledger/backend/migrations"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSanitizeName(t *testing.T) {
	tests := []struct {
		input    string
		expected string
	}{
		{"add payments index", "add_payments_index"},
		{"Add-Chit-Auctions", "add_chit_auctions"},
		{"AUDIT_LOG_PARTITIONS", "audit_log_partitions"},
		{"invoice__number__index", "invoice_number_index"},
		{"Backfill FY 2024", "backfill_fy_2024"},
		{"   spaces   ", "spaces"},
		{"special!@#$chars", "specialchars"},
		{"trailing_", "trailing"},
		{"_leading", "leading"},
		{"", ""},
	}

	for _, tt := range tests {
		t.Run(tt.input, func(t *testing.T) {
			assert.Equal(t, tt.expected, sanitizeName(tt.input))
		})
	}
}

func TestCreateMigration(t *testing.T) {
	dir := t.TempDir()

	mf, err := CreateMigration(dir, "add payments index", "Index payments by date and mode")
	require.NoError(t, err)

	assert.Len(t, mf.Version, 14)
	assert.True(t, strings.HasSuffix(mf.UpPath, ".up.sql"))
	assert.True(t, strings.HasSuffix(mf.DownPath, ".down.sql"))
	assert.Equal(t,
		strings.TrimSuffix(filepath.Base(mf.UpPath), ".up.sql"),
		strings.TrimSuffix(filepath.Base(mf.DownPath), ".down.sql"))

	up, err := os.ReadFile(mf.UpPath)
	require.NoError(t, err)
	assert.Contains(t, string(up), "-- Migration: add payments index")
	assert.Contains(t, string(up), "Index payments by date and mode")

	down, err := os.ReadFile(mf.DownPath)
	require.NoError(t, err)
	assert.Contains(t, string(down), "(Rollback)")
}

func TestCreateMigration_CreatesDirectory(t *testing.T) {
	nested := filepath.Join(t.TempDir(), "nested", "migrations")

	_, err := CreateMigration(nested, "test", "test migration")
	require.NoError(t, err)

	info, err := os.Stat(nested)
	require.NoError(t, err)
	assert.True(t, info.IsDir())
}

func TestCreateMigration_RejectsEmptyName(t *testing.T) {
	_, err := CreateMigration(t.TempDir(), "!!!", "")
	require.Error(t, err)
}

func TestListMigrations(t *testing.T) {
	fsys := fstest.MapFS{
		"000002_add_index.up.sql":     {Data: []byte("--")},
		"000002_add_index.down.sql":   {Data: []byte("--")},
		"000001_init.up.sql":          {Data: []byte("--")},
		"000001_init.down.sql":        {Data: []byte("--")},
		"README.md":                   {Data: []byte("docs")},
		"subdir.up.sql/000003.up.sql": {Data: []byte("--")},
	}

	got, err := ListMigrations(fsys)
	require.NoError(t, err)
	assert.Equal(t, []string{"000001_init", "000002_add_index"}, got)
}

func TestListMigrations_MissingDirectory(t *testing.T) {
	got, err := ListMigrations(os.DirFS("/nonexistent/path/to/migrations"))
	require.NoError(t, err)
	assert.Empty(t, got)
}

func TestListMigrations_Embedded(t *testing.T) {
	got, err := ListMigrations(migrations.FS)
	require.NoError(t, err)
	assert.Equal(t, []string{
		"000001_create_ledger_tables",
		"000002_audit_logs_append_only",
	}, got)
}
