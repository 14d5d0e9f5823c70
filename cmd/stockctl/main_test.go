package main

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"repairdesk/internal/domain/partspool"
)

func TestParseArgs(t *testing.T) {
	tests := []struct {
		name string
		raw  []string
		want args
	}{
		{
			name: "pairs",
			raw:  []string{"--shop", "shibuya", "--qty", "10"},
			want: args{"shop": "shibuya", "qty": "10"},
		},
		{
			name: "equals form",
			raw:  []string{"--field=actualQty"},
			want: args{"field": "actualQty"},
		},
		{
			name: "bare flags",
			raw:  []string{"--cumulative", "--only-short"},
			want: args{"cumulative": "true", "only-short": "true"},
		},
		{
			name: "positional values are ignored",
			raw:  []string{"extra", "--shop", "shinjuku", "stray"},
			want: args{"shop": "shinjuku"},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, parseArgs(tt.raw))
		})
	}
}

func TestArgs_Required(t *testing.T) {
	a := parseArgs([]string{"--shop", "shibuya", "--qty", " "})

	require.NoError(t, a.required("shop"))

	err := a.required("shop", "pool", "qty")
	require.Error(t, err)
	assert.Equal(t, "missing --pool, --qty", err.Error())
}

func TestShortageFilter(t *testing.T) {
	a := parseArgs([]string{
		"--shop", "shibuya, shinjuku",
		"--type", "battery,screen",
		"--hide", "IP8",
		"--cumulative",
	})

	f := shortageFilter(a)

	assert.Equal(t, []string{"shibuya", "shinjuku"}, f.ShopIDs)
	assert.Equal(t, []partspool.PartsType{"battery", "screen"}, f.PartsTypes)
	assert.Equal(t, []string{"IP8"}, f.HiddenModels)
	assert.Nil(t, f.SupplierIDs)
	assert.True(t, f.Cumulative)
	assert.False(t, f.OnlyShort)
}

func TestMigrationFiles(t *testing.T) {
	dir := t.TempDir()
	for _, name := range []string{"002_stock.sql", "001_init.sql", "README.md"} {
		require.NoError(t, os.WriteFile(filepath.Join(dir, name), []byte("--"), 0o644))
	}

	files, err := migrationFiles(dir)
	require.NoError(t, err)
	require.Len(t, files, 2)
	assert.Equal(t, "001_init.sql", filepath.Base(files[0]))
	assert.Equal(t, "002_stock.sql", filepath.Base(files[1]))

	_, err = migrationFiles(t.TempDir())
	assert.Error(t, err)
}
