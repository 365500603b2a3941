package config

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func writeConfig(t *testing.T, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "config.json")
	require.NoError(t, os.WriteFile(path, []byte(content), 0644))
	return path
}

func TestLoadAppliesDefaults(t *testing.T) {
	path := writeConfig(t, `{
		"source_file": "data.csv",
		"destination_file": "data_anon.csv"
	}`)

	cfg, err := Load(path)
	require.NoError(t, err)
	assert.Equal(t, "data.csv", cfg.SourceFile)
	assert.Equal(t, "data_anon.csv", cfg.DestinationFile)
	assert.Equal(t, DefaultMappingFile, cfg.MappingFile)
	assert.Equal(t, DefaultSummaryFile, cfg.SummaryFile)
	assert.Equal(t, "auto", cfg.Encoding)
	assert.Empty(t, cfg.PreserveColumns)
}

func TestLoadFullConfig(t *testing.T) {
	path := writeConfig(t, `{
		"source_file": "data.csv",
		"destination_file": "data_anon.csv",
		"preserve_columns": ["id", "order_date"],
		"mapping_file": "maps.json",
		"encoding": "latin-1",
		"summary_file": "summary.txt"
	}`)

	cfg, err := Load(path)
	require.NoError(t, err)
	assert.Equal(t, []string{"id", "order_date"}, cfg.PreserveColumns)
	assert.Equal(t, "maps.json", cfg.MappingFile)
	assert.Equal(t, "latin-1", cfg.Encoding)
	assert.Equal(t, "summary.txt", cfg.SummaryFile)
}

func TestLoadMissingFile(t *testing.T) {
	_, err := Load(filepath.Join(t.TempDir(), "nope.json"))
	require.Error(t, err)
	assert.Contains(t, err.Error(), "configuration file not found")
}

func TestLoadMissingRequiredFields(t *testing.T) {
	tests := []struct {
		name    string
		content string
		missing string
	}{
		{"no source", `{"destination_file": "out.csv"}`, "source_file"},
		{"no destination", `{"source_file": "in.csv"}`, "destination_file"},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			_, err := Load(writeConfig(t, tc.content))
			require.Error(t, err)
			assert.Contains(t, err.Error(), "missing required config field: "+tc.missing)
		})
	}
}

func TestLoadInvalidJson(t *testing.T) {
	_, err := Load(writeConfig(t, `{not json`))
	assert.Error(t, err)
}
