package anon

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestStore(t *testing.T) *MappingStore {
	t.Helper()
	store, err := OpenMappingStore(filepath.Join(t.TempDir(), "mappings.json"))
	require.NoError(t, err)
	return store
}

func TestGetOrCreateDeterminism(t *testing.T) {
	// Two independent stores produce identical pseudonyms for the
	// same (column, value) pairs, in the same first-seen order.
	pairs := [][2]string{
		{"campaign_source", "social_facebook"},
		{"customer_id", "CAMP-1234-5678"},
		{"region", "North"},
		{"note", "hello, world"},
	}

	storeA := newTestStore(t)
	storeB := newTestStore(t)
	for _, pair := range pairs {
		a, err := storeA.GetOrCreate(pair[0], pair[1])
		require.NoError(t, err)
		b, err := storeB.GetOrCreate(pair[0], pair[1])
		require.NoError(t, err)
		assert.Equal(t, a, b, "pseudonym for (%s, %s) differs across stores", pair[0], pair[1])
	}
}

func TestGetOrCreateReturnsExistingMappingUnchanged(t *testing.T) {
	// A persisted mapping survives even when it does not match what
	// the current generators would produce - existing entries are
	// never recomputed.
	filePath := filepath.Join(t.TempDir(), "mappings.json")
	seeded := map[string]any{
		MetadataKey: Metadata{Created: "2024-01-01T00:00:00Z"},
		"region":    map[string]string{"North": "LEGACY_42"},
	}
	bs, err := json.Marshal(seeded)
	require.NoError(t, err)
	require.NoError(t, os.WriteFile(filePath, bs, 0644))

	store, err := OpenMappingStore(filePath)
	require.NoError(t, err)

	pseudonym, err := store.GetOrCreate("region", "North")
	require.NoError(t, err)
	assert.Equal(t, "LEGACY_42", pseudonym)

	// A novel value in the same column still gets a fresh ordinal
	// counting the legacy entry.
	pseudonym, err = store.GetOrCreate("region", "South")
	require.NoError(t, err)
	assert.Equal(t, "R_002", pseudonym)
}

func TestReverseLookupRoundTrip(t *testing.T) {
	store := newTestStore(t)
	pairs := [][2]string{
		{"campaign_source", "social_facebook"},
		{"customer_id", "CAMP-1234-5678"},
		{"region", "North"},
	}
	for _, pair := range pairs {
		pseudonym, err := store.GetOrCreate(pair[0], pair[1])
		require.NoError(t, err)

		result, found := store.ReverseLookup(pseudonym, pair[0])
		require.True(t, found)
		assert.Equal(t, pair[1], result.Original)

		// Global scan finds the same entry and annotates the column.
		result, found = store.ReverseLookup(pseudonym, "")
		require.True(t, found)
		assert.Equal(t, pair[1], result.Original)
		assert.Equal(t, pair[0], result.Column)
	}

	_, found := store.ReverseLookup("NO_SUCH_PSEUDONYM", "")
	assert.False(t, found)
	_, found = store.ReverseLookup("LEGACY_42", "wrong_column")
	assert.False(t, found)
}

func TestSaveLoadRoundTrip(t *testing.T) {
	filePath := filepath.Join(t.TempDir(), "mappings.json")
	store, err := OpenMappingStore(filePath)
	require.NoError(t, err)
	created := store.meta.Created
	require.NotEmpty(t, created)
	require.NotEmpty(t, store.meta.StoreID)

	_, err = store.GetOrCreate("region", "North")
	require.NoError(t, err)
	_, err = store.GetOrCreate("region", "South")
	require.NoError(t, err)
	_, err = store.GetOrCreate("customer_id", "CAMP-1234-5678")
	require.NoError(t, err)
	require.NoError(t, store.Save())

	reloaded, err := OpenMappingStore(filePath)
	require.NoError(t, err)
	assert.Equal(t, created, reloaded.meta.Created)
	assert.NotEmpty(t, reloaded.meta.LastUpdated)
	assert.Equal(t, 3, reloaded.meta.TotalMappings)
	assert.Equal(t, 3, reloaded.TotalMappings())

	// Seen values resolve without regeneration.
	pseudonym, err := reloaded.GetOrCreate("region", "North")
	require.NoError(t, err)
	assert.Equal(t, "R_001", pseudonym)
}

func TestCategoryOrdinalMonotonicity(t *testing.T) {
	store := newTestStore(t)

	first, err := store.GetOrCreate("region", "North")
	require.NoError(t, err)
	second, err := store.GetOrCreate("region", "South")
	require.NoError(t, err)
	repeat, err := store.GetOrCreate("region", "North")
	require.NoError(t, err)

	assert.Equal(t, "R_001", first)
	assert.Equal(t, "R_002", second)
	assert.Equal(t, "R_001", repeat, "repeated value must reuse its mapping, not increment")
}

func TestCategoryOrdinalWidensPastPadding(t *testing.T) {
	store := newTestStore(t)
	var last string
	for i := 1; i <= 1000; i++ {
		pseudonym, err := store.GetOrCreate("status", fmt.Sprintf("val%d", i))
		require.NoError(t, err)
		last = pseudonym
	}
	assert.Equal(t, "S_1000", last)
}

func TestReservedMetadataColumn(t *testing.T) {
	store := newTestStore(t)
	_, err := store.GetOrCreate(MetadataKey, "value")
	assert.Error(t, err)
}

func TestEmptyValueIsNotMapped(t *testing.T) {
	store := newTestStore(t)
	pseudonym, err := store.GetOrCreate("region", "")
	require.NoError(t, err)
	assert.Empty(t, pseudonym)
	assert.Equal(t, 0, store.TotalMappings())
}

func TestWriteSummary(t *testing.T) {
	store := newTestStore(t)
	for i := 0; i < 12; i++ {
		_, err := store.GetOrCreate("status", fmt.Sprintf("state%02d", i))
		require.NoError(t, err)
	}
	_, err := store.GetOrCreate("region", "North")
	require.NoError(t, err)

	var sb strings.Builder
	require.NoError(t, store.WriteSummary(&sb))
	out := sb.String()

	assert.Contains(t, out, "Business Data Anonymization Mapping Summary")
	assert.Contains(t, out, "Column: region")
	assert.Contains(t, out, "Column: status")
	assert.Contains(t, out, "North")
	assert.Contains(t, out, "R_001")
	// 12 mappings in one column: 10 samples plus a remainder line.
	assert.Contains(t, out, "... and 2 more mappings")
	// Columns are ordered by name.
	assert.Less(t, strings.Index(out, "Column: region"), strings.Index(out, "Column: status"))
}

func TestStats(t *testing.T) {
	store := newTestStore(t)
	_, err := store.GetOrCreate("region", "North")
	require.NoError(t, err)
	_, err = store.GetOrCreate("region", "South")
	require.NoError(t, err)
	_, err = store.GetOrCreate("customer_id", "CAMP-1234-5678")
	require.NoError(t, err)

	stats := store.Stats()
	require.Len(t, stats, 2)
	assert.Equal(t, ColumnStat{Column: "customer_id", Count: 1}, stats[0])
	assert.Equal(t, ColumnStat{Column: "region", Count: 2}, stats[1])
}

func TestPersistedDocumentShape(t *testing.T) {
	filePath := filepath.Join(t.TempDir(), "mappings.json")
	store, err := OpenMappingStore(filePath)
	require.NoError(t, err)
	_, err = store.GetOrCreate("region", "North")
	require.NoError(t, err)
	require.NoError(t, store.Save())

	bs, err := os.ReadFile(filePath)
	require.NoError(t, err)

	var doc map[string]json.RawMessage
	require.NoError(t, json.Unmarshal(bs, &doc))
	assert.Contains(t, doc, MetadataKey)
	assert.Contains(t, doc, "region")

	var meta Metadata
	require.NoError(t, json.Unmarshal(doc[MetadataKey], &meta))
	assert.Equal(t, 1, meta.TotalMappings)
	assert.NotEmpty(t, meta.Created)
}
