package anon

import (
	"encoding/json"
	"fmt"
	"io"
	"sort"
	"strings"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/samber/lo"
	log "github.com/sirupsen/logrus"

	"github.com/svartalfarqc/business-data-anonymizer/src/utils"
	"github.com/svartalfarqc/business-data-anonymizer/src/utils/jsonfile"
)

// MetadataKey is the reserved top-level key holding store metadata in
// the persisted document. It cannot collide with a real CSV header in
// practice; if a table does carry a "_metadata" column the reserved
// name wins and that column cannot be mapped.
const MetadataKey = "_metadata"

type Metadata struct {
	StoreID       string `json:"store_id,omitempty"`
	Created       string `json:"created"`
	LastUpdated   string `json:"last_updated,omitempty"`
	TotalMappings int    `json:"total_mappings"`
}

// storeDocument is the on-disk shape of the store: one entry per
// column mapping original values to pseudonyms, plus the metadata
// block under MetadataKey at the same level.
type storeDocument struct {
	Metadata Metadata
	Columns  map[string]map[string]string
}

func (d storeDocument) MarshalJSON() ([]byte, error) {
	doc := make(map[string]any, len(d.Columns)+1)
	for col, m := range d.Columns {
		doc[col] = m
	}
	doc[MetadataKey] = d.Metadata
	return json.Marshal(doc) // map keys are emitted sorted
}

func (d *storeDocument) UnmarshalJSON(data []byte) error {
	raw := make(map[string]json.RawMessage)
	if err := json.Unmarshal(data, &raw); err != nil {
		return err
	}
	d.Columns = make(map[string]map[string]string, len(raw))
	for key, val := range raw {
		if key == MetadataKey {
			if err := json.Unmarshal(val, &d.Metadata); err != nil {
				return fmt.Errorf("unmarshal metadata block: %w", err)
			}
			continue
		}
		var colMap map[string]string
		if err := json.Unmarshal(val, &colMap); err != nil {
			return fmt.Errorf("unmarshal column %q mappings: %w", key, err)
		}
		d.Columns[key] = colMap
	}
	return nil
}

// ReverseLookupResult carries the original value found for a pseudonym
// and the column it was found in.
type ReverseLookupResult struct {
	Original string
	Column   string
}

/*
MappingStore is the persistent, per-column map from original value to
pseudonym. It guarantees stability: once a (column, value) pair is
mapped, every later GetOrCreate returns the stored pseudonym unchanged,
across process restarts, even if the classifier or generators change.

The maps are guarded by a RWMutex so a library consumer parallelizing
row batches does not corrupt them, but concurrent GetOrCreate on the
same new (column, value) key is still a read-modify-write race the
caller must synchronize; the shipped engine is single-threaded.

Pseudonym collisions within a column are not detected or resolved: the
digest space is large enough that they are vanishingly rare for typical
table sizes.
*/
type MappingStore struct {
	mu      sync.RWMutex
	columns map[string]map[string]string
	meta    Metadata

	// Process-lifetime sequence for the generic generator. Not
	// persisted: generic-value suffixes are only stable within a run.
	genericCounter int

	file *jsonfile.JsonFile[storeDocument]
}

// OpenMappingStore loads the store persisted at filePath, or creates a
// fresh empty store (with creation metadata stamped) if no file exists.
func OpenMappingStore(filePath string) (*MappingStore, error) {
	store := &MappingStore{
		columns: make(map[string]map[string]string),
		file:    jsonfile.NewJsonFile[storeDocument](filePath),
	}

	if !utils.FileOrFolderExists(filePath) {
		store.meta = Metadata{
			StoreID: uuid.NewString(),
			Created: time.Now().Format(time.RFC3339),
		}
		log.Infof("created new mapping store %s (file %q)", store.meta.StoreID, filePath)
		return store, nil
	}

	doc, err := store.file.Read()
	if err != nil {
		return nil, fmt.Errorf("load mapping store: %w", err)
	}
	store.meta = doc.Metadata
	if doc.Columns != nil {
		store.columns = doc.Columns
	}
	log.Infof("loaded mapping store from %q: %d columns, %d mappings",
		filePath, len(store.columns), store.countMappings())
	return store, nil
}

// GetOrCreate is the single read-through-or-create path into the
// store. An existing (column, value) pair is returned unchanged -
// classification and generation never re-run for it. A novel pair is
// classified, generated, stored and returned.
func (s *MappingStore) GetOrCreate(columnName, originalValue string) (string, error) {
	if originalValue == "" {
		return "", nil // nothing to anonymize
	}
	if columnName == MetadataKey {
		return "", fmt.Errorf("column name %q is reserved for store metadata", MetadataKey)
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	colMap, ok := s.columns[columnName]
	if !ok {
		colMap = make(map[string]string)
		s.columns[columnName] = colMap
	}
	if pseudonym, ok := colMap[originalValue]; ok {
		return pseudonym, nil
	}

	classification := Classify(columnName, originalValue)
	pseudonym := generators[classification](columnName, originalValue, s)
	colMap[originalValue] = pseudonym
	return pseudonym, nil
}

// ReverseLookup returns the original value mapped to pseudonym. A
// non-empty columnName restricts the search to that column; otherwise
// all columns are scanned and the first match wins (deterministic only
// when no collision occurred). A miss is a normal result, not an error.
func (s *MappingStore) ReverseLookup(pseudonym, columnName string) (ReverseLookupResult, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	if columnName != "" {
		for original, anon := range s.columns[columnName] {
			if anon == pseudonym {
				return ReverseLookupResult{Original: original, Column: columnName}, true
			}
		}
		return ReverseLookupResult{}, false
	}

	for col, colMap := range s.columns {
		for original, anon := range colMap {
			if anon == pseudonym {
				return ReverseLookupResult{Original: original, Column: col}, true
			}
		}
	}
	return ReverseLookupResult{}, false
}

// Save writes the store to its file, refreshing the last-updated
// timestamp and the total-mapping count. Persistence is all-or-nothing
// at end-of-run; the engine never saves incrementally.
func (s *MappingStore) Save() error {
	s.mu.Lock()
	s.meta.LastUpdated = time.Now().Format(time.RFC3339)
	s.meta.TotalMappings = s.countMappings()
	doc := storeDocument{
		Metadata: s.meta,
		Columns:  s.columns,
	}
	s.mu.Unlock()

	err := s.file.Create(&doc)
	if err != nil {
		return fmt.Errorf("save mapping store: %w", err)
	}
	log.Infof("saved mapping store to %q: %d mappings", s.file.FilePath, doc.Metadata.TotalMappings)
	return nil
}

func (s *MappingStore) FilePath() string {
	return s.file.FilePath
}

func (s *MappingStore) TotalMappings() int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.countMappings()
}

// countMappings requires at least a read lock.
func (s *MappingStore) countMappings() int {
	return lo.SumBy(lo.Values(s.columns), func(colMap map[string]string) int {
		return len(colMap)
	})
}

// ColumnStat is the number of distinct values mapped in one column.
type ColumnStat struct {
	Column string
	Count  int
}

// Stats returns per-column mapping counts, sorted by column name.
func (s *MappingStore) Stats() []ColumnStat {
	s.mu.RLock()
	defer s.mu.RUnlock()

	stats := lo.MapToSlice(s.columns, func(col string, colMap map[string]string) ColumnStat {
		return ColumnStat{Column: col, Count: len(colMap)}
	})
	sort.Slice(stats, func(i, j int) bool { return stats[i].Column < stats[j].Column })
	return stats
}

const summarySampleSize = 10

// WriteSummary writes a human-readable per-column sample of mappings:
// for each column (sorted by name) the first 10 pairs ordered by
// pseudonym, plus a count of the remainder.
func (s *MappingStore) WriteSummary(w io.Writer) error {
	s.mu.RLock()
	defer s.mu.RUnlock()

	var b strings.Builder
	b.WriteString("Business Data Anonymization Mapping Summary\n")
	b.WriteString(strings.Repeat("=", 50) + "\n\n")
	b.WriteString(fmt.Sprintf("Generated: %s\n", time.Now().Format(time.RFC3339)))
	b.WriteString(fmt.Sprintf("Mapping file: %s\n", s.file.FilePath))

	for _, col := range sortedKeys(s.columns) {
		colMap := s.columns[col]
		b.WriteString(fmt.Sprintf("\nColumn: %s\n", col))
		b.WriteString(strings.Repeat("-", 30) + "\n")

		pairs := lo.Entries(colMap)
		sort.Slice(pairs, func(i, j int) bool {
			if pairs[i].Value != pairs[j].Value {
				return pairs[i].Value < pairs[j].Value
			}
			return pairs[i].Key < pairs[j].Key
		})
		for _, pair := range pairs[:min(len(pairs), summarySampleSize)] {
			b.WriteString(fmt.Sprintf("  %-40s -> %s\n", pair.Key, pair.Value))
		}
		if len(pairs) > summarySampleSize {
			b.WriteString(fmt.Sprintf("  ... and %d more mappings\n", len(pairs)-summarySampleSize))
		}
	}

	_, err := io.WriteString(w, b.String())
	if err != nil {
		return fmt.Errorf("write mapping summary: %w", err)
	}
	return nil
}

func sortedKeys[V any](m map[string]V) []string {
	keys := lo.Keys(m)
	sort.Strings(keys)
	return keys
}

// sequencer implementation; both require the write lock already held
// by GetOrCreate.

func (s *MappingStore) columnSize(columnName string) int {
	return len(s.columns[columnName])
}

func (s *MappingStore) nextGenericOrdinal() int {
	s.genericCounter++
	return s.genericCounter
}
