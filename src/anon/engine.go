package anon

import (
	"errors"
	"fmt"
	"io"
	"sort"

	mapset "github.com/deckarep/golang-set/v2"
	"github.com/dustin/go-humanize"
	"github.com/samber/lo"

	"github.com/svartalfarqc/business-data-anonymizer/src/datafile"
	"github.com/svartalfarqc/business-data-anonymizer/src/utils"
)

const progressReportInterval = 1000

/*
Engine orchestrates a row stream: for each cell it decides
preserve-vs-anonymize and consults the MappingStore through the
classifier and generators. Rows are transformed one at a time in input
order, so memory stays O(row) for data plus the growing store.

The engine never saves the store; the caller persists it exactly once
after the stream is fully consumed. A failure mid-stream aborts without
saving, losing the mappings created in that run.
*/
type Engine struct {
	store     *MappingStore
	preserved mapset.Set[string]
}

func NewEngine(store *MappingStore, preservedColumns []string) *Engine {
	return &Engine{
		store:     store,
		preserved: mapset.NewThreadUnsafeSet(preservedColumns...),
	}
}

func (e *Engine) Store() *MappingStore {
	return e.store
}

func (e *Engine) PreservedColumns() []string {
	cols := e.preserved.ToSlice()
	sort.Strings(cols)
	return cols
}

// AnonymizableColumns returns the header columns the engine will
// anonymize, in header order.
func (e *Engine) AnonymizableColumns(header []string) []string {
	return lo.Filter(header, func(col string, _ int) bool {
		return !e.preserved.ContainsOne(col)
	})
}

// AnonymizeRow transforms a single row, visiting cells in header
// order. The order matters: the generic generator draws from a shared
// sequence, so ranging over the map would randomize which cell of a
// multi-generic row gets which suffix. Preserved columns and empty
// cells are copied unchanged; everything else goes through the store's
// read-through-or-create path. Cells for columns missing from the
// header are dropped - the header is fixed before processing begins.
func (e *Engine) AnonymizeRow(header []string, row map[string]string) (map[string]string, error) {
	out := make(map[string]string, len(row))
	for _, column := range header {
		value, ok := row[column]
		if !ok {
			continue
		}
		if e.preserved.ContainsOne(column) || value == "" {
			out[column] = value
			continue
		}
		pseudonym, err := e.store.GetOrCreate(column, value)
		if err != nil {
			return nil, fmt.Errorf("anonymize column %q: %w", column, err)
		}
		out[column] = pseudonym
	}
	return out, nil
}

// Run consumes the reader to exhaustion, writing one transformed row
// per input row. Any reader or writer error aborts the whole run.
// Returns the number of rows processed.
func (e *Engine) Run(reader datafile.RowReader, writer datafile.RowWriter) (int64, error) {
	var rowCount int64
	for {
		row, err := reader.ReadRow()
		if errors.Is(err, io.EOF) {
			break
		}
		if err != nil {
			return rowCount, err
		}

		anonymizedRow, err := e.AnonymizeRow(reader.Header(), row)
		if err != nil {
			return rowCount, err
		}
		if err := writer.WriteRow(anonymizedRow); err != nil {
			return rowCount, err
		}

		rowCount++
		if rowCount%progressReportInterval == 0 {
			utils.PrintAndLog("  Processed %s rows...", humanize.Comma(rowCount))
		}
	}
	return rowCount, nil
}
