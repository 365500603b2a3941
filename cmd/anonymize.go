package cmd

import (
	"strings"

	"github.com/samber/lo"

	"github.com/svartalfarqc/business-data-anonymizer/src/anon"
	"github.com/svartalfarqc/business-data-anonymizer/src/datafile"
	"github.com/svartalfarqc/business-data-anonymizer/src/utils"
)

var (
	exportSummaryFlag bool
	encodingOverride  string
)

func anonymizeCommandFn() {
	cfg := loadConfigOrExit()
	if encodingOverride != "" {
		cfg.Encoding = encodingOverride
	}

	lockMappingStore(cfg.MappingFile)
	defer unlockMappingStore()

	store, err := anon.OpenMappingStore(cfg.MappingFile)
	if err != nil {
		utils.ErrExit("open mapping store: %v", err)
	}

	reader, err := datafile.OpenCsvRowReader(cfg.SourceFile, cfg.Encoding)
	if err != nil {
		utils.ErrExit("open source file: %v", err)
	}
	defer reader.Close()

	utils.PrintAndLog("Processing: %s (encoding: %s)", cfg.SourceFile, reader.Encoding)

	engine := anon.NewEngine(store, cfg.PreserveColumns)
	reportColumnPlan(engine, reader.Header())

	writer, err := datafile.CreateCsvRowWriter(cfg.DestinationFile, reader.Header())
	if err != nil {
		utils.ErrExit("create destination file: %v", err)
	}

	rowCount, err := engine.Run(reader, writer)
	if err != nil {
		writer.Close()
		utils.ErrExit("anonymization failed after %d rows: %v", rowCount, err)
	}
	if err := writer.Close(); err != nil {
		utils.ErrExit("finalize destination file: %v", err)
	}

	// The output table is already produced at this point; a store
	// save failure is fatal but does not retract the output file.
	if err := store.Save(); err != nil {
		utils.ErrExit("%v", err)
	}

	printCompletion(rowCount, cfg.DestinationFile, cfg.MappingFile)
	printStatistics(store)

	if exportSummaryFlag {
		writeSummaryFile(store, cfg.SummaryFile)
	}
}

// reportColumnPlan prints which columns will be preserved and which
// anonymized, truncating long column lists the way the log reader
// expects.
func reportColumnPlan(engine *anon.Engine, header []string) {
	preserved := engine.PreservedColumns()
	utils.PrintAndLog("Preserving columns: %s",
		lo.Ternary(len(preserved) > 0, strings.Join(preserved, ", "), "None"))

	anonymizable := engine.AnonymizableColumns(header)
	utils.PrintAndLog("Anonymizing %d columns: %s",
		len(anonymizable), strings.Join(anonymizable[:min(len(anonymizable), 5)], ", "))
	if len(anonymizable) > 5 {
		utils.PrintAndLog("  ... and %d more", len(anonymizable)-5)
	}
}
