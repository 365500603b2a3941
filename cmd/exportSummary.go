package cmd

import (
	"os"

	"github.com/svartalfarqc/business-data-anonymizer/src/anon"
	"github.com/svartalfarqc/business-data-anonymizer/src/utils"
)

func exportSummaryCommandFn() {
	cfg := loadConfigOrExit()

	store, err := anon.OpenMappingStore(cfg.MappingFile)
	if err != nil {
		utils.ErrExit("open mapping store: %v", err)
	}

	writeSummaryFile(store, cfg.SummaryFile)
}

func writeSummaryFile(store *anon.MappingStore, summaryFile string) {
	file, err := os.Create(summaryFile)
	if err != nil {
		utils.ErrExit("create summary file: %v", err)
	}
	defer file.Close()

	if err := store.WriteSummary(file); err != nil {
		utils.ErrExit("export mapping summary: %v", err)
	}
	utils.PrintAndLog("Mapping summary exported to: %s", summaryFile)
}
