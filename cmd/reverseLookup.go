package cmd

import (
	"github.com/svartalfarqc/business-data-anonymizer/src/anon"
	"github.com/svartalfarqc/business-data-anonymizer/src/utils"
)

var reverseLookupColumn string

func reverseLookupCommandFn(pseudonym string) {
	cfg := loadConfigOrExit()

	store, err := anon.OpenMappingStore(cfg.MappingFile)
	if err != nil {
		utils.ErrExit("open mapping store: %v", err)
	}

	result, found := store.ReverseLookup(pseudonym, reverseLookupColumn)
	if !found {
		// A miss is a normal result, not an error.
		utils.PrintAndLog("No mapping found for: %s", pseudonym)
		return
	}

	if reverseLookupColumn == "" {
		utils.PrintAndLog("Reverse lookup: %s -> %s (from column: %s)",
			pseudonym, result.Original, result.Column)
	} else {
		utils.PrintAndLog("Reverse lookup: %s -> %s", pseudonym, result.Original)
	}
}
