package cmd

import (
	"fmt"
	"strconv"

	"github.com/dustin/go-humanize"
	"github.com/fatih/color"
	"github.com/gosuri/uitable"

	"github.com/svartalfarqc/business-data-anonymizer/src/anon"
)

func printCompletion(rowCount int64, destinationFile, mappingFile string) {
	fmt.Println()
	color.Green("Anonymization complete!")
	fmt.Printf("  Rows processed: %s\n", humanize.Comma(rowCount))
	fmt.Printf("  Output file: %s\n", destinationFile)
	fmt.Printf("  Mapping file: %s\n", mappingFile)
}

func printStatistics(store *anon.MappingStore) {
	stats := store.Stats()
	if len(stats) == 0 {
		return
	}

	fmt.Println("\nAnonymization Statistics:")
	table := uitable.New()
	table.MaxColWidth = 50
	table.AddRow("COLUMN", "UNIQUE VALUES ANONYMIZED")
	for _, stat := range stats {
		table.AddRow(stat.Column, strconv.Itoa(stat.Count))
	}
	fmt.Println(table)

	fmt.Printf("\nTotal unique values anonymized: %d\n", store.TotalMappings())
}
