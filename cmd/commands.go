package cmd

import (
	"github.com/spf13/cobra"

	"github.com/svartalfarqc/business-data-anonymizer/src/utils"
)

var anonymizeCmd = &cobra.Command{
	Use:   "anonymize",
	Short: "Anonymize the source CSV file according to the configuration.",
	Long: `Read the source CSV, replace values in all non-preserved columns with
deterministic pseudonyms, write the transformed table to the destination file
and persist the updated mapping store.`,
	Args: cobra.NoArgs,

	Run: func(cmd *cobra.Command, args []string) {
		anonymizeCommandFn()
	},
}

var reverseLookupCmd = &cobra.Command{
	Use:   "reverse-lookup VALUE",
	Short: "Look up the original value behind an anonymized value.",
	Long: `Search the persisted mapping store for an anonymized value and print the
original. Use --column to restrict the search to one column; otherwise all
columns are scanned and the first match wins.`,
	Args: cobra.ExactArgs(1),

	Run: func(cmd *cobra.Command, args []string) {
		reverseLookupCommandFn(args[0])
	},
}

var exportSummaryCmd = &cobra.Command{
	Use:   "export-summary",
	Short: "Export a human-readable summary of the mapping store.",

	Run: func(cmd *cobra.Command, args []string) {
		exportSummaryCommandFn()
	},
}

var versionCmd = &cobra.Command{
	Use:   "version",
	Short: "Print the version of the tool.",

	Run: func(cmd *cobra.Command, args []string) {
		utils.PrintAndLog("business-data-anonymizer version %s", utils.Version)
	},
}

func init() {
	anonymizeCmd.Flags().BoolVarP(&exportSummaryFlag, "summary", "s", false,
		"also export a mapping summary after anonymization")
	anonymizeCmd.Flags().StringVarP(&encodingOverride, "encoding", "e", "",
		"override the source file encoding (e.g. utf-8, latin-1, windows-1252)")

	reverseLookupCmd.Flags().StringVar(&reverseLookupColumn, "column", "",
		"restrict the reverse lookup to this column")

	rootCmd.AddCommand(anonymizeCmd)
	rootCmd.AddCommand(reverseLookupCmd)
	rootCmd.AddCommand(exportSummaryCmd)
	rootCmd.AddCommand(versionCmd)
}
