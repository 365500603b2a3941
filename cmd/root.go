package cmd

import (
	"os"
	"path/filepath"

	"github.com/nightlyone/lockfile"
	"github.com/spf13/cobra"

	"github.com/svartalfarqc/business-data-anonymizer/src/config"
	"github.com/svartalfarqc/business-data-anonymizer/src/utils"
)

var (
	cfgFile   string
	logLevel  string
	storeLock lockfile.Lockfile
)

var rootCmd = &cobra.Command{
	Use:   "business-data-anonymizer",
	Short: "Anonymize business data in CSV files while preserving specified columns",
	Long: `A CLI tool that replaces values in selected CSV columns with deterministic,
format-preserving pseudonyms and maintains a reversible mapping file for
traceability. Repeated runs against the same mapping file are idempotent:
the same input value in the same column always yields the same pseudonym.`,

	PersistentPreRun: func(cmd *cobra.Command, args []string) {
		InitLogging(cmd.Use)
	},

	Run: func(cmd *cobra.Command, args []string) {
		if len(args) == 0 {
			cmd.Help()
			os.Exit(0)
		}
	},
}

// Execute adds all child commands to the root command and sets flags appropriately.
// This is called by main.main(). It only needs to happen once to the rootCmd.
func Execute() {
	cobra.CheckErr(rootCmd.Execute())
}

func init() {
	rootCmd.CompletionOptions.DisableDefaultCmd = true

	rootCmd.PersistentFlags().StringVarP(&cfgFile, "config", "c", "config.json",
		"path to the job configuration file")
	rootCmd.PersistentFlags().StringVar(&logLevel, "log-level", "info",
		"log level for the log file (trace, debug, info, warn, error)")
}

func loadConfigOrExit() *config.Config {
	cfg, err := config.Load(cfgFile)
	if err != nil {
		utils.ErrExit("load configuration: %v", err)
	}
	return cfg
}

// lockMappingStore takes an exclusive lock next to the mapping file so
// two concurrent runs cannot clobber each other's end-of-run save.
func lockMappingStore(mappingFile string) {
	absPath, err := filepath.Abs(mappingFile)
	if err != nil {
		utils.ErrExit("resolve mapping file path: %v", err)
	}
	storeLock, err = lockfile.New(absPath + ".lck")
	if err != nil {
		utils.ErrExit("create lockfile for mapping store: %v", err)
	}
	if err := storeLock.TryLock(); err != nil {
		utils.ErrExit("another anonymization run holds the mapping store %q: %v", mappingFile, err)
	}
}

func unlockMappingStore() {
	if err := storeLock.Unlock(); err != nil {
		utils.PrintAndLog("warning: unlock mapping store: %v", err)
	}
}
