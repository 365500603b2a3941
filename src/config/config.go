package config

import (
	"fmt"

	"github.com/davecgh/go-spew/spew"
	log "github.com/sirupsen/logrus"
	"github.com/spf13/viper"

	"github.com/svartalfarqc/business-data-anonymizer/src/datafile"
	"github.com/svartalfarqc/business-data-anonymizer/src/utils"
)

const (
	DefaultMappingFile = "anonymization_mappings.json"
	DefaultSummaryFile = "mapping_summary.txt"
)

// Config is the anonymization job description, loaded from a JSON
// config file (config.json by default).
type Config struct {
	SourceFile      string   `mapstructure:"source_file"`
	DestinationFile string   `mapstructure:"destination_file"`
	PreserveColumns []string `mapstructure:"preserve_columns"`
	MappingFile     string   `mapstructure:"mapping_file"`
	Encoding        string   `mapstructure:"encoding"`
	SummaryFile     string   `mapstructure:"summary_file"`
}

// Load reads and validates the job configuration. source_file and
// destination_file are required; the rest default sensibly.
func Load(configPath string) (*Config, error) {
	if !utils.FileOrFolderExists(configPath) {
		return nil, fmt.Errorf("configuration file not found: %s", configPath)
	}

	v := viper.New()
	v.SetConfigFile(configPath)
	v.SetConfigType("json")
	v.SetDefault("mapping_file", DefaultMappingFile)
	v.SetDefault("summary_file", DefaultSummaryFile)
	v.SetDefault("encoding", datafile.EncodingAuto)

	if err := v.ReadInConfig(); err != nil {
		return nil, fmt.Errorf("read config file %s: %w", configPath, err)
	}

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, fmt.Errorf("parse config file %s: %w", configPath, err)
	}

	for field, value := range map[string]string{
		"source_file":      cfg.SourceFile,
		"destination_file": cfg.DestinationFile,
	} {
		if value == "" {
			return nil, fmt.Errorf("missing required config field: %s", field)
		}
	}

	log.Debugf("loaded config from %s:\n%s", configPath, spew.Sdump(cfg))
	return &cfg, nil
}
