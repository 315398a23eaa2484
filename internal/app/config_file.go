package app

import (
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/adrg/xdg"
	yaml "gopkg.in/yaml.v3"

	"github.com/hyperifyio/pagefreq/internal/extract"
	"github.com/hyperifyio/pagefreq/internal/tokenize"
)

// AppName names the configuration directory.
const AppName = "pagefreq"

// FileConfig represents the single-file configuration schema.
// Nested sections map naturally to flags/env.
type FileConfig struct {
	Fetch struct {
		Timeout         Duration `yaml:"timeout" json:"timeout"`
		UserAgent       string   `yaml:"userAgent" json:"userAgent"`
		MaxBodyBytes    int64    `yaml:"maxBodyBytes" json:"maxBodyBytes"`
		RedirectMaxHops int      `yaml:"redirectMaxHops" json:"redirectMaxHops"`
		StrictStatus    *bool    `yaml:"strictStatus" json:"strictStatus"`
		RespectRobots   *bool    `yaml:"respectRobots" json:"respectRobots"`
	} `yaml:"fetch" json:"fetch"`

	Extract struct {
		Mode string `yaml:"mode" json:"mode"`
	} `yaml:"extract" json:"extract"`

	Tokenize struct {
		Segmenter string `yaml:"segmenter" json:"segmenter"`
		Dict      string `yaml:"dict" json:"dict"`
		Filter    string `yaml:"filter" json:"filter"`
	} `yaml:"tokenize" json:"tokenize"`

	Chart struct {
		Top    int `yaml:"top" json:"top"`
		Height int `yaml:"height" json:"height"`
	} `yaml:"chart" json:"chart"`

	Report struct {
		Font string `yaml:"font" json:"font"`
	} `yaml:"report" json:"report"`

	LanguageCheck *bool `yaml:"languageCheck" json:"languageCheck"`
	Verbose       bool  `yaml:"verbose" json:"verbose"`
}

// Duration is a time.Duration that reads "30s"-style strings from both YAML
// and JSON. JSON numbers are taken as nanoseconds.
type Duration time.Duration

func (d *Duration) UnmarshalJSON(b []byte) error {
	var s string
	if err := json.Unmarshal(b, &s); err == nil {
		v, err := time.ParseDuration(s)
		if err != nil {
			return fmt.Errorf("duration: %w", err)
		}
		*d = Duration(v)
		return nil
	}
	var n int64
	if err := json.Unmarshal(b, &n); err != nil {
		return fmt.Errorf("duration: want a string like \"30s\" or nanoseconds: %w", err)
	}
	*d = Duration(n)
	return nil
}

func (d *Duration) UnmarshalYAML(node *yaml.Node) error {
	var v time.Duration
	if err := node.Decode(&v); err != nil {
		return err
	}
	*d = Duration(v)
	return nil
}

// DefaultConfigPath is $XDG_CONFIG_HOME/pagefreq/config.yaml.
func DefaultConfigPath() string {
	return filepath.Join(xdg.ConfigHome, AppName, "config.yaml")
}

// LoadConfigFile reads YAML or JSON into FileConfig.
func LoadConfigFile(path string) (FileConfig, error) {
	var fc FileConfig
	b, err := os.ReadFile(path)
	if err != nil {
		return fc, err
	}
	switch ext := filepath.Ext(path); ext {
	case ".yaml", ".yml":
		if err := yaml.Unmarshal(b, &fc); err != nil {
			return fc, fmt.Errorf("parse yaml: %w", err)
		}
	case ".json":
		if err := json.Unmarshal(b, &fc); err != nil {
			return fc, fmt.Errorf("parse json: %w", err)
		}
	default:
		// Try YAML then JSON
		if err := yaml.Unmarshal(b, &fc); err != nil {
			if jerr := json.Unmarshal(b, &fc); jerr != nil {
				return fc, fmt.Errorf("parse config: %v (yaml) / %v (json)", err, jerr)
			}
		}
	}
	return fc, nil
}

// LoadDefaultConfigFile loads DefaultConfigPath when it exists. A missing
// file is not an error.
func LoadDefaultConfigFile() (FileConfig, bool, error) {
	fc, err := LoadConfigFile(DefaultConfigPath())
	if errors.Is(err, os.ErrNotExist) {
		return FileConfig{}, false, nil
	}
	if err != nil {
		return FileConfig{}, false, err
	}
	return fc, true, nil
}

// ApplyFileConfig overlays every value set in fc onto cfg. Callers apply
// env and flags afterwards so those take precedence.
func ApplyFileConfig(cfg *Config, fc FileConfig) {
	if cfg == nil {
		return
	}
	if fc.Fetch.Timeout > 0 {
		cfg.Timeout = time.Duration(fc.Fetch.Timeout)
	}
	if fc.Fetch.UserAgent != "" {
		cfg.UserAgent = fc.Fetch.UserAgent
	}
	if fc.Fetch.MaxBodyBytes > 0 {
		cfg.MaxBodyBytes = fc.Fetch.MaxBodyBytes
	}
	if fc.Fetch.RedirectMaxHops > 0 {
		cfg.RedirectMaxHops = fc.Fetch.RedirectMaxHops
	}
	if fc.Fetch.StrictStatus != nil {
		cfg.StrictStatus = *fc.Fetch.StrictStatus
	}
	if fc.Fetch.RespectRobots != nil {
		cfg.RespectRobots = *fc.Fetch.RespectRobots
	}
	if fc.Extract.Mode != "" {
		cfg.ExtractMode = fc.Extract.Mode
	}
	if fc.Tokenize.Segmenter != "" {
		cfg.Segmenter = fc.Tokenize.Segmenter
	}
	if fc.Tokenize.Dict != "" {
		cfg.DictPath = fc.Tokenize.Dict
	}
	if fc.Tokenize.Filter != "" {
		cfg.FilterPolicy = fc.Tokenize.Filter
	}
	if fc.Chart.Top > 0 {
		cfg.TopN = fc.Chart.Top
	}
	if fc.Chart.Height > 0 {
		cfg.ChartHeight = fc.Chart.Height
	}
	if fc.Report.Font != "" {
		cfg.PDFFontPath = fc.Report.Font
	}
	if fc.LanguageCheck != nil {
		cfg.LanguageCheck = *fc.LanguageCheck
	}
	if fc.Verbose {
		cfg.Verbose = true
	}
}

// ValidateConfig rejects negative limits and unknown mode names.
func ValidateConfig(cfg Config) error {
	if cfg.Timeout < 0 || cfg.MaxBodyBytes < 0 || cfg.RedirectMaxHops < 0 {
		return errors.New("config: negative fetch limits are not allowed")
	}
	if cfg.TopN < 0 {
		return errors.New("config: top must not be negative")
	}
	if cfg.ChartHeight < 0 {
		return errors.New("config: chart height must not be negative")
	}
	if _, err := extract.ParseMode(cfg.ExtractMode); err != nil {
		return fmt.Errorf("config: %w", err)
	}
	if _, err := tokenize.ParseSegmenterKind(cfg.Segmenter); err != nil {
		return fmt.Errorf("config: %w", err)
	}
	if _, err := tokenize.ParsePolicy(cfg.FilterPolicy); err != nil {
		return fmt.Errorf("config: %w", err)
	}
	if p := strings.TrimSpace(cfg.DictPath); p != "" {
		if _, err := os.Stat(p); err != nil {
			return fmt.Errorf("config: dictionary: %w", err)
		}
	}
	return nil
}
