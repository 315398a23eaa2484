package main

import (
	"fmt"

	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"
	"github.com/spf13/cobra"

	"github.com/hyperifyio/pagefreq/internal/app"
)

// addPipelineFlags registers the flags shared by every command that runs
// the pipeline. Their defaults are only shown in help; a flag overrides
// the file and environment only when set explicitly.
func addPipelineFlags(cmd *cobra.Command) {
	def := app.DefaultConfig()
	cmd.Flags().DurationP("timeout", "t", def.Timeout, "Request timeout")
	cmd.Flags().String("user-agent", "", "User-Agent header (default: Go HTTP client)")
	cmd.Flags().Bool("strict-status", false, "Fail on non-2xx responses instead of analyzing the body")
	cmd.Flags().Bool("respect-robots", false, "Refuse pages that the host's robots.txt disallows")
	cmd.Flags().String("extract", def.ExtractMode, "Text extraction: all or readability")
	cmd.Flags().String("segmenter", def.Segmenter, "Word segmenter: dict or runs")
	cmd.Flags().String("dict", "", "Additional segmentation dictionary file")
	cmd.Flags().String("filter", def.FilterPolicy, "Chinese token filter: per-rune or lexicographic")
	cmd.Flags().Bool("lang-check", false, "Warn when the page text does not look Chinese")
	cmd.Flags().IntP("top", "n", 0, "Number of entries to show (default depends on the output)")
}

// loadConfig layers defaults, the config file, PAGEFREQ_* variables and
// explicitly set flags, in that order, and applies the resulting log level.
func loadConfig(cmd *cobra.Command) (app.Config, error) {
	cfg := app.DefaultConfig()

	path, err := cmd.Flags().GetString("config")
	if err != nil {
		return cfg, err
	}
	if path != "" {
		fc, err := app.LoadConfigFile(path)
		if err != nil {
			return cfg, fmt.Errorf("load config %s: %w", path, err)
		}
		app.ApplyFileConfig(&cfg, fc)
	} else {
		fc, found, err := app.LoadDefaultConfigFile()
		if err != nil {
			return cfg, fmt.Errorf("load config %s: %w", app.DefaultConfigPath(), err)
		}
		if found {
			app.ApplyFileConfig(&cfg, fc)
		}
	}

	app.ApplyEnvOverrides(&cfg)

	if err := applyFlags(cmd, &cfg); err != nil {
		return cfg, err
	}

	if cfg.Verbose {
		zerolog.SetGlobalLevel(zerolog.DebugLevel)
	} else {
		zerolog.SetGlobalLevel(zerolog.InfoLevel)
	}
	log.Debug().Str("config", path).Dur("timeout", cfg.Timeout).Str("segmenter", cfg.Segmenter).Str("filter", cfg.FilterPolicy).Msg("configuration loaded")
	return cfg, nil
}

func applyFlags(cmd *cobra.Command, cfg *app.Config) error {
	flags := cmd.Flags()
	var err error
	if flags.Changed("verbose") {
		if cfg.Verbose, err = flags.GetBool("verbose"); err != nil {
			return err
		}
	}
	if flags.Changed("timeout") {
		if cfg.Timeout, err = flags.GetDuration("timeout"); err != nil {
			return err
		}
	}
	if flags.Changed("strict-status") {
		if cfg.StrictStatus, err = flags.GetBool("strict-status"); err != nil {
			return err
		}
	}
	if flags.Changed("respect-robots") {
		if cfg.RespectRobots, err = flags.GetBool("respect-robots"); err != nil {
			return err
		}
	}
	if flags.Changed("lang-check") {
		if cfg.LanguageCheck, err = flags.GetBool("lang-check"); err != nil {
			return err
		}
	}

	strs := []struct {
		name string
		dst  *string
	}{
		{"user-agent", &cfg.UserAgent},
		{"extract", &cfg.ExtractMode},
		{"segmenter", &cfg.Segmenter},
		{"dict", &cfg.DictPath},
		{"filter", &cfg.FilterPolicy},
		{"font", &cfg.PDFFontPath},
	}
	for _, s := range strs {
		if !flags.Changed(s.name) {
			continue
		}
		if *s.dst, err = flags.GetString(s.name); err != nil {
			return err
		}
	}
	return nil
}

// newApp loads the configuration for cmd and builds the pipeline.
func newApp(cmd *cobra.Command) (*app.App, error) {
	cfg, err := loadConfig(cmd)
	if err != nil {
		return nil, err
	}
	return app.New(cfg)
}
