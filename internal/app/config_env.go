package app

import (
	"os"
	"strconv"
	"strings"
	"time"
)

// ApplyEnvOverrides forcefully overrides cfg fields with environment variables
// when the corresponding env vars are set. This lets env take precedence over
// a config file while flags, applied afterwards, stay highest.
func ApplyEnvOverrides(cfg *Config) {
	if cfg == nil {
		return
	}

	if s := os.Getenv("PAGEFREQ_TIMEOUT"); s != "" {
		if d, err := time.ParseDuration(s); err == nil {
			cfg.Timeout = d
		}
	}
	if v := os.Getenv("PAGEFREQ_USER_AGENT"); v != "" {
		cfg.UserAgent = v
	}
	if s := strings.TrimSpace(os.Getenv("PAGEFREQ_MAX_BODY")); s != "" {
		if n, err := strconv.ParseInt(s, 10, 64); err == nil && n > 0 {
			cfg.MaxBodyBytes = n
		}
	}
	if s := strings.TrimSpace(os.Getenv("PAGEFREQ_TOP")); s != "" {
		if n, err := strconv.Atoi(s); err == nil && n > 0 {
			cfg.TopN = n
		}
	}
	if v := os.Getenv("PAGEFREQ_EXTRACT"); v != "" {
		cfg.ExtractMode = v
	}
	if v := os.Getenv("PAGEFREQ_SEGMENTER"); v != "" {
		cfg.Segmenter = v
	}
	if v := os.Getenv("PAGEFREQ_DICT"); v != "" {
		cfg.DictPath = v
	}
	if v := os.Getenv("PAGEFREQ_FILTER"); v != "" {
		cfg.FilterPolicy = v
	}
	if v := os.Getenv("PAGEFREQ_PDF_FONT"); v != "" {
		cfg.PDFFontPath = v
	}

	// Booleans override when env present and truthy/falsey
	setBool := func(dst *bool, envKey string) {
		if s := strings.ToLower(strings.TrimSpace(os.Getenv(envKey))); s != "" {
			switch s {
			case "1", "true", "yes", "on":
				*dst = true
			case "0", "false", "no", "off":
				*dst = false
			}
		}
	}
	setBool(&cfg.StrictStatus, "PAGEFREQ_STRICT_STATUS")
	setBool(&cfg.RespectRobots, "PAGEFREQ_RESPECT_ROBOTS")
	setBool(&cfg.LanguageCheck, "PAGEFREQ_LANG_CHECK")
	setBool(&cfg.Verbose, "PAGEFREQ_VERBOSE")
}
