package app

import "time"

// Config holds runtime configuration for the application. Values that vary
// per submission (address, chart kind) live in Request instead.
type Config struct {
	// Fetch
	Timeout         time.Duration
	UserAgent       string
	MaxBodyBytes    int64
	RedirectMaxHops int
	StrictStatus    bool
	RespectRobots   bool

	// Extraction / tokenization
	ExtractMode  string
	Segmenter    string
	DictPath     string
	FilterPolicy string

	// Output
	TopN        int
	ChartHeight int
	PDFFontPath string

	// Behavior
	LanguageCheck bool
	Verbose       bool
}

const (
	defaultTimeout         = 30 * time.Second
	defaultMaxBodyBytes    = 10 << 20
	defaultRedirectMaxHops = 5
	defaultChartHeight     = 600
)

// DefaultConfig returns the configuration used when nothing is overridden.
func DefaultConfig() Config {
	return Config{
		Timeout:         defaultTimeout,
		MaxBodyBytes:    defaultMaxBodyBytes,
		RedirectMaxHops: defaultRedirectMaxHops,
		ExtractMode:     "all",
		Segmenter:       "dict",
		FilterPolicy:    "per-rune",
		ChartHeight:     defaultChartHeight,
	}
}
