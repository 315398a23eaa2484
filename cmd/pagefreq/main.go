// Package main provides the pagefreq CLI.
//
// pagefreq fetches a Chinese web page, counts the CJK words on it and
// renders the most frequent ones as a chart or a ranking.
//
// Usage:
//
//	pagefreq chart --kind bar <url>
//	pagefreq top <url>
//	pagefreq report --out ranking.pdf --font /path/to/cjk.ttf <url>
package main

import (
	"os"
	"time"

	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"
)

func main() {
	// Logging setup
	zerolog.TimeFieldFormat = time.RFC3339
	log.Logger = log.Output(zerolog.ConsoleWriter{Out: os.Stderr, TimeFormat: time.RFC3339})
	zerolog.SetGlobalLevel(zerolog.InfoLevel)

	Execute()
}
