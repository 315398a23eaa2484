package app

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"net/url"
	"strings"
	"time"
	"unicode/utf8"

	"github.com/rs/zerolog/log"

	"github.com/hyperifyio/pagefreq/internal/chart"
	"github.com/hyperifyio/pagefreq/internal/extract"
	"github.com/hyperifyio/pagefreq/internal/fetch"
	"github.com/hyperifyio/pagefreq/internal/freq"
	"github.com/hyperifyio/pagefreq/internal/langdetect"
	"github.com/hyperifyio/pagefreq/internal/report"
	"github.com/hyperifyio/pagefreq/internal/robots"
	"github.com/hyperifyio/pagefreq/internal/textenc"
	"github.com/hyperifyio/pagefreq/internal/tokenize"
)

// App runs the fetch → decode → extract → tokenize → aggregate pipeline.
// It holds only read-only collaborators, so concurrent runs share nothing
// mutable.
type App struct {
	cfg       Config
	fetcher   *fetch.Client
	gate      *robots.Checker
	extractor extract.Extractor
	tokenizer *tokenize.Tokenizer
	detector  *langdetect.Detector
}

// Option customizes New.
type Option func(*options)

type options struct {
	segmenter  tokenize.Segmenter
	httpClient *http.Client
}

// WithSegmenter replaces the configured segmenter.
func WithSegmenter(s tokenize.Segmenter) Option {
	return func(o *options) { o.segmenter = s }
}

// WithHTTPClient replaces the default HTTP client.
func WithHTTPClient(c *http.Client) Option {
	return func(o *options) { o.httpClient = c }
}

// New validates cfg and builds the pipeline. Loading the segmentation
// dictionary happens here, so a broken dictionary fails before any fetch.
func New(cfg Config, opts ...Option) (*App, error) {
	if err := ValidateConfig(cfg); err != nil {
		return nil, err
	}
	var o options
	for _, opt := range opts {
		opt(&o)
	}

	mode, _ := extract.ParseMode(cfg.ExtractMode)
	policy, _ := tokenize.ParsePolicy(cfg.FilterPolicy)
	seg := o.segmenter
	if seg == nil {
		kind, _ := tokenize.ParseSegmenterKind(cfg.Segmenter)
		s, err := tokenize.NewSegmenter(kind, cfg.DictPath)
		if err != nil {
			return nil, &StageError{Stage: StageTokenize, Err: err}
		}
		seg = s
	}
	httpClient := o.httpClient
	if httpClient == nil {
		httpClient = newHTTPClient()
	}

	a := &App{
		cfg: cfg,
		fetcher: &fetch.Client{
			HTTPClient:      httpClient,
			UserAgent:       cfg.UserAgent,
			Timeout:         cfg.Timeout,
			RedirectMaxHops: cfg.RedirectMaxHops,
			MaxBodyBytes:    cfg.MaxBodyBytes,
			RequireOK:       cfg.StrictStatus,
		},
		extractor: extract.New(mode),
		tokenizer: tokenize.New(seg, policy),
	}
	if cfg.RespectRobots {
		agent := cfg.UserAgent
		if agent == "" {
			agent = AppName
		}
		a.gate = &robots.Checker{HTTPClient: httpClient, UserAgent: cfg.UserAgent, Agent: agent}
	}
	if cfg.LanguageCheck {
		a.detector = langdetect.New()
	}
	return a, nil
}

// Config returns the configuration the App was built with.
func (a *App) Config() Config { return a.cfg }

// Request is one submission: the address to analyze and how to present it.
type Request struct {
	Address string
	Kind    chart.Kind
	// TopN overrides the configured and per-kind defaults when positive.
	TopN int
}

// Analysis is the outcome of one pipeline run up to aggregation.
type Analysis struct {
	Address     string
	FinalURL    string
	StatusCode  int
	ContentType string
	// ResolvedEncoding is the header-derived name or textenc.AutoDetect.
	ResolvedEncoding string
	// DecodedAs is the encoding the body was actually decoded with.
	DecodedAs  string
	Title      string
	TextLength int
	Language   string
	Table      *freq.Table
	// Truncated reports that only the first MaxBodyBytes of the body were analyzed.
	Truncated bool
}

// Summary returns a report summary of the top n entries.
func (an *Analysis) Summary(n int) report.Summary {
	return report.Summary{
		Address:    an.Address,
		FinalURL:   an.FinalURL,
		Title:      an.Title,
		StatusCode: an.StatusCode,
		Encoding:   an.DecodedAs,
		Tokens:     an.Table.Total(),
		Distinct:   an.Table.Len(),
		Entries:    an.Table.TopN(n),
		Truncated:  an.Truncated,
	}
}

// Analyze fetches address and returns its token frequency table. Any stage
// failure aborts the run and is returned as *StageError.
func (a *App) Analyze(ctx context.Context, address string) (*Analysis, error) {
	address = strings.TrimSpace(address)
	if address == "" {
		return nil, ErrEmptyAddress
	}

	if a.gate != nil {
		// robots.txt and the page share one fetch deadline.
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, a.fetchTimeout())
		defer cancel()
		if err := a.checkRobots(ctx, address); err != nil {
			return nil, &StageError{Stage: StageFetch, Err: err}
		}
	}
	res, err := a.fetcher.Get(ctx, address)
	if err != nil {
		return nil, &StageError{Stage: StageFetch, Err: err}
	}
	if res.StatusCode < 200 || res.StatusCode > 299 {
		log.Warn().Int("status", res.StatusCode).Str("url", res.URL).Msg("non-2xx response; analyzing body anyway")
	}
	if res.Truncated {
		log.Warn().Int64("max_body_bytes", a.cfg.MaxBodyBytes).Str("url", res.URL).Msg("body exceeds size limit; counting only the first part of the page")
	}
	log.Debug().Str("url", res.URL).Int("status", res.StatusCode).Int("bytes", len(res.Body)).Str("content_type", res.ContentType).Msg("fetched")

	resolved := textenc.Resolve(res.ContentType)
	pageURL, _ := url.Parse(res.URL)
	doc, decoded, err := extract.FromBytes(a.extractor, res.Body, resolved, pageURL)
	if err != nil {
		var de *textenc.DecodeError
		if errors.As(err, &de) {
			return nil, &StageError{Stage: StageDecode, Err: err}
		}
		return nil, &StageError{Stage: StageExtract, Err: err}
	}
	log.Debug().Str("resolved", resolved).Str("decoded_as", decoded.Encoding).Int("text_runes", utf8.RuneCountInString(doc.Text)).Msg("extracted")

	an := &Analysis{
		Address:          address,
		FinalURL:         res.URL,
		StatusCode:       res.StatusCode,
		ContentType:      res.ContentType,
		ResolvedEncoding: resolved,
		DecodedAs:        decoded.Encoding,
		Title:            doc.Title,
		TextLength:       utf8.RuneCountInString(doc.Text),
		Truncated:        res.Truncated,
	}

	if a.detector != nil {
		guess := a.detector.Detect(doc.Text)
		an.Language = guess.Language
		if guess.Language != "" && !guess.Chinese {
			log.Warn().Str("language", guess.Language).Str("url", res.URL).Msg("page does not look Chinese; few tokens expected")
		}
	}

	tokens, err := a.tokenizer.Tokens(doc.Text)
	if err != nil {
		return nil, &StageError{Stage: StageTokenize, Err: err}
	}
	an.Table = freq.Aggregate(tokens)
	log.Debug().Int("tokens", an.Table.Total()).Int("distinct", an.Table.Len()).Str("filter", string(a.tokenizer.Policy())).Msg("aggregated")
	return an, nil
}

func (a *App) fetchTimeout() time.Duration {
	if a.cfg.Timeout > 0 {
		return a.cfg.Timeout
	}
	return fetch.DefaultTimeout
}

func (a *App) checkRobots(ctx context.Context, address string) error {
	err := a.gate.Check(ctx, address)
	var de *robots.DisallowedError
	if err != nil && !errors.As(err, &de) {
		return &fetch.NetworkError{URL: address, Err: err}
	}
	return err
}

// TopFor resolves how many entries a request shows: the request's own
// TopN, then the configured TopN, then the chart kind's default.
func (a *App) TopFor(req Request) int {
	switch {
	case req.TopN > 0:
		return req.TopN
	case a.cfg.TopN > 0:
		return a.cfg.TopN
	default:
		return req.Kind.DefaultTopN()
	}
}

// ChartResult is an Analysis together with what was rendered from it.
type ChartResult struct {
	Analysis *Analysis
	Entries  []freq.Entry
	Artifact chart.Artifact
}

// Chart runs the pipeline for req and renders its top entries. Nothing is
// rendered when an earlier stage fails.
func (a *App) Chart(ctx context.Context, req Request) (*ChartResult, error) {
	an, err := a.Analyze(ctx, req.Address)
	if err != nil {
		return nil, err
	}
	entries := an.Table.TopN(a.TopFor(req))
	art, err := chart.Build(req.Kind, entries, chart.Options{Height: a.cfg.ChartHeight, PageTitle: pageTitle(an, req.Kind)})
	if err != nil {
		return nil, &StageError{Stage: StageRender, Err: err}
	}
	log.Debug().Str("kind", req.Kind.String()).Int("entries", len(entries)).Int("bytes", len(art.HTML)).Msg("rendered")
	return &ChartResult{Analysis: an, Entries: entries, Artifact: art}, nil
}

func pageTitle(an *Analysis, k chart.Kind) string {
	if an.Title == "" {
		return k.Label()
	}
	return fmt.Sprintf("%s - %s", k.Label(), an.Title)
}
