package app

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"net"
	"net/http"
	"net/http/httptest"
	"reflect"
	"strings"
	"testing"
	"time"

	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"
	"golang.org/x/text/encoding/simplifiedchinese"

	"github.com/hyperifyio/pagefreq/internal/chart"
	"github.com/hyperifyio/pagefreq/internal/extract"
	"github.com/hyperifyio/pagefreq/internal/fetch"
	"github.com/hyperifyio/pagefreq/internal/freq"
	"github.com/hyperifyio/pagefreq/internal/robots"
	"github.com/hyperifyio/pagefreq/internal/textenc"
	"github.com/hyperifyio/pagefreq/internal/tokenize"
)

// fieldsSegmenter splits on whitespace so tests control word boundaries.
type fieldsSegmenter struct{}

func (fieldsSegmenter) Segment(text string) ([]string, error) { return strings.Fields(text), nil }

type brokenSegmenter struct{}

func (brokenSegmenter) Segment(string) ([]string, error) { return nil, errors.New("engine failure") }

func testConfig() Config {
	cfg := DefaultConfig()
	cfg.Timeout = 2 * time.Second
	return cfg
}

func newTestApp(t *testing.T, cfg Config, seg tokenize.Segmenter) *App {
	t.Helper()
	a, err := New(cfg, WithSegmenter(seg))
	if err != nil {
		t.Fatalf("New: %v", err)
	}
	return a
}

func serve(t *testing.T, contentType string, status int, body []byte) *httptest.Server {
	t.Helper()
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if contentType != "" {
			w.Header().Set("Content-Type", contentType)
		}
		w.WriteHeader(status)
		_, _ = w.Write(body)
	}))
	t.Cleanup(srv.Close)
	return srv
}

func TestAnalyze_RoundTrip(t *testing.T) {
	srv := serve(t, "text/html; charset=utf-8", 200, []byte("<html><body><p>你好 你好 世界 世界 世界</p></body></html>"))
	a := newTestApp(t, testConfig(), fieldsSegmenter{})

	an, err := a.Analyze(context.Background(), srv.URL)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if got := an.Table.Map(); !reflect.DeepEqual(got, map[string]int{"你好": 2, "世界": 3}) {
		t.Fatalf("unexpected counts %v", got)
	}
	if got := an.Table.TopN(1); !reflect.DeepEqual(got, []freq.Entry{{Token: "世界", Count: 3}}) {
		t.Fatalf("unexpected top1 %v", got)
	}
	if an.ResolvedEncoding != "utf-8" || an.DecodedAs != "utf-8" {
		t.Fatalf("unexpected encodings %q/%q", an.ResolvedEncoding, an.DecodedAs)
	}
	if an.StatusCode != 200 {
		t.Fatalf("expected 200, got %d", an.StatusCode)
	}
}

func TestAnalyze_DeclaredGB2312(t *testing.T) {
	body, err := simplifiedchinese.GBK.NewEncoder().Bytes([]byte("<p>中文 分词 中文</p>"))
	if err != nil {
		t.Fatalf("encode: %v", err)
	}
	srv := serve(t, "text/html; charset=gb2312", 200, body)
	a := newTestApp(t, testConfig(), fieldsSegmenter{})

	an, err := a.Analyze(context.Background(), srv.URL)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if an.ResolvedEncoding != "gb2312" {
		t.Fatalf("expected resolved gb2312, got %q", an.ResolvedEncoding)
	}
	if an.Table.Count("中文") != 2 || an.Table.Count("分词") != 1 {
		t.Fatalf("unexpected counts %v", an.Table.Map())
	}
}

func TestAnalyze_NoCharsetAutoDetects(t *testing.T) {
	srv := serve(t, "text/html", 200, []byte("<p>你好 世界</p>"))
	a := newTestApp(t, testConfig(), fieldsSegmenter{})

	an, err := a.Analyze(context.Background(), srv.URL)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if an.ResolvedEncoding != textenc.AutoDetect {
		t.Fatalf("expected auto-detect, got %q", an.ResolvedEncoding)
	}
	if an.Table.Len() != 2 {
		t.Fatalf("expected 2 distinct tokens, got %v", an.Table.Map())
	}
}

func TestAnalyze_UnknownCharsetIsDecodeError(t *testing.T) {
	srv := serve(t, "text/html; charset=x-klingon", 200, []byte("<p>你好</p>"))
	a := newTestApp(t, testConfig(), fieldsSegmenter{})

	_, err := a.Analyze(context.Background(), srv.URL)
	if FailedStage(err) != StageDecode {
		t.Fatalf("expected decode stage, got %v", err)
	}
	var de *textenc.DecodeError
	if !errors.As(err, &de) {
		t.Fatalf("expected DecodeError cause, got %v", err)
	}
}

func TestAnalyze_UnreachableIsNetworkError(t *testing.T) {
	ln, err := net.Listen("tcp", "127.0.0.1:0")
	if err != nil {
		t.Fatalf("listen: %v", err)
	}
	addr := ln.Addr().String()
	_ = ln.Close()

	a := newTestApp(t, testConfig(), fieldsSegmenter{})
	res, err := a.Chart(context.Background(), Request{Address: "http://" + addr + "/", Kind: chart.Bar})
	if res != nil {
		t.Fatalf("expected no result on fetch failure")
	}
	if FailedStage(err) != StageFetch {
		t.Fatalf("expected fetch stage, got %v", err)
	}
	var ne *fetch.NetworkError
	if !errors.As(err, &ne) {
		t.Fatalf("expected NetworkError cause, got %v", err)
	}
}

func TestAnalyze_ErrorStatusIsAnalyzed(t *testing.T) {
	srv := serve(t, "text/html; charset=utf-8", http.StatusNotFound, []byte("<p>页面 不存在 页面</p>"))

	a := newTestApp(t, testConfig(), fieldsSegmenter{})
	an, err := a.Analyze(context.Background(), srv.URL)
	if err != nil {
		t.Fatalf("expected 404 body to be analyzed, got %v", err)
	}
	if an.Table.Count("页面") != 2 {
		t.Fatalf("unexpected counts %v", an.Table.Map())
	}

	cfg := testConfig()
	cfg.StrictStatus = true
	strict := newTestApp(t, cfg, fieldsSegmenter{})
	_, err = strict.Analyze(context.Background(), srv.URL)
	var he *fetch.HTTPError
	if !errors.As(err, &he) || FailedStage(err) != StageFetch {
		t.Fatalf("expected HTTPError in fetch stage, got %v", err)
	}
}

func TestAnalyze_TokenizeFailure(t *testing.T) {
	srv := serve(t, "text/html", 200, []byte("<p>你好</p>"))
	a := newTestApp(t, testConfig(), brokenSegmenter{})

	res, err := a.Chart(context.Background(), Request{Address: srv.URL, Kind: chart.Pie})
	if res != nil {
		t.Fatalf("expected no chart on tokenize failure")
	}
	if FailedStage(err) != StageTokenize {
		t.Fatalf("expected tokenize stage, got %v", err)
	}
	var te *tokenize.Error
	if !errors.As(err, &te) {
		t.Fatalf("expected tokenize.Error cause, got %v", err)
	}
}

func TestAnalyze_EmptyPage(t *testing.T) {
	srv := serve(t, "text/html", 200, nil)
	a := newTestApp(t, testConfig(), fieldsSegmenter{})

	an, err := a.Analyze(context.Background(), srv.URL)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if an.Table.Len() != 0 || an.Table.Total() != 0 {
		t.Fatalf("expected empty table, got %v", an.Table.Map())
	}
	for _, n := range []int{0, 1, 20} {
		if got := an.Table.TopN(n); len(got) != 0 {
			t.Fatalf("expected empty top-%d, got %v", n, got)
		}
	}
}

func TestAnalyze_EmptyAddress(t *testing.T) {
	a := newTestApp(t, testConfig(), fieldsSegmenter{})
	if _, err := a.Analyze(context.Background(), "   "); !errors.Is(err, ErrEmptyAddress) {
		t.Fatalf("expected ErrEmptyAddress, got %v", err)
	}
}

func TestAnalyze_Idempotent(t *testing.T) {
	srv := serve(t, "text/html; charset=utf-8", 200, []byte("<p>北京 上海 北京 广州 上海 北京</p>"))
	a := newTestApp(t, testConfig(), fieldsSegmenter{})

	first, err := a.Analyze(context.Background(), srv.URL)
	if err != nil {
		t.Fatalf("first run: %v", err)
	}
	second, err := a.Analyze(context.Background(), srv.URL)
	if err != nil {
		t.Fatalf("second run: %v", err)
	}
	if !reflect.DeepEqual(first.Table.Entries(), second.Table.Entries()) {
		t.Fatalf("tables differ between runs")
	}
	if !reflect.DeepEqual(first.Table.TopN(2), second.Table.TopN(2)) {
		t.Fatalf("rankings differ between runs")
	}
}

func TestAnalyze_FilterPolicies(t *testing.T) {
	srv := serve(t, "text/html; charset=utf-8", 200, []byte("<p>你好 你好a Go语言 世</p>"))

	perRune := newTestApp(t, testConfig(), fieldsSegmenter{})
	an, err := perRune.Analyze(context.Background(), srv.URL)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if !reflect.DeepEqual(an.Table.Map(), map[string]int{"你好": 1}) {
		t.Fatalf("per-rune: unexpected counts %v", an.Table.Map())
	}

	cfg := testConfig()
	cfg.FilterPolicy = string(tokenize.PolicyLexicographic)
	lex := newTestApp(t, cfg, fieldsSegmenter{})
	an, err = lex.Analyze(context.Background(), srv.URL)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if !reflect.DeepEqual(an.Table.Map(), map[string]int{"你好": 1, "你好a": 1}) {
		t.Fatalf("lexicographic: unexpected counts %v", an.Table.Map())
	}
}

func TestChart_DefaultTopPerKind(t *testing.T) {
	var words []string
	for i := 0; i < 30; i++ {
		// Distinct two-character tokens with descending counts.
		w := string([]rune{rune(0x4e00 + i), '字'})
		for j := 0; j <= 30-i; j++ {
			words = append(words, w)
		}
	}
	srv := serve(t, "text/html; charset=utf-8", 200, []byte("<p>"+strings.Join(words, " ")+"</p>"))
	a := newTestApp(t, testConfig(), fieldsSegmenter{})

	for kind, want := range map[chart.Kind]int{chart.Bar: 10, chart.WordCloud: 20, chart.Radar: 10} {
		res, err := a.Chart(context.Background(), Request{Address: srv.URL, Kind: kind})
		if err != nil {
			t.Fatalf("%v: %v", kind, err)
		}
		if len(res.Entries) != want {
			t.Fatalf("%v: expected %d entries, got %d", kind, want, len(res.Entries))
		}
		if res.Artifact.Kind != kind || len(res.Artifact.HTML) == 0 {
			t.Fatalf("%v: unexpected artifact", kind)
		}
	}

	res, err := a.Chart(context.Background(), Request{Address: srv.URL, Kind: chart.Pie, TopN: 3})
	if err != nil {
		t.Fatalf("pie: %v", err)
	}
	if len(res.Entries) != 3 || res.Entries[0].Token != string([]rune{0x4e00, '字'}) {
		t.Fatalf("unexpected pie entries %v", res.Entries)
	}
}

func TestTopFor_Precedence(t *testing.T) {
	cfg := testConfig()
	a := newTestApp(t, cfg, fieldsSegmenter{})
	if got := a.TopFor(Request{Kind: chart.WordCloud}); got != 20 {
		t.Fatalf("expected kind default 20, got %d", got)
	}
	cfg.TopN = 7
	a = newTestApp(t, cfg, fieldsSegmenter{})
	if got := a.TopFor(Request{Kind: chart.WordCloud}); got != 7 {
		t.Fatalf("expected configured 7, got %d", got)
	}
	if got := a.TopFor(Request{Kind: chart.WordCloud, TopN: 3}); got != 3 {
		t.Fatalf("expected request 3, got %d", got)
	}
}

func TestAnalysis_Summary(t *testing.T) {
	srv := serve(t, "text/html; charset=utf-8", 200, []byte("<title>标题</title><p> 你好 你好 世界</p>"))
	a := newTestApp(t, testConfig(), fieldsSegmenter{})
	an, err := a.Analyze(context.Background(), srv.URL)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	s := an.Summary(1)
	if s.Tokens != 4 || s.Distinct != 3 || len(s.Entries) != 1 || s.Title != "标题" {
		t.Fatalf("unexpected summary %+v", s)
	}
}

func TestNew_InvalidConfig(t *testing.T) {
	cfg := testConfig()
	cfg.ExtractMode = "magic"
	if _, err := New(cfg, WithSegmenter(fieldsSegmenter{})); err == nil {
		t.Fatalf("expected validation error")
	}
}

func TestNew_ReadabilityMode(t *testing.T) {
	cfg := testConfig()
	cfg.ExtractMode = string(extract.ModeReadability)
	a := newTestApp(t, cfg, fieldsSegmenter{})
	if _, ok := a.extractor.(extract.ReadabilityExtractor); !ok {
		t.Fatalf("expected readability extractor, got %T", a.extractor)
	}
}

func TestStageError_Message(t *testing.T) {
	err := &StageError{Stage: StageFetch, Err: fmt.Errorf("boom")}
	if err.Error() != "fetch: boom" {
		t.Fatalf("unexpected message %q", err.Error())
	}
	if FailedStage(errors.New("plain")) != "" {
		t.Fatalf("expected no stage for plain error")
	}
}

func TestAnalyze_RespectRobots(t *testing.T) {
	var pageHits int
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		switch r.URL.Path {
		case "/robots.txt":
			_, _ = w.Write([]byte("User-agent: *\nDisallow: /private\n"))
		default:
			pageHits++
			w.Header().Set("Content-Type", "text/html; charset=utf-8")
			_, _ = w.Write([]byte("<p>你好 世界</p>"))
		}
	}))
	t.Cleanup(srv.Close)

	cfg := testConfig()
	cfg.RespectRobots = true
	a := newTestApp(t, cfg, fieldsSegmenter{})

	if _, err := a.Analyze(context.Background(), srv.URL+"/news"); err != nil {
		t.Fatalf("allowed page failed: %v", err)
	}
	_, err := a.Analyze(context.Background(), srv.URL+"/private/a.html")
	var de *robots.DisallowedError
	if !errors.As(err, &de) || FailedStage(err) != StageFetch {
		t.Fatalf("expected fetch-stage DisallowedError, got %v", err)
	}
	if pageHits != 1 {
		t.Fatalf("disallowed page must not be requested, got %d page hits", pageHits)
	}
}

func TestAnalyze_RobotsIgnoredByDefault(t *testing.T) {
	var robotsHits int
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path == "/robots.txt" {
			robotsHits++
		}
		_, _ = w.Write([]byte("<p>你好</p>"))
	}))
	t.Cleanup(srv.Close)

	a := newTestApp(t, testConfig(), fieldsSegmenter{})
	if _, err := a.Analyze(context.Background(), srv.URL+"/private"); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if robotsHits != 0 {
		t.Fatalf("robots.txt should not be requested unless enabled")
	}
}

func TestAnalyze_OversizedBodyIsFlaggedAndWarned(t *testing.T) {
	var logs bytes.Buffer
	prev := log.Logger
	log.Logger = zerolog.New(&logs)
	t.Cleanup(func() { log.Logger = prev })

	body := []byte(strings.Repeat("a", 64) + " 世界 世界")
	srv := serve(t, "text/html; charset=utf-8", http.StatusOK, body)

	cfg := testConfig()
	cfg.MaxBodyBytes = 64
	a := newTestApp(t, cfg, fieldsSegmenter{})
	an, err := a.Analyze(context.Background(), srv.URL)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if !an.Truncated || !an.Summary(10).Truncated {
		t.Fatalf("expected analysis to be marked truncated")
	}
	if an.Table.Len() != 0 {
		t.Fatalf("tokens past the limit must not be counted, got %v", an.Table.Map())
	}
	if !strings.Contains(logs.String(), `"level":"warn"`) || !strings.Contains(logs.String(), "size limit") {
		t.Fatalf("expected a size-limit warning, got logs:\n%s", logs.String())
	}

	cfg.MaxBodyBytes = int64(len(body))
	a = newTestApp(t, cfg, fieldsSegmenter{})
	an, err = a.Analyze(context.Background(), srv.URL)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if an.Truncated || an.Table.Count("世界") != 2 {
		t.Fatalf("body within the limit should be counted in full, got truncated=%v %v", an.Truncated, an.Table.Map())
	}
}

func TestAnalyze_RobotsAndPageShareDeadline(t *testing.T) {
	slow := func(w http.ResponseWriter, r *http.Request) {
		select {
		case <-time.After(300 * time.Millisecond):
		case <-r.Context().Done():
			return
		}
		if r.URL.Path == "/robots.txt" {
			http.NotFound(w, r)
			return
		}
		_, _ = w.Write([]byte("<p>你好</p>"))
	}
	srv := httptest.NewServer(http.HandlerFunc(slow))
	t.Cleanup(srv.Close)

	cfg := testConfig()
	cfg.Timeout = 450 * time.Millisecond
	cfg.RespectRobots = true
	a := newTestApp(t, cfg, fieldsSegmenter{})

	_, err := a.Analyze(context.Background(), srv.URL+"/page")
	var ne *fetch.NetworkError
	if !errors.As(err, &ne) || !ne.Timeout() {
		t.Fatalf("expected one timeout covering robots.txt and the page, got %v", err)
	}
	if FailedStage(err) != StageFetch {
		t.Fatalf("expected fetch stage, got %q", FailedStage(err))
	}
}
