// Package robots decides whether a page may be fetched according to its
// host's robots.txt.
package robots

import (
	"bufio"
	"context"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"regexp"
	"strings"
)

// maxRobotsBytes caps how much of a robots.txt is read.
const maxRobotsBytes = 512 << 10

// Rules is a parsed robots.txt.
type Rules struct {
	Groups []Group
}

// Group is one run of User-agent lines and the directives that follow them.
type Group struct {
	Agents   []string
	Allow    []string
	Disallow []string
}

// disallowAll blocks every path for every agent.
var disallowAll = Rules{Groups: []Group{{Agents: []string{"*"}, Disallow: []string{"/"}}}}

// Parse reads robots.txt text. Unknown directives and malformed lines are
// skipped.
func Parse(text string) Rules {
	scanner := bufio.NewScanner(strings.NewReader(text))
	scanner.Buffer(make([]byte, 0, 64*1024), 1024*1024)
	var groups []Group
	current := Group{}
	flush := func() {
		if len(current.Agents) == 0 && len(current.Allow) == 0 && len(current.Disallow) == 0 {
			return
		}
		groups = append(groups, current)
		current = Group{}
	}
	for scanner.Scan() {
		line := scanner.Text()
		if i := strings.IndexByte(line, '#'); i >= 0 {
			line = line[:i]
		}
		line = strings.TrimSpace(line)
		colon := strings.IndexByte(line, ':')
		if colon <= 0 {
			continue
		}
		key := strings.ToLower(strings.TrimSpace(line[:colon]))
		val := strings.TrimSpace(line[colon+1:])
		switch key {
		case "user-agent", "useragent":
			// A User-agent after directives starts a new group.
			if len(current.Allow) > 0 || len(current.Disallow) > 0 {
				flush()
			}
			current.Agents = append(current.Agents, strings.ToLower(val))
		case "allow":
			current.Allow = append(current.Allow, val)
		case "disallow":
			current.Disallow = append(current.Disallow, val)
		}
	}
	flush()
	return Rules{Groups: groups}
}

// IsAllowed reports whether path (which may carry a query string) may be
// fetched by userAgent.
//
// The group with the longest agent token contained in userAgent applies,
// "*" only when nothing else matches. Within it the matching directive with
// the longest pattern wins, Allow on ties. No match means allowed.
func (r Rules) IsAllowed(userAgent string, path string) bool {
	idx := r.selectGroup(userAgent)
	if idx < 0 {
		return true
	}
	grp := r.Groups[idx]

	best := -1
	allowed := true
	consider := func(patterns []string, allow bool) {
		for _, p := range patterns {
			// An empty Disallow restricts nothing.
			if p == "" || !patternMatches(p, path) {
				continue
			}
			score := specificity(p)
			if score > best || (score == best && allow && !allowed) {
				best = score
				allowed = allow
			}
		}
	}
	consider(grp.Disallow, false)
	consider(grp.Allow, true)
	return allowed
}

func (r Rules) selectGroup(userAgent string) int {
	ua := strings.ToLower(strings.TrimSpace(userAgent))
	bestIdx, bestScore := -1, -1
	for i, g := range r.Groups {
		for _, token := range g.Agents {
			var score int
			switch {
			case token == "":
				continue
			case token == "*":
				score = 0
			case strings.Contains(ua, token):
				score = len(token)
			default:
				continue
			}
			if score > bestScore {
				bestIdx, bestScore = i, score
			}
		}
	}
	return bestIdx
}

// patternMatches anchors pattern at the start of path. '*' matches any run
// of characters and a trailing '$' anchors the end.
func patternMatches(pattern, path string) bool {
	anchorEnd := strings.HasSuffix(pattern, "$")
	p := strings.TrimSuffix(pattern, "$")
	var b strings.Builder
	b.WriteString("^")
	for i, part := range strings.Split(p, "*") {
		if i > 0 {
			b.WriteString(".*")
		}
		b.WriteString(regexp.QuoteMeta(part))
	}
	if anchorEnd {
		b.WriteString("$")
	}
	re, err := regexp.Compile(b.String())
	if err != nil {
		return false
	}
	return re.MatchString(path)
}

func specificity(pattern string) int {
	return len(strings.ReplaceAll(strings.TrimSuffix(pattern, "$"), "*", ""))
}

// DisallowedError reports a page that robots.txt excludes.
type DisallowedError struct {
	URL   string
	Agent string
}

func (e *DisallowedError) Error() string {
	return fmt.Sprintf("robots.txt disallows %s for agent %q", e.URL, e.Agent)
}

// Checker fetches robots.txt for a page's host. Every call performs one
// request; nothing is remembered between calls.
type Checker struct {
	HTTPClient *http.Client
	// UserAgent is sent with the request when set.
	UserAgent string
	// Agent is the token matched against User-agent groups.
	Agent string
}

// Check returns nil when pageURL may be fetched and *DisallowedError when
// it may not. Following RFC 9309, a 4xx robots.txt allows everything and a
// 5xx one disallows everything. Transport failures are returned as is.
func (c *Checker) Check(ctx context.Context, pageURL string) error {
	u, err := url.Parse(pageURL)
	if err != nil {
		return fmt.Errorf("parse url: %w", err)
	}
	rules, err := c.fetch(ctx, robotsURL(u))
	if err != nil {
		return err
	}
	path := u.EscapedPath()
	if path == "" {
		path = "/"
	}
	if u.RawQuery != "" {
		path += "?" + u.RawQuery
	}
	if !rules.IsAllowed(c.Agent, path) {
		return &DisallowedError{URL: pageURL, Agent: c.Agent}
	}
	return nil
}

func (c *Checker) fetch(ctx context.Context, target string) (Rules, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, target, nil)
	if err != nil {
		return Rules{}, fmt.Errorf("new request: %w", err)
	}
	if c.UserAgent != "" {
		req.Header.Set("User-Agent", c.UserAgent)
	}
	client := c.HTTPClient
	if client == nil {
		client = http.DefaultClient
	}
	resp, err := client.Do(req)
	if err != nil {
		return Rules{}, fmt.Errorf("fetch robots.txt: %w", err)
	}
	defer resp.Body.Close()

	switch {
	case resp.StatusCode >= 500:
		return disallowAll, nil
	case resp.StatusCode < 200 || resp.StatusCode > 299:
		return Rules{}, nil
	}
	data, err := io.ReadAll(io.LimitReader(resp.Body, maxRobotsBytes))
	if err != nil {
		return Rules{}, fmt.Errorf("read robots.txt: %w", err)
	}
	return Parse(string(data)), nil
}

func robotsURL(u *url.URL) string {
	return (&url.URL{Scheme: u.Scheme, Host: u.Host, Path: "/robots.txt"}).String()
}
