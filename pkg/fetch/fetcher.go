// Package fetch downloads source code for analysis from remote locations:
// GitHub files, GitHub Gists, GitLab snippets, Pastebin pastes, and plain
// HTTP URLs.
package fetch

import (
	"context"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"path"
	"regexp"
	"sort"
	"strconv"
	"strings"
	"time"

	"github.com/google/go-github/v74/github"
	gitlab "gitlab.com/gitlab-org/api/client-go"
	"golang.org/x/oauth2"
	"golang.org/x/time/rate"

	"github.com/vulndetective/vulndetective/pkg/errors"
	"github.com/vulndetective/vulndetective/pkg/logging"
)

// Source identifies where a file was fetched from.
type Source string

const (
	SourceGitHub   Source = "github"
	SourceGist     Source = "gist"
	SourceGitLab   Source = "gitlab_snippet"
	SourcePastebin Source = "pastebin"
	SourceHTTP     Source = "http"
)

// Result is a fetched source file.
type Result struct {
	// Content is the file body.
	Content string

	// Filename is the best-effort name of the fetched file.
	Filename string

	// Language is the detected programming language, or "unknown".
	Language string

	// Source is the kind of location the file came from.
	Source Source

	// URL is the original request URL.
	URL string
}

// Options configures a Fetcher.
type Options struct {
	// GitHubToken authenticates Gist API calls. Optional; unauthenticated
	// calls work but are rate-limited by GitHub.
	GitHubToken string

	// GitLabToken authenticates snippet API calls. Optional for public
	// snippets.
	GitLabToken string

	// Timeout bounds each HTTP request. Defaults to 30s.
	Timeout time.Duration

	// RequestsPerSecond is the client-side rate limit. Defaults to 2.
	RequestsPerSecond float64

	// MaxFileSize rejects files larger than this many bytes. Zero means
	// no limit.
	MaxFileSize int

	// Logger receives fetch progress. Defaults to a no-op logger.
	Logger logging.Logger

	// HTTPClient overrides the HTTP client used for raw downloads.
	// Intended for tests.
	HTTPClient *http.Client
}

// Fetcher downloads remote source files with client-side rate limiting.
type Fetcher struct {
	httpClient  *http.Client
	github      *github.Client
	gitlab      *gitlab.Client
	limiter     *rate.Limiter
	maxFileSize int
	log         logging.Logger
}

// New creates a Fetcher.
func New(opts Options) (*Fetcher, error) {
	if opts.Timeout <= 0 {
		opts.Timeout = 30 * time.Second
	}
	if opts.RequestsPerSecond <= 0 {
		opts.RequestsPerSecond = 2
	}
	if opts.Logger == nil {
		opts.Logger = logging.Nop{}
	}

	httpClient := opts.HTTPClient
	if httpClient == nil {
		httpClient = &http.Client{Timeout: opts.Timeout}
	}

	var ghHTTP *http.Client
	if opts.GitHubToken != "" {
		src := oauth2.StaticTokenSource(&oauth2.Token{AccessToken: opts.GitHubToken})
		ghHTTP = oauth2.NewClient(context.Background(), src)
		ghHTTP.Timeout = opts.Timeout
	} else {
		ghHTTP = &http.Client{Timeout: opts.Timeout}
	}

	glClient, err := gitlab.NewClient(opts.GitLabToken)
	if err != nil {
		return nil, errors.E(errors.KindInternal, "fetch.New", "create gitlab client", err)
	}

	return &Fetcher{
		httpClient:  httpClient,
		github:      github.NewClient(ghHTTP),
		gitlab:      glClient,
		limiter:     rate.NewLimiter(rate.Limit(opts.RequestsPerSecond), 1),
		maxFileSize: opts.MaxFileSize,
		log:         opts.Logger,
	}, nil
}

// IsURL reports whether s looks like a fetchable HTTP(S) URL.
func IsURL(s string) bool {
	u, err := url.Parse(s)
	if err != nil {
		return false
	}
	return (u.Scheme == "http" || u.Scheme == "https") && u.Host != ""
}

// Fetch downloads the file at rawURL, dispatching on the host.
func (f *Fetcher) Fetch(ctx context.Context, rawURL string) (*Result, error) {
	u, err := url.Parse(rawURL)
	if err != nil || !IsURL(rawURL) {
		return nil, errors.E(errors.KindInvalidInput, "fetch.Fetch", fmt.Sprintf("not a fetchable URL: %q", rawURL))
	}

	if err := f.limiter.Wait(ctx); err != nil {
		return nil, errors.Wrap(err, "fetch.Fetch")
	}

	source := Classify(u)
	f.log.Debug("fetching %s as %s", rawURL, source)

	var res *Result
	switch source {
	case SourceGist:
		res, err = f.fromGist(ctx, rawURL)
	case SourceGitHub:
		res, err = f.fromGitHub(ctx, rawURL)
	case SourceGitLab:
		res, err = f.fromGitLabSnippet(ctx, u)
	case SourcePastebin:
		res, err = f.fromPastebin(ctx, u)
	default:
		res, err = f.fromRawURL(ctx, rawURL)
	}
	if err != nil {
		return nil, err
	}

	if f.maxFileSize > 0 && len(res.Content) > f.maxFileSize {
		return nil, errors.E(errors.KindInvalidInput, "fetch.Fetch",
			fmt.Sprintf("file %s is %d bytes, limit is %d", res.Filename, len(res.Content), f.maxFileSize))
	}

	res.URL = rawURL
	f.log.Info("fetched %s (%d bytes, language %s)", res.Filename, len(res.Content), res.Language)
	return res, nil
}

// Classify determines the fetch strategy for a URL.
func Classify(u *url.URL) Source {
	host := strings.ToLower(u.Hostname())
	switch {
	case host == "gist.github.com":
		return SourceGist
	case host == "github.com" || host == "raw.githubusercontent.com":
		return SourceGitHub
	case strings.HasSuffix(host, "gitlab.com") && strings.Contains(u.Path, "/snippets/"):
		return SourceGitLab
	case host == "pastebin.com":
		return SourcePastebin
	default:
		return SourceHTTP
	}
}

// fromGitHub downloads a file from a GitHub blob or raw URL.
func (f *Fetcher) fromGitHub(ctx context.Context, rawURL string) (*Result, error) {
	raw := RewriteGitHubBlobURL(rawURL)

	body, err := f.doGet(ctx, raw, "fetch.fromGitHub")
	if err != nil {
		return nil, err
	}

	u, _ := url.Parse(raw)
	filename := path.Base(u.Path)
	return &Result{
		Content:  string(body),
		Filename: filename,
		Language: LanguageForFilename(filename),
		Source:   SourceGitHub,
	}, nil
}

// RewriteGitHubBlobURL converts a github.com blob URL to its raw
// counterpart. URLs that are already raw pass through unchanged.
func RewriteGitHubBlobURL(rawURL string) string {
	if strings.Contains(rawURL, "github.com") && strings.Contains(rawURL, "/blob/") {
		rawURL = strings.Replace(rawURL, "github.com", "raw.githubusercontent.com", 1)
		rawURL = strings.Replace(rawURL, "/blob/", "/", 1)
	}
	return rawURL
}

var gistIDPattern = regexp.MustCompile(`gist\.github\.com/[^/]+/([a-f0-9]+)`)

// GistID extracts the gist identifier from a gist.github.com URL.
func GistID(rawURL string) (string, error) {
	m := gistIDPattern.FindStringSubmatch(rawURL)
	if m == nil {
		return "", errors.E(errors.KindInvalidInput, "fetch.GistID", fmt.Sprintf("invalid gist URL: %q", rawURL))
	}
	return m[1], nil
}

// fromGist downloads the first file of a GitHub Gist via the API.
func (f *Fetcher) fromGist(ctx context.Context, rawURL string) (*Result, error) {
	id, err := GistID(rawURL)
	if err != nil {
		return nil, err
	}

	gist, _, err := f.github.Gists.Get(ctx, id)
	if err != nil {
		return nil, errors.E(errors.KindNetwork, "fetch.fromGist", "gist lookup failed", err)
	}
	if len(gist.Files) == 0 {
		return nil, errors.E(errors.KindNotFound, "fetch.fromGist", "no files in gist")
	}

	// Gist files are a map; sort names so the "first" file is stable.
	names := make([]string, 0, len(gist.Files))
	for name := range gist.Files {
		names = append(names, string(name))
	}
	sort.Strings(names)

	file := gist.Files[github.GistFilename(names[0])]
	language := strings.ToLower(file.GetLanguage())
	if language == "" {
		language = LanguageForFilename(names[0])
	}

	return &Result{
		Content:  file.GetContent(),
		Filename: names[0],
		Language: language,
		Source:   SourceGist,
	}, nil
}

// SnippetID extracts the numeric snippet ID from a GitLab snippet URL such
// as https://gitlab.com/-/snippets/12345.
func SnippetID(u *url.URL) (int, error) {
	parts := strings.Split(strings.Trim(u.Path, "/"), "/")
	for i := len(parts) - 1; i > 0; i-- {
		if id, err := strconv.Atoi(parts[i]); err == nil && parts[i-1] == "snippets" {
			return id, nil
		}
	}
	return 0, errors.E(errors.KindInvalidInput, "fetch.SnippetID", fmt.Sprintf("invalid snippet URL: %q", u.String()))
}

// fromGitLabSnippet downloads a GitLab snippet via the API.
func (f *Fetcher) fromGitLabSnippet(ctx context.Context, u *url.URL) (*Result, error) {
	id, err := SnippetID(u)
	if err != nil {
		return nil, err
	}

	snippet, _, err := f.gitlab.Snippets.GetSnippet(id, gitlab.WithContext(ctx))
	if err != nil {
		return nil, errors.E(errors.KindNetwork, "fetch.fromGitLabSnippet", "snippet lookup failed", err)
	}

	content, _, err := f.gitlab.Snippets.SnippetContent(id, gitlab.WithContext(ctx))
	if err != nil {
		return nil, errors.E(errors.KindNetwork, "fetch.fromGitLabSnippet", "snippet download failed", err)
	}

	filename := snippet.FileName
	if filename == "" {
		filename = fmt.Sprintf("snippet_%d.txt", id)
	}

	return &Result{
		Content:  string(content),
		Filename: filename,
		Language: LanguageForFilename(filename),
		Source:   SourceGitLab,
	}, nil
}

// PastebinRawURL converts a pastebin.com paste URL to its raw form.
func PastebinRawURL(u *url.URL) (rawURL, pasteID string) {
	pasteID = path.Base(u.Path)
	return "https://pastebin.com/raw/" + pasteID, pasteID
}

// fromPastebin downloads a paste body from pastebin.com.
func (f *Fetcher) fromPastebin(ctx context.Context, u *url.URL) (*Result, error) {
	rawURL, pasteID := PastebinRawURL(u)

	body, err := f.doGet(ctx, rawURL, "fetch.fromPastebin")
	if err != nil {
		return nil, err
	}

	return &Result{
		Content:  string(body),
		Filename: fmt.Sprintf("pastebin_%s.txt", pasteID),
		Language: "unknown",
		Source:   SourcePastebin,
	}, nil
}

// fromRawURL downloads any other HTTP(S) URL directly.
func (f *Fetcher) fromRawURL(ctx context.Context, rawURL string) (*Result, error) {
	body, err := f.doGet(ctx, rawURL, "fetch.fromRawURL")
	if err != nil {
		return nil, err
	}

	u, _ := url.Parse(rawURL)
	filename := path.Base(u.Path)
	if filename == "/" || filename == "." || filename == "" {
		filename = "download.txt"
	}

	return &Result{
		Content:  string(body),
		Filename: filename,
		Language: LanguageForFilename(filename),
		Source:   SourceHTTP,
	}, nil
}

func (f *Fetcher) doGet(ctx context.Context, rawURL, op string) ([]byte, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, rawURL, nil)
	if err != nil {
		return nil, errors.E(errors.KindInvalidInput, op, "build request", err)
	}

	resp, err := f.httpClient.Do(req)
	if err != nil {
		return nil, errors.E(errors.KindNetwork, op, "request failed", err)
	}
	defer resp.Body.Close()

	switch {
	case resp.StatusCode == http.StatusNotFound:
		return nil, errors.E(errors.KindNotFound, op, fmt.Sprintf("%s returned 404", rawURL))
	case resp.StatusCode != http.StatusOK:
		return nil, errors.E(errors.KindNetwork, op, fmt.Sprintf("%s returned %d", rawURL, resp.StatusCode))
	}

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, errors.E(errors.KindNetwork, op, "read body", err)
	}
	return body, nil
}

// languageByExtension maps file extensions to language names.
var languageByExtension = map[string]string{
	".py":   "python",
	".c":    "c",
	".cpp":  "cpp",
	".java": "java",
	".js":   "javascript",
	".ts":   "typescript",
	".go":   "go",
	".rs":   "rust",
	".rb":   "ruby",
	".php":  "php",
}

// LanguageForFilename detects the programming language from a filename's
// extension, returning "unknown" for unrecognized extensions.
func LanguageForFilename(name string) string {
	if lang, ok := languageByExtension[strings.ToLower(path.Ext(name))]; ok {
		return lang
	}
	return "unknown"
}
