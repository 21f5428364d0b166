// Package extractor fetches a source URL and returns its normalized
// text content: rendered web pages through a shared headless browser,
// PDF files through their text layer.
package extractor

import (
	"context"
	"errors"
	"net/http"
	"net/url"
	"path"
	"regexp"
	"strings"
	"time"

	"rag-api/cmd/configs"
	apperrors "rag-api/pkg/errors"

	"github.com/chromedp/cdproto/network"
	"github.com/chromedp/chromedp"
	readability "github.com/go-shiori/go-readability"
)

// Result is the extracted content of a source URL.
type Result struct {
	Title string
	Text  string
	// PageOffsets holds the start offset of each page within Text for
	// PDF sources; nil for rendered pages.
	PageOffsets []int
}

// Extractor selects an extraction strategy by URL suffix and applies it
// under bounded timeouts. All failures come back as typed AppErrors.
type Extractor struct {
	browser       *Browser
	httpClient    *http.Client
	fetchTimeout  time.Duration
	renderTimeout time.Duration
	minTextLength int
}

func NewExtractor(config *configs.Config) *Extractor {
	return &Extractor{
		browser:       NewBrowser(config.Browser),
		httpClient:    &http.Client{Timeout: config.Ingest.FetchTimeout},
		fetchTimeout:  config.Ingest.FetchTimeout,
		renderTimeout: config.Ingest.RenderTimeout,
		minTextLength: config.Ingest.MinTextLength,
	}
}

// Close releases the shared browser.
func (e *Extractor) Close() {
	e.browser.Close()
}

// Extract fetches the URL and returns title plus normalized text.
func (e *Extractor) Extract(ctx context.Context, rawURL string) (*Result, error) {
	u, err := url.ParseRequestURI(rawURL)
	if err != nil || (u.Scheme != "http" && u.Scheme != "https") {
		return nil, apperrors.WrapError(err, apperrors.CodeValidation, "invalid source URL", http.StatusBadRequest)
	}

	var result *Result
	if IsBinaryDocument(u) {
		result, err = e.extractPDF(ctx, rawURL, u)
	} else {
		result, err = e.extractPage(ctx, rawURL)
	}
	if err != nil {
		return nil, err
	}

	// The PDF path normalizes page by page so its page offsets stay
	// valid; rendered text is normalized whole.
	if result.PageOffsets == nil {
		result.Text = normalizeText(result.Text)
	}
	if len(result.Text) < e.minTextLength {
		return nil, apperrors.Extraction("empty-content", nil)
	}
	return result, nil
}

// IsBinaryDocument reports whether the URL's path carries a recognized
// binary-document suffix. Query and fragment are ignored.
func IsBinaryDocument(u *url.URL) bool {
	return strings.ToLower(path.Ext(u.Path)) == ".pdf"
}

// Sub-resource patterns the renderer never needs for text extraction.
var blockedURLPatterns = []string{
	"*.png", "*.jpg", "*.jpeg", "*.gif", "*.svg", "*.webp", "*.ico",
	"*.woff", "*.woff2", "*.ttf", "*.otf",
	"*.mp4", "*.webm", "*.mp3", "*.avi",
}

// extractPage renders the URL in a fresh tab of the shared browser,
// runs the readability heuristic on the document, and falls back to
// the visible body text when readability yields nothing usable.
func (e *Extractor) extractPage(ctx context.Context, rawURL string) (*Result, error) {
	browserCtx, err := e.browser.acquire(ctx)
	if err != nil {
		return nil, apperrors.Extraction("network", err)
	}

	tabCtx, cancelTab := chromedp.NewContext(browserCtx)
	defer cancelTab()
	tabCtx, cancelTimeout := context.WithTimeout(tabCtx, e.renderTimeout)
	defer cancelTimeout()

	var html, bodyText, pageTitle string
	err = chromedp.Run(tabCtx,
		network.Enable(),
		network.SetBlockedURLs(blockedURLPatterns),
		chromedp.Navigate(rawURL),
		chromedp.OuterHTML("html", &html, chromedp.ByQuery),
		chromedp.Evaluate(`document.body ? document.body.innerText : ""`, &bodyText),
		chromedp.Title(&pageTitle),
	)
	if err != nil {
		if errors.Is(err, context.DeadlineExceeded) {
			return nil, apperrors.Extraction("timeout", err)
		}
		return nil, apperrors.Extraction("network", err)
	}

	title := pageTitle
	text := ""

	pageURL, _ := url.Parse(rawURL)
	article, err := readability.FromReader(strings.NewReader(html), pageURL)
	if err == nil {
		text = article.TextContent
		if article.Title != "" {
			title = article.Title
		}
	}

	// Low-confidence or empty readability output: use the full visible
	// body text instead.
	if len(strings.TrimSpace(text)) < e.minTextLength {
		text = bodyText
	}
	if strings.TrimSpace(text) == "" {
		return nil, apperrors.Extraction("empty-content", nil)
	}

	return &Result{Title: title, Text: text}, nil
}

var (
	crlfPattern      = regexp.MustCompile(`\r\n?`)
	multiBlankLines  = regexp.MustCompile(`\n{3,}`)
	trailingSpaces   = regexp.MustCompile(`[ \t]+\n`)
	multiSpacePatter = regexp.MustCompile(`[ \t]{2,}`)
)

// normalizeText canonicalizes line endings and collapses runs of
// whitespace while preserving paragraph breaks.
func normalizeText(text string) string {
	text = crlfPattern.ReplaceAllString(text, "\n")
	text = trailingSpaces.ReplaceAllString(text, "\n")
	text = multiBlankLines.ReplaceAllString(text, "\n\n")
	text = multiSpacePatter.ReplaceAllString(text, " ")
	return strings.TrimSpace(text)
}
