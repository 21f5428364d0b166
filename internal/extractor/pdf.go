package extractor

import (
	"context"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"os"
	"path"
	"strings"

	apperrors "rag-api/pkg/errors"

	"github.com/ledongthuc/pdf"
)

// extractPDF downloads the document and reads its text layer page by
// page, recording where each page starts in the assembled text. The
// title is the file name from the URL path.
func (e *Extractor) extractPDF(ctx context.Context, rawURL string, u *url.URL) (*Result, error) {
	fetchCtx, cancel := context.WithTimeout(ctx, e.fetchTimeout)
	defer cancel()

	req, err := http.NewRequestWithContext(fetchCtx, http.MethodGet, rawURL, nil)
	if err != nil {
		return nil, apperrors.Extraction("network", err)
	}

	resp, err := e.httpClient.Do(req)
	if err != nil {
		if errors.Is(err, context.DeadlineExceeded) {
			return nil, apperrors.Extraction("timeout", err)
		}
		return nil, apperrors.Extraction("network", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, apperrors.Extraction("network", fmt.Errorf("unexpected status %s", resp.Status))
	}

	// The pdf library works with file paths, so spool to a temp file.
	tmp, err := os.CreateTemp("", "ingest-*.pdf")
	if err != nil {
		return nil, apperrors.Extraction("parse", err)
	}
	defer os.Remove(tmp.Name())
	defer tmp.Close()

	if _, err := io.Copy(tmp, resp.Body); err != nil {
		return nil, apperrors.Extraction("network", err)
	}

	f, reader, err := pdf.Open(tmp.Name())
	if err != nil {
		return nil, apperrors.Extraction("parse", err)
	}
	defer f.Close()

	var builder strings.Builder
	var pageOffsets []int
	for i := 1; i <= reader.NumPage(); i++ {
		page := reader.Page(i)
		if page.V.IsNull() {
			continue
		}
		pageText, err := page.GetPlainText(nil)
		if err != nil {
			continue
		}
		pageText = normalizeText(pageText)
		if pageText == "" {
			continue
		}
		if builder.Len() > 0 {
			builder.WriteString("\n\n")
		}
		pageOffsets = append(pageOffsets, builder.Len())
		builder.WriteString(pageText)
	}

	text := builder.String()
	if strings.TrimSpace(text) == "" {
		return nil, apperrors.Extraction("empty-content", nil)
	}
	if pageOffsets == nil {
		pageOffsets = []int{0}
	}

	return &Result{
		Title:       path.Base(u.Path),
		Text:        text,
		PageOffsets: pageOffsets,
	}, nil
}
