// Package relatoria talks to the Corte Constitucional's document site: it
// builds sentencia URLs, verifies that a URL serves a real document rather
// than an HTML error page, and downloads document bytes.
package relatoria

import (
	"bytes"
	"context"
	"fmt"
	"io"
	"net/http"
	"strings"
	"sync"
	"time"
)

// DefaultBaseURL is the court's public site.
const DefaultBaseURL = "https://www.corteconstitucional.gov.co"

// maxDocumentBytes bounds a single sentencia download.
const maxDocumentBytes = 50 << 20

// Client communicates with the relatoria over HTTP. Verification results
// are cached with a TTL because the pipeline re-checks the same URLs often.
type Client struct {
	baseURL    string
	httpClient *http.Client

	mu       sync.Mutex
	cache    map[string]verifyEntry
	cacheTTL time.Duration
}

type verifyEntry struct {
	valid   bool
	checked time.Time
}

func NewClient(baseURL string, cacheTTL time.Duration) *Client {
	if baseURL == "" {
		baseURL = DefaultBaseURL
	}
	if cacheTTL <= 0 {
		cacheTTL = 30 * time.Minute
	}
	return &Client{
		baseURL: strings.TrimRight(baseURL, "/"),
		httpClient: &http.Client{
			Timeout: 30 * time.Second,
		},
		cache:    make(map[string]verifyEntry),
		cacheTTL: cacheTTL,
	}
}

// DocumentURL builds the RTF/DOCX download URL for a sentencia.
// "SU.123/24" becomes "su123-24"; other IDs just lowercase the slash form.
func (c *Client) DocumentURL(sentenceID string, year int) string {
	var normalized string
	if strings.HasPrefix(sentenceID, "SU.") {
		normalized = strings.ToLower(strings.ReplaceAll(strings.Replace(sentenceID, "SU.", "su", 1), "/", "-"))
	} else {
		normalized = strings.ReplaceAll(strings.ToLower(sentenceID), "/", "-")
	}
	return fmt.Sprintf("%s/sentencias/%d/%s.rtf", c.baseURL, year, normalized)
}

// PageURL builds the HTML page URL for a sentencia.
func (c *Client) PageURL(sentenceID string, year int) string {
	return fmt.Sprintf("%s/relatoria/%d/%s.htm", c.baseURL, year, strings.ReplaceAll(sentenceID, "/", "-"))
}

// NormalizeFilename turns a sentencia ID into a filesystem-safe name.
func NormalizeFilename(sentenceID string) string {
	return strings.ReplaceAll(strings.ReplaceAll(sentenceID, "/", "-"), " ", "_")
}

// DocumentType extracts the sentencia type letter (C, T, SU, A) from an ID
// like "T-025/04" or "SU.123/24".
func DocumentType(sentenceID string) string {
	if i := strings.IndexByte(sentenceID, '-'); i > 0 {
		return sentenceID[:i]
	}
	if i := strings.IndexByte(sentenceID, '.'); i > 0 {
		return sentenceID[:i]
	}
	return "UNKNOWN"
}

// documentContentTypes are accepted (non-HTML) content types for downloads.
var documentContentTypes = []string{
	"application/rtf",
	"application/vnd.openxmlformats",
	"application/msword",
	"application/pdf",
	"application/octet-stream",
}

// Verify checks that a URL serves a document, caching the result.
func (c *Client) Verify(ctx context.Context, url string) bool {
	now := time.Now()

	c.mu.Lock()
	if e, ok := c.cache[url]; ok {
		if now.Sub(e.checked) < c.cacheTTL {
			c.mu.Unlock()
			return e.valid
		}
		delete(c.cache, url)
	}
	if len(c.cache) > 100 {
		c.sweepLocked(now)
	}
	c.mu.Unlock()

	valid := c.verify(ctx, url)

	c.mu.Lock()
	c.cache[url] = verifyEntry{valid: valid, checked: now}
	c.mu.Unlock()
	return valid
}

func (c *Client) verify(ctx context.Context, url string) bool {
	ctx, cancel := context.WithTimeout(ctx, 3*time.Second)
	defer cancel()

	req, err := http.NewRequestWithContext(ctx, http.MethodHead, url, nil)
	if err != nil {
		return false
	}
	resp, err := c.httpClient.Do(req)
	if err != nil {
		return false
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return false
	}
	contentType := strings.ToLower(resp.Header.Get("Content-Type"))
	if strings.Contains(contentType, "text/html") {
		return false
	}
	if contentType == "" {
		return true
	}
	for _, t := range documentContentTypes {
		if strings.Contains(contentType, t) {
			return true
		}
	}
	return false
}

func (c *Client) sweepLocked(now time.Time) {
	for url, e := range c.cache {
		if now.Sub(e.checked) >= c.cacheTTL {
			delete(c.cache, url)
		}
	}
}

// Fetch downloads a sentencia document. HTML responses and bodies under 100
// bytes are rejected: both mean the relatoria served an error page or a stub
// instead of the document.
func (c *Client) Fetch(ctx context.Context, url string) ([]byte, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return nil, fmt.Errorf("create request: %w", err)
	}
	req.Header.Set("User-Agent", "jurigest/1.0")

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("fetch document: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("fetch %s: status %d", url, resp.StatusCode)
	}

	data, err := io.ReadAll(io.LimitReader(resp.Body, maxDocumentBytes))
	if err != nil {
		return nil, fmt.Errorf("read document: %w", err)
	}

	if isHTMLBody(resp.Header.Get("Content-Type"), data) {
		return nil, fmt.Errorf("url %s serves an html page, not a document", url)
	}
	if len(data) < 100 {
		return nil, fmt.Errorf("document too small (%d bytes)", len(data))
	}
	return data, nil
}

func isHTMLBody(contentType string, data []byte) bool {
	if strings.Contains(strings.ToLower(contentType), "text/html") {
		return true
	}
	preview := bytes.ToLower(data)
	if len(preview) > 500 {
		preview = preview[:500]
	}
	return bytes.Contains(preview, []byte("<!doctype html")) || bytes.Contains(preview, []byte("<html"))
}

// Close releases idle connections.
func (c *Client) Close() {
	c.httpClient.CloseIdleConnections()
}
