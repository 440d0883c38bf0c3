// Package fetch downloads spreadsheet tabs as grids through the CSV export
// endpoint.
package fetch

import (
	"bufio"
	"context"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"regexp"
	"strings"
	"time"

	"github.com/ukaji3/sheetwatch-go/pkg/sheetwatch/models"
	"github.com/ukaji3/sheetwatch-go/pkg/sheetwatch/parser"
	"go.uber.org/zap"
	"golang.org/x/net/html/charset"
	"golang.org/x/text/encoding"
	"golang.org/x/text/encoding/unicode"
	"golang.org/x/text/transform"
	"golang.org/x/time/rate"
)

// DefaultBaseURL is the spreadsheet host.
const DefaultBaseURL = "https://docs.google.com"

// ErrNoSheetID indicates that no spreadsheet is configured.
var ErrNoSheetID = errors.New("no sheet id configured")

// ErrNotShared indicates the export endpoint refused the request, which
// usually means the sheet is not shared with "anyone with the link".
var ErrNotShared = errors.New("cannot reach the sheet; make sure it is shared with anyone with the link")

var sheetIDPattern = regexp.MustCompile(`/d/([a-zA-Z0-9-_]+)`)

// ExtractSheetID returns the document ID of a spreadsheet URL.
func ExtractSheetID(sheetURL string) (string, bool) {
	m := sheetIDPattern.FindStringSubmatch(sheetURL)
	if m == nil {
		return "", false
	}
	return m[1], true
}

// Fetcher loads one tab range as a grid.
type Fetcher interface {
	FetchGrid(ctx context.Context, sheetID string, cfg models.SheetConfig) (models.Grid, error)
}

// Client fetches tabs over HTTP.
type Client struct {
	options
}

// New creates a Client.
func New(opts ...Option) *Client {
	options := defaultOptions
	for _, opt := range opts {
		opt(&options)
	}
	if options.httpClient == nil {
		options.httpClient = &http.Client{Timeout: options.timeout}
	}
	return &Client{options: options}
}

// ExportURL returns the CSV export URL of a tab range.
func (c *Client) ExportURL(sheetID string, cfg models.SheetConfig) string {
	q := url.Values{}
	q.Set("tqx", "out:csv")
	q.Set("sheet", cfg.SheetName)
	q.Set("range", cfg.Range())
	return fmt.Sprintf("%s/spreadsheets/d/%s/gviz/tq?%s",
		strings.TrimRight(c.baseURL, "/"), url.PathEscape(sheetID), q.Encode())
}

// FetchGrid downloads the configured range of a tab and parses it.
func (c *Client) FetchGrid(ctx context.Context, sheetID string, cfg models.SheetConfig) (models.Grid, error) {
	if sheetID == "" {
		return nil, ErrNoSheetID
	}
	if _, err := parser.ConfigArea(cfg); err != nil {
		return nil, err
	}

	if c.limiter != nil {
		if err := c.limiter.Wait(ctx); err != nil {
			return nil, err
		}
	}

	u := c.ExportURL(sheetID, cfg)
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, u, nil)
	if err != nil {
		return nil, fmt.Errorf("get url failed: %w", err)
	}

	start := time.Now()
	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, err
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("%w (status %d)", ErrNotShared, resp.StatusCode)
	}

	bodyReader := bufio.NewReader(resp.Body)
	e := determineEncoding(bodyReader, resp.Header.Get("Content-Type"), c.logger)
	body, err := io.ReadAll(transform.NewReader(bodyReader, e.NewDecoder()))
	if err != nil {
		return nil, fmt.Errorf("read body: %w", err)
	}

	grid := parser.ParseCSV(string(body))
	c.logger.Debug("fetched tab",
		zap.String("sheet", cfg.SheetName),
		zap.String("range", cfg.Range()),
		zap.Int("rows", grid.Rows()),
		zap.Int("cols", grid.Width()),
		zap.Duration("took", time.Since(start)))
	return grid, nil
}

// determineEncoding sniffs the body charset. The export is UTF-8 unless the
// response says otherwise, so an uncertain windows-1252 guess is ignored.
func determineEncoding(r *bufio.Reader, contentType string, logger *zap.Logger) encoding.Encoding {
	bytes, err := r.Peek(1024)
	if err != nil && !errors.Is(err, io.EOF) && !errors.Is(err, bufio.ErrBufferFull) {
		logger.Warn("peek body failed", zap.Error(err))
		return unicode.UTF8
	}
	e, name, certain := charset.DetermineEncoding(bytes, contentType)
	if !certain && name == "windows-1252" {
		return unicode.UTF8
	}
	return e
}

// NewLimiter returns a limiter allowing perMinute requests a minute with a
// burst of one.
func NewLimiter(perMinute int) *rate.Limiter {
	if perMinute <= 0 {
		return rate.NewLimiter(rate.Inf, 1)
	}
	return rate.NewLimiter(rate.Every(time.Minute/time.Duration(perMinute)), 1)
}
