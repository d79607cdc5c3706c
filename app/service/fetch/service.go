package fetch

import (
	"context"
	"io"
	"net/http"
	"strings"
	"time"

	"memograph/app/config"

	"github.com/PuerkitoBio/goquery"
	"github.com/samber/do"
	"github.com/samber/oops"
)

// Service fetches a URL and extracts readable text from HTML responses.
// It shares only the tool response envelope with the graph service.
type Service struct {
	cfg    *config.Config
	client *http.Client
}

func New(di *do.Injector) (*Service, error) {
	cfg := do.MustInvoke[*config.Config](di)

	return &Service{
		cfg: cfg,
		client: &http.Client{
			Timeout: time.Duration(cfg.Fetch.TimeoutSeconds) * time.Second,
		},
	}, nil
}

func (s *Service) Fetch(ctx context.Context, url string) (string, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return "", oops.Errorf("failed to create request for %q: %w", url, err)
	}
	req.Header.Set("User-Agent", s.cfg.Fetch.UserAgent)

	resp, err := s.client.Do(req)
	if err != nil {
		return "", oops.Errorf("failed to fetch %q: %w", url, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode >= 400 {
		return "", oops.Errorf("fetching %q returned status %s", url, resp.Status)
	}

	body, err := io.ReadAll(io.LimitReader(resp.Body, int64(s.cfg.Fetch.MaxContentSize)))
	if err != nil {
		return "", oops.Errorf("failed to read response for %q: %w", url, err)
	}

	content := string(body)

	if strings.Contains(resp.Header.Get("Content-Type"), "text/html") {
		text, err := extractText(content)
		if err != nil {
			return "", err
		}
		content = text
	}

	return content, nil
}

func extractText(html string) (string, error) {
	doc, err := goquery.NewDocumentFromReader(strings.NewReader(html))
	if err != nil {
		return "", oops.Errorf("failed to parse HTML: %w", err)
	}

	doc.Find("script, style, noscript").Remove()

	return strings.TrimSpace(doc.Text()), nil
}
