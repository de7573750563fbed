// Package webscrape harvests contact leads from a company's own website.
// It fetches a small fixed page set (home, contact, about) rather than
// crawling, and extracts email addresses from mailto links and page text.
package webscrape

import (
	"bytes"
	"context"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"net/url"
	"regexp"
	"strings"
	"time"

	"github.com/FranksOps/canvass/internal/fingerprint"
	"github.com/FranksOps/canvass/internal/metrics"
	"github.com/FranksOps/canvass/internal/storage"
	"github.com/FranksOps/canvass/pkg/httpclient"
	"github.com/FranksOps/canvass/pkg/ratelimit"
	"github.com/FranksOps/canvass/pkg/useragent"
	"github.com/PuerkitoBio/goquery"
	"github.com/google/uuid"
	"golang.org/x/sync/errgroup"
)

// defaultPages is the fixed set of paths checked per domain, in merge order.
var defaultPages = []string{"/", "/contact", "/contact-us", "/about", "/team"}

// Config provides parameters for the contact harvester.
type Config struct {
	// Pages overrides the fixed path set checked per domain.
	Pages       []string
	Concurrency int
	// RequestsPerSecond limits the fetch rate (0 = unlimited)
	RequestsPerSecond float64
	Fingerprint       fingerprint.Profile
	Timeout           time.Duration
	UAPool            *useragent.Pool
	Logger            *slog.Logger
}

// Harvester fetches a domain's contact pages and extracts email leads.
type Harvester struct {
	cfg     Config
	client  *httpclient.Client
	limiter *ratelimit.Limiter
	logger  *slog.Logger
}

// New initializes a Harvester with the given configuration.
func New(cfg Config) (*Harvester, error) {
	if len(cfg.Pages) == 0 {
		cfg.Pages = defaultPages
	}
	if cfg.Concurrency <= 0 {
		cfg.Concurrency = 3
	}
	if cfg.Timeout == 0 {
		cfg.Timeout = 30 * time.Second
	}
	if cfg.UAPool == nil {
		cfg.UAPool = useragent.NewPool(nil)
	}
	if cfg.Fingerprint == "" {
		cfg.Fingerprint = fingerprint.ProfileChrome
	}
	if cfg.Logger == nil {
		cfg.Logger = slog.Default()
	}

	transport, err := fingerprint.Transport(cfg.Fingerprint)
	if err != nil {
		return nil, fmt.Errorf("webscrape: setup transport: %w", err)
	}

	return &Harvester{
		cfg: cfg,
		client: httpclient.New(httpclient.Config{
			Timeout:      cfg.Timeout,
			MaxRedirects: 5,
			Transport:    transport,
		}),
		limiter: ratelimit.NewLimiter(cfg.RequestsPerSecond, 0),
		logger:  cfg.Logger,
	}, nil
}

// Harvest fetches the fixed page set for a domain and returns one lead per
// unique email address found, in page order. Pages that fail to fetch are
// skipped; Harvest only errors when the domain itself is unusable.
func (h *Harvester) Harvest(ctx context.Context, domain string) ([]storage.Lead, error) {
	domain = strings.TrimSpace(domain)
	if domain == "" {
		return nil, fmt.Errorf("webscrape: domain is required")
	}

	raw := domain
	if !strings.HasPrefix(raw, "http://") && !strings.HasPrefix(raw, "https://") {
		raw = "https://" + raw
	}
	base, err := url.Parse(raw)
	if err != nil {
		return nil, fmt.Errorf("webscrape: parse domain: %w", err)
	}

	start := time.Now()
	pageEmails := make([][]string, len(h.cfg.Pages))

	g, gCtx := errgroup.WithContext(ctx)
	g.SetLimit(h.cfg.Concurrency)

	for i, path := range h.cfg.Pages {
		g.Go(func() error {
			if err := h.limiter.Wait(gCtx); err != nil {
				return err
			}
			pageURL := base.JoinPath(path).String()
			emails, err := h.fetchPage(gCtx, pageURL)
			if err != nil {
				h.logger.Debug("page skipped", "url", pageURL, "err", err)
				return nil
			}
			pageEmails[i] = emails
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, fmt.Errorf("webscrape: %w", err)
	}

	seen := make(map[string]struct{})
	var leads []storage.Lead
	now := time.Now().UTC()
	for _, emails := range pageEmails {
		for _, email := range emails {
			key := strings.ToLower(email)
			if _, ok := seen[key]; ok {
				continue
			}
			seen[key] = struct{}{}
			leads = append(leads, storage.Lead{
				ID:        uuid.New().String(),
				Email:     email,
				Company:   base.Hostname(),
				Source:    "scrape",
				CreatedAt: now,
			})
		}
	}

	metrics.RecordSearch("scrape", http.StatusOK, time.Since(start), len(leads))
	return leads, nil
}

func (h *Harvester) fetchPage(ctx context.Context, pageURL string) ([]string, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, pageURL, nil)
	if err != nil {
		return nil, err
	}
	req.Header.Set("User-Agent", h.cfg.UAPool.GetSequential())
	req.Header.Set("Accept", "text/html,application/xhtml+xml,application/xml;q=0.9,*/*;q=0.8")
	req.Header.Set("Accept-Language", "en-US,en;q=0.5")

	resp, err := h.client.Do(ctx, req)
	if err != nil {
		return nil, err
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("status %d", resp.StatusCode)
	}

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, err
	}

	return ExtractEmails(body), nil
}

var emailRe = regexp.MustCompile(`[a-zA-Z0-9._%+\-]+@[a-zA-Z0-9.\-]+\.[a-zA-Z]{2,}`)

// ExtractEmails pulls email addresses out of an HTML document: mailto links
// first, then addresses visible in the page text. Order of first appearance
// is preserved; duplicates within the page are dropped.
func ExtractEmails(body []byte) []string {
	seen := make(map[string]struct{})
	var emails []string
	add := func(email string) {
		email = strings.TrimSpace(email)
		if email == "" {
			return
		}
		key := strings.ToLower(email)
		if _, ok := seen[key]; ok {
			return
		}
		seen[key] = struct{}{}
		emails = append(emails, email)
	}

	doc, err := goquery.NewDocumentFromReader(bytes.NewReader(body))
	if err != nil {
		// Fall back to a raw text scan when the HTML won't parse
		for _, m := range emailRe.FindAllString(string(body), -1) {
			add(m)
		}
		return emails
	}

	doc.Find(`a[href^="mailto:"]`).Each(func(i int, s *goquery.Selection) {
		href, _ := s.Attr("href")
		addr := strings.TrimPrefix(href, "mailto:")
		// Strip ?subject=... style parameters
		if idx := strings.IndexByte(addr, '?'); idx >= 0 {
			addr = addr[:idx]
		}
		if emailRe.MatchString(addr) {
			add(addr)
		}
	})

	for _, m := range emailRe.FindAllString(doc.Text(), -1) {
		add(m)
	}

	return emails
}
