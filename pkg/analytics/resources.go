package analytics

import (
	"context"
	"html"
	"io"
	"net/http"
	"net/url"
	"regexp"
	"sort"
	"strings"
	"sync"
	"time"

	"github.com/chatlens/chatlens/pkg/models"
)

const resourceContextLength = 200

var urlRe = regexp.MustCompile(`(?i)https?://\S+`)

// trailingPunct holds characters stripped once from the end of a matched URL
// when the sentence's punctuation got swept into the match.
const trailingPunct = ".,!?;"

// Domain allowlists checked before content keywords.
var (
	documentDomains = map[string]bool{
		"docs.google.com":   true,
		"drive.google.com":  true,
		"dropbox.com":       true,
		"onedrive.live.com": true,
		"notion.so":         true,
	}

	toolDomains = map[string]bool{
		"github.com":   true,
		"gitlab.com":   true,
		"figma.com":    true,
		"trello.com":   true,
		"canva.com":    true,
		"airtable.com": true,
	}
)

var (
	toolKeywords     = []string{"tool", "app", "software", "platform", "dashboard", "api"}
	documentKeywords = []string{"doc", "sheet", "file", "document", "pdf", "report"}
)

// ExtractResources scans text messages for URLs and returns one Resource per
// occurrence (duplicates included), sorted descending by share date. It never
// fails: malformed URLs simply get an "unknown" domain.
func ExtractResources(messages []models.Message) []models.Resource {
	resources := make([]models.Resource, 0)

	for _, msg := range messages {
		if msg.Type != models.MessageTypeText {
			continue
		}

		for _, match := range urlRe.FindAllString(msg.Content, -1) {
			rawURL := stripTrailingPunct(match)
			domain := parseDomain(rawURL)

			resources = append(resources, models.Resource{
				URL:        rawURL,
				Domain:     domain,
				SharedBy:   msg.Author,
				DateShared: msg.Timestamp,
				Context:    truncate(msg.Content, resourceContextLength),
				Category:   classifyResource(domain, msg.Content),
			})
		}
	}

	sort.SliceStable(resources, func(i, j int) bool {
		return resources[i].DateShared.After(resources[j].DateShared)
	})

	return resources
}

func stripTrailingPunct(u string) string {
	if len(u) > 0 && strings.ContainsRune(trailingPunct, rune(u[len(u)-1])) {
		return u[:len(u)-1]
	}
	return u
}

// parseDomain extracts the hostname from a URL, normalized to lowercase
// without a leading "www.". Unparseable hosts become "unknown".
func parseDomain(rawURL string) string {
	u, err := url.Parse(rawURL)
	if err != nil || u.Hostname() == "" {
		return "unknown"
	}
	return strings.TrimPrefix(strings.ToLower(u.Hostname()), "www.")
}

func classifyResource(domain, content string) models.ResourceCategory {
	if documentDomains[domain] {
		return models.ResourceCategoryDocument
	}
	if toolDomains[domain] {
		return models.ResourceCategoryTool
	}

	lower := strings.ToLower(content)
	for _, kw := range toolKeywords {
		if strings.Contains(lower, kw) {
			return models.ResourceCategoryTool
		}
	}
	for _, kw := range documentKeywords {
		if strings.Contains(lower, kw) {
			return models.ResourceCategoryDocument
		}
	}

	return models.ResourceCategoryLink
}

var titleRe = regexp.MustCompile(`(?is)<title[^>]*>(.*?)</title>`)

// maxTitleBodyBytes caps how much of a page is read when looking for its
// title tag.
const maxTitleBodyBytes = 256 * 1024

// TitleEnricher fetches page titles for extracted resources. Every fetch is
// best effort: a failure leaves that resource's Title empty and never affects
// the others.
type TitleEnricher struct {
	client         *http.Client
	maxConcurrency int
}

// EnricherConfig contains configuration for the title enricher
type EnricherConfig struct {
	Timeout        time.Duration
	MaxConcurrency int
}

// DefaultEnricherConfig returns default enricher configuration
func DefaultEnricherConfig() EnricherConfig {
	return EnricherConfig{
		Timeout:        10 * time.Second,
		MaxConcurrency: 5,
	}
}

// NewTitleEnricher creates a new title enricher
func NewTitleEnricher(config ...EnricherConfig) *TitleEnricher {
	cfg := DefaultEnricherConfig()
	if len(config) > 0 {
		cfg = config[0]
	}

	return &TitleEnricher{
		client:         &http.Client{Timeout: cfg.Timeout},
		maxConcurrency: cfg.MaxConcurrency,
	}
}

// Enrich fetches titles for all resources concurrently, bounded by the
// configured concurrency. It mutates the slice in place and returns when all
// fetches have finished or failed.
func (e *TitleEnricher) Enrich(ctx context.Context, resources []models.Resource) {
	sem := make(chan struct{}, e.maxConcurrency)
	var wg sync.WaitGroup

	for i := range resources {
		wg.Add(1)
		sem <- struct{}{}
		go func(r *models.Resource) {
			defer wg.Done()
			defer func() { <-sem }()

			if title, ok := e.fetchTitle(ctx, r.URL); ok {
				r.Title = title
			}
		}(&resources[i])
	}

	wg.Wait()
}

func (e *TitleEnricher) fetchTitle(ctx context.Context, rawURL string) (string, bool) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, rawURL, nil)
	if err != nil {
		return "", false
	}

	resp, err := e.client.Do(req)
	if err != nil {
		return "", false
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return "", false
	}

	body, err := io.ReadAll(io.LimitReader(resp.Body, maxTitleBodyBytes))
	if err != nil {
		return "", false
	}

	m := titleRe.FindSubmatch(body)
	if m == nil {
		return "", false
	}

	title := strings.TrimSpace(html.UnescapeString(string(m[1])))
	if title == "" {
		return "", false
	}
	return title, true
}
