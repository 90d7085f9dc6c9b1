package mercari

import (
	"context"
	"fmt"
	"net/url"
	"regexp"
	"strconv"
	"strings"

	"github.com/gocolly/colly/v2"
)

// Search pagination stops after this many pages even if the item limit has
// not been reached, to bound a runaway bootstrap.
const maxSearchPages = 10

var itemPathRe = regexp.MustCompile(`^/(?:us/)?item/(m\d+)/?$`)

// FetchAllItems scrapes search result pages until limit identifiers have
// been collected or the results run out.
func (c *HTTPClient) FetchAllItems(ctx context.Context, keyword string, priceMin, priceMax, limit int) ([]string, error) {
	var ids []string
	for page := 1; page <= maxSearchPages && len(ids) < limit; page++ {
		pageIDs, err := c.fetchSearchPage(ctx, keyword, priceMin, priceMax, page)
		if err != nil {
			return nil, err
		}
		if len(pageIDs) == 0 {
			break
		}
		ids = appendUnique(ids, pageIDs)
	}
	if len(ids) > limit {
		ids = ids[:limit]
	}
	return ids, nil
}

// FetchFirstPage scrapes only the first search result page. The poll loop
// calls this every cycle; re-scanning the full listing would be too
// expensive at a 60s cadence.
func (c *HTTPClient) FetchFirstPage(ctx context.Context, keyword string, priceMin, priceMax int) ([]string, error) {
	return c.fetchSearchPage(ctx, keyword, priceMin, priceMax, 1)
}

// fetchSearchPage visits one search result page with a fresh collector and
// collects the item identifiers linked from the result grid.
func (c *HTTPClient) fetchSearchPage(ctx context.Context, keyword string, priceMin, priceMax, page int) ([]string, error) {
	if err := c.limiter.Wait(ctx); err != nil {
		return nil, err
	}

	collector := colly.NewCollector(
		colly.UserAgent(c.cfg.UserAgent),
		colly.MaxDepth(1),
		colly.IgnoreRobotsTxt(),
		colly.StdlibContext(ctx),
	)
	collector.SetClient(c.httpClient)

	var ids []string
	seen := make(map[string]struct{})
	collector.OnHTML(`a[href]`, func(e *colly.HTMLElement) {
		id, ok := ParseItemID(e.Attr("href"))
		if !ok {
			return
		}
		if _, dup := seen[id]; dup {
			return
		}
		seen[id] = struct{}{}
		ids = append(ids, id)
	})

	var fetchErr error
	collector.OnError(func(r *colly.Response, err error) {
		fetchErr = fmt.Errorf("search page request failed (status %d): %w", r.StatusCode, err)
	})

	searchURL := c.buildSearchURL(keyword, priceMin, priceMax, page)
	c.logger.Debug().Str("url", searchURL).Int("page", page).Msg("Fetching search page")

	if err := collector.Visit(searchURL); err != nil {
		return nil, fmt.Errorf("failed to visit search page: %w", err)
	}
	collector.Wait()

	if fetchErr != nil {
		return nil, fetchErr
	}
	return ids, nil
}

// buildSearchURL assembles a search query. Price bounds are inclusive on
// the marketplace side.
func (c *HTTPClient) buildSearchURL(keyword string, priceMin, priceMax, page int) string {
	params := url.Values{}
	params.Set("keyword", keyword)
	params.Set("price_min", strconv.Itoa(priceMin))
	params.Set("price_max", strconv.Itoa(priceMax))
	params.Set("status", "on_sale")
	params.Set("sort_order", "created_desc")
	if page > 1 {
		params.Set("page", strconv.Itoa(page))
	}
	return fmt.Sprintf("%s/search/?%s", strings.TrimRight(c.cfg.BaseURL, "/"), params.Encode())
}

// ParseItemID extracts the item identifier from an item page href. Returns
// false for links that do not point at an item page.
func ParseItemID(href string) (string, bool) {
	u, err := url.Parse(href)
	if err != nil {
		return "", false
	}
	m := itemPathRe.FindStringSubmatch(u.Path)
	if m == nil {
		return "", false
	}
	return m[1], true
}

func appendUnique(dst, src []string) []string {
	known := make(map[string]struct{}, len(dst))
	for _, id := range dst {
		known[id] = struct{}{}
	}
	for _, id := range src {
		if _, ok := known[id]; ok {
			continue
		}
		known[id] = struct{}{}
		dst = append(dst, id)
	}
	return dst
}
