package mercari

import (
	"context"
	"fmt"
	"net/http"
	"regexp"
	"strconv"
	"strings"

	"github.com/PuerkitoBio/goquery"

	"mercariwatch/internal/models"
)

var priceRe = regexp.MustCompile(`[\d,]+`)

// GetItemInfo fetches and parses one listing detail page.
func (c *HTTPClient) GetItemInfo(ctx context.Context, id string) (*models.Item, error) {
	if err := c.limiter.Wait(ctx); err != nil {
		return nil, err
	}

	itemURL := c.itemURL(id)
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, itemURL, nil)
	if err != nil {
		return nil, fmt.Errorf("failed to create item request: %w", err)
	}
	req.Header.Set("User-Agent", c.cfg.UserAgent)

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("item request failed for %s: %w", id, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("item request for %s returned status %d", id, resp.StatusCode)
	}

	doc, err := goquery.NewDocumentFromReader(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("failed to parse item page for %s: %w", id, err)
	}

	item := ParseItemDocument(doc, id, itemURL)
	c.logger.Debug().
		Str("item_id", id).
		Str("name", item.Name).
		Int("price", item.Price).
		Bool("is_new", item.IsNew).
		Bool("in_stock", item.InStock).
		Msg("Parsed item detail")
	return item, nil
}

// ParseItemDocument extracts the listing fields from a detail page
// document. Exported so the parser can be exercised against HTML fixtures.
func ParseItemDocument(doc *goquery.Document, id, itemURL string) *models.Item {
	item := &models.Item{
		ID:  id,
		URL: itemURL,
	}

	if name, ok := doc.Find(`meta[property="og:title"]`).Attr("content"); ok {
		item.Name = strings.TrimSpace(name)
	} else {
		item.Name = strings.TrimSpace(doc.Find("h1").First().Text())
	}

	if desc, ok := doc.Find(`meta[property="og:description"]`).Attr("content"); ok {
		item.Description = strings.TrimSpace(desc)
	}

	if photo, ok := doc.Find(`meta[property="og:image"]`).Attr("content"); ok {
		item.PhotoURL = strings.TrimSpace(photo)
	}

	if amount, ok := doc.Find(`meta[property="product:price:amount"]`).Attr("content"); ok {
		item.Price = parsePrice(amount)
	} else {
		item.Price = parsePrice(doc.Find(`[data-testid="ItemPrice"]`).First().Text())
	}

	condition := strings.TrimSpace(doc.Find(`[data-testid="ItemCondition"]`).First().Text())
	item.IsNew = strings.EqualFold(condition, "New")

	availability, _ := doc.Find(`link[property="product:availability"], meta[property="product:availability"]`).Attr("content")
	soldBadge := doc.Find(`[data-testid="SoldBadge"]`).Length() > 0
	item.InStock = !soldBadge && !strings.EqualFold(availability, "oos")

	return item
}

func (c *HTTPClient) itemURL(id string) string {
	return fmt.Sprintf("%s/item/%s/", strings.TrimRight(c.cfg.BaseURL, "/"), id)
}

func parsePrice(raw string) int {
	m := priceRe.FindString(raw)
	if m == "" {
		return 0
	}
	n, err := strconv.Atoi(strings.ReplaceAll(m, ",", ""))
	if err != nil {
		return 0
	}
	return n
}
