package mercari

import (
	"context"
	"net/http"
	"time"

	"github.com/rs/zerolog"
	"golang.org/x/time/rate"

	"mercariwatch/internal/config"
	"mercariwatch/internal/models"
)

// Client is the minimal marketplace contract the keyword monitors depend
// on. The HTTP implementation below is the production one; tests substitute
// their own.
type Client interface {
	// FetchAllItems returns up to limit item identifiers across search
	// result pages, newest first.
	FetchAllItems(ctx context.Context, keyword string, priceMin, priceMax, limit int) ([]string, error)
	// FetchFirstPage returns the identifiers on the first search result
	// page only.
	FetchFirstPage(ctx context.Context, keyword string, priceMin, priceMax int) ([]string, error)
	// GetItemInfo fetches the full listing detail for one identifier.
	GetItemInfo(ctx context.Context, id string) (*models.Item, error)
	// DownloadPhoto saves the listing photo locally and returns its path.
	DownloadPhoto(ctx context.Context, item *models.Item) (string, error)
}

// HTTPClient scrapes the Mercari website. All outbound requests share one
// rate limiter so parallel monitors cannot burst against the marketplace.
type HTTPClient struct {
	cfg        config.MercariConfig
	logger     zerolog.Logger
	httpClient *http.Client
	limiter    *rate.Limiter
}

// NewHTTPClient creates the production marketplace client.
func NewHTTPClient(cfg config.MercariConfig, logger zerolog.Logger) *HTTPClient {
	perSecond := rate.Limit(float64(cfg.RequestsPerMinute) / 60.0)
	return &HTTPClient{
		cfg:    cfg,
		logger: logger.With().Str("component", "MercariClient").Logger(),
		httpClient: &http.Client{
			Timeout: time.Duration(cfg.TimeoutSecs) * time.Second,
		},
		limiter: rate.NewLimiter(perSecond, 5),
	}
}
