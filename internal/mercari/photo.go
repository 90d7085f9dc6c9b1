package mercari

import (
	"context"
	"fmt"
	"io"
	"net/http"
	"os"
	"path"
	"path/filepath"

	"mercariwatch/internal/models"
)

// DownloadPhoto saves the listing photo under the configured photo
// directory and returns the local path, used as the email attachment.
// Returns an empty path without error when photo downloads are disabled or
// the item has no photo.
func (c *HTTPClient) DownloadPhoto(ctx context.Context, item *models.Item) (string, error) {
	if !c.cfg.DownloadPhotos || item.PhotoURL == "" {
		return "", nil
	}

	if err := c.limiter.Wait(ctx); err != nil {
		return "", err
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, item.PhotoURL, nil)
	if err != nil {
		return "", fmt.Errorf("failed to create photo request: %w", err)
	}
	req.Header.Set("User-Agent", c.cfg.UserAgent)

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return "", fmt.Errorf("photo request failed for %s: %w", item.ID, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return "", fmt.Errorf("photo request for %s returned status %d", item.ID, resp.StatusCode)
	}

	if err := os.MkdirAll(c.cfg.PhotoDir, 0755); err != nil {
		return "", fmt.Errorf("failed to create photo directory: %w", err)
	}

	ext := path.Ext(item.PhotoURL)
	if ext == "" || len(ext) > 5 {
		ext = ".jpg"
	}
	localPath := filepath.Join(c.cfg.PhotoDir, item.ID+ext)

	out, err := os.Create(localPath)
	if err != nil {
		return "", fmt.Errorf("failed to create photo file: %w", err)
	}
	defer out.Close()

	if _, err := io.Copy(out, resp.Body); err != nil {
		return "", fmt.Errorf("failed to write photo file: %w", err)
	}

	c.logger.Debug().Str("item_id", item.ID).Str("path", localPath).Msg("Downloaded listing photo")
	return localPath, nil
}
