// Package datastore persists observed listings for later inspection. The
// archive is optional; the poll loop works the same with it disabled.
package datastore

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"sync"
	"time"

	"github.com/parquet-go/parquet-go"
	"github.com/rs/zerolog"

	"mercariwatch/internal/config"
	"mercariwatch/internal/models"
)

// ItemRecord is the parquet row schema for an archived listing.
type ItemRecord struct {
	ItemID      string `parquet:"item_id"`
	Keyword     string `parquet:"keyword"`
	Name        string `parquet:"name"`
	Price       int64  `parquet:"price"`
	URL         string `parquet:"url"`
	Description string `parquet:"description,optional"`
	PhotoURL    string `parquet:"photo_url,optional"`
	IsNew       bool   `parquet:"is_new"`
	InStock     bool   `parquet:"in_stock"`
	Notified    bool   `parquet:"notified"`
	ObservedAt  int64  `parquet:"observed_at,timestamp(millisecond)"`
}

// ItemArchive appends observed listings to per-keyword parquet files. One
// file is written per process lifetime per keyword, named by start time.
type ItemArchive struct {
	cfg    config.StorageConfig
	logger zerolog.Logger

	mu      sync.Mutex
	writers map[string]*keywordWriter
	started time.Time
}

type keywordWriter struct {
	file   *os.File
	writer *parquet.GenericWriter[ItemRecord]
}

// NewItemArchive creates the archive rooted at the configured base path.
func NewItemArchive(cfg config.StorageConfig, logger zerolog.Logger) (*ItemArchive, error) {
	if err := os.MkdirAll(cfg.ArchiveBasePath, 0755); err != nil {
		return nil, fmt.Errorf("failed to create archive base path %s: %w", cfg.ArchiveBasePath, err)
	}
	return &ItemArchive{
		cfg:     cfg,
		logger:  logger.With().Str("component", "ItemArchive").Logger(),
		writers: make(map[string]*keywordWriter),
		started: time.Now(),
	}, nil
}

// Record appends one observed listing. Errors are returned so the caller
// can log them, but archiving failures must never stop the poll loop.
func (a *ItemArchive) Record(keyword string, item *models.Item, notified bool) error {
	a.mu.Lock()
	defer a.mu.Unlock()

	w, err := a.writerFor(keyword)
	if err != nil {
		return err
	}

	rec := ItemRecord{
		ItemID:      item.ID,
		Keyword:     keyword,
		Name:        item.Name,
		Price:       int64(item.Price),
		URL:         item.URL,
		Description: item.Description,
		PhotoURL:    item.PhotoURL,
		IsNew:       item.IsNew,
		InStock:     item.InStock,
		Notified:    notified,
		ObservedAt:  time.Now().UnixMilli(),
	}
	if _, err := w.writer.Write([]ItemRecord{rec}); err != nil {
		return fmt.Errorf("failed to write archive record for %s: %w", item.ID, err)
	}
	if err := w.writer.Flush(); err != nil {
		return fmt.Errorf("failed to flush archive for %s: %w", keyword, err)
	}
	return nil
}

func (a *ItemArchive) writerFor(keyword string) (*keywordWriter, error) {
	if w, ok := a.writers[keyword]; ok {
		return w, nil
	}

	dir := filepath.Join(a.cfg.ArchiveBasePath, sanitizeKeyword(keyword))
	if err := os.MkdirAll(dir, 0755); err != nil {
		return nil, fmt.Errorf("failed to create archive directory %s: %w", dir, err)
	}

	filename := filepath.Join(dir, a.started.Format("20060102-150405")+".parquet")
	file, err := os.Create(filename)
	if err != nil {
		return nil, fmt.Errorf("failed to create archive file %s: %w", filename, err)
	}

	writer := parquet.NewGenericWriter[ItemRecord](file, a.compressionOption())

	w := &keywordWriter{file: file, writer: writer}
	a.writers[keyword] = w
	a.logger.Info().Str("keyword", keyword).Str("file", filename).Msg("Opened item archive file")
	return w, nil
}

func (a *ItemArchive) compressionOption() parquet.WriterOption {
	switch strings.ToLower(a.cfg.CompressionCodec) {
	case "gzip":
		return parquet.Compression(&parquet.Gzip)
	case "snappy":
		return parquet.Compression(&parquet.Snappy)
	default:
		return parquet.Compression(&parquet.Zstd)
	}
}

// Close flushes and closes every open archive file.
func (a *ItemArchive) Close() error {
	a.mu.Lock()
	defer a.mu.Unlock()

	var firstErr error
	for keyword, w := range a.writers {
		if err := w.writer.Close(); err != nil && firstErr == nil {
			firstErr = fmt.Errorf("failed to close archive writer for %s: %w", keyword, err)
		}
		if err := w.file.Close(); err != nil && firstErr == nil {
			firstErr = fmt.Errorf("failed to close archive file for %s: %w", keyword, err)
		}
	}
	a.writers = make(map[string]*keywordWriter)
	return firstErr
}

func sanitizeKeyword(keyword string) string {
	replacer := strings.NewReplacer(" ", "_", "/", "_", "\\", "_", ":", "_")
	return replacer.Replace(strings.ToLower(keyword))
}
