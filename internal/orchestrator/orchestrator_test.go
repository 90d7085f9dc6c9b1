package orchestrator

import (
	"context"
	"sync"
	"testing"
	"time"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"mercariwatch/internal/config"
	"mercariwatch/internal/models"
	"mercariwatch/internal/notifier"
)

type stubClient struct {
	mu         sync.Mutex
	bootstraps []string
}

func (s *stubClient) FetchAllItems(_ context.Context, keyword string, _, _, _ int) ([]string, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.bootstraps = append(s.bootstraps, keyword)
	return nil, nil
}

func (s *stubClient) FetchFirstPage(context.Context, string, int, int) ([]string, error) {
	return nil, nil
}

func (s *stubClient) GetItemInfo(context.Context, string) (*models.Item, error) {
	return nil, nil
}

func (s *stubClient) DownloadPhoto(context.Context, *models.Item) (string, error) {
	return "", nil
}

func (s *stubClient) bootstrappedKeywords() []string {
	s.mu.Lock()
	defer s.mu.Unlock()
	return append([]string(nil), s.bootstraps...)
}

func testGlobalConfig(keywords ...string) *config.GlobalConfig {
	cfg := config.NewDefaultGlobalConfig()
	for _, kw := range keywords {
		cfg.Filters = append(cfg.Filters, models.Filter{Keyword: kw, PriceMin: 10, PriceMax: 100})
	}
	cfg.MonitorConfig.StaggerSeconds = 0
	return cfg
}

func TestRun_StartsOneMonitorPerFilter(t *testing.T) {
	client := &stubClient{}
	cfg := testGlobalConfig("switch", "gameboy", "ps5")
	orch := NewOrchestrator(cfg, client, &notifier.Channels{}, nil, zerolog.Nop())

	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan error, 1)
	go func() { done <- orch.Run(ctx) }()

	// Each monitor bootstraps once before entering its poll loop.
	require.Eventually(t, func() bool {
		return len(client.bootstrappedKeywords()) == 3
	}, 2*time.Second, 10*time.Millisecond)

	cancel()
	select {
	case err := <-done:
		assert.ErrorIs(t, err, context.Canceled)
	case <-time.After(2 * time.Second):
		t.Fatal("orchestrator did not stop after cancellation")
	}

	assert.ElementsMatch(t, []string{"switch", "gameboy", "ps5"}, client.bootstrappedKeywords())
}

func TestRun_CancelledDuringStaggerStops(t *testing.T) {
	client := &stubClient{}
	cfg := testGlobalConfig("switch", "gameboy")
	cfg.MonitorConfig.StaggerSeconds = 60
	orch := NewOrchestrator(cfg, client, &notifier.Channels{}, nil, zerolog.Nop())

	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan error, 1)
	go func() { done <- orch.Run(ctx) }()

	require.Eventually(t, func() bool {
		return len(client.bootstrappedKeywords()) == 1
	}, 2*time.Second, 10*time.Millisecond)

	cancel()
	select {
	case err := <-done:
		assert.ErrorIs(t, err, context.Canceled)
	case <-time.After(2 * time.Second):
		t.Fatal("orchestrator did not stop during stagger wait")
	}

	// The second monitor never started.
	assert.Equal(t, []string{"switch"}, client.bootstrappedKeywords())
}

func TestBuildMonitors_SQLiteBackend(t *testing.T) {
	cfg := testGlobalConfig("switch", "gameboy")
	cfg.StorageConfig.SeenStoreBackend = "sqlite"
	cfg.StorageConfig.SeenStoreDBPath = t.TempDir() + "/seen.db"
	orch := NewOrchestrator(cfg, &stubClient{}, &notifier.Channels{}, nil, zerolog.Nop())

	monitors, err := orch.buildMonitors()
	require.NoError(t, err)
	assert.Len(t, monitors, 2)
}
