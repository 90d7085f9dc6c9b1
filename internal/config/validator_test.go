package config

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"mercariwatch/internal/models"
)

func validTestConfig() *GlobalConfig {
	cfg := NewDefaultGlobalConfig()
	cfg.Filters = []models.Filter{
		{Keyword: "switch", PriceMin: 10, PriceMax: 20},
		{Keyword: "ps5", PriceMin: 30, PriceMax: 50},
	}
	return cfg
}

func TestValidateConfig_Accepted(t *testing.T) {
	assert.NoError(t, ValidateConfig(validTestConfig()))
}

func TestValidateConfig_InvertedBoundsRejected(t *testing.T) {
	cfg := validTestConfig()
	cfg.Filters = []models.Filter{{Keyword: "switch", PriceMin: 10, PriceMax: 5}}
	assert.Error(t, ValidateConfig(cfg))
}

func TestValidateConfig_NoFiltersRejected(t *testing.T) {
	cfg := validTestConfig()
	cfg.Filters = nil
	assert.Error(t, ValidateConfig(cfg))
}

func TestValidateConfig_BadEmailUsernameRejected(t *testing.T) {
	cfg := validTestConfig()
	cfg.NotificationConfig.Email.Username = "not-an-address"
	cfg.NotificationConfig.Email.Password = "secret"
	cfg.NotificationConfig.Email.Recipients = []string{"me@example.com"}
	assert.Error(t, ValidateConfig(cfg))
}

func TestValidateConfig_BadSeenBackendRejected(t *testing.T) {
	cfg := validTestConfig()
	cfg.StorageConfig.SeenStoreBackend = "postgres"
	assert.Error(t, ValidateConfig(cfg))
}

func TestValidateConfig_SQLiteBackendNeedsPath(t *testing.T) {
	cfg := validTestConfig()
	cfg.StorageConfig.SeenStoreBackend = "sqlite"
	cfg.StorageConfig.SeenStoreDBPath = ""
	assert.Error(t, ValidateConfig(cfg))
}

func TestParseFilters(t *testing.T) {
	filters, err := ParseFilters("switch, camera", "10,30", "20,50")
	require.NoError(t, err)
	require.Len(t, filters, 2)
	assert.Equal(t, models.Filter{Keyword: "switch", PriceMin: 10, PriceMax: 20}, filters[0])
	assert.Equal(t, models.Filter{Keyword: "camera", PriceMin: 30, PriceMax: 50}, filters[1])
}

func TestParseFilters_LengthMismatch(t *testing.T) {
	_, err := ParseFilters("switch,camera", "10", "20,50")
	assert.Error(t, err)

	_, err = ParseFilters("switch", "10,30", "20")
	assert.Error(t, err)
}

func TestParseFilters_BadPrice(t *testing.T) {
	_, err := ParseFilters("switch", "ten", "20")
	assert.Error(t, err)
}

func TestParseFilters_Empty(t *testing.T) {
	_, err := ParseFilters("", "", "")
	assert.Error(t, err)
}
