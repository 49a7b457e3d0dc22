package config

import (
	"testing"
	"time"

	"github.com/spf13/viper"
	"github.com/stretchr/testify/assert"
)

func TestFromViperDefaults(t *testing.T) {
	v := viper.New()
	setDefaults(v)

	cfg := fromViper(v)
	assert.Equal(t, EnvDevelopment, cfg.Env)
	assert.Equal(t, "/api/v1", cfg.APIPrefix)
	assert.Equal(t, 5*time.Minute, cfg.Dashboard.CacheTTL)
	assert.Equal(t, "Saturday", cfg.Routine.WeekStart)
	assert.Equal(t, 20, cfg.Lists.DefaultPageSize)
	assert.Equal(t, 200, cfg.Lists.MaxPageSize)
	assert.Nil(t, cfg.CORS.AllowedOrigins)
}

func TestFromViperOverrides(t *testing.T) {
	v := viper.New()
	setDefaults(v)
	v.Set("DASHBOARD_CACHE_TTL", "not-a-duration")
	v.Set("ALLOWED_ORIGINS", " https://a.example , ,https://b.example")
	v.Set("LIST_DEFAULT_PAGE_SIZE", 50)
	v.Set("LIST_MAX_PAGE_SIZE", 10)

	cfg := fromViper(v)
	assert.Equal(t, 5*time.Minute, cfg.Dashboard.CacheTTL)
	assert.Equal(t, []string{"https://a.example", "https://b.example"}, cfg.CORS.AllowedOrigins)
	assert.Equal(t, 50, cfg.Lists.DefaultPageSize)
	assert.Equal(t, 50, cfg.Lists.MaxPageSize)
}
