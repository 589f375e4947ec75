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
	assert.Equal(t, 8080, cfg.Port)
	assert.Equal(t, "9:00 AM", cfg.Settings.WorkStart)
	assert.Equal(t, "4:00 PM", cfg.Settings.WorkEnd)
	assert.Equal(t, 60, cfg.Settings.PeriodDuration)
	assert.Equal(t, 5, cfg.Settings.NumberOfPeriods)
	assert.Equal(t, 10*time.Minute, cfg.Cache.TTL)
	assert.Equal(t, 2*time.Second, cfg.Scheduler.RetryDelay)
	assert.True(t, cfg.Docs.Enabled)
	assert.Nil(t, cfg.CORS.AllowedOrigins)
}

func TestFromViperProductionDisablesDocs(t *testing.T) {
	v := viper.New()
	setDefaults(v)
	v.Set("ENV", EnvProduction)
	v.Set("ALLOWED_ORIGINS", "https://a.example, ,https://b.example")
	v.Set("TIMETABLE_CACHE_TTL", "not-a-duration")

	cfg := fromViper(v)

	assert.False(t, cfg.Docs.Enabled)
	assert.Equal(t, []string{"https://a.example", "https://b.example"}, cfg.CORS.AllowedOrigins)
	assert.Equal(t, 10*time.Minute, cfg.Cache.TTL)
}
