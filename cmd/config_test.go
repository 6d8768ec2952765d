package cmd

import (
	"log/slog"
	"testing"
	"time"

	"github.com/spf13/viper"
	"github.com/stretchr/testify/assert"
)

func TestConfigConstants(t *testing.T) {
	assert.Equal(t, "autotest", configBaseName)
	assert.Equal(t, "autotest.yaml", configFileName)
	assert.Equal(t, ".", configFolderPath)
	assert.Equal(t, "output", outputFlagName)
	assert.Equal(t, "exclude", excludeFlagName)
	assert.Equal(t, "paths.exclude", excludeConfigKey)
	assert.Equal(t, ".autotest-reports", defaultReportsDir)
	assert.Equal(t, "AUTOTEST", envPrefix)
}

func TestConfigDefaults(t *testing.T) {
	assert.Equal(t, ":8000", viper.GetString(serverAddrKey))
	assert.Equal(t, 10, viper.GetInt(serverMaxUploadMBKey))
	assert.Equal(t, 20, viper.GetInt(maxIterationsLimitKey))
	assert.Equal(t, "gpt-4o", viper.GetString(synthModelKey))
	assert.Equal(t, "golang:1.25-alpine", viper.GetString(executorDockerImageKey))
	assert.Equal(t, "1.21", viper.GetString(executorGoVersionKey))
	assert.InDelta(t, 0.2, viper.GetFloat64(synthTemperatureKey), 1e-9)
	assert.False(t, viper.GetBool(traceEnabledKey))
}

func TestConfigVersionConstants(t *testing.T) {
	assert.Equal(t, "version", configVersionKey)
	assert.Equal(t, 1, currentConfigVersion)
}

func TestParseSlogLevel(t *testing.T) {
	tests := []struct {
		value string
		want  slog.Level
	}{
		{"", slog.LevelInfo},
		{"debug", slog.LevelDebug},
		{" WARNING ", slog.LevelWarn},
		{"error", slog.LevelError},
		{"-4", slog.LevelDebug},
		{"loud", slog.LevelInfo},
	}

	for _, tt := range tests {
		t.Run(tt.value, func(t *testing.T) {
			assert.Equal(t, tt.want, parseSlogLevel(tt.value, slog.LevelInfo))
		})
	}
}

func TestDurationSetting(t *testing.T) {
	t.Cleanup(func() { viper.Set(runTimeoutKey, defaultRunTimeout.String()) })

	assert.Equal(t, defaultRunTimeout, durationSetting(runTimeoutKey, time.Second))

	viper.Set(runTimeoutKey, "45s")
	assert.Equal(t, 45*time.Second, durationSetting(runTimeoutKey, time.Second))

	viper.Set(runTimeoutKey, "30")
	assert.Equal(t, 30*time.Second, durationSetting(runTimeoutKey, time.Second))

	viper.Set(runTimeoutKey, "soon")
	assert.Equal(t, time.Second, durationSetting(runTimeoutKey, time.Second))
}
