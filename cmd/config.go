package cmd

import (
	"errors"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"strconv"
	"strings"
	"time"

	"github.com/spf13/viper"
	"gopkg.in/natefinch/lumberjack.v2"
)

const (
	configVersionKey     = "version"
	currentConfigVersion = 1

	configBaseName   = "autotest"
	configFileName   = configBaseName + ".yaml"
	configFolderPath = "."

	outputFlagName        = "output"
	excludeFlagName       = "exclude"
	thresholdFlagName     = "threshold"
	maxIterationsFlagName = "max-iterations"
	addrFlagName          = "addr"
	backendFlagName       = "backend"
	modelFlagName         = "model"
	sandboxFlagName       = "sandbox"
	formatFlagName        = "format"
	verboseFlagName       = "verbose"

	excludeConfigKey = "paths.exclude"

	serverAddrKey        = "server.addr"
	serverMaxUploadMBKey = "server.max_upload_mb"

	thresholdKey          = "pipeline.threshold"
	maxIterationsKey      = "pipeline.max_iterations"
	maxIterationsLimitKey = "pipeline.max_iterations_limit"
	runTimeoutKey         = "pipeline.run_timeout"

	synthBackendKey     = "synth.backend"
	synthModelKey       = "synth.model"
	synthBaseURLKey     = "synth.base_url"
	synthAPIKeyKey      = "synth.api_key"
	synthTemperatureKey = "synth.temperature"
	synthTimeoutKey     = "synth.timeout"
	synthRetriesKey     = "synth.retries"
	synthBackoffKey     = "synth.backoff"
	synthParallelKey    = "synth.parallel"
	synthRateKey        = "synth.rate_per_minute"

	executorSandboxKey     = "executor.sandbox"
	executorDockerImageKey = "executor.docker_image"
	executorTimeoutKey     = "executor.timeout"
	executorGoVersionKey   = "executor.go_version"

	traceEnabledKey = "trace.enabled"

	defaultReportsDir         = ".autotest-reports"
	defaultServerAddr         = ":8000"
	defaultMaxUploadMB        = 10
	defaultThreshold          = 80
	defaultMaxIterations      = 5
	defaultMaxIterationsLimit = 20
	defaultRunTimeout         = 15 * time.Minute

	backendOpenAI = "openai"
	backendOllama = "ollama"

	defaultSynthBackend     = backendOpenAI
	defaultSynthModel       = "gpt-4o"
	defaultSynthTemperature = 0.2
	defaultSynthTimeout     = 90 * time.Second
	defaultSynthRetries     = 2
	defaultSynthBackoff     = 2 * time.Second
	defaultSynthParallel    = 4
	defaultSynthRate        = 60

	sandboxLocal  = "local"
	sandboxDocker = "docker"

	defaultSandbox         = sandboxLocal
	defaultDockerImage     = "golang:1.25-alpine"
	defaultExecutorTimeout = 2 * time.Minute
	defaultGoVersion       = "1.21"

	envPrefix = "AUTOTEST"

	logFilenameKey   = "log.filename"
	logLevelKey      = "log.level"
	logVerboseKey    = "log.verbose"
	logMaxSizeKey    = "log.max_size"
	logMaxBackupsKey = "log.max_backups"
	logMaxAgeKey     = "log.max_age"
	logCompressKey   = "log.compress"

	defaultLogFilename   = ".autotest.log"
	defaultLogLevel      = int(slog.LevelInfo)
	defaultLogVerbose    = false
	defaultLogMaxSize    = 10
	defaultLogMaxBackups = 3
	defaultLogMaxAge     = 28
	defaultLogCompress   = true
)

var globalLogger *slog.Logger

// logWriter is the rotating file behind globalLogger; spans are exported into it as well.
var logWriter *lumberjack.Logger

func init() {
	viper.SetConfigName(configBaseName)
	viper.SetConfigType("yaml")
	viper.AddConfigPath(configFolderPath)
	viper.SetConfigFile(filepath.Join(configFolderPath, configFileName))
	viper.AutomaticEnv()
	viper.SetEnvPrefix(envPrefix)
	viper.SetEnvKeyReplacer(strings.NewReplacer("-", "_", ".", "_"))

	setDefaults()

	// The API key falls back to the variable the OpenAI tooling already uses.
	_ = viper.BindEnv(synthAPIKeyKey, envPrefix+"_SYNTH_API_KEY", "OPENAI_API_KEY")

	if err := viper.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		if errors.As(err, &notFound) || errors.Is(err, os.ErrNotExist) {
			return
		}

		// The logger is not configured yet.
		fmt.Fprintf(os.Stderr, "autotest: ignoring config %s: %v\n", viper.ConfigFileUsed(), err)
	}
}

func setDefaults() {
	viper.SetDefault(configVersionKey, currentConfigVersion)
	viper.SetDefault(outputFlagName, defaultReportsDir)
	viper.SetDefault(excludeConfigKey, []string{})

	viper.SetDefault(serverAddrKey, defaultServerAddr)
	viper.SetDefault(serverMaxUploadMBKey, defaultMaxUploadMB)

	viper.SetDefault(thresholdKey, defaultThreshold)
	viper.SetDefault(maxIterationsKey, defaultMaxIterations)
	viper.SetDefault(maxIterationsLimitKey, defaultMaxIterationsLimit)
	viper.SetDefault(runTimeoutKey, defaultRunTimeout.String())

	viper.SetDefault(synthBackendKey, defaultSynthBackend)
	viper.SetDefault(synthModelKey, defaultSynthModel)
	viper.SetDefault(synthBaseURLKey, "")
	viper.SetDefault(synthTemperatureKey, defaultSynthTemperature)
	viper.SetDefault(synthTimeoutKey, defaultSynthTimeout.String())
	viper.SetDefault(synthRetriesKey, defaultSynthRetries)
	viper.SetDefault(synthBackoffKey, defaultSynthBackoff.String())
	viper.SetDefault(synthParallelKey, defaultSynthParallel)
	viper.SetDefault(synthRateKey, defaultSynthRate)

	viper.SetDefault(executorSandboxKey, defaultSandbox)
	viper.SetDefault(executorDockerImageKey, defaultDockerImage)
	viper.SetDefault(executorTimeoutKey, defaultExecutorTimeout.String())
	viper.SetDefault(executorGoVersionKey, defaultGoVersion)

	viper.SetDefault(traceEnabledKey, false)

	// Logging defaults (used by config/env and as fallbacks for flags).
	viper.SetDefault(logFilenameKey, defaultLogFilename)
	viper.SetDefault(logLevelKey, defaultLogLevel)
	viper.SetDefault(logVerboseKey, defaultLogVerbose)
	viper.SetDefault(logMaxSizeKey, defaultLogMaxSize)
	viper.SetDefault(logMaxBackupsKey, defaultLogMaxBackups)
	viper.SetDefault(logMaxAgeKey, defaultLogMaxAge)
	viper.SetDefault(logCompressKey, defaultLogCompress)
}

func parseSlogLevel(value string, defaultLevel slog.Level) slog.Level {
	level := strings.ToLower(strings.TrimSpace(value))
	if level == "" {
		return defaultLevel
	}

	switch level {
	case "debug":
		return slog.LevelDebug
	case "info":
		return slog.LevelInfo
	case "warn", "warning":
		return slog.LevelWarn
	case "error":
		return slog.LevelError
	}

	// Allow numeric slog levels as well (e.g. -4 for debug).
	if n, err := strconv.Atoi(level); err == nil {
		return slog.Level(n)
	}

	return defaultLevel
}

// configureLogger configures the global slog logger.
//
// By default it logs at Info; if verbose is true it logs at Debug.
func configureLogger(logPath string, verbose bool) {
	if strings.TrimSpace(logPath) == "" {
		logPath = viper.GetString(logFilenameKey)
	}

	if strings.TrimSpace(logPath) == "" {
		logPath = defaultLogFilename
	}

	var logLevel slog.Level
	if verbose {
		logLevel = slog.LevelDebug
	} else {
		logLevel = parseSlogLevel(viper.GetString(logLevelKey), slog.LevelInfo)
	}

	logWriter = &lumberjack.Logger{
		Filename:   logPath,
		MaxSize:    viper.GetInt(logMaxSizeKey),
		MaxBackups: viper.GetInt(logMaxBackupsKey),
		MaxAge:     viper.GetInt(logMaxAgeKey),
		Compress:   viper.GetBool(logCompressKey),
	}

	handler := slog.NewTextHandler(logWriter, &slog.HandlerOptions{
		AddSource: true,
		Level:     logLevel,
	})

	globalLogger = slog.New(handler)
	slog.SetDefault(globalLogger)
}

// durationSetting reads a duration key, falling back when the value does not parse.
func durationSetting(key string, fallback time.Duration) time.Duration {
	raw := strings.TrimSpace(viper.GetString(key))
	if raw == "" {
		return fallback
	}

	if d, err := time.ParseDuration(raw); err == nil {
		return d
	}

	// Bare numbers are seconds.
	if n, err := strconv.Atoi(raw); err == nil {
		return time.Duration(n) * time.Second
	}

	slog.Warn("Invalid duration in configuration, using default", "key", key, "value", raw, "default", fallback)

	return fallback
}
