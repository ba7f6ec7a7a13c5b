package config

import (
	"os"
	"path/filepath"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"
)

const (
	EnvPathVar = "REGION_CLICKER_ENV"

	DefaultPanicHotkey = "Esc"

	CornerTopLeft     = "top-left"
	CornerTopRight    = "top-right"
	CornerBottomLeft  = "bottom-left"
	CornerBottomRight = "bottom-right"
	CornerOff         = "off"

	minPollInterval = time.Millisecond
	maxPollInterval = 5 * time.Millisecond
)

type LoadOptions struct {
	PanicHotkeyOverride string
	FrequencyOverride   int
}

type Config struct {
	PanicHotkey         string
	FailSafeCorner      string
	FailSafeCornerSize  int
	DefaultFrequencyHz  int
	DefaultButton       string
	MoveDuration        time.Duration
	PollInterval        time.Duration
	HighFrequencyWarnHz int
	MinSelectionSpan    int
	RandomModeSpan      int
	ShutdownTimeout     time.Duration
	EnableFileLogging   bool
}

func Load() (*Config, error) {
	return LoadWithOptions(LoadOptions{})
}

func LoadWithOptions(opts LoadOptions) (*Config, error) {
	// Sources in priority order:
	// 1) .env in the application (executable) directory
	// 2) otherwise the file named by REGION_CLICKER_ENV
	// Variables already present in the process environment win over both.
	if envPath := resolveEnvPath(); envPath != "" {
		_ = godotenv.Load(envPath)
	}

	cfg := &Config{
		PanicHotkey:         getEnvWithDefault("PANIC_HOTKEY", DefaultPanicHotkey),
		FailSafeCorner:      resolveCorner(os.Getenv("FAILSAFE_CORNER")),
		FailSafeCornerSize:  getPositiveInt("FAILSAFE_CORNER_SIZE", 2),
		DefaultFrequencyHz:  getPositiveInt("DEFAULT_FREQUENCY_HZ", 10),
		DefaultButton:       resolveButton(os.Getenv("DEFAULT_BUTTON")),
		MoveDuration:        time.Duration(getPositiveInt("MOVE_DURATION_MS", 50)) * time.Millisecond,
		PollInterval:        clampPoll(time.Duration(getPositiveInt("POLL_INTERVAL_MS", 5)) * time.Millisecond),
		HighFrequencyWarnHz: getPositiveInt("HIGH_FREQUENCY_WARN_HZ", 50),
		MinSelectionSpan:    getPositiveInt("MIN_SELECTION_SPAN", 5),
		RandomModeSpan:      getPositiveInt("RANDOM_MODE_SPAN", 10),
		ShutdownTimeout:     time.Duration(getPositiveInt("SHUTDOWN_TIMEOUT_MS", 1500)) * time.Millisecond,
		EnableFileLogging:   strings.ToLower(os.Getenv("ENABLE_FILE_LOGGING")) == "true",
	}

	if hk := strings.TrimSpace(opts.PanicHotkeyOverride); hk != "" {
		cfg.PanicHotkey = hk
	}
	if opts.FrequencyOverride > 0 {
		cfg.DefaultFrequencyHz = opts.FrequencyOverride
	}

	return cfg, nil
}

func resolveEnvPath() string {
	if execPath, err := os.Executable(); err == nil {
		exeEnv := filepath.Join(filepath.Dir(execPath), ".env")
		if _, err := os.Stat(exeEnv); err == nil {
			return exeEnv
		}
	}

	if alt := os.Getenv(EnvPathVar); alt != "" {
		if _, err := os.Stat(alt); err == nil {
			return alt
		}
	}

	return ""
}

func getEnvWithDefault(key, defaultValue string) string {
	if value := strings.TrimSpace(os.Getenv(key)); value != "" {
		return value
	}
	return defaultValue
}

func getPositiveInt(key string, defaultValue int) int {
	if v := strings.TrimSpace(os.Getenv(key)); v != "" {
		if n, err := strconv.Atoi(v); err == nil && n > 0 {
			return n
		}
	}
	return defaultValue
}

func clampPoll(d time.Duration) time.Duration {
	if d < minPollInterval {
		return minPollInterval
	}
	if d > maxPollInterval {
		return maxPollInterval
	}
	return d
}

func resolveCorner(value string) string {
	switch strings.ToLower(strings.TrimSpace(value)) {
	case CornerTopRight, "tr":
		return CornerTopRight
	case CornerBottomLeft, "bl":
		return CornerBottomLeft
	case CornerBottomRight, "br":
		return CornerBottomRight
	case CornerOff, "none", "false":
		return CornerOff
	default:
		return CornerTopLeft
	}
}

func resolveButton(value string) string {
	switch strings.ToLower(strings.TrimSpace(value)) {
	case "right":
		return "right"
	case "middle", "center":
		return "middle"
	default:
		return "left"
	}
}
