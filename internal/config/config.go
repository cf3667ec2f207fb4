// Package config manages application configuration.
package config

import (
	"fmt"
	"strconv"

	"github.com/parkgeonsan/sandoc/internal/style"
	"github.com/parkgeonsan/sandoc/internal/validate"
	"github.com/parkgeonsan/sandoc/internal/writer"
)

// Config represents the application configuration. The section types
// live with the packages that consume them; this struct only assembles
// the file layout.
type Config struct {
	Style      style.Thresholds `yaml:"style"`
	Validation validate.Options `yaml:"validate"`
	Write      writer.Options   `yaml:"write"`
	Output     OutputConfig     `yaml:"output"`
	Log        LogConfig        `yaml:"log"`
}

// OutputConfig controls where generated files land.
type OutputConfig struct {
	// Dir is the default directory for generated documents. 빈 값이면
	// 입력 파일 옆에 만든다.
	Dir string `yaml:"dir,omitempty"`
}

// LogConfig controls decoder logging.
type LogConfig struct {
	Level string `yaml:"level"` // debug, warn, off
}

// DefaultConfig returns the default configuration.
func DefaultConfig() *Config {
	return &Config{
		Style:      style.DefaultThresholds(),
		Validation: validate.DefaultOptions(),
		Write:      writer.DefaultOptions(),
		Log:        LogConfig{Level: "warn"},
	}
}

// Validate checks value ranges before the config is put to use.
func (c *Config) Validate() error {
	if c.Validation.Tolerance < 0 {
		return fmt.Errorf("validate.tolerance는 0 이상이어야 합니다: %g", c.Validation.Tolerance)
	}
	if c.Write.MaxAttempts < 0 {
		return fmt.Errorf("write.max_attempts는 음수일 수 없습니다: %d", c.Write.MaxAttempts)
	}
	switch c.Log.Level {
	case "", "debug", "warn", "off":
	default:
		return fmt.Errorf("유효하지 않은 로그 레벨: %s", c.Log.Level)
	}
	return nil
}

// Set assigns a value to one configuration key in its dotted form.
func (c *Config) Set(key, value string) error {
	switch key {
	case "style.subtitle_delta":
		f, err := strconv.ParseFloat(value, 64)
		if err != nil {
			return fmt.Errorf("유효하지 않은 값: %s", value)
		}
		c.Style.SubtitleDelta = f

	case "style.header_bold_required":
		b, err := strconv.ParseBool(value)
		if err != nil {
			return fmt.Errorf("유효하지 않은 값: %s (true/false)", value)
		}
		c.Style.HeaderBoldRequired = b

	case "style.min_body_count":
		n, err := strconv.Atoi(value)
		if err != nil {
			return fmt.Errorf("유효하지 않은 값: %s", value)
		}
		c.Style.MinBodyCount = n

	case "validate.tolerance":
		f, err := strconv.ParseFloat(value, 64)
		if err != nil || f < 0 {
			return fmt.Errorf("유효하지 않은 허용 오차: %s", value)
		}
		c.Validation.Tolerance = f

	case "write.backup_suffix":
		if value == "" {
			return fmt.Errorf("백업 접미사는 비울 수 없습니다")
		}
		c.Write.BackupSuffix = value

	case "write.max_attempts":
		n, err := strconv.Atoi(value)
		if err != nil || n < 1 {
			return fmt.Errorf("유효하지 않은 시도 횟수: %s", value)
		}
		c.Write.MaxAttempts = n

	case "output.dir":
		c.Output.Dir = value

	case "log.level":
		switch value {
		case "debug", "warn", "off":
			c.Log.Level = value
		default:
			return fmt.Errorf("유효하지 않은 로그 레벨: %s (지원: debug, warn, off)", value)
		}

	default:
		return fmt.Errorf("알 수 없는 설정 키: %s", key)
	}
	return nil
}

// Keys lists the settable configuration keys for help output.
func Keys() []string {
	return []string{
		"style.subtitle_delta",
		"style.header_bold_required",
		"style.min_body_count",
		"validate.tolerance",
		"write.backup_suffix",
		"write.max_attempts",
		"output.dir",
		"log.level",
	}
}
