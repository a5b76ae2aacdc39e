// internal/config/config.go
//
// 應用程式設定：YAML 設定檔 → 環境變數 → 命令列旗標，後者覆蓋前者。
// 核心的 FileStore 只接收解析完成的 storage.Config，不自行讀取環境。
package config

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"

	"gopkg.in/yaml.v3"

	"bankrecords/internal/storage"
)

// EnvStorePath 可覆蓋設定檔中的資料檔路徑。
const EnvStorePath = "BANK_STORE_PATH"

// EnvLogLevel 可覆蓋設定檔中的日誌等級。
const EnvLogLevel = "BANK_LOG_LEVEL"

// Config 為整體設定。
type Config struct {
	Store   storage.Config `yaml:"store"`
	Logging LoggingConfig  `yaml:"logging"`
}

// LoggingConfig 設定 zap logger。
type LoggingConfig struct {
	Level string `yaml:"level"` // debug, info, warn, error
	File  string `yaml:"file"`  // 空字串代表 stderr
}

// DefaultConfig 回傳預設設定。
// 預設日誌等級為 warn，避免一般操作的日誌混入選單畫面。
func DefaultConfig() *Config {
	return &Config{
		Store:   storage.Config{Path: storage.DefaultPath},
		Logging: LoggingConfig{Level: "warn"},
	}
}

// Load 讀取 YAML 設定檔並套用環境變數覆蓋；檔案不存在時使用預設值。
func Load(path string) (*Config, error) {
	cfg := DefaultConfig()

	if path != "" {
		data, err := os.ReadFile(path)
		switch {
		case errors.Is(err, fs.ErrNotExist):
			// 沿用預設值
		case err != nil:
			return nil, fmt.Errorf("failed to read config: %w", err)
		default:
			if err := yaml.Unmarshal(data, cfg); err != nil {
				return nil, fmt.Errorf("failed to parse config: %w", err)
			}
		}
	}

	cfg.applyEnvOverrides()
	if cfg.Store.Path == "" {
		cfg.Store.Path = storage.DefaultPath
	}
	return cfg, nil
}

// Save 將設定寫成 YAML 檔。
func (c *Config) Save(path string) error {
	if dir := filepath.Dir(path); dir != "." {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return fmt.Errorf("failed to create config directory: %w", err)
		}
	}

	data, err := yaml.Marshal(c)
	if err != nil {
		return fmt.Errorf("failed to marshal config: %w", err)
	}
	if err := os.WriteFile(path, data, 0o644); err != nil {
		return fmt.Errorf("failed to write config: %w", err)
	}
	return nil
}

func (c *Config) applyEnvOverrides() {
	if v := os.Getenv(EnvStorePath); v != "" {
		c.Store.Path = v
	}
	if v := os.Getenv(EnvLogLevel); v != "" {
		c.Logging.Level = v
	}
}
