package config

import (
	"errors"
	"fmt"
	"io/fs"
	"strings"

	"github.com/joho/godotenv"
	"github.com/spf13/viper"
)

// EnvPrefix 環境變數前綴，例如 ATM_SERVER_ADDR 覆寫 server.addr
const EnvPrefix = "ATM"

// Load 讀取設定
// 優先順序: 環境變數 (含 .env) > 設定檔 > 預設值
//
// 參數:
//
//	path: 設定檔路徑，空字串時在 . 與 ./config 尋找 config.yaml，找不到就只用預設值
//
// 回傳:
//
//	*Config: 設定
//	error: 明確指定的檔案讀不到，或內容格式錯誤
func Load(path string) (*Config, error) {
	// .env 可有可無
	if err := godotenv.Load(); err != nil && !errors.Is(err, fs.ErrNotExist) {
		return nil, fmt.Errorf("failed to load .env: %w", err)
	}

	cfg := NewDefault()
	v := viper.New()
	bindDefaults(v, cfg)

	if path != "" {
		v.SetConfigFile(path)
	} else {
		v.SetConfigName("config")
		v.SetConfigType("yaml")
		v.AddConfigPath(".")
		v.AddConfigPath("./config")
	}

	v.SetEnvPrefix(EnvPrefix)
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	if err := v.ReadInConfig(); err != nil {
		if path != "" {
			return nil, fmt.Errorf("failed to read config file: %w", err)
		}
		if !errors.As(err, &viper.ConfigFileNotFoundError{}) {
			return nil, fmt.Errorf("config file error: %w", err)
		}
	}

	if err := v.Unmarshal(cfg); err != nil {
		return nil, fmt.Errorf("unable to decode config: %w", err)
	}
	cfg.ConfigPath = v.ConfigFileUsed()
	return cfg, nil
}

// bindDefaults AutomaticEnv 只對 viper 已知的 key 生效，所以每個 key 都要先登記
func bindDefaults(v *viper.Viper, cfg *Config) {
	v.SetDefault("server.addr", cfg.Server.Addr)
	v.SetDefault("ledger.dir", cfg.Ledger.Dir)
	v.SetDefault("kafka.brokers", cfg.Kafka.Brokers)
	v.SetDefault("kafka.topic", cfg.Kafka.Topic)
	v.SetDefault("telemetry.enabled", cfg.Telemetry.Enabled)
	v.SetDefault("telemetry.service_name", cfg.Telemetry.ServiceName)
	v.SetDefault("telemetry.service_version", cfg.Telemetry.ServiceVersion)
	v.SetDefault("telemetry.interval", cfg.Telemetry.Interval)
	v.SetDefault("log.level", cfg.Log.Level)
	v.SetDefault("log.format", cfg.Log.Format)
}
