package config

import (
	"time"

	"gopkg.in/yaml.v3"
)

// Config 服務端與 CLI 共用的設定
type Config struct {
	Server     ServerConfig    `mapstructure:"server" yaml:"server"`
	Ledger     LedgerConfig    `mapstructure:"ledger" yaml:"ledger"`
	Kafka      KafkaConfig     `mapstructure:"kafka" yaml:"kafka"`
	Telemetry  TelemetryConfig `mapstructure:"telemetry" yaml:"telemetry"`
	Log        LogConfig       `mapstructure:"log" yaml:"log"`
	ConfigPath string          `mapstructure:"-" yaml:"-"`
}

type ServerConfig struct {
	// Addr gRPC 監聽位址，也是 CLI 預設連線的目標
	Addr string `mapstructure:"addr" yaml:"addr"`
}

type LedgerConfig struct {
	// Dir PrintLedger 輸出檔案的根目錄
	Dir string `mapstructure:"dir" yaml:"dir"`
}

type KafkaConfig struct {
	// Brokers 為空時不發布交易事件
	Brokers []string `mapstructure:"brokers" yaml:"brokers"`
	Topic   string   `mapstructure:"topic" yaml:"topic"`
}

type TelemetryConfig struct {
	Enabled        bool          `mapstructure:"enabled" yaml:"enabled"`
	ServiceName    string        `mapstructure:"service_name" yaml:"service_name"`
	ServiceVersion string        `mapstructure:"service_version" yaml:"service_version"`
	Interval       time.Duration `mapstructure:"interval" yaml:"interval"`
}

type LogConfig struct {
	// Level: debug / info / warn / error
	Level string `mapstructure:"level" yaml:"level"`
	// Format: text / json
	Format string `mapstructure:"format" yaml:"format"`
}

// NewDefault 回傳全部欄位都有值的預設設定，Load 會在其上覆寫
func NewDefault() *Config {
	return &Config{
		Server: ServerConfig{Addr: "localhost:50051"},
		Ledger: LedgerConfig{Dir: "ledgers"},
		Kafka:  KafkaConfig{Topic: "atm.transactions"},
		Telemetry: TelemetryConfig{
			ServiceName:    "atm",
			ServiceVersion: "dev",
			Interval:       10 * time.Second,
		},
		Log: LogConfig{Level: "info", Format: "text"},
	}
}

// YAML 輸出目前生效的設定
func (c *Config) YAML() ([]byte, error) {
	return yaml.Marshal(c)
}
