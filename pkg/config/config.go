package config

import "time"

// WebService definition web_service YAML structure
type WebService struct {
	Port       string        `mapstructure:"port"`
	SessionTTL time.Duration `mapstructure:"session_ttl"`

	Socket       SocketConfig  `mapstructure:"socket"`
	AuthService  ServiceConfig `mapstructure:"auth"`
	RedisSession RedisConfig   `mapstructure:"redis"`
}

// SocketConfig definition realtime socket setting
type SocketConfig struct {
	// Endpoint ws:// 或 wss:// 連線位址
	Endpoint string `mapstructure:"endpoint"`
	// ReconnectDelay 斷線後重連等待時間 (預設 3s)
	ReconnectDelay time.Duration `mapstructure:"reconnect_delay"`
	// TypingTTL typing 狀態自動過期時間, 0 表示不過期
	TypingTTL time.Duration `mapstructure:"typing_ttl"`
}

// ServiceConfig definition service address & name
type ServiceConfig struct {
	URL  string `mapstructure:"service_url"`
	Name string `mapstructure:"service_name"`
}

// RedisConfig definition redis setting
type RedisConfig struct {
	RedisDB int `mapstructure:"redis_db"`
}
