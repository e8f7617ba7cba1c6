package conf

import "time"

// Bootstrap is the root configuration.
type Bootstrap struct {
	Server    *Server
	Data      *Data
	Auth      *Auth
	LinkedIn  *LinkedIn
	LLM       *LLM
	Billing   *Billing
	Scheduler *Scheduler
	RateLimit *RateLimit
	Log       *Log
}

// Server 监听配置
type Server struct {
	HTTP *Endpoint
	GRPC *Endpoint
	// AppURL 对外访问地址，用于 OpenRouter HTTP-Referer
	AppURL string
}

// Endpoint is a listener address.
type Endpoint struct {
	Network string
	Addr    string
	Timeout time.Duration
}

// Data 存储配置
type Data struct {
	Database *Database
	Redis    *Redis
}

// Database selects the gorm dialector. Driver is "mysql" or "sqlite".
type Database struct {
	Driver          string
	Source          string
	MaxIdleConns    int
	MaxOpenConns    int
	ConnMaxLifetime time.Duration
	AutoMigrate     bool
}

// Redis 连接配置，Addr 为空时不启用 Redis
type Redis struct {
	Network      string
	Addr         string
	Password     string
	DB           int
	ReadTimeout  time.Duration
	WriteTimeout time.Duration
}

// Auth 会话与加密配置
type Auth struct {
	Session    *Session
	Encryption *Encryption
}

// Session configures the signed session cookie and the OAuth state cookie.
type Session struct {
	Secret        string
	TTL           time.Duration
	CookieName    string
	StateTTL      time.Duration
	SecureCookies bool
}

// Encryption holds the hex encoded AES-256 key for third-party tokens.
type Encryption struct {
	Key string
}

// LinkedIn OAuth 应用配置
type LinkedIn struct {
	ClientID     string
	ClientSecret string
	RedirectURL  string
	ProxyURL     string
	Timeout      time.Duration
}

// LLM OpenRouter 配置
type LLM struct {
	APIKey       string
	BaseURL      string
	Model        string
	ProxyURL     string
	Timeout      time.Duration
	RetryBackoff time.Duration
}

// Billing 支付回调配置
type Billing struct {
	WebhookSecret string
}

// Scheduler 定时发布配置
type Scheduler struct {
	Enabled       bool
	PublishSpec   string
	CronSecret    string
	Window        time.Duration
	RefreshBefore time.Duration
}

// RateLimit 建议性限流配置
type RateLimit struct {
	RequestsPerMinute int
	LocalCacheSize    int
}

// Log 日志配置
type Log struct {
	Level      string
	Format     string
	Env        string
	OutputFile string
}
