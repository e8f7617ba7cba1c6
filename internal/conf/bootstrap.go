// Package conf provides configuration management using Viper.
// It supports loading configuration from YAML files and environment variables.
package conf

import (
	"fmt"
	"strings"
	"time"

	"github.com/spf13/viper"
)

// NewBootstrap loads configuration from an optional file and the environment.
//
// Configuration priority: Environment variables > Config file > Defaults
//
// Every key can be set with the AUTHORMITY_ prefix (data.database.source →
// AUTHORMITY_DATA_DATABASE_SOURCE). The deployment names below are bound too:
//   - MYSQL_DSN, REDIS_ADDR
//   - SESSION_SECRET, TOKEN_ENCRYPTION_KEY
//   - LINKEDIN_CLIENT_ID, LINKEDIN_CLIENT_SECRET, LINKEDIN_REDIRECT_URI
//   - OPENROUTER_API_KEY, OPENROUTER_MODEL
//   - DODO_WEBHOOK_SECRET, CRON_SECRET, APP_URL
func NewBootstrap(configPath string) (*Bootstrap, error) {
	v := viper.New()

	setDefaults(v)

	v.SetEnvPrefix("AUTHORMITY")
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	for key, names := range legacyEnv {
		_ = v.BindEnv(append([]string{key}, names...)...)
	}

	if configPath != "" {
		v.SetConfigFile(configPath)
		if err := v.ReadInConfig(); err != nil {
			return nil, fmt.Errorf("failed to read config file %s: %w", configPath, err)
		}
	}

	bc := &Bootstrap{
		Server: &Server{
			HTTP: &Endpoint{
				Network: v.GetString("server.http.network"),
				Addr:    v.GetString("server.http.addr"),
				Timeout: v.GetDuration("server.http.timeout"),
			},
			GRPC: &Endpoint{
				Network: v.GetString("server.grpc.network"),
				Addr:    v.GetString("server.grpc.addr"),
				Timeout: v.GetDuration("server.grpc.timeout"),
			},
			AppURL: v.GetString("server.app_url"),
		},
		Data: &Data{
			Database: &Database{
				Driver:          v.GetString("data.database.driver"),
				Source:          v.GetString("data.database.source"),
				MaxIdleConns:    v.GetInt("data.database.max_idle_conns"),
				MaxOpenConns:    v.GetInt("data.database.max_open_conns"),
				ConnMaxLifetime: v.GetDuration("data.database.conn_max_lifetime"),
				AutoMigrate:     v.GetBool("data.database.auto_migrate"),
			},
			Redis: &Redis{
				Network:      v.GetString("data.redis.network"),
				Addr:         v.GetString("data.redis.addr"),
				Password:     v.GetString("data.redis.password"),
				DB:           v.GetInt("data.redis.db"),
				ReadTimeout:  v.GetDuration("data.redis.read_timeout"),
				WriteTimeout: v.GetDuration("data.redis.write_timeout"),
			},
		},
		Auth: &Auth{
			Session: &Session{
				Secret:        v.GetString("auth.session.secret"),
				TTL:           v.GetDuration("auth.session.ttl"),
				CookieName:    v.GetString("auth.session.cookie_name"),
				StateTTL:      v.GetDuration("auth.session.state_ttl"),
				SecureCookies: v.GetBool("auth.session.secure_cookies"),
			},
			Encryption: &Encryption{
				Key: v.GetString("auth.encryption.key"),
			},
		},
		LinkedIn: &LinkedIn{
			ClientID:     v.GetString("linkedin.client_id"),
			ClientSecret: v.GetString("linkedin.client_secret"),
			RedirectURL:  v.GetString("linkedin.redirect_url"),
			ProxyURL:     v.GetString("linkedin.proxy_url"),
			Timeout:      v.GetDuration("linkedin.timeout"),
		},
		LLM: &LLM{
			APIKey:       v.GetString("llm.api_key"),
			BaseURL:      v.GetString("llm.base_url"),
			Model:        v.GetString("llm.model"),
			ProxyURL:     v.GetString("llm.proxy_url"),
			Timeout:      v.GetDuration("llm.timeout"),
			RetryBackoff: v.GetDuration("llm.retry_backoff"),
		},
		Billing: &Billing{
			WebhookSecret: v.GetString("billing.webhook_secret"),
		},
		Scheduler: &Scheduler{
			Enabled:       v.GetBool("scheduler.enabled"),
			PublishSpec:   v.GetString("scheduler.publish_spec"),
			CronSecret:    v.GetString("scheduler.cron_secret"),
			Window:        v.GetDuration("scheduler.window"),
			RefreshBefore: v.GetDuration("scheduler.refresh_before"),
		},
		RateLimit: &RateLimit{
			RequestsPerMinute: v.GetInt("rate_limit.requests_per_minute"),
			LocalCacheSize:    v.GetInt("rate_limit.local_cache_size"),
		},
		Log: &Log{
			Level:      v.GetString("log.level"),
			Format:     v.GetString("log.format"),
			Env:        v.GetString("log.env"),
			OutputFile: v.GetString("log.output_file"),
		},
	}

	if err := Validate(bc); err != nil {
		return nil, err
	}

	return bc, nil
}

// 兼容部署环境中已有的变量名
var legacyEnv = map[string][]string{
	"data.database.source":   {"MYSQL_DSN", "AUTHORMITY_DATA_DATABASE_SOURCE"},
	"data.redis.addr":        {"REDIS_ADDR", "AUTHORMITY_DATA_REDIS_ADDR"},
	"auth.session.secret":    {"SESSION_SECRET", "AUTHORMITY_AUTH_SESSION_SECRET"},
	"auth.encryption.key":    {"TOKEN_ENCRYPTION_KEY", "AUTHORMITY_AUTH_ENCRYPTION_KEY"},
	"linkedin.client_id":     {"LINKEDIN_CLIENT_ID", "AUTHORMITY_LINKEDIN_CLIENT_ID"},
	"linkedin.client_secret": {"LINKEDIN_CLIENT_SECRET", "AUTHORMITY_LINKEDIN_CLIENT_SECRET"},
	"linkedin.redirect_url":  {"LINKEDIN_REDIRECT_URI", "AUTHORMITY_LINKEDIN_REDIRECT_URL"},
	"llm.api_key":            {"OPENROUTER_API_KEY", "AUTHORMITY_LLM_API_KEY"},
	"llm.model":              {"OPENROUTER_MODEL", "AUTHORMITY_LLM_MODEL"},
	"billing.webhook_secret": {"DODO_WEBHOOK_SECRET", "AUTHORMITY_BILLING_WEBHOOK_SECRET"},
	"scheduler.cron_secret":  {"CRON_SECRET", "AUTHORMITY_SCHEDULER_CRON_SECRET"},
	"server.app_url":         {"APP_URL", "AUTHORMITY_SERVER_APP_URL"},
}

func setDefaults(v *viper.Viper) {
	v.SetDefault("server.http.network", "tcp")
	v.SetDefault("server.http.addr", ":8080")
	v.SetDefault("server.http.timeout", 60*time.Second)
	v.SetDefault("server.grpc.network", "tcp")
	v.SetDefault("server.grpc.addr", ":9000")
	v.SetDefault("server.grpc.timeout", 10*time.Second)
	v.SetDefault("server.app_url", "https://authormity.com")

	v.SetDefault("data.database.driver", "mysql")
	v.SetDefault("data.database.max_idle_conns", 10)
	v.SetDefault("data.database.max_open_conns", 100)
	v.SetDefault("data.database.conn_max_lifetime", time.Hour)
	v.SetDefault("data.database.auto_migrate", false)

	v.SetDefault("data.redis.network", "tcp")
	v.SetDefault("data.redis.read_timeout", 200*time.Millisecond)
	v.SetDefault("data.redis.write_timeout", 200*time.Millisecond)

	v.SetDefault("auth.session.ttl", 7*24*time.Hour)
	v.SetDefault("auth.session.cookie_name", "authormity_session")
	v.SetDefault("auth.session.state_ttl", 10*time.Minute)
	v.SetDefault("auth.session.secure_cookies", true)

	v.SetDefault("linkedin.timeout", 15*time.Second)

	v.SetDefault("llm.base_url", "https://openrouter.ai/api/v1")
	v.SetDefault("llm.model", "arcee-ai/trinity-large-preview:free")
	v.SetDefault("llm.timeout", 60*time.Second)
	v.SetDefault("llm.retry_backoff", time.Second)

	v.SetDefault("scheduler.enabled", true)
	v.SetDefault("scheduler.publish_spec", "0 */5 * * * *")
	v.SetDefault("scheduler.window", 10*time.Minute)
	v.SetDefault("scheduler.refresh_before", 5*24*time.Hour)

	v.SetDefault("rate_limit.requests_per_minute", 30)
	v.SetDefault("rate_limit.local_cache_size", 10000)

	v.SetDefault("log.level", "info")
	v.SetDefault("log.format", "json")
}

// Validate checks that all required configuration fields are present.
// It returns an error listing all missing required fields.
func Validate(bc *Bootstrap) error {
	var missing []string

	if bc.Data == nil || bc.Data.Database == nil || bc.Data.Database.Source == "" {
		missing = append(missing, "data.database.source (MYSQL_DSN)")
	}
	if bc.Auth == nil || bc.Auth.Session == nil || bc.Auth.Session.Secret == "" {
		missing = append(missing, "auth.session.secret (SESSION_SECRET)")
	}
	if bc.Auth == nil || bc.Auth.Encryption == nil || bc.Auth.Encryption.Key == "" {
		missing = append(missing, "auth.encryption.key (TOKEN_ENCRYPTION_KEY)")
	}
	if bc.LinkedIn == nil || bc.LinkedIn.ClientID == "" {
		missing = append(missing, "linkedin.client_id (LINKEDIN_CLIENT_ID)")
	}
	if bc.LinkedIn == nil || bc.LinkedIn.ClientSecret == "" {
		missing = append(missing, "linkedin.client_secret (LINKEDIN_CLIENT_SECRET)")
	}
	if bc.LLM == nil || bc.LLM.APIKey == "" {
		missing = append(missing, "llm.api_key (OPENROUTER_API_KEY)")
	}

	if len(missing) > 0 {
		return fmt.Errorf("missing required configuration fields: %s", strings.Join(missing, ", "))
	}

	if d := bc.Data.Database.Driver; d != "mysql" && d != "sqlite" {
		return fmt.Errorf("unsupported database driver %q (want mysql or sqlite)", d)
	}

	return nil
}
