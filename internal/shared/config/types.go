package config

import (
	"fmt"
	"time"
)

type ServerConfig struct {
	Host    string `mapstructure:"host"`
	Port    int    `mapstructure:"port"`
	Mode    string `mapstructure:"mode"`
	BaseURL string `mapstructure:"base_url"`
}

func (s *ServerConfig) GetAddr() string {
	return fmt.Sprintf("%s:%d", s.Host, s.Port)
}

type DatabaseConfig struct {
	Driver          string `mapstructure:"driver"`
	Host            string `mapstructure:"host"`
	Port            int    `mapstructure:"port"`
	Username        string `mapstructure:"username"`
	Password        string `mapstructure:"password"`
	Database        string `mapstructure:"database"`
	MaxIdleConns    int    `mapstructure:"max_idle_conns"`
	MaxOpenConns    int    `mapstructure:"max_open_conns"`
	ConnMaxLifetime int    `mapstructure:"conn_max_lifetime"`
}

func (d *DatabaseConfig) GetDSN() string {
	return fmt.Sprintf("%s:%s@tcp(%s:%d)/%s?charset=utf8mb4&parseTime=True&loc=Local",
		d.Username, d.Password, d.Host, d.Port, d.Database)
}

type LoggerConfig struct {
	Level      string `mapstructure:"level"`
	Format     string `mapstructure:"format"`
	OutputPath string `mapstructure:"output_path"`
}

type JWTConfig struct {
	Secret           string `mapstructure:"secret"`
	AccessExpMinutes int    `mapstructure:"access_exp_minutes"`
}

type AuthConfig struct {
	JWT JWTConfig `mapstructure:"jwt"`
	// AllowUserIDFallback lets requests without a bearer token identify the
	// user by a user_id body field. Only for trusted internal networks.
	AllowUserIDFallback bool `mapstructure:"allow_user_id_fallback"`
}

type EmailConfig struct {
	SMTPHost     string `mapstructure:"smtp_host"`
	SMTPPort     int    `mapstructure:"smtp_port"`
	SMTPUser     string `mapstructure:"smtp_user"`
	SMTPPassword string `mapstructure:"smtp_password"`
	FromAddress  string `mapstructure:"from_address"`
	FromName     string `mapstructure:"from_name"`
}

func (e *EmailConfig) IsConfigured() bool {
	return e.SMTPHost != "" && e.FromAddress != ""
}

// PanelConfig holds the connection settings for the external VPN provider panel.
// AuthMode "basic" exchanges admin credentials for a session cookie; "token"
// sends a static bearer token on every request.
type PanelConfig struct {
	BaseURL                string `mapstructure:"base_url"`
	AuthMode               string `mapstructure:"auth_mode"`
	Username               string `mapstructure:"username"`
	Password               string `mapstructure:"password"`
	APIToken               string `mapstructure:"api_token"`
	TimeoutSeconds         int    `mapstructure:"timeout_seconds"`
	RefreshIntervalMinutes int    `mapstructure:"refresh_interval_minutes"`
	InsecureSkipVerify     bool   `mapstructure:"insecure_skip_verify"`
}

func (p *PanelConfig) Timeout() time.Duration {
	if p.TimeoutSeconds <= 0 {
		return 10 * time.Second
	}
	return time.Duration(p.TimeoutSeconds) * time.Second
}

func (p *PanelConfig) RefreshInterval() time.Duration {
	if p.RefreshIntervalMinutes <= 0 {
		return time.Hour
	}
	return time.Duration(p.RefreshIntervalMinutes) * time.Minute
}

// DeliveryConfig controls how connection material is handed to end users.
type DeliveryConfig struct {
	HMACSecret       string `mapstructure:"hmac_secret"`
	TokenTTLSeconds  int    `mapstructure:"token_ttl_seconds"`
	DefaultTrafficGB int    `mapstructure:"default_traffic_gb"`
}

func (d *DeliveryConfig) TokenTTL() time.Duration {
	if d.TokenTTLSeconds <= 0 {
		return 300 * time.Second
	}
	return time.Duration(d.TokenTTLSeconds) * time.Second
}

type SchedulerConfig struct {
	ExpiryScanIntervalMinutes   int `mapstructure:"expiry_scan_interval_minutes"`
	MailingDrainIntervalMinutes int `mapstructure:"mailing_drain_interval_minutes"`
}

func (s *SchedulerConfig) ExpiryScanInterval() time.Duration {
	if s.ExpiryScanIntervalMinutes <= 0 {
		return time.Hour
	}
	return time.Duration(s.ExpiryScanIntervalMinutes) * time.Minute
}

func (s *SchedulerConfig) MailingDrainInterval() time.Duration {
	if s.MailingDrainIntervalMinutes <= 0 {
		return 5 * time.Minute
	}
	return time.Duration(s.MailingDrainIntervalMinutes) * time.Minute
}
