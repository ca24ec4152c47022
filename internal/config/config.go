package config

import (
	"errors"
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"

	"github.com/xavierca1/bizdev-chatbot/internal/entity"
)

var ErrMissing = errors.New("missing required configuration")

type Config struct {
	Port               string
	LogLevel           string
	LogFormat          string
	DatabaseURL        string
	AutoProvision      bool
	RequestTimeout     time.Duration
	CORSAllowedOrigins []string
	RateLimitPerMinute int

	SMTPHost     string
	SMTPPort     int
	SMTPUser     string
	SMTPPassword string
	MailSender   string
	MailFromName string
	CCEmails     []string
	Receivers    map[entity.Category][]string
	Subjects     map[entity.Category]string

	IPLookupURL   string
	GeoLookupURL  string
	WeatherAPIKey string
	WeatherAPIURL string

	RabbitMQURL string
}

// Load reads .env (when present) and then the process environment.
func Load() (*Config, error) {
	_ = godotenv.Load()
	return FromEnv(os.Getenv)
}

// FromEnv builds the configuration from a lookup function.
func FromEnv(getenv func(string) string) (*Config, error) {
	get := func(key, fallback string) string {
		if v := strings.TrimSpace(getenv(key)); v != "" {
			return v
		}
		return fallback
	}

	cfg := &Config{
		Port:          get("PORT", "8000"),
		LogLevel:      get("LOG_LEVEL", "info"),
		LogFormat:     get("LOG_FORMAT", "json"),
		DatabaseURL:   get("DATABASE_URL", ""),
		SMTPHost:      get("SMTP_HOST", ""),
		SMTPUser:      get("SMTP_USER", ""),
		SMTPPassword:  get("SMTP_PASSWORD", ""),
		MailSender:    get("MAIL_SENDER", ""),
		MailFromName:  get("MAIL_FROM_NAME", "Chatbot_Datanetiix"),
		CCEmails:      splitList(get("CC_EMAILS", "")),
		IPLookupURL:   get("IP_LOOKUP_URL", ""),
		GeoLookupURL:  get("GEO_LOOKUP_URL", ""),
		WeatherAPIKey: get("WEATHER_API_KEY", ""),
		WeatherAPIURL: get("WEATHER_API_URL", ""),
		RabbitMQURL:   get("RABBITMQ_URL", ""),

		CORSAllowedOrigins: splitList(get("CORS_ALLOWED_ORIGINS", "*")),
		Receivers:          make(map[entity.Category][]string),
		Subjects:           make(map[entity.Category]string),
	}

	var err error
	if cfg.AutoProvision, err = strconv.ParseBool(get("AUTO_PROVISION", "true")); err != nil {
		return nil, fmt.Errorf("AUTO_PROVISION: %w", err)
	}
	if cfg.RequestTimeout, err = time.ParseDuration(get("REQUEST_TIMEOUT", "15s")); err != nil {
		return nil, fmt.Errorf("REQUEST_TIMEOUT: %w", err)
	}
	if cfg.RateLimitPerMinute, err = strconv.Atoi(get("RATE_LIMIT_PER_MINUTE", "30")); err != nil {
		return nil, fmt.Errorf("RATE_LIMIT_PER_MINUTE: %w", err)
	}
	if cfg.SMTPPort, err = strconv.Atoi(get("SMTP_PORT", "587")); err != nil {
		return nil, fmt.Errorf("SMTP_PORT: %w", err)
	}

	shared := splitList(get("RECEIVER_EMAILS", ""))
	for _, c := range entity.Categories() {
		prefix := strings.ToUpper(string(c))
		receivers := splitList(get(prefix+"_RECEIVER_EMAILS", ""))
		if len(receivers) == 0 {
			receivers = shared
		}
		cfg.Receivers[c] = receivers
		cfg.Subjects[c] = get(prefix+"_EMAIL_SUBJECT", "Chatbot - "+c.Label()+" conversation")
	}

	if err := cfg.validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

func (c *Config) validate() error {
	var missing []string
	if c.DatabaseURL == "" {
		missing = append(missing, "DATABASE_URL")
	}
	if c.SMTPHost == "" {
		missing = append(missing, "SMTP_HOST")
	}
	if c.MailSender == "" {
		missing = append(missing, "MAIL_SENDER")
	}
	for _, cat := range entity.Categories() {
		if len(c.Receivers[cat]) == 0 {
			missing = append(missing, strings.ToUpper(string(cat))+"_RECEIVER_EMAILS (or RECEIVER_EMAILS)")
		}
	}
	if len(missing) > 0 {
		return fmt.Errorf("%w: %s", ErrMissing, strings.Join(missing, ", "))
	}
	return nil
}

func splitList(raw string) []string {
	var out []string
	for _, part := range strings.Split(raw, ",") {
		if part = strings.TrimSpace(part); part != "" {
			out = append(out, part)
		}
	}
	return out
}
