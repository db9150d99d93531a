package config

import (
	"os"
	"path/filepath"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"
)

type Config struct {
	HTTPAddr string
	LogLevel string
	LogFile  string

	TelegramBotToken string
	TelegramChatID   string
	TelegramAPIURL   string
	TelegramTimeout  time.Duration

	GeoAPIURL  string
	GeoLang    string
	GeoTimeout time.Duration

	SessionTTL    time.Duration
	ScreenInfoTTL time.Duration
	DedupTTL      time.Duration
	SweepInterval time.Duration

	ProbeEnabled  bool
	ProbeDNSAddr  string
	ProbeTimeout  time.Duration
	ProbeCacheTTL time.Duration

	FallbackLogPath string
	CertDir         string
	StaticDir       string
	ProfilePath     string
	SiteURL         string

	CookieSecure   bool
	TrustedProxies []string
	RateLimitRPS   float64
	RateLimitBurst int
	MetricsEnabled bool

	RabbitMQURL       string
	RabbitExchange    string
	RabbitQueue       string
	RabbitRoutingKey  string
	RabbitConsumerTag string

	OTELServiceName string
	OTLPEndpoint    string
	OTLPInsecure    bool
}

func New() *Config {
	_ = godotenv.Load()

	cfg := &Config{
		HTTPAddr:          ":5000",
		LogLevel:          "info",
		LogFile:           "logs/app.log",
		TelegramAPIURL:    "https://api.telegram.org",
		TelegramTimeout:   3 * time.Second,
		GeoAPIURL:         "http://ip-api.com",
		GeoLang:           "en",
		GeoTimeout:        2 * time.Second,
		SessionTTL:        30 * time.Minute,
		ScreenInfoTTL:     2 * time.Minute,
		DedupTTL:          60 * time.Second,
		SweepInterval:     5 * time.Minute,
		ProbeEnabled:      true,
		ProbeDNSAddr:      "8.8.8.8:53",
		ProbeTimeout:      2 * time.Second,
		ProbeCacheTTL:     15 * time.Second,
		FallbackLogPath:   "logs/undelivered.log",
		CertDir:           "certs",
		StaticDir:         "static",
		ProfilePath:       "bio.yaml",
		SiteURL:           "https://127.0.0.1:5000/",
		TrustedProxies:    []string{"127.0.0.1", "::1"},
		RateLimitRPS:      1,
		RateLimitBurst:    10,
		MetricsEnabled:    true,
		RabbitExchange:    "notifications",
		RabbitQueue:       "notifications.telegram",
		RabbitRoutingKey:  "notification.telegram",
		RabbitConsumerTag: "telegram-relay",
		OTELServiceName:   "linkbio",
		OTLPInsecure:      true,
	}

	if addr := os.Getenv("HTTP_ADDR"); addr != "" {
		cfg.HTTPAddr = addr
	} else if port := os.Getenv("PORT"); port != "" {
		cfg.HTTPAddr = ":" + port
	}

	if v := os.Getenv("LOG_LEVEL"); v != "" {
		cfg.LogLevel = v
	}
	if v := os.Getenv("LOG_FILE"); v != "" {
		cfg.LogFile = v
	}

	cfg.TelegramBotToken = os.Getenv("TELEGRAM_BOT_TOKEN")
	cfg.TelegramChatID = os.Getenv("TELEGRAM_CHAT_ID")
	if v := os.Getenv("TELEGRAM_API_URL"); v != "" {
		cfg.TelegramAPIURL = strings.TrimRight(v, "/")
	}
	if v := os.Getenv("GEO_API_URL"); v != "" {
		cfg.GeoAPIURL = strings.TrimRight(v, "/")
	}
	if v := os.Getenv("GEO_LANG"); v != "" {
		cfg.GeoLang = v
	}
	if v := os.Getenv("PROBE_DNS_ADDR"); v != "" {
		cfg.ProbeDNSAddr = v
	}
	if v := os.Getenv("FALLBACK_LOG_PATH"); v != "" {
		cfg.FallbackLogPath = v
	}
	if v := os.Getenv("CERT_DIR"); v != "" {
		cfg.CertDir = v
	}
	if v := os.Getenv("STATIC_DIR"); v != "" {
		cfg.StaticDir = v
	}
	if v := os.Getenv("BIO_PROFILE_PATH"); v != "" {
		cfg.ProfilePath = v
	}
	if v := os.Getenv("SITE_URL"); v != "" {
		cfg.SiteURL = v
	}
	if v := os.Getenv("TRUSTED_PROXIES"); v != "" {
		cfg.TrustedProxies = splitList(v)
	}

	cfg.RabbitMQURL = os.Getenv("RABBITMQ_URL")
	if v := os.Getenv("RABBITMQ_EXCHANGE"); v != "" {
		cfg.RabbitExchange = v
	}
	if v := os.Getenv("RABBITMQ_QUEUE"); v != "" {
		cfg.RabbitQueue = v
	}
	if v := os.Getenv("RABBITMQ_ROUTING_KEY"); v != "" {
		cfg.RabbitRoutingKey = v
	}
	if v := os.Getenv("RABBITMQ_CONSUMER_TAG"); v != "" {
		cfg.RabbitConsumerTag = v
	}

	if v := os.Getenv("OTEL_SERVICE_NAME"); v != "" {
		cfg.OTELServiceName = v
	}
	if v := os.Getenv("OTEL_EXPORTER_OTLP_ENDPOINT"); v != "" {
		cfg.OTLPEndpoint = v
	}

	setBool("OTEL_EXPORTER_OTLP_INSECURE", &cfg.OTLPInsecure)
	setBool("PROBE_ENABLED", &cfg.ProbeEnabled)
	setBool("COOKIE_SECURE", &cfg.CookieSecure)
	setBool("METRICS_ENABLED", &cfg.MetricsEnabled)

	setSeconds("TELEGRAM_TIMEOUT_SECONDS", &cfg.TelegramTimeout)
	setSeconds("GEO_TIMEOUT_SECONDS", &cfg.GeoTimeout)
	setSeconds("SESSION_TTL_SECONDS", &cfg.SessionTTL)
	setSeconds("SCREEN_INFO_TTL_SECONDS", &cfg.ScreenInfoTTL)
	setSeconds("DEDUP_TTL_SECONDS", &cfg.DedupTTL)
	setSeconds("SWEEP_INTERVAL_SECONDS", &cfg.SweepInterval)
	setSeconds("PROBE_TIMEOUT_SECONDS", &cfg.ProbeTimeout)
	setSeconds("PROBE_CACHE_SECONDS", &cfg.ProbeCacheTTL)

	if v := os.Getenv("RATE_LIMIT_RPS"); v != "" {
		if f, err := strconv.ParseFloat(v, 64); err == nil && f > 0 {
			cfg.RateLimitRPS = f
		}
	}
	if v := os.Getenv("RATE_LIMIT_BURST"); v != "" {
		if n, err := strconv.Atoi(v); err == nil && n > 0 {
			cfg.RateLimitBurst = n
		}
	}

	return cfg
}

// TelegramConfigured reports whether both bot credentials are present.
func (c *Config) TelegramConfigured() bool {
	return c.TelegramBotToken != "" && c.TelegramChatID != ""
}

// TLSFiles returns the certificate and key paths inside CertDir and whether
// both exist on disk.
func (c *Config) TLSFiles() (certFile, keyFile string, ok bool) {
	certFile = filepath.Join(c.CertDir, "cert.pem")
	keyFile = filepath.Join(c.CertDir, "key.pem")
	if _, err := os.Stat(certFile); err != nil {
		return certFile, keyFile, false
	}
	if _, err := os.Stat(keyFile); err != nil {
		return certFile, keyFile, false
	}
	return certFile, keyFile, true
}

func setBool(key string, dst *bool) {
	if v := os.Getenv(key); v != "" {
		if b, err := strconv.ParseBool(v); err == nil {
			*dst = b
		}
	}
}

func setSeconds(key string, dst *time.Duration) {
	if v := os.Getenv(key); v != "" {
		if n, err := strconv.Atoi(v); err == nil && n > 0 {
			*dst = time.Duration(n) * time.Second
		}
	}
}

func splitList(v string) []string {
	var out []string
	for _, part := range strings.Split(v, ",") {
		if part = strings.TrimSpace(part); part != "" {
			out = append(out, part)
		}
	}
	return out
}
