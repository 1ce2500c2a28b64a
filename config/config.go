package config

import (
	"log"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"
)

const (
	// DefaultSheetTab is the tab name of a freshly created Korean-locale spreadsheet
	DefaultSheetTab = "시트1"

	// Sheet backend identifiers accepted by SHEET_BACKEND
	BackendAuto     = "auto"
	BackendScript   = "script"
	BackendSheets   = "sheets"
	BackendWorkbook = "workbook"
)

var defaultHeroSlides = []string{
	"/static/images/slides/store-1.jpg",
	"/static/images/slides/store-2.jpg",
	"/static/images/slides/store-3.jpg",
	"/static/images/slides/menu-1.jpg",
}

type Config struct {
	ServerPort  string
	Environment string
	AppURL      string
	BrandName   string
	// Sheet storage
	SheetBackend      string
	GoogleClientEmail string
	GooglePrivateKey  string // Raw value; newline escapes are resolved by sheets.CredentialLoader
	GoogleCredsFile   string
	GoogleSheetID     string
	GoogleSheetTab    string
	GoogleScriptURL   string
	WorkbookPath      string
	// Email
	EnableEmailNotifications bool
	EmailTestMode            bool // When true, emails are logged to console instead of sent
	ResendAPIKey             string
	EmailFrom                string
	EmailFromName            string
	NotificationEmail        string
	SMTPHost                 string
	SMTPPort                 int
	SMTPUser                 string
	SMTPPass                 string
	GmailUser                string
	GmailAppPassword         string
	KakaoChatURL             string
	EnableDailyDigest        bool
	DailyDigestSchedule      string // cron spec, evaluated in Asia/Seoul
	// Lead policy
	RequireMarketingConsent bool
	// Cloudflare Turnstile
	TurnstileSiteKey   string
	TurnstileSecretKey string
	// Landing page
	HeroSlides []string
	// Other
	AllowedOrigins  []string
	OutboundTimeout time.Duration
	StatsCacheTTL   time.Duration
}

func Load() *Config {
	// Load .env file (ignore error if not present - use system env vars)
	if err := godotenv.Load(); err != nil {
		log.Println("No .env file found, using system environment variables")
	}

	return &Config{
		ServerPort:               getEnv("SERVER_PORT", "8080"),
		Environment:              getEnv("ENVIRONMENT", "development"),
		AppURL:                   getEnv("APP_URL", "http://localhost:8080"),
		BrandName:                getEnvAny([]string{"EMAIL_FROM_NAME", "COMPANY_NAME"}, "바나타이거"),
		SheetBackend:             strings.ToLower(getEnv("SHEET_BACKEND", BackendAuto)),
		GoogleClientEmail:        getSecretEnv("GOOGLE_CLIENT_EMAIL"),
		GooglePrivateKey:         getSecretEnv("GOOGLE_PRIVATE_KEY"),
		GoogleCredsFile:          getSecretEnv("GOOGLE_APPLICATION_CREDENTIALS"),
		GoogleSheetID:            getEnv("GOOGLE_SHEET_ID", ""),
		GoogleSheetTab:           getEnvAny([]string{"GOOGLE_SHEET_NAME", "GOOGLE_SHEET_TAB"}, DefaultSheetTab),
		GoogleScriptURL:          getEnvAny([]string{"GOOGLE_SCRIPT_URL", "NEXT_PUBLIC_GOOGLE_SCRIPT_URL"}, ""),
		WorkbookPath:             getEnv("WORKBOOK_PATH", ""),
		EnableEmailNotifications: getEnvBool("ENABLE_EMAIL_NOTIFICATIONS", true),
		EmailTestMode:            getEnvBool("EMAIL_TEST_MODE", false),
		ResendAPIKey:             getSecretEnv("RESEND_API_KEY"),
		EmailFrom:                getEnvAny([]string{"RESEND_FROM_EMAIL", "EMAIL_FROM"}, ""),
		EmailFromName:            getEnvAny([]string{"EMAIL_FROM_NAME", "COMPANY_NAME"}, "바나타이거"),
		NotificationEmail:        getEnvAny([]string{"NOTIFICATION_EMAIL", "COMPANY_RECEIVER_EMAIL", "NOTIFY_TO"}, ""),
		SMTPHost:                 getEnv("SMTP_HOST", ""),
		SMTPPort:                 getEnvInt("SMTP_PORT", 587),
		SMTPUser:                 getEnv("SMTP_USER", ""),
		SMTPPass:                 getSecretEnv("SMTP_PASS"),
		GmailUser:                getEnv("GMAIL_USER", ""),
		GmailAppPassword:         getSecretEnv("GMAIL_APP_PASSWORD"),
		KakaoChatURL:             getEnv("KAKAO_CHAT_URL", ""),
		EnableDailyDigest:        getEnvBool("ENABLE_DAILY_DIGEST", false),
		DailyDigestSchedule:      getEnv("DAILY_DIGEST_SCHEDULE", "0 9 * * *"),
		RequireMarketingConsent:  getEnvBool("REQUIRE_MARKETING_CONSENT", true),
		TurnstileSiteKey:         getEnv("TURNSTILE_SITE_KEY", ""),
		TurnstileSecretKey:       getSecretEnv("TURNSTILE_SECRET_KEY"),
		HeroSlides:               getEnvList("HERO_SLIDES", defaultHeroSlides),
		AllowedOrigins:           getEnvList("ALLOWED_ORIGINS", []string{"*"}),
		OutboundTimeout:          getEnvDuration("OUTBOUND_TIMEOUT", 15*time.Second),
		StatsCacheTTL:            getEnvDuration("STATS_CACHE_TTL", 10*time.Second),
	}
}

// ResolveSheetBackend picks the sheet backend. An explicit SHEET_BACKEND wins;
// otherwise the first configured of script URL, sheet ID, workbook path is used.
// Returns "" when nothing usable is configured.
func (c *Config) ResolveSheetBackend() string {
	switch c.SheetBackend {
	case BackendScript, BackendSheets, BackendWorkbook:
		return c.SheetBackend
	}

	switch {
	case c.GoogleScriptURL != "":
		return BackendScript
	case c.GoogleSheetID != "":
		return BackendSheets
	case c.WorkbookPath != "":
		return BackendWorkbook
	default:
		return ""
	}
}

// NotificationSender returns the address used in the From header
func (c *Config) NotificationSender() string {
	switch {
	case c.EmailFrom != "":
		return c.EmailFrom
	case c.GmailUser != "":
		return c.GmailUser
	default:
		return c.SMTPUser
	}
}

func getEnv(key, defaultValue string) string {
	value := os.Getenv(key)
	if value == "" {
		if defaultValue != "" {
			log.Printf("Using default value for %s: %s", key, defaultValue)
		}
		return defaultValue
	}
	return value
}

// getEnvAny returns the first non-empty value among keys (aliases kept for older deployments)
func getEnvAny(keys []string, defaultValue string) string {
	for _, key := range keys {
		if value := os.Getenv(key); value != "" {
			return value
		}
	}
	return defaultValue
}

// getSecretEnv reads a credential without ever logging its value
func getSecretEnv(key string) string {
	return os.Getenv(key)
}

func getEnvBool(key string, defaultValue bool) bool {
	value := os.Getenv(key)
	if value == "" {
		return defaultValue
	}
	// Accept common boolean representations
	switch strings.ToLower(value) {
	case "true", "1", "yes", "on":
		return true
	case "false", "0", "no", "off":
		return false
	default:
		return defaultValue
	}
}

// getEnvList splits a comma-separated value, dropping blank entries
func getEnvList(key string, defaultValue []string) []string {
	value := os.Getenv(key)
	if value == "" {
		return defaultValue
	}
	var out []string
	for _, item := range strings.Split(value, ",") {
		if item = strings.TrimSpace(item); item != "" {
			out = append(out, item)
		}
	}
	if len(out) == 0 {
		return defaultValue
	}
	return out
}

func getEnvInt(key string, defaultValue int) int {
	value := os.Getenv(key)
	if value == "" {
		return defaultValue
	}
	n, err := strconv.Atoi(value)
	if err != nil {
		log.Printf("[WARNING] Invalid integer for %s (%q), using %d", key, value, defaultValue)
		return defaultValue
	}
	return n
}

func getEnvDuration(key string, defaultValue time.Duration) time.Duration {
	value := os.Getenv(key)
	if value == "" {
		return defaultValue
	}
	d, err := time.ParseDuration(value)
	if err != nil {
		log.Printf("[WARNING] Invalid duration for %s (%q), using %s", key, value, defaultValue)
		return defaultValue
	}
	return d
}
