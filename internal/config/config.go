package config

import (
	"strings"
	"time"

	"github.com/joho/godotenv"
	"github.com/spf13/viper"
)

// DefaultStateKey is the key the AppState blob is stored under
const DefaultStateKey = "samaj_app_state"

// Config holds application configuration
type Config struct {
	ServerPort     string
	DatabaseType   string
	DatabasePath   string
	DatabaseURL    string
	MigrationsPath string
	StateKey       string
	Debug          bool

	// Demo login
	JWTSecret         string
	SessionDuration   time.Duration
	DemoOTP           string
	AdminPasscode     string
	AdminPasscodeHash string

	// AI extraction
	GeminiAPIKey       string
	GeminiBaseURL      string
	GeminiExtractModel string
	GeminiFastModel    string
	AIMaxRetries       int
	AIBaseDelay        time.Duration

	// Booklet capacities
	BiodataPerPage  int
	ContactsPerPage int

	// Notifications
	AWSRegion                 string
	SESFromEmail              string
	SESFromName               string
	TwilioAccountSID          string
	TwilioAuthToken           string
	TwilioMessagingServiceSID string

	// Snapshots
	GCSCredentialsFile string
	GCSBucket          string
	GCSPrefix          string
	SnapshotCron       string
	TimeZone           string

	RateLimitPerMinute int
	UploadMaxSize      int64
}

func setDefaults(v *viper.Viper) {
	v.SetDefault("server_port", "8080")
	v.SetDefault("database_type", "sqlite")
	v.SetDefault("database_path", "./samaj.db")
	v.SetDefault("database_url", "")
	v.SetDefault("migrations_path", "./migrations")
	v.SetDefault("state_key", DefaultStateKey)
	v.SetDefault("debug", false)

	v.SetDefault("jwt_secret", "change-me")
	v.SetDefault("session_duration", 24*time.Hour)
	v.SetDefault("demo_otp", "1234")
	v.SetDefault("admin_passcode", "admin123")
	v.SetDefault("admin_passcode_hash", "")

	v.SetDefault("gemini_api_key", "")
	v.SetDefault("gemini_base_url", "https://generativelanguage.googleapis.com")
	v.SetDefault("gemini_extract_model", "gemini-3-pro-preview")
	v.SetDefault("gemini_fast_model", "gemini-3-flash-preview")
	v.SetDefault("ai_max_retries", 3)
	v.SetDefault("ai_base_delay", 2*time.Second)

	v.SetDefault("booklet_biodata_per_page", 2)
	v.SetDefault("booklet_contacts_per_page", 15)

	v.SetDefault("aws_region", "ap-south-1")
	v.SetDefault("ses_from_email", "")
	v.SetDefault("ses_from_name", "Samaj Setu")
	v.SetDefault("twilio_account_sid", "")
	v.SetDefault("twilio_auth_token", "")
	v.SetDefault("twilio_messaging_service_sid", "")

	v.SetDefault("gcs_credentials_file", "")
	v.SetDefault("gcs_bucket", "")
	v.SetDefault("gcs_prefix", "snapshots")
	v.SetDefault("snapshot_cron", "")
	v.SetDefault("timezone", "Asia/Kolkata")

	v.SetDefault("rate_limit_per_minute", 30)
	v.SetDefault("upload_max_size", 10*1024*1024)
}

// Load reads configuration from an optional .env file, an optional config
// file named by SAMAJ_CONFIG and the environment, in increasing priority.
func Load() (*Config, error) {
	// A missing .env is fine
	_ = godotenv.Load()

	v := viper.New()
	setDefaults(v)
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()
	// PORT is what most hosting platforms export
	_ = v.BindEnv("server_port", "SERVER_PORT", "PORT")

	if file := v.GetString("samaj_config"); file != "" {
		v.SetConfigFile(file)
		if err := v.ReadInConfig(); err != nil {
			return nil, err
		}
	}

	return fromViper(v), nil
}

func fromViper(v *viper.Viper) *Config {
	return &Config{
		ServerPort:     v.GetString("server_port"),
		DatabaseType:   v.GetString("database_type"),
		DatabasePath:   v.GetString("database_path"),
		DatabaseURL:    v.GetString("database_url"),
		MigrationsPath: v.GetString("migrations_path"),
		StateKey:       v.GetString("state_key"),
		Debug:          v.GetBool("debug"),

		JWTSecret:         v.GetString("jwt_secret"),
		SessionDuration:   v.GetDuration("session_duration"),
		DemoOTP:           v.GetString("demo_otp"),
		AdminPasscode:     v.GetString("admin_passcode"),
		AdminPasscodeHash: v.GetString("admin_passcode_hash"),

		GeminiAPIKey:       v.GetString("gemini_api_key"),
		GeminiBaseURL:      v.GetString("gemini_base_url"),
		GeminiExtractModel: v.GetString("gemini_extract_model"),
		GeminiFastModel:    v.GetString("gemini_fast_model"),
		AIMaxRetries:       v.GetInt("ai_max_retries"),
		AIBaseDelay:        v.GetDuration("ai_base_delay"),

		BiodataPerPage:  v.GetInt("booklet_biodata_per_page"),
		ContactsPerPage: v.GetInt("booklet_contacts_per_page"),

		AWSRegion:                 v.GetString("aws_region"),
		SESFromEmail:              v.GetString("ses_from_email"),
		SESFromName:               v.GetString("ses_from_name"),
		TwilioAccountSID:          v.GetString("twilio_account_sid"),
		TwilioAuthToken:           v.GetString("twilio_auth_token"),
		TwilioMessagingServiceSID: v.GetString("twilio_messaging_service_sid"),

		GCSCredentialsFile: v.GetString("gcs_credentials_file"),
		GCSBucket:          v.GetString("gcs_bucket"),
		GCSPrefix:          v.GetString("gcs_prefix"),
		SnapshotCron:       v.GetString("snapshot_cron"),
		TimeZone:           v.GetString("timezone"),

		RateLimitPerMinute: v.GetInt("rate_limit_per_minute"),
		UploadMaxSize:      v.GetInt64("upload_max_size"),
	}
}

// Location returns the configured time zone, falling back to UTC
func (c *Config) Location() *time.Location {
	loc, err := time.LoadLocation(c.TimeZone)
	if err != nil {
		return time.UTC
	}
	return loc
}
