// File: internal/config/config.go
package config

import (
	"fmt"
	"log"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"

	"github.com/iyunix/go-healchat/internal/analysis/mood"
	"github.com/iyunix/go-healchat/internal/analysis/sentiment"
)

type Config struct {
	ServerPort   string
	DatabasePath string
	JWTSecretKey string
	TokenTTL     time.Duration
	Environment  string
	LogLevel     string

	AIAPIKey    string
	AIBaseURL   string
	AIModel     string
	AITimeout   time.Duration
	AIMaxTokens int

	// LexiconFile optionally replaces the built-in sentiment table.
	LexiconFile    string
	PolicyVersion  string
	Thresholds     mood.Thresholds
	AlarmPolarity  float64
	ReportCooldown time.Duration
	ReportMinTexts int

	ChatRatePerMinute int
	ChatRateBurst     int
	AuthRatePerMinute int
	AuthRateBurst     int
	// TrustedProxies lists proxy IPs or CIDRs whose forwarding headers are honoured.
	TrustedProxies    []string
}

// Load reads configuration from environment variables or .env file.
func Load() (*Config, error) {
	env := strings.ToLower(getEnv("GO_ENV", "development"))
	if env != "production" {
		if err := godotenv.Load(); err != nil {
			log.Println("No .env file found; continuing with environment variables")
		}
	}

	cfg := &Config{
		ServerPort:   getEnv("SERVER_PORT", "8080"),
		DatabasePath: getEnv("DB_PATH", "healchat.db"),
		JWTSecretKey: getEnv("JWT_SECRET_KEY", ""),
		TokenTTL:     getEnvAsDuration("TOKEN_TTL", 24*time.Hour),
		Environment:  env,
		LogLevel:     getEnv("LOG_LEVEL", "info"),

		AIAPIKey:    getEnv("AI_API_KEY", ""),
		AIBaseURL:   getEnv("AI_BASE_URL", "https://api.openai.com/v1"),
		AIModel:     getEnv("AI_MODEL", "gpt-4o-mini"),
		AITimeout:   getEnvAsDuration("AI_TIMEOUT", 10*time.Second),
		AIMaxTokens: getEnvAsInt("AI_MAX_TOKENS", 400),

		LexiconFile:   getEnv("LEXICON_FILE", ""),
		PolicyVersion: getEnv("POLICY_VERSION", mood.DefaultPolicyVersion),
		Thresholds: mood.Thresholds{
			HighStress:     getEnvAsInt("RISK_HIGH_STRESS", mood.DefaultThresholds.HighStress),
			HighNegative:   getEnvAsInt("RISK_HIGH_NEGATIVE", mood.DefaultThresholds.HighNegative),
			MediumStress:   getEnvAsInt("RISK_MEDIUM_STRESS", mood.DefaultThresholds.MediumStress),
			MediumNegative: getEnvAsInt("RISK_MEDIUM_NEGATIVE", mood.DefaultThresholds.MediumNegative),
		},
		AlarmPolarity:  getEnvAsFloat("ALARM_POLARITY", mood.DefaultAlarmPolarity),
		ReportCooldown: getEnvAsDuration("REPORT_COOLDOWN", 10*time.Second),
		ReportMinTexts: getEnvAsInt("REPORT_MIN_TEXTS", 5),

		ChatRatePerMinute: getEnvAsInt("CHAT_RATE_PER_MINUTE", 20),
		ChatRateBurst:     getEnvAsInt("CHAT_RATE_BURST", 5),
		AuthRatePerMinute: getEnvAsInt("AUTH_RATE_PER_MINUTE", 10),
		AuthRateBurst:     getEnvAsInt("AUTH_RATE_BURST", 5),
		TrustedProxies:    getEnvAsList("TRUSTED_PROXIES"),
	}

	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

// IsProduction reports whether GO_ENV is production.
func (c *Config) IsProduction() bool {
	return c.Environment == "production"
}

// Validate checks values that would otherwise fail at request time.
// Secrets are only mandatory in production.
func (c *Config) Validate() error {
	if c.IsProduction() {
		missing := []string{}
		if c.JWTSecretKey == "" {
			missing = append(missing, "JWT_SECRET_KEY")
		}
		if c.AIAPIKey == "" {
			missing = append(missing, "AI_API_KEY")
		}
		if len(missing) > 0 {
			return fmt.Errorf("missing required production environment variables: %v", missing)
		}
	}
	if err := c.Thresholds.Validate(); err != nil {
		return fmt.Errorf("invalid risk thresholds: %w", err)
	}
	if c.AlarmPolarity < -1 || c.AlarmPolarity > 1 {
		return fmt.Errorf("ALARM_POLARITY must be within [-1, 1], got %v", c.AlarmPolarity)
	}
	if c.ReportCooldown < 0 {
		return fmt.Errorf("REPORT_COOLDOWN cannot be negative")
	}
	if c.ChatRatePerMinute <= 0 || c.AuthRatePerMinute <= 0 {
		return fmt.Errorf("rate limits must be positive")
	}
	return nil
}

// BuildPolicy assembles the process-wide scoring policy. A lexicon file
// overrides the built-in table and must declare its own version, which
// replaces POLICY_VERSION.
func (c *Config) BuildPolicy() (*mood.Policy, error) {
	policy := mood.DefaultPolicy()
	policy.Version = c.PolicyVersion
	policy.Thresholds = c.Thresholds
	policy.AlarmPolarity = c.AlarmPolarity

	if c.LexiconFile != "" {
		lex, version, err := sentiment.LoadLexiconFile(c.LexiconFile)
		if err != nil {
			return nil, err
		}
		if version == mood.DefaultPolicyVersion {
			return nil, fmt.Errorf("lexicon file %s reuses the built-in policy version %q", c.LexiconFile, version)
		}
		policy.Scorer = sentiment.NewScorer(lex, nil)
		policy.Version = version
	}

	if err := policy.Validate(); err != nil {
		return nil, err
	}
	return policy, nil
}

// getEnv returns the value of an environment variable or a default.
func getEnv(key, defaultValue string) string {
	if value, exists := os.LookupEnv(key); exists {
		return value
	}
	return defaultValue
}

// getEnvAsInt gets an env var as an integer, with a fallback.
func getEnvAsInt(key string, defaultValue int) int {
	strValue := getEnv(key, "")
	if strValue == "" {
		return defaultValue
	}
	intValue, err := strconv.Atoi(strValue)
	if err != nil {
		log.Printf("Warning: could not parse env var %s as integer. Using default value.", key)
		return defaultValue
	}
	return intValue
}

func getEnvAsFloat(key string, defaultValue float64) float64 {
	strValue := getEnv(key, "")
	if strValue == "" {
		return defaultValue
	}
	v, err := strconv.ParseFloat(strValue, 64)
	if err != nil {
		log.Printf("Warning: could not parse env var %s as float. Using default value.", key)
		return defaultValue
	}
	return v
}

// getEnvAsDuration accepts Go durations ("10s") or bare seconds ("10").
func getEnvAsDuration(key string, defaultValue time.Duration) time.Duration {
	strValue := getEnv(key, "")
	if strValue == "" {
		return defaultValue
	}
	if d, err := time.ParseDuration(strValue); err == nil {
		return d
	}
	if secs, err := strconv.Atoi(strValue); err == nil {
		return time.Duration(secs) * time.Second
	}
	log.Printf("Warning: could not parse env var %s as duration. Using default value.", key)
	return defaultValue
}

// getEnvAsList splits a comma-separated env var, dropping blanks.
func getEnvAsList(key string) []string {
	var out []string
	for _, v := range strings.Split(getEnv(key, ""), ",") {
		if v = strings.TrimSpace(v); v != "" {
			out = append(out, v)
		}
	}
	return out
}
