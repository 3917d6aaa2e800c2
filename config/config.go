package config

import (
	"fmt"
	"os"
	"strings"
	"sync"
	"time"

	"riobot/database"

	"github.com/ilyakaznacheev/cleanenv"
)

// Config holds all application configuration
type Config struct {
	// Discord configuration
	DiscordToken string `env:"DISCORD_TOKEN"`
	OwnerID      int64  `env:"OWNER_ID"`

	// Channels, categories and roles
	WelcomeChannelID      int64 `env:"WELCOME_CHANNEL_ID"`
	RulesChannelID        int64 `env:"RULES_CHANNEL_ID"`
	GeneralChannelID      int64 `env:"GENERAL_CHANNEL_ID"`
	StatsCategoryID       int64 `env:"STATS_CATEGORY_ID"`
	VoiceSpawnerChannelID int64 `env:"VOICE_SPAWNER_CHANNEL_ID"`
	VoiceCategoryID       int64 `env:"VOICE_CATEGORY_ID"`
	VoicePanelChannelID   int64 `env:"VOICE_PANEL_CHANNEL_ID"`
	TicketPanelChannelID  int64 `env:"TICKET_PANEL_CHANNEL_ID"`
	TicketCategoryID      int64 `env:"TICKET_CATEGORY_ID"`
	StaffRoleID           int64 `env:"STAFF_ROLE_ID"`
	OwnerRoleID           int64 `env:"OWNER_ROLE_ID"`
	CommandsChannelID     int64 `env:"COMMANDS_CHANNEL_ID"`
	GamesChannelID        int64 `env:"GAMES_CHANNEL_ID"`
	LeaderboardChannelID  int64 `env:"LEADERBOARD_CHANNEL_ID"`
	BumpChannelID         int64 `env:"BUMP_CHANNEL_ID"`

	// Economy tunables
	XPPerMessage        int64         `env:"XP_PER_MESSAGE" env-default:"15"`
	XPCooldown          time.Duration `env:"XP_COOLDOWN" env-default:"60s"`
	WelcomeButtonReward int64         `env:"WELCOME_BUTTON_REWARD" env-default:"3"`
	DailyReward         int64         `env:"DAILY_REWARD" env-default:"100"`
	DailyCooldown       time.Duration `env:"DAILY_COOLDOWN" env-default:"24h"`
	WorkRewardMin       int64         `env:"WORK_REWARD_MIN" env-default:"20"`
	WorkRewardMax       int64         `env:"WORK_REWARD_MAX" env-default:"60"`
	WorkCooldown        time.Duration `env:"WORK_COOLDOWN" env-default:"1h"`
	VoiceXPPerMinute    int64         `env:"VOICE_XP_PER_MINUTE" env-default:"5"`
	VoiceRewardCooldown time.Duration `env:"VOICE_REWARD_COOLDOWN" env-default:"1m"`

	// Periodic work
	UpdateStatsInterval time.Duration `env:"UPDATE_STATS_INTERVAL" env-default:"60s"`
	BumpInterval        time.Duration `env:"BUMP_INTERVAL" env-default:"2h"`
	TicketCloseDelay    time.Duration `env:"TICKET_CLOSE_DELAY" env-default:"5s"`

	// Currency drops; a zero interval disables them
	DropInterval time.Duration `env:"DROP_INTERVAL" env-default:"0s"`
	DropTTL      time.Duration `env:"DROP_TTL" env-default:"30s"`
	DropMin      int64         `env:"DROP_MIN" env-default:"10"`
	DropMax      int64         `env:"DROP_MAX" env-default:"50"`

	// Anti-spam and escalation
	SpamWindow           time.Duration `env:"SPAM_WINDOW" env-default:"5s"`
	SpamThreshold        int           `env:"SPAM_THRESHOLD" env-default:"5"`
	SpamTimeout          time.Duration `env:"SPAM_TIMEOUT" env-default:"5m"`
	WarnTimeoutThreshold int           `env:"WARN_TIMEOUT_THRESHOLD" env-default:"3"`
	WarnKickThreshold    int           `env:"WARN_KICK_THRESHOLD" env-default:"5"`
	WarnTimeoutDuration  time.Duration `env:"WARN_TIMEOUT_DURATION" env-default:"1h"`

	// State persistence
	StateBackend string `env:"STATE_BACKEND" env-default:"file"`
	StatePath    string `env:"STATE_PATH" env-default:"database.json"`
	DatabaseURL  string `env:"DATABASE_URL"`
	DatabaseName string `env:"DATABASE_NAME"`

	// NATS configuration; empty disables remote event publishing
	NATSServers string `env:"NATS_SERVERS"`

	// OpenTelemetry configuration
	OTelEnabled              bool   `env:"OTEL_ENABLED" env-default:"false"`
	OTelExporterType         string `env:"OTEL_EXPORTER_TYPE" env-default:"none"`
	OTelOTLPEndpoint         string `env:"OTEL_OTLP_ENDPOINT" env-default:"localhost:4317"`
	OTelServiceName          string `env:"OTEL_SERVICE_NAME" env-default:"riobot"`
	OTelExportIntervalMillis int    `env:"OTEL_EXPORT_INTERVAL_MS" env-default:"30000"`

	// Logging
	LogLevel  string `env:"LOG_LEVEL" env-default:"info"`
	LogFormat string `env:"LOG_FORMAT" env-default:"text"`

	// Liveness endpoint
	Port int `env:"PORT" env-default:"3000"`

	// Environment
	Environment string `env:"ENVIRONMENT" env-default:"development"` // development, production or test
}

// State backends
const (
	BackendFile     = "file"
	BackendPostgres = "postgres"
	BackendSQLite   = "sqlite"
)

var (
	instance *Config
	once     sync.Once
	mu       sync.Mutex // Protects instance for test setup
)

// Get returns the global configuration instance
func Get() *Config {
	mu.Lock()
	defer mu.Unlock()

	// If instance is already set (e.g., by tests), return it
	if instance != nil {
		return instance
	}

	once.Do(func() {
		var err error
		instance, err = Load()
		if err != nil {
			// In test environment, use a default test config instead of panicking
			if os.Getenv("GO_TEST") == "1" || os.Getenv("ENVIRONMENT") == "test" {
				instance = NewTestConfig()
			} else {
				panic(fmt.Sprintf("failed to load config: %v", err))
			}
		}
	})
	return instance
}

// Load reads configuration from environment variables and validates it
func Load() (*Config, error) {
	var cfg Config
	if err := cleanenv.ReadEnv(&cfg); err != nil {
		return nil, fmt.Errorf("failed to read environment: %w", err)
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return &cfg, nil
}

// Validate checks required settings and value ranges
func (c *Config) Validate() error {
	if c.Environment == "test" {
		return nil
	}
	if c.DiscordToken == "" {
		return fmt.Errorf("DISCORD_TOKEN is required")
	}
	switch c.StateBackend {
	case BackendFile, BackendSQLite:
		if strings.TrimSpace(c.StatePath) == "" {
			return fmt.Errorf("STATE_PATH is required for the %s backend", c.StateBackend)
		}
	case BackendPostgres:
		if c.DatabaseURL == "" {
			return fmt.Errorf("DATABASE_URL is required for the postgres backend")
		}
		if c.DatabaseName != "" && strings.TrimSpace(c.DatabaseName) == "" {
			return fmt.Errorf("DATABASE_NAME cannot be empty when provided")
		}
	default:
		return fmt.Errorf("unknown STATE_BACKEND %q", c.StateBackend)
	}
	if c.XPPerMessage <= 0 {
		return fmt.Errorf("XP_PER_MESSAGE must be positive")
	}
	if c.WorkRewardMin <= 0 || c.WorkRewardMax < c.WorkRewardMin {
		return fmt.Errorf("WORK_REWARD_MIN/MAX must satisfy 0 < min <= max")
	}
	if c.DropInterval > 0 && (c.DropMin <= 0 || c.DropMax < c.DropMin) {
		return fmt.Errorf("DROP_MIN/MAX must satisfy 0 < min <= max")
	}
	if c.SpamThreshold <= 0 {
		return fmt.Errorf("SPAM_THRESHOLD must be positive")
	}
	if c.WarnKickThreshold > 0 && c.WarnKickThreshold <= c.WarnTimeoutThreshold {
		return fmt.Errorf("WARN_KICK_THRESHOLD must be above WARN_TIMEOUT_THRESHOLD")
	}
	return nil
}

// GetDatabaseURL constructs the full database URL by combining base URL and database name
func (c *Config) GetDatabaseURL() string {
	return database.ConstructDatabaseURL(c.DatabaseURL, c.DatabaseName)
}

// IsStaff reports whether any of roleIDs is the staff role
func (c *Config) IsStaff(roleIDs []int64) bool {
	return c.StaffRoleID != 0 && containsID(roleIDs, c.StaffRoleID)
}

// HasOwnerRole reports whether any of roleIDs is the designated owner role
func (c *Config) HasOwnerRole(roleIDs []int64) bool {
	return c.OwnerRoleID != 0 && containsID(roleIDs, c.OwnerRoleID)
}

func containsID(ids []int64, id int64) bool {
	for _, v := range ids {
		if v == id {
			return true
		}
	}
	return false
}

// Test helpers - only use in tests

// SetTestConfig overrides the global config instance for testing
// This should only be called from test files
func SetTestConfig(testConfig *Config) {
	mu.Lock()
	defer mu.Unlock()
	instance = testConfig
}

// ResetConfig resets the global config instance and sync.Once for testing
// This should only be called from test files
func ResetConfig() {
	mu.Lock()
	defer mu.Unlock()
	instance = nil
	once = sync.Once{}
}

// NewTestConfig creates a minimal config suitable for unit tests
func NewTestConfig() *Config {
	return &Config{
		Environment:          "test",
		DiscordToken:         "test-token",
		XPPerMessage:         15,
		XPCooldown:           time.Minute,
		WelcomeButtonReward:  3,
		DailyReward:          100,
		DailyCooldown:        24 * time.Hour,
		WorkRewardMin:        20,
		WorkRewardMax:        60,
		WorkCooldown:         time.Hour,
		VoiceXPPerMinute:     5,
		VoiceRewardCooldown:  time.Minute,
		UpdateStatsInterval:  time.Minute,
		BumpInterval:         2 * time.Hour,
		TicketCloseDelay:     5 * time.Second,
		DropTTL:              30 * time.Second,
		DropMin:              10,
		DropMax:              50,
		SpamWindow:           5 * time.Second,
		SpamThreshold:        5,
		SpamTimeout:          5 * time.Minute,
		WarnTimeoutThreshold: 3,
		WarnKickThreshold:    5,
		WarnTimeoutDuration:  time.Hour,
		StateBackend:         BackendFile,
		StatePath:            "database.json",
		OTelExporterType:     "none",
		OTelServiceName:      "riobot",
		LogLevel:             "info",
		LogFormat:            "text",
		Port:                 3000,
	}
}
