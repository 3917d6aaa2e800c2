package config

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoad_Defaults(t *testing.T) {
	t.Setenv("DISCORD_TOKEN", "token")
	t.Setenv("ENVIRONMENT", "production")

	cfg, err := Load()
	require.NoError(t, err)

	assert.Equal(t, int64(15), cfg.XPPerMessage)
	assert.Equal(t, 60*time.Second, cfg.XPCooldown)
	assert.Equal(t, int64(3), cfg.WelcomeButtonReward)
	assert.Equal(t, 60*time.Second, cfg.UpdateStatsInterval)
	assert.Equal(t, BackendFile, cfg.StateBackend)
	assert.Equal(t, "database.json", cfg.StatePath)
	assert.Equal(t, 5, cfg.SpamThreshold)
	assert.Equal(t, 3000, cfg.Port)
}

func TestLoad_Overrides(t *testing.T) {
	t.Setenv("DISCORD_TOKEN", "token")
	t.Setenv("ENVIRONMENT", "production")
	t.Setenv("OWNER_ID", "123456789012345678")
	t.Setenv("XP_PER_MESSAGE", "25")
	t.Setenv("XP_COOLDOWN", "2m")
	t.Setenv("STATE_BACKEND", "sqlite")
	t.Setenv("STATE_PATH", "/data/state.sqlite")

	cfg, err := Load()
	require.NoError(t, err)

	assert.Equal(t, int64(123456789012345678), cfg.OwnerID)
	assert.Equal(t, int64(25), cfg.XPPerMessage)
	assert.Equal(t, 2*time.Minute, cfg.XPCooldown)
	assert.Equal(t, BackendSQLite, cfg.StateBackend)
}

func TestValidate(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name    string
		mutate  func(c *Config)
		wantErr string
	}{
		{name: "valid", mutate: func(c *Config) {}},
		{name: "missing token", mutate: func(c *Config) { c.DiscordToken = "" }, wantErr: "DISCORD_TOKEN"},
		{name: "postgres without url", mutate: func(c *Config) { c.StateBackend = BackendPostgres }, wantErr: "DATABASE_URL"},
		{name: "unknown backend", mutate: func(c *Config) { c.StateBackend = "redis" }, wantErr: "unknown STATE_BACKEND"},
		{name: "work range inverted", mutate: func(c *Config) { c.WorkRewardMax = 1 }, wantErr: "WORK_REWARD"},
		{name: "kick below timeout", mutate: func(c *Config) { c.WarnKickThreshold = 2 }, wantErr: "WARN_KICK_THRESHOLD"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			cfg := NewTestConfig()
			cfg.Environment = "production"
			tt.mutate(cfg)
			err := cfg.Validate()
			if tt.wantErr == "" {
				assert.NoError(t, err)
				return
			}
			require.Error(t, err)
			assert.Contains(t, err.Error(), tt.wantErr)
		})
	}
}

func TestRoleChecks(t *testing.T) {
	t.Parallel()

	cfg := NewTestConfig()
	cfg.StaffRoleID = 10
	cfg.OwnerRoleID = 20

	assert.True(t, cfg.IsStaff([]int64{1, 10}))
	assert.False(t, cfg.IsStaff([]int64{20}))
	assert.True(t, cfg.HasOwnerRole([]int64{20}))
	assert.False(t, NewTestConfig().IsStaff([]int64{0}))
}
