package testhelpers

import (
	"context"
	"time"

	"riobot/domain/entities"

	"github.com/stretchr/testify/mock"
)

// MockPlatform is a mock implementation of interfaces.Platform
type MockPlatform struct {
	mock.Mock
}

func (m *MockPlatform) SelfID() int64 {
	args := m.Called()
	return args.Get(0).(int64)
}

func (m *MockPlatform) SendMessage(ctx context.Context, channelID int64, msg entities.MessageSpec) (int64, error) {
	args := m.Called(ctx, channelID, msg)
	return args.Get(0).(int64), args.Error(1)
}

func (m *MockPlatform) EditMessage(ctx context.Context, channelID, messageID int64, msg entities.MessageSpec) error {
	args := m.Called(ctx, channelID, messageID, msg)
	return args.Error(0)
}

func (m *MockPlatform) DeleteMessage(ctx context.Context, channelID, messageID int64) error {
	args := m.Called(ctx, channelID, messageID)
	return args.Error(0)
}

func (m *MockPlatform) FetchRecentMessages(ctx context.Context, channelID int64, limit int) ([]entities.PlatformMessage, error) {
	args := m.Called(ctx, channelID, limit)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]entities.PlatformMessage), args.Error(1)
}

func (m *MockPlatform) BulkDeleteMessages(ctx context.Context, channelID int64, messageIDs []int64) error {
	args := m.Called(ctx, channelID, messageIDs)
	return args.Error(0)
}

func (m *MockPlatform) CreateChannel(ctx context.Context, guildID int64, spec entities.ChannelSpec) (int64, error) {
	args := m.Called(ctx, guildID, spec)
	return args.Get(0).(int64), args.Error(1)
}

func (m *MockPlatform) DeleteChannel(ctx context.Context, channelID int64) error {
	args := m.Called(ctx, channelID)
	return args.Error(0)
}

func (m *MockPlatform) EditChannel(ctx context.Context, channelID int64, edit entities.ChannelEdit) error {
	args := m.Called(ctx, channelID, edit)
	return args.Error(0)
}

func (m *MockPlatform) RenameEntity(ctx context.Context, channelID int64, name string) error {
	args := m.Called(ctx, channelID, name)
	return args.Error(0)
}

func (m *MockPlatform) SetChannelPermission(ctx context.Context, channelID int64, overwrite entities.PermissionOverwrite) error {
	args := m.Called(ctx, channelID, overwrite)
	return args.Error(0)
}

func (m *MockPlatform) RemoveChannelPermission(ctx context.Context, channelID, targetID int64) error {
	args := m.Called(ctx, channelID, targetID)
	return args.Error(0)
}

func (m *MockPlatform) MoveMember(ctx context.Context, guildID, userID int64, channelID *int64) error {
	args := m.Called(ctx, guildID, userID, channelID)
	return args.Error(0)
}

func (m *MockPlatform) VoiceMemberCount(ctx context.Context, guildID, channelID int64) (int, error) {
	args := m.Called(ctx, guildID, channelID)
	return args.Int(0), args.Error(1)
}

func (m *MockPlatform) GuildMemberCount(ctx context.Context, guildID int64) (int, error) {
	args := m.Called(ctx, guildID)
	return args.Int(0), args.Error(1)
}

func (m *MockPlatform) SetMemberTimeout(ctx context.Context, guildID, userID int64, until *time.Time, reason string) error {
	args := m.Called(ctx, guildID, userID, until, reason)
	return args.Error(0)
}

func (m *MockPlatform) KickMember(ctx context.Context, guildID, userID int64, reason string) error {
	args := m.Called(ctx, guildID, userID, reason)
	return args.Error(0)
}

func (m *MockPlatform) BanMember(ctx context.Context, guildID, userID int64, reason string) error {
	args := m.Called(ctx, guildID, userID, reason)
	return args.Error(0)
}
