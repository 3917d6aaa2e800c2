package bot

import (
	"context"
	"fmt"

	log "github.com/sirupsen/logrus"

	"riobot/bot/common"
	"riobot/bot/features/drops"
	"riobot/bot/features/economy"
	"riobot/bot/features/moderation"
	"riobot/bot/features/panels"
	"riobot/bot/features/profile"
	"riobot/bot/features/tickets"
	"riobot/bot/features/voice"
	"riobot/bot/features/welcome"
	"riobot/config"
	"riobot/domain/interfaces"
	"riobot/events"

	"github.com/bwmarrin/discordgo"
)

// Services are the domain services the gateway handlers call into
type Services struct {
	Economy    interfaces.EconomyService
	Claims     interfaces.ClaimRegistry
	Voice      interfaces.VoiceLifecycle
	Tickets    interfaces.TicketLifecycle
	Moderation interfaces.ModerationEscalation
	AntiSpam   interfaces.AntiSpamDetector
}

// MemberStatsRefresher renames the member counter after a join or leave
type MemberStatsRefresher interface {
	Refresh(ctx context.Context, guildID int64) error
}

type Bot struct {
	config   *config.Config
	session  *discordgo.Session
	platform interfaces.Platform
	antiSpam interfaces.AntiSpamDetector
	eventBus *events.Bus
	stats    MemberStatsRefresher

	// Feature modules
	welcome    *welcome.Feature
	profile    *profile.Feature
	economy    *economy.Feature
	tickets    *tickets.Feature
	voice      *voice.Feature
	moderation *moderation.Feature
	drops      *drops.Feature
	panels     *panels.Builder

	commands map[string]commandHandler
}

// NewSession creates the gateway session with the intents the bot listens on
func NewSession(token string) (*discordgo.Session, error) {
	dg, err := discordgo.New("Bot " + token)
	if err != nil {
		return nil, fmt.Errorf("error creating discord session: %w", err)
	}
	dg.Identify.Intents = discordgo.IntentsAll
	dg.StateEnabled = true
	return dg, nil
}

// New wires the feature modules, registers the gateway handlers and opens
// the connection
func New(cfg *config.Config, session *discordgo.Session, platform interfaces.Platform, svc Services, eventBus *events.Bus) (*Bot, error) {
	names := NewNameResolver(session)

	bot := &Bot{
		config:     cfg,
		session:    session,
		platform:   platform,
		antiSpam:   svc.AntiSpam,
		eventBus:   eventBus,
		welcome:    welcome.New(cfg, platform, svc.Claims),
		profile:    profile.New(cfg, svc.Economy, names),
		economy:    economy.New(cfg, svc.Economy),
		tickets:    tickets.New(cfg, platform, svc.Tickets),
		voice:      voice.New(cfg, svc.Voice),
		moderation: moderation.New(cfg, platform, svc.Moderation),
		drops:      drops.New(platform, svc.Claims),
	}
	bot.panels = panels.NewBuilder(cfg, bot.profile)
	bot.commands = bot.commandTable()

	// Register handlers
	session.AddHandler(bot.handleReady)
	session.AddHandler(bot.handleMessageCreate)
	session.AddHandler(bot.handleMessageDelete)
	session.AddHandler(bot.handleInteractions)
	session.AddHandler(bot.handleGuildMemberAdd)
	session.AddHandler(bot.handleGuildMemberRemove)
	session.AddHandler(bot.handleVoiceStateUpdate)
	session.AddHandler(bot.handleReactionAdd)
	session.AddHandler(bot.handleChannelDelete)

	if eventBus != nil {
		bot.registerSubscriptions(eventBus)
	}

	// Open websocket connection
	if err := session.Open(); err != nil {
		return nil, fmt.Errorf("error opening connection: %w", err)
	}

	return bot, nil
}

// SetMemberStats attaches the member counter refreshed on joins and leaves
func (b *Bot) SetMemberStats(r MemberStatsRefresher) {
	b.stats = r
}

// Platform exposes the platform adapter the features share
func (b *Bot) Platform() interfaces.Platform {
	return b.platform
}

// PanelBuilder renders the persistent panels and the bump reminder
func (b *Bot) PanelBuilder() *panels.Builder {
	return b.panels
}

// DropPresenter renders currency drop messages
func (b *Bot) DropPresenter() *drops.Feature {
	return b.drops
}

// GuildIDs lists the guilds the session is connected to
func (b *Bot) GuildIDs() []int64 {
	if b.session.State == nil {
		return nil
	}
	b.session.State.RLock()
	defer b.session.State.RUnlock()

	ids := make([]int64, 0, len(b.session.State.Guilds))
	for _, g := range b.session.State.Guilds {
		ids = append(ids, common.ParseID(g.ID))
	}
	return ids
}

// GetGuilds returns the guild snapshot served by the debug endpoint
func (b *Bot) GetGuilds() []*discordgo.Guild {
	if b.session.State == nil {
		return nil
	}
	b.session.State.RLock()
	defer b.session.State.RUnlock()
	guilds := make([]*discordgo.Guild, len(b.session.State.Guilds))
	copy(guilds, b.session.State.Guilds)
	return guilds
}

func (b *Bot) Close() error {
	return b.session.Close()
}

func (b *Bot) handleReady(s *discordgo.Session, r *discordgo.Ready) {
	log.WithFields(log.Fields{
		"user":   r.User.Username,
		"guilds": len(r.Guilds),
	}).Info("Bot connected")

	if err := s.UpdateCustomStatus(fmt.Sprintf("%shelp", common.CommandPrefix)); err != nil {
		log.WithError(err).Warn("Failed to set presence")
	}
}
