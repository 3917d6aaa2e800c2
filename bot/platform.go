package bot

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"time"

	"riobot/bot/common"
	"riobot/domain/entities"
	"riobot/domain/interfaces"

	"github.com/bwmarrin/discordgo"
	log "github.com/sirupsen/logrus"
)

// maxBulkDelete is the platform limit for one bulk delete call
const maxBulkDelete = 100

// discordPlatform adapts a discordgo session to interfaces.Platform
type discordPlatform struct {
	session *discordgo.Session
}

// NewPlatform wraps a session. Every call carries ctx and maps REST failures
// onto the entities platform errors.
func NewPlatform(session *discordgo.Session) interfaces.Platform {
	return &discordPlatform{session: session}
}

// mapError normalizes a discordgo failure
func mapError(err error) error {
	if err == nil {
		return nil
	}

	var rateLimit *discordgo.RateLimitError
	if errors.As(err, &rateLimit) {
		return fmt.Errorf("%w: %w", entities.ErrPlatformRateLimited, err)
	}

	var restErr *discordgo.RESTError
	if !errors.As(err, &restErr) {
		return err
	}
	if restErr.Message != nil {
		switch restErr.Message.Code {
		case discordgo.ErrCodeUnknownChannel, discordgo.ErrCodeUnknownMessage, discordgo.ErrCodeUnknownMember:
			return fmt.Errorf("%w: %w", entities.ErrPlatformNotFound, err)
		case discordgo.ErrCodeMissingPermissions, discordgo.ErrCodeMissingAccess:
			return fmt.Errorf("%w: %w", entities.ErrPlatformForbidden, err)
		}
	}
	if restErr.Response != nil {
		switch restErr.Response.StatusCode {
		case http.StatusTooManyRequests:
			return fmt.Errorf("%w: %w", entities.ErrPlatformRateLimited, err)
		case http.StatusNotFound:
			return fmt.Errorf("%w: %w", entities.ErrPlatformNotFound, err)
		case http.StatusForbidden:
			return fmt.Errorf("%w: %w", entities.ErrPlatformForbidden, err)
		}
	}
	return err
}

func (p *discordPlatform) SelfID() int64 {
	if p.session.State == nil || p.session.State.User == nil {
		return 0
	}
	return common.ParseID(p.session.State.User.ID)
}

func (p *discordPlatform) SendMessage(ctx context.Context, channelID int64, msg entities.MessageSpec) (int64, error) {
	sent, err := p.session.ChannelMessageSendComplex(common.FormatID(channelID), common.ToMessageSend(channelID, msg), discordgo.WithContext(ctx))
	if err != nil {
		return 0, mapError(err)
	}
	return common.ParseID(sent.ID), nil
}

func (p *discordPlatform) EditMessage(ctx context.Context, channelID, messageID int64, msg entities.MessageSpec) error {
	_, err := p.session.ChannelMessageEditComplex(common.ToMessageEdit(channelID, messageID, msg), discordgo.WithContext(ctx))
	return mapError(err)
}

func (p *discordPlatform) DeleteMessage(ctx context.Context, channelID, messageID int64) error {
	return mapError(p.session.ChannelMessageDelete(common.FormatID(channelID), common.FormatID(messageID), discordgo.WithContext(ctx)))
}

func (p *discordPlatform) FetchRecentMessages(ctx context.Context, channelID int64, limit int) ([]entities.PlatformMessage, error) {
	msgs, err := p.session.ChannelMessages(common.FormatID(channelID), limit, "", "", "", discordgo.WithContext(ctx))
	if err != nil {
		return nil, mapError(err)
	}

	out := make([]entities.PlatformMessage, 0, len(msgs))
	for _, m := range msgs {
		pm := entities.PlatformMessage{
			ID:        common.ParseID(m.ID),
			ChannelID: channelID,
			Content:   m.Content,
			CreatedAt: m.Timestamp,
		}
		if m.Author != nil {
			pm.AuthorID = common.ParseID(m.Author.ID)
		}
		for _, e := range m.Embeds {
			if e.Footer != nil {
				pm.Footers = append(pm.Footers, e.Footer.Text)
			}
		}
		out = append(out, pm)
	}
	return out, nil
}

func (p *discordPlatform) BulkDeleteMessages(ctx context.Context, channelID int64, messageIDs []int64) error {
	ids := make([]string, 0, len(messageIDs))
	for _, id := range messageIDs {
		ids = append(ids, common.FormatID(id))
	}
	for start := 0; start < len(ids); start += maxBulkDelete {
		batch := ids[start:min(start+maxBulkDelete, len(ids))]
		var err error
		if len(batch) == 1 {
			err = p.session.ChannelMessageDelete(common.FormatID(channelID), batch[0], discordgo.WithContext(ctx))
		} else {
			err = p.session.ChannelMessagesBulkDelete(common.FormatID(channelID), batch, discordgo.WithContext(ctx))
		}
		if err != nil {
			return mapError(err)
		}
	}
	return nil
}

func toOverwrite(o entities.PermissionOverwrite) *discordgo.PermissionOverwrite {
	t := discordgo.PermissionOverwriteTypeMember
	if o.IsRole {
		t = discordgo.PermissionOverwriteTypeRole
	}
	return &discordgo.PermissionOverwrite{
		ID:    common.FormatID(o.TargetID),
		Type:  t,
		Allow: o.Allow,
		Deny:  o.Deny,
	}
}

func (p *discordPlatform) CreateChannel(ctx context.Context, guildID int64, spec entities.ChannelSpec) (int64, error) {
	data := discordgo.GuildChannelCreateData{
		Name:      spec.Name,
		Type:      discordgo.ChannelTypeGuildText,
		Topic:     spec.Topic,
		UserLimit: spec.UserLimit,
	}
	if spec.Type == entities.ChannelTypeVoice {
		data.Type = discordgo.ChannelTypeGuildVoice
		data.Topic = ""
	}
	if spec.ParentID != 0 {
		data.ParentID = common.FormatID(spec.ParentID)
	}
	for _, o := range spec.Overwrites {
		data.PermissionOverwrites = append(data.PermissionOverwrites, toOverwrite(o))
	}

	ch, err := p.session.GuildChannelCreateComplex(common.FormatID(guildID), data, discordgo.WithContext(ctx))
	if err != nil {
		return 0, mapError(err)
	}
	return common.ParseID(ch.ID), nil
}

func (p *discordPlatform) DeleteChannel(ctx context.Context, channelID int64) error {
	_, err := p.session.ChannelDelete(common.FormatID(channelID), discordgo.WithContext(ctx))
	return mapError(err)
}

// EditChannel sends a raw PATCH: the typed edit drops a zero user limit,
// which is how a limit is removed.
func (p *discordPlatform) EditChannel(ctx context.Context, channelID int64, edit entities.ChannelEdit) error {
	body := map[string]any{}
	if edit.Name != nil {
		body["name"] = *edit.Name
	}
	if edit.UserLimit != nil {
		body["user_limit"] = *edit.UserLimit
	}
	if len(body) == 0 {
		return nil
	}
	endpoint := discordgo.EndpointChannel(common.FormatID(channelID))
	_, err := p.session.RequestWithBucketID(http.MethodPatch, endpoint, body, endpoint, discordgo.WithContext(ctx))
	return mapError(err)
}

func (p *discordPlatform) RenameEntity(ctx context.Context, channelID int64, name string) error {
	_, err := p.session.ChannelEdit(common.FormatID(channelID), &discordgo.ChannelEdit{Name: name}, discordgo.WithContext(ctx))
	return mapError(err)
}

func (p *discordPlatform) SetChannelPermission(ctx context.Context, channelID int64, o entities.PermissionOverwrite) error {
	ow := toOverwrite(o)
	return mapError(p.session.ChannelPermissionSet(common.FormatID(channelID), ow.ID, ow.Type, ow.Allow, ow.Deny, discordgo.WithContext(ctx)))
}

func (p *discordPlatform) RemoveChannelPermission(ctx context.Context, channelID, targetID int64) error {
	return mapError(p.session.ChannelPermissionDelete(common.FormatID(channelID), common.FormatID(targetID), discordgo.WithContext(ctx)))
}

func (p *discordPlatform) MoveMember(ctx context.Context, guildID, userID int64, channelID *int64) error {
	var target *string
	if channelID != nil {
		id := common.FormatID(*channelID)
		target = &id
	}
	return mapError(p.session.GuildMemberMove(common.FormatID(guildID), common.FormatID(userID), target, discordgo.WithContext(ctx)))
}

func (p *discordPlatform) VoiceMemberCount(ctx context.Context, guildID, channelID int64) (int, error) {
	guild, err := p.session.State.Guild(common.FormatID(guildID))
	if err != nil {
		return 0, fmt.Errorf("%w: guild %d not in state", entities.ErrPlatformNotFound, guildID)
	}

	p.session.State.RLock()
	defer p.session.State.RUnlock()
	target := common.FormatID(channelID)
	count := 0
	for _, vs := range guild.VoiceStates {
		if vs.ChannelID == target {
			count++
		}
	}
	return count, nil
}

func (p *discordPlatform) GuildMemberCount(ctx context.Context, guildID int64) (int, error) {
	if guild, err := p.session.State.Guild(common.FormatID(guildID)); err == nil && guild.MemberCount > 0 {
		return guild.MemberCount, nil
	}
	guild, err := p.session.GuildWithCounts(common.FormatID(guildID), discordgo.WithContext(ctx))
	if err != nil {
		return 0, mapError(err)
	}
	return guild.ApproximateMemberCount, nil
}

func (p *discordPlatform) SetMemberTimeout(ctx context.Context, guildID, userID int64, until *time.Time, reason string) error {
	opts := []discordgo.RequestOption{discordgo.WithContext(ctx)}
	if reason != "" {
		opts = append(opts, discordgo.WithAuditLogReason(reason))
	}
	return mapError(p.session.GuildMemberTimeout(common.FormatID(guildID), common.FormatID(userID), until, opts...))
}

func (p *discordPlatform) KickMember(ctx context.Context, guildID, userID int64, reason string) error {
	return mapError(p.session.GuildMemberDeleteWithReason(common.FormatID(guildID), common.FormatID(userID), reason, discordgo.WithContext(ctx)))
}

func (p *discordPlatform) BanMember(ctx context.Context, guildID, userID int64, reason string) error {
	log.WithFields(log.Fields{
		"guildId": guildID,
		"userId":  userID,
	}).Info("Banning member")
	return mapError(p.session.GuildBanCreateWithReason(common.FormatID(guildID), common.FormatID(userID), reason, 0, discordgo.WithContext(ctx)))
}
