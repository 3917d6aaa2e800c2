package services

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"
	"unicode/utf8"

	"riobot/config"
	"riobot/domain/entities"
	"riobot/domain/interfaces"
	"riobot/events"

	log "github.com/sirupsen/logrus"
)

const maxChannelNameLength = 100

type voiceLifecycle struct {
	config   *config.Config
	store    interfaces.StateStore
	platform interfaces.Platform
}

// NewVoiceLifecycle creates the ephemeral voice channel manager
func NewVoiceLifecycle(cfg *config.Config, store interfaces.StateStore, platform interfaces.Platform) interfaces.VoiceLifecycle {
	return &voiceLifecycle{config: cfg, store: store, platform: platform}
}

// HandleTransition tracks voice time, tears down the channel the member left
// when it became empty and spawns a channel when the spawner was entered
func (s *voiceLifecycle) HandleTransition(ctx context.Context, t interfaces.VoiceTransition) error {
	if t.FromChannelID == t.ToChannelID {
		return nil
	}

	var errs []error
	if err := s.trackVoiceTime(ctx, t); err != nil {
		errs = append(errs, err)
	}
	if t.FromChannelID != 0 {
		if err := s.deleteIfEmpty(ctx, t.GuildID, t.FromChannelID); err != nil {
			errs = append(errs, err)
		}
	}
	if t.ToChannelID != 0 && t.ToChannelID == s.config.VoiceSpawnerChannelID {
		if _, err := s.spawn(ctx, t); err != nil {
			errs = append(errs, err)
		}
	}
	return errors.Join(errs...)
}

func (s *voiceLifecycle) trackVoiceTime(ctx context.Context, t interfaces.VoiceTransition) error {
	joined := t.FromChannelID == 0 && t.ToChannelID != 0
	left := t.FromChannelID != 0 && t.ToChannelID == 0
	if !joined && !left {
		return nil
	}

	err := s.store.Mutate(ctx, []entities.Key{entities.UserKey(t.UserID)}, func(tx interfaces.StateTx) error {
		u := tx.User(t.UserID)
		if joined {
			at := t.At
			u.VoiceSessionStartedAt = &at
			tx.PutUser(u)
			return nil
		}

		if u.VoiceSessionStartedAt == nil {
			return nil
		}
		minutes := int64(t.At.Sub(*u.VoiceSessionStartedAt) / time.Minute)
		u.VoiceSessionStartedAt = nil
		if minutes > 0 {
			u.VoiceMinutesTotal += minutes
			if allowed, _ := u.TryConsume(entities.ActionVoiceSession, t.At, s.config.VoiceRewardCooldown); allowed && s.config.VoiceXPPerMinute > 0 {
				if _, err := addXP(tx, u, minutes*s.config.VoiceXPPerMinute); err != nil {
					return err
				}
			}
		}
		tx.PutUser(u)
		return nil
	})
	if err := tolerateDurability(err, "voice_time"); err != nil {
		return fmt.Errorf("failed to track voice time: %w", err)
	}
	return nil
}

// spawn creates the owner's channel and moves them into it
func (s *voiceLifecycle) spawn(ctx context.Context, t interfaces.VoiceTransition) (*entities.VoiceChannel, error) {
	var created *entities.VoiceChannel
	err := s.store.Mutate(ctx, []entities.Key{entities.UserKey(t.UserID)}, func(tx interfaces.StateTx) error {
		name := fmt.Sprintf("🔊 Salon de %s", t.DisplayName)
		if utf8.RuneCountInString(name) > maxChannelNameLength {
			name = string([]rune(name)[:maxChannelNameLength])
		}
		channelID, err := s.platform.CreateChannel(ctx, t.GuildID, entities.ChannelSpec{
			Name:     name,
			Type:     entities.ChannelTypeVoice,
			ParentID: s.config.VoiceCategoryID,
			Overwrites: []entities.PermissionOverwrite{
				{TargetID: t.UserID, Allow: entities.PermManageChannels | entities.PermMoveMembers | entities.PermConnect | entities.PermViewChannel},
			},
		})
		if err != nil {
			return fmt.Errorf("failed to create voice channel: %w", err)
		}

		// held before the move so a leave racing the move waits for the record
		if err := tx.Acquire(entities.VoiceKey(channelID)); err != nil {
			s.deleteOrphan(ctx, channelID)
			return err
		}

		if err := s.platform.MoveMember(ctx, t.GuildID, t.UserID, &channelID); err != nil {
			// the owner left before the move; do not keep an empty room around
			s.deleteOrphan(ctx, channelID)
			return fmt.Errorf("failed to move owner into voice channel: %w", err)
		}

		created = &entities.VoiceChannel{
			ChannelID: channelID,
			GuildID:   t.GuildID,
			OwnerID:   t.UserID,
			CreatedAt: t.At,
		}
		tx.PutVoiceChannel(created)
		tx.Publish(events.VoiceChannelEvent{
			Kind:      events.EventTypeVoiceChannelCreated,
			ChannelID: channelID,
			GuildID:   t.GuildID,
			OwnerID:   t.UserID,
		})
		return nil
	})
	if err := tolerateDurability(err, "voice_spawn"); err != nil {
		return nil, err
	}

	if created != nil {
		log.WithFields(log.Fields{
			"channelId": created.ChannelID,
			"ownerId":   created.OwnerID,
		}).Info("Ephemeral voice channel created")
	}
	return created, nil
}

func (s *voiceLifecycle) deleteOrphan(ctx context.Context, channelID int64) {
	if err := s.platform.DeleteChannel(ctx, channelID); err != nil && !errors.Is(err, entities.ErrNotFound) {
		log.WithError(err).WithField("channelId", channelID).Warn("Failed to delete orphan voice channel")
	}
}

// deleteIfEmpty removes a recorded channel whose membership reached zero
func (s *voiceLifecycle) deleteIfEmpty(ctx context.Context, guildID, channelID int64) error {
	deleted := false
	err := s.store.Mutate(ctx, []entities.Key{entities.VoiceKey(channelID)}, func(tx interfaces.StateTx) error {
		v := tx.VoiceChannel(channelID)
		if v == nil {
			return nil
		}
		if guildID == 0 {
			guildID = v.GuildID
		}
		count, err := s.platform.VoiceMemberCount(ctx, guildID, channelID)
		gone := errors.Is(err, entities.ErrNotFound)
		if err != nil && !gone {
			return fmt.Errorf("failed to count voice members: %w", err)
		}
		if count > 0 {
			return nil
		}
		if !gone {
			if err := s.platform.DeleteChannel(ctx, channelID); err != nil && !errors.Is(err, entities.ErrNotFound) {
				return fmt.Errorf("failed to delete voice channel: %w", err)
			}
		}
		tx.DeleteVoiceChannel(channelID)
		tx.Publish(events.VoiceChannelEvent{
			Kind:      events.EventTypeVoiceChannelDeleted,
			ChannelID: channelID,
			GuildID:   v.GuildID,
			OwnerID:   v.OwnerID,
		})
		deleted = true
		return nil
	})
	if err := tolerateDurability(err, "voice_delete"); err != nil {
		return err
	}
	if deleted {
		log.WithField("channelId", channelID).Info("Ephemeral voice channel deleted")
	}
	return nil
}

// Control applies an owner-only operation to an ephemeral channel
func (s *voiceLifecycle) Control(ctx context.Context, c interfaces.VoiceControl) error {
	err := s.store.Mutate(ctx, []entities.Key{entities.VoiceKey(c.ChannelID)}, func(tx interfaces.StateTx) error {
		v := tx.VoiceChannel(c.ChannelID)
		if v == nil {
			return entities.ErrNotFound
		}
		if !v.IsOwner(c.ActorID) {
			return entities.ErrNotOwner
		}
		if err := s.applyControl(ctx, v, c); err != nil {
			return err
		}
		tx.PutVoiceChannel(v)
		return nil
	})
	return tolerateDurability(err, "voice_control")
}

func (s *voiceLifecycle) applyControl(ctx context.Context, v *entities.VoiceChannel, c interfaces.VoiceControl) error {
	// the @everyone role shares the guild id
	everyone := v.GuildID

	switch c.Op {
	case interfaces.VoiceOpLock:
		if err := s.platform.SetChannelPermission(ctx, v.ChannelID, entities.PermissionOverwrite{
			TargetID: everyone, IsRole: true, Deny: entities.PermConnect,
		}); err != nil {
			return fmt.Errorf("failed to lock voice channel: %w", err)
		}
		v.Locked = true

	case interfaces.VoiceOpUnlock:
		// a missing overwrite means the channel is already open
		if err := s.platform.RemoveChannelPermission(ctx, v.ChannelID, everyone); err != nil && !errors.Is(err, entities.ErrNotFound) {
			return fmt.Errorf("failed to unlock voice channel: %w", err)
		}
		v.Locked = false

	case interfaces.VoiceOpLimit:
		if c.Limit < 0 || c.Limit > entities.MaxVoiceUserLimit {
			return entities.ErrInvalidArgument
		}
		limit := c.Limit
		if err := s.platform.EditChannel(ctx, v.ChannelID, entities.ChannelEdit{UserLimit: &limit}); err != nil {
			return fmt.Errorf("failed to set voice user limit: %w", err)
		}
		v.UserLimit = limit

	case interfaces.VoiceOpRename:
		name := strings.TrimSpace(c.Name)
		if name == "" || utf8.RuneCountInString(name) > maxChannelNameLength {
			return entities.ErrInvalidArgument
		}
		if err := s.platform.RenameEntity(ctx, v.ChannelID, name); err != nil {
			return fmt.Errorf("failed to rename voice channel: %w", err)
		}

	case interfaces.VoiceOpInvite:
		if c.TargetID == 0 {
			return entities.ErrInvalidArgument
		}
		if err := s.platform.SetChannelPermission(ctx, v.ChannelID, entities.PermissionOverwrite{
			TargetID: c.TargetID, Allow: entities.PermViewChannel | entities.PermConnect,
		}); err != nil {
			return fmt.Errorf("failed to invite member: %w", err)
		}

	case interfaces.VoiceOpKick:
		if c.TargetID == 0 || c.TargetID == v.OwnerID {
			return entities.ErrInvalidArgument
		}
		if err := s.platform.SetChannelPermission(ctx, v.ChannelID, entities.PermissionOverwrite{
			TargetID: c.TargetID, Deny: entities.PermConnect,
		}); err != nil {
			return fmt.Errorf("failed to bar member: %w", err)
		}
		if err := s.platform.MoveMember(ctx, v.GuildID, c.TargetID, nil); err != nil && !errors.Is(err, entities.ErrNotFound) {
			return fmt.Errorf("failed to disconnect member: %w", err)
		}

	default:
		return entities.ErrInvalidArgument
	}
	return nil
}

// OwnedChannel returns the first recorded channel owned by ownerID
func (s *voiceLifecycle) OwnedChannel(ctx context.Context, ownerID int64) (*entities.VoiceChannel, bool) {
	var owned *entities.VoiceChannel
	_ = s.store.View(ctx, func(v interfaces.StateView) error {
		for _, ch := range v.VoiceChannels() {
			if ch.OwnerID == ownerID {
				owned = ch
				return nil
			}
		}
		return nil
	})
	return owned, owned != nil
}

// Forget drops the record of a channel that was deleted outside the bot
func (s *voiceLifecycle) Forget(ctx context.Context, channelID int64) error {
	err := s.store.Mutate(ctx, []entities.Key{entities.VoiceKey(channelID)}, func(tx interfaces.StateTx) error {
		v := tx.VoiceChannel(channelID)
		if v == nil {
			return nil
		}
		tx.DeleteVoiceChannel(channelID)
		tx.Publish(events.VoiceChannelEvent{
			Kind:      events.EventTypeVoiceChannelDeleted,
			ChannelID: channelID,
			GuildID:   v.GuildID,
			OwnerID:   v.OwnerID,
		})
		return nil
	})
	return tolerateDurability(err, "voice_forget")
}

// Sweep removes recorded channels that emptied while the bot was offline
func (s *voiceLifecycle) Sweep(ctx context.Context) error {
	var channels []*entities.VoiceChannel
	if err := s.store.View(ctx, func(v interfaces.StateView) error {
		channels = v.VoiceChannels()
		return nil
	}); err != nil {
		return fmt.Errorf("failed to list voice channels: %w", err)
	}

	var errs []error
	for _, ch := range channels {
		if err := s.deleteIfEmpty(ctx, ch.GuildID, ch.ChannelID); err != nil {
			errs = append(errs, err)
		}
	}
	return errors.Join(errs...)
}
