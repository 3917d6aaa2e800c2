package services

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"
	"unicode"

	"riobot/config"
	"riobot/domain/entities"
	"riobot/domain/interfaces"
	"riobot/events"

	log "github.com/sirupsen/logrus"
)

type ticketLifecycle struct {
	config    *config.Config
	store     interfaces.StateStore
	platform  interfaces.Platform
	scheduler interfaces.TaskScheduler
	now       func() time.Time
}

// NewTicketLifecycle creates the support ticket manager
func NewTicketLifecycle(cfg *config.Config, store interfaces.StateStore, platform interfaces.Platform, scheduler interfaces.TaskScheduler) interfaces.TicketLifecycle {
	return &ticketLifecycle{
		config:    cfg,
		store:     store,
		platform:  platform,
		scheduler: scheduler,
		now:       time.Now,
	}
}

// ticketChannelName builds a lowercase channel name from the requester name
func ticketChannelName(name string) string {
	var b strings.Builder
	for _, r := range strings.ToLower(name) {
		switch {
		case unicode.IsLetter(r) || unicode.IsDigit(r):
			b.WriteRune(r)
		case r == ' ' || r == '-' || r == '_' || r == '.':
			b.WriteRune('-')
		}
	}
	slug := strings.Trim(b.String(), "-")
	if slug == "" {
		slug = "membre"
	}
	if r := []rune(slug); len(r) > 80 {
		slug = string(r[:80])
	}
	return "ticket-" + slug
}

// Open creates the ticket channel; a requester with a non-closed ticket is
// rejected with ErrDuplicateTicket
func (s *ticketLifecycle) Open(ctx context.Context, req interfaces.OpenTicketRequest) (*entities.SupportTicket, error) {
	if !req.Category.IsValid() || req.RequesterID == 0 {
		return nil, entities.ErrInvalidArgument
	}

	var ticket *entities.SupportTicket
	err := s.store.Mutate(ctx, []entities.Key{entities.RequesterKey(req.RequesterID)}, func(tx interfaces.StateTx) error {
		if existing := tx.OpenTicketFor(req.RequesterID); existing != nil {
			return entities.ErrDuplicateTicket
		}

		private := entities.PermViewChannel | entities.PermSendMessages | entities.PermReadHistory
		overwrites := []entities.PermissionOverwrite{
			{TargetID: req.GuildID, IsRole: true, Deny: entities.PermViewChannel},
			{TargetID: req.RequesterID, Allow: private | entities.PermAttachFiles},
		}
		if s.config.StaffRoleID != 0 {
			overwrites = append(overwrites, entities.PermissionOverwrite{TargetID: s.config.StaffRoleID, IsRole: true, Allow: private})
		}
		if self := s.platform.SelfID(); self != 0 {
			overwrites = append(overwrites, entities.PermissionOverwrite{TargetID: self, Allow: private | entities.PermManageChannels})
		}

		channelID, err := s.platform.CreateChannel(ctx, req.GuildID, entities.ChannelSpec{
			Name:       ticketChannelName(req.RequesterName),
			Type:       entities.ChannelTypeText,
			ParentID:   s.config.TicketCategoryID,
			Topic:      fmt.Sprintf("Ticket %s de %s", req.Category, req.RequesterName),
			Overwrites: overwrites,
		})
		if err != nil {
			return fmt.Errorf("failed to create ticket channel: %w", err)
		}
		if err := tx.Acquire(entities.TicketKey(channelID)); err != nil {
			return err
		}

		ticket = &entities.SupportTicket{
			ChannelID:   channelID,
			GuildID:     req.GuildID,
			RequesterID: req.RequesterID,
			Category:    req.Category,
			Status:      entities.TicketStatusOpen,
			CreatedAt:   s.now(),
		}
		tx.PutTicket(ticket)
		tx.Publish(events.TicketEvent{
			Kind:        events.EventTypeTicketOpened,
			ChannelID:   channelID,
			GuildID:     req.GuildID,
			RequesterID: req.RequesterID,
			ActorID:     req.RequesterID,
			Category:    string(req.Category),
		})
		return nil
	})
	if err := tolerateDurability(err, "ticket_open"); err != nil {
		return nil, err
	}
	return ticket.Clone(), nil
}

// Claim assigns the ticket to a staff member
func (s *ticketLifecycle) Claim(ctx context.Context, channelID int64, actor interfaces.TicketActor) (*entities.SupportTicket, error) {
	if !actor.IsStaff && !actor.HasOwnerRole {
		return nil, entities.ErrForbidden
	}

	var ticket *entities.SupportTicket
	err := s.store.Mutate(ctx, []entities.Key{entities.TicketKey(channelID)}, func(tx interfaces.StateTx) error {
		t := tx.Ticket(channelID)
		switch {
		case t == nil:
			return entities.ErrNotFound
		case t.IsClosed():
			return entities.ErrTicketClosing
		case t.IsClaimed():
			return entities.ErrAlreadyClaimed
		}
		claimer := actor.UserID
		t.ClaimedBy = &claimer
		t.Status = entities.TicketStatusClaimed
		tx.PutTicket(t)
		tx.Publish(events.TicketEvent{
			Kind:        events.EventTypeTicketClaimed,
			ChannelID:   channelID,
			GuildID:     t.GuildID,
			RequesterID: t.RequesterID,
			ActorID:     actor.UserID,
			Category:    string(t.Category),
		})
		ticket = t
		return nil
	})
	if err := tolerateDurability(err, "ticket_claim"); err != nil {
		return nil, err
	}
	return ticket, nil
}

func (s *ticketLifecycle) mayClose(t *entities.SupportTicket, actor interfaces.TicketActor) bool {
	return actor.UserID == t.RequesterID ||
		actor.IsStaff ||
		actor.HasOwnerRole ||
		(s.config.OwnerID != 0 && actor.UserID == s.config.OwnerID)
}

// RequestClose moves the ticket to closing and schedules its deletion after
// the grace delay
func (s *ticketLifecycle) RequestClose(ctx context.Context, channelID int64, actor interfaces.TicketActor) (*entities.SupportTicket, error) {
	var ticket *entities.SupportTicket
	err := s.store.Mutate(ctx, []entities.Key{entities.TicketKey(channelID)}, func(tx interfaces.StateTx) error {
		t := tx.Ticket(channelID)
		if t == nil {
			return entities.ErrNotFound
		}
		if t.IsClosed() {
			return entities.ErrTicketClosing
		}
		if !s.mayClose(t, actor) {
			return entities.ErrForbidden
		}
		now := s.now()
		t.Status = entities.TicketStatusClosing
		t.CloseRequested = &now
		tx.PutTicket(t)
		tx.Publish(events.TicketEvent{
			Kind:        events.EventTypeTicketClosing,
			ChannelID:   channelID,
			GuildID:     t.GuildID,
			RequesterID: t.RequesterID,
			ActorID:     actor.UserID,
			Category:    string(t.Category),
		})
		ticket = t
		return nil
	})
	if err := tolerateDurability(err, "ticket_close"); err != nil {
		return nil, err
	}

	s.scheduleFinalize(channelID, s.config.TicketCloseDelay)
	return ticket, nil
}

func (s *ticketLifecycle) scheduleFinalize(channelID int64, delay time.Duration) {
	s.scheduler.Schedule(fmt.Sprintf("ticket-finalize:%d", channelID), delay, func(ctx context.Context) {
		if err := s.Finalize(ctx, channelID); err != nil {
			log.WithError(err).WithField("channelId", channelID).Error("Failed to finalize ticket")
		}
	})
}

// Finalize deletes a closing ticket. The state is re-read when the timer
// fires: a ticket that is gone or no longer closing is left alone.
func (s *ticketLifecycle) Finalize(ctx context.Context, channelID int64) error {
	err := s.store.Mutate(ctx, []entities.Key{entities.TicketKey(channelID)}, func(tx interfaces.StateTx) error {
		t := tx.Ticket(channelID)
		if t == nil || !t.IsClosed() {
			return nil
		}
		if err := s.platform.DeleteChannel(ctx, channelID); err != nil && !errors.Is(err, entities.ErrNotFound) {
			return fmt.Errorf("failed to delete ticket channel: %w", err)
		}
		tx.DeleteTicket(channelID)
		tx.Publish(events.TicketEvent{
			Kind:        events.EventTypeTicketDeleted,
			ChannelID:   channelID,
			GuildID:     t.GuildID,
			RequesterID: t.RequesterID,
			Category:    string(t.Category),
		})
		return nil
	})
	return tolerateDurability(err, "ticket_finalize")
}

// Forget drops a ticket whose channel was deleted outside the bot
func (s *ticketLifecycle) Forget(ctx context.Context, channelID int64) error {
	err := s.store.Mutate(ctx, []entities.Key{entities.TicketKey(channelID)}, func(tx interfaces.StateTx) error {
		t := tx.Ticket(channelID)
		if t == nil {
			return nil
		}
		tx.DeleteTicket(channelID)
		tx.Publish(events.TicketEvent{
			Kind:        events.EventTypeTicketDeleted,
			ChannelID:   channelID,
			GuildID:     t.GuildID,
			RequesterID: t.RequesterID,
			Category:    string(t.Category),
		})
		return nil
	})
	return tolerateDurability(err, "ticket_forget")
}

// ResumePending re-schedules deletion of tickets a restart left closing
func (s *ticketLifecycle) ResumePending(ctx context.Context) error {
	var pending []*entities.SupportTicket
	if err := s.store.View(ctx, func(v interfaces.StateView) error {
		for _, t := range v.Tickets() {
			if t.IsClosed() {
				pending = append(pending, t)
			}
		}
		return nil
	}); err != nil {
		return fmt.Errorf("failed to list closing tickets: %w", err)
	}

	now := s.now()
	for _, t := range pending {
		delay := time.Duration(0)
		if t.CloseRequested != nil {
			if remaining := t.CloseRequested.Add(s.config.TicketCloseDelay).Sub(now); remaining > 0 {
				delay = remaining
			}
		}
		s.scheduleFinalize(t.ChannelID, delay)
	}
	if len(pending) > 0 {
		log.WithField("count", len(pending)).Info("Resumed pending ticket deletions")
	}
	return nil
}
