package services

import (
	"context"
	"fmt"
	"strings"
	"time"

	"riobot/config"
	"riobot/domain/entities"
	"riobot/domain/interfaces"
	"riobot/events"
	"riobot/infrastructure/observability"

	log "github.com/sirupsen/logrus"
)

// DefaultReason is used when a moderator gives no reason
const DefaultReason = "Aucune raison fournie"

type moderationService struct {
	policy    entities.EscalationPolicy
	store     interfaces.StateStore
	platform  interfaces.Platform
	publisher interfaces.EventPublisher
}

// NewModerationService creates the warn ledger and escalation engine
func NewModerationService(cfg *config.Config, store interfaces.StateStore, platform interfaces.Platform, publisher interfaces.EventPublisher) interfaces.ModerationEscalation {
	return &moderationService{
		policy: entities.EscalationPolicy{
			TimeoutThreshold: cfg.WarnTimeoutThreshold,
			KickThreshold:    cfg.WarnKickThreshold,
			TimeoutDuration:  cfg.WarnTimeoutDuration,
		},
		store:     store,
		platform:  platform,
		publisher: publisher,
	}
}

// AddWarn appends a warn and applies the sanction its new total maps to.
// A failed sanction is reported in the outcome; the warn stays recorded.
func (s *moderationService) AddWarn(ctx context.Context, in interfaces.WarnInput) (*interfaces.WarnOutcome, error) {
	if in.SubjectID == 0 {
		return nil, entities.ErrInvalidArgument
	}
	reason := strings.TrimSpace(in.Reason)
	if reason == "" {
		reason = DefaultReason
	}
	at := in.At
	if at.IsZero() {
		at = time.Now()
	}

	outcome := &interfaces.WarnOutcome{}
	err := s.store.Mutate(ctx, []entities.Key{entities.WarnsKey(in.SubjectID)}, func(tx interfaces.StateTx) error {
		ledger := tx.Warns(in.SubjectID)
		outcome.Record = ledger.Append(in.ModeratorID, reason, in.Automatic, at)
		outcome.Count = ledger.Count()
		outcome.Sanction = s.policy.SanctionFor(outcome.Count)
		tx.PutWarns(ledger)
		tx.Publish(events.WarnAddedEvent{
			SubjectID:   in.SubjectID,
			ModeratorID: in.ModeratorID,
			Seq:         outcome.Record.Seq,
			Count:       outcome.Count,
			Reason:      reason,
			Automatic:   in.Automatic,
		})
		return nil
	})
	if err := tolerateDurability(err, "add_warn"); err != nil {
		return nil, fmt.Errorf("failed to add warn: %w", err)
	}

	if outcome.Sanction != entities.SanctionNone {
		outcome.SanctionErr = s.applySanction(ctx, in, outcome, at)
	}
	return outcome, nil
}

func (s *moderationService) applySanction(ctx context.Context, in interfaces.WarnInput, outcome *interfaces.WarnOutcome, at time.Time) error {
	reason := fmt.Sprintf("Sanction automatique : %d avertissements", outcome.Count)
	event := events.AutoSanctionEvent{
		GuildID:   in.GuildID,
		ChannelID: in.ChannelID,
		SubjectID: in.SubjectID,
		Sanction:  string(outcome.Sanction),
		WarnCount: outcome.Count,
		Reason:    reason,
		Automatic: in.Automatic,
	}

	var err error
	switch outcome.Sanction {
	case entities.SanctionTimeout:
		until := at.Add(s.policy.TimeoutDuration)
		event.Duration = s.policy.TimeoutDuration
		err = s.platform.SetMemberTimeout(ctx, in.GuildID, in.SubjectID, &until, reason)
	case entities.SanctionKick:
		err = s.platform.KickMember(ctx, in.GuildID, in.SubjectID, reason)
	}

	fields := log.Fields{
		"subjectId": in.SubjectID,
		"sanction":  outcome.Sanction,
		"warns":     outcome.Count,
	}
	if err != nil {
		event.Failed = true
		log.WithError(err).WithFields(fields).Warn("Automatic sanction failed")
	} else {
		log.WithFields(fields).Info("Automatic sanction applied")
		observability.GetMetrics().RecordSanction(string(outcome.Sanction))
	}

	if s.publisher != nil {
		if pubErr := s.publisher.Publish(event); pubErr != nil {
			log.WithError(pubErr).Warn("Failed to publish sanction event")
		}
	}
	return err
}

// ListWarns returns a subject's active warns, oldest first
func (s *moderationService) ListWarns(ctx context.Context, subjectID int64) ([]entities.WarnRecord, error) {
	var records []entities.WarnRecord
	err := s.store.View(ctx, func(v interfaces.StateView) error {
		if ledger, ok := v.Warns(subjectID); ok {
			records = append(records, ledger.Records...)
		}
		return nil
	})
	if err != nil {
		return nil, fmt.Errorf("failed to list warns: %w", err)
	}
	return records, nil
}

// ClearWarns removes every active warn; sequence ids keep counting up
func (s *moderationService) ClearWarns(ctx context.Context, subjectID int64) (int, error) {
	removed := 0
	err := s.store.Mutate(ctx, []entities.Key{entities.WarnsKey(subjectID)}, func(tx interfaces.StateTx) error {
		ledger := tx.Warns(subjectID)
		removed = ledger.ClearAll()
		if removed > 0 {
			tx.PutWarns(ledger)
		}
		return nil
	})
	if err := tolerateDurability(err, "clear_warns"); err != nil {
		return 0, fmt.Errorf("failed to clear warns: %w", err)
	}
	return removed, nil
}
