package common

import (
	"fmt"
	"strconv"
	"strings"

	"riobot/domain/entities"
)

// ActionKind is the closed set of component actions the bot understands
type ActionKind string

const (
	ActionWelcomeClaim ActionKind = "welcome"
	ActionTicketOpen   ActionKind = "ticket_open"
	ActionTicketClaim  ActionKind = "ticket_claim"
	ActionTicketClose  ActionKind = "ticket_close"

	ActionVoiceLock   ActionKind = "voice_lock"
	ActionVoiceUnlock ActionKind = "voice_unlock"
	ActionVoiceLimit  ActionKind = "voice_limit"
	ActionVoiceRename ActionKind = "voice_rename"
	ActionVoiceInvite ActionKind = "voice_invite"
	ActionVoiceKick   ActionKind = "voice_kick"

	// Form submissions of the voice control modals
	ActionVoiceLimitForm  ActionKind = "voice_limit_form"
	ActionVoiceRenameForm ActionKind = "voice_rename_form"
	ActionVoiceInviteForm ActionKind = "voice_invite_form"
	ActionVoiceKickForm   ActionKind = "voice_kick_form"
)

const actionPrefix = "rio"

// Action is a decoded component custom id
type Action struct {
	Kind ActionKind
	Arg  string
}

var knownActions = map[ActionKind]bool{
	ActionWelcomeClaim: true, ActionTicketOpen: true, ActionTicketClaim: true, ActionTicketClose: true,
	ActionVoiceLock: true, ActionVoiceUnlock: true, ActionVoiceLimit: true, ActionVoiceRename: true,
	ActionVoiceInvite: true, ActionVoiceKick: true,
	ActionVoiceLimitForm: true, ActionVoiceRenameForm: true, ActionVoiceInviteForm: true, ActionVoiceKickForm: true,
}

// CustomID encodes the action for a button or modal
func (a Action) CustomID() string {
	if a.Arg == "" {
		return fmt.Sprintf("%s:%s", actionPrefix, a.Kind)
	}
	return fmt.Sprintf("%s:%s:%s", actionPrefix, a.Kind, a.Arg)
}

// Int64Arg parses the argument as an id
func (a Action) Int64Arg() (int64, error) {
	id, err := strconv.ParseInt(a.Arg, 10, 64)
	if err != nil {
		return 0, fmt.Errorf("%w: action argument %q", entities.ErrInvalidArgument, a.Arg)
	}
	return id, nil
}

// ParseAction decodes a custom id. Welcome buttons posted before the current
// encoding ("welcome_<id>") are still accepted.
func ParseAction(customID string) (Action, error) {
	if rest, ok := strings.CutPrefix(customID, "welcome_"); ok {
		return Action{Kind: ActionWelcomeClaim, Arg: rest}, nil
	}

	parts := strings.SplitN(customID, ":", 3)
	if len(parts) < 2 || parts[0] != actionPrefix {
		return Action{}, fmt.Errorf("%w: unknown custom id %q", entities.ErrInvalidArgument, customID)
	}
	kind := ActionKind(parts[1])
	if !knownActions[kind] {
		return Action{}, fmt.Errorf("%w: unknown action %q", entities.ErrInvalidArgument, kind)
	}
	a := Action{Kind: kind}
	if len(parts) == 3 {
		a.Arg = parts[2]
	}
	return a, nil
}

// WelcomeAction is the claim button of a welcome message
func WelcomeAction(targetUserID int64) Action {
	return Action{Kind: ActionWelcomeClaim, Arg: strconv.FormatInt(targetUserID, 10)}
}

// TicketOpenAction is the panel button of a ticket category
func TicketOpenAction(category entities.TicketCategory) Action {
	return Action{Kind: ActionTicketOpen, Arg: string(category)}
}
