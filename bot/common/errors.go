package common

import (
	"errors"
	"fmt"

	"riobot/domain/entities"
)

// BotError represents a structured error with user-facing and internal messages
type BotError struct {
	UserMessage string // Message shown to the member
	LogMessage  string // Internal message for logging
	Ephemeral   bool   // Whether the error message should be ephemeral
	Err         error  // Underlying error
}

// Error implements the error interface
func (e *BotError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("%s: %v", e.LogMessage, e.Err)
	}
	return e.LogMessage
}

// Unwrap returns the underlying error
func (e *BotError) Unwrap() error {
	return e.Err
}

// NewUserError creates an error for user-caused issues (validation, insufficient funds, etc)
func NewUserError(userMessage string, logMessage string) *BotError {
	return &BotError{
		UserMessage: userMessage,
		LogMessage:  logMessage,
		Ephemeral:   true,
	}
}

// NewSystemError creates an error for system issues
func NewSystemError(err error, logMessage string) *BotError {
	return &BotError{
		UserMessage: GenericErrorMessage,
		LogMessage:  logMessage,
		Ephemeral:   true,
		Err:         err,
	}
}

// GenericErrorMessage is shown when nothing more specific applies
const GenericErrorMessage = "❌ Une erreur est survenue. Réessaie plus tard."

var userMessages = []struct {
	err     error
	message string
}{
	{entities.ErrInsufficientFunds, "❌ Tu n'as pas assez de rios."},
	{entities.ErrAlreadyClaimed, "❌ Quelqu'un a déjà cliqué sur ce bouton !"},
	{entities.ErrSelfClaimForbidden, "❌ Tu ne peux pas souhaiter la bienvenue à toi-même !"},
	{entities.ErrDuplicateTicket, "❌ Tu as déjà un ticket ouvert."},
	{entities.ErrNotOwner, "❌ Tu n'es pas le propriétaire de ce salon."},
	{entities.ErrTicketClosing, "❌ Ce ticket est déjà en cours de fermeture."},
	{entities.ErrUnknownItem, "❌ Cet objet n'existe pas dans la boutique."},
	{entities.ErrAlreadyOwned, "❌ Tu possèdes déjà cet objet."},
	{entities.ErrPlatformForbidden, "❌ Je n'ai pas la permission de faire ça."},
	{entities.ErrPlatformRateLimited, "❌ Trop de requêtes, réessaie dans quelques instants."},
	{entities.ErrForbidden, "❌ Tu n'as pas la permission de faire ça."},
	{entities.ErrNotFound, "❌ Bouton expiré."},
	{entities.ErrInvalidArgument, "❌ Valeur invalide."},
}

// UserMessageFor maps an error onto the short reply shown to the member
func UserMessageFor(err error) string {
	var botErr *BotError
	if errors.As(err, &botErr) && botErr.UserMessage != "" {
		return botErr.UserMessage
	}
	for _, m := range userMessages {
		if errors.Is(err, m.err) {
			return m.message
		}
	}
	return GenericErrorMessage
}

// IsUserError reports whether err is the member's doing rather than a fault
func IsUserError(err error) bool {
	var botErr *BotError
	if errors.As(err, &botErr) {
		return botErr.Err == nil
	}
	for _, m := range userMessages {
		if errors.Is(err, m.err) {
			return !entities.IsTransientPlatformError(err)
		}
	}
	return false
}
