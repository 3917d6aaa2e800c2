package testutil

import (
	"time"

	"riobot/domain/entities"
)

// CreateTestAccount creates an account with the given balance and XP
func CreateTestAccount(userID, currency, xp int64) *entities.UserAccount {
	account := entities.NewUserAccount(userID)
	account.CreatedAt = time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC)
	account.Currency = currency
	account.XP = xp
	account.Level = entities.LevelOf(xp).Level
	return account
}

// CreateTestDocument creates a document holding the given accounts
func CreateTestDocument(accounts ...*entities.UserAccount) *entities.StateDocument {
	doc := entities.NewStateDocument()
	for _, a := range accounts {
		doc.Users[a.UserID] = a
	}
	return doc
}
