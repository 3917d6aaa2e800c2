package services

import (
	"errors"

	"riobot/domain/entities"

	log "github.com/sirupsen/logrus"
)

// errDenied aborts a mutation whose gate refused it; nothing is written
var errDenied = errors.New("denied by gate")

// tolerateDurability turns a persistence failure into success. The mutation
// is applied in memory and stays authoritative for this process.
func tolerateDurability(err error, op string) error {
	if err == nil || !entities.IsPersistenceError(err) {
		return err
	}
	log.WithError(err).WithField("operation", op).Error("State change applied but not persisted")
	return nil
}
