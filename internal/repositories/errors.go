package repositories

import (
	"github.com/cockroachdb/errors"
	"gorm.io/gorm"
)

// ErrNotFound is returned when a lookup or update matches no row.
var ErrNotFound = errors.New("record not found")

// notFound maps gorm's sentinel onto ErrNotFound, keeping the entity name.
func notFound(err error, entity string) error {
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return errors.Mark(errors.Newf("%s not found", entity), ErrNotFound)
	}
	return errors.Wrapf(err, "failed to find %s", entity)
}
