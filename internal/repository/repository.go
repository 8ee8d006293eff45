package repository

import (
	"errors"

	"github.com/jackc/pgx/v5/pgconn"
	"gorm.io/gorm"
)

var (
	// ErrFeedFetch marks a transport-level RSS feed failure (connection
	// error, timeout, non-2xx status). Retryable on the scheduled path.
	ErrFeedFetch = errors.New("feed fetch failed")

	// ErrExternalAPI marks a transport or structural failure of the
	// external metal price API.
	ErrExternalAPI = errors.New("external api request failed")

	// ErrPriceNotFound is returned when a symbol has no row in the
	// latest price batch.
	ErrPriceNotFound = errors.New("metal price not found")

	// ErrDuplicate marks a unique-constraint conflict on user-driven
	// writes (keywords, article tags).
	ErrDuplicate = errors.New("duplicate record")
)

// isUniqueViolation reports whether err is a Postgres unique-constraint
// violation, either translated by gorm or surfaced raw by the driver.
func isUniqueViolation(err error) bool {
	if errors.Is(err, gorm.ErrDuplicatedKey) {
		return true
	}
	var pgErr *pgconn.PgError
	return errors.As(err, &pgErr) && pgErr.Code == "23505"
}
