package journal

import (
	"errors"
	"fmt"

	"github.com/roach88/onebreath/internal/entry"
)

var (
	// ErrRead wraps failures of the backing store during the read path.
	// These are the transient failures GetAllWithRetry retries.
	ErrRead = errors.New("journal: read backing store")

	// ErrIDExhausted means the ID generator kept returning IDs already in
	// the journal. Nothing is written.
	ErrIDExhausted = errors.New("journal: id generator keeps returning existing ids")

	// ErrEntryExists is matched by *ExistsError.
	ErrEntryExists = errors.New("journal: entry already exists for day")
)

// ExistsError is returned by Save when the day already has an active entry
// and replacing was not requested.
type ExistsError struct {
	Existing entry.Entry
}

func (e *ExistsError) Error() string {
	return fmt.Sprintf("journal: entry already exists for %s (id=%s)", e.Existing.YMD, e.Existing.ID)
}

// Is matches ErrEntryExists.
func (e *ExistsError) Is(target error) bool {
	return target == ErrEntryExists
}
