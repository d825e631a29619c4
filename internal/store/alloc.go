package store

import (
	"context"
	"errors"
	"fmt"
)

// allocRetries bounds how often a creation re-allocates after losing an
// identifier race to a concurrent insert.
const allocRetries = 5

// CreateWithID allocates the next identifier for collection and calls
// insert with it. When the insert loses the race on the identifier's unique
// index (ErrDuplicateID) the allocation is repeated with a fresh id. Any
// other error aborts immediately, so a failed allocation never leaves a
// partial record behind.
func CreateWithID(ctx context.Context, seq Sequencer, collection string, insert func(id int) error) (int, error) {
	for attempt := 0; attempt < allocRetries; attempt++ {
		id, err := seq.NextID(ctx, collection)
		if err != nil {
			return 0, fmt.Errorf("allocate %s id: %w", collection, err)
		}
		err = insert(id)
		if err == nil {
			return id, nil
		}
		if !errors.Is(err, ErrDuplicateID) {
			return 0, err
		}
	}
	return 0, fmt.Errorf("allocate %s id: %w after %d attempts", collection, ErrDuplicateID, allocRetries)
}
