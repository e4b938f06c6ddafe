package entity

import (
	"errors"
	"fmt"
	"time"

	"github.com/webhookdb/mirror/mirror/model"
)

var (
	// ErrMissingData is returned when a snapshot carries no usable identity.
	ErrMissingData = errors.New("missing data")
	// ErrStaleData is returned when the stored record was replicated after the snapshot was fetched.
	ErrStaleData = errors.New("stale data")
	// ErrInvalidSnapshot is returned when a snapshot is not a JSON object or a field has the wrong type.
	ErrInvalidSnapshot = errors.New("invalid snapshot")
)

type StaleDataError struct {
	Kind         model.Kind
	ID           int64
	FetchedAt    time.Time
	ReplicatedAt time.Time
}

func (e *StaleDataError) Error() string {
	return fmt.Sprintf("stale data: %s %d replicated at %s, snapshot fetched at %s",
		e.Kind, e.ID, e.ReplicatedAt.Format(time.RFC3339Nano), e.FetchedAt.Format(time.RFC3339Nano))
}

func (e *StaleDataError) Is(target error) bool {
	return target == ErrStaleData
}

func missingData(kind model.Kind) error {
	return fmt.Errorf("%w: no %s ID", ErrMissingData, kind)
}
