package entity

import (
	"context"
	"fmt"
	"time"

	"github.com/tidwall/gjson"

	"github.com/webhookdb/mirror/mirror/domain"
	"github.com/webhookdb/mirror/mirror/model"
	"github.com/webhookdb/mirror/mirror/store"
)

// reconcile merges one snapshot into the stored record of table's kind.
//
// The record is created when absent and locked for the rest of the transaction. A record
// replicated strictly after fetchedAt is left untouched and ErrStaleData is returned.
func reconcile[T any](ctx context.Context, tx domain.Transactor, table *fieldTable[T], snapshot model.Snapshot, fetchedAt time.Time, channel model.Channel) (T, error) {
	var result T

	if !gjson.ValidBytes(snapshot) {
		return result, fmt.Errorf("%w: %s snapshot is not valid JSON", ErrInvalidSnapshot, table.Kind)
	}
	root := gjson.ParseBytes(snapshot)
	if !root.IsObject() {
		return result, fmt.Errorf("%w: %s snapshot is not an object", ErrInvalidSnapshot, table.Kind)
	}

	id := root.Get("id").Int()
	if id <= 0 {
		return result, missingData(table.Kind)
	}

	stamp := naive(fetchedAt)

	err := tx.WithinTx(ctx, func(st *store.Store) error {
		if err := table.ensure(ctx, st, id); err != nil {
			return err
		}
		rec, err := table.lock(ctx, st, id)
		if err != nil {
			return err
		}

		if last := table.replicated(&rec); last.Valid && last.Time.After(stamp.Time) {
			return &StaleDataError{
				Kind:         table.Kind,
				ID:           id,
				FetchedAt:    stamp.Time,
				ReplicatedAt: last.Time,
			}
		}

		for _, field := range table.Fields {
			v, ok := lookup(snapshot, field)
			if !ok {
				continue
			}
			if err := table.Columns[table.columnFor(field)].apply(&rec, v); err != nil {
				return fmt.Errorf("%w: %s field %q: %v", ErrInvalidSnapshot, table.Kind, field, err)
			}
		}
		for _, field := range table.Timestamps {
			v, ok := lookup(snapshot, field)
			if !ok || !truthy(v) {
				continue
			}
			if err := table.Columns[field].apply(&rec, v); err != nil {
				return fmt.Errorf("%w: %s field %q: %v", ErrInvalidSnapshot, table.Kind, field, err)
			}
		}

		*table.replicated(&rec) = stamp
		if watermark, ok := table.watermarks[channel]; ok {
			*watermark(&rec) = stamp
		}

		if err := table.save(ctx, st, rec); err != nil {
			return err
		}
		result = rec
		return nil
	})
	return result, err
}
