package entity

import (
	"context"
	"fmt"

	"github.com/go-playground/validator/v10"
	"github.com/jackc/pgx/v5/pgtype"

	"github.com/webhookdb/mirror/mirror/model"
	"github.com/webhookdb/mirror/mirror/store"
)

var validate = validator.New()

// fieldTable describes how one entity kind is merged from a snapshot.
//
// Fields are copied when present, through Translations when the column name differs.
// Timestamps are parsed only when truthy. Columns is keyed by column name.
type fieldTable[T any] struct {
	Kind         model.Kind           `validate:"required,oneof=user issue repository"`
	Fields       []string             `validate:"required,unique,dive,required"`
	Translations map[string]string    `validate:"dive,keys,required,endkeys,required"`
	Timestamps   []string             `validate:"unique,dive,required"`
	Columns      map[string]column[T] `validate:"required,dive"`

	replicated func(rec *T) *pgtype.Timestamp
	watermarks map[model.Channel]func(rec *T) *pgtype.Timestamp

	ensure func(ctx context.Context, st *store.Store, id int64) error
	lock   func(ctx context.Context, st *store.Store, id int64) (T, error)
	save   func(ctx context.Context, st *store.Store, rec T) error
}

func (t *fieldTable[T]) columnFor(field string) string {
	if name, ok := t.Translations[field]; ok {
		return name
	}
	return field
}

// check rejects tables that would silently drop data at merge time.
func (t *fieldTable[T]) check() error {
	if err := validate.Struct(t); err != nil {
		return fmt.Errorf("%s field table: %w", t.Kind, err)
	}
	if t.replicated == nil || t.ensure == nil || t.lock == nil || t.save == nil {
		return fmt.Errorf("%s field table: record accessors are required", t.Kind)
	}

	fields := make(map[string]bool, len(t.Fields))
	for _, f := range t.Fields {
		fields[f] = true
		col, ok := t.Columns[t.columnFor(f)]
		if !ok || col.apply == nil {
			return fmt.Errorf("%s field table: field %q has no column %q", t.Kind, f, t.columnFor(f))
		}
		if col.Class == classTimestamp {
			return fmt.Errorf("%s field table: field %q maps to timestamp column, list it under timestamps", t.Kind, f)
		}
	}
	for from := range t.Translations {
		if !fields[from] {
			return fmt.Errorf("%s field table: translation for unknown field %q", t.Kind, from)
		}
	}
	for _, f := range t.Timestamps {
		if fields[f] {
			return fmt.Errorf("%s field table: %q is listed as both field and timestamp", t.Kind, f)
		}
		col, ok := t.Columns[f]
		if !ok || col.apply == nil || col.Class != classTimestamp {
			return fmt.Errorf("%s field table: timestamp %q has no timestamp column", t.Kind, f)
		}
	}
	return nil
}
