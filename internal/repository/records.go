package repository

import (
	"context"
	"errors"
	"fmt"
	"sort"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

var ErrUnknownTable = errors.New("table is not writable")

// Records пишет произвольные строки (map столбец → значение) в разрешённые таблицы.
// Используется и напрямую из /records, и при повторе offline-очереди.
type Records struct {
	db           *gorm.DB
	tables       map[string]struct{}
	conflictKeys map[string][]string
}

func NewRecords(db *gorm.DB, tables []string) *Records {
	r := &Records{
		db:           db,
		tables:       make(map[string]struct{}, len(tables)),
		conflictKeys: map[string][]string{},
	}
	for _, t := range tables {
		r.tables[t] = struct{}{}
	}
	return r
}

// WithConflictKeys задаёт столбцы конфликта для upsert в таблице (по умолчанию "id").
func (r *Records) WithConflictKeys(table string, keys ...string) *Records {
	r.conflictKeys[table] = keys
	return r
}

func (r *Records) Allowed(table string) bool {
	_, ok := r.tables[table]
	return ok
}

func (r *Records) Insert(ctx context.Context, table string, payload map[string]any) error {
	if !r.Allowed(table) {
		return fmt.Errorf("%w: %s", ErrUnknownTable, table)
	}
	row := copyPayload(payload)
	return r.db.WithContext(ctx).Table(table).Create(row).Error
}

// Upsert вставляет строку, а при конфликте по ключу обновляет остальные переданные столбцы.
func (r *Records) Upsert(ctx context.Context, table string, payload map[string]any) error {
	if !r.Allowed(table) {
		return fmt.Errorf("%w: %s", ErrUnknownTable, table)
	}

	keys := r.conflictKeys[table]
	if len(keys) == 0 {
		keys = []string{"id"}
	}
	isKey := make(map[string]bool, len(keys))
	cols := make([]clause.Column, 0, len(keys))
	for _, k := range keys {
		isKey[k] = true
		cols = append(cols, clause.Column{Name: k})
	}

	updates := make([]string, 0, len(payload))
	for k := range payload {
		if !isKey[k] {
			updates = append(updates, k)
		}
	}
	sort.Strings(updates)

	onConflict := clause.OnConflict{Columns: cols}
	if len(updates) == 0 {
		onConflict.DoNothing = true
	} else {
		onConflict.DoUpdates = clause.AssignmentColumns(updates)
	}

	row := copyPayload(payload)
	return r.db.WithContext(ctx).Table(table).Clauses(onConflict).Create(row).Error
}

// gorm может дописать в map сгенерированные значения — очередь хранит исходный payload.
func copyPayload(payload map[string]any) map[string]any {
	out := make(map[string]any, len(payload))
	for k, v := range payload {
		out[k] = v
	}
	return out
}
