package tables

import (
	"context"
	"fmt"
	"sort"
	"strconv"
	"strings"
	"sync"
	"time"

	"github.com/google/uuid"
)

// Row строка таблицы в том виде, в котором она приходит и уходит в JSON
type Row map[string]any

func (r Row) clone() Row {
	out := make(Row, len(r))
	for k, v := range r {
		out[k] = v
	}
	return out
}

// Filter условие column = value
type Filter struct {
	Column string
	Value  string
}

type Order struct {
	Column    string
	Ascending bool
}

// Query выборка из одной таблицы. Непустой Owner ограничивает строки владельцем.
type Query struct {
	Table   string
	Select  Selection
	Filters []Filter
	Order   *Order
	Limit   int
	Owner   string
}

// ParseFilter разбирает значение параметра вида "eq.value"
func ParseFilter(column, raw string) (Filter, error) {
	op, value, ok := strings.Cut(raw, ".")
	if !ok || op != "eq" {
		return Filter{}, newError(ErrInvalidQuery, "PGRST100", "unsupported filter %s=%s, only eq is available", column, raw)
	}
	return Filter{Column: column, Value: value}, nil
}

// ParseOrder разбирает значение параметра order вида "column.asc" или "column.desc"
func ParseOrder(raw string) (*Order, error) {
	raw = strings.TrimSpace(raw)
	if raw == "" {
		return nil, nil
	}

	parts := strings.Split(raw, ".")
	o := &Order{Column: parts[0], Ascending: true}
	if o.Column == "" {
		return nil, newError(ErrInvalidQuery, "PGRST100", "malformed order %q", raw)
	}
	if len(parts) > 1 {
		switch parts[1] {
		case "asc":
		case "desc":
			o.Ascending = false
		default:
			return nil, newError(ErrInvalidQuery, "PGRST100", "malformed order %q", raw)
		}
	}
	return o, nil
}

type Option func(*DB)

// WithClock подменяет часы для значений по умолчанию
func WithClock(now func() time.Time) Option {
	return func(db *DB) {
		db.now = now
	}
}

// WithIDs подменяет генератор id
func WithIDs(newID func() string) Option {
	return func(db *DB) {
		db.newID = newID
	}
}

// DB набор таблиц в памяти. Все операции атомарны относительно друг друга.
type DB struct {
	mu      sync.RWMutex
	schemas map[string]Schema
	rows    map[string][]Row
	newID   func() string
	now     func() time.Time
}

func New(opts ...Option) *DB {
	db := &DB{
		schemas: make(map[string]Schema),
		rows:    make(map[string][]Row),
		newID:   uuid.NewString,
		now:     time.Now,
	}
	for _, s := range Schemas() {
		db.schemas[s.Name] = s
		db.rows[s.Name] = nil
	}
	for _, opt := range opts {
		opt(db)
	}
	return db
}

// Select возвращает строки, подходящие под запрос
func (db *DB) Select(ctx context.Context, q Query) ([]Row, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	db.mu.RLock()
	defer db.mu.RUnlock()

	schema, err := db.prepare(q)
	if err != nil {
		return nil, err
	}

	matched := db.match(schema, q)
	if q.Order != nil {
		sortRows(matched, *q.Order)
	}
	if q.Limit > 0 && len(matched) > q.Limit {
		matched = matched[:q.Limit]
	}

	return db.renderAll(schema, matched, q.Select), nil
}

// Insert добавляет строки. Либо вставляются все, либо ни одна.
func (db *DB) Insert(ctx context.Context, table string, rows []Row, owner string, sel Selection) ([]Row, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	db.mu.Lock()
	defer db.mu.Unlock()

	schema, err := db.prepare(Query{Table: table, Select: sel})
	if err != nil {
		return nil, err
	}

	now := db.now()
	prepared := make([]Row, 0, len(rows))
	seen := make(map[string]bool, len(rows))
	for _, in := range rows {
		r := in.clone()
		if err := checkColumns(schema, r); err != nil {
			return nil, err
		}
		if v, ok := r["id"]; !ok || v == nil || valueString(v) == "" {
			r["id"] = db.newID()
		}
		id := valueString(r["id"])
		if seen[id] || db.find(table, id) != nil {
			return nil, newError(ErrDuplicateKey, "23505", "Key (id)=(%s) already exists.", id)
		}
		seen[id] = true

		if schema.Defaults != nil {
			schema.Defaults(r, now)
		}
		if err := db.checkRow(schema, r, owner); err != nil {
			return nil, err
		}
		prepared = append(prepared, r)
	}

	db.rows[table] = append(db.rows[table], prepared...)
	return db.renderAll(schema, prepared, sel), nil
}

// Update применяет patch ко всем подходящим строкам
func (db *DB) Update(ctx context.Context, q Query, patch Row) ([]Row, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	db.mu.Lock()
	defer db.mu.Unlock()

	schema, err := db.prepare(q)
	if err != nil {
		return nil, err
	}
	if err := checkColumns(schema, patch); err != nil {
		return nil, err
	}
	if _, ok := patch["id"]; ok {
		return nil, newError(ErrInvalidBody, "PGRST102", "id column can not be updated")
	}

	var updated []Row
	next := make([]Row, len(db.rows[q.Table]))
	copy(next, db.rows[q.Table])
	for i, r := range next {
		if !db.matches(schema, r, q) {
			continue
		}
		merged := r.clone()
		for k, v := range patch {
			merged[k] = v
		}
		if err := db.checkRow(schema, merged, q.Owner); err != nil {
			return nil, err
		}
		next[i] = merged
		updated = append(updated, merged)
	}

	db.rows[q.Table] = next
	return db.renderAll(schema, updated, q.Select), nil
}

// Delete удаляет подходящие строки вместе с зависимыми строками дочерних таблиц
func (db *DB) Delete(ctx context.Context, q Query) ([]Row, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	db.mu.Lock()
	defer db.mu.Unlock()

	schema, err := db.prepare(q)
	if err != nil {
		return nil, err
	}

	var deleted, kept []Row
	for _, r := range db.rows[q.Table] {
		if db.matches(schema, r, q) {
			deleted = append(deleted, r)
			continue
		}
		kept = append(kept, r)
	}

	rendered := db.renderAll(schema, deleted, q.Select)
	db.rows[q.Table] = kept
	for _, r := range deleted {
		db.cascade(schema, valueString(r["id"]))
	}

	return rendered, nil
}

// Seed добавляет строки без проверки владельца
func (db *DB) Seed(table string, rows ...Row) error {
	_, err := db.Insert(context.Background(), table, rows, "", Selection{All: true})
	return err
}

// Count число строк в таблице
func (db *DB) Count(table string) int {
	db.mu.RLock()
	defer db.mu.RUnlock()
	return len(db.rows[table])
}

func (db *DB) prepare(q Query) (Schema, error) {
	schema, ok := db.schemas[q.Table]
	if !ok {
		return Schema{}, newError(ErrUnknownTable, "PGRST205", "Could not find the table 'public.%s' in the schema cache", q.Table)
	}

	for _, f := range q.Filters {
		if !schema.hasColumn(f.Column) {
			return Schema{}, newError(ErrUnknownColumn, "42703", "column %s.%s does not exist", q.Table, f.Column)
		}
	}
	if q.Order != nil && !schema.hasColumn(q.Order.Column) {
		return Schema{}, newError(ErrUnknownColumn, "42703", "column %s.%s does not exist", q.Table, q.Order.Column)
	}
	if !q.Select.All {
		for _, c := range q.Select.Columns {
			if !schema.hasColumn(c) {
				return Schema{}, newError(ErrUnknownColumn, "42703", "column %s.%s does not exist", q.Table, c)
			}
		}
	}
	for _, e := range q.Select.Embeds {
		if _, ok := db.schemas[e.Table]; !ok || referenceTo(schema, e.Table) == "" {
			return Schema{}, newError(ErrInvalidQuery, "PGRST200",
				"Could not find a relationship between '%s' and '%s' in the schema cache", q.Table, e.Table)
		}
	}

	return schema, nil
}

func checkColumns(schema Schema, r Row) error {
	for k := range r {
		if !schema.hasColumn(k) {
			return newError(ErrUnknownColumn, "PGRST204", "Could not find the '%s' column of '%s' in the schema cache", k, schema.Name)
		}
	}
	return nil
}

// checkRow проверяет not null, внешние ключи и владельца
func (db *DB) checkRow(schema Schema, r Row, owner string) error {
	for _, c := range schema.Required {
		if v, ok := r[c]; !ok || v == nil {
			return newError(ErrNotNull, "23502", "null value in column \"%s\" of relation \"%s\"", c, schema.Name)
		}
	}
	for col, parent := range schema.References {
		if db.find(parent, valueString(r[col])) == nil {
			return newError(ErrForeignKey, "23503", "Key (%s)=(%v) is not present in table \"%s\".", col, r[col], parent)
		}
	}
	if owner != "" && db.ownerOf(schema, r) != owner {
		return newError(ErrRowPolicy, "42501", "new row violates row-level security policy for table \"%s\"", schema.Name)
	}
	return nil
}

func (db *DB) match(schema Schema, q Query) []Row {
	var out []Row
	for _, r := range db.rows[q.Table] {
		if db.matches(schema, r, q) {
			out = append(out, r)
		}
	}
	return out
}

func (db *DB) matches(schema Schema, r Row, q Query) bool {
	for _, f := range q.Filters {
		v, ok := r[f.Column]
		if !ok || v == nil || valueString(v) != f.Value {
			return false
		}
	}
	if q.Owner != "" && db.ownerOf(schema, r) != q.Owner {
		return false
	}
	return true
}

func (db *DB) ownerOf(schema Schema, r Row) string {
	if schema.OwnerColumn != "" {
		return valueString(r[schema.OwnerColumn])
	}
	if schema.OwnerVia == "" {
		return ""
	}
	parentTable := schema.References[schema.OwnerVia]
	parent := db.find(parentTable, valueString(r[schema.OwnerVia]))
	if parent == nil {
		return ""
	}
	return db.ownerOf(db.schemas[parentTable], parent)
}

func (db *DB) find(table, id string) Row {
	for _, r := range db.rows[table] {
		if valueString(r["id"]) == id {
			return r
		}
	}
	return nil
}

func (db *DB) cascade(schema Schema, id string) {
	for _, child := range schema.Cascade {
		childSchema := db.schemas[child]
		col := referenceTo(childSchema, schema.Name)
		var kept []Row
		for _, r := range db.rows[child] {
			if valueString(r[col]) == id {
				db.cascade(childSchema, valueString(r["id"]))
				continue
			}
			kept = append(kept, r)
		}
		db.rows[child] = kept
	}
}

func (db *DB) renderAll(schema Schema, rows []Row, sel Selection) []Row {
	out := make([]Row, 0, len(rows))
	for _, r := range rows {
		out = append(out, db.render(schema, r, sel))
	}
	return out
}

func (db *DB) render(schema Schema, r Row, sel Selection) Row {
	out := sel.project(r)
	for _, e := range sel.Embeds {
		col := referenceTo(schema, e.Table)
		parent := db.find(e.Table, valueString(r[col]))
		if parent == nil {
			out[e.Alias] = nil
			continue
		}
		out[e.Alias] = e.Columns.project(parent)
	}
	return out
}

// referenceTo колонка schema, ссылающаяся на table
func referenceTo(schema Schema, table string) string {
	for col, parent := range schema.References {
		if parent == table {
			return col
		}
	}
	return ""
}

func valueString(v any) string {
	switch t := v.(type) {
	case nil:
		return ""
	case string:
		return t
	case float64:
		return strconv.FormatFloat(t, 'f', -1, 64)
	default:
		return fmt.Sprint(t)
	}
}

func sortRows(rows []Row, o Order) {
	sort.SliceStable(rows, func(i, j int) bool {
		a, b := rows[i][o.Column], rows[j][o.Column]
		// как в Postgres: NULL в конце при asc и в начале при desc
		if a == nil || b == nil {
			if a == nil && b == nil {
				return false
			}
			return (b == nil) == o.Ascending
		}
		c := compareValues(a, b)
		if o.Ascending {
			return c < 0
		}
		return c > 0
	})
}

func compareValues(a, b any) int {
	af, aNum := toFloat(a)
	bf, bNum := toFloat(b)
	if aNum && bNum {
		switch {
		case af < bf:
			return -1
		case af > bf:
			return 1
		default:
			return 0
		}
	}
	return strings.Compare(valueString(a), valueString(b))
}

func toFloat(v any) (float64, bool) {
	switch t := v.(type) {
	case float64:
		return t, true
	case int:
		return float64(t), true
	case int64:
		return float64(t), true
	default:
		return 0, false
	}
}
