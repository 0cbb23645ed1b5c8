package postgres

import (
	"context"
	"fmt"
	"reflect"
	"strings"
)

type call struct {
	sql  string
	args []any
}

type fakeTag int64

func (t fakeTag) RowsAffected() int64 { return int64(t) }

type fakeRow struct {
	values []any
	err    error
}

func (r *fakeRow) Scan(dest ...any) error {
	if r.err != nil {
		return r.err
	}
	return scanInto(r.values, dest)
}

type fakeRows struct {
	data [][]any
	pos  int
}

func (r *fakeRows) Next() bool {
	r.pos++
	return r.pos <= len(r.data)
}

func (r *fakeRows) Scan(dest ...any) error { return scanInto(r.data[r.pos-1], dest) }
func (r *fakeRows) Err() error             { return nil }
func (r *fakeRows) Close()                 {}

// fakeDB records statements and answers queries from scripted handlers
type fakeDB struct {
	execs   []call
	queries []call

	// execFn decides the result of Exec; nil means one row affected
	execFn    func(sql string) (int64, error)
	rowFn     func(sql string, args []any) *fakeRow
	rowsFn    func(sql string, args []any) [][]any
	begins    int
	commits   int
	rollbacks int
}

func (db *fakeDB) Query(ctx context.Context, sql string, args ...any) (Rows, error) {
	db.queries = append(db.queries, call{sql, args})
	var data [][]any
	if db.rowsFn != nil {
		data = db.rowsFn(sql, args)
	}
	return &fakeRows{data: data}, nil
}

func (db *fakeDB) QueryRow(ctx context.Context, sql string, args ...any) Row {
	db.queries = append(db.queries, call{sql, args})
	if db.rowFn == nil {
		return &fakeRow{err: fmt.Errorf("unexpected query: %s", sql)}
	}
	return db.rowFn(sql, args)
}

func (db *fakeDB) Exec(ctx context.Context, sql string, args ...any) (CommandTag, error) {
	db.execs = append(db.execs, call{sql, args})
	if db.execFn == nil {
		return fakeTag(1), nil
	}
	n, err := db.execFn(sql)
	return fakeTag(n), err
}

func (db *fakeDB) Begin(ctx context.Context) (Tx, error) {
	db.begins++
	return &fakeTx{db: db}, nil
}

func (db *fakeDB) Close() {}

func (db *fakeDB) execsMatching(fragment string) []call {
	var out []call
	for _, c := range db.execs {
		if strings.Contains(c.sql, fragment) {
			out = append(out, c)
		}
	}
	return out
}

type fakeTx struct {
	db   *fakeDB
	done bool
}

func (tx *fakeTx) Query(ctx context.Context, sql string, args ...any) (Rows, error) {
	return tx.db.Query(ctx, sql, args...)
}

func (tx *fakeTx) QueryRow(ctx context.Context, sql string, args ...any) Row {
	return tx.db.QueryRow(ctx, sql, args...)
}

func (tx *fakeTx) Exec(ctx context.Context, sql string, args ...any) (CommandTag, error) {
	return tx.db.Exec(ctx, sql, args...)
}

func (tx *fakeTx) Commit(ctx context.Context) error {
	tx.done = true
	tx.db.commits++
	return nil
}

// Rollback after Commit is a no-op, like pgx
func (tx *fakeTx) Rollback(ctx context.Context) error {
	if !tx.done {
		tx.done = true
		tx.db.rollbacks++
	}
	return nil
}

func scanInto(values []any, dest []any) error {
	if len(values) != len(dest) {
		return fmt.Errorf("scan: %d values for %d destinations", len(values), len(dest))
	}
	for i, d := range dest {
		dv := reflect.ValueOf(d).Elem()
		if values[i] == nil {
			dv.Set(reflect.Zero(dv.Type()))
			continue
		}
		v := reflect.ValueOf(values[i])
		if dv.Kind() == reflect.Pointer && v.Type() != dv.Type() {
			p := reflect.New(dv.Type().Elem())
			p.Elem().Set(v.Convert(dv.Type().Elem()))
			dv.Set(p)
			continue
		}
		dv.Set(v.Convert(dv.Type()))
	}
	return nil
}
