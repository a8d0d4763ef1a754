package xpgx

import (
	"context"
	"fmt"
	"reflect"
	"strings"

	sq "github.com/Masterminds/squirrel"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgxpool"
)

// Pool — тонкая обёртка над pgxpool: принимает squirrel-билдеры
// и сканирует строки в структуры по db-тегам.
type Pool interface {
	Exec(ctx context.Context, sql string, args ...interface{}) (pgconn.CommandTag, error)
	Execx(ctx context.Context, query sq.Sqlizer) (pgconn.CommandTag, error)
	Getx(ctx context.Context, dest interface{}, query sq.Sqlizer) error
	Selectx(ctx context.Context, dest interface{}, query sq.Sqlizer) error
	Close()
}

type pool struct {
	inner *pgxpool.Pool
}

func NewPool(ctx context.Context, dsn string) (Pool, error) {
	inner, err := pgxpool.New(ctx, dsn)
	if err != nil {
		return nil, fmt.Errorf("pgxpool.New: %w", err)
	}

	if err = inner.Ping(ctx); err != nil {
		return nil, fmt.Errorf("pool.Ping: %w", err)
	}

	return &pool{inner: inner}, nil
}

func (p *pool) Close() {
	p.inner.Close()
}

func (p *pool) Exec(ctx context.Context, sql string, args ...interface{}) (pgconn.CommandTag, error) {
	return p.inner.Exec(ctx, sql, args...)
}

func (p *pool) Execx(ctx context.Context, query sq.Sqlizer) (pgconn.CommandTag, error) {
	sql, args, err := query.ToSql()
	if err != nil {
		return pgconn.CommandTag{}, fmt.Errorf("query.ToSql: %w", err)
	}

	return p.inner.Exec(ctx, sql, args...)
}

func (p *pool) Getx(ctx context.Context, dest interface{}, query sq.Sqlizer) error {
	sql, args, err := query.ToSql()
	if err != nil {
		return fmt.Errorf("query.ToSql: %w", err)
	}

	rows, err := p.inner.Query(ctx, sql, args...)
	if err != nil {
		return err
	}
	defer rows.Close()

	if !rows.Next() {
		if err = rows.Err(); err != nil {
			return err
		}
		return pgx.ErrNoRows
	}

	if err = scanRow(rows, reflect.ValueOf(dest).Elem()); err != nil {
		return err
	}

	rows.Close()
	return rows.Err()
}

func (p *pool) Selectx(ctx context.Context, dest interface{}, query sq.Sqlizer) error {
	sql, args, err := query.ToSql()
	if err != nil {
		return fmt.Errorf("query.ToSql: %w", err)
	}

	slice := reflect.ValueOf(dest)
	if slice.Kind() != reflect.Ptr || slice.Elem().Kind() != reflect.Slice {
		return fmt.Errorf("dest must be a pointer to slice, got %T", dest)
	}
	slice = slice.Elem()
	elemType := slice.Type().Elem()

	rows, err := p.inner.Query(ctx, sql, args...)
	if err != nil {
		return err
	}
	defer rows.Close()

	for rows.Next() {
		item := reflect.New(indirectType(elemType))
		if err = scanRow(rows, item.Elem()); err != nil {
			return err
		}

		if elemType.Kind() == reflect.Ptr {
			slice.Set(reflect.Append(slice, item))
		} else {
			slice.Set(reflect.Append(slice, item.Elem()))
		}
	}

	return rows.Err()
}

func indirectType(t reflect.Type) reflect.Type {
	if t.Kind() == reflect.Ptr {
		return t.Elem()
	}
	return t
}

// scanRow раскладывает текущую строку rows по полям структуры, сопоставляя
// имена колонок с db-тегами (включая embedded-структуры). Колонки без
// соответствующего поля игнорируются, скалярные dest сканируются напрямую.
func scanRow(rows pgx.Rows, dest reflect.Value) error {
	if dest.Kind() != reflect.Struct || isScannerLike(dest.Type()) {
		return rows.Scan(dest.Addr().Interface())
	}

	paths := fieldPaths(dest.Type())

	descs := rows.FieldDescriptions()
	targets := make([]interface{}, len(descs))
	for i, fd := range descs {
		path, ok := paths[string(fd.Name)]
		if !ok {
			targets[i] = new(interface{})
			continue
		}
		targets[i] = dest.FieldByIndex(path).Addr().Interface()
	}

	return rows.Scan(targets...)
}

// isScannerLike — типы, которые pgx умеет сканировать целиком, без
// пополевой раскладки (time.Time, decimal и т.п.).
func isScannerLike(t reflect.Type) bool {
	scanner := reflect.TypeOf((*interface{ Scan(interface{}) error })(nil)).Elem()
	return t.PkgPath() != "" && (reflect.PtrTo(t).Implements(scanner) || t.String() == "time.Time")
}

func fieldPaths(t reflect.Type) map[string][]int {
	paths := make(map[string][]int)
	collectPaths(t, nil, paths)
	return paths
}

func collectPaths(t reflect.Type, prefix []int, paths map[string][]int) {
	for i := 0; i < t.NumField(); i++ {
		field := t.Field(i)
		if field.PkgPath != "" {
			continue
		}

		path := append(append([]int{}, prefix...), i)

		if field.Anonymous && indirectType(field.Type).Kind() == reflect.Struct && !isScannerLike(indirectType(field.Type)) {
			collectPaths(indirectType(field.Type), path, paths)
			continue
		}

		name := field.Tag.Get("db")
		if name == "-" {
			continue
		}
		if name == "" {
			name = strings.ToLower(field.Name)
		}

		if _, exists := paths[name]; !exists {
			paths[name] = path
		}
	}
}
