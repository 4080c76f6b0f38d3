package store

import (
	"database/sql"
	"errors"
	"fmt"
	"strconv"
	"strings"

	"github.com/jackc/pgx/v5/pgconn"
	_ "github.com/jackc/pgx/v5/stdlib" // register pgx driver
	"github.com/lib/pq"
	"github.com/zeromicro/go-zero/core/stores/sqlx"
	"modernc.org/sqlite"
	sqlite3 "modernc.org/sqlite/lib"
)

// Supported driver names, as registered with database/sql.
const (
	DriverPgx      = "pgx"
	DriverPostgres = "postgres"
	DriverSQLite   = "sqlite"
)

const pgUniqueViolation = "23505"

// PoolConf sizes the connection pool.
type PoolConf struct {
	MaxOpen int
	MaxIdle int
}

// Open connects to dsn with driver and wraps it as a go-zero SqlConn.
func Open(driver, dsn string, pool PoolConf) (sqlx.SqlConn, *sql.DB, error) {
	switch driver {
	case DriverPgx, DriverPostgres, DriverSQLite:
	default:
		return nil, nil, fmt.Errorf("store: unsupported driver %q", driver)
	}
	db, err := sql.Open(driver, dsn)
	if err != nil {
		return nil, nil, fmt.Errorf("store: open %s: %w", driver, err)
	}
	if driver == DriverSQLite {
		// single writer
		db.SetMaxOpenConns(1)
	} else {
		if pool.MaxOpen > 0 {
			db.SetMaxOpenConns(pool.MaxOpen)
		}
		if pool.MaxIdle > 0 {
			db.SetMaxIdleConns(pool.MaxIdle)
		}
	}
	return sqlx.NewSqlConnFromDB(db), db, nil
}

// rebind rewrites ? placeholders as $n for Postgres drivers.
func rebind(driver, query string) string {
	if driver == DriverSQLite {
		return query
	}
	var b strings.Builder
	b.Grow(len(query) + 8)
	n := 0
	for _, r := range query {
		if r == '?' {
			n++
			b.WriteByte('$')
			b.WriteString(strconv.Itoa(n))
			continue
		}
		b.WriteRune(r)
	}
	return b.String()
}

func isUniqueViolation(err error) bool {
	var pgErr *pgconn.PgError
	if errors.As(err, &pgErr) {
		return pgErr.Code == pgUniqueViolation
	}
	var pqErr *pq.Error
	if errors.As(err, &pqErr) {
		return pqErr.Code == pgUniqueViolation
	}
	var liteErr *sqlite.Error
	if errors.As(err, &liteErr) {
		code := liteErr.Code()
		return code == sqlite3.SQLITE_CONSTRAINT_PRIMARYKEY || code == sqlite3.SQLITE_CONSTRAINT_UNIQUE
	}
	return false
}
