package db

import (
	"context"
	"errors"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
)

// ErrNoConn means a repository ran outside the tenant middleware, which is a
// programming error: every data access must go through a tenant-scoped borrow.
var ErrNoConn = errors.New("no tenant-scoped database connection in request context")

// Querier is the query surface repositories use. Satisfied by *pgxpool.Conn
// and pgx.Tx; tests inject fakes via WithQuerier.
type Querier interface {
	Exec(ctx context.Context, sql string, args ...interface{}) (pgconn.CommandTag, error)
	Query(ctx context.Context, sql string, args ...interface{}) (pgx.Rows, error)
	QueryRow(ctx context.Context, sql string, args ...interface{}) pgx.Row
}

const querierKey contextKey = "db_querier"

// WithQuerier returns a context carrying an explicit querier. Test seam.
func WithQuerier(ctx context.Context, q Querier) context.Context {
	return context.WithValue(ctx, querierKey, q)
}

// QuerierFromContext returns the querier for the current request: an injected
// one if present, otherwise the tenant-scoped pooled connection.
func QuerierFromContext(ctx context.Context) (Querier, error) {
	if q, ok := ctx.Value(querierKey).(Querier); ok && q != nil {
		return q, nil
	}
	if conn := ConnFromContext(ctx); conn != nil {
		return conn, nil
	}
	return nil, ErrNoConn
}

// IsDataLayer reports whether err originated in the database rather than in
// request validation, so handlers know to classify it with HTTPError.
func IsDataLayer(err error) bool {
	if errors.Is(err, pgx.ErrNoRows) || errors.Is(err, ErrNoConn) {
		return true
	}
	var pgErr *pgconn.PgError
	return errors.As(err, &pgErr)
}
