package postgres

import (
	"context"
	"database/sql"
)

// Queryer é o subconjunto de operações de leitura e escrita que o repositório
// de datasets precisa da conexão
type Queryer interface {
	Exec(ctx context.Context, sql string, args ...interface{}) (sql.Result, error)
	Query(ctx context.Context, sql string, args ...interface{}) (*sql.Rows, error)
	QueryRow(ctx context.Context, sql string, args ...interface{}) *sql.Row
}
