package postgres

import (
	"errors"
	"fmt"
	"testing"

	"github.com/jackc/pgx/v5/pgconn"
	"github.com/stretchr/testify/assert"

	"github.com/jhoicas/warehouse-api/internal/domain"
)

func TestWriteError_TraduceCodigosDePostgres(t *testing.T) {
	unique := fmt.Errorf("insert: %w", &pgconn.PgError{Code: "23505"})
	fk := &pgconn.PgError{Code: "23503"}

	assert.ErrorIs(t, writeError("create product", unique), domain.ErrConflict)
	assert.ErrorIs(t, writeError("create transaction", fk), domain.ErrConflict)
}

func TestWriteError_SoloPgErrorEsConflicto(t *testing.T) {
	plain := errors.New("lote 23505 no encontrado")
	err := writeError("create product", plain)

	assert.NotErrorIs(t, err, domain.ErrConflict)
	assert.ErrorIs(t, err, plain)
	assert.False(t, isUniqueViolation(&pgconn.PgError{Code: "23503"}))
}

func TestSearchPattern_EscapaComodines(t *testing.T) {
	assert.Equal(t, `%50\%\_a%`, searchPattern("50%_a"))
}
