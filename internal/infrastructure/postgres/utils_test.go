package postgres

import (
	"errors"
	"fmt"
	"testing"

	"github.com/jackc/pgx/v5/pgconn"
	"github.com/stretchr/testify/assert"
)

func TestUniqueConstraint(t *testing.T) {
	pgErr := &pgconn.PgError{Code: "23505", ConstraintName: "sales_number_key"}

	name, ok := uniqueConstraint(pgErr)
	assert.True(t, ok)
	assert.Equal(t, "sales_number_key", name, "debe exponer el constraint que chocó")

	// También a través de errores envueltos
	name, ok = uniqueConstraint(fmt.Errorf("insert sale: %w", pgErr))
	assert.True(t, ok)
	assert.Equal(t, "sales_number_key", name)

	_, ok = uniqueConstraint(&pgconn.PgError{Code: "23503"}) // foreign key
	assert.False(t, ok)

	_, ok = uniqueConstraint(errors.New("conexión cerrada"))
	assert.False(t, ok)

	assert.True(t, isUniqueViolation(pgErr))
	assert.False(t, isUniqueViolation(errors.New("otro error")))
}
