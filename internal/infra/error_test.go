//go:build unit

package infra_test

import (
	"errors"
	"testing"

	"ticket-hold/internal/infra"
	"ticket-hold/internal/pkg/errs"

	"github.com/jackc/pgx/v5/pgconn"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestWrapRepoErr(t *testing.T) {
	t.Run("default kind is DB_FAILURE", func(t *testing.T) {
		err := infra.WrapRepoErr("query failed", errors.New("connection reset"))
		assert.True(t, infra.IsKind(err, infra.KindDBFailure))
		assert.False(t, infra.IsKind(err, infra.KindNotFound))
		assert.Contains(t, err.Error(), "query failed")
		assert.Contains(t, err.Error(), "connection reset")
	})

	t.Run("explicit kind wins", func(t *testing.T) {
		err := infra.WrapRepoErr("no rows", nil, infra.KindNotFound)
		assert.True(t, infra.IsKind(err, infra.KindNotFound))
	})

	t.Run("unique violation classifies as DUPLICATE_KEY", func(t *testing.T) {
		dup := &pgconn.PgError{Code: "23505", Message: "duplicate key value violates unique constraint"}
		err := infra.WrapRepoErr("insert failed", dup)
		assert.True(t, infra.IsKind(err, infra.KindDuplicateKey))
	})

	t.Run("wrapped unique violation still classifies", func(t *testing.T) {
		dup := &pgconn.PgError{Code: "23505", Message: "duplicate key value violates unique constraint"}
		err := infra.WrapRepoErr("insert failed", errs.Wrap(dup, "exec"))
		assert.True(t, infra.IsKind(err, infra.KindDuplicateKey))
	})

	t.Run("foreign key violation classifies as FOREIGN_KEY_VIOLATED", func(t *testing.T) {
		fk := &pgconn.PgError{Code: "23503", Message: "violates foreign key constraint"}
		err := infra.WrapRepoErr("insert failed", fk)
		assert.True(t, infra.IsKind(err, infra.KindForeignKeyViolated))
	})

	t.Run("explicit kind overrides classification", func(t *testing.T) {
		dup := &pgconn.PgError{Code: "23505"}
		err := infra.WrapRepoErr("lookup failed", dup, infra.KindNotFound)
		assert.True(t, infra.IsKind(err, infra.KindNotFound))
	})

	t.Run("preserves the wrapped cause", func(t *testing.T) {
		cause := errs.New("boom")
		err := infra.WrapRepoErr("insert failed", cause)
		require.ErrorIs(t, err, cause)
	})

	t.Run("IsKind ignores unrelated errors", func(t *testing.T) {
		assert.False(t, infra.IsKind(errors.New("plain"), infra.KindDBFailure))
		assert.False(t, infra.IsKind(nil, infra.KindDBFailure))
	})
}
