package postgres

import (
	"errors"
	"fmt"
	"testing"

	"github.com/lib/pq"
	"github.com/stretchr/testify/require"

	"github.com/Kerhoff/ChoreboT/internal/repository"
)

func TestPrefixed(t *testing.T) {
	require.Equal(t, "u.id, u.username", prefixed("u", "id, username"))
	require.Equal(t,
		"a.id, a.username, a.first_name, a.last_name, a.telegram_id, a.created_at, a.updated_at",
		prefixed("a", userColumns))
}

func TestMapUnique(t *testing.T) {
	dup := fmt.Errorf("insert: %w", &pq.Error{Code: uniqueViolation})
	require.ErrorIs(t, mapUnique(dup), repository.ErrDuplicate)

	fk := &pq.Error{Code: foreignKeyViolation}
	require.Same(t, fk, mapUnique(fk))

	plain := errors.New("connection reset")
	require.Equal(t, plain, mapUnique(plain))
}

func TestMapMissingParent(t *testing.T) {
	fk := fmt.Errorf("insert: %w", &pq.Error{Code: foreignKeyViolation})
	require.ErrorIs(t, mapMissingParent(fk), repository.ErrNotFound)

	dup := &pq.Error{Code: uniqueViolation}
	require.Same(t, dup, mapMissingParent(dup))
}
