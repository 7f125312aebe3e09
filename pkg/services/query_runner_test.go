package services

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/tablescope/tablescope/pkg/apperrors"
)

func TestQueryService_Execute(t *testing.T) {
	db := newTestDB(t,
		"CREATE TABLE items (id INTEGER, name TEXT)",
		"INSERT INTO items VALUES (1, 'one'), (2, 'two')",
	)
	svc := NewQueryService(db, zap.NewNop())

	result, err := svc.Execute(context.Background(), "SELECT * FROM items ORDER BY id")
	require.NoError(t, err)

	assert.Equal(t, []string{"id", "name"}, result.Columns)
	assert.Equal(t, 2, result.RowCount)
	assert.Equal(t, "one", result.Rows[0]["name"])
}

func TestQueryService_EmptyQuery(t *testing.T) {
	db := newTestDB(t, "CREATE TABLE items (id INTEGER)")
	svc := NewQueryService(db, zap.NewNop())

	_, err := svc.Execute(context.Background(), "   ")
	require.ErrorIs(t, err, apperrors.ErrQueryRequired)
}

func TestQueryService_InvalidSQL(t *testing.T) {
	db := newTestDB(t, "CREATE TABLE items (id INTEGER)")
	svc := NewQueryService(db, zap.NewNop())

	_, err := svc.Execute(context.Background(), "SELECT FROM nothing")
	require.Error(t, err)
}
