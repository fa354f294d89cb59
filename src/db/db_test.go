package db

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewDB(t *testing.T) {
	gormDB, mock, err := NewMockDB()
	require.NoError(t, err)
	require.NotNil(t, mock)
	NewDB(gormDB)
	t.Cleanup(func() { db = nil })

	got, err := GetDb("ignored")
	require.NoError(t, err)
	assert.Same(t, gormDB, got)
	assert.Equal(t, "postgres", got.Name())
}
