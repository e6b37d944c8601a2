package storage

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestMemoryObjectStorage(t *testing.T) {
	ctx := context.Background()
	s := NewMemoryObjectStorage()

	require.Error(t, s.Put(ctx, "", nil, "application/json"))

	data := []byte(`{"plan_id":"p1"}`)
	require.NoError(t, s.Put(ctx, "audit/2025/01/02/p1.json", data, "application/json"))
	require.NoError(t, s.Put(ctx, "audit/2025/01/03/p2.json", []byte("{}"), "application/json"))
	data[0] = 'x'

	got, err := s.Get(ctx, "audit/2025/01/02/p1.json")
	require.NoError(t, err)
	assert.Equal(t, `{"plan_id":"p1"}`, string(got), "stored bytes are a copy")

	_, err = s.Get(ctx, "audit/missing.json")
	assert.ErrorIs(t, err, ErrObjectNotFound)

	ok, err := s.Exists(ctx, "audit/2025/01/03/p2.json")
	require.NoError(t, err)
	assert.True(t, ok)

	keys, err := s.List(ctx, "audit/2025/01/")
	require.NoError(t, err)
	assert.Equal(t, []string{"audit/2025/01/02/p1.json", "audit/2025/01/03/p2.json"}, keys)
}
