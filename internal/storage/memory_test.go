package storage

import (
	"context"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestMemory_RoundTrip(t *testing.T) {
	m := NewMemory()
	ctx := context.Background()

	c1, err := m.ResolveContainer(ctx, "Smith")
	require.NoError(t, err)
	c2, err := m.ResolveContainer(ctx, "Smith")
	require.NoError(t, err)
	assert.Equal(t, c1, c2)
	assert.Equal(t, 1, m.Containers())

	ref, err := m.WriteObject(ctx, c1, Object{Name: "photo.jpg", ContentType: "image/jpeg", Size: 3, Body: strings.NewReader("abc")})
	require.NoError(t, err)

	data, ct, ok := m.Object("Smith", "photo.jpg")
	require.True(t, ok)
	assert.Equal(t, []byte("abc"), data)
	assert.Equal(t, "image/jpeg", ct)

	link, err := m.IssueShareableLink(ctx, ref)
	require.NoError(t, err)
	assert.Equal(t, "memory://Smith/photo.jpg", link)
}

func TestMemory_WriteIntoUnknownContainer(t *testing.T) {
	m := NewMemory()
	_, err := m.WriteObject(context.Background(), Container{ID: "nobody"}, Object{Name: "a", Body: strings.NewReader("")})
	require.Error(t, err)
}

func TestMemory_EscapesLinkParts(t *testing.T) {
	m := NewMemory()
	link, err := m.IssueShareableLink(context.Background(), ObjectRef{Name: "my photo.jpg", Container: Container{ID: "The Smiths"}})
	require.NoError(t, err)
	assert.Equal(t, "memory://The%20Smiths/my%20photo.jpg", link)
}

func TestMemory_CancelledContext(t *testing.T) {
	m := NewMemory()
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	_, err := m.ResolveContainer(ctx, "Smith")
	require.ErrorIs(t, err, context.Canceled)
	require.ErrorIs(t, m.Ping(ctx), context.Canceled)
}
