package agent

import (
	"context"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func testStore(t *testing.T) *TicketStore {
	t.Helper()
	store, err := NewTicketStore(filepath.Join(t.TempDir(), "tickets.db"))
	require.NoError(t, err)
	t.Cleanup(func() { store.Close() })
	return store
}

func TestTicketStoreRoundTrip(t *testing.T) {
	store := testStore(t)

	created, err := store.Create("Jane Doe", "laptop will not boot")
	require.NoError(t, err)
	assert.NotEmpty(t, created.ID)
	assert.Equal(t, "open", created.Status)

	got, err := store.Get(created.ID)
	require.NoError(t, err)
	assert.Equal(t, created.ID, got.ID)
	assert.Equal(t, "Jane Doe", got.Customer)
	assert.Equal(t, "laptop will not boot", got.Issue)
}

func TestTicketStoreMissing(t *testing.T) {
	store := testStore(t)
	_, err := store.Get("no-such-id")
	assert.Error(t, err)
}

func TestCreateTicketToolParsesInput(t *testing.T) {
	store := testStore(t)
	tool := &CreateTicketTool{Store: store}

	out, err := tool.Call(context.Background(), "John Smith | my computer won't turn on")
	require.NoError(t, err)
	assert.Contains(t, out, "John Smith")

	_, err = tool.Call(context.Background(), "no separator here")
	assert.Error(t, err)
}

func TestTicketDetailsTool(t *testing.T) {
	store := testStore(t)
	created, err := store.Create("Jane Doe", "screen flickers")
	require.NoError(t, err)

	tool := &TicketDetailsTool{Store: store}
	out, err := tool.Call(context.Background(), " "+created.ID+" ")
	require.NoError(t, err)
	assert.Contains(t, out, created.ID)
	assert.Contains(t, out, "screen flickers")
}
