package session

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/bankdesk/bankdesk/internal/domain"
)

func TestStore_SaveAndCurrent(t *testing.T) {
	store := NewStore()

	_, ok := store.Current()
	assert.False(t, ok)
	assert.False(t, store.HasToken())

	session := domain.Session{
		Token:    "tok-123",
		Identity: domain.Identity{Username: "alice", Role: domain.RoleUser},
	}
	store.Save(session)

	current, ok := store.Current()
	assert.True(t, ok)
	assert.Equal(t, session, current)
	assert.True(t, store.HasToken())
}

func TestStore_ClearIsIdempotent(t *testing.T) {
	store := NewStore()
	store.Save(domain.Session{Token: "tok-123"})

	store.Clear()
	_, ok := store.Current()
	assert.False(t, ok)
	assert.False(t, store.HasToken())

	// Clearing an already empty store is a no-op, same end state.
	store.Clear()
	_, ok = store.Current()
	assert.False(t, ok)
	assert.False(t, store.HasToken())
}

func TestStore_HasTokenRequiresNonEmptyToken(t *testing.T) {
	store := NewStore()
	store.Save(domain.Session{Identity: domain.Identity{Username: "alice"}})
	assert.False(t, store.HasToken())
}

func TestStore_SaveReplaces(t *testing.T) {
	store := NewStore()
	store.Save(domain.Session{Token: "first"})
	store.Save(domain.Session{Token: "second"})

	current, ok := store.Current()
	assert.True(t, ok)
	assert.Equal(t, "second", current.Token)
}
