package survey

import (
	"context"
	"testing"

	"github.com/patrickmn/go-cache"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestCacheStoreRoundTrip(t *testing.T) {
	ctx := context.Background()
	store := NewCacheStore(cache.New(cache.NoExpiration, 0), "client-1")

	session := NewSession()
	session.CurrentStep = StepChallenge
	session.CurrentChallengeNumber = 3
	session.ParticipantData = &Demographics{Name: "Ada", Age: 30, Location: "London", Profession: "Engineer", Education: "phd"}
	session.UpsertProgress(ChallengeProgress{
		ChallengeNumber: 3,
		SessionID:       "backend-3",
		ConversationA:   []Message{{Role: RoleUser, Content: "hi", Timestamp: 1}},
		ConversationB:   []Message{},
	})
	require.NoError(t, store.Save(ctx, session))

	loaded, err := store.Load(ctx)
	require.NoError(t, err)
	require.NotNil(t, loaded)
	assert.Equal(t, session.SessionID, loaded.SessionID)
	assert.Equal(t, StepChallenge, loaded.CurrentStep)
	assert.Equal(t, 3, loaded.CurrentChallengeNumber)
	require.NotNil(t, loaded.ParticipantData)
	assert.Equal(t, "Ada", loaded.ParticipantData.Name)
	progress := loaded.FindProgress(3)
	require.NotNil(t, progress)
	assert.Equal(t, "backend-3", progress.SessionID)
	assert.Len(t, progress.ConversationA, 1)
}

func TestCacheStoreEmptySlot(t *testing.T) {
	store := NewCacheStore(cache.New(cache.NoExpiration, 0), "client-1")

	session, err := store.Load(context.Background())
	require.NoError(t, err)
	assert.Nil(t, session)
}

func TestCacheStoreClearsCorruptSlot(t *testing.T) {
	ctx := context.Background()
	c := cache.New(cache.NoExpiration, 0)
	store := NewCacheStore(c, "client-1")
	c.Set(slotKey("client-1"), []byte("{not json"), cache.NoExpiration)

	session, err := store.Load(ctx)
	require.NoError(t, err)
	assert.Nil(t, session)

	// Slot was wiped, not left to fail again.
	_, found := c.Get(slotKey("client-1"))
	assert.False(t, found)
}

func TestCacheStoreClearsStaleSchema(t *testing.T) {
	ctx := context.Background()
	c := cache.New(cache.NoExpiration, 0)
	store := NewCacheStore(c, "client-1")
	c.Set(slotKey("client-1"), []byte(`{"session_id":"old","schema_version":0}`), cache.NoExpiration)

	session, err := store.Load(ctx)
	require.NoError(t, err)
	assert.Nil(t, session)
	_, found := c.Get(slotKey("client-1"))
	assert.False(t, found)
}

func TestEncodeSessionStampsBookkeeping(t *testing.T) {
	session := NewSession()
	session.SchemaVersion = 0
	before := session.Timestamps.LastActivity

	data, err := encodeSession(session)
	require.NoError(t, err)
	assert.Equal(t, SchemaVersion, session.SchemaVersion)
	assert.False(t, session.Timestamps.LastActivity.Before(before))

	decoded, err := decodeSession(data)
	require.NoError(t, err)
	require.NotNil(t, decoded)
	assert.Equal(t, session.SessionID, decoded.SessionID)
}

func TestSlotKeyUsesFixedPrefix(t *testing.T) {
	assert.Equal(t, StorageKey+":abc", slotKey("abc"))
}
