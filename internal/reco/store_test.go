package reco

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestStore_InitialState(t *testing.T) {
	snap := NewStore().Snapshot()

	assert.Nil(t, snap.Raw)
	assert.Nil(t, snap.Prescription)
	assert.Nil(t, snap.Conseils)
	assert.False(t, snap.Loading)
	assert.Empty(t, snap.ErrorMsg)
}

func TestStore_SetDerivesViewModels(t *testing.T) {
	store := NewStore()
	raw := DefaultRecommendation()

	store.Set(&raw)
	snap := store.Snapshot()

	require.NotNil(t, snap.Prescription)
	require.NotNil(t, snap.Conseils)
	assert.NotEmpty(t, snap.Prescription.Planification)
	assert.NotEmpty(t, snap.Conseils.Conseils)
}

func TestStore_SubscriberSeesRawAndVMsTogether(t *testing.T) {
	store := NewStore()
	raw := DefaultRecommendation()

	var snaps []Snapshot
	store.Subscribe(func(s Snapshot) { snaps = append(snaps, s) })
	store.Set(&raw)

	// One immediate delivery on subscribe, one on Set.
	require.Len(t, snaps, 2)
	assert.Nil(t, snaps[0].Raw)
	require.NotNil(t, snaps[1].Raw)
	require.NotNil(t, snaps[1].Prescription, "raw update must carry its VM update")
	require.NotNil(t, snaps[1].Conseils)
}

func TestStore_Unsubscribe(t *testing.T) {
	store := NewStore()

	calls := 0
	id := store.Subscribe(func(Snapshot) { calls++ })
	store.Unsubscribe(id)
	store.Set(nil)

	assert.Equal(t, 1, calls) // only the delivery on subscribe
}

func TestStore_ClearResetsDerivedState(t *testing.T) {
	store := NewStore()
	raw := DefaultRecommendation()
	store.Set(&raw)

	store.Clear()
	snap := store.Snapshot()

	assert.Nil(t, snap.Raw)
	assert.Nil(t, snap.Prescription)
	assert.Nil(t, snap.Conseils)
}

func TestStore_BeginFetchSetsLoadingAndClearsError(t *testing.T) {
	store := NewStore()
	store.SetError("boom")

	store.BeginFetch()
	snap := store.Snapshot()

	assert.True(t, snap.Loading)
	assert.Empty(t, snap.ErrorMsg)
}

func TestStore_SetLoadingTogglesFlag(t *testing.T) {
	store := NewStore()

	store.SetLoading(true)
	assert.True(t, store.Snapshot().Loading)

	store.SetLoading(false)
	assert.False(t, store.Snapshot().Loading)
}

func TestStore_StaleResponseDiscarded(t *testing.T) {
	store := NewStore()
	first := store.BeginFetch()
	second := store.BeginFetch()

	stale := RecommendationResponse{Conseils: []string{"stale"}}
	fresh := RecommendationResponse{Conseils: []string{"fresh"}}

	store.Resolve(second, &fresh, "")
	store.Resolve(first, &stale, "")

	snap := store.Snapshot()
	require.NotNil(t, snap.Raw)
	assert.Equal(t, []string{"fresh"}, snap.Raw.Conseils)
}

func TestStore_ResolveWithError(t *testing.T) {
	store := NewStore()
	token := store.BeginFetch()

	store.Resolve(token, nil, "service indisponible")
	snap := store.Snapshot()

	assert.False(t, snap.Loading)
	assert.Equal(t, "service indisponible", snap.ErrorMsg)
	assert.Nil(t, snap.Raw)
}

func TestRegistry_ReturnsSameStorePerUser(t *testing.T) {
	registry, err := NewRegistry(16)
	require.NoError(t, err)

	a := registry.Get("user-a")
	b := registry.Get("user-b")

	assert.Same(t, a, registry.Get("user-a"))
	assert.NotSame(t, a, b)
}
