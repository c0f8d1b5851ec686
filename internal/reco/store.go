package reco

import (
	"sync"

	lru "github.com/hashicorp/golang-lru/v2"
	"github.com/rs/zerolog/log"
)

/* =================================================================================
								REACTIVE STORE
=================================================================================*/

// Snapshot is one consistent view of the store: the raw response and its derived
// view models always change together, so an observer can never see a raw update
// without the matching VM update.
type Snapshot struct {
	Raw          *RecommendationResponse `json:"raw"`
	Prescription *PrescriptionVM         `json:"prescription"`
	Conseils     *ConseilsVM             `json:"conseils"`
	Loading      bool                    `json:"loading"`
	ErrorMsg     string                  `json:"error_msg,omitempty"`
}

// Subscriber receives a snapshot on every state change.
type Subscriber func(Snapshot)

// Store holds the latest raw recommendation and its derived view models for one
// session. Derived VMs are recomputed once per raw change and cached; mutation
// and recomputation happen in the same update step. A monotonic fetch token lets
// overlapping fetches resolve without a stale response clobbering a newer one.
type Store struct {
	mu sync.Mutex

	raw          *RecommendationResponse
	prescription *PrescriptionVM
	conseils     *ConseilsVM
	loading      bool
	errorMsg     string

	fetchToken uint64

	nextSubID   uint64
	subscribers map[uint64]Subscriber
}

// NewStore returns an empty store: no raw response, not loading, no error.
func NewStore() *Store {
	return &Store{subscribers: make(map[uint64]Subscriber)}
}

// Subscribe registers fn to be called on every state change and returns an id
// for Unsubscribe. The current state is delivered immediately.
func (s *Store) Subscribe(fn Subscriber) uint64 {
	s.mu.Lock()
	s.nextSubID++
	id := s.nextSubID
	s.subscribers[id] = fn
	snap := s.snapshotLocked()
	s.mu.Unlock()

	fn(snap)
	return id
}

// Unsubscribe removes a previously registered subscriber.
func (s *Store) Unsubscribe(id uint64) {
	s.mu.Lock()
	delete(s.subscribers, id)
	s.mu.Unlock()
}

// Snapshot returns the current state.
func (s *Store) Snapshot() Snapshot {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.snapshotLocked()
}

// BeginFetch marks the store loading, clears any previous error and returns the
// token the matching Resolve call must present.
func (s *Store) BeginFetch() uint64 {
	s.mu.Lock()
	s.fetchToken++
	token := s.fetchToken
	s.loading = true
	s.errorMsg = ""
	s.notifyLocked()
	return token
}

// Resolve completes the fetch identified by token. Responses carrying a token
// older than the latest BeginFetch are discarded, so two overlapping fetches
// cannot race the store into showing the earlier result.
func (s *Store) Resolve(token uint64, raw *RecommendationResponse, errMsg string) {
	s.mu.Lock()
	if token != s.fetchToken {
		s.mu.Unlock()
		log.Info().Uint64("token", token).Msg("Discarding stale recommendation response")
		return
	}

	s.loading = false
	s.errorMsg = errMsg
	s.setRawLocked(raw)
	s.notifyLocked()
}

// Set replaces the raw response outside of a tracked fetch.
func (s *Store) Set(raw *RecommendationResponse) {
	s.mu.Lock()
	s.setRawLocked(raw)
	s.notifyLocked()
}

// SetLoading flips the loading flag without starting a tracked fetch.
func (s *Store) SetLoading(loading bool) {
	s.mu.Lock()
	s.loading = loading
	s.notifyLocked()
}

// SetError records a failure message without touching the raw response.
func (s *Store) SetError(msg string) {
	s.mu.Lock()
	s.loading = false
	s.errorMsg = msg
	s.notifyLocked()
}

// Clear resets the store to its initial state.
func (s *Store) Clear() {
	s.mu.Lock()
	s.loading = false
	s.errorMsg = ""
	s.setRawLocked(nil)
	s.notifyLocked()
}

// setRawLocked swaps the raw response and recomputes the cached projections.
// An absent raw response yields absent view models.
func (s *Store) setRawLocked(raw *RecommendationResponse) {
	s.raw = raw
	if raw == nil {
		s.prescription = nil
		s.conseils = nil
		return
	}
	prescription, conseils := SplitRecommendation(*raw)
	s.prescription = &prescription
	s.conseils = &conseils
}

func (s *Store) snapshotLocked() Snapshot {
	return Snapshot{
		Raw:          s.raw,
		Prescription: s.prescription,
		Conseils:     s.conseils,
		Loading:      s.loading,
		ErrorMsg:     s.errorMsg,
	}
}

// notifyLocked delivers the current snapshot to every subscriber and releases
// the lock. Callers must hold s.mu.
func (s *Store) notifyLocked() {
	snap := s.snapshotLocked()
	subs := make([]Subscriber, 0, len(s.subscribers))
	for _, fn := range s.subscribers {
		subs = append(subs, fn)
	}
	s.mu.Unlock()

	for _, fn := range subs {
		fn(snap)
	}
}

/* =================================================================================
								STORE REGISTRY
=================================================================================*/

// Registry hands out one Store per user session, bounded by an LRU so idle
// sessions age out instead of accumulating forever.
type Registry struct {
	mu     sync.Mutex
	stores *lru.Cache[string, *Store]
}

// NewRegistry creates a registry bounded to size sessions.
func NewRegistry(size int) (*Registry, error) {
	cache, err := lru.New[string, *Store](size)
	if err != nil {
		return nil, err
	}
	return &Registry{stores: cache}, nil
}

// Get returns the store for userID, creating it on first use.
func (r *Registry) Get(userID string) *Store {
	r.mu.Lock()
	defer r.mu.Unlock()

	if store, ok := r.stores.Get(userID); ok {
		return store
	}
	store := NewStore()
	r.stores.Add(userID, store)
	return store
}
