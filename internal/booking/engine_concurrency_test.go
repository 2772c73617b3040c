package booking

import (
	"context"
	"sort"
	"sync"
	"testing"
	"time"

	"innkeeper/internal/models"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// memStore is a minimal Store with the same atomicity contract as the
// SQLite layer: the overlap re-check and the write happen under one
// lock, so a conflicting write is rejected even if the engine's own
// check was raced.
type memStore struct {
	mu       sync.Mutex
	nextID   int64
	bookings map[int64]*models.Booking
	rooms    map[int64]*models.Room
	clients  map[int64]*models.Client
}

func newMemStore() *memStore {
	return &memStore{
		nextID:   1,
		bookings: make(map[int64]*models.Booking),
		rooms:    make(map[int64]*models.Room),
		clients:  make(map[int64]*models.Client),
	}
}

func (s *memStore) FindRoom(_ context.Context, id int64) (*models.Room, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	room, ok := s.rooms[id]
	if !ok {
		return nil, models.ErrNotFound
	}
	copied := *room
	return &copied, nil
}

func (s *memStore) FindClient(_ context.Context, id int64) (*models.Client, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	client, ok := s.clients[id]
	if !ok {
		return nil, models.ErrNotFound
	}
	copied := *client
	return &copied, nil
}

func (s *memStore) FindBooking(_ context.Context, id int64) (*models.Booking, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	b, ok := s.bookings[id]
	if !ok {
		return nil, models.ErrNotFound
	}
	copied := *b
	return &copied, nil
}

func (s *memStore) ListBookings(_ context.Context, roomID, excludeID int64) ([]models.Booking, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.listLocked(roomID, excludeID), nil
}

func (s *memStore) listLocked(roomID, excludeID int64) []models.Booking {
	var out []models.Booking
	for _, b := range s.bookings {
		if b.RoomID == roomID && b.ID != excludeID {
			out = append(out, *b)
		}
	}
	// Same ordering contract as the SQL layer.
	sort.Slice(out, func(i, j int) bool { return out[i].CheckIn.Before(out[j].CheckIn) })
	return out
}

func (s *memStore) InsertBooking(_ context.Context, b *models.Booking) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	for _, existing := range s.listLocked(b.RoomID, 0) {
		if existing.OverlapsWith(b) {
			return models.ErrRoomUnavailable
		}
	}
	b.ID = s.nextID
	s.nextID++
	copied := *b
	s.bookings[b.ID] = &copied
	return nil
}

func (s *memStore) UpdateBooking(_ context.Context, b *models.Booking) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, ok := s.bookings[b.ID]; !ok {
		return models.ErrNotFound
	}
	for _, existing := range s.listLocked(b.RoomID, b.ID) {
		if existing.OverlapsWith(b) {
			return models.ErrRoomUnavailable
		}
	}
	copied := *b
	s.bookings[b.ID] = &copied
	return nil
}

func (s *memStore) DeleteBooking(_ context.Context, id int64) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, ok := s.bookings[id]; !ok {
		return models.ErrNotFound
	}
	delete(s.bookings, id)
	return nil
}

func seededStore() *memStore {
	store := newMemStore()
	store.clients[1] = &models.Client{ID: 1, Name: "Ana"}
	store.rooms[1] = &models.Room{ID: 1, Number: "101", RateCents: 10000, Available: true}
	store.rooms[2] = &models.Room{ID: 2, Number: "201", RateCents: 20000, Available: true}
	return store
}

// N concurrent creates for the same room with pairwise-overlapping
// intervals: exactly one succeeds, the rest get RoomUnavailable.
func TestEngine_ConcurrentOverlappingCreates(t *testing.T) {
	const n = 16
	store := seededStore()
	engine := testEngine(store)

	var wg sync.WaitGroup
	errs := make([]error, n)
	for i := 0; i < n; i++ {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			// Staggered but pairwise-overlapping intervals.
			_, errs[i] = engine.Create(context.Background(), CreateRequest{
				ClientID: 1,
				RoomID:   1,
				CheckIn:  date(2024, 12, 1).AddDate(0, 0, i),
				CheckOut: date(2024, 12, 1).AddDate(0, 0, n+i),
			})
		}(i)
	}
	wg.Wait()

	succeeded := 0
	for _, err := range errs {
		if err == nil {
			succeeded++
		} else {
			assert.ErrorIs(t, err, models.ErrRoomUnavailable)
		}
	}
	assert.Equal(t, 1, succeeded)
	assert.Len(t, store.bookings, 1)
}

// Concurrent non-overlapping creates all succeed; the per-room lock
// serializes without over-rejecting.
func TestEngine_ConcurrentDisjointCreates(t *testing.T) {
	const n = 8
	store := seededStore()
	engine := testEngine(store)

	var wg sync.WaitGroup
	errs := make([]error, n)
	for i := 0; i < n; i++ {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			_, errs[i] = engine.Create(context.Background(), CreateRequest{
				ClientID: 1,
				RoomID:   1,
				CheckIn:  date(2025, 1, 1).AddDate(0, 0, 7*i),
				CheckOut: date(2025, 1, 1).AddDate(0, 0, 7*i+7),
			})
		}(i)
	}
	wg.Wait()

	for i, err := range errs {
		assert.NoError(t, err, "create %d", i)
	}
	assert.Len(t, store.bookings, n)
}

// A modify racing a create for the target room never produces an
// overlapping pair.
func TestEngine_ConcurrentModifyAndCreate(t *testing.T) {
	store := seededStore()
	engine := testEngine(store)

	seed, err := engine.Create(context.Background(), CreateRequest{
		ClientID: 1, RoomID: 1,
		CheckIn: date(2025, 3, 1), CheckOut: date(2025, 3, 5),
	})
	require.NoError(t, err)

	target := date(2025, 4, 10)
	var wg sync.WaitGroup
	results := make([]error, 2)

	wg.Add(2)
	go func() {
		defer wg.Done()
		in, out := target, target.AddDate(0, 0, 4)
		_, results[0] = engine.Modify(context.Background(), seed.ID, ModifyRequest{CheckIn: &in, CheckOut: &out})
	}()
	go func() {
		defer wg.Done()
		_, results[1] = engine.Create(context.Background(), CreateRequest{
			ClientID: 1, RoomID: 1,
			CheckIn: target.AddDate(0, 0, 2), CheckOut: target.AddDate(0, 0, 6),
		})
	}()
	wg.Wait()

	winners := 0
	for _, err := range results {
		if err == nil {
			winners++
		} else {
			assert.ErrorIs(t, err, models.ErrRoomUnavailable)
		}
	}
	assert.Equal(t, 1, winners)

	// The committed calendar for the room must hold the invariant.
	bookings, err := engine.BookingsFor(context.Background(), 1, 0)
	require.NoError(t, err)
	for i := range bookings {
		for j := i + 1; j < len(bookings); j++ {
			assert.False(t, bookings[i].OverlapsWith(&bookings[j]),
				"bookings %d and %d overlap", bookings[i].ID, bookings[j].ID)
		}
	}
}

// Sanity: the engine respects context plumbing on the happy path.
func TestEngine_CreateScenario(t *testing.T) {
	store := seededStore()
	engine := testEngine(store)
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	// Room rate 100.00/night.
	first, err := engine.Create(ctx, CreateRequest{
		ClientID: 1, RoomID: 1,
		CheckIn: date(2024, 12, 20), CheckOut: date(2024, 12, 25),
	})
	require.NoError(t, err)
	assert.Equal(t, "500.00", first.TotalCents.String())

	// Partial overlap.
	_, err = engine.Create(ctx, CreateRequest{
		ClientID: 1, RoomID: 1,
		CheckIn: date(2024, 12, 23), CheckOut: date(2024, 12, 28),
	})
	assert.ErrorIs(t, err, models.ErrRoomUnavailable)

	// Adjacent stay goes through.
	second, err := engine.Create(ctx, CreateRequest{
		ClientID: 1, RoomID: 1,
		CheckIn: date(2024, 12, 25), CheckOut: date(2024, 12, 30),
	})
	require.NoError(t, err)
	assert.Equal(t, "500.00", second.TotalCents.String())
}
