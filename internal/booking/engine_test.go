package booking

import (
	"context"
	"io"
	"testing"
	"time"

	"innkeeper/internal/models"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

type mockStore struct {
	mock.Mock
}

func (m *mockStore) FindRoom(ctx context.Context, id int64) (*models.Room, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.Room), args.Error(1)
}

func (m *mockStore) FindClient(ctx context.Context, id int64) (*models.Client, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.Client), args.Error(1)
}

func (m *mockStore) FindBooking(ctx context.Context, id int64) (*models.Booking, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.Booking), args.Error(1)
}

func (m *mockStore) ListBookings(ctx context.Context, roomID, excludeID int64) ([]models.Booking, error) {
	args := m.Called(ctx, roomID, excludeID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]models.Booking), args.Error(1)
}

func (m *mockStore) InsertBooking(ctx context.Context, b *models.Booking) error {
	return m.Called(ctx, b).Error(0)
}

func (m *mockStore) UpdateBooking(ctx context.Context, b *models.Booking) error {
	return m.Called(ctx, b).Error(0)
}

func (m *mockStore) DeleteBooking(ctx context.Context, id int64) error {
	return m.Called(ctx, id).Error(0)
}

func testEngine(store Store) *Engine {
	return New(store, nil, zerolog.New(io.Discard))
}

var (
	testClient = &models.Client{ID: 1, Name: "Ana"}
	testRoom   = &models.Room{ID: 1, Number: "101", Category: models.RoomSingle, RateCents: 10000, Available: true}
)

func createReq(in, out time.Time) CreateRequest {
	return CreateRequest{ClientID: 1, RoomID: 1, CheckIn: in, CheckOut: out}
}

func TestEngine_Create_Success(t *testing.T) {
	store := &mockStore{}
	store.On("FindClient", mock.Anything, int64(1)).Return(testClient, nil)
	store.On("FindRoom", mock.Anything, int64(1)).Return(testRoom, nil)
	store.On("ListBookings", mock.Anything, int64(1), int64(0)).Return([]models.Booking{}, nil)
	store.On("InsertBooking", mock.Anything, mock.Anything).Return(nil)

	b, err := testEngine(store).Create(context.Background(), createReq(date(2024, 12, 20), date(2024, 12, 25)))
	require.NoError(t, err)
	assert.Equal(t, "500.00", b.TotalCents.String())
	assert.Equal(t, int64(1), b.RoomID)
	store.AssertExpectations(t)
}

func TestEngine_Create_ClientNotFound(t *testing.T) {
	store := &mockStore{}
	store.On("FindClient", mock.Anything, int64(1)).Return(nil, models.ErrNotFound)

	_, err := testEngine(store).Create(context.Background(), createReq(date(2024, 12, 20), date(2024, 12, 25)))
	assert.ErrorIs(t, err, models.ErrNotFound)
	store.AssertNotCalled(t, "InsertBooking", mock.Anything, mock.Anything)
}

func TestEngine_Create_RoomNotFound(t *testing.T) {
	store := &mockStore{}
	store.On("FindClient", mock.Anything, int64(1)).Return(testClient, nil)
	store.On("FindRoom", mock.Anything, int64(1)).Return(nil, models.ErrNotFound)

	_, err := testEngine(store).Create(context.Background(), createReq(date(2024, 12, 20), date(2024, 12, 25)))
	assert.ErrorIs(t, err, models.ErrNotFound)
}

func TestEngine_Create_InvalidRange(t *testing.T) {
	store := &mockStore{}
	store.On("FindClient", mock.Anything, int64(1)).Return(testClient, nil)
	store.On("FindRoom", mock.Anything, int64(1)).Return(testRoom, nil)

	_, err := testEngine(store).Create(context.Background(), createReq(date(2024, 12, 25), date(2024, 12, 20)))
	assert.ErrorIs(t, err, models.ErrInvalidRange)

	_, err = testEngine(store).Create(context.Background(), createReq(date(2024, 12, 20), date(2024, 12, 20)))
	assert.ErrorIs(t, err, models.ErrInvalidRange)
	store.AssertNotCalled(t, "InsertBooking", mock.Anything, mock.Anything)
}

func TestEngine_Create_Conflict(t *testing.T) {
	existing := []models.Booking{
		{ID: 7, RoomID: 1, CheckIn: date(2024, 12, 20), CheckOut: date(2024, 12, 25)},
	}
	store := &mockStore{}
	store.On("FindClient", mock.Anything, int64(1)).Return(testClient, nil)
	store.On("FindRoom", mock.Anything, int64(1)).Return(testRoom, nil)
	store.On("ListBookings", mock.Anything, int64(1), int64(0)).Return(existing, nil)

	engine := testEngine(store)

	// Partial overlap is rejected, and rejection is idempotent.
	for i := 0; i < 3; i++ {
		_, err := engine.Create(context.Background(), createReq(date(2024, 12, 23), date(2024, 12, 28)))
		assert.ErrorIs(t, err, models.ErrRoomUnavailable)
	}
	store.AssertNotCalled(t, "InsertBooking", mock.Anything, mock.Anything)
}

func TestEngine_Create_AdjacentStaysAllowed(t *testing.T) {
	existing := []models.Booking{
		{ID: 7, RoomID: 1, CheckIn: date(2024, 12, 20), CheckOut: date(2024, 12, 25)},
	}
	store := &mockStore{}
	store.On("FindClient", mock.Anything, int64(1)).Return(testClient, nil)
	store.On("FindRoom", mock.Anything, int64(1)).Return(testRoom, nil)
	store.On("ListBookings", mock.Anything, int64(1), int64(0)).Return(existing, nil)
	store.On("InsertBooking", mock.Anything, mock.Anything).Return(nil)

	// Check-in on the prior stay's checkout day.
	b, err := testEngine(store).Create(context.Background(), createReq(date(2024, 12, 25), date(2024, 12, 30)))
	require.NoError(t, err)
	assert.Equal(t, "500.00", b.TotalCents.String())
}

func TestEngine_Create_BackstopRace(t *testing.T) {
	// The in-memory check passes but a concurrent writer commits first;
	// the storage backstop rejects and the caller sees RoomUnavailable.
	store := &mockStore{}
	store.On("FindClient", mock.Anything, int64(1)).Return(testClient, nil)
	store.On("FindRoom", mock.Anything, int64(1)).Return(testRoom, nil)
	store.On("ListBookings", mock.Anything, int64(1), int64(0)).Return([]models.Booking{}, nil)
	store.On("InsertBooking", mock.Anything, mock.Anything).Return(models.ErrRoomUnavailable)

	_, err := testEngine(store).Create(context.Background(), createReq(date(2024, 12, 20), date(2024, 12, 25)))
	assert.ErrorIs(t, err, models.ErrRoomUnavailable)
}

func TestEngine_Create_StorageFailure(t *testing.T) {
	store := &mockStore{}
	store.On("FindClient", mock.Anything, int64(1)).Return(testClient, nil)
	store.On("FindRoom", mock.Anything, int64(1)).Return(testRoom, nil)
	store.On("ListBookings", mock.Anything, int64(1), int64(0)).Return([]models.Booking{}, nil)
	store.On("InsertBooking", mock.Anything, mock.Anything).Return(io.ErrUnexpectedEOF)

	_, err := testEngine(store).Create(context.Background(), createReq(date(2024, 12, 20), date(2024, 12, 25)))
	assert.ErrorIs(t, err, models.ErrStorage)
}

func TestEngine_Create_InvariantViolation(t *testing.T) {
	// The stored set itself contains an overlap: loud failure, no repair.
	corrupted := []models.Booking{
		{ID: 1, RoomID: 1, CheckIn: date(2024, 12, 20), CheckOut: date(2024, 12, 25)},
		{ID: 2, RoomID: 1, CheckIn: date(2024, 12, 23), CheckOut: date(2024, 12, 28)},
	}
	store := &mockStore{}
	store.On("FindClient", mock.Anything, int64(1)).Return(testClient, nil)
	store.On("FindRoom", mock.Anything, int64(1)).Return(testRoom, nil)
	store.On("ListBookings", mock.Anything, int64(1), int64(0)).Return(corrupted, nil)

	_, err := testEngine(store).Create(context.Background(), createReq(date(2025, 1, 1), date(2025, 1, 5)))
	assert.ErrorIs(t, err, models.ErrInvariantViolation)
	store.AssertNotCalled(t, "InsertBooking", mock.Anything, mock.Anything)
}

func existingBooking() *models.Booking {
	return &models.Booking{
		ID: 42, ClientID: 1, RoomID: 1,
		CheckIn: date(2024, 12, 20), CheckOut: date(2024, 12, 25),
		TotalCents: 50000,
	}
}

func TestEngine_Modify_NoChange_NeverConflictsWithItself(t *testing.T) {
	store := &mockStore{}
	store.On("FindBooking", mock.Anything, int64(42)).Return(existingBooking(), nil)
	store.On("FindRoom", mock.Anything, int64(1)).Return(testRoom, nil)
	// The exclusion hides the booking's own row from the check.
	store.On("ListBookings", mock.Anything, int64(1), int64(42)).Return([]models.Booking{}, nil)
	store.On("UpdateBooking", mock.Anything, mock.Anything).Return(nil)

	in, out := date(2024, 12, 20), date(2024, 12, 25)
	b, err := testEngine(store).Modify(context.Background(), 42, ModifyRequest{CheckIn: &in, CheckOut: &out})
	require.NoError(t, err)
	assert.Equal(t, models.Cents(50000), b.TotalCents)
	store.AssertExpectations(t)
}

func TestEngine_Modify_DatesChange_Reprices(t *testing.T) {
	// Rate has gone up since the original booking; the new dates are
	// billed at the current rate.
	pricierRoom := &models.Room{ID: 1, Number: "101", RateCents: 15000, Available: true}
	store := &mockStore{}
	store.On("FindBooking", mock.Anything, int64(42)).Return(existingBooking(), nil)
	store.On("FindRoom", mock.Anything, int64(1)).Return(pricierRoom, nil)
	store.On("ListBookings", mock.Anything, int64(1), int64(42)).Return([]models.Booking{}, nil)
	store.On("UpdateBooking", mock.Anything, mock.Anything).Return(nil)

	in, out := date(2024, 12, 20), date(2024, 12, 22)
	b, err := testEngine(store).Modify(context.Background(), 42, ModifyRequest{CheckIn: &in, CheckOut: &out})
	require.NoError(t, err)
	assert.Equal(t, "300.00", b.TotalCents.String())
}

func TestEngine_Modify_SameDates_KeepsStoredPrice(t *testing.T) {
	// Unchanged stay and room: the stored total survives a rate change.
	pricierRoom := &models.Room{ID: 1, Number: "101", RateCents: 15000, Available: true}
	store := &mockStore{}
	store.On("FindBooking", mock.Anything, int64(42)).Return(existingBooking(), nil)
	store.On("FindRoom", mock.Anything, int64(1)).Return(pricierRoom, nil)
	store.On("ListBookings", mock.Anything, int64(1), int64(42)).Return([]models.Booking{}, nil)
	store.On("UpdateBooking", mock.Anything, mock.Anything).Return(nil)

	b, err := testEngine(store).Modify(context.Background(), 42, ModifyRequest{})
	require.NoError(t, err)
	assert.Equal(t, models.Cents(50000), b.TotalCents)
}

func TestEngine_Modify_RoomChange_ChecksTargetRoom(t *testing.T) {
	suite := &models.Room{ID: 2, Number: "201", Category: models.RoomSuite, RateCents: 20000, Available: true}
	occupied := []models.Booking{
		{ID: 9, RoomID: 2, CheckIn: date(2024, 12, 22), CheckOut: date(2024, 12, 27)},
	}
	store := &mockStore{}
	store.On("FindBooking", mock.Anything, int64(42)).Return(existingBooking(), nil)
	store.On("FindRoom", mock.Anything, int64(2)).Return(suite, nil)
	store.On("ListBookings", mock.Anything, int64(2), int64(42)).Return(occupied, nil)

	newRoom := int64(2)
	_, err := testEngine(store).Modify(context.Background(), 42, ModifyRequest{RoomID: &newRoom})
	assert.ErrorIs(t, err, models.ErrRoomUnavailable)
	store.AssertNotCalled(t, "UpdateBooking", mock.Anything, mock.Anything)
}

func TestEngine_Modify_SingleDate_Invalid(t *testing.T) {
	store := &mockStore{}
	store.On("FindBooking", mock.Anything, int64(42)).Return(existingBooking(), nil)
	store.On("FindRoom", mock.Anything, int64(1)).Return(testRoom, nil)

	in := date(2024, 12, 21)
	_, err := testEngine(store).Modify(context.Background(), 42, ModifyRequest{CheckIn: &in})
	assert.ErrorIs(t, err, models.ErrInvalidRange)
}

func TestEngine_Cancel(t *testing.T) {
	store := &mockStore{}
	store.On("FindBooking", mock.Anything, int64(42)).Return(existingBooking(), nil)
	store.On("DeleteBooking", mock.Anything, int64(42)).Return(nil)

	require.NoError(t, testEngine(store).Cancel(context.Background(), 42))
	store.AssertExpectations(t)

	missing := &mockStore{}
	missing.On("FindBooking", mock.Anything, int64(7)).Return(nil, models.ErrNotFound)
	assert.ErrorIs(t, testEngine(missing).Cancel(context.Background(), 7), models.ErrNotFound)
}

func TestEngine_IsAvailable(t *testing.T) {
	booked := []models.Booking{
		{ID: 1, RoomID: 1, CheckIn: date(2024, 12, 20), CheckOut: date(2024, 12, 25)},
	}
	store := &mockStore{}
	store.On("ListBookings", mock.Anything, int64(1), int64(0)).Return(booked, nil)
	engine := testEngine(store)

	free, err := engine.IsAvailable(context.Background(), testRoom, date(2024, 12, 22))
	require.NoError(t, err)
	assert.False(t, free)

	// Checkout day is free.
	free, err = engine.IsAvailable(context.Background(), testRoom, date(2024, 12, 25))
	require.NoError(t, err)
	assert.True(t, free)

	// The administrative flag overrides the calendar.
	closed := &models.Room{ID: 1, Available: false}
	free, err = engine.IsAvailable(context.Background(), closed, date(2025, 6, 1))
	require.NoError(t, err)
	assert.False(t, free)
}
