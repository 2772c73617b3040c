package api

import (
	"net/http"
	"time"

	"innkeeper/internal/booking"
	"innkeeper/internal/models"
)

type createBookingRequest struct {
	ClientID int64  `json:"client_id"`
	RoomID   int64  `json:"room_id"`
	CheckIn  string `json:"check_in"`
	CheckOut string `json:"check_out"`
}

type modifyBookingRequest struct {
	ClientID *int64  `json:"client_id"`
	RoomID   *int64  `json:"room_id"`
	CheckIn  *string `json:"check_in"`
	CheckOut *string `json:"check_out"`
}

func parseDay(w http.ResponseWriter, field, value string) (time.Time, bool) {
	day, err := time.Parse(models.DateLayout, value)
	if err != nil {
		writeError(w, http.StatusBadRequest, field+" must be formatted as YYYY-MM-DD")
		return time.Time{}, false
	}
	return day, true
}

func (s *HTTPServer) handleCreateBooking(w http.ResponseWriter, r *http.Request) {
	var req createBookingRequest
	if !decodeJSON(w, r, &req) {
		return
	}
	if req.ClientID <= 0 || req.RoomID <= 0 || req.CheckIn == "" || req.CheckOut == "" {
		writeError(w, http.StatusBadRequest, "client_id, room_id, check_in and check_out are required")
		return
	}
	checkIn, ok := parseDay(w, "check_in", req.CheckIn)
	if !ok {
		return
	}
	checkOut, ok := parseDay(w, "check_out", req.CheckOut)
	if !ok {
		return
	}

	created, err := s.engine.Create(r.Context(), booking.CreateRequest{
		ClientID: req.ClientID,
		RoomID:   req.RoomID,
		CheckIn:  checkIn,
		CheckOut: checkOut,
	})
	if err != nil {
		s.writeDomainError(w, err)
		return
	}
	writeJSON(w, http.StatusCreated, created)
}

func (s *HTTPServer) handleListBookings(w http.ResponseWriter, r *http.Request) {
	bookings, err := s.db.ListAllBookings(r.Context())
	if err != nil {
		s.writeDomainError(w, err)
		return
	}
	if bookings == nil {
		bookings = []models.Booking{}
	}
	writeJSON(w, http.StatusOK, bookings)
}

func (s *HTTPServer) handleGetBooking(w http.ResponseWriter, r *http.Request) {
	id, ok := pathID(w, r)
	if !ok {
		return
	}
	found, err := s.engine.Get(r.Context(), id)
	if err != nil {
		s.writeDomainError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, found)
}

func (s *HTTPServer) handleModifyBooking(w http.ResponseWriter, r *http.Request) {
	id, ok := pathID(w, r)
	if !ok {
		return
	}
	var req modifyBookingRequest
	if !decodeJSON(w, r, &req) {
		return
	}

	modify := booking.ModifyRequest{
		ClientID: req.ClientID,
		RoomID:   req.RoomID,
	}
	if req.CheckIn != nil {
		checkIn, ok := parseDay(w, "check_in", *req.CheckIn)
		if !ok {
			return
		}
		modify.CheckIn = &checkIn
	}
	if req.CheckOut != nil {
		checkOut, ok := parseDay(w, "check_out", *req.CheckOut)
		if !ok {
			return
		}
		modify.CheckOut = &checkOut
	}

	updated, err := s.engine.Modify(r.Context(), id, modify)
	if err != nil {
		s.writeDomainError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, updated)
}

func (s *HTTPServer) handleCancelBooking(w http.ResponseWriter, r *http.Request) {
	id, ok := pathID(w, r)
	if !ok {
		return
	}
	if err := s.engine.Cancel(r.Context(), id); err != nil {
		s.writeDomainError(w, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}
