package api

import (
	"net/http"
	"time"

	"innkeeper/internal/models"
)

type roomRequest struct {
	Number    string       `json:"number"`
	Category  string       `json:"category"`
	RateCents models.Cents `json:"rate"`
	Available *bool        `json:"available"`
}

func (rr roomRequest) validate(w http.ResponseWriter) bool {
	if rr.Number == "" {
		writeError(w, http.StatusBadRequest, "room number is required")
		return false
	}
	if !models.RoomCategory(rr.Category).Valid() {
		writeError(w, http.StatusBadRequest, "category must be one of: single, double, suite")
		return false
	}
	if rr.RateCents <= 0 {
		writeError(w, http.StatusBadRequest, "rate must be positive")
		return false
	}
	return true
}

// roomView is a room plus its derived availability for a requested day.
type roomView struct {
	models.Room
	AvailableOn *bool `json:"available_on,omitempty"`
}

// handleListRooms lists rooms. With ?date=YYYY-MM-DD each room also
// carries whether it can host a guest on that day, computed from the
// booking calendar at request time.
func (s *HTTPServer) handleListRooms(w http.ResponseWriter, r *http.Request) {
	rooms, err := s.db.ListRooms(r.Context())
	if err != nil {
		s.writeDomainError(w, err)
		return
	}

	dateParam := r.URL.Query().Get("date")
	if dateParam == "" {
		if rooms == nil {
			rooms = []models.Room{}
		}
		writeJSON(w, http.StatusOK, rooms)
		return
	}

	day, err := time.Parse(models.DateLayout, dateParam)
	if err != nil {
		writeError(w, http.StatusBadRequest, "date must be formatted as YYYY-MM-DD")
		return
	}

	views := make([]roomView, 0, len(rooms))
	for i := range rooms {
		available, err := s.engine.IsAvailable(r.Context(), &rooms[i], day)
		if err != nil {
			s.writeDomainError(w, err)
			return
		}
		views = append(views, roomView{Room: rooms[i], AvailableOn: &available})
	}
	writeJSON(w, http.StatusOK, views)
}

func (s *HTTPServer) handleCreateRoom(w http.ResponseWriter, r *http.Request) {
	var req roomRequest
	if !decodeJSON(w, r, &req) || !req.validate(w) {
		return
	}
	room := &models.Room{
		Number:    req.Number,
		Category:  models.RoomCategory(req.Category),
		RateCents: req.RateCents,
		Available: req.Available == nil || *req.Available,
	}
	if err := s.db.CreateRoom(r.Context(), room); err != nil {
		s.writeDomainError(w, err)
		return
	}
	writeJSON(w, http.StatusCreated, room)
}

func (s *HTTPServer) handleGetRoom(w http.ResponseWriter, r *http.Request) {
	id, ok := pathID(w, r)
	if !ok {
		return
	}
	room, err := s.db.FindRoom(r.Context(), id)
	if err != nil {
		s.writeDomainError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, room)
}

// handleUpdateRoom changes a room's attributes. Totals stored on
// existing bookings are not recomputed when the rate changes.
func (s *HTTPServer) handleUpdateRoom(w http.ResponseWriter, r *http.Request) {
	id, ok := pathID(w, r)
	if !ok {
		return
	}
	var req roomRequest
	if !decodeJSON(w, r, &req) || !req.validate(w) {
		return
	}
	room := &models.Room{
		ID:        id,
		Number:    req.Number,
		Category:  models.RoomCategory(req.Category),
		RateCents: req.RateCents,
		Available: req.Available == nil || *req.Available,
	}
	if err := s.db.UpdateRoom(r.Context(), room); err != nil {
		s.writeDomainError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, room)
}

func (s *HTTPServer) handleDeleteRoom(w http.ResponseWriter, r *http.Request) {
	id, ok := pathID(w, r)
	if !ok {
		return
	}
	if err := s.db.DeleteRoom(r.Context(), id); err != nil {
		s.writeDomainError(w, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}
