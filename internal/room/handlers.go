package room

import (
	"encoding/json"
	"errors"
	"net/http"
	"strings"

	"github.com/go-chi/chi/v5"
	"github.com/jackc/pgx/v5"

	"roombooking/internal/api"
	"roombooking/internal/booking"
	"roombooking/internal/schedule"
)

type Handlers struct {
	Repo     *Repository
	Bookings *booking.Repository
	Clock    schedule.Clock
}

func (h Handlers) List(w http.ResponseWriter, r *http.Request) {
	rooms, err := h.Repo.List(r.Context())
	if err != nil {
		api.WriteError(w, http.StatusInternalServerError, "INTERNAL", "internal error")
		return
	}
	if rooms == nil {
		rooms = []Room{}
	}
	api.WriteJSON(w, http.StatusOK, map[string]any{"rooms": rooms})
}

// SlotView is one room with its per-slot status grid.
type SlotView struct {
	RoomID   string               `json:"room_id"`
	Name     string               `json:"name"`
	Capacity int                  `json:"capacity"`
	Status   string               `json:"status"` // available|disabled
	Slots    []schedule.SlotState `json:"time_slots"`
}

// Slots renders the per-room slot grid for a date (default: today).
func (h Handlers) Slots(w http.ResponseWriter, r *http.Request) {
	now := h.Clock.Now()
	date := strings.TrimSpace(r.URL.Query().Get("date"))
	if date == "" {
		date = schedule.DateOf(now)
	} else if _, err := schedule.ParseDate(date); err != nil {
		api.WriteError(w, http.StatusBadRequest, "VALIDATION_FAILED", "invalid date")
		return
	}

	rooms, err := h.Repo.List(r.Context())
	if err != nil {
		api.WriteError(w, http.StatusInternalServerError, "INTERNAL", "internal error")
		return
	}
	active, err := h.Bookings.ActiveOnDate(r.Context(), date)
	if err != nil {
		api.WriteError(w, http.StatusInternalServerError, "INTERNAL", "internal error")
		return
	}

	byRoom := make(map[string][]schedule.ActiveBooking, len(active))
	for _, b := range active {
		byRoom[b.RoomID] = append(byRoom[b.RoomID], schedule.ActiveBooking{
			Slot:     b.Slot,
			Approved: b.Status == booking.StatusApproved,
		})
	}

	out := make([]SlotView, 0, len(rooms))
	for _, rm := range rooms {
		status := "available"
		if !rm.Enabled {
			status = "disabled"
		}
		out = append(out, SlotView{
			RoomID:   rm.ID,
			Name:     rm.Name,
			Capacity: rm.Capacity,
			Status:   status,
			Slots:    schedule.Resolve(rm.Enabled, date, now, byRoom[rm.ID]),
		})
	}

	api.WriteJSON(w, http.StatusOK, map[string]any{"date": date, "rooms": out})
}

// RoomSlots renders the slot grid for a single room.
func (h Handlers) RoomSlots(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")
	if id == "" {
		api.WriteError(w, http.StatusBadRequest, "VALIDATION_FAILED", "missing id")
		return
	}

	now := h.Clock.Now()
	date := strings.TrimSpace(r.URL.Query().Get("date"))
	if date == "" {
		date = schedule.DateOf(now)
	} else if _, err := schedule.ParseDate(date); err != nil {
		api.WriteError(w, http.StatusBadRequest, "VALIDATION_FAILED", "invalid date")
		return
	}

	rm, err := h.Repo.GetByID(r.Context(), id)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			api.WriteError(w, http.StatusNotFound, "NOT_FOUND", "room not found")
			return
		}
		api.WriteError(w, http.StatusInternalServerError, "INTERNAL", "internal error")
		return
	}

	active, err := h.Bookings.ActiveByRoomDate(r.Context(), id, date)
	if err != nil {
		api.WriteError(w, http.StatusInternalServerError, "INTERNAL", "internal error")
		return
	}
	ab := make([]schedule.ActiveBooking, 0, len(active))
	for _, b := range active {
		ab = append(ab, schedule.ActiveBooking{
			Slot:     b.Slot,
			Approved: b.Status == booking.StatusApproved,
		})
	}

	status := "available"
	if !rm.Enabled {
		status = "disabled"
	}
	api.WriteJSON(w, http.StatusOK, map[string]any{
		"date": date,
		"room": SlotView{
			RoomID:   rm.ID,
			Name:     rm.Name,
			Capacity: rm.Capacity,
			Status:   status,
			Slots:    schedule.Resolve(rm.Enabled, date, now, ab),
		},
	})
}

type createRequest struct {
	Name        string `json:"name"`
	Description string `json:"description"`
	Capacity    int    `json:"capacity"`
	Enabled     *bool  `json:"enabled"`
}

func (h Handlers) Create(w http.ResponseWriter, r *http.Request) {
	var req createRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		api.WriteError(w, http.StatusBadRequest, "VALIDATION_FAILED", "invalid json")
		return
	}
	req.Name = strings.TrimSpace(req.Name)
	if req.Name == "" {
		api.WriteError(w, http.StatusBadRequest, "VALIDATION_FAILED", "name is required")
		return
	}
	if req.Capacity <= 0 {
		api.WriteError(w, http.StatusBadRequest, "VALIDATION_FAILED", "capacity must be positive")
		return
	}
	enabled := true
	if req.Enabled != nil {
		enabled = *req.Enabled
	}

	rm, err := h.Repo.Create(r.Context(), req.Name, req.Description, req.Capacity, enabled)
	if err != nil {
		api.WriteError(w, http.StatusInternalServerError, "INTERNAL", "internal error")
		return
	}
	api.WriteJSON(w, http.StatusCreated, rm)
}

func (h Handlers) Patch(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")
	if id == "" {
		api.WriteError(w, http.StatusBadRequest, "VALIDATION_FAILED", "missing id")
		return
	}

	var p Patch
	if err := json.NewDecoder(r.Body).Decode(&p); err != nil {
		api.WriteError(w, http.StatusBadRequest, "VALIDATION_FAILED", "invalid json")
		return
	}
	if p.Capacity != nil && *p.Capacity <= 0 {
		api.WriteError(w, http.StatusBadRequest, "VALIDATION_FAILED", "capacity must be positive")
		return
	}
	if p.Name != nil {
		trimmed := strings.TrimSpace(*p.Name)
		if trimmed == "" {
			api.WriteError(w, http.StatusBadRequest, "VALIDATION_FAILED", "name cannot be empty")
			return
		}
		p.Name = &trimmed
	}

	rm, err := h.Repo.Update(r.Context(), id, p)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			api.WriteError(w, http.StatusNotFound, "NOT_FOUND", "room not found")
			return
		}
		api.WriteError(w, http.StatusInternalServerError, "INTERNAL", "internal error")
		return
	}
	api.WriteJSON(w, http.StatusOK, rm)
}

func (h Handlers) Delete(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")
	if id == "" {
		api.WriteError(w, http.StatusBadRequest, "VALIDATION_FAILED", "missing id")
		return
	}

	affected, err := h.Repo.Delete(r.Context(), id)
	if err != nil {
		if errors.Is(err, ErrRoomInUse) {
			api.WriteError(w, http.StatusConflict, "ROOM_IN_USE", "room has bookings; disable it instead")
			return
		}
		api.WriteError(w, http.StatusInternalServerError, "INTERNAL", "internal error")
		return
	}
	if affected == 0 {
		api.WriteError(w, http.StatusNotFound, "NOT_FOUND", "room not found")
		return
	}
	w.WriteHeader(http.StatusNoContent)
}
