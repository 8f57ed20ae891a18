package booking

import (
	"encoding/json"
	"errors"
	"net/http"

	"github.com/go-chi/chi/v5"

	"roombooking/internal/api"
)

type Handlers struct {
	Svc  *Service
	Repo *Repository
}

type createRequest struct {
	RoomID string `json:"room_id"`
	Date   string `json:"booking_date"`
	Slot   string `json:"time_slot"`
	Reason string `json:"reason"`
}

func (h Handlers) Create(w http.ResponseWriter, r *http.Request) {
	id := api.IdentityFromContext(r.Context())
	if id == nil {
		api.WriteError(w, http.StatusUnauthorized, "UNAUTHORIZED", "missing identity")
		return
	}

	var req createRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		api.WriteError(w, http.StatusBadRequest, "VALIDATION_FAILED", "invalid json")
		return
	}

	bookingID, err := h.Svc.Submit(r.Context(), id.ID, req.RoomID, req.Date, req.Slot, req.Reason)
	if err != nil {
		writeDomainError(w, err)
		return
	}

	api.WriteJSON(w, http.StatusCreated, map[string]any{
		"booking_id": bookingID,
		"status":     StatusPending,
	})
}

type decideRequest struct {
	Status          string `json:"status"`
	RejectionReason string `json:"rejection_reason"`
}

func (h Handlers) Decide(w http.ResponseWriter, r *http.Request) {
	id := api.IdentityFromContext(r.Context())
	if id == nil {
		api.WriteError(w, http.StatusUnauthorized, "UNAUTHORIZED", "missing identity")
		return
	}

	bookingID := chi.URLParam(r, "id")
	if bookingID == "" {
		api.WriteError(w, http.StatusBadRequest, "VALIDATION_FAILED", "missing id")
		return
	}

	var req decideRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		api.WriteError(w, http.StatusBadRequest, "VALIDATION_FAILED", "invalid json")
		return
	}

	status, err := h.Svc.Decide(r.Context(), bookingID, req.Status, id.ID, req.RejectionReason)
	if err != nil {
		writeDomainError(w, err)
		return
	}

	api.WriteJSON(w, http.StatusOK, map[string]any{
		"booking_id": bookingID,
		"status":     status,
	})
}

func (h Handlers) Cancel(w http.ResponseWriter, r *http.Request) {
	id := api.IdentityFromContext(r.Context())
	if id == nil {
		api.WriteError(w, http.StatusUnauthorized, "UNAUTHORIZED", "missing identity")
		return
	}

	bookingID := chi.URLParam(r, "id")
	if bookingID == "" {
		api.WriteError(w, http.StatusBadRequest, "VALIDATION_FAILED", "missing id")
		return
	}

	if err := h.Svc.Cancel(r.Context(), bookingID, id.ID); err != nil {
		writeDomainError(w, err)
		return
	}

	api.WriteJSON(w, http.StatusOK, map[string]any{
		"booking_id": bookingID,
		"status":     StatusCancelled,
	})
}

func (h Handlers) Get(w http.ResponseWriter, r *http.Request) {
	bookingID := chi.URLParam(r, "id")
	if bookingID == "" {
		api.WriteError(w, http.StatusBadRequest, "VALIDATION_FAILED", "missing id")
		return
	}

	b, err := h.Repo.GetByID(r.Context(), bookingID)
	if err != nil {
		writeDomainError(w, err)
		return
	}
	api.WriteJSON(w, http.StatusOK, b)
}

func (h Handlers) ListPending(w http.ResponseWriter, r *http.Request) {
	items, err := h.Repo.ListPending(r.Context())
	if err != nil {
		api.WriteError(w, http.StatusInternalServerError, "INTERNAL", "internal error")
		return
	}
	if items == nil {
		items = []PendingRequest{}
	}
	api.WriteJSON(w, http.StatusOK, map[string]any{"requests": items})
}

func (h Handlers) History(w http.ResponseWriter, r *http.Request) {
	items, err := h.Repo.ListDecided(r.Context())
	if err != nil {
		api.WriteError(w, http.StatusInternalServerError, "INTERNAL", "internal error")
		return
	}
	if items == nil {
		items = []HistoryItem{}
	}
	api.WriteJSON(w, http.StatusOK, map[string]any{"bookings": items})
}

func (h Handlers) ListByUser(w http.ResponseWriter, r *http.Request) {
	userID := chi.URLParam(r, "id")
	if userID == "" {
		api.WriteError(w, http.StatusBadRequest, "VALIDATION_FAILED", "missing id")
		return
	}

	items, err := h.Repo.ListByUser(r.Context(), userID)
	if err != nil {
		api.WriteError(w, http.StatusInternalServerError, "INTERNAL", "internal error")
		return
	}
	if items == nil {
		items = []HistoryItem{}
	}
	api.WriteJSON(w, http.StatusOK, map[string]any{"bookings": items})
}

func writeDomainError(w http.ResponseWriter, err error) {
	switch {
	case errors.Is(err, ErrValidation):
		api.WriteError(w, http.StatusBadRequest, "VALIDATION_FAILED", err.Error())
	case errors.Is(err, ErrPastSlot):
		api.WriteError(w, http.StatusConflict, "PAST_SLOT", err.Error())
	case errors.Is(err, ErrRoomUnavailable):
		api.WriteError(w, http.StatusNotFound, "ROOM_UNAVAILABLE", err.Error())
	case errors.Is(err, ErrDuplicateRequester):
		api.WriteError(w, http.StatusConflict, "DUPLICATE_BOOKING", err.Error())
	case errors.Is(err, ErrSlotConflict):
		api.WriteError(w, http.StatusConflict, "SLOT_CONFLICT", err.Error())
	case errors.Is(err, ErrAlreadyProcessed):
		api.WriteError(w, http.StatusNotFound, "ALREADY_PROCESSED", err.Error())
	case errors.Is(err, ErrNotFound):
		api.WriteError(w, http.StatusNotFound, "NOT_FOUND", err.Error())
	default:
		api.WriteError(w, http.StatusInternalServerError, "INTERNAL", "internal error")
	}
}
