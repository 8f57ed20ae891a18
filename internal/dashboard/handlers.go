package dashboard

import (
	"net/http"

	"roombooking/internal/api"
)

type Handlers struct {
	Agg Aggregator
}

func (h Handlers) Stats(w http.ResponseWriter, r *http.Request) {
	st, err := h.Agg.Stats(r.Context())
	if err != nil {
		api.WriteError(w, http.StatusInternalServerError, "INTERNAL", "internal error")
		return
	}
	api.WriteJSON(w, http.StatusOK, st)
}
