package httpapi

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"roombooking/internal/api"
	"roombooking/internal/booking"
	"roombooking/internal/dashboard"
	"roombooking/internal/identity"
	"roombooking/internal/room"
	"roombooking/internal/schedule"
	"roombooking/pkg/config"
)

type Dependencies struct {
	Cfg   config.Config
	DB    *pgxpool.Pool
	Clock schedule.Clock
	Pub   booking.Publisher
}

func NewRouter(deps Dependencies) http.Handler {
	r := chi.NewRouter()

	r.Get("/healthz", func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
		_, _ = w.Write([]byte("ok"))
	})

	clock := deps.Clock
	if clock == nil {
		clock = schedule.SystemClock{}
	}

	usersRepo := identity.NewRepository(deps.DB)
	identityHandlers := identity.Handlers{Cfg: deps.Cfg, Users: usersRepo}

	roomRepo := room.NewRepository(deps.DB)
	bookingRepo := booking.NewRepository(deps.DB)
	bookingSvc := booking.NewService(bookingRepo, roomRepo, clock, deps.Pub)
	bookingHandlers := booking.Handlers{Svc: bookingSvc, Repo: bookingRepo}
	roomHandlers := room.Handlers{Repo: roomRepo, Bookings: bookingRepo, Clock: clock}
	dashboardHandlers := dashboard.Handlers{
		Agg: dashboard.Aggregator{Rooms: roomRepo, Bookings: bookingRepo, Clock: clock},
	}

	// v1
	r.Route("/v1", func(r chi.Router) {
		r.Use(api.CORSMiddleware(api.CORSOptions{
			AllowedOrigins: deps.Cfg.AllowedOrigins,
			MaxAgeSeconds:  600,
		}))

		r.Post("/auth/register", identityHandlers.Register)
		r.Post("/auth/login", identityHandlers.Login)

		r.Group(func(r chi.Router) {
			r.Use(api.SessionAuth(deps.Cfg))

			r.Get("/rooms", roomHandlers.List)
			r.Get("/rooms/slots", roomHandlers.Slots)
			r.Get("/rooms/{id}/slots", roomHandlers.RoomSlots)

			r.Get("/users/{id}", identityHandlers.Profile)
			r.Get("/users/{id}/bookings", bookingHandlers.ListByUser)

			r.Post("/bookings", bookingHandlers.Create)
			r.Get("/bookings/{id}", bookingHandlers.Get)
			r.Delete("/bookings/{id}", bookingHandlers.Cancel)

			r.Get("/dashboard/stats", dashboardHandlers.Stats)

			// Approver surface
			r.Group(func(r chi.Router) {
				r.Use(api.RequireRole(api.RoleLecturer, api.RoleStaff))

				r.Get("/bookings/pending", bookingHandlers.ListPending)
				r.Get("/bookings/history", bookingHandlers.History)
				r.Put("/bookings/{id}/status", bookingHandlers.Decide)
			})

			// Room administration
			r.Group(func(r chi.Router) {
				r.Use(api.RequireRole(api.RoleStaff))

				r.Post("/rooms", roomHandlers.Create)
				r.Patch("/rooms/{id}", roomHandlers.Patch)
				r.Delete("/rooms/{id}", roomHandlers.Delete)
			})
		})
	})

	return r
}
