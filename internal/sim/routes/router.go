// Package routes assembles the simulator's HTTP surface.
package routes

import (
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/codeup/statio-portal/internal/sim/accounts"
	"github.com/codeup/statio-portal/internal/sim/audit"
	"github.com/codeup/statio-portal/internal/sim/controllers"
	"github.com/codeup/statio-portal/internal/sim/middleware"
	"github.com/codeup/statio-portal/internal/sim/parking"
	"github.com/codeup/statio-portal/pkg/config"
	"github.com/codeup/statio-portal/pkg/db"
	"github.com/codeup/statio-portal/pkg/enums"
	"github.com/codeup/statio-portal/pkg/logger"
)

func NewRouter(
	cfg *config.Config,
	logg *logger.Logger,
	dbP db.Pinger,
	accountsService *accounts.Service,
	parkingService *parking.Service,
	recorder *audit.Recorder,
) http.Handler {
	r := chi.NewRouter()
	r.Use(
		middleware.Recoverer(logg),
		middleware.RequestID(logg),
		middleware.Logging(logg),
	)

	r.Route("/health", func(r chi.Router) {
		r.Get("/live", controllers.HealthLive(cfg))
		r.Get("/ready", controllers.HealthReady(cfg, logg, dbP))
	})

	r.Route("/api", func(r chi.Router) {
		r.Route("/auth", func(r chi.Router) {
			r.Post("/login", controllers.AuthLogin(accountsService, logg))
			r.Post("/register", controllers.AuthRegister(accountsService, logg))
		})

		r.Group(func(r chi.Router) {
			r.Use(middleware.Auth(cfg.JWT, logg))

			r.Get("/user/dashboard", controllers.UserDashboard(parkingService, logg))
			r.Get("/spots/available", controllers.AvailableSpots(parkingService, logg))

			r.Route("/reservations", func(r chi.Router) {
				r.Get("/", controllers.MyReservations(parkingService, logg))
				r.Post("/", controllers.CreateReservation(parkingService, logg))
				r.Delete("/{reservationId}", controllers.CancelReservation(parkingService, logg))
			})

			r.Route("/parking", func(r chi.Router) {
				r.Post("/check-in", controllers.CheckIn(parkingService, logg))
				r.Post("/calculate-fee", controllers.CalculateFee(parkingService, logg))
				r.Post("/check-out", controllers.CheckOut(parkingService, logg))
				r.Get("/sessions/active", controllers.ActiveSessions(parkingService, logg))
				r.Get("/sessions/my", controllers.MySessions(parkingService, logg))
				r.Get("/sessions/{sessionId}", controllers.SessionByID(parkingService, logg))
			})

			r.Get("/bills/my", controllers.MyBills(parkingService, logg))

			r.Route("/admin", func(r chi.Router) {
				r.Use(middleware.RequireRole(enums.RoleAdmin, logg))

				r.Get("/dashboard", controllers.AdminDashboard(parkingService, recorder, logg))

				r.Route("/buildings", func(r chi.Router) {
					r.Get("/", controllers.ListBuildings(parkingService, logg))
					r.Get("/paginated", controllers.ListBuildingsPaginated(parkingService, logg))
					r.Post("/", controllers.CreateBuilding(parkingService, logg))
					r.Get("/{buildingId}", controllers.GetBuilding(parkingService, logg))
					r.Put("/{buildingId}", controllers.UpdateBuilding(parkingService, logg))
					r.Delete("/{buildingId}", controllers.DeleteBuilding(parkingService, logg))
				})

				r.Route("/floors", func(r chi.Router) {
					r.Get("/", controllers.ListFloors(parkingService, logg))
					r.Get("/paginated", controllers.ListFloorsPaginated(parkingService, logg))
					r.Post("/", controllers.CreateFloor(parkingService, logg))
					r.Put("/{floorId}", controllers.UpdateFloor(parkingService, logg))
					r.Delete("/{floorId}", controllers.DeleteFloor(parkingService, logg))
				})

				r.Route("/spots", func(r chi.Router) {
					r.Get("/", controllers.ListSpots(parkingService, logg))
					r.Get("/paginated", controllers.ListSpotsPaginated(parkingService, logg))
					r.Post("/", controllers.CreateSpot(parkingService, logg))
					r.Put("/{spotId}", controllers.UpdateSpot(parkingService, logg))
					r.Patch("/{spotId}/status", controllers.UpdateSpotStatus(parkingService, logg))
					r.Delete("/{spotId}", controllers.DeleteSpot(parkingService, logg))
				})

				r.Route("/users", func(r chi.Router) {
					r.Get("/", controllers.ListUsers(accountsService, logg))
					r.Post("/", controllers.CreateUser(accountsService, enums.RoleUser, logg))
					r.Post("/admin", controllers.CreateUser(accountsService, enums.RoleAdmin, logg))
					r.Get("/{userId}", controllers.GetUser(accountsService, logg))
					r.Put("/{userId}", controllers.UpdateUser(accountsService, logg))
					r.Patch("/{userId}/status", controllers.UpdateUserStatus(accountsService, logg))
					r.Delete("/{userId}", controllers.DeleteUser(accountsService, logg))
				})

				r.Get("/logs", controllers.ListLogs(recorder, logg))
			})
		})
	})

	return r
}
