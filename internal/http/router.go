package http

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"

	"github.com/vivaahaverse/vivaah/internal/http/booking"
	"github.com/vivaahaverse/vivaah/internal/http/catalog"
	"github.com/vivaahaverse/vivaah/internal/http/expense"
	"github.com/vivaahaverse/vivaah/internal/http/health"
	"github.com/vivaahaverse/vivaah/internal/http/user"
)

func New(
	bookingsV1 *booking.Handler,
	catalogV1 *catalog.Handler,
	expensesV1 *expense.Handler,
	usersV1 *user.Handler,
	healthH *health.Handler,
) http.Handler {
	router := chi.NewRouter()

	router.Use(middleware.RequestID)
	router.Use(middleware.Logger)
	router.Use(middleware.Recoverer)
	router.Use(cors.Handler(cors.Options{
		AllowedOrigins: []string{"*"},
		AllowedMethods: []string{"GET", "POST", "PUT", "DELETE", "OPTIONS"},
		AllowedHeaders: []string{"Accept", "Authorization", "Content-Type"},
		MaxAge:         300,
	}))

	router.Method(http.MethodGet, "/healthz", healthH)

	router.Route("/bookings", func(r chi.Router) {
		r.Use(middleware.AllowContentType("application/json"))
		bookingsV1.Routes(r)
	})

	router.Route("/services", func(r chi.Router) {
		r.Use(middleware.AllowContentType("application/json"))
		catalogV1.Routes(r)
	})

	// Multipart import lives here, so no content type restriction.
	router.Route("/expenses", expensesV1.Routes)

	router.Route("/auth", func(r chi.Router) {
		r.Use(middleware.AllowContentType("application/json"))
		usersV1.AuthRoutes(r)
	})

	router.Route("/users", func(r chi.Router) {
		r.Use(middleware.AllowContentType("application/json"))
		usersV1.Routes(r)
	})

	return router
}
