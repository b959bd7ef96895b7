package routes

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/amolina-dev/biblioteca-backend/api/controllers"
	"github.com/amolina-dev/biblioteca-backend/api/middleware"
	"github.com/amolina-dev/biblioteca-backend/internal/books"
	"github.com/amolina-dev/biblioteca-backend/internal/loans"
	"github.com/amolina-dev/biblioteca-backend/internal/purchases"
	"github.com/amolina-dev/biblioteca-backend/internal/reservations"
	"github.com/amolina-dev/biblioteca-backend/internal/users"
	"github.com/amolina-dev/biblioteca-backend/pkg/config"
	"github.com/amolina-dev/biblioteca-backend/pkg/logger"
)

// Services bundles everything the router wires into handlers.
type Services struct {
	Users        users.Service
	Books        books.Service
	Loans        loans.Service
	Reservations reservations.Service
	Purchases    purchases.Service
}

func NewRouter(
	cfg *config.Config,
	logg *logger.Logger,
	db controllers.Pinger,
	svcs Services,
	registry *prometheus.Registry,
) http.Handler {
	r := chi.NewRouter()

	r.Use(
		middleware.Recoverer(logg),
		middleware.RequestID(logg),
		middleware.Logging(logg),
		middleware.CORS(cfg.App.CORSOrigins),
	)

	r.Get("/healthz", controllers.Healthz(cfg, logg, db))
	if registry != nil {
		r.Method(http.MethodGet, "/metrics", promhttp.HandlerFor(registry, promhttp.HandlerOpts{}))
	}

	r.Route("/api/v1", func(r chi.Router) {
		r.Route("/users", func(r chi.Router) {
			r.Post("/", controllers.CreateUser(svcs.Users, logg))
			r.Get("/", controllers.ListUsers(svcs.Users, logg))
			r.Get("/{userId}", controllers.GetUser(svcs.Users, logg))
		})

		r.Route("/books", func(r chi.Router) {
			r.Post("/", controllers.CreateBook(svcs.Books, logg))
			r.Get("/", controllers.ListBooks(svcs.Books, logg))
			r.Get("/{bookId}", controllers.GetBook(svcs.Books, logg))
		})

		r.Route("/loans", func(r chi.Router) {
			r.Post("/", controllers.RequestLoan(svcs.Loans, logg))
			r.Get("/", controllers.ListLoans(svcs.Loans, logg))
			r.Get("/{loanId}", controllers.GetLoan(svcs.Loans, logg))
			r.Post("/{loanId}/extend", controllers.ExtendLoan(svcs.Loans, logg))
			r.Post("/{loanId}/return", controllers.ReturnLoan(svcs.Loans, logg))
		})

		r.Route("/reservations", func(r chi.Router) {
			r.Post("/", controllers.RequestReservation(svcs.Reservations, logg))
			r.Get("/", controllers.ListReservations(svcs.Reservations, logg))
		})

		r.Route("/purchases", func(r chi.Router) {
			r.Post("/", controllers.RequestPurchase(svcs.Purchases, logg))
			r.Get("/", controllers.ListPurchases(svcs.Purchases, logg))
		})
	})

	return r
}
