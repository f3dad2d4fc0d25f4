package api

import (
	"net/http"
	"path/filepath"
	"strings"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/smartinvoice/smartinvoice/internal/api/handlers"
	"github.com/smartinvoice/smartinvoice/internal/api/middleware"
	"github.com/smartinvoice/smartinvoice/internal/repository"
	"github.com/smartinvoice/smartinvoice/internal/service"
	"github.com/smartinvoice/smartinvoice/internal/totals"
)

// Services bundles what the router needs. RateLimit may be nil.
type Services struct {
	Store     repository.Store
	Calc      *totals.Calculator
	Auth      *service.AuthService
	Invoices  *service.InvoiceService
	Quotes    *service.QuoteService
	Clients   *service.ClientService
	Expenses  *service.ExpenseService
	Dashboard *service.DashboardService
	Social    *service.SocialService
	RateLimit *service.RateLimitService
}

// NewServices wires the services over one store
func NewServices(store repository.Store, calc *totals.Calculator, jwtSecret string, tokenTTL time.Duration) *Services {
	invoices := service.NewInvoiceService(store, calc)
	quotes := service.NewQuoteService(store, calc)
	clients := service.NewClientService(store)
	expenses := service.NewExpenseService(store, calc)

	return &Services{
		Store:     store,
		Calc:      calc,
		Auth:      service.NewAuthService(store, jwtSecret, tokenTTL),
		Invoices:  invoices,
		Quotes:    quotes,
		Clients:   clients,
		Expenses:  expenses,
		Dashboard: service.NewDashboardService(invoices, quotes, clients, expenses),
		Social:    service.NewSocialService(invoices),
	}
}

// NewRouter creates and configures the HTTP router
func NewRouter(svc *Services, staticDir string) http.Handler {
	r := chi.NewRouter()

	// Global middleware
	r.Use(middleware.Recoverer)
	r.Use(middleware.RequestID)
	r.Use(middleware.Logging)
	r.Use(middleware.Metrics)
	r.Use(middleware.CORS)

	checks := map[string]handlers.Pinger{"store": svc.Store}
	if svc.RateLimit != nil {
		checks["redis"] = svc.RateLimit
	}
	healthHandler := handlers.NewHealthHandler(checks)

	// Health checks (no auth required)
	r.Get("/health", healthHandler.Health)
	r.Get("/ready", healthHandler.Ready)
	r.Handle("/metrics", promhttp.Handler())

	// Create handlers
	authHandler := handlers.NewAuthHandler(svc.Auth)
	clientHandler := handlers.NewClientHandler(svc.Clients)
	invoiceHandler := handlers.NewInvoiceHandler(svc.Invoices)
	quoteHandler := handlers.NewQuoteHandler(svc.Quotes)
	expenseHandler := handlers.NewExpenseHandler(svc.Expenses)
	dashboardHandler := handlers.NewDashboardHandler(svc.Dashboard, svc.Calc)
	usageHandler := handlers.NewUsageHandler(svc.RateLimit)
	socialHandler := handlers.NewSocialHandler(svc.Social)

	// Create middleware
	authMiddleware := middleware.NewAuthMiddleware(svc.Auth)
	rateLimitMiddleware := middleware.NewRateLimitMiddleware(svc.RateLimit)

	// API v1 routes
	r.Route("/api/v1", func(r chi.Router) {
		// Public endpoints (no auth required)
		r.Post("/auth/register", authHandler.Register)
		r.Post("/auth/token", authHandler.Token)

		// Protected routes
		r.Group(func(r chi.Router) {
			r.Use(authMiddleware.Authenticate)
			r.Use(rateLimitMiddleware.RateLimit)

			r.Route("/clients", func(r chi.Router) {
				r.Get("/", clientHandler.List)
				r.Post("/", clientHandler.Create)
				r.Get("/{id}", clientHandler.Get)
				r.Delete("/{id}", clientHandler.Delete)
			})

			r.Route("/invoices", func(r chi.Router) {
				r.Get("/", invoiceHandler.List)
				r.Post("/", invoiceHandler.Create)
				r.Get("/next-number", invoiceHandler.NextNumber)
				r.Get("/{id}", invoiceHandler.Get)
				r.Delete("/{id}", invoiceHandler.Delete)
				r.Patch("/{id}/status", invoiceHandler.UpdateStatus)
				r.Get("/{id}/pdf", invoiceHandler.PDF)
			})

			r.Route("/quotes", func(r chi.Router) {
				r.Get("/", quoteHandler.List)
				r.Post("/", quoteHandler.Create)
				r.Get("/next-number", quoteHandler.NextNumber)
				r.Get("/{id}", quoteHandler.Get)
				r.Delete("/{id}", quoteHandler.Delete)
				r.Patch("/{id}/status", quoteHandler.UpdateStatus)
				r.Get("/{id}/pdf", quoteHandler.PDF)
			})

			r.Route("/expenses", func(r chi.Router) {
				r.Get("/", expenseHandler.List)
				r.Post("/", expenseHandler.Create)
				r.Get("/{id}", expenseHandler.Get)
				r.Delete("/{id}", expenseHandler.Delete)
			})
			r.Get("/expense-categories", expenseHandler.Categories)

			r.Post("/totals", dashboardHandler.Totals)
			r.Get("/dashboard", dashboardHandler.Summary)
			r.Get("/usage", usageHandler.Get)

			r.Post("/social-post", socialHandler.Post)
			r.Get("/milestones", socialHandler.Milestones)
		})
	})

	// Serve the dashboard bundle when one is configured
	if staticDir != "" {
		fileServer(r, "/", http.Dir(staticDir))
	}

	return r
}

// fileServer conveniently sets up a http.FileServer handler to serve static files
func fileServer(r chi.Router, path string, root http.FileSystem) {
	if strings.ContainsAny(path, "{}*") {
		panic("FileServer does not permit any URL parameters.")
	}

	if path != "/" && path[len(path)-1] != '/' {
		r.Get(path, http.RedirectHandler(path+"/", http.StatusMovedPermanently).ServeHTTP)
		path += "/"
	}
	path += "*"

	r.Get(path, func(w http.ResponseWriter, r *http.Request) {
		rctx := chi.RouteContext(r.Context())
		pathPrefix := strings.TrimSuffix(rctx.RoutePattern(), "/*")
		fs := http.StripPrefix(pathPrefix, http.FileServer(root))

		filePath := strings.TrimPrefix(r.URL.Path, pathPrefix)
		if filePath == "" || filePath == "/" {
			filePath = "/index.html"
		}

		// Unknown paths fall through to index.html for client-side routing
		f, err := root.Open(filepath.Clean(filePath))
		if err != nil {
			r.URL.Path = pathPrefix + "/index.html"
		} else {
			f.Close()
		}

		fs.ServeHTTP(w, r)
	})
}
