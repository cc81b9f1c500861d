package api

import (
	"context"
	"net/http"
	"time"

	"divvy/config"
	"divvy/service"

	"github.com/gorilla/mux"
	"github.com/rs/cors"
	log "github.com/sirupsen/logrus"
)

// API serves the HTTP interface over the service layer
type API struct {
	router            *mux.Router
	config            *config.Config
	jwtSecret         []byte
	server            *http.Server
	userService       service.UserService
	eventService      service.EventService
	inviteService     service.InviteService
	pledgeService     service.PledgeService
	allocationService service.AllocationService
}

// New creates the API and registers its routes
func New(
	cfg *config.Config,
	userService service.UserService,
	eventService service.EventService,
	inviteService service.InviteService,
	pledgeService service.PledgeService,
	allocationService service.AllocationService,
) *API {
	api := &API{
		router:            mux.NewRouter(),
		config:            cfg,
		jwtSecret:         []byte(cfg.SessionSecret),
		userService:       userService,
		eventService:      eventService,
		inviteService:     inviteService,
		pledgeService:     pledgeService,
		allocationService: allocationService,
	}

	api.setupRoutes()
	return api
}

func (a *API) setupRoutes() {
	// Auth endpoints
	a.router.HandleFunc("/api/auth/magic-link", a.handleMagicLink).Methods("POST")

	// Public endpoints
	a.router.HandleFunc("/api/events", a.handleListEvents).Methods("GET")
	a.router.HandleFunc("/api/events/{id}", a.handleEventDetail).Methods("GET")
	a.router.HandleFunc("/api/events/{id}/chart-data", a.handleChartData).Methods("GET")

	// Protected endpoints
	protected := a.router.PathPrefix("/api").Subrouter()
	protected.Use(a.authMiddleware)

	protected.HandleFunc("/events", a.handleCreateEvent).Methods("POST")
	protected.HandleFunc("/events/{id}/finalize", a.handleFinalizeEvent).Methods("POST")
	protected.HandleFunc("/events/{id}/invites", a.handleCreateInvite).Methods("POST")
	protected.HandleFunc("/events/{id}/join/{token}", a.handleJoinEvent).Methods("POST")
	protected.HandleFunc("/events/{id}/pledges", a.handleCreatePledge).Methods("POST")
	protected.HandleFunc("/events/{id}/pledges/{pledgeID}/activate", a.handleActivatePledge).Methods("POST")
	protected.HandleFunc("/events/{id}/pledges/{pledgeID}/deactivate", a.handleDeactivatePledge).Methods("POST")
}

// Handler returns the routed handler with CORS applied, for tests and Start
func (a *API) Handler() http.Handler {
	corsOptions := cors.Options{
		AllowedOrigins:   []string{"*"},
		AllowedMethods:   []string{"GET", "POST", "OPTIONS"},
		AllowedHeaders:   []string{"Authorization", "Content-Type"},
		AllowCredentials: false,
	}
	return cors.New(corsOptions).Handler(a.router)
}

// Start runs the HTTP server until the context is cancelled
func (a *API) Start(ctx context.Context) error {
	a.server = &http.Server{
		Addr:         a.config.ListenAddr,
		Handler:      a.Handler(),
		ReadTimeout:  15 * time.Second,
		WriteTimeout: 15 * time.Second,
	}

	errCh := make(chan error, 1)
	go func() {
		log.WithField("addr", a.config.ListenAddr).Info("API server listening")
		if err := a.server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			errCh <- err
		}
	}()

	select {
	case err := <-errCh:
		return err
	case <-ctx.Done():
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()
		return a.server.Shutdown(shutdownCtx)
	}
}
