package server

import (
	"database/sql"
	"encoding/json"
	"log/slog"
	"net/http"
	"time"

	"github.com/gamepop/gamepop/internal/auth"
	"github.com/gamepop/gamepop/internal/backup"
	"github.com/gamepop/gamepop/internal/config"
	"github.com/gamepop/gamepop/internal/handler"
	"github.com/gamepop/gamepop/internal/middleware"
	"github.com/gamepop/gamepop/internal/payments"
	"github.com/gamepop/gamepop/internal/push"
	"github.com/gamepop/gamepop/internal/rsvp"
	"github.com/gamepop/gamepop/internal/store"
	ws "github.com/gamepop/gamepop/internal/websocket"
)

type Server struct {
	db            *sql.DB
	hub           *ws.Hub
	admin         *auth.Admin
	rsvpH         *handler.RSVPHandler
	sessionH      *handler.SessionHandler
	draftH        *handler.DraftHandler
	checkoutH     *handler.CheckoutHandler
	webhookH      *handler.WebhookHandler
	authH         *handler.AuthHandler
	pushH         *handler.PushHandler
	pageH         *handler.PageHandler
	rateLimiter   *middleware.RateLimiter
	backupManager *backup.Manager
	logger        *slog.Logger
}

func New(db *sql.DB, cfg config.Config, logger *slog.Logger) *Server {
	hub := ws.NewHub(logger.With("component", "websocket"))

	sessionStore := store.NewSessionStore(db)
	responseStore := store.NewResponseStore(db)
	draftStore := store.NewDraftStore(db)
	paymentStore := store.NewPaymentStore(db)
	pushStore := store.NewPushStore(db)

	coordinator := rsvp.NewCoordinator(responseStore, logger.With("component", "rsvp"))
	admin := auth.New(cfg.AdminPasswordHash, cfg.SessionSecret)

	stripeClient := payments.NewClient(payments.Config{
		SecretKey:     cfg.StripeSecretKey,
		WebhookSecret: cfg.StripeWebhookSecret,
		BaseURL:       cfg.BaseURL,
	})

	var pushSvc *push.Service
	var pushH *handler.PushHandler
	if cfg.VAPIDPublicKey != "" && cfg.VAPIDPrivateKey != "" {
		pushSvc = push.NewService(push.Config{
			VAPIDPublicKey:  cfg.VAPIDPublicKey,
			VAPIDPrivateKey: cfg.VAPIDPrivateKey,
			Contact:         cfg.PushContact,
		}, pushStore, logger.With("component", "push"))
		pushH = handler.NewPushHandler(pushStore, pushSvc, logger.With("component", "push_handler"))
	}

	backupMgr := backup.NewManager(backup.Config{
		Bucket:     cfg.BackupBucket,
		Region:     cfg.BackupRegion,
		Endpoint:   cfg.BackupEndpoint,
		AccessKey:  cfg.BackupAccessKey,
		SecretKey:  cfg.BackupSecretKey,
		Passphrase: cfg.BackupPassphrase,
		DBPath:     cfg.DBPath,
	}, db, logger.With("component", "backup"))

	vapidKey := ""
	if pushSvc != nil {
		vapidKey = pushSvc.VAPIDPublicKey()
	}

	return &Server{
		db:            db,
		hub:           hub,
		admin:         admin,
		rsvpH:         handler.NewRSVPHandler(sessionStore, responseStore, coordinator, hub, pushSvc, logger.With("component", "rsvp_handler")),
		sessionH:      handler.NewSessionHandler(sessionStore, logger.With("component", "session_handler")),
		draftH:        handler.NewDraftHandler(draftStore, sessionStore, logger.With("component", "draft_handler")),
		checkoutH:     handler.NewCheckoutHandler(sessionStore, paymentStore, stripeClient, logger.With("component", "checkout")),
		webhookH:      handler.NewWebhookHandler(paymentStore, stripeClient, logger.With("component", "webhook")),
		authH:         handler.NewAuthHandler(admin, logger.With("component", "auth")),
		pushH:         pushH,
		pageH:         handler.NewPageHandler(sessionStore, responseStore, paymentStore, cfg.BaseURL, vapidKey, logger.With("component", "pages")),
		rateLimiter:   middleware.NewRateLimiter(),
		backupManager: backupMgr,
		logger:        logger,
	}
}

// RateLimiter returns the rate limiter for cleanup tasks.
func (s *Server) RateLimiter() *middleware.RateLimiter {
	return s.rateLimiter
}

// BackupManager returns the backup manager.
func (s *Server) BackupManager() *backup.Manager {
	return s.backupManager
}

func (s *Server) Router() http.Handler {
	mux := http.NewServeMux()

	// Public pages
	mux.HandleFunc("GET /", s.pageH.Home)
	mux.HandleFunc("GET /s/{id}", s.pageH.SessionPage)
	mux.HandleFunc("GET /login", s.pageH.LoginPage)
	mux.HandleFunc("POST /login", s.rateLimited(s.authH.Login, 10))
	mux.HandleFunc("POST /logout", s.authH.Logout)
	mux.HandleFunc("GET /success", s.pageH.SuccessPage)
	mux.Handle("GET /static/", http.StripPrefix("/static/", http.FileServer(http.Dir("web/static"))))
	mux.HandleFunc("GET /health", s.healthHandler)

	// Public API
	mux.HandleFunc("POST /api/sessions/{id}/rsvp", s.rateLimited(s.rsvpH.Submit, 30))
	mux.HandleFunc("GET /api/sessions/{id}/responses", s.rsvpH.Roster)
	mux.HandleFunc("GET /api/sessions/{id}", s.sessionH.Get)
	mux.HandleFunc("POST /api/sessions/{id}/checkout", s.rateLimited(s.checkoutH.Create, 10))
	mux.HandleFunc("POST /api/webhooks/stripe", s.webhookH.HandleStripe)

	if s.pushH != nil {
		mux.HandleFunc("POST /api/push/subscribe", s.pushH.Subscribe)
		mux.HandleFunc("GET /api/push/vapid-key", s.pushH.VAPIDKey)
	}

	// WebSocket for the live roster
	mux.HandleFunc("GET /ws", ws.HandleWebSocket(s.hub))

	// Admin routes behind the auth middleware
	requireAdmin := middleware.RequireAdmin(s.admin)
	adminFunc := func(h http.HandlerFunc) http.Handler {
		return requireAdmin(h)
	}

	// Pages
	mux.Handle("GET /admin/sessions", adminFunc(s.pageH.AdminSessions))
	mux.Handle("GET /admin/sessions/new", adminFunc(s.pageH.NewSessionWizard))

	// Session CRUD
	mux.Handle("POST /api/sessions", adminFunc(s.sessionH.Create))
	mux.Handle("GET /api/sessions", adminFunc(s.sessionH.List))
	mux.Handle("PUT /api/sessions/{id}", adminFunc(s.sessionH.Update))
	mux.Handle("DELETE /api/sessions/{id}", adminFunc(s.sessionH.Delete))

	// Wizard drafts
	mux.Handle("PUT /api/drafts/{key}", adminFunc(s.draftH.Save))
	mux.Handle("GET /api/drafts/{key}", adminFunc(s.draftH.Get))
	mux.Handle("DELETE /api/drafts/{key}", adminFunc(s.draftH.Delete))
	mux.Handle("POST /api/drafts/{key}/commit", adminFunc(s.draftH.Commit))

	return middleware.RequestLogger(s.logger.With("component", "http"))(mux)
}

func (s *Server) healthHandler(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(map[string]string{"status": "ok"})
}

func (s *Server) rateLimited(h http.HandlerFunc, limit int) http.HandlerFunc {
	keyFunc := func(r *http.Request) string {
		return middleware.RealIP(r)
	}
	rl := middleware.RateLimit(s.rateLimiter, keyFunc, limit, time.Minute)
	return func(w http.ResponseWriter, r *http.Request) {
		rl(http.HandlerFunc(h)).ServeHTTP(w, r)
	}
}
