// Package api exposes BookShare's REST and WebSocket interface.
//
// The route surface mirrors the client library the web frontend consumes:
// every api-client function maps onto one endpoint here, so the frontend can
// swap its hosted backend for this service without changing call signatures.
package api

import (
	"net/http"

	"github.com/gorilla/mux"

	"github.com/MahdiMurshed/bookshare/internal/auth"
	"github.com/MahdiMurshed/bookshare/internal/metrics"
	"github.com/MahdiMurshed/bookshare/internal/middleware"
	"github.com/MahdiMurshed/bookshare/internal/realtime"
	"github.com/MahdiMurshed/bookshare/internal/service"
)

// API bundles the services behind the HTTP interface.
type API struct {
	auth          *service.AuthService
	books         *service.BookService
	borrows       *service.BorrowService
	communities   *service.CommunityService
	notifications *service.NotificationService
	messages      *service.MessageService
	admin         *service.AdminService
	jwtManager    *auth.JWTManager
	hub           *realtime.Hub
	limiter       *middleware.RateLimiter
}

// Config wires the API's dependencies.
type Config struct {
	Auth          *service.AuthService
	Books         *service.BookService
	Borrows       *service.BorrowService
	Communities   *service.CommunityService
	Notifications *service.NotificationService
	Messages      *service.MessageService
	Admin         *service.AdminService
	JWTManager    *auth.JWTManager
	Hub           *realtime.Hub
	Limiter       *middleware.RateLimiter
}

// New creates the API.
func New(cfg Config) *API {
	return &API{
		auth:          cfg.Auth,
		books:         cfg.Books,
		borrows:       cfg.Borrows,
		communities:   cfg.Communities,
		notifications: cfg.Notifications,
		messages:      cfg.Messages,
		admin:         cfg.Admin,
		jwtManager:    cfg.JWTManager,
		hub:           cfg.Hub,
		limiter:       cfg.Limiter,
	}
}

// Router builds the full route table.
func (a *API) Router() *mux.Router {
	r := mux.NewRouter()
	r.HandleFunc("/healthz", func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusOK)
	}).Methods(http.MethodGet)
	r.Handle("/metrics", metrics.Handler()).Methods(http.MethodGet)

	v1 := r.PathPrefix("/api/v1").Subrouter()
	if a.limiter != nil {
		v1.Use(a.limiter.Handler)
	}

	// Public routes.
	v1.HandleFunc("/auth/register", a.handleRegister).Methods(http.MethodPost)
	v1.HandleFunc("/auth/login", a.handleLogin).Methods(http.MethodPost)

	// The websocket endpoint authenticates itself: browsers cannot set an
	// Authorization header on a WebSocket handshake.
	v1.HandleFunc("/ws", a.handleWS).Methods(http.MethodGet)

	// Authenticated routes.
	authed := v1.NewRoute().Subrouter()
	authed.Use(middleware.RequireAuth(a.jwtManager))

	authed.HandleFunc("/auth/me", a.handleCurrentUser).Methods(http.MethodGet)

	authed.HandleFunc("/books", a.handleListBooks).Methods(http.MethodGet)
	authed.HandleFunc("/books", a.handleCreateBook).Methods(http.MethodPost)
	authed.HandleFunc("/books/{id}", a.handleGetBook).Methods(http.MethodGet)
	authed.HandleFunc("/books/{id}", a.handleUpdateBook).Methods(http.MethodPut)
	authed.HandleFunc("/books/{id}", a.handleRemoveBook).Methods(http.MethodDelete)

	authed.HandleFunc("/borrow-requests", a.handleCreateBorrowRequest).Methods(http.MethodPost)
	authed.HandleFunc("/borrow-requests", a.handleListBorrowRequests).Methods(http.MethodGet)
	authed.HandleFunc("/borrow-requests/{id}", a.handleGetBorrowRequest).Methods(http.MethodGet)
	authed.HandleFunc("/borrow-requests/{id}/{action:approve|deny|cancel|handover|initiate-return|confirm-return}",
		a.handleBorrowAction).Methods(http.MethodPost)

	authed.HandleFunc("/communities", a.handleListCommunities).Methods(http.MethodGet)
	authed.HandleFunc("/communities", a.handleCreateCommunity).Methods(http.MethodPost)
	authed.HandleFunc("/communities/{id}", a.handleGetCommunity).Methods(http.MethodGet)
	authed.HandleFunc("/communities/{id}/join", a.handleJoinCommunity).Methods(http.MethodPost)
	authed.HandleFunc("/communities/{id}/leave", a.handleLeaveCommunity).Methods(http.MethodPost)

	authed.HandleFunc("/notifications", a.handleListNotifications).Methods(http.MethodGet)
	authed.HandleFunc("/notifications/read-all", a.handleMarkAllNotificationsRead).Methods(http.MethodPost)
	authed.HandleFunc("/notifications/{id}/read", a.handleMarkNotificationRead).Methods(http.MethodPost)

	authed.HandleFunc("/messages", a.handleSendMessage).Methods(http.MethodPost)
	authed.HandleFunc("/messages", a.handleConversation).Methods(http.MethodGet).Queries("with", "{with}")

	// Admin routes.
	adm := v1.PathPrefix("/admin").Subrouter()
	adm.Use(middleware.RequireAuth(a.jwtManager), middleware.RequireAdmin())
	adm.HandleFunc("/users", a.handleAdminListUsers).Methods(http.MethodGet)
	adm.HandleFunc("/users/{id}/suspend", a.handleAdminSuspend).Methods(http.MethodPost)
	adm.HandleFunc("/users/{id}/unsuspend", a.handleAdminUnsuspend).Methods(http.MethodPost)
	adm.HandleFunc("/books/{id}", a.handleAdminRemoveBook).Methods(http.MethodDelete)
	adm.HandleFunc("/notifications/broadcast", a.handleAdminBroadcast).Methods(http.MethodPost)
	adm.HandleFunc("/activity", a.handleAdminActivity).Methods(http.MethodGet)

	return r
}
