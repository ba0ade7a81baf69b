package api

import (
	"database/sql"
	"log"
	"net/http"
	"strings"

	"assetmanager/backend/handlers"
	"assetmanager/backend/middleware"
	"assetmanager/backend/warranty"

	"github.com/gorilla/mux"
)

// Server wires the HTTP surface: router, middleware and the handlers that
// carry state. The warranty handler is shared so its per-asset in-flight
// guard spans every route that reaches it.
type Server struct {
	db              *sql.DB
	router          *mux.Router
	warrantyHandler *handlers.WarrantyHandler
}

// NewServer creates the API server with all routes registered.
func NewServer(db *sql.DB, warrantyClient *warranty.Client) *Server {
	s := &Server{
		db:              db,
		router:          mux.NewRouter(),
		warrantyHandler: handlers.NewWarrantyHandler(warrantyClient),
	}

	s.router.Use(middleware.EnableCORS)

	// Register routes with both direct paths and /api prefix to maintain
	// compatibility with the frontend's fetch paths
	s.registerRoutes(s.router)
	apiRouter := s.router.PathPrefix("/api").Subrouter()
	s.registerRoutes(apiRouter)

	s.serveStatic()

	return s
}

// registerRoutes sets up all API routes on the given router.
func (s *Server) registerRoutes(r *mux.Router) {
	// Public routes (no auth required)
	r.HandleFunc("/health", handlers.HealthCheck).Methods("GET", "OPTIONS")
	r.HandleFunc("/auth/session", handlers.GetSession).Methods("POST", "OPTIONS")

	// Authenticated routes: identity is resolved once here, role gating
	// happens per subrouter below
	protectedRouter := r.PathPrefix("").Subrouter()
	protectedRouter.Use(middleware.AuthMiddleware)

	protectedRouter.HandleFunc("/auth/logout", handlers.Logout).Methods("POST")

	// Warranty registration is open to both roles; the handler enforces
	// per-asset ownership itself
	protectedRouter.HandleFunc("/warranty/register", s.warrantyHandler.Register).Methods("POST")

	// User-gated routes
	userRouter := protectedRouter.PathPrefix("").Subrouter()
	userRouter.Use(middleware.RequireUser())

	userRouter.HandleFunc("/assets", handlers.GetMyAssets).Methods("GET")
	userRouter.HandleFunc("/assets", handlers.AddAsset).Methods("POST")
	userRouter.HandleFunc("/assets/{id}", handlers.DeleteAsset).Methods("DELETE")
	userRouter.HandleFunc("/categories", handlers.GetCategories).Methods("GET")
	userRouter.HandleFunc("/departments", handlers.GetDepartments).Methods("GET")
	userRouter.HandleFunc("/stats/me", handlers.GetUserStats).Methods("GET")

	// Admin-gated routes
	adminRouter := protectedRouter.PathPrefix("/admin").Subrouter()
	adminRouter.Use(middleware.RequireAdmin())

	adminRouter.HandleFunc("/assets", handlers.GetAllAssets).Methods("GET")
	adminRouter.HandleFunc("/assets", handlers.AddAsset).Methods("POST")
	adminRouter.HandleFunc("/assets/{id}", handlers.DeleteAsset).Methods("DELETE")

	adminRouter.HandleFunc("/categories", handlers.GetCategories).Methods("GET")
	adminRouter.HandleFunc("/categories", handlers.AddCategory).Methods("POST")
	adminRouter.HandleFunc("/categories/{id}", handlers.DeleteCategory).Methods("DELETE")

	adminRouter.HandleFunc("/departments", handlers.GetDepartments).Methods("GET")
	adminRouter.HandleFunc("/departments", handlers.AddDepartment).Methods("POST")
	adminRouter.HandleFunc("/departments/{id}", handlers.DeleteDepartment).Methods("DELETE")

	adminRouter.HandleFunc("/users", handlers.GetProfiles).Methods("GET")
	adminRouter.HandleFunc("/users/invite", handlers.InviteUser).Methods("POST")
	adminRouter.HandleFunc("/users/{id}/role", handlers.SetUserRole).Methods("POST")

	adminRouter.HandleFunc("/stats", handlers.GetAdminStats).Methods("GET")
}

// serveStatic serves the built frontend from the "dist" directory; any
// non-API path falls through to index.html for client-side routing.
func (s *Server) serveStatic() {
	fs := http.FileServer(http.Dir("./dist"))
	s.router.PathPrefix("/static/").Handler(fs)
	s.router.PathPrefix("/").HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if !strings.HasPrefix(r.URL.Path, "/static/") {
			log.Printf("Serving index.html for path: %s", r.URL.Path)
		}
		http.ServeFile(w, r, "./dist/index.html")
	}).Methods("GET")
}

// Handler returns the HTTP handler for the API server.
func (s *Server) Handler() http.Handler {
	return s.router
}
