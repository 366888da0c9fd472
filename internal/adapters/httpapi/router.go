package httpapi

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
)

type RouterOptions struct {
	// AllowedOrigin enables credentialed CORS for one browser origin.
	AllowedOrigin string
	// PushPath is where the websocket hub is mounted.
	PushPath string
}

// NewRouter wires the REST endpoints, the upload and invoice links, and the push hub.
func NewRouter(s *Server, opts RouterOptions) http.Handler {
	if opts.PushPath == "" {
		opts.PushPath = "/push"
	}
	r := chi.NewRouter()

	r.Use(middleware.RequestID)
	r.Use(middleware.RealIP)
	r.Use(middleware.Recoverer)
	r.Use(NewCORSMiddleware(opts.AllowedOrigin))
	r.Use(NewSessionMiddleware(s.Tokens, s.opts.CookieName))

	r.Get("/healthz", func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusOK)
		_, _ = w.Write([]byte("ok"))
	})
	r.Handle(opts.PushPath, s.Hub.Handler())

	r.Get("/me", s.Me)
	r.Post("/login", s.Login)
	r.Post("/register", s.Register)
	r.Post("/logout", s.Logout)

	r.Get("/campaigns", s.ListCampaigns)
	r.Get("/campaigns/{id}", s.GetCampaign)
	r.Post("/campaigns", s.CreateCampaign)
	r.Post("/upload", s.Upload)
	r.Get("/uploads/{key}", s.ServeUpload)

	r.Get("/my-campaigns", s.MyCampaigns)
	r.Get("/my-contributions", s.MyContributions)
	r.Post("/request-campaign-owner", s.RequestCampaignOwner)
	r.Get("/check-upgrade-request", s.CheckUpgradeRequest)
	r.Get("/invoice/{id}", s.Invoice)

	r.Post("/create-order", s.CreateOrder)
	r.Post("/transactions", s.RecordTransaction)

	r.Route("/admin", func(r chi.Router) {
		r.Get("/campaigns", s.AdminCampaigns)
		r.Delete("/campaigns/{id}", s.DeleteCampaign)
		r.Get("/users", s.AdminUsers)
		r.Delete("/users/{id}", s.DeleteUser)
		r.Get("/upgrade-requests", s.UpgradeRequests)
		r.Post("/upgrade-requests/{id}/approve", s.ApproveUpgradeRequest)
		r.Delete("/upgrade-requests/{id}", s.RejectUpgradeRequest)
	})

	r.NotFound(func(w http.ResponseWriter, r *http.Request) {
		writeError(w, r, http.StatusNotFound, "NOT_FOUND", "Route not found", nil)
	})
	r.MethodNotAllowed(func(w http.ResponseWriter, r *http.Request) {
		writeError(w, r, http.StatusMethodNotAllowed, "METHOD_NOT_ALLOWED", "Method not allowed", nil)
	})
	return r
}
