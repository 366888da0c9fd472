package httpapi

import (
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"strconv"
	"strings"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-logr/logr"
	"github.com/google/uuid"

	"github.com/kunall-01/crowdspark-frontend/internal/adapters/wire"
	"github.com/kunall-01/crowdspark-frontend/internal/app/accounts"
	"github.com/kunall-01/crowdspark-frontend/internal/app/fundraising"
	"github.com/kunall-01/crowdspark-frontend/internal/domain"
	"github.com/kunall-01/crowdspark-frontend/internal/platform/auth/sessiontoken"
	"github.com/kunall-01/crowdspark-frontend/internal/ports/out/imagestore"
	"github.com/kunall-01/crowdspark-frontend/internal/ports/out/pushchannel"
)

const (
	maxJSONBody   = 1 << 20
	maxUploadBody = 5 << 20
)

type ServerOptions struct {
	CookieName string
	// SecureCookie marks the session cookie Secure; leave false for plain-http local runs.
	SecureCookie bool
	// PublicURL prefixes upload links. Empty derives it from each request.
	PublicURL string
	Log       logr.Logger
}

// Server is the dev backend: the REST surface plus the push hub.
type Server struct {
	Accounts    *accounts.Service
	Fundraising *fundraising.Service
	Images      imagestore.Store
	Tokens      *sessiontoken.Manager
	Hub         *Hub

	opts ServerOptions
	log  logr.Logger
}

func NewServer(acc *accounts.Service, fr *fundraising.Service, images imagestore.Store, tokens *sessiontoken.Manager, opts ServerOptions) *Server {
	log := opts.Log
	if log.GetSink() == nil {
		log = logr.Discard()
	}
	if opts.CookieName == "" {
		opts.CookieName = "token"
	}
	return &Server{
		Accounts:    acc,
		Fundraising: fr,
		Images:      images,
		Tokens:      tokens,
		Hub:         NewHub(log.WithName("push")),
		opts:        opts,
		log:         log,
	}
}

func caller(r *http.Request) domain.UserID {
	id, _ := CallerFromContext(r.Context())
	return id
}

func decodeJSON(w http.ResponseWriter, r *http.Request, dst any) bool {
	dec := json.NewDecoder(http.MaxBytesReader(w, r.Body, maxJSONBody))
	if err := dec.Decode(dst); err != nil {
		writeBadBody(w, r)
		return false
	}
	return true
}

func (s *Server) publicURL(r *http.Request) string {
	if s.opts.PublicURL != "" {
		return strings.TrimRight(s.opts.PublicURL, "/")
	}
	scheme := "http"
	if r.TLS != nil {
		scheme = "https"
	}
	return scheme + "://" + r.Host
}

func (s *Server) setSession(w http.ResponseWriter, id domain.UserID) error {
	token, exp, err := s.Tokens.Issue(id)
	if err != nil {
		return err
	}
	http.SetCookie(w, &http.Cookie{
		Name:     s.opts.CookieName,
		Value:    token,
		Path:     "/",
		Expires:  exp,
		HttpOnly: true,
		Secure:   s.opts.SecureCookie,
		SameSite: http.SameSiteLaxMode,
	})
	return nil
}

func (s *Server) clearSession(w http.ResponseWriter) {
	http.SetCookie(w, &http.Cookie{
		Name:     s.opts.CookieName,
		Value:    "",
		Path:     "/",
		MaxAge:   -1,
		HttpOnly: true,
		Secure:   s.opts.SecureCookie,
		SameSite: http.SameSiteLaxMode,
	})
}

func (s *Server) Me(w http.ResponseWriter, r *http.Request) {
	u, err := s.Accounts.Me(r.Context(), caller(r))
	if err != nil {
		s.writeServiceError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, wire.FromUser(u))
}

func (s *Server) Login(w http.ResponseWriter, r *http.Request) {
	var in wire.Credentials
	if !decodeJSON(w, r, &in) {
		return
	}
	u, err := s.Accounts.Authenticate(r.Context(), strings.TrimSpace(in.Email), in.Password)
	if err != nil {
		s.writeServiceError(w, r, err)
		return
	}
	if err := s.setSession(w, u.ID); err != nil {
		s.writeServiceError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, wire.FromUser(u))
}

func (s *Server) Register(w http.ResponseWriter, r *http.Request) {
	var in wire.Registration
	if !decodeJSON(w, r, &in) {
		return
	}
	u, err := s.Accounts.Register(r.Context(), accounts.RegisterInput{
		Username: in.Username,
		Email:    in.Email,
		Password: in.Password,
		Role:     in.Role,
	})
	if err != nil {
		s.writeServiceError(w, r, err)
		return
	}
	if err := s.setSession(w, u.ID); err != nil {
		s.writeServiceError(w, r, err)
		return
	}
	writeJSON(w, http.StatusCreated, wire.FromUser(u))
}

func (s *Server) Logout(w http.ResponseWriter, _ *http.Request) {
	s.clearSession(w)
	writeJSON(w, http.StatusOK, wire.Acknowledgement{Message: "Logged out"})
}

func campaignsJSON(cs []domain.Campaign) []wire.Campaign {
	out := make([]wire.Campaign, 0, len(cs))
	for _, c := range cs {
		out = append(out, wire.FromCampaign(c))
	}
	return out
}

func (s *Server) ListCampaigns(w http.ResponseWriter, r *http.Request) {
	cs, err := s.Fundraising.ListCampaigns(r.Context())
	if err != nil {
		s.writeServiceError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, campaignsJSON(cs))
}

func (s *Server) GetCampaign(w http.ResponseWriter, r *http.Request) {
	c, err := s.Fundraising.GetCampaign(r.Context(), domain.CampaignID(chi.URLParam(r, "id")))
	if err != nil {
		s.writeServiceError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, wire.FromCampaign(c))
}

func (s *Server) CreateCampaign(w http.ResponseWriter, r *http.Request) {
	var in wire.NewCampaign
	if !decodeJSON(w, r, &in) {
		return
	}
	c, err := s.Fundraising.CreateCampaign(r.Context(), caller(r), fundraising.CreateCampaignInput{
		Title:       in.Title,
		Description: in.Description,
		GoalAmount:  float64(in.GoalAmount),
		Deadline:    in.Deadline,
		Category:    in.Category,
		Image:       in.Image,
	})
	if err != nil {
		s.writeServiceError(w, r, err)
		return
	}
	writeJSON(w, http.StatusCreated, wire.FromCampaign(c))
}

// Upload stores the multipart field "image" and returns where it is served from.
func (s *Server) Upload(w http.ResponseWriter, r *http.Request) {
	if _, ok := CallerFromContext(r.Context()); !ok {
		writeUnauthenticated(w, r)
		return
	}
	r.Body = http.MaxBytesReader(w, r.Body, maxUploadBody)
	f, hdr, err := r.FormFile("image")
	if err != nil {
		writeError(w, r, http.StatusBadRequest, "VALIDATION_ERROR", "Image file is required", nil)
		return
	}
	defer f.Close()

	ct := hdr.Header.Get("Content-Type")
	if !strings.HasPrefix(ct, "image/") {
		writeError(w, r, http.StatusBadRequest, "VALIDATION_ERROR", "Only image uploads are allowed", map[string]any{"contentType": ct})
		return
	}
	body, err := io.ReadAll(f)
	if err != nil {
		writeBadBody(w, r)
		return
	}
	key := uuid.NewString()
	if err := s.Images.Put(r.Context(), key, imagestore.Image{ContentType: ct, Body: body}); err != nil {
		s.writeServiceError(w, r, err)
		return
	}
	writeJSON(w, http.StatusCreated, wire.UploadResult{ImageURL: s.publicURL(r) + "/uploads/" + key})
}

func (s *Server) ServeUpload(w http.ResponseWriter, r *http.Request) {
	img, err := s.Images.Get(r.Context(), chi.URLParam(r, "key"))
	if err != nil {
		if errors.Is(err, imagestore.ErrNotFound) {
			writeError(w, r, http.StatusNotFound, "IMAGE_NOT_FOUND", "Image not found", nil)
			return
		}
		s.writeServiceError(w, r, err)
		return
	}
	w.Header().Set("Content-Type", img.ContentType)
	w.Header().Set("Content-Length", strconv.Itoa(len(img.Body)))
	_, _ = w.Write(img.Body)
}

func (s *Server) MyCampaigns(w http.ResponseWriter, r *http.Request) {
	cs, err := s.Fundraising.MyCampaigns(r.Context(), caller(r))
	if err != nil {
		s.writeServiceError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, campaignsJSON(cs))
}

func (s *Server) MyContributions(w http.ResponseWriter, r *http.Request) {
	cs, err := s.Fundraising.MyContributions(r.Context(), caller(r))
	if err != nil {
		s.writeServiceError(w, r, err)
		return
	}
	out := make([]wire.Contribution, 0, len(cs))
	for _, c := range cs {
		out = append(out, wire.FromContribution(c))
	}
	writeJSON(w, http.StatusOK, out)
}

func (s *Server) RequestCampaignOwner(w http.ResponseWriter, r *http.Request) {
	if err := s.Accounts.RequestUpgrade(r.Context(), caller(r)); err != nil {
		s.writeServiceError(w, r, err)
		return
	}
	writeJSON(w, http.StatusCreated, wire.Acknowledgement{Message: "Request submitted"})
}

func (s *Server) CheckUpgradeRequest(w http.ResponseWriter, r *http.Request) {
	ok, err := s.Accounts.HasPendingUpgrade(r.Context(), caller(r))
	if err != nil {
		s.writeServiceError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, wire.UpgradeStatus{Requested: ok})
}

func (s *Server) CreateOrder(w http.ResponseWriter, r *http.Request) {
	var in wire.CreateOrderRequest
	if !decodeJSON(w, r, &in) {
		return
	}
	o, err := s.Fundraising.CreateOrder(r.Context(), caller(r), float64(in.Amount))
	if err != nil {
		s.writeServiceError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, wire.FromOrder(o))
}

// RecordTransaction credits the campaign and tells its owner. A replayed payment answers
// 200 with the original contribution and notifies nobody.
func (s *Server) RecordTransaction(w http.ResponseWriter, r *http.Request) {
	var in wire.Transaction
	if !decodeJSON(w, r, &in) {
		return
	}
	rec, err := s.Fundraising.RecordTransaction(r.Context(), caller(r), fundraising.TransactionInput{
		CampaignID:   domain.CampaignID(in.CampaignID),
		Amount:       float64(in.Amount),
		Message:      wire.StringPtr(in.Message),
		Confirmation: in.Confirmation(),
	})
	if err != nil {
		s.writeServiceError(w, r, err)
		return
	}
	if rec.Replayed {
		writeJSON(w, http.StatusOK, wire.FromContribution(rec.Contribution))
		return
	}
	if rec.OwnerID != "" {
		n := s.Hub.Broadcast(string(rec.OwnerID), pushchannel.EventNewBacking, pushchannel.NewBacking{
			Amount:     rec.Backing.Amount,
			CampaignID: string(rec.Backing.CampaignID),
			Backer:     rec.Backing.Backer,
			Message:    wire.OptionalString(rec.Backing.Message),
		})
		s.log.V(1).Info("new backing pushed", "owner", rec.OwnerID, "campaignId", rec.Backing.CampaignID, "receivers", n)
	}
	writeJSON(w, http.StatusCreated, wire.FromContribution(rec.Contribution))
}

// Invoice renders a plain-text invoice for one of the caller's contributions.
func (s *Server) Invoice(w http.ResponseWriter, r *http.Request) {
	inv, err := s.Fundraising.Invoice(r.Context(), caller(r), domain.ContributionID(chi.URLParam(r, "id")))
	if err != nil {
		s.writeServiceError(w, r, err)
		return
	}
	c := inv.Contribution
	w.Header().Set("Content-Type", "text/plain; charset=utf-8")
	w.Header().Set("Content-Disposition", fmt.Sprintf(`inline; filename="invoice-%s.txt"`, c.ID))
	fmt.Fprintf(w, "CrowdSpark invoice %s\n", c.ID)
	fmt.Fprintf(w, "Issued:   %s\n", inv.IssuedAt.Format(time.RFC3339))
	fmt.Fprintf(w, "Backer:   %s <%s>\n", inv.BackerName, inv.BackerEmail)
	fmt.Fprintf(w, "Campaign: %s\n", inv.CampaignTitle)
	fmt.Fprintf(w, "Date:     %s\n", c.Date.Format("2 Jan 2006"))
	fmt.Fprintf(w, "Amount:   %.2f %s\n", c.Amount, inv.Currency)
	if c.Message != nil {
		fmt.Fprintf(w, "Message:  %s\n", *c.Message)
	}
}

func (s *Server) AdminCampaigns(w http.ResponseWriter, r *http.Request) {
	cs, err := s.Fundraising.AdminCampaigns(r.Context(), caller(r))
	if err != nil {
		s.writeServiceError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, campaignsJSON(cs))
}

func (s *Server) AdminUsers(w http.ResponseWriter, r *http.Request) {
	us, err := s.Accounts.ListUsers(r.Context(), caller(r))
	if err != nil {
		s.writeServiceError(w, r, err)
		return
	}
	out := make([]wire.User, 0, len(us))
	for _, u := range us {
		out = append(out, wire.FromUser(u))
	}
	writeJSON(w, http.StatusOK, out)
}

func (s *Server) DeleteUser(w http.ResponseWriter, r *http.Request) {
	if err := s.Accounts.DeleteUser(r.Context(), caller(r), domain.UserID(chi.URLParam(r, "id"))); err != nil {
		s.writeServiceError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, wire.Acknowledgement{Message: "User deleted"})
}

func (s *Server) DeleteCampaign(w http.ResponseWriter, r *http.Request) {
	if err := s.Fundraising.DeleteCampaign(r.Context(), caller(r), domain.CampaignID(chi.URLParam(r, "id"))); err != nil {
		s.writeServiceError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, wire.Acknowledgement{Message: "Campaign deleted"})
}

func (s *Server) UpgradeRequests(w http.ResponseWriter, r *http.Request) {
	rs, err := s.Accounts.ListUpgradeRequests(r.Context(), caller(r))
	if err != nil {
		s.writeServiceError(w, r, err)
		return
	}
	out := make([]wire.UpgradeRequest, 0, len(rs))
	for _, req := range rs {
		out = append(out, wire.FromUpgradeRequest(req))
	}
	writeJSON(w, http.StatusOK, out)
}

func (s *Server) ApproveUpgradeRequest(w http.ResponseWriter, r *http.Request) {
	if err := s.Accounts.ApproveUpgrade(r.Context(), caller(r), domain.UpgradeRequestID(chi.URLParam(r, "id"))); err != nil {
		s.writeServiceError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, wire.Acknowledgement{Message: "Request approved"})
}

func (s *Server) RejectUpgradeRequest(w http.ResponseWriter, r *http.Request) {
	if err := s.Accounts.RejectUpgrade(r.Context(), caller(r), domain.UpgradeRequestID(chi.URLParam(r, "id"))); err != nil {
		s.writeServiceError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, wire.Acknowledgement{Message: "Request rejected"})
}
