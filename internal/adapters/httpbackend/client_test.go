package httpbackend

import (
	"context"
	"encoding/json"
	"errors"
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"sync"
	"testing"

	"github.com/kunall-01/crowdspark-frontend/internal/domain"
	"github.com/kunall-01/crowdspark-frontend/internal/ports/out/backend"
)

func newClient(t *testing.T, h http.Handler) (*Client, *httptest.Server) {
	t.Helper()
	srv := httptest.NewServer(h)
	t.Cleanup(srv.Close)
	c, err := New(srv.URL+"/", Options{})
	if err != nil {
		t.Fatalf("New: %v", err)
	}
	return c, srv
}

func TestNew_RejectsRelativeURL(t *testing.T) {
	t.Parallel()

	for _, raw := range []string{"", "localhost:5000", "/api", "ftp://example.com"} {
		if _, err := New(raw, Options{}); err == nil {
			t.Fatalf("New(%q) expected error", raw)
		}
	}
}

func TestClient_CookieCarriesSession(t *testing.T) {
	t.Parallel()

	mux := http.NewServeMux()
	mux.HandleFunc("POST /login", func(w http.ResponseWriter, r *http.Request) {
		var body map[string]string
		_ = json.NewDecoder(r.Body).Decode(&body)
		if body["email"] != "ana@example.com" || body["password"] != "pw123456" {
			w.WriteHeader(http.StatusUnauthorized)
			_, _ = io.WriteString(w, `{"message":"Invalid credentials"}`)
			return
		}
		http.SetCookie(w, &http.Cookie{Name: "token", Value: "t1", Path: "/", HttpOnly: true})
		_, _ = io.WriteString(w, `{"message":"ok"}`)
	})
	mux.HandleFunc("GET /me", func(w http.ResponseWriter, r *http.Request) {
		if ck, err := r.Cookie("token"); err != nil || ck.Value != "t1" {
			w.WriteHeader(http.StatusUnauthorized)
			_, _ = io.WriteString(w, `{"message":"Not authenticated"}`)
			return
		}
		_, _ = io.WriteString(w, `{"_id":"u1","username":"ana","email":"ana@example.com","role":"backer"}`)
	})
	c, _ := newClient(t, mux)
	ctx := context.Background()

	_, err := c.Me(ctx)
	if !errors.Is(err, backend.ErrUnauthenticated) {
		t.Fatalf("Me before login err=%v, want ErrUnauthenticated", err)
	}

	err = c.Login(ctx, backend.Credentials{Email: "ana@example.com", Password: "wrong"})
	var re *backend.ResponseError
	if !errors.As(err, &re) || re.Status != http.StatusUnauthorized || re.Message != "Invalid credentials" {
		t.Fatalf("Login(wrong) err=%v", err)
	}

	if err := c.Login(ctx, backend.Credentials{Email: "ana@example.com", Password: "pw123456"}); err != nil {
		t.Fatalf("Login: %v", err)
	}
	u, err := c.Me(ctx)
	if err != nil {
		t.Fatalf("Me: %v", err)
	}
	if u.ID != "u1" || u.Role != domain.RoleBacker || u.Username != "ana" {
		t.Fatalf("Me=%+v", u)
	}
	if cs := c.Cookies(); len(cs) != 1 || cs[0].Name != "token" {
		t.Fatalf("Cookies=%v", cs)
	}
}

func TestClient_NonJSONErrorKeepsStatus(t *testing.T) {
	t.Parallel()

	c, _ := newClient(t, http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		http.Error(w, "upstream down", http.StatusBadGateway)
	}))
	_, err := c.ListCampaigns(context.Background())
	var re *backend.ResponseError
	if !errors.As(err, &re) || re.Status != http.StatusBadGateway || re.Message != "" {
		t.Fatalf("err=%v", err)
	}
}

func TestClient_PathParametersAreEscaped(t *testing.T) {
	t.Parallel()

	var (
		mu  sync.Mutex
		got []string
	)
	c, _ := newClient(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		mu.Lock()
		got = append(got, r.Method+" "+r.URL.EscapedPath())
		mu.Unlock()
		if r.Method == http.MethodGet {
			_, _ = io.WriteString(w, `{"_id":"a b","title":"T","goalAmount":"100","raisedAmount":25,"owner":{"username":"ana"}}`)
			return
		}
		w.WriteHeader(http.StatusNoContent)
	}))
	ctx := context.Background()

	camp, err := c.GetCampaign(ctx, "a b")
	if err != nil {
		t.Fatalf("GetCampaign: %v", err)
	}
	if camp.GoalAmount != 100 || camp.Progress() != 25 || camp.OwnerName() != "ana" {
		t.Fatalf("GetCampaign=%+v", camp)
	}
	if err := c.ApproveUpgradeRequest(ctx, "r/1"); err != nil {
		t.Fatalf("Approve: %v", err)
	}
	if err := c.RejectUpgradeRequest(ctx, "r2"); err != nil {
		t.Fatalf("Reject: %v", err)
	}
	want := []string{
		"GET /campaigns/a%20b",
		"POST /admin/upgrade-requests/r%2F1/approve",
		"DELETE /admin/upgrade-requests/r2",
	}
	mu.Lock()
	defer mu.Unlock()
	if strings.Join(got, "|") != strings.Join(want, "|") {
		t.Fatalf("requests=%v, want %v", got, want)
	}
	if u := c.InvoiceURL("k1"); !strings.HasSuffix(u, "/invoice/k1") || strings.Contains(u, "//invoice") {
		t.Fatalf("InvoiceURL=%q", u)
	}
}

func TestClient_UploadSendsMultipartImage(t *testing.T) {
	t.Parallel()

	c, srv := newClient(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		f, hdr, err := r.FormFile("image")
		if err != nil {
			http.Error(w, `{"message":"missing image"}`, http.StatusBadRequest)
			return
		}
		defer f.Close()
		b, _ := io.ReadAll(f)
		if string(b) != "png-bytes" || hdr.Filename != "cover.png" || hdr.Header.Get("Content-Type") != "image/png" {
			http.Error(w, `{"message":"bad image"}`, http.StatusBadRequest)
			return
		}
		_, _ = io.WriteString(w, `{"imageUrl":"`+"http://"+r.Host+`/uploads/k"}`)
	}))

	u, err := c.Upload(context.Background(), backend.Image{Filename: "cover.png", ContentType: "image/png", Body: strings.NewReader("png-bytes")})
	if err != nil {
		t.Fatalf("Upload: %v", err)
	}
	if u != srv.URL+"/uploads/k" {
		t.Fatalf("Upload=%q", u)
	}
}

func TestClient_TransactionBody(t *testing.T) {
	t.Parallel()

	var (
		mu   sync.Mutex
		body map[string]any
	)
	c, _ := newClient(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		mu.Lock()
		defer mu.Unlock()
		_ = json.NewDecoder(r.Body).Decode(&body)
		w.WriteHeader(http.StatusCreated)
	}))
	msg := "go team"
	err := c.RecordTransaction(context.Background(), backend.Transaction{
		CampaignID:   "c1",
		Amount:       250,
		Message:      &msg,
		Confirmation: domain.PaymentConfirmation{PaymentID: "pay_1", OrderID: "order_1", Signature: "sig"},
	})
	if err != nil {
		t.Fatalf("RecordTransaction: %v", err)
	}
	mu.Lock()
	defer mu.Unlock()
	if body["campaignId"] != "c1" || body["amount"] != 250.0 || body["message"] != "go team" ||
		body["paymentId"] != "pay_1" || body["orderId"] != "order_1" || body["signature"] != "sig" {
		t.Fatalf("body=%v", body)
	}
}

func TestClient_CancelledContext(t *testing.T) {
	t.Parallel()

	c, _ := newClient(t, http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		_, _ = io.WriteString(w, `[]`)
	}))
	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	if _, err := c.ListCampaigns(ctx); !errors.Is(err, context.Canceled) {
		t.Fatalf("err=%v, want context.Canceled", err)
	}
}
