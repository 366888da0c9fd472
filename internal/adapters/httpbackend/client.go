// Package httpbackend implements the backend port over the CrowdSpark REST API.
//
// The session credential is an HttpOnly cookie set by the backend; it lives in the client's
// cookie jar and is never read by callers.
package httpbackend

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"mime/multipart"
	"net/http"
	"net/http/cookiejar"
	"net/textproto"
	"net/url"
	"strings"

	"github.com/go-logr/logr"
	"github.com/oapi-codegen/runtime"
	"golang.org/x/net/publicsuffix"

	"github.com/kunall-01/crowdspark-frontend/internal/adapters/wire"
	"github.com/kunall-01/crowdspark-frontend/internal/domain"
	"github.com/kunall-01/crowdspark-frontend/internal/ports/out/backend"
)

// maxErrorBody bounds how much of a failed response is read for its message.
const maxErrorBody = 64 << 10

type Options struct {
	// HTTPClient is copied; a cookie jar is installed when it has none.
	HTTPClient *http.Client
	Log        logr.Logger
}

// Client is safe for concurrent use.
type Client struct {
	base *url.URL
	hc   *http.Client
	log  logr.Logger
}

var _ backend.Backend = (*Client)(nil)

func New(baseURL string, opts Options) (*Client, error) {
	u, err := url.Parse(strings.TrimRight(strings.TrimSpace(baseURL), "/"))
	if err != nil {
		return nil, fmt.Errorf("backend url: %w", err)
	}
	if (u.Scheme != "http" && u.Scheme != "https") || u.Host == "" {
		return nil, fmt.Errorf("backend url %q: want an absolute http(s) url", baseURL)
	}

	hc := &http.Client{}
	if opts.HTTPClient != nil {
		cp := *opts.HTTPClient
		hc = &cp
	}
	if hc.Jar == nil {
		jar, err := cookiejar.New(&cookiejar.Options{PublicSuffixList: publicsuffix.List})
		if err != nil {
			return nil, fmt.Errorf("cookie jar: %w", err)
		}
		hc.Jar = jar
	}
	log := opts.Log
	if log.GetSink() == nil {
		log = logr.Discard()
	}
	return &Client{base: u, hc: hc, log: log}, nil
}

// BaseURL is the backend origin every endpoint is derived from.
func (c *Client) BaseURL() *url.URL {
	cp := *c.base
	return &cp
}

// Cookies returns the credential cookies the jar would send to the backend.
func (c *Client) Cookies() []*http.Cookie {
	return c.hc.Jar.Cookies(c.base)
}

func (c *Client) endpoint(segments ...string) string {
	return c.base.String() + "/" + strings.Join(segments, "/")
}

// pathParam styles a path parameter the way the route templates expect.
func pathParam(name, value string) (string, error) {
	p, err := runtime.StyleParamWithLocation("simple", false, name, runtime.ParamLocationPath, value)
	if err != nil {
		return "", fmt.Errorf("path parameter %s: %w", name, err)
	}
	return p, nil
}

func (c *Client) do(ctx context.Context, method, target string, in, out any) error {
	var body io.Reader
	if in != nil {
		b, err := json.Marshal(in)
		if err != nil {
			return fmt.Errorf("encode %s %s: %w", method, target, err)
		}
		body = bytes.NewReader(b)
	}
	req, err := http.NewRequestWithContext(ctx, method, target, body)
	if err != nil {
		return err
	}
	req.Header.Set("Accept", "application/json")
	if in != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	return c.send(req, out)
}

func (c *Client) send(req *http.Request, out any) error {
	resp, err := c.hc.Do(req)
	if err != nil {
		return fmt.Errorf("%s %s: %w", req.Method, req.URL.Path, err)
	}
	defer resp.Body.Close()
	c.log.V(1).Info("backend request", "method", req.Method, "path", req.URL.Path, "status", resp.StatusCode)

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return responseError(resp)
	}
	if out == nil {
		_, _ = io.Copy(io.Discard, resp.Body)
		return nil
	}
	if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
		return fmt.Errorf("decode %s %s: %w", req.Method, req.URL.Path, err)
	}
	return nil
}

func responseError(resp *http.Response) error {
	re := &backend.ResponseError{Status: resp.StatusCode}
	raw, err := io.ReadAll(io.LimitReader(resp.Body, maxErrorBody))
	if err != nil {
		return re
	}
	var eb wire.ErrorBody
	if json.Unmarshal(raw, &eb) == nil {
		re.Message = eb.Message
	}
	return re
}

func (c *Client) Me(ctx context.Context) (domain.User, error) {
	var u wire.User
	if err := c.do(ctx, http.MethodGet, c.endpoint("me"), nil, &u); err != nil {
		return domain.User{}, err
	}
	return u.ToUser()
}

func (c *Client) Login(ctx context.Context, cr backend.Credentials) error {
	return c.do(ctx, http.MethodPost, c.endpoint("login"), wire.Credentials{Email: cr.Email, Password: cr.Password}, nil)
}

func (c *Client) Register(ctx context.Context, r backend.Registration) error {
	return c.do(ctx, http.MethodPost, c.endpoint("register"), wire.Registration{
		Username: r.Username,
		Email:    r.Email,
		Password: r.Password,
		Role:     string(r.Role),
	}, nil)
}

func (c *Client) Logout(ctx context.Context) error {
	return c.do(ctx, http.MethodPost, c.endpoint("logout"), nil, nil)
}

func (c *Client) listCampaigns(ctx context.Context, segments ...string) ([]domain.Campaign, error) {
	var cs []wire.Campaign
	if err := c.do(ctx, http.MethodGet, c.endpoint(segments...), nil, &cs); err != nil {
		return nil, err
	}
	return wire.ToCampaigns(cs), nil
}

func (c *Client) ListCampaigns(ctx context.Context) ([]domain.Campaign, error) {
	return c.listCampaigns(ctx, "campaigns")
}

func (c *Client) GetCampaign(ctx context.Context, id domain.CampaignID) (domain.Campaign, error) {
	p, err := pathParam("id", string(id))
	if err != nil {
		return domain.Campaign{}, err
	}
	var out wire.Campaign
	if err := c.do(ctx, http.MethodGet, c.endpoint("campaigns", p), nil, &out); err != nil {
		return domain.Campaign{}, err
	}
	return out.ToCampaign(), nil
}

func (c *Client) CreateCampaign(ctx context.Context, in backend.NewCampaign) (domain.Campaign, error) {
	var out wire.Campaign
	err := c.do(ctx, http.MethodPost, c.endpoint("campaigns"), wire.NewCampaign{
		Title:       in.Title,
		Description: in.Description,
		GoalAmount:  wire.Amount(in.GoalAmount),
		Deadline:    in.Deadline,
		Category:    string(in.Category),
		Image:       in.Image,
	}, &out)
	if err != nil {
		return domain.Campaign{}, err
	}
	return out.ToCampaign(), nil
}

// Upload posts img as the multipart field "image" and returns the hosted URL.
func (c *Client) Upload(ctx context.Context, img backend.Image) (string, error) {
	if img.Body == nil {
		return "", errors.New("upload: empty image")
	}
	var buf bytes.Buffer
	mw := multipart.NewWriter(&buf)
	h := make(textproto.MIMEHeader)
	h.Set("Content-Disposition", fmt.Sprintf(`form-data; name="image"; filename=%q`, img.Filename))
	ct := img.ContentType
	if ct == "" {
		ct = "application/octet-stream"
	}
	h.Set("Content-Type", ct)
	part, err := mw.CreatePart(h)
	if err != nil {
		return "", err
	}
	if _, err := io.Copy(part, img.Body); err != nil {
		return "", fmt.Errorf("upload: read image: %w", err)
	}
	if err := mw.Close(); err != nil {
		return "", err
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.endpoint("upload"), &buf)
	if err != nil {
		return "", err
	}
	req.Header.Set("Accept", "application/json")
	req.Header.Set("Content-Type", mw.FormDataContentType())
	var out wire.UploadResult
	if err := c.send(req, &out); err != nil {
		return "", err
	}
	return out.ImageURL, nil
}

func (c *Client) MyCampaigns(ctx context.Context) ([]domain.Campaign, error) {
	return c.listCampaigns(ctx, "my-campaigns")
}

func (c *Client) MyContributions(ctx context.Context) ([]domain.Contribution, error) {
	var cs []wire.Contribution
	if err := c.do(ctx, http.MethodGet, c.endpoint("my-contributions"), nil, &cs); err != nil {
		return nil, err
	}
	out := make([]domain.Contribution, 0, len(cs))
	for _, wc := range cs {
		out = append(out, wc.ToContribution())
	}
	return out, nil
}

func (c *Client) RequestCampaignOwner(ctx context.Context) error {
	return c.do(ctx, http.MethodPost, c.endpoint("request-campaign-owner"), nil, nil)
}

func (c *Client) CheckUpgradeRequest(ctx context.Context) (bool, error) {
	var st wire.UpgradeStatus
	if err := c.do(ctx, http.MethodGet, c.endpoint("check-upgrade-request"), nil, &st); err != nil {
		return false, err
	}
	return st.Requested, nil
}

func (c *Client) InvoiceURL(id domain.ContributionID) string {
	p, err := pathParam("id", string(id))
	if err != nil {
		p = url.PathEscape(string(id))
	}
	return c.endpoint("invoice", p)
}

func (c *Client) CreateOrder(ctx context.Context, amount float64) (domain.Order, error) {
	var o wire.Order
	if err := c.do(ctx, http.MethodPost, c.endpoint("create-order"), wire.CreateOrderRequest{Amount: wire.Amount(amount)}, &o); err != nil {
		return domain.Order{}, err
	}
	return o.ToOrder(), nil
}

func (c *Client) RecordTransaction(ctx context.Context, tx backend.Transaction) error {
	return c.do(ctx, http.MethodPost, c.endpoint("transactions"), wire.Transaction{
		CampaignID: string(tx.CampaignID),
		Amount:     wire.Amount(tx.Amount),
		Message:    wire.OptionalString(tx.Message),
		PaymentID:  tx.Confirmation.PaymentID,
		OrderID:    string(tx.Confirmation.OrderID),
		Signature:  tx.Confirmation.Signature,
	}, nil)
}

func (c *Client) AdminCampaigns(ctx context.Context) ([]domain.Campaign, error) {
	return c.listCampaigns(ctx, "admin", "campaigns")
}

func (c *Client) AdminUsers(ctx context.Context) ([]domain.User, error) {
	var us []wire.User
	if err := c.do(ctx, http.MethodGet, c.endpoint("admin", "users"), nil, &us); err != nil {
		return nil, err
	}
	out := make([]domain.User, 0, len(us))
	for _, wu := range us {
		u, err := wu.ToUser()
		if err != nil {
			c.log.Info("skipping user with unknown role", "id", wu.ID, "role", wu.Role)
			continue
		}
		out = append(out, u)
	}
	return out, nil
}

func (c *Client) DeleteUser(ctx context.Context, id domain.UserID) error {
	return c.deleteByID(ctx, string(id), "admin", "users")
}

func (c *Client) DeleteCampaign(ctx context.Context, id domain.CampaignID) error {
	return c.deleteByID(ctx, string(id), "admin", "campaigns")
}

func (c *Client) deleteByID(ctx context.Context, id string, segments ...string) error {
	p, err := pathParam("id", id)
	if err != nil {
		return err
	}
	return c.do(ctx, http.MethodDelete, c.endpoint(append(segments, p)...), nil, nil)
}

func (c *Client) UpgradeRequests(ctx context.Context) ([]domain.UpgradeRequest, error) {
	var rs []wire.UpgradeRequest
	if err := c.do(ctx, http.MethodGet, c.endpoint("admin", "upgrade-requests"), nil, &rs); err != nil {
		return nil, err
	}
	out := make([]domain.UpgradeRequest, 0, len(rs))
	for _, r := range rs {
		out = append(out, r.ToUpgradeRequest())
	}
	return out, nil
}

func (c *Client) ApproveUpgradeRequest(ctx context.Context, id domain.UpgradeRequestID) error {
	p, err := pathParam("id", string(id))
	if err != nil {
		return err
	}
	return c.do(ctx, http.MethodPost, c.endpoint("admin", "upgrade-requests", p, "approve"), nil, nil)
}

func (c *Client) RejectUpgradeRequest(ctx context.Context, id domain.UpgradeRequestID) error {
	return c.deleteByID(ctx, string(id), "admin", "upgrade-requests")
}
