// Package rest implements the backend gateway against a hosted
// backend-as-a-service speaking Supabase wire conventions: an apikey
// header on every call, /auth/v1 endpoints for identity, and PostgREST
// style /rest/v1 row endpoints with eq. filters and order clauses.
package rest

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"sync"
	"time"

	dogDomain "dogreg/internal/domain/dog"
	profileDomain "dogreg/internal/domain/profile"
	"dogreg/internal/ports/gateway"
)

const defaultTimeout = 10 * time.Second

var errNotConfigured = errors.New("gateway client not configured")

// Config for the hosted backend client. BaseURL and APIKey normally
// come from env vars in the service that instantiates it.
type Config struct {
	BaseURL string
	APIKey  string
	Timeout time.Duration
}

// Client talks to the hosted backend.
type Client struct {
	baseURL    string
	apiKey     string
	httpClient *http.Client

	mu          sync.Mutex
	subscribers []gateway.AuthChangeFunc
}

// NewClient creates a client from config, applying a default timeout.
func NewClient(cfg Config) *Client {
	timeout := cfg.Timeout
	if timeout <= 0 {
		timeout = defaultTimeout
	}
	return &Client{
		baseURL:    strings.TrimRight(strings.TrimSpace(cfg.BaseURL), "/"),
		apiKey:     strings.TrimSpace(cfg.APIKey),
		httpClient: &http.Client{Timeout: timeout},
	}
}

// Compile-time check that *Client satisfies the port.
var _ gateway.Gateway = (*Client)(nil)

// IsConfigured reports whether the client has a base URL and API key.
func (c *Client) IsConfigured() bool {
	return c != nil && c.baseURL != "" && c.apiKey != ""
}

// apiError is the error body shape the backend returns.
type apiError struct {
	Message          string `json:"message"`
	Msg              string `json:"msg"`
	ErrorDescription string `json:"error_description"`
}

func (e *apiError) text() string {
	for _, s := range []string{e.Message, e.Msg, e.ErrorDescription} {
		if s != "" {
			return s
		}
	}
	return ""
}

// statusError carries the HTTP status alongside the backend's message
// text, so callers can tell an auth rejection from a backend fault.
type statusError struct {
	status  int
	message string
}

func (e *statusError) Error() string {
	if e.message != "" {
		return e.message
	}
	return fmt.Sprintf("gateway error: status=%d", e.status)
}

// doJSON performs a JSON request. A non-empty token is sent as a
// bearer credential; the apikey header is always set. Non-2xx
// responses are returned as errors carrying the backend's message
// text so form controllers can surface it verbatim.
func (c *Client) doJSON(ctx context.Context, method, path, token string, in, out any) error {
	if !c.IsConfigured() {
		return errNotConfigured
	}
	var body io.Reader
	if in != nil {
		b, err := json.Marshal(in)
		if err != nil {
			return fmt.Errorf("marshal request: %w", err)
		}
		body = bytes.NewReader(b)
	}
	req, err := http.NewRequestWithContext(ctx, method, c.baseURL+path, body)
	if err != nil {
		return fmt.Errorf("new request: %w", err)
	}
	req.Header.Set("Accept", "application/json")
	req.Header.Set("apikey", c.apiKey)
	if in != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	if token == "" {
		token = c.apiKey
	}
	req.Header.Set("Authorization", "Bearer "+token)

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return fmt.Errorf("gateway request: %w", err)
	}
	defer resp.Body.Close()

	raw, _ := io.ReadAll(io.LimitReader(resp.Body, 1<<20))

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		var apiErr apiError
		_ = json.Unmarshal(raw, &apiErr)
		return &statusError{status: resp.StatusCode, message: apiErr.text()}
	}
	if out == nil || len(raw) == 0 {
		return nil
	}
	if err := json.Unmarshal(raw, out); err != nil {
		return fmt.Errorf("decode response: %w", err)
	}
	return nil
}

// userBody is the /auth/v1/user response.
type userBody struct {
	ID    string `json:"id"`
	Email string `json:"email"`
}

// GetSession resolves a token to a live session via /auth/v1/user.
// An unauthorized response means signed out, not an error.
func (c *Client) GetSession(ctx context.Context, token string) (*gateway.Session, error) {
	if token == "" {
		return nil, nil
	}
	if !c.IsConfigured() {
		return nil, errNotConfigured
	}
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.baseURL+"/auth/v1/user", nil)
	if err != nil {
		return nil, err
	}
	req.Header.Set("apikey", c.apiKey)
	req.Header.Set("Authorization", "Bearer "+token)
	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("gateway request: %w", err)
	}
	defer resp.Body.Close()
	if resp.StatusCode == http.StatusUnauthorized || resp.StatusCode == http.StatusForbidden {
		return nil, nil
	}
	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("gateway error: status=%d", resp.StatusCode)
	}
	var u userBody
	if err := json.NewDecoder(resp.Body).Decode(&u); err != nil {
		return nil, fmt.Errorf("decode response: %w", err)
	}
	return &gateway.Session{AccessToken: token, UserID: u.ID, Email: u.Email}, nil
}

// SubscribeAuthChanges registers a callback. The hosted backend has no
// push channel here, so the client notifies from its own sign-in and
// sign-out calls.
func (c *Client) SubscribeAuthChanges(fn gateway.AuthChangeFunc) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.subscribers = append(c.subscribers, fn)
}

func (c *Client) notifyAuthChange(s *gateway.Session) {
	c.mu.Lock()
	subs := make([]gateway.AuthChangeFunc, len(c.subscribers))
	copy(subs, c.subscribers)
	c.mu.Unlock()
	for _, fn := range subs {
		fn(s)
	}
}

// SignUp creates an account. The username and display name travel as
// user metadata; the backend's trigger creates the profile row.
func (c *Client) SignUp(ctx context.Context, in gateway.SignUpInput) error {
	body := map[string]any{
		"email":    in.Email,
		"password": in.Password,
		"data": map[string]string{
			"username":     in.Username,
			"display_name": in.DisplayName,
		},
	}
	return c.doJSON(ctx, http.MethodPost, "/auth/v1/signup", "", body, nil)
}

// tokenBody is the password-grant response.
type tokenBody struct {
	AccessToken string   `json:"access_token"`
	ExpiresIn   int      `json:"expires_in"`
	User        userBody `json:"user"`
}

// SignInWithPassword exchanges credentials for a session. Only a
// credential rejection maps to ErrInvalidCredentials; transport and
// backend faults propagate so they are never shown as a bad password.
func (c *Client) SignInWithPassword(ctx context.Context, email, password string) (gateway.Session, error) {
	body := map[string]string{"email": email, "password": password}
	var out tokenBody
	err := c.doJSON(ctx, http.MethodPost, "/auth/v1/token?grant_type=password", "", body, &out)
	var se *statusError
	if errors.As(err, &se) && (se.status == http.StatusBadRequest || se.status == http.StatusUnauthorized) {
		return gateway.Session{}, gateway.ErrInvalidCredentials
	}
	if err != nil {
		return gateway.Session{}, err
	}
	sess := gateway.Session{
		AccessToken: out.AccessToken,
		UserID:      out.User.ID,
		Email:       out.User.Email,
		ExpiresAt:   time.Now().Add(time.Duration(out.ExpiresIn) * time.Second),
	}
	c.notifyAuthChange(&sess)
	return sess, nil
}

// SignOut revokes the token. Subscribers are notified even when the
// revoke call fails; the local auth state is gone either way.
func (c *Client) SignOut(ctx context.Context, token string) error {
	err := c.doJSON(ctx, http.MethodPost, "/auth/v1/logout", token, nil, nil)
	c.notifyAuthChange(nil)
	return err
}

// profileRow is the profiles table row shape.
type profileRow struct {
	ID          string `json:"id"`
	Username    string `json:"username"`
	Email       string `json:"email"`
	DisplayName string `json:"display_name"`
	Role        string `json:"role"`
}

func (r profileRow) toDomain() profileDomain.Profile {
	return profileDomain.Profile{
		ID:          r.ID,
		Username:    r.Username,
		Email:       r.Email,
		DisplayName: r.DisplayName,
		Role:        r.Role,
	}
}

// eqFilter builds a single-filter query string. The value is URL
// escaped, so user-supplied text stays a literal match and cannot
// smuggle extra filter parameters into the request.
func eqFilter(column, value string) string {
	q := url.Values{}
	q.Set("select", "*")
	q.Set(column, "eq."+value)
	return q.Encode()
}

// FindProfileByUsername resolves a username to its profile row.
// POST: Returns ErrNotFound when no row matches
func (c *Client) FindProfileByUsername(ctx context.Context, username string) (profileDomain.Profile, error) {
	path := "/rest/v1/profiles?" + eqFilter("username", username)
	var rows []profileRow
	if err := c.doJSON(ctx, http.MethodGet, path, "", nil, &rows); err != nil {
		return profileDomain.Profile{}, err
	}
	if len(rows) == 0 {
		return profileDomain.Profile{}, gateway.ErrNotFound
	}
	return rows[0].toDomain(), nil
}

// CurrentProfile fetches the profile row keyed by the session identity.
// POST: Returns ErrNotFound for a signed-out token or missing row
func (c *Client) CurrentProfile(ctx context.Context, token string) (profileDomain.Profile, error) {
	sess, err := c.GetSession(ctx, token)
	if err != nil {
		return profileDomain.Profile{}, err
	}
	if sess == nil {
		return profileDomain.Profile{}, gateway.ErrNotFound
	}
	path := "/rest/v1/profiles?" + eqFilter("id", sess.UserID)
	var rows []profileRow
	if err := c.doJSON(ctx, http.MethodGet, path, token, nil, &rows); err != nil {
		return profileDomain.Profile{}, err
	}
	if len(rows) == 0 {
		return profileDomain.Profile{}, gateway.ErrNotFound
	}
	return rows[0].toDomain(), nil
}

// recordRow is the dogs table row shape. Optional fields use omitempty
// so empty optionals stay absent on insert.
type recordRow struct {
	ID              string `json:"id,omitempty"`
	Name            string `json:"name"`
	Sex             string `json:"sex"`
	DateOfBirth     string `json:"date_of_birth,omitempty"`
	Color           string `json:"color,omitempty"`
	MicrochipNumber string `json:"microchip_number,omitempty"`
	PedigreeNumber  string `json:"pedigree_number,omitempty"`
	Notes           string `json:"notes,omitempty"`
	Status          string `json:"status,omitempty"`
	OwnerID         string `json:"owner_id,omitempty"`
	OwnerName       string `json:"owner_name,omitempty"`
	CreatedAt       string `json:"created_at,omitempty"`
}

func (r recordRow) toDomain() dogDomain.Record {
	created, _ := time.Parse(time.RFC3339, r.CreatedAt)
	return dogDomain.Record{
		ID:              r.ID,
		Name:            r.Name,
		Sex:             r.Sex,
		DateOfBirth:     r.DateOfBirth,
		Color:           r.Color,
		MicrochipNumber: r.MicrochipNumber,
		PedigreeNumber:  r.PedigreeNumber,
		Notes:           r.Notes,
		Status:          r.Status,
		OwnerID:         r.OwnerID,
		OwnerName:       r.OwnerName,
		CreatedAt:       created,
	}
}

func toDomainRecords(rows []recordRow) []dogDomain.Record {
	out := make([]dogDomain.Record, 0, len(rows))
	for _, r := range rows {
		out = append(out, r.toDomain())
	}
	return out
}

// ListApprovedRecords reads the owner-joined view, newest first.
func (c *Client) ListApprovedRecords(ctx context.Context) ([]dogDomain.Record, error) {
	path := "/rest/v1/dogs_with_owner?select=*&status=eq.approved&order=created_at.desc"
	var rows []recordRow
	if err := c.doJSON(ctx, http.MethodGet, path, "", nil, &rows); err != nil {
		return nil, err
	}
	return toDomainRecords(rows), nil
}

// ListPendingRecords reads the moderation queue, oldest first. The
// backend's row policy hides pending rows from non-admin tokens.
func (c *Client) ListPendingRecords(ctx context.Context, token string) ([]dogDomain.Record, error) {
	path := "/rest/v1/dogs?select=*&status=eq.pending&order=created_at.asc"
	var rows []recordRow
	if err := c.doJSON(ctx, http.MethodGet, path, token, nil, &rows); err != nil {
		return nil, err
	}
	return toDomainRecords(rows), nil
}

// InsertRecord inserts a row. Status is pinned to pending here and
// enforced again server-side.
func (c *Client) InsertRecord(ctx context.Context, token string, rec gateway.NewRecord) error {
	row := recordRow{
		Name:            rec.Name,
		Sex:             rec.Sex,
		DateOfBirth:     rec.DateOfBirth,
		Color:           rec.Color,
		MicrochipNumber: rec.MicrochipNumber,
		PedigreeNumber:  rec.PedigreeNumber,
		Notes:           rec.Notes,
		Status:          dogDomain.StatusPending,
	}
	return c.doJSON(ctx, http.MethodPost, "/rest/v1/dogs", token, row, nil)
}

// UpdateRecordStatus patches the status of a single row.
func (c *Client) UpdateRecordStatus(ctx context.Context, token, id, status string) error {
	q := url.Values{}
	q.Set("id", "eq."+id)
	path := "/rest/v1/dogs?" + q.Encode()
	return c.doJSON(ctx, http.MethodPatch, path, token, map[string]string{"status": status}, nil)
}
