package hub

import (
	"bytes"
	"context"
	"crypto/tls"
	"encoding/json"
	"net/http"
	"net/url"
	"time"

	"wirechat/internal/domain"
)

const (
	// callTimeout bounds single-object calls (auth, key lookup).
	callTimeout = 5 * time.Second
	// bulkTimeout bounds list-shaped responses (descriptions, presence).
	bulkTimeout = 10 * time.Second
)

// Client talks to the hub's HTTP collaborator endpoints. All paths are
// relative to Base.
type Client struct {
	Base string
	HTTP *http.Client

	// Insecure adds the development-only "Insecure: true" header to every
	// request and skips TLS verification. Production clients must leave it
	// false.
	Insecure bool
}

// New returns a client for the hub at base. If httpClient is nil a default
// client is used; per-call deadlines are applied via context either way.
func New(base string, httpClient *http.Client) *Client {
	if httpClient == nil {
		httpClient = &http.Client{}
	}
	return &Client{Base: base, HTTP: httpClient}
}

// NewInsecure returns a client that bypasses TLS verification and tags every
// request with the Insecure header. Development use only.
func NewInsecure(base string) *Client {
	return &Client{
		Base: base,
		HTTP: &http.Client{
			Transport: &http.Transport{
				TLSClientConfig: &tls.Config{InsecureSkipVerify: true},
			},
		},
		Insecure: true,
	}
}

// Descriptions fetches the profile description lines for userID.
func (c *Client) Descriptions(ctx context.Context, userID string) ([]string, error) {
	var out []string
	if err := c.getJSON(ctx, bulkTimeout, "/user/descriptions/"+url.PathEscape(userID), &out); err != nil {
		return nil, err
	}
	return out, nil
}

// SetDescriptions replaces the local user's description lines. An empty list
// is rejected locally without a network call.
func (c *Client) SetDescriptions(ctx context.Context, descriptions []string) error {
	if len(descriptions) == 0 {
		return domain.NewValidationError("description list must not be empty")
	}
	return c.post(ctx, bulkTimeout, "/user/descriptions", descriptions, nil)
}

// Presence lists online and offline users. The hub's legacy field names
// (active_users/inactive_users) are accepted as a fallback. Errors are
// swallowed: on any failure both lists are empty.
func (c *Client) Presence(ctx context.Context) domain.Presence {
	var raw struct {
		Online   []string `json:"online"`
		Offline  []string `json:"offline"`
		Active   []string `json:"active_users"`
		Inactive []string `json:"inactive_users"`
	}
	if err := c.getJSON(ctx, bulkTimeout, "/active-users", &raw); err != nil {
		return domain.Presence{Online: []string{}, Offline: []string{}}
	}
	p := domain.Presence{Online: raw.Online, Offline: raw.Offline}
	if p.Online == nil {
		p.Online = raw.Active
	}
	if p.Offline == nil {
		p.Offline = raw.Inactive
	}
	if p.Online == nil {
		p.Online = []string{}
	}
	if p.Offline == nil {
		p.Offline = []string{}
	}
	return p
}

func (c *Client) post(ctx context.Context, timeout time.Duration, path string, in, out any) error {
	ctx, cancel := context.WithTimeout(ctx, timeout)
	defer cancel()

	buf := new(bytes.Buffer)
	if err := json.NewEncoder(buf).Encode(in); err != nil {
		return err
	}
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.Base+path, buf)
	if err != nil {
		return err
	}
	req.Header.Set("Content-Type", "application/json")
	c.mark(req)
	resp, err := c.HTTP.Do(req)
	if err != nil {
		return domain.NewNetworkError("hub post %s: %w", path, err)
	}
	defer resp.Body.Close()
	if resp.StatusCode/100 != 2 {
		return domain.NewNetworkError("hub post %s: %s", path, resp.Status)
	}
	if out != nil {
		return json.NewDecoder(resp.Body).Decode(out)
	}
	return nil
}

func (c *Client) getJSON(ctx context.Context, timeout time.Duration, path string, out any) error {
	ctx, cancel := context.WithTimeout(ctx, timeout)
	defer cancel()

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.Base+path, nil)
	if err != nil {
		return err
	}
	c.mark(req)
	resp, err := c.HTTP.Do(req)
	if err != nil {
		return domain.NewNetworkError("hub get %s: %w", path, err)
	}
	defer resp.Body.Close()
	if resp.StatusCode/100 != 2 {
		return domain.NewNetworkError("hub get %s: %s", path, resp.Status)
	}
	return json.NewDecoder(resp.Body).Decode(out)
}

func (c *Client) mark(req *http.Request) {
	if c.Insecure {
		req.Header.Set("Insecure", "true")
	}
}
