package hub

import (
	"bytes"
	"context"
	"encoding/json"
	"io"
	"net/http"
	"net/url"

	"wirechat/internal/crypto"
	"wirechat/internal/domain"
)

// Register creates an account for the identity. The hub answers 201 on
// success; anything else is an AuthError.
func (c *Client) Register(ctx context.Context, id domain.Identity, username string) error {
	body := struct {
		UserID    string `json:"user_id"`
		Username  string `json:"username"`
		PublicKey string `json:"public_key"`
	}{
		UserID:    id.UserID,
		Username:  username,
		PublicKey: crypto.B64(id.Pub.Slice()),
	}
	status, _, err := c.postRaw(ctx, "/auth/register", body)
	if err != nil {
		return domain.NewAuthError("register: %w", err)
	}
	if status != http.StatusCreated {
		return domain.NewAuthError("register rejected: status %d", status)
	}
	return nil
}

// Login performs the two-phase challenge-response exchange and returns a
// bearer token.
//
// The signature is computed over the UTF-8 bytes of the literal base64
// challenge string, not the decoded challenge. The hub verifies the same
// bytes; decoding first would break wire compatibility.
func (c *Client) Login(ctx context.Context, id domain.Identity) (string, error) {
	challenge, err := c.challenge(ctx, id.UserID)
	if err != nil {
		return "", err
	}
	sig := crypto.Sign(id.Priv, []byte(challenge))
	return c.verifyLogin(ctx, id.UserID, crypto.B64(sig))
}

func (c *Client) challenge(ctx context.Context, userID string) (string, error) {
	body := struct {
		UserID string `json:"user_id"`
	}{UserID: userID}
	status, raw, err := c.postRaw(ctx, "/auth/login", body)
	if err != nil {
		return "", domain.NewAuthError("login challenge: %w", err)
	}
	if status/100 != 2 {
		return "", domain.NewAuthError("login challenge rejected: status %d", status)
	}
	var out struct {
		Challenge string `json:"challenge"`
	}
	if err := json.Unmarshal(raw, &out); err != nil {
		return "", domain.NewAuthError("login challenge: decode response: %w", err)
	}
	if out.Challenge == "" {
		return "", domain.NewAuthError("login challenge: response missing challenge")
	}
	return out.Challenge, nil
}

func (c *Client) verifyLogin(ctx context.Context, userID, signature string) (string, error) {
	body := struct {
		UserID    string `json:"user_id"`
		Signature string `json:"signature"`
	}{UserID: userID, Signature: signature}
	status, raw, err := c.postRaw(ctx, "/auth/login?verify=true", body)
	if err != nil {
		return "", domain.NewAuthError("login verify: %w", err)
	}
	if status/100 != 2 {
		return "", domain.NewAuthError("login verify rejected: status %d", status)
	}
	var out struct {
		Token string `json:"token"`
	}
	if err := json.Unmarshal(raw, &out); err != nil {
		return "", domain.NewAuthError("login verify: decode response: %w", err)
	}
	if out.Token == "" {
		return "", domain.NewAuthError("login verify: response missing token")
	}
	return out.Token, nil
}

// PublicKey fetches a peer's base64-encoded signing key and decodes it.
// Implements domain.KeyFetcher for the directory.
func (c *Client) PublicKey(ctx context.Context, userID string) (domain.Ed25519Public, error) {
	var pub domain.Ed25519Public
	var out struct {
		PublicKey string `json:"public_key"`
	}
	if err := c.getJSON(ctx, callTimeout, "/auth/users/"+url.PathEscape(userID), &out); err != nil {
		return pub, domain.NewDirectoryError("lookup %s: %w", userID, err)
	}
	raw, err := crypto.UnB64(out.PublicKey)
	if err != nil {
		return pub, domain.NewDirectoryError("lookup %s: decode key: %w", userID, err)
	}
	if len(raw) != len(pub) {
		return pub, domain.NewDirectoryError("lookup %s: key has length %d, want %d", userID, len(raw), len(pub))
	}
	copy(pub[:], raw)
	return pub, nil
}

func (c *Client) postRaw(ctx context.Context, path string, in any) (int, []byte, error) {
	ctx, cancel := context.WithTimeout(ctx, callTimeout)
	defer cancel()

	buf := new(bytes.Buffer)
	if err := json.NewEncoder(buf).Encode(in); err != nil {
		return 0, nil, err
	}
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.Base+path, buf)
	if err != nil {
		return 0, nil, err
	}
	req.Header.Set("Content-Type", "application/json")
	c.mark(req)
	resp, err := c.HTTP.Do(req)
	if err != nil {
		return 0, nil, domain.NewNetworkError("hub post %s: %w", path, err)
	}
	defer resp.Body.Close()
	raw, err := io.ReadAll(resp.Body)
	if err != nil {
		return resp.StatusCode, nil, domain.NewNetworkError("hub post %s: read response: %w", path, err)
	}
	return resp.StatusCode, raw, nil
}

var _ domain.KeyFetcher = (*Client)(nil)
