package hub_test

import (
	"context"
	"crypto/ed25519"
	"encoding/base64"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/require"

	"wirechat/internal/crypto"
	"wirechat/internal/domain"
	"wirechat/internal/hub"
)

func TestSetDescriptionsRejectsEmptyLocally(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		t.Fatal("request must not reach the hub")
	}))
	defer srv.Close()

	c := hub.New(srv.URL, nil)
	err := c.SetDescriptions(context.Background(), nil)
	var ve *domain.ValidationError
	require.ErrorAs(t, err, &ve)
}

func TestDescriptionsRoundTrip(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		switch {
		case r.Method == http.MethodGet && r.URL.Path == "/user/descriptions/alice":
			json.NewEncoder(w).Encode([]string{"line one", "line two"})
		case r.Method == http.MethodPost && r.URL.Path == "/user/descriptions":
			var in []string
			require.NoError(t, json.NewDecoder(r.Body).Decode(&in))
			require.Equal(t, []string{"hello"}, in)
			w.WriteHeader(http.StatusNoContent)
		default:
			w.WriteHeader(http.StatusNotFound)
		}
	}))
	defer srv.Close()

	c := hub.New(srv.URL, nil)
	lines, err := c.Descriptions(context.Background(), "alice")
	require.NoError(t, err)
	require.Equal(t, []string{"line one", "line two"}, lines)

	require.NoError(t, c.SetDescriptions(context.Background(), []string{"hello"}))
}

func TestPresenceModernAndLegacyShapes(t *testing.T) {
	cases := []struct {
		name string
		body string
	}{
		{"modern", `{"online":["a","b"],"offline":["c"]}`},
		{"legacy", `{"active_users":["a","b"],"inactive_users":["c"]}`},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
				require.Equal(t, "/active-users", r.URL.Path)
				w.Write([]byte(tc.body))
			}))
			defer srv.Close()

			p := hub.New(srv.URL, nil).Presence(context.Background())
			require.Equal(t, []string{"a", "b"}, p.Online)
			require.Equal(t, []string{"c"}, p.Offline)
		})
	}
}

func TestPresenceErrorsYieldEmptyLists(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusInternalServerError)
	}))
	defer srv.Close()

	p := hub.New(srv.URL, nil).Presence(context.Background())
	require.Empty(t, p.Online)
	require.Empty(t, p.Offline)
	require.NotNil(t, p.Online)
	require.NotNil(t, p.Offline)
}

func TestPublicKeyLookup(t *testing.T) {
	id, err := crypto.NewIdentity("bob")
	require.NoError(t, err)

	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		switch r.URL.Path {
		case "/auth/users/bob":
			json.NewEncoder(w).Encode(map[string]string{"public_key": crypto.B64(id.Pub.Slice())})
		case "/auth/users/short":
			json.NewEncoder(w).Encode(map[string]string{"public_key": crypto.B64([]byte("too short"))})
		default:
			w.WriteHeader(http.StatusNotFound)
		}
	}))
	defer srv.Close()

	c := hub.New(srv.URL, nil)

	pub, err := c.PublicKey(context.Background(), "bob")
	require.NoError(t, err)
	require.Equal(t, id.Pub, pub)

	var de *domain.DirectoryError
	_, err = c.PublicKey(context.Background(), "short")
	require.ErrorAs(t, err, &de)

	_, err = c.PublicKey(context.Background(), "missing")
	require.ErrorAs(t, err, &de)
}

func TestInsecureHeaderSet(t *testing.T) {
	seen := false
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		seen = r.Header.Get("Insecure") == "true"
		json.NewEncoder(w).Encode([]string{})
	}))
	defer srv.Close()

	c := hub.New(srv.URL, nil)
	c.Insecure = true
	_, err := c.Descriptions(context.Background(), "alice")
	require.NoError(t, err)
	require.True(t, seen, "Insecure header missing")
}

// fakeAuthHub implements the register/login endpoints, verifying the
// signature over the UTF-8 bytes of the literal base64 challenge string.
func fakeAuthHub(t *testing.T, pub ed25519.PublicKey, challenge string) *httptest.Server {
	return httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		switch {
		case r.URL.Path == "/auth/register":
			var in struct {
				UserID    string `json:"user_id"`
				Username  string `json:"username"`
				PublicKey string `json:"public_key"`
			}
			require.NoError(t, json.NewDecoder(r.Body).Decode(&in))
			if in.UserID == "" || in.Username == "" || in.PublicKey == "" {
				w.WriteHeader(http.StatusBadRequest)
				return
			}
			if in.UserID == "taken" {
				w.WriteHeader(http.StatusConflict)
				return
			}
			w.WriteHeader(http.StatusCreated)
		case r.URL.Path == "/auth/login" && r.URL.Query().Get("verify") == "true":
			var in struct {
				UserID    string `json:"user_id"`
				Signature string `json:"signature"`
			}
			require.NoError(t, json.NewDecoder(r.Body).Decode(&in))
			sig, err := base64.StdEncoding.DecodeString(in.Signature)
			require.NoError(t, err)
			if !ed25519.Verify(pub, []byte(challenge), sig) {
				w.WriteHeader(http.StatusUnauthorized)
				return
			}
			json.NewEncoder(w).Encode(map[string]string{"token": "bearer-token-123"})
		case r.URL.Path == "/auth/login":
			json.NewEncoder(w).Encode(map[string]string{"challenge": challenge})
		default:
			w.WriteHeader(http.StatusNotFound)
		}
	}))
}

func TestRegister(t *testing.T) {
	id, err := crypto.NewIdentity("alice")
	require.NoError(t, err)
	srv := fakeAuthHub(t, ed25519.PublicKey(id.Pub.Slice()), "unused")
	defer srv.Close()

	c := hub.New(srv.URL, nil)
	require.NoError(t, c.Register(context.Background(), id, "Alice"))

	taken := id
	taken.UserID = "taken"
	err = c.Register(context.Background(), taken, "Alice")
	var ae *domain.AuthError
	require.ErrorAs(t, err, &ae)
}

func TestLoginSignsLiteralChallengeString(t *testing.T) {
	id, err := crypto.NewIdentity("alice")
	require.NoError(t, err)
	// The challenge is delivered base64-encoded; the client signs that exact
	// string, not its decoded bytes.
	challenge := base64.StdEncoding.EncodeToString([]byte("random-challenge-bytes"))
	srv := fakeAuthHub(t, ed25519.PublicKey(id.Pub.Slice()), challenge)
	defer srv.Close()

	token, err := hub.New(srv.URL, nil).Login(context.Background(), id)
	require.NoError(t, err)
	require.Equal(t, "bearer-token-123", token)
}

func TestLoginRejectsMissingFields(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		// Challenge response with no challenge field.
		w.Write([]byte(`{}`))
	}))
	defer srv.Close()

	id, err := crypto.NewIdentity("alice")
	require.NoError(t, err)
	_, err = hub.New(srv.URL, nil).Login(context.Background(), id)
	var ae *domain.AuthError
	require.ErrorAs(t, err, &ae)
}
