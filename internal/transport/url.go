package transport

import (
	"net/url"

	"wirechat/internal/domain"
)

// SocketURL builds the websocket endpoint from the hub base URL and bearer
// token, mapping http to ws and https to wss.
func SocketURL(base, token string) (string, error) {
	u, err := url.Parse(base)
	if err != nil {
		return "", domain.NewValidationError("parse hub url: %w", err)
	}
	switch u.Scheme {
	case "http", "ws":
		u.Scheme = "ws"
	case "https", "wss":
		u.Scheme = "wss"
	default:
		return "", domain.NewValidationError("hub url has unsupported scheme %q", u.Scheme)
	}
	u.Path = "/ws"
	q := url.Values{}
	q.Set("token", token)
	u.RawQuery = q.Encode()
	return u.String(), nil
}
