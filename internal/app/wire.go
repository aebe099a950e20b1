package app

import (
	"wirechat/internal/client"
	"wirechat/internal/domain"
	"wirechat/internal/hub"
	"wirechat/internal/store"
)

// Wire bundles the stores and clients the CLI needs.
type Wire struct {
	Config   Config
	Hub      *hub.Client
	Identity domain.IdentityStore
}

// NewWire constructs the dependency graph from cfg.
func NewWire(cfg Config) (*Wire, error) {
	fc, err := LoadFile(cfg.Home)
	if err != nil {
		return nil, err
	}
	cfg.Merge(fc)

	var hc *hub.Client
	if cfg.HubURL != "" {
		if cfg.Insecure {
			hc = hub.NewInsecure(cfg.HubURL)
		} else {
			hc = hub.New(cfg.HubURL, cfg.HTTP)
		}
	}

	return &Wire{
		Config:   cfg,
		Hub:      hc,
		Identity: store.NewIdentityStore(cfg.Home),
	}, nil
}

// Client builds the session client for a loaded identity.
func (w *Wire) Client(id domain.Identity) *client.Client {
	return client.New(client.Config{
		Identity: id,
		HubURL:   w.Config.HubURL,
		Insecure: w.Config.Insecure,
		Hub:      w.Hub,
		Logger:   w.Config.Logger,
	})
}
