package app

import (
	"errors"
	"io/fs"
	"net/http"
	"os"
	"path/filepath"

	"github.com/rs/zerolog"
	"gopkg.in/yaml.v3"
)

const configFile = "config.yaml"

// Config holds runtime wiring options for building the app.
type Config struct {
	Home     string // config directory, e.g. $HOME/.wirechat
	HubURL   string // hub base URL, e.g. https://hub.example.com
	UserID   string
	Insecure bool // development only: skip TLS verification

	HTTP   *http.Client // optional; a default client is used when nil
	Logger zerolog.Logger
}

// FileConfig is the optional on-disk configuration, read from
// <home>/config.yaml. Command-line flags override it.
type FileConfig struct {
	HubURL   string `yaml:"hub_url"`
	UserID   string `yaml:"user_id"`
	Insecure bool   `yaml:"insecure"`
}

// LoadFile reads the config file under home. A missing file is not an
// error; the zero value is returned.
func LoadFile(home string) (FileConfig, error) {
	var fc FileConfig
	raw, err := os.ReadFile(filepath.Join(home, configFile))
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return fc, nil
		}
		return fc, err
	}
	if err := yaml.Unmarshal(raw, &fc); err != nil {
		return fc, err
	}
	return fc, nil
}

// Merge fills empty Config fields from the file values.
func (c *Config) Merge(fc FileConfig) {
	if c.HubURL == "" {
		c.HubURL = fc.HubURL
	}
	if c.UserID == "" {
		c.UserID = fc.UserID
	}
	if !c.Insecure {
		c.Insecure = fc.Insecure
	}
}
