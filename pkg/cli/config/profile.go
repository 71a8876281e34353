package config

import (
	"errors"
	"io/fs"
	"net/url"
	"os"
	"time"

	"github.com/m-mizutani/goerr/v2"
	"github.com/pelletier/go-toml/v2"
)

// DefaultConfigPath is read when a profile is selected without --config
const DefaultConfigPath = "docdesk.toml"

// ProfileFile is the TOML file holding per-deployment remote settings
//
//	[profile.local]
//	base_url = "http://localhost:8080"
//
//	[profile.proxied]
//	origin = "https://console.example.com"
//	timeout_sec = 10
type ProfileFile struct {
	Profiles map[string]Profile `toml:"profile"`
}

// Profile selects how the remote service is reached. An empty BaseURL keeps
// request paths relative, resolved against Origin.
type Profile struct {
	BaseURL    string `toml:"base_url"`
	Origin     string `toml:"origin"`
	TimeoutSec int    `toml:"timeout_sec"`
}

// Timeout returns the request timeout, zero when unset
func (p Profile) Timeout() time.Duration {
	return time.Duration(p.TimeoutSec) * time.Second
}

// Validate checks the URLs and timeout of the profile
func (p Profile) Validate() error {
	for name, raw := range map[string]string{"base_url": p.BaseURL, "origin": p.Origin} {
		if raw == "" {
			continue
		}
		u, err := url.Parse(raw)
		if err != nil || !u.IsAbs() || u.Host == "" {
			return goerr.Wrap(ErrInvalidConfig, name+" must be an absolute URL", goerr.V(name, raw))
		}
	}
	if p.TimeoutSec < 0 {
		return goerr.Wrap(ErrInvalidConfig, "timeout_sec must not be negative", goerr.V("timeout_sec", p.TimeoutSec))
	}
	return nil
}

// LoadProfiles reads and validates a profile file
func LoadProfiles(path string) (*ProfileFile, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return nil, goerr.Wrap(ErrConfigNotFound, "profile file does not exist", goerr.V(ConfigPathKey, path))
		}
		return nil, goerr.Wrap(err, "failed to read profile file", goerr.V(ConfigPathKey, path))
	}

	var file ProfileFile
	if err := toml.Unmarshal(data, &file); err != nil {
		return nil, goerr.Wrap(ErrInvalidConfig, "failed to parse profile file",
			goerr.V(ConfigPathKey, path),
			goerr.V("error", err.Error()))
	}

	for name, p := range file.Profiles {
		if err := p.Validate(); err != nil {
			return nil, goerr.Wrap(err, "invalid profile",
				goerr.V(ConfigPathKey, path),
				goerr.V(ProfileKey, name))
		}
	}
	return &file, nil
}

// Lookup returns the named profile
func (f *ProfileFile) Lookup(name string) (Profile, error) {
	p, ok := f.Profiles[name]
	if !ok {
		return Profile{}, goerr.Wrap(ErrProfileNotFound, "unknown profile", goerr.V(ProfileKey, name))
	}
	return p, nil
}
