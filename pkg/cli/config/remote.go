package config

import (
	"context"
	"log/slog"
	"net/url"
	"time"

	"github.com/m-mizutani/goerr/v2"
	"github.com/secmon-lab/docdesk/pkg/domain/interfaces"
	"github.com/secmon-lab/docdesk/pkg/repository/memory"
	"github.com/secmon-lab/docdesk/pkg/service/remote"
	"github.com/secmon-lab/docdesk/pkg/utils/logging"
	"github.com/urfave/cli/v3"
)

// Remote holds CLI flags selecting the remote service
type Remote struct {
	backend    string
	baseURL    string
	origin     string
	timeout    time.Duration
	profile    string
	configPath string
}

// Flags returns CLI flags for remote configuration
func (x *Remote) Flags() []cli.Flag {
	return []cli.Flag{
		&cli.StringFlag{
			Name:        "backend",
			Category:    "Remote",
			Usage:       "Remote backend (http or memory)",
			Value:       "http",
			Sources:     cli.EnvVars("DOCDESK_BACKEND"),
			Destination: &x.backend,
		},
		&cli.StringFlag{
			Name:        "base-url",
			Category:    "Remote",
			Usage:       "Base URL of the remote service for a direct connection (e.g., http://localhost:8080)",
			Sources:     cli.EnvVars("DOCDESK_BASE_URL"),
			Destination: &x.baseURL,
		},
		&cli.StringFlag{
			Name:        "origin",
			Category:    "Remote",
			Usage:       "Origin that relative request paths are resolved against when no base URL is set (the reverse proxy)",
			Sources:     cli.EnvVars("DOCDESK_ORIGIN"),
			Destination: &x.origin,
		},
		&cli.DurationFlag{
			Name:        "timeout",
			Category:    "Remote",
			Usage:       "Request timeout",
			Sources:     cli.EnvVars("DOCDESK_TIMEOUT"),
			Destination: &x.timeout,
		},
		&cli.StringFlag{
			Name:        "profile",
			Category:    "Remote",
			Usage:       "Deployment profile to read from the config file",
			Sources:     cli.EnvVars("DOCDESK_PROFILE"),
			Destination: &x.profile,
		},
		&cli.StringFlag{
			Name:        "config",
			Aliases:     []string{"c"},
			Category:    "Remote",
			Usage:       "Path to the profile file (default " + DefaultConfigPath + " when --profile is set)",
			Sources:     cli.EnvVars("DOCDESK_CONFIG"),
			Destination: &x.configPath,
		},
	}
}

// NewRemote builds a remote config without flag parsing
func NewRemote(backend, baseURL, origin string, timeout time.Duration, profile, configPath string) *Remote {
	return &Remote{
		backend:    backend,
		baseURL:    baseURL,
		origin:     origin,
		timeout:    timeout,
		profile:    profile,
		configPath: configPath,
	}
}

func (x *Remote) LogValue() slog.Value {
	return slog.GroupValue(
		slog.String("backend", x.backend),
		slog.String("base_url", x.baseURL),
		slog.String("origin", x.origin),
		slog.Duration("timeout", x.timeout),
		slog.String("profile", x.profile),
	)
}

// Resolve merges the selected profile with the flags; flag values win
func (x *Remote) Resolve() (Profile, error) {
	var p Profile
	if x.profile != "" {
		path := x.configPath
		if path == "" {
			path = DefaultConfigPath
		}
		file, err := LoadProfiles(path)
		if err != nil {
			return Profile{}, err
		}
		if p, err = file.Lookup(x.profile); err != nil {
			return Profile{}, err
		}
	}

	if x.baseURL != "" {
		p.BaseURL = x.baseURL
	}
	if x.origin != "" {
		p.Origin = x.origin
	}
	if x.timeout > 0 {
		p.TimeoutSec = int(x.timeout / time.Second)
	}

	if err := p.Validate(); err != nil {
		return Profile{}, err
	}
	return p, nil
}

// Configure creates the remote service client for the selected backend
func (x *Remote) Configure(ctx context.Context) (interfaces.Remote, error) {
	switch x.backend {
	case "memory":
		logging.From(ctx).Info("Using in-memory remote (development mode)")
		return memory.New(), nil

	case "", "http":
		p, err := x.Resolve()
		if err != nil {
			return nil, err
		}

		var opts []remote.Option
		if p.Origin != "" {
			origin, err := url.Parse(p.Origin)
			if err != nil {
				return nil, goerr.Wrap(err, "invalid origin", goerr.V("origin", p.Origin))
			}
			opts = append(opts, remote.WithOrigin(origin))
		}
		if timeout := p.Timeout(); timeout > 0 {
			opts = append(opts, remote.WithTimeout(timeout))
		}

		client, err := remote.New(p.BaseURL, opts...)
		if err != nil {
			return nil, goerr.Wrap(err, "failed to create remote client")
		}
		logging.From(ctx).Info("Using remote service",
			"base_url", p.BaseURL,
			"origin", p.Origin,
			"timeout_sec", p.TimeoutSec)
		return client, nil

	default:
		return nil, goerr.Wrap(ErrInvalidConfig, "invalid remote backend", goerr.V(BackendKey, x.backend))
	}
}
