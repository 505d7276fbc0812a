package ngrok

import (
	"context"
	"errors"
	"fmt"
	"os"

	"linernotes/internal/config"

	"github.com/sirupsen/logrus"
	"golang.ngrok.com/ngrok/v2"
)

// ErrMissingAuthToken is returned when the tunnel is enabled without a token
var ErrMissingAuthToken = errors.New("ngrok auth token not found: set LINERNOTES_NGROK_AUTH_TOKEN, NGROK_AUTHTOKEN or ngrok.auth_token")

// Service publishes the local site through an ngrok endpoint
type Service struct {
	config *config.NgrokConfig
	logger *logrus.Logger
	agent  ngrok.Agent
	tunnel ngrok.EndpointForwarder
}

// NewService creates the tunnel service. It returns nil when the tunnel is
// disabled; every method is safe to call on a nil *Service.
func NewService(cfg *config.NgrokConfig, logger *logrus.Logger) (*Service, error) {
	if !cfg.Enabled {
		return nil, nil
	}

	authToken := cfg.AuthToken
	if authToken == "" {
		authToken = os.Getenv("NGROK_AUTHTOKEN")
	}
	if authToken == "" {
		return nil, ErrMissingAuthToken
	}

	agent, err := ngrok.NewAgent(ngrok.WithAuthtoken(authToken))
	if err != nil {
		return nil, fmt.Errorf("failed to create ngrok agent: %w", err)
	}

	return &Service{
		config: cfg,
		logger: logger,
		agent:  agent,
	}, nil
}

// trafficPolicy builds the OAuth policy placed in front of the endpoint
func trafficPolicy(provider string) string {
	return fmt.Sprintf(`
on_http_request:
  - actions:
      - type: oauth
        config:
          provider: %s
`, provider)
}

// StartTunnel forwards a public endpoint to localAddress
func (s *Service) StartTunnel(ctx context.Context, localAddress string) error {
	if s == nil {
		return nil
	}

	s.logger.Info("Starting ngrok tunnel")

	var endpointOpts []ngrok.EndpointOption
	if s.config.Domain != "" {
		endpointOpts = append(endpointOpts, ngrok.WithURL(s.config.Domain))
	}
	if s.config.EnableAuth {
		endpointOpts = append(endpointOpts, ngrok.WithTrafficPolicy(trafficPolicy(s.config.AuthProvider)))
	}

	tunnel, err := s.agent.Forward(ctx, ngrok.WithUpstream(localAddress), endpointOpts...)
	if err != nil {
		return fmt.Errorf("failed to create ngrok tunnel: %w", err)
	}
	s.tunnel = tunnel

	s.logger.WithFields(logrus.Fields{
		"public_url": tunnel.URL().String(),
		"upstream":   localAddress,
		"oauth":      s.config.EnableAuth,
	}).Info("Ngrok tunnel active")

	return nil
}

// PublicURL returns the public URL of the tunnel, or "" when there is none
func (s *Service) PublicURL() string {
	if s == nil || s.tunnel == nil {
		return ""
	}
	return s.tunnel.URL().String()
}

// Stop closes the tunnel
func (s *Service) Stop() error {
	if s == nil || s.tunnel == nil {
		return nil
	}

	s.logger.Info("Stopping ngrok tunnel")
	return s.tunnel.Close()
}
