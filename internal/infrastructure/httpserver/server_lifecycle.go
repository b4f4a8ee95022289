package httpserver

import (
	"context"
	"crypto/tls"
	"fmt"
	"net"
	"net/http"

	"github.com/labstack/echo/v4"
)

// Addr is the host:port the server listens on.
func (s *Server) Addr() string {
	return net.JoinHostPort(s.config.Host, s.config.Port)
}

// tlsConfig loads the configured key pair; nil means plain HTTP.
func (s *Server) tlsConfig() (*tls.Config, error) {
	if s.config.TLSCertFile == "" || s.config.TLSKeyFile == "" {
		return nil, nil
	}
	cert, err := tls.LoadX509KeyPair(s.config.TLSCertFile, s.config.TLSKeyFile)
	if err != nil {
		return nil, fmt.Errorf("failed to load TLS key pair: %w", err)
	}
	return &tls.Config{Certificates: []tls.Certificate{cert}, MinVersion: tls.VersionTLS12}, nil
}

// Start blocks serving requests until Shutdown is called.
func (s *Server) Start() error {
	s.LogMetricsInitialization()

	tlsCfg, err := s.tlsConfig()
	if err != nil {
		return err
	}
	srv := &http.Server{
		Addr:         s.Addr(),
		ReadTimeout:  s.config.ReadTimeout,
		WriteTimeout: s.config.WriteTimeout,
		IdleTimeout:  s.config.IdleTimeout,
		TLSConfig:    tlsCfg,
	}

	if s.logger != nil {
		if tlsCfg != nil {
			s.logger.Infof("Starting HTTPS server on %s", srv.Addr)
		} else {
			s.logger.Infof("Starting HTTP server on %s", srv.Addr)
			s.logger.Warn("Running in HTTP mode - TLS certificates not configured")
		}
	}
	// echo switches to a TLS listener when TLSConfig is set
	return s.echo.StartServer(srv)
}

func (s *Server) Shutdown(ctx context.Context) error {
	return s.echo.Shutdown(ctx)
}

func (s *Server) Echo() *echo.Echo {
	return s.echo
}
