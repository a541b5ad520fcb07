// Package httpserver runs the HTTP listener and the optional self-signed TLS
// listener with graceful shutdown.
package httpserver

import (
	"context"
	"crypto/rand"
	"crypto/rsa"
	"crypto/tls"
	"crypto/x509"
	"crypto/x509/pkix"
	"encoding/pem"
	"errors"
	"fmt"
	"math/big"
	"net"
	"net/http"
	"time"

	"github.com/sirupsen/logrus"
	"golang.org/x/sync/errgroup"
)

type Options struct {
	Addr            string
	TLSAddr         string
	TLSSelfSigned   bool
	ReadTimeout     time.Duration
	WriteTimeout    time.Duration
	ShutdownTimeout time.Duration
}

type Server struct {
	http            *http.Server
	https           *http.Server
	shutdownTimeout time.Duration
	log             *logrus.Entry
}

func New(logger *logrus.Logger, handler http.Handler, opts Options) (*Server, error) {
	s := &Server{
		http: &http.Server{
			Addr:         opts.Addr,
			Handler:      handler,
			ReadTimeout:  opts.ReadTimeout,
			WriteTimeout: opts.WriteTimeout,
		},
		shutdownTimeout: opts.ShutdownTimeout,
		log:             logger.WithField("component", "http_server"),
	}

	if opts.TLSSelfSigned {
		cert, err := generateSelfSignedCert()
		if err != nil {
			return nil, fmt.Errorf("generate self-signed certificate: %w", err)
		}
		s.https = &http.Server{
			Addr:         opts.TLSAddr,
			Handler:      handler,
			ReadTimeout:  opts.ReadTimeout,
			WriteTimeout: opts.WriteTimeout,
			TLSConfig: &tls.Config{
				Certificates: []tls.Certificate{cert},
				MinVersion:   tls.VersionTLS12,
			},
		}
	}
	return s, nil
}

// Run serves until ctx is cancelled, then shuts every listener down.
func (s *Server) Run(ctx context.Context) error {
	ln, err := net.Listen("tcp", s.http.Addr)
	if err != nil {
		return fmt.Errorf("listen %s: %w", s.http.Addr, err)
	}
	var tlsLn net.Listener
	if s.https != nil {
		tlsLn, err = net.Listen("tcp", s.https.Addr)
		if err != nil {
			ln.Close()
			return fmt.Errorf("listen %s: %w", s.https.Addr, err)
		}
	}
	return s.serve(ctx, ln, tlsLn)
}

func (s *Server) serve(ctx context.Context, ln, tlsLn net.Listener) error {
	g, ctx := errgroup.WithContext(ctx)

	g.Go(func() error {
		s.log.WithField("addr", ln.Addr().String()).Info("Starting HTTP server")
		if err := s.http.Serve(ln); err != nil && !errors.Is(err, http.ErrServerClosed) {
			return fmt.Errorf("http server: %w", err)
		}
		return nil
	})

	if s.https != nil && tlsLn != nil {
		g.Go(func() error {
			s.log.WithField("addr", tlsLn.Addr().String()).Info("Starting HTTPS server")
			if err := s.https.ServeTLS(tlsLn, "", ""); err != nil && !errors.Is(err, http.ErrServerClosed) {
				return fmt.Errorf("https server: %w", err)
			}
			return nil
		})
	}

	g.Go(func() error {
		<-ctx.Done()
		return s.shutdown()
	})

	return g.Wait()
}

func (s *Server) shutdown() error {
	timeout := s.shutdownTimeout
	if timeout <= 0 {
		timeout = 10 * time.Second
	}
	ctx, cancel := context.WithTimeout(context.Background(), timeout)
	defer cancel()

	s.log.Info("Shutting down HTTP servers")
	err := s.http.Shutdown(ctx)
	if s.https != nil {
		err = errors.Join(err, s.https.Shutdown(ctx))
	}
	return err
}

func generateSelfSignedCert() (tls.Certificate, error) {
	priv, err := rsa.GenerateKey(rand.Reader, 2048)
	if err != nil {
		return tls.Certificate{}, err
	}

	template := x509.Certificate{
		SerialNumber: big.NewInt(1),
		Subject: pkix.Name{
			Organization: []string{"Vertical Padding"},
		},
		DNSNames:  []string{"localhost"},
		NotBefore: time.Now(),
		NotAfter:  time.Now().Add(365 * 24 * time.Hour),
		KeyUsage:  x509.KeyUsageKeyEncipherment | x509.KeyUsageDigitalSignature,
		ExtKeyUsage: []x509.ExtKeyUsage{
			x509.ExtKeyUsageServerAuth,
		},
		BasicConstraintsValid: true,
	}

	derBytes, err := x509.CreateCertificate(rand.Reader, &template, &template, &priv.PublicKey, priv)
	if err != nil {
		return tls.Certificate{}, err
	}

	certPEM := pem.EncodeToMemory(&pem.Block{
		Type:  "CERTIFICATE",
		Bytes: derBytes,
	})
	keyPEM := pem.EncodeToMemory(&pem.Block{
		Type:  "RSA PRIVATE KEY",
		Bytes: x509.MarshalPKCS1PrivateKey(priv),
	})

	return tls.X509KeyPair(certPEM, keyPEM)
}
