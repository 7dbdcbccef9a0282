package network

import (
	"context"
	"io"
	"net/http"
	"os"
	"time"

	ghandlers "github.com/gorilla/handlers"
	"github.com/gorilla/mux"
	"golang.org/x/net/http2"

	"remitnet.io/remit/lib/common"
)

type ServerConfig struct {
	Addr string

	ReadTimeout,
	WriteTimeout,
	IdleTimeout time.Duration

	// serve https with http/2 when both are set
	TLSCertFile,
	TLSKeyFile string

	RateLimit common.RateLimitRule

	AccessLogOutput io.Writer
}

func NewServerConfig(addr string) ServerConfig {
	return ServerConfig{
		Addr:            addr,
		IdleTimeout:     5 * time.Second,
		RateLimit:       common.NewRateLimitRule(common.RateLimitAPI),
		AccessLogOutput: os.Stdout,
	}
}

// Server wraps the API router with the shared middleware chain: panic
// recovery, per-IP rate limiting, CORS and access logging.
type Server struct {
	config ServerConfig
	server *http.Server
}

func NewServer(config ServerConfig, router *mux.Router) *Server {
	router.Use(RecoverMiddleware(false))
	router.Use(RateLimitMiddleware(log, config.RateLimit))

	allowedOrigins := ghandlers.AllowedOrigins([]string{"*"})
	allowedMethods := ghandlers.AllowedMethods([]string{"GET", "POST", "DELETE"})
	allowedHeaders := ghandlers.AllowedHeaders([]string{"Content-Type", "X-Requested-With", "Cache-Control", "Access-Control"})

	var handler http.Handler = ghandlers.CORS(allowedOrigins, allowedMethods, allowedHeaders)(router)
	handler = ghandlers.CombinedLoggingHandler(config.AccessLogOutput, handler)

	server := &http.Server{
		Addr:         config.Addr,
		Handler:      handler,
		ReadTimeout:  config.ReadTimeout,
		WriteTimeout: config.WriteTimeout,
		IdleTimeout:  config.IdleTimeout,
	}
	server.SetKeepAlivesEnabled(true)

	http2.ConfigureServer(
		server,
		&http2.Server{
			IdleTimeout: config.IdleTimeout,
		},
	)

	return &Server{
		config: config,
		server: server,
	}
}

func (s *Server) hasTLS() bool {
	return len(s.config.TLSCertFile) > 0 && len(s.config.TLSKeyFile) > 0
}

func (s *Server) Start() error {
	if s.hasTLS() {
		log.Info("api server started", "addr", s.config.Addr, "tls", true)
		return s.server.ListenAndServeTLS(s.config.TLSCertFile, s.config.TLSKeyFile)
	}

	log.Info("api server started", "addr", s.config.Addr)
	return s.server.ListenAndServe()
}

func (s *Server) Stop(ctx context.Context) error {
	log.Info("api server stopping")
	return s.server.Shutdown(ctx)
}
