package server

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net"
	"net/http"
	"strings"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"
	"golang.org/x/time/rate"

	"github.com/clarete/pas"
)

// RequestIDHeader carries the id of each request.  It's taken from
// the request when present and echoed back in the response.
const RequestIDHeader = "X-Request-Id"

const internalErrorMessage = "Internal error:  please report"

// SingleRequest is the body of `POST /v1/single`
type SingleRequest struct {
	Grammar string `json:"grammar"`
	Rule    string `json:"rule,omitempty"`
	Text    string `json:"text"`
}

// SingleResponse is the body answered to a successful match
type SingleResponse struct {
	Rule   string     `json:"rule"`
	Text   string     `json:"text"`
	Output pas.Output `json:"output"`
}

// ErrorResponse is the body of every non successful answer
type ErrorResponse struct {
	Error string `json:"error"`
}

// Server matches texts against grammars sent over HTTP
type Server struct {
	cfg     Config
	logger  *zap.Logger
	cache   *grammarCache
	limiter *rate.Limiter
	metrics *metrics
	handler http.Handler

	// match is (*pas.Grammar).Match outside of tests
	match func(g *pas.Grammar, ctx context.Context, rule, text string) (*pas.RuleMatch, error)
}

// New creates a server.  Metrics are registered on `registry`, a nil
// registry gets the server its own.
func New(cfg Config, logger *zap.Logger, registry *prometheus.Registry) (*Server, error) {
	if err := cfg.validate(); err != nil {
		return nil, fmt.Errorf("invalid server config: %w", err)
	}
	if cfg.Engine == nil {
		cfg.Engine = pas.NewConfig()
	}
	if logger == nil {
		logger = zap.NewNop()
	}
	m, err := newMetrics(registry)
	if err != nil {
		return nil, fmt.Errorf("can't register metrics: %w", err)
	}
	cache, err := newGrammarCache(cfg.CacheSize, cfg.Engine, m)
	if err != nil {
		return nil, fmt.Errorf("can't create grammar cache: %w", err)
	}
	s := &Server{cfg: cfg, logger: logger, cache: cache, metrics: m, match: (*pas.Grammar).Match}
	if cfg.RateLimit > 0 {
		s.limiter = rate.NewLimiter(rate.Limit(cfg.RateLimit), cfg.RateBurst)
	}

	mux := http.NewServeMux()
	mux.Handle("POST /v1/single", m.instrument("v1/single", s.limit(http.HandlerFunc(s.handleSingle))))
	mux.Handle("GET /health", m.instrument("health", http.HandlerFunc(s.handleHealth)))
	mux.Handle("GET /metrics", m.handler())
	s.handler = s.withRequestID(s.withLogging(s.withRecover(mux)))
	return s, nil
}

func (s *Server) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	s.handler.ServeHTTP(w, r)
}

// ListenAndServe serves on `addr` until `ctx` is done
func (s *Server) ListenAndServe(ctx context.Context, addr string) error {
	ln, err := net.Listen("tcp", addr)
	if err != nil {
		return err
	}
	return s.Serve(ctx, ln)
}

// Serve accepts connections on `ln` until `ctx` is done, and then
// waits for the requests in flight to finish
func (s *Server) Serve(ctx context.Context, ln net.Listener) error {
	srv := &http.Server{
		Handler:           s,
		ReadHeaderTimeout: 10 * time.Second,
		ErrorLog:          zap.NewStdLog(s.logger),
	}
	g, ctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		s.logger.Info("Server listening", zap.String("addr", ln.Addr().String()))
		if err := srv.Serve(ln); err != nil && !errors.Is(err, http.ErrServerClosed) {
			return err
		}
		return nil
	})
	g.Go(func() error {
		<-ctx.Done()
		s.logger.Info("Server shutting down")
		shutdownCtx, cancel := context.WithTimeout(context.Background(), s.cfg.ShutdownTimeout)
		defer cancel()
		return srv.Shutdown(shutdownCtx)
	})
	return g.Wait()
}

func (s *Server) handleHealth(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, struct{}{})
}

func (s *Server) handleSingle(w http.ResponseWriter, r *http.Request) {
	logger := s.logger.With(zap.String("request_id", requestID(r.Context())))

	var req SingleRequest
	r.Body = http.MaxBytesReader(w, r.Body, s.cfg.MaxBodyBytes)
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		s.metrics.outcome(outcomeRejected)
		var tooLarge *http.MaxBytesError
		if errors.As(err, &tooLarge) {
			writeError(w, http.StatusRequestEntityTooLarge, fmt.Sprintf("Request body is larger than %d bytes", tooLarge.Limit))
			return
		}
		writeError(w, http.StatusBadRequest, "Malformed JSON body: "+err.Error())
		return
	}
	if strings.TrimSpace(req.Grammar) == "" {
		s.metrics.outcome(outcomeRejected)
		writeError(w, http.StatusBadRequest, "JSON body should contain 'grammar'")
		return
	}
	if strings.TrimSpace(req.Text) == "" {
		s.metrics.outcome(outcomeRejected)
		writeError(w, http.StatusBadRequest, "JSON body should contain 'text'")
		return
	}

	grammar, err := s.cache.Get(req.Grammar)
	if err != nil {
		s.metrics.outcome(outcomeInvalidGrammar)
		logger.Debug("Grammar rejected", zap.Error(err))
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}

	ctx := r.Context()
	if s.cfg.MatchTimeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, s.cfg.MatchTimeout)
		defer cancel()
	}
	rule := req.Rule
	if rule == "" {
		rule = grammar.DefaultRule()
	}
	logger = logger.With(zap.String("rule", rule))

	m, err := s.match(grammar, ctx, rule, req.Text)
	switch {
	case errors.Is(err, pas.ErrUnknownRule),
		errors.Is(err, pas.ErrMaxDepthExceeded),
		errors.Is(err, pas.ErrMatchCancelled):
		s.metrics.outcome(outcomeRejected)
		logger.Debug("Match aborted", zap.Error(err))
		writeError(w, http.StatusBadRequest, err.Error())
		return
	case err != nil:
		s.metrics.outcome(outcomeFailed)
		logger.Error("Match failed", zap.Error(err))
		writeError(w, http.StatusInternalServerError, internalErrorMessage)
		return
	case m == nil:
		s.metrics.outcome(outcomeNoMatch)
		writeError(w, http.StatusBadRequest, "Text cannot be matched by grammar")
		return
	}

	s.metrics.outcome(outcomeMatched)
	writeJSON(w, http.StatusOK, SingleResponse{
		Rule:   rule,
		Text:   m.Text().String(),
		Output: m.ComputeOutput(),
	})
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}

func writeError(w http.ResponseWriter, status int, message string) {
	writeJSON(w, status, ErrorResponse{Error: message})
}
