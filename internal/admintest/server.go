// Package admintest runs an in-memory stand-in for a Caddy admin
// endpoint. It keeps a live config tree with the admin API's traversal
// semantics (GET reads, POST sets and appends, PUT inserts, PATCH
// replaces, DELETE removes), serves canned PKI and upstream data, and
// optionally enforces HTTP Basic auth. Tests point a client at URL()
// and exercise the full wire contract without a Caddy process.
package admintest

import (
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"sync"
)

// Certificates served by the canned PKI endpoints. Not real keys.
const (
	rootCertPEM = "-----BEGIN CERTIFICATE-----\n" +
		"dGVzdCByb290IGNlcnRpZmljYXRlIGZvciBhZG1pbnRlc3Q=\n" +
		"-----END CERTIFICATE-----\n"
	intermediateCertPEM = "-----BEGIN CERTIFICATE-----\n" +
		"dGVzdCBpbnRlcm1lZGlhdGUgY2VydGlmaWNhdGU=\n" +
		"-----END CERTIFICATE-----\n"
)

// Server is a fake admin endpoint backed by an httptest.Server.
type Server struct {
	ts *httptest.Server

	mu        sync.Mutex
	config    any
	upstreams []map[string]any
	stopped   bool

	username    string
	password    string
	requireAuth bool
}

// Option configures a Server.
type Option func(*Server)

// WithBasicAuth makes every endpoint require these credentials.
func WithBasicAuth(username, password string) Option {
	return func(s *Server) {
		s.username = username
		s.password = password
		s.requireAuth = true
	}
}

// WithUpstreams sets the upstream addresses reported by
// /reverse_proxy/upstreams.
func WithUpstreams(addresses ...string) Option {
	return func(s *Server) {
		s.upstreams = make([]map[string]any, 0, len(addresses))
		for _, addr := range addresses {
			s.upstreams = append(s.upstreams, map[string]any{
				"address":      addr,
				"num_requests": 0,
				"fails":        0,
			})
		}
	}
}

// WithConfig seeds the initial config tree.
func WithConfig(config any) Option {
	return func(s *Server) {
		s.config = config
	}
}

// New starts a fake admin endpoint. Callers must Close it.
func New(opts ...Option) *Server {
	s := &Server{
		upstreams: []map[string]any{
			{"address": "localhost:8080", "num_requests": 0, "fails": 0},
		},
	}
	for _, opt := range opts {
		opt(s)
	}

	mux := http.NewServeMux()
	mux.HandleFunc("POST /load", s.handleLoad)
	mux.HandleFunc("POST /adapt", s.handleAdapt)
	mux.HandleFunc("POST /stop", s.handleStop)
	mux.HandleFunc("GET /pki/ca/{id}", s.handleCAInfo)
	mux.HandleFunc("GET /pki/ca/{id}/certificates", s.handleCACertificates)
	mux.HandleFunc("GET /reverse_proxy/upstreams", s.handleUpstreams)
	mux.HandleFunc("/config/", s.handleConfig)
	mux.HandleFunc("/id/", s.handleID)

	s.ts = httptest.NewServer(s.auth(mux))
	return s
}

// URL returns the endpoint's base URL.
func (s *Server) URL() string {
	return s.ts.URL
}

// Close shuts the endpoint down.
func (s *Server) Close() {
	s.ts.Close()
}

// Stopped reports whether /stop has been called.
func (s *Server) Stopped() bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.stopped
}

// Config returns the current config tree. Callers must not mutate it.
func (s *Server) Config() any {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.config
}

func (s *Server) auth(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if s.requireAuth {
			user, pass, okAuth := r.BasicAuth()
			if !okAuth || user != s.username || pass != s.password {
				writeError(w, http.StatusUnauthorized, "invalid credentials")
				return
			}
		}
		next.ServeHTTP(w, r)
	})
}

// --- Handlers ---

func (s *Server) handleLoad(w http.ResponseWriter, r *http.Request) {
	config, err := decodeConfig(r)
	if err != nil {
		writeError(w, http.StatusBadRequest, "%v", err)
		return
	}
	s.mu.Lock()
	s.config = config
	s.mu.Unlock()
	w.WriteHeader(http.StatusOK)
}

func (s *Server) handleAdapt(w http.ResponseWriter, r *http.Request) {
	config, err := decodeConfig(r)
	if err != nil {
		writeError(w, http.StatusBadRequest, "%v", err)
		return
	}
	writeJSON(w, http.StatusOK, config)
}

func (s *Server) handleStop(w http.ResponseWriter, r *http.Request) {
	s.mu.Lock()
	s.stopped = true
	s.mu.Unlock()
	w.WriteHeader(http.StatusOK)
}

func (s *Server) handleCAInfo(w http.ResponseWriter, r *http.Request) {
	id := r.PathValue("id")
	writeJSON(w, http.StatusOK, map[string]any{
		"id":                       id,
		"name":                     "Caddy Local Authority",
		"root_common_name":         "Caddy Local Authority - ECC Root",
		"intermediate_common_name": "Caddy Local Authority - ECC Intermediate",
		"root_certificate":         rootCertPEM,
		"intermediate_certificate": intermediateCertPEM,
	})
}

func (s *Server) handleCACertificates(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Content-Type", "application/pem-certificate-chain")
	_, _ = io.WriteString(w, rootCertPEM+intermediateCertPEM)
}

func (s *Server) handleUpstreams(w http.ResponseWriter, r *http.Request) {
	s.mu.Lock()
	ups := s.upstreams
	s.mu.Unlock()
	writeJSON(w, http.StatusOK, ups)
}

func (s *Server) handleConfig(w http.ResponseWriter, r *http.Request) {
	s.mu.Lock()
	defer s.mu.Unlock()
	segments := splitPath(strings.TrimPrefix(r.URL.EscapedPath(), "/config"))
	s.apply(w, r, segments)
}

func (s *Server) handleID(w http.ResponseWriter, r *http.Request) {
	s.mu.Lock()
	defer s.mu.Unlock()
	segments := splitPath(strings.TrimPrefix(r.URL.EscapedPath(), "/id"))
	if len(segments) == 0 {
		writeError(w, http.StatusBadRequest, "missing object id")
		return
	}
	base, found := findByID(s.config, segments[0])
	if !found {
		writeError(w, http.StatusNotFound, "unknown object id: %s", segments[0])
		return
	}
	s.apply(w, r, append(base, segments[1:]...))
}

// apply runs one verb against the addressed location. Caller holds mu.
func (s *Server) apply(w http.ResponseWriter, r *http.Request, segments []string) {
	switch r.Method {
	case http.MethodGet:
		node, err := getNode(s.config, segments)
		if err != nil {
			writeTraverseError(w, err)
			return
		}
		writeJSON(w, http.StatusOK, node)

	case http.MethodPost, http.MethodPut, http.MethodPatch:
		var value any
		if err := json.NewDecoder(r.Body).Decode(&value); err != nil {
			writeError(w, http.StatusBadRequest, "decoding request body: %v", err)
			return
		}
		modes := map[string]mode{
			http.MethodPost:  modeSet,
			http.MethodPut:   modeCreate,
			http.MethodPatch: modeUpdate,
		}
		newRoot, err := setNode(s.config, segments, value, modes[r.Method])
		if err != nil {
			writeTraverseError(w, err)
			return
		}
		s.config = newRoot
		w.WriteHeader(http.StatusOK)

	case http.MethodDelete:
		newRoot, err := deleteNode(s.config, segments)
		if err != nil {
			writeTraverseError(w, err)
			return
		}
		s.config = newRoot
		w.WriteHeader(http.StatusOK)

	default:
		writeError(w, http.StatusMethodNotAllowed, "method not allowed: %s", r.Method)
	}
}

// decodeConfig turns a request payload into a config tree, running the
// toy Caddyfile adapter for text payloads.
func decodeConfig(r *http.Request) (any, error) {
	body, err := io.ReadAll(r.Body)
	if err != nil {
		return nil, err
	}
	ct := r.Header.Get("Content-Type")
	switch {
	case ct == "" || strings.HasPrefix(ct, "text/caddyfile"):
		return adaptCaddyfile(body), nil
	case strings.HasPrefix(ct, "application/json"):
		var config any
		if err := json.Unmarshal(body, &config); err != nil {
			return nil, fmt.Errorf("decoding config: %w", err)
		}
		return config, nil
	default:
		return nil, fmt.Errorf("unrecognized config adapter: %s", ct)
	}
}

// adaptCaddyfile is a toy adapter: the first site address becomes the
// server's listen address. Enough shape for clients to observe an
// adaptation; nothing like the real one.
func adaptCaddyfile(body []byte) map[string]any {
	listen := ":80"
	for _, line := range strings.Split(string(body), "\n") {
		line = strings.TrimSpace(line)
		if line == "" || strings.HasPrefix(line, "#") {
			continue
		}
		if addr, _, _ := strings.Cut(line, " "); strings.HasPrefix(addr, ":") {
			listen = addr
		}
		break
	}
	return map[string]any{
		"apps": map[string]any{
			"http": map[string]any{
				"servers": map[string]any{
					"srv0": map[string]any{
						"listen": []any{listen},
					},
				},
			},
		},
	}
}

// --- Response helpers ---

func writeJSON(w http.ResponseWriter, status int, data any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(data)
}

func writeError(w http.ResponseWriter, status int, format string, args ...any) {
	writeJSON(w, status, map[string]string{"error": fmt.Sprintf(format, args...)})
}

func writeTraverseError(w http.ResponseWriter, err error) {
	var te *traverseError
	if errors.As(err, &te) {
		writeError(w, te.status, "%s", te.message)
		return
	}
	writeError(w, http.StatusInternalServerError, "%v", err)
}
