package proxy

import (
	"net/http"

	"github.com/rs/zerolog"
)

// Server dispatches requests to the rule with the longest matching prefix.
// The rule set is fixed at construction time.
type Server struct {
	logger       *zerolog.Logger
	rules        *RuleSet
	maxBodyBytes int64
}

func NewServer(logger *zerolog.Logger, rules *RuleSet, maxBodyBytes int64) *Server {
	return &Server{
		logger:       logger,
		rules:        rules,
		maxBodyBytes: maxBodyBytes,
	}
}

func (s *Server) Rules() *RuleSet {
	return s.rules
}

func (s *Server) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	if s.maxBodyBytes > 0 {
		// Declared oversize bodies are rejected before any rule runs.
		if r.ContentLength > s.maxBodyBytes {
			http.Error(w, "request body too large", http.StatusRequestEntityTooLarge)
			return
		}
		// Undeclared lengths get cut off at the cap mid-stream.
		if r.Body != nil {
			r.Body = http.MaxBytesReader(w, r.Body, s.maxBodyBytes)
		}
	}

	rule, ok := s.rules.Match(r.URL)
	if !ok {
		// Unreachable while a catch-all "/" rule is configured.
		s.logger.Error().Str("path", r.URL.Path).Msg("no rule matched request path")
		http.Error(w, "no route configured", http.StatusInternalServerError)
		return
	}
	rule.Handler().ServeHTTP(w, r)
}
