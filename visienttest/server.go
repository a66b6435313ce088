// Package visienttest provides an in-process fake of the visient platform
// for tests.
//
// The fake keeps all state in memory and speaks the platform wire protocol:
// inputs can be uploaded, searched and managed exactly as against the real
// service. Search matching is deliberately approximate: concept queries
// match by name and presence value, geo queries by great-circle radius, and
// everything else (text, image, metadata) matches any input, since the fake
// ranks nothing.
//
//	srv := visienttest.NewServer(visienttest.WithAPIKey("secret"))
//	defer srv.Close()
//
//	client, err := visient.New(
//		visient.WithAPIKey("secret"),
//		visient.WithBaseURL(srv.URL()),
//	)
package visienttest

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"sync"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"go.uber.org/zap"

	"github.com/visient/visient-go/api"
	"github.com/visient/visient-go/internal/logger"
)

// Server is a fake platform backed by in-memory state. All methods are safe
// for concurrent use.
type Server struct {
	apiKey string
	base   *zap.Logger
	http   *httptest.Server

	mu       sync.Mutex
	apps     map[string][]*api.App             // by user ID
	inputs   map[string][]*api.Input           // by user/app
	runners  map[string][]*api.Runner          // by user ID
	flows    map[string]*api.Workflow          // by user/app/workflow ID
	flowVers map[string][]*api.WorkflowVersion // by user/app/workflow ID
	modVers  map[string][]*api.ModuleVersion   // by user/app/module ID
	modelCs  map[string][]api.Concept          // canned outputs by model ID
	failures []*api.Status
}

// Option configures the fake server.
type Option func(*Server)

// WithAPIKey makes the server require "Authorization: Key <key>" on every
// request. Without it authentication is disabled.
func WithAPIKey(key string) Option {
	return func(s *Server) { s.apiKey = key }
}

// WithLogger sets the logger for request logging. Defaults to a no-op.
func WithLogger(l *zap.Logger) Option {
	return func(s *Server) { s.base = l }
}

// NewServer starts a fake platform on a local listener.
func NewServer(opts ...Option) *Server {
	s := &Server{
		base:     zap.NewNop(),
		apps:     map[string][]*api.App{},
		inputs:   map[string][]*api.Input{},
		runners:  map[string][]*api.Runner{},
		flows:    map[string]*api.Workflow{},
		flowVers: map[string][]*api.WorkflowVersion{},
		modVers:  map[string][]*api.ModuleVersion{},
		modelCs:  map[string][]api.Concept{},
	}
	for _, o := range opts {
		o(s)
	}

	r := chi.NewRouter()
	r.Use(middleware.RequestID)
	r.Use(s.injectLogger)
	r.Use(s.requireKey)
	r.Use(s.injectFailures)

	r.Route("/v2/users/{userID}", func(r chi.Router) {
		r.Route("/apps", func(r chi.Router) {
			r.Get("/", s.listApps)
			r.Post("/", s.postApps)
			r.Route("/{appID}", func(r chi.Router) {
				r.Get("/", s.getApp)
				r.Delete("/", s.deleteApp)
				r.Post("/inputs", s.postInputs)
				r.Post("/annotations/searches", s.postSearches)
				r.Post("/models/{modelID}/outputs", s.postModelOutputs)
				r.Route("/workflows/{workflowID}", func(r chi.Router) {
					r.Get("/", s.getWorkflow)
					r.Post("/results", s.postWorkflowResults)
					r.Get("/versions", s.listWorkflowVersions)
				})
				r.Get("/modules/{moduleID}/versions", s.listModuleVersions)
			})
		})
		r.Route("/runners", func(r chi.Router) {
			r.Get("/", s.listRunners)
			r.Post("/", s.postRunners)
			r.Get("/{runnerID}", s.getRunner)
			r.Delete("/{runnerID}", s.deleteRunner)
		})
	})

	s.http = httptest.NewServer(r)
	return s
}

// URL returns the base URL of the fake; pass it to the client's
// WithBaseURL option.
func (s *Server) URL() string { return s.http.URL }

// Close shuts the listener down.
func (s *Server) Close() { s.http.Close() }

// FailNext queues an application-level failure: the next request is not
// handled and returns HTTP 200 with the given status instead. Multiple
// calls queue up in order.
func (s *Server) FailNext(status *api.Status) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.failures = append(s.failures, status)
}

// SeedApp registers an app without going through the API.
func (s *Server) SeedApp(userID string, app *api.App) {
	s.mu.Lock()
	defer s.mu.Unlock()
	app.UserID = userID
	s.apps[userID] = append(s.apps[userID], app)
}

// SeedInputs stores inputs for an app without going through the API.
func (s *Server) SeedInputs(userID, appID string, inputs ...*api.Input) {
	s.mu.Lock()
	defer s.mu.Unlock()
	k := scopeKey(userID, appID)
	s.inputs[k] = append(s.inputs[k], inputs...)
}

// SeedRunner registers a runner without going through the API.
func (s *Server) SeedRunner(userID string, r *api.Runner) {
	s.mu.Lock()
	defer s.mu.Unlock()
	r.UserID = userID
	s.runners[userID] = append(s.runners[userID], r)
}

// SeedWorkflow stores a workflow definition and its version history.
func (s *Server) SeedWorkflow(userID, appID string, wf *api.Workflow, versions ...*api.WorkflowVersion) {
	s.mu.Lock()
	defer s.mu.Unlock()
	k := scopeKey(userID, appID, wf.ID)
	wf.UserID = userID
	wf.AppID = appID
	s.flows[k] = wf
	s.flowVers[k] = append(s.flowVers[k], versions...)
}

// SeedModuleVersions stores the version history of a module.
func (s *Server) SeedModuleVersions(userID, appID, moduleID string, versions ...*api.ModuleVersion) {
	s.mu.Lock()
	defer s.mu.Unlock()
	k := scopeKey(userID, appID, moduleID)
	s.modVers[k] = append(s.modVers[k], versions...)
}

// SeedModelConcepts sets the concepts every prediction of the model returns.
func (s *Server) SeedModelConcepts(modelID string, concepts ...api.Concept) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.modelCs[modelID] = concepts
}

// Inputs returns a snapshot of the inputs stored for an app.
func (s *Server) Inputs(userID, appID string) []*api.Input {
	s.mu.Lock()
	defer s.mu.Unlock()
	stored := s.inputs[scopeKey(userID, appID)]
	out := make([]*api.Input, len(stored))
	copy(out, stored)
	return out
}

func scopeKey(parts ...string) string {
	return strings.Join(parts, "/")
}

// injectLogger places a request-scoped logger in the context and logs the
// request.
func (s *Server) injectLogger(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		l := s.base.With(
			zap.String("request_id", middleware.GetReqID(r.Context())),
			zap.String("method", r.Method),
			zap.String("path", r.URL.Path),
		)
		l.Debug("platform request")
		next.ServeHTTP(w, r.WithContext(logger.ContextWithLogger(r.Context(), l)))
	})
}

// requireKey rejects requests without the configured API key.
func (s *Server) requireKey(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if s.apiKey == "" {
			next.ServeHTTP(w, r)
			return
		}
		const prefix = "Key "
		auth := r.Header.Get("Authorization")
		if !strings.HasPrefix(auth, prefix) || auth[len(prefix):] != s.apiKey {
			writeJSON(w, http.StatusUnauthorized, &api.BaseResponse{
				Status: &api.Status{Code: api.StatusInvalidRequest, Description: "invalid API key"},
			})
			return
		}
		next.ServeHTTP(w, r)
	})
}

// injectFailures serves queued forced failures instead of handling the
// request.
func (s *Server) injectFailures(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if st := s.takeFailure(); st != nil {
			logger.FromContext(r.Context()).Debug("injected failure", zap.Int("code", st.Code))
			writeJSON(w, http.StatusOK, &api.BaseResponse{Status: st})
			return
		}
		next.ServeHTTP(w, r)
	})
}

func (s *Server) takeFailure() *api.Status {
	s.mu.Lock()
	defer s.mu.Unlock()
	if len(s.failures) == 0 {
		return nil
	}
	st := s.failures[0]
	s.failures = s.failures[1:]
	return st
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}

func success() *api.Status {
	return &api.Status{Code: api.StatusSuccess, Description: "Ok"}
}

func invalidStatus(details string) *api.Status {
	return &api.Status{Code: api.StatusInvalidRequest, Description: "Invalid request", Details: details}
}

func notFoundStatus(details string) *api.Status {
	return &api.Status{Code: api.StatusNotFound, Description: "Resource does not exist", Details: details}
}

func badRequest(w http.ResponseWriter, err error) {
	writeJSON(w, http.StatusBadRequest, &api.BaseResponse{
		Status: invalidStatus("malformed request body: " + err.Error()),
	})
}
