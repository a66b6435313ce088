package visient

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"time"

	"github.com/visient/visient-go/api"
	"github.com/visient/visient-go/internal/transport/rest"
)

// DefaultBaseURL is the production platform endpoint.
const DefaultBaseURL = "https://api.visient.com"

const defaultTimeout = 60 * time.Second

// Внутренние интерфейсы для подмены в тестах.
type searchStub interface {
	PostAnnotationsSearches(ctx context.Context, req *api.PostAnnotationsSearchesRequest) (*api.PostAnnotationsSearchesResponse, error)
}

type inputStub interface {
	PostInputs(ctx context.Context, req *api.PostInputsRequest) (*api.MultiInputResponse, error)
}

type appStub interface {
	ListApps(ctx context.Context, req *api.ListAppsRequest) (*api.MultiAppResponse, error)
	PostApps(ctx context.Context, req *api.PostAppsRequest) (*api.MultiAppResponse, error)
	GetApp(ctx context.Context, req *api.GetAppRequest) (*api.SingleAppResponse, error)
	DeleteApp(ctx context.Context, req *api.DeleteAppRequest) (*api.BaseResponse, error)
}

type runnerStub interface {
	ListRunners(ctx context.Context, req *api.ListRunnersRequest) (*api.MultiRunnerResponse, error)
	PostRunners(ctx context.Context, req *api.PostRunnersRequest) (*api.MultiRunnerResponse, error)
	GetRunner(ctx context.Context, req *api.GetRunnerRequest) (*api.SingleRunnerResponse, error)
	DeleteRunner(ctx context.Context, req *api.DeleteRunnerRequest) (*api.BaseResponse, error)
}

type modelStub interface {
	PostModelOutputs(ctx context.Context, req *api.PostModelOutputsRequest) (*api.MultiOutputResponse, error)
}

type workflowStub interface {
	PostWorkflowResults(ctx context.Context, req *api.PostWorkflowResultsRequest) (*api.PostWorkflowResultsResponse, error)
	GetWorkflow(ctx context.Context, req *api.GetWorkflowRequest) (*api.SingleWorkflowResponse, error)
	ListWorkflowVersions(ctx context.Context, req *api.ListWorkflowVersionsRequest) (*api.MultiWorkflowVersionResponse, error)
}

type moduleStub interface {
	ListModuleVersions(ctx context.Context, req *api.ListModuleVersionsRequest) (*api.MultiModuleVersionResponse, error)
}

// Client is the visient SDK entry point.
type Client struct {
	search    searchStub
	inputs    inputStub
	apps      appStub
	runners   runnerStub
	models    modelStub
	workflows workflowStub
	modules   moduleStub
	obs       *observer
}

// New creates a visient Client.
func New(opts ...Option) (*Client, error) {
	cfg := &clientConfig{
		baseURL: DefaultBaseURL,
		timeout: defaultTimeout,
	}
	for _, o := range opts {
		o.apply(cfg)
	}

	if cfg.apiKey == "" {
		return nil, errors.New("visient: API key required (use WithAPIKey)")
	}

	hc := cfg.httpClient
	if hc == nil {
		hc = &http.Client{Timeout: cfg.timeout}
	}

	rc, err := rest.NewClient(&rest.Config{
		BaseURL:    cfg.baseURL,
		APIKey:     cfg.apiKey,
		UserAgent:  cfg.userAgent,
		HTTPClient: hc,
	})
	if err != nil {
		return nil, fmt.Errorf("visient: %w", err)
	}

	obs, err := newObserver(cfg.logger, cfg.metricsReg)
	if err != nil {
		return nil, err
	}

	return &Client{
		search:    rc,
		inputs:    rc,
		apps:      rc,
		runners:   rc,
		models:    rc,
		workflows: rc,
		modules:   rc,
		obs:       obs,
	}, nil
}

// Inputs returns the input service for an app.
func (c *Client) Inputs(userID, appID string) *InputService {
	return &InputService{
		userAppID: &api.UserAppIDSet{UserID: userID, AppID: appID},
		stub:      c.inputs,
		obs:       c.obs,
	}
}

// Apps returns the app management service for a user.
func (c *Client) Apps(userID string) *AppService {
	return &AppService{
		userID: userID,
		stub:   c.apps,
		obs:    c.obs,
	}
}

// Runners returns the runner management service for a user.
func (c *Client) Runners(userID string) *RunnerService {
	return &RunnerService{
		userID: userID,
		stub:   c.runners,
		obs:    c.obs,
	}
}

// Models returns the model prediction service for an app.
func (c *Client) Models(userID, appID string) *ModelService {
	return &ModelService{
		userAppID: &api.UserAppIDSet{UserID: userID, AppID: appID},
		inputs:    c.Inputs(userID, appID),
		stub:      c.models,
		obs:       c.obs,
	}
}

// Workflows returns the workflow service for an app.
func (c *Client) Workflows(userID, appID string) *WorkflowService {
	return &WorkflowService{
		userAppID: &api.UserAppIDSet{UserID: userID, AppID: appID},
		inputs:    c.Inputs(userID, appID),
		stub:      c.workflows,
		obs:       c.obs,
	}
}

// Modules returns the module service for an app.
func (c *Client) Modules(userID, appID string) *ModuleService {
	return &ModuleService{
		userAppID: &api.UserAppIDSet{UserID: userID, AppID: appID},
		stub:      c.modules,
		obs:       c.obs,
	}
}
