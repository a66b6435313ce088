package visient

import (
	"context"

	"github.com/visient/visient-go/api"
)

// --- searchStub mock ---

type mockSearchStub struct {
	postFn func(ctx context.Context, req *api.PostAnnotationsSearchesRequest) (*api.PostAnnotationsSearchesResponse, error)
}

func (m *mockSearchStub) PostAnnotationsSearches(
	ctx context.Context, req *api.PostAnnotationsSearchesRequest,
) (*api.PostAnnotationsSearchesResponse, error) {
	return m.postFn(ctx, req)
}

// --- inputStub mock ---

type mockInputStub struct {
	postFn func(ctx context.Context, req *api.PostInputsRequest) (*api.MultiInputResponse, error)
}

func (m *mockInputStub) PostInputs(
	ctx context.Context, req *api.PostInputsRequest,
) (*api.MultiInputResponse, error) {
	return m.postFn(ctx, req)
}

// --- appStub mock ---

type mockAppStub struct {
	listFn   func(ctx context.Context, req *api.ListAppsRequest) (*api.MultiAppResponse, error)
	postFn   func(ctx context.Context, req *api.PostAppsRequest) (*api.MultiAppResponse, error)
	getFn    func(ctx context.Context, req *api.GetAppRequest) (*api.SingleAppResponse, error)
	deleteFn func(ctx context.Context, req *api.DeleteAppRequest) (*api.BaseResponse, error)
}

func (m *mockAppStub) ListApps(ctx context.Context, req *api.ListAppsRequest) (*api.MultiAppResponse, error) {
	return m.listFn(ctx, req)
}

func (m *mockAppStub) PostApps(ctx context.Context, req *api.PostAppsRequest) (*api.MultiAppResponse, error) {
	return m.postFn(ctx, req)
}

func (m *mockAppStub) GetApp(ctx context.Context, req *api.GetAppRequest) (*api.SingleAppResponse, error) {
	return m.getFn(ctx, req)
}

func (m *mockAppStub) DeleteApp(ctx context.Context, req *api.DeleteAppRequest) (*api.BaseResponse, error) {
	return m.deleteFn(ctx, req)
}

// --- runnerStub mock ---

type mockRunnerStub struct {
	listFn   func(ctx context.Context, req *api.ListRunnersRequest) (*api.MultiRunnerResponse, error)
	postFn   func(ctx context.Context, req *api.PostRunnersRequest) (*api.MultiRunnerResponse, error)
	getFn    func(ctx context.Context, req *api.GetRunnerRequest) (*api.SingleRunnerResponse, error)
	deleteFn func(ctx context.Context, req *api.DeleteRunnerRequest) (*api.BaseResponse, error)
}

func (m *mockRunnerStub) ListRunners(ctx context.Context, req *api.ListRunnersRequest) (*api.MultiRunnerResponse, error) {
	return m.listFn(ctx, req)
}

func (m *mockRunnerStub) PostRunners(ctx context.Context, req *api.PostRunnersRequest) (*api.MultiRunnerResponse, error) {
	return m.postFn(ctx, req)
}

func (m *mockRunnerStub) GetRunner(ctx context.Context, req *api.GetRunnerRequest) (*api.SingleRunnerResponse, error) {
	return m.getFn(ctx, req)
}

func (m *mockRunnerStub) DeleteRunner(ctx context.Context, req *api.DeleteRunnerRequest) (*api.BaseResponse, error) {
	return m.deleteFn(ctx, req)
}

// --- modelStub mock ---

type mockModelStub struct {
	postFn func(ctx context.Context, req *api.PostModelOutputsRequest) (*api.MultiOutputResponse, error)
}

func (m *mockModelStub) PostModelOutputs(
	ctx context.Context, req *api.PostModelOutputsRequest,
) (*api.MultiOutputResponse, error) {
	return m.postFn(ctx, req)
}

// --- workflowStub mock ---

type mockWorkflowStub struct {
	resultsFn      func(ctx context.Context, req *api.PostWorkflowResultsRequest) (*api.PostWorkflowResultsResponse, error)
	getFn          func(ctx context.Context, req *api.GetWorkflowRequest) (*api.SingleWorkflowResponse, error)
	listVersionsFn func(ctx context.Context, req *api.ListWorkflowVersionsRequest) (*api.MultiWorkflowVersionResponse, error)
}

func (m *mockWorkflowStub) PostWorkflowResults(
	ctx context.Context, req *api.PostWorkflowResultsRequest,
) (*api.PostWorkflowResultsResponse, error) {
	return m.resultsFn(ctx, req)
}

func (m *mockWorkflowStub) GetWorkflow(
	ctx context.Context, req *api.GetWorkflowRequest,
) (*api.SingleWorkflowResponse, error) {
	return m.getFn(ctx, req)
}

func (m *mockWorkflowStub) ListWorkflowVersions(
	ctx context.Context, req *api.ListWorkflowVersionsRequest,
) (*api.MultiWorkflowVersionResponse, error) {
	return m.listVersionsFn(ctx, req)
}

// --- moduleStub mock ---

type mockModuleStub struct {
	listVersionsFn func(ctx context.Context, req *api.ListModuleVersionsRequest) (*api.MultiModuleVersionResponse, error)
}

func (m *mockModuleStub) ListModuleVersions(
	ctx context.Context, req *api.ListModuleVersionsRequest,
) (*api.MultiModuleVersionResponse, error) {
	return m.listVersionsFn(ctx, req)
}

// --- helpers ---

func okStatus() *api.Status {
	return &api.Status{Code: api.StatusSuccess, Description: "Ok"}
}

func failStatus() *api.Status {
	return &api.Status{Code: api.StatusFailure, Description: "Failure", Details: "injected"}
}

func testClient(
	search searchStub,
	inputs inputStub,
	apps appStub,
	runners runnerStub,
	models modelStub,
	workflows workflowStub,
	modules moduleStub,
) *Client {
	return &Client{
		search:    search,
		inputs:    inputs,
		apps:      apps,
		runners:   runners,
		models:    models,
		workflows: workflows,
		modules:   modules,
	}
}

func testSearch(stub searchStub, opts ...SearchOption) *Search {
	c := testClient(stub, nil, nil, nil, nil, nil, nil)
	s, err := c.NewSearch("alice", "demo", opts...)
	if err != nil {
		panic(err)
	}
	return s
}
