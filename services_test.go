package visient

import (
	"bytes"
	"context"
	"errors"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/visient/visient-go/api"
)

// --- AppService ---

func testApps(stub appStub) *AppService {
	return &AppService{userID: "alice", stub: stub}
}

func TestAppService_List_CollectsPages(t *testing.T) {
	// Full first page, short second page: two calls, all apps returned.
	var pagesAsked []int
	stub := &mockAppStub{
		listFn: func(_ context.Context, req *api.ListAppsRequest) (*api.MultiAppResponse, error) {
			pagesAsked = append(pagesAsked, req.Page)
			if req.PerPage != defaultListPageSize {
				t.Errorf("per_page = %d, want %d", req.PerPage, defaultListPageSize)
			}
			n := defaultListPageSize
			if req.Page == 2 {
				n = 3
			}
			apps := make([]*api.App, n)
			for i := range apps {
				apps[i] = &api.App{ID: "app"}
			}
			return &api.MultiAppResponse{Status: okStatus(), Apps: apps}, nil
		},
	}

	apps, err := testApps(stub).List(context.Background())
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(apps) != defaultListPageSize+3 {
		t.Errorf("len = %d, want %d", len(apps), defaultListPageSize+3)
	}
	if len(pagesAsked) != 2 || pagesAsked[0] != 1 || pagesAsked[1] != 2 {
		t.Errorf("pages asked = %v, want [1 2]", pagesAsked)
	}
}

func TestAppService_List_StatusFailure(t *testing.T) {
	stub := &mockAppStub{
		listFn: func(_ context.Context, _ *api.ListAppsRequest) (*api.MultiAppResponse, error) {
			return &api.MultiAppResponse{Status: failStatus()}, nil
		},
	}

	_, err := testApps(stub).List(context.Background())
	if !errors.Is(err, ErrRemoteFailure) {
		t.Fatalf("err = %v, want ErrRemoteFailure", err)
	}
}

func TestAppService_Create_DefaultWorkflow(t *testing.T) {
	stub := &mockAppStub{
		postFn: func(_ context.Context, req *api.PostAppsRequest) (*api.MultiAppResponse, error) {
			if req.UserAppID.UserID != "alice" {
				t.Errorf("user_id = %q, want alice", req.UserAppID.UserID)
			}
			if len(req.Apps) != 1 {
				t.Fatalf("apps = %d, want 1", len(req.Apps))
			}
			app := req.Apps[0]
			if app.ID != "demo" {
				t.Errorf("ID = %q, want demo", app.ID)
			}
			if app.DefaultWorkflowID != "general-image-recognition" {
				t.Errorf("workflow = %q, want general-image-recognition", app.DefaultWorkflowID)
			}
			return &api.MultiAppResponse{Status: okStatus(), Apps: req.Apps}, nil
		},
	}

	app, err := testApps(stub).Create(context.Background(), "demo")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if app.ID != "demo" {
		t.Errorf("ID = %q, want demo", app.ID)
	}
}

func TestAppService_Create_WorkflowOverride(t *testing.T) {
	stub := &mockAppStub{
		postFn: func(_ context.Context, req *api.PostAppsRequest) (*api.MultiAppResponse, error) {
			if req.Apps[0].DefaultWorkflowID != "face-detect" {
				t.Errorf("workflow = %q, want face-detect", req.Apps[0].DefaultWorkflowID)
			}
			return &api.MultiAppResponse{Status: okStatus(), Apps: req.Apps}, nil
		},
	}

	_, err := testApps(stub).Create(context.Background(), "demo", WithBaseWorkflow("face-detect"))
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
}

func TestAppService_Create_StatusFailure(t *testing.T) {
	stub := &mockAppStub{
		postFn: func(_ context.Context, _ *api.PostAppsRequest) (*api.MultiAppResponse, error) {
			return &api.MultiAppResponse{Status: failStatus()}, nil
		},
	}

	_, err := testApps(stub).Create(context.Background(), "demo")
	if !errors.Is(err, ErrRemoteFailure) {
		t.Fatalf("err = %v, want ErrRemoteFailure", err)
	}
}

func TestAppService_Get(t *testing.T) {
	stub := &mockAppStub{
		getFn: func(_ context.Context, req *api.GetAppRequest) (*api.SingleAppResponse, error) {
			if req.UserAppID.AppID != "demo" {
				t.Errorf("app_id = %q, want demo", req.UserAppID.AppID)
			}
			return &api.SingleAppResponse{Status: okStatus(), App: &api.App{ID: "demo"}}, nil
		},
	}

	app, err := testApps(stub).Get(context.Background(), "demo")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if app.ID != "demo" {
		t.Errorf("ID = %q, want demo", app.ID)
	}
}

func TestAppService_Delete(t *testing.T) {
	stub := &mockAppStub{
		deleteFn: func(_ context.Context, req *api.DeleteAppRequest) (*api.BaseResponse, error) {
			if req.UserAppID.AppID != "demo" {
				t.Errorf("app_id = %q, want demo", req.UserAppID.AppID)
			}
			return &api.BaseResponse{Status: okStatus()}, nil
		},
	}

	if err := testApps(stub).Delete(context.Background(), "demo"); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
}

func TestAppService_Delete_Error(t *testing.T) {
	stub := &mockAppStub{
		deleteFn: func(_ context.Context, _ *api.DeleteAppRequest) (*api.BaseResponse, error) {
			return nil, errors.New("fail")
		},
	}

	if err := testApps(stub).Delete(context.Background(), "demo"); err == nil {
		t.Fatal("expected error")
	}
}

// --- RunnerService ---

func testRunners(stub runnerStub) *RunnerService {
	return &RunnerService{userID: "alice", stub: stub}
}

func TestRunnerService_Create(t *testing.T) {
	stub := &mockRunnerStub{
		postFn: func(_ context.Context, req *api.PostRunnersRequest) (*api.MultiRunnerResponse, error) {
			if len(req.Runners) != 1 {
				t.Fatalf("runners = %d, want 1", len(req.Runners))
			}
			r := req.Runners[0]
			if r.ID != "runner-1" || r.Description != "gpu box" {
				t.Errorf("runner = %+v", r)
			}
			if len(r.Labels) != 2 || r.Labels[0] != "gpu" {
				t.Errorf("labels = %v, want [gpu eu-west]", r.Labels)
			}
			return &api.MultiRunnerResponse{Status: okStatus(), Runners: req.Runners}, nil
		},
	}

	r, err := testRunners(stub).Create(context.Background(), "runner-1", []string{"gpu", "eu-west"}, "gpu box")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if r.ID != "runner-1" {
		t.Errorf("ID = %q, want runner-1", r.ID)
	}
}

func TestRunnerService_List(t *testing.T) {
	stub := &mockRunnerStub{
		listFn: func(_ context.Context, req *api.ListRunnersRequest) (*api.MultiRunnerResponse, error) {
			return &api.MultiRunnerResponse{
				Status:  okStatus(),
				Runners: []*api.Runner{{ID: "runner-1"}},
			}, nil
		},
	}

	runners, err := testRunners(stub).List(context.Background())
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(runners) != 1 || runners[0].ID != "runner-1" {
		t.Errorf("runners = %+v, want one runner-1", runners)
	}
}

func TestRunnerService_Get_StatusFailure(t *testing.T) {
	stub := &mockRunnerStub{
		getFn: func(_ context.Context, _ *api.GetRunnerRequest) (*api.SingleRunnerResponse, error) {
			return &api.SingleRunnerResponse{Status: failStatus()}, nil
		},
	}

	_, err := testRunners(stub).Get(context.Background(), "runner-1")
	if !errors.Is(err, ErrRemoteFailure) {
		t.Fatalf("err = %v, want ErrRemoteFailure", err)
	}
}

func TestRunnerService_Delete(t *testing.T) {
	stub := &mockRunnerStub{
		deleteFn: func(_ context.Context, req *api.DeleteRunnerRequest) (*api.BaseResponse, error) {
			if req.RunnerID != "runner-1" {
				t.Errorf("runner_id = %q, want runner-1", req.RunnerID)
			}
			return &api.BaseResponse{Status: okStatus()}, nil
		},
	}

	if err := testRunners(stub).Delete(context.Background(), "runner-1"); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
}

// --- ModelService ---

func testModels(stub modelStub) *ModelService {
	return &ModelService{
		userAppID: &api.UserAppIDSet{UserID: "alice", AppID: "demo"},
		inputs:    testInputs(nil),
		stub:      stub,
	}
}

func TestModelService_PredictByURL(t *testing.T) {
	stub := &mockModelStub{
		postFn: func(_ context.Context, req *api.PostModelOutputsRequest) (*api.MultiOutputResponse, error) {
			if req.ModelID != "general" {
				t.Errorf("model_id = %q, want general", req.ModelID)
			}
			if len(req.Inputs) != 1 {
				t.Fatalf("inputs = %d, want 1", len(req.Inputs))
			}
			img := req.Inputs[0].Data.Image
			if img == nil || img.URL != "https://x/dog.jpg" {
				t.Errorf("image = %+v, want url set", img)
			}
			return &api.MultiOutputResponse{
				Status: okStatus(),
				Outputs: []*api.Output{{
					Data: &api.Data{Concepts: []api.Concept{{Name: "dog", Value: 0.99}}},
				}},
			}, nil
		},
	}

	outputs, err := testModels(stub).PredictByURL(context.Background(), "general", "https://x/dog.jpg", InputImage)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(outputs) != 1 || outputs[0].Data.Concepts[0].Name != "dog" {
		t.Errorf("outputs = %+v, want dog concept", outputs)
	}
}

func TestModelService_PredictByFilepath(t *testing.T) {
	path := filepath.Join(t.TempDir(), "note.txt")
	if err := os.WriteFile(path, []byte("hello platform"), 0o600); err != nil {
		t.Fatal(err)
	}

	stub := &mockModelStub{
		postFn: func(_ context.Context, req *api.PostModelOutputsRequest) (*api.MultiOutputResponse, error) {
			text := req.Inputs[0].Data.Text
			if text == nil || text.Raw != "hello platform" {
				t.Errorf("text = %+v, want file contents", text)
			}
			return &api.MultiOutputResponse{Status: okStatus()}, nil
		},
	}

	_, err := testModels(stub).PredictByFilepath(context.Background(), "summarizer", path, InputText)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
}

func TestModelService_PredictByFilepath_MissingFile(t *testing.T) {
	_, err := testModels(nil).PredictByFilepath(
		context.Background(), "general", filepath.Join(t.TempDir(), "absent.jpg"), InputImage)
	if err == nil {
		t.Fatal("expected error for missing file")
	}
}

func TestModelService_Predict_StatusFailure(t *testing.T) {
	stub := &mockModelStub{
		postFn: func(_ context.Context, _ *api.PostModelOutputsRequest) (*api.MultiOutputResponse, error) {
			return &api.MultiOutputResponse{Status: failStatus()}, nil
		},
	}

	_, err := testModels(stub).Predict(context.Background(), "general")
	if !errors.Is(err, ErrRemoteFailure) {
		t.Fatalf("err = %v, want ErrRemoteFailure", err)
	}
}

// --- WorkflowService ---

func testWorkflows(stub workflowStub) *WorkflowService {
	return &WorkflowService{
		userAppID: &api.UserAppIDSet{UserID: "alice", AppID: "demo"},
		inputs:    testInputs(nil),
		stub:      stub,
	}
}

func TestWorkflowService_PredictByBytes(t *testing.T) {
	stub := &mockWorkflowStub{
		resultsFn: func(_ context.Context, req *api.PostWorkflowResultsRequest) (*api.PostWorkflowResultsResponse, error) {
			if req.WorkflowID != "moderation" {
				t.Errorf("workflow_id = %q, want moderation", req.WorkflowID)
			}
			img := req.Inputs[0].Data.Image
			if img == nil || len(img.Base64) == 0 {
				t.Errorf("image = %+v, want inline bytes", img)
			}
			return &api.PostWorkflowResultsResponse{
				Status:  okStatus(),
				Results: []*api.WorkflowResult{{Status: okStatus()}},
			}, nil
		},
	}

	results, err := testWorkflows(stub).PredictByBytes(
		context.Background(), "moderation", []byte{0x01, 0x02}, InputImage)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(results) != 1 {
		t.Errorf("results = %d, want 1", len(results))
	}
}

func TestWorkflowService_ListVersions(t *testing.T) {
	stub := &mockWorkflowStub{
		listVersionsFn: func(_ context.Context, req *api.ListWorkflowVersionsRequest) (*api.MultiWorkflowVersionResponse, error) {
			if req.WorkflowID != "moderation" {
				t.Errorf("workflow_id = %q, want moderation", req.WorkflowID)
			}
			return &api.MultiWorkflowVersionResponse{
				Status:           okStatus(),
				WorkflowVersions: []*api.WorkflowVersion{{ID: "v1"}, {ID: "v2"}},
			}, nil
		},
	}

	versions, err := testWorkflows(stub).ListVersions(context.Background(), "moderation")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(versions) != 2 {
		t.Errorf("versions = %d, want 2", len(versions))
	}
}

func TestWorkflowService_Export(t *testing.T) {
	stub := &mockWorkflowStub{
		getFn: func(_ context.Context, req *api.GetWorkflowRequest) (*api.SingleWorkflowResponse, error) {
			return &api.SingleWorkflowResponse{
				Status: okStatus(),
				Workflow: &api.Workflow{
					ID: "moderation",
					Nodes: []api.WorkflowNode{
						{ID: "detect", Model: &api.Model{ID: "nsfw-v1", VersionID: "aa7f"}},
					},
				},
			}, nil
		},
	}

	var buf bytes.Buffer
	if err := testWorkflows(stub).Export(context.Background(), "moderation", &buf); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	out := buf.String()
	for _, want := range []string{"workflow:", "id: moderation", "id: detect", "model_id: nsfw-v1", "model_version_id: aa7f"} {
		if !strings.Contains(out, want) {
			t.Errorf("export missing %q:\n%s", want, out)
		}
	}
}

func TestWorkflowService_Export_StatusFailure(t *testing.T) {
	stub := &mockWorkflowStub{
		getFn: func(_ context.Context, _ *api.GetWorkflowRequest) (*api.SingleWorkflowResponse, error) {
			return &api.SingleWorkflowResponse{Status: failStatus()}, nil
		},
	}

	var buf bytes.Buffer
	err := testWorkflows(stub).Export(context.Background(), "moderation", &buf)
	if !errors.Is(err, ErrRemoteFailure) {
		t.Fatalf("err = %v, want ErrRemoteFailure", err)
	}
	if buf.Len() != 0 {
		t.Errorf("wrote %d bytes on failure, want 0", buf.Len())
	}
}

// --- ModuleService ---

func TestModuleService_ListVersions(t *testing.T) {
	stub := &mockModuleStub{
		listVersionsFn: func(_ context.Context, req *api.ListModuleVersionsRequest) (*api.MultiModuleVersionResponse, error) {
			if req.ModuleID != "dashboard" {
				t.Errorf("module_id = %q, want dashboard", req.ModuleID)
			}
			return &api.MultiModuleVersionResponse{
				Status:         okStatus(),
				ModuleVersions: []*api.ModuleVersion{{ID: "mv1"}},
			}, nil
		},
	}

	svc := &ModuleService{
		userAppID: &api.UserAppIDSet{UserID: "alice", AppID: "demo"},
		stub:      stub,
	}
	versions, err := svc.ListVersions(context.Background(), "dashboard")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(versions) != 1 || versions[0].ID != "mv1" {
		t.Errorf("versions = %+v, want one mv1", versions)
	}
}

// --- Client accessors ---

func TestClient_Accessors(t *testing.T) {
	c := testClient(&mockSearchStub{}, &mockInputStub{}, &mockAppStub{},
		&mockRunnerStub{}, &mockModelStub{}, &mockWorkflowStub{}, &mockModuleStub{})

	if c.Inputs("alice", "demo") == nil {
		t.Error("Inputs() returned nil")
	}
	if c.Apps("alice") == nil {
		t.Error("Apps() returned nil")
	}
	if c.Runners("alice") == nil {
		t.Error("Runners() returned nil")
	}
	if c.Models("alice", "demo") == nil {
		t.Error("Models() returned nil")
	}
	if c.Workflows("alice", "demo") == nil {
		t.Error("Workflows() returned nil")
	}
	if c.Modules("alice", "demo") == nil {
		t.Error("Modules() returned nil")
	}
}
