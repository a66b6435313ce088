package visient

import (
	"context"
	"fmt"
	"io"
	"os"
	"time"

	"gopkg.in/yaml.v3"

	"github.com/visient/visient-go/api"
)

// WorkflowService runs workflows within one app.
type WorkflowService struct {
	userAppID *api.UserAppIDSet
	inputs    *InputService
	stub      workflowStub
	obs       *observer
}

// Predict runs a workflow over the given inputs, one result per input.
func (s *WorkflowService) Predict(ctx context.Context, workflowID string, inputs ...*api.Input) (_ []*api.WorkflowResult, err error) {
	start := time.Now()
	defer func() { s.obs.observe("workflows.predict", start, err) }()

	resp, err := s.stub.PostWorkflowResults(ctx, &api.PostWorkflowResultsRequest{
		UserAppID:  s.userAppID,
		WorkflowID: workflowID,
		Inputs:     inputs,
	})
	if err != nil {
		return nil, fmt.Errorf("run workflow %q: %w", workflowID, err)
	}
	if !resp.Status.Success() {
		return nil, NewStatusError(resp.Status, resp)
	}
	return resp.Results, nil
}

// PredictByURL runs a workflow on media referenced by URL.
func (s *WorkflowService) PredictByURL(ctx context.Context, workflowID, url string, kind InputKind) ([]*api.WorkflowResult, error) {
	return s.Predict(ctx, workflowID, s.inputs.FromURL("", kind, url))
}

// PredictByBytes runs a workflow on media passed inline.
func (s *WorkflowService) PredictByBytes(ctx context.Context, workflowID string, raw []byte, kind InputKind) ([]*api.WorkflowResult, error) {
	return s.Predict(ctx, workflowID, s.inputs.FromBytes("", kind, raw))
}

// PredictByFilepath reads a local file and runs a workflow on its contents.
func (s *WorkflowService) PredictByFilepath(ctx context.Context, workflowID, path string, kind InputKind) ([]*api.WorkflowResult, error) {
	raw, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read %s: %w", path, err)
	}
	return s.PredictByBytes(ctx, workflowID, raw, kind)
}

// ListVersions returns every version of a workflow, collecting all pages.
func (s *WorkflowService) ListVersions(ctx context.Context, workflowID string) (_ []*api.WorkflowVersion, err error) {
	start := time.Now()
	defer func() { s.obs.observe("workflows.list_versions", start, err) }()

	return collectPages(ctx, defaultListPageSize, func(ctx context.Context, page, perPage int) ([]*api.WorkflowVersion, error) {
		resp, err := s.stub.ListWorkflowVersions(ctx, &api.ListWorkflowVersionsRequest{
			UserAppID:  s.userAppID,
			WorkflowID: workflowID,
			Page:       page,
			PerPage:    perPage,
		})
		if err != nil {
			return nil, fmt.Errorf("list workflow versions page %d: %w", page, err)
		}
		if !resp.Status.Success() {
			return nil, NewStatusError(resp.Status, resp)
		}
		return resp.WorkflowVersions, nil
	})
}

// workflowDoc is the YAML export layout: the workflow ID plus its node
// graph, each node naming its model and pinned version.
type workflowDoc struct {
	Workflow workflowBody `yaml:"workflow"`
}

type workflowBody struct {
	ID    string        `yaml:"id"`
	Nodes []workflowDef `yaml:"nodes,omitempty"`
}

type workflowDef struct {
	ID    string      `yaml:"id"`
	Model modelAnchor `yaml:"model"`
}

type modelAnchor struct {
	ModelID   string `yaml:"model_id"`
	VersionID string `yaml:"model_version_id,omitempty"`
}

// Export fetches the workflow and writes its definition to w as a YAML
// document.
func (s *WorkflowService) Export(ctx context.Context, workflowID string, w io.Writer) (err error) {
	start := time.Now()
	defer func() { s.obs.observe("workflows.export", start, err) }()

	resp, err := s.stub.GetWorkflow(ctx, &api.GetWorkflowRequest{
		UserAppID:  s.userAppID,
		WorkflowID: workflowID,
	})
	if err != nil {
		return fmt.Errorf("get workflow %q: %w", workflowID, err)
	}
	if !resp.Status.Success() {
		return NewStatusError(resp.Status, resp)
	}

	doc := workflowDoc{Workflow: workflowBody{ID: resp.Workflow.ID}}
	for _, n := range resp.Workflow.Nodes {
		def := workflowDef{ID: n.ID}
		if n.Model != nil {
			def.Model = modelAnchor{ModelID: n.Model.ID, VersionID: n.Model.VersionID}
		}
		doc.Workflow.Nodes = append(doc.Workflow.Nodes, def)
	}

	enc := yaml.NewEncoder(w)
	enc.SetIndent(2)
	if err := enc.Encode(doc); err != nil {
		return fmt.Errorf("encode workflow %q: %w", workflowID, err)
	}
	return enc.Close()
}
