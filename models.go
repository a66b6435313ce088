package visient

import (
	"context"
	"fmt"
	"os"
	"time"

	"github.com/visient/visient-go/api"
)

// ModelService runs model predictions within one app.
type ModelService struct {
	userAppID *api.UserAppIDSet
	inputs    *InputService
	stub      modelStub
	obs       *observer
}

// Predict runs a model over the given inputs, one output per input.
func (s *ModelService) Predict(ctx context.Context, modelID string, inputs ...*api.Input) (_ []*api.Output, err error) {
	start := time.Now()
	defer func() { s.obs.observe("models.predict", start, err) }()

	resp, err := s.stub.PostModelOutputs(ctx, &api.PostModelOutputsRequest{
		UserAppID: s.userAppID,
		ModelID:   modelID,
		Inputs:    inputs,
	})
	if err != nil {
		return nil, fmt.Errorf("predict with model %q: %w", modelID, err)
	}
	if !resp.Status.Success() {
		return nil, NewStatusError(resp.Status, resp)
	}
	return resp.Outputs, nil
}

// PredictByURL predicts on media referenced by URL.
func (s *ModelService) PredictByURL(ctx context.Context, modelID, url string, kind InputKind) ([]*api.Output, error) {
	return s.Predict(ctx, modelID, s.inputs.FromURL("", kind, url))
}

// PredictByBytes predicts on media passed inline.
func (s *ModelService) PredictByBytes(ctx context.Context, modelID string, raw []byte, kind InputKind) ([]*api.Output, error) {
	return s.Predict(ctx, modelID, s.inputs.FromBytes("", kind, raw))
}

// PredictByFilepath reads a local file and predicts on its contents.
func (s *ModelService) PredictByFilepath(ctx context.Context, modelID, path string, kind InputKind) ([]*api.Output, error) {
	raw, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read %s: %w", path, err)
	}
	return s.PredictByBytes(ctx, modelID, raw, kind)
}
