package visient

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"

	"github.com/visient/visient-go/api"
)

// InputService constructs and uploads platform inputs for one app.
type InputService struct {
	userAppID *api.UserAppIDSet
	stub      inputStub
	obs       *observer
}

// InputOption attaches optional payload to a constructed input.
type InputOption interface {
	applyInput(*api.Data)
}

// inputOptionFunc adapts a function to the InputOption interface.
type inputOptionFunc func(*api.Data)

func (f inputOptionFunc) applyInput(d *api.Data) { f(d) }

// WithLabels attaches concept labels, each with value 1.
func WithLabels(names ...string) InputOption {
	return inputOptionFunc(func(d *api.Data) {
		for _, n := range names {
			d.Concepts = append(d.Concepts, api.Concept{ID: n, Name: n, Value: 1})
		}
	})
}

// WithGeo attaches a geo point to the input.
func WithGeo(longitude, latitude float64) InputOption {
	return inputOptionFunc(func(d *api.Data) {
		d.Geo = &api.Geo{GeoPoint: api.GeoPoint{Longitude: longitude, Latitude: latitude}}
	})
}

// WithMetadata attaches structured metadata to the input.
func WithMetadata(md map[string]any) InputOption {
	return inputOptionFunc(func(d *api.Data) {
		d.Metadata = md
	})
}

// FromURL constructs an input referencing media by URL. Nothing is fetched
// client-side. An empty inputID gets a generated UUID.
func (s *InputService) FromURL(inputID string, kind InputKind, url string, opts ...InputOption) *api.Input {
	data := &api.Data{}
	switch kind {
	case InputImage:
		data.Image = &api.Image{URL: url}
	case InputText:
		data.Text = &api.Text{URL: url}
	case InputVideo:
		data.Video = &api.Video{URL: url}
	case InputAudio:
		data.Audio = &api.Audio{URL: url}
	}
	return s.assemble(inputID, data, opts)
}

// FromBytes constructs an input carrying media inline. Text kinds take the
// bytes as raw UTF-8 text. An empty inputID gets a generated UUID.
func (s *InputService) FromBytes(inputID string, kind InputKind, raw []byte, opts ...InputOption) *api.Input {
	data := &api.Data{}
	switch kind {
	case InputImage:
		data.Image = &api.Image{Base64: raw}
	case InputText:
		data.Text = &api.Text{Raw: string(raw)}
	case InputVideo:
		data.Video = &api.Video{Base64: raw}
	case InputAudio:
		data.Audio = &api.Audio{Base64: raw}
	}
	return s.assemble(inputID, data, opts)
}

func (s *InputService) assemble(inputID string, data *api.Data, opts []InputOption) *api.Input {
	for _, o := range opts {
		o.applyInput(data)
	}
	if inputID == "" {
		inputID = uuid.NewString()
	}
	return &api.Input{ID: inputID, Data: data}
}

// Upload stores inputs in the app and returns them as stored.
func (s *InputService) Upload(ctx context.Context, inputs ...*api.Input) (_ []*api.Input, err error) {
	start := time.Now()
	defer func() { s.obs.observe("inputs.upload", start, err) }()

	resp, err := s.stub.PostInputs(ctx, &api.PostInputsRequest{
		UserAppID: s.userAppID,
		Inputs:    inputs,
	})
	if err != nil {
		return nil, fmt.Errorf("upload inputs: %w", err)
	}
	if !resp.Status.Success() {
		return nil, NewStatusError(resp.Status, resp)
	}
	return resp.Inputs, nil
}
