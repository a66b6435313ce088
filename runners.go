package visient

import (
	"context"
	"fmt"
	"time"

	"github.com/visient/visient-go/api"
)

// RunnerService manages the compute runners of one user.
type RunnerService struct {
	userID string
	stub   runnerStub
	obs    *observer
}

// List returns every runner of the user, collecting all pages.
func (s *RunnerService) List(ctx context.Context) (_ []*api.Runner, err error) {
	start := time.Now()
	defer func() { s.obs.observe("runners.list", start, err) }()

	return collectPages(ctx, defaultListPageSize, func(ctx context.Context, page, perPage int) ([]*api.Runner, error) {
		resp, err := s.stub.ListRunners(ctx, &api.ListRunnersRequest{
			UserAppID: &api.UserAppIDSet{UserID: s.userID},
			Page:      page,
			PerPage:   perPage,
		})
		if err != nil {
			return nil, fmt.Errorf("list runners page %d: %w", page, err)
		}
		if !resp.Status.Success() {
			return nil, NewStatusError(resp.Status, resp)
		}
		return resp.Runners, nil
	})
}

// Create registers a compute runner under the user.
func (s *RunnerService) Create(ctx context.Context, runnerID string, labels []string, description string) (_ *api.Runner, err error) {
	start := time.Now()
	defer func() { s.obs.observe("runners.create", start, err) }()

	resp, err := s.stub.PostRunners(ctx, &api.PostRunnersRequest{
		UserAppID: &api.UserAppIDSet{UserID: s.userID},
		Runners: []*api.Runner{{
			ID:          runnerID,
			Description: description,
			Labels:      labels,
		}},
	})
	if err != nil {
		return nil, fmt.Errorf("create runner %q: %w", runnerID, err)
	}
	if !resp.Status.Success() {
		return nil, NewStatusError(resp.Status, resp)
	}
	if len(resp.Runners) == 0 {
		return nil, fmt.Errorf("create runner %q: empty response", runnerID)
	}
	return resp.Runners[0], nil
}

// Get fetches one runner.
func (s *RunnerService) Get(ctx context.Context, runnerID string) (_ *api.Runner, err error) {
	start := time.Now()
	defer func() { s.obs.observe("runners.get", start, err) }()

	resp, err := s.stub.GetRunner(ctx, &api.GetRunnerRequest{
		UserAppID: &api.UserAppIDSet{UserID: s.userID},
		RunnerID:  runnerID,
	})
	if err != nil {
		return nil, fmt.Errorf("get runner %q: %w", runnerID, err)
	}
	if !resp.Status.Success() {
		return nil, NewStatusError(resp.Status, resp)
	}
	return resp.Runner, nil
}

// Delete deregisters one runner.
func (s *RunnerService) Delete(ctx context.Context, runnerID string) (err error) {
	start := time.Now()
	defer func() { s.obs.observe("runners.delete", start, err) }()

	resp, err := s.stub.DeleteRunner(ctx, &api.DeleteRunnerRequest{
		UserAppID: &api.UserAppIDSet{UserID: s.userID},
		RunnerID:  runnerID,
	})
	if err != nil {
		return fmt.Errorf("delete runner %q: %w", runnerID, err)
	}
	if !resp.Status.Success() {
		return NewStatusError(resp.Status, resp)
	}
	return nil
}
