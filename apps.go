package visient

import (
	"context"
	"fmt"
	"time"

	"github.com/visient/visient-go/api"
)

// defaultBaseWorkflow is assigned to newly created apps unless overridden.
const defaultBaseWorkflow = "general-image-recognition"

// AppService manages the applications of one user.
type AppService struct {
	userID string
	stub   appStub
	obs    *observer
}

// AppOption adjusts app creation.
type AppOption interface {
	applyApp(*api.App)
}

type appOptionFunc func(*api.App)

func (f appOptionFunc) applyApp(a *api.App) { f(a) }

// WithBaseWorkflow overrides the base workflow of a new app.
func WithBaseWorkflow(workflowID string) AppOption {
	return appOptionFunc(func(a *api.App) { a.DefaultWorkflowID = workflowID })
}

// WithAppDescription sets the description of a new app.
func WithAppDescription(description string) AppOption {
	return appOptionFunc(func(a *api.App) { a.Description = description })
}

// List returns every app of the user, collecting all pages.
func (s *AppService) List(ctx context.Context) (_ []*api.App, err error) {
	start := time.Now()
	defer func() { s.obs.observe("apps.list", start, err) }()

	return collectPages(ctx, defaultListPageSize, func(ctx context.Context, page, perPage int) ([]*api.App, error) {
		resp, err := s.stub.ListApps(ctx, &api.ListAppsRequest{
			UserAppID: &api.UserAppIDSet{UserID: s.userID},
			Page:      page,
			PerPage:   perPage,
		})
		if err != nil {
			return nil, fmt.Errorf("list apps page %d: %w", page, err)
		}
		if !resp.Status.Success() {
			return nil, NewStatusError(resp.Status, resp)
		}
		return resp.Apps, nil
	})
}

// Create registers a new app under the user.
func (s *AppService) Create(ctx context.Context, appID string, opts ...AppOption) (_ *api.App, err error) {
	start := time.Now()
	defer func() { s.obs.observe("apps.create", start, err) }()

	app := &api.App{ID: appID, DefaultWorkflowID: defaultBaseWorkflow}
	for _, o := range opts {
		o.applyApp(app)
	}

	resp, err := s.stub.PostApps(ctx, &api.PostAppsRequest{
		UserAppID: &api.UserAppIDSet{UserID: s.userID},
		Apps:      []*api.App{app},
	})
	if err != nil {
		return nil, fmt.Errorf("create app %q: %w", appID, err)
	}
	if !resp.Status.Success() {
		return nil, NewStatusError(resp.Status, resp)
	}
	if len(resp.Apps) == 0 {
		return nil, fmt.Errorf("create app %q: empty response", appID)
	}
	return resp.Apps[0], nil
}

// Get fetches one app.
func (s *AppService) Get(ctx context.Context, appID string) (_ *api.App, err error) {
	start := time.Now()
	defer func() { s.obs.observe("apps.get", start, err) }()

	resp, err := s.stub.GetApp(ctx, &api.GetAppRequest{
		UserAppID: &api.UserAppIDSet{UserID: s.userID, AppID: appID},
	})
	if err != nil {
		return nil, fmt.Errorf("get app %q: %w", appID, err)
	}
	if !resp.Status.Success() {
		return nil, NewStatusError(resp.Status, resp)
	}
	return resp.App, nil
}

// Delete removes one app and everything stored in it.
func (s *AppService) Delete(ctx context.Context, appID string) (err error) {
	start := time.Now()
	defer func() { s.obs.observe("apps.delete", start, err) }()

	resp, err := s.stub.DeleteApp(ctx, &api.DeleteAppRequest{
		UserAppID: &api.UserAppIDSet{UserID: s.userID, AppID: appID},
	})
	if err != nil {
		return fmt.Errorf("delete app %q: %w", appID, err)
	}
	if !resp.Status.Success() {
		return NewStatusError(resp.Status, resp)
	}
	return nil
}
