package rest

import (
	"context"
	"net/http"
	"net/url"
	"strconv"

	"github.com/visient/visient-go/api"
)

func userPath(ua *api.UserAppIDSet) string {
	var uid string
	if ua != nil {
		uid = ua.UserID
	}
	return "/v2/users/" + url.PathEscape(uid)
}

func appPath(ua *api.UserAppIDSet) string {
	var aid string
	if ua != nil {
		aid = ua.AppID
	}
	return userPath(ua) + "/apps/" + url.PathEscape(aid)
}

func listQuery(page, perPage int) url.Values {
	q := url.Values{}
	if page > 0 {
		q.Set("page", strconv.Itoa(page))
	}
	if perPage > 0 {
		q.Set("per_page", strconv.Itoa(perPage))
	}
	return q
}

// PostAnnotationsSearches fetches one page of annotation search results.
func (c *Client) PostAnnotationsSearches(ctx context.Context, req *api.PostAnnotationsSearchesRequest) (*api.PostAnnotationsSearchesResponse, error) {
	var resp api.PostAnnotationsSearchesResponse
	if err := c.do(ctx, http.MethodPost, appPath(req.UserAppID)+"/annotations/searches", nil, req, &resp); err != nil {
		return nil, err
	}
	return &resp, nil
}

// PostInputs uploads inputs into an app.
func (c *Client) PostInputs(ctx context.Context, req *api.PostInputsRequest) (*api.MultiInputResponse, error) {
	var resp api.MultiInputResponse
	if err := c.do(ctx, http.MethodPost, appPath(req.UserAppID)+"/inputs", nil, req, &resp); err != nil {
		return nil, err
	}
	return &resp, nil
}

// ListApps lists one page of a user's apps.
func (c *Client) ListApps(ctx context.Context, req *api.ListAppsRequest) (*api.MultiAppResponse, error) {
	var resp api.MultiAppResponse
	if err := c.do(ctx, http.MethodGet, userPath(req.UserAppID)+"/apps", listQuery(req.Page, req.PerPage), nil, &resp); err != nil {
		return nil, err
	}
	return &resp, nil
}

// PostApps creates apps under a user.
func (c *Client) PostApps(ctx context.Context, req *api.PostAppsRequest) (*api.MultiAppResponse, error) {
	var resp api.MultiAppResponse
	if err := c.do(ctx, http.MethodPost, userPath(req.UserAppID)+"/apps", nil, req, &resp); err != nil {
		return nil, err
	}
	return &resp, nil
}

// GetApp fetches the app named by the request scope.
func (c *Client) GetApp(ctx context.Context, req *api.GetAppRequest) (*api.SingleAppResponse, error) {
	var resp api.SingleAppResponse
	if err := c.do(ctx, http.MethodGet, appPath(req.UserAppID), nil, nil, &resp); err != nil {
		return nil, err
	}
	return &resp, nil
}

// DeleteApp deletes the app named by the request scope.
func (c *Client) DeleteApp(ctx context.Context, req *api.DeleteAppRequest) (*api.BaseResponse, error) {
	var resp api.BaseResponse
	if err := c.do(ctx, http.MethodDelete, appPath(req.UserAppID), nil, req, &resp); err != nil {
		return nil, err
	}
	return &resp, nil
}

// ListRunners lists one page of a user's runners.
func (c *Client) ListRunners(ctx context.Context, req *api.ListRunnersRequest) (*api.MultiRunnerResponse, error) {
	var resp api.MultiRunnerResponse
	if err := c.do(ctx, http.MethodGet, userPath(req.UserAppID)+"/runners", listQuery(req.Page, req.PerPage), nil, &resp); err != nil {
		return nil, err
	}
	return &resp, nil
}

// PostRunners registers runners under a user.
func (c *Client) PostRunners(ctx context.Context, req *api.PostRunnersRequest) (*api.MultiRunnerResponse, error) {
	var resp api.MultiRunnerResponse
	if err := c.do(ctx, http.MethodPost, userPath(req.UserAppID)+"/runners", nil, req, &resp); err != nil {
		return nil, err
	}
	return &resp, nil
}

// GetRunner fetches a single runner.
func (c *Client) GetRunner(ctx context.Context, req *api.GetRunnerRequest) (*api.SingleRunnerResponse, error) {
	var resp api.SingleRunnerResponse
	if err := c.do(ctx, http.MethodGet, userPath(req.UserAppID)+"/runners/"+url.PathEscape(req.RunnerID), nil, nil, &resp); err != nil {
		return nil, err
	}
	return &resp, nil
}

// DeleteRunner removes a runner.
func (c *Client) DeleteRunner(ctx context.Context, req *api.DeleteRunnerRequest) (*api.BaseResponse, error) {
	var resp api.BaseResponse
	if err := c.do(ctx, http.MethodDelete, userPath(req.UserAppID)+"/runners/"+url.PathEscape(req.RunnerID), nil, req, &resp); err != nil {
		return nil, err
	}
	return &resp, nil
}

// PostModelOutputs runs a model over the request inputs.
func (c *Client) PostModelOutputs(ctx context.Context, req *api.PostModelOutputsRequest) (*api.MultiOutputResponse, error) {
	var resp api.MultiOutputResponse
	if err := c.do(ctx, http.MethodPost, appPath(req.UserAppID)+"/models/"+url.PathEscape(req.ModelID)+"/outputs", nil, req, &resp); err != nil {
		return nil, err
	}
	return &resp, nil
}

// PostWorkflowResults runs a workflow over the request inputs.
func (c *Client) PostWorkflowResults(ctx context.Context, req *api.PostWorkflowResultsRequest) (*api.PostWorkflowResultsResponse, error) {
	var resp api.PostWorkflowResultsResponse
	if err := c.do(ctx, http.MethodPost, appPath(req.UserAppID)+"/workflows/"+url.PathEscape(req.WorkflowID)+"/results", nil, req, &resp); err != nil {
		return nil, err
	}
	return &resp, nil
}

// GetWorkflow fetches a workflow definition.
func (c *Client) GetWorkflow(ctx context.Context, req *api.GetWorkflowRequest) (*api.SingleWorkflowResponse, error) {
	var resp api.SingleWorkflowResponse
	if err := c.do(ctx, http.MethodGet, appPath(req.UserAppID)+"/workflows/"+url.PathEscape(req.WorkflowID), nil, nil, &resp); err != nil {
		return nil, err
	}
	return &resp, nil
}

// ListWorkflowVersions lists one page of a workflow's versions.
func (c *Client) ListWorkflowVersions(ctx context.Context, req *api.ListWorkflowVersionsRequest) (*api.MultiWorkflowVersionResponse, error) {
	var resp api.MultiWorkflowVersionResponse
	path := appPath(req.UserAppID) + "/workflows/" + url.PathEscape(req.WorkflowID) + "/versions"
	if err := c.do(ctx, http.MethodGet, path, listQuery(req.Page, req.PerPage), nil, &resp); err != nil {
		return nil, err
	}
	return &resp, nil
}

// ListModuleVersions lists one page of a module's versions.
func (c *Client) ListModuleVersions(ctx context.Context, req *api.ListModuleVersionsRequest) (*api.MultiModuleVersionResponse, error) {
	var resp api.MultiModuleVersionResponse
	path := appPath(req.UserAppID) + "/modules/" + url.PathEscape(req.ModuleID) + "/versions"
	if err := c.do(ctx, http.MethodGet, path, listQuery(req.Page, req.PerPage), nil, &resp); err != nil {
		return nil, err
	}
	return &resp, nil
}
