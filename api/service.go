package api

// Pagination selects one page of a multi-page response.
// Pages are numbered from 1.
type Pagination struct {
	Page    int `json:"page"`
	PerPage int `json:"per_page"`
}

// Rank is a similarity-preference search stage.
type Rank struct {
	Annotation *Annotation `json:"annotation,omitempty"`
}

// Filter is a hard-constraint search stage.
type Filter struct {
	Annotation *Annotation `json:"annotation,omitempty"`
}

// Query groups the rank and filter stages of one search.
type Query struct {
	Ranks   []Rank   `json:"ranks,omitempty"`
	Filters []Filter `json:"filters,omitempty"`
}

// Search pairs a query with a distance metric. Metric is one of the
// fixed wire identifiers (COSINE_DISTANCE, EUCLIDEAN_DISTANCE).
type Search struct {
	Query  *Query `json:"query,omitempty"`
	Metric string `json:"metric,omitempty"`
}

// PostAnnotationsSearchesRequest requests one page of annotation search
// results.
type PostAnnotationsSearchesRequest struct {
	UserAppID  *UserAppIDSet `json:"user_app_id,omitempty"`
	Searches   []*Search     `json:"searches,omitempty"`
	Pagination *Pagination   `json:"pagination,omitempty"`
}

// PostAnnotationsSearchesResponse is one page of search hits. An exhausted
// result set omits Hits entirely.
type PostAnnotationsSearchesResponse struct {
	Status *Status `json:"status,omitempty"`
	Hits   []*Hit  `json:"hits,omitempty"`
}

// PostInputsRequest uploads inputs into an app.
type PostInputsRequest struct {
	UserAppID *UserAppIDSet `json:"user_app_id,omitempty"`
	Inputs    []*Input      `json:"inputs,omitempty"`
}

// MultiInputResponse carries the stored inputs back.
type MultiInputResponse struct {
	Status *Status  `json:"status,omitempty"`
	Inputs []*Input `json:"inputs,omitempty"`
}

// ListAppsRequest lists apps of a user, one page at a time.
type ListAppsRequest struct {
	UserAppID *UserAppIDSet `json:"user_app_id,omitempty"`
	Page      int           `json:"page,omitempty"`
	PerPage   int           `json:"per_page,omitempty"`
}

// MultiAppResponse is one page of apps.
type MultiAppResponse struct {
	Status *Status `json:"status,omitempty"`
	Apps   []*App  `json:"apps,omitempty"`
}

// PostAppsRequest creates apps under a user.
type PostAppsRequest struct {
	UserAppID *UserAppIDSet `json:"user_app_id,omitempty"`
	Apps      []*App        `json:"apps,omitempty"`
}

// GetAppRequest fetches a single app; the app is named by UserAppID.
type GetAppRequest struct {
	UserAppID *UserAppIDSet `json:"user_app_id,omitempty"`
}

// SingleAppResponse carries one app.
type SingleAppResponse struct {
	Status *Status `json:"status,omitempty"`
	App    *App    `json:"app,omitempty"`
}

// DeleteAppRequest deletes the app named by UserAppID.
type DeleteAppRequest struct {
	UserAppID *UserAppIDSet `json:"user_app_id,omitempty"`
}

// BaseResponse is a status-only envelope.
type BaseResponse struct {
	Status *Status `json:"status,omitempty"`
}

// ListRunnersRequest lists runners of a user, one page at a time.
type ListRunnersRequest struct {
	UserAppID *UserAppIDSet `json:"user_app_id,omitempty"`
	Page      int           `json:"page,omitempty"`
	PerPage   int           `json:"per_page,omitempty"`
}

// MultiRunnerResponse is one page of runners.
type MultiRunnerResponse struct {
	Status  *Status   `json:"status,omitempty"`
	Runners []*Runner `json:"runners,omitempty"`
}

// PostRunnersRequest registers runners under a user.
type PostRunnersRequest struct {
	UserAppID *UserAppIDSet `json:"user_app_id,omitempty"`
	Runners   []*Runner     `json:"runners,omitempty"`
}

// GetRunnerRequest fetches a single runner.
type GetRunnerRequest struct {
	UserAppID *UserAppIDSet `json:"user_app_id,omitempty"`
	RunnerID  string        `json:"runner_id,omitempty"`
}

// SingleRunnerResponse carries one runner.
type SingleRunnerResponse struct {
	Status *Status `json:"status,omitempty"`
	Runner *Runner `json:"runner,omitempty"`
}

// DeleteRunnerRequest removes a runner.
type DeleteRunnerRequest struct {
	UserAppID *UserAppIDSet `json:"user_app_id,omitempty"`
	RunnerID  string        `json:"runner_id,omitempty"`
}

// PostModelOutputsRequest runs a model over the given inputs.
type PostModelOutputsRequest struct {
	UserAppID *UserAppIDSet `json:"user_app_id,omitempty"`
	ModelID   string        `json:"model_id,omitempty"`
	VersionID string        `json:"version_id,omitempty"`
	Inputs    []*Input      `json:"inputs,omitempty"`
}

// MultiOutputResponse carries one output per requested input.
type MultiOutputResponse struct {
	Status  *Status   `json:"status,omitempty"`
	Outputs []*Output `json:"outputs,omitempty"`
}

// PostWorkflowResultsRequest runs a workflow over the given inputs.
type PostWorkflowResultsRequest struct {
	UserAppID  *UserAppIDSet `json:"user_app_id,omitempty"`
	WorkflowID string        `json:"workflow_id,omitempty"`
	Inputs     []*Input      `json:"inputs,omitempty"`
}

// PostWorkflowResultsResponse carries one result per requested input.
type PostWorkflowResultsResponse struct {
	Status  *Status           `json:"status,omitempty"`
	Results []*WorkflowResult `json:"results,omitempty"`
}

// GetWorkflowRequest fetches a workflow definition.
type GetWorkflowRequest struct {
	UserAppID  *UserAppIDSet `json:"user_app_id,omitempty"`
	WorkflowID string        `json:"workflow_id,omitempty"`
}

// SingleWorkflowResponse carries one workflow.
type SingleWorkflowResponse struct {
	Status   *Status   `json:"status,omitempty"`
	Workflow *Workflow `json:"workflow,omitempty"`
}

// ListWorkflowVersionsRequest lists versions of a workflow.
type ListWorkflowVersionsRequest struct {
	UserAppID  *UserAppIDSet `json:"user_app_id,omitempty"`
	WorkflowID string        `json:"workflow_id,omitempty"`
	Page       int           `json:"page,omitempty"`
	PerPage    int           `json:"per_page,omitempty"`
}

// MultiWorkflowVersionResponse is one page of workflow versions.
type MultiWorkflowVersionResponse struct {
	Status           *Status            `json:"status,omitempty"`
	WorkflowVersions []*WorkflowVersion `json:"workflow_versions,omitempty"`
}

// ListModuleVersionsRequest lists versions of a module.
type ListModuleVersionsRequest struct {
	UserAppID *UserAppIDSet `json:"user_app_id,omitempty"`
	ModuleID  string        `json:"module_id,omitempty"`
	Page      int           `json:"page,omitempty"`
	PerPage   int           `json:"per_page,omitempty"`
}

// MultiModuleVersionResponse is one page of module versions.
type MultiModuleVersionResponse struct {
	Status         *Status          `json:"status,omitempty"`
	ModuleVersions []*ModuleVersion `json:"module_versions,omitempty"`
}
