// Package api defines the wire messages of the Visient platform API.
//
// Messages marshal to the platform's JSON representation: snake_case field
// names, zero values omitted (absent and zero are indistinguishable on the
// wire, matching the service's own encoding).
package api

// UserAppIDSet scopes a request to a user and, optionally, an application.
type UserAppIDSet struct {
	UserID string `json:"user_id,omitempty"`
	AppID  string `json:"app_id,omitempty"`
}

// Image references image content by URL or carries it inline.
type Image struct {
	URL    string `json:"url,omitempty"`
	Base64 []byte `json:"base64,omitempty"`
}

// Text carries raw text content or references it by URL.
type Text struct {
	Raw string `json:"raw,omitempty"`
	URL string `json:"url,omitempty"`
}

// Video references video content by URL or carries it inline.
type Video struct {
	URL    string `json:"url,omitempty"`
	Base64 []byte `json:"base64,omitempty"`
}

// Audio references audio content by URL or carries it inline.
type Audio struct {
	URL    string `json:"url,omitempty"`
	Base64 []byte `json:"base64,omitempty"`
}

// Concept is a labeled tag with optional identity, language and
// presence value. Value is 1 for presence, 0 (or absent) for absence.
type Concept struct {
	ID       string  `json:"id,omitempty"`
	Name     string  `json:"name,omitempty"`
	Value    float64 `json:"value,omitempty"`
	Language string  `json:"language,omitempty"`
}

// GeoPoint is a WGS84 coordinate pair.
type GeoPoint struct {
	Longitude float64 `json:"longitude"`
	Latitude  float64 `json:"latitude"`
}

// GeoLimitWithinKilometers tags a GeoLimit as a kilometer radius.
const GeoLimitWithinKilometers = "withinKilometers"

// GeoLimit constrains a geo query to a radius around a point.
type GeoLimit struct {
	Type  string  `json:"type,omitempty"`
	Value float64 `json:"value,omitempty"`
}

// Geo combines a point with a radius limit.
type Geo struct {
	GeoPoint GeoPoint  `json:"geo_point"`
	GeoLimit *GeoLimit `json:"geo_limit,omitempty"`
}

// Data is the content payload shared by inputs, annotations and outputs.
type Data struct {
	Image    *Image         `json:"image,omitempty"`
	Text     *Text          `json:"text,omitempty"`
	Video    *Video         `json:"video,omitempty"`
	Audio    *Audio         `json:"audio,omitempty"`
	Concepts []Concept      `json:"concepts,omitempty"`
	Metadata map[string]any `json:"metadata,omitempty"`
	Geo      *Geo           `json:"geo,omitempty"`
}

// Annotation is the structured payload attached to a search stage or an
// input. An annotation with nil Data matches anything.
type Annotation struct {
	ID      string `json:"id,omitempty"`
	InputID string `json:"input_id,omitempty"`
	Data    *Data  `json:"data,omitempty"`
}

// Input is a platform media record.
type Input struct {
	ID        string `json:"id,omitempty"`
	Data      *Data  `json:"data,omitempty"`
	CreatedAt string `json:"created_at,omitempty"`
}

// Hit is a single search result: the matched input and its score.
type Hit struct {
	Score      float64     `json:"score,omitempty"`
	Input      *Input      `json:"input,omitempty"`
	Annotation *Annotation `json:"annotation,omitempty"`
}

// App is an application container for inputs, models and workflows.
type App struct {
	ID                string `json:"id,omitempty"`
	Name              string `json:"name,omitempty"`
	Description       string `json:"description,omitempty"`
	DefaultWorkflowID string `json:"default_workflow_id,omitempty"`
	UserID            string `json:"user_id,omitempty"`
	CreatedAt         string `json:"created_at,omitempty"`
}

// Runner is a compute runner registered under a user.
type Runner struct {
	ID          string   `json:"id,omitempty"`
	Description string   `json:"description,omitempty"`
	Labels      []string `json:"labels,omitempty"`
	UserID      string   `json:"user_id,omitempty"`
	CreatedAt   string   `json:"created_at,omitempty"`
}

// Model identifies a model within an app.
type Model struct {
	ID        string `json:"id,omitempty"`
	Name      string `json:"name,omitempty"`
	AppID     string `json:"app_id,omitempty"`
	UserID    string `json:"user_id,omitempty"`
	VersionID string `json:"version_id,omitempty"`
}

// Output is one model prediction for one input.
type Output struct {
	ID     string  `json:"id,omitempty"`
	Status *Status `json:"status,omitempty"`
	Input  *Input  `json:"input,omitempty"`
	Model  *Model  `json:"model,omitempty"`
	Data   *Data   `json:"data,omitempty"`
}

// WorkflowNode is one model step inside a workflow graph.
type WorkflowNode struct {
	ID    string `json:"id,omitempty"`
	Model *Model `json:"model,omitempty"`
}

// Workflow is an ordered graph of model nodes.
type Workflow struct {
	ID        string         `json:"id,omitempty"`
	AppID     string         `json:"app_id,omitempty"`
	UserID    string         `json:"user_id,omitempty"`
	Nodes     []WorkflowNode `json:"nodes,omitempty"`
	CreatedAt string         `json:"created_at,omitempty"`
}

// WorkflowVersion is a frozen revision of a workflow.
type WorkflowVersion struct {
	ID         string `json:"id,omitempty"`
	WorkflowID string `json:"workflow_id,omitempty"`
	CreatedAt  string `json:"created_at,omitempty"`
}

// WorkflowResult is the per-input result of a workflow run.
type WorkflowResult struct {
	Status  *Status   `json:"status,omitempty"`
	Input   *Input    `json:"input,omitempty"`
	Outputs []*Output `json:"outputs,omitempty"`
}

// Module is an installable platform extension.
type Module struct {
	ID          string `json:"id,omitempty"`
	AppID       string `json:"app_id,omitempty"`
	UserID      string `json:"user_id,omitempty"`
	Description string `json:"description,omitempty"`
	CreatedAt   string `json:"created_at,omitempty"`
}

// ModuleVersion is a frozen revision of a module.
type ModuleVersion struct {
	ID          string `json:"id,omitempty"`
	ModuleID    string `json:"module_id,omitempty"`
	Description string `json:"description,omitempty"`
	CreatedAt   string `json:"created_at,omitempty"`
}
