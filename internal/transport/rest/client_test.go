package rest

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"go.uber.org/zap"

	"github.com/visient/visient-go/api"
)

func testClient(t *testing.T, baseURL string) *Client {
	t.Helper()
	c, err := NewClient(&Config{
		BaseURL: baseURL,
		APIKey:  "test-key",
		Logger:  zap.NewNop(),
	})
	if err != nil {
		t.Fatalf("NewClient failed: %v", err)
	}
	return c
}

func TestNewClient_NoBaseURL(t *testing.T) {
	_, err := NewClient(&Config{APIKey: "test-key"})
	if err == nil {
		t.Fatal("expected error for missing base URL")
	}
}

func TestNewClient_TrimsTrailingSlash(t *testing.T) {
	c, err := NewClient(&Config{BaseURL: "https://api.visient.com/"})
	if err != nil {
		t.Fatalf("NewClient failed: %v", err)
	}
	if c.baseURL != "https://api.visient.com" {
		t.Errorf("baseURL = %q, want trailing slash trimmed", c.baseURL)
	}
}

func TestClient_PostAnnotationsSearches(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/v2/users/alice/apps/demo/annotations/searches" {
			t.Errorf("unexpected path: %s", r.URL.Path)
		}
		if r.Method != http.MethodPost {
			t.Errorf("unexpected method: %s", r.Method)
		}
		if r.Header.Get("Authorization") != "Key test-key" {
			t.Errorf("unexpected auth header: %s", r.Header.Get("Authorization"))
		}
		if r.Header.Get("Content-Type") != "application/json" {
			t.Errorf("unexpected content type: %s", r.Header.Get("Content-Type"))
		}
		if r.Header.Get("X-Request-ID") == "" {
			t.Error("expected X-Request-ID header")
		}

		var req api.PostAnnotationsSearchesRequest
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			t.Errorf("decode request: %v", err)
		}
		if req.Pagination == nil || req.Pagination.Page != 1 {
			t.Errorf("unexpected pagination: %+v", req.Pagination)
		}

		w.Header().Set("Content-Type", "application/json")
		json.NewEncoder(w).Encode(&api.PostAnnotationsSearchesResponse{
			Status: &api.Status{Code: api.StatusSuccess, Description: "Ok"},
			Hits: []*api.Hit{
				{Score: 0.98, Input: &api.Input{ID: "dog-tiff"}},
			},
		})
	}))
	defer server.Close()

	c := testClient(t, server.URL)

	resp, err := c.PostAnnotationsSearches(context.Background(), &api.PostAnnotationsSearchesRequest{
		UserAppID:  &api.UserAppIDSet{UserID: "alice", AppID: "demo"},
		Searches:   []*api.Search{{Metric: "COSINE_DISTANCE"}},
		Pagination: &api.Pagination{Page: 1, PerPage: 10},
	})
	if err != nil {
		t.Fatalf("PostAnnotationsSearches failed: %v", err)
	}

	if !resp.Status.Success() {
		t.Fatalf("unexpected status: %+v", resp.Status)
	}
	if len(resp.Hits) != 1 || resp.Hits[0].Input.ID != "dog-tiff" {
		t.Errorf("unexpected hits: %+v", resp.Hits)
	}
}

func TestClient_ListApps_QueryParams(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/v2/users/alice/apps" {
			t.Errorf("unexpected path: %s", r.URL.Path)
		}
		if got := r.URL.Query().Get("page"); got != "2" {
			t.Errorf("page = %q, want 2", got)
		}
		if got := r.URL.Query().Get("per_page"); got != "16" {
			t.Errorf("per_page = %q, want 16", got)
		}

		w.Header().Set("Content-Type", "application/json")
		json.NewEncoder(w).Encode(&api.MultiAppResponse{
			Status: &api.Status{Code: api.StatusSuccess},
			Apps:   []*api.App{{ID: "demo"}},
		})
	}))
	defer server.Close()

	c := testClient(t, server.URL)

	resp, err := c.ListApps(context.Background(), &api.ListAppsRequest{
		UserAppID: &api.UserAppIDSet{UserID: "alice"},
		Page:      2,
		PerPage:   16,
	})
	if err != nil {
		t.Fatalf("ListApps failed: %v", err)
	}
	if len(resp.Apps) != 1 || resp.Apps[0].ID != "demo" {
		t.Errorf("unexpected apps: %+v", resp.Apps)
	}
}

func TestClient_DeleteApp(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.Method != http.MethodDelete {
			t.Errorf("unexpected method: %s", r.Method)
		}
		if r.URL.Path != "/v2/users/alice/apps/demo" {
			t.Errorf("unexpected path: %s", r.URL.Path)
		}

		w.Header().Set("Content-Type", "application/json")
		json.NewEncoder(w).Encode(&api.BaseResponse{
			Status: &api.Status{Code: api.StatusSuccess},
		})
	}))
	defer server.Close()

	c := testClient(t, server.URL)

	resp, err := c.DeleteApp(context.Background(), &api.DeleteAppRequest{
		UserAppID: &api.UserAppIDSet{UserID: "alice", AppID: "demo"},
	})
	if err != nil {
		t.Fatalf("DeleteApp failed: %v", err)
	}
	if !resp.Status.Success() {
		t.Errorf("unexpected status: %+v", resp.Status)
	}
}

func TestClient_HTTPError_EnvelopeDetail(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(http.StatusUnauthorized)
		json.NewEncoder(w).Encode(&api.BaseResponse{
			Status: &api.Status{Code: api.StatusFailure, Description: "invalid API key"},
		})
	}))
	defer server.Close()

	c := testClient(t, server.URL)

	_, err := c.GetApp(context.Background(), &api.GetAppRequest{
		UserAppID: &api.UserAppIDSet{UserID: "alice", AppID: "demo"},
	})
	if err == nil {
		t.Fatal("expected error for 401 response")
	}
	if !strings.Contains(err.Error(), "invalid API key") {
		t.Errorf("error = %q, want API detail", err)
	}
}

func TestClient_HTTPError_PlainBody(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusBadGateway)
		w.Write([]byte("upstream unavailable"))
	}))
	defer server.Close()

	c := testClient(t, server.URL)

	_, err := c.GetApp(context.Background(), &api.GetAppRequest{
		UserAppID: &api.UserAppIDSet{UserID: "alice", AppID: "demo"},
	})
	if err == nil {
		t.Fatal("expected error for 502 response")
	}
	if !strings.Contains(err.Error(), "502") || !strings.Contains(err.Error(), "upstream unavailable") {
		t.Errorf("error = %q", err)
	}
}

func TestClient_AppStatusPassedThrough(t *testing.T) {
	// Application-level failures ride on HTTP 200; interpreting them is the
	// caller's job, not the transport's.
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		json.NewEncoder(w).Encode(&api.PostAnnotationsSearchesResponse{
			Status: &api.Status{Code: api.StatusInvalidRequest, Description: "malformed query"},
		})
	}))
	defer server.Close()

	c := testClient(t, server.URL)

	resp, err := c.PostAnnotationsSearches(context.Background(), &api.PostAnnotationsSearchesRequest{
		UserAppID: &api.UserAppIDSet{UserID: "alice", AppID: "demo"},
	})
	if err != nil {
		t.Fatalf("unexpected transport error: %v", err)
	}
	if resp.Status.Code != api.StatusInvalidRequest {
		t.Errorf("status code = %d, want %d", resp.Status.Code, api.StatusInvalidRequest)
	}
}

func TestExtractDetail(t *testing.T) {
	tests := []struct {
		name string
		body string
		want string
	}{
		{"envelope with details", `{"status":{"description":"Failure","details":"bad metric"}}`, "Failure: bad metric"},
		{"envelope description only", `{"status":{"description":"Failure"}}`, "Failure"},
		{"gateway detail", `{"detail":"route not found"}`, "route not found"},
		{"not json", `<html>502</html>`, ""},
		{"empty", ``, ""},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := extractDetail([]byte(tt.body)); got != tt.want {
				t.Errorf("extractDetail = %q, want %q", got, tt.want)
			}
		})
	}
}
