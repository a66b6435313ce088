package visienttest

import (
	"encoding/json"
	"fmt"
	"net/http"
	"strconv"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/visient/visient-go/api"
	"github.com/visient/visient-go/internal/geo"
	"github.com/visient/visient-go/internal/logger"
)

func (s *Server) postSearches(w http.ResponseWriter, r *http.Request) {
	var req api.PostAnnotationsSearchesRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		badRequest(w, err)
		return
	}
	var spec *api.Search
	if len(req.Searches) > 0 {
		spec = req.Searches[0]
	}

	s.mu.Lock()
	stored := s.inputs[scopeKey(chi.URLParam(r, "userID"), chi.URLParam(r, "appID"))]
	var hits []*api.Hit
	for _, in := range stored {
		if score, ok := matchInput(in, spec); ok {
			hits = append(hits, &api.Hit{Score: score, Input: in})
		}
	}
	s.mu.Unlock()

	page, perPage := 1, len(hits)
	if p := req.Pagination; p != nil {
		page, perPage = p.Page, p.PerPage
	}
	hits = pageSlice(hits, page, perPage)

	logger.FromContext(r.Context()).Debug("search served",
		zap.Int("page", page), zap.Int("hits", len(hits)))
	writeJSON(w, http.StatusOK, &api.PostAnnotationsSearchesResponse{Status: success(), Hits: hits})
}

// matchInput reports whether an input satisfies every stage of a search,
// and with what score. A nil search matches all.
func matchInput(in *api.Input, spec *api.Search) (float64, bool) {
	score := 1.0
	if spec == nil || spec.Query == nil {
		return score, true
	}
	for _, rank := range spec.Query.Ranks {
		sc, ok := annotationMatch(in, rank.Annotation)
		if !ok {
			return 0, false
		}
		score = min(score, sc)
	}
	for _, filter := range spec.Query.Filters {
		if _, ok := annotationMatch(in, filter.Annotation); !ok {
			return 0, false
		}
	}
	return score, true
}

// annotationMatch checks one annotation against an input. Concepts match by
// name and presence value, geo by great-circle radius. Text, image and
// metadata stages rank rather than constrain; the fake does no similarity
// math, so they match every input.
func annotationMatch(in *api.Input, ann *api.Annotation) (float64, bool) {
	if ann == nil || ann.Data == nil {
		return 1, true
	}
	score := 1.0

	for _, want := range ann.Data.Concepts {
		have, ok := findConcept(in, want)
		present := ok && have.Value >= 0.5
		if want.Value == 0 {
			if present {
				return 0, false
			}
			continue
		}
		if !present {
			return 0, false
		}
		score = min(score, have.Value)
	}

	if g := ann.Data.Geo; g != nil && g.GeoLimit != nil {
		pt := inputGeo(in)
		if pt == nil {
			return 0, false
		}
		dist := geo.Haversine(g.GeoPoint.Latitude, g.GeoPoint.Longitude, pt.Latitude, pt.Longitude)
		if dist > g.GeoLimit.Value {
			return 0, false
		}
	}

	return score, true
}

// findConcept looks a queried concept up on an input, by name first and by
// ID as a fallback.
func findConcept(in *api.Input, want api.Concept) (api.Concept, bool) {
	if in.Data == nil {
		return api.Concept{}, false
	}
	name := want.Name
	if name == "" {
		name = want.ID
	}
	for _, c := range in.Data.Concepts {
		if c.Name == name || c.ID == name {
			return c, true
		}
	}
	return api.Concept{}, false
}

func inputGeo(in *api.Input) *api.GeoPoint {
	if in.Data == nil || in.Data.Geo == nil {
		return nil
	}
	return &in.Data.Geo.GeoPoint
}

func (s *Server) postInputs(w http.ResponseWriter, r *http.Request) {
	var req api.PostInputsRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		badRequest(w, err)
		return
	}
	now := time.Now().UTC().Format(time.RFC3339)
	for _, in := range req.Inputs {
		in.CreatedAt = now
	}

	s.mu.Lock()
	k := scopeKey(chi.URLParam(r, "userID"), chi.URLParam(r, "appID"))
	s.inputs[k] = append(s.inputs[k], req.Inputs...)
	s.mu.Unlock()

	writeJSON(w, http.StatusOK, &api.MultiInputResponse{Status: success(), Inputs: req.Inputs})
}

func (s *Server) listApps(w http.ResponseWriter, r *http.Request) {
	page, perPage := queryPagination(r)

	s.mu.Lock()
	apps := pageSlice(s.apps[chi.URLParam(r, "userID")], page, perPage)
	s.mu.Unlock()

	writeJSON(w, http.StatusOK, &api.MultiAppResponse{Status: success(), Apps: apps})
}

func (s *Server) postApps(w http.ResponseWriter, r *http.Request) {
	var req api.PostAppsRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		badRequest(w, err)
		return
	}
	uid := chi.URLParam(r, "userID")
	now := time.Now().UTC().Format(time.RFC3339)

	s.mu.Lock()
	defer s.mu.Unlock()
	for _, app := range req.Apps {
		for _, have := range s.apps[uid] {
			if have.ID == app.ID {
				writeJSON(w, http.StatusOK, &api.MultiAppResponse{
					Status: invalidStatus(fmt.Sprintf("app %q already exists", app.ID)),
				})
				return
			}
		}
		app.UserID = uid
		app.CreatedAt = now
		s.apps[uid] = append(s.apps[uid], app)
	}
	writeJSON(w, http.StatusOK, &api.MultiAppResponse{Status: success(), Apps: req.Apps})
}

func (s *Server) getApp(w http.ResponseWriter, r *http.Request) {
	uid, aid := chi.URLParam(r, "userID"), chi.URLParam(r, "appID")

	s.mu.Lock()
	defer s.mu.Unlock()
	for _, app := range s.apps[uid] {
		if app.ID == aid {
			writeJSON(w, http.StatusOK, &api.SingleAppResponse{Status: success(), App: app})
			return
		}
	}
	writeJSON(w, http.StatusOK, &api.SingleAppResponse{
		Status: notFoundStatus(fmt.Sprintf("app %q not found", aid)),
	})
}

func (s *Server) deleteApp(w http.ResponseWriter, r *http.Request) {
	uid, aid := chi.URLParam(r, "userID"), chi.URLParam(r, "appID")

	s.mu.Lock()
	defer s.mu.Unlock()
	for i, app := range s.apps[uid] {
		if app.ID == aid {
			s.apps[uid] = append(s.apps[uid][:i], s.apps[uid][i+1:]...)
			delete(s.inputs, scopeKey(uid, aid))
			writeJSON(w, http.StatusOK, &api.BaseResponse{Status: success()})
			return
		}
	}
	writeJSON(w, http.StatusOK, &api.BaseResponse{
		Status: notFoundStatus(fmt.Sprintf("app %q not found", aid)),
	})
}

func (s *Server) listRunners(w http.ResponseWriter, r *http.Request) {
	page, perPage := queryPagination(r)

	s.mu.Lock()
	runners := pageSlice(s.runners[chi.URLParam(r, "userID")], page, perPage)
	s.mu.Unlock()

	writeJSON(w, http.StatusOK, &api.MultiRunnerResponse{Status: success(), Runners: runners})
}

func (s *Server) postRunners(w http.ResponseWriter, r *http.Request) {
	var req api.PostRunnersRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		badRequest(w, err)
		return
	}
	uid := chi.URLParam(r, "userID")
	now := time.Now().UTC().Format(time.RFC3339)

	s.mu.Lock()
	defer s.mu.Unlock()
	for _, rn := range req.Runners {
		for _, have := range s.runners[uid] {
			if have.ID == rn.ID {
				writeJSON(w, http.StatusOK, &api.MultiRunnerResponse{
					Status: invalidStatus(fmt.Sprintf("runner %q already exists", rn.ID)),
				})
				return
			}
		}
		rn.UserID = uid
		rn.CreatedAt = now
		s.runners[uid] = append(s.runners[uid], rn)
	}
	writeJSON(w, http.StatusOK, &api.MultiRunnerResponse{Status: success(), Runners: req.Runners})
}

func (s *Server) getRunner(w http.ResponseWriter, r *http.Request) {
	uid, rid := chi.URLParam(r, "userID"), chi.URLParam(r, "runnerID")

	s.mu.Lock()
	defer s.mu.Unlock()
	for _, rn := range s.runners[uid] {
		if rn.ID == rid {
			writeJSON(w, http.StatusOK, &api.SingleRunnerResponse{Status: success(), Runner: rn})
			return
		}
	}
	writeJSON(w, http.StatusOK, &api.SingleRunnerResponse{
		Status: notFoundStatus(fmt.Sprintf("runner %q not found", rid)),
	})
}

func (s *Server) deleteRunner(w http.ResponseWriter, r *http.Request) {
	uid, rid := chi.URLParam(r, "userID"), chi.URLParam(r, "runnerID")

	s.mu.Lock()
	defer s.mu.Unlock()
	for i, rn := range s.runners[uid] {
		if rn.ID == rid {
			s.runners[uid] = append(s.runners[uid][:i], s.runners[uid][i+1:]...)
			writeJSON(w, http.StatusOK, &api.BaseResponse{Status: success()})
			return
		}
	}
	writeJSON(w, http.StatusOK, &api.BaseResponse{
		Status: notFoundStatus(fmt.Sprintf("runner %q not found", rid)),
	})
}

func (s *Server) postModelOutputs(w http.ResponseWriter, r *http.Request) {
	var req api.PostModelOutputsRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		badRequest(w, err)
		return
	}
	uid, aid := chi.URLParam(r, "userID"), chi.URLParam(r, "appID")
	mid := chi.URLParam(r, "modelID")

	s.mu.Lock()
	concepts := s.modelCs[mid]
	s.mu.Unlock()

	var outputs []*api.Output
	for _, in := range req.Inputs {
		outputs = append(outputs, &api.Output{
			ID:     uuid.NewString(),
			Status: success(),
			Input:  in,
			Model:  &api.Model{ID: mid, AppID: aid, UserID: uid},
			Data:   &api.Data{Concepts: concepts},
		})
	}
	writeJSON(w, http.StatusOK, &api.MultiOutputResponse{Status: success(), Outputs: outputs})
}

func (s *Server) postWorkflowResults(w http.ResponseWriter, r *http.Request) {
	var req api.PostWorkflowResultsRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		badRequest(w, err)
		return
	}
	uid, aid := chi.URLParam(r, "userID"), chi.URLParam(r, "appID")
	wid := chi.URLParam(r, "workflowID")

	s.mu.Lock()
	var nodes []api.WorkflowNode
	if wf := s.flows[scopeKey(uid, aid, wid)]; wf != nil {
		nodes = wf.Nodes
	}
	if len(nodes) == 0 {
		// Unseeded workflows run as a single model named after the workflow.
		nodes = []api.WorkflowNode{{Model: &api.Model{ID: wid, AppID: aid, UserID: uid}}}
	}
	conceptsByModel := make(map[string][]api.Concept, len(nodes))
	for _, node := range nodes {
		if node.Model != nil {
			conceptsByModel[node.Model.ID] = s.modelCs[node.Model.ID]
		}
	}
	s.mu.Unlock()

	var results []*api.WorkflowResult
	for _, in := range req.Inputs {
		var outputs []*api.Output
		for _, node := range nodes {
			out := &api.Output{
				ID:     uuid.NewString(),
				Status: success(),
				Input:  in,
				Model:  node.Model,
			}
			if node.Model != nil {
				out.Data = &api.Data{Concepts: conceptsByModel[node.Model.ID]}
			}
			outputs = append(outputs, out)
		}
		results = append(results, &api.WorkflowResult{Status: success(), Input: in, Outputs: outputs})
	}
	writeJSON(w, http.StatusOK, &api.PostWorkflowResultsResponse{Status: success(), Results: results})
}

func (s *Server) getWorkflow(w http.ResponseWriter, r *http.Request) {
	uid, aid := chi.URLParam(r, "userID"), chi.URLParam(r, "appID")
	wid := chi.URLParam(r, "workflowID")

	s.mu.Lock()
	wf := s.flows[scopeKey(uid, aid, wid)]
	s.mu.Unlock()

	if wf == nil {
		writeJSON(w, http.StatusOK, &api.SingleWorkflowResponse{
			Status: notFoundStatus(fmt.Sprintf("workflow %q not found", wid)),
		})
		return
	}
	writeJSON(w, http.StatusOK, &api.SingleWorkflowResponse{Status: success(), Workflow: wf})
}

func (s *Server) listWorkflowVersions(w http.ResponseWriter, r *http.Request) {
	page, perPage := queryPagination(r)
	k := scopeKey(chi.URLParam(r, "userID"), chi.URLParam(r, "appID"), chi.URLParam(r, "workflowID"))

	s.mu.Lock()
	versions := pageSlice(s.flowVers[k], page, perPage)
	s.mu.Unlock()

	writeJSON(w, http.StatusOK, &api.MultiWorkflowVersionResponse{Status: success(), WorkflowVersions: versions})
}

func (s *Server) listModuleVersions(w http.ResponseWriter, r *http.Request) {
	page, perPage := queryPagination(r)
	k := scopeKey(chi.URLParam(r, "userID"), chi.URLParam(r, "appID"), chi.URLParam(r, "moduleID"))

	s.mu.Lock()
	versions := pageSlice(s.modVers[k], page, perPage)
	s.mu.Unlock()

	writeJSON(w, http.StatusOK, &api.MultiModuleVersionResponse{Status: success(), ModuleVersions: versions})
}

// pageSlice cuts one page out of a slice. Page numbers start at 1;
// a non-positive perPage returns everything.
func pageSlice[T any](items []T, page, perPage int) []T {
	if page < 1 {
		page = 1
	}
	if perPage <= 0 {
		perPage = len(items)
	}
	start := (page - 1) * perPage
	if start >= len(items) {
		return nil
	}
	return items[start:min(start+perPage, len(items))]
}

func queryPagination(r *http.Request) (page, perPage int) {
	page, _ = strconv.Atoi(r.URL.Query().Get("page"))
	perPage, _ = strconv.Atoi(r.URL.Query().Get("per_page"))
	return page, perPage
}
