package visient

import (
	"context"
	"fmt"
	"iter"
	"time"

	"github.com/visient/visient-go/api"
	"github.com/visient/visient-go/internal/schema"
)

// DefaultTopK is the page size of a search session unless overridden.
const DefaultTopK = 10

// Search is a search session over one app. The metric and page size are
// fixed at construction. Annotation building reuses one scratch buffer, so
// a session is not safe for concurrent use; independent sessions are.
type Search struct {
	userAppID *api.UserAppIDSet
	topK      int
	metric    string // wire identifier
	inputs    *InputService

	stub searchStub
	obs  *observer

	buf api.Data // scratch; reset at the start of each buildAnnotation
}

// NewSearch creates a search session over one app.
func (c *Client) NewSearch(userID, appID string, opts ...SearchOption) (*Search, error) {
	cfg := &searchConfig{topK: DefaultTopK, metric: MetricCosine}
	for _, o := range opts {
		o.applySearch(cfg)
	}

	wire, ok := cfg.metric.wireName()
	if !ok {
		return nil, fmt.Errorf("visient: unsupported metric %q (use cosine or euclidean)", cfg.metric)
	}
	if cfg.topK <= 0 {
		return nil, fmt.Errorf("visient: top-k must be positive, got %d", cfg.topK)
	}

	return &Search{
		userAppID: &api.UserAppIDSet{UserID: userID, AppID: appID},
		topK:      cfg.topK,
		metric:    wire,
		inputs:    c.Inputs(userID, appID),
		stub:      c.search,
		obs:       c.obs,
	}, nil
}

// TopK returns the session page size.
func (s *Search) TopK() int { return s.topK }

// Metric returns the wire identifier of the session metric.
func (s *Search) Metric() string { return s.metric }

// Query validates ranks and filters, assembles one search request, and
// returns a lazy page sequence. Validation and assembly failures surface
// here, before any network call; remote failures surface while ranging.
// Each range over the sequence runs a fresh retrieval loop from page 1.
func (s *Search) Query(ctx context.Context, ranks, filters []QueryItem) (_ iter.Seq2[*Page, error], err error) {
	start := time.Now()
	defer func() { s.obs.observe("search.query", start, err) }()

	spec, err := s.buildSearch(ranks, filters)
	if err != nil {
		return nil, err
	}

	return s.pages(ctx, spec), nil
}

// buildSearch validates both stages and assembles the wire search,
// preserving item order.
func (s *Search) buildSearch(ranks, filters []QueryItem) (*api.Search, error) {
	if err := schema.ValidateItems(toMaps(ranks)); err != nil {
		return nil, fmt.Errorf("%w: ranks: %v", ErrInvalidQuery, err)
	}
	if err := schema.ValidateItems(toMaps(filters)); err != nil {
		return nil, fmt.Errorf("%w: filters: %v", ErrInvalidQuery, err)
	}

	q := &api.Query{}
	for i, item := range ranks {
		ann, err := s.buildAnnotation(item)
		if err != nil {
			return nil, fmt.Errorf("rank %d: %w", i, err)
		}
		q.Ranks = append(q.Ranks, api.Rank{Annotation: &ann})
	}
	for i, item := range filters {
		ann, err := s.buildAnnotation(item)
		if err != nil {
			return nil, fmt.Errorf("filter %d: %w", i, err)
		}
		q.Filters = append(q.Filters, api.Filter{Annotation: &ann})
	}

	return &api.Search{Query: q, Metric: s.metric}, nil
}

// pages returns a lazy sequence fetching one result page per step. Page
// numbering starts at 1 and increments by one; the loop stops at the first
// response without hits.
func (s *Search) pages(ctx context.Context, spec *api.Search) iter.Seq2[*Page, error] {
	return func(yield func(*Page, error) bool) {
		req := &api.PostAnnotationsSearchesRequest{
			UserAppID:  s.userAppID,
			Searches:   []*api.Search{spec},
			Pagination: &api.Pagination{Page: 1, PerPage: s.topK},
		}
		for {
			page, err := s.fetchPage(ctx, req)
			if err != nil {
				yield(nil, err)
				return
			}
			if len(page.Hits) == 0 {
				return
			}
			if !yield(page, nil) {
				return
			}
			req.Pagination.Page++
		}
	}
}

func (s *Search) fetchPage(ctx context.Context, req *api.PostAnnotationsSearchesRequest) (_ *Page, err error) {
	start := time.Now()
	defer func() { s.obs.observe("search.page", start, err) }()

	resp, err := s.stub.PostAnnotationsSearches(ctx, req)
	if err != nil {
		return nil, fmt.Errorf("search page %d: %w", req.Pagination.Page, err)
	}
	if !resp.Status.Success() {
		return nil, NewStatusError(resp.Status, resp)
	}

	return &Page{
		Number: req.Pagination.Page,
		Status: resp.Status,
		Hits:   resp.Hits,
	}, nil
}

// queryVariant is the closed form of one QueryItem: the dispatch over map
// keys happens once, annotation assembly ranges over fixed fields.
type queryVariant struct {
	imageURL   string
	imageBytes []byte
	textRaw    string
	metadata   map[string]any
	geo        *api.Geo
	concepts   []api.Concept
}

// buildAnnotation turns one validated item into a protocol annotation. An
// empty item produces a wildcard annotation with an empty data payload.
// The returned annotation holds a detached snapshot of the scratch buffer.
func (s *Search) buildAnnotation(item QueryItem) (api.Annotation, error) {
	v, err := convertItem(item)
	if err != nil {
		return api.Annotation{}, err
	}

	s.buf = api.Data{}

	if v.imageURL != "" {
		s.buf.Image = s.inputs.FromURL("", InputImage, v.imageURL).Data.Image
	}
	if len(v.imageBytes) > 0 {
		s.buf.Image = s.inputs.FromBytes("", InputImage, v.imageBytes).Data.Image
	}
	if v.textRaw != "" {
		s.buf.Text = s.inputs.FromBytes("", InputText, []byte(v.textRaw)).Data.Text
	}
	if v.metadata != nil {
		s.buf.Metadata = v.metadata
	}
	if v.geo != nil {
		s.buf.Geo = v.geo
	}
	if len(v.concepts) > 0 {
		s.buf.Concepts = v.concepts
	}

	d := s.buf
	return api.Annotation{Data: &d}, nil
}

// convertItem narrows a loosely-typed item into a queryVariant. Keys the
// validator would reject fail here too: this guard is independent of
// validation and covers direct builder use.
func convertItem(item QueryItem) (queryVariant, error) {
	var v queryVariant
	for key, val := range item {
		switch key {
		case schema.KeyImageURL:
			s, ok := val.(string)
			if !ok {
				return queryVariant{}, fmt.Errorf("image_url must be a string, got %T", val)
			}
			v.imageURL = s
		case schema.KeyImageBytes:
			b, ok := val.([]byte)
			if !ok {
				return queryVariant{}, fmt.Errorf("image_bytes must be raw bytes, got %T", val)
			}
			v.imageBytes = b
		case schema.KeyTextRaw:
			s, ok := val.(string)
			if !ok {
				return queryVariant{}, fmt.Errorf("text_raw must be a string, got %T", val)
			}
			v.textRaw = s
		case schema.KeyMetadata:
			m, ok := val.(map[string]any)
			if !ok {
				return queryVariant{}, fmt.Errorf("metadata must be a map, got %T", val)
			}
			v.metadata = m
		case schema.KeyGeoPoint:
			geo, err := convertGeoPoint(val)
			if err != nil {
				return queryVariant{}, err
			}
			v.geo = geo
		case schema.KeyConcepts:
			concepts, err := convertConcepts(val)
			if err != nil {
				return queryVariant{}, err
			}
			v.concepts = concepts
		default:
			return queryVariant{}, fmt.Errorf("%w: %q", ErrUnsupportedKey, key)
		}
	}
	return v, nil
}

// convertGeoPoint encodes a geo_point object as a point plus a kilometer
// radius limit.
func convertGeoPoint(val any) (*api.Geo, error) {
	gp, ok := val.(map[string]any)
	if !ok {
		return nil, fmt.Errorf("geo_point must be an object, got %T", val)
	}
	lon, ok := schema.FloatValue(gp["longitude"])
	if !ok {
		return nil, fmt.Errorf("geo_point longitude must be a float, got %T", gp["longitude"])
	}
	lat, ok := schema.FloatValue(gp["latitude"])
	if !ok {
		return nil, fmt.Errorf("geo_point latitude must be a float, got %T", gp["latitude"])
	}
	limit, ok := schema.IntValue(gp["geo_limit"])
	if !ok {
		return nil, fmt.Errorf("geo_point geo_limit must be an integer, got %v", gp["geo_limit"])
	}

	return &api.Geo{
		GeoPoint: api.GeoPoint{Longitude: lon, Latitude: lat},
		GeoLimit: &api.GeoLimit{Type: api.GeoLimitWithinKilometers, Value: float64(limit)},
	}, nil
}

func convertConcepts(val any) ([]api.Concept, error) {
	list, err := schema.ConceptList(val)
	if err != nil {
		return nil, fmt.Errorf("concepts: %w", err)
	}

	out := make([]api.Concept, 0, len(list))
	for _, cm := range list {
		var c api.Concept
		if s, ok := cm["id"].(string); ok {
			c.ID = s
		}
		if s, ok := cm["name"].(string); ok {
			c.Name = s
		}
		if s, ok := cm["language"].(string); ok {
			c.Language = s
		}
		if n, ok := schema.IntValue(cm["value"]); ok {
			c.Value = float64(n)
		}
		out = append(out, c)
	}
	return out, nil
}

func toMaps(items []QueryItem) []map[string]any {
	out := make([]map[string]any, len(items))
	for i, it := range items {
		out[i] = it
	}
	return out
}
