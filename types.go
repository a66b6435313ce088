package visient

import "github.com/visient/visient-go/api"

// Metric selects the distance function of a search session.
type Metric string

// Metric constants.
const (
	MetricCosine    Metric = "cosine"
	MetricEuclidean Metric = "euclidean"
)

// wireName returns the protocol identifier of the metric.
func (m Metric) wireName() (string, bool) {
	switch m {
	case MetricCosine:
		return "COSINE_DISTANCE", true
	case MetricEuclidean:
		return "EUCLIDEAN_DISTANCE", true
	default:
		return "", false
	}
}

// QueryItem is one loosely-typed rank or filter clause. Recognized keys:
// image_url, image_bytes, text_raw, metadata, geo_point, concepts. An empty
// item matches anything. Multiple keys within one item are ANDed by the
// service.
type QueryItem map[string]any

// InputKind names the media type of an input.
type InputKind string

// Input kind constants.
const (
	InputImage InputKind = "image"
	InputText  InputKind = "text"
	InputVideo InputKind = "video"
	InputAudio InputKind = "audio"
)

// Page is one decoded page of search results.
type Page struct {
	Number int
	Status *api.Status
	Hits   []*api.Hit
}
