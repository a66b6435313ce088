package visient

// SearchOption configures a search session.
type SearchOption interface {
	applySearch(*searchConfig)
}

// searchOptionFunc adapts a function to the SearchOption interface.
type searchOptionFunc func(*searchConfig)

func (f searchOptionFunc) applySearch(c *searchConfig) { f(c) }

type searchConfig struct {
	topK   int
	metric Metric
}

// WithTopK sets the page size of the session. Default: 10.
func WithTopK(k int) SearchOption {
	return searchOptionFunc(func(c *searchConfig) {
		c.topK = k
	})
}

// WithMetric sets the distance metric of the session. Default: MetricCosine.
// Unknown metrics fail NewSearch.
func WithMetric(m Metric) SearchOption {
	return searchOptionFunc(func(c *searchConfig) {
		c.metric = m
	})
}
