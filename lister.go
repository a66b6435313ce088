package visient

import "context"

// defaultListPageSize is the page size resource listers request.
const defaultListPageSize = 16

// collectPages drains a paginated listing endpoint: fetch is called with
// ascending page numbers starting at 1 and collection stops at the first
// page shorter than perPage.
func collectPages[T any](ctx context.Context, perPage int, fetch func(ctx context.Context, page, perPage int) ([]T, error)) ([]T, error) {
	var all []T
	for page := 1; ; page++ {
		items, err := fetch(ctx, page, perPage)
		if err != nil {
			return nil, err
		}
		all = append(all, items...)
		if len(items) < perPage {
			return all, nil
		}
	}
}
