package visient

import (
	"context"
	"fmt"
	"time"

	"github.com/visient/visient-go/api"
)

// ModuleService inspects the modules installed in one app.
type ModuleService struct {
	userAppID *api.UserAppIDSet
	stub      moduleStub
	obs       *observer
}

// ListVersions returns every version of a module, collecting all pages.
func (s *ModuleService) ListVersions(ctx context.Context, moduleID string) (_ []*api.ModuleVersion, err error) {
	start := time.Now()
	defer func() { s.obs.observe("modules.list_versions", start, err) }()

	return collectPages(ctx, defaultListPageSize, func(ctx context.Context, page, perPage int) ([]*api.ModuleVersion, error) {
		resp, err := s.stub.ListModuleVersions(ctx, &api.ListModuleVersionsRequest{
			UserAppID: s.userAppID,
			ModuleID:  moduleID,
			Page:      page,
			PerPage:   perPage,
		})
		if err != nil {
			return nil, fmt.Errorf("list module versions page %d: %w", page, err)
		}
		if !resp.Status.Success() {
			return nil, NewStatusError(resp.Status, resp)
		}
		return resp.ModuleVersions, nil
	})
}
