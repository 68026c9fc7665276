package cancellation

import (
	"context"
	"fmt"
	"sync"

	"github.com/staffhub/shiftcore-backend-go/internal/domain/cancellation"
)

// ReasonCache is a read-through cache of owner cancellation-reason sets,
// keyed by owner id. Owners without their own set resolve against the global
// default set (stored under the empty owner id). Settings writers must call
// Invalidate for the owner they touched.
type ReasonCache struct {
	mu      sync.RWMutex
	byOwner map[string]map[string]cancellation.ReasonConfig
	repo    cancellation.ReasonConfigRepository
}

func NewReasonCache(repo cancellation.ReasonConfigRepository) *ReasonCache {
	return &ReasonCache{
		byOwner: make(map[string]map[string]cancellation.ReasonConfig),
		repo:    repo,
	}
}

// Resolve reports whether a reason code is configured as excused for an owner.
// known is false when the code exists in neither the owner's set nor the
// global default set.
func (c *ReasonCache) Resolve(ctx context.Context, ownerID, code string) (excused bool, known bool, err error) {
	reasons, err := c.load(ctx, ownerID)
	if err != nil {
		return false, false, err
	}
	if len(reasons) == 0 && ownerID != "" {
		// Configuration gap: fall back to the global default set.
		reasons, err = c.load(ctx, "")
		if err != nil {
			return false, false, err
		}
	}

	rc, ok := reasons[code]
	if !ok {
		return false, false, nil
	}
	return rc.IsExcused, true, nil
}

// Invalidate drops the cached set for one owner.
func (c *ReasonCache) Invalidate(ownerID string) {
	c.mu.Lock()
	defer c.mu.Unlock()
	delete(c.byOwner, ownerID)
}

func (c *ReasonCache) load(ctx context.Context, ownerID string) (map[string]cancellation.ReasonConfig, error) {
	c.mu.RLock()
	cached, ok := c.byOwner[ownerID]
	c.mu.RUnlock()
	if ok {
		return cached, nil
	}

	list, err := c.repo.ListByOwner(ctx, ownerID)
	if err != nil {
		return nil, fmt.Errorf("failed to load cancellation reasons: %w", err)
	}

	reasons := make(map[string]cancellation.ReasonConfig, len(list))
	for _, rc := range list {
		reasons[rc.Code] = rc
	}

	c.mu.Lock()
	c.byOwner[ownerID] = reasons
	c.mu.Unlock()

	return reasons, nil
}
