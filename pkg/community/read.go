package community

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/soundprediction/graphrecall/pkg/driver"
	"github.com/soundprediction/graphrecall/pkg/types"
)

// GetCommunity rebuilds a community from persisted labels.
func (d *Detector) GetCommunity(ctx context.Context, id string) (*types.Community, error) {
	rows, err := d.store.ExecuteRead(ctx, getCommunityQuery, map[string]any{"community_id": id})
	if err != nil {
		return nil, fmt.Errorf("failed to read community %s: %w", id, err)
	}
	if len(rows) == 0 {
		return nil, fmt.Errorf("%w: %s", ErrCommunityNotFound, id)
	}
	return communityFromRecord(rows[0]), nil
}

// GetEntityCommunity returns the community the entity was last assigned to.
func (d *Detector) GetEntityCommunity(ctx context.Context, entityID string) (*types.Community, error) {
	rows, err := d.store.ExecuteRead(ctx, entityCommunityQuery, map[string]any{"entity_id": entityID})
	if err != nil {
		return nil, fmt.Errorf("failed to read community of entity %s: %w", entityID, err)
	}
	if len(rows) == 0 {
		return nil, fmt.Errorf("%w: entity %s does not exist", ErrCommunityNotFound, entityID)
	}
	id := strings.TrimSpace(rows[0].String("community_id"))
	if id == "" {
		return nil, fmt.Errorf("%w: entity %s has no community", ErrCommunityNotFound, entityID)
	}
	return d.GetCommunity(ctx, id)
}

// ListCommunities returns every persisted community with at least minSize
// members, largest first.
func (d *Detector) ListCommunities(ctx context.Context, minSize int) ([]*types.Community, error) {
	if minSize < 1 {
		minSize = 1
	}
	rows, err := d.store.ExecuteRead(ctx, listCommunitiesQuery, map[string]any{"min_size": minSize})
	if err != nil {
		return nil, fmt.Errorf("failed to list communities: %w", err)
	}
	out := make([]*types.Community, 0, len(rows))
	for _, row := range rows {
		out = append(out, communityFromRecord(row))
	}
	return out, nil
}

// IsNotFound reports whether err means the community does not exist.
func IsNotFound(err error) bool {
	return errors.Is(err, ErrCommunityNotFound)
}

func communityFromRecord(r driver.Record) *types.Community {
	id := r.String("community_id")
	ids := r.Strings("entity_ids")
	internal := r.Int("internal_edges")

	label := id
	if n, err := types.ParseCommunityID(id); err == nil {
		label = fmt.Sprintf("Community %d", n)
	}
	return &types.Community{
		ID:        id,
		Label:     label,
		EntityIDs: ids,
		Size:      len(ids),
		Density:   types.Density(len(ids), internal),
		Metadata:  map[string]any{"internal_edges": internal},
	}
}
