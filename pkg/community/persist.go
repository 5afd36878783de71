package community

import (
	"context"
	"fmt"

	"github.com/soundprediction/graphrecall/pkg/types"
)

func (d *Detector) persist(ctx context.Context, communities []*types.Community) error {
	if len(communities) == 0 {
		return nil
	}
	if d.config.PersistMode == PersistStaged {
		return d.persistStaged(ctx, communities)
	}

	for _, c := range communities {
		if _, err := d.store.ExecuteWrite(ctx, setCommunityQuery, labelParams(c)); err != nil {
			return fmt.Errorf("failed to persist community %s: %w", c.ID, err)
		}
	}
	d.logger.Info("persisted community labels", "mode", PersistDirect, "communities", len(communities))
	return nil
}

// persistStaged writes labels to a staging property and then swaps them in
// with one statement, so readers never see a partially updated labelling.
func (d *Detector) persistStaged(ctx context.Context, communities []*types.Community) error {
	if _, err := d.store.ExecuteWrite(ctx, clearStagingQuery, nil); err != nil {
		return fmt.Errorf("failed to clear staged community labels: %w", err)
	}
	for _, c := range communities {
		if _, err := d.store.ExecuteWrite(ctx, stageCommunityQuery, labelParams(c)); err != nil {
			return fmt.Errorf("failed to stage community %s: %w", c.ID, err)
		}
	}
	summary, err := d.store.ExecuteWrite(ctx, promoteStagingQuery, nil)
	if err != nil {
		return fmt.Errorf("failed to promote staged community labels: %w", err)
	}

	propertiesSet := 0
	if summary != nil {
		propertiesSet = summary.PropertiesSet
	}
	d.logger.Info("persisted community labels",
		"mode", PersistStaged,
		"communities", len(communities),
		"properties_set", propertiesSet)
	return nil
}

func labelParams(c *types.Community) map[string]any {
	return map[string]any{
		"entity_ids":   c.EntityIDs,
		"community_id": c.ID,
	}
}
