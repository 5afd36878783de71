package community

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/soundprediction/graphrecall/pkg/types"
)

// detectGDS projects the entity graph, streams the requested algorithm and
// drops the projection. Density is not computed on this path.
func (d *Detector) detectGDS(ctx context.Context, algorithm Algorithm, resolution float64) (*DetectionResult, error) {
	graphName := "graphrecall_" + strings.ReplaceAll(uuid.NewString(), "-", "")
	params := map[string]any{"graph_name": graphName, "resolution": resolution}

	if _, err := d.store.ExecuteQuery(ctx, gdsProjectQuery, params); err != nil {
		return nil, fmt.Errorf("failed to project graph %s: %w", graphName, err)
	}
	defer func() {
		if _, err := d.store.ExecuteQuery(context.WithoutCancel(ctx), gdsDropQuery, params); err != nil {
			d.logger.Warn("failed to drop graph projection", "graph", graphName, "error", err)
		}
	}()

	rows, err := d.store.ExecuteQuery(ctx, gdsStreamQuery(algorithm), params)
	if err != nil {
		return nil, fmt.Errorf("failed to stream %s communities: %w", algorithm, err)
	}

	var order []int64
	members := make(map[int64][]string)
	for _, row := range rows {
		entityID := row.String("entity_id")
		if entityID == "" {
			continue
		}
		cid := int64(row.Int("community_id"))
		if _, ok := members[cid]; !ok {
			order = append(order, cid)
		}
		members[cid] = append(members[cid], entityID)
	}

	now := time.Now().UTC()
	communities := make([]*types.Community, 0, len(order))
	for _, cid := range order {
		ids := members[cid]
		communities = append(communities, &types.Community{
			ID:        types.FormatCommunityID(int(cid)),
			Label:     fmt.Sprintf("Community %d", cid),
			EntityIDs: ids,
			Size:      len(ids),
			CreatedAt: now,
			Metadata:  communityMetadata(algorithm, algorithm, resolution, MethodGDS, "not_applicable"),
		})
	}

	return &DetectionResult{
		Communities:        communities,
		AlgorithmRequested: algorithm,
		AlgorithmUsed:      algorithm,
		Method:             MethodGDS,
	}, nil
}
