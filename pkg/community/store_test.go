package community

import (
	"context"
	"errors"
	"sort"
	"strings"
	"sync"

	"github.com/soundprediction/graphrecall/pkg/driver"
)

var errNoProcedure = errors.New("There is no procedure with the name `gds.version` registered for this database instance")

// memStore is an in-memory entity graph that answers the detector's queries.
type memStore struct {
	mu    sync.Mutex
	order []string
	props map[string]map[string]any
	edges [][2]string

	gds        bool
	gdsRows    []driver.Record
	streamErr  error
	loadFails  int
	writeFails int

	probes      int
	projections int
	drops       int
	loads       int
	streamQuery string
	writes      []string
}

func newMemStore() *memStore {
	return &memStore{props: map[string]map[string]any{}}
}

// twoTriangles builds A1-A2-A3 and B1-B2-B3 joined by A1-B1.
func twoTriangles() *memStore {
	s := newMemStore()
	for _, id := range []string{"a1", "a2", "a3", "b1", "b2", "b3"} {
		s.addEntity(id, "CONCEPT")
	}
	s.relate("a1", "a2")
	s.relate("a2", "a3")
	s.relate("a1", "a3")
	s.relate("b1", "b2")
	s.relate("b2", "b3")
	s.relate("b1", "b3")
	s.relate("a1", "b1")
	return s
}

func (s *memStore) addEntity(id, typ string) {
	s.order = append(s.order, id)
	s.props[id] = map[string]any{"id": id, "name": id, "type": typ}
}

func (s *memStore) relate(a, b string) {
	s.edges = append(s.edges, [2]string{a, b})
}

func (s *memStore) label(id string) any {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.props[id]["community_id"]
}

func (s *memStore) hasStaging() bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	for _, p := range s.props {
		if _, ok := p["community_id_staging"]; ok {
			return true
		}
	}
	return false
}

func (s *memStore) ExecuteRead(ctx context.Context, query string, params map[string]any) ([]driver.Record, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	switch query {
	case loadEntitiesQuery:
		s.loads++
		if s.loadFails > 0 {
			s.loadFails--
			return nil, errors.New("connection reset by peer")
		}
		ids := append([]string(nil), s.order...)
		sort.Strings(ids)
		rows := make([]driver.Record, 0, len(ids))
		for _, id := range ids {
			rows = append(rows, driver.Record{"id": id})
		}
		return rows, nil

	case loadEdgesQuery:
		var rows []driver.Record
		for _, e := range s.edges {
			a, b := e[0], e[1]
			if b < a {
				a, b = b, a
			}
			rows = append(rows, driver.Record{"source": a, "target": b})
		}
		return rows, nil

	case getCommunityQuery:
		id, _ := params["community_id"].(string)
		for _, row := range s.communityRows(1) {
			if row["community_id"] == id {
				return []driver.Record{row}, nil
			}
		}
		return nil, nil

	case listCommunitiesQuery:
		return s.communityRows(params["min_size"].(int)), nil

	case entityCommunityQuery:
		p, ok := s.props[params["entity_id"].(string)]
		if !ok {
			return nil, nil
		}
		return []driver.Record{{"community_id": p["community_id"]}}, nil
	}
	return nil, errors.New("unexpected read query")
}

func (s *memStore) communityRows(minSize int) []driver.Record {
	members := map[string][]string{}
	var ids []string
	for _, id := range s.order {
		cid, ok := s.props[id]["community_id"].(string)
		if !ok {
			continue
		}
		if _, seen := members[cid]; !seen {
			ids = append(ids, cid)
		}
		members[cid] = append(members[cid], id)
	}

	var rows []driver.Record
	for _, cid := range ids {
		if len(members[cid]) < minSize {
			continue
		}
		internal := 0
		for _, e := range s.edges {
			if s.props[e[0]]["community_id"] == cid && s.props[e[1]]["community_id"] == cid {
				internal++
			}
		}
		entityIDs := make([]any, 0, len(members[cid]))
		for _, m := range members[cid] {
			entityIDs = append(entityIDs, m)
		}
		rows = append(rows, driver.Record{
			"community_id":   cid,
			"entity_ids":     entityIDs,
			"internal_edges": int64(internal),
		})
	}
	sort.SliceStable(rows, func(i, j int) bool {
		return len(rows[i]["entity_ids"].([]any)) > len(rows[j]["entity_ids"].([]any))
	})
	return rows
}

func (s *memStore) ExecuteWrite(ctx context.Context, query string, params map[string]any) (*driver.WriteSummary, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.writes = append(s.writes, query)
	if s.writeFails > 0 {
		s.writeFails--
		return nil, errors.New("transaction terminated")
	}

	summary := &driver.WriteSummary{}
	switch query {
	case setCommunityQuery, stageCommunityQuery:
		key := "community_id"
		if query == stageCommunityQuery {
			key = "community_id_staging"
		}
		for _, id := range params["entity_ids"].([]string) {
			if p, ok := s.props[id]; ok {
				p[key] = params["community_id"]
				summary.PropertiesSet++
			}
		}
	case clearStagingQuery:
		for _, p := range s.props {
			delete(p, "community_id_staging")
		}
	case promoteStagingQuery:
		for _, p := range s.props {
			if v, ok := p["community_id_staging"]; ok {
				p["community_id"] = v
				delete(p, "community_id_staging")
				summary.PropertiesSet += 2
			}
		}
	default:
		return nil, errors.New("unexpected write query")
	}
	return summary, nil
}

func (s *memStore) ExecuteQuery(ctx context.Context, query string, params map[string]any) ([]driver.Record, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	switch {
	case query == gdsVersionQuery:
		s.probes++
		if !s.gds {
			return nil, errNoProcedure
		}
		return []driver.Record{{"version": "2.6.0"}}, nil
	case query == gdsProjectQuery:
		s.projections++
		return []driver.Record{{"graphName": params["graph_name"]}}, nil
	case query == gdsDropQuery:
		s.drops++
		return []driver.Record{{"graphName": params["graph_name"]}}, nil
	case strings.Contains(query, ".stream("):
		s.streamQuery = query
		if s.streamErr != nil {
			return nil, s.streamErr
		}
		return s.gdsRows, nil
	}
	return nil, errors.New("unexpected query")
}
