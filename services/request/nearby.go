package request

import (
	"context"
	"sort"

	requestRepo "hireloop/database/repository/request"
	"hireloop/models"
	"hireloop/utils"

	"go.uber.org/zap"
)

// QueryNearby returns the open instant requests within the query radius,
// nearest first, ties broken oldest first. Results come from the geo index
// but are re-checked against live request state, so an accepted or expired
// request can never leak into the listing through a stale index entry.
func (s *DefaultRequestService) QueryNearby(ctx context.Context, query NearbyQuery) ([]models.ServiceRequest, error) {
	if err := query.Validate(); err != nil {
		return nil, err
	}
	now := s.now()

	members, err := s.Geo.Search(ctx, query.Center, query.RadiusKm)
	if err != nil {
		utils.GetLogger().Warn("geo index search failed, falling back to store query", zap.Error(err))
	}
	if err != nil || len(members) == 0 {
		// Geo index unavailable, or empty for this radius. The empty case
		// goes to the store too: the index can be missing an entry whose
		// GEOADD failed at creation, and an open request must stay
		// discoverable until it expires. The store query applies the same
		// visibility predicates.
		reqs, err := s.Repo.NearbySearch(ctx, requestRepo.NearbySearchCriteria{
			Center:   query.Center,
			RadiusKm: query.RadiusKm,
			Category: query.Category,
			Now:      now,
		})
		if err != nil {
			return nil, TransientError{Err: err}
		}
		return reqs, nil
	}

	ids := make([]string, 0, len(members))
	distance := make(map[string]float64, len(members))
	for _, m := range members {
		ids = append(ids, m.RequestID)
		distance[m.RequestID] = m.DistanceKm
	}

	fetched, err := s.Repo.GetByIDs(ctx, ids)
	if err != nil {
		return nil, TransientError{Err: err}
	}

	results := make([]models.ServiceRequest, 0, len(fetched))
	for _, req := range fetched {
		if !req.Broadcastable(now) {
			// Stale member: the lifecycle moved on but the deindex was
			// missed. Repair the index as we go.
			if err := s.Geo.Deindex(ctx, req.ID); err != nil {
				utils.GetLogger().Warn("failed to deindex stale request",
					zap.String("request", req.ID), zap.Error(err))
			}
			continue
		}
		if query.Category != "" && req.Category != query.Category {
			continue
		}
		results = append(results, req)
	}

	sort.SliceStable(results, func(i, j int) bool {
		di, dj := distance[results[i].ID], distance[results[j].ID]
		if di != dj {
			return di < dj
		}
		return results[i].CreatedAt.Before(results[j].CreatedAt)
	})
	return results, nil
}
