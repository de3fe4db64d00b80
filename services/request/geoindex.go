package request

import (
	"context"
	"fmt"
	"math"
	"sort"
	"sync"

	"github.com/go-redis/redis/v8"

	"hireloop/models"
)

// GeoMember is an indexed request id with its distance from a search center.
type GeoMember struct {
	RequestID  string
	DistanceKm float64
}

// GeoIndex is the broadcast index over open instant requests. Membership
// tracks the lifecycle: a request is indexed at creation and removed on
// accept, cancel and expire. Search returns members nearest-first; callers
// re-check live request state before exposing results, so a lagging index
// can only hide requests, never resurrect closed ones.
type GeoIndex interface {
	Index(ctx context.Context, req *models.ServiceRequest) error
	Deindex(ctx context.Context, requestID string) error
	Search(ctx context.Context, center models.GeoPoint, radiusKm float64) ([]GeoMember, error)
}

// RedisGeoIndex keeps open instant requests in a Redis GEO set.
type RedisGeoIndex struct {
	client *redis.Client
	key    string
}

// NewRedisGeoIndex builds a GeoIndex over the given Redis client.
func NewRedisGeoIndex(client *redis.Client) *RedisGeoIndex {
	return &RedisGeoIndex{client: client, key: "geo:open_requests"}
}

func (g *RedisGeoIndex) Index(ctx context.Context, req *models.ServiceRequest) error {
	err := g.client.GeoAdd(ctx, g.key, &redis.GeoLocation{
		Name:      req.ID,
		Longitude: req.Location.Geo.Longitude(),
		Latitude:  req.Location.Geo.Latitude(),
	}).Err()
	if err != nil {
		return fmt.Errorf("geo index add for request %s: %w", req.ID, err)
	}
	return nil
}

func (g *RedisGeoIndex) Deindex(ctx context.Context, requestID string) error {
	if err := g.client.ZRem(ctx, g.key, requestID).Err(); err != nil {
		return fmt.Errorf("geo index remove for request %s: %w", requestID, err)
	}
	return nil
}

func (g *RedisGeoIndex) Search(ctx context.Context, center models.GeoPoint, radiusKm float64) ([]GeoMember, error) {
	locations, err := g.client.GeoSearchLocation(ctx, g.key, &redis.GeoSearchLocationQuery{
		GeoSearchQuery: redis.GeoSearchQuery{
			Longitude:  center.Longitude(),
			Latitude:   center.Latitude(),
			Radius:     radiusKm,
			RadiusUnit: "km",
			Sort:       "ASC",
		},
		WithDist: true,
	}).Result()
	if err != nil {
		return nil, fmt.Errorf("geo index search: %w", err)
	}
	members := make([]GeoMember, 0, len(locations))
	for _, loc := range locations {
		members = append(members, GeoMember{RequestID: loc.Name, DistanceKm: loc.Dist})
	}
	return members, nil
}

// MemoryGeoIndex is an in-process GeoIndex. It backs tests and single-node
// deployments where Redis is not available.
type MemoryGeoIndex struct {
	mu     sync.RWMutex
	points map[string]models.GeoPoint
}

func NewMemoryGeoIndex() *MemoryGeoIndex {
	return &MemoryGeoIndex{points: make(map[string]models.GeoPoint)}
}

func (g *MemoryGeoIndex) Index(ctx context.Context, req *models.ServiceRequest) error {
	g.mu.Lock()
	defer g.mu.Unlock()
	g.points[req.ID] = req.Location.Geo
	return nil
}

func (g *MemoryGeoIndex) Deindex(ctx context.Context, requestID string) error {
	g.mu.Lock()
	defer g.mu.Unlock()
	delete(g.points, requestID)
	return nil
}

func (g *MemoryGeoIndex) Search(ctx context.Context, center models.GeoPoint, radiusKm float64) ([]GeoMember, error) {
	g.mu.RLock()
	defer g.mu.RUnlock()
	var members []GeoMember
	for id, point := range g.points {
		d := HaversineKm(center, point)
		if d <= radiusKm {
			members = append(members, GeoMember{RequestID: id, DistanceKm: d})
		}
	}
	sort.Slice(members, func(i, j int) bool {
		if members[i].DistanceKm != members[j].DistanceKm {
			return members[i].DistanceKm < members[j].DistanceKm
		}
		return members[i].RequestID < members[j].RequestID
	})
	return members, nil
}

const earthRadiusKm = 6371.0

// HaversineKm is the great-circle distance between two points.
func HaversineKm(a, b models.GeoPoint) float64 {
	lat1 := a.Latitude() * math.Pi / 180
	lat2 := b.Latitude() * math.Pi / 180
	dLat := lat2 - lat1
	dLon := (b.Longitude() - a.Longitude()) * math.Pi / 180

	h := math.Sin(dLat/2)*math.Sin(dLat/2) +
		math.Cos(lat1)*math.Cos(lat2)*math.Sin(dLon/2)*math.Sin(dLon/2)
	return 2 * earthRadiusKm * math.Asin(math.Sqrt(h))
}
