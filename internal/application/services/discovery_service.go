package services

import (
	"sort"
	"strings"

	"github.com/chatori/chatori-backend/internal/domain/entities"
	"github.com/chatori/chatori-backend/pkg/geo"
)

// Sort orders accepted by the discovery engine.
const (
	SortRatingDesc  = "rating_desc"
	SortNameAsc     = "name_asc"
	SortDistanceAsc = "distance_asc"
	SortDefault     = SortRatingDesc
)

// NoRadiusLimit disables the radius filter.
const NoRadiusLimit = -1.0

// DiscoveryParams describe one discovery query. All filters are
// conjunctive: a stall must pass every active filter to be returned.
type DiscoveryParams struct {
	// Query is matched case-insensitively as a substring against the
	// stall's name, dish type and area. Empty means no text filter.
	Query string

	// DishType filters to an exact dish type, compared case-insensitively.
	DishType string

	// Area filters to an exact area, compared case-insensitively.
	Area string

	// MinRating keeps stalls whose aggregate rating is at least this
	// value. Zero keeps everything.
	MinRating float64

	// RadiusKm keeps stalls within this distance of UserLocation.
	// NoRadiusLimit (or any negative value) disables the filter.
	RadiusKm float64

	// UserLocation anchors distance filtering and distance sorting.
	// Nil means the caller's position is unknown.
	UserLocation *entities.Location

	// Sort selects the result order. Unknown values fall back to
	// rating_desc, as does distance_asc without a user location.
	Sort string
}

// DiscoveryResult pairs a stall with its distance from the caller.
// DistanceKm is negative when the caller's location is unknown.
type DiscoveryResult struct {
	Stall      *entities.Stall `json:"stall"`
	DistanceKm float64         `json:"distance_km"`
}

// DiscoveryService ranks and filters stalls in memory. It holds no
// state and touches no storage; callers supply the candidate set.
type DiscoveryService struct{}

// NewDiscoveryService creates a new discovery service
func NewDiscoveryService() *DiscoveryService {
	return &DiscoveryService{}
}

// Discover applies the params' filters to the candidate stalls and
// returns the survivors in the requested order. The input slice is
// never mutated; ties keep the candidates' original relative order.
func (s *DiscoveryService) Discover(stalls []*entities.Stall, params DiscoveryParams) []DiscoveryResult {
	results := make([]DiscoveryResult, 0, len(stalls))

	for _, stall := range stalls {
		if stall == nil {
			continue
		}
		if !matchesQuery(stall, params.Query) {
			continue
		}
		if !equalsFold(stall.DishType, params.DishType) {
			continue
		}
		if !equalsFold(stall.Area, params.Area) {
			continue
		}
		if stall.Rating < params.MinRating {
			continue
		}

		distance := -1.0
		if params.UserLocation != nil {
			distance = geo.DistanceKm(
				params.UserLocation.Latitude, params.UserLocation.Longitude,
				stall.Location.Latitude, stall.Location.Longitude,
			)
			if params.RadiusKm >= 0 && distance > params.RadiusKm {
				continue
			}
		}

		results = append(results, DiscoveryResult{Stall: stall, DistanceKm: distance})
	}

	sortResults(results, params)
	return results
}

func matchesQuery(stall *entities.Stall, query string) bool {
	q := strings.ToLower(strings.TrimSpace(query))
	if q == "" {
		return true
	}
	return strings.Contains(strings.ToLower(stall.Name), q) ||
		strings.Contains(strings.ToLower(stall.DishType), q) ||
		strings.Contains(strings.ToLower(stall.Area), q)
}

func equalsFold(value, filter string) bool {
	if filter == "" {
		return true
	}
	return strings.EqualFold(value, filter)
}

func sortResults(results []DiscoveryResult, params DiscoveryParams) {
	order := params.Sort
	if order == SortDistanceAsc && params.UserLocation == nil {
		order = SortRatingDesc
	}

	switch order {
	case SortNameAsc:
		sort.SliceStable(results, func(i, j int) bool {
			return strings.ToLower(results[i].Stall.Name) < strings.ToLower(results[j].Stall.Name)
		})
	case SortDistanceAsc:
		sort.SliceStable(results, func(i, j int) bool {
			return results[i].DistanceKm < results[j].DistanceKm
		})
	default:
		sort.SliceStable(results, func(i, j int) bool {
			return results[i].Stall.Rating > results[j].Stall.Rating
		})
	}
}
