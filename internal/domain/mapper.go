package domain

import "context"

// PlaceType selects the category of a nearby-place search.
type PlaceType string

// Place types the feature engineer searches for.
const (
	PlaceSchool   PlaceType = "school"
	PlaceHospital PlaceType = "hospital"
)

// Mapper resolves real-world travel distances and nearby places through an
// external mapping provider. A nil Mapper means the capability is not
// configured, which is distinct from a call failing; both lead the feature
// engineer down the offline fallback path.
type Mapper interface {
	// DrivingDistance returns the road distance in kilometers between two
	// points. ok is false when the provider found no route.
	DrivingDistance(ctx context.Context, origin, dest LatLng) (km float64, ok bool, err error)

	// NearestPlace returns the closest place of the given type within
	// radiusMeters of the point. found is false when nothing is nearby.
	NearestPlace(ctx context.Context, around LatLng, radiusMeters int, placeType PlaceType) (loc LatLng, found bool, err error)
}
