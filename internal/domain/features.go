package domain

import (
	"context"
	"log/slog"
)

// Defaults applied while engineering features.
const (
	defaultRoadWidthMeters = 6.0
	defaultAvgPricePerSqft = 2000.0

	// Fixed distances never resolved through the mapper.
	defaultHighwayKm = 5.0
	defaultMetroKm   = 10.0

	// Applied when the mapper is working but finds nothing within the
	// search radius.
	noSchoolFoundKm   = 5.0
	noHospitalFoundKm = 3.0

	// Applied on the offline fallback path. The school default here
	// intentionally differs from noSchoolFoundKm; this matches observed
	// production behavior and changing it would shift estimates.
	fallbackSchoolKm   = 2.0
	fallbackHospitalKm = 3.0

	placeSearchRadiusMeters = 5000
)

// avgAreaPrices is the feature engineer's per-sqft price prior, keyed
// state → district. It is owned here and deliberately not shared with the
// estimator's heuristic table, which evolves independently.
var avgAreaPrices = map[string]map[string]float64{
	"Kerala": {
		"Ernakulam":          2800,
		"Thiruvananthapuram": 2500,
		"Kozhikode":          2200,
	},
	"Karnataka": {
		"Bangalore": 4200,
	},
	"Tamil Nadu": {
		"Chennai": 3800,
	},
}

// FeatureEngineer converts property attributes into the fixed-shape numeric
// vector the estimator consumes. Pass a nil mapper to disable external
// distance resolution.
type FeatureEngineer struct {
	mapper Mapper
	logger *slog.Logger
}

// NewFeatureEngineer creates a FeatureEngineer.
func NewFeatureEngineer(mapper Mapper, logger *slog.Logger) *FeatureEngineer {
	return &FeatureEngineer{mapper: mapper, logger: logger}
}

// CreateFeatures builds a complete FeatureVector for one parcel. It never
// fails: any error on the external distance path degrades to the offline
// estimate instead of propagating.
func (fe *FeatureEngineer) CreateFeatures(ctx context.Context, attrs PropertyAttributes) FeatureVector {
	values := map[string]float64{
		FeatAreaSqft:    attrs.AreaSqft,
		FeatLatitude:    attrs.Latitude,
		FeatLongitude:   attrs.Longitude,
		FeatLandType:    attrs.LandType.Code(),
		FeatRoadWidth:   roadWidthOrDefault(attrs.RoadWidth),
		FeatElectricity: boolFlag(attrs.Electricity),
		FeatWaterSupply: boolFlag(attrs.WaterSupply),
	}

	point := LatLng{Lat: attrs.Latitude, Lng: attrs.Longitude}

	distances, err := fe.resolveDistances(ctx, point, attrs.District)
	if err != nil {
		fe.logger.Warn("distance resolution failed, using offline estimates",
			"district", attrs.District,
			"error", err,
		)
		distances = estimateDistances(point, attrs.District)
	}
	for name, km := range distances {
		values[name] = km
	}

	values[FeatAvgPriceInArea] = avgPriceInArea(attrs.District, attrs.State)

	return FeatureVector{
		Values:   values,
		State:    attrs.State,
		District: attrs.District,
	}
}

// resolveDistances computes the five distance features through the mapper.
// Any call error discards partial results; the caller falls back to
// estimateDistances so the vector shape stays stable.
func (fe *FeatureEngineer) resolveDistances(ctx context.Context, point LatLng, district string) (map[string]float64, error) {
	if fe.mapper == nil {
		return estimateDistances(point, district), nil
	}

	center := CityCenter(district, point)

	distances := make(map[string]float64, 5)

	km, ok, err := fe.mapper.DrivingDistance(ctx, point, center)
	if err != nil {
		return nil, err
	}
	if ok {
		distances[FeatDistanceToCity] = km
	} else {
		distances[FeatDistanceToCity] = Haversine(point, center)
	}

	schoolLoc, found, err := fe.mapper.NearestPlace(ctx, point, placeSearchRadiusMeters, PlaceSchool)
	if err != nil {
		return nil, err
	}
	if found {
		distances[FeatDistanceToSchool] = Haversine(point, schoolLoc)
	} else {
		distances[FeatDistanceToSchool] = noSchoolFoundKm
	}

	hospitalLoc, found, err := fe.mapper.NearestPlace(ctx, point, placeSearchRadiusMeters, PlaceHospital)
	if err != nil {
		return nil, err
	}
	if found {
		distances[FeatDistanceToHospital] = Haversine(point, hospitalLoc)
	} else {
		distances[FeatDistanceToHospital] = noHospitalFoundKm
	}

	// Highway and metro distances are never resolved externally.
	distances[FeatDistanceToHighway] = defaultHighwayKm
	distances[FeatDistanceToMetro] = defaultMetroKm

	return distances, nil
}

// estimateDistances is the offline path: great-circle distance to the city
// center plus fixed defaults for everything else.
func estimateDistances(point LatLng, district string) map[string]float64 {
	return map[string]float64{
		FeatDistanceToCity:     Haversine(point, CityCenter(district, point)),
		FeatDistanceToHighway:  defaultHighwayKm,
		FeatDistanceToMetro:    defaultMetroKm,
		FeatDistanceToSchool:   fallbackSchoolKm,
		FeatDistanceToHospital: fallbackHospitalKm,
	}
}

func avgPriceInArea(district, state string) float64 {
	if price, ok := avgAreaPrices[state][district]; ok {
		return price
	}
	return defaultAvgPricePerSqft
}

func roadWidthOrDefault(w *float64) float64 {
	if w != nil {
		return *w
	}
	return defaultRoadWidthMeters
}

func boolFlag(b *bool) float64 {
	if b == nil || *b {
		return 1
	}
	return 0
}
