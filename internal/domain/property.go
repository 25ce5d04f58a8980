package domain

// LandType classifies how a parcel is used.
type LandType string

// Recognized land types. Anything else encodes like RESIDENTIAL.
const (
	LandResidential  LandType = "RESIDENTIAL"
	LandCommercial   LandType = "COMMERCIAL"
	LandAgricultural LandType = "AGRICULTURAL"
	LandIndustrial   LandType = "INDUSTRIAL"
)

// landTypeCodes maps land types to the numeric encoding used during training.
var landTypeCodes = map[LandType]float64{
	LandResidential:  1,
	LandCommercial:   2,
	LandAgricultural: 3,
	LandIndustrial:   4,
}

// Code returns the numeric encoding for the land type, defaulting to the
// residential code for unrecognized values.
func (t LandType) Code() float64 {
	if code, ok := landTypeCodes[t]; ok {
		return code
	}
	return 1
}

// PropertyAttributes describes one parcel as submitted by the caller.
// Built fresh per request; required fields are validated at the API boundary,
// optional ones are defaulted during feature engineering.
type PropertyAttributes struct {
	AreaSqft  float64
	Latitude  float64
	Longitude float64
	District  string
	State     string
	LandType  LandType
	Pincode   string

	// RoadWidth is meters of road frontage; nil means unknown.
	RoadWidth *float64
	// Electricity and WaterSupply default to true when nil.
	Electricity *bool
	WaterSupply *bool
}

// Feature slot names. The estimator orders its input vector by the names
// persisted in the model artifact, so these strings are part of the artifact
// contract and must match what the trainer wrote.
const (
	FeatAreaSqft           = "area_sqft"
	FeatLatitude           = "latitude"
	FeatLongitude          = "longitude"
	FeatLandType           = "land_type_encoded"
	FeatRoadWidth          = "road_width"
	FeatElectricity        = "electricity"
	FeatWaterSupply        = "water_supply"
	FeatDistanceToCity     = "distance_to_city"
	FeatDistanceToHighway  = "distance_to_highway"
	FeatDistanceToMetro    = "distance_to_metro"
	FeatDistanceToSchool   = "distance_to_school"
	FeatDistanceToHospital = "distance_to_hospital"
	FeatAvgPriceInArea     = "avg_price_in_area"
)

// FeatureNames lists every slot a complete FeatureVector carries, in the
// canonical training order.
var FeatureNames = []string{
	FeatAreaSqft, FeatLatitude, FeatLongitude,
	FeatDistanceToCity, FeatDistanceToHighway, FeatDistanceToMetro,
	FeatDistanceToSchool, FeatDistanceToHospital,
	FeatRoadWidth, FeatElectricity, FeatWaterSupply,
	FeatAvgPriceInArea, FeatLandType,
}

// FeatureVector is the fixed-shape numeric representation of a parcel.
// Values always holds all thirteen slots after feature engineering; the
// state and district ride along for the heuristic price tables.
type FeatureVector struct {
	Values   map[string]float64
	State    string
	District string
}

// Slot returns the named feature value, or 0 when the slot is absent.
func (fv FeatureVector) Slot(name string) float64 {
	return fv.Values[name]
}

// Has reports whether the named slot is populated.
func (fv FeatureVector) Has(name string) bool {
	_, ok := fv.Values[name]
	return ok
}

// PriceInterval bounds a point estimate.
type PriceInterval struct {
	Min float64 `json:"min"`
	Max float64 `json:"max"`
}

// Estimate is the result of one price inference.
type Estimate struct {
	Price        float64
	PricePerSqft float64
	Confidence   float64
	Interval     PriceInterval
	Factors      map[string]string

	// Branch records which estimation path produced the result,
	// "statistical" or "heuristic". Used for logging and metrics.
	Branch string
}

// Estimation branches.
const (
	BranchStatistical = "statistical"
	BranchHeuristic   = "heuristic"
)

// MarketInsights is supplementary display data for a district. It is
// non-authoritative: the API substitutes a default when unavailable.
type MarketInsights struct {
	AvgPricePerSqft      float64  `json:"avg_price_per_sqft"`
	PriceTrend           string   `json:"price_trend"`
	GrowthRate           float64  `json:"growth_rate"`
	RecentSales          int      `json:"recent_sales"`
	MarketActivity       string   `json:"market_activity"`
	ComparableProperties []string `json:"comparable_properties"`
}
