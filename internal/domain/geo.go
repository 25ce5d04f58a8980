package domain

import "math"

// LatLng is a WGS-84 coordinate pair in degrees.
type LatLng struct {
	Lat float64
	Lng float64
}

// earthRadiusKm is the mean Earth radius used for great-circle distances.
const earthRadiusKm = 6371.0

// Haversine returns the great-circle distance between two points in kilometers.
func Haversine(a, b LatLng) float64 {
	lat1 := a.Lat * math.Pi / 180
	lat2 := b.Lat * math.Pi / 180
	dlat := (b.Lat - a.Lat) * math.Pi / 180
	dlng := (b.Lng - a.Lng) * math.Pi / 180

	h := math.Sin(dlat/2)*math.Sin(dlat/2) +
		math.Cos(lat1)*math.Cos(lat2)*math.Sin(dlng/2)*math.Sin(dlng/2)
	c := 2 * math.Atan2(math.Sqrt(h), math.Sqrt(1-h))

	return earthRadiusKm * c
}

// cityCenters anchors "distance to city" for the districts the service knows.
// Districts absent from the table are treated as their own city center.
var cityCenters = map[string]LatLng{
	"Ernakulam":          {9.9312, 76.2673},
	"Thiruvananthapuram": {8.5241, 76.9366},
	"Kozhikode":          {11.2588, 75.7804},
	"Bangalore":          {12.9716, 77.5946},
	"Chennai":            {13.0827, 80.2707},
	"Mumbai":             {19.0760, 72.8777},
	"Delhi":              {28.7041, 77.1025},
}

// CityCenter returns the reference coordinate for a district. When the
// district is unknown the given point is its own center, yielding distance 0.
func CityCenter(district string, point LatLng) LatLng {
	if center, ok := cityCenters[district]; ok {
		return center
	}
	return point
}
