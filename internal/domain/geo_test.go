package domain

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestHaversine_ZeroForSamePoint(t *testing.T) {
	p := LatLng{Lat: 13.0827, Lng: 80.2707}
	assert.Equal(t, 0.0, Haversine(p, p))
}

func TestHaversine_Symmetric(t *testing.T) {
	chennai := LatLng{Lat: 13.0827, Lng: 80.2707}
	bangalore := LatLng{Lat: 12.9716, Lng: 77.5946}

	assert.InDelta(t, Haversine(chennai, bangalore), Haversine(bangalore, chennai), 1e-9)
}

func TestHaversine_KnownDistance(t *testing.T) {
	chennai := LatLng{Lat: 13.0827, Lng: 80.2707}
	bangalore := LatLng{Lat: 12.9716, Lng: 77.5946}

	// Road distance is ~350 km; great-circle is just under 300.
	km := Haversine(chennai, bangalore)
	assert.Greater(t, km, 280.0)
	assert.Less(t, km, 300.0)
}

func TestCityCenter_KnownDistrict(t *testing.T) {
	center := CityCenter("Chennai", LatLng{Lat: 1, Lng: 1})
	assert.Equal(t, LatLng{Lat: 13.0827, Lng: 80.2707}, center)
}

func TestCityCenter_UnknownDistrictIsOwnCenter(t *testing.T) {
	point := LatLng{Lat: 10.5, Lng: 76.2}
	assert.Equal(t, point, CityCenter("Palakkad", point))
}
