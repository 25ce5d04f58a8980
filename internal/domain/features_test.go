package domain

import (
	"context"
	"errors"
	"io"
	"log/slog"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// --- mock mapper ---

type mockMapper struct {
	drivingKm    float64
	drivingOK    bool
	drivingErr   error
	schoolLoc    LatLng
	schoolFound  bool
	schoolErr    error
	hospitalLoc  LatLng
	hospitalOK   bool
	hospitalErr  error
	drivingCalls int
	placeCalls   int
}

func (m *mockMapper) DrivingDistance(_ context.Context, _, _ LatLng) (float64, bool, error) {
	m.drivingCalls++
	return m.drivingKm, m.drivingOK, m.drivingErr
}

func (m *mockMapper) NearestPlace(_ context.Context, _ LatLng, _ int, placeType PlaceType) (LatLng, bool, error) {
	m.placeCalls++
	if placeType == PlaceSchool {
		return m.schoolLoc, m.schoolFound, m.schoolErr
	}
	return m.hospitalLoc, m.hospitalOK, m.hospitalErr
}

func discardLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

func chennaiAttrs() PropertyAttributes {
	return PropertyAttributes{
		AreaSqft:  1000,
		Latitude:  13.0827,
		Longitude: 80.2707,
		District:  "Chennai",
		State:     "Tamil Nadu",
		LandType:  LandResidential,
	}
}

// --- tests ---

func TestCreateFeatures_AllSlotsPopulated(t *testing.T) {
	fe := NewFeatureEngineer(nil, discardLogger())

	fv := fe.CreateFeatures(context.Background(), chennaiAttrs())

	require.Len(t, fv.Values, len(FeatureNames))
	for _, name := range FeatureNames {
		assert.True(t, fv.Has(name), "missing slot %s", name)
	}
	assert.Equal(t, "Tamil Nadu", fv.State)
	assert.Equal(t, "Chennai", fv.District)
}

func TestCreateFeatures_DirectFeatureDefaults(t *testing.T) {
	fe := NewFeatureEngineer(nil, discardLogger())

	fv := fe.CreateFeatures(context.Background(), chennaiAttrs())

	assert.Equal(t, 1000.0, fv.Slot(FeatAreaSqft))
	assert.Equal(t, 1.0, fv.Slot(FeatLandType))
	assert.Equal(t, 6.0, fv.Slot(FeatRoadWidth))
	assert.Equal(t, 1.0, fv.Slot(FeatElectricity))
	assert.Equal(t, 1.0, fv.Slot(FeatWaterSupply))
}

func TestCreateFeatures_ExplicitOptionalFields(t *testing.T) {
	fe := NewFeatureEngineer(nil, discardLogger())

	width := 12.0
	off := false
	attrs := chennaiAttrs()
	attrs.LandType = LandCommercial
	attrs.RoadWidth = &width
	attrs.Electricity = &off

	fv := fe.CreateFeatures(context.Background(), attrs)

	assert.Equal(t, 2.0, fv.Slot(FeatLandType))
	assert.Equal(t, 12.0, fv.Slot(FeatRoadWidth))
	assert.Equal(t, 0.0, fv.Slot(FeatElectricity))
	assert.Equal(t, 1.0, fv.Slot(FeatWaterSupply))
}

func TestCreateFeatures_UnrecognizedLandTypeEncodesResidential(t *testing.T) {
	fe := NewFeatureEngineer(nil, discardLogger())

	attrs := chennaiAttrs()
	attrs.LandType = "PLANTATION"

	fv := fe.CreateFeatures(context.Background(), attrs)
	assert.Equal(t, 1.0, fv.Slot(FeatLandType))
}

func TestCreateFeatures_OfflinePath_CityCenterDistanceZero(t *testing.T) {
	fe := NewFeatureEngineer(nil, discardLogger())

	fv := fe.CreateFeatures(context.Background(), chennaiAttrs())

	assert.Equal(t, 0.0, fv.Slot(FeatDistanceToCity))
	assert.Equal(t, 5.0, fv.Slot(FeatDistanceToHighway))
	assert.Equal(t, 10.0, fv.Slot(FeatDistanceToMetro))
	assert.Equal(t, 2.0, fv.Slot(FeatDistanceToSchool))
	assert.Equal(t, 3.0, fv.Slot(FeatDistanceToHospital))
}

func TestCreateFeatures_AvgPriceLookup(t *testing.T) {
	fe := NewFeatureEngineer(nil, discardLogger())

	fv := fe.CreateFeatures(context.Background(), chennaiAttrs())
	assert.Equal(t, 3800.0, fv.Slot(FeatAvgPriceInArea))

	attrs := chennaiAttrs()
	attrs.District = "Alappuzha"
	attrs.State = "Kerala"
	fv = fe.CreateFeatures(context.Background(), attrs)
	assert.Equal(t, 2000.0, fv.Slot(FeatAvgPriceInArea))
}

func TestCreateFeatures_MapperResolvesDistances(t *testing.T) {
	mapper := &mockMapper{
		drivingKm:   12.5,
		drivingOK:   true,
		schoolLoc:   LatLng{Lat: 13.09, Lng: 80.28},
		schoolFound: true,
		hospitalOK:  false, // nothing within the radius
	}
	fe := NewFeatureEngineer(mapper, discardLogger())

	fv := fe.CreateFeatures(context.Background(), chennaiAttrs())

	assert.Equal(t, 12.5, fv.Slot(FeatDistanceToCity))
	assert.Greater(t, fv.Slot(FeatDistanceToSchool), 0.0)
	assert.Less(t, fv.Slot(FeatDistanceToSchool), 5.0)
	assert.Equal(t, 3.0, fv.Slot(FeatDistanceToHospital))
	assert.Equal(t, 5.0, fv.Slot(FeatDistanceToHighway))
	assert.Equal(t, 10.0, fv.Slot(FeatDistanceToMetro))
	assert.Equal(t, 1, mapper.drivingCalls)
	assert.Equal(t, 2, mapper.placeCalls)
}

func TestCreateFeatures_NoRouteFallsBackToGreatCircle(t *testing.T) {
	mapper := &mockMapper{drivingOK: false}
	fe := NewFeatureEngineer(mapper, discardLogger())

	attrs := chennaiAttrs()
	attrs.Latitude = 13.2
	attrs.Longitude = 80.3

	fv := fe.CreateFeatures(context.Background(), attrs)

	want := Haversine(LatLng{Lat: 13.2, Lng: 80.3}, LatLng{Lat: 13.0827, Lng: 80.2707})
	assert.InDelta(t, want, fv.Slot(FeatDistanceToCity), 1e-9)
	// The mapper worked, so the "no school found" default applies, not the
	// offline one.
	assert.Equal(t, 5.0, fv.Slot(FeatDistanceToSchool))
}

func TestCreateFeatures_MapperErrorMatchesOfflinePath(t *testing.T) {
	mapper := &mockMapper{drivingErr: errors.New("quota exceeded")}
	failing := NewFeatureEngineer(mapper, discardLogger())
	offline := NewFeatureEngineer(nil, discardLogger())

	got := failing.CreateFeatures(context.Background(), chennaiAttrs())
	want := offline.CreateFeatures(context.Background(), chennaiAttrs())

	assert.Equal(t, want.Values, got.Values)
}

func TestCreateFeatures_PartialFailureDiscardsResolvedDistances(t *testing.T) {
	// Driving distance and school lookup succeed, then the hospital lookup
	// fails: everything reverts to the offline estimates.
	mapper := &mockMapper{
		drivingKm:   12.5,
		drivingOK:   true,
		schoolFound: true,
		schoolLoc:   LatLng{Lat: 13.09, Lng: 80.28},
		hospitalErr: errors.New("timeout"),
	}
	fe := NewFeatureEngineer(mapper, discardLogger())

	fv := fe.CreateFeatures(context.Background(), chennaiAttrs())

	assert.Equal(t, 0.0, fv.Slot(FeatDistanceToCity))
	assert.Equal(t, 2.0, fv.Slot(FeatDistanceToSchool))
	assert.Equal(t, 3.0, fv.Slot(FeatDistanceToHospital))
}
