package domain

import (
	"testing"

	"github.com/stretchr/testify/require"
)

func TestLocationDistanceMetersZeroForSamePoint(t *testing.T) {
	l := Location{Lat: 50.0875, Lon: 14.4213}
	require.InDelta(t, 0, l.DistanceMeters(l), 1e-6)
}

func TestLocationDistanceMetersKnownPair(t *testing.T) {
	// Prague <-> Brno, roughly 185km apart.
	prague := Location{Lat: 50.0875, Lon: 14.4213}
	brno := Location{Lat: 49.1951, Lon: 16.6068}

	got := prague.DistanceMeters(brno)

	require.Greater(t, got, 180000.0)
	require.Less(t, got, 190000.0)
}

func TestLocationEqual(t *testing.T) {
	a := Location{Lat: 1, Lon: 2}
	b := Location{Lat: 1, Lon: 2}
	c := Location{Lat: 1, Lon: 2.0001}

	require.True(t, a.Equal(b))
	require.False(t, a.Equal(c))
}
