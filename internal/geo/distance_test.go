package geo

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestDistanceKm(t *testing.T) {
	// Same point.
	assert.InDelta(t, 0, DistanceKm(19.076, 72.8777, 19.076, 72.8777), 0.001)

	// Mumbai to Pune is roughly 120 km as the crow flies.
	d := DistanceKm(19.076, 72.8777, 18.5204, 73.8567)
	assert.InDelta(t, 120, d, 5)

	// Symmetric.
	assert.InDelta(t, d, DistanceKm(18.5204, 73.8567, 19.076, 72.8777), 0.001)
}

func TestDistanceKmAcrossEquator(t *testing.T) {
	// One degree of latitude is about 111 km everywhere.
	d := DistanceKm(-0.5, 30, 0.5, 30)
	assert.InDelta(t, 111, d, 1)
}
