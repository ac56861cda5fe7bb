package modelselect

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestChoose_WatchDefaultsToLite(t *testing.T) {
	d := Choose("watch", 4096, false)
	assert.Equal(t, lite, d.Chosen)
	assert.Equal(t, full, d.Fallback)
}

func TestChoose_LowMemoryForcesLite(t *testing.T) {
	d := Choose("generic_display", 512, false)
	assert.Equal(t, lite, d.Chosen)
}

func TestChoose_PreferQualityWithMemoryPicksFull(t *testing.T) {
	d := Choose("generic_display", 8192, true)
	assert.Equal(t, full, d.Chosen)
}

func TestChoose_DefaultPicksFull(t *testing.T) {
	d := Choose("generic_display", 0, false)
	assert.Equal(t, full, d.Chosen)
}
