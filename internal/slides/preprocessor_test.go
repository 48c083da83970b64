package slides

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/amgadabdelhafez/knowledge-builder/internal/domain/entity"
)

func TestClassifyRegionShape(t *testing.T) {
	cases := []struct {
		name   string
		width  int
		height int
		want   entity.RegionType
	}{
		{"square block", 100, 100, entity.RegionText},
		{"wide text line at upper bound", 150, 10, entity.RegionText},
		{"just past the wide bound", 1501, 100, entity.RegionDiagram},
		{"tall narrow strip at lower bound", 10, 100, entity.RegionText},
		{"extremely tall strip", 5, 100, entity.RegionDiagram},
		{"zero height", 50, 0, entity.RegionDiagram},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			assert.Equal(t, tc.want, ClassifyRegionShape(tc.width, tc.height))
		})
	}
}

func TestDefaultPreprocessorConfig(t *testing.T) {
	cfg := DefaultPreprocessorConfig()
	assert.Equal(t, 200.0, cfg.WhiteThreshold)
	assert.Equal(t, 0.70, cfg.WhiteFraction)
	assert.Equal(t, 0.01, cfg.EdgeFractionMin)
	assert.Equal(t, 0.30, cfg.EdgeFractionMax)
}

func TestMedianOf(t *testing.T) {
	assert.Equal(t, 2.0, medianOf([]float64{3, 1, 2}))
	assert.Equal(t, 2.5, medianOf([]float64{1, 2, 3, 4}))
	assert.Equal(t, 7.0, medianOf([]float64{7}))
}
