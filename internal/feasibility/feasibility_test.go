package feasibility

import (
	"testing"

	"github.com/fekuna/omnipos-inventory-service/internal/apperror"
	"github.com/fekuna/omnipos-inventory-service/internal/model"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func part(id string, inStock, committed int) *model.Part {
	return &model.Part{ID: id, Name: "part " + id, InStock: inStock, Committed: committed}
}

func line(p *model.Part, qty int) model.BOMLine {
	return model.BOMLine{ID: "line-" + p.ID, PartID: p.ID, QuantityNeeded: qty, Part: p}
}

func TestBuildableUnits_TwoPartScenario(t *testing.T) {
	a := part("A", 20, 0)
	b := part("B", 9, 0)
	lines := []model.BOMLine{line(a, 2), line(b, 3)}

	units, err := BuildableUnits(lines)
	require.NoError(t, err)
	assert.Equal(t, 3, units)

	bottleneck, err := Bottleneck(lines)
	require.NoError(t, err)
	assert.Same(t, b, bottleneck)
}

func TestEvaluate_EmptyBOM(t *testing.T) {
	res, err := Evaluate(nil, InStock)
	require.NoError(t, err)
	assert.Equal(t, 0, res.Buildable)
	assert.Nil(t, res.Bottleneck)
	assert.Empty(t, res.Lines)

	bottleneck, err := Bottleneck([]model.BOMLine{})
	require.NoError(t, err)
	assert.Nil(t, bottleneck)
}

func TestEvaluate_TieGoesToFirstLine(t *testing.T) {
	first := part("first", 10, 0)
	second := part("second", 5, 0)
	third := part("third", 100, 0)
	lines := []model.BOMLine{line(third, 1), line(first, 2), line(second, 1)}

	res, err := Evaluate(lines, InStock)
	require.NoError(t, err)
	assert.Equal(t, 5, res.Buildable)
	assert.Same(t, first, res.Bottleneck)
}

func TestEvaluate_MinimumOverLines(t *testing.T) {
	tests := []struct {
		name       string
		lines      []model.BOMLine
		buildable  int
		bottleneck string
	}{
		{"single line", []model.BOMLine{line(part("x", 7, 0), 2)}, 3, "x"},
		{"exact multiple", []model.BOMLine{line(part("x", 8, 0), 4), line(part("y", 30, 0), 10)}, 2, "x"},
		{"zero stock", []model.BOMLine{line(part("x", 50, 0), 1), line(part("y", 0, 0), 1)}, 0, "y"},
		{"under one unit", []model.BOMLine{line(part("x", 2, 0), 3)}, 0, "x"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			res, err := Evaluate(tt.lines, InStock)
			require.NoError(t, err)
			assert.Equal(t, tt.buildable, res.Buildable)
			require.NotNil(t, res.Bottleneck)
			assert.Equal(t, tt.bottleneck, res.Bottleneck.ID)
		})
	}
}

func TestEvaluate_BasisDiffers(t *testing.T) {
	a := part("A", 20, 12)
	b := part("B", 9, 0)
	lines := []model.BOMLine{line(a, 2), line(b, 3)}

	res, err := Evaluate(lines, InStock)
	require.NoError(t, err)
	assert.Equal(t, 3, res.Buildable)
	assert.Same(t, b, res.Bottleneck)

	res, err = Evaluate(lines, Available)
	require.NoError(t, err)
	assert.Equal(t, "available", res.Basis)
	assert.Equal(t, 3, res.Buildable)
	assert.Same(t, b, res.Bottleneck)

	a.Committed = 16
	res, err = Evaluate(lines, Available)
	require.NoError(t, err)
	assert.Equal(t, 2, res.Buildable)
	assert.Same(t, a, res.Bottleneck)
}

func TestEvaluate_OversoldClampsButKeepsBottleneck(t *testing.T) {
	oversold := part("over", 2, 9)
	deeper := part("deeper", 1, 10)
	lines := []model.BOMLine{line(part("ok", 50, 0), 1), line(oversold, 2), line(deeper, 2)}

	res, err := Evaluate(lines, Available)
	require.NoError(t, err)
	assert.Equal(t, 0, res.Buildable)
	assert.Same(t, deeper, res.Bottleneck)
	assert.Equal(t, -4, res.Lines[1].Units)
	assert.Equal(t, -5, res.Lines[2].Units)
}

func TestEvaluate_MissingPartIsStale(t *testing.T) {
	lines := []model.BOMLine{
		line(part("A", 20, 0), 2),
		{ID: "line-gone", PartID: "gone", QuantityNeeded: 1},
		{ID: "line-gone-2", PartID: "gone", QuantityNeeded: 3},
	}

	_, err := BuildableUnits(lines)
	require.Error(t, err)
	assert.ErrorIs(t, err, apperror.ErrStaleDependency)

	var appErr *apperror.Error
	require.ErrorAs(t, err, &appErr)
	assert.Equal(t, []string{"gone"}, appErr.Refs)

	_, err = Bottleneck(lines)
	assert.ErrorIs(t, err, apperror.ErrStaleDependency)
}

func TestEvaluate_RejectsNonPositiveQuantity(t *testing.T) {
	_, err := Evaluate([]model.BOMLine{line(part("A", 5, 0), 0)}, InStock)
	assert.ErrorIs(t, err, apperror.ErrValidation)
}

func TestFloorDiv(t *testing.T) {
	tests := []struct{ a, b, want int }{
		{7, 2, 3},
		{6, 2, 3},
		{0, 3, 0},
		{-1, 3, -1},
		{-3, 3, -1},
		{-4, 3, -2},
	}
	for _, tt := range tests {
		assert.Equal(t, tt.want, floorDiv(tt.a, tt.b), "floorDiv(%d, %d)", tt.a, tt.b)
	}
}
