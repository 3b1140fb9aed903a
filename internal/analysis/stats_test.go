package analysis

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestQuantile(t *testing.T) {
	values := []float64{80, 10, 70, 30}

	assert.Equal(t, 10.0, quantile(values, 0))
	assert.Equal(t, 25.0, quantile(values, 0.25))
	assert.Equal(t, 50.0, median(values))
	assert.Equal(t, 80.0, quantile(values, 1))
	assert.Equal(t, []float64{80, 10, 70, 30}, values, "input must not be sorted in place")
	assert.Zero(t, quantile(nil, 0.5))
}

func TestSampleStd(t *testing.T) {
	assert.InDelta(t, 28.2843, sampleStd([]float64{70, 30}), 1e-4)
	assert.Zero(t, sampleStd([]float64{42}))
	assert.Zero(t, sampleStd(nil))
}

func TestPearson(t *testing.T) {
	r := pearson([]float64{1, 2, 3}, []float64{6, 4, 2})
	require.NotNil(t, r)
	assert.InDelta(t, -1.0, *r, 1e-9)

	assert.Nil(t, pearson([]float64{1}, []float64{1}))
	assert.Nil(t, pearson([]float64{1, 1, 1}, []float64{1, 2, 3}))
	assert.Nil(t, pearson([]float64{1, 2}, []float64{1, 2, 3}))
}

func TestDescribe(t *testing.T) {
	d := describe([]float64{1, 2, 3, 4})

	assert.Equal(t, 4.0, d.Count)
	assert.Equal(t, 2.5, d.Mean)
	assert.Equal(t, 1.0, d.Min)
	assert.Equal(t, 1.75, d.Q25)
	assert.Equal(t, 2.5, d.Q50)
	assert.Equal(t, 3.25, d.Q75)
	assert.Equal(t, 4.0, d.Max)
	assert.InDelta(t, 1.2910, d.Std, 1e-4)
}

func TestFormatting(t *testing.T) {
	assert.Equal(t, "1,234,568", Money(1234567.8))
	assert.Equal(t, "0", Money(0))
	assert.Equal(t, "0.5", Plain(0.5))
	assert.Equal(t, "60000", Plain(60000))
}

func TestTableHead(t *testing.T) {
	tbl := Table{Rows: [][]interface{}{{1}, {2}, {3}}}

	assert.Len(t, tbl.Head(2).Rows, 2)
	assert.Len(t, tbl.Head(10).Rows, 3)
	assert.Len(t, tbl.Rows, 3)
}
