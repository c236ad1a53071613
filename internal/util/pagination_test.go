package util

import (
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestCalculate(t *testing.T) {
	tests := []struct {
		name             string
		page, size       int
		wantOff, wantLim int
	}{
		{name: "first page", page: 1, size: 10, wantOff: 0, wantLim: 10},
		{name: "third page", page: 3, size: 10, wantOff: 20, wantLim: 10},
		{name: "page below one", page: 0, size: 5, wantOff: 0, wantLim: 5},
		{name: "zero size", page: 2, size: 0, wantOff: DefaultPageSize, wantLim: DefaultPageSize},
		{name: "oversized", page: 1, size: 1000, wantOff: 0, wantLim: DefaultPageSize},
		{name: "huge page", page: math.MaxInt, size: MaxPageSize, wantOff: (MaxPage - 1) * MaxPageSize, wantLim: MaxPageSize},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			off, lim := Calculate(tt.page, tt.size)
			assert.Equal(t, tt.wantOff, off)
			assert.Equal(t, tt.wantLim, lim)
		})
	}
}

func TestParseIntDefault(t *testing.T) {
	assert.Equal(t, 5, ParseIntDefault("", 5))
	assert.Equal(t, 5, ParseIntDefault("x", 5))
	assert.Equal(t, 12, ParseIntDefault("12", 5))
}

func TestPageMeta(t *testing.T) {
	m := PageMeta(2, 10, 10, 25)
	assert.EqualValues(t, 3, m["total_pages"])
	assert.Equal(t, true, m["has_prev"])
	assert.Equal(t, true, m["has_next"])

	m = PageMeta(3, 20, 10, 25)
	assert.Equal(t, false, m["has_next"])

	m = PageMeta(math.MaxInt, 0, 10, 25)
	assert.Equal(t, MaxPage, m["page"])
}

func TestCalculate_OffsetNeverNegative(t *testing.T) {
	for _, page := range []int{math.MaxInt, math.MaxInt / 2, math.MaxInt32, MaxPage + 1} {
		off, _ := Calculate(page, MaxPageSize)
		assert.GreaterOrEqual(t, off, 0, "page %d", page)
	}
}
