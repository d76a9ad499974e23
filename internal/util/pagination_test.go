package util

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestParseIntDefault(t *testing.T) {
	assert.Equal(t, 5, ParseIntDefault("", 5))
	assert.Equal(t, 5, ParseIntDefault("abc", 5))
	assert.Equal(t, 12, ParseIntDefault("12", 5))
	assert.Equal(t, -3, ParseIntDefault("-3", 5))
}

func TestCalculate(t *testing.T) {
	tests := []struct {
		page, size          int
		wantOffset, wantLim int
	}{
		{1, 10, 0, 10},
		{3, 10, 20, 10},
		{0, 0, 0, DefaultPageSize},
		{-2, 5, 0, 5},
		{2, 500, MaxPageSize, MaxPageSize},
	}
	for _, tt := range tests {
		offset, limit := Calculate(tt.page, tt.size)
		assert.Equal(t, tt.wantOffset, offset, "page=%d size=%d", tt.page, tt.size)
		assert.Equal(t, tt.wantLim, limit, "page=%d size=%d", tt.page, tt.size)
	}
}

func TestTotalPages(t *testing.T) {
	assert.EqualValues(t, 0, TotalPages(0, 20))
	assert.EqualValues(t, 1, TotalPages(20, 20))
	assert.EqualValues(t, 2, TotalPages(21, 20))
	assert.EqualValues(t, 0, TotalPages(5, 0))
}
