package utils

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func ptr[T any](v T) *T { return &v }

func TestUpdatesFromPtrDTO(t *testing.T) {
	type patch struct {
		Notes       *string  `json:"notes"`
		SellByDate  *string  `json:"sell_by_date"`
		TotalCost   *float64 `json:"total_cost"`
		Ignored     *string  `json:"-"`
		Untouched   *string  `json:"untouched"`
		NotAPointer string   `json:"not_a_pointer"`
	}

	p := patch{
		Notes:       ptr("moved"),
		SellByDate:  ptr("2026-06-01"),
		TotalCost:   ptr(12.5),
		Ignored:     ptr("x"),
		NotAPointer: "x",
	}
	got := UpdatesFromPtrDTO(&p, map[string]string{"sell_by_date": "sell_by"})

	assert.Equal(t, map[string]any{
		"notes":      "moved",
		"sell_by":    "2026-06-01",
		"total_cost": 12.5,
	}, got)
}

func TestUpdatesFromPtrDTONonStruct(t *testing.T) {
	assert.Empty(t, UpdatesFromPtrDTO(42, nil))
	assert.Empty(t, UpdatesFromPtrDTO(ptr(42), nil))
}

func TestNormalizePtrDTO(t *testing.T) {
	type patch struct {
		Notes *string  `json:"notes"`
		Cost  *float64 `json:"cost"`
		Nil   *string  `json:"nil"`
	}
	p := patch{Notes: ptr("  padded  "), Cost: ptr(10.006)}
	NormalizePtrDTO(&p)

	assert.Equal(t, "padded", *p.Notes)
	assert.InDelta(t, 10.01, *p.Cost, 0.0001)
	assert.Nil(t, p.Nil)
}

func TestRound2(t *testing.T) {
	assert.InDelta(t, 1500.00, Round2(1499.999), 0.0001)
	assert.InDelta(t, 10.01, Round2(10.005), 0.0001)
	assert.InDelta(t, -2.35, Round2(-2.345), 0.0001)
	assert.Zero(t, Round2(0))
}

func TestParseIntDefault(t *testing.T) {
	assert.Equal(t, 25, ParseIntDefault("25", 10))
	assert.Equal(t, 25, ParseIntDefault(" 25 ", 10))
	assert.Equal(t, 10, ParseIntDefault("", 10))
	assert.Equal(t, 10, ParseIntDefault("abc", 10))
	assert.Equal(t, 10, ParseIntDefault("-3", 10))
}
