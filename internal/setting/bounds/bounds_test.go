package bounds

import (
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestEnforce(t *testing.T) {
	r := NewRange(0, 20, 1)

	tests := []struct {
		name   string
		value  int
		policy Policy
		want   int
	}{
		{"inside", 7, Clamp, 7},
		{"above clamps", 25, Clamp, 20},
		{"above wraps", 25, Wrap, 0},
		{"below clamps", -3, Clamp, 0},
		{"below wraps", -3, Wrap, 20},
		{"at max", 20, Wrap, 20},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, Enforce(tt.value, r, tt.policy))
		})
	}
}

func TestEnforce_IndependentBounds(t *testing.T) {
	r := Range{Min: 0, Max: 10, Step: 1, EnforceMax: true}

	assert.Equal(t, -5, Enforce(-5, r, Clamp), "min not enforced")
	assert.Equal(t, 10, Enforce(50, r, Clamp))
}

func TestAdd_ClampNeverExceedsMax(t *testing.T) {
	r := NewRange(0, 10, 3)
	v := 0
	for i := 0; i < 20; i++ {
		v = Add(v, 3, r, Clamp)
		assert.LessOrEqual(t, v, 10)
	}
	assert.Equal(t, 10, v)
}

func TestSub_ClampNeverBelowMin(t *testing.T) {
	r := NewRange(-4, 10, 3)
	v := 10
	for i := 0; i < 20; i++ {
		v = Sub(v, 3, r, Clamp)
		assert.GreaterOrEqual(t, v, -4)
	}
	assert.Equal(t, -4, v)
}

func TestWrapAtBounds(t *testing.T) {
	r := NewRange(1, 5, 1)

	assert.Equal(t, 1, Add(5, 1, r, Wrap), "right at max wraps to min")
	assert.Equal(t, 5, Sub(1, 1, r, Wrap), "left at min wraps to max")
}

func TestFloatStep(t *testing.T) {
	r := NewRange(0.5, 2.0, 0.25)

	assert.InDelta(t, 2.0, Add(1.9, 0.25, r, Clamp), 1e-9)
	assert.InDelta(t, 0.5, Add(1.9, 0.25, r, Wrap), 1e-9)
	assert.InDelta(t, 0.5, Sub(0.6, 0.25, r, Clamp), 1e-9)
}

func TestSubUnsigned_Underflow(t *testing.T) {
	r := NewRange(0, 20, 1)

	tests := []struct {
		name   string
		value  uint
		step   uint
		policy Policy
		want   uint
	}{
		{"normal", 10, 3, Clamp, 7},
		{"exact zero", 3, 3, Clamp, 0},
		{"underflow clamps", 10, 1000, Clamp, 0},
		{"underflow wraps", 10, 1000, Wrap, 20},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, SubUnsigned(tt.value, tt.step, r, tt.policy))
		})
	}
}

func TestSubUnsigned_UnenforcedMinLeavesValue(t *testing.T) {
	r := Range{Min: 0, Max: 20, Step: 1, EnforceMax: true}
	assert.Equal(t, uint(4), SubUnsigned(uint(4), 9, r, Clamp))
}

func TestSubUnsigned_AboveMinimum(t *testing.T) {
	r := NewRange(5, 20, 1)
	assert.Equal(t, uint(5), SubUnsigned(uint(6), 3, r, Clamp))
	assert.Equal(t, uint(20), SubUnsigned(uint(6), 3, r, Wrap))
}

func TestAddUnsigned_Overflow(t *testing.T) {
	r := Range{Min: 0, Max: 1000, EnforceMin: true, EnforceMax: true}
	max := ^uint64(0)

	got := AddUnsigned(max-1, 10, r, Clamp)
	assert.Equal(t, uint64(1000), got)

	got = AddUnsigned(max-1, 10, r, Wrap)
	assert.Equal(t, uint64(0), got)

	open := Range{}
	assert.Equal(t, max-1, AddUnsigned(max-1, 10, open, Clamp))
}

func TestAddSub_SignedOverflow(t *testing.T) {
	open := Range{}
	assert.Equal(t, math.MaxInt, Add(math.MaxInt, 1, open, Clamp))
	assert.Equal(t, int32(math.MaxInt32-1), Add(int32(math.MaxInt32-1), 5, open, Wrap))
	assert.Equal(t, math.MinInt, Sub(math.MinInt, 1, open, Clamp))

	r := NewRange(-100, 100, 1)
	assert.Equal(t, 100, Add(math.MaxInt, 1, r, Clamp))
	assert.Equal(t, -100, Add(math.MaxInt, 1, r, Wrap))
	assert.Equal(t, -100, Sub(math.MinInt, 1, r, Clamp))
	assert.Equal(t, 100, Sub(math.MinInt, 1, r, Wrap))
}

func TestConvertNegativeMinToUnsigned(t *testing.T) {
	r := NewRange(-10, 10, 1)
	assert.Equal(t, uint(0), SubUnsigned(uint(2), 5, r, Clamp))
}

func TestContains(t *testing.T) {
	r := NewRange(1, 3, 1)
	assert.True(t, Contains(2, r))
	assert.False(t, Contains(4, r))
	assert.True(t, Contains(4, Range{}))
}

func TestPolicyFor(t *testing.T) {
	assert.Equal(t, Wrap, PolicyFor(true))
	assert.Equal(t, Clamp, PolicyFor(false))
	assert.Equal(t, "wrap", Wrap.String())
}
