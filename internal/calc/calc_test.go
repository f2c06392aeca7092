package calc

import (
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestApply(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name    string
		left    float64
		right   float64
		op      Operation
		want    float64
		wantErr error
	}{
		{"add", 10, 5, Add, 15, nil},
		{"subtract", 10, 5, Subtract, 5, nil},
		{"multiply", 10, 5, Multiply, 50, nil},
		{"divide", 10, 5, Divide, 2, nil},
		{"divide fraction", 1, 4, Divide, 0.25, nil},
		{"divide by zero", 10, 0, Divide, 0, ErrDivisionByZero},
		{"negative zero divisor", 10, math.Copysign(0, -1), Divide, 0, ErrDivisionByZero},
		{"unknown tag", 10, 5, Operation("modulo"), 0, ErrUnsupportedOperation},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			got, err := Apply(tt.left, tt.right, tt.op)
			if tt.wantErr != nil {
				require.ErrorIs(t, err, tt.wantErr)
				return
			}
			require.NoError(t, err)
			assert.InDelta(t, tt.want, got, 1e-12)
		})
	}
}

func TestParseOperation(t *testing.T) {
	t.Parallel()

	for _, op := range Operations {
		got, err := ParseOperation(string(op))
		require.NoError(t, err)
		assert.Equal(t, op, got)
	}

	_, err := ParseOperation("power")
	assert.ErrorIs(t, err, ErrUnsupportedOperation)

	_, err = ParseOperation("")
	assert.ErrorIs(t, err, ErrUnsupportedOperation)
}
