package concurrent

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRunAllKeepsPayloadOrder(t *testing.T) {
	payloads := make([]int, 50)
	for i := range payloads {
		payloads[i] = i
	}
	errOdd := errors.New("odd")

	results := RunAll(4, payloads, func(x int) (int, error) {
		if x%2 == 1 {
			return 0, errOdd
		}
		return x * x, nil
	})

	require.Len(t, results, len(payloads))
	for i, res := range results {
		assert.Equal(t, i, res.ID)
		if i%2 == 1 {
			assert.ErrorIs(t, res.Err, errOdd)
			continue
		}
		assert.NoError(t, res.Err)
		assert.Equal(t, i*i, res.Value)
	}
}

func TestRunAllEmpty(t *testing.T) {
	results := RunAll(0, []string{}, func(s string) (int, error) { return len(s), nil })
	assert.Empty(t, results)
}
