package validation

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSameLength(t *testing.T) {
	assert.NoError(t, SameLength("scores", 3, "labels", 3))
	assert.NoError(t, SameLength("values", 0, "bins", 0))

	err := SameLength("scores", 3, "labels", 2)
	require.ErrorIs(t, err, ErrShapeMismatch)
	assert.Equal(t, "3 scores, 2 labels: shape mismatch", err.Error())
}
