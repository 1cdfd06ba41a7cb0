package middleware

import (
	"testing"

	"github.com/stretchr/testify/require"
)

func TestRemainingQuota(t *testing.T) {
	require.Equal(t, 9, remainingQuota(10, 1))
	require.Equal(t, 0, remainingQuota(10, 10))
	// counter keeps incrementing past the limit; the header must not go negative
	require.Equal(t, 0, remainingQuota(10, 11))
	require.Equal(t, 0, remainingQuota(10, 500))
}
