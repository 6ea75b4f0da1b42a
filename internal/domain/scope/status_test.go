package scope

import (
	"testing"

	"github.com/stretchr/testify/require"
)

func TestOf_ExhaustiveSmallRange(t *testing.T) {
	for limit := 1; limit <= 12; limit++ {
		for count := 0; count <= limit; count++ {
			got := Of(count, limit)
			require.Contains(t, []Status{WithinScope, LastFreeRevision, OutOfScope}, got)
			require.Equal(t, count >= limit, got == OutOfScope, "count=%d limit=%d", count, limit)
			require.Equal(t, count == limit-1, got == LastFreeRevision, "count=%d limit=%d", count, limit)
		}
	}
}

func TestOf_NonPositiveLimitIsOutOfScope(t *testing.T) {
	for _, limit := range []int{0, -1, -100} {
		for _, count := range []int{0, 1, 5} {
			require.Equal(t, OutOfScope, Of(count, limit))
		}
	}
}

func TestOf_Examples(t *testing.T) {
	tests := []struct {
		count, limit int
		want         Status
	}{
		{0, 3, WithinScope},
		{1, 3, WithinScope},
		{2, 3, LastFreeRevision},
		{3, 3, OutOfScope},
		{4, 3, OutOfScope},
		{0, 1, LastFreeRevision},
		{1, 1, OutOfScope},
	}
	for _, tt := range tests {
		require.Equal(t, tt.want, Of(tt.count, tt.limit), "count=%d limit=%d", tt.count, tt.limit)
	}
}

func TestSummarize(t *testing.T) {
	s := Summarize(1, 3)
	require.Equal(t, Summary{Used: 1, Limit: 3, Remaining: 2, Status: WithinScope}, s)

	s = Summarize(5, 3)
	require.Equal(t, 0, s.Remaining)
	require.Equal(t, OutOfScope, s.Status)
}
