package common

import (
	"testing"

	"github.com/stretchr/testify/require"
)

func TestLevelOf(t *testing.T) {
	tests := []struct {
		points int64
		name   string
		badge  string
	}{
		{0, "Newbie", "Newbie"},
		{49, "Newbie", "Newbie"},
		{50, "HODLer", "Bronze"},
		{100, "Crypto Native", "Silver"},
		{200, "DeFi Master", "Gold"},
		{500, "Whale", "Platinum"},
		{999, "Whale", "Platinum"},
		{1000, "Diamond Hands", "Diamond"},
		{5000, "Diamond Hands", "Diamond"},
	}

	for _, tt := range tests {
		require.Equal(t, tt.name, LevelOf(tt.points))
		require.Equal(t, tt.badge, LevelBadgeOf(tt.points))
	}
}

func TestLevelRankIsMonotonic(t *testing.T) {
	previous := 0
	for _, points := range []int64{0, 50, 100, 200, 500, 1000} {
		rank := LevelRank(points)
		require.Greater(t, rank, previous)
		previous = rank
	}
}
