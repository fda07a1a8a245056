package questprogress

import (
	"testing"

	"github.com/basequest/backend/internal/entity"
	"github.com/stretchr/testify/require"
)

func TestNormalize(t *testing.T) {
	normalized, err := Normalize(entity.QuestStreakBased, entity.Map{"streakDays": 7})
	require.NoError(t, err)
	require.Equal(t, 7, normalized["streakDays"])

	// Numbers arriving as JSON floats are accepted.
	normalized, err = Normalize(entity.QuestShareBased,
		entity.Map{"shareCount": float64(5), "dailyShareLimit": float64(3)})
	require.NoError(t, err)
	require.Equal(t, 5, normalized["shareCount"])
	require.Equal(t, 3, normalized["dailyShareLimit"])

	_, err = Normalize(entity.QuestStreakBased, entity.Map{"streakDays": 0})
	require.Error(t, err)

	_, err = Normalize(entity.QuestActivityBased, entity.Map{})
	require.Error(t, err)

	_, err = Normalize(entity.QuestEarlyAdopter, entity.Map{"targetDate": "not a date"})
	require.Error(t, err)

	normalized, err = Normalize(entity.QuestEarlyAdopter,
		entity.Map{"targetDate": "2026-12-31"})
	require.NoError(t, err)
	require.Equal(t, "2026-12-31", normalized["targetDate"])

	_, err = Normalize(entity.QuestType("mystery"), entity.Map{})
	require.Error(t, err)
}
