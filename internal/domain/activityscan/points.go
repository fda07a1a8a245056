package activityscan

import "github.com/basequest/backend/internal/entity"

// Point values per activity type. Unknown types score the fallback value.
var pointsByType = map[entity.ActivityType]int64{
	entity.TokenTransfer:       10,
	entity.NFTTransfer:         25,
	entity.ContractInteraction: 15,
	entity.Swap:                30,
	entity.Stake:               20,
	entity.Mint:                35,
}

const fallbackPoints = 5

func PointsFor(activityType entity.ActivityType) int64 {
	if points, ok := pointsByType[activityType]; ok {
		return points
	}

	return fallbackPoints
}
