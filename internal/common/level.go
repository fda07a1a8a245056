package common

// Level derivation from combined points. Two label vocabularies circulate in
// the product copy for the same thresholds; both are exposed so the client
// picks the one its surface uses.
type levelThreshold struct {
	Points int64
	Name   string
	Badge  string
}

var levelThresholds = []levelThreshold{
	{Points: 1000, Name: "Diamond Hands", Badge: "Diamond"},
	{Points: 500, Name: "Whale", Badge: "Platinum"},
	{Points: 200, Name: "DeFi Master", Badge: "Gold"},
	{Points: 100, Name: "Crypto Native", Badge: "Silver"},
	{Points: 50, Name: "HODLer", Badge: "Bronze"},
	{Points: 0, Name: "Newbie", Badge: "Newbie"},
}

func LevelOf(points int64) string {
	for _, t := range levelThresholds {
		if points >= t.Points {
			return t.Name
		}
	}

	return levelThresholds[len(levelThresholds)-1].Name
}

func LevelBadgeOf(points int64) string {
	for _, t := range levelThresholds {
		if points >= t.Points {
			return t.Badge
		}
	}

	return levelThresholds[len(levelThresholds)-1].Badge
}

// LevelRank returns the position of the level for points in the threshold
// order, higher is better.
func LevelRank(points int64) int {
	for i, t := range levelThresholds {
		if points >= t.Points {
			return len(levelThresholds) - i
		}
	}

	return 0
}
