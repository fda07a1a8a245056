package statistic

const (
	OrderedByPoints = "points"
	OrderedByQuests = "quests"
)

func pointsKey() string {
	return "leaderboard:points"
}

func questsKey() string {
	return "leaderboard:quests"
}

func keyOf(orderedBy string) string {
	if orderedBy == OrderedByQuests {
		return questsKey()
	}

	return pointsKey()
}
