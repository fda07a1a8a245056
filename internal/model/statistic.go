package model

type LeaderboardEntry struct {
	Address     string `json:"address"`
	Value       int64  `json:"value"`
	CurrentRank int    `json:"current_rank"`
}

type GetLeaderboardRequest struct {
	OrderedBy string `json:"ordered_by"`
	Offset    int    `json:"offset"`
	Limit     int    `json:"limit"`
}

type GetLeaderboardResponse struct {
	Entries []LeaderboardEntry `json:"entries"`
}

type GetRankRequest struct {
	UserAddress string `json:"user_address"`
	OrderedBy   string `json:"ordered_by"`
}

type GetRankResponse struct {
	Rank uint64 `json:"rank"`
}
