package model

type Activity struct {
	ID          string `json:"id"`
	Type        string `json:"type"`
	Description string `json:"description"`
	Timestamp   int64  `json:"timestamp"`
	Points      int64  `json:"points"`
	Hash        string `json:"hash"`
	Direction   string `json:"direction"`
	Asset       string `json:"asset,omitempty"`
	TokenID     string `json:"token_id,omitempty"`
}

type GetActivitiesRequest struct {
	Address      string `json:"address"`
	ForceRefresh bool   `json:"force_refresh"`
}

type GetActivitiesResponse struct {
	Address               string     `json:"address"`
	Activities            []Activity `json:"activities"`
	TotalPoints           int64      `json:"total_points"`
	CombinedPoints        int64      `json:"combined_points"`
	Level                 string     `json:"level"`
	LevelBadge            string     `json:"level_badge"`
	LastScannedBlock      uint64     `json:"last_scanned_block"`
	IsInitialScanComplete bool       `json:"is_initial_scan_complete"`
}

type RecordActivityRequest struct {
	Address     string `json:"address"`
	Type        string `json:"type"`
	Description string `json:"description"`
	TxHash      string `json:"tx_hash"`
}

type RecordActivityResponse struct {
	Activity    Activity `json:"activity"`
	TotalPoints int64    `json:"total_points"`
}
