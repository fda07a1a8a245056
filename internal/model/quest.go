package model

type Quest struct {
	ID           string         `json:"id"`
	Title        string         `json:"title"`
	Description  string         `json:"description,omitempty"`
	Type         string         `json:"type"`
	Requirements map[string]any `json:"requirements,omitempty"`
	RewardPoints int64          `json:"reward_points"`
	IsActive     bool           `json:"is_active"`
	StartDate    string         `json:"start_date,omitempty"`
	EndDate      string         `json:"end_date,omitempty"`
}

type UserQuest struct {
	Quest       Quest   `json:"quest"`
	Progress    float64 `json:"progress"`
	IsCompleted bool    `json:"is_completed"`
	CompletedAt string  `json:"completed_at,omitempty"`
	StartedAt   string  `json:"started_at,omitempty"`
	SharesToday int     `json:"shares_today,omitempty"`
}

type GetQuestsRequest struct {
	UserAddress string `json:"user_address"`
}

type GetQuestsResponse struct {
	Quests               []UserQuest `json:"quests"`
	DailyLoginStreak     int         `json:"daily_login_streak"`
	TotalQuestsCompleted int         `json:"total_quests_completed"`
	TotalQuestPoints     int64       `json:"total_quest_points"`
	CombinedPoints       int64       `json:"combined_points"`
	Level                string      `json:"level"`
}

type CheckEarlyAdopterRequest struct {
	UserAddress string `json:"user_address"`
}

type CheckEarlyAdopterResponse struct {
	Quests []UserQuest `json:"quests"`
}

type RecordShareRequest struct {
	UserAddress string `json:"user_address"`
	QuestID     string `json:"quest_id"`
}

type RecordShareResponse struct {
	Progress    float64 `json:"progress"`
	IsCompleted bool    `json:"is_completed"`
	SharesToday int     `json:"shares_today"`
}

type CreateQuestRequest struct {
	Title        string         `json:"title"`
	Description  string         `json:"description"`
	Type         string         `json:"type"`
	Requirements map[string]any `json:"requirements"`
	RewardPoints int64          `json:"reward_points"`
	StartDate    string         `json:"start_date"`
	EndDate      string         `json:"end_date"`
	Notify       bool           `json:"notify"`
}

type CreateQuestResponse struct {
	ID string `json:"id"`
}
