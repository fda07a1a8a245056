package questprogress

import (
	"time"

	"github.com/basequest/backend/internal/entity"
	"github.com/basequest/backend/pkg/errorx"
	"github.com/fatih/structs"
	"github.com/mitchellh/mapstructure"
)

// Typed views over the free-form requirements map of a quest. Field names
// follow the client payloads.
type StreakRequirements struct {
	StreakDays int `mapstructure:"streakDays" structs:"streakDays"`
}

type ActivityRequirements struct {
	ActivityCount int `mapstructure:"activityCount" structs:"activityCount"`
}

type EarlyAdopterRequirements struct {
	TargetDate string `mapstructure:"targetDate" structs:"targetDate"`
}

type ShareRequirements struct {
	ShareCount      int `mapstructure:"shareCount" structs:"shareCount"`
	DailyShareLimit int `mapstructure:"dailyShareLimit" structs:"dailyShareLimit"`
}

var targetDateLayouts = []string{time.RFC3339, "2006-01-02"}

func parseTargetDate(s string) (time.Time, error) {
	var lastErr error
	for _, layout := range targetDateLayouts {
		t, err := time.Parse(layout, s)
		if err == nil {
			return t, nil
		}

		lastErr = err
	}

	return time.Time{}, lastErr
}

// decodeRequirements decodes weakly because stored maps round-trip through
// JSON, which turns every number into a float64.
func decodeRequirements(requirements entity.Map, target any) error {
	decoder, err := mapstructure.NewDecoder(&mapstructure.DecoderConfig{
		WeaklyTypedInput: true,
		Result:           target,
	})
	if err != nil {
		return err
	}

	return decoder.Decode(map[string]any(requirements))
}

// Normalize validates the requirements map of a new quest against its type and
// returns the canonical form that is persisted.
func Normalize(questType entity.QuestType, requirements entity.Map) (entity.Map, error) {
	switch questType {
	case entity.QuestStreakBased:
		req := StreakRequirements{}
		if err := decodeRequirements(requirements, &req); err != nil {
			return nil, errorx.New(errorx.BadRequest, "Invalid requirements: %v", err)
		}

		if req.StreakDays <= 0 {
			return nil, errorx.New(errorx.BadRequest, "Require a positive streakDays")
		}

		return structs.Map(req), nil

	case entity.QuestActivityBased:
		req := ActivityRequirements{}
		if err := decodeRequirements(requirements, &req); err != nil {
			return nil, errorx.New(errorx.BadRequest, "Invalid requirements: %v", err)
		}

		if req.ActivityCount <= 0 {
			return nil, errorx.New(errorx.BadRequest, "Require a positive activityCount")
		}

		return structs.Map(req), nil

	case entity.QuestEarlyAdopter:
		req := EarlyAdopterRequirements{}
		if err := decodeRequirements(requirements, &req); err != nil {
			return nil, errorx.New(errorx.BadRequest, "Invalid requirements: %v", err)
		}

		if _, err := parseTargetDate(req.TargetDate); err != nil {
			return nil, errorx.New(errorx.BadRequest, "Invalid targetDate: %v", err)
		}

		return structs.Map(req), nil

	case entity.QuestShareBased:
		req := ShareRequirements{}
		if err := decodeRequirements(requirements, &req); err != nil {
			return nil, errorx.New(errorx.BadRequest, "Invalid requirements: %v", err)
		}

		if req.ShareCount <= 0 {
			return nil, errorx.New(errorx.BadRequest, "Require a positive shareCount")
		}

		if req.DailyShareLimit < 0 {
			return nil, errorx.New(errorx.BadRequest, "Require a non-negative dailyShareLimit")
		}

		return structs.Map(req), nil
	}

	return nil, errorx.New(errorx.BadRequest, "Invalid quest type %s", questType)
}
