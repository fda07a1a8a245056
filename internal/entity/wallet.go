package entity

import (
	"time"

	"gorm.io/gorm"
)

// Wallet is the per-address activity record: running totals, cached combined
// points, and the scan cursor. Created on first scan or first manually
// recorded activity, never deleted.
type Wallet struct {
	Address   string `gorm:"primaryKey"`
	CreatedAt time.Time
	UpdatedAt time.Time
	DeletedAt gorm.DeletedAt `gorm:"index"`

	TotalPoints    int64
	QuestPoints    int64
	CombinedPoints int64
	Level          string

	LastScannedBlock      uint64
	IsInitialScanComplete bool
}
