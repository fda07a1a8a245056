package entity

import (
	"time"

	"github.com/basequest/backend/pkg/enum"
)

type ActivityType string

var (
	TokenTransfer       = enum.New(ActivityType("token_transfer"))
	NFTTransfer         = enum.New(ActivityType("nft_transfer"))
	ContractInteraction = enum.New(ActivityType("contract_interaction"))
	Swap                = enum.New(ActivityType("swap"))
	Stake               = enum.New(ActivityType("stake"))
	Mint                = enum.New(ActivityType("mint"))
)

type ActivityDirection string

var (
	Inbound  = enum.New(ActivityDirection("inbound"))
	Outbound = enum.New(ActivityDirection("outbound"))
)

// Activity is one scored on-chain action of a wallet. Rows are immutable once
// created; re-scans collapse duplicates before persisting.
type Activity struct {
	SnowFlakeBase

	WalletAddress string `gorm:"index"`
	Type          ActivityType
	Description   string
	OccurredAt    time.Time
	Points        int64
	TxHash        string
	Direction     ActivityDirection
	Asset         string
	TokenID       string
}

// DedupeKey identifies a logically unique activity. Asset and token id only
// take part in the key for NFT transfers.
func (a Activity) DedupeKey() string {
	if a.Type == NFTTransfer {
		return a.TxHash + "|" + string(a.Direction) + "|" + a.Asset + "|" + a.TokenID
	}

	return a.TxHash + "|" + string(a.Direction)
}
