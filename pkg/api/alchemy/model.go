package alchemy

import "time"

const (
	CategoryExternal = "external"
	CategoryInternal = "internal"
	CategoryERC20    = "erc20"
	CategoryERC721   = "erc721"
	CategoryERC1155  = "erc1155"
)

// TransferFilter selects asset transfers of one direction for one address.
type TransferFilter struct {
	Address    string
	Inbound    bool
	FromBlock  uint64
	Categories []string
	MaxCount   int
}

type Transfer struct {
	Hash            string
	BlockNum        uint64
	From            string
	To              string
	Value           float64
	Asset           string
	Category        string
	TokenID         string
	ContractAddress string
	Timestamp       time.Time
}
