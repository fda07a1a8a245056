package alchemy

import "context"

type IEndpoint interface {
	GetBlockNumber(context.Context) (uint64, error)
	GetAssetTransfers(context.Context, TransferFilter) ([]Transfer, error)
	GetContractName(context.Context, string) (string, error)
}
