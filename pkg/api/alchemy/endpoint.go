package alchemy

import (
	"context"
	"fmt"
	"strconv"
	"strings"
	"time"

	"github.com/basequest/backend/config"
	"github.com/basequest/backend/pkg/api"
	"github.com/basequest/backend/pkg/xcontext"
)

type Endpoint struct {
	apiGenerator api.Generator
	apiKey       string
}

func New(cfg config.AlchemyConfigs) *Endpoint {
	return &Endpoint{
		apiGenerator: api.NewGenerator(cfg.APIEndpoints...),
		apiKey:       cfg.APIKey,
	}
}

func (e *Endpoint) GetBlockNumber(ctx context.Context) (uint64, error) {
	resp, err := e.apiGenerator.New("/v2/%s", e.apiKey).
		Body(api.JSON{
			"jsonrpc": "2.0",
			"id":      1,
			"method":  "eth_blockNumber",
			"params":  []any{},
		}).
		POST(ctx)
	if err != nil {
		return 0, err
	}

	if resp.Code != 200 {
		xcontext.Logger(ctx).Errorf("Invalid status code: %v", resp.Body)
		return 0, fmt.Errorf("invalid status code %d", resp.Code)
	}

	body, ok := resp.Body.(api.JSON)
	if !ok {
		return 0, fmt.Errorf("invalid body format")
	}

	result, err := body.GetString("result")
	if err != nil {
		return 0, err
	}

	return parseHexUint(result)
}

func (e *Endpoint) GetAssetTransfers(
	ctx context.Context, filter TransferFilter,
) ([]Transfer, error) {
	params := api.JSON{
		"fromBlock":    fmt.Sprintf("0x%x", filter.FromBlock),
		"toBlock":      "latest",
		"category":     filter.Categories,
		"maxCount":     fmt.Sprintf("0x%x", filter.MaxCount),
		"order":        "desc",
		"withMetadata": true,
	}

	if filter.Inbound {
		params["toAddress"] = filter.Address
	} else {
		params["fromAddress"] = filter.Address
	}

	resp, err := e.apiGenerator.New("/v2/%s", e.apiKey).
		Body(api.JSON{
			"jsonrpc": "2.0",
			"id":      1,
			"method":  "alchemy_getAssetTransfers",
			"params":  []any{map[string]any(params)},
		}).
		POST(ctx)
	if err != nil {
		return nil, err
	}

	if resp.Code != 200 {
		xcontext.Logger(ctx).Errorf("Invalid status code: %v", resp.Body)
		return nil, fmt.Errorf("invalid status code %d", resp.Code)
	}

	body, ok := resp.Body.(api.JSON)
	if !ok {
		return nil, fmt.Errorf("invalid body format")
	}

	rawTransfers, err := body.GetArray("result.transfers")
	if err != nil {
		return nil, err
	}

	transfers := make([]Transfer, 0, len(rawTransfers))
	for _, raw := range rawTransfers {
		rawJSON, ok := raw.(map[string]any)
		if !ok {
			xcontext.Logger(ctx).Warnf("Invalid transfer format: %T", raw)
			continue
		}

		transfer, err := parseTransfer(api.JSON(rawJSON))
		if err != nil {
			xcontext.Logger(ctx).Warnf("Cannot parse transfer: %v", err)
			continue
		}

		transfers = append(transfers, transfer)
	}

	return transfers, nil
}

func (e *Endpoint) GetContractName(ctx context.Context, contractAddress string) (string, error) {
	resp, err := e.apiGenerator.New("/nft/v2/%s/getContractMetadata", e.apiKey).
		Query(api.Parameter{"contractAddress": contractAddress}).
		GET(ctx)
	if err != nil {
		return "", err
	}

	if resp.Code != 200 {
		return "", fmt.Errorf("invalid status code %d", resp.Code)
	}

	body, ok := resp.Body.(api.JSON)
	if !ok {
		return "", fmt.Errorf("invalid body format")
	}

	name, err := body.GetString("contractMetadata.name")
	if err != nil {
		return "", err
	}

	if name == "" {
		return "", fmt.Errorf("no name for contract %s", contractAddress)
	}

	return name, nil
}

func parseTransfer(body api.JSON) (Transfer, error) {
	hash, err := body.GetString("hash")
	if err != nil {
		return Transfer{}, err
	}

	category, err := body.GetString("category")
	if err != nil {
		return Transfer{}, err
	}

	rawBlockNum, err := body.GetString("blockNum")
	if err != nil {
		return Transfer{}, err
	}

	blockNum, err := parseHexUint(rawBlockNum)
	if err != nil {
		return Transfer{}, err
	}

	transfer := Transfer{
		Hash:     hash,
		Category: category,
		BlockNum: blockNum,
	}

	// Counterparties, asset, value, and token id are optional depending on the
	// transfer category.
	transfer.From, _ = body.GetString("from")
	transfer.To, _ = body.GetString("to")
	transfer.Asset, _ = body.GetString("asset")
	transfer.TokenID, _ = body.GetString("tokenId")
	if transfer.TokenID == "" {
		transfer.TokenID, _ = body.GetString("erc721TokenId")
	}

	transfer.ContractAddress, _ = body.GetString("rawContract.address")

	if rawValue, err := body.Get("value"); err == nil {
		if value, ok := rawValue.(float64); ok {
			transfer.Value = value
		}
	}

	if rawTimestamp, err := body.GetString("metadata.blockTimestamp"); err == nil {
		if ts, err := time.Parse(time.RFC3339, rawTimestamp); err == nil {
			transfer.Timestamp = ts
		}
	}

	if transfer.Timestamp.IsZero() {
		transfer.Timestamp = time.Now()
	}

	return transfer, nil
}

func parseHexUint(s string) (uint64, error) {
	return strconv.ParseUint(strings.TrimPrefix(s, "0x"), 16, 64)
}
