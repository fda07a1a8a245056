package activityscan

import (
	"fmt"
	"strings"

	"github.com/basequest/backend/internal/entity"
	"github.com/basequest/backend/pkg/api/alchemy"
)

// Known DEX router contracts on Base. Transfers of erc20 tokens touching one
// of these addresses are treated as swaps rather than plain transfers.
var dexRouters = map[string]string{
	"0x3fc91a3afd70395cd496c647d5a6cc9d4b2b7fad": "Uniswap",
	"0x2626664c2603336e57b271c5c0b26f421741e481": "Uniswap",
	"0x327df1e6de05895d2ab08513aadd9313fe505d86": "BaseSwap",
	"0xcf77a3ba9a5ca399b7c97c74d54e5b1beb874e43": "Aerodrome",
	"0x6cb442acf35158d5eda88fe602221b67b400be3e": "Aerodrome",
	"0x1111111254eeb25477b68fb85ed929f73a960582": "1inch",
}

// Known staking contracts on Base.
var stakingContracts = map[string]string{
	"0x16613524e02ad97edfef371bc883f2f5d6c480a5": "Aerodrome",
	"0x4200000000000000000000000000000000000016": "Base",
	"0xd0b53d9277642d899df5c87a3966a349a798f224": "Uniswap",
}

// Known NFT collections on Base. Looked up before any remote metadata call.
var nftCollections = map[string]string{
	"0xd4307e0acd12cf46fd6cf93bc264f5d5d1598792": "Base Name Service",
	"0x1fc10ef15e041c5d3c54042e52eb0c54cb9b710c": "Base Punks",
	"0xbe74136f46b1bca72673e363b5e475a25495b8e9": "Onchain Summer",
}

const zeroAddress = "0x0000000000000000000000000000000000000000"

type classification struct {
	Type        entity.ActivityType
	Description string
}

// classify applies ordered rules to a raw transfer. NFT categories win first,
// then erc20 swap detection against the router list, then native transfers.
func classify(transfer alchemy.Transfer, direction entity.ActivityDirection) classification {
	from := strings.ToLower(transfer.From)
	to := strings.ToLower(transfer.To)

	switch transfer.Category {
	case alchemy.CategoryERC721, alchemy.CategoryERC1155:
		verb := "Received"
		if direction == entity.Outbound {
			verb = "Sent"
		}

		return classification{
			Type:        entity.NFTTransfer,
			Description: fmt.Sprintf("%s NFT from %s", verb, collectionLabel(transfer)),
		}

	case alchemy.CategoryERC20:
		if name, ok := dexRouters[to]; ok {
			return classification{
				Type:        entity.Swap,
				Description: fmt.Sprintf("Swapped %s on %s", assetLabel(transfer), name),
			}
		}

		if name, ok := dexRouters[from]; ok {
			return classification{
				Type:        entity.Swap,
				Description: fmt.Sprintf("Swapped %s on %s", assetLabel(transfer), name),
			}
		}

		verb := "Received"
		if direction == entity.Outbound {
			verb = "Sent"
		}

		return classification{
			Type:        entity.TokenTransfer,
			Description: fmt.Sprintf("%s %s %s", verb, formatValue(transfer.Value), assetLabel(transfer)),
		}

	case alchemy.CategoryExternal, alchemy.CategoryInternal:
		if name, ok := stakingContracts[to]; ok {
			return classification{
				Type:        entity.Stake,
				Description: fmt.Sprintf("Staked %s %s on %s", formatValue(transfer.Value), assetLabel(transfer), name),
			}
		}

		if to == "" || to == zeroAddress {
			return classification{
				Type:        entity.Mint,
				Description: "Deployed or minted via contract creation",
			}
		}

		return classification{
			Type:        entity.ContractInteraction,
			Description: "Interacted with a contract",
		}
	}

	return classification{
		Type:        entity.ContractInteraction,
		Description: "Interacted with a contract",
	}
}

func assetLabel(transfer alchemy.Transfer) string {
	if transfer.Asset == "" {
		return "tokens"
	}

	return transfer.Asset
}

func collectionLabel(transfer alchemy.Transfer) string {
	if name, ok := nftCollections[strings.ToLower(transfer.ContractAddress)]; ok {
		return name
	}

	if transfer.Asset != "" {
		return transfer.Asset
	}

	return "an unknown collection"
}

func formatValue(value float64) string {
	s := fmt.Sprintf("%.4f", value)
	s = strings.TrimRight(s, "0")
	s = strings.TrimRight(s, ".")
	if s == "" || s == "-" {
		return "0"
	}

	return s
}
