package keyregistry

import (
	"context"
	"errors"
	"math/big"
	"math/rand"
	"strings"
	"time"

	"github.com/basequest/backend/config"
	"github.com/basequest/backend/pkg/xcontext"
	"github.com/ethereum/go-ethereum"
	"github.com/ethereum/go-ethereum/accounts/abi"
	"github.com/ethereum/go-ethereum/common"
	"github.com/ethereum/go-ethereum/ethclient"
)

var rpcTimeout = 5 * time.Second

const keyRegistryABI = `[{"inputs":[{"internalType":"uint256","name":"fid","type":"uint256"},{"internalType":"bytes","name":"key","type":"bytes"}],"name":"keyDataOf","outputs":[{"components":[{"internalType":"uint8","name":"state","type":"uint8"},{"internalType":"uint32","name":"keyType","type":"uint32"}],"internalType":"struct IKeyRegistry.KeyData","name":"","type":"tuple"}],"stateMutability":"view","type":"function"}]`

// keyStateAdded is the registry state of a key that is currently valid.
const keyStateAdded = 1

type keyData struct {
	State   uint8
	KeyType uint32
}

type Verifier struct {
	rpcs     []string
	contract common.Address
	abi      abi.ABI
}

func NewVerifier(cfg config.KeyRegistryConfigs) (*Verifier, error) {
	parsed, err := abi.JSON(strings.NewReader(keyRegistryABI))
	if err != nil {
		return nil, err
	}

	if len(cfg.Rpcs) == 0 {
		return nil, errors.New("no key registry rpc configured")
	}

	return &Verifier{
		rpcs:     cfg.Rpcs,
		contract: common.HexToAddress(cfg.ContractAddress),
		abi:      parsed,
	}, nil
}

// Verify reads the registry state of (fid, key). Since rpc endpoints are often
// unstable, all configured rpcs are tried in a random order before giving up.
func (v *Verifier) Verify(ctx context.Context, fid uint64, key []byte) (bool, error) {
	input, err := v.abi.Pack("keyDataOf", new(big.Int).SetUint64(fid), key)
	if err != nil {
		return false, err
	}

	var lastErr error
	for _, index := range rand.Perm(len(v.rpcs)) {
		valid, err := v.callOne(ctx, v.rpcs[index], input)
		if err != nil {
			xcontext.Logger(ctx).Warnf("Key registry call to %s failed: %v", v.rpcs[index], err)
			lastErr = err
			continue
		}

		return valid, nil
	}

	return false, lastErr
}

func (v *Verifier) callOne(ctx context.Context, rpc string, input []byte) (bool, error) {
	ctx, cancel := context.WithTimeout(ctx, rpcTimeout)
	defer cancel()

	client, err := ethclient.DialContext(ctx, rpc)
	if err != nil {
		return false, err
	}
	defer client.Close()

	output, err := client.CallContract(ctx, ethereum.CallMsg{
		To:   &v.contract,
		Data: input,
	}, nil)
	if err != nil {
		return false, err
	}

	results, err := v.abi.Unpack("keyDataOf", output)
	if err != nil {
		return false, err
	}

	data := *abi.ConvertType(results[0], new(keyData)).(*keyData)
	return data.State == keyStateAdded, nil
}
