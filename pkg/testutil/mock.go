package testutil

import (
	"context"
	"errors"
	"sort"

	"github.com/basequest/backend/pkg/api/alchemy"
	"github.com/basequest/backend/pkg/api/farcaster"
	"github.com/basequest/backend/pkg/pubsub"
	"github.com/redis/go-redis/v9"
)

type MockAlchemyEndpoint struct {
	GetBlockNumberFunc    func(ctx context.Context) (uint64, error)
	GetAssetTransfersFunc func(ctx context.Context, filter alchemy.TransferFilter) ([]alchemy.Transfer, error)
	GetContractNameFunc   func(ctx context.Context, contractAddress string) (string, error)
}

func (m *MockAlchemyEndpoint) GetBlockNumber(ctx context.Context) (uint64, error) {
	if m.GetBlockNumberFunc != nil {
		return m.GetBlockNumberFunc(ctx)
	}

	return 0, errors.New("not implemented")
}

func (m *MockAlchemyEndpoint) GetAssetTransfers(
	ctx context.Context, filter alchemy.TransferFilter,
) ([]alchemy.Transfer, error) {
	if m.GetAssetTransfersFunc != nil {
		return m.GetAssetTransfersFunc(ctx, filter)
	}

	return nil, nil
}

func (m *MockAlchemyEndpoint) GetContractName(
	ctx context.Context, contractAddress string,
) (string, error) {
	if m.GetContractNameFunc != nil {
		return m.GetContractNameFunc(ctx, contractAddress)
	}

	return "", errors.New("not implemented")
}

type MockFarcasterEndpoint struct {
	SendFunc func(ctx context.Context, n farcaster.Notification) (farcaster.SendResult, error)
}

func (m *MockFarcasterEndpoint) Send(
	ctx context.Context, n farcaster.Notification,
) (farcaster.SendResult, error) {
	if m.SendFunc != nil {
		return m.SendFunc(ctx, n)
	}

	return farcaster.SendSuccess, nil
}

type MockVerifier struct {
	VerifyFunc func(ctx context.Context, fid uint64, key []byte) (bool, error)
}

func (m *MockVerifier) Verify(ctx context.Context, fid uint64, key []byte) (bool, error) {
	if m.VerifyFunc != nil {
		return m.VerifyFunc(ctx, fid, key)
	}

	return true, nil
}

type MockPublisher struct {
	Published []pubsub.Pack
	Topics    []string
}

func (m *MockPublisher) Publish(ctx context.Context, topic string, pack *pubsub.Pack) error {
	m.Published = append(m.Published, *pack)
	m.Topics = append(m.Topics, topic)
	return nil
}

func (m *MockPublisher) Stop(ctx context.Context) error {
	return nil
}

// MockRedisClient is an in-memory stand-in of the sorted set operations the
// leaderboard uses.
type MockRedisClient struct {
	Sets map[string]map[string]float64
}

func NewMockRedisClient() *MockRedisClient {
	return &MockRedisClient{Sets: make(map[string]map[string]float64)}
}

func (m *MockRedisClient) Exist(ctx context.Context, key string) (bool, error) {
	_, ok := m.Sets[key]
	return ok, nil
}

func (m *MockRedisClient) Del(ctx context.Context, key string) error {
	delete(m.Sets, key)
	return nil
}

func (m *MockRedisClient) ZAdd(ctx context.Context, key string, z redis.Z) error {
	if _, ok := m.Sets[key]; !ok {
		m.Sets[key] = make(map[string]float64)
	}

	m.Sets[key][z.Member.(string)] = z.Score
	return nil
}

func (m *MockRedisClient) ZIncrBy(
	ctx context.Context, key string, incr int64, member string,
) error {
	if _, ok := m.Sets[key]; !ok {
		m.Sets[key] = make(map[string]float64)
	}

	m.Sets[key][member] += float64(incr)
	return nil
}

func (m *MockRedisClient) ZRevRangeWithScores(
	ctx context.Context, key string, offset, limit int,
) ([]redis.Z, error) {
	zs := make([]redis.Z, 0, len(m.Sets[key]))
	for member, score := range m.Sets[key] {
		zs = append(zs, redis.Z{Member: member, Score: score})
	}

	sort.Slice(zs, func(i, j int) bool {
		if zs[i].Score != zs[j].Score {
			return zs[i].Score > zs[j].Score
		}

		return zs[i].Member.(string) > zs[j].Member.(string)
	})

	if offset >= len(zs) {
		return nil, nil
	}

	zs = zs[offset:]
	if limit < len(zs) {
		zs = zs[:limit]
	}

	return zs, nil
}

func (m *MockRedisClient) ZRevRank(
	ctx context.Context, key string, member string,
) (uint64, error) {
	zs, err := m.ZRevRangeWithScores(ctx, key, 0, len(m.Sets[key]))
	if err != nil {
		return 0, err
	}

	for i, z := range zs {
		if z.Member.(string) == member {
			return uint64(i), nil
		}
	}

	return 0, redis.Nil
}
