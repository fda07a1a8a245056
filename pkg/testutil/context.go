package testutil

import (
	"context"
	"testing"

	"github.com/basequest/backend/config"
	"github.com/basequest/backend/internal/entity"
	"github.com/basequest/backend/pkg/logger"
	"github.com/basequest/backend/pkg/xcontext"
	"github.com/bwmarrin/snowflake"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
)

// MockConfigs returns the configuration used by tests. The notification
// batch delay is short so broadcast tests stay fast.
func MockConfigs() config.Configs {
	return config.Configs{
		Env: "testing",
		Admin: config.AdminConfigs{
			APIKey: "test-api-key",
		},
		Kafka: config.KafkaConfigs{
			Addr:           "localhost:9092",
			BroadcastTopic: "broadcast-events",
		},
		Scan: config.ScanConfigs{
			TransferPageSize: 50,
			MaxActivities:    100,
			NFTNameCacheSize: 1024,
		},
		Notification: config.NotificationConfigs{
			BatchSize:    10,
			BatchDelayMs: 1,
		},
	}
}

// MockContext builds a context carrying configs, a logger, a migrated
// in-memory database, and a snowflake node.
func MockContext(t *testing.T) context.Context {
	ctx := context.Background()
	ctx = xcontext.WithConfigs(ctx, MockConfigs())
	ctx = xcontext.WithLogger(ctx, logger.NewLogger())

	db, err := gorm.Open(sqlite.Open(":memory:"), &gorm.Config{})
	require.NoError(t, err)
	ctx = xcontext.WithDB(ctx, db)
	require.NoError(t, entity.MigrateTable(ctx))

	node, err := snowflake.NewNode(1)
	require.NoError(t, err)
	ctx = xcontext.WithSnowFlake(ctx, node)

	return ctx
}
