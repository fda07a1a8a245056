package config

import (
	"fmt"
	"os"
	"time"

	"github.com/BurntSushi/toml"
)

type Configs struct {
	Env string `toml:"env"`

	ApiServer    ServerConfigs       `toml:"api_server"`
	Database     DatabaseConfigs     `toml:"database"`
	Redis        RedisConfigs        `toml:"redis"`
	Kafka        KafkaConfigs        `toml:"kafka"`
	Admin        AdminConfigs        `toml:"admin"`
	Alchemy      AlchemyConfigs      `toml:"alchemy"`
	Farcaster    FarcasterConfigs    `toml:"farcaster"`
	KeyRegistry  KeyRegistryConfigs  `toml:"key_registry"`
	Scan         ScanConfigs         `toml:"scan"`
	Notification NotificationConfigs `toml:"notification"`
}

type ServerConfigs struct {
	Host         string `toml:"host"`
	Port         string `toml:"port"`
	AllowCORS    []string `toml:"allow_cors"`
	MaxLimit     int    `toml:"max_limit"`
	DefaultLimit int    `toml:"default_limit"`
}

func (s ServerConfigs) Address() string {
	return fmt.Sprintf("%s:%s", s.Host, s.Port)
}

type DatabaseConfigs struct {
	Host     string `toml:"host"`
	Port     string `toml:"port"`
	Database string `toml:"database"`
	User     string `toml:"user"`
	Password string `toml:"password"`
}

func (d DatabaseConfigs) ConnectionString() string {
	return fmt.Sprintf("%s:%s@tcp(%s:%s)/%s?charset=utf8mb4&parseTime=True&loc=Local",
		d.User,
		d.Password,
		d.Host,
		d.Port,
		d.Database,
	)
}

type RedisConfigs struct {
	Addr string `toml:"addr"`
}

type KafkaConfigs struct {
	Addr           string `toml:"addr"`
	BroadcastTopic string `toml:"broadcast_topic"`
}

type AdminConfigs struct {
	APIKey string `toml:"api_key"`
}

type AlchemyConfigs struct {
	APIEndpoints []string `toml:"api_endpoints"`
	APIKey       string   `toml:"api_key"`
}

type FarcasterConfigs struct {
	// TargetURL is the url opened by the client when a notification is
	// tapped.
	TargetURL string `toml:"target_url"`
}

type KeyRegistryConfigs struct {
	Rpcs            []string `toml:"rpcs"`
	ContractAddress string   `toml:"contract_address"`
}

type ScanConfigs struct {
	TransferPageSize int `toml:"transfer_page_size"`
	MaxActivities    int `toml:"max_activities"`
	NFTNameCacheSize int `toml:"nft_name_cache_size"`
}

type NotificationConfigs struct {
	BatchSize    int `toml:"batch_size"`
	BatchDelayMs int `toml:"batch_delay_ms"`
}

func (n NotificationConfigs) BatchDelay() time.Duration {
	return time.Duration(n.BatchDelayMs) * time.Millisecond
}

// Load reads configurations from a TOML file. Secrets can be overridden by
// environment variables so they are kept out of the config file.
func Load(path string) (Configs, error) {
	var configs Configs
	if _, err := toml.DecodeFile(path, &configs); err != nil {
		return Configs{}, err
	}

	if key := os.Getenv("ALCHEMY_API_KEY"); key != "" {
		configs.Alchemy.APIKey = key
	}

	if key := os.Getenv("ADMIN_API_KEY"); key != "" {
		configs.Admin.APIKey = key
	}

	if password := os.Getenv("DATABASE_PASSWORD"); password != "" {
		configs.Database.Password = password
	}

	if configs.Scan.TransferPageSize == 0 {
		configs.Scan.TransferPageSize = 50
	}

	if configs.Scan.MaxActivities == 0 {
		configs.Scan.MaxActivities = 100
	}

	if configs.Scan.NFTNameCacheSize == 0 {
		configs.Scan.NFTNameCacheSize = 1024
	}

	if configs.Notification.BatchSize == 0 {
		configs.Notification.BatchSize = 10
	}

	if configs.Notification.BatchDelayMs == 0 {
		configs.Notification.BatchDelayMs = 1000
	}

	return configs, nil
}
