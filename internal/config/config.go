package config

import (
	"log"
	"os"
	"strconv"
	"time"

	"github.com/joho/godotenv"
)

// ==================== 全局配置 ====================

// Config 应用配置，进程启动时构建一次，按引用注入各组件
// 业务代码不得直接读取环境变量
type Config struct {
	Server   ServerConfig
	Database DatabaseConfig
	Sync     SyncConfig
	Payment  PaymentConfig
	Carrier  CarrierConfig
}

// ServerConfig HTTP 服务配置
type ServerConfig struct {
	Port string
}

// DatabaseConfig 数据库配置
type DatabaseConfig struct {
	DSN string
}

// SyncConfig 合作方目录同步配置
type SyncConfig struct {
	// 分页
	PageSize         int // 商品分页大小
	CategoryPageSize int // 分类一次性拉全量的页大小

	// 超时
	BulkTimeout  time.Duration // 批量列表接口（分类/商品分页）
	OfferTimeout time.Duration // 单商品 offer 接口

	// 限速：对合作方 API 的请求节奏
	RequestsPerMinute int

	// 排除的外部分类（该分类下的商品直接跳过）
	ExcludedCategoryID int64

	// 对账
	ChunkSize     int           // 每个对账分块的商品数
	ChunkInterval time.Duration // 相邻分块的调度间隔

	// 对账可用性公式开关
	// true 使用上游遗留公式 is_available = (quantity == 0) || ext.is_available
	// false 使用严格公式 is_available = quantity > 0 && ext.is_available
	// 业务语义待确认前默认保留遗留行为
	LegacyAvailability bool
}

// PaymentConfig 支付网关配置
type PaymentConfig struct {
	ApiURL string
	ApiKey string
}

// CarrierConfig 物流查询服务配置
type CarrierConfig struct {
	ApiURL string
	ApiKey string
}

// ==================== 加载 ====================

// Load 读取 .env 与环境变量，构建配置对象
func Load() *Config {
	if err := godotenv.Load(); err != nil {
		log.Println("[Config] 未找到 .env 文件，使用环境变量")
	}

	return &Config{
		Server: ServerConfig{
			Port: getEnv("SERVER_PORT", "8080"),
		},
		Database: DatabaseConfig{
			DSN: getEnv("DATABASE_DSN",
				"host=localhost user=shop password=shop dbname=shopcore port=5432 sslmode=disable"),
		},
		Sync: SyncConfig{
			PageSize:           getEnvInt("SYNC_PAGE_SIZE", 50),
			CategoryPageSize:   getEnvInt("SYNC_CATEGORY_PAGE_SIZE", 1000),
			BulkTimeout:        getEnvDuration("SYNC_BULK_TIMEOUT", 30*time.Second),
			OfferTimeout:       getEnvDuration("SYNC_OFFER_TIMEOUT", 15*time.Second),
			RequestsPerMinute:  getEnvInt("SYNC_REQUESTS_PER_MINUTE", 120),
			ExcludedCategoryID: getEnvInt64("SYNC_EXCLUDED_CATEGORY_ID", 0),
			ChunkSize:          getEnvInt("RECONCILE_CHUNK_SIZE", 30),
			ChunkInterval:      getEnvDuration("RECONCILE_CHUNK_INTERVAL", time.Minute),
			LegacyAvailability: getEnvBool("RECONCILE_LEGACY_AVAILABILITY", true),
		},
		Payment: PaymentConfig{
			ApiURL: getEnv("PAYMENT_API_URL", ""),
			ApiKey: getEnv("PAYMENT_API_KEY", ""),
		},
		Carrier: CarrierConfig{
			ApiURL: getEnv("CARRIER_API_URL", ""),
			ApiKey: getEnv("CARRIER_API_KEY", ""),
		},
	}
}

// ==================== 工具函数 ====================

func getEnv(key, defaultValue string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return defaultValue
}

func getEnvInt(key string, defaultValue int) int {
	if v := os.Getenv(key); v != "" {
		if n, err := strconv.Atoi(v); err == nil {
			return n
		}
	}
	return defaultValue
}

func getEnvInt64(key string, defaultValue int64) int64 {
	if v := os.Getenv(key); v != "" {
		if n, err := strconv.ParseInt(v, 10, 64); err == nil {
			return n
		}
	}
	return defaultValue
}

func getEnvBool(key string, defaultValue bool) bool {
	if v := os.Getenv(key); v != "" {
		if b, err := strconv.ParseBool(v); err == nil {
			return b
		}
	}
	return defaultValue
}

func getEnvDuration(key string, defaultValue time.Duration) time.Duration {
	if v := os.Getenv(key); v != "" {
		if d, err := time.ParseDuration(v); err == nil {
			return d
		}
	}
	return defaultValue
}
