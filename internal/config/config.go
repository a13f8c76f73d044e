package config

import (
	"errors"
	"fmt"
	"io/fs"
	"strings"

	"github.com/spf13/viper"
)

// Config 应用配置
type Config struct {
	App      AppConfig
	Server   ServerConfig
	Database DatabaseConfig
	Redis    RedisConfig
	AI       AIConfig
	Auth     AuthConfig
	Log      LogConfig
	Mentor   MentorConfig
}

// AppConfig 应用配置
type AppConfig struct {
	Name        string
	Environment string
	Version     string
	Debug       bool
}

// ServerConfig 服务器配置
type ServerConfig struct {
	Host         string
	Port         int
	Mode         string
	ReadTimeout  int
	WriteTimeout int
}

// DatabaseConfig 数据库配置
// Driver 为 sqlite 时只使用 Path，为 postgres 时使用其余连接参数
type DatabaseConfig struct {
	Driver       string
	Path         string
	Host         string
	Port         int
	User         string
	Password     string
	DBName       string
	SSLMode      string
	MaxOpenConns int
	MaxIdleConns int
	MaxLifetime  int
}

// RedisConfig Redis配置
type RedisConfig struct {
	Enabled     bool
	Host        string
	Port        int
	Password    string
	DB          int
	PresenceTTL int // 导师在线状态过期时间（秒）
}

// AIConfig AI配置
type AIConfig struct {
	Provider string
	Timeout  int // 单次生成调用超时（秒），0 表示不限制
	OpenAI   OpenAIConfig
	Alibaba  AlibabaConfig
	DeepSeek DeepSeekConfig
	Gemini   GeminiConfig
}

// OpenAIConfig OpenAI配置
type OpenAIConfig struct {
	APIKey  string
	BaseURL string
	Model   string
}

// AlibabaConfig 阿里云配置
type AlibabaConfig struct {
	AccessKeySecret string
	Model           string
}

// DeepSeekConfig DeepSeek配置
type DeepSeekConfig struct {
	APIKey  string
	BaseURL string
	Model   string
}

// GeminiConfig Google Gemini 配置
type GeminiConfig struct {
	APIKey string
	Model  string
}

// AuthConfig 认证配置
type AuthConfig struct {
	JWTSecret    string
	PasscodeHash string // bcrypt 哈希，为空时不校验口令
	TokenTTL     int    // 访问令牌有效期（分钟）
}

// LogConfig 日志配置
type LogConfig struct {
	Level  string
	Format string // json 或 console
}

// MentorConfig 导师相关配置
type MentorConfig struct {
	DefaultOnline bool // 未设置在线状态的导师默认是否在线
}

// Load 加载配置
// path 为空或文件不存在时只使用默认值和环境变量
func Load(path string) (*Config, error) {
	v := viper.New()
	setDefaults(v)

	if path != "" {
		v.SetConfigFile(path)
		v.SetConfigType("yaml")
		if err := v.ReadInConfig(); err != nil && !errors.Is(err, fs.ErrNotExist) {
			return nil, fmt.Errorf("failed to read config: %w", err)
		}
	}

	// 环境变量
	v.SetEnvPrefix("MENTOR")
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, fmt.Errorf("failed to unmarshal config: %w", err)
	}

	return &cfg, nil
}

// GetDSN 获取数据库连接字符串
func (c *DatabaseConfig) GetDSN() string {
	if c.Driver == "sqlite" || c.Driver == "" {
		return c.Path
	}
	return fmt.Sprintf("host=%s port=%d user=%s password=%s dbname=%s sslmode=%s",
		c.Host, c.Port, c.User, c.Password, c.DBName, c.SSLMode)
}

// GetAddr 获取服务器地址
func (c *ServerConfig) GetAddr() string {
	return fmt.Sprintf("%s:%d", c.Host, c.Port)
}

// GetAddr 获取 Redis 地址
func (c *RedisConfig) GetAddr() string {
	return fmt.Sprintf("%s:%d", c.Host, c.Port)
}

func setDefaults(v *viper.Viper) {
	// App
	v.SetDefault("app.name", "next-mentor")
	v.SetDefault("app.environment", "development")
	v.SetDefault("app.version", "1.0.0")
	v.SetDefault("app.debug", false)

	// Server
	v.SetDefault("server.host", "0.0.0.0")
	v.SetDefault("server.port", 8080)
	v.SetDefault("server.mode", "debug")
	v.SetDefault("server.readTimeout", 30)
	v.SetDefault("server.writeTimeout", 120)

	// Database
	v.SetDefault("database.driver", "sqlite")
	v.SetDefault("database.path", "next_mentor.db")
	v.SetDefault("database.host", "localhost")
	v.SetDefault("database.port", 5432)
	v.SetDefault("database.user", "postgres")
	v.SetDefault("database.password", "")
	v.SetDefault("database.dbname", "next_mentor")
	v.SetDefault("database.sslmode", "disable")
	v.SetDefault("database.maxOpenConns", 25)
	v.SetDefault("database.maxIdleConns", 5)
	v.SetDefault("database.maxLifetime", 300)

	// Redis
	v.SetDefault("redis.enabled", false)
	v.SetDefault("redis.host", "localhost")
	v.SetDefault("redis.port", 6379)
	v.SetDefault("redis.password", "")
	v.SetDefault("redis.db", 0)
	v.SetDefault("redis.presenceTTL", 3600)

	// AI
	v.SetDefault("ai.provider", "gemini")
	v.SetDefault("ai.timeout", 60)
	v.SetDefault("ai.openai.apiKey", "")
	v.SetDefault("ai.openai.baseUrl", "https://api.openai.com/v1")
	v.SetDefault("ai.openai.model", "gpt-4o-mini")
	v.SetDefault("ai.alibaba.accessKeySecret", "")
	v.SetDefault("ai.alibaba.model", "qwen-plus")
	v.SetDefault("ai.deepseek.apiKey", "")
	v.SetDefault("ai.deepseek.baseUrl", "https://api.deepseek.com/v1")
	v.SetDefault("ai.deepseek.model", "deepseek-chat")
	v.SetDefault("ai.gemini.apiKey", "")
	v.SetDefault("ai.gemini.model", "gemini-2.5-flash")

	// Auth
	v.SetDefault("auth.jwtSecret", "")
	v.SetDefault("auth.passcodeHash", "")
	v.SetDefault("auth.tokenTTL", 720)

	// Log
	v.SetDefault("log.level", "info")
	v.SetDefault("log.format", "json")

	// Mentor
	v.SetDefault("mentor.defaultOnline", false)
}
