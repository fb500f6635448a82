package config

import (
	"fmt"
	"os"
	"time"

	"github.com/spf13/viper"
)

type Config struct {
	Server    ServerConfig
	Logger    LoggerConfig
	DB        DBConfig
	Redis     RedisConfig
	Embedding EmbeddingConfig
	Generator GeneratorConfig
	Vector    VectorConfig
	Quiz      QuizConfig
	Auth      AuthConfig
	CacheTTLs CacheTTLConfig
}

type ServerConfig struct {
	Port         int
	ReadTimeout  time.Duration
	WriteTimeout time.Duration
}

type LoggerConfig struct {
	Level string
	Env   string
}

type DBConfig struct {
	// Path to the sqlite database file.
	Path string
}

type RedisConfig struct {
	Address  string
	Password string
	DB       int
}

type EmbeddingConfig struct {
	// Source selects the embedding backend: "openai" or "ollama".
	Source string
	OpenAI struct {
		APIKey string
		Model  string
	}
	Ollama struct {
		ServerURL string
		Model     string
	}
}

type GeneratorConfig struct {
	APIKey  string
	Model   string
	Timeout time.Duration
}

type VectorConfig struct {
	// Store selects the vector index backend: "memory" or "qdrant".
	Store      string
	QdrantHost string
	QdrantPort int
	Collection string
}

type QuizConfig struct {
	// MaxQuestions caps a single quiz; requests above it are rejected.
	MaxQuestions int
	// RetrieveK is how many context segments the retriever hands to the generator.
	RetrieveK int
	// TopUpAttempts bounds re-generation when validation drops questions.
	TopUpAttempts int
	DefaultTopic  string
}

type AuthConfig struct {
	// SessionSecret signs the anonymous session tokens.
	SessionSecret string
	SessionTTL    time.Duration
}

type CacheTTLConfig struct {
	Embedding string
	Session   string
}

// Load reads config.yaml (working dir or ./config) and applies env overrides.
func Load() (*Config, error) {
	viper.SetConfigName("config")
	viper.SetConfigType("yaml")

	if os.Getenv("ENV") == "test" {
		viper.AddConfigPath("../../config")
		viper.AddConfigPath("../../")
	} else {
		viper.AddConfigPath(".")
		viper.AddConfigPath("./config")
	}

	viper.AutomaticEnv()

	viper.SetDefault("server.port", 8090)
	viper.SetDefault("server.read_timeout", 15)
	viper.SetDefault("server.write_timeout", 30)
	viper.SetDefault("logger.level", "info")
	viper.SetDefault("logger.env", "development")
	viper.SetDefault("db.path", "quizbuilder.db")
	viper.SetDefault("embedding.source", "openai")
	viper.SetDefault("embedding.openai.model", "text-embedding-ada-002")
	viper.SetDefault("generator.model", "gpt-4o")
	viper.SetDefault("generator.timeout", 60)
	viper.SetDefault("vector.store", "memory")
	viper.SetDefault("vector.qdrant_port", 6334)
	viper.SetDefault("vector.collection", "quiz_segments")
	viper.SetDefault("quiz.max_questions", 10)
	viper.SetDefault("quiz.retrieve_k", 4)
	viper.SetDefault("quiz.top_up_attempts", 3)
	viper.SetDefault("quiz.default_topic", "General Knowledge")
	viper.SetDefault("auth.session_ttl", 24)
	viper.SetDefault("cache_ttls.embedding", "168h")
	viper.SetDefault("cache_ttls.session", "24h")

	if err := viper.ReadInConfig(); err != nil {
		// The config file is optional; defaults plus env vars are enough to boot.
		if _, ok := err.(viper.ConfigFileNotFoundError); !ok {
			return nil, fmt.Errorf("failed to read config file: %w", err)
		}
	}

	cfg := &Config{
		Server: ServerConfig{
			Port:         viper.GetInt("server.port"),
			ReadTimeout:  viper.GetDuration("server.read_timeout") * time.Second,
			WriteTimeout: viper.GetDuration("server.write_timeout") * time.Second,
		},
		Logger: LoggerConfig{
			Level: viper.GetString("logger.level"),
			Env:   viper.GetString("logger.env"),
		},
		DB: DBConfig{
			Path: viper.GetString("db.path"),
		},
		Redis: RedisConfig{
			Address:  viper.GetString("redis.address"),
			Password: viper.GetString("redis.password"),
			DB:       viper.GetInt("redis.db"),
		},
		Generator: GeneratorConfig{
			APIKey:  viper.GetString("generator.api_key"),
			Model:   viper.GetString("generator.model"),
			Timeout: viper.GetDuration("generator.timeout") * time.Second,
		},
		Vector: VectorConfig{
			Store:      viper.GetString("vector.store"),
			QdrantHost: viper.GetString("vector.qdrant_host"),
			QdrantPort: viper.GetInt("vector.qdrant_port"),
			Collection: viper.GetString("vector.collection"),
		},
		Quiz: QuizConfig{
			MaxQuestions:  viper.GetInt("quiz.max_questions"),
			RetrieveK:     viper.GetInt("quiz.retrieve_k"),
			TopUpAttempts: viper.GetInt("quiz.top_up_attempts"),
			DefaultTopic:  viper.GetString("quiz.default_topic"),
		},
		Auth: AuthConfig{
			SessionSecret: viper.GetString("auth.session_secret"),
			SessionTTL:    viper.GetDuration("auth.session_ttl") * time.Hour,
		},
		CacheTTLs: CacheTTLConfig{
			Embedding: viper.GetString("cache_ttls.embedding"),
			Session:   viper.GetString("cache_ttls.session"),
		},
	}
	cfg.Embedding.Source = viper.GetString("embedding.source")
	cfg.Embedding.OpenAI.APIKey = viper.GetString("embedding.openai.api_key")
	cfg.Embedding.OpenAI.Model = viper.GetString("embedding.openai.model")
	cfg.Embedding.Ollama.ServerURL = viper.GetString("embedding.ollama.server_url")
	cfg.Embedding.Ollama.Model = viper.GetString("embedding.ollama.model")

	// Environment variables beat the file for deploy-time secrets.
	if key := os.Getenv("OPENAI_API_KEY"); key != "" {
		cfg.Embedding.OpenAI.APIKey = key
		if cfg.Generator.APIKey == "" {
			cfg.Generator.APIKey = key
		}
	}
	if addr := os.Getenv("REDIS_ADDRESS"); addr != "" {
		cfg.Redis.Address = addr
	}
	if pw := os.Getenv("REDIS_PASSWORD"); pw != "" {
		cfg.Redis.Password = pw
	}
	if path := os.Getenv("DB_PATH"); path != "" {
		cfg.DB.Path = path
	}
	if secret := os.Getenv("SESSION_SECRET"); secret != "" {
		cfg.Auth.SessionSecret = secret
	}

	return cfg, nil
}

// ParseTTLStringOrDefault parses a duration string, falling back when invalid.
func (c *Config) ParseTTLStringOrDefault(ttl string, def time.Duration) time.Duration {
	if ttl == "" {
		return def
	}
	d, err := time.ParseDuration(ttl)
	if err != nil {
		return def
	}
	return d
}
