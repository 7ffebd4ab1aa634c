package config

import (
	"fmt"
	"net/url"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"github.com/spf13/viper"
)

type Config struct {
	AppEnv         string
	Port           string
	AllowedOrigins []string

	Database DatabaseConfig
	RedisURL string

	MeiliSearchHost string
	MeiliMasterKey  string

	// cron spec for the full search reindex, empty disables it
	SearchReindexSchedule string

	JWT JWTConfig

	Storage    StorageConfig
	Cloudinary CloudinaryConfig
	MinIO      MinIOConfig

	Log LogConfig

	LoginMaxAttempts int
	LoginWindow      time.Duration
	UploadCooldown   time.Duration

	TeacherRegistrationKey string
	SeedTeacherEmail       string
	SeedTeacherPassword    string

	ReadTimeout     time.Duration
	WriteTimeout    time.Duration
	ShutdownTimeout time.Duration
}

type DatabaseConfig struct {
	URL          string
	Host         string
	Port         string
	User         string
	Password     string
	Name         string
	SSLMode      string
	MaxOpenConns int
	MaxIdleConns int
	AutoMigrate  bool
}

type JWTConfig struct {
	Secret string
	Expiry time.Duration
	Issuer string
}

type StorageConfig struct {
	Provider      string
	UploadDir     string
	MaxUploadSize int64
}

type CloudinaryConfig struct {
	URL          string
	CloudName    string
	UploadFolder string
}

type MinIOConfig struct {
	Endpoint  string
	AccessKey string
	SecretKey string
	Bucket    string
	UseSSL    bool
}

type LogConfig struct {
	Level  string
	Pretty bool
}

func Load() (*Config, error) {
	// Don't fail if .env doesn't exist (might be prod env vars)
	_ = godotenv.Load()

	v := viper.New()
	v.SetConfigName("config")
	v.SetConfigType("yaml")
	v.AddConfigPath(".")
	v.AddConfigPath("./config")
	setDefaults(v)

	if err := v.ReadInConfig(); err != nil {
		if _, ok := err.(viper.ConfigFileNotFoundError); !ok {
			return nil, fmt.Errorf("failed to read config: %w", err)
		}
	}

	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	return fromViper(v)
}

func setDefaults(v *viper.Viper) {
	v.SetDefault("app_env", "development")
	v.SetDefault("port", "8080")
	v.SetDefault("allowed_origins", "http://localhost:3000")

	v.SetDefault("db_host", "localhost")
	v.SetDefault("db_port", "5432")
	v.SetDefault("db_user", "postgres")
	v.SetDefault("db_name", "student_profile")
	v.SetDefault("db_sslmode", "disable")
	v.SetDefault("db_max_open_conns", 25)
	v.SetDefault("db_max_idle_conns", 5)
	v.SetDefault("auto_migrate", true)

	v.SetDefault("meilisearch_host", "")
	v.SetDefault("search_reindex_schedule", "@every 6h")

	v.SetDefault("jwt_expiry", "24h")
	v.SetDefault("jwt_issuer", "student-profile")

	v.SetDefault("upload_dir", "uploads")
	v.SetDefault("max_upload_size", 10<<20)
	v.SetDefault("cloudinary_upload_folder", "student_profile")
	v.SetDefault("minio_bucket", "student-files")
	v.SetDefault("minio_use_ssl", false)

	v.SetDefault("log_level", "info")
	v.SetDefault("log_pretty", false)

	v.SetDefault("login_max_attempts", 5)
	v.SetDefault("login_window", "15m")
	v.SetDefault("upload_cooldown", "5s")

	v.SetDefault("server_read_timeout", "15s")
	v.SetDefault("server_write_timeout", "30s")
	v.SetDefault("shutdown_timeout", "10s")
}

func fromViper(v *viper.Viper) (*Config, error) {
	cfg := &Config{
		AppEnv:         v.GetString("app_env"),
		Port:           v.GetString("port"),
		AllowedOrigins: splitList(v.GetString("allowed_origins")),

		Database: DatabaseConfig{
			URL:          v.GetString("database_url"),
			Host:         v.GetString("db_host"),
			Port:         v.GetString("db_port"),
			User:         v.GetString("db_user"),
			Password:     v.GetString("db_password"),
			Name:         v.GetString("db_name"),
			SSLMode:      v.GetString("db_sslmode"),
			MaxOpenConns: v.GetInt("db_max_open_conns"),
			MaxIdleConns: v.GetInt("db_max_idle_conns"),
			AutoMigrate:  v.GetBool("auto_migrate"),
		},
		RedisURL: v.GetString("redis_url"),

		MeiliSearchHost: normalizeMeiliHost(v.GetString("meilisearch_host")),
		MeiliMasterKey:  v.GetString("meili_master_key"),

		SearchReindexSchedule: strings.TrimSpace(v.GetString("search_reindex_schedule")),

		JWT: JWTConfig{
			Secret: v.GetString("jwt_secret"),
			Issuer: v.GetString("jwt_issuer"),
		},

		Storage: StorageConfig{
			Provider:      strings.ToLower(v.GetString("storage_provider")),
			UploadDir:     v.GetString("upload_dir"),
			MaxUploadSize: v.GetInt64("max_upload_size"),
		},
		Cloudinary: CloudinaryConfig{
			URL:          v.GetString("cloudinary_url"),
			CloudName:    v.GetString("cloudinary_cloud_name"),
			UploadFolder: v.GetString("cloudinary_upload_folder"),
		},
		MinIO: MinIOConfig{
			Endpoint:  v.GetString("minio_endpoint"),
			AccessKey: v.GetString("minio_access_key"),
			SecretKey: v.GetString("minio_secret_key"),
			Bucket:    v.GetString("minio_bucket"),
			UseSSL:    v.GetBool("minio_use_ssl"),
		},

		Log: LogConfig{
			Level:  v.GetString("log_level"),
			Pretty: v.GetBool("log_pretty"),
		},

		LoginMaxAttempts: v.GetInt("login_max_attempts"),

		TeacherRegistrationKey: v.GetString("teacher_registration_key"),
		SeedTeacherEmail:       v.GetString("seed_teacher_email"),
		SeedTeacherPassword:    v.GetString("seed_teacher_password"),
	}

	if cfg.Storage.Provider == "" {
		cfg.Storage.Provider = "local"
		if cfg.IsProduction() {
			cfg.Storage.Provider = "cloudinary"
		}
	}

	durations := []struct {
		key string
		dst *time.Duration
	}{
		{"jwt_expiry", &cfg.JWT.Expiry},
		{"login_window", &cfg.LoginWindow},
		{"upload_cooldown", &cfg.UploadCooldown},
		{"server_read_timeout", &cfg.ReadTimeout},
		{"server_write_timeout", &cfg.WriteTimeout},
		{"shutdown_timeout", &cfg.ShutdownTimeout},
	}
	for _, d := range durations {
		parsed, err := time.ParseDuration(v.GetString(d.key))
		if err != nil {
			return nil, fmt.Errorf("invalid %s: %w", strings.ToUpper(d.key), err)
		}
		*d.dst = parsed
	}

	if cfg.JWT.Secret == "" {
		if cfg.IsProduction() {
			return nil, fmt.Errorf("JWT_SECRET is required in production")
		}
		cfg.JWT.Secret = "dev-secret-change-me"
	}

	return cfg, nil
}

func (c *Config) IsProduction() bool {
	return c.AppEnv == "production"
}

// DSN returns DATABASE_URL when set, otherwise a URL assembled from the DB_* parts.
func (d DatabaseConfig) DSN() string {
	if d.URL != "" {
		return d.URL
	}
	u := url.URL{
		Scheme:   "postgres",
		User:     url.UserPassword(d.User, d.Password),
		Host:     d.Host + ":" + d.Port,
		Path:     "/" + d.Name,
		RawQuery: "sslmode=" + d.SSLMode,
	}
	return u.String()
}

func splitList(s string) []string {
	var out []string
	for _, part := range strings.Split(s, ",") {
		if part = strings.TrimSpace(part); part != "" {
			out = append(out, part)
		}
	}
	return out
}

func normalizeMeiliHost(host string) string {
	if host == "" || strings.HasPrefix(host, "http") {
		return host
	}
	return "http://" + host + ":7700"
}
