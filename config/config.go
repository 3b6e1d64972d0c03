package config

import (
	logger "github.com/Bparsons0904/goLogger"

	"github.com/spf13/viper"
)

const (
	ArtifactBackendLocal = "local"
	ArtifactBackendMinio = "minio"

	DefaultMaxUploadSize = 4 * 1024

	// uploads are written before their transaction commits, so the sweeper
	// must never consider an artifact younger than this
	MinArtifactSweepGraceMinutes = 1
)

type Config struct {
	GeneralVersion       string `mapstructure:"GENERAL_VERSION"`
	Environment          string `mapstructure:"ENVIRONMENT"`
	ServerPort           int    `mapstructure:"SERVER_PORT"`
	DatabaseHost         string `mapstructure:"DB_HOST"`
	DatabasePort         int    `mapstructure:"DB_PORT"`
	DatabaseName         string `mapstructure:"DB_NAME"`
	DatabaseUser         string `mapstructure:"DB_USER"`
	DatabasePassword     string `mapstructure:"DB_PASSWORD"`
	DatabaseCacheAddress string `mapstructure:"DB_CACHE_ADDRESS"`
	DatabaseCachePort    int    `mapstructure:"DB_CACHE_PORT"`
	DatabaseCacheReset   int    `mapstructure:"DB_CACHE_RESET"`
	CorsAllowOrigins     string `mapstructure:"CORS_ALLOW_ORIGINS"`
	JWTSecret            string `mapstructure:"JWT_SECRET"`

	ArtifactBackend    string `mapstructure:"ARTIFACT_BACKEND"`
	ArtifactRoot       string `mapstructure:"ARTIFACT_ROOT"`
	MaxUploadSize      int    `mapstructure:"MAX_UPLOAD_SIZE"`
	StaticDir          string `mapstructure:"STATIC_DIR"`
	StaticURLPrefix    string `mapstructure:"STATIC_URL_PREFIX"`
	MinioEndpoint      string `mapstructure:"MINIO_ENDPOINT"`
	MinioAccessKey     string `mapstructure:"MINIO_ACCESS_KEY"`
	MinioSecretKey     string `mapstructure:"MINIO_SECRET_KEY"`
	MinioBucket        string `mapstructure:"MINIO_BUCKET"`
	MinioUseSSL        bool   `mapstructure:"MINIO_USE_SSL"`
	SchedulerEnabled   bool   `mapstructure:"SCHEDULER_ENABLED"`
	ArtifactSweepGrace int    `mapstructure:"ARTIFACT_SWEEP_GRACE_MINUTES"`
}

func New() (Config, error) {
	log := logger.New("config").Function("New")
	log.Info("Initializing config")

	viper.AutomaticEnv()

	envVars := []string{
		"GENERAL_VERSION", "ENVIRONMENT", "SERVER_PORT", "DB_HOST", "DB_PORT", "DB_NAME", "DB_USER", "DB_PASSWORD",
		"DB_CACHE_ADDRESS", "DB_CACHE_PORT", "DB_CACHE_RESET",
		"CORS_ALLOW_ORIGINS", "JWT_SECRET",
		"ARTIFACT_BACKEND", "ARTIFACT_ROOT", "MAX_UPLOAD_SIZE", "STATIC_DIR", "STATIC_URL_PREFIX",
		"MINIO_ENDPOINT", "MINIO_ACCESS_KEY", "MINIO_SECRET_KEY", "MINIO_BUCKET", "MINIO_USE_SSL",
		"SCHEDULER_ENABLED", "ARTIFACT_SWEEP_GRACE_MINUTES",
	}

	for _, env := range envVars {
		if err := viper.BindEnv(env); err != nil {
			log.Warn("Failed to bind environment variable", "env", env, "error", err)
		}
	}

	setDefaults()

	envVarsSet := viper.IsSet("SERVER_PORT") && viper.IsSet("DB_HOST")

	if envVarsSet {
		log.Info("Environment variables detected, skipping file loading")
	} else {
		log.Info("Environment variables not found, attempting to load from files")

		viper.SetConfigFile(".env")
		viper.SetConfigType("env")

		if err := viper.ReadInConfig(); err != nil {
			log.Warn("Could not find .env file", "error", err)
		} else {
			log.Info("Loaded .env file")
		}

		viper.SetConfigFile(".env.local")
		if err := viper.MergeInConfig(); err != nil {
			log.Debug("No .env.local file found", "error", err)
		} else {
			log.Info("Loaded .env.local overrides")
		}
	}

	var config Config
	if err := viper.Unmarshal(&config); err != nil {
		return Config{}, log.Err("Fatal error: could not unmarshal config", err)
	}

	if err := Validate(config); err != nil {
		return Config{}, err
	}

	log.Info(
		"Successfully initialized config",
		"environment", config.Environment,
		"artifactBackend", config.ArtifactBackend,
		"maxUploadSize", config.MaxUploadSize,
	)
	return config, nil
}

func setDefaults() {
	viper.SetDefault("ARTIFACT_BACKEND", ArtifactBackendLocal)
	viper.SetDefault("ARTIFACT_ROOT", "uploads")
	viper.SetDefault("MAX_UPLOAD_SIZE", DefaultMaxUploadSize)
	viper.SetDefault("STATIC_DIR", "static")
	viper.SetDefault("STATIC_URL_PREFIX", "/static")
	viper.SetDefault("MINIO_BUCKET", "chip8-roms")
	viper.SetDefault("DB_CACHE_RESET", -1)
	viper.SetDefault("ARTIFACT_SWEEP_GRACE_MINUTES", 60)
}

// Validate checks the settings the server cannot start without.
func Validate(config Config) error {
	log := logger.New("config").Function("Validate")

	if config.ServerPort <= 0 {
		return log.Error(
			"Fatal error: invalid server port",
			"port", config.ServerPort,
		)
	}

	if config.JWTSecret == "" {
		return log.ErrMsg("Fatal error: JWT_SECRET is required")
	}

	if config.MaxUploadSize <= 0 {
		return log.Error("Fatal error: invalid max upload size", "maxUploadSize", config.MaxUploadSize)
	}

	if config.ArtifactSweepGrace < MinArtifactSweepGraceMinutes {
		return log.Error(
			"Fatal error: artifact sweep grace too short",
			"graceMinutes", config.ArtifactSweepGrace,
			"minimum", MinArtifactSweepGraceMinutes,
		)
	}

	switch config.ArtifactBackend {
	case ArtifactBackendLocal:
		if config.ArtifactRoot == "" {
			return log.ErrMsg("Fatal error: ARTIFACT_ROOT required for local artifact backend")
		}
	case ArtifactBackendMinio:
		if config.MinioEndpoint == "" || config.MinioBucket == "" {
			return log.ErrMsg(
				"Fatal error: MINIO_ENDPOINT and MINIO_BUCKET required for minio artifact backend",
			)
		}
	default:
		return log.Error("Fatal error: unknown artifact backend", "backend", config.ArtifactBackend)
	}

	return nil
}
