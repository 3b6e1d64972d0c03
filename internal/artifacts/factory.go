package artifacts

import (
	"chip8arcade/config"
	"context"

	logger "github.com/Bparsons0904/goLogger"
)

// New builds the backend selected by ARTIFACT_BACKEND.
func New(ctx context.Context, cfg config.Config) (Store, error) {
	log := logger.New("artifacts").Function("New")

	switch cfg.ArtifactBackend {
	case config.ArtifactBackendMinio:
		log.Info("Using minio artifact store", "endpoint", cfg.MinioEndpoint, "bucket", cfg.MinioBucket)
		return NewMinioStore(ctx, MinioConfig{
			Endpoint:  cfg.MinioEndpoint,
			AccessKey: cfg.MinioAccessKey,
			SecretKey: cfg.MinioSecretKey,
			Bucket:    cfg.MinioBucket,
			UseSSL:    cfg.MinioUseSSL,
		})
	case config.ArtifactBackendLocal, "":
		log.Info("Using local artifact store", "root", cfg.ArtifactRoot)
		return NewLocalStore(cfg.ArtifactRoot), nil
	default:
		return nil, log.Error("unknown artifact backend", "backend", cfg.ArtifactBackend)
	}
}
