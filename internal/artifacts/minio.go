package artifacts

import (
	"bytes"
	"context"
	"fmt"
	"io"
	"strings"

	logger "github.com/Bparsons0904/goLogger"
	"github.com/minio/minio-go/v7"
	"github.com/minio/minio-go/v7/pkg/credentials"
)

const hexContentType = "text/plain; charset=us-ascii"

type MinioConfig struct {
	Endpoint  string
	AccessKey string
	SecretKey string
	Bucket    string
	UseSSL    bool
}

// MinioStore keeps artifacts as objects {kind}/{token} in a single bucket.
type MinioStore struct {
	client *minio.Client
	bucket string
	log    logger.Logger
}

// NewMinioStore connects to the object store and creates the bucket when it is missing.
func NewMinioStore(ctx context.Context, cfg MinioConfig) (*MinioStore, error) {
	log := logger.New("artifacts").File("minio").Function("NewMinioStore")

	client, err := minio.New(cfg.Endpoint, &minio.Options{
		Creds:  credentials.NewStaticV4(cfg.AccessKey, cfg.SecretKey, ""),
		Secure: cfg.UseSSL,
	})
	if err != nil {
		return nil, log.Err("failed to initialize minio client", err, "endpoint", cfg.Endpoint)
	}

	exists, err := client.BucketExists(ctx, cfg.Bucket)
	if err != nil {
		return nil, log.Err("failed to check artifact bucket", err, "bucket", cfg.Bucket)
	}

	if !exists {
		if err := client.MakeBucket(ctx, cfg.Bucket, minio.MakeBucketOptions{}); err != nil {
			return nil, log.Err("failed to create artifact bucket", err, "bucket", cfg.Bucket)
		}
		log.Info("Created artifact bucket", "bucket", cfg.Bucket)
	}

	return &MinioStore{
		client: client,
		bucket: cfg.Bucket,
		log:    logger.New("artifacts").File("minio"),
	}, nil
}

func (s *MinioStore) Put(ctx context.Context, kind string, data []byte) (string, error) {
	log := s.log.Function("Put")

	if err := validateKind(kind); err != nil {
		return "", err
	}

	token := NewToken()
	encoded := Encode(data)

	// PutObject overwrites silently, so an existing key is refused here.
	exists, err := s.Exists(ctx, kind, token)
	if err != nil {
		return "", log.Err("failed to check artifact", err, "kind", kind, "token", token)
	}
	if exists {
		return "", log.Err("artifact token already in use", fmt.Errorf("%w: token collision", ErrIO), "kind", kind, "token", token)
	}

	_, err = s.client.PutObject(
		ctx,
		s.bucket,
		Key(kind, token),
		bytes.NewReader(encoded),
		int64(len(encoded)),
		minio.PutObjectOptions{ContentType: hexContentType},
	)
	if err != nil {
		return "", log.Err("failed to put artifact", fmt.Errorf("%w: %v", ErrIO, err), "kind", kind, "token", token)
	}

	return token, nil
}

func (s *MinioStore) Get(ctx context.Context, kind, token string) ([]byte, error) {
	log := s.log.Function("Get")

	if err := validate(kind, token); err != nil {
		return nil, err
	}

	object, err := s.client.GetObject(ctx, s.bucket, Key(kind, token), minio.GetObjectOptions{})
	if err != nil {
		return nil, log.Err("failed to get artifact", fmt.Errorf("%w: %v", ErrIO, err), "kind", kind, "token", token)
	}
	defer object.Close()

	encoded, err := io.ReadAll(object)
	if err != nil {
		if isNoSuchKey(err) {
			return nil, ErrNotFound
		}
		return nil, log.Err("failed to read artifact", fmt.Errorf("%w: %v", ErrIO, err), "kind", kind, "token", token)
	}

	return Decode(encoded)
}

func (s *MinioStore) Delete(ctx context.Context, kind, token string) error {
	if err := validate(kind, token); err != nil {
		return err
	}

	err := s.client.RemoveObject(ctx, s.bucket, Key(kind, token), minio.RemoveObjectOptions{})
	if err != nil && !isNoSuchKey(err) {
		return s.log.Function("Delete").
			Err("failed to delete artifact", fmt.Errorf("%w: %v", ErrIO, err), "kind", kind, "token", token)
	}

	return nil
}

func (s *MinioStore) Exists(ctx context.Context, kind, token string) (bool, error) {
	if err := validate(kind, token); err != nil {
		return false, err
	}

	_, err := s.client.StatObject(ctx, s.bucket, Key(kind, token), minio.StatObjectOptions{})
	if err != nil {
		if isNoSuchKey(err) {
			return false, nil
		}
		return false, fmt.Errorf("%w: %v", ErrIO, err)
	}
	return true, nil
}

func (s *MinioStore) List(ctx context.Context, kind string) ([]StoredArtifact, error) {
	if err := validateKind(kind); err != nil {
		return nil, err
	}

	prefix := kind + "/"
	stored := []StoredArtifact{}

	for object := range s.client.ListObjects(ctx, s.bucket, minio.ListObjectsOptions{Prefix: prefix}) {
		if object.Err != nil {
			return nil, s.log.Function("List").
				Err("failed to list artifacts", fmt.Errorf("%w: %v", ErrIO, object.Err), "kind", kind)
		}

		token := strings.TrimPrefix(object.Key, prefix)
		if validate(kind, token) != nil {
			continue
		}

		stored = append(stored, StoredArtifact{
			Token:      token,
			Size:       object.Size,
			ModifiedAt: object.LastModified,
		})
	}

	return stored, nil
}

func isNoSuchKey(err error) bool {
	return minio.ToErrorResponse(err).Code == "NoSuchKey"
}
