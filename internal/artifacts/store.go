// Package artifacts persists binary payloads (game ROMs) outside the primary
// record store. Payloads are addressed by {kind}/{token} and written as hex
// text so every backend only ever holds printable ASCII.
package artifacts

import (
	"bytes"
	"context"
	"encoding/hex"
	"errors"
	"fmt"
	"path"
	"strings"
	"time"

	"github.com/google/uuid"
)

var (
	ErrNotFound     = errors.New("artifact not found")
	ErrIO           = errors.New("artifact i/o failure")
	ErrInvalidToken = errors.New("invalid artifact token")
	ErrInvalidKind  = errors.New("invalid artifact kind")
)

// Store is implemented by every artifact backend.
type Store interface {
	// Put writes data under a freshly generated token and returns the token.
	Put(ctx context.Context, kind string, data []byte) (string, error)
	// Get returns the decoded binary, or ErrNotFound.
	Get(ctx context.Context, kind, token string) ([]byte, error)
	// Delete removes the artifact. A missing artifact is not an error.
	Delete(ctx context.Context, kind, token string) error
	Exists(ctx context.Context, kind, token string) (bool, error)
	// List returns every stored artifact of the kind.
	List(ctx context.Context, kind string) ([]StoredArtifact, error)
}

type StoredArtifact struct {
	Token      string    `json:"token"`
	Size       int64     `json:"size"`
	ModifiedAt time.Time `json:"modifiedAt"`
}

// FileBacked is implemented by records that own an artifact.
type FileBacked interface {
	ArtifactKind() string
	ArtifactToken() string
}

// PathFor returns the storage key of the artifact owned by entity.
func PathFor(entity FileBacked) string {
	return Key(entity.ArtifactKind(), entity.ArtifactToken())
}

func Key(kind, token string) string {
	return path.Join(kind, token)
}

// NewToken returns a random UUID as 32 lowercase hex characters.
func NewToken() string {
	id := uuid.New()
	return hex.EncodeToString(id[:])
}

func Encode(data []byte) []byte {
	encoded := make([]byte, hex.EncodedLen(len(data)))
	hex.Encode(encoded, data)
	return encoded
}

func Decode(encoded []byte) ([]byte, error) {
	encoded = bytes.TrimSpace(encoded)
	decoded := make([]byte, hex.DecodedLen(len(encoded)))
	n, err := hex.Decode(decoded, encoded)
	if err != nil {
		return nil, fmt.Errorf("%w: corrupt artifact encoding: %v", ErrIO, err)
	}
	return decoded[:n], nil
}

func validate(kind, token string) error {
	if err := validateKind(kind); err != nil {
		return err
	}
	if len(token) != 32 {
		return fmt.Errorf("%w: %q", ErrInvalidToken, token)
	}
	if _, err := hex.DecodeString(token); err != nil {
		return fmt.Errorf("%w: %q", ErrInvalidToken, token)
	}
	return nil
}

func validateKind(kind string) error {
	if kind == "" || strings.ContainsAny(kind, `/\.`) {
		return fmt.Errorf("%w: %q", ErrInvalidKind, kind)
	}
	return nil
}
