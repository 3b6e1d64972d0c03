package artifacts

import (
	"context"

	logger "github.com/Bparsons0904/goLogger"
)

// Replace swaps the artifact at oldToken for data. The new artifact is
// written first and commit is called with its token; the old artifact is
// only removed after commit succeeds. When commit fails the new artifact is
// removed and the old one is left in place. Cleanup failures are logged only.
func Replace(
	ctx context.Context,
	store Store,
	kind string,
	oldToken string,
	data []byte,
	commit func(ctx context.Context, newToken string) error,
) (string, error) {
	log := logger.New("artifacts").File("replace").Function("Replace")

	newToken, err := store.Put(ctx, kind, data)
	if err != nil {
		return "", err
	}

	if err := commit(ctx, newToken); err != nil {
		Discard(ctx, store, kind, newToken)
		return "", err
	}

	if oldToken != "" && oldToken != newToken {
		if err := store.Delete(ctx, kind, oldToken); err != nil {
			log.Warn("failed to remove replaced artifact", "kind", kind, "token", oldToken, "error", err)
		}
	}

	return newToken, nil
}

// Discard removes an artifact on a best-effort basis.
func Discard(ctx context.Context, store Store, kind, token string) {
	if token == "" {
		return
	}
	if err := store.Delete(ctx, kind, token); err != nil {
		logger.New("artifacts").File("replace").Function("Discard").
			Warn("failed to remove orphaned artifact", "kind", kind, "token", token, "error", err)
	}
}
