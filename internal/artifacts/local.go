package artifacts

import (
	"context"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"

	logger "github.com/Bparsons0904/goLogger"
	"github.com/spf13/afero"
)

const (
	dirPerm  = 0o755
	filePerm = 0o644
)

// LocalStore keeps artifacts as files under {root}/{kind}/{token}.
type LocalStore struct {
	fs   afero.Fs
	root string
	log  logger.Logger
}

// NewLocalStore stores artifacts on the OS filesystem below root.
func NewLocalStore(root string) *LocalStore {
	return NewLocalStoreWithFs(afero.NewOsFs(), root)
}

func NewLocalStoreWithFs(fsys afero.Fs, root string) *LocalStore {
	return &LocalStore{
		fs:   fsys,
		root: root,
		log:  logger.New("artifacts").File("local"),
	}
}

func (s *LocalStore) Root() string {
	return s.root
}

func (s *LocalStore) path(kind, token string) string {
	return filepath.Join(s.root, kind, token)
}

func (s *LocalStore) Put(ctx context.Context, kind string, data []byte) (string, error) {
	log := s.log.Function("Put")

	if err := validateKind(kind); err != nil {
		return "", err
	}

	dir := filepath.Join(s.root, kind)
	if err := s.fs.MkdirAll(dir, dirPerm); err != nil {
		return "", log.Err("failed to create artifact directory", fmt.Errorf("%w: %v", ErrIO, err), "dir", dir)
	}

	token := NewToken()
	if err := s.write(s.path(kind, token), Encode(data)); err != nil {
		return "", log.Err("failed to write artifact", err, "kind", kind, "token", token)
	}

	log.Debug("Artifact stored", "kind", kind, "token", token, "size", len(data))
	return token, nil
}

// write creates the file exclusively and always closes it. A partially
// written file is removed.
func (s *LocalStore) write(name string, encoded []byte) (err error) {
	file, err := s.fs.OpenFile(name, os.O_WRONLY|os.O_CREATE|os.O_EXCL, filePerm)
	if err != nil {
		return fmt.Errorf("%w: %v", ErrIO, err)
	}

	defer func() {
		if closeErr := file.Close(); closeErr != nil && err == nil {
			err = fmt.Errorf("%w: %v", ErrIO, closeErr)
		}
		if err != nil {
			_ = s.fs.Remove(name)
		}
	}()

	if _, err = file.Write(encoded); err != nil {
		return fmt.Errorf("%w: %v", ErrIO, err)
	}

	if err = file.Sync(); err != nil {
		return fmt.Errorf("%w: %v", ErrIO, err)
	}

	return nil
}

func (s *LocalStore) Get(ctx context.Context, kind, token string) ([]byte, error) {
	if err := validate(kind, token); err != nil {
		return nil, err
	}

	encoded, err := afero.ReadFile(s.fs, s.path(kind, token))
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return nil, ErrNotFound
		}
		return nil, s.log.Function("Get").
			Err("failed to read artifact", fmt.Errorf("%w: %v", ErrIO, err), "kind", kind, "token", token)
	}

	return Decode(encoded)
}

func (s *LocalStore) Delete(ctx context.Context, kind, token string) error {
	if err := validate(kind, token); err != nil {
		return err
	}

	err := s.fs.Remove(s.path(kind, token))
	if err != nil && !errors.Is(err, fs.ErrNotExist) {
		return s.log.Function("Delete").
			Err("failed to delete artifact", fmt.Errorf("%w: %v", ErrIO, err), "kind", kind, "token", token)
	}

	return nil
}

func (s *LocalStore) Exists(ctx context.Context, kind, token string) (bool, error) {
	if err := validate(kind, token); err != nil {
		return false, err
	}

	exists, err := afero.Exists(s.fs, s.path(kind, token))
	if err != nil {
		return false, fmt.Errorf("%w: %v", ErrIO, err)
	}
	return exists, nil
}

func (s *LocalStore) List(ctx context.Context, kind string) ([]StoredArtifact, error) {
	log := s.log.Function("List")

	if err := validateKind(kind); err != nil {
		return nil, err
	}

	dir := filepath.Join(s.root, kind)
	entries, err := afero.ReadDir(s.fs, dir)
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return []StoredArtifact{}, nil
		}
		return nil, log.Err("failed to read artifact directory", fmt.Errorf("%w: %v", ErrIO, err), "dir", dir)
	}

	stored := make([]StoredArtifact, 0, len(entries))
	for _, entry := range entries {
		if entry.IsDir() || validate(kind, entry.Name()) != nil {
			continue
		}
		stored = append(stored, StoredArtifact{
			Token:      entry.Name(),
			Size:       entry.Size(),
			ModifiedAt: entry.ModTime(),
		})
	}

	return stored, nil
}
