package storage

import (
	"fmt"
	"io"
	"path"
	"path/filepath"

	"github.com/google/uuid"
	"github.com/spf13/afero"
)

// Store is the attachment store boundary: save a stream under a namespace,
// check a reference, delete it.
type Store interface {
	Save(namespace, filename string, r io.Reader) (string, error)
	Exists(ref string) bool
	Delete(ref string) error
}

// AttachmentStore keeps attachments on a filesystem rooted at root. The
// returned reference is relative to root so the root can move without
// invalidating stored paths.
type AttachmentStore struct {
	fs   afero.Fs
	root string
}

var _ Store = (*AttachmentStore)(nil)

func NewAttachmentStore(root string) *AttachmentStore {
	return &AttachmentStore{fs: afero.NewOsFs(), root: root}
}

// NewAttachmentStoreWithFs allows tests to run against an in-memory fs.
func NewAttachmentStoreWithFs(fs afero.Fs, root string) *AttachmentStore {
	return &AttachmentStore{fs: fs, root: root}
}

func (s *AttachmentStore) Save(namespace, filename string, r io.Reader) (string, error) {
	// Prefix with a uuid so repeated uploads of the same filename never
	// collide.
	name := fmt.Sprintf("%s_%s", uuid.New().String(), path.Base(filename))
	ref := path.Join(namespace, name)
	full := filepath.Join(s.root, filepath.FromSlash(ref))

	if err := s.fs.MkdirAll(filepath.Dir(full), 0o755); err != nil {
		return "", fmt.Errorf("create attachment dir: %w", err)
	}

	f, err := s.fs.Create(full)
	if err != nil {
		return "", fmt.Errorf("create attachment file: %w", err)
	}
	defer f.Close()

	if _, err := io.Copy(f, r); err != nil {
		return "", fmt.Errorf("write attachment: %w", err)
	}
	return ref, nil
}

func (s *AttachmentStore) Exists(ref string) bool {
	ok, err := afero.Exists(s.fs, filepath.Join(s.root, filepath.FromSlash(ref)))
	return err == nil && ok
}

func (s *AttachmentStore) Delete(ref string) error {
	return s.fs.Remove(filepath.Join(s.root, filepath.FromSlash(ref)))
}
