package graph

import (
	"context"
	"os"
	"path/filepath"

	"github.com/samber/oops"
)

// Store is the persistence boundary of the graph. The whole graph is the
// unit of storage: Load returns it in full, Save replaces it in full.
type Store interface {
	Load(ctx context.Context) (*KnowledgeGraph, error)
	Save(ctx context.Context, graph *KnowledgeGraph) error
}

type FileStore struct {
	path string
}

var _ Store = (*FileStore)(nil)

// NewFileStore ensures the backing file exists at path, creating parent
// directories on first use.
func NewFileStore(path string) (*FileStore, error) {
	if dir := filepath.Dir(path); dir != "." {
		if err := os.MkdirAll(dir, 0755); err != nil {
			return nil, oops.Errorf("failed to create memory directory: %w", err)
		}
	}

	file, err := os.OpenFile(path, os.O_WRONLY|os.O_CREATE, 0644)
	if err != nil {
		return nil, oops.Errorf("failed to create memory file: %w", err)
	}
	defer file.Close()

	return &FileStore{path: path}, nil
}

func (s *FileStore) Load(_ context.Context) (*KnowledgeGraph, error) {
	file, err := os.Open(s.path)
	if err != nil {
		if os.IsNotExist(err) {
			return &KnowledgeGraph{Entities: []Entity{}, Relations: []Relation{}}, nil
		}
		return nil, oops.Errorf("failed to open memory file: %w", err)
	}
	defer file.Close()

	return decodeGraph(file)
}

func (s *FileStore) Save(_ context.Context, graph *KnowledgeGraph) error {
	tmp, err := os.CreateTemp(filepath.Dir(s.path), ".memory-*.tmp")
	if err != nil {
		return oops.Errorf("failed to create temp memory file: %w", err)
	}

	if err = encodeGraph(tmp, graph); err != nil {
		tmp.Close()
		os.Remove(tmp.Name())
		return err
	}

	if err = tmp.Close(); err != nil {
		os.Remove(tmp.Name())
		return oops.Errorf("failed to close temp memory file: %w", err)
	}

	if err = os.Rename(tmp.Name(), s.path); err != nil {
		os.Remove(tmp.Name())
		return oops.Errorf("failed to replace memory file: %w", err)
	}

	return nil
}
