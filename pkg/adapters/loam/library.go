package loam

import (
	"context"
	"fmt"
	"path/filepath"
	"sort"
	"strings"

	"github.com/aretw0/loam"
	"github.com/aretw0/loam/pkg/core"
	"github.com/natsuneko-laboratory/constraint-by-humanoid/pkg/codec"
	"github.com/natsuneko-laboratory/constraint-by-humanoid/pkg/domain"
)

// ScenePattern matches the files a library serves.
const ScenePattern = "**/*.{md,json,yaml,yml}"

// Library adapts a Loam repository of scene documents to ports.SceneSource.
// Each document's metadata (front matter for Markdown, the whole file for YAML
// and JSON) is a codec.Document.
type Library struct {
	Repo *loam.TypedRepository[codec.Document]
}

// New creates a library over an initialized repository.
func New(repo core.Repository) *Library {
	return &Library{
		Repo: loam.NewTypedRepository[codec.Document](repo),
	}
}

// Open initializes a read-only Loam repository at dir and wraps it.
func Open(dir string) (*Library, error) {
	absPath, err := filepath.Abs(dir)
	if err != nil {
		return nil, fmt.Errorf("invalid path: %w", err)
	}
	// ReadOnly avoids Loam's sandbox copy; the library never writes.
	repo, err := loam.Init(absPath, loam.WithReadOnly(true))
	if err != nil {
		return nil, fmt.Errorf("failed to initialize loam: %w", err)
	}
	return New(repo), nil
}

type entry struct {
	docID string
	doc   codec.Document
}

// index lists scene documents keyed by scene ID. Documents without objects are not scenes.
func (l *Library) index(ctx context.Context) (map[string]entry, error) {
	docs, err := l.Repo.List(ctx)
	if err != nil {
		return nil, fmt.Errorf("loam list failed: %w", err)
	}

	seen := make(map[string]entry, len(docs))
	for _, doc := range docs {
		if len(doc.Data.Objects) == 0 {
			continue
		}
		id := doc.Data.Scene
		if id == "" {
			id = trimExtension(doc.ID)
		}

		if existing, ok := seen[id]; ok {
			return nil, fmt.Errorf("collision detected: scene '%s' is defined in both '%s' and '%s'", id, existing.docID, doc.ID)
		}
		seen[id] = entry{docID: doc.ID, doc: doc.Data}
	}
	return seen, nil
}

// Get decodes the scene with the given ID.
func (l *Library) Get(ctx context.Context, sceneID string) (*domain.Scene, error) {
	idx, err := l.index(ctx)
	if err != nil {
		return nil, err
	}
	e, ok := idx[sceneID]
	if !ok {
		return nil, fmt.Errorf("%w: %s", domain.ErrSceneNotFound, sceneID)
	}

	doc := e.doc
	doc.Scene = sceneID
	scene, err := doc.ToScene()
	if err != nil {
		return nil, fmt.Errorf("%s: %w", e.docID, err)
	}
	return scene, nil
}

// List returns all scene IDs in sorted order.
func (l *Library) List(ctx context.Context) ([]string, error) {
	idx, err := l.index(ctx)
	if err != nil {
		return nil, err
	}
	ids := make([]string, 0, len(idx))
	for id := range idx {
		ids = append(ids, id)
	}
	sort.Strings(ids)
	return ids, nil
}

// Watch emits the document ID of every changed scene file until ctx is done.
func (l *Library) Watch(ctx context.Context) (<-chan string, error) {
	events, err := l.Repo.Watch(ctx, ScenePattern)
	if err != nil {
		return nil, fmt.Errorf("failed to start loam watcher: %w", err)
	}

	ch := make(chan string, 1)

	go func() {
		defer close(ch)
		for {
			select {
			case <-ctx.Done():
				return
			case evt, ok := <-events:
				if !ok {
					return
				}
				select {
				case ch <- trimExtension(evt.ID):
				case <-ctx.Done():
					return
				}
			}
		}
	}()

	return ch, nil
}

func trimExtension(id string) string {
	ext := filepath.Ext(id)
	if ext != "" {
		return filepath.ToSlash(strings.TrimSuffix(id, ext))
	}
	return filepath.ToSlash(id)
}
