package cli

import (
	"context"
	"fmt"
	"os"

	"github.com/natsuneko-laboratory/constraint-by-humanoid/pkg/codec"
	"github.com/natsuneko-laboratory/constraint-by-humanoid/pkg/domain"
)

// SceneRef is a scene loaded for a command, with the file it came from if any.
type SceneRef struct {
	Scene *domain.Scene
	// Path is empty when the scene came from the library.
	Path string
}

// LoadScene resolves ref as a file path first, then as a library scene ID.
func (a *App) LoadScene(ctx context.Context, ref string) (SceneRef, error) {
	if info, err := os.Stat(ref); err == nil && !info.IsDir() {
		scene, err := codec.DecodeFile(ref)
		if err != nil {
			return SceneRef{}, err
		}
		return SceneRef{Scene: scene, Path: ref}, nil
	}

	lib, err := a.Library()
	if err != nil {
		return SceneRef{}, err
	}
	if lib == nil {
		return SceneRef{}, fmt.Errorf("%w: %q is not a file and no library is configured", domain.ErrSceneNotFound, ref)
	}
	scene, err := lib.Get(ctx, ref)
	if err != nil {
		return SceneRef{}, fmt.Errorf("library scene %q: %w", ref, err)
	}
	return SceneRef{Scene: scene}, nil
}

// SaveScene writes scene to path, or back to the file it came from when path is empty.
func SaveScene(ref SceneRef, path string) error {
	if path == "" {
		path = ref.Path
	}
	if path == "" {
		return fmt.Errorf("scene %q came from the library; pass --output to write it", ref.Scene.ID)
	}
	return codec.EncodeFile(path, ref.Scene)
}
