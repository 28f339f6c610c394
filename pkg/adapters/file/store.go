// Package file provides a ports.SceneStore that keeps each scene as a JSON file.
package file

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strings"

	"github.com/natsuneko-laboratory/constraint-by-humanoid/pkg/domain"
)

// DefaultDir is used when New is given an empty directory.
var DefaultDir = filepath.Join(".cbh", "scenes")

// Store implements ports.SceneStore on the local filesystem.
type Store struct {
	BasePath string
}

// New creates a Store rooted at basePath.
func New(basePath string) *Store {
	if basePath == "" {
		basePath = DefaultDir
	}
	return &Store{BasePath: basePath}
}

func (s *Store) path(sceneID string) (string, error) {
	if sceneID == "" {
		return "", fmt.Errorf("%w: scene ID cannot be empty", domain.ErrInvalidScene)
	}
	if strings.ContainsAny(sceneID, `/\`) || sceneID == "." || sceneID == ".." {
		return "", fmt.Errorf("%w: scene ID %q is not a file name", domain.ErrInvalidScene, sceneID)
	}
	return filepath.Join(s.BasePath, sceneID+".json"), nil
}

// Save writes the scene atomically: temp file, fsync, rename.
func (s *Store) Save(ctx context.Context, sceneID string, scene *domain.Scene) error {
	destPath, err := s.path(sceneID)
	if err != nil {
		return err
	}
	if err := os.MkdirAll(s.BasePath, 0o755); err != nil {
		return fmt.Errorf("failed to ensure scene directory: %w", err)
	}

	data, err := json.MarshalIndent(scene, "", "  ")
	if err != nil {
		return fmt.Errorf("failed to marshal scene: %w", err)
	}

	// Same directory so the rename stays on one filesystem.
	tmpFile, err := os.CreateTemp(s.BasePath, "tmp-"+sceneID+"-*.json")
	if err != nil {
		return fmt.Errorf("failed to create temp file: %w", err)
	}
	tmpPath := tmpFile.Name()
	defer func() {
		_ = tmpFile.Close()
		_ = os.Remove(tmpPath)
	}()

	if _, err := tmpFile.Write(data); err != nil {
		return fmt.Errorf("failed to write temp file: %w", err)
	}
	if err := tmpFile.Sync(); err != nil {
		return fmt.Errorf("failed to fsync temp file: %w", err)
	}
	// Windows cannot rename an open file.
	if err := tmpFile.Close(); err != nil {
		return fmt.Errorf("failed to close temp file: %w", err)
	}
	if err := os.Rename(tmpPath, destPath); err != nil {
		return fmt.Errorf("failed to replace scene file: %w", err)
	}
	return nil
}

// Load reads the scene file. Each call decodes a fresh copy.
func (s *Store) Load(ctx context.Context, sceneID string) (*domain.Scene, error) {
	filePath, err := s.path(sceneID)
	if err != nil {
		return nil, err
	}

	data, err := os.ReadFile(filePath)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return nil, domain.ErrSceneNotFound
		}
		return nil, fmt.Errorf("failed to read scene file: %w", err)
	}

	var scene domain.Scene
	if err := json.Unmarshal(data, &scene); err != nil {
		return nil, fmt.Errorf("failed to unmarshal scene: %w", err)
	}
	if scene.Nodes == nil {
		scene.Nodes = make(map[domain.NodeID]*domain.Node)
	}
	return &scene, nil
}

// Delete removes the scene file. Deleting a missing scene is not an error.
func (s *Store) Delete(ctx context.Context, sceneID string) error {
	filePath, err := s.path(sceneID)
	if err != nil {
		return err
	}
	if err := os.Remove(filePath); err != nil && !errors.Is(err, os.ErrNotExist) {
		return fmt.Errorf("failed to delete scene file: %w", err)
	}
	return nil
}

// List returns the stored scene IDs in lexical order.
func (s *Store) List(ctx context.Context) ([]string, error) {
	entries, err := os.ReadDir(s.BasePath)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return []string{}, nil
		}
		return nil, fmt.Errorf("failed to list scenes: %w", err)
	}

	scenes := []string{}
	for _, entry := range entries {
		name := entry.Name()
		if entry.IsDir() || filepath.Ext(name) != ".json" || strings.HasPrefix(name, "tmp-") {
			continue
		}
		scenes = append(scenes, strings.TrimSuffix(name, ".json"))
	}
	sort.Strings(scenes)
	return scenes, nil
}
