package codec

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/natsuneko-laboratory/constraint-by-humanoid/pkg/domain"
	"gopkg.in/yaml.v3"
)

// Format selects the document encoding.
type Format string

const (
	FormatYAML Format = "yaml"
	FormatJSON Format = "json"
)

// FormatFromPath picks the format from a file extension, defaulting to YAML.
func FormatFromPath(path string) Format {
	if strings.EqualFold(filepath.Ext(path), ".json") {
		return FormatJSON
	}
	return FormatYAML
}

// ParseFormat resolves a format name. An empty name is YAML.
func ParseFormat(name string) (Format, error) {
	switch strings.ToLower(name) {
	case "", "yaml", "yml":
		return FormatYAML, nil
	case "json":
		return FormatJSON, nil
	}
	return "", fmt.Errorf("unknown format %q", name)
}

// Encode writes scene as a document in the given format.
func Encode(scene *domain.Scene, format Format) ([]byte, error) {
	doc := FromScene(scene)
	switch format {
	case FormatJSON:
		return json.MarshalIndent(doc, "", "  ")
	case FormatYAML, "":
		return yaml.Marshal(doc)
	}
	return nil, fmt.Errorf("unknown format %q", format)
}

// EncodeFile writes scene to path, choosing the format from the extension.
func EncodeFile(path string, scene *domain.Scene) error {
	data, err := Encode(scene, FormatFromPath(path))
	if err != nil {
		return err
	}
	if err := os.WriteFile(path, data, 0o644); err != nil {
		return fmt.Errorf("failed to write scene %s: %w", path, err)
	}
	return nil
}

// FromScene converts a domain scene into its document form.
// IDs equal to the default slash path are omitted.
func FromScene(scene *domain.Scene) *Document {
	doc := &Document{Scene: scene.ID, Objects: []Object{}}
	for _, root := range scene.Roots {
		if obj, ok := objectFrom(scene, root, ""); ok {
			doc.Objects = append(doc.Objects, obj)
		}
	}
	return doc
}

func objectFrom(scene *domain.Scene, id domain.NodeID, parentPath string) (Object, bool) {
	n, ok := scene.Node(id)
	if !ok {
		return Object{}, false
	}
	path := n.Name
	if parentPath != "" {
		path = parentPath + "/" + n.Name
	}

	obj := Object{
		Name:       n.Name,
		Components: append([]string(nil), n.Components...),
	}
	if string(n.ID) != path {
		obj.ID = string(n.ID)
	}
	if n.Animator != nil && !n.HasComponent(domain.ComponentAnimator) {
		obj.Components = append(obj.Components, domain.ComponentAnimator)
	}
	if n.Animator != nil && len(n.Animator.Humanoid) > 0 {
		obj.Humanoid = make(map[string]string, len(n.Animator.Humanoid))
		for role, target := range n.Animator.Humanoid {
			obj.Humanoid[role.String()] = string(target)
		}
	}
	if n.Transform != domain.IdentityTransform() {
		obj.Transform = &Transform{
			Position: append([]float64(nil), n.Transform.Position[:]...),
			Rotation: append([]float64(nil), n.Transform.Rotation[:]...),
			Scale:    append([]float64(nil), n.Transform.Scale[:]...),
		}
	}
	for _, c := range n.Constraints {
		active := c.Active
		dto := Constraint{Type: c.Type, Kind: c.Kind.String(), Active: &active}
		for _, s := range c.Sources {
			weight := s.Weight
			dto.Sources = append(dto.Sources, Source{Node: string(s.Node), Weight: &weight})
		}
		obj.Constraints = append(obj.Constraints, dto)
	}
	for _, child := range n.Children {
		if c, ok := objectFrom(scene, child, path); ok {
			obj.Children = append(obj.Children, c)
		}
	}
	return obj, true
}
