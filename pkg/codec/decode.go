package codec

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/mitchellh/mapstructure"
	"github.com/natsuneko-laboratory/constraint-by-humanoid/pkg/domain"
	"gopkg.in/yaml.v3"
)

// Decode parses a YAML or JSON scene document.
func Decode(data []byte) (*domain.Scene, error) {
	doc, err := DecodeDocument(data)
	if err != nil {
		return nil, err
	}
	return doc.ToScene()
}

// DecodeFile reads and parses the scene document at path.
// The scene ID defaults to the file name without extension.
func DecodeFile(path string) (*domain.Scene, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read scene %s: %w", path, err)
	}
	doc, err := DecodeDocument(data)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", path, err)
	}
	if doc.Scene == "" {
		doc.Scene = strings.TrimSuffix(filepath.Base(path), filepath.Ext(path))
	}
	return doc.ToScene()
}

// DecodeDocument parses data into the document DTO without building the scene.
func DecodeDocument(data []byte) (*Document, error) {
	var raw map[string]any
	if err := yaml.Unmarshal(data, &raw); err != nil {
		return nil, fmt.Errorf("%w: %w", domain.ErrInvalidScene, err)
	}
	return DecodeMap(raw)
}

// DecodeMap converts an already-parsed document (e.g. a JSON request body or
// loam front matter) into the document DTO. Unknown keys are rejected.
func DecodeMap(raw map[string]any) (*Document, error) {
	var doc Document
	decoder, err := mapstructure.NewDecoder(&mapstructure.DecoderConfig{
		Result:           &doc,
		TagName:          "mapstructure",
		ErrorUnused:      true,
		WeaklyTypedInput: true,
	})
	if err != nil {
		return nil, err
	}
	if err := decoder.Decode(raw); err != nil {
		return nil, fmt.Errorf("%w: %w", domain.ErrInvalidScene, err)
	}
	return &doc, nil
}

// ToScene builds the domain scene described by the document.
func (d *Document) ToScene() (*domain.Scene, error) {
	scene := domain.NewScene(d.Scene)
	b := &sceneBuilder{scene: scene, byPath: make(map[string]domain.NodeID)}

	for i := range d.Objects {
		if err := b.addObject("", "", &d.Objects[i]); err != nil {
			return nil, err
		}
	}
	for _, p := range b.pending {
		if err := b.link(p); err != nil {
			return nil, err
		}
	}
	return scene, nil
}

type pendingObject struct {
	id   domain.NodeID
	path string
	obj  *Object
}

type sceneBuilder struct {
	scene   *domain.Scene
	byPath  map[string]domain.NodeID
	pending []pendingObject
}

func (b *sceneBuilder) addObject(parent domain.NodeID, parentPath string, obj *Object) error {
	if obj.Name == "" {
		return fmt.Errorf("%w: object under %q has no name", domain.ErrInvalidScene, parentPath)
	}

	path := obj.Name
	if parentPath != "" {
		path = parentPath + "/" + obj.Name
	}
	id := domain.NodeID(obj.ID)
	if id == "" {
		id = domain.NodeID(path)
	}

	transform, err := obj.Transform.toDomain()
	if err != nil {
		return fmt.Errorf("%w: object %q: %w", domain.ErrInvalidScene, path, err)
	}

	node := domain.Node{
		ID:         id,
		Name:       obj.Name,
		Transform:  transform,
		Components: append([]string(nil), obj.Components...),
	}
	if node.HasAnimator() || len(obj.Humanoid) > 0 {
		node.Animator = &domain.Animator{}
	}
	if _, err := b.scene.Add(parent, node); err != nil {
		return err
	}
	if _, dup := b.byPath[path]; !dup {
		b.byPath[path] = id
	}
	b.pending = append(b.pending, pendingObject{id: id, path: path, obj: obj})

	for i := range obj.Children {
		if err := b.addObject(id, path, &obj.Children[i]); err != nil {
			return err
		}
	}
	return nil
}

// link resolves humanoid and constraint references once every node exists.
func (b *sceneBuilder) link(p pendingObject) error {
	n, _ := b.scene.Node(p.id)

	if len(p.obj.Humanoid) > 0 {
		n.Animator.Humanoid = make(map[domain.BoneRole]domain.NodeID, len(p.obj.Humanoid))
		for name, ref := range p.obj.Humanoid {
			role, err := domain.ParseBoneRole(name)
			if err != nil {
				return fmt.Errorf("%w: object %q: %w", domain.ErrInvalidScene, p.path, err)
			}
			target, err := b.resolve(p.path, ref)
			if err != nil {
				return err
			}
			n.Animator.Humanoid[role] = target
		}
	}

	for _, c := range p.obj.Constraints {
		constraint, err := b.constraint(p.path, c)
		if err != nil {
			return err
		}
		n.Constraints = append(n.Constraints, constraint)
	}
	return nil
}

func (b *sceneBuilder) constraint(owner string, c Constraint) (domain.Constraint, error) {
	if c.Type == "" && c.Kind == "" {
		return domain.Constraint{}, fmt.Errorf("%w: object %q: constraint needs a type or kind", domain.ErrInvalidScene, owner)
	}

	kindName := c.Kind
	if kindName == "" {
		kindName = strings.TrimPrefix(c.Type, "VRC")
	}
	kind, err := domain.ParseConstraintKind(kindName)
	if err != nil {
		return domain.Constraint{}, fmt.Errorf("%w: object %q: %w", domain.ErrInvalidScene, owner, err)
	}

	// A kind without a type stays untyped so every family treats it as its own.
	out := domain.Constraint{
		Type:   c.Type,
		Kind:   kind,
		Active: c.Active == nil || *c.Active,
	}
	for _, s := range c.Sources {
		node, err := b.resolve(owner, s.Node)
		if err != nil {
			return domain.Constraint{}, err
		}
		weight := domain.DefaultWeight
		if s.Weight != nil {
			weight = *s.Weight
		}
		out.Sources = append(out.Sources, domain.ConstraintSource{Node: node, Weight: weight})
	}
	return out, nil
}

// resolve finds a node by ID, by absolute path, or by path relative to owner.
func (b *sceneBuilder) resolve(owner, ref string) (domain.NodeID, error) {
	if _, ok := b.scene.Node(domain.NodeID(ref)); ok {
		return domain.NodeID(ref), nil
	}
	if id, ok := b.byPath[ref]; ok {
		return id, nil
	}
	if id, ok := b.byPath[owner+"/"+ref]; ok {
		return id, nil
	}
	return "", fmt.Errorf("%w: object %q references %q: %w", domain.ErrInvalidScene, owner, ref, domain.ErrNodeNotFound)
}

func (t *Transform) toDomain() (domain.Transform, error) {
	out := domain.IdentityTransform()
	if t == nil {
		return out, nil
	}
	if err := copyVector(out.Position[:], t.Position, "position"); err != nil {
		return out, err
	}
	if err := copyVector(out.Rotation[:], t.Rotation, "rotation"); err != nil {
		return out, err
	}
	if err := copyVector(out.Scale[:], t.Scale, "scale"); err != nil {
		return out, err
	}
	return out, nil
}

func copyVector(dst, src []float64, field string) error {
	if src == nil {
		return nil
	}
	if len(src) != len(dst) {
		return fmt.Errorf("%s needs %d components, got %d", field, len(dst), len(src))
	}
	copy(dst, src)
	return nil
}
