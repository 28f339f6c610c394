package codec

// Document is the on-disk form of a scene.
type Document struct {
	Scene   string   `mapstructure:"scene" yaml:"scene,omitempty" json:"scene,omitempty"`
	Objects []Object `mapstructure:"objects" yaml:"objects" json:"objects"`
}

// Object is one node of the document tree.
type Object struct {
	Name        string            `mapstructure:"name" yaml:"name" json:"name"`
	ID          string            `mapstructure:"id" yaml:"id,omitempty" json:"id,omitempty"`
	Components  []string          `mapstructure:"components" yaml:"components,omitempty" json:"components,omitempty"`
	Humanoid    map[string]string `mapstructure:"humanoid" yaml:"humanoid,omitempty" json:"humanoid,omitempty"`
	Transform   *Transform        `mapstructure:"transform" yaml:"transform,omitempty" json:"transform,omitempty"`
	Constraints []Constraint      `mapstructure:"constraints" yaml:"constraints,omitempty" json:"constraints,omitempty"`
	Children    []Object          `mapstructure:"children" yaml:"children,omitempty" json:"children,omitempty"`
}

// Transform holds position (x,y,z), rotation quaternion (x,y,z,w) and scale.
type Transform struct {
	Position []float64 `mapstructure:"position" yaml:"position,omitempty,flow" json:"position,omitempty"`
	Rotation []float64 `mapstructure:"rotation" yaml:"rotation,omitempty,flow" json:"rotation,omitempty"`
	Scale    []float64 `mapstructure:"scale" yaml:"scale,omitempty,flow" json:"scale,omitempty"`
}

// Constraint is an attached constraint component.
type Constraint struct {
	Type    string   `mapstructure:"type" yaml:"type,omitempty" json:"type,omitempty"`
	Kind    string   `mapstructure:"kind" yaml:"kind,omitempty" json:"kind,omitempty"`
	Sources []Source `mapstructure:"sources" yaml:"sources" json:"sources"`
	Active  *bool    `mapstructure:"active" yaml:"active,omitempty" json:"active,omitempty"`
}

// Source is one weighted constraint source.
type Source struct {
	Node   string   `mapstructure:"node" yaml:"node" json:"node"`
	Weight *float64 `mapstructure:"weight" yaml:"weight,omitempty" json:"weight,omitempty"`
}
