package description

import (
	"errors"
	"fmt"
	"os"

	"github.com/go-gl/mathgl/mgl64"
	"gopkg.in/yaml.v3"
)

var ErrInvalidDescription = errors.New("description: invalid model description")

// UnmarshalYAML applies the defaults a link has when a field is omitted:
// gravity on, self collision off.
func (l *Link) UnmarshalYAML(value *yaml.Node) error {
	type plain Link
	p := plain{Gravity: true}
	if err := value.Decode(&p); err != nil {
		return err
	}
	*l = Link(p)
	return nil
}

// UnmarshalYAML defaults revolute joints about Z.
func (j *Joint) UnmarshalYAML(value *yaml.Node) error {
	type plain Joint
	p := plain{Type: "revolute", Axis: mgl64.Vec3{0, 0, 1}}
	if err := value.Decode(&p); err != nil {
		return err
	}
	*j = Joint(p)
	return nil
}

func Parse(data []byte) (*Model, error) {
	var m Model
	if err := yaml.Unmarshal(data, &m); err != nil {
		return nil, err
	}
	if err := m.Validate(); err != nil {
		return nil, err
	}
	return &m, nil
}

func Load(path string) (*Model, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}
	m, err := Parse(data)
	if err != nil {
		return nil, fmt.Errorf("load %s: %w", path, err)
	}
	return m, nil
}

// Validate checks structural problems only. Missing collision geometry is
// not an error here; the link factory reports it per link.
func (m *Model) Validate() error {
	if m.Name == "" {
		return fmt.Errorf("%w: model has no name", ErrInvalidDescription)
	}
	seen := make(map[string]bool, len(m.Links))
	for i, l := range m.Links {
		if l.Name == "" {
			return fmt.Errorf("%w: link %d has no name", ErrInvalidDescription, i)
		}
		if seen[l.Name] {
			return fmt.Errorf("%w: duplicate link %q", ErrInvalidDescription, l.Name)
		}
		seen[l.Name] = true
	}
	joints := make(map[string]bool, len(m.Joints))
	for i, j := range m.Joints {
		if j.Name == "" {
			return fmt.Errorf("%w: joint %d has no name", ErrInvalidDescription, i)
		}
		if joints[j.Name] {
			return fmt.Errorf("%w: duplicate joint %q", ErrInvalidDescription, j.Name)
		}
		joints[j.Name] = true
	}
	return nil
}

// Link returns the description of the named link.
func (m *Model) Link(name string) (*Link, bool) {
	for i := range m.Links {
		if m.Links[i].Name == name {
			return &m.Links[i], true
		}
	}
	return nil, false
}
