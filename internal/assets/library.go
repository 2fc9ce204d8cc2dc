// Package assets resolves geometry references to mesh assets.
package assets

import (
	"fmt"
	"os"

	"github.com/go-gl/mathgl/mgl64"
	"gopkg.in/yaml.v3"
)

// Mesh is a resolved mesh asset. Extent is the axis-aligned size of the
// mesh bounds, used by engines that approximate meshes with boxes.
type Mesh struct {
	Name   string     `yaml:"-"`
	URI    string     `yaml:"uri"`
	Extent mgl64.Vec3 `yaml:"extent"`
}

// Resolver looks meshes up by reference.
type Resolver interface {
	Resolve(ref string) (Mesh, bool)
}

// Library is an in-memory Resolver.
type Library struct {
	meshes map[string]Mesh
}

func NewLibrary() *Library {
	return &Library{meshes: make(map[string]Mesh)}
}

// Add registers a mesh under name, replacing any previous entry.
func (l *Library) Add(name string, m Mesh) {
	m.Name = name
	l.meshes[name] = m
}

func (l *Library) Resolve(ref string) (Mesh, bool) {
	if ref == "" {
		return Mesh{}, false
	}
	m, ok := l.meshes[ref]
	return m, ok
}

func (l *Library) Len() int { return len(l.meshes) }

type libraryFile struct {
	Meshes map[string]Mesh `yaml:"meshes"`
}

// Load reads a YAML mesh library:
//
//	meshes:
//	  base_link_visual:
//	    uri: package://robot/meshes/base.dae
//	    extent: [0.5, 0.5, 0.2]
func Load(path string) (*Library, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}
	var f libraryFile
	if err := yaml.Unmarshal(data, &f); err != nil {
		return nil, fmt.Errorf("parse mesh library %s: %w", path, err)
	}
	lib := NewLibrary()
	for name, m := range f.Meshes {
		lib.Add(name, m)
	}
	return lib, nil
}

// Box returns a primitive box mesh.
func Box(size mgl64.Vec3) Mesh {
	return Mesh{
		Name:   fmt.Sprintf("box(%g,%g,%g)", size[0], size[1], size[2]),
		URI:    "primitive://box",
		Extent: size,
	}
}
