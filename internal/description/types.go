// Package description holds the declarative robot description the link
// builder and model assembler consume. Descriptions are read-only once
// loaded.
package description

import (
	"github.com/go-gl/mathgl/mgl64"
	"github.com/san-kum/robosim/internal/rmath"
)

// ModelFrame names the model's own frame in PoseRelativeTo.
const ModelFrame = "__model__"

type Pose struct {
	XYZ [3]float64 `yaml:"xyz"`
	RPY [3]float64 `yaml:"rpy"`
}

func (p Pose) Transform() rmath.Pose {
	return rmath.FromXYZRPY(p.XYZ, p.RPY)
}

// Geometry references a mesh asset by name, or carries a box primitive.
type Geometry struct {
	Mesh string      `yaml:"mesh,omitempty"`
	Box  *mgl64.Vec3 `yaml:"box,omitempty"`
}

type Visual struct {
	Name     string   `yaml:"name"`
	Pose     Pose     `yaml:"pose"`
	Geometry Geometry `yaml:"geometry"`
}

type Collision struct {
	Name     string   `yaml:"name"`
	Pose     Pose     `yaml:"pose"`
	Geometry Geometry `yaml:"geometry"`
}

type Inertial struct {
	Mass float64 `yaml:"mass"`
}

type Link struct {
	Name           string      `yaml:"name"`
	PoseRelativeTo string      `yaml:"pose_relative_to"`
	Pose           Pose        `yaml:"pose"`
	SelfCollide    bool        `yaml:"self_collide"`
	Gravity        bool        `yaml:"gravity"`
	Inertial       *Inertial   `yaml:"inertial,omitempty"`
	Visuals        []Visual    `yaml:"visuals"`
	Collisions     []Collision `yaml:"collisions"`
}

type Joint struct {
	Name   string     `yaml:"name"`
	Type   string     `yaml:"type"`
	Parent string     `yaml:"parent"`
	Child  string     `yaml:"child"`
	Pose   Pose       `yaml:"pose"`
	Axis   mgl64.Vec3 `yaml:"axis"`
}

type Model struct {
	Name   string  `yaml:"name"`
	Links  []Link  `yaml:"links"`
	Joints []Joint `yaml:"joints"`
}
