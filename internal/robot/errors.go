package robot

import (
	"errors"
	"strings"
)

// Error kinds.
var (
	// ErrInvalidInput indicates a missing owner or description, or a
	// duplicate entity name.
	ErrInvalidInput = errors.New("robot: invalid input")

	// ErrNoCollisionGeometry indicates a link description without collisions.
	ErrNoCollisionGeometry = errors.New("robot: link has no collision geometry")

	// ErrCollisionMeshUnresolved indicates a collision sub-part whose mesh
	// asset could not be resolved.
	ErrCollisionMeshUnresolved = errors.New("robot: collision mesh unresolved")

	// ErrJointNotFound indicates a joint name absent from the model.
	ErrJointNotFound = errors.New("robot: joint not found")

	// ErrLinkNotFound indicates a link name absent from the model.
	ErrLinkNotFound = errors.New("robot: link not found")

	// ErrOwnerMissing indicates a controller with no owning model.
	ErrOwnerMissing = errors.New("robot: owning model missing")
)

// Error wraps a kind with the entities it concerns.
type Error struct {
	Kind  error
	Model string
	Link  string
	Part  string
	Joint string
}

func (e *Error) Error() string {
	var b strings.Builder
	b.WriteString(e.Kind.Error())
	for _, kv := range [][2]string{
		{"model", e.Model},
		{"link", e.Link},
		{"part", e.Part},
		{"joint", e.Joint},
	} {
		if kv[1] == "" {
			continue
		}
		b.WriteString(" ")
		b.WriteString(kv[0])
		b.WriteString("=")
		b.WriteString(kv[1])
	}
	return b.String()
}

func (e *Error) Unwrap() error {
	return e.Kind
}

// KeyVals returns the error's context as alternating keys and values.
func (e *Error) KeyVals() []any {
	var kv []any
	if e.Model != "" {
		kv = append(kv, "model", e.Model)
	}
	if e.Link != "" {
		kv = append(kv, "link", e.Link)
	}
	if e.Part != "" {
		kv = append(kv, "part", e.Part)
	}
	if e.Joint != "" {
		kv = append(kv, "joint", e.Joint)
	}
	return kv
}
