package viz

import (
	"github.com/go-gl/mathgl/mgl64"
	"github.com/san-kum/robosim/internal/physics"
	"github.com/san-kum/robosim/internal/robot"
)

// Skeleton is the body positions of a model and the joints between them,
// as index pairs into Points.
type Skeleton struct {
	Points []mgl64.Vec3
	Edges  [][2]int
}

func NewSkeleton(model *robot.Model, engine physics.Engine) Skeleton {
	var s Skeleton
	index := make(map[robot.LinkID]int, model.NumLinks())
	for _, l := range model.Links() {
		index[l.ID] = len(s.Points)
		s.Points = append(s.Points, engine.BodyPose(l.Body).Position)
	}
	for _, j := range model.Joints() {
		p, okP := index[j.Parent]
		c, okC := index[j.Child]
		if okP && okC {
			s.Edges = append(s.Edges, [2]int{p, c})
		}
	}
	return s
}
