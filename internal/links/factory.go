// Package links turns link descriptions into physically simulated links.
package links

import (
	"github.com/charmbracelet/log"
	"github.com/go-gl/mathgl/mgl64"
	"github.com/san-kum/robosim/internal/assets"
	"github.com/san-kum/robosim/internal/description"
	"github.com/san-kum/robosim/internal/physics"
	"github.com/san-kum/robosim/internal/robot"
)

type Option func(*options)

type options struct {
	origin mgl64.Vec3
}

// WithOrigin sets the world offset of a standalone model's spawn point.
func WithOrigin(origin mgl64.Vec3) Option {
	return func(o *options) { o.origin = origin }
}

// Factory validates link descriptions and hands buildable ones to a fresh
// Builder.
type Factory struct {
	engine   physics.Engine
	resolver assets.Resolver
	reporter robot.Reporter
	log      *log.Logger
}

func NewFactory(engine physics.Engine, resolver assets.Resolver, reporter robot.Reporter) *Factory {
	if reporter == nil {
		reporter = robot.Discard
	}
	return &Factory{
		engine:   engine,
		resolver: resolver,
		reporter: reporter,
		log:      log.WithPrefix("links"),
	}
}

func (f *Factory) WithLogger(l *log.Logger) *Factory {
	f.log = l.WithPrefix("links")
	return f
}

// CreateLink builds one link of owner. It fails with ErrInvalidInput when
// owner or desc is nil and with ErrNoCollisionGeometry when desc has no
// collisions; neither failure touches the engine or the model.
func (f *Factory) CreateLink(owner *robot.Model, desc *description.Link, opts ...Option) (*robot.Link, error) {
	if owner == nil || desc == nil || f.engine == nil {
		err := &robot.Error{Kind: robot.ErrInvalidInput}
		if owner != nil {
			err.Model = owner.Name
		}
		if desc != nil {
			err.Link = desc.Name
		}
		f.reporter.Report(err)
		return nil, err
	}

	if len(desc.Collisions) == 0 {
		err := &robot.Error{Kind: robot.ErrNoCollisionGeometry, Model: owner.Name, Link: desc.Name}
		f.reporter.Report(err)
		return nil, err
	}

	var o options
	for _, opt := range opts {
		opt(&o)
	}

	b := &Builder{
		engine:   f.engine,
		resolver: f.resolver,
		reporter: f.reporter,
		log:      f.log,
		model:    owner,
		desc:     desc,
		origin:   o.origin,
	}
	return b.Build()
}
