// Package physics defines the contract between the robot core and the
// physics/rendering engine that owns bodies, sub-parts and joint motors.
//
// The core never reaches the engine through globals. Builders and
// controllers receive an [Engine] handle and address engine resources by
// opaque IDs:
//
//   - [BodyID]: a link's consolidated rigid body
//   - [PartID]: a visual or collision sub-part attached to a body
//   - [JointID]: a motorized constraint between two bodies
//
// [Memory] is a headless engine that records every call. The chipmunk
// subpackage provides a planar engine on top of a real solver.
//
// All operations are synchronous: a mutation is visible to the next read.
package physics
