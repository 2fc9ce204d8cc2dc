// Package robot holds the entities of an articulated robot model.
//
// A [Model] owns its links and joints in an arena: every entity gets a
// stable [LinkID] or [JointID] when added and lives as long as the model.
// Entities refer to each other by ID, never by pointer:
//
//   - [Link]: a rigid body with ordered visual and collision sub-parts
//   - [Joint]: a motorized constraint whose child link it actuates
//
// Lookups return (entity, ok) so callers handle absence explicitly.
//
// Failures are reported through a [Reporter] as [*Error] values wrapping
// one of the sentinel kinds (ErrInvalidInput, ErrJointNotFound, ...).
// None of them are fatal.
package robot
