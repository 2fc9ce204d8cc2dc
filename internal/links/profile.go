package links

import "github.com/san-kum/robosim/internal/physics"

// CollisionProfile returns the response profile for a link's collision
// parts. A disabled self-collision flag always wins; otherwise links
// without visuals only overlap.
func CollisionProfile(hasVisuals, selfCollide bool) physics.Profile {
	if !selfCollide {
		return physics.ProfileNoSelfCollision
	}
	if !hasVisuals {
		return physics.ProfileOverlapOnly
	}
	return physics.ProfileSelfCollision
}

// VisualProfile is the profile of every visual part: purely cosmetic.
const VisualProfile = physics.ProfileIgnoreAll
