package physics

// Solver iteration counts used for collision sub-parts. Lower values let
// long constraint chains sag.
const (
	PositionIterations = 20
	VelocityIterations = 8
)

type (
	BodyID  int
	PartID  int
	JointID int
)

const (
	InvalidBody  BodyID  = -1
	InvalidPart  PartID  = -1
	InvalidJoint JointID = -1
)

// DriveParams configures a joint motor.
type DriveParams struct {
	PositionGain  float64 `yaml:"position_gain"`
	VelocityGain  float64 `yaml:"velocity_gain"`
	MaxForce      float64 `yaml:"max_force"`
	PositionDrive bool    `yaml:"position_drive"`
	VelocityDrive bool    `yaml:"velocity_drive"`
}

func DefaultDrive() DriveParams {
	return DriveParams{
		PositionGain:  1e5,
		VelocityGain:  1e4,
		MaxForce:      1e10,
		PositionDrive: true,
		VelocityDrive: true,
	}
}

// JointState is a commanded joint target.
type JointState struct {
	Position float64 `yaml:"position"`
	Velocity float64 `yaml:"velocity"`
}

type PartKind int

const (
	VisualPart PartKind = iota
	CollisionPart
)

func (k PartKind) String() string {
	switch k {
	case VisualPart:
		return "visual"
	case CollisionPart:
		return "collision"
	default:
		return "unknown"
	}
}

// Channel is the collision object type a part is placed on. Every robot
// sub-part, visual or collision, goes on ChannelRobot.
type Channel int

const (
	ChannelDefault Channel = iota
	ChannelRobot
)

func (c Channel) String() string {
	switch c {
	case ChannelRobot:
		return "robot"
	default:
		return "default"
	}
}

type CollisionEnabled int

const (
	NoCollision CollisionEnabled = iota
	QueryOnly
	QueryAndPhysics
)

func (c CollisionEnabled) String() string {
	switch c {
	case QueryOnly:
		return "query_only"
	case QueryAndPhysics:
		return "query_and_physics"
	default:
		return "no_collision"
	}
}

// Profile is a named collision response configuration.
type Profile int

const (
	ProfileNone Profile = iota
	// ProfileIgnoreAll never collides or overlaps.
	ProfileIgnoreAll
	// ProfileOverlapOnly reports overlaps on every channel without blocking.
	ProfileOverlapOnly
	// ProfileSelfCollision blocks everything, the robot's own parts included.
	ProfileSelfCollision
	// ProfileNoSelfCollision blocks everything except the robot's own parts.
	ProfileNoSelfCollision
)

func (p Profile) String() string {
	switch p {
	case ProfileIgnoreAll:
		return "ignore_all"
	case ProfileOverlapOnly:
		return "overlap_only"
	case ProfileSelfCollision:
		return "robot_with_self_collision"
	case ProfileNoSelfCollision:
		return "robot_no_self_collision"
	default:
		return "none"
	}
}
