package game

const (
	// TickRate is the number of simulation ticks per second.
	TickRate = 50

	TileSize     = float32(32)
	PhysicalSize = float32(28)
	// HalfPhysicalSize is half the side of the square character body.
	HalfPhysicalSize = PhysicalSize / 2

	// GroundCheckDepth is how far below the body the ground check looks.
	GroundCheckDepth = float32(5)
	// HookSpawnFactor scales the physical size to get the distance the hook head spawns at.
	HookSpawnFactor = float32(1.5)
	// HookDragMinDistance is the distance to the anchor under which a grabbed hook stops pulling.
	HookDragMinDistance = float32(46)

	// VelocityScale is the inverse of the velocity quantization step.
	VelocityScale = float32(256)

	// JumpSwitchUnlimited is the jump switch delay value that grants unlimited jumps.
	JumpSwitchUnlimited = 255

	// InputStateMask is the wrap-around mask of the toggle counters in an input frame.
	InputStateMask = 0x3f
)
