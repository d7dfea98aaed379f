package physics

// TuningParams holds the movement constants of a map. They are passed to every tick explicitly and
// never change while a core is simulated.
type TuningParams struct {
	GroundControlSpeed float32 `toml:"ground_control_speed" mapstructure:"ground_control_speed"`
	GroundControlAccel float32 `toml:"ground_control_accel" mapstructure:"ground_control_accel"`
	GroundFriction     float32 `toml:"ground_friction" mapstructure:"ground_friction"`
	GroundJumpImpulse  float32 `toml:"ground_jump_impulse" mapstructure:"ground_jump_impulse"`
	AirJumpImpulse     float32 `toml:"air_jump_impulse" mapstructure:"air_jump_impulse"`
	AirControlSpeed    float32 `toml:"air_control_speed" mapstructure:"air_control_speed"`
	AirControlAccel    float32 `toml:"air_control_accel" mapstructure:"air_control_accel"`
	AirFriction        float32 `toml:"air_friction" mapstructure:"air_friction"`
	Gravity            float32 `toml:"gravity" mapstructure:"gravity"`

	HookLength    float32 `toml:"hook_length" mapstructure:"hook_length"`
	HookFireSpeed float32 `toml:"hook_fire_speed" mapstructure:"hook_fire_speed"`
	HookDragAccel float32 `toml:"hook_drag_accel" mapstructure:"hook_drag_accel"`
	HookDragSpeed float32 `toml:"hook_drag_speed" mapstructure:"hook_drag_speed"`
	// HookDuration is the number of ticks a grabbed hook holds before it retracts.
	HookDuration int32 `toml:"hook_duration" mapstructure:"hook_duration"`
	// HookRetractTicks is the number of ticks a retracted hook needs before it is idle again.
	HookRetractTicks int32 `toml:"hook_retract_ticks" mapstructure:"hook_retract_ticks"`

	VelrampStart     float32 `toml:"velramp_start" mapstructure:"velramp_start"`
	VelrampRange     float32 `toml:"velramp_range" mapstructure:"velramp_range"`
	VelrampCurvature float32 `toml:"velramp_curvature" mapstructure:"velramp_curvature"`
	MaxVelocity      float32 `toml:"max_velocity" mapstructure:"max_velocity"`

	FreezeSeconds int32 `toml:"freeze_seconds" mapstructure:"freeze_seconds"`
	DefaultJumps  int32 `toml:"default_jumps" mapstructure:"default_jumps"`
}

// DefaultTuning returns the stock tuning at 50 ticks per second.
func DefaultTuning() TuningParams {
	return TuningParams{
		GroundControlSpeed: 10,
		GroundControlAccel: 2,
		GroundFriction:     0.5,
		GroundJumpImpulse:  13.2,
		AirJumpImpulse:     12,
		AirControlSpeed:    5,
		AirControlAccel:    1.5,
		AirFriction:        0.95,
		Gravity:            0.5,

		HookLength:       380,
		HookFireSpeed:    80,
		HookDragAccel:    3,
		HookDragSpeed:    15,
		HookDuration:     60,
		HookRetractTicks: 3,

		VelrampStart:     550,
		VelrampRange:     2000,
		VelrampCurvature: 1.4,
		MaxVelocity:      6000,

		FreezeSeconds: 3,
		DefaultJumps:  2,
	}
}
