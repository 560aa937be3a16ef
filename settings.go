package kinematic

import "fmt"

// Settings tunes a controller. Angles are in degrees, distances in meters.
type Settings struct {
	MoveSpeed              float64 `yaml:"move_speed" env:"MOVE_SPEED"`
	GroundMoveAcceleration float64 `yaml:"ground_move_acceleration" env:"GROUND_MOVE_ACCELERATION"`
	// RotationSpeed is the turn rate in degrees per second
	RotationSpeed float64 `yaml:"rotation_speed" env:"ROTATION_SPEED"`
	Gravity       float64 `yaml:"gravity" env:"GRAVITY"`

	SlopeAngleLimit             float64 `yaml:"slope_angle_limit" env:"SLOPE_ANGLE_LIMIT"`
	GroundSnapDistance          float64 `yaml:"ground_snap_distance" env:"GROUND_SNAP_DISTANCE"`
	CollisionResolutionDistance float64 `yaml:"collision_resolution_distance" env:"COLLISION_RESOLUTION_DISTANCE"`

	MaxSpeculativeSteps int `yaml:"max_speculative_steps" env:"MAX_SPECULATIVE_STEPS"`
	MaxResolutionSteps  int `yaml:"max_resolution_steps" env:"MAX_RESOLUTION_STEPS"`
	OverlapBufferSize   int `yaml:"overlap_buffer_size" env:"OVERLAP_BUFFER_SIZE"`

	JumpSpeed float64 `yaml:"jump_speed" env:"JUMP_SPEED"`
	// SteepTakeoffDamping is the share of upward speed removed when the
	// ground under the agent becomes too steep: 1 cancels it, 0 keeps it.
	SteepTakeoffDamping float64 `yaml:"steep_takeoff_damping" env:"STEEP_TAKEOFF_DAMPING"`
}

func DefaultSettings() Settings {
	return Settings{
		MoveSpeed:                   5,
		GroundMoveAcceleration:      15,
		RotationSpeed:               10,
		Gravity:                     9.8,
		SlopeAngleLimit:             45,
		GroundSnapDistance:          0.1,
		CollisionResolutionDistance: 0.05,
		MaxSpeculativeSteps:         15,
		MaxResolutionSteps:          10,
		OverlapBufferSize:           15,
		JumpSpeed:                   5,
		SteepTakeoffDamping:         1,
	}
}

// Validate reports the first out of range setting
func (s Settings) Validate() error {
	switch {
	case !(s.MoveSpeed >= 0):
		return fmt.Errorf("%w: move speed %v must not be negative", ErrInvalidSettings, s.MoveSpeed)
	case !(s.GroundMoveAcceleration > 0):
		return fmt.Errorf("%w: ground move acceleration %v must be positive", ErrInvalidSettings, s.GroundMoveAcceleration)
	case !(s.RotationSpeed > 0):
		return fmt.Errorf("%w: rotation speed %v must be positive", ErrInvalidSettings, s.RotationSpeed)
	case !(s.Gravity >= 0):
		return fmt.Errorf("%w: gravity %v must not be negative", ErrInvalidSettings, s.Gravity)
	case !(s.SlopeAngleLimit >= 0 && s.SlopeAngleLimit <= 90):
		return fmt.Errorf("%w: slope angle limit %v is outside [0, 90]", ErrInvalidSettings, s.SlopeAngleLimit)
	case !(s.GroundSnapDistance > 0):
		return fmt.Errorf("%w: ground snap distance %v must be positive", ErrInvalidSettings, s.GroundSnapDistance)
	case !(s.CollisionResolutionDistance >= 0 && s.CollisionResolutionDistance < s.GroundSnapDistance):
		return fmt.Errorf("%w: collision resolution distance %v is outside [0, %v)", ErrInvalidSettings, s.CollisionResolutionDistance, s.GroundSnapDistance)
	case s.MaxSpeculativeSteps < 1:
		return fmt.Errorf("%w: max speculative steps %d must be at least 1", ErrInvalidSettings, s.MaxSpeculativeSteps)
	case s.MaxResolutionSteps < 1:
		return fmt.Errorf("%w: max resolution steps %d must be at least 1", ErrInvalidSettings, s.MaxResolutionSteps)
	case s.OverlapBufferSize < 1:
		return fmt.Errorf("%w: overlap buffer size %d must be at least 1", ErrInvalidSettings, s.OverlapBufferSize)
	case !(s.JumpSpeed >= 0):
		return fmt.Errorf("%w: jump speed %v must not be negative", ErrInvalidSettings, s.JumpSpeed)
	case !(s.SteepTakeoffDamping >= 0 && s.SteepTakeoffDamping <= 1):
		return fmt.Errorf("%w: steep takeoff damping %v is outside [0, 1]", ErrInvalidSettings, s.SteepTakeoffDamping)
	}

	return nil
}
