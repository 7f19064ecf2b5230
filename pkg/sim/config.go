package sim

import (
	"flag"
	"fmt"
	"time"

	"github.com/robotalks/trainctl/pkg/l0/feedback"
)

// Config defines the simulated layout.
type Config struct {
	// TrackLength is the length of the loop in mm.
	TrackLength float64
	// StepSpeed is the velocity (mm/s) of one speed step.
	StepSpeed float64
	// Acceleration (mm/s²) of all trains.
	Acceleration float64
	// SensorsPerGroup are spaced evenly along the track, groups A..E.
	SensorsPerGroup int
	// FeedbackDelay is the time until a poll is answered.
	FeedbackDelay time.Duration
	// SolenoidLimit is the longest a solenoid may stay energized.
	SolenoidLimit time.Duration
	// FeedbackBuffer is the capacity of the feedback ring.
	FeedbackBuffer int
}

// Defaults
const (
	DefaultTrackLength     float64 = 12000
	DefaultStepSpeed       float64 = 40
	DefaultAcceleration    float64 = 160
	DefaultSensorsPerGroup int     = 4
)

var defaultConfig = Config{
	TrackLength:     DefaultTrackLength,
	StepSpeed:       DefaultStepSpeed,
	Acceleration:    DefaultAcceleration,
	SensorsPerGroup: DefaultSensorsPerGroup,
	FeedbackDelay:   20 * time.Millisecond,
	SolenoidLimit:   500 * time.Millisecond,
	FeedbackBuffer:  64,
}

// SetupFlags sets command line flags.
func SetupFlags() {
	flag.Float64Var(&defaultConfig.TrackLength, "track-length", defaultConfig.TrackLength, "Length (mm) of the simulated track loop.")
	flag.Float64Var(&defaultConfig.StepSpeed, "step-speed", defaultConfig.StepSpeed, "Velocity (mm/s) of one speed step.")
	flag.Float64Var(&defaultConfig.Acceleration, "accel", defaultConfig.Acceleration, "Acceleration (mm/s²) of trains, 0 means instant.")
	flag.IntVar(&defaultConfig.SensorsPerGroup, "sensors", defaultConfig.SensorsPerGroup, "Sensors per group along the track.")
	flag.DurationVar(&defaultConfig.FeedbackDelay, "feedback-delay", defaultConfig.FeedbackDelay, "Delay before a feedback poll is answered.")
	flag.DurationVar(&defaultConfig.SolenoidLimit, "solenoid-limit", defaultConfig.SolenoidLimit, "Longest time a solenoid may stay energized.")
}

// Default gets default config.
func Default() *Config {
	return &defaultConfig
}

// NewConfig creates the default configuration.
func NewConfig() *Config {
	conf := defaultConfig
	return &conf
}

// Validate checks the configuration.
func (c *Config) Validate() error {
	if c.TrackLength <= 0 {
		return fmt.Errorf("track length must be positive")
	}
	if c.StepSpeed < 0 || c.Acceleration < 0 {
		return fmt.Errorf("step speed and acceleration must not be negative")
	}
	if c.SensorsPerGroup < 0 || c.SensorsPerGroup > 16 {
		return fmt.Errorf("sensors per group must be within 0..16")
	}
	if c.FeedbackBuffer < feedback.CycleLength+1 {
		return fmt.Errorf("feedback buffer must hold a whole cycle")
	}
	return nil
}

// NewLayout creates the Layout.
func (c *Config) NewLayout() (*Layout, error) {
	if err := c.Validate(); err != nil {
		return nil, err
	}
	return NewLayout(c), nil
}
