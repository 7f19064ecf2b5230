package see

import (
	"flag"
	"io"
)

// Config represents configuration for see.
type Config struct {
	// Output is the file receiving the visualization stream,
	// empty disables it.
	Output string
	// TrainRadius is the radius (mm) a train is drawn with.
	TrainRadius float64
}

var defaultConfig = Config{
	TrainRadius: 120,
}

// SetupFlags sets command line flags.
func SetupFlags() {
	flag.StringVar(&defaultConfig.Output, "see-out", defaultConfig.Output, "File (or fifo) receiving the visualization stream.")
	flag.Float64Var(&defaultConfig.TrainRadius, "see-train-radius", defaultConfig.TrainRadius, "Radius (mm) of a train in the visualization.")
}

// Default gets default config.
func Default() *Config {
	return &defaultConfig
}

// NewConfig creates a default config.
func NewConfig() *Config {
	conf := defaultConfig
	return &conf
}

// NewAdapter creates adapter from config.
func (c *Config) NewAdapter(out io.Writer) *Adapter {
	return NewAdapter(c, out)
}
