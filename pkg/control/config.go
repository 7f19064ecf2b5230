package control

import (
	"flag"
	"fmt"
	"io/ioutil"
	"os"
	"time"

	"gopkg.in/yaml.v3"

	fx "github.com/robotalks/trainctl/pkg/framework"
	"github.com/robotalks/trainctl/pkg/l0/comm"
	"github.com/robotalks/trainctl/pkg/l0/trainbus"
)

// RedrawInterval is the ticks between two frames. The uptime clock
// advances one tenth per frame so this is fixed.
const RedrawInterval uint32 = 100000

// RedrawWrapFallback is the last interval boundary before the tick
// counter wraps.
const RedrawWrapFallback uint32 = 0xffffffff / RedrawInterval * RedrawInterval

// DecelerationSteps is the size of the deceleration table, one per
// speed magnitude. Entry 0 is the settle time after the toggle.
const DecelerationSteps = 16

// BufferConfig sizes the rings of the three channels.
type BufferConfig struct {
	ConsoleIn  int `yaml:"console_in"`
	ConsoleOut int `yaml:"console_out"`
	// ConsoleTx is the transmit ring of a console port, sized like a
	// UART FIFO. Frames wait in ConsoleOut where a newer frame replaces
	// them, not in the port.
	ConsoleTx  int `yaml:"console_tx"`
	TrainOut   int `yaml:"train_out"`
	FeedbackIn int `yaml:"feedback_in"`
}

// Config defines the configurations for the controller.
type Config struct {
	Title           string          `yaml:"title"`
	PaceInterval    time.Duration   `yaml:"pace_interval"`
	PaceBurst       int             `yaml:"pace_burst"`
	SwitchHold      time.Duration   `yaml:"switch_hold"`
	Deceleration    []time.Duration `yaml:"deceleration"`
	FeedbackTimeout time.Duration   `yaml:"feedback_timeout"`
	Buffers         BufferConfig    `yaml:"buffers"`

	// Console is the operator terminal, an empty device means stdio.
	Console comm.SerialConfig `yaml:"console"`
	// TrainBus carries commands out and, unless Feedback has its own
	// device, feedback in.
	TrainBus comm.SerialConfig `yaml:"train_bus"`
	Feedback comm.SerialConfig `yaml:"feedback"`
}

func builtinConfig() Config {
	decel := make([]time.Duration, DecelerationSteps)
	for i := range decel {
		decel[i] = 500*time.Millisecond + time.Duration(i)*250*time.Millisecond
	}
	return Config{
		Title:           "Train Control",
		PaceInterval:    100 * time.Millisecond,
		PaceBurst:       2,
		SwitchHold:      150 * time.Millisecond,
		Deceleration:    decel,
		FeedbackTimeout: time.Second,
		Buffers: BufferConfig{
			ConsoleIn:  64,
			ConsoleOut: 4096,
			ConsoleTx:  64,
			TrainOut:   256,
			FeedbackIn: 64,
		},
		Console:  comm.SerialConfig{BaudRate: 115200},
		TrainBus: comm.SerialConfig{Device: "/dev/ttyUSB0", BaudRate: 2400, StopBits: 2},
		Feedback: comm.SerialConfig{BaudRate: 2400, StopBits: 2},
	}
}

var defaultConfig = builtinConfig()

func init() {
	applyEnv(&defaultConfig)
}

func applyEnv(c *Config) {
	if val := os.Getenv("TRAINCTL_CONSOLE_DEVICE"); val != "" {
		c.Console.Device = val
	}
	if val := os.Getenv("TRAINCTL_TRAIN_DEVICE"); val != "" {
		c.TrainBus.Device = val
	}
	if val := os.Getenv("TRAINCTL_FEEDBACK_DEVICE"); val != "" {
		c.Feedback.Device = val
	}
}

func (c *Config) bindFlags(fs *flag.FlagSet) {
	fs.StringVar(&c.Title, "title", c.Title, "Title shown on the console.")
	fs.DurationVar(&c.PaceInterval, "pace", c.PaceInterval, "Minimum interval between train bus transmissions.")
	fs.IntVar(&c.PaceBurst, "pace-burst", c.PaceBurst, "Bytes sent per transmission slot, whole commands only.")
	fs.DurationVar(&c.SwitchHold, "switch-hold", c.SwitchHold, "Time a switch solenoid stays energized.")
	fs.DurationVar(&c.FeedbackTimeout, "feedback-timeout", c.FeedbackTimeout, "Give up a feedback poll after this long, 0 waits forever.")
	fs.StringVar(&c.Console.Device, "console-dev", c.Console.Device, "Console serial device, empty for the terminal.")
	fs.IntVar(&c.Console.BaudRate, "console-baud", c.Console.BaudRate, "Console baud rate.")
	fs.StringVar(&c.TrainBus.Device, "train-dev", c.TrainBus.Device, "Train bus serial device.")
	fs.IntVar(&c.TrainBus.BaudRate, "train-baud", c.TrainBus.BaudRate, "Train bus baud rate.")
	fs.StringVar(&c.Feedback.Device, "feedback-dev", c.Feedback.Device, "Feedback serial device, empty to share the train bus.")
}

// SetupFlags sets command line flags.
func SetupFlags() {
	defaultConfig.bindFlags(flag.CommandLine)
}

// Default gets default config.
func Default() *Config {
	return &defaultConfig
}

// NewConfig creates a config with defaults.
func NewConfig() *Config {
	conf := defaultConfig
	conf.Deceleration = append([]time.Duration(nil), defaultConfig.Deceleration...)
	return &conf
}

// LoadFile creates a config from built-in defaults, environment, the
// YAML file at path and finally the flags set on the command line.
func LoadFile(path string) (*Config, error) {
	data, err := ioutil.ReadFile(path)
	if err != nil {
		return nil, err
	}
	conf := builtinConfig()
	applyEnv(&conf)
	if err := yaml.Unmarshal(data, &conf); err != nil {
		return nil, fmt.Errorf("parse %s: %v", path, err)
	}
	fs := flag.NewFlagSet(path, flag.ContinueOnError)
	conf.bindFlags(fs)
	flag.Visit(func(f *flag.Flag) {
		if fs.Lookup(f.Name) != nil {
			fs.Set(f.Name, f.Value.String())
		}
	})
	return &conf, conf.Validate()
}

// Validate checks the configuration.
func (c *Config) Validate() error {
	if c.PaceInterval <= 0 {
		return fmt.Errorf("pace interval must be positive")
	}
	if c.PaceBurst < trainbus.MaxCommandLength {
		return fmt.Errorf("pace burst must be at least %d", trainbus.MaxCommandLength)
	}
	if c.SwitchHold <= 0 {
		return fmt.Errorf("switch hold must be positive")
	}
	if c.FeedbackTimeout < 0 {
		return fmt.Errorf("feedback timeout must not be negative")
	}
	if len(c.Deceleration) != DecelerationSteps {
		return fmt.Errorf("deceleration table needs %d entries, got %d", DecelerationSteps, len(c.Deceleration))
	}
	for i, d := range c.Deceleration {
		if d <= 0 {
			return fmt.Errorf("deceleration[%d] must be positive", i)
		}
		if i > 0 && d < c.Deceleration[i-1] {
			return fmt.Errorf("deceleration[%d] %v is shorter than deceleration[%d] %v", i, d, i-1, c.Deceleration[i-1])
		}
	}
	for name, size := range map[string]int{
		"console_in":  c.Buffers.ConsoleIn,
		"console_out": c.Buffers.ConsoleOut,
		"console_tx":  c.Buffers.ConsoleTx,
		"train_out":   c.Buffers.TrainOut,
		"feedback_in": c.Buffers.FeedbackIn,
	} {
		if size < 2 {
			return fmt.Errorf("buffer %s must hold at least 2 bytes", name)
		}
	}
	return nil
}

// SharedFeedback indicates feedback arrives on the train bus port.
func (c *Config) SharedFeedback() bool {
	return c.Feedback.Device == "" || c.Feedback.Device == c.TrainBus.Device
}

func (c *Config) ticks() timing {
	t := timing{
		pace:     fx.DurationToTicks(c.PaceInterval),
		hold:     fx.DurationToTicks(c.SwitchHold),
		feedback: fx.DurationToTicks(c.FeedbackTimeout),
	}
	for i := range t.decel {
		t.decel[i] = fx.DurationToTicks(c.Deceleration[i])
	}
	return t
}

type timing struct {
	pace     uint32
	hold     uint32
	feedback uint32
	decel    [DecelerationSteps]uint32
}

func (t *timing) deceleration(speed trainbus.Speed) uint32 {
	return t.decel[speed.Magnitude()]
}
