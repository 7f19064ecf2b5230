package comm

import (
	"fmt"

	"go.bug.st/serial"
)

// SerialConfig describes a serial device.
type SerialConfig struct {
	Device   string `yaml:"device"`
	BaudRate int    `yaml:"baud"`
	StopBits int    `yaml:"stop_bits"`
}

// Validate checks the configuration.
func (c *SerialConfig) Validate() error {
	if c.Device == "" {
		return fmt.Errorf("serial device required")
	}
	if c.BaudRate <= 0 {
		return fmt.Errorf("%s: invalid baud rate %d", c.Device, c.BaudRate)
	}
	if c.StopBits != 0 && c.StopBits != 1 && c.StopBits != 2 {
		return fmt.Errorf("%s: invalid stop bits %d", c.Device, c.StopBits)
	}
	return nil
}

// Mode converts the configuration into a serial.Mode. 8N1 unless
// two stop bits are requested.
func (c *SerialConfig) Mode() *serial.Mode {
	mode := &serial.Mode{
		BaudRate: c.BaudRate,
		DataBits: 8,
		Parity:   serial.NoParity,
		StopBits: serial.OneStopBit,
	}
	if c.StopBits == 2 {
		mode.StopBits = serial.TwoStopBits
	}
	return mode
}

// Open opens the serial device.
func (c *SerialConfig) Open() (serial.Port, error) {
	if err := c.Validate(); err != nil {
		return nil, err
	}
	port, err := serial.Open(c.Device, c.Mode())
	if err != nil {
		return nil, fmt.Errorf("open %s: %v", c.Device, err)
	}
	return port, nil
}

// OpenPort opens the serial device and wraps it as a Port.
func (c *SerialConfig) OpenPort(name string) (*Port, error) {
	port, err := c.Open()
	if err != nil {
		return nil, err
	}
	return NewPort(name, port), nil
}

// SerialDevices lists the serial devices present on the system.
func SerialDevices() ([]string, error) {
	return serial.GetPortsList()
}
