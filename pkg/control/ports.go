package control

import (
	"fmt"

	"github.com/golang/glog"

	fx "github.com/robotalks/trainctl/pkg/framework"
	"github.com/robotalks/trainctl/pkg/l0/comm"
)

// Ports are the opened transports of the controller. Runnables must
// run for the channels to move bytes.
type Ports struct {
	Console   comm.Channel
	TrainBus  comm.Channel
	Feedback  comm.Channel
	Runnables []fx.Runnable

	closers []*comm.Port
}

// OpenConsole opens the console port, the terminal when no device is
// configured.
func (c *Config) OpenConsole() (*comm.Port, error) {
	if c.Console.Device == "" {
		t, err := comm.OpenTerminal()
		if err != nil {
			return nil, fmt.Errorf("open terminal: %v", err)
		}
		if !t.Raw() {
			glog.Warning("stdin is not a terminal, keystrokes are line buffered")
		}
		return c.consolePort(comm.NewPort("console", t)), nil
	}
	port, err := c.Console.OpenPort("console")
	if err != nil {
		return nil, err
	}
	return c.consolePort(port), nil
}

func (c *Config) consolePort(p *comm.Port) *comm.Port {
	return p.WithBufferSize(c.Buffers.ConsoleIn, c.Buffers.ConsoleTx)
}

// OpenPorts opens the console and the serial ports to the layout.
func (c *Config) OpenPorts() (*Ports, error) {
	ports := &Ports{}
	add := func(p *comm.Port) {
		ports.closers = append(ports.closers, p)
		ports.Runnables = append(ports.Runnables, fx.NamedRun(p.Name, p))
	}

	trainBus, err := c.TrainBus.OpenPort("train")
	if err != nil {
		return nil, err
	}
	trainBus.WithBufferSize(c.Buffers.FeedbackIn, c.Buffers.TrainOut)
	add(trainBus)
	ports.TrainBus, ports.Feedback = trainBus, trainBus
	glog.Infof("train bus on %s, %d baud", c.TrainBus.Device, c.TrainBus.BaudRate)

	if !c.SharedFeedback() {
		fb, err := c.Feedback.OpenPort("feedback")
		if err != nil {
			ports.Close()
			return nil, err
		}
		fb.WithBufferSize(c.Buffers.FeedbackIn, c.Buffers.TrainOut)
		add(fb)
		ports.Feedback = fb
		glog.Infof("feedback on %s, %d baud", c.Feedback.Device, c.Feedback.BaudRate)
	}

	console, err := c.OpenConsole()
	if err != nil {
		ports.Close()
		return nil, err
	}
	add(console)
	ports.Console = console
	return ports, nil
}

// Close closes ports which never ran.
func (p *Ports) Close() error {
	var errs fx.AggregatedError
	for _, port := range p.closers {
		errs.Add(port.Close())
	}
	return errs.Aggregate()
}
