package train

import (
	"bytes"
	"fmt"
	"strconv"
	"strings"
	"sync"

	"github.com/abiosoft/ishell"

	"github.com/robotalks/trainctl/pkg/cli/sh"
	fx "github.com/robotalks/trainctl/pkg/framework"
	"github.com/robotalks/trainctl/pkg/l0/trainbus"
	"github.com/robotalks/trainctl/pkg/l1/msgs"
)

func parseNumber(what, arg string, bits int) (uint32, error) {
	val, err := strconv.ParseUint(arg, 10, bits)
	if err != nil {
		return 0, fmt.Errorf("Invalid %s: %v", what, err)
	}
	return uint32(val), nil
}

// ParseSetSpeed parses arguments of the tr command.
func ParseSetSpeed(args []string) (*msgs.TrainSetSpeed, error) {
	if len(args) < 2 {
		return nil, fmt.Errorf("TRAIN SPEED required")
	}
	var msg msgs.TrainSetSpeed
	var err error
	if msg.Train, err = parseNumber("TRAIN", args[0], 8); err != nil {
		return nil, err
	}
	if msg.Speed, err = parseNumber("SPEED", args[1], 8); err != nil {
		return nil, err
	}
	return &msg, nil
}

// ParseReverse parses arguments of the rv command.
func ParseReverse(args []string) (*msgs.TrainReverse, error) {
	if len(args) < 1 {
		return nil, fmt.Errorf("TRAIN required")
	}
	train, err := parseNumber("TRAIN", args[0], 8)
	if err != nil {
		return nil, err
	}
	return &msgs.TrainReverse{Train: train}, nil
}

// ParseSwitchThrow parses arguments of the sw command.
func ParseSwitchThrow(args []string) (*msgs.SwitchThrow, error) {
	if len(args) < 2 {
		return nil, fmt.Errorf("SWITCH S|C required")
	}
	id, err := parseNumber("SWITCH", args[0], 16)
	if err != nil {
		return nil, err
	}
	msg := &msgs.SwitchThrow{Switch: id}
	switch strings.ToUpper(args[1]) {
	case "S":
		msg.Straight = true
	case "C":
	default:
		return nil, fmt.Errorf("Invalid position %q, S or C expected", args[1])
	}
	return msg, nil
}

func positionString(pos uint32) string {
	switch pos {
	case msgs.SwitchStraight:
		return "S"
	case msgs.SwitchCurved:
		return "C"
	}
	return "?"
}

// FormatStatus prints ConsoleStatus into friendly string for display.
func FormatStatus(st *msgs.ConsoleStatus) string {
	var w bytes.Buffer
	fmt.Fprintf(&w, "uptime   %s", st.Uptime)
	if st.Blocked {
		w.WriteString(" (in progress)")
	}
	w.WriteString("\ntrains  ")
	if len(st.Trains) == 0 {
		w.WriteString(" none")
	}
	for _, t := range st.Trains {
		fmt.Fprintf(&w, " %d:%s", t.Train, trainbus.Speed(t.Speed))
	}
	w.WriteString("\nswitches")
	for _, sw := range st.Switches {
		fmt.Fprintf(&w, " %d:%s", sw.Switch, positionString(sw.Position))
	}
	w.WriteString("\nsensors ")
	if len(st.Sensors) == 0 {
		w.WriteString(" none")
	}
	for _, h := range st.Sensors {
		fmt.Fprintf(&w, " %s%d", h.Group, h.Sensor)
	}
	if p := st.Perf; p != nil {
		fmt.Fprintf(&w, "\nperf     loop %d/%dus first %d/%dus cycle %d/%dus",
			p.LoopUs, p.LoopMaxUs, p.FirstByteUs, p.FirstByteMaxUs, p.CycleUs, p.CycleMaxUs)
	}
	return w.String()
}

var watching struct {
	sync.Mutex
	on bool
}

func watchEvents(s *sh.Shell, msg fx.Message) {
	watching.Lock()
	on := watching.on
	watching.Unlock()
	if !on {
		return
	}
	switch m := msg.(type) {
	case *msgs.SensorTriggered:
		if m.Hit != nil {
			s.Shell.Printf("sensor %s%d\n", m.Hit.Group, m.Hit.Sensor)
		}
	case *msgs.ConsoleStatus:
		if m.Blocked {
			s.Shell.Println("sequence in progress")
		}
	}
}

func argsCmd(parse func([]string) (fx.Message, error)) func(c *ishell.Context) {
	return sh.MustBeConnected(func(c *ishell.Context) {
		msg, err := parse(c.Args)
		if err != nil {
			c.Err(err)
			return
		}
		sh.DoCommand(c, msg)
	})
}

var (
	// SetSpeedCmd exposes TrainSetSpeed command.
	SetSpeedCmd = ishell.Cmd{
		Name:    "tr",
		Aliases: []string{"train.speed"},
		Help:    "TRAIN SPEED(0-14 forward, 16-30 reverse)",
		Func: argsCmd(func(args []string) (fx.Message, error) {
			return ParseSetSpeed(args)
		}),
	}

	// ReverseCmd exposes TrainReverse command.
	ReverseCmd = ishell.Cmd{
		Name:    "rv",
		Aliases: []string{"train.reverse"},
		Help:    "TRAIN",
		Func: argsCmd(func(args []string) (fx.Message, error) {
			return ParseReverse(args)
		}),
	}

	// SwitchThrowCmd exposes SwitchThrow command.
	SwitchThrowCmd = ishell.Cmd{
		Name:    "sw",
		Aliases: []string{"switch"},
		Help:    "SWITCH(1-18, 153-156) S|C",
		Func: argsCmd(func(args []string) (fx.Message, error) {
			return ParseSwitchThrow(args)
		}),
	}

	// StatusCmd exposes ConsoleStatusQuery command.
	StatusCmd = ishell.Cmd{
		Name:    "status",
		Aliases: []string{"st"},
		Help:    "",
		Func: sh.MustBeConnected(func(c *ishell.Context) {
			reply, err := sh.Request(c, &msgs.ConsoleStatusQuery{})
			if err != nil {
				c.Err(err)
				return
			}
			st, ok := reply.(*msgs.ConsoleStatusReply)
			if !ok || st.Status == nil {
				c.Err(fmt.Errorf("unexpected reply %T", reply))
				return
			}
			if sh.ShellFrom(c).OutputJSON {
				if err := sh.PrintJSON(c, st.Status); err != nil {
					c.Err(err)
				}
				return
			}
			c.Println(FormatStatus(st.Status))
		}),
	}

	// WatchCmd toggles printing sensor events.
	WatchCmd = ishell.Cmd{
		Name: "watch",
		Help: "[on|off]",
		Func: func(c *ishell.Context) {
			watching.Lock()
			defer watching.Unlock()
			switch {
			case len(c.Args) == 0:
				watching.on = !watching.on
			case c.Args[0] == "on":
				watching.on = true
			case c.Args[0] == "off":
				watching.on = false
			default:
				c.Err(fmt.Errorf("on or off expected"))
				return
			}
			if watching.on {
				c.Println("watching sensor events")
			} else {
				c.Println("not watching")
			}
		},
	}
)

func init() {
	sh.AddCmds(
		&SetSpeedCmd,
		&ReverseCmd,
		&SwitchThrowCmd,
		&StatusCmd,
		&WatchCmd,
	)
	sh.AddEventHandlers(watchEvents)
}
