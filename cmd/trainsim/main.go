package main

//go-build: CGO_ENABLED=0

import (
	"flag"
	"os"

	"github.com/golang/glog"

	"github.com/robotalks/trainctl/pkg/control"
	fx "github.com/robotalks/trainctl/pkg/framework"
	"github.com/robotalks/trainctl/pkg/l1"
	env "github.com/robotalks/trainctl/pkg/l1/env/controller"
	"github.com/robotalks/trainctl/pkg/sim"
	"github.com/robotalks/trainctl/pkg/sim/visualization/see"
)

func init() {
	env.SetControllerType("trainctl", l1.ControllerMeta{Description: "Train control console on a simulated layout"})
	env.SetupFlags()
	control.SetupFlags()
	sim.SetupFlags()
	see.SetupFlags()
}

func main() {
	flag.Parse()

	conf := control.Default()
	layout, err := sim.NewConfig().NewLayout()
	if err != nil {
		glog.Exitln(err)
	}
	console, err := conf.OpenConsole()
	if err != nil {
		glog.Exitln(err)
	}
	ctl, err := conf.NewController(console, layout, layout)
	if err != nil {
		console.Close()
		glog.Exitln(err)
	}

	env := env.NewConfig().MustNewEnv()
	ctl.Registrar = env.Registrar
	loop := fx.NewPollingLoop(fx.NewMonotonicTicks()).
		Add(env, layout, ctl).
		AddRunnable(fx.NamedRun(console.Name, console))

	if fn := see.Default().Output; fn != "" {
		out, err := os.Create(fn)
		if err != nil {
			console.Close()
			glog.Exitln(err)
		}
		defer out.Close()
		loop.Add(see.NewConfig().NewAdapter(out).Subscribe(layout))
	}

	err = fx.NewRunner().HandleSignals().Go(loop).Wait()
	glog.Infof("layout faults: %d", layout.Faults())
	if err != nil {
		glog.Exitln(err)
	}
}
