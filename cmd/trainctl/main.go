package main

//go-build: CGO_ENABLED=0

import (
	"flag"
	"fmt"

	"github.com/golang/glog"

	"github.com/robotalks/trainctl/pkg/control"
	fx "github.com/robotalks/trainctl/pkg/framework"
	"github.com/robotalks/trainctl/pkg/l0/comm"
	"github.com/robotalks/trainctl/pkg/l1"
	env "github.com/robotalks/trainctl/pkg/l1/env/controller"
)

var (
	configFile  string
	listDevices bool
)

func init() {
	env.SetControllerType("trainctl", l1.ControllerMeta{Description: "Train control console"})
	env.SetupFlags()
	control.SetupFlags()
	flag.StringVar(&configFile, "config", configFile, "YAML configuration file, flags override it.")
	flag.BoolVar(&listDevices, "list-devices", listDevices, "List serial devices and exit.")
}

func main() {
	flag.Parse()

	if listDevices {
		devs, err := comm.SerialDevices()
		if err != nil {
			glog.Exitln(err)
		}
		for _, dev := range devs {
			fmt.Println(dev)
		}
		return
	}

	conf := control.Default()
	if configFile != "" {
		var err error
		if conf, err = control.LoadFile(configFile); err != nil {
			glog.Exitln(err)
		}
	}
	ports, err := conf.OpenPorts()
	if err != nil {
		glog.Exitln(err)
	}
	ctl, err := conf.NewController(ports.Console, ports.TrainBus, ports.Feedback)
	if err != nil {
		ports.Close()
		glog.Exitln(err)
	}

	env := env.NewConfig().MustNewEnv()
	ctl.Registrar = env.Registrar
	loop := fx.NewPollingLoop(fx.NewMonotonicTicks()).
		Add(env, ctl).
		AddRunnable(ports.Runnables...)
	if err := fx.NewRunner().HandleSignals().Go(loop).Wait(); err != nil {
		glog.Exitln(err)
	}
}
