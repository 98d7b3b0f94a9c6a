package main

//go-build: CGO_ENABLED=0

import (
	"flag"
	"log"
	"time"

	"github.com/robotalks/periph.go/pkg/comm"
	env "github.com/robotalks/periph.go/pkg/env/controller"
	fx "github.com/robotalks/periph.go/pkg/framework"
	"github.com/robotalks/periph.go/pkg/periph"
	"github.com/robotalks/periph.go/pkg/periph/driver/serial"
	"github.com/robotalks/periph.go/pkg/periph/driver/sim"
	"github.com/robotalks/periph.go/pkg/periph/endpoint"
)

var conf = struct {
	descriptorPath string
	sim            bool
	serialPort     string
	serialBaud     int
	statusInterval time.Duration
}{
	descriptorPath: "periph.yml",
	serialPort:     "/dev/ttyUSB0",
	serialBaud:     serial.DefaultBaud,
	statusInterval: periph.DefaultStatusInterval,
}

func init() {
	env.SetDeviceMeta(comm.DeviceMeta{Description: "Peripheral Controller"})
	env.SetupFlags()
	flag.StringVar(&conf.descriptorPath, "descriptor", conf.descriptorPath, "Peripheral descriptor file.")
	flag.BoolVar(&conf.sim, "sim", conf.sim, "Use the simulated driver.")
	flag.StringVar(&conf.serialPort, "serial-port", conf.serialPort, "Serial port of the firmware link.")
	flag.IntVar(&conf.serialBaud, "serial-baud", conf.serialBaud, "Serial baud rate.")
	flag.DurationVar(&conf.statusInterval, "status-interval", conf.statusInterval, "Status publish interval.")
}

func main() {
	flag.Parse()

	desc, err := periph.LoadDescriptor(conf.descriptorPath)
	if err != nil {
		log.Fatalln(err)
	}

	var drv periph.Driver
	var drvRun fx.Runnable
	if conf.sim {
		drv = sim.New()
	} else {
		d, err := serial.Open(serial.Config{Port: conf.serialPort, Baud: conf.serialBaud})
		if err != nil {
			log.Fatalln(err)
		}
		drv, drvRun = d, d
	}

	svc := periph.NewService(desc, drv)
	ep := endpoint.New(svc, nil)
	e := env.NewConfig().MustNewEnv(ep)
	ep.Events = e.Events

	pub := &periph.StatusPublisher{
		Interval: conf.statusInterval,
		Registry: svc.Registry(),
		Sink:     ep,
	}

	runner := fx.NewRunner().HandleSignals()
	runner.Go(svc, pub)
	if drvRun != nil {
		runner.Go(drvRun)
	}
	runner.Go(e.Runners...)
	if err := runner.Wait(); err != nil {
		log.Fatalln(err)
	}
}
