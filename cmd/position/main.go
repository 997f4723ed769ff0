// Command position drives one Protocol 2 servo back and forth between a
// set of goal positions, printing feedback as it arrives.
package main

import (
	"fmt"
	"log/slog"
	"os"
	"os/signal"
	"time"

	"github.com/haedal-robotics/dxl"
	"github.com/haedal-robotics/dxl/controller"
	"github.com/haedal-robotics/dxl/transport"
	"github.com/spf13/pflag"
)

func main() {
	port := pflag.StringP("port", "p", "/dev/ttyUSB0", "serial port device")
	baud := pflag.Uint32P("baud", "b", 1_000_000, "bus baud rate")
	idVal := pflag.IntP("id", "i", 1, "motor id")
	pflag.Parse()

	log := slog.New(slog.NewTextHandler(os.Stderr, nil))

	id, err := dxl.NewServoID(uint8(*idVal))
	if err != nil {
		fmt.Fprintf(os.Stderr, "invalid id: %v\n", err)
		os.Exit(1)
	}

	dev, err := transport.OpenSerial(*port, dxl.BaudRate(*baud))
	if err != nil {
		fmt.Fprintf(os.Stderr, "open %s: %v\n", *port, err)
		os.Exit(1)
	}
	defer dev.Close()

	ctrl := controller.New(dev, dxl.BaudRate(*baud), controller.ModelXSeries, log)
	ctrl.SetMotorIDs([]dxl.ServoID{id})

	if err := ctrl.Start(); err != nil {
		fmt.Fprintf(os.Stderr, "start: %v\n", err)
		os.Exit(1)
	}
	defer ctrl.Stop()

	if err := ctrl.SetOperatingMode(id, controller.OpModePosition); err != nil {
		fmt.Fprintf(os.Stderr, "set operating mode: %v\n", err)
		os.Exit(1)
	}
	fmt.Println("mode set to position control")

	sigChan := make(chan os.Signal, 1)
	signal.Notify(sigChan, os.Interrupt)

	targets := []uint32{0, 1024, 2048, 3072, 4095}
	idx := 0
	forward := true

	currentTarget := targets[0]
	fmt.Printf("moving to %d\n", currentTarget)
	ctrl.CommandChan <- []controller.Command{{ID: id, Value: currentTarget}}

loop:
	for {
		select {
		case <-sigChan:
			fmt.Println("\nstopping")
			break loop
		case fbs := <-ctrl.FeedbackChan:
			for _, fb := range fbs {
				if fb.ID != id {
					continue
				}
				if fb.Error != nil {
					fmt.Printf("error: %v\n", fb.Error)
					continue
				}

				diff := int(fb.Value) - int(currentTarget)
				if diff < 0 {
					diff = -diff
				}
				if diff >= 20 {
					continue
				}

				fmt.Printf("reached %d\n", fb.Value)
				if forward {
					idx++
					if idx >= len(targets) {
						idx = len(targets) - 2
						forward = false
					}
				} else {
					idx--
					if idx < 0 {
						idx = 1
						forward = true
					}
				}

				currentTarget = targets[idx]
				time.Sleep(500 * time.Millisecond)
				fmt.Printf("moving to %d\n", currentTarget)
				ctrl.CommandChan <- []controller.Command{{ID: id, Value: currentTarget}}
			}
		}
	}
}
