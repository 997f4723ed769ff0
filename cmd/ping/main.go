// Command ping sends a single Protocol 2 ping to one servo and reports
// whether it answered.
package main

import (
	"fmt"
	"os"

	"github.com/haedal-robotics/dxl"
	"github.com/haedal-robotics/dxl/protocol2"
	"github.com/haedal-robotics/dxl/transport"
	"github.com/spf13/pflag"
)

func main() {
	port := pflag.StringP("port", "p", "/dev/ttyUSB0", "serial port device")
	baud := pflag.Uint32P("baud", "b", 1_000_000, "bus baud rate")
	idVal := pflag.IntP("id", "i", 1, "servo id to ping")
	pflag.Parse()

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

	session := protocol2.NewSession(id, dxl.BaudRate(*baud))
	if derr := session.Ping(dev); derr != nil {
		fmt.Printf("servo %d did not answer: %v\n", *idVal, derr)
		os.Exit(1)
	}
	fmt.Printf("servo %d is alive\n", *idVal)
}
