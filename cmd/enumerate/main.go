// Command enumerate sweeps a serial bus across a baud table and prints
// every Dynamixel that answers, using whichever wire protocol the --proto
// flag selects.
package main

import (
	"fmt"
	"log/slog"
	"os"

	"github.com/haedal-robotics/dxl"
	"github.com/haedal-robotics/dxl/protocol1"
	"github.com/haedal-robotics/dxl/protocol2"
	"github.com/haedal-robotics/dxl/transport"
	"github.com/spf13/pflag"
)

func main() {
	port := pflag.StringP("port", "p", "/dev/ttyUSB0", "serial port device")
	proto := pflag.IntP("proto", "P", 2, "wire protocol version (1 or 2)")
	pflag.Parse()

	log := slog.New(slog.NewTextHandler(os.Stderr, nil))

	dev, err := transport.OpenSerial(*port, dxl.Baud57600)
	if err != nil {
		fmt.Fprintf(os.Stderr, "open %s: %v\n", *port, err)
		os.Exit(1)
	}
	defer dev.Close()

	bauds := []dxl.BaudRate{
		dxl.Baud57600, dxl.Baud115200, dxl.Baud1000000, dxl.Baud2000000,
	}

	var infos []dxl.ServoInfo
	switch *proto {
	case 1:
		infos, err = protocol1.Enumerate(dev, bauds, log)
	case 2:
		infos, err = protocol2.Enumerate(dev, bauds, log)
	default:
		fmt.Fprintf(os.Stderr, "unsupported protocol version %d\n", *proto)
		os.Exit(1)
	}
	if err != nil {
		fmt.Fprintf(os.Stderr, "enumerate: %v\n", err)
		os.Exit(1)
	}

	if len(infos) == 0 {
		fmt.Println("no servos responded")
		return
	}
	for _, info := range infos {
		fmt.Printf("id=%d baud=%d model=0x%04X\n", uint8(info.ID), uint32(info.BaudRate), info.ModelNumber)
	}
}
