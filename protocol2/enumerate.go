package protocol2

import (
	"errors"
	"log/slog"
	"slices"

	"github.com/haedal-robotics/dxl"
)

// Enumerate sweeps the given baud table, broadcast-pinging at each one and
// reading back the generic model-number register from every responder,
// mirroring protocol1.Enumerate's recovery policy: a decode failure on one
// responder is logged and skipped, dxl.ErrTimedOut ends the sweep at that
// baud without ending the whole enumeration.
func Enumerate(t dxl.Transport, bauds []dxl.BaudRate, log *slog.Logger) ([]dxl.ServoInfo, error) {
	if log == nil {
		log = slog.Default()
	}
	var servos []dxl.ServoInfo

	for _, baud := range bauds {
		if err := t.SetBaudRate(baud); err != nil {
			log.Warn("protocol2: could not enumerate at baud", "baud", baud, "error", err)
			continue
		}
		if err := t.Flush(); err != nil {
			return servos, err
		}

		if err := t.Write(slices.Collect(EncodePing(dxl.Broadcast()))); err != nil {
			return servos, err
		}

		for {
			status, derr := readStatus(t)
			if derr != nil {
				if errors.Is(derr, dxl.ErrTimedOut) {
					break
				}
				log.Warn("protocol2: bad pong during enumeration", "baud", baud, "error", derr)
				continue
			}

			if err := t.Flush(); err != nil {
				return servos, err
			}
			session := NewSession(status.Source, baud)
			model, derr := Read(session, t, ModelNumber)
			if derr != nil {
				log.Warn("protocol2: could not read model number", "servo", status.Source, "baud", baud, "error", derr)
				continue
			}

			servos = append(servos, dxl.ServoInfo{
				ID:          status.Source,
				ModelNumber: model,
				BaudRate:    baud,
			})
		}
	}

	return servos, nil
}
