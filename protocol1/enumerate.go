package protocol1

import (
	"errors"
	"log/slog"

	"github.com/haedal-robotics/dxl"
)

// pongLength is the total frame size of a Protocol 1 Pong: header(4) +
// error(1) + checksum(1), zero parameters.
const pongLength = 6

// Enumerate sweeps the given baud table, broadcast-pinging at each one and
// reading back the generic model-number register from every responder.
// A *dxl.Error during the model-number read is logged and skipped so the
// sweep continues (per spec.md §7's enumeration recovery policy); a
// dxl.ErrTimedOut ends the sweep at that baud, not the whole enumeration.
func Enumerate(t dxl.Transport, bauds []dxl.BaudRate, log *slog.Logger) ([]dxl.ServoInfo, error) {
	if log == nil {
		log = slog.Default()
	}
	var servos []dxl.ServoInfo

	for _, baud := range bauds {
		if err := t.SetBaudRate(baud); err != nil {
			log.Warn("protocol1: could not enumerate at baud", "baud", baud, "error", err)
			continue
		}
		if err := t.Flush(); err != nil {
			return servos, err
		}

		tx := EncodePing(dxl.Broadcast())
		if err := t.Write(tx); err != nil {
			return servos, err
		}

		for {
			frame := make([]byte, pongLength)
			if err := t.Read(frame); err != nil {
				if errors.Is(err, dxl.ErrTimedOut) {
					break
				}
				return servos, err
			}

			status, derr := DecodeStatus(frame, 0)
			if derr != nil {
				log.Warn("protocol1: bad pong during enumeration", "baud", baud, "error", derr)
				continue
			}

			if err := t.Flush(); err != nil {
				return servos, err
			}
			session := NewSession(status.Source, baud)
			model, derr := Read(session, t, ModelNumber)
			if derr != nil {
				log.Warn("protocol1: could not read model number", "servo", status.Source, "baud", baud, "error", derr)
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
