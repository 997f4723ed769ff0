package protocol2

import (
	"slices"

	"github.com/haedal-robotics/dxl"
)

// SyncWriteResult carries the outcome of a single servo's share of a
// SyncRead, since one bad responder must not hide the others' success.
// SyncWrite does not use it: it reports one error for the whole frame.
type SyncWriteResult struct {
	ID    dxl.ServoID
	Error *dxl.Error
}

// SyncWrite writes the same register to every (id, value) pair in one
// broadcast frame, the way the teacher's Driver.SyncWrite batches a
// synchronized move across motors. Dynamixel SyncWrite never triggers a
// status response, so there is nothing to read back. It fails only on a
// length mismatch between ids and values or on a transport baud, flush or
// write error.
func SyncWrite[V any](baud dxl.BaudRate, t dxl.Transport, reg WriteRegister[V], ids []dxl.ServoID, values []V) *dxl.Error {
	if len(ids) != len(values) {
		return dxl.FormatErr(dxl.FormatLength)
	}
	if err := t.SetBaudRate(baud); err != nil {
		return dxl.CommunicationErr(err)
	}
	if err := t.Flush(); err != nil {
		return dxl.CommunicationErr(err)
	}
	if err := t.Write(slices.Collect(EncodeSyncWrite(reg, ids, values))); err != nil {
		return dxl.CommunicationErr(err)
	}
	return nil
}

// SyncRead requests the same register from every listed servo in one
// broadcast frame, then reads back one status per servo in the order
// given. A servo that fails to answer contributes its own *dxl.Error to
// the result slice rather than aborting the whole batch, mirroring the
// teacher's per-motor SyncReadData.Err field.
func SyncRead[V any](baud dxl.BaudRate, t dxl.Transport, reg ReadRegister[V], ids []dxl.ServoID) ([]V, []SyncWriteResult) {
	values := make([]V, len(ids))
	results := make([]SyncWriteResult, len(ids))

	if err := t.SetBaudRate(baud); err != nil {
		derr := dxl.CommunicationErr(err)
		for i, id := range ids {
			results[i] = SyncWriteResult{ID: id, Error: derr}
		}
		return values, results
	}
	if err := t.Flush(); err != nil {
		derr := dxl.CommunicationErr(err)
		for i, id := range ids {
			results[i] = SyncWriteResult{ID: id, Error: derr}
		}
		return values, results
	}
	if err := t.Write(slices.Collect(EncodeSyncRead(reg, ids))); err != nil {
		derr := dxl.CommunicationErr(err)
		for i, id := range ids {
			results[i] = SyncWriteResult{ID: id, Error: derr}
		}
		return values, results
	}

	for i, id := range ids {
		status, derr := readStatus(t)
		results[i] = SyncWriteResult{ID: id, Error: derr}
		if derr != nil {
			continue
		}
		if len(status.Parameters) != int(reg.Size) {
			results[i].Error = dxl.FormatErr(dxl.FormatLength)
			continue
		}
		values[i] = reg.Decode(status.Parameters)
	}
	return values, results
}
