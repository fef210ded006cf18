package machine

import "time"

// Machine is the semantic surface of the workshop machine: a conveyor that
// can run in either direction and a punch that can travel up or down, plus
// the position sensors of both. Command methods report whether the machine
// acknowledged the command; sensor methods report a tri-state Bit since a
// reading may be unavailable.
type Machine interface {
	MoveConveyorLeft() (bool, error)
	MoveConveyorRight() (bool, error)
	StopConveyor() (bool, error)
	MovePunchDown() (bool, error)
	MovePunchUp() (bool, error)
	StopPunch() (bool, error)
	PunchDownSensorActive() (Bit, error)
	PunchUpSensorActive() (Bit, error)
	ConveyorRightLimitActive() (Bit, error)
	ConveyorLeftLimitActive() (Bit, error)
	Wait(d time.Duration)
}
