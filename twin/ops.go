package twin

import "github.com/str-workshop/twind/machine"

// High-level operations mapping semantic actions onto the fixed point
// names of the twin. Stop operations always issue both underlying commands
// and succeed only if both were acknowledged; a failing sub-command is not
// retried.

func (c *Controller) MoveConveyorLeft() (bool, error) {
	return c.SetActuator(pointConveyorLeft, true)
}

func (c *Controller) MoveConveyorRight() (bool, error) {
	return c.SetActuator(pointConveyorRight, true)
}

func (c *Controller) StopConveyor() (bool, error) {
	right, err := c.SetActuator(pointConveyorRight, false)
	if err != nil {
		return false, err
	}

	left, err := c.SetActuator(pointConveyorLeft, false)
	if err != nil {
		return false, err
	}

	return right && left, nil
}

func (c *Controller) MovePunchDown() (bool, error) {
	return c.SetActuator(pointPunchDown, true)
}

func (c *Controller) MovePunchUp() (bool, error) {
	return c.SetActuator(pointPunchUp, true)
}

func (c *Controller) StopPunch() (bool, error) {
	down, err := c.SetActuator(pointPunchDown, false)
	if err != nil {
		return false, err
	}

	up, err := c.SetActuator(pointPunchUp, false)
	if err != nil {
		return false, err
	}

	return down && up, nil
}

func (c *Controller) PunchDownSensorActive() (machine.Bit, error) {
	return c.ReadBit(pointPunchDownSensor)
}

func (c *Controller) PunchUpSensorActive() (machine.Bit, error) {
	return c.ReadBit(pointPunchUpSensor)
}

// The conveyor limit switches read inverted on the twin: the raw bit is 1
// while the limit is clear and 0 once it is reached.

func (c *Controller) ConveyorRightLimitActive() (machine.Bit, error) {
	bit, err := c.ReadBit(pointConveyorRightLimit)
	if err != nil {
		return machine.BitUnknown, err
	}

	return bit.Not(), nil
}

func (c *Controller) ConveyorLeftLimitActive() (machine.Bit, error) {
	bit, err := c.ReadBit(pointConveyorLeftLimit)
	if err != nil {
		return machine.BitUnknown, err
	}

	return bit.Not(), nil
}
