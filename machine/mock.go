package machine

import (
	"sync"
	"time"
)

// MockMachine is an in-memory machine for development and tests. Commands
// always succeed and only mutate local state; sensor readings are whatever
// the test (or nobody) set, defaulting to OFF.
type MockMachine struct {
	mu                 sync.Mutex
	log                Logger
	conveyorLeft       bool
	conveyorRight      bool
	punchDown          bool
	punchUp            bool
	punchDownSensor    Bit
	punchUpSensor      Bit
	conveyorRightLimit Bit
	conveyorLeftLimit  Bit
}

// Compile time check for protocol compatibility
var _ Machine = (*MockMachine)(nil)

func NewMockMachine(logger Logger) *MockMachine {
	m := &MockMachine{
		punchDownSensor:    BitOff,
		punchUpSensor:      BitOff,
		conveyorRightLimit: BitOff,
		conveyorLeftLimit:  BitOff,
	}

	if logger != nil {
		m.log = logger
	} else {
		m.log = noopLogger{}
	}

	return m
}

func (m *MockMachine) MoveConveyorLeft() (bool, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	m.log.Infof("Moving conveyor left.")
	m.conveyorLeft = true

	return true, nil
}

func (m *MockMachine) MoveConveyorRight() (bool, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	m.log.Infof("Moving conveyor right.")
	m.conveyorRight = true

	return true, nil
}

func (m *MockMachine) StopConveyor() (bool, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	m.log.Infof("Stopping conveyor.")
	m.conveyorLeft = false
	m.conveyorRight = false

	return true, nil
}

func (m *MockMachine) MovePunchDown() (bool, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	m.log.Infof("Moving punch down.")
	m.punchDown = true

	return true, nil
}

func (m *MockMachine) MovePunchUp() (bool, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	m.log.Infof("Moving punch up.")
	m.punchUp = true

	return true, nil
}

func (m *MockMachine) StopPunch() (bool, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	m.log.Infof("Stopping punch.")
	m.punchDown = false
	m.punchUp = false

	return true, nil
}

func (m *MockMachine) PunchDownSensorActive() (Bit, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	return m.punchDownSensor, nil
}

func (m *MockMachine) PunchUpSensorActive() (Bit, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	return m.punchUpSensor, nil
}

func (m *MockMachine) ConveyorRightLimitActive() (Bit, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	return m.conveyorRightLimit, nil
}

func (m *MockMachine) ConveyorLeftLimitActive() (Bit, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	return m.conveyorLeftLimit, nil
}

func (m *MockMachine) Wait(d time.Duration) {
	time.Sleep(d)
}

// SetPunchDownSensor sets the reading reported by PunchDownSensorActive.
func (m *MockMachine) SetPunchDownSensor(b Bit) {
	m.mu.Lock()
	defer m.mu.Unlock()

	m.punchDownSensor = b
}

// SetPunchUpSensor sets the reading reported by PunchUpSensorActive.
func (m *MockMachine) SetPunchUpSensor(b Bit) {
	m.mu.Lock()
	defer m.mu.Unlock()

	m.punchUpSensor = b
}

// SetConveyorRightLimit sets the reading reported by ConveyorRightLimitActive.
func (m *MockMachine) SetConveyorRightLimit(b Bit) {
	m.mu.Lock()
	defer m.mu.Unlock()

	m.conveyorRightLimit = b
}

// SetConveyorLeftLimit sets the reading reported by ConveyorLeftLimitActive.
func (m *MockMachine) SetConveyorLeftLimit(b Bit) {
	m.mu.Lock()
	defer m.mu.Unlock()

	m.conveyorLeftLimit = b
}

// ConveyorMovingLeft reports whether the last conveyor command left the
// conveyor running leftwards.
func (m *MockMachine) ConveyorMovingLeft() bool {
	m.mu.Lock()
	defer m.mu.Unlock()

	return m.conveyorLeft
}

// ConveyorMovingRight reports whether the last conveyor command left the
// conveyor running rightwards.
func (m *MockMachine) ConveyorMovingRight() bool {
	m.mu.Lock()
	defer m.mu.Unlock()

	return m.conveyorRight
}

// PunchMovingDown reports whether the last punch command left the punch
// travelling down.
func (m *MockMachine) PunchMovingDown() bool {
	m.mu.Lock()
	defer m.mu.Unlock()

	return m.punchDown
}

// PunchMovingUp reports whether the last punch command left the punch
// travelling up.
func (m *MockMachine) PunchMovingUp() bool {
	m.mu.Lock()
	defer m.mu.Unlock()

	return m.punchUp
}
