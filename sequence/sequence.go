// Package sequence runs the scripted command sequence against a machine.
package sequence

import (
	"time"

	"github.com/go-errors/errors"
	"github.com/str-workshop/twind/machine"
)

const defaultInterval = 1 * time.Second

type Config struct {
	Machine  machine.Machine
	Logger   Logger
	Interval time.Duration
}

type Sequence struct {
	machine  machine.Machine
	log      Logger
	interval time.Duration
	done     chan struct{}
}

func New(config *Config) *Sequence {
	s := &Sequence{
		machine:  config.Machine,
		interval: config.Interval,
		done:     make(chan struct{}),
	}

	if s.interval == 0 {
		s.interval = defaultInterval
	}

	if config.Logger != nil {
		s.log = config.Logger
	} else {
		s.log = noopLogger{}
	}

	return s
}

// Run loops over the scripted sequence until Shutdown is called. Only an
// unreachable machine ends the loop with an error; a command the machine
// did not acknowledge is logged and the loop keeps going.
func (s *Sequence) Run() error {
	s.log.Infof("Starting command sequence...")

	for {
		select {
		case <-s.done:
			s.log.Infof("Stopped command sequence.")
			return nil
		default:
		}

		// The example sequence. Operators replace this with their own
		// program for the workshop.
		ok, err := s.machine.MoveConveyorLeft()
		if err != nil {
			return errors.Errorf("Could not run sequence step: %v", err)
		}
		if !ok {
			s.log.Warnf("Conveyor did not acknowledge move command.")
		}

		s.machine.Wait(s.interval)
	}
}

// Shutdown stops the sequence after the step currently in flight.
func (s *Sequence) Shutdown() {
	close(s.done)
}
