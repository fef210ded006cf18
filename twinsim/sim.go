// Package twinsim is an in-process stand-in for the Unity digital twin. It
// serves the same plain-text wire protocol so the controller can be run and
// tested without the real simulation.
package twinsim

import (
	"fmt"
	"net"
	"net/http"
	"sync"

	"github.com/go-errors/errors"
	"github.com/gorilla/mux"
)

type Config struct {
	Log Logger
}

type Simulator struct {
	mu        sync.Mutex
	router    *mux.Router
	log       Logger
	actuators map[string]bool
	sensors   map[string]bool
}

func New(config *Config) *Simulator {
	s := &Simulator{
		router: mux.NewRouter(),
		actuators: map[string]bool{
			"Q1_4": false,
			"Q1_5": false,
			"Q1_6": false,
			"Q1_7": false,
		},
		sensors: map[string]bool{
			"I0_1": false,
			"I0_2": false,
			"I0_3": false,
			"I0_4": false,
		},
	}

	if config != nil && config.Log != nil {
		s.log = config.Log
	} else {
		s.log = noopLogger{}
	}

	s.router.Handle("/ping", s.handlePing()).Methods(http.MethodGet)
	s.router.Handle("/get_sensor", s.handleGetSensor()).Methods(http.MethodGet)
	s.router.Handle("/set_actuator", s.handleSetActuator()).Methods(http.MethodGet)

	return s
}

// Handler exposes the router, mainly so tests can mount the simulator on
// an httptest server.
func (s *Simulator) Handler() http.Handler {
	return s.router
}

func (s *Simulator) Serve(l net.Listener) error {
	err := http.Serve(l, s.router)
	if err != nil {
		return errors.Errorf("Unable to serve simulator: %v", err)
	}

	return nil
}

func (s *Simulator) handlePing() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		s.textResponse(w, "PONG")
	}
}

func (s *Simulator) handleGetSensor() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		name := r.URL.Query().Get("name")

		s.mu.Lock()
		on, found := s.sensors[name]
		if !found {
			// get_sensor also serves actuator readbacks
			on, found = s.actuators[name]
		}
		s.mu.Unlock()

		if !found {
			s.log.Warnf("Read of unknown point %v.", name)
			s.textResponse(w, fmt.Sprintf("ERROR:unknown sensor %v", name))
			return
		}

		value := "0"
		if on {
			value = "1"
		}

		s.textResponse(w, "VALUE:"+value)
	}
}

func (s *Simulator) handleSetActuator() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		name := r.URL.Query().Get("name")
		value := r.URL.Query().Get("value")

		var on bool
		switch value {
		case "1":
			on = true
		case "0":
			on = false
		default:
			s.log.Warnf("Invalid value %q for actuator %v.", value, name)
			s.textResponse(w, fmt.Sprintf("ERROR:invalid value %v", value))
			return
		}

		s.mu.Lock()
		_, found := s.actuators[name]
		if found {
			s.actuators[name] = on
		}
		s.mu.Unlock()

		if !found {
			s.log.Warnf("Write to unknown actuator %v.", name)
			s.textResponse(w, fmt.Sprintf("ERROR:unknown actuator %v", name))
			return
		}

		s.log.Debugf("Set actuator %v to %v.", name, on)

		s.textResponse(w, fmt.Sprintf("OK:%v=%v", name, value))
	}
}

func (s *Simulator) textResponse(w http.ResponseWriter, body string) {
	w.Header().Set("Content-Type", "text/plain; charset=utf-8")

	_, err := fmt.Fprint(w, body)
	if err != nil {
		s.log.Errorf("Could not write response: %v", err)
	}
}

// SetSensor sets the value a named sensor will read back.
func (s *Simulator) SetSensor(name string, on bool) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if _, found := s.sensors[name]; !found {
		return errors.Errorf("Unknown sensor %v", name)
	}

	s.sensors[name] = on

	return nil
}

// Actuator reads back the current value of a named actuator.
func (s *Simulator) Actuator(name string) (bool, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	on, found := s.actuators[name]
	if !found {
		return false, errors.Errorf("Unknown actuator %v", name)
	}

	return on, nil
}
