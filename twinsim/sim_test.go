package twinsim_test

import (
	"io"
	"net/http"
	"net/http/httptest"
	"net/url"
	"strconv"
	"testing"

	"github.com/google/go-cmp/cmp"

	"github.com/str-workshop/twind/machine"
	"github.com/str-workshop/twind/twin"
	"github.com/str-workshop/twind/twinsim"
)

func get(t *testing.T, srv *httptest.Server, path string, params url.Values) string {
	t.Helper()

	u := srv.URL + path
	if len(params) > 0 {
		u += "?" + params.Encode()
	}

	res, err := http.Get(u)
	if err != nil {
		t.Fatalf("GET %v = %v", u, err)
	}
	defer res.Body.Close()

	body, err := io.ReadAll(res.Body)
	if err != nil {
		t.Fatalf("reading body of %v = %v", u, err)
	}

	return string(body)
}

func TestWireProtocol(t *testing.T) {
	sim := twinsim.New(nil)
	srv := httptest.NewServer(sim.Handler())
	t.Cleanup(srv.Close)

	t.Run("ping", func(t *testing.T) {
		if got := get(t, srv, "/ping", nil); got != "PONG" {
			t.Errorf("GET /ping = %q, expected PONG", got)
		}
	})

	t.Run("set and read back actuator", func(t *testing.T) {
		got := get(t, srv, "/set_actuator", url.Values{"name": {"Q1_7"}, "value": {"1"}})
		if got != "OK:Q1_7=1" {
			t.Errorf("GET /set_actuator = %q, expected OK:Q1_7=1", got)
		}

		on, err := sim.Actuator("Q1_7")
		if err != nil {
			t.Fatalf("Actuator(Q1_7) = %v", err)
		}
		if !on {
			t.Errorf("Actuator(Q1_7) = false, expected true")
		}

		// get_sensor also serves actuator readbacks
		if got := get(t, srv, "/get_sensor", url.Values{"name": {"Q1_7"}}); got != "VALUE:1" {
			t.Errorf("GET /get_sensor = %q, expected VALUE:1", got)
		}
	})

	t.Run("unknown actuator", func(t *testing.T) {
		got := get(t, srv, "/set_actuator", url.Values{"name": {"Q9_9"}, "value": {"1"}})
		if got != "ERROR:unknown actuator Q9_9" {
			t.Errorf("GET /set_actuator = %q, expected an ERROR response", got)
		}
	})

	t.Run("invalid value", func(t *testing.T) {
		got := get(t, srv, "/set_actuator", url.Values{"name": {"Q1_7"}, "value": {"on"}})
		if got != "ERROR:invalid value on" {
			t.Errorf("GET /set_actuator = %q, expected an ERROR response", got)
		}
	})

	t.Run("sensor reflects SetSensor", func(t *testing.T) {
		if err := sim.SetSensor("I0_1", true); err != nil {
			t.Fatalf("SetSensor(I0_1) = %v", err)
		}

		if got := get(t, srv, "/get_sensor", url.Values{"name": {"I0_1"}}); got != "VALUE:1" {
			t.Errorf("GET /get_sensor = %q, expected VALUE:1", got)
		}
	})

	t.Run("unknown sensor", func(t *testing.T) {
		got := get(t, srv, "/get_sensor", url.Values{"name": {"I9_9"}})
		if got != "ERROR:unknown sensor I9_9" {
			t.Errorf("GET /get_sensor = %q, expected an ERROR response", got)
		}

		if err := sim.SetSensor("I9_9", true); err == nil {
			t.Errorf("SetSensor(I9_9) = nil, expected an error")
		}
	})
}

// TestControllerAgainstSimulator drives a real twin controller against the
// simulator, end to end.
func TestControllerAgainstSimulator(t *testing.T) {
	sim := twinsim.New(nil)
	srv := httptest.NewServer(sim.Handler())
	t.Cleanup(srv.Close)

	u, err := url.Parse(srv.URL)
	if err != nil {
		t.Fatalf("Parse(%v) = %v", srv.URL, err)
	}

	port, err := strconv.Atoi(u.Port())
	if err != nil {
		t.Fatalf("Atoi(%v) = %v", u.Port(), err)
	}

	c, err := twin.New(&twin.Config{Host: u.Hostname(), Port: port})
	if err != nil {
		t.Fatalf("New() = %v, expected no error", err)
	}

	if ok, err := c.MoveConveyorLeft(); err != nil || !ok {
		t.Fatalf("MoveConveyorLeft() = %v, %v, expected true", ok, err)
	}

	if on, _ := sim.Actuator("Q1_7"); !on {
		t.Errorf("Actuator(Q1_7) = false after MoveConveyorLeft, expected true")
	}

	if ok, err := c.StopConveyor(); err != nil || !ok {
		t.Fatalf("StopConveyor() = %v, %v, expected true", ok, err)
	}

	want := map[string]bool{"Q1_6": false, "Q1_7": false}
	got := map[string]bool{}
	for name := range want {
		on, err := sim.Actuator(name)
		if err != nil {
			t.Fatalf("Actuator(%v) = %v", name, err)
		}
		got[name] = on
	}
	if diff := cmp.Diff(want, got); diff != "" {
		t.Errorf("actuators after StopConveyor mismatch (-want +got):\n%s", diff)
	}

	// The limit switches read inverted: a raw 1 means the limit is clear.
	if err := sim.SetSensor("I0_3", true); err != nil {
		t.Fatalf("SetSensor(I0_3) = %v", err)
	}

	bit, err := c.ConveyorRightLimitActive()
	if err != nil {
		t.Fatalf("ConveyorRightLimitActive() = %v", err)
	}
	if bit != machine.BitOff {
		t.Errorf("ConveyorRightLimitActive() = %v, expected %v", bit, machine.BitOff)
	}

	if err := sim.SetSensor("I0_1", true); err != nil {
		t.Fatalf("SetSensor(I0_1) = %v", err)
	}

	bit, err = c.PunchDownSensorActive()
	if err != nil {
		t.Fatalf("PunchDownSensorActive() = %v", err)
	}
	if bit != machine.BitOn {
		t.Errorf("PunchDownSensorActive() = %v, expected %v", bit, machine.BitOn)
	}
}
