// Package twin talks to the workshop digital twin: a simulated conveyor and
// punch exposing named boolean actuators and sensors over plain-text HTTP.
package twin

import (
	"errors"
	"fmt"
	"io"
	"net"
	"net/http"
	"net/url"
	"strconv"
	"strings"
	"time"

	"github.com/str-workshop/twind/machine"
)

const (
	DefaultHost    = "localhost"
	DefaultPort    = 8088
	DefaultTimeout = 5 * time.Second
)

const (
	pingPath        = "/ping"
	getSensorPath   = "/get_sensor"
	setActuatorPath = "/set_actuator"
)

// Physical point names of the twin. This wiring is fixed by the simulated
// machine and not configurable at runtime.
const (
	pointPunchDown     = "Q1_4"
	pointPunchUp       = "Q1_5"
	pointConveyorRight = "Q1_6"
	pointConveyorLeft  = "Q1_7"

	pointPunchDownSensor    = "I0_1"
	pointPunchUpSensor      = "I0_2"
	pointConveyorRightLimit = "I0_3"
	pointConveyorLeftLimit  = "I0_4"
)

// ConnectionError reports that the digital twin endpoint is unreachable.
// Unlike all other request failures it propagates to the caller, since no
// subsequent operation can succeed without connectivity.
type ConnectionError struct {
	Addr string
	Err  error
}

func (e *ConnectionError) Error() string {
	return fmt.Sprintf("could not connect to digital twin at %v: %v", e.Addr, e.Err)
}

func (e *ConnectionError) Unwrap() error {
	return e.Err
}

type Config struct {
	Host    string
	Port    int
	Timeout time.Duration
	Logger  Logger
}

// Controller drives the digital twin. It holds no machine state locally —
// every reading round-trips to the twin, so a sensor value is never assumed
// from the last command sent.
type Controller struct {
	addr    string
	baseURL string
	client  *http.Client
	log     Logger
}

// Compile time check for protocol compatibility
var _ machine.Machine = (*Controller)(nil)

// New builds a controller and immediately probes the twin. It returns a
// *ConnectionError unless the twin answers the probe with PONG.
func New(config *Config) (*Controller, error) {
	host := config.Host
	if host == "" {
		host = DefaultHost
	}

	port := config.Port
	if port == 0 {
		port = DefaultPort
	}

	timeout := config.Timeout
	if timeout == 0 {
		timeout = DefaultTimeout
	}

	c := &Controller{
		addr: net.JoinHostPort(host, strconv.Itoa(port)),
		client: &http.Client{
			Timeout: timeout,
		},
	}

	c.baseURL = "http://" + c.addr

	if config.Logger != nil {
		c.log = config.Logger
	} else {
		c.log = noopLogger{}
	}

	c.log.Infof("Connecting to digital twin at %v...", c.baseURL)

	ok, err := c.ping()
	if err != nil {
		return nil, err
	}
	if !ok {
		return nil, &ConnectionError{
			Addr: c.addr,
			Err:  errors.New("probe did not answer PONG"),
		}
	}

	c.log.Infof("Digital twin connected and ready.")

	return c, nil
}

// request is the single choke point for all communication with the twin.
// It issues one GET with the fixed timeout and no retries. A 2xx response
// yields the body with surrounding whitespace trimmed and ok set. Timeouts,
// HTTP error statuses and other transport failures are logged and yield
// ok unset. Only a connection-level failure returns an error, which is
// always a *ConnectionError.
func (c *Controller) request(path string, params url.Values) (body string, ok bool, err error) {
	u := c.baseURL + path
	if len(params) > 0 {
		u += "?" + params.Encode()
	}

	res, err := c.client.Get(u)
	if err != nil {
		var uerr *url.Error
		if errors.As(err, &uerr) && uerr.Timeout() {
			c.log.Errorf("Timeout requesting %v", u)
			return "", false, nil
		}

		var operr *net.OpError
		if errors.As(err, &operr) && operr.Op == "dial" {
			return "", false, &ConnectionError{Addr: c.addr, Err: err}
		}

		c.log.Errorf("Request to %v failed: %v", u, err)
		return "", false, nil
	}

	defer res.Body.Close()

	if res.StatusCode < 200 || res.StatusCode > 299 {
		c.log.Errorf("Request to %v failed with status %v", u, res.Status)
		return "", false, nil
	}

	payload, err := io.ReadAll(res.Body)
	if err != nil {
		c.log.Errorf("Could not read response from %v: %v", u, err)
		return "", false, nil
	}

	return strings.TrimSpace(string(payload)), true, nil
}

func (c *Controller) ping() (bool, error) {
	body, ok, err := c.request(pingPath, nil)
	if err != nil {
		return false, err
	}

	return ok && body == "PONG", nil
}

// SetActuator sets a named boolean output on the twin. It reports success
// only if the twin acknowledged the command with an OK: response.
func (c *Controller) SetActuator(name string, on bool) (bool, error) {
	value := "0"
	if on {
		value = "1"
	}

	params := url.Values{}
	params.Set("name", name)
	params.Set("value", value)

	body, ok, err := c.request(setActuatorPath, params)
	if err != nil {
		return false, err
	}

	if ok && strings.HasPrefix(body, "OK:") {
		return true, nil
	}

	c.log.Errorf("Could not set actuator %v to %v, got %q", name, on, body)

	return false, nil
}

// ReadBit reads a named boolean input (or actuator readback) from the twin.
// A response that is missing, carries no VALUE: prefix, or carries anything
// other than 0 or 1 yields BitUnknown, which callers must treat as "no
// reading" rather than as off.
func (c *Controller) ReadBit(name string) (machine.Bit, error) {
	params := url.Values{}
	params.Set("name", name)

	body, ok, err := c.request(getSensorPath, params)
	if err != nil {
		return machine.BitUnknown, err
	}

	if !ok || !strings.HasPrefix(body, "VALUE:") {
		c.log.Errorf("Could not read %v, got %q", name, body)
		return machine.BitUnknown, nil
	}

	value, err := strconv.Atoi(strings.TrimPrefix(body, "VALUE:"))
	if err != nil {
		c.log.Errorf("Could not parse reading for %v, got %q", name, body)
		return machine.BitUnknown, nil
	}

	switch value {
	case 1:
		return machine.BitOn, nil
	case 0:
		return machine.BitOff, nil
	default:
		c.log.Errorf("Reading for %v out of range, got %q", name, body)
		return machine.BitUnknown, nil
	}
}

// Wait blocks the caller for the given duration. There is no cancellation;
// the sequence is fully synchronous by design.
func (c *Controller) Wait(d time.Duration) {
	time.Sleep(d)
}
