package main

import (
	"net"
	"net/http"
	"os"
	"os/signal"
	"strconv"

	"github.com/jessevdk/go-flags"
	"github.com/pkg/errors"
	log "github.com/sirupsen/logrus"
	"github.com/str-workshop/twind/machine"
	"github.com/str-workshop/twind/sequence"
	"github.com/str-workshop/twind/twin"
	"github.com/str-workshop/twind/twinsim"
	// Blank import to set up profiling HTTP handlers.
	_ "net/http/pprof"
)

var (
	// commit stores the current commit hash of this build. This should be set using -ldflags during compilation.
	Commit string
	// version stores the version string of this build. This should be set using -ldflags during compilation.
	Version string
	// date stores the date of this build. This should be set using -ldflags during compilation.
	Date string
)

// twindMain is the true entry point for twind. This is required since defers
// created in the top-level scope of a main method aren't executed if os.Exit() is called.
func twindMain() error {
	log.SetOutput(os.Stdout)
	log.SetLevel(log.InfoLevel)

	// Load CLI configuration and defaults
	cfg, err := loadConfig()
	if e, ok := err.(*flags.Error); ok && e.Type == flags.ErrHelp {
		return nil
	} else if err != nil {
		return errors.Errorf("Failed parsing arguments: %v", err)
	}

	// Set logger into debug mode if called with --debug
	if cfg.Debug {
		log.SetLevel(log.DebugLevel)
		log.Info("Setting debug mode.")
	}

	log.Info("======================================================")
	log.Info("      twind - digital twin workshop controller        ")
	log.Info("======================================================")

	// Print version of the daemon
	log.Infof("Version %s (commit %s)", Version, Commit)
	log.Infof("Built on %s", Date)

	// Stop here if only version was requested
	if cfg.ShowVersion {
		return nil
	}

	if cfg.Profiling.Listen != "" {
		go func() {
			log.Infof("Starting profiling server on %v", cfg.Profiling.Listen)
			// Redirect the root path
			http.Handle("/", http.RedirectHandler("/debug/pprof", http.StatusSeeOther))
			// All other handlers are registered on DefaultServeMux through the import of pprof
			err := http.ListenAndServe(cfg.Profiling.Listen, nil)
			if err != nil {
				log.Errorf("Could not run profiler: %v", err)
			}
		}()
	}

	// The machine the sequence runs against
	var m machine.Machine

	switch cfg.Machine {
	case "twin":
		c, err := twin.New(&twin.Config{
			Host:    cfg.Twin.Host,
			Port:    cfg.Twin.Port,
			Timeout: cfg.Twin.Timeout,
			Logger:  log.New().WithField("system", "twin"),
		})
		if err != nil {
			if _, ok := err.(*twin.ConnectionError); ok {
				log.Errorf("Critical connection failure: %v", err)
				log.Errorf("Check that the simulation is in play mode and its HTTP server is active on %v:%v.",
					cfg.Twin.Host, cfg.Twin.Port)
			}
			return errors.Errorf("Could not connect to digital twin: %v", err)
		}

		m = c

		log.Info("Created digital twin machine.")
	case "sim":
		sim := twinsim.New(&twinsim.Config{
			Log: log.New().WithField("system", "twinsim"),
		})

		lis, err := net.Listen("tcp", cfg.Sim.Listen)
		if err != nil {
			return errors.Errorf("Could not listen on %v: %v", cfg.Sim.Listen, err)
		}

		go func() {
			err := sim.Serve(lis)
			if err != nil {
				log.Errorf("Could not serve simulator: %v", err)
			}
		}()

		log.Infof("Started embedded twin simulator on %v.", lis.Addr())

		host, portString, err := net.SplitHostPort(lis.Addr().String())
		if err != nil {
			return errors.Errorf("Could not parse simulator address: %v", err)
		}

		port, err := strconv.Atoi(portString)
		if err != nil {
			return errors.Errorf("Could not parse simulator port: %v", err)
		}

		c, err := twin.New(&twin.Config{
			Host:    host,
			Port:    port,
			Timeout: cfg.Twin.Timeout,
			Logger:  log.New().WithField("system", "twin"),
		})
		if err != nil {
			return errors.Errorf("Could not connect to embedded simulator: %v", err)
		}

		m = c

		log.Info("Created simulated twin machine.")
	case "mock":
		m = machine.NewMockMachine(log.New().WithField("system", "machine"))

		log.Info("Created a mock machine.")
	default:
		return errors.Errorf("Unknown machine type %v", cfg.Machine)
	}

	// Best-effort actuator stop, regardless of how the sequence ends
	defer func() {
		log.Info("Sending commands to stop all actuators...")

		if ok, err := m.StopPunch(); err != nil {
			log.Errorf("Could not stop punch: %v", err)
		} else if !ok {
			log.Error("Punch did not acknowledge stop command.")
		}

		if ok, err := m.StopConveyor(); err != nil {
			log.Errorf("Could not stop conveyor: %v", err)
		} else if !ok {
			log.Error("Conveyor did not acknowledge stop command.")
		}

		log.Info("Stop commands sent.")
	}()

	seq := sequence.New(&sequence.Config{
		Machine:  m,
		Logger:   log.New().WithField("system", "sequence"),
		Interval: cfg.Interval,
	})

	log.Info("Created command sequence.")

	// Handle interrupt signals correctly
	go func() {
		signals := make(chan os.Signal, 1)
		signal.Notify(signals, os.Interrupt)
		sig := <-signals
		log.Info(sig)
		log.Info("Received an interrupt, stopping sequence...")
		seq.Shutdown()
	}()

	// blocks until the sequence is shut down
	err = seq.Run()
	if err != nil {
		return errors.Errorf("Failed running sequence: %v", err)
	}

	// finish with no error
	return nil
}

func main() {
	// Call the "real" main in a nested manner so the defers will properly
	// be executed in the case of a graceful shutdown.
	if err := twindMain(); err != nil {
		if e, ok := err.(*flags.Error); ok && e.Type == flags.ErrHelp {
		} else {
			log.WithError(err).Println("Failed running twind.")
		}
		os.Exit(1)
	}
}
