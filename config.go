package main

import (
	"time"

	"github.com/jessevdk/go-flags"
)

type twinConfig struct {
	Host    string        `long:"host" description:"Host of the digital twin HTTP server" default:"localhost"`
	Port    int           `long:"port" description:"Port of the digital twin HTTP server" default:"8088"`
	Timeout time.Duration `long:"timeout" description:"Timeout for requests against the digital twin" default:"5s"`
}

type simConfig struct {
	Listen string `long:"listen" description:"Address the embedded twin simulator listens on" default:"localhost:8088"`
}

type profilingConfig struct {
	Listen string `long:"listen" description:"Address of the profiling server"`
}

type config struct {
	ShowVersion bool             `short:"v" long:"version" description:"Display version information and exit"`
	Debug       bool             `long:"debug" description:"Start in debug mode"`
	Machine     string           `long:"machine" description:"The machine to run the sequence against" choice:"twin" choice:"sim" choice:"mock" default:"twin"`
	Interval    time.Duration    `long:"interval" description:"Wait between sequence steps" default:"1s"`
	Twin        *twinConfig      `group:"Twin" namespace:"twin"`
	Sim         *simConfig       `group:"Sim" namespace:"sim"`
	Profiling   *profilingConfig `group:"Profiling" namespace:"profiling"`
}

func loadConfig() (*config, error) {
	cfg := config{
		Twin:      &twinConfig{},
		Sim:       &simConfig{},
		Profiling: &profilingConfig{},
	}

	parser := flags.NewParser(&cfg, flags.Default)

	_, err := parser.Parse()
	if err != nil {
		return nil, err
	}

	return &cfg, nil
}
