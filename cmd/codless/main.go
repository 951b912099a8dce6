package main

import (
	"os"

	"github.com/jessevdk/go-flags"
)

type Options struct {
	Drive  DriveCommand  `command:"drive" description:"Start keyboard teleoperation (TUI)"`
	Scan   ScanCommand   `command:"scan" description:"Scan for a Pybricks hub"`
	Play   PlayCommand   `command:"play" description:"Replay a saved run"`
	Runs   RunsCommand   `command:"runs" description:"List or delete saved runs"`
	Export ExportCommand `command:"export" description:"Generate a standalone Pybricks program from saved runs"`
	Config ConfigCommand `command:"config" description:"Show or edit the robot configuration"`
}

var opts Options
var parser = flags.NewParser(&opts, flags.Default)

func main() {
	parser.LongDescription = "CodLess - keyboard remote control and run recording for Pybricks robots"

	_, err := parser.Parse()
	if err != nil {
		if flagsErr, ok := err.(*flags.Error); ok {
			if flagsErr.Type == flags.ErrHelp {
				os.Exit(0)
			}
		}
		os.Exit(1)
	}
}
