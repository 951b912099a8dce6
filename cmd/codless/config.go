package main

import (
	"fmt"
	"os"
	"strconv"

	"github.com/charmbracelet/huh"
	"github.com/charmbracelet/lipgloss"
	"github.com/charmbracelet/lipgloss/table"

	"github.com/Rani367/CodLess-sub002/pkg/robot"
)

type ConfigCommand struct {
	Show bool `long:"show" description:"Print the current configuration without editing"`
}

var portOptions = []huh.Option[string]{
	huh.NewOption("A", "A"),
	huh.NewOption("B", "B"),
	huh.NewOption("C", "C"),
	huh.NewOption("D", "D"),
	huh.NewOption("E", "E"),
	huh.NewOption("F", "F"),
}

func (c *ConfigCommand) Execute(args []string) error {
	cfg := loadOrDefaultConfig()

	if c.Show {
		printConfig(cfg)
		return nil
	}

	axleTrack := fmt.Sprintf("%g", cfg.AxleTrack)
	wheelDiameter := fmt.Sprintf("%g", cfg.WheelDiameter)
	straightSpeed := fmt.Sprintf("%g", cfg.StraightSpeed)
	straightAccel := fmt.Sprintf("%g", cfg.StraightAcceleration)
	turnRate := fmt.Sprintf("%g", cfg.TurnRate)
	turnAccel := fmt.Sprintf("%g", cfg.TurnAcceleration)

	form := huh.NewForm(
		huh.NewGroup(
			huh.NewInput().Title("Axle track (mm)").Validate(positiveNumber).Value(&axleTrack),
			huh.NewInput().Title("Wheel diameter (mm)").Validate(positiveNumber).Value(&wheelDiameter),
			huh.NewSelect[string]().Title("Left motor port").Options(portOptions...).Value(&cfg.LeftMotorPort),
			huh.NewSelect[string]().Title("Right motor port").Options(portOptions...).Value(&cfg.RightMotorPort),
			huh.NewSelect[string]().Title("Arm 1 motor port").Options(portOptions...).Value(&cfg.Arm1MotorPort),
			huh.NewSelect[string]().Title("Arm 2 motor port").Options(portOptions...).Value(&cfg.Arm2MotorPort),
		),
		huh.NewGroup(
			huh.NewInput().Title("Straight speed (mm/s)").Validate(positiveNumber).Value(&straightSpeed),
			huh.NewInput().Title("Straight acceleration (mm/s²)").Validate(positiveNumber).Value(&straightAccel),
			huh.NewInput().Title("Turn rate (deg/s)").Validate(positiveNumber).Value(&turnRate),
			huh.NewInput().Title("Turn acceleration (deg/s²)").Validate(positiveNumber).Value(&turnAccel),
		),
	)
	if err := form.Run(); err != nil {
		fmt.Println()
		os.Exit(0)
	}

	cfg.AxleTrack, _ = strconv.ParseFloat(axleTrack, 64)
	cfg.WheelDiameter, _ = strconv.ParseFloat(wheelDiameter, 64)
	cfg.StraightSpeed, _ = strconv.ParseFloat(straightSpeed, 64)
	cfg.StraightAcceleration, _ = strconv.ParseFloat(straightAccel, 64)
	cfg.TurnRate, _ = strconv.ParseFloat(turnRate, 64)
	cfg.TurnAcceleration, _ = strconv.ParseFloat(turnAccel, 64)

	if err := cfg.Validate(); err != nil {
		fmt.Fprintf(os.Stderr, "Invalid configuration: %v\n", err)
		os.Exit(1)
	}
	if err := cfg.Save(); err != nil {
		fmt.Fprintf(os.Stderr, "Error saving config: %v\n", err)
		os.Exit(1)
	}
	fmt.Printf("Configuration saved to %s\n", robot.DefaultConfigFile)
	return nil
}

func positiveNumber(s string) error {
	v, err := strconv.ParseFloat(s, 64)
	if err != nil {
		return fmt.Errorf("not a number")
	}
	if v <= 0 || v > 2000 {
		return fmt.Errorf("must be between 0 and 2000")
	}
	return nil
}

func printConfig(cfg *robot.Config) {
	dimStyle := lipgloss.NewStyle().Foreground(lipgloss.Color("241"))
	rows := [][]string{
		{"Axle track", fmt.Sprintf("%g mm", cfg.AxleTrack)},
		{"Wheel diameter", fmt.Sprintf("%g mm", cfg.WheelDiameter)},
		{"Left motor", cfg.LeftMotorPort},
		{"Right motor", cfg.RightMotorPort},
		{"Arm 1 motor", cfg.Arm1MotorPort},
		{"Arm 2 motor", cfg.Arm2MotorPort},
		{"Straight speed", fmt.Sprintf("%g mm/s", cfg.StraightSpeed)},
		{"Straight acceleration", fmt.Sprintf("%g mm/s²", cfg.StraightAcceleration)},
		{"Turn rate", fmt.Sprintf("%g deg/s", cfg.TurnRate)},
		{"Turn acceleration", fmt.Sprintf("%g deg/s²", cfg.TurnAcceleration)},
	}
	if cfg.IsCalibrated() {
		rows = append(rows, []string{"Calibration", fmt.Sprintf("quality %.2f", cfg.Calibration.Quality)})
	} else {
		rows = append(rows, []string{"Calibration", "none"})
	}

	t := table.New().
		Border(lipgloss.RoundedBorder()).
		BorderStyle(dimStyle).
		Headers("Setting", "Value").
		Rows(rows...)
	fmt.Println(t.Render())
}
