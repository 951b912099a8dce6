package main

import (
	"context"
	"fmt"
	"log"
	"os"
	"time"

	"github.com/Rani367/CodLess-sub002/pkg/hub"
	"github.com/Rani367/CodLess-sub002/pkg/session"
	"github.com/Rani367/CodLess-sub002/pkg/teleop"
)

type PlayCommand struct {
	Dev     bool   `long:"dev" description:"Developer mode: replay into the simulator, no hub needed"`
	RunsDir string `long:"runs" default:"saved_runs" description:"Directory for saved runs"`
	Args    struct {
		Name string `positional-arg-name:"name" required:"yes" description:"Saved run to replay"`
	} `positional-args:"yes"`
}

func (c *PlayCommand) Execute(args []string) error {
	store := session.NewStore(c.RunsDir)
	run, err := store.Load(c.Args.Name)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error loading run %q: %v\n", c.Args.Name, err)
		os.Exit(1)
	}

	var hubCtl *hub.Controller
	if !c.Dev {
		hubCtl, err = hub.New()
		if err != nil {
			fmt.Fprintf(os.Stderr, "Bluetooth unavailable: %v\n", err)
			os.Exit(1)
		}
		defer hubCtl.DisconnectFromHub()
	}

	ctrl, err := teleop.NewController(run.Config, hubCtl)
	if err != nil {
		log.Fatalf("Run %q carries an unusable config: %v", c.Args.Name, err)
	}
	ctrl.SetDeveloperMode(c.Dev)

	if hubCtl != nil {
		if err := connectHub(hubCtl); err != nil {
			fmt.Fprintf(os.Stderr, "%v\n", err)
			os.Exit(1)
		}
		if err := ctrl.PushConfig(); err != nil {
			fmt.Fprintf(os.Stderr, "Config push failed: %v\n", err)
		}
	}

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	go func() {
		if err := ctrl.Start(ctx); err != nil && err != context.Canceled {
			log.Printf("Controller error: %v", err)
		}
	}()

	// Drain the state feed so the control loop never stalls.
	go func() {
		for range ctrl.States() {
		}
	}()

	if err := ctrl.Play(run); err != nil {
		fmt.Fprintf(os.Stderr, "Cannot replay %q: %v\n", c.Args.Name, err)
		os.Exit(1)
	}
	fmt.Printf("Replaying %q (%d commands)...\n", run.Name, len(run.Commands))

	select {
	case <-ctrl.Player().Done():
	case err := <-ctrl.Player().Faults():
		fmt.Fprintf(os.Stderr, "Playback aborted: %v\n", err)
		os.Exit(1)
	}
	fmt.Println("Replay finished.")
	return nil
}

// connectHub scans, connects and waits for the session to come up.
func connectHub(hubCtl *hub.Controller) error {
	fmt.Println("Scanning for a Pybricks hub...")
	hubCtl.ScanForHub()

	timeout := time.After(hub.ScanTimeout + 5*time.Second)
	for {
		select {
		case e := <-hubCtl.Events():
			switch e.Kind {
			case hub.EventHubFound:
				fmt.Printf("Found hub %s, connecting...\n", e.HubName)
				if err := hubCtl.ConnectToHub(); err != nil {
					return fmt.Errorf("connect: %w", err)
				}
			case hub.EventStateChanged:
				if e.State == hub.Connected {
					fmt.Println("Connected.")
					return nil
				}
			case hub.EventError:
				return fmt.Errorf("hub error: %w", e.Err)
			}
		case <-timeout:
			return fmt.Errorf("no hub found; use --dev to replay into the simulator")
		}
	}
}
