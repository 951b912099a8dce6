package main

import (
	"fmt"
	"os"
	"time"

	"github.com/Rani367/CodLess-sub002/pkg/hub"
)

type ScanCommand struct{}

func (c *ScanCommand) Execute(args []string) error {
	hubCtl, err := hub.New()
	if err != nil {
		fmt.Fprintf(os.Stderr, "Bluetooth unavailable: %v\n", err)
		os.Exit(1)
	}
	defer hubCtl.DisconnectFromHub()

	fmt.Println("Scanning for a Pybricks hub...")
	hubCtl.ScanForHub()

	timeout := time.After(hub.ScanTimeout + time.Second)
	for {
		select {
		case e := <-hubCtl.Events():
			switch e.Kind {
			case hub.EventHubFound:
				fmt.Printf("Found hub: %s\n", e.HubName)
				return nil
			case hub.EventError:
				fmt.Fprintf(os.Stderr, "Scan error: %v\n", e.Err)
				os.Exit(1)
			}
		case msg := <-hubCtl.Logs():
			fmt.Println(msg)
		case <-timeout:
			fmt.Println("No Pybricks hub found.")
			return nil
		}
	}
}
