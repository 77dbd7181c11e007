package main

import (
	"fmt"
	"log"
	"os"
)

func main() {
	if len(os.Args) < 2 {
		fmt.Println("Usage: venuewatch (run|manual|auth|list)")
		os.Exit(1)
	}
	config, err := readConfig(configFileName)
	if err != nil {
		log.Fatalf("Error reading config file: %v", err)
	}
	command := os.Args[1]
	switch command {
	case "run":
		runShows(config)
	case "manual":
		addManualShows(config)
	case "auth":
		authorizeAccount(config)
	case "list":
		listEvents(config)
	default:
		fmt.Printf("Unknown command: %s\n", command)
		os.Exit(1)
	}
}
