package main

import (
	"flag"
	"fmt"
	"log"
	"os"
	"os/signal"
	"syscall"

	"github.com/sburgic/smoker-ctrl/pkg/config"
	"github.com/sburgic/smoker-ctrl/pkg/probe"
	"github.com/sburgic/smoker-ctrl/pkg/readout"
	"github.com/sburgic/smoker-ctrl/pkg/thermo"
)

func main() {
	var (
		portFlag   = flag.String("p", "", "Serial port override (e.g., COM3 or /dev/ttyACM0)")
		configFlag = flag.String("config", "config.yaml", "Configuration file path")
		mockFlag   = flag.Bool("mock", false, "Use mocked controller instead of serial port")
		avgFlag    = flag.Int("avg", -1, "Readings to average (0 = disabled, overrides config)")
		listFlag   = flag.Bool("list", false, "List available serial ports and exit")
	)
	flag.Parse()

	if *listFlag {
		ports, err := probe.Ports()
		if err != nil {
			log.Fatalf("Failed to list serial ports: %v", err)
		}
		for _, p := range ports {
			fmt.Println(p.Name)
		}
		return
	}

	// Load configuration
	cfg, err := config.Load(*configFlag)
	if err != nil {
		log.Fatalf("Failed to load configuration: %v", err)
	}

	// Override serial port if provided via command line
	if *portFlag != "" {
		cfg.Serial.Port = *portFlag
	}

	// Override averaging window if provided via command line
	if *avgFlag >= 0 {
		cfg.Probe.AvgCount = *avgFlag
	}

	var device probe.Device
	if *mockFlag {
		device = probe.NewMock(cfg)
	} else {
		device = probe.New(cfg.Serial.Port, cfg.Serial.Baud, probe.DefaultBufferSize)
	}

	if err := device.Connect(); err != nil {
		log.Fatalf("Failed to connect to controller: %v", err)
	}

	// Closing the device on interrupt closes the readings channel and lets
	// the pipeline drain and exit.
	sig := make(chan os.Signal, 1)
	signal.Notify(sig, os.Interrupt, syscall.SIGTERM)
	go func() {
		<-sig
		log.Printf("Shutting down")
		if err := device.Close(); err != nil {
			log.Printf("Error closing device: %v", err)
		}
	}()

	convert := thermo.NewAveragingConverter(cfg, cfg.Probe.AvgCount, probe.DefaultBufferSize)
	renderer := readout.New(cfg, os.Stdout)

	if err := renderer.Run(convert(device.Readings())); err != nil {
		log.Fatalf("Readout failed: %v", err)
	}
}
