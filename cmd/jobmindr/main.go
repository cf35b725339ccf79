// cmd/jobmindr/main.go
package main

import (
	"fmt"
	"os"

	"jobmindr/internal/client"
	"jobmindr/internal/common/config"
	"jobmindr/internal/common/logger"
	"jobmindr/internal/tracker"
)

func main() {
	cfg, err := config.LoadClient()
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error loading config: %v\n", err)
		os.Exit(1)
	}

	log := logger.NewStructured(cfg.Logging.Level, "console", "stderr")

	api, err := client.New(client.NewConfig(&cfg.Client), log)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error creating API client: %v\n", err)
		os.Exit(1)
	}

	a := &app{
		api:      api,
		session:  tracker.NewSessionStore(cfg.Client.SessionFile),
		notifier: tracker.NewNotifier(config.GetDuration(cfg.Client.ToastDelay), nil),
		in:       os.Stdin,
		out:      os.Stdout,
		timeout:  config.GetDuration(cfg.Client.Timeout),
	}

	code := a.run(os.Args[1:])
	_ = api.Close()
	os.Exit(code)
}
