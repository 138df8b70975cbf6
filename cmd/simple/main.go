package main

import (
	"fmt"
	"os"
	"sync"
	"time"

	"github.com/lixenwraith/sinklog"
)

const configFile = "simple_config.toml"

// Example TOML content
var tomlContent = `
# Example simple_config.toml
[log]
  level = "debug"
  directory = "./simple_logs"
  extension = "log"
  max_size_mb = 1.0
  free_space_threshold = 0.05
  show_timestamp = true
  show_level = true
  # Other settings use defaults
`

func main() {
	fmt.Println("--- Simple Logger Example ---")

	// --- Setup Config ---
	err := os.WriteFile(configFile, []byte(tomlContent), 0644)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Failed to write dummy config: %v\n", err)
		// Continue with defaults
	} else {
		fmt.Printf("Created dummy config file: %s\n", configFile)
	}

	cfg, err := sinklog.NewConfigFromFile(configFile)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Failed to load config: %v. Using defaults.\n", err)
		cfg = sinklog.DefaultConfig()
		cfg.Directory = "./simple_logs"
	}

	// --- Initialize Logger ---
	logger, err := sinklog.NewFileLogger(cfg)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Failed to initialize logger: %v\n", err)
		os.Exit(1)
	}
	fmt.Println("Logger initialized.")

	// Route library diagnostics to the file as well
	if err := sinklog.SetDefault(logger); err != nil {
		fmt.Fprintf(os.Stderr, "Failed to install default logger: %v\n", err)
	}

	// --- Save the effective configuration ---
	if err := logger.Config().SaveConfig(configFile); err != nil {
		fmt.Fprintf(os.Stderr, "Failed to save configuration to '%s': %v\n", configFile, err)
	} else {
		fmt.Printf("Configuration saved to: %s\n", configFile)
	}

	// --- Logging ---
	_ = logger.Debug("This is a debug message.", "user_id", 123)
	_ = logger.Info("Application starting...")
	_ = logger.Warn("Potential issue detected.", "threshold", 0.95)
	_ = logger.LogMessage(sinklog.LevelError, "An error occurred!", sinklog.EventID{ID: 500, Name: "Request"}, false)

	// Logging from goroutines through the default proxy
	proxy := sinklog.NewDefaultProxy()
	var wg sync.WaitGroup
	for i := 0; i < 2; i++ {
		wg.Add(1)
		go func(id int) {
			defer wg.Done()
			_ = proxy.Info("Goroutine started", "id", id)
			time.Sleep(time.Duration(50+id*50) * time.Millisecond)
			_ = proxy.Info("Goroutine finished", "id", id)
		}(i)
	}

	// Scoped entries
	sc, err := logger.BeginScope(map[string]any{
		sinklog.OriginalFormatKey: "Job {JobId}",
		"JobId":                   42,
	})
	if err == nil {
		_ = logger.Info("Scoped work")
		_ = sc.Close()
	}

	wg.Wait()
	fmt.Println("Goroutines finished.")

	// --- Shutdown Logger ---
	fmt.Println("Closing logger...")
	if _, err := sinklog.SwapDefault(sinklog.NewConsoleLogger()); err != nil {
		fmt.Fprintf(os.Stderr, "Failed to restore console logger: %v\n", err)
	}
	if err := logger.Close(); err != nil {
		fmt.Fprintf(os.Stderr, "Logger close error: %v\n", err)
	} else {
		fmt.Println("Logger closed.")
	}

	fmt.Println("--- Example Finished ---")
	fmt.Printf("Check log files in '%s' and the saved config '%s'.\n", cfg.Directory, configFile)
}
