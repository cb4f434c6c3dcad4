// FILE: lixenwraith/libconfig/example/main.go
package main

import (
	"context"
	"fmt"
	"log"
	"os"
	"os/signal"
	"sync"
	"syscall"
	"time"

	"github.com/lixenwraith/libconfig"
)

// AppConfig is the typed view of the example configuration.
type AppConfig struct {
	Server struct {
		Host     string        `cfg:"host"`
		Port     int           `cfg:"port"`
		LogLevel string        `cfg:"log_level"`
		Timeout  time.Duration `cfg:"timeout"`
	} `cfg:"server"`
	Upstreams    []string        `cfg:"upstreams"`
	FeatureFlags map[string]bool `cfg:"feature_flags"`
}

const configFilePath = "example.cfg"

func main() {
	// =========================================================================
	// PART 1: BUILD A TREE AND SAVE IT
	// =========================================================================
	log.Println("---")
	log.Println("➡️  PART 1: Building a configuration tree by hand...")

	defer func() {
		log.Println("---")
		log.Println("🧹 Cleaning up...")
		os.Remove(configFilePath)
		os.Unsetenv("APP_SERVER_PORT")
		log.Printf("Removed %s and unset APP_SERVER_PORT.", configFilePath)
	}()

	if err := createInitialConfigFile(); err != nil {
		log.Fatalf("❌ Failed during initial file creation: %v", err)
	}
	log.Printf("✅ Initial configuration saved to %s.", configFilePath)

	// =========================================================================
	// PART 2: LOAD THROUGH THE BUILDER
	// Defaults < file < environment < command line.
	// =========================================================================
	log.Println("---")
	log.Println("➡️  PART 2: Configuring with the Builder...")

	os.Setenv("APP_SERVER_PORT", "8888")
	log.Println("   (Set environment variable APP_SERVER_PORT=8888)")

	defaults := &AppConfig{}
	defaults.Server.Host = "0.0.0.0"
	defaults.Server.Port = 8080
	defaults.Server.LogLevel = "info"
	defaults.Server.Timeout = 30 * time.Second

	validator := func(d *libconfig.Document) error {
		port, err := d.Value("server.port").AsInt32()
		if err != nil {
			return err
		}
		if port < 1024 || port > 65535 {
			return fmt.Errorf("port %d is outside the recommended range (1024-65535)", port)
		}
		return nil
	}

	var cfg AppConfig
	err := libconfig.NewBuilder().
		WithDefaults(defaults).
		WithFile(configFilePath).
		WithEnvPrefix("APP_").
		WithRequired("server.host", "upstreams").
		WithValidator(validator).
		BuildAndScan(&cfg)
	if err != nil {
		log.Fatalf("❌ Builder failed: %v", err)
	}
	log.Println("✅ Builder finished successfully.")
	printCurrentState(&cfg, "Initial State (Env overrides File)")

	// =========================================================================
	// PART 3: WATCH FOR CHANGES
	// =========================================================================
	log.Println("---")
	log.Println("➡️  PART 3: Watching the file...")

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	opts := libconfig.DefaultWatchOptions()
	opts.PollInterval = 250 * time.Millisecond
	opts.Debounce = 100 * time.Millisecond

	reloads, err := libconfig.Watch(ctx, configFilePath, opts)
	if err != nil {
		log.Fatalf("❌ Watch failed: %v", err)
	}
	log.Println("✅ Watcher is now active.")

	var wg sync.WaitGroup
	wg.Add(1)
	go modifyFileOnDisk(&wg)
	log.Println("   (Modifier goroutine dispatched to change file in 1 second...)")

	select {
	case r, ok := <-reloads:
		if !ok {
			log.Fatalf("❌ Watch channel closed unexpectedly.")
		}
		if r.Err != nil {
			log.Fatalf("❌ Reload failed: %v", r.Err)
		}
		log.Printf("✅ Watcher reported changed paths: %v", r.Changed)

		var updated AppConfig
		if err := r.Doc.Scan("", &updated); err != nil {
			log.Fatalf("❌ Scan after reload failed: %v", err)
		}
		if updated.Server.LogLevel != "debug" {
			log.Fatalf("❌ VERIFICATION FAILED: expected log_level 'debug', got '%s'.", updated.Server.LogLevel)
		}
		printCurrentState(&updated, "Final State (Reloaded by Watcher)")

	case <-ctx.Done():
		log.Println("   (Interrupted.)")

	case <-time.After(5 * time.Second):
		log.Fatalf("❌ TEST FAILED: Timed out waiting for watcher notification.")
	}

	wg.Wait()
}

// createInitialConfigFile writes the starting file from a hand-built tree.
func createInitialConfigFile() error {
	d := libconfig.New(libconfig.WithTabWidth(4))
	root := d.Root()

	host, err := root.CreatePath("server.host", libconfig.KindString, libconfig.StringValue("localhost"))
	if err != nil {
		return err
	}
	server, _ := host.Parent()
	if _, err := server.AddInt32("port", 9000); err != nil {
		return err
	}
	if _, err := server.AddString("log_level", "info"); err != nil {
		return err
	}

	upstreams, err := root.AddArray("upstreams")
	if err != nil {
		return err
	}
	for _, u := range []string{"10.0.0.1:80", "10.0.0.2:80"} {
		if _, err := upstreams.AddString("", u); err != nil {
			return err
		}
	}

	flags, err := root.AddGroup("feature_flags")
	if err != nil {
		return err
	}
	if _, err := flags.AddBool("enable_metrics", true); err != nil {
		return err
	}

	return d.WriteFile(configFilePath)
}

// modifyFileOnDisk simulates an external program editing the file.
func modifyFileOnDisk(wg *sync.WaitGroup) {
	defer wg.Done()
	time.Sleep(1 * time.Second)
	log.Println("   (Modifier goroutine: now changing file on disk...)")

	d, err := libconfig.Load(configFilePath)
	if err != nil {
		log.Fatalf("❌ Modifier failed to load file: %v", err)
	}
	if err := d.SetFromString("server.log_level", "debug"); err != nil {
		log.Fatalf("❌ Modifier failed to set log level: %v", err)
	}
	flags, ok := d.Lookup("feature_flags")
	if !ok {
		log.Fatalf("❌ Modifier could not find feature_flags")
	}
	if _, err := flags.AddBool("enable_tracing", false); err != nil {
		log.Fatalf("❌ Modifier failed to add flag: %v", err)
	}

	if err := d.WriteFile(configFilePath); err != nil {
		log.Fatalf("❌ Modifier failed to save file: %v", err)
	}
	log.Println("   (Modifier goroutine: finished.)")
}

func printCurrentState(cfg *AppConfig, title string) {
	fmt.Println("   --------------------------------------------------")
	fmt.Printf("             %s\n", title)
	fmt.Println("   --------------------------------------------------")
	fmt.Printf("     Server Host:      %s\n", cfg.Server.Host)
	fmt.Printf("     Server Port:      %d\n", cfg.Server.Port)
	fmt.Printf("     Server Log Level: %s\n", cfg.Server.LogLevel)
	fmt.Printf("     Server Timeout:   %s\n", cfg.Server.Timeout)
	fmt.Printf("     Upstreams:        %v\n", cfg.Upstreams)
	fmt.Printf("     Feature Flags:    %v\n", cfg.FeatureFlags)
	fmt.Println("   --------------------------------------------------")
}
