package main

import (
	"fmt"
	"os"
	"strings"

	"github.com/phravins/notepane/internal/config"
	"github.com/phravins/notepane/internal/settings"
	"github.com/phravins/notepane/pkg/utils"
)

// reset_settings forgets the remembered directory, and with the sqlite
// backend every other stored value, so notepane starts empty.
func main() {
	if !utils.FileExists(config.Path()) {
		fmt.Printf("No config at %s, nothing to reset\n", config.Path())
		return
	}

	cfg, err := config.LoadConfig()
	if err != nil {
		fmt.Printf("Error reading config: %v\n", err)
		os.Exit(1)
	}

	st, err := settings.Open(cfg)
	if err != nil {
		fmt.Printf("Error opening settings: %v\n", err)
		os.Exit(1)
	}
	cleared, err := settings.Reset(st)
	st.Close()
	if err != nil {
		fmt.Printf("Error writing settings: %v\n", err)
		os.Exit(1)
	}
	if len(cleared) == 0 {
		fmt.Println("No stored settings, nothing to reset")
		return
	}
	fmt.Printf("Successfully cleared %s (%s backend)\n", strings.Join(cleared, ", "), cfg.SettingsBackend)
}
