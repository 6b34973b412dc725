package config

import (
	"fmt"
	"os"
	"strconv"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"github.com/phravins/notepane/pkg/utils"
)

var ConfigCmd = &cobra.Command{
	Use:   "config",
	Short: "Show or change settings in ~/.notepane.yaml",
}

var getCmd = &cobra.Command{
	Use:   "get [key]",
	Short: "Print a setting, or all settings",
	Args:  cobra.MaximumNArgs(1),
	Run: func(cmd *cobra.Command, args []string) {
		if _, err := LoadConfig(); err != nil {
			utils.PrintError(fmt.Sprintf("Error loading config: %v", err))
			os.Exit(1)
		}
		if len(args) == 1 {
			fmt.Fprintln(cmd.OutOrStdout(), GetString(args[0]))
			return
		}
		for _, key := range Keys() {
			fmt.Fprintf(cmd.OutOrStdout(), "%s: %s\n", key, GetString(key))
		}
	},
}

var setCmd = &cobra.Command{
	Use:   "set [key] [value]",
	Short: "Change a setting",
	Args:  cobra.ExactArgs(2),
	Run: func(cmd *cobra.Command, args []string) {
		if _, err := LoadConfig(); err != nil {
			utils.PrintError(fmt.Sprintf("Error loading config: %v", err))
			os.Exit(1)
		}
		if err := SetValue(args[0], args[1]); err != nil {
			utils.PrintError(err.Error())
			os.Exit(1)
		}
		utils.PrintSuccess(fmt.Sprintf("%s = %s", args[0], args[1]))
	},
}

func init() {
	ConfigCmd.AddCommand(getCmd)
	ConfigCmd.AddCommand(setCmd)
}

// SetValue validates value for key, stores it with the type of the key's
// default and writes the config file.
func SetValue(key, value string) error {
	known := false
	for _, k := range Keys() {
		if k == key {
			known = true
			break
		}
	}
	if !known {
		return fmt.Errorf("unknown setting %q", key)
	}

	var typed interface{} = value
	switch viper.Get(key).(type) {
	case bool:
		b, err := strconv.ParseBool(value)
		if err != nil {
			return fmt.Errorf("%s wants true or false: %w", key, err)
		}
		typed = b
	case int:
		n, err := strconv.Atoi(value)
		if err != nil {
			return fmt.Errorf("%s wants a number: %w", key, err)
		}
		typed = n
	}
	if key == KeySettingsBackend && value != "yaml" && value != "sqlite" {
		return fmt.Errorf("%s must be yaml or sqlite", key)
	}
	return SaveConfig(key, typed)
}
