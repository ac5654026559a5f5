package cli

import (
	"fmt"

	"github.com/evtop/evtop/internal/config"
)

// ConfigCmd shows the effective configuration
type ConfigCmd struct{}

// Run executes the config command
func (c *ConfigCmd) Run(globals *Globals) error {
	cfg := globals.Config

	if path := config.ConfigFile(); path != "" {
		fmt.Fprintf(globals.Stdout, "config file: %s\n\n", path)
	} else {
		fmt.Fprintf(globals.Stdout, "config file: (none found, using defaults)\n\n")
	}

	fmt.Fprintf(globals.Stdout, "defaults.type:        %s\n", cfg.Defaults.Type)
	fmt.Fprintf(globals.Stdout, "defaults.window:      %s\n", cfg.Defaults.Window)
	fmt.Fprintf(globals.Stdout, "defaults.timeout:     %s\n", cfg.Defaults.Timeout)
	fmt.Fprintf(globals.Stdout, "defaults.top:         %d\n", cfg.Defaults.Top)
	fmt.Fprintf(globals.Stdout, "defaults.hosts_file:  %s\n", cfg.Defaults.HostsFile)
	fmt.Fprintf(globals.Stdout, "ssh.user:             %s\n", cfg.SSH.User)
	fmt.Fprintf(globals.Stdout, "ssh.port:             %d\n", cfg.SSH.Port)
	fmt.Fprintf(globals.Stdout, "ssh.key_file:         %s\n", cfg.SSH.KeyFile)
	fmt.Fprintf(globals.Stdout, "ssh.known_hosts:      %s\n", cfg.SSH.KnownHostsFile)
	fmt.Fprintf(globals.Stdout, "ssh.insecure_skip_verify: %t\n", cfg.SSH.InsecureSkipVerify)
	fmt.Fprintf(globals.Stdout, "ssh.connect_timeout:  %s\n", cfg.SSH.ConnectTimeout)
	return nil
}
