package main

import (
	"context"
	"fmt"
	"os"
	"strings"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/spf13/cobra"
	"golang.org/x/term"

	"github.com/muurk/beamctl/internal/config"
	"github.com/muurk/beamctl/internal/discovery"
	"github.com/muurk/beamctl/internal/panel"
	"github.com/muurk/beamctl/internal/projector"
	"github.com/muurk/beamctl/internal/store"
	"github.com/muurk/beamctl/internal/vendors"
)

var (
	dataPath       string
	requestTimeout int
	scanSubnet     string
	scanTimeout    int
	scanNoMDNS     bool
)

func init() {
	rootCmd.PersistentFlags().StringVar(&dataPath, "data", "", "Device list path (default: data.json in the config directory)")
	rootCmd.PersistentFlags().IntVar(&requestTimeout, "timeout", 0, "Per-request timeout in seconds")

	rootCmd.AddCommand(panelCmd)
	rootCmd.AddCommand(devicesCmd)
	rootCmd.AddCommand(scanCommand)
	rootCmd.AddCommand(statusCmd)
	rootCmd.AddCommand(onCmd)
	rootCmd.AddCommand(offCmd)
	rootCmd.AddCommand(sourceCmd)
	rootCmd.AddCommand(targetsCmd)
	rootCmd.AddCommand(toggleCmd)
	rootCmd.AddCommand(credsCmd)

	scanCommand.Flags().StringVar(&scanSubnet, "subnet", "", "Subnet to sweep (CIDR, e.g. 192.168.0.0/24)")
	scanCommand.Flags().IntVar(&scanTimeout, "scan-timeout", 10, "Scan timeout in seconds")
	scanCommand.Flags().BoolVar(&scanNoMDNS, "no-mdns", false, "Skip the mDNS browse")
}

// openStore opens the device list. The --data flag wins over the
// data_file preference, which wins over the default location.
func openStore() (*store.Store, error) {
	path := dataPath
	if path == "" {
		if prefs, err := config.LoadPreferences(); err == nil && prefs.DataFile != "" {
			path = prefs.DataFile
		}
	}
	if path == "" {
		var err error
		path, err = store.DefaultPath()
		if err != nil {
			return nil, err
		}
	}
	return store.Open(path)
}

// resolveDevice finds a device by name (case-insensitive) or address
// and binds a projector to it.
func resolveDevice(st *store.Store, key string) (*projector.Projector, error) {
	for _, record := range st.Devices() {
		if !strings.EqualFold(record.Name, key) && record.Address != key {
			continue
		}
		proj, err := projector.New(vendors.Registry(), record.VendorID, record.Address)
		if err != nil {
			return nil, err
		}
		proj.SetName(record.Name)
		proj.SetCredentials(record.Username, record.Password)
		if requestTimeout > 0 {
			proj.SetTimeout(time.Duration(requestTimeout) * time.Second)
		}
		return proj, nil
	}
	return nil, fmt.Errorf("no device named %q in %s (try 'beamctl devices')", key, st.Path())
}

var panelCmd = &cobra.Command{
	Use:   "panel",
	Short: "Open the interactive control panel",
	RunE:  runPanel,
}

func runPanel(cmd *cobra.Command, args []string) error {
	st, err := openStore()
	if err != nil {
		return err
	}
	prefs, err := config.LoadPreferences()
	if err != nil {
		return err
	}

	model := panel.New(st, vendors.Registry(), prefs)
	program := tea.NewProgram(model, tea.WithAltScreen())
	if _, err := program.Run(); err != nil {
		return fmt.Errorf("panel failed: %w", err)
	}
	return nil
}

var devicesCmd = &cobra.Command{
	Use:   "devices",
	Short: "List configured projectors",
	RunE: func(cmd *cobra.Command, args []string) error {
		st, err := openStore()
		if err != nil {
			return err
		}
		devices := st.Devices()
		if len(devices) == 0 {
			fmt.Printf("No projectors in %s. Run 'beamctl scan' to find some.\n", st.Path())
			return nil
		}
		for _, d := range devices {
			creds := ""
			if d.Username != "" {
				creds = "  (custom credentials)"
			}
			fmt.Printf("%-24s %-16s %s%s\n", d.Name, d.Address, d.VendorID, creds)
		}
		return nil
	},
}

var scanCommand = &cobra.Command{
	Use:   "scan",
	Short: "Scan the network for projectors",
	Long: `Sweep the local subnets for hosts that answer a known vendor's
control page, and browse mDNS for projector-looking announcements.

Found projectors are printed; use the panel (or edit the device list)
to adopt them.`,
	Example: `  # Sweep local subnets and browse mDNS
  beamctl scan

  # Sweep one subnet only, skip mDNS
  beamctl scan --subnet 192.168.0.0/24 --no-mdns`,
	RunE: runScan,
}

func runScan(cmd *cobra.Command, args []string) error {
	scanner := discovery.NewScanner(vendors.Registry())
	scanner.Timeout = time.Duration(scanTimeout) * time.Second

	var subnets []string
	if scanSubnet != "" {
		subnets = []string{scanSubnet}
	}

	fmt.Printf("Scanning for projectors (timeout: %ds)...\n\n", scanTimeout)

	ctx := context.Background()
	candidates := scanner.Sweep(ctx, subnets)
	if !scanNoMDNS {
		found, err := scanner.Browse(ctx)
		if err != nil {
			fmt.Fprintf(os.Stderr, "mDNS browse failed: %v\n", err)
		} else {
			candidates = append(candidates, found...)
		}
	}

	if len(candidates) == 0 {
		fmt.Println("No projectors found.")
		fmt.Println("\nTroubleshooting:")
		fmt.Println("  - Ensure the projector is powered (standby still answers HTTP)")
		fmt.Println("  - Check you are on the same network segment")
		fmt.Println("  - Try --subnet to sweep a specific block")
		return nil
	}

	seen := make(map[string]bool)
	for _, c := range candidates {
		if seen[c.Address] {
			continue
		}
		seen[c.Address] = true
		line := fmt.Sprintf("%-16s %-10s via %s", c.Address, c.VendorID, c.Via)
		if c.Hostname != "" {
			line += "  " + c.Hostname
		}
		fmt.Println(line)
	}
	return nil
}

var statusCmd = &cobra.Command{
	Use:   "status [device]",
	Short: "Show power and source state",
	Long: `Probe one projector (by name or address), or all of them when no
device is given. Unreachable projectors read as standby.`,
	Args: cobra.MaximumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		st, err := openStore()
		if err != nil {
			return err
		}

		if len(args) == 1 {
			proj, err := resolveDevice(st, args[0])
			if err != nil {
				return err
			}
			printStatus(proj)
			return nil
		}

		for _, record := range st.Devices() {
			proj, err := resolveDevice(st, record.Name)
			if err != nil {
				fmt.Printf("%-24s %s\n", record.Name, err)
				continue
			}
			printStatus(proj)
		}
		return nil
	},
}

func printStatus(proj *projector.Projector) {
	if !proj.Status() {
		fmt.Printf("%-24s standby\n", proj.Name())
		return
	}
	if source, ok := proj.Source(); ok {
		fmt.Printf("%-24s on  %s\n", proj.Name(), source)
		return
	}
	fmt.Printf("%-24s on\n", proj.Name())
}

var onCmd = &cobra.Command{
	Use:   "on <device>",
	Short: "Power a projector on",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		return runSimple(args[0], func(proj *projector.Projector) error {
			return proj.On()
		})
	},
}

var offCmd = &cobra.Command{
	Use:   "off <device>",
	Short: "Power a projector off",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		return runSimple(args[0], func(proj *projector.Projector) error {
			return proj.Off()
		})
	},
}

var sourceCmd = &cobra.Command{
	Use:   "source <device> <label>",
	Short: "Select an input source",
	Long: `Select the named input. Projectors without a direct command for the
label are cycled: the advance command is pressed and the device
re-probed until it reports the target, bounded by the cycle length.`,
	Example: `  beamctl source "Lecture Hall" HDMI2
  beamctl source 192.168.0.31 "HDMI 1"`,
	Args: cobra.ExactArgs(2),
	RunE: func(cmd *cobra.Command, args []string) error {
		return runSimple(args[0], func(proj *projector.Projector) error {
			err := proj.SetSource(args[1])
			if projector.IsSourceExhausted(err) {
				return fmt.Errorf("%s never reported %q; its status page may be unreadable (%w)",
					proj.Name(), args[1], err)
			}
			return err
		})
	},
}

var targetsCmd = &cobra.Command{
	Use:   "targets <device>",
	Short: "List selectable sources",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		st, err := openStore()
		if err != nil {
			return err
		}
		proj, err := resolveDevice(st, args[0])
		if err != nil {
			return err
		}

		for _, spec := range proj.Profile().Catalog.Commands() {
			switch spec.Category {
			case projector.CategorySource:
				fmt.Println(spec.Name)
			case projector.CategorySourceCycle:
				for _, target := range spec.Targets {
					fmt.Printf("%s  (via %s cycle)\n", target, spec.Name)
				}
			}
		}
		return nil
	},
}

var toggleCmd = &cobra.Command{
	Use:   "toggle <device> <command>",
	Short: "Trigger a vendor feature",
	Long: `Issue a non-power catalog command once: feature toggles like Blank or
Freeze, one-shot features like Search, or a raw press of a source
cycle command.`,
	Args: cobra.ExactArgs(2),
	RunE: func(cmd *cobra.Command, args []string) error {
		return runSimple(args[0], func(proj *projector.Projector) error {
			return proj.Toggle(args[1])
		})
	},
}

var credsCmd = &cobra.Command{
	Use:   "creds <device>",
	Short: "Set credential overrides for a device",
	Long: `Prompt for a username and password to store for one device,
overriding the vendor defaults. Submit an empty pair to clear the
override.`,
	Args: cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		st, err := openStore()
		if err != nil {
			return err
		}

		index := -1
		devices := st.Devices()
		for i, record := range devices {
			if strings.EqualFold(record.Name, args[0]) || record.Address == args[0] {
				index = i
				break
			}
		}
		if index < 0 {
			return fmt.Errorf("no device named %q in %s", args[0], st.Path())
		}

		fmt.Print("Username: ")
		var username string
		if _, err := fmt.Scanln(&username); err != nil {
			username = ""
		}

		fmt.Print("Password: ")
		password, err := term.ReadPassword(int(os.Stdin.Fd()))
		fmt.Println()
		if err != nil {
			return fmt.Errorf("failed to read password: %w", err)
		}

		record := devices[index]
		record.Username = username
		record.Password = string(password)
		if err := st.Update(index, record); err != nil {
			return err
		}
		if err := st.Save(); err != nil {
			return err
		}

		if username == "" && len(password) == 0 {
			fmt.Printf("Cleared credential override for %s\n", record.Name)
		} else {
			fmt.Printf("Stored credential override for %s\n", record.Name)
		}
		return nil
	},
}

// runSimple resolves a device and runs one imperative command against it.
func runSimple(key string, fn func(*projector.Projector) error) error {
	st, err := openStore()
	if err != nil {
		return err
	}
	proj, err := resolveDevice(st, key)
	if err != nil {
		return err
	}
	if err := fn(proj); err != nil {
		return err
	}
	fmt.Println("ok")
	return nil
}
