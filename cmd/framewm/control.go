package main

import (
	"encoding/json"
	"fmt"
	"io"
	"strconv"
	"strings"

	"github.com/spf13/cobra"

	"github.com/1broseidon/framewm/internal/ipc"
)

var statusCmd = &cobra.Command{
	Use:   "status",
	Short: "Show the running window manager's status",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, _ []string) error {
		client, err := controlClient(cmd)
		if err != nil {
			return err
		}
		status, err := client.GetStatus()
		if err != nil {
			return err
		}
		out := cmd.OutOrStdout()
		fmt.Fprintf(out, "display:        %s\n", status.Display)
		fmt.Fprintf(out, "config:         %s\n", status.ConfigPath)
		fmt.Fprintf(out, "clients:        %d\n", status.Clients)
		fmt.Fprintf(out, "phase:          %s\n", status.Phase)
		fmt.Fprintf(out, "uptime_seconds: %d\n", status.UptimeSeconds)
		return nil
	},
}

var clientsCmd = &cobra.Command{
	Use:   "clients",
	Short: "List managed clients",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, _ []string) error {
		client, err := controlClient(cmd)
		if err != nil {
			return err
		}
		clients, err := client.ListClients()
		if err != nil {
			return err
		}
		if boolFlag(cmd, "json") {
			enc := json.NewEncoder(cmd.OutOrStdout())
			enc.SetIndent("", "  ")
			return enc.Encode(clients)
		}
		printClients(cmd.OutOrStdout(), clients)
		return nil
	},
}

var closeCmd = &cobra.Command{
	Use:   "close <window-id>",
	Short: "Close a client window (WM_DELETE_WINDOW, else kill)",
	Long: "Close a client window. The id may name the client window or its frame\n" +
		"and is accepted in decimal or 0x-prefixed hex, as printed by 'framewm clients'.",
	Args: cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		window, err := parseWindowID(args[0])
		if err != nil {
			return err
		}
		client, err := controlClient(cmd)
		if err != nil {
			return err
		}
		return client.CloseClient(window)
	},
}

var reloadCmd = &cobra.Command{
	Use:   "reload",
	Short: "Reload configuration in the running window manager",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, _ []string) error {
		client, err := controlClient(cmd)
		if err != nil {
			return err
		}
		if err := client.Reload(); err != nil {
			return err
		}
		fmt.Fprintln(cmd.OutOrStdout(), "config: reloaded")
		return nil
	},
}

func init() {
	clientsCmd.Flags().Bool("json", false, "print clients as JSON")
}

// controlClient connects to the socket of the display named by the flags or
// the config file.
func controlClient(cmd *cobra.Command) (*ipc.Client, error) {
	flags := flagsFrom(cmd)
	display := flags.Display
	if display == "" {
		if res, _, err := flags.load(); err == nil {
			display = res.Config.Display
		}
	}
	flags.Display = display
	socket, err := flags.socketPath(nil)
	if err != nil {
		return nil, fmt.Errorf("failed to resolve IPC socket path: %w", err)
	}
	return ipc.NewClient(socket), nil
}

func parseWindowID(s string) (uint32, error) {
	v, err := strconv.ParseUint(strings.TrimSpace(s), 0, 32)
	if err != nil || v == 0 {
		return 0, fmt.Errorf("invalid window id %q", s)
	}
	return uint32(v), nil
}

func printClients(w io.Writer, clients []ipc.ClientData) {
	if len(clients) == 0 {
		fmt.Fprintln(w, "no managed clients")
		return
	}
	fmt.Fprintf(w, "%-10s %-10s %-20s %s\n", "WINDOW", "FRAME", "GEOMETRY", "TITLE")
	for _, c := range clients {
		title := c.Title
		if c.Focused {
			title = "* " + title
		}
		geometry := fmt.Sprintf("%dx%d+%d+%d", c.Width, c.Height, c.X, c.Y)
		fmt.Fprintf(w, "0x%-8x 0x%-8x %-20s %s\n", c.Window, c.Frame, geometry, title)
	}
}
