package cmd

import (
	"errors"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/oshokin/deskclock/internal/platform"
)

// errUnknownAutostartMode rejects anything but "on" and "off".
var errUnknownAutostartMode = errors.New(`autostart mode must be "on" or "off"`)

// attachAutostartCommand adds the `autostart` subcommand managing the
// login entry for the daemon.
func attachAutostartCommand(root *cobra.Command) {
	root.AddCommand(&cobra.Command{
		Use:   "autostart {on|off}",
		Short: "Enable or disable launching the daemon at login.",
		Long: `Registers or removes a login entry for the deskclock daemon using the
desktop environment's autostart mechanism. Without arguments, prints the
current state.`,
		Args: cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			if len(args) == 0 {
				enabled, err := platform.AutostartEnabled()
				if err != nil {
					return err
				}

				state := "disabled"
				if enabled {
					state = "enabled"
				}

				_, _ = fmt.Fprintf(cmd.OutOrStdout(), "autostart is %s\n", state)

				return nil
			}

			switch args[0] {
			case "on":
				return platform.SetAutostart(cmd.Context(), true)
			case "off":
				return platform.SetAutostart(cmd.Context(), false)
			default:
				return fmt.Errorf("%w, got %q", errUnknownAutostartMode, args[0])
			}
		},
	})
}
