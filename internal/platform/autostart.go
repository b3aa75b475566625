// Package platform wraps desktop-environment integration points that are
// not part of the timekeeping core, currently the run-at-login toggle.
package platform

import (
	"context"
	"fmt"
	"os"
	"path/filepath"

	"github.com/emersion/go-autostart"

	"github.com/oshokin/deskclock/internal/logger"
)

// autostartName identifies the login entry across desktop environments.
const autostartName = "deskclock"

// autostartDisplayName is what login-item managers show to the user.
const autostartDisplayName = "Deskclock"

// SetAutostart enables or disables launching the current executable at
// login. Both directions are idempotent.
func SetAutostart(ctx context.Context, enable bool) error {
	app, err := autostartApp()
	if err != nil {
		return err
	}

	if enable {
		if app.IsEnabled() {
			return nil
		}

		if err = app.Enable(); err != nil {
			return fmt.Errorf("enable autostart: %w", err)
		}

		logger.Info(ctx, "Autostart enabled")

		return nil
	}

	if !app.IsEnabled() {
		return nil
	}

	if err = app.Disable(); err != nil {
		return fmt.Errorf("disable autostart: %w", err)
	}

	logger.Info(ctx, "Autostart disabled")

	return nil
}

// AutostartEnabled reports whether a login entry currently exists.
func AutostartEnabled() (bool, error) {
	app, err := autostartApp()
	if err != nil {
		return false, err
	}

	return app.IsEnabled(), nil
}

// autostartApp describes this binary to the login-item manager.
func autostartApp() (*autostart.App, error) {
	execPath, err := os.Executable()
	if err != nil {
		return nil, fmt.Errorf("locate executable: %w", err)
	}

	// Resolve symlinks so the entry survives binary swaps.
	execPath, err = filepath.EvalSymlinks(execPath)
	if err != nil {
		return nil, fmt.Errorf("resolve executable path: %w", err)
	}

	return &autostart.App{
		Name:        autostartName,
		DisplayName: autostartDisplayName,
		Exec:        []string{execPath},
	}, nil
}
