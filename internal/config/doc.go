// Package config loads, validates and saves the YAML settings shared by
// the deskclock daemon: scheduler intervals, shutdown bounds, the sound
// directory and alarms provisioned at startup.
package config
