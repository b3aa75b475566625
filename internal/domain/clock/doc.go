// Package clock contains the domain model shared by the timekeeping
// components: the Alarm value type and the "HH:MM" parsing rules.
package clock
