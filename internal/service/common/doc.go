// Package common holds helpers shared by service packages, currently the
// duplicate-instance process guard.
package common
