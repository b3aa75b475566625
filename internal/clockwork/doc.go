// Package clockwork abstracts the time source behind a tiny Clocker
// interface so elapsed-time arithmetic and alarm matching can be tested
// without sleeping.
package clockwork
