package main

import "github.com/oshokin/deskclock/cmd/deskclock/cmd"

func main() {
	cmd.Execute()
}
