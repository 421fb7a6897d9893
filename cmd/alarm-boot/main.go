package main

import "github.com/oshokin/alarm-bridge/cmd/alarm-boot/cmd"

func main() {
	cmd.Execute()
}
