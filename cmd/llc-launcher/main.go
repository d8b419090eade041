package main

import "github.com/oshokin/llc-launcher/cmd/llc-launcher/cmd"

func main() {
	cmd.Execute()
}
