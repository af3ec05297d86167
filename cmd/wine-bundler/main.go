package main

import "github.com/oshokin/wine-bundler/cmd/wine-bundler/cmd"

func main() {
	cmd.Execute()
}
