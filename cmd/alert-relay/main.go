package main

import "github.com/oshokin/alert-relay/cmd/alert-relay/cmd"

func main() {
	cmd.Execute()
}
