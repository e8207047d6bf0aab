package main

import "github.com/kozaktomas/roster-sync/cmd"

func main() {
	cmd.Execute()
}
