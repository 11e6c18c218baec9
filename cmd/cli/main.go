package main

import "booktracker/cmd/cli/command"

func main() {
	command.Execute()
}
