package main

import "discussx/cmd/discussctl/commands"

func main() {
	commands.Execute()
}
