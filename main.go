package main

import "github.com/tanq16/discord-installer/cmd"

func main() {
	cmd.Execute()
}
