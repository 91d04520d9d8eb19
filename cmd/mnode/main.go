package main

import "github.com/maelgo/mnode/cmd/mnode/command"

func main() {
	command.Execute()
}
