package main

import "github.com/nhle/notifybell/cmd/notifybell/command"

func main() {
	command.Execute()
}
