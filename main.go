package main

import "github.com/quocvuong92/chat-agent-cli/cmd"

func main() {
	cmd.Execute()
}
