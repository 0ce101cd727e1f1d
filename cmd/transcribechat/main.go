package main

import "github.com/diogo/transcribechat/internal/commands"

func main() {
	commands.Execute()
}
