package main

import "github.com/pfrederiksen/unisport/internal/cli"

func main() {
	cli.Execute()
}
