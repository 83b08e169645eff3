package main

import (
	"threadlet/internal/cli"
)

func main() {
	cli.Execute()
}
