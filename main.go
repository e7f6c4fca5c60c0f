package main

import (
	"skyblock-prices/internal/cli"
)

func main() {
	cli.Execute()
}
