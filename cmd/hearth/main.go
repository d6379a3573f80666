package main

import "github.com/hearth-labs/hearth-cli/internal/adapters/driving/cli"

func main() {
	cli.Execute()
}
