package main

import (
	"github.com/custodia-labs/recollect/internal/adapters/driving/cli"
)

func main() {
	cli.Execute()
}
