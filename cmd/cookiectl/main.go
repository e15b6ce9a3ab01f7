package main

import (
	"github.com/doughlab/cookieclicker/internal/cli"
)

func main() {
	cli.Execute()
}
