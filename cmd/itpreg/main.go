package main

import "github.com/mcoot/itpreg/internal/cli"

func main() {
	cli.Execute()
}
