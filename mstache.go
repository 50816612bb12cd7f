package main

import (
	"github.com/mstache/mstache/cmd"
)

func main() {
	cmd.Execute()
}
