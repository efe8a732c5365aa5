package main

import (
	"github.com/oasprobe/oasprobe/cmd"
	"github.com/oasprobe/oasprobe/internal/config"
)

func main() {
	config.LoadConfig()
	cmd.Execute()
}
