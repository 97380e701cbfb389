package main

import (
	"os"

	"job-hunter-service/internal/cli"
)

func main() {
	command := cli.NewJobCtlCommand()
	if err := command.Execute(); err != nil {
		os.Exit(1)
	}
}
