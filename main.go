package main

import (
	"errors"
	"fmt"
	"os"

	"github.com/awnumar/memguard"

	"github.com/PolarWolf314/strongroom/cmd"
	"github.com/PolarWolf314/strongroom/internal/ui"
)

func main() {
	err := cmd.RootCmd.Execute()
	memguard.Purge()

	if err != nil {
		if !errors.Is(err, cmd.ErrAlreadyReported) {
			fmt.Fprintln(os.Stderr, ui.Cross()+" "+err.Error())
		}
		os.Exit(1)
	}
}
