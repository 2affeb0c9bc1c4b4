package main

import (
	"fmt"
	"os"

	"github.com/lguibr/castctl/cmd/castctl/commands"
)

func main() {
	if err := commands.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}
