package main

import (
	"fmt"
	"os"

	"chosenoffset.com/glowtree/internal/cli"
)

func main() {
	opts := &cli.Options{}
	root := cli.NewRootCmd(opts, newRunCmd(opts))
	if err := root.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}
