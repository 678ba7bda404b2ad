package main

import (
	"fmt"
	"os"

	"github.com/arnavshah/restbook-api-go/internal/cli"
)

func main() {
	if err := cli.NewRoot().Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}
