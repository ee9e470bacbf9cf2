package main

import (
	"context"
	"fmt"
	"os"

	"github.com/dmitrijs2005/gophbank/internal/bankctl"
)

func main() {
	if err := bankctl.Run(context.Background(), os.Args[1:], os.Stdout); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}
