package main

import (
	"fmt"
	"os"

	"github.com/sweemingdow/sdconv/micros/settingsrv/internal/ssboot"
)

func main() {
	if err := ssboot.Run(); err != nil {
		fmt.Fprintf(os.Stderr, "settingsrv exited with error: %v\n", err)
		os.Exit(1)
	}
}
