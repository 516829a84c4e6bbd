package main

import (
	"os"

	"github.com/02loveslollipop/Shizuku-riverflow-map/services/feedcat/cmd"
)

func main() {
	if err := cmd.Execute(); err != nil {
		os.Exit(1)
	}
}
