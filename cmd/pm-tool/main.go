package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/johnopaluwa/pm-tool-backend/internal/cli"
)

var rootCmd = &cobra.Command{Use: "pm-tool"}

func main() {
	cli.SetupCLI(rootCmd)
	if err := rootCmd.Execute(); err != nil {
		fmt.Println(err)
		os.Exit(1)
	}
}
