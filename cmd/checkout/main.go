package main

import (
	"fmt"
	"os"

	"github.com/joho/godotenv"
	"github.com/spf13/cobra"
)

func main() {
	_ = godotenv.Load()

	rootCmd := &cobra.Command{
		Use:          "checkout",
		Short:        "Place top-up orders with store fallback",
		SilenceUsage: true,
	}
	addStoreFlags(rootCmd)

	rootCmd.AddCommand(placeCmd())
	rootCmd.AddCommand(storeOrdersCmd())
	rootCmd.AddCommand(localOrdersCmd())

	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}
