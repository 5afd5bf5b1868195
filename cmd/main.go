package main

import (
	"context"
	"fmt"
	"os"

	_ "github.com/chapavet/marketplace/docs"
	"github.com/spf13/cobra"
)

// @title ChapaVet Marketplace API
// @version 1.0
// @description Livestock marketplace and veterinary assistant API
// @host localhost:8080
// @BasePath /
// @securityDefinitions.apikey BearerAuth
// @in header
// @name Authorization
func main() {
	if err := newRootCmd().ExecuteContext(context.Background()); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

func newRootCmd() *cobra.Command {
	root := &cobra.Command{
		Use:           "chapavet",
		Short:         "ChapaVet livestock marketplace",
		SilenceUsage:  true,
		SilenceErrors: true,
	}
	root.AddCommand(newServeCmd(), newConsumeCmd(), newSeedCmd())
	return root
}
