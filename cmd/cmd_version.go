package cmd

import (
	"fmt"

	"github.com/solstream-labs/creator-gateway/core/constants"
	"github.com/spf13/cobra"
)

func NewVersionCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "version",
		Short: "Show creator-gateway version",
		RunE: func(_ *cobra.Command, _ []string) error {
			fmt.Println(constants.Version)
			return nil
		},
	}
}
