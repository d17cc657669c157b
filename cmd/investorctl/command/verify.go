package command

import (
	"fmt"

	"github.com/spf13/cobra"
)

func VerifyCommand() *cobra.Command {
	var email string

	cmd := &cobra.Command{
		Use:   "verify <code>",
		Short: "Verify an access code and store the grant",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			c, err := apiClient(cmd)
			if err != nil {
				return err
			}
			cache, err := accessCache(cmd)
			if err != nil {
				return err
			}

			if err := c.Verify(cmd.Context(), email, args[0]); err != nil {
				return err
			}
			if err := cache.Grant(); err != nil {
				return fmt.Errorf("store access grant: %w", err)
			}

			exp, _ := cache.ExpiresAt()
			printf(cmd, "Access granted until %s\n", exp.UTC().Format("2006-01-02 15:04 MST"))
			return nil
		},
	}

	cmd.Flags().StringVar(&email, "email", "", "email address the code was sent to")
	_ = cmd.MarkFlagRequired("email")

	return cmd
}
