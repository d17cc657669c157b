package command

import (
	"github.com/spf13/cobra"
)

func StatusCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "status",
		Short: "Show whether investor access is currently granted",
		RunE: func(cmd *cobra.Command, args []string) error {
			cache, err := accessCache(cmd)
			if err != nil {
				return err
			}

			tok, ok := cache.Token()
			switch {
			case !ok:
				printf(cmd, "No access granted\n")
			case cache.IsValid():
				exp, _ := cache.ExpiresAt()
				printf(cmd, "Access granted at %s, valid until %s\n",
					tok.Time().UTC().Format("2006-01-02 15:04 MST"),
					exp.UTC().Format("2006-01-02 15:04 MST"))
			default:
				printf(cmd, "Access expired; request a new code\n")
			}
			return nil
		},
	}
}

func RevokeCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "revoke",
		Short: "Forget the stored access grant",
		RunE: func(cmd *cobra.Command, args []string) error {
			cache, err := accessCache(cmd)
			if err != nil {
				return err
			}
			if err := cache.Revoke(); err != nil {
				return err
			}
			printf(cmd, "Access revoked\n")
			return nil
		},
	}
}
