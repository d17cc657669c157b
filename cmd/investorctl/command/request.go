package command

import (
	"github.com/spf13/cobra"

	"github.com/vitalos/website/internal/domain"
)

func RequestCommand() *cobra.Command {
	var in domain.AccessRequest

	cmd := &cobra.Command{
		Use:   "request",
		Short: "Request an investor access code",
		Long:  "Submit the investor access form. The code is emailed to the given address.",
		RunE: func(cmd *cobra.Command, args []string) error {
			c, err := apiClient(cmd)
			if err != nil {
				return err
			}

			res, err := c.RequestAccess(cmd.Context(), in)
			if err != nil {
				return err
			}

			printf(cmd, "Access code sent to %s\n", in.Email)
			if res.Code != "" {
				printf(cmd, "Code (development echo): %s\n", res.Code)
			}
			return nil
		},
	}

	cmd.Flags().StringVar(&in.FullName, "name", "", "your full name")
	cmd.Flags().StringVar(&in.Email, "email", "", "email address the code is sent to")
	cmd.Flags().StringVar(&in.Organisation, "org", "", "organisation")
	cmd.Flags().StringVar(&in.Role, "role", "", "your role")
	cmd.Flags().BoolVar(&in.AgreeNDA, "agree-nda", false, "accept the confidentiality statement")
	cmd.Flags().BoolVar(&in.Consent, "consent", false, "agree to be contacted")

	return cmd
}
