package cli

import (
	"fmt"
	"time"

	"reservation-engine/internal/domain/user"
	"reservation-engine/internal/pkg/jwt"

	"github.com/google/uuid"
	"github.com/kelseyhightower/envconfig"
	"github.com/spf13/cobra"
)

// newTokenCmd mints a bearer token for local testing. Real tokens come from
// the identity service, which shares JWT_SECRET.
func newTokenCmd() *cobra.Command {
	var (
		userID string
		role   string
		ttl    time.Duration
	)

	cmd := &cobra.Command{
		Use:   "token",
		Short: "Issue a development bearer token",
		RunE: func(cmd *cobra.Command, _ []string) error {
			var secret struct {
				Value string `envconfig:"JWT_SECRET" required:"true"`
			}
			if err := envconfig.Process("", &secret); err != nil {
				return err
			}
			r, err := user.NewRole(role)
			if err != nil {
				return fmt.Errorf("role %q: %w", role, err)
			}
			id := uuid.New()
			if userID != "" {
				if id, err = uuid.Parse(userID); err != nil {
					return fmt.Errorf("user id: %w", err)
				}
			}
			token, err := jwt.NewService(secret.Value, ttl).GenerateToken(id, r)
			if err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "user_id=%s role=%s\n%s\n", id, r, token)
			return nil
		},
	}

	cmd.Flags().StringVar(&userID, "user", "", "user id (random when empty)")
	cmd.Flags().StringVar(&role, "role", string(user.RoleCustomer), "customer, operator or admin")
	cmd.Flags().DurationVar(&ttl, "ttl", 24*time.Hour, "token lifetime")
	return cmd
}
