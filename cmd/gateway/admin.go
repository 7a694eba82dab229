package main

import (
	"context"
	"errors"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/payflow/payment-gateway/internal/core/domain"
	"github.com/payflow/payment-gateway/internal/core/ports"
	"github.com/payflow/payment-gateway/internal/core/service"
	redisdb "github.com/payflow/payment-gateway/internal/infrastructure/db/redis"
	"github.com/payflow/payment-gateway/pkg/logger"
)

// operatorPrincipal acts for whoever runs the CLI with database access.
func operatorPrincipal() *domain.Principal {
	return &domain.Principal{
		Identifier: "cli-operator",
		Roles:      domain.NewRoleSet(domain.RoleAdmin),
	}
}

func rolesCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "roles",
		Short: "Manage role records",
	}
	cmd.AddCommand(&cobra.Command{
		Use:   "seed",
		Short: "Insert every known role that is missing",
		RunE: func(cmd *cobra.Command, _ []string) error {
			ctx := cmd.Context()
			_, log, st, err := bootstrap(ctx)
			if err != nil {
				return err
			}
			defer st.close(context.Background())

			if err := st.ensureIndexes(ctx); err != nil {
				return err
			}
			created, err := st.roles.Seed(ctx)
			if err != nil {
				return err
			}
			log.Info().Int("created", created).Msg("roles seeded")
			fmt.Fprintf(cmd.OutOrStdout(), "%d role(s) created\n", created)
			return nil
		},
	})
	return cmd
}

func userCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "user",
		Short: "Manage gateway users",
	}
	cmd.AddCommand(userAddCmd())
	cmd.AddCommand(userEnableCmd("enable", true))
	cmd.AddCommand(userEnableCmd("disable", false))
	return cmd
}

func userAddCmd() *cobra.Command {
	var in ports.RegisterUserInput

	cmd := &cobra.Command{
		Use:   "add",
		Short: "Register a user without going through the HTTP API",
		RunE: func(cmd *cobra.Command, _ []string) error {
			if in.Password == "" {
				return errors.New("--password is required")
			}
			ctx := cmd.Context()
			cfg, _, st, err := bootstrap(ctx)
			if err != nil {
				return err
			}
			defer st.close(context.Background())

			if err := st.ensureIndexes(ctx); err != nil {
				return err
			}

			auth := service.NewAuthService(st.users, cfg.JWTSecret, cfg.TokenTTL, logger.For("auth"))
			u, err := auth.Register(ctx, operatorPrincipal(), in)
			if err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "user %d (%s) added with roles %v\n", u.ID, u.Email, u.Roles.Strings())
			return nil
		},
	}

	cmd.Flags().StringVar(&in.Name, "name", "", "Display name")
	cmd.Flags().StringVar(&in.Email, "email", "", "Login email (required)")
	cmd.Flags().StringVar(&in.PhoneNumber, "phone", "", "Phone number used for alerts")
	cmd.Flags().StringVar(&in.Password, "password", "", "Initial password (required)")
	cmd.Flags().StringSliceVar(&in.Roles, "role", nil, "Role to grant; repeatable (default USER)")
	_ = cmd.MarkFlagRequired("email")

	return cmd
}

func userEnableCmd(use string, enabled bool) *cobra.Command {
	return &cobra.Command{
		Use:   use + " [email]",
		Short: fmt.Sprintf("%s a user's credentials", capitalize(use)),
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()
			cfg, log, st, err := bootstrap(ctx)
			if err != nil {
				return err
			}
			defer st.close(context.Background())

			rdb, err := redisdb.Connect(ctx, redisdb.Config{
				Addr:     cfg.Redis.Addr,
				Password: cfg.Redis.Password,
				DB:       cfg.Redis.DB,
			})
			if err != nil {
				return err
			}
			defer rdb.Close()

			users := redisdb.NewCachedUserStore(st.users, rdb, cfg.Redis.UserCacheTTL, logger.For("user_cache"))
			if err := users.SetEnabled(ctx, args[0], enabled); err != nil {
				return err
			}
			log.Info().Str("email", args[0]).Bool("enabled", enabled).Msg("user updated")
			return nil
		},
	}
}

func capitalize(s string) string {
	if s == "" {
		return s
	}
	return string(s[0]-'a'+'A') + s[1:]
}
