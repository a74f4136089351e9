// Package cli is the operator command line: schema migration, account
// creation with any role and reference data seeding.
package cli

import (
	"context"
	"errors"
	"fmt"

	"github.com/spf13/cobra"

	"kiruna/internal/model"
	"kiruna/internal/service"
)

var version = "dev"

// Runtime is what the commands act on.
type Runtime struct {
	Migrate      func(ctx context.Context) error
	Users        service.UserService
	Stakeholders service.StakeholderService
	DocTypes     service.DocumentTypeService
}

// Opener builds a Runtime on demand and returns a func releasing it.
type Opener func(ctx context.Context) (*Runtime, func(), error)

// NewRootCmd wires every subcommand to open.
func NewRootCmd(open Opener) *cobra.Command {
	root := &cobra.Command{
		Use:           "kiruna-admin",
		Short:         "Operate a Kiruna eXplorer deployment",
		SilenceUsage:  true,
		SilenceErrors: true,
	}

	root.AddCommand(
		newMigrateCmd(open),
		newUserCmd(open),
		newSeedCmd(open),
		&cobra.Command{
			Use:   "version",
			Short: "Print the version number",
			Run: func(cmd *cobra.Command, args []string) {
				fmt.Fprintf(cmd.OutOrStdout(), "kiruna-admin version %s\n", version)
			},
		},
	)
	return root
}

// withRuntime opens the runtime around fn.
func withRuntime(cmd *cobra.Command, open Opener, fn func(ctx context.Context, rt *Runtime) error) error {
	ctx := cmd.Context()
	if ctx == nil {
		ctx = context.Background()
	}
	rt, release, err := open(ctx)
	if err != nil {
		return err
	}
	defer release()
	return fn(ctx, rt)
}

func newMigrateCmd(open Opener) *cobra.Command {
	return &cobra.Command{
		Use:   "migrate",
		Short: "Create the database schema if it is missing",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return withRuntime(cmd, open, func(ctx context.Context, rt *Runtime) error {
				if err := rt.Migrate(ctx); err != nil {
					return err
				}
				fmt.Fprintln(cmd.OutOrStdout(), "schema is up to date")
				return nil
			})
		},
	}
}

func newUserCmd(open Opener) *cobra.Command {
	userCmd := &cobra.Command{
		Use:   "user",
		Short: "Manage accounts",
	}

	var in service.RegisterInput
	var role string
	createCmd := &cobra.Command{
		Use:   "create",
		Short: "Create an account with any role",
		Long:  `Creates an account directly, bypassing the role rules of public registration. Used to bootstrap the first planner.`,
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			in.Role = model.Role(role)
			if !in.Role.Valid() {
				return fmt.Errorf("unknown role %q", role)
			}
			return withRuntime(cmd, open, func(ctx context.Context, rt *Runtime) error {
				u, err := rt.Users.Create(ctx, in)
				if errors.Is(err, service.ErrAlreadyExists) {
					return fmt.Errorf("an account with email %s already exists", in.Email)
				}
				if err != nil {
					return err
				}
				fmt.Fprintf(cmd.OutOrStdout(), "created user %s (%s, %s)\n", u.ID, u.Email, u.Role)
				return nil
			})
		},
	}

	f := createCmd.Flags()
	f.StringVar(&in.Email, "email", "", "account email")
	f.StringVar(&in.Password, "password", "", "account password, 8 to 72 characters")
	f.StringVar(&in.Name, "name", "", "first name")
	f.StringVar(&in.Surname, "surname", "", "last name")
	f.StringVar(&in.Phone, "phone", "", "phone number")
	f.StringVar(&role, "role", string(model.RolePlanner), "PLANNER, DEVELOPER, VISITOR or RESIDENT")
	for _, name := range []string{"email", "password", "name", "surname"} {
		_ = createCmd.MarkFlagRequired(name)
	}

	userCmd.AddCommand(createCmd)
	return userCmd
}

func newSeedCmd(open Opener) *cobra.Command {
	return &cobra.Command{
		Use:   "seed",
		Short: "Create the default stakeholders and document types",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return withRuntime(cmd, open, func(ctx context.Context, rt *Runtime) error {
				report, err := service.Seed(ctx, rt.Stakeholders, rt.DocTypes)
				if err != nil {
					return err
				}
				fmt.Fprintf(cmd.OutOrStdout(), "seeded %d stakeholders and %d document types\n",
					report.Stakeholders, report.DocumentTypes)
				return nil
			})
		},
	}
}
