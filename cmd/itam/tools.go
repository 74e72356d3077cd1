package main

import (
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"

	"github.com/spf13/cobra"

	"github.com/yi-nology/itam/biz/service"
	"github.com/yi-nology/itam/pkg/storage"
)

const adminPasswordEnv = "ITAM_ADMIN_PASSWORD"

func newSeedCmd() *cobra.Command {
	var (
		password string
		samples  bool
	)

	cmd := &cobra.Command{
		Use:   "seed",
		Short: "Create the first super admin and optional sample asset types",
		Long: `Create the first SUPER_ADMIN account when none exists. The password comes
from --password or the ITAM_ADMIN_PASSWORD environment variable. With
--samples the built-in "software" and "hardware" asset types are created as
well. Existing rows are never modified.`,
		RunE: func(cmd *cobra.Command, args []string) error {
			a, err := bootstrap()
			if err != nil {
				return err
			}
			defer a.close()

			if password == "" {
				password = os.Getenv(adminPasswordEnv)
			}
			return service.EnsureDefaults(cmd.Context(), a.db, service.SeedOptions{
				AdminPassword: password,
				SampleTypes:   samples,
			}, a.logger)
		},
	}

	cmd.Flags().StringVar(&password, "password", "", "Password for the initial admin account")
	cmd.Flags().BoolVar(&samples, "samples", false, "Also create the sample asset types")
	return cmd
}

func newImportCmd() *cobra.Command {
	var typeSlug string

	cmd := &cobra.Command{
		Use:   "import FILE",
		Short: "Import a CSV file into an asset type",
		Long: `Import a CSV file exactly as the HTTP import endpoint does and print the
row report as JSON. Rows that fail validation are reported and skipped.`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			if typeSlug == "" {
				return errors.New("--type is required")
			}
			data, err := os.ReadFile(args[0])
			if err != nil {
				return fmt.Errorf("reading %s: %w", args[0], err)
			}

			a, err := bootstrap()
			if err != nil {
				return err
			}
			defer a.close()

			store, err := storage.New(a.cfg)
			if err != nil {
				return fmt.Errorf("storage: %w", err)
			}
			svc := service.NewService(a.db, store, a.cfg, nil, a.logger)

			result, importErr := svc.ImportCSV(cmd.Context(), &service.ImportInput{
				TypeSlug: typeSlug,
				FileName: filepath.Base(args[0]),
				Data:     data,
			})
			if result != nil {
				if err := printJSON(result); err != nil {
					return err
				}
			}
			return importErr
		},
	}

	cmd.Flags().StringVarP(&typeSlug, "type", "t", "", "Asset type slug to import into")
	return cmd
}

func newAdminCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "admin",
		Short: "Manage admin accounts offline",
	}
	cmd.AddCommand(newAdminCreateCmd())
	return cmd
}

func newAdminCreateCmd() *cobra.Command {
	var input service.AdminInput

	cmd := &cobra.Command{
		Use:   "create",
		Short: "Create an admin account",
		RunE: func(cmd *cobra.Command, args []string) error {
			if input.Password == "" {
				input.Password = os.Getenv(adminPasswordEnv)
			}

			a, err := bootstrap()
			if err != nil {
				return err
			}
			defer a.close()

			svc := service.NewService(a.db, nil, a.cfg, nil, a.logger)
			admin, err := svc.CreateAdmin(cmd.Context(), &input)
			if err != nil {
				return err
			}
			return printJSON(admin)
		},
	}

	cmd.Flags().StringVar(&input.Username, "username", "", "Login name")
	cmd.Flags().StringVar(&input.Password, "password", "", "Password (or ITAM_ADMIN_PASSWORD)")
	cmd.Flags().StringVar(&input.Name, "name", "", "Display name")
	cmd.Flags().StringVar(&input.Email, "email", "", "Contact email")
	cmd.Flags().StringVar(&input.Role, "role", "ADMIN", "ADMIN or SUPER_ADMIN")
	cmd.Flags().StringSliceVar(&input.Permissions, "permission", nil, "Permission to grant; repeatable")
	return cmd
}

func printJSON(v any) error {
	out, err := json.MarshalIndent(v, "", "  ")
	if err != nil {
		return fmt.Errorf("formatting output: %w", err)
	}
	fmt.Println(string(out))
	return nil
}
