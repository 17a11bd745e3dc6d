package main

import (
	"errors"
	"fmt"
	"io"
	"os"
	"strings"
	"text/tabwriter"

	"go-pos/internal/service"

	"github.com/spf13/cobra"
)

func newResetPasswordCmd(open opener) *cobra.Command {
	var email, password string

	cmd := &cobra.Command{
		Use:   "reset-password",
		Short: "Set a new password for an existing user",
		RunE: func(cmd *cobra.Command, args []string) error {
			a, err := open()
			if err != nil {
				return err
			}
			defer a.close()

			if email == "" {
				email = a.cfg.Auth.AdminEmail
			}
			if err := a.svcs.Auth.SetPassword(cmd.Context(), email, password); err != nil {
				return fmt.Errorf("reset password for %s: %w", email, err)
			}
			fmt.Fprintf(cmd.OutOrStdout(), "Password for %s has been reset\n", email)
			return nil
		},
	}
	cmd.Flags().StringVar(&email, "email", "", "user email (defaults to ADMIN_EMAIL)")
	cmd.Flags().StringVar(&password, "password", "", "new password")
	_ = cmd.MarkFlagRequired("password")
	return cmd
}

func newCreateUserCmd(open opener) *cobra.Command {
	var req service.CreateUserRequest

	cmd := &cobra.Command{
		Use:   "create-user",
		Short: "Create an admin or cashier account",
		RunE: func(cmd *cobra.Command, args []string) error {
			a, err := open()
			if err != nil {
				return err
			}
			defer a.close()

			user, err := a.svcs.Auth.CreateUser(cmd.Context(), &req)
			if err != nil {
				var verr *service.ValidationError
				if errors.As(err, &verr) {
					return fmt.Errorf("%s: %s", verr.Message, strings.Join(verr.Details(), "; "))
				}
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "Created %s user %s (%s)\n", user.Role, user.Email, user.ID)
			return nil
		},
	}
	cmd.Flags().StringVar(&req.Email, "email", "", "login email")
	cmd.Flags().StringVar(&req.Password, "password", "", "initial password")
	cmd.Flags().StringVar(&req.FullName, "name", "", "display name")
	cmd.Flags().StringVar(&req.Role, "role", "cashier", "admin or cashier")
	_ = cmd.MarkFlagRequired("email")
	_ = cmd.MarkFlagRequired("password")
	_ = cmd.MarkFlagRequired("name")
	return cmd
}

func newExportCmd(open opener) *cobra.Command {
	var start, end, out string

	cmd := &cobra.Command{
		Use:   "export",
		Short: "Write completed transactions as CSV",
		RunE: func(cmd *cobra.Command, args []string) error {
			a, err := open()
			if err != nil {
				return err
			}
			defer a.close()

			var w io.Writer = cmd.OutOrStdout()
			if out != "" && out != "-" {
				f, err := os.Create(out)
				if err != nil {
					return err
				}
				defer f.Close()
				w = f
			}
			return a.svcs.Reports.ExportCSV(cmd.Context(), start, end, w)
		},
	}
	cmd.Flags().StringVar(&start, "start", "", "first day, YYYY-MM-DD")
	cmd.Flags().StringVar(&end, "end", "", "last day, YYYY-MM-DD")
	cmd.Flags().StringVarP(&out, "output", "o", "-", "output file")
	return cmd
}

func newLowStockCmd(open opener) *cobra.Command {
	var threshold int

	cmd := &cobra.Command{
		Use:   "low-stock",
		Short: "List products at or below the stock threshold",
		RunE: func(cmd *cobra.Command, args []string) error {
			a, err := open()
			if err != nil {
				return err
			}
			defer a.close()

			var t *int
			if cmd.Flags().Changed("threshold") {
				t = &threshold
			}
			products, err := a.svcs.Reports.LowStock(cmd.Context(), t)
			if err != nil {
				return err
			}

			tw := tabwriter.NewWriter(cmd.OutOrStdout(), 0, 4, 2, ' ', 0)
			fmt.Fprintln(tw, "ID\tBARCODE\tNAME\tSTOCK\tUNIT")
			for _, p := range products {
				fmt.Fprintf(tw, "%d\t%s\t%s\t%d\t%s\n", p.ID, p.Barcode, p.Name, p.Stock, p.Unit)
			}
			return tw.Flush()
		},
	}
	cmd.Flags().IntVar(&threshold, "threshold", 0, "override LOW_STOCK_THRESHOLD")
	return cmd
}
