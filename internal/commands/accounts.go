package commands

import (
	"fmt"
	"strconv"

	"github.com/spf13/cobra"
	"github.com/usamajaved138/erp-frontend/internal/core/accounttree"
	"github.com/usamajaved138/erp-frontend/internal/core/domain"
)

func newAddCommand(opts *globalOptions) *cobra.Command {
	var name string
	var accountType string
	var parentID int

	cmd := &cobra.Command{
		Use:   "add",
		Short: "Create an account",
		Long: "Create an account. Sub-accounts always take the type of their parent;\n" +
			"--type is required for top-level accounts only.",
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			view, err := openView(cmd, opts)
			if err != nil {
				return err
			}
			defer view.Close()

			form, err := view.HandleAddAccount(parentID)
			if err != nil {
				return err
			}
			draft := form.Draft
			draft.AccountName = name
			if !form.TypeLocked {
				draft.AccountType = domain.NormalizeAccountType(accountType)
			}

			accountID, err := view.SubmitCreate(commandContext(cmd), draft)
			if err != nil {
				return err
			}
			printNotifications(cmd, view.Notifications())
			if node, ok := accounttree.FindNode(view.Snapshot().Tree, accountID); ok {
				fmt.Fprintf(cmd.OutOrStdout(), "%d\t%s\t%s\n", accountID, node.AccountCode, node.AccountType)
				return nil
			}
			fmt.Fprintf(cmd.OutOrStdout(), "%d\n", accountID)
			return nil
		},
	}

	cmd.Flags().StringVar(&name, "name", "", "account name (required)")
	_ = cmd.MarkFlagRequired("name")
	cmd.Flags().StringVar(&accountType, "type", "", "account type for a top-level account (ASSET, LIABILITY, EQUITY, REVENUE, EXPENSE)")
	cmd.Flags().IntVar(&parentID, "parent", 0, "parent account id, 0 for a top-level account")

	return cmd
}

func newEditCommand(opts *globalOptions) *cobra.Command {
	var name string
	var code string
	var accountType string
	var parentID int

	cmd := &cobra.Command{
		Use:   "edit <account-id>",
		Short: "Update an account",
		Long:  "Update an account. Only the fields given as flags change.",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			accountID, err := parseAccountID(args[0])
			if err != nil {
				return err
			}
			view, err := openView(cmd, opts)
			if err != nil {
				return err
			}
			defer view.Close()

			form, err := view.HandleEditAccount(accountID)
			if err != nil {
				return err
			}
			draft := form.Draft
			flags := cmd.Flags()
			if flags.Changed("name") {
				draft.AccountName = name
			}
			if flags.Changed("code") {
				draft.AccountCode = code
			}
			if flags.Changed("type") {
				draft.AccountType = domain.NormalizeAccountType(accountType)
			}
			if flags.Changed("parent") {
				draft.ParentAccountID = parentID
			}

			if err := view.SubmitUpdate(commandContext(cmd), draft); err != nil {
				return err
			}
			printNotifications(cmd, view.Notifications())
			return nil
		},
	}

	cmd.Flags().StringVar(&name, "name", "", "new account name")
	cmd.Flags().StringVar(&code, "code", "", "new account code")
	cmd.Flags().StringVar(&accountType, "type", "", "new type, top-level accounts without sub-accounts only")
	cmd.Flags().IntVar(&parentID, "parent", 0, "new parent account id, 0 to make it top-level")

	return cmd
}

func newDeleteCommand(opts *globalOptions) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "delete <account-id>",
		Short: "Delete an account without sub-accounts",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			accountID, err := parseAccountID(args[0])
			if err != nil {
				return err
			}
			view, err := openView(cmd, opts)
			if err != nil {
				return err
			}
			defer view.Close()

			if err := view.DeleteAccount(commandContext(cmd), accountID); err != nil {
				return err
			}
			printNotifications(cmd, view.Notifications())
			return nil
		},
	}
	return cmd
}

func newParentsCommand(opts *globalOptions) *cobra.Command {
	var exclude int

	cmd := &cobra.Command{
		Use:   "parents",
		Short: "List the accounts that can be chosen as a parent",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			view, err := openView(cmd, opts)
			if err != nil {
				return err
			}
			defer view.Close()

			var form domain.AccountForm
			if exclude > 0 {
				form, err = view.HandleEditAccount(exclude)
			} else {
				form, err = view.HandleAddAccount(0)
			}
			if err != nil {
				return err
			}

			out := cmd.OutOrStdout()
			fmt.Fprintf(out, "%d\t(none, top-level)\n", 0)
			for _, opt := range form.ParentOptions {
				fmt.Fprintf(out, "%d\t%s\t%s\n", opt.AccountID, opt.Label, opt.AccountType)
			}
			return nil
		},
	}

	cmd.Flags().IntVar(&exclude, "exclude", 0, "account being moved; it and its sub-accounts are left out")

	return cmd
}

func parseAccountID(raw string) (int, error) {
	id, err := strconv.Atoi(raw)
	if err != nil || id <= 0 {
		return 0, fmt.Errorf("invalid account id %q", raw)
	}
	return id, nil
}
