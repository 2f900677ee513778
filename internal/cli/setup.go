package cli

import (
	"fmt"

	"github.com/google/uuid"
	"github.com/sangkips/retailpos-api/internal/application/service"
	"github.com/sangkips/retailpos-api/internal/domain/entity"
	"github.com/sangkips/retailpos-api/internal/infrastructure/database"
	"github.com/spf13/cobra"
)

func init() {
	rootCmd.AddCommand(migrateCmd)
	rootCmd.AddCommand(branchCmd)
	rootCmd.AddCommand(operatorCmd)
	rootCmd.AddCommand(stockCmd)
	branchCmd.AddCommand(branchCreateCmd)
	branchCmd.AddCommand(branchListCmd)
	operatorCmd.AddCommand(operatorCreateCmd)
	stockCmd.AddCommand(stockSetCmd)

	branchCreateCmd.Flags().String("address", "", "Street address printed on receipts")

	operatorCreateCmd.Flags().StringP("password", "p", "", "Login password")
	operatorCreateCmd.Flags().String("name", "", "Display name")
	operatorCreateCmd.Flags().String("role", entity.RoleCashier, "admin or cashier")
	operatorCreateCmd.Flags().String("branch", "", "Branch ID the operator sells at")
	_ = operatorCreateCmd.MarkFlagRequired("password")

	stockSetCmd.Flags().String("branch", "", "Branch ID")
	_ = stockSetCmd.MarkFlagRequired("branch")
}

// ─── migrate ────────────────────────────────────────────────────────────────

var migrateCmd = &cobra.Command{
	Use:   "migrate",
	Short: "Create or update the database schema and seed defaults",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		if backend.DB == nil {
			return fmt.Errorf("migrate needs STORE_DRIVER=postgres")
		}
		if err := database.AutoMigrate(backend.DB); err != nil {
			return err
		}
		if err := backend.Seed(cmd.Context(), cfg.Seed); err != nil {
			return err
		}
		printf(cmd, "schema up to date\n")
		return nil
	},
}

// ─── branch ─────────────────────────────────────────────────────────────────

var branchCmd = &cobra.Command{
	Use:   "branch",
	Short: "Manage branches",
}

var branchCreateCmd = &cobra.Command{
	Use:   "create NAME",
	Short: "Create a branch",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		address, _ := cmd.Flags().GetString("address")
		branch, err := admin().CreateBranch(cmd.Context(), args[0], address)
		if err != nil {
			return err
		}
		printf(cmd, "%s\t%s\n", branch.ID, branch.Name)
		return nil
	},
}

var branchListCmd = &cobra.Command{
	Use:   "list",
	Short: "List branches",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		branches, err := backend.Repos.Branches.List(cmd.Context())
		if err != nil {
			return err
		}
		for _, b := range branches {
			printf(cmd, "%s\t%s\n", b.ID, b.Name)
		}
		return nil
	},
}

// ─── operator ───────────────────────────────────────────────────────────────

var operatorCmd = &cobra.Command{
	Use:   "operator",
	Short: "Manage operators",
}

var operatorCreateCmd = &cobra.Command{
	Use:   "create USERNAME",
	Short: "Create an operator",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		password, _ := cmd.Flags().GetString("password")
		name, _ := cmd.Flags().GetString("name")
		role, _ := cmd.Flags().GetString("role")
		branchID, err := optionalUUID(cmd, "branch")
		if err != nil {
			return err
		}

		operator, err := admin().CreateOperator(cmd.Context(), &service.CreateOperatorInput{
			Username:    args[0],
			Password:    password,
			DisplayName: name,
			Role:        role,
			BranchID:    branchID,
		})
		if err != nil {
			return err
		}
		printf(cmd, "%s\t%s\t%s\n", operator.ID, operator.Username, operator.Role)
		return nil
	},
}

// ─── stock ──────────────────────────────────────────────────────────────────

var stockCmd = &cobra.Command{
	Use:   "stock",
	Short: "Manage branch stock",
}

var stockSetCmd = &cobra.Command{
	Use:   "set SKU QUANTITY",
	Short: "Overwrite the on-hand quantity of a SKU at a branch",
	Args:  cobra.ExactArgs(2),
	RunE: func(cmd *cobra.Command, args []string) error {
		branchID, err := optionalUUID(cmd, "branch")
		if err != nil {
			return err
		}
		var qty int
		if _, err := fmt.Sscan(args[1], &qty); err != nil {
			return fmt.Errorf("invalid quantity %q", args[1])
		}
		row, err := admin().SetStock(cmd.Context(), *branchID, args[0], qty)
		if err != nil {
			return err
		}
		printf(cmd, "%s\t%d\n", args[0], row.Quantity)
		return nil
	},
}

// optionalUUID reads a UUID flag, returning nil when it was left empty
func optionalUUID(cmd *cobra.Command, name string) (*uuid.UUID, error) {
	raw, _ := cmd.Flags().GetString(name)
	if raw == "" {
		return nil, nil
	}
	id, err := uuid.Parse(raw)
	if err != nil {
		return nil, fmt.Errorf("invalid --%s: %w", name, err)
	}
	return &id, nil
}
