package cli

import (
	"fmt"
	"io"
	"os"
	"strconv"

	"github.com/BurntSushi/toml"
	"github.com/sangkips/retailpos-api/internal/application/service"
	"github.com/shopspring/decimal"
	"github.com/spf13/cobra"
)

func init() {
	rootCmd.AddCommand(plansCmd)
	rootCmd.AddCommand(flagsCmd)
	rootCmd.AddCommand(issuerCmd)
	plansCmd.AddCommand(plansImportCmd)
	flagsCmd.AddCommand(flagsListCmd)
	flagsCmd.AddCommand(flagsSetCmd)
	issuerCmd.AddCommand(issuerShowCmd)
	issuerCmd.AddCommand(issuerSetCmd)

	flagsListCmd.Flags().String("branch", "", "Resolve values for this branch")
	flagsSetCmd.Flags().String("flag", "", "Flag name, e.g. allow_price_change")
	flagsSetCmd.Flags().String("value", "", "true or false")
	flagsSetCmd.Flags().String("branch", "", "Override only this branch")
	_ = flagsSetCmd.MarkFlagRequired("flag")
	_ = flagsSetCmd.MarkFlagRequired("value")

	for _, name := range []string{"display-name", "legal-name", "tax-id", "address", "regime"} {
		issuerSetCmd.Flags().String(name, "", "")
	}
}

// PlanFile is the TOML layout accepted by "plans import":
//
//	[[plan]]
//	card_brand = "VISA"
//	installments = 3
//	surcharge_pct = "15"
//	active = true
type PlanFile struct {
	Plans []struct {
		CardBrand    string          `toml:"card_brand"`
		Installments int             `toml:"installments"`
		SurchargePct decimal.Decimal `toml:"surcharge_pct"`
		Active       *bool           `toml:"active"`
	} `toml:"plan"`
}

// ParsePlans decodes a plan file. Plans are active unless they say otherwise.
func ParsePlans(r io.Reader) ([]service.PlanInput, error) {
	var file PlanFile
	md, err := toml.NewDecoder(r).Decode(&file)
	if err != nil {
		return nil, fmt.Errorf("parse plans: %w", err)
	}
	if keys := md.Undecoded(); len(keys) > 0 {
		return nil, fmt.Errorf("parse plans: unknown key %s", keys[0])
	}

	out := make([]service.PlanInput, 0, len(file.Plans))
	for _, p := range file.Plans {
		active := true
		if p.Active != nil {
			active = *p.Active
		}
		out = append(out, service.PlanInput{
			CardBrand:    p.CardBrand,
			Installments: p.Installments,
			SurchargePct: p.SurchargePct,
			Active:       active,
		})
	}
	return out, nil
}

// ─── plans ──────────────────────────────────────────────────────────────────

var plansCmd = &cobra.Command{
	Use:   "plans",
	Short: "Manage card installment plans",
}

var plansImportCmd = &cobra.Command{
	Use:   "import FILE.toml",
	Short: "Upsert installment plans from a TOML file",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		f, err := os.Open(args[0])
		if err != nil {
			return err
		}
		defer f.Close()

		plans, err := ParsePlans(f)
		if err != nil {
			return err
		}
		n, err := admin().ImportPlans(cmd.Context(), plans)
		if err != nil {
			return err
		}
		printf(cmd, "imported %d plans\n", n)
		return nil
	},
}

// ─── flags ──────────────────────────────────────────────────────────────────

var flagsCmd = &cobra.Command{
	Use:   "flags",
	Short: "Manage sales flags",
}

var flagsListCmd = &cobra.Command{
	Use:   "list",
	Short: "Show the effective sales flags",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		branchID, err := optionalUUID(cmd, "branch")
		if err != nil {
			return err
		}
		values, err := settings().ListFlags(cmd.Context(), branchID)
		if err != nil {
			return err
		}
		for _, v := range values {
			printf(cmd, "%s\t%t\t%s\n", v.Flag, v.Value, v.Source)
		}
		return nil
	},
}

var flagsSetCmd = &cobra.Command{
	Use:   "set --flag NAME --value true|false",
	Short: "Set a sales flag globally or for one branch",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		flag, _ := cmd.Flags().GetString("flag")
		raw, _ := cmd.Flags().GetString("value")
		value, err := strconv.ParseBool(raw)
		if err != nil {
			return fmt.Errorf("invalid --value %q", raw)
		}
		branchID, err := optionalUUID(cmd, "branch")
		if err != nil {
			return err
		}
		if err := settings().SetFlag(cmd.Context(), flag, value, branchID); err != nil {
			return err
		}
		printf(cmd, "%s=%t\n", flag, value)
		return nil
	},
}

// ─── issuer ─────────────────────────────────────────────────────────────────

var issuerCmd = &cobra.Command{
	Use:   "issuer",
	Short: "Manage the issuer identity printed on sales",
}

var issuerShowCmd = &cobra.Command{
	Use:   "show",
	Short: "Show the issuer identity",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		issuer, err := settings().Issuer(cmd.Context())
		if err != nil {
			return err
		}
		printIssuer(cmd, issuer)
		return nil
	},
}

var issuerSetCmd = &cobra.Command{
	Use:   "set",
	Short: "Update the issuer identity; omitted fields are kept",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		changed := func(name string) *string {
			if !cmd.Flags().Changed(name) {
				return nil
			}
			v, _ := cmd.Flags().GetString(name)
			return &v
		}
		issuer, err := settings().SetIssuer(cmd.Context(), &service.IssuerInput{
			DisplayName: changed("display-name"),
			LegalName:   changed("legal-name"),
			TaxID:       changed("tax-id"),
			Address:     changed("address"),
			Regime:      changed("regime"),
		})
		if err != nil {
			return err
		}
		printIssuer(cmd, issuer)
		return nil
	},
}

func printIssuer(cmd *cobra.Command, issuer service.Issuer) {
	printf(cmd, "display_name\t%s\nlegal_name\t%s\ntax_id\t%s\naddress\t%s\nfiscal_regime\t%s\n",
		issuer.DisplayName, issuer.LegalName, issuer.TaxID, issuer.Address, issuer.Regime)
}
