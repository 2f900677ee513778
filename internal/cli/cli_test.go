package cli

import (
	"bytes"
	"context"
	"strings"
	"testing"
	"time"

	"github.com/sangkips/retailpos-api/internal/bootstrap"
	"github.com/sangkips/retailpos-api/internal/config"
	"github.com/sangkips/retailpos-api/internal/domain/entity"
	"github.com/shopspring/decimal"
)

func useMemoryBackend(t *testing.T) {
	t.Helper()
	cfg = &config.Config{
		POS:  config.POSConfig{StoreDriver: "memory", CartTTL: time.Hour},
		Seed: config.SeedConfig{DefaultBranchName: "Casa Central"},
	}
	b, err := bootstrap.Open(cfg, false)
	if err != nil {
		t.Fatalf("open backend: %v", err)
	}
	backend = b
	t.Cleanup(func() { backend, cfg = nil, nil })
}

func run(t *testing.T, args ...string) (string, error) {
	t.Helper()
	var out bytes.Buffer
	rootCmd.SetOut(&out)
	rootCmd.SetArgs(args)
	err := rootCmd.ExecuteContext(context.Background())
	return out.String(), err
}

func TestParsePlans(t *testing.T) {
	tests := []struct {
		name    string
		input   string
		want    int
		active  []bool
		wantErr bool
	}{
		{
			name: "string and float surcharges",
			input: `
[[plan]]
card_brand = "VISA"
installments = 3
surcharge_pct = "15"

[[plan]]
card_brand = "VISA"
installments = 6
surcharge_pct = 27.5
active = false
`,
			want:   2,
			active: []bool{true, false},
		},
		{name: "empty file", input: "", want: 0},
		{name: "unknown key", input: "[[plan]]\ncard_brand = \"VISA\"\nrate = 3\n", wantErr: true},
		{name: "malformed", input: "[[plan]\n", wantErr: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			plans, err := ParsePlans(strings.NewReader(tt.input))
			if (err != nil) != tt.wantErr {
				t.Fatalf("ParsePlans() error = %v, wantErr %v", err, tt.wantErr)
			}
			if tt.wantErr {
				return
			}
			if len(plans) != tt.want {
				t.Fatalf("got %d plans, want %d", len(plans), tt.want)
			}
			for i, active := range tt.active {
				if plans[i].Active != active {
					t.Errorf("plan %d active = %t, want %t", i, plans[i].Active, active)
				}
			}
		})
	}
}

func TestParsePlansSurcharge(t *testing.T) {
	plans, err := ParsePlans(strings.NewReader("[[plan]]\ncard_brand = \"MASTER\"\ninstallments = 12\nsurcharge_pct = \"42.25\"\n"))
	if err != nil {
		t.Fatalf("ParsePlans() error = %v", err)
	}
	if !plans[0].SurchargePct.Equal(decimal.RequireFromString("42.25")) {
		t.Errorf("surcharge = %s, want 42.25", plans[0].SurchargePct)
	}
}

func TestSeedIsIdempotent(t *testing.T) {
	useMemoryBackend(t)
	ctx := context.Background()
	seed := config.SeedConfig{AdminUsername: "root", AdminPassword: "secret-123", DefaultBranchName: "Casa Central"}

	for i := 0; i < 2; i++ {
		if err := backend.Seed(ctx, seed); err != nil {
			t.Fatalf("seed #%d: %v", i+1, err)
		}
	}
	branches, err := backend.Repos.Branches.List(ctx)
	if err != nil || len(branches) != 1 {
		t.Fatalf("branches = %v, %v; want exactly one", branches, err)
	}
	admin, err := backend.Repos.Operators.GetByUsername(ctx, "root")
	if err != nil || admin == nil {
		t.Fatalf("admin operator not seeded: %v", err)
	}
	if !admin.IsAdmin() || admin.BranchID == nil || *admin.BranchID != branches[0].ID {
		t.Errorf("admin = %+v, want admin role at the default branch", admin)
	}
}

func TestSetupCommands(t *testing.T) {
	useMemoryBackend(t)
	ctx := context.Background()

	out, err := run(t, "branch", "create", "Norte")
	if err != nil {
		t.Fatalf("branch create: %v", err)
	}
	branchID := strings.Fields(out)[0]

	if _, err := run(t, "operator", "create", "luz", "--password", "secret-123", "--branch", branchID); err != nil {
		t.Fatalf("operator create: %v", err)
	}
	op, _ := backend.Repos.Operators.GetByUsername(ctx, "luz")
	if op == nil || op.Role != entity.RoleCashier || op.BranchID == nil || op.BranchID.String() != branchID {
		t.Fatalf("operator = %+v", op)
	}

	v := &entity.Variant{ProductName: "Remera", Name: "M", SKU: "REM-M", Price: decimal.NewFromInt(50), VATRatePct: decimal.NewFromInt(21), Active: true}
	if err := backend.Repos.Catalog.Create(ctx, v); err != nil {
		t.Fatalf("create variant: %v", err)
	}
	if _, err := run(t, "stock", "set", "REM-M", "7", "--branch", branchID); err != nil {
		t.Fatalf("stock set: %v", err)
	}
	qty, _ := backend.Repos.Stock.Available(ctx, *op.BranchID, v.ID)
	if qty != 7 {
		t.Errorf("stock = %d, want 7", qty)
	}

	if _, err := run(t, "stock", "set", "REM-M", "many", "--branch", branchID); err == nil {
		t.Error("stock set with a non-numeric quantity should fail")
	}
}

func TestFlagsAndIssuerCommands(t *testing.T) {
	useMemoryBackend(t)

	if _, err := run(t, "flags", "set", "--flag", "allow_price_change", "--value", "yes"); err == nil {
		t.Error("flags set should reject a non-boolean value")
	}
	if _, err := run(t, "flags", "set", "--flag", "allow_price_change", "--value", "true"); err != nil {
		t.Fatalf("flags set: %v", err)
	}
	out, err := run(t, "flags", "list")
	if err != nil {
		t.Fatalf("flags list: %v", err)
	}
	if !strings.Contains(out, "allow_price_change\ttrue") {
		t.Errorf("flags list output = %q", out)
	}

	out, err = run(t, "issuer", "set", "--display-name", "Tienda Sur", "--regime", "monotributo")
	if err != nil {
		t.Fatalf("issuer set: %v", err)
	}
	if !strings.Contains(out, "display_name\tTienda Sur") || !strings.Contains(out, "fiscal_regime\tMONOTRIBUTISTA") {
		t.Errorf("issuer output = %q", out)
	}
}
