// Package main provides an operator CLI for parts stock maintenance.
// Usage: stockctl migrate
//
//	stockctl groups
//	stockctl set-qty --shop shibuya --pool SE-FAMILY --type battery --supplier sup-genuine --field actualQty --qty 10
//	stockctl shortages --cumulative --only-short --out shortage.xlsx
package main

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strconv"
	"strings"
	"text/tabwriter"

	appctx "repairdesk/internal/core/context"
	"repairdesk/internal/domain/partspool"
	"repairdesk/internal/domain/partsstock"
	"repairdesk/internal/domain/shortage"
	"repairdesk/internal/infrastructure/export"
	"repairdesk/internal/infrastructure/lock"
	"repairdesk/internal/infrastructure/storage/postgres"
	"repairdesk/internal/infrastructure/storage/postgres/pool_repo"
	"repairdesk/internal/infrastructure/storage/postgres/stock_repo"
)

func main() {
	if len(os.Args) < 2 {
		printUsage()
		os.Exit(1)
	}

	ctx := appctx.WithStaff(context.Background(), &appctx.StaffContext{
		StaffID: getEnv("STOCKCTL_STAFF_ID", "stockctl"),
	})
	args := parseArgs(os.Args[2:])

	var err error
	switch os.Args[1] {
	case "migrate":
		err = migrate(ctx, args)
	case "groups":
		err = listGroups(ctx)
	case "set-qty":
		err = setQuantity(ctx, args)
	case "shortages":
		err = shortages(ctx, args)
	case "help", "--help", "-h":
		printUsage()
		return
	default:
		fmt.Printf("Unknown command: %s\n", os.Args[1])
		printUsage()
		os.Exit(1)
	}

	if err != nil {
		fmt.Printf("Error: %v\n", err)
		os.Exit(1)
	}
}

func printUsage() {
	fmt.Println(`repairdesk parts stock CLI

Usage:
  stockctl <command> [options]

Commands:
  migrate     Apply SQL migrations in order
  groups      List parts pool groups
  set-qty     Set a pool aggregate and redistribute it across members
  shortages   Print or export the shortage report
  help        Show this help

Environment Variables:
  DATABASE_URL        Connection string (required)
  MIGRATIONS_DIR      Directory with *.sql migrations (default: migrations)
  STOCKCTL_STAFF_ID   Staff id recorded in the audit log (default: stockctl)

Examples:
  stockctl migrate
  stockctl set-qty --shop shibuya --pool SE-FAMILY --type battery --supplier sup-genuine --field actualQty --qty 10
  stockctl shortages --shop shibuya,shinjuku --only-short
  stockctl shortages --cumulative --out shortage.xlsx`)
}

// args holds --key value pairs; a flag without a value is stored as "true".
type args map[string]string

func parseArgs(raw []string) args {
	out := args{}
	for i := 0; i < len(raw); i++ {
		name, ok := strings.CutPrefix(raw[i], "--")
		if !ok || name == "" {
			continue
		}
		if k, v, found := strings.Cut(name, "="); found {
			out[k] = v
			continue
		}
		if i+1 < len(raw) && !strings.HasPrefix(raw[i+1], "--") {
			out[name] = raw[i+1]
			i++
			continue
		}
		out[name] = "true"
	}
	return out
}

func (a args) required(names ...string) error {
	var missing []string
	for _, n := range names {
		if strings.TrimSpace(a[n]) == "" {
			missing = append(missing, "--"+n)
		}
	}
	if len(missing) > 0 {
		return fmt.Errorf("missing %s", strings.Join(missing, ", "))
	}
	return nil
}

func (a args) list(name string) []string {
	var out []string
	for _, p := range strings.Split(a[name], ",") {
		if p = strings.TrimSpace(p); p != "" {
			out = append(out, p)
		}
	}
	return out
}

func (a args) flag(name string) bool {
	b, _ := strconv.ParseBool(a[name])
	return b
}

func getEnv(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}

func openPool(ctx context.Context) (*postgres.Pool, error) {
	dsn := os.Getenv("DATABASE_URL")
	if dsn == "" {
		return nil, fmt.Errorf("DATABASE_URL environment variable is required")
	}
	cfg := postgres.DefaultPoolConfig(dsn)
	cfg.AppName = "repairdesk-stockctl"
	cfg.MinConns = 0
	return postgres.NewPool(ctx, cfg)
}

// migrationFiles returns the *.sql files of dir in lexical order.
func migrationFiles(dir string) ([]string, error) {
	files, err := filepath.Glob(filepath.Join(dir, "*.sql"))
	if err != nil {
		return nil, err
	}
	if len(files) == 0 {
		return nil, fmt.Errorf("no migrations found in %s", dir)
	}
	sort.Strings(files)
	return files, nil
}

func migrate(ctx context.Context, a args) error {
	dir := a["dir"]
	if dir == "" {
		dir = getEnv("MIGRATIONS_DIR", "migrations")
	}
	files, err := migrationFiles(dir)
	if err != nil {
		return err
	}

	pool, err := openPool(ctx)
	if err != nil {
		return err
	}
	defer pool.Close()

	for _, file := range files {
		fmt.Printf("Applying %s...\n", filepath.Base(file))
		sql, err := os.ReadFile(file)
		if err != nil {
			return err
		}
		// Without arguments pgx uses the simple protocol, so a file may hold many statements.
		if _, err := pool.Exec(ctx, string(sql)); err != nil {
			fmt.Printf("  ✗ Failed: %v\n", err)
			return fmt.Errorf("migration %s: %w", filepath.Base(file), err)
		}
		fmt.Printf("  ✓ Done\n")
	}
	return nil
}

func listGroups(ctx context.Context) error {
	pool, err := openPool(ctx)
	if err != nil {
		return err
	}
	defer pool.Close()

	pools := partspool.NewService(pool_repo.NewPoolRepo(postgres.NewTxManager(pool)))
	groups, err := pools.ListGroups(ctx)
	if err != nil {
		return err
	}

	if len(groups) == 0 {
		fmt.Println("No parts groups found")
		return nil
	}

	w := tabwriter.NewWriter(os.Stdout, 0, 0, 2, ' ', 0)
	fmt.Fprintln(w, "KEY\tNAME\tMEMBERS\tSHARED")
	for _, g := range groups {
		types := make([]string, len(g.SharedTypes))
		for i, pt := range g.SharedTypes {
			types[i] = string(pt)
		}
		fmt.Fprintf(w, "%s\t%s\t%s\t%s\n", g.Key, truncate(g.Name, 30), strings.Join(g.Members, ","), strings.Join(types, ","))
	}
	return w.Flush()
}

func setQuantity(ctx context.Context, a args) error {
	if err := a.required("shop", "pool", "type", "supplier", "field", "qty"); err != nil {
		return err
	}
	field, err := partsstock.ParseField(a["field"])
	if err != nil {
		return err
	}
	qty, err := strconv.Atoi(a["qty"])
	if err != nil {
		return fmt.Errorf("--qty must be an integer: %w", err)
	}

	pool, err := openPool(ctx)
	if err != nil {
		return err
	}
	defer pool.Close()

	txManager := postgres.NewTxManager(pool)
	audit, err := postgres.NewAuditService(txManager, postgres.DefaultCompressThreshold)
	if err != nil {
		return err
	}
	stock := partsstock.NewService(partsstock.ServiceConfig{
		Repo:      stock_repo.NewStockRepo(txManager),
		Pools:     partspool.NewService(pool_repo.NewPoolRepo(txManager)),
		TxManager: txManager,
		Locker:    lock.NewLocal(),
		Auditor:   audit,
	})

	edit, err := stock.SetPoolQuantity(ctx, partsstock.SetPoolQuantityRequest{
		ShopID:         a["shop"],
		PoolKeyOrModel: a["pool"],
		PartsType:      partspool.PartsType(a["type"]),
		SupplierID:     a["supplier"],
		Field:          field,
		NewAggregate:   qty,
	})
	if err != nil {
		return err
	}

	fmt.Printf("✓ %s %s set to %d across %d record(s)\n", edit.Unit.Key, edit.Field, edit.Aggregate, len(edit.Records))
	w := tabwriter.NewWriter(os.Stdout, 0, 0, 2, ' ', 0)
	fmt.Fprintln(w, "MODEL\tPREVIOUS\tVALUE\tVERSION")
	for _, r := range edit.Records {
		fmt.Fprintf(w, "%s\t%d\t%d\t%d\n", r.Model, r.Previous, r.Value, r.Version)
	}
	return w.Flush()
}

func shortageFilter(a args) shortage.Filter {
	f := shortage.Filter{
		ShopIDs:      a.list("shop"),
		SupplierIDs:  a.list("supplier"),
		Cumulative:   a.flag("cumulative"),
		OnlyShort:    a.flag("only-short"),
		HiddenModels: a.list("hide"),
	}
	for _, pt := range a.list("type") {
		f.PartsTypes = append(f.PartsTypes, partspool.PartsType(pt))
	}
	return f
}

func shortages(ctx context.Context, a args) error {
	pool, err := openPool(ctx)
	if err != nil {
		return err
	}
	defer pool.Close()

	txManager := postgres.NewTxManager(pool)
	svc := shortage.NewService(
		stock_repo.NewStockRepo(txManager),
		partspool.NewService(pool_repo.NewPoolRepo(txManager)),
		txManager,
	)

	report, err := svc.GetShortageReport(ctx, shortageFilter(a))
	if err != nil {
		return err
	}

	if out := a["out"]; out != "" {
		data, err := export.ShortageWorkbook(report)
		if err != nil {
			return err
		}
		if err := os.WriteFile(out, data, 0o644); err != nil {
			return err
		}
		fmt.Printf("✓ Wrote %d row(s) to %s\n", len(report.Rows), out)
		return nil
	}

	w := tabwriter.NewWriter(os.Stdout, 0, 0, 2, ' ', 0)
	fmt.Fprintln(w, "SHOP\tUNIT\tTYPE\tSUPPLIER\tREQUIRED\tACTUAL\tSHORT")
	for _, r := range report.Rows {
		shop := r.ShopID
		if report.Cumulative {
			shop = fmt.Sprintf("(%d shops)", len(r.Shops))
		}
		fmt.Fprintf(w, "%s\t%s\t%s\t%s\t%d\t%d\t%d\n",
			shop, r.UnitKey, r.PartsType, r.SupplierID, r.TotalRequired, r.TotalActual, r.Shortage)
	}
	if err := w.Flush(); err != nil {
		return err
	}
	fmt.Printf("%d unit(s) short\n", report.ShortageCount)
	return nil
}

func truncate(s string, maxLen int) string {
	if len(s) <= maxLen {
		return s
	}
	return s[:maxLen-3] + "..."
}
