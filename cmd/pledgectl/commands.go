package main

import (
	"encoding/json"
	"fmt"
	"os"
	"time"

	"ncic-pledge/internal/adapters/cache"
	"ncic-pledge/internal/adapters/persistence/models"
	"ncic-pledge/internal/adapters/persistence/repositories"
	"ncic-pledge/internal/config"
	"ncic-pledge/internal/core/services"

	"github.com/spf13/cobra"
)

func seedAdminCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "seed-admin",
		Short: "Create the bootstrap superAdmin from ADMIN_EMAIL / ADMIN_PASSWORD",
		RunE: func(cmd *cobra.Command, args []string) error {
			e, err := connect()
			if err != nil {
				return err
			}
			defer e.close()

			if err := models.AutoMigrate(e.db); err != nil {
				return err
			}

			created, err := config.NewSeeder(e.db, e.cfg.Bootstrap, e.log).SeedSuperAdmin()
			if err != nil {
				return err
			}
			if created {
				fmt.Printf("superAdmin %s created\n", e.cfg.Bootstrap.Email)
			} else {
				fmt.Println("a superAdmin already exists, nothing to do")
			}
			return nil
		},
	}
}

func sweepCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "sweep",
		Short: "Repair assignment links, refresh overdue flags and purge expired tokens",
		RunE: func(cmd *cobra.Command, args []string) error {
			e, err := connect()
			if err != nil {
				return err
			}
			defer e.close()

			sweep := services.NewSweepService(
				repositories.NewStaffRepository(e.db),
				repositories.NewPledgeRepository(e.db),
				repositories.NewRefreshTokenRepository(e.db),
				repositories.NewTxManager(e.db),
				e.cfg.Location(),
				e.log,
			)

			repairOnly, _ := cmd.Flags().GetBool("repair-only")
			if repairOnly {
				removed, added, err := sweep.RepairAssignments(cmd.Context())
				if err != nil {
					return err
				}
				fmt.Printf("links removed: %d, links added: %d\n", removed, added)
				return nil
			}

			result, err := sweep.RunOnce(cmd.Context())
			if err != nil {
				return err
			}
			return printJSON(result)
		},
	}

	cmd.Flags().Bool("repair-only", false, "Only repair assignment links")
	return cmd
}

func exportCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "export",
		Short: "Write non-archived pledges to an Excel workbook",
		RunE: func(cmd *cobra.Command, args []string) error {
			out, _ := cmd.Flags().GetString("out")
			if out == "" {
				out = fmt.Sprintf("pledges-%s.xlsx", time.Now().Format("20060102"))
			}

			e, err := connect()
			if err != nil {
				return err
			}
			defer e.close()

			f, err := os.Create(out)
			if err != nil {
				return err
			}
			defer f.Close()

			reports := newReportService(e)
			if err := reports.ExportPledges(cmd.Context(), f); err != nil {
				return err
			}
			fmt.Printf("written %s\n", out)
			return nil
		},
	}

	cmd.Flags().StringP("out", "o", "", "Output file (default pledges-YYYYMMDD.xlsx)")
	return cmd
}

func reportCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "report",
		Short: "Print collection reports",
	}

	cmd.AddCommand(&cobra.Command{
		Use:   "totals",
		Short: "Total collected and remaining over non-archived pledges",
		RunE: func(cmd *cobra.Command, args []string) error {
			e, err := connect()
			if err != nil {
				return err
			}
			defer e.close()

			totals, err := newReportService(e).TotalCollection(cmd.Context())
			if err != nil {
				return err
			}
			return printJSON(totals)
		},
	})

	monthly := &cobra.Command{
		Use:   "monthly",
		Short: "Payments collected in one calendar month",
		RunE: func(cmd *cobra.Command, args []string) error {
			year, _ := cmd.Flags().GetInt("year")
			month, _ := cmd.Flags().GetInt("month")

			e, err := connect()
			if err != nil {
				return err
			}
			defer e.close()

			report, err := newReportService(e).MonthlyCollection(cmd.Context(), year, month)
			if err != nil {
				return err
			}
			return printJSON(report)
		},
	}
	now := time.Now()
	monthly.Flags().Int("year", now.Year(), "Year")
	monthly.Flags().Int("month", int(now.Month()), "Month (1-12)")
	cmd.AddCommand(monthly)

	return cmd
}

// newReportService wires a report service without the Redis cache
func newReportService(e *env) *services.ReportService {
	return services.NewReportService(
		repositories.NewPledgeRepository(e.db),
		repositories.NewStaffRepository(e.db),
		cache.NewReportCache(nil, 0),
		e.cfg.Location(),
		e.log,
	)
}

func printJSON(v interface{}) error {
	enc := json.NewEncoder(os.Stdout)
	enc.SetIndent("", "  ")
	return enc.Encode(v)
}
