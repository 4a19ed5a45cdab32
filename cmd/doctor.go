package cmd

import (
	"errors"
	"fmt"

	"feedsync/feature/health"

	"github.com/spf13/cobra"
)

var doctorFix bool

// doctorCmd runs the health checks from the command line
var doctorCmd = &cobra.Command{
	Use:   "doctor",
	Short: "Check database, schema and archive",
	RunE: func(cmd *cobra.Command, args []string) error {
		d, err := bootstrap(cmd.Context(), nil)
		if err != nil {
			return err
		}
		defer d.close()

		svc := health.NewFeature(d.db, d.store, d.cfg.Storage.Bucket, d.logger).Service()
		ctx := cmd.Context()
		healthy := true

		fmt.Println("\n--- Doctor ---")
		if err := svc.CheckDatabase(ctx); err != nil {
			healthy = false
			fmt.Printf("Database:       FAILED (%v)\n", err)
		} else {
			fmt.Println("Database:       ok")
		}

		schema, err := svc.CheckSchema()
		switch {
		case err != nil:
			healthy = false
			fmt.Printf("Schema:         FAILED (%v)\n", err)
		case !schema.Matched:
			healthy = false
			fmt.Println("Schema:         MISMATCH")
			for table, t := range schema.Tables {
				if t.Status != "ok" {
					fmt.Printf("  %-18s exists=%v missing=%v\n", table, t.Exists, t.MissingColumns)
				}
			}
			for name, ok := range schema.Indexes {
				if !ok {
					fmt.Printf("  index %s missing\n", name)
				}
			}
		default:
			fmt.Println("Schema:         ok")
		}

		if !svc.ArchiveEnabled() {
			fmt.Println("Archive:        disabled")
		} else if report, err := svc.CheckArchive(ctx); err != nil {
			healthy = false
			fmt.Printf("Archive:        FAILED (%v)\n", err)
		} else if !report.BucketExists {
			if doctorFix {
				if err := svc.FixArchive(ctx); err != nil {
					return err
				}
				fmt.Printf("Archive:        created bucket %s\n", report.Bucket)
			} else {
				healthy = false
				fmt.Printf("Archive:        bucket %s missing (use --fix)\n", report.Bucket)
			}
		} else {
			fmt.Printf("Archive:        ok (has documents: %v)\n", report.HasDocuments)
		}
		fmt.Println("--------------")

		if !healthy {
			return errors.New("health checks failed")
		}
		return nil
	},
}

func init() {
	doctorCmd.Flags().BoolVar(&doctorFix, "fix", false, "Create the archive bucket if missing")
	RootCmd.AddCommand(doctorCmd)
}
