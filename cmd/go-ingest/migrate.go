package main

import (
	"fmt"

	"github.com/spf13/cobra"

	gormdb "go-ingest/internal/infra/database/gorm"
	"go-ingest/internal/infra/database/sqlc"
)

func getMigrateCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "migrate",
		Short: "Creates the entity tables",
		Long: `Creates every entity table with its composite unique index when it does not
exist yet. The gorm backend uses AutoMigrate, the others run the embedded DDL.`,
		RunE: runMigrate,
	}
}

func runMigrate(cmd *cobra.Command, args []string) error {
	ctx := cmd.Context()
	dbCfg := getConfig().Database

	switch {
	case dbCfg.Driver == "memory":
		fmt.Fprintln(cmd.OutOrStdout(), "Memory store needs no migration")
		return nil

	case dbCfg.Backend == "gorm":
		conn, err := gormdb.Open(dbCfg)
		if err != nil {
			return err
		}
		if sqlDB, err := conn.DB(); err == nil {
			defer sqlDB.Close()
		}
		if err := gormdb.Migrate(conn); err != nil {
			return err
		}

	default:
		conn, dialect, err := sqlc.Open(ctx, dbCfg)
		if err != nil {
			return err
		}
		defer conn.Close()
		if err := sqlc.Migrate(ctx, conn, dialect); err != nil {
			return err
		}
	}

	fmt.Fprintf(cmd.OutOrStdout(), "Schema ready on %s\n", dbCfg.Driver)
	return nil
}
