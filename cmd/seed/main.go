package main

import (
	"context"
	"flag"
	"os"
	"time"

	database "github.com/gustavoisensee/MyFinances/db"
	"github.com/gustavoisensee/MyFinances/internal/config"
	applog "github.com/gustavoisensee/MyFinances/internal/log"
	"github.com/gustavoisensee/MyFinances/internal/seed"
)

func main() {
	clean := flag.Bool("clean", false, "delete every row instead of seeding")
	flag.Parse()

	cfg := config.Load()
	logger := applog.New(applog.Config{
		Level:     cfg.SlogLevel(),
		Component: applog.ComponentSeed,
		Output:    os.Stdout,
	})

	if err := run(cfg, logger, *clean); err != nil {
		logger.Error("seed failed", applog.FieldError, err)
		os.Exit(1)
	}
}

func run(cfg *config.Config, logger *applog.Logger, clean bool) error {
	ctx, cancel := context.WithTimeout(context.Background(), 2*time.Minute)
	defer cancel()

	if !clean {
		if err := cfg.ValidateSeed(); err != nil {
			return err
		}
	}

	if err := database.RunMigrations(cfg.DBConnectionString); err != nil {
		return err
	}
	dbService, err := database.NewDBService(ctx, cfg.DBConnectionString, 2, logger)
	if err != nil {
		return err
	}
	defer dbService.Close()

	seeder := seed.NewSeeder(dbService.DB, logger)

	if clean {
		counts, err := seeder.Clean(ctx)
		if err != nil {
			return err
		}
		var total int64
		for _, n := range counts {
			total += n
		}
		logger.Info("database cleaned", "rows", total)
		return nil
	}

	defaults, err := seed.LoadDefaults()
	if err != nil {
		return err
	}
	err = seeder.Seed(ctx, defaults, seed.Admin{
		ID:        cfg.AdminUserID,
		Email:     cfg.AdminEmail,
		Password:  cfg.AdminPassword,
		FirstName: cfg.AdminFirstName,
		LastName:  cfg.AdminLastName,
	})
	if err != nil {
		return err
	}
	logger.Info("database seeded")
	return nil
}
