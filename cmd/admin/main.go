package main

import (
	"fmt"
	"log"
	"math/rand"
	"os"
	"text/tabwriter"
	"time"

	"skyhunt/internal/config"
	"skyhunt/internal/repository"
	"skyhunt/internal/service"
	"skyhunt/pkg/logger"

	"github.com/google/uuid"
	"github.com/urfave/cli/v2"
)

func main() {
	app := &cli.App{
		Name:  "skyhunt-admin",
		Usage: "inspect and maintain stored profiles",
		Flags: []cli.Flag{
			&cli.StringFlag{
				Name:  "config",
				Value: config.DefaultPath,
				Usage: "directory containing config.yaml",
			},
		},
		Before: func(c *cli.Context) error {
			cfg, err := config.Load(c.String("config"))
			if err != nil {
				return err
			}
			c.App.Metadata = map[string]any{"config": cfg}
			return logger.Initialize(cfg.Log)
		},
		Commands: []*cli.Command{
			{
				Name:   "coupons",
				Usage:  "print a profile's coupon wallet",
				Flags:  []cli.Flag{profileFlag()},
				Action: listCoupons,
			},
			{
				Name:   "logout",
				Usage:  "clear a profile's session flag",
				Flags:  []cli.Flag{profileFlag()},
				Action: logout,
			},
			{
				Name:   "migrate",
				Usage:  "apply the postgres schema",
				Action: migrate,
			},
		},
	}

	if err := app.Run(os.Args); err != nil {
		log.Fatal(err)
	}
}

func profileFlag() cli.Flag {
	return &cli.StringFlag{
		Name:     "profile",
		Aliases:  []string{"p"},
		Required: true,
		Usage:    "profile id (the profile_id cookie value)",
	}
}

func loadConfig(c *cli.Context) *config.Config {
	return c.App.Metadata["config"].(*config.Config)
}

func openStore(c *cli.Context) (repository.Store, uuid.UUID, error) {
	profileID, err := uuid.Parse(c.String("profile"))
	if err != nil {
		return nil, uuid.Nil, fmt.Errorf("invalid profile id: %w", err)
	}

	cfg := loadConfig(c)
	if cfg.Storage.Driver == "" || cfg.Storage.Driver == repository.DriverMemory {
		return nil, uuid.Nil, fmt.Errorf("storage driver %q is process-local; configure postgres or redis", repository.DriverMemory)
	}

	store, err := repository.Open(c.Context, cfg.Storage)
	if err != nil {
		return nil, uuid.Nil, err
	}
	return store, profileID, nil
}

func listCoupons(c *cli.Context) error {
	store, profileID, err := openStore(c)
	if err != nil {
		return err
	}
	defer store.Close()

	cfg := loadConfig(c)
	loc, err := cfg.Coupon.Location()
	if err != nil {
		return err
	}

	coupons, err := service.NewCouponService(store, rand.New(rand.NewSource(time.Now().UnixNano())), service.CouponOptions{
		ValidityDays: cfg.Coupon.ValidityDays,
		Location:     loc,
	})
	if err != nil {
		return err
	}

	wallet, err := coupons.Wallet(c.Context, profileID)
	if err != nil {
		return err
	}

	w := tabwriter.NewWriter(c.App.Writer, 0, 4, 2, ' ', 0)
	fmt.Fprintln(w, "ID\tTYPE\tNAME\tOBTAINED\tEXPIRES")
	for _, v := range wallet.Available {
		fmt.Fprintf(w, "%d\t%s\t%s\t%s\t%s\n", v.ID, v.Type, v.Name, v.ObtainedOn, v.ExpiresOn)
	}
	return w.Flush()
}

func logout(c *cli.Context) error {
	store, profileID, err := openStore(c)
	if err != nil {
		return err
	}
	defer store.Close()

	if err := service.NewSessionService(store).Logout(c.Context, profileID); err != nil {
		return err
	}

	fmt.Fprintf(c.App.Writer, "profile %s logged out\n", profileID)
	return nil
}

func migrate(c *cli.Context) error {
	cfg := loadConfig(c)
	if cfg.Storage.Driver != repository.DriverPostgres {
		return fmt.Errorf("migrate needs the %q storage driver, got %q", repository.DriverPostgres, cfg.Storage.Driver)
	}

	return repository.RunMigrations(cfg.Storage.Database)
}
