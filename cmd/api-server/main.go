package main

import (
	"Inkwell/config"
	"Inkwell/pkg/database"
	"Inkwell/pkg/log"
	"Inkwell/pkg/server"
	"fmt"
	"os"

	"github.com/joho/godotenv"
	"github.com/urfave/cli/v2"
	"go.uber.org/zap"
)

func main() {
	// .env 可选，仅本地开发使用
	_ = godotenv.Load()

	env := os.Getenv("APP_ENV")
	if env == "" {
		env = "dev"
	}
	path := fmt.Sprintf("configs/config.%s.yaml", env)

	cliApp := &cli.App{
		Name: "api-server",
		Flags: []cli.Flag{
			&cli.StringFlag{Name: "config", Aliases: []string{"c"}, Value: path, Usage: "config file"},
		},
		Commands: []*cli.Command{
			{
				Name:  "serve",
				Usage: "start http server",
				Action: func(ctx *cli.Context) error {
					cfg := config.New(ctx.String("config"))
					log.SetDebug(cfg.Debug())

					app, err := InitServer(cfg)
					if err != nil {
						return err
					}
					return server.Run(ctx, app)
				},
			},
			{
				Name:  "migrate",
				Usage: "create or update database tables",
				Action: func(ctx *cli.Context) error {
					cfg := config.New(ctx.String("config"))
					if err := database.AutoMigrate(database.NewDB(cfg)); err != nil {
						return err
					}
					log.L.Info("migrate success")
					return nil
				},
			},
		},
	}
	if err := cliApp.Run(os.Args); err != nil {
		log.L.Fatal("failed to start server", zap.Error(err))
	}
}
