package main

import (
	stdLog "log"
	"os"
	"time"

	"github.com/joho/godotenv"
	"github.com/pkg/errors"

	"github.com/Astemirdum/catalog-service/catalog/app"
	"github.com/Astemirdum/catalog-service/catalog/config"
)

func main() {
	if err := godotenv.Load(); err != nil && !errors.Is(err, os.ErrNotExist) {
		stdLog.Fatal("load envs from .env ", err)
	}
	cfg := config.NewConfig(
		config.WithWriteTimeout(time.Minute),
	)

	app.Run(cfg)
}
