package main

import (
	"context"
	"log"

	"github.com/mkravets/filehub/internal/app"
	"github.com/mkravets/filehub/internal/config"
)

func main() {
	cfg := config.LoadConfig()

	a, err := app.New(context.Background(), cfg)
	if err != nil {
		log.Printf("%v", err)
		return
	}

	if err := a.RunServer(); err != nil {
		log.Printf("%v", err)
	}
}
