package main

import (
	"context"
	"os"
	"time"

	"github.com/mattn/go-colorable"
	"github.com/sirupsen/logrus"

	"github.com/polyrabbit/coin-board/config"
	"github.com/polyrabbit/coin-board/dashboard"
	"github.com/polyrabbit/coin-board/exchange"
	"github.com/polyrabbit/coin-board/http"
	"github.com/polyrabbit/coin-board/server"
	"github.com/polyrabbit/coin-board/writer"
)

func main() {
	cfg := config.Parse()

	httpClient := http.New(cfg.Timeout, cfg.Proxy)
	client := exchange.NewCoinMarketCapClient(cfg, httpClient)
	service := dashboard.NewService(client, time.Duration(cfg.CacheTTL)*time.Second, cfg.Proxy != "")

	if cfg.Listen != "" {
		if err := server.NewHandler(service, cfg).Run(cfg.Listen); err != nil {
			logrus.Fatalf("Failed to serve on %s: %v", cfg.Listen, err)
		}
		return
	}

	if cfg.Refresh != 0 {
		logrus.Infof("Auto refresh on every %d seconds", cfg.Refresh)
	}

	tableWriter := writer.NewTableWriter(colorable.NewColorableStdout(), cfg.Views) // For Windows
	logrus.SetOutput(tableWriter)
	defer logrus.SetOutput(colorable.NewColorableStderr())

	selection := cfg.Selection()
	force := cfg.RefreshNow
	for {
		snap := service.Load(context.Background(), cfg.Currency, force)
		view := dashboard.Build(snap, selection)
		tableWriter.Render(view)
		if cfg.Export != "" {
			exportCSV(cfg.Export, view)
		}
		if cfg.Refresh == 0 {
			break
		}
		force = false
		// Use sleep here so I can stall as much as I can to avoid exceeding API limit
		time.Sleep(time.Duration(cfg.Refresh) * time.Second)
	}
}

func exportCSV(fpath string, view *dashboard.View) {
	if fpath == "-" {
		if err := writer.WriteCSV(os.Stdout, view.Selected()); err != nil {
			logrus.Errorf("Failed to write CSV, error: %v", err)
		}
		return
	}
	fout, err := os.Create(fpath)
	if err != nil {
		logrus.Errorf("Failed to create %s, error: %v", fpath, err)
		return
	}
	defer fout.Close()
	if err := writer.WriteCSV(fout, view.Selected()); err != nil {
		logrus.Errorf("Failed to write CSV to %s, error: %v", fpath, err)
		return
	}
	logrus.Debugf("Exported %d rows to %s", view.Selected().Len(), fpath)
}
