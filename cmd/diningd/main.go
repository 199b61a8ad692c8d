package main

import (
	"context"
	"log/slog"
	"time"

	"campusdining-backend/lib/configutil"
	"campusdining-backend/lib/scrapers/netnutrition"
	"campusdining-backend/lib/serviceutil"
	"campusdining-backend/lib/telemetry"
	"campusdining-backend/services/dining"
	"campusdining-backend/services/dining/server"
)

type PortalConfig struct {
	BaseUrl           string `json:"base_url"`
	TimeoutMs         int    `json:"timeout_ms"`
	ClosedMarkerClass string `json:"closed_marker_class"`
	OpenMarkerClass   string `json:"open_marker_class"`
}

type Config struct {
	Port       int                `json:"port"`
	Portal     PortalConfig       `json:"portal"`
	Batch      dining.BatchPolicy `json:"batch"`
	Facilities []dining.Facility  `json:"facilities"`
}

func main() {
	ctx := serviceutil.SignalContext()
	telemetry.InitSlog(false)

	config, err := configutil.ReadConfig[Config]("config.json5")
	if err != nil {
		serviceutil.Fatal("failed to load configuration", err)
	}
	if config.Port == 0 {
		config.Port = 9311
	}

	tel, err := telemetry.SetupFromEnv(ctx, "diningd")
	if err != nil {
		slog.Warn("telemetry disabled", "err", err)
	} else {
		defer tel.Shutdown(context.Background())
		telemetry.InstrumentPerfStats(ctx)
	}

	svc := dining.NewService(dining.Options{
		Portal: netnutrition.ClientOptions{
			BaseUrl:           config.Portal.BaseUrl,
			Timeout:           time.Duration(config.Portal.TimeoutMs) * time.Millisecond,
			ClosedMarkerClass: config.Portal.ClosedMarkerClass,
			OpenMarkerClass:   config.Portal.OpenMarkerClass,
		},
		Batch:      config.Batch,
		Facilities: config.Facilities,
	})

	slog.Info(
		"serving dining api",
		"facilities", len(config.Facilities),
		"portal", config.Portal.BaseUrl,
	)
	go serviceutil.StartHttpServer(config.Port, server.NewRouter(svc))

	<-ctx.Done()
}
