package commands

import (
	"context"
	"fmt"
	"os"
	"time"

	"campusdining-backend/lib/configutil"
	"campusdining-backend/lib/scrapers/netnutrition"
	"campusdining-backend/lib/serviceutil"
	"campusdining-backend/services/dining"

	"github.com/spf13/cobra"
)

var rootCmd = &cobra.Command{
	Use:   "dining-cli",
	Short: "dining-cli scrapes the campus dining portal directly, without going through the api.",
}

func ExecuteContext(ctx context.Context) {
	if err := rootCmd.ExecuteContext(ctx); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

type PortalConfig struct {
	BaseUrl           string `json:"base_url"`
	TimeoutMs         int    `json:"timeout_ms"`
	ClosedMarkerClass string `json:"closed_marker_class"`
	OpenMarkerClass   string `json:"open_marker_class"`
}

type Config struct {
	Portal     PortalConfig       `json:"portal"`
	Batch      dining.BatchPolicy `json:"batch"`
	Facilities []dining.Facility  `json:"facilities"`
}

func createService() dining.Service {
	cfg, err := configutil.ReadConfig[Config]("config.json5")
	if err != nil {
		serviceutil.Fatal("failed to read config", err)
	}

	return dining.NewService(dining.Options{
		Portal: netnutrition.ClientOptions{
			BaseUrl:           cfg.Portal.BaseUrl,
			Timeout:           time.Duration(cfg.Portal.TimeoutMs) * time.Millisecond,
			ClosedMarkerClass: cfg.Portal.ClosedMarkerClass,
			OpenMarkerClass:   cfg.Portal.OpenMarkerClass,
		},
		Batch:      cfg.Batch,
		Facilities: cfg.Facilities,
	})
}
