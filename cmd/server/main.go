// Command server runs the tide prediction HTTP API.
package main

import (
	"fmt"
	"log"
	"os"

	"github.com/gin-gonic/gin"
	"github.com/kelseyhightower/envconfig"

	"github.com/mondosurf/tide-api/internal/adapter/store/fes"
	"github.com/mondosurf/tide-api/internal/adapter/store/spots"
	"github.com/mondosurf/tide-api/internal/adapter/tz"
	httpapi "github.com/mondosurf/tide-api/internal/http"
	"github.com/mondosurf/tide-api/internal/usecase"
)

// Config is read from TIDE_-prefixed environment variables.
type Config struct {
	Port           int      `default:"8080"`
	DataDir        string   `split_words:"true" default:"./data/fes2022"`
	SpotsFile      string   `split_words:"true"`
	AllowedOrigins []string `split_words:"true"`
	GinMode        string   `split_words:"true" default:"release"`
}

func main() {
	var cfg Config
	if err := envconfig.Process("tide", &cfg); err != nil {
		log.Fatalf("config: %v", err)
	}
	gin.SetMode(cfg.GinMode)

	if _, err := os.Stat(cfg.DataDir); err != nil {
		log.Printf("warning: data directory %s not accessible: %v", cfg.DataDir, err)
		log.Printf("predictions will fail until constituent files are available")
	}

	store := fes.NewStore(cfg.DataDir)

	var catalog *spots.Catalog
	if cfg.SpotsFile != "" {
		var err error
		catalog, err = spots.Load(cfg.SpotsFile)
		if err != nil {
			log.Fatalf("spots: %v", err)
		}
		log.Printf("loaded %d spots from %s", catalog.Len(), cfg.SpotsFile)
	}

	tzres, err := tz.NewResolver()
	if err != nil {
		log.Fatalf("timezone resolver: %v", err)
	}

	service := usecase.NewService(store, tzres)
	handler := httpapi.NewHandler(service, catalog, tzres)
	router := httpapi.NewRouter(handler, cfg.AllowedOrigins)

	addr := fmt.Sprintf(":%d", cfg.Port)
	log.Printf("tide-api starting")
	log.Printf("  model:    %s", httpapi.ModelName)
	log.Printf("  data dir: %s", cfg.DataDir)
	log.Printf("  listen:   %s", addr)
	if err := router.Run(addr); err != nil {
		log.Fatalf("server: %v", err)
	}
}
