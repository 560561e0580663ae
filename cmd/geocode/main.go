// Command geocode fills in coordinates for entities that have an address
// but no latitude/longitude. Nominatim allows one request per second.
package main

import (
	"context"
	"flag"
	"os"
	"os/signal"
	"syscall"
	"time"

	"go.uber.org/zap"

	"github.com/tahoak/park-collective/internal/config"
	dbpkg "github.com/tahoak/park-collective/internal/db"
	"github.com/tahoak/park-collective/internal/geocode"
	"github.com/tahoak/park-collective/internal/logging"
	"github.com/tahoak/park-collective/internal/models"
)

func main() {
	limit := flag.Int("limit", 0, "max entities to process, 0 for all")
	dryRun := flag.Bool("dry-run", false, "resolve but do not save")
	flag.Parse()

	cfg := config.Load()
	logger := logging.New(os.Getenv("APP_DEBUG") == "true")
	defer logger.Sync() //nolint:errcheck

	db, err := dbpkg.NewDB(cfg.Database, logger)
	if err != nil {
		logger.Fatal("failed to connect database", zap.Error(err))
	}

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	q := db.WithContext(ctx).
		Where("(latitude IS NULL OR longitude IS NULL) AND address <> ''").
		Order("created_at ASC")
	if *limit > 0 {
		q = q.Limit(*limit)
	}

	var entities []models.Entity
	if err := q.Find(&entities).Error; err != nil {
		logger.Fatal("failed to load entities", zap.Error(err))
	}
	logger.Info("entities missing coordinates", zap.Int("count", len(entities)))

	client := geocode.NewClient(cfg.Geocoding, logger)
	tick := time.NewTicker(time.Second)
	defer tick.Stop()

	var updated, missed int
	for i := range entities {
		if i > 0 {
			select {
			case <-ctx.Done():
				logger.Warn("interrupted", zap.Int("updated", updated))
				return
			case <-tick.C:
			}
		}

		e := &entities[i]
		p := client.Geocode(ctx, geocode.FullAddress(e.Address, e.City, e.State, e.Zip))
		if p == nil {
			missed++
			continue
		}

		if *dryRun {
			logger.Info("resolved", zap.String("slug", e.Slug), zap.Float64("lat", p.Latitude), zap.Float64("lng", p.Longitude))
			updated++
			continue
		}
		if err := db.WithContext(ctx).Model(e).Updates(map[string]any{
			"latitude":  p.Latitude,
			"longitude": p.Longitude,
		}).Error; err != nil {
			logger.Error("failed to save coordinates", zap.String("slug", e.Slug), zap.Error(err))
			continue
		}
		updated++
	}

	logger.Info("geocode finished", zap.Int("updated", updated), zap.Int("missed", missed))
}
