package cmd

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/go-redis/redis/v8"
	"github.com/spf13/cobra"
	"students-api-go/db"
	"students-api-go/models"
)

var (
	redisURL string
	force    bool
)

var seedCmd = &cobra.Command{
	Use:   "seed",
	Short: "Copy a CSV/XLSX dataset into Redis for use as a redis:// source.",
	RunE:  runSeed,
}

func init() {
	seedCmd.Flags().StringVarP(&redisURL, "redis", "r", "redis://127.0.0.1:6379/0?key=students", "Target redis://host:port/db?key=name")
	seedCmd.Flags().BoolVarP(&force, "force", "f", false, "Replace data already stored under the key")
}

func runSeed(cmd *cobra.Command, _ []string) error {
	cfg, err := loadConfig(cmd)
	if err != nil {
		return err
	}
	setupLogging(cfg.Log.SlogLevel())

	ctx, cancel := context.WithTimeout(cmd.Context(), time.Minute)
	defer cancel()

	records, err := db.Load(ctx, cfg.Source.Location)
	if err != nil {
		return fmt.Errorf("load %s: %w", cfg.Source.Location, err)
	}

	rdb, key, err := db.NewRedisClient(ctx, redisURL)
	if err != nil {
		return err
	}
	defer rdb.Close()

	return seedIfEmpty(ctx, rdb, key, records, force)
}

// seedIfEmpty writes records under key unless data is already there and
// force is off.
func seedIfEmpty(ctx context.Context, client redis.Cmdable, key string, records []models.StudentRecord, force bool) error {
	count, err := client.LLen(ctx, key).Result()
	if err != nil {
		return fmt.Errorf("check existing data under %s: %w", key, err)
	}

	if count > 0 && !force {
		slog.Info("redis already holds a dataset, skipping seed (use --force to replace)",
			"key", key, "rows", count)
		return nil
	}
	return db.SeedRedis(ctx, client, key, records)
}
