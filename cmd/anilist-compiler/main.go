// Command anilist-compiler compiles the full AniList anime catalog into
// CSV and XLSX exports, optionally checkpointing windows in Redis and
// publishing the result to Kaggle.
package main

import (
	"context"
	"os"
	"os/signal"
	"path/filepath"
	"strconv"
	"syscall"
	"time"

	"github.com/anidata/anilist-compiler/pkg/anilist"
	"github.com/anidata/anilist-compiler/pkg/checkpoint"
	"github.com/anidata/anilist-compiler/pkg/collector"
	"github.com/anidata/anilist-compiler/pkg/export"
	"github.com/anidata/anilist-compiler/pkg/kaggle"
	"github.com/anidata/anilist-compiler/pkg/logging"
	"github.com/anidata/anilist-compiler/pkg/pipeline"
	"github.com/anidata/anilist-compiler/pkg/window"
	"github.com/redis/go-redis/v9"
	"github.com/rs/zerolog/log"
)

func main() {
	logging.Setup(logging.Config{
		Level:  logging.LogLevel(getEnv("LOG_LEVEL", "info")),
		Pretty: getEnvBool("LOG_PRETTY", false),
		Output: os.Stderr,
	})

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	if err := run(ctx); err != nil {
		log.Fatal().Err(err).Msg("Compile run failed")
	}
}

func run(ctx context.Context) error {
	outputDir := getEnv("OUTPUT_DIR", "data")
	baseName := getEnv("OUTPUT_BASENAME", "anilist_anime_data_complete")

	clientCfg := anilist.DefaultConfig()
	clientCfg.UserAgent = getEnv("USER_AGENT", clientCfg.UserAgent)
	clientCfg.PerPage = getEnvInt("PER_PAGE", clientCfg.PerPage)

	client, err := anilist.New(clientCfg)
	if err != nil {
		return err
	}

	collectorCfg := collector.DefaultConfig()
	collectorCfg.MaxPages = getEnvInt("MAX_PAGES", 0)

	var store pipeline.Checkpointer
	if redisURL := os.Getenv("REDIS_URL"); redisURL != "" {
		redisClient := redis.NewClient(&redis.Options{Addr: redisURL})
		if err := redisClient.Ping(ctx).Err(); err != nil {
			log.Warn().Err(err).Str("addr", redisURL).Msg("Redis unreachable - running without checkpoints")
		} else {
			log.Info().Str("addr", redisURL).Msg("Checkpointing to Redis")
			store = checkpoint.NewStore(redisClient, 0)
		}
	}

	planner := &window.DensityPlanner{
		EarliestYear: getEnvInt("EARLIEST_YEAR", window.DefaultEarliestYear),
	}

	runner := pipeline.New(planner, collector.New(client, collectorCfg), store)

	cat, summary, err := runner.Run(ctx, time.Now().UTC())
	if err != nil {
		return err
	}

	records := cat.Records()
	csvPath := filepath.Join(outputDir, baseName+".csv")
	xlsxPath := filepath.Join(outputDir, baseName+".xlsx")

	if err := export.WriteCSVFile(csvPath, records); err != nil {
		return err
	}
	if err := export.WriteXLSXFile(xlsxPath, records); err != nil {
		return err
	}

	if getEnvBool("KAGGLE_UPLOAD", false) {
		if len(summary.Failed) > 0 {
			log.Warn().
				Strs("failed_windows", summary.Failed).
				Msg("Uploading a catalog with partial windows")
		}
		if err := uploadToKaggle(ctx, []string{csvPath, xlsxPath}); err != nil {
			return err
		}
	}

	return nil
}

func uploadToKaggle(ctx context.Context, files []string) error {
	creds, err := kaggle.LoadCredentials(os.Getenv("KAGGLE_CREDENTIALS"))
	if err != nil {
		return err
	}

	meta, err := kaggle.LoadMetadata(
		getEnv("KAGGLE_METADATA", "data/kaggle/dataset-metadata.json"),
		os.Getenv("KAGGLE_DESCRIPTION"),
	)
	if err != nil {
		return err
	}

	return kaggle.NewClient(creds).Upload(ctx, meta, files)
}

func getEnv(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

func getEnvInt(key string, defaultValue int) int {
	value := os.Getenv(key)
	if value == "" {
		return defaultValue
	}
	n, err := strconv.Atoi(value)
	if err != nil {
		log.Warn().Str("key", key).Str("value", value).Msg("Invalid integer env var - using default")
		return defaultValue
	}
	return n
}

func getEnvBool(key string, defaultValue bool) bool {
	value := os.Getenv(key)
	if value == "" {
		return defaultValue
	}
	b, err := strconv.ParseBool(value)
	if err != nil {
		log.Warn().Str("key", key).Str("value", value).Msg("Invalid boolean env var - using default")
		return defaultValue
	}
	return b
}
