package console

import (
	"context"
	"fmt"

	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"

	"github.com/pixelvide/teneo-mailer/pkg/config"
	"github.com/pixelvide/teneo-mailer/pkg/driver/redis"
	"github.com/pixelvide/teneo-mailer/pkg/driver/sqs"
	"github.com/pixelvide/teneo-mailer/pkg/queue"
	"github.com/pixelvide/teneo-mailer/pkg/root"
	"github.com/pixelvide/teneo-mailer/pkg/telemetry"
)

var (
	envFiles []string
	verbose  bool
)

// setup configures logging and loads the configuration
func setup() *config.Config {
	level := zerolog.InfoLevel
	if verbose {
		level = zerolog.DebugLevel
	}
	telemetry.SetGlobalLogger(level)

	cfg, err := config.Load(envFiles...)
	if err != nil {
		log.Fatal().Err(err).Msg("Failed to load configuration")
	}
	return cfg
}

// newDriver builds the queue driver selected by QUEUE_CONNECTION.
// The failed job provider may be nil.
func newDriver(ctx context.Context, cfg *config.Config) (queue.Driver, queue.FailedJobProvider, error) {
	switch cfg.Queue.Connection {
	case "redis":
		driver := redis.NewRedisDriver(cfg.Redis)
		return driver, driver.NewFailedProvider(), nil
	case "sqs":
		client, err := config.LoadSQSClient(ctx, cfg.SQS)
		if err != nil {
			return nil, nil, fmt.Errorf("load sqs client: %w", err)
		}
		return sqs.NewSQSDriver(client, cfg.SQS.QueueUrl), nil, nil
	default:
		return nil, nil, fmt.Errorf("unsupported queue connection %q", cfg.Queue.Connection)
	}
}

func init() {
	flags := root.GetRoot().PersistentFlags()
	flags.StringSliceVar(&envFiles, "env-file", nil, "Environment files to load (default .env)")
	flags.BoolVarP(&verbose, "verbose", "v", false, "Enable debug logging")
}
