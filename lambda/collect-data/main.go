package main

import (
	"benritz/bonds/internal/collect"
	"benritz/bonds/internal/config"
	"benritz/bonds/internal/logging"
	"time"

	"context"
	"fmt"
	"os"

	"github.com/aws/aws-lambda-go/events"
	"github.com/aws/aws-lambda-go/lambda"
	awsconfig "github.com/aws/aws-sdk-go-v2/config"
	"github.com/aws/aws-sdk-go-v2/service/s3"
	"github.com/sirupsen/logrus"
)

type app struct {
	collector collect.Collector
	putter    collect.ObjectPutter
	dst       *collect.S3Path
	log       *logrus.Logger
	now       func() time.Time
}

func (a *app) collectData(ctx context.Context) error {
	date := a.now().UTC().Truncate(24 * time.Hour)

	collected, err := a.collector.Collect(ctx, date)
	if err != nil {
		return err
	}

	for _, f := range collected.Failures {
		a.log.WithError(f.Err).WithField("isin", f.Bond.ISIN).Warn("skipped bond")
	}

	outPath, err := collect.StoreToS3(ctx, collected, a.putter, a.dst)
	if err != nil {
		return err
	}

	a.log.WithFields(logrus.Fields{"path": outPath, "bonds": len(collected.Bonds)}).Info("stored bonds")

	return nil
}

func responseWithFailure(rec events.SQSMessage) events.SQSEventResponse {
	return events.SQSEventResponse{
		BatchItemFailures: []events.SQSBatchItemFailure{
			{
				ItemIdentifier: rec.MessageId,
			},
		},
	}
}

func (a *app) handler(ctx context.Context, request events.SQSEvent) (events.SQSEventResponse, error) {
	if err := a.collectData(ctx); err != nil {
		err = fmt.Errorf("failed to collect data: %w", err)
		if len(request.Records) == 0 {
			return events.SQSEventResponse{}, err
		}
		// should just have a single record, ignore the rest
		return responseWithFailure(request.Records[0]), err
	}

	return events.SQSEventResponse{}, nil
}

func main() {
	ctx := context.Background()

	cfg, err := config.Load()
	if err != nil {
		fmt.Fprintf(os.Stderr, "failed to load config: %v\n", err)
		os.Exit(1)
	}

	log, err := logging.New(cfg.Log.Level, "json")
	if err != nil {
		fmt.Fprintf(os.Stderr, "failed to create logger: %v\n", err)
		os.Exit(1)
	}

	if cfg.Storage.Bucket == "" {
		log.Fatal("GILTS_DATA_BUCKET_NAME is not set")
	}

	awsCfg, err := awsconfig.LoadDefaultConfig(ctx)
	if err != nil {
		log.Fatalf("failed to load AWS config: %v", err)
	}

	a := &app{
		collector: collect.NewDMOCollector(log, cfg.Solver.Options()...),
		putter:    s3.NewFromConfig(awsCfg),
		dst: &collect.S3Path{
			Bucket: cfg.Storage.Bucket,
			Prefix: cfg.Storage.Prefix,
		},
		log: log,
		now: time.Now,
	}

	lambda.Start(a.handler)
}
