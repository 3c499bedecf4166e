package main

import (
	"benritz/bonds/internal/collect"
	"benritz/bonds/internal/config"
	"benritz/bonds/internal/logging"
	"benritz/bonds/internal/types"
	"errors"
	"time"

	"context"
	"flag"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/aws/aws-sdk-go-v2/aws"
	awsconfig "github.com/aws/aws-sdk-go-v2/config"
	"github.com/aws/aws-sdk-go-v2/service/s3"
	"github.com/sirupsen/logrus"
)

func getAwsConfig(ctx context.Context, profile string) (aws.Config, error) {
	if profile == "default" {
		return awsconfig.LoadDefaultConfig(ctx)
	}
	return awsconfig.LoadDefaultConfig(ctx, awsconfig.WithSharedConfigProfile(profile))
}

func storeToS3(
	ctx context.Context,
	collected *collect.CollectedBonds,
	profile string,
	s3Path *collect.S3Path,
) (string, error) {
	cfg, err := getAwsConfig(ctx, profile)
	if err != nil {
		return "", fmt.Errorf("failed to load AWS config: %w", err)
	}

	s3Client := s3.NewFromConfig(cfg)

	outPath, err := collect.StoreToS3(ctx, collected, s3Client, s3Path)
	if err != nil {
		return "", fmt.Errorf("failed to store data to S3: %w", err)
	}

	return outPath, nil
}

func newCollector(source string, cfg *config.Config, log *logrus.Logger) (collect.Collector, error) {
	switch source {
	case "dmo":
		return collect.NewDMOCollector(log, cfg.Solver.Options()...), nil
	case "dividenddata":
		return collect.NewDividendDataCollector(log, cfg.Solver.Options()...), nil
	default:
		return nil, fmt.Errorf("unknown source %q", source)
	}
}

func main() {
	ctx := context.Background()

	cfg, err := config.Load()
	if err != nil {
		fmt.Fprintf(os.Stderr, "Failed to load config: %v\n", err)
		os.Exit(1)
	}

	profile := flag.String("profile", cfg.Storage.Profile, "the AWS profile to use")
	source := flag.String("source", "dmo", "the gilt price source (dmo or dividenddata)")
	dateStr := flag.String("date", "", "trade date to collect (YYYY-MM-DD, default today)")
	helpFlag := flag.Bool("help", false, "print this help message")
	flag.Parse()
	args := flag.Args()

	if len(args) != 1 || *helpFlag {
		fmt.Printf("Usage: %s <flags> <destination>\n", filepath.Base(os.Args[0]))
		flag.PrintDefaults()
		os.Exit(1)
	}

	log, err := logging.New(cfg.Log.Level, cfg.Log.Format)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Failed to create logger: %v\n", err)
		os.Exit(1)
	}

	date := time.Now().UTC().Truncate(24 * time.Hour)
	if *dateStr != "" {
		if date, err = time.Parse("2006-01-02", *dateStr); err != nil {
			log.Fatalf("invalid date: %v", err)
		}
	}

	s3Path, err := parseDestination(args[0])
	if err != nil {
		log.Fatal(err)
	}

	collector, err := newCollector(*source, cfg, log)
	if err != nil {
		log.Fatal(err)
	}

	collected, err := collector.Collect(ctx, date)
	if err != nil {
		if errors.Is(err, types.ErrDataUnavailable) {
			log.Warn("data unavailable")
		} else {
			log.WithError(err).Error("failed to collect data")
		}
		os.Exit(1)
	}

	for _, f := range collected.Failures {
		log.WithError(f.Err).WithField("isin", f.Bond.ISIN).Warn("skipped bond")
	}

	var outPath string
	if s3Path != nil {
		outPath, err = storeToS3(ctx, collected, *profile, s3Path)
	} else {
		outPath, err = collect.StoreToPath(ctx, collected, args[0])
	}

	if err != nil {
		log.WithError(err).Error("failed to store data")
		os.Exit(1)
	}

	log.WithFields(logrus.Fields{"path": outPath, "bonds": len(collected.Bonds)}).Info("stored bonds")
}

// parseDestination returns nil for a local directory.
func parseDestination(dst string) (*collect.S3Path, error) {
	if !strings.HasPrefix(dst, "s3://") {
		return nil, nil
	}

	s3Path, err := collect.ParseS3(dst)
	if err != nil {
		return nil, fmt.Errorf("invalid destination %q: %w", dst, err)
	}

	return s3Path, nil
}
