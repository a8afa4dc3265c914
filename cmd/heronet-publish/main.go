package main

import (
	"context"
	"flag"
	"fmt"
	"io/fs"
	"mime"
	"os"
	"path"
	"path/filepath"
	"strings"
	"time"

	"github.com/aws/aws-sdk-go-v2/aws"
	awsconfig "github.com/aws/aws-sdk-go-v2/config"
	"github.com/aws/aws-sdk-go-v2/credentials"
	"github.com/aws/aws-sdk-go-v2/service/s3"
	"go.uber.org/zap"

	"github.com/kpellard/heronet/pkg/config"
	"github.com/kpellard/heronet/pkg/logging"
)

// contentTypes covers the files the site generator emits. Anything else
// falls back to the system MIME table.
var contentTypes = map[string]string{
	".html": "text/html; charset=utf-8",
	".css":  "text/css; charset=utf-8",
	".js":   "application/javascript",
	".svg":  "image/svg+xml",
	".json": "application/json",
	".csv":  "text/csv; charset=utf-8",
	".png":  "image/png",
}

func main() {
	configPath := flag.String("config", "", "Path to config file (optional)")
	dir := flag.String("dir", "", "Site directory to upload (overrides config)")
	bucket := flag.String("bucket", "", "Target S3 bucket (overrides config)")
	region := flag.String("region", "", "AWS region (overrides config)")
	prefix := flag.String("prefix", "", "Key prefix inside the bucket (overrides config)")
	dryRun := flag.Bool("dry-run", false, "List the uploads without performing them")
	flag.Parse()

	cfg, err := config.Load(*configPath)
	if err != nil {
		fmt.Fprintf(os.Stderr, "config: %v\n", err)
		os.Exit(1)
	}
	if *dir != "" {
		cfg.Site.OutputDir = *dir
	}
	if *bucket != "" {
		cfg.Publish.Bucket = *bucket
	}
	if *region != "" {
		cfg.Publish.Region = *region
	}
	if *prefix != "" {
		cfg.Publish.Prefix = *prefix
	}

	logger := logging.Must(cfg.Log.Level, cfg.Log.Format)
	defer func() { _ = logger.Sync() }()

	if cfg.Publish.Bucket == "" {
		logger.Fatal("no bucket configured, set publish.bucket or pass --bucket")
	}

	files, err := collectFiles(cfg.Site.OutputDir)
	if err != nil {
		logger.Fatal("reading site directory failed", zap.Error(err))
	}
	if len(files) == 0 {
		logger.Fatal("site directory is empty, run heronet-analyze first",
			zap.String("dir", cfg.Site.OutputDir))
	}

	if *dryRun {
		for _, f := range files {
			fmt.Printf("%s -> s3://%s/%s\n", f, cfg.Publish.Bucket, keyFor(cfg.Publish.Prefix, cfg.Site.OutputDir, f))
		}
		logger.Info("dry run complete", zap.Int("files", len(files)))
		return
	}

	ctx := context.Background()
	client, err := newClient(ctx, cfg.Publish.Region)
	if err != nil {
		logger.Fatal("loading AWS config failed", zap.Error(err))
	}

	start := time.Now()
	var bytes int64
	for _, f := range files {
		n, err := upload(ctx, client, cfg.Publish.Bucket, keyFor(cfg.Publish.Prefix, cfg.Site.OutputDir, f), f)
		if err != nil {
			logger.Fatal("upload failed", zap.String("file", f), zap.Error(err))
		}
		bytes += n
		logger.Debug("uploaded", zap.String("file", f), zap.Int64("bytes", n))
	}

	logger.Info("site published",
		zap.String("bucket", cfg.Publish.Bucket),
		zap.String("prefix", cfg.Publish.Prefix),
		zap.Int("files", len(files)),
		zap.Int64("bytes", bytes),
		zap.Duration("elapsed", time.Since(start)),
	)
}

// newClient builds the S3 client from the default credential chain.
// HERONET_S3_ACCESS_KEY and HERONET_S3_SECRET_KEY override the chain
// for CI environments that inject scoped keys.
func newClient(ctx context.Context, region string) (*s3.Client, error) {
	opts := []func(*awsconfig.LoadOptions) error{
		awsconfig.WithRegion(region),
	}
	accessKey := os.Getenv("HERONET_S3_ACCESS_KEY")
	secretKey := os.Getenv("HERONET_S3_SECRET_KEY")
	if accessKey != "" && secretKey != "" {
		opts = append(opts, awsconfig.WithCredentialsProvider(
			credentials.NewStaticCredentialsProvider(accessKey, secretKey, ""),
		))
	}
	awsCfg, err := awsconfig.LoadDefaultConfig(ctx, opts...)
	if err != nil {
		return nil, err
	}
	return s3.NewFromConfig(awsCfg), nil
}

func collectFiles(dir string) ([]string, error) {
	var files []string
	err := filepath.WalkDir(dir, func(p string, d fs.DirEntry, err error) error {
		if err != nil {
			return err
		}
		if !d.IsDir() {
			files = append(files, p)
		}
		return nil
	})
	return files, err
}

func keyFor(prefix, dir, file string) string {
	rel, err := filepath.Rel(dir, file)
	if err != nil {
		rel = filepath.Base(file)
	}
	return path.Join(prefix, filepath.ToSlash(rel))
}

func upload(ctx context.Context, client *s3.Client, bucket, key, file string) (int64, error) {
	f, err := os.Open(file)
	if err != nil {
		return 0, err
	}
	defer f.Close()

	info, err := f.Stat()
	if err != nil {
		return 0, err
	}

	ext := strings.ToLower(filepath.Ext(file))
	contentType, ok := contentTypes[ext]
	if !ok {
		if contentType = mime.TypeByExtension(ext); contentType == "" {
			contentType = "application/octet-stream"
		}
	}

	// Pages revalidate within a minute so a republish shows up.
	cacheControl := "public, max-age=3600"
	if ext == ".html" {
		cacheControl = "public, max-age=60"
	}

	_, err = client.PutObject(ctx, &s3.PutObjectInput{
		Bucket:        aws.String(bucket),
		Key:           aws.String(key),
		Body:          f,
		ContentType:   aws.String(contentType),
		CacheControl:  aws.String(cacheControl),
		ContentLength: aws.Int64(info.Size()),
	})
	if err != nil {
		return 0, err
	}
	return info.Size(), nil
}
