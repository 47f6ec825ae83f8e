// Command rolemodefix sets the role mode on companies that predate the
// uploader/receiver split. It targets companies by code, or backfills
// every company missing a mode when no codes are given.
//
// Usage:
//
//	rolemodefix -mongo-uri mongodb://localhost:27017 -db lead_relay -mode uploader -codes acme-1,acme-2
//	rolemodefix -mode hybrid            # backfill all companies without a mode
package main

import (
	"context"
	"flag"
	"log"
	"strings"
	"time"

	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
	"go.uber.org/zap"

	companystore "github.com/leadrelay/leadrelay/internal/app/store/companies"
	"github.com/leadrelay/leadrelay/internal/domain/models"
)

func main() {
	var (
		mongoURI = flag.String("mongo-uri", "mongodb://localhost:27017", "MongoDB connection URI")
		dbName   = flag.String("db", "lead_relay", "MongoDB database name")
		mode     = flag.String("mode", "", "role mode to set: uploader, receiver, or hybrid")
		codes    = flag.String("codes", "", "comma-separated company codes (empty backfills companies missing a mode)")
	)
	flag.Parse()

	if !models.ValidRoleMode(*mode) {
		log.Fatalf("invalid -mode %q: must be uploader, receiver, or hybrid", *mode)
	}

	logger, err := zap.NewProduction()
	if err != nil {
		log.Fatalf("logger init failed: %v", err)
	}
	defer logger.Sync()

	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	client, err := mongo.Connect(ctx, options.Client().ApplyURI(*mongoURI))
	if err != nil {
		logger.Fatal("mongo connect failed", zap.Error(err))
	}
	defer client.Disconnect(context.Background())

	companies := companystore.New(client.Database(*dbName))

	if *codes == "" {
		n, err := companies.BackfillRoleMode(ctx, *mode)
		if err != nil {
			logger.Fatal("backfill failed", zap.Error(err))
		}
		logger.Info("backfilled companies missing a role mode",
			zap.String("mode", *mode),
			zap.Int64("modified", n))
		return
	}

	var list []string
	for _, c := range strings.Split(*codes, ",") {
		if c = strings.TrimSpace(c); c != "" {
			list = append(list, c)
		}
	}
	if len(list) == 0 {
		log.Fatal("-codes contained no usable company codes")
	}

	matched, modified, err := companies.SetRoleModeByCodes(ctx, list, *mode)
	if err != nil {
		logger.Fatal("update failed", zap.Error(err))
	}
	logger.Info("role mode set by code",
		zap.String("mode", *mode),
		zap.Int64("matched", matched),
		zap.Int64("modified", modified))
	if matched < int64(len(list)) {
		logger.Warn("some codes did not match any company",
			zap.Int("requested", len(list)),
			zap.Int64("matched", matched))
	}
}
