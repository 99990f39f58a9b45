package main

import (
	"context"
	"flag"
	"fmt"
	"os"
	"time"

	"go.uber.org/zap"

	"github.com/matchday/terrace/internal/db"
	"github.com/matchday/terrace/pkg/config"
	"github.com/matchday/terrace/pkg/logging"
)

// recount recomputes comment aggregates (likes, dislikes, reports,
// replies) from the underlying rows and purges expired rate-limit
// actions. Aggregates are maintained transactionally online; this tool
// repairs any drift left by partial failures.
func main() {
	articleID := flag.String("article", "", "restrict the recount to one article id")
	flag.Parse()

	cfg, err := config.Load()
	if err != nil {
		fmt.Fprintf(os.Stderr, "Failed to load configuration: %v\n", err)
		os.Exit(1)
	}

	if err := logging.InitLogger(&cfg.Logging); err != nil {
		fmt.Fprintf(os.Stderr, "Failed to initialize logger: %v\n", err)
		os.Exit(1)
	}
	defer logging.GetLogger().Sync()

	logger := logging.GetLogger()
	logger.Info("Starting aggregate recount", zap.String("article_id", *articleID))

	database, err := db.New(&cfg.Database, cfg.Logging.Level)
	if err != nil {
		logger.Fatal("Failed to connect to database", zap.Error(err))
	}
	defer database.Close()

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Minute)
	defer cancel()

	scope := ""
	args := []interface{}{}
	if *articleID != "" {
		scope = " WHERE c.article_id = ?"
		args = append(args, *articleID)
	}

	statements := []string{
		`UPDATE terrace_comments c SET likes_count = (
			SELECT count(*) FROM terrace_reactions r
			WHERE r.comment_id = c.id AND r.type = 'like')` + scope,
		`UPDATE terrace_comments c SET dislikes_count = (
			SELECT count(*) FROM terrace_reactions r
			WHERE r.comment_id = c.id AND r.type = 'dislike')` + scope,
		`UPDATE terrace_comments c SET reports_count = (
			SELECT count(*) FROM terrace_reports p
			WHERE p.comment_id = c.id)` + scope,
		`UPDATE terrace_comments c SET reply_count = (
			SELECT count(*) FROM terrace_comments child
			WHERE child.parent_id = c.id)` + scope,
	}

	for _, stmt := range statements {
		res := database.WithContext(ctx).Exec(stmt, args...)
		if res.Error != nil {
			logger.Fatal("Recount statement failed", zap.Error(res.Error))
		}
		logger.Info("Recount statement applied", zap.Int64("rows", res.RowsAffected))
	}

	repo := db.NewRepository(database.DB)
	limiter := db.NewRateLimitRepository(repo, cfg.Comments.RateLimitWindow())
	purged, err := limiter.PurgeExpired(ctx, time.Now().UTC())
	if err != nil {
		logger.Fatal("Rate limit purge failed", zap.Error(err))
	}
	logger.Info("Expired rate-limit actions purged", zap.Int64("rows", purged))

	logger.Info("Recount complete")
}
