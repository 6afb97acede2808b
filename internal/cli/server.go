package cli

import (
	"context"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/jackc/pgx/v4/pgxpool"
	"github.com/redis/go-redis/v9"
	"github.com/spf13/cobra"
	"team-quiz-service/internal/app"
	"team-quiz-service/internal/config"
	"team-quiz-service/internal/domain"
	"team-quiz-service/internal/infra/file"
	"team-quiz-service/internal/infra/memory"
	pgloader "team-quiz-service/internal/infra/postgres"
	infraredis "team-quiz-service/internal/infra/redis"
	"team-quiz-service/internal/infra/source"
	"team-quiz-service/internal/infra/sqlite"
	transport "team-quiz-service/internal/transport/http"
)

// NewStartCmd builds the CLI subcommand to start the server.
func NewStartCmd(configPath, port *string) *cobra.Command {
	return &cobra.Command{
		Use:   "start",
		Short: "Start the quiz server",
		RunE: func(cmd *cobra.Command, args []string) error {
			return runServer(cmd.Context(), *configPath, *port)
		},
	}
}

func runServer(ctx context.Context, configPath, portFlag string) error {
	cfg, err := config.LoadOptional(configPath)
	if err != nil {
		return err
	}

	if cfg.Postgres.URL != "" {
		if err := runMigrationsWithConfig(ctx, cfg); err != nil {
			return err
		}
	}

	finalPort := portFlag
	if finalPort == "" {
		finalPort = cfg.Server.Port
	}
	if finalPort == "" {
		finalPort = "8080"
	}

	var redisClient *redis.Client
	if cfg.Redis.Addr != "" {
		redisClient = redis.NewClient(&redis.Options{
			Addr:     cfg.Redis.Addr,
			Password: cfg.Redis.Password,
			DB:       cfg.Redis.DB,
		})
		defer redisClient.Close()
	}
	redisTTL := config.TTLDuration(cfg.Redis.TTL, 10*time.Minute)

	router := &source.Router{
		Static: memory.NewSampleLoader(),
		Files:  file.NewQuestionLoader(),
		SQLite: sqlite.NewQuestionLoader(),
	}
	if cfg.Postgres.URL != "" {
		pool, err := pgxpool.Connect(ctx, cfg.Postgres.URL)
		if err != nil {
			return err
		}
		defer pool.Close()
		router.Postgres = pgloader.NewQuestionLoader(pool)
	}

	quizTTL := config.TTLDuration(cfg.Quiz.TTL, time.Minute)
	var questions app.QuestionSource
	if redisClient != nil {
		questions = infraredis.NewQuestionRepository(redisClient, router, quizTTL)
	} else {
		questions = memory.NewQuestionRepository(router, quizTTL)
	}

	opts := []app.Option{}
	if len(cfg.Quiz.Teams) > 0 {
		opts = append(opts, app.WithTeams(teamsFromNames(cfg.Quiz.Teams)))
	}
	if redisClient != nil {
		opts = append(opts, app.WithStateSink(infraredis.NewScoreboardMirror(redisClient, redisTTL)))
	}
	engine := app.NewQuizEngine(questions, opts...)
	defer engine.Close()

	server := &http.Server{
		Addr:         ":" + finalPort,
		Handler:      transport.NewRouter(engine),
		ReadTimeout:  15 * time.Second,
		WriteTimeout: 15 * time.Second,
	}

	go func() {
		log.Printf("starting quiz service on :%s", finalPort)
		if err := server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Printf("failed to start server: %v", err)
		}
	}()

	stop := make(chan os.Signal, 1)
	signal.Notify(stop, syscall.SIGINT, syscall.SIGTERM)

	select {
	case <-stop:
		log.Println("shutting down server...")
	case <-ctx.Done():
		log.Println("context canceled, shutting down server...")
	}

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	return server.Shutdown(shutdownCtx)
}

// teamsFromNames numbers configured teams from 1 in the given order.
func teamsFromNames(names []string) []domain.Team {
	teams := make([]domain.Team, 0, len(names))
	for i, name := range names {
		teams = append(teams, domain.Team{ID: i + 1, Name: name, Players: []domain.Player{}})
	}
	return teams
}
