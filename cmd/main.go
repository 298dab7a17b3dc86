package main

import (
	"context"
	"errors"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/redis/go-redis/v9"
	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"

	"github.com/igorpreis/Store-Back-End/internal/api"
	"github.com/igorpreis/Store-Back-End/internal/config"
	"github.com/igorpreis/Store-Back-End/internal/infra/producer"
	"github.com/igorpreis/Store-Back-End/internal/infra/repository/db"
	"github.com/igorpreis/Store-Back-End/internal/infra/repository/memrepo"
	"github.com/igorpreis/Store-Back-End/internal/infra/repository/redis_decorator"
	"github.com/igorpreis/Store-Back-End/internal/infra/repository/redis_repo"
	"github.com/igorpreis/Store-Back-End/internal/pkg/token"
	"github.com/igorpreis/Store-Back-End/internal/service"
)

func main() {
	zerolog.TimeFieldFormat = zerolog.TimeFormatUnix
	log.Logger = log.Output(zerolog.ConsoleWriter{Out: os.Stderr})

	cf := config.GetConfig()

	tshirtRepo, cartRepo, orderRepo, userRepo := buildRepositories(cf)

	events := buildProducer(cf)
	defer events.Close()

	tokenMaker := token.NewMaker(cf.TokenKey, cf.TokenDuration)

	inventory := service.NewInventoryService(tshirtRepo)
	authSvc := service.NewAuthService(userRepo, tokenMaker)
	tshirtSvc := service.NewTshirtService(tshirtRepo, cartRepo)
	cartSvc := service.NewCartService(cartRepo, inventory)
	orderSvc := service.NewOrderService(orderRepo, cartRepo, tshirtRepo, inventory, events)

	server := api.NewServer(tokenMaker, authSvc, tshirtSvc, cartSvc, orderSvc)

	httpServer := &http.Server{
		Addr:    ":" + cf.ServerPort,
		Handler: server.Engine(),
	}

	go func() {
		log.Info().Str("port", cf.ServerPort).Msg("server running")
		if err := httpServer.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			log.Fatal().Err(err).Msg("server stopped unexpectedly")
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	log.Info().Msg("shutting down")
	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := httpServer.Shutdown(ctx); err != nil {
		log.Error().Err(err).Msg("forced shutdown")
	}
}

// buildRepositories postgres 連不上時退回記憶體儲存，方便本機跑
// 有設定 redis 時為商品庫存掛上 cache-aside 裝飾器
func buildRepositories(cf *config.Config) (db.ITshirtRepository, db.ICartRepository, db.IOrderRepository, db.IUserRepository) {
	var (
		tshirtRepo db.ITshirtRepository
		cartRepo   db.ICartRepository
		orderRepo  db.IOrderRepository
		userRepo   db.IUserRepository
	)

	conn, err := db.GetDbConn(cf.DbName, cf.DbHost, cf.DbPort, cf.DbUser, cf.DbPas)
	if err == nil {
		dao := db.NewDbDao(conn)
		if err := dao.InitMigrate(); err != nil {
			log.Fatal().Err(err).Msg("failed to migrate database schema")
		}
		tshirtRepo = db.NewTshirtRepo(dao)
		cartRepo = db.NewCartRepo(dao)
		orderRepo = db.NewOrderRepo(dao)
		userRepo = db.NewUserRepo(dao)
	} else {
		log.Warn().Err(err).Msg("postgres unavailable, using in-memory repositories")
		store := memrepo.NewStore()
		tshirtRepo = memrepo.NewTshirtRepo(store)
		cartRepo = memrepo.NewCartRepo(store)
		orderRepo = memrepo.NewOrderRepo(store)
		userRepo = memrepo.NewUserRepo(store)
	}

	if cf.RedisAddr != "" {
		client := redis.NewClient(&redis.Options{Addr: cf.RedisAddr, Password: cf.RedisPassword})
		tshirtRepo = redis_decorator.NewCacheAsideTshirtRepo(tshirtRepo, redis_repo.NewStockRepo(client))
	}
	return tshirtRepo, cartRepo, orderRepo, userRepo
}

func buildProducer(cf *config.Config) producer.IOrderEventProducer {
	if len(cf.KafkaBrokers) == 0 {
		log.Info().Msg("kafka brokers not configured, order events disabled")
		return producer.NoopOrderProducer{}
	}
	return producer.NewKafkaOrderProducer(cf.KafkaBrokers, cf.KafkaTopic)
}
