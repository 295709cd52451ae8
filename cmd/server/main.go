package main

import (
	"context"
	"fmt"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/Jambo-goods/bgsbusiness-sub002/config"
	"github.com/Jambo-goods/bgsbusiness-sub002/internal/database"
	"github.com/Jambo-goods/bgsbusiness-sub002/internal/feed"
	"github.com/Jambo-goods/bgsbusiness-sub002/internal/router"
	"github.com/Jambo-goods/bgsbusiness-sub002/pkg/lock"

	"github.com/go-redis/redis/v8"
)

func main() {
	cfg := config.Load()
	db, err := database.NewDB(&cfg.Database)
	if err != nil {
		log.Fatalf("database: %v", err)
	}
	if err := database.AutoMigrate(db); err != nil {
		log.Fatalf("migrate: %v", err)
	}
	database.SeedOperator(db, &cfg.Operator)

	var locker *lock.PaymentLocker
	if cfg.Redis.Addr != "" {
		client := redis.NewClient(&redis.Options{
			Addr:     cfg.Redis.Addr,
			Password: cfg.Redis.Password,
			DB:       cfg.Redis.DB,
		})
		pingCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		if err := client.Ping(pingCtx).Err(); err != nil {
			log.Printf("redis unavailable, distribution lock disabled: %v", err)
		} else {
			locker = lock.NewPaymentLocker(client, 60*time.Second)
			log.Printf("redis distribution lock enabled")
		}
		cancel()
	}

	engine, dispatcher := router.Setup(cfg, db, locker)

	feedCtx, stopFeed := context.WithCancel(context.Background())
	defer stopFeed()
	if len(cfg.Kafka.Brokers) > 0 {
		consumer, err := feed.NewKafkaConsumer(&cfg.Kafka, dispatcher)
		if err != nil {
			log.Fatalf("kafka consumer: %v", err)
		}
		defer consumer.Close()
		go consumer.Run(feedCtx)
		log.Printf("row-change feed consumer started on %s", cfg.Kafka.Topic)
	}

	srv := &http.Server{
		Addr:         ":" + cfg.Server.Port,
		Handler:      engine,
		ReadTimeout:  cfg.Server.ReadTimeout,
		WriteTimeout: cfg.Server.WriteTimeout,
	}
	go func() {
		log.Printf("server listening on :%s", cfg.Server.Port)
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Fatalf("listen: %v", err)
		}
	}()
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit
	log.Println("shutting down...")
	stopFeed()
	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := srv.Shutdown(ctx); err != nil {
		log.Fatal("server shutdown:", err)
	}
	fmt.Println("server stopped")
}
