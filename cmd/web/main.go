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

	awsconfig "github.com/aws/aws-sdk-go-v2/config"
	"github.com/aws/aws-sdk-go-v2/service/dynamodb"
	"github.com/example/teskom-storefront/internal/api"
	"github.com/example/teskom-storefront/internal/auth"
	"github.com/example/teskom-storefront/internal/config"
	"github.com/example/teskom-storefront/internal/content"
	"github.com/example/teskom-storefront/internal/diagnostics"
	"github.com/example/teskom-storefront/internal/infrastructure/kafka"
	"github.com/example/teskom-storefront/internal/infrastructure/rabbitmq"
	"github.com/example/teskom-storefront/internal/infrastructure/store"
	"github.com/example/teskom-storefront/internal/intake"
	"github.com/example/teskom-storefront/internal/render"
)

const formSweepInterval = time.Minute

func main() {
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	cfg := config.Load()

	log.Println("[Web] ========================================")
	log.Println("[Web] Teskom.id - Storefront")
	log.Println("[Web] ========================================")
	log.Printf("[Web] Content: %s (timeout %s)", cfg.ContentBaseURL, cfg.ContentTimeout)
	log.Printf("[Web] Locale: %s", cfg.Locale)
	log.Printf("[Web] Journal: %s", cfg.Journal)
	log.Printf("[Web] Kafka: %v", cfg.KafkaBrokers)

	// Content service
	client := content.NewClient(cfg.ContentBaseURL, content.NewHTTPClient(cfg.ContentTimeout))
	sources := content.NewSources(client)

	// Load diagnostics
	sinks := diagnostics.Fanout{diagnostics.LogSink{}}
	if len(cfg.KafkaBrokers) > 0 {
		diagProducer := kafka.NewProducer(cfg.KafkaBrokers, cfg.DiagnosticsTopic)
		defer diagProducer.Close()

		async := diagnostics.NewAsyncSink(diagProducer, 256)
		go async.Run(ctx)
		defer async.Close()
		sinks = append(sinks, async)
		log.Printf("[Web] Diagnostics topic: %s", cfg.DiagnosticsTopic)
	}

	// Booking journal
	publisher, closePublisher, err := newPublisher(cfg)
	if err != nil {
		log.Fatalf("[Web] Failed to connect publisher: %v", err)
	}
	defer closePublisher()

	journal, closeJournal, err := newJournal(ctx, cfg, publisher)
	if err != nil {
		log.Fatalf("[Web] Failed to open %s journal: %v", cfg.Journal, err)
	}
	defer closeJournal()

	bookings := intake.NewJournalIntake(journal)

	server := api.NewServer(api.Config{
		Fetchers: api.Fetchers{
			Products:    sources.Products,
			RentalItems: sources.RentalItems,
			Articles:    sources.Articles,
		},
		Formatter: render.NewFormatter(cfg.Locale),
		Sink:      sinks,
		Timeout:   cfg.ContentTimeout,
		Sessions:  auth.NewSessionService(cfg.SessionSecret, cfg.SessionTTL),
		Intake:    bookings,
		Bookings:  bookings,
		FormTTL:   cfg.SessionTTL,
	})
	go server.Forms().Run(ctx, formSweepInterval)

	httpServer := &http.Server{
		Addr:              ":" + cfg.Port,
		Handler:           api.NewRouter(server),
		ReadHeaderTimeout: 5 * time.Second,
		ReadTimeout:       15 * time.Second,
		// Page mounts wait for the content service
		WriteTimeout: cfg.ContentTimeout + 15*time.Second,
		IdleTimeout:  60 * time.Second,
	}

	go func() {
		log.Printf("[Web] Server started on :%s", cfg.Port)
		if err := httpServer.ListenAndServe(); err != http.ErrServerClosed {
			log.Fatalf("[Web] Server error: %v", err)
		}
	}()

	// Wait for shutdown signal
	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, syscall.SIGINT, syscall.SIGTERM)
	<-sigCh

	log.Println("[Web] Shutting down...")

	shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer shutdownCancel()
	if err := httpServer.Shutdown(shutdownCtx); err != nil {
		log.Printf("[Web] Shutdown error: %v", err)
	}
	cancel()
}

// newPublisher picks the broker booking events are published to: Kafka when
// brokers are configured, else RabbitMQ when a URL is set, else none.
func newPublisher(cfg *config.Config) (store.Publisher, func(), error) {
	switch {
	case len(cfg.KafkaBrokers) > 0:
		producer := kafka.NewProducer(cfg.KafkaBrokers, cfg.KafkaTopic)
		log.Printf("[Web] Publishing bookings to Kafka topic %s", cfg.KafkaTopic)
		return producer, func() { producer.Close() }, nil
	case cfg.RabbitMQURL != "":
		pub, err := rabbitmq.NewPublisher(cfg.RabbitMQURL, "booking")
		if err != nil {
			return nil, nil, err
		}
		log.Printf("[Web] Publishing bookings to RabbitMQ exchange %s", rabbitmq.ExchangeName)
		return pub, pub.Close, nil
	}
	log.Println("[Web] No broker configured, bookings are journaled only")
	return nil, func() {}, nil
}

func newJournal(ctx context.Context, cfg *config.Config, pub store.Publisher) (store.EventStoreInterface, func(), error) {
	switch cfg.Journal {
	case config.JournalMemory:
		return store.NewEventStore(pub), func() {}, nil

	case config.JournalPostgres:
		db, err := store.ConnectPostgres(ctx, cfg.DatabaseURL)
		if err != nil {
			return nil, nil, err
		}
		es := store.NewPostgresEventStore(db, pub)
		if err := es.Migrate(ctx); err != nil {
			db.Close()
			return nil, nil, err
		}
		log.Println("[Web] Connected to PostgreSQL")
		return es, func() { db.Close() }, nil

	case config.JournalDynamo:
		awsCfg, err := awsconfig.LoadDefaultConfig(ctx)
		if err != nil {
			return nil, nil, fmt.Errorf("load aws config: %w", err)
		}
		log.Printf("[Web] Using DynamoDB table %s", cfg.DynamoTable)
		return store.NewDynamoEventStore(dynamodb.NewFromConfig(awsCfg), cfg.DynamoTable), func() {}, nil
	}
	return nil, nil, fmt.Errorf("unknown journal %q", cfg.Journal)
}
