package cmd

import (
	"context"
	"fmt"
	"net/http"
	"time"

	"dicehouse/api"
	"dicehouse/config"
	"dicehouse/database"
	"dicehouse/events"
	"dicehouse/repository"
	"dicehouse/service"
	"dicehouse/transfer"

	log "github.com/sirupsen/logrus"
)

// Run initializes and starts the application
func Run(ctx context.Context) error {
	log.Info("Starting dicehouse...")

	// Load configuration
	cfg := config.Get()

	// Initialize database connection
	db, err := database.NewConnection(ctx, cfg.DatabaseURL)
	if err != nil {
		return fmt.Errorf("failed to connect to database: %w", err)
	}
	log.Info("Database connection established")

	// Initialize event bus and wire the audit log subscribers
	eventBus := events.NewBus()
	subscribeLogging(eventBus)

	// Initialize unit of work factory
	uowFactory := repository.NewUnitOfWorkFactory(db, eventBus)

	// Outbound payments go through the external ledger transfer service
	transfers := transfer.NewClient(cfg.TransferServiceURL, cfg.ProtocolAccount)

	// Initialize services
	ledgerService := service.NewLedgerService(uowFactory, transfers)
	commitmentService := service.NewCommitmentService(uowFactory)
	matchingService := service.NewMatchingService(uowFactory)
	settlementService := service.NewSettlementService(uowFactory, transfers)
	collectorService := service.NewCollectorService(uowFactory, transfers)
	transferHandler := service.NewTransferHandler(ledgerService, matchingService)

	// HTTP action surface
	server := &http.Server{
		Addr: cfg.ListenAddr,
		Handler: api.NewServer(
			ledgerService,
			commitmentService,
			settlementService,
			collectorService,
			transferHandler,
		).Routes(),
	}

	errCh := make(chan error, 1)
	go func() {
		log.WithField("addr", cfg.ListenAddr).Infof("Listening in %s mode", cfg.Environment)
		if err := server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			errCh <- err
		}
	}()

	select {
	case err := <-errCh:
		db.Close()
		return fmt.Errorf("http server error: %w", err)
	case <-ctx.Done():
	}

	// Cleanup resources
	log.Info("Shutting down...")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	if err := server.Shutdown(shutdownCtx); err != nil {
		log.WithError(err).Warn("HTTP server shutdown did not finish cleanly")
	}

	db.Close()
	log.Info("Shutdown completed")

	return nil
}

// subscribeLogging attaches structured-log observers to the protocol events.
func subscribeLogging(bus *events.Bus) {
	bus.Subscribe(events.EventTypeBetMatched, func(ctx context.Context, e events.Event) {
		ev := e.(events.BetMatchedEvent)
		log.WithFields(log.Fields{
			"key":    ev.Key,
			"host":   ev.Host,
			"player": ev.Player,
			"bet":    ev.Bet,
			"guess":  ev.Guess,
		}).Info("Bet matched")
	})
	bus.Subscribe(events.EventTypeMatchSettled, func(ctx context.Context, e events.Event) {
		ev := e.(events.MatchSettledEvent)
		log.WithFields(log.Fields{
			"key":          ev.Key,
			"host":         ev.Host,
			"player":       ev.Player,
			"playerWon":    ev.PlayerWon,
			"playerPayout": ev.PlayerPayout,
			"hostPayout":   ev.HostPayout,
		}).Info("Match settled")
	})
	bus.Subscribe(events.EventTypeMatchCollected, func(ctx context.Context, e events.Event) {
		ev := e.(events.MatchCollectedEvent)
		log.WithFields(log.Fields{
			"key":    ev.Key,
			"player": ev.Player,
			"payout": ev.Payout,
		}).Info("Match collected on timeout")
	})
	bus.Subscribe(events.EventTypeBalanceChanged, func(ctx context.Context, e events.Event) {
		ev := e.(events.BalanceChangedEvent)
		log.WithFields(log.Fields{
			"owner":      ev.Owner,
			"oldBalance": ev.OldBalance,
			"newBalance": ev.NewBalance,
			"entryType":  ev.EntryType,
		}).Debug("Balance changed")
	})
}
