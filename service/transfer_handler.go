package service

import (
	"context"
	"fmt"

	"dicehouse/config"
	"dicehouse/models"

	log "github.com/sirupsen/logrus"
)

const maxMemoBytes = 256

type transferHandler struct {
	ledger   LedgerService
	matching MatchingService
}

// NewTransferHandler creates the dispatcher for inbound transfer
// notifications from the external ledger transfer service.
func NewTransferHandler(ledger LedgerService, matching MatchingService) TransferHandler {
	return &transferHandler{
		ledger:   ledger,
		matching: matching,
	}
}

// HandleTransfer validates an inbound transfer and routes it by memo:
// "deposit" funds the sender's bankroll, "odd"/"1" and "even"/"0" place a
// parity bet of the transferred amount. Returning an error makes the
// external service refuse the whole transfer, so no funds are retained on
// failure. Transfers sent by the protocol account itself are payout echoes
// and are ignored.
func (h *transferHandler) HandleTransfer(ctx context.Context, transfer models.InboundTransfer) error {
	cfg := config.Get()

	if transfer.From == cfg.ProtocolAccount {
		return nil
	}

	if transfer.Asset != cfg.AssetSymbol {
		return fmt.Errorf("%w: can only accept %s, got %s", ErrInvalidAsset, cfg.AssetSymbol, transfer.Asset)
	}
	// The floor doubles as deposit-spam guard and minimum bet.
	if transfer.Amount < cfg.MinTransfer {
		return fmt.Errorf("%w: transfers must move at least %d shells", ErrBelowMinimum, cfg.MinTransfer)
	}
	if len(transfer.Memo) > maxMemoBytes {
		return fmt.Errorf("%w: memo has more than %d bytes", ErrInvalidMemo, maxMemoBytes)
	}

	memo, ok := models.ParseMemo(transfer.Memo)
	if !ok {
		return fmt.Errorf("%w", ErrInvalidMemo)
	}

	switch memo {
	case models.MemoDeposit:
		return h.ledger.Deposit(ctx, transfer.From, transfer.Amount)
	default:
		guess, _ := memo.Guess()
		match, err := h.matching.PlaceBet(ctx, transfer.From, transfer.Amount, guess)
		if err != nil {
			return err
		}
		log.WithFields(log.Fields{
			"player":   transfer.From,
			"host":     match.Host,
			"bet":      match.Bet,
			"key":      match.Key,
			"deadline": match.Deadline,
		}).Info("Bet matched")
		return nil
	}
}
