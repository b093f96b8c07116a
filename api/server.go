package api

import (
	"encoding/json"
	"errors"
	"net/http"

	"dicehouse/models"
	"dicehouse/service"

	log "github.com/sirupsen/logrus"
)

// Server exposes the protocol actions over HTTP. Caller authentication is an
// upstream concern: handlers trust the identity fields in the request body.
type Server struct {
	ledger      service.LedgerService
	commitments service.CommitmentService
	settlement  service.SettlementService
	collector   service.CollectorService
	transfers   service.TransferHandler
}

// NewServer creates the HTTP action surface
func NewServer(
	ledger service.LedgerService,
	commitments service.CommitmentService,
	settlement service.SettlementService,
	collector service.CollectorService,
	transfers service.TransferHandler,
) *Server {
	return &Server{
		ledger:      ledger,
		commitments: commitments,
		settlement:  settlement,
		collector:   collector,
		transfers:   transfers,
	}
}

// Routes returns the handler for all protocol actions
func (s *Server) Routes() http.Handler {
	mux := http.NewServeMux()
	mux.HandleFunc("POST /withdraw", s.handleWithdraw)
	mux.HandleFunc("POST /commit", s.handleCommit)
	mux.HandleFunc("POST /cancel", s.handleCancel)
	mux.HandleFunc("POST /reveal", s.handleReveal)
	mux.HandleFunc("POST /collect", s.handleCollect)
	mux.HandleFunc("POST /transfers", s.handleTransfer)
	return mux
}

type withdrawRequest struct {
	To     string `json:"to"`
	Amount int64  `json:"amount"`
}

func (s *Server) handleWithdraw(w http.ResponseWriter, r *http.Request) {
	var req withdrawRequest
	if !decodeJSON(w, r, &req) {
		return
	}

	if err := s.ledger.Withdraw(r.Context(), req.To, req.Amount); err != nil {
		writeError(w, err)
		return
	}
	writeOK(w, nil)
}

type commitRequest struct {
	Host       string `json:"host"`
	Commitment string `json:"commitment"`
}

func (s *Server) handleCommit(w http.ResponseWriter, r *http.Request) {
	var req commitRequest
	if !decodeJSON(w, r, &req) {
		return
	}

	hash, err := models.ParseCommitmentHash(req.Commitment)
	if err != nil {
		writeStatus(w, http.StatusBadRequest, err)
		return
	}

	if err := s.commitments.Commit(r.Context(), req.Host, hash); err != nil {
		writeError(w, err)
		return
	}
	writeOK(w, map[string]any{"key": models.DeriveKey(hash)})
}

func (s *Server) handleCancel(w http.ResponseWriter, r *http.Request) {
	var req commitRequest
	if !decodeJSON(w, r, &req) {
		return
	}

	hash, err := models.ParseCommitmentHash(req.Commitment)
	if err != nil {
		writeStatus(w, http.StatusBadRequest, err)
		return
	}

	if err := s.commitments.CancelCommit(r.Context(), req.Host, hash); err != nil {
		writeError(w, err)
		return
	}
	writeOK(w, nil)
}

type revealRequest struct {
	Commitment string `json:"commitment"`
	Source     string `json:"source"`
}

func (s *Server) handleReveal(w http.ResponseWriter, r *http.Request) {
	var req revealRequest
	if !decodeJSON(w, r, &req) {
		return
	}

	commitment, err := models.ParseCommitmentHash(req.Commitment)
	if err != nil {
		writeStatus(w, http.StatusBadRequest, err)
		return
	}
	source, err := models.ParseCommitmentHash(req.Source)
	if err != nil {
		writeStatus(w, http.StatusBadRequest, err)
		return
	}

	result, err := s.settlement.Reveal(r.Context(), commitment, source)
	if err != nil {
		writeError(w, err)
		return
	}
	writeOK(w, map[string]any{"result": result})
}

type collectRequest struct {
	Player string `json:"player"`
}

func (s *Server) handleCollect(w http.ResponseWriter, r *http.Request) {
	var req collectRequest
	if !decodeJSON(w, r, &req) {
		return
	}

	result, err := s.collector.Collect(r.Context(), req.Player)
	if err != nil {
		writeError(w, err)
		return
	}
	writeOK(w, map[string]any{"result": result})
}

func (s *Server) handleTransfer(w http.ResponseWriter, r *http.Request) {
	var req models.InboundTransfer
	if !decodeJSON(w, r, &req) {
		return
	}

	// Any error here must make the caller refuse the whole transfer.
	if err := s.transfers.HandleTransfer(r.Context(), req); err != nil {
		writeError(w, err)
		return
	}
	writeOK(w, nil)
}

func decodeJSON(w http.ResponseWriter, r *http.Request, v any) bool {
	if err := json.NewDecoder(r.Body).Decode(v); err != nil {
		writeStatus(w, http.StatusBadRequest, err)
		return false
	}
	return true
}

func writeOK(w http.ResponseWriter, payload map[string]any) {
	body := map[string]any{"ok": true}
	for k, v := range payload {
		body[k] = v
	}
	w.Header().Set("Content-Type", "application/json")
	if err := json.NewEncoder(w).Encode(body); err != nil {
		log.WithError(err).Error("Failed to encode response")
	}
}

func writeStatus(w http.ResponseWriter, status int, err error) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if encErr := json.NewEncoder(w).Encode(map[string]any{"ok": false, "error": err.Error()}); encErr != nil {
		log.WithError(encErr).Error("Failed to encode error response")
	}
}

// writeError maps protocol error kinds to HTTP statuses.
func writeError(w http.ResponseWriter, err error) {
	var noBets *service.NoBetsAvailableError

	switch {
	case errors.Is(err, service.ErrNotFound):
		writeStatus(w, http.StatusNotFound, err)
	case errors.Is(err, service.ErrAlreadyInPlay),
		errors.Is(err, service.ErrDuplicateCommitment):
		writeStatus(w, http.StatusConflict, err)
	case errors.Is(err, service.ErrInvalidAsset),
		errors.Is(err, service.ErrBelowMinimum),
		errors.Is(err, service.ErrNoBankroll),
		errors.Is(err, service.ErrReservedSource),
		errors.Is(err, service.ErrCommitmentMismatch),
		errors.Is(err, service.ErrOverdrawn),
		errors.Is(err, service.ErrInvalidMemo):
		writeStatus(w, http.StatusUnprocessableEntity, err)
	case errors.As(err, &noBets):
		writeStatus(w, http.StatusUnprocessableEntity, err)
	default:
		writeStatus(w, http.StatusInternalServerError, err)
	}
}
