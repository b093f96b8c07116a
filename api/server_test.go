package api

import (
	"bytes"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"dicehouse/models"
	"dicehouse/service"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

const testCommitmentHex = "66687aadf862bd776c8fc18b8e9f8e20089714856ee233b3902a591d0d5f2925"

func newTestServer() (*Server, *service.MockLedgerService, *service.MockCommitmentService, *service.MockSettlementService, *service.MockCollectorService, *service.MockTransferHandler) {
	ledger := new(service.MockLedgerService)
	commitments := new(service.MockCommitmentService)
	settlement := new(service.MockSettlementService)
	collector := new(service.MockCollectorService)
	transfers := new(service.MockTransferHandler)
	server := NewServer(ledger, commitments, settlement, collector, transfers)
	return server, ledger, commitments, settlement, collector, transfers
}

func doRequest(t *testing.T, server *Server, path string, body any) *httptest.ResponseRecorder {
	t.Helper()

	payload, err := json.Marshal(body)
	require.NoError(t, err)

	req := httptest.NewRequest(http.MethodPost, path, bytes.NewReader(payload))
	rec := httptest.NewRecorder()
	server.Routes().ServeHTTP(rec, req)
	return rec
}

func TestServer_Commit_ReturnsDerivedKey(t *testing.T) {
	server, _, commitments, _, _, _ := newTestServer()

	commitment, err := models.ParseCommitmentHash(testCommitmentHex)
	require.NoError(t, err)

	commitments.On("Commit", mock.Anything, "hosta", commitment).Return(nil)

	rec := doRequest(t, server, "/commit", map[string]any{
		"host":       "hosta",
		"commitment": testCommitmentHex,
	})

	assert.Equal(t, http.StatusOK, rec.Code)

	var body struct {
		OK  bool  `json:"ok"`
		Key int64 `json:"key"`
	}
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &body))
	assert.True(t, body.OK)
	assert.Equal(t, models.DeriveKey(commitment), body.Key)

	commitments.AssertExpectations(t)
}

func TestServer_Commit_RejectsMalformedHash(t *testing.T) {
	server, _, commitments, _, _, _ := newTestServer()

	rec := doRequest(t, server, "/commit", map[string]any{
		"host":       "hosta",
		"commitment": "zzzz",
	})

	assert.Equal(t, http.StatusBadRequest, rec.Code)
	commitments.AssertNotCalled(t, "Commit")
}

func TestServer_Commit_MapsDuplicateToConflict(t *testing.T) {
	server, _, commitments, _, _, _ := newTestServer()

	commitments.On("Commit", mock.Anything, "hosta", mock.Anything).
		Return(service.ErrDuplicateCommitment)

	rec := doRequest(t, server, "/commit", map[string]any{
		"host":       "hosta",
		"commitment": testCommitmentHex,
	})

	assert.Equal(t, http.StatusConflict, rec.Code)
}

func TestServer_Cancel_MapsNotFound(t *testing.T) {
	server, _, commitments, _, _, _ := newTestServer()

	commitments.On("CancelCommit", mock.Anything, "hosta", mock.Anything).
		Return(service.ErrNotFound)

	rec := doRequest(t, server, "/cancel", map[string]any{
		"host":       "hosta",
		"commitment": testCommitmentHex,
	})

	assert.Equal(t, http.StatusNotFound, rec.Code)
}

func TestServer_Cancel_MapsAlreadyInPlayToConflict(t *testing.T) {
	server, _, commitments, _, _, _ := newTestServer()

	commitments.On("CancelCommit", mock.Anything, "hosta", mock.Anything).
		Return(service.ErrAlreadyInPlay)

	rec := doRequest(t, server, "/cancel", map[string]any{
		"host":       "hosta",
		"commitment": testCommitmentHex,
	})

	assert.Equal(t, http.StatusConflict, rec.Code)
}

func TestServer_Withdraw_MapsOverdrawnToUnprocessable(t *testing.T) {
	server, ledger, _, _, _, _ := newTestServer()

	ledger.On("Withdraw", mock.Anything, "hosta", int64(700000)).
		Return(service.ErrOverdrawn)

	rec := doRequest(t, server, "/withdraw", map[string]any{
		"to":     "hosta",
		"amount": 700000,
	})

	assert.Equal(t, http.StatusUnprocessableEntity, rec.Code)
}

func TestServer_Reveal_ReturnsSettlement(t *testing.T) {
	server, _, _, settlement, _, _ := newTestServer()

	var source models.CommitmentHash
	source[31] = 0x01
	commitment := models.HashSource(source)

	settlement.On("Reveal", mock.Anything, commitment, source).
		Return(&models.SettlementResult{
			Key:          models.DeriveKey(commitment),
			Settled:      true,
			Player:       "playerb",
			Host:         "hosta",
			PlayerWon:    true,
			PlayerPayout: 199,
			HostPayout:   1,
			Message:      "Win!",
		}, nil)

	rec := doRequest(t, server, "/reveal", map[string]any{
		"commitment": commitment.String(),
		"source":     source.String(),
	})

	assert.Equal(t, http.StatusOK, rec.Code)
	settlement.AssertExpectations(t)
}

func TestServer_Reveal_MapsMismatchToUnprocessable(t *testing.T) {
	server, _, _, settlement, _, _ := newTestServer()

	settlement.On("Reveal", mock.Anything, mock.Anything, mock.Anything).
		Return(nil, service.ErrCommitmentMismatch)

	rec := doRequest(t, server, "/reveal", map[string]any{
		"commitment": testCommitmentHex,
		"source":     testCommitmentHex,
	})

	assert.Equal(t, http.StatusUnprocessableEntity, rec.Code)
}

func TestServer_Collect_ReturnsResult(t *testing.T) {
	server, _, _, _, collector, _ := newTestServer()

	collector.On("Collect", mock.Anything, "playerb").
		Return(&models.CollectResult{Player: "playerb", Collected: 2, TotalPaid: 400}, nil)

	rec := doRequest(t, server, "/collect", map[string]any{"player": "playerb"})

	assert.Equal(t, http.StatusOK, rec.Code)
	collector.AssertExpectations(t)
}

func TestServer_Transfer_MapsRefusalsToUnprocessable(t *testing.T) {
	server, _, _, _, _, transfers := newTestServer()

	transfers.On("HandleTransfer", mock.Anything, mock.Anything).
		Return(service.ErrInvalidMemo)

	rec := doRequest(t, server, "/transfers", models.InboundTransfer{
		From:   "playerb",
		To:     "dicehouse",
		Asset:  "ACORN",
		Amount: 100,
		Memo:   "all in",
	})

	assert.Equal(t, http.StatusUnprocessableEntity, rec.Code)
}

func TestServer_Transfer_MapsNoBetsAvailable(t *testing.T) {
	server, _, _, _, _, transfers := newTestServer()

	transfers.On("HandleTransfer", mock.Anything, mock.Anything).
		Return(&service.NoBetsAvailableError{MaxBet: 200})

	rec := doRequest(t, server, "/transfers", models.InboundTransfer{
		From:   "playerb",
		To:     "dicehouse",
		Asset:  "ACORN",
		Amount: 1000,
		Memo:   "odd",
	})

	assert.Equal(t, http.StatusUnprocessableEntity, rec.Code)

	var body struct {
		OK    bool   `json:"ok"`
		Error string `json:"error"`
	}
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &body))
	assert.False(t, body.OK)
	assert.Contains(t, body.Error, "200")
}

func TestServer_Transfer_AcceptsValidTransfer(t *testing.T) {
	server, _, _, _, _, transfers := newTestServer()

	transfers.On("HandleTransfer", mock.Anything, mock.MatchedBy(func(tr models.InboundTransfer) bool {
		return tr.From == "hosta" && tr.Amount == 500000 && tr.Memo == "deposit"
	})).Return(nil)

	rec := doRequest(t, server, "/transfers", models.InboundTransfer{
		From:   "hosta",
		To:     "dicehouse",
		Asset:  "ACORN",
		Amount: 500000,
		Memo:   "deposit",
	})

	assert.Equal(t, http.StatusOK, rec.Code)
	transfers.AssertExpectations(t)
}

func TestServer_RejectsMalformedJSON(t *testing.T) {
	server, ledger, _, _, _, _ := newTestServer()

	req := httptest.NewRequest(http.MethodPost, "/withdraw", bytes.NewReader([]byte("{broken")))
	rec := httptest.NewRecorder()
	server.Routes().ServeHTTP(rec, req)

	assert.Equal(t, http.StatusBadRequest, rec.Code)
	ledger.AssertNotCalled(t, "Withdraw")
}
