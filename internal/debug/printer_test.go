package debug

import (
	"bytes"
	"log/slog"
	"math/big"
	"testing"

	"supplychain/internal/models"

	"github.com/ethereum/go-ethereum/common"
	"github.com/ethereum/go-ethereum/core/types"
	"github.com/stretchr/testify/assert"
)

func captureLogs(t *testing.T, level slog.Level) *bytes.Buffer {
	t.Helper()
	var buf bytes.Buffer
	prev := slog.Default()
	slog.SetDefault(slog.New(slog.NewTextHandler(&buf, &slog.HandlerOptions{Level: level})))
	t.Cleanup(func() { slog.SetDefault(prev) })
	return &buf
}

func TestPrintActionResult(t *testing.T) {
	buf := captureLogs(t, slog.LevelDebug)

	PrintActionResult(&models.ActionResult{Action: "queryProduct", Message: "Product #0: Retail"})
	assert.Contains(t, buf.String(), "Action result details")
	assert.Contains(t, buf.String(), "queryProduct")
}

func TestPrintReceipt(t *testing.T) {
	buf := captureLogs(t, slog.LevelDebug)

	PrintReceipt(&types.Receipt{
		Status:      types.ReceiptStatusSuccessful,
		TxHash:      common.HexToHash("0xbeef"),
		BlockNumber: big.NewInt(3),
		Logs:        []*types.Log{},
	})
	assert.Contains(t, buf.String(), "Transaction receipt details")
	assert.Contains(t, buf.String(), "transactionHash")
}

func TestPrintSkippedAboveDebug(t *testing.T) {
	buf := captureLogs(t, slog.LevelInfo)

	PrintActionResult(&models.ActionResult{Action: "queryProduct"})
	PrintReceipt(nil)
	assert.Empty(t, buf.String())
}
