package debug

import (
	"context"
	"encoding/json"
	"log/slog"

	"supplychain/internal/models"

	"github.com/ethereum/go-ethereum/core/types"
)

// PrintReceipt prints the transaction receipt in JSON format
func PrintReceipt(receipt *types.Receipt) {
	if receipt == nil || !slog.Default().Enabled(context.Background(), slog.LevelDebug) {
		return
	}

	jsonData, err := json.MarshalIndent(receipt, "", "  ")
	if err != nil {
		slog.Error("Failed to marshal receipt to JSON", "error", err)
		return
	}

	slog.Debug("Transaction receipt details", "json", string(jsonData))
}

// PrintActionResult prints the action result in JSON format
func PrintActionResult(result *models.ActionResult) {
	if result == nil || !slog.Default().Enabled(context.Background(), slog.LevelDebug) {
		return
	}

	jsonData, err := json.MarshalIndent(result, "", "  ")
	if err != nil {
		slog.Error("Failed to marshal action result to JSON", "error", err)
		return
	}

	slog.Debug("Action result details", "json", string(jsonData))
}
