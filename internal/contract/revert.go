package contract

import (
	"errors"
	"regexp"
	"strings"

	"github.com/ethereum/go-ethereum/accounts/abi"
	"github.com/ethereum/go-ethereum/common/hexutil"
	"github.com/ethereum/go-ethereum/rpc"
)

var (
	reasonStringRe = regexp.MustCompile(`reverted with (?:reason string|custom error) '([^']*)'`)
	executionRe    = regexp.MustCompile(`execution reverted: (.+)$`)
	trailingRe     = regexp.MustCompile(`\brevert\s+(.+)$`)
)

// RevertReason extracts a human-readable revert reason from a provider
// error. It tries the ABI-encoded error data first, then the reason
// embedded in the message, and falls back to the raw message.
func RevertReason(err error) string {
	if err == nil {
		return ""
	}

	var dataErr rpc.DataError
	if errors.As(err, &dataErr) {
		if reason := reasonFromData(dataErr.ErrorData()); reason != "" {
			return reason
		}
	}

	msg := err.Error()
	if m := reasonStringRe.FindStringSubmatch(msg); m != nil {
		return m[1]
	}
	for _, re := range []*regexp.Regexp{executionRe, trailingRe} {
		if m := re.FindStringSubmatch(msg); m != nil {
			return strings.TrimSpace(m[1])
		}
	}
	return msg
}

// reasonFromData handles the shapes nodes use for error data: a hex
// string of the Error(string) payload, or a Ganache-style object keyed by
// transaction hash with a "reason" field.
func reasonFromData(data interface{}) string {
	switch v := data.(type) {
	case string:
		raw, err := hexutil.Decode(v)
		if err != nil {
			return ""
		}
		reason, err := abi.UnpackRevert(raw)
		if err != nil {
			return ""
		}
		return reason
	case map[string]interface{}:
		if reason, ok := v["reason"].(string); ok && reason != "" {
			return reason
		}
		if inner, ok := v["data"]; ok {
			if reason := reasonFromData(inner); reason != "" {
				return reason
			}
		}
		for _, nested := range v {
			if m, ok := nested.(map[string]interface{}); ok {
				if reason := reasonFromData(m); reason != "" {
					return reason
				}
			}
		}
	}
	return ""
}
