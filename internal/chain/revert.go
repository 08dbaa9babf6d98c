package chain

import (
	"errors"
	"strings"
)

// RevertReason returns a short description of why a call or transaction was
// rejected: the node's "execution reverted..." text when present, otherwise
// the full error. It returns "" for a nil error.
func RevertReason(err error) string {
	if err == nil {
		return ""
	}
	if errors.Is(err, ErrReverted) {
		return ErrReverted.Error()
	}
	msg := err.Error()
	// Common pattern: "execution reverted: <reason>"
	if idx := strings.Index(msg, "execution reverted"); idx >= 0 {
		return strings.TrimSpace(msg[idx:])
	}
	if idx := strings.Index(msg, "revert"); idx >= 0 {
		return strings.TrimSpace(msg[idx:])
	}
	return msg
}

// IsRevert reports whether err describes an EVM revert, either at
// estimation time or in a mined receipt.
func IsRevert(err error) bool {
	if err == nil {
		return false
	}
	return errors.Is(err, ErrReverted) || strings.Contains(err.Error(), "revert")
}
