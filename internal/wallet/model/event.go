package model

import (
	"crypto/sha256"
	"encoding/hex"
	"errors"
	"fmt"
	"time"

	"github.com/shopspring/decimal"
)

type EventKind string

const (
	CyclesSent       EventKind = "cycles_sent"
	CyclesReceived   EventKind = "cycles_received"
	CanisterCreated  EventKind = "canister_created"
	CanisterCalled   EventKind = "canister_called"
	CustodianAdded   EventKind = "custodian_added"
	CustodianRemoved EventKind = "custodian_removed"
)

var EventKinds = []EventKind{
	CyclesSent,
	CyclesReceived,
	CanisterCreated,
	CanisterCalled,
	CustodianAdded,
	CustodianRemoved,
}

func (k EventKind) IsValid() bool {
	for _, kind := range EventKinds {
		if k == kind {
			return true
		}
	}
	return false
}

// carriesCycles reports whether events of this kind move cycles in or out of the wallet.
func (k EventKind) carriesCycles() bool {
	return k == CyclesSent || k == CyclesReceived
}

// Event is one entry of a wallet's event log as reported by the wallet canister.
type Event struct {
	Id           string          `json:"_id,omitempty"`
	WalletId     string          `json:"wallet_id"`
	EventId      uint32          `json:"event_id"`
	Timestamp    time.Time       `json:"timestamp"`
	Kind         EventKind       `json:"kind"`
	Counterparty string          `json:"counterparty,omitempty"`
	Amount       decimal.Decimal `json:"amount"`
	MethodName   string          `json:"method_name,omitempty"`
	CreatedAt    time.Time       `json:"created_at"`
}

var (
	ErrInvalidEvent = errors.New("invalid wallet event")
	ErrInvalidTick  = errors.New("invalid balance tick")
)

func (e Event) Validate() error {
	if e.WalletId == "" {
		return fmt.Errorf("%w: missing wallet id", ErrInvalidEvent)
	}
	if !e.Kind.IsValid() {
		return fmt.Errorf("%w: unknown kind %q", ErrInvalidEvent, e.Kind)
	}
	if e.Timestamp.IsZero() {
		return fmt.Errorf("%w: missing timestamp for event %d", ErrInvalidEvent, e.EventId)
	}
	if e.Amount.IsNegative() {
		return fmt.Errorf("%w: negative amount %s for event %d", ErrInvalidEvent, e.Amount, e.EventId)
	}
	if e.Kind.carriesCycles() && e.Amount.IsZero() {
		return fmt.Errorf("%w: %s event %d has no amount", ErrInvalidEvent, e.Kind, e.EventId)
	}
	return nil
}

// EventDocumentId is stable for a wallet's event id so that re-reported events overwrite themselves.
func EventDocumentId(walletId string, eventId uint32) string {
	data := fmt.Sprintf("%s:%d", walletId, eventId)
	hash := sha256.Sum256([]byte(data))
	return hex.EncodeToString(hash[:])
}

func (e Event) GetWalletId() string {
	return e.WalletId
}
