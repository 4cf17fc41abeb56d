package handler

import (
	"time"

	"github.com/shopspring/decimal"
)

// BucketDTO is one point of a balance chart
// @swagger:model BucketDTO
type BucketDTO struct {
	// The bucket boundary
	Date time.Time `json:"date"`
	// The boundary as shown on the chart axis
	HumanDate string `json:"human_date"`
	// The balance in cycles
	RealAmount float64 `json:"real_amount"`
	// log10 of the balance, null when the balance is zero
	ScaledAmount *float64 `json:"scaled_amount"`
}

// ChartResponseDTO represents the response to a chart request
// @swagger:model ChartResponseDTO
type ChartResponseDTO struct {
	WalletId  string      `json:"wallet_id"`
	Precision string      `json:"precision"`
	Buckets   []BucketDTO `json:"buckets"`
}

// BalanceResponseDTO represents the latest known balance of a wallet
// @swagger:model BalanceResponseDTO
type BalanceResponseDTO struct {
	WalletId string `json:"wallet_id"`
	// Exact balance in cycles
	Amount decimal.Decimal `json:"amount"`
	// Balance with a metric suffix, e.g. "3 TC"
	Human     string    `json:"human"`
	Timestamp time.Time `json:"timestamp"`
}

// BalanceTickDTO is one observed balance
// @swagger:model BalanceTickDTO
type BalanceTickDTO struct {
	Timestamp time.Time       `json:"timestamp"`
	Cycles    decimal.Decimal `json:"cycles"`
}

// RecordBalancesRequestDTO represents a batch of observed balances
// @swagger:model RecordBalancesRequestDTO
type RecordBalancesRequestDTO struct {
	Ticks []BalanceTickDTO `json:"ticks"`
}

// EventDTO is one entry of the wallet's event log
// @swagger:model EventDTO
type EventDTO struct {
	EventId      uint32          `json:"event_id"`
	Timestamp    time.Time       `json:"timestamp"`
	Kind         string          `json:"kind"`
	Counterparty string          `json:"counterparty,omitempty"`
	Amount       decimal.Decimal `json:"amount"`
	MethodName   string          `json:"method_name,omitempty"`
}

// EventsResponseDTO represents the response to an events request
// @swagger:model EventsResponseDTO
type EventsResponseDTO struct {
	WalletId string     `json:"wallet_id"`
	Events   []EventDTO `json:"events"`
	// Number of events recorded for the wallet, regardless of the requested range
	Total int64 `json:"total"`
}

// RecordEventsRequestDTO represents a batch of wallet events
// @swagger:model RecordEventsRequestDTO
type RecordEventsRequestDTO struct {
	Events []EventDTO `json:"events"`
}

// AcceptedResponseDTO acknowledges a batch queued for storage
// @swagger:model AcceptedResponseDTO
type AcceptedResponseDTO struct {
	Accepted int `json:"accepted"`
}
