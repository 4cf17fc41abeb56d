package model

import (
	"crypto/sha256"
	"encoding/hex"
	"fmt"
	"time"

	"github.com/shopspring/decimal"
)

// BalanceTick is one observation of a wallet's cycle balance.
type BalanceTick struct {
	Id        string          `json:"_id,omitempty"`
	WalletId  string          `json:"wallet_id"`
	Timestamp time.Time       `json:"timestamp"`
	Cycles    decimal.Decimal `json:"cycles"`
	CreatedAt time.Time       `json:"created_at"`
}

func (b BalanceTick) Validate() error {
	if b.WalletId == "" {
		return fmt.Errorf("%w: missing wallet id", ErrInvalidTick)
	}
	if b.Timestamp.IsZero() {
		return fmt.Errorf("%w: missing timestamp", ErrInvalidTick)
	}
	if b.Cycles.IsNegative() {
		return fmt.Errorf("%w: negative balance %s", ErrInvalidTick, b.Cycles)
	}
	return nil
}

func BalanceTickDocumentId(walletId string, timestamp time.Time) string {
	data := fmt.Sprintf("%s:%d", walletId, timestamp.UnixNano())
	hash := sha256.Sum256([]byte(data))
	return hex.EncodeToString(hash[:])
}

func (b BalanceTick) GetWalletId() string {
	return b.WalletId
}
