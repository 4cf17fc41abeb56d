package handler

import (
	"math"

	chartModel "github.com/Avi18971911/CycleWallet/internal/chart/model"
	"github.com/Avi18971911/CycleWallet/internal/wallet/model"
	"github.com/Avi18971911/CycleWallet/internal/wallet/service"
)

func bucketsToDTO(input []chartModel.Bucket) []BucketDTO {
	buckets := make([]BucketDTO, len(input))
	for i, bucket := range input {
		var scaled *float64
		if !math.IsInf(bucket.ScaledAmount, 0) && !math.IsNaN(bucket.ScaledAmount) {
			value := bucket.ScaledAmount
			scaled = &value
		}
		buckets[i] = BucketDTO{
			Date:         bucket.Date,
			HumanDate:    bucket.HumanDate,
			RealAmount:   bucket.RealAmount,
			ScaledAmount: scaled,
		}
	}
	return buckets
}

func balanceToDTO(input *model.BalanceTick) BalanceResponseDTO {
	return BalanceResponseDTO{
		WalletId:  input.WalletId,
		Amount:    input.Cycles,
		Human:     service.FormatCycles(input.Cycles),
		Timestamp: input.Timestamp,
	}
}

func ticksFromDTO(walletId string, input []BalanceTickDTO) []model.BalanceTick {
	ticks := make([]model.BalanceTick, len(input))
	for i, tick := range input {
		ticks[i] = model.BalanceTick{
			WalletId:  walletId,
			Timestamp: tick.Timestamp,
			Cycles:    tick.Cycles,
		}
	}
	return ticks
}

func eventsToDTO(input []model.Event) []EventDTO {
	events := make([]EventDTO, len(input))
	for i, event := range input {
		events[i] = EventDTO{
			EventId:      event.EventId,
			Timestamp:    event.Timestamp,
			Kind:         string(event.Kind),
			Counterparty: event.Counterparty,
			Amount:       event.Amount,
			MethodName:   event.MethodName,
		}
	}
	return events
}

func eventsFromDTO(walletId string, input []EventDTO) []model.Event {
	events := make([]model.Event, len(input))
	for i, event := range input {
		events[i] = model.Event{
			WalletId:     walletId,
			EventId:      event.EventId,
			Timestamp:    event.Timestamp,
			Kind:         model.EventKind(event.Kind),
			Counterparty: event.Counterparty,
			Amount:       event.Amount,
			MethodName:   event.MethodName,
		}
	}
	return events
}
