package service

import (
	"context"
	"encoding/json"
	"fmt"
	"math"
	"time"

	"github.com/Avi18971911/CycleWallet/internal/db/elasticsearch/bootstrapper"
	"github.com/Avi18971911/CycleWallet/internal/db/elasticsearch/client"
	"github.com/Avi18971911/CycleWallet/internal/db/write_buffer"
	"github.com/Avi18971911/CycleWallet/internal/wallet/model"
	"go.uber.org/zap"
)

const timeout = 10 * time.Second
const querySize = 10000

type EventService interface {
	RecordEvents(ctx context.Context, events []model.Event) error
	// GetEvents returns the wallet's events with ids in [from, to], ordered by id. Either bound may be nil.
	// Results are paged on the event id, so the whole range is returned however long it is.
	GetEvents(ctx context.Context, walletId string, from *uint32, to *uint32) ([]model.Event, error)
	CountEvents(ctx context.Context, walletId string) (int64, error)
}

type EventServiceImpl struct {
	ac       client.WalletClient
	dbBuffer write_buffer.DatabaseWriteBuffer[model.Event]
	pageSize int
	logger   *zap.Logger
}

func NewEventService(
	ac client.WalletClient,
	dbBuffer write_buffer.DatabaseWriteBuffer[model.Event],
	logger *zap.Logger,
) *EventServiceImpl {
	return &EventServiceImpl{
		ac:       ac,
		dbBuffer: dbBuffer,
		pageSize: querySize,
		logger:   logger,
	}
}

func (es *EventServiceImpl) RecordEvents(ctx context.Context, events []model.Event) error {
	createdAt := time.Now().UTC()
	typedEvents := make([]model.Event, len(events))
	for i, event := range events {
		if err := event.Validate(); err != nil {
			return err
		}
		event.Id = model.EventDocumentId(event.WalletId, event.EventId)
		event.Timestamp = event.Timestamp.UTC()
		event.CreatedAt = createdAt
		typedEvents[i] = event
	}
	es.dbBuffer.WriteToBuffer(typedEvents)
	return nil
}

func (es *EventServiceImpl) GetEvents(
	ctx context.Context,
	walletId string,
	from *uint32,
	to *uint32,
) ([]model.Event, error) {
	if from != nil && to != nil && *from > *to {
		return nil, fmt.Errorf("%w: from (%d) is after to (%d)", ErrInvalidRange, *from, *to)
	}
	events := []model.Event{}
	next := from
	for {
		page, err := es.getEventPage(ctx, walletId, next, to)
		if err != nil {
			return nil, err
		}
		events = append(events, page...)
		if len(page) < es.pageSize {
			return events, nil
		}
		last := page[len(page)-1].EventId
		if last == math.MaxUint32 || (to != nil && last >= *to) {
			return events, nil
		}
		following := last + 1
		next = &following
	}
}

func (es *EventServiceImpl) getEventPage(
	ctx context.Context,
	walletId string,
	from *uint32,
	to *uint32,
) ([]model.Event, error) {
	query := getEventsQuery(walletId, from, to)
	queryJson, err := json.Marshal(query)
	if err != nil {
		es.logger.Error("Error when marshalling query to JSON", zap.Error(err))
		return nil, err
	}
	size := es.pageSize
	queryCtx, cancel := context.WithTimeout(ctx, timeout)
	defer cancel()
	res, err := es.ac.Search(
		queryCtx,
		string(queryJson),
		[]string{bootstrapper.WalletEventIndexName},
		&size,
	)
	if err != nil {
		return nil, fmt.Errorf("error searching for events of wallet %s: %w", walletId, err)
	}
	events, err := client.FromDocuments[model.Event](res)
	if err != nil {
		return nil, fmt.Errorf("error converting search result to events: %w", err)
	}
	return events, nil
}

func (es *EventServiceImpl) CountEvents(ctx context.Context, walletId string) (int64, error) {
	queryJson, err := json.Marshal(countEventsQuery(walletId))
	if err != nil {
		return 0, fmt.Errorf("error marshalling count query: %w", err)
	}
	queryCtx, cancel := context.WithTimeout(ctx, timeout)
	defer cancel()
	count, err := es.ac.Count(queryCtx, string(queryJson), []string{bootstrapper.WalletEventIndexName})
	if err != nil {
		return 0, fmt.Errorf("error counting events of wallet %s: %w", walletId, err)
	}
	return count, nil
}
