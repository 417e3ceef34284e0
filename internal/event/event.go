package event

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/fekuna/omnipos-inventory-service/pkg/broker"
	"github.com/google/uuid"
)

const (
	TypeStockAdjusted         = "StockAdjusted"
	TypePurchaseOrderSent     = "PurchaseOrderSent"
	TypePurchaseOrderReceived = "PurchaseOrderReceived"
)

type Event struct {
	EventID   string      `json:"event_id"`
	EventType string      `json:"event_type"`
	StoreID   string      `json:"store_id"`
	Key       string      `json:"-"`
	Payload   interface{} `json:"payload"`
	Timestamp time.Time   `json:"timestamp"`
}

func New(eventType, storeID, key string, payload interface{}) Event {
	return Event{
		EventID:   uuid.New().String(),
		EventType: eventType,
		StoreID:   storeID,
		Key:       key,
		Payload:   payload,
		Timestamp: time.Now().UTC(),
	}
}

// Publisher delivers domain events after the change they describe has been
// committed.
type Publisher interface {
	Publish(ctx context.Context, evt Event) error
}

type StockAdjustedPayload struct {
	PartID         string `json:"part_id"`
	QuantityChange int    `json:"quantity_change"`
	InStock        int    `json:"in_stock"`
	Reason         string `json:"reason"`
	UserID         string `json:"user_id,omitempty"`
}

type PurchaseOrderPayload struct {
	PurchaseOrderID string              `json:"purchase_order_id"`
	PONumber        string              `json:"po_number"`
	SupplierID      string              `json:"supplier_id"`
	Items           []PurchaseOrderLine `json:"items"`
}

type PurchaseOrderLine struct {
	PartID   string `json:"part_id"`
	Quantity int    `json:"quantity"`
}

type kafkaPublisher struct {
	producer *broker.KafkaProducer
}

func NewKafkaPublisher(producer *broker.KafkaProducer) Publisher {
	return &kafkaPublisher{producer: producer}
}

func (p *kafkaPublisher) Publish(ctx context.Context, evt Event) error {
	value, err := json.Marshal(evt)
	if err != nil {
		return fmt.Errorf("marshal %s event: %w", evt.EventType, err)
	}
	return p.producer.Publish(ctx, evt.Key, value)
}
