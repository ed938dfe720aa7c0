package kinesis

import (
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/aws/aws-lambda-go/events"
	"github.com/example/teskom-storefront/internal/infrastructure/store"
)

var ErrMissingFields = errors.New("journal record is missing required fields")

// ConvertFromKinesisRecord converts a DynamoDB change record delivered through
// Kinesis into a journal event. Records other than INSERT yield nil.
func ConvertFromKinesisRecord(record events.KinesisEventRecord) (*store.Event, error) {
	var change events.DynamoDBEventRecord
	if err := json.Unmarshal(record.Kinesis.Data, &change); err != nil {
		return nil, fmt.Errorf("failed to unmarshal DynamoDB record: %w", err)
	}
	return ConvertFromDynamoDBStreamRecord(change)
}

// ConvertFromDynamoDBStreamRecord converts a DynamoDB Streams record into a
// journal event. Records other than INSERT yield nil.
func ConvertFromDynamoDBStreamRecord(record events.DynamoDBEventRecord) (*store.Event, error) {
	if record.EventName != string(events.DynamoDBOperationTypeInsert) {
		return nil, nil
	}
	return convertImage(record.Change.NewImage)
}

func convertImage(image map[string]events.DynamoDBAttributeValue) (*store.Event, error) {
	if image == nil {
		return nil, fmt.Errorf("%w: image is nil", ErrMissingFields)
	}

	event := &store.Event{
		ID:            str(image, "id"),
		AggregateID:   str(image, "aggregate_id"),
		AggregateType: str(image, "aggregate_type"),
		EventType:     str(image, "event_type"),
	}
	if data := str(image, "data"); data != "" {
		event.Data = json.RawMessage(data)
	}
	if v := str(image, "created_at"); v != "" {
		t, err := time.Parse(time.RFC3339Nano, v)
		if err != nil {
			return nil, fmt.Errorf("failed to parse created_at: %w", err)
		}
		event.Timestamp = t
	}
	if v, ok := image["version"]; ok && v.DataType() == events.DataTypeNumber {
		version, err := v.Integer()
		if err != nil {
			return nil, fmt.Errorf("failed to parse version: %w", err)
		}
		event.Version = int(version)
	}

	if event.ID == "" || event.AggregateID == "" || event.EventType == "" {
		return nil, fmt.Errorf("%w: id=%q aggregate_id=%q event_type=%q",
			ErrMissingFields, event.ID, event.AggregateID, event.EventType)
	}
	return event, nil
}

func str(image map[string]events.DynamoDBAttributeValue, name string) string {
	v, ok := image[name]
	if !ok || v.DataType() != events.DataTypeString {
		return ""
	}
	return v.String()
}
