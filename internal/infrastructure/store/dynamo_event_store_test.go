package store

import (
	"context"
	"strconv"
	"testing"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/service/dynamodb"
	"github.com/aws/aws-sdk-go-v2/service/dynamodb/types"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// fakeDynamo keeps items per partition key in insertion order
type fakeDynamo struct {
	items map[string][]map[string]types.AttributeValue
	puts  []*dynamodb.PutItemInput
	// conflict makes the next PutItem fail its condition
	conflict bool
}

func newFakeDynamo() *fakeDynamo {
	return &fakeDynamo{items: make(map[string][]map[string]types.AttributeValue)}
}

func (f *fakeDynamo) PutItem(ctx context.Context, in *dynamodb.PutItemInput, _ ...func(*dynamodb.Options)) (*dynamodb.PutItemOutput, error) {
	f.puts = append(f.puts, in)
	if f.conflict {
		f.conflict = false
		return nil, &types.ConditionalCheckFailedException{Message: aws.String("exists")}
	}
	pk := in.Item["aggregate_id"].(*types.AttributeValueMemberS).Value
	f.items[pk] = append(f.items[pk], in.Item)
	return &dynamodb.PutItemOutput{}, nil
}

func (f *fakeDynamo) Query(ctx context.Context, in *dynamodb.QueryInput, _ ...func(*dynamodb.Options)) (*dynamodb.QueryOutput, error) {
	pk := in.ExpressionAttributeValues[":aid"].(*types.AttributeValueMemberS).Value
	items := f.items[pk]
	if in.ScanIndexForward != nil && !*in.ScanIndexForward {
		reversed := make([]map[string]types.AttributeValue, 0, len(items))
		for i := len(items) - 1; i >= 0; i-- {
			reversed = append(reversed, items[i])
		}
		items = reversed
	}
	if in.Limit != nil && int(*in.Limit) < len(items) {
		items = items[:*in.Limit]
	}
	return &dynamodb.QueryOutput{Items: items, Count: int32(len(items))}, nil
}

func TestDynamoEventStore_AppendAndGet(t *testing.T) {
	db := newFakeDynamo()
	es := NewDynamoEventStore(db, "booking-events")
	ctx := context.Background()

	first, err := es.Append(ctx, "booking-1", "RentalBooking", "RentalBookingRequested", map[string]int{"days": 5})
	require.NoError(t, err)
	second, err := es.Append(ctx, "booking-1", "RentalBooking", "RentalBookingRequested", map[string]int{"days": 2})
	require.NoError(t, err)

	assert.Equal(t, 1, first.Version)
	assert.Equal(t, 2, second.Version)
	require.Len(t, db.puts, 2)
	assert.Equal(t, "booking-events", *db.puts[0].TableName)
	assert.NotNil(t, db.puts[0].ConditionExpression)
	assert.Equal(t, strconv.Itoa(2), db.puts[1].Item["version"].(*types.AttributeValueMemberN).Value)

	events, err := es.GetEvents(ctx, "booking-1")
	require.NoError(t, err)
	require.Len(t, events, 2)
	assert.Equal(t, first.ID, events[0].ID)
	assert.JSONEq(t, `{"days":2}`, string(events[1].Data))
	assert.WithinDuration(t, second.Timestamp, events[1].Timestamp, 0)
}

func TestDynamoEventStore_VersionConflict(t *testing.T) {
	db := newFakeDynamo()
	db.conflict = true
	es := NewDynamoEventStore(db, "booking-events")

	_, err := es.Append(context.Background(), "booking-1", "RentalBooking", "RentalBookingRequested", nil)

	assert.ErrorIs(t, err, ErrVersionConflict)
}

func TestDynamoEventStore_GetEventsEmpty(t *testing.T) {
	es := NewDynamoEventStore(newFakeDynamo(), "booking-events")

	events, err := es.GetEvents(context.Background(), "missing")

	require.NoError(t, err)
	assert.Empty(t, events)
}
