package storage

import (
	"context"
	goerrors "errors"
	"fmt"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/feature/dynamodb/attributevalue"
	"github.com/aws/aws-sdk-go-v2/feature/dynamodb/expression"
	"github.com/aws/aws-sdk-go-v2/service/dynamodb"
	"github.com/aws/aws-sdk-go-v2/service/dynamodb/types"
	"github.com/aws/aws-xray-sdk-go/xray"

	"coworkly/constants"
	"coworkly/errors"
	"coworkly/models"
)

const conditionalCheckFailed = "ConditionalCheckFailed"

// slotInsertCondition only passes when no record exists for the composite
// key, which is what makes concurrent bookings of the same slot safe.
const slotInsertCondition = "attribute_not_exists(spaceId) AND attribute_not_exists(slotTimestamp)"

// DynamoSlotStore implements SlotStore on a DynamoDB table keyed by
// (spaceId, slotTimestamp).
type DynamoSlotStore struct {
	client *dynamodb.Client
	table  string
}

func NewDynamoSlotStore(client *dynamodb.Client, table string) *DynamoSlotStore {
	return &DynamoSlotStore{client: client, table: table}
}

func slotKeyAttributes(key SlotKey) map[string]types.AttributeValue {
	return map[string]types.AttributeValue{
		"spaceId":       &types.AttributeValueMemberS{Value: key.SpaceID},
		"slotTimestamp": &types.AttributeValueMemberS{Value: key.SlotTimestamp},
	}
}

// InsertIfAbsent claims one slot with a conditional put.
func (s *DynamoSlotStore) InsertIfAbsent(ctx context.Context, r *models.Reservation) error {
	ctx, seg := xray.BeginSubsegment(ctx, "ReservationStore.InsertIfAbsent")
	defer seg.Close(nil)

	item, err := attributevalue.MarshalMap(r)
	if err != nil {
		return fmt.Errorf("failed to marshal reservation: %w", err)
	}

	_, err = s.client.PutItem(ctx, &dynamodb.PutItemInput{
		TableName:           aws.String(s.table),
		Item:                item,
		ConditionExpression: aws.String(slotInsertCondition),
	})
	if err != nil {
		var ccf *types.ConditionalCheckFailedException
		if goerrors.As(err, &ccf) {
			return fmt.Errorf("slot %s/%s: %w", r.SpaceID, r.SlotTimestamp, errors.ErrRecordExists)
		}
		return fmt.Errorf("failed to put reservation: %w", err)
	}
	return nil
}

// InsertAllIfAbsent claims every slot in one TransactWriteItems call: either
// all conditional puts pass or DynamoDB cancels the whole transaction. The
// cancellation reasons identify the first held slot.
func (s *DynamoSlotStore) InsertAllIfAbsent(ctx context.Context, rs []*models.Reservation) (SlotKey, error) {
	ctx, seg := xray.BeginSubsegment(ctx, "ReservationStore.InsertAllIfAbsent")
	defer seg.Close(nil)

	items := make([]types.TransactWriteItem, 0, len(rs))
	for _, r := range rs {
		item, err := attributevalue.MarshalMap(r)
		if err != nil {
			return SlotKey{}, fmt.Errorf("failed to marshal reservation: %w", err)
		}
		items = append(items, types.TransactWriteItem{
			Put: &types.Put{
				TableName:           aws.String(s.table),
				Item:                item,
				ConditionExpression: aws.String(slotInsertCondition),
			},
		})
	}

	_, err := s.client.TransactWriteItems(ctx, &dynamodb.TransactWriteItemsInput{
		TransactItems: items,
	})
	if err != nil {
		var tce *types.TransactionCanceledException
		if goerrors.As(err, &tce) {
			for i, reason := range tce.CancellationReasons {
				if reason.Code != nil && *reason.Code == conditionalCheckFailed && i < len(rs) {
					key := SlotKey{SpaceID: rs[i].SpaceID, SlotTimestamp: rs[i].SlotTimestamp}
					return key, fmt.Errorf("slot %s/%s: %w", key.SpaceID, key.SlotTimestamp, errors.ErrRecordExists)
				}
			}
		}
		return SlotKey{}, fmt.Errorf("failed to transact reservations: %w", err)
	}
	return SlotKey{}, nil
}

// Get is a consistent point read of one slot.
func (s *DynamoSlotStore) Get(ctx context.Context, key SlotKey) (*models.Reservation, error) {
	ctx, seg := xray.BeginSubsegment(ctx, "ReservationStore.Get")
	defer seg.Close(nil)

	out, err := s.client.GetItem(ctx, &dynamodb.GetItemInput{
		TableName: aws.String(s.table),
		Key:       slotKeyAttributes(key),
	})
	if err != nil {
		return nil, fmt.Errorf("failed to get reservation: %w", err)
	}
	if out.Item == nil {
		return nil, errors.ErrRecordNotFound
	}

	var r models.Reservation
	if err := attributevalue.UnmarshalMap(out.Item, &r); err != nil {
		return nil, fmt.Errorf("failed to unmarshal reservation: %w", err)
	}
	return &r, nil
}

// UpdateStatus sets status and updatedAt on an existing record. The
// attribute_exists condition keeps an update from resurrecting a slot that
// was cancelled in the meantime.
func (s *DynamoSlotStore) UpdateStatus(ctx context.Context, key SlotKey, status, updatedAt string) (*models.Reservation, error) {
	ctx, seg := xray.BeginSubsegment(ctx, "ReservationStore.UpdateStatus")
	defer seg.Close(nil)

	update := expression.Set(expression.Name("status"), expression.Value(status)).
		Set(expression.Name("updatedAt"), expression.Value(updatedAt))
	cond := expression.AttributeExists(expression.Name("spaceId"))
	expr, err := expression.NewBuilder().WithUpdate(update).WithCondition(cond).Build()
	if err != nil {
		return nil, fmt.Errorf("failed to build update expression: %w", err)
	}

	out, err := s.client.UpdateItem(ctx, &dynamodb.UpdateItemInput{
		TableName:                 aws.String(s.table),
		Key:                       slotKeyAttributes(key),
		UpdateExpression:          expr.Update(),
		ConditionExpression:       expr.Condition(),
		ExpressionAttributeNames:  expr.Names(),
		ExpressionAttributeValues: expr.Values(),
		ReturnValues:              types.ReturnValueAllNew,
	})
	if err != nil {
		var ccf *types.ConditionalCheckFailedException
		if goerrors.As(err, &ccf) {
			return nil, errors.ErrRecordNotFound
		}
		return nil, fmt.Errorf("failed to update reservation status: %w", err)
	}

	var r models.Reservation
	if err := attributevalue.UnmarshalMap(out.Attributes, &r); err != nil {
		return nil, fmt.Errorf("failed to unmarshal updated reservation: %w", err)
	}
	return &r, nil
}

// Delete releases a slot.
func (s *DynamoSlotStore) Delete(ctx context.Context, key SlotKey) error {
	ctx, seg := xray.BeginSubsegment(ctx, "ReservationStore.Delete")
	defer seg.Close(nil)

	_, err := s.client.DeleteItem(ctx, &dynamodb.DeleteItemInput{
		TableName: aws.String(s.table),
		Key:       slotKeyAttributes(key),
	})
	if err != nil {
		return fmt.Errorf("failed to delete reservation: %w", err)
	}
	return nil
}

// QueryBySpace queries the partition of one space, newest page first is not
// needed here so pages come back in sort-key order.
func (s *DynamoSlotStore) QueryBySpace(ctx context.Context, spaceID, status string) ([]models.Reservation, error) {
	ctx, seg := xray.BeginSubsegment(ctx, "ReservationStore.QueryBySpace")
	defer seg.Close(nil)

	builder := expression.NewBuilder().
		WithKeyCondition(expression.Key("spaceId").Equal(expression.Value(spaceID)))
	if status != "" {
		builder = builder.WithFilter(expression.Name("status").Equal(expression.Value(status)))
	}
	expr, err := builder.Build()
	if err != nil {
		return nil, fmt.Errorf("failed to build query expression: %w", err)
	}

	input := &dynamodb.QueryInput{
		TableName:                 aws.String(s.table),
		KeyConditionExpression:    expr.KeyCondition(),
		FilterExpression:          expr.Filter(),
		ExpressionAttributeNames:  expr.Names(),
		ExpressionAttributeValues: expr.Values(),
	}

	var reservations []models.Reservation
	paginator := dynamodb.NewQueryPaginator(s.client, input)
	for paginator.HasMorePages() {
		page, err := paginator.NextPage(ctx)
		if err != nil {
			return nil, fmt.Errorf("failed to query reservations for space %s: %w", spaceID, err)
		}
		var batch []models.Reservation
		if err := attributevalue.UnmarshalListOfMaps(page.Items, &batch); err != nil {
			return nil, fmt.Errorf("failed to unmarshal reservations: %w", err)
		}
		reservations = append(reservations, batch...)
	}
	return reservations, nil
}

// ScanByUser scans the table for one user's reservations. The table has no
// userId index, matching the source system.
func (s *DynamoSlotStore) ScanByUser(ctx context.Context, userID string) ([]models.Reservation, error) {
	ctx, seg := xray.BeginSubsegment(ctx, "ReservationStore.ScanByUser")
	defer seg.Close(nil)

	return s.scan(ctx, expression.Name("userId").Equal(expression.Value(userID)))
}

// ScanPendingBefore finds stale pending reservations. Slot timestamps share
// the space-local offset, so the lexicographic comparison matches the
// chronological one.
func (s *DynamoSlotStore) ScanPendingBefore(ctx context.Context, cutoff string) ([]models.Reservation, error) {
	ctx, seg := xray.BeginSubsegment(ctx, "ReservationStore.ScanPendingBefore")
	defer seg.Close(nil)

	filter := expression.Name("status").Equal(expression.Value(constants.ReservationStatusPending)).
		And(expression.Name("slotTimestamp").LessThan(expression.Value(cutoff)))
	return s.scan(ctx, filter)
}

func (s *DynamoSlotStore) scan(ctx context.Context, filter expression.ConditionBuilder) ([]models.Reservation, error) {
	expr, err := expression.NewBuilder().WithFilter(filter).Build()
	if err != nil {
		return nil, fmt.Errorf("failed to build scan expression: %w", err)
	}

	input := &dynamodb.ScanInput{
		TableName:                 aws.String(s.table),
		FilterExpression:          expr.Filter(),
		ExpressionAttributeNames:  expr.Names(),
		ExpressionAttributeValues: expr.Values(),
	}

	var reservations []models.Reservation
	paginator := dynamodb.NewScanPaginator(s.client, input)
	for paginator.HasMorePages() {
		page, err := paginator.NextPage(ctx)
		if err != nil {
			return nil, fmt.Errorf("failed to scan reservations: %w", err)
		}
		var batch []models.Reservation
		if err := attributevalue.UnmarshalListOfMaps(page.Items, &batch); err != nil {
			return nil, fmt.Errorf("failed to unmarshal reservations: %w", err)
		}
		reservations = append(reservations, batch...)
	}
	return reservations, nil
}
