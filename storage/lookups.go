package storage

import (
	"context"
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

// DynamoSpaceLookup reads the coworking-spaces table.
type DynamoSpaceLookup struct {
	client *dynamodb.Client
	table  string
}

func NewDynamoSpaceLookup(client *dynamodb.Client, table string) *DynamoSpaceLookup {
	return &DynamoSpaceLookup{client: client, table: table}
}

func (l *DynamoSpaceLookup) GetSpace(ctx context.Context, spaceID string) (*models.Space, error) {
	ctx, seg := xray.BeginSubsegment(ctx, "SpaceLookup.GetSpace")
	defer seg.Close(nil)

	out, err := l.client.GetItem(ctx, &dynamodb.GetItemInput{
		TableName: aws.String(l.table),
		Key: map[string]types.AttributeValue{
			"spaceId": &types.AttributeValueMemberS{Value: spaceID},
		},
	})
	if err != nil {
		return nil, fmt.Errorf("failed to get space %s: %w", spaceID, err)
	}
	if out.Item == nil {
		return nil, errors.ErrRecordNotFound
	}

	var space models.Space
	if err := attributevalue.UnmarshalMap(out.Item, &space); err != nil {
		return nil, fmt.Errorf("failed to unmarshal space: %w", err)
	}
	return &space, nil
}

func (l *DynamoSpaceLookup) ScanByHoster(ctx context.Context, hosterID string) ([]models.Space, error) {
	ctx, seg := xray.BeginSubsegment(ctx, "SpaceLookup.ScanByHoster")
	defer seg.Close(nil)

	expr, err := expression.NewBuilder().
		WithFilter(expression.Name("hoster").Equal(expression.Value(hosterID))).
		Build()
	if err != nil {
		return nil, fmt.Errorf("failed to build scan expression: %w", err)
	}

	input := &dynamodb.ScanInput{
		TableName:                 aws.String(l.table),
		FilterExpression:          expr.Filter(),
		ExpressionAttributeNames:  expr.Names(),
		ExpressionAttributeValues: expr.Values(),
	}

	var spaces []models.Space
	paginator := dynamodb.NewScanPaginator(l.client, input)
	for paginator.HasMorePages() {
		page, err := paginator.NextPage(ctx)
		if err != nil {
			return nil, fmt.Errorf("failed to scan spaces for hoster %s: %w", hosterID, err)
		}
		var batch []models.Space
		if err := attributevalue.UnmarshalListOfMaps(page.Items, &batch); err != nil {
			return nil, fmt.Errorf("failed to unmarshal spaces: %w", err)
		}
		spaces = append(spaces, batch...)
	}
	return spaces, nil
}

// userTableAPI is the slice of the DynamoDB client the user lookup needs.
// Narrowed so the batch chunk and retry loop can run against a fake.
type userTableAPI interface {
	GetItem(ctx context.Context, params *dynamodb.GetItemInput, optFns ...func(*dynamodb.Options)) (*dynamodb.GetItemOutput, error)
	BatchGetItem(ctx context.Context, params *dynamodb.BatchGetItemInput, optFns ...func(*dynamodb.Options)) (*dynamodb.BatchGetItemOutput, error)
}

// DynamoUserLookup reads the users table.
type DynamoUserLookup struct {
	client userTableAPI
	table  string
}

func NewDynamoUserLookup(client userTableAPI, table string) *DynamoUserLookup {
	return &DynamoUserLookup{client: client, table: table}
}

func (l *DynamoUserLookup) GetUser(ctx context.Context, userID string) (*models.User, error) {
	ctx, seg := xray.BeginSubsegment(ctx, "UserLookup.GetUser")
	defer seg.Close(nil)

	out, err := l.client.GetItem(ctx, &dynamodb.GetItemInput{
		TableName: aws.String(l.table),
		Key: map[string]types.AttributeValue{
			"userId": &types.AttributeValueMemberS{Value: userID},
		},
	})
	if err != nil {
		return nil, fmt.Errorf("failed to get user %s: %w", userID, err)
	}
	if out.Item == nil {
		return nil, errors.ErrRecordNotFound
	}

	var user models.User
	if err := attributevalue.UnmarshalMap(out.Item, &user); err != nil {
		return nil, fmt.Errorf("failed to unmarshal user: %w", err)
	}
	return &user, nil
}

// BatchGetUsers fetches users in chunks of at most MaxBatchGetKeys.
// Unprocessed keys are re-requested; missing users are left out of the
// result rather than treated as errors.
func (l *DynamoUserLookup) BatchGetUsers(ctx context.Context, userIDs []string) (map[string]models.User, error) {
	ctx, seg := xray.BeginSubsegment(ctx, "UserLookup.BatchGetUsers")
	defer seg.Close(nil)

	users := make(map[string]models.User, len(userIDs))
	seen := make(map[string]bool, len(userIDs))

	var keys []map[string]types.AttributeValue
	for _, id := range userIDs {
		if id == "" || seen[id] {
			continue
		}
		seen[id] = true
		keys = append(keys, map[string]types.AttributeValue{
			"userId": &types.AttributeValueMemberS{Value: id},
		})
	}

	for len(keys) > 0 {
		chunk := keys
		if len(chunk) > constants.MaxBatchGetKeys {
			chunk = keys[:constants.MaxBatchGetKeys]
		}
		keys = keys[len(chunk):]

		request := map[string]types.KeysAndAttributes{
			l.table: {Keys: chunk},
		}
		for len(request) > 0 {
			out, err := l.client.BatchGetItem(ctx, &dynamodb.BatchGetItemInput{
				RequestItems: request,
			})
			if err != nil {
				return nil, fmt.Errorf("failed to batch get users: %w", err)
			}

			var batch []models.User
			if err := attributevalue.UnmarshalListOfMaps(out.Responses[l.table], &batch); err != nil {
				return nil, fmt.Errorf("failed to unmarshal users: %w", err)
			}
			for _, u := range batch {
				users[u.UserID] = u
			}

			request = nil
			if unprocessed, ok := out.UnprocessedKeys[l.table]; ok && len(unprocessed.Keys) > 0 {
				request = map[string]types.KeysAndAttributes{l.table: unprocessed}
			}
		}
	}
	return users, nil
}
