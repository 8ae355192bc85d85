package storage

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/feature/dynamodb/expression"
	"github.com/aws/aws-sdk-go-v2/service/dynamodb"
	"github.com/aws/aws-sdk-go-v2/service/dynamodb/types"
	"github.com/aws/smithy-go"
	"github.com/sony/gobreaker"
	"go.uber.org/zap"

	"storefront-backend/infrastructure/persistence/keys"
	"storefront-backend/infrastructure/persistence/plan"
	pkgerrors "storefront-backend/pkg/errors"
	"storefront-backend/pkg/observability"
)

// DynamoGateway implements Gateway against DynamoDB. All calls run through a
// circuit breaker; retry policy, if any, belongs here and not in the
// repositories above.
type DynamoGateway struct {
	client  *dynamodb.Client
	table   string
	breaker *gobreaker.CircuitBreaker
	logger  *zap.Logger
	metrics *observability.Metrics
}

// NewDynamoGateway creates a gateway bound to one table.
func NewDynamoGateway(client *dynamodb.Client, table string, logger *zap.Logger, metrics *observability.Metrics) *DynamoGateway {
	breaker := gobreaker.NewCircuitBreaker(gobreaker.Settings{
		Name:        "dynamodb",
		MaxRequests: 5,
		Interval:    30 * time.Second,
		Timeout:     60 * time.Second,
		ReadyToTrip: func(counts gobreaker.Counts) bool {
			if counts.Requests < 5 {
				return false
			}
			failureRatio := float64(counts.TotalFailures) / float64(counts.Requests)
			return failureRatio >= 0.8
		},
		OnStateChange: func(name string, from, to gobreaker.State) {
			logger.Warn("circuit breaker state changed",
				zap.String("breaker", name),
				zap.String("from", from.String()),
				zap.String("to", to.String()),
			)
		},
	})

	return &DynamoGateway{
		client:  client,
		table:   table,
		breaker: breaker,
		logger:  logger,
		metrics: metrics,
	}
}

// Get implements Gateway.
func (g *DynamoGateway) Get(ctx context.Context, pk, sk string) (Item, error) {
	out, err := g.execute(ctx, "get", func() (interface{}, error) {
		return g.client.GetItem(ctx, &dynamodb.GetItemInput{
			TableName: aws.String(g.table),
			Key:       primaryKeyAttrs(pk, sk),
		})
	})
	if err != nil {
		return nil, err
	}

	result := out.(*dynamodb.GetItemOutput)
	if len(result.Item) == 0 {
		return nil, nil
	}
	return result.Item, nil
}

// Put implements Gateway.
func (g *DynamoGateway) Put(ctx context.Context, item Item) error {
	_, err := g.execute(ctx, "put", func() (interface{}, error) {
		return g.client.PutItem(ctx, &dynamodb.PutItemInput{
			TableName: aws.String(g.table),
			Item:      item,
		})
	})
	return err
}

// Update implements Gateway.
func (g *DynamoGateway) Update(ctx context.Context, in UpdateInput) (Item, error) {
	update := expression.UpdateBuilder{}
	for name, value := range in.Set {
		update = update.Set(expression.Name(name), expression.Value(value))
	}
	for name, delta := range in.Add {
		update = update.Add(expression.Name(name), expression.Value(delta))
	}

	builder := expression.NewBuilder().WithUpdate(update)
	if in.Condition != nil {
		builder = builder.WithCondition(
			expression.Name(in.Condition.Name).Equal(expression.Value(in.Condition.Value)),
		)
	}

	expr, err := builder.Build()
	if err != nil {
		return nil, pkgerrors.NewInternalError("failed to build update expression").WithCause(err)
	}

	out, err := g.execute(ctx, "update", func() (interface{}, error) {
		return g.client.UpdateItem(ctx, &dynamodb.UpdateItemInput{
			TableName:                 aws.String(g.table),
			Key:                       primaryKeyAttrs(in.Key.PK, in.Key.SK),
			UpdateExpression:          expr.Update(),
			ConditionExpression:       expr.Condition(),
			ExpressionAttributeNames:  expr.Names(),
			ExpressionAttributeValues: expr.Values(),
			ReturnValues:              types.ReturnValueAllNew,
		})
	})
	if err != nil {
		return nil, err
	}

	return out.(*dynamodb.UpdateItemOutput).Attributes, nil
}

// Delete implements Gateway.
func (g *DynamoGateway) Delete(ctx context.Context, pk, sk string) error {
	_, err := g.execute(ctx, "delete", func() (interface{}, error) {
		return g.client.DeleteItem(ctx, &dynamodb.DeleteItemInput{
			TableName: aws.String(g.table),
			Key:       primaryKeyAttrs(pk, sk),
		})
	})
	return err
}

// Query implements Gateway.
func (g *DynamoGateway) Query(ctx context.Context, q plan.Query) (QueryResult, error) {
	pkName, skName := plan.IndexKeyAttrs(q.Index)

	keyCond := expression.KeyEqual(expression.Key(pkName), expression.Value(q.Partition))
	switch {
	case q.SortEquals != "":
		keyCond = keyCond.And(expression.KeyEqual(expression.Key(skName), expression.Value(q.SortEquals)))
	case q.SortPrefix != "":
		keyCond = keyCond.And(expression.KeyBeginsWith(expression.Key(skName), q.SortPrefix))
	}

	expr, err := expression.NewBuilder().WithKeyCondition(keyCond).Build()
	if err != nil {
		return QueryResult{}, pkgerrors.NewInternalError("failed to build key condition").WithCause(err)
	}

	input := &dynamodb.QueryInput{
		TableName:                 aws.String(g.table),
		KeyConditionExpression:    expr.KeyCondition(),
		ExpressionAttributeNames:  expr.Names(),
		ExpressionAttributeValues: expr.Values(),
		ScanIndexForward:          aws.Bool(!q.Descending),
		ExclusiveStartKey:         q.StartKey,
	}
	if q.Index != "" {
		input.IndexName = aws.String(q.Index)
	}
	if q.Limit > 0 {
		input.Limit = aws.Int32(q.Limit)
	}

	out, err := g.execute(ctx, "query", func() (interface{}, error) {
		return g.client.Query(ctx, input)
	})
	if err != nil {
		return QueryResult{}, err
	}

	result := out.(*dynamodb.QueryOutput)
	return QueryResult{
		Items:            result.Items,
		LastEvaluatedKey: result.LastEvaluatedKey,
	}, nil
}

// execute runs one storage call through the breaker and classifies failures.
func (g *DynamoGateway) execute(ctx context.Context, op string, call func() (interface{}, error)) (interface{}, error) {
	start := time.Now()
	out, err := g.breaker.Execute(call)
	if g.metrics != nil {
		g.metrics.ObserveStorageOp(op, err == nil, time.Since(start))
	}
	if err == nil {
		return out, nil
	}

	if errors.Is(err, gobreaker.ErrOpenState) || errors.Is(err, gobreaker.ErrTooManyRequests) {
		return nil, pkgerrors.NewUnavailableError("dynamodb").WithCause(err)
	}

	var condErr *types.ConditionalCheckFailedException
	if errors.As(err, &condErr) {
		return nil, fmt.Errorf("%w: %s", ErrConditionFailed, op)
	}

	var apiErr smithy.APIError
	if errors.As(err, &apiErr) {
		g.logger.Warn("dynamodb call failed",
			zap.String("operation", op),
			zap.String("code", apiErr.ErrorCode()),
			zap.Error(err),
		)
	} else {
		g.logger.Warn("dynamodb call failed",
			zap.String("operation", op),
			zap.Error(err),
		)
	}

	return nil, pkgerrors.NewStorageError(op, err)
}

func primaryKeyAttrs(pk, sk string) map[string]types.AttributeValue {
	return map[string]types.AttributeValue{
		keys.AttrPK: &types.AttributeValueMemberS{Value: pk},
		keys.AttrSK: &types.AttributeValueMemberS{Value: sk},
	}
}
