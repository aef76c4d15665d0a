package dynamo

import (
	"context"
	"fmt"
	"strconv"
	"time"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/feature/dynamodb/attributevalue"
	"github.com/aws/aws-sdk-go-v2/service/dynamodb"
	"github.com/aws/aws-sdk-go-v2/service/dynamodb/types"
	"github.com/hr-compass/internal/domain"
)

// otpTTLAttr holds the expiry as whole Unix seconds for the table TTL.
// expires_at keeps full precision and is what ListActive compares against.
const otpTTLAttr = "ttl_epoch"

// OtpRepo stores issued passcodes. PK: email, so writing a new code replaces
// the previous one in a single put.
type OtpRepo struct {
	client    *dynamodb.Client
	tableName string
}

func NewOtpRepo(client *dynamodb.Client, tableName string) *OtpRepo {
	return &OtpRepo{client: client, tableName: tableName}
}

// Replace makes o the only passcode on record for o.Email.
func (r *OtpRepo) Replace(ctx context.Context, o *domain.Otp) error {
	item, err := otpItem(o)
	if err != nil {
		return err
	}
	_, err = r.client.PutItem(ctx, &dynamodb.PutItemInput{
		TableName: aws.String(r.tableName),
		Item:      item,
	})
	return err
}

// ListActive returns the passcodes for email that are still valid at now.
// TTL deletion lags expiry, so expired rows are filtered here.
func (r *OtpRepo) ListActive(ctx context.Context, email string, now time.Time) ([]domain.Otp, error) {
	out, err := r.client.GetItem(ctx, &dynamodb.GetItemInput{
		TableName:      aws.String(r.tableName),
		Key:            strKey("email", email),
		ConsistentRead: aws.Bool(true),
	})
	if err != nil {
		return nil, err
	}
	if out.Item == nil {
		return nil, nil
	}
	var o domain.Otp
	if err := attributevalue.UnmarshalMap(out.Item, &o); err != nil {
		return nil, err
	}
	if !o.Active(now) {
		return nil, nil
	}
	return []domain.Otp{o}, nil
}

// Consume deletes the passcode otpID. Only one caller can consume a given
// code; the others get domain.ErrNotFound.
func (r *OtpRepo) Consume(ctx context.Context, email, otpID string) error {
	_, err := r.client.DeleteItem(ctx, &dynamodb.DeleteItemInput{
		TableName:           aws.String(r.tableName),
		Key:                 strKey("email", email),
		ConditionExpression: aws.String("otp_id = :id"),
		ExpressionAttributeValues: map[string]types.AttributeValue{
			":id": &types.AttributeValueMemberS{Value: otpID},
		},
	})
	if isConditionalCheckFailed(err) {
		return fmt.Errorf("otp %s: %w", otpID, domain.ErrNotFound)
	}
	return err
}

func otpItem(o *domain.Otp) (map[string]types.AttributeValue, error) {
	item, err := attributevalue.MarshalMap(o)
	if err != nil {
		return nil, fmt.Errorf("marshal otp: %w", err)
	}
	item[otpTTLAttr] = &types.AttributeValueMemberN{Value: strconv.FormatInt(ttlEpoch(o.ExpiresAt), 10)}
	return item, nil
}

// ttlEpoch rounds t up to the next whole second so the store never reaps a
// code before it has expired.
func ttlEpoch(t time.Time) int64 {
	sec := t.Unix()
	if t.Nanosecond() > 0 {
		sec++
	}
	return sec
}
