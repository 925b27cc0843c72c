package dynamo

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/feature/dynamodb/attributevalue"
	"github.com/aws/aws-sdk-go-v2/service/dynamodb"
	"github.com/aws/aws-sdk-go-v2/service/dynamodb/types"
	"github.com/email-verify-api/internal/domain"
)

// VerificationRepo manages email verification records.
// PK: email. One item per address; Save overwrites.
type VerificationRepo struct {
	client    API
	tableName string
}

func NewVerificationRepo(client API, tableName string) *VerificationRepo {
	return &VerificationRepo{client: client, tableName: tableName}
}

// Save upserts v keyed by its email.
func (r *VerificationRepo) Save(ctx context.Context, v *domain.EmailVerification) error {
	item, err := attributevalue.MarshalMap(v)
	if err != nil {
		return fmt.Errorf("marshal verification: %w", err)
	}
	_, err = r.client.PutItem(ctx, &dynamodb.PutItemInput{
		TableName: aws.String(r.tableName),
		Item:      item,
	})
	return err
}

func (r *VerificationRepo) FindByEmail(ctx context.Context, email string) (*domain.EmailVerification, error) {
	out, err := r.client.GetItem(ctx, &dynamodb.GetItemInput{
		TableName:      aws.String(r.tableName),
		Key:            strKey(fieldEmail, email),
		ConsistentRead: aws.Bool(true),
	})
	if err != nil {
		return nil, err
	}
	if out.Item == nil {
		return nil, fmt.Errorf("verification not found: %w", domain.ErrNotFound)
	}
	var v domain.EmailVerification
	if err := attributevalue.UnmarshalMap(out.Item, &v); err != nil {
		return nil, err
	}
	return &v, nil
}

// Confirm sets confirmation on the stored record, guarded by the code and issue
// time of v. A reissue between read and write fails the guard with domain.ErrConflict.
func (r *VerificationRepo) Confirm(ctx context.Context, v *domain.EmailVerification, at time.Time) error {
	ue, err := buildUpdateExpr(map[string]interface{}{
		fieldConfirmation: true,
		fieldConfirmedAt:  at.UTC(),
	})
	if err != nil {
		return err
	}
	createdAt, err := attributevalue.Marshal(v.CreatedAt)
	if err != nil {
		return fmt.Errorf("marshal created_at: %w", err)
	}
	ue.Names["#sc"] = fieldSecretCode
	ue.Names["#ca"] = fieldCreatedAt
	ue.Values[":sc"] = &types.AttributeValueMemberS{Value: v.SecretCode}
	ue.Values[":ca"] = createdAt

	_, err = r.client.UpdateItem(ctx, &dynamodb.UpdateItemInput{
		TableName:                 aws.String(r.tableName),
		Key:                       strKey(fieldEmail, v.Email),
		UpdateExpression:          aws.String(ue.Expr),
		ConditionExpression:       aws.String("#sc = :sc AND #ca = :ca"),
		ExpressionAttributeNames:  ue.Names,
		ExpressionAttributeValues: ue.Values,
	})
	var ccf *types.ConditionalCheckFailedException
	if errors.As(err, &ccf) {
		return fmt.Errorf("verification changed since read: %w", domain.ErrConflict)
	}
	return err
}
