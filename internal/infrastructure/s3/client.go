package s3infra

import (
	"context"
	"encoding/base64"
	"fmt"
	"io"
	"strings"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/service/s3"
)

// maxKeyObjectSize bounds how much of the key object is read.
const maxKeyObjectSize = 4096

// ObjectGetter is the part of *s3.Client the key source uses.
type ObjectGetter interface {
	GetObject(ctx context.Context, in *s3.GetObjectInput, optFns ...func(*s3.Options)) (*s3.GetObjectOutput, error)
}

// NewClient creates an S3 client. When endpoint is set (LocalStack),
// it overrides the endpoint and enables path-style addressing.
func NewClient(awsCfg aws.Config, endpoint string) *s3.Client {
	return s3.NewFromConfig(awsCfg, func(o *s3.Options) {
		if endpoint != "" {
			o.BaseEndpoint = aws.String(endpoint)
			o.UsePathStyle = true
		}
	})
}

// KeySource reads the code encryption secret from a private S3 object.
// The object holds the secret base64-encoded.
type KeySource struct {
	client ObjectGetter
	bucket string
	object string
}

func NewKeySource(client ObjectGetter, bucket, object string) *KeySource {
	return &KeySource{client: client, bucket: bucket, object: object}
}

// Key downloads and decodes the secret.
func (k *KeySource) Key(ctx context.Context) ([]byte, error) {
	out, err := k.client.GetObject(ctx, &s3.GetObjectInput{
		Bucket: aws.String(k.bucket),
		Key:    aws.String(k.object),
	})
	if err != nil {
		return nil, fmt.Errorf("s3 get object: %w", err)
	}
	defer out.Body.Close()

	raw, err := io.ReadAll(io.LimitReader(out.Body, maxKeyObjectSize))
	if err != nil {
		return nil, fmt.Errorf("read key object: %w", err)
	}
	return DecodeKey(string(raw))
}

// DecodeKey decodes a base64 secret, tolerating surrounding whitespace.
func DecodeKey(s string) ([]byte, error) {
	key, err := base64.StdEncoding.DecodeString(strings.TrimSpace(s))
	if err != nil {
		return nil, fmt.Errorf("decode key: %w", err)
	}
	return key, nil
}
