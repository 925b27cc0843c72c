package sns

import (
	"context"
	"encoding/json"
	"errors"
	"testing"
	"time"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/service/sns"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

type mockPublisher struct{ mock.Mock }

func (m *mockPublisher) Publish(ctx context.Context, in *sns.PublishInput, _ ...func(*sns.Options)) (*sns.PublishOutput, error) {
	args := m.Called(ctx, in)
	out, _ := args.Get(0).(*sns.PublishOutput)
	return out, args.Error(1)
}

func TestCapture_PublishesEvent(t *testing.T) {
	pub := &mockPublisher{}
	var got *sns.PublishInput
	pub.On("Publish", mock.Anything, mock.Anything).
		Run(func(args mock.Arguments) { got = args.Get(1).(*sns.PublishInput) }).
		Return(&sns.PublishOutput{}, nil)

	r := NewReporter(pub, "arn:aws:sns:us-east-1:000000000000:errors", "email-verify", "test")
	r.now = func() time.Time { return time.Date(2026, 1, 2, 3, 4, 5, 0, time.UTC) }
	r.Capture(context.Background(), errors.New("decrypt failed"), "email", "a@b.com", "dangling")

	require.NotNil(t, got)
	assert.Equal(t, "arn:aws:sns:us-east-1:000000000000:errors", aws.ToString(got.TopicArn))

	var ev event
	require.NoError(t, json.Unmarshal([]byte(aws.ToString(got.Message)), &ev))
	assert.Equal(t, "email-verify", ev.Service)
	assert.Equal(t, "decrypt failed", ev.Error)
	assert.Equal(t, map[string]any{"email": "a@b.com"}, ev.Attrs)
}

func TestCapture_PublishErrorIsSwallowed(t *testing.T) {
	pub := &mockPublisher{}
	pub.On("Publish", mock.Anything, mock.Anything).Return(nil, errors.New("throttled"))

	r := NewReporter(pub, "arn", "svc", "test")
	assert.NotPanics(t, func() { r.Capture(context.Background(), errors.New("x")) })
	pub.AssertExpectations(t)
}
