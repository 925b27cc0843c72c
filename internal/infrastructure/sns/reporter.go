package sns

import (
	"context"
	"encoding/json"
	"log/slog"
	"time"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/service/sns"
)

// Publisher is the part of *sns.Client the reporter uses.
type Publisher interface {
	Publish(ctx context.Context, in *sns.PublishInput, optFns ...func(*sns.Options)) (*sns.PublishOutput, error)
}

// Reporter publishes captured errors to an SNS topic that feeds the error tracker.
type Reporter struct {
	client   Publisher
	topicARN string
	service  string
	env      string
	now      func() time.Time
}

func NewReporter(client Publisher, topicARN, service, env string) *Reporter {
	return &Reporter{client: client, topicARN: topicARN, service: service, env: env, now: time.Now}
}

// NewClient creates an SNS client from a loaded AWS config.
func NewClient(awsCfg aws.Config) *sns.Client {
	return sns.NewFromConfig(awsCfg)
}

type event struct {
	Service string         `json:"service"`
	Env     string         `json:"env"`
	Error   string         `json:"error"`
	Attrs   map[string]any `json:"attrs,omitempty"`
	Time    time.Time      `json:"time"`
}

// Capture never fails the caller; publish errors are only logged.
func (r *Reporter) Capture(ctx context.Context, err error, attrs ...any) {
	ev := event{
		Service: r.service,
		Env:     r.env,
		Error:   err.Error(),
		Attrs:   pairs(attrs),
		Time:    r.now().UTC(),
	}
	body, mErr := json.Marshal(ev)
	if mErr != nil {
		slog.Warn("could not encode error event", "err", mErr)
		return
	}
	_, pErr := r.client.Publish(ctx, &sns.PublishInput{
		TopicArn: aws.String(r.topicARN),
		Subject:  aws.String(r.service + " error"),
		Message:  aws.String(string(body)),
	})
	if pErr != nil {
		slog.Warn("could not publish error event", "topic", r.topicARN, "err", pErr)
	}
}

// pairs turns slog-style key/value arguments into a map; a dangling key is dropped.
func pairs(kv []any) map[string]any {
	if len(kv) < 2 {
		return nil
	}
	m := make(map[string]any, len(kv)/2)
	for i := 0; i+1 < len(kv); i += 2 {
		k, ok := kv[i].(string)
		if !ok {
			continue
		}
		m[k] = kv[i+1]
	}
	return m
}
