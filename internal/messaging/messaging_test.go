package messaging

import (
	"context"
	"errors"
	"testing"

	"go.uber.org/zap"
)

func TestPublishNotInitialized(t *testing.T) {
	p := &Producer{logger: zap.NewNop()}

	err := p.PublishOrderCreated(context.Background(), "a1b2c3d4-e5f6-7890-abcd-ef1234567890")
	if !errors.Is(err, ErrNotInitialized) {
		t.Fatalf("PublishOrderCreated() = %v, want %v", err, ErrNotInitialized)
	}
}

func TestCloseNeverInitialized(t *testing.T) {
	p := &Producer{logger: zap.NewNop()}

	if err := p.Close(); err != nil {
		t.Fatalf("Close() = %v, want nil", err)
	}
	// Повторный вызов — no-op.
	if err := p.Close(); err != nil {
		t.Fatalf("second Close() = %v, want nil", err)
	}
}

type stubExecutor struct {
	enqueued []string
}

func (s *stubExecutor) Enqueue(orderID string) {
	s.enqueued = append(s.enqueued, orderID)
}

func TestConsumerHandle(t *testing.T) {
	tests := []struct {
		name     string
		value    string
		enqueued int
	}{
		{
			name:     "valid event",
			value:    `{"order_id":"a1b2c3d4-e5f6-7890-abcd-ef1234567890"}`,
			enqueued: 1,
		},
		{
			name:     "empty order id",
			value:    `{"order_id":""}`,
			enqueued: 0,
		},
		{
			name:     "malformed payload",
			value:    `not json`,
			enqueued: 0,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			executor := &stubExecutor{}
			c := &Consumer{executor: executor, logger: zap.NewNop()}

			c.handle([]byte(tt.value))

			if len(executor.enqueued) != tt.enqueued {
				t.Fatalf("enqueued %d jobs, want %d", len(executor.enqueued), tt.enqueued)
			}
		})
	}
}
