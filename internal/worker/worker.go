// Package worker реализует фоновый исполнитель задач обработки заказов.
package worker

import (
	"context"
	"sync"
	"time"

	"go.uber.org/zap"
)

const (
	defaultQueueSize    = 256
	defaultProcessDelay = 2 * time.Second
)

// Pool — пул горутин, обрабатывающих задачи по идентификаторам заказов.
// Для остальной системы исполнитель непрозрачен: снаружи видна только постановка задач.
type Pool struct {
	jobs    chan string
	workers int
	logger  *zap.Logger

	// handle подменяется в тестах, по умолчанию имитирует обработку заказа.
	handle func(orderID string)
}

// NewPool создаёт пул с указанным числом воркеров.
func NewPool(workers int, logger *zap.Logger) *Pool {
	p := &Pool{
		jobs:    make(chan string, defaultQueueSize),
		workers: workers,
		logger:  logger,
	}
	p.handle = p.process
	return p
}

// Enqueue ставит заказ в очередь обработки, не блокируя вызывающего.
// При переполнении очереди задача отбрасывается: событие останется в топике
// и будет дочитано после перезапуска консьюмера.
func (p *Pool) Enqueue(orderID string) {
	select {
	case p.jobs <- orderID:
	default:
		p.logger.Warn("job queue is full, dropping job", zap.String("orderID", orderID))
	}
}

// Run запускает воркеров и блокируется до отмены контекста.
func (p *Pool) Run(ctx context.Context) error {
	var wg sync.WaitGroup

	for i := 0; i < p.workers; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			for {
				select {
				case <-ctx.Done():
					return
				case orderID := <-p.jobs:
					p.handle(orderID)
				}
			}
		}()
	}

	wg.Wait()
	return nil
}

func (p *Pool) process(orderID string) {
	// Имитация обработки заказа.
	time.Sleep(defaultProcessDelay)
	p.logger.Info("order processed", zap.String("orderID", orderID))
}
