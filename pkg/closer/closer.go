// Package closer закрывает ресурсы приложения в обратном порядке регистрации.
package closer

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"time"
)

const defaultForcedTimeout = 2 * time.Second

// Func закрывает один ресурс.
type Func func(ctx context.Context) error

type resource struct {
	name string
	fn   Func
}

// Closer хранит функции закрытия и выполняет их один раз (LIFO).
type Closer struct {
	mu            sync.Mutex
	once          sync.Once
	resources     []resource
	forcedTimeout time.Duration
}

// NewCloser создаёт Closer. forcedTimeout отводится на ресурсы, которые не успели
// закрыться до отмены контекста Close; 0 означает значение по умолчанию.
func NewCloser(forcedTimeout time.Duration) *Closer {
	if forcedTimeout <= 0 {
		forcedTimeout = defaultForcedTimeout
	}

	return &Closer{forcedTimeout: forcedTimeout}
}

// Add регистрирует ресурс под именем, которое попадёт в текст ошибки.
func (c *Closer) Add(name string, f Func) {
	c.mu.Lock()
	defer c.mu.Unlock()

	c.resources = append(c.resources, resource{name: name, fn: f})
}

// Close закрывает ресурсы по одному, начиная с последнего добавленного.
// Если ctx истекает раньше, оставшиеся ресурсы закрываются параллельно с forcedTimeout.
// Повторные вызовы ничего не делают и возвращают nil.
func (c *Closer) Close(ctx context.Context) error {
	var err error

	c.once.Do(func() {
		c.mu.Lock()
		resources := c.resources
		c.mu.Unlock()

		remaining, errs := c.closeInOrder(ctx, resources)
		if len(remaining) > 0 {
			errs = append(errs, fmt.Errorf("shutdown interrupted, %d resource(s) left: %w", len(remaining), ctx.Err()))
			errs = append(errs, c.forceClose(remaining)...)
		}

		err = errors.Join(errs...)
	})

	return err
}

// closeInOrder возвращает ресурсы, до которых не дошла очередь из-за отмены ctx.
func (c *Closer) closeInOrder(ctx context.Context, resources []resource) ([]resource, []error) {
	var errs []error

	for i := len(resources) - 1; i >= 0; i-- {
		res := resources[i]
		done := make(chan error, 1)

		go func() {
			done <- res.fn(ctx)
		}()

		select {
		case err := <-done:
			if err != nil {
				errs = append(errs, fmt.Errorf("close %s: %w", res.name, err))
			}
		case <-ctx.Done():
			return resources[:i+1], errs
		}
	}

	return nil, errs
}

func (c *Closer) forceClose(resources []resource) []error {
	ctx, cancel := context.WithTimeout(context.Background(), c.forcedTimeout)
	defer cancel()

	var (
		wg   sync.WaitGroup
		mu   sync.Mutex
		errs []error
	)

	for _, res := range resources {
		wg.Add(1)
		go func() {
			defer wg.Done()

			if err := res.fn(ctx); err != nil {
				mu.Lock()
				errs = append(errs, fmt.Errorf("force close %s: %w", res.name, err))
				mu.Unlock()
			}
		}()
	}

	wg.Wait()
	return errs
}
