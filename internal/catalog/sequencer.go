package catalog

import "sync"

// Sequencer выдаёт возрастающие метки запросов и помнит последнюю выданную.
// Ответ, метка которого не последняя, считается устаревшим.
type Sequencer struct {
	mu     sync.Mutex
	latest uint64
}

// Next выдаёт метку для нового запроса.
func (s *Sequencer) Next() uint64 {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.latest++
	return s.latest
}

// IsLatest сообщает, что метка принадлежит последнему выданному запросу.
func (s *Sequencer) IsLatest(stamp uint64) bool {
	s.mu.Lock()
	defer s.mu.Unlock()

	return stamp == s.latest
}

// Latest хранит результат последнего запроса, отбрасывая устаревшие.
type Latest[T any] struct {
	seq   Sequencer
	mu    sync.Mutex
	stamp uint64
	value T
	set   bool
}

// Issue выдаёт метку для нового запроса.
func (l *Latest[T]) Issue() uint64 {
	return l.seq.Next()
}

// Resolve принимает результат, только если его метка последняя из выданных
// и ещё не была принята. Возвращает true, если значение принято.
func (l *Latest[T]) Resolve(stamp uint64, value T) bool {
	l.mu.Lock()
	defer l.mu.Unlock()

	if !l.seq.IsLatest(stamp) || (l.set && l.stamp >= stamp) {
		return false
	}

	l.stamp, l.value, l.set = stamp, value, true
	return true
}

// Get возвращает последнее принятое значение.
func (l *Latest[T]) Get() (T, bool) {
	l.mu.Lock()
	defer l.mu.Unlock()

	return l.value, l.set
}
