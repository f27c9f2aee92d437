package state

import (
	"errors"
	"fmt"
	"sync"

	"pettrack/internal/domain/pet"
	"pettrack/internal/domain/user"
)

var (
	ErrUnknownDomain = errors.New("unknown state domain")
	ErrSnapshotType  = errors.New("snapshot type does not match domain")
)

// Ticket номер запроса, выданный Begin. Ответ применяется только если он новее примененных.
type Ticket struct {
	Domain Domain
	Seq    uint64
}

type subscriber struct {
	id uint64
	fn func(State)
}

// Store хранит состояние и уведомляет подписчиков после каждого примененного действия
type Store struct {
	mu      sync.RWMutex
	state   State
	issued  map[Domain]uint64
	applied map[Domain]uint64

	subsMu sync.Mutex
	subs   []subscriber
	nextID uint64
}

func NewStore() *Store {
	return &Store{
		state:   Initial(),
		issued:  make(map[Domain]uint64),
		applied: make(map[Domain]uint64),
	}
}

// State возвращает текущий снимок. Чтение никогда не запускает загрузку.
func (s *Store) State() State {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.state
}

// Dispatch применяет действие. Прямая запись считается самой новой для своих разделов,
// поэтому ответы на запросы, начатые раньше, будут отброшены.
func (s *Store) Dispatch(a Action) {
	s.mu.Lock()
	for _, d := range a.Domains() {
		s.issued[d]++
		s.applied[d] = s.issued[d]
	}
	s.state = Reduce(s.state, a)
	s.mu.Unlock()

	s.notify()
}

// Begin выдает следующий номер запроса для раздела
func (s *Store) Begin(d Domain) Ticket {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.issued[d]++
	return Ticket{Domain: d, Seq: s.issued[d]}
}

// Commit применяет действие, если для раздела еще не применен более новый запрос или запись.
// Возвращает false, если ответ устарел и был отброшен.
func (s *Store) Commit(t Ticket, a Action) bool {
	s.mu.Lock()
	if t.Seq <= s.applied[t.Domain] {
		s.mu.Unlock()
		return false
	}
	s.applied[t.Domain] = t.Seq
	s.state = Reduce(s.state, a)
	s.mu.Unlock()

	s.notify()
	return true
}

// SetSnapshot полностью заменяет снимок раздела
func (s *Store) SetSnapshot(d Domain, data any) error {
	switch d {
	case DomainPets:
		pets, ok := data.([]pet.Pet)
		if !ok {
			return fmt.Errorf("%w: %s expects []pet.Pet, got %T", ErrSnapshotType, d, data)
		}
		s.Dispatch(SetPets{Pets: pets})
	case DomainUser:
		switch v := data.(type) {
		case user.Session:
			s.Dispatch(Login{Session: v})
		case *user.Session:
			if v == nil {
				s.Dispatch(Logout{})
				return nil
			}
			s.Dispatch(Login{Session: *v})
		default:
			return fmt.Errorf("%w: %s expects user.Session, got %T", ErrSnapshotType, d, data)
		}
	default:
		return fmt.Errorf("%w: %q", ErrUnknownDomain, d)
	}
	return nil
}

// ClearSnapshot сбрасывает раздел в начальное значение
func (s *Store) ClearSnapshot(d Domain) error {
	switch d {
	case DomainPets:
		s.Dispatch(ClearPets{})
	case DomainUser:
		s.Dispatch(Logout{})
	default:
		return fmt.Errorf("%w: %q", ErrUnknownDomain, d)
	}
	return nil
}

// Subscribe подписывает fn на изменения. Возвращает функцию отписки.
func (s *Store) Subscribe(fn func(State)) func() {
	s.subsMu.Lock()
	s.nextID++
	id := s.nextID
	s.subs = append(s.subs, subscriber{id: id, fn: fn})
	s.subsMu.Unlock()

	return func() {
		s.subsMu.Lock()
		defer s.subsMu.Unlock()
		for i, sub := range s.subs {
			if sub.id == id {
				s.subs = append(s.subs[:i:i], s.subs[i+1:]...)
				return
			}
		}
	}
}

// notify отдает подписчикам актуальный снимок на момент вызова, а не на момент записи
func (s *Store) notify() {
	s.subsMu.Lock()
	subs := make([]subscriber, len(s.subs))
	copy(subs, s.subs)
	s.subsMu.Unlock()

	if len(subs) == 0 {
		return
	}

	next := s.State()
	for _, sub := range subs {
		sub.fn(next)
	}
}
