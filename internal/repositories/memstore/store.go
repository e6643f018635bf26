// Package memstore - реализация repositories.Store в памяти процесса.
// Используется для разработки без БД и в тестах сервисов.
package memstore

import (
	"context"
	"sort"
	"sync"
	"time"

	"hyperlocal_backend/internal/models"
	"hyperlocal_backend/internal/models/chat"
	"hyperlocal_backend/internal/repositories"
)

var _ repositories.Store = (*Store)(nil)

// arena - счетчики автоинкремента, по одному на таблицу.
// Принадлежит конкретному экземпляру хранилища.
type arena struct {
	users         int64
	profiles      int64
	jobs          int64
	applications  int64
	ratings       int64
	documents     int64
	conversations int64
	messages      int64
}

type pairKey [2]int64
type ratingKey [3]int64

type tables struct {
	users         map[int64]*models.User
	profiles      map[int64]*models.WorkerProfile
	jobs          map[int64]*models.Job
	applications  map[int64]*models.Application
	ratings       map[int64]*models.Rating
	documents     map[int64]*models.VerificationDocument
	conversations map[int64]*chat.Conversation
	messages      map[int64]*chat.Message

	// Индексы уникальности
	profileByUser  map[int64]int64
	appByJobWorker map[pairKey]int64
	ratingByKey    map[ratingKey]int64
}

func newTables() tables {
	return tables{
		users:          make(map[int64]*models.User),
		profiles:       make(map[int64]*models.WorkerProfile),
		jobs:           make(map[int64]*models.Job),
		applications:   make(map[int64]*models.Application),
		ratings:        make(map[int64]*models.Rating),
		documents:      make(map[int64]*models.VerificationDocument),
		conversations:  make(map[int64]*chat.Conversation),
		messages:       make(map[int64]*chat.Message),
		profileByUser:  make(map[int64]int64),
		appByJobWorker: make(map[pairKey]int64),
		ratingByKey:    make(map[ratingKey]int64),
	}
}

// clone делает глубокую копию всех таблиц для отката транзакции.
func (t tables) clone() tables {
	c := newTables()
	for id, v := range t.users {
		c.users[id] = cloneUser(v)
	}
	for id, v := range t.profiles {
		c.profiles[id] = cloneProfile(v)
	}
	for id, v := range t.jobs {
		c.jobs[id] = cloneJob(v)
	}
	for id, v := range t.applications {
		c.applications[id] = cloneApplication(v)
	}
	for id, v := range t.ratings {
		c.ratings[id] = cloneRating(v)
	}
	for id, v := range t.documents {
		c.documents[id] = cloneDocument(v)
	}
	for id, v := range t.conversations {
		c.conversations[id] = cloneConversation(v)
	}
	for id, v := range t.messages {
		c.messages[id] = cloneMessage(v)
	}
	for k, v := range t.profileByUser {
		c.profileByUser[k] = v
	}
	for k, v := range t.appByJobWorker {
		c.appByJobWorker[k] = v
	}
	for k, v := range t.ratingByKey {
		c.ratingByKey[k] = v
	}
	return c
}

type database struct {
	mu  sync.RWMutex
	t   tables
	ids arena
}

// Store - потокобезопасное хранилище. Транзакционный Store (inTx) работает
// под уже захваченной блокировкой внешнего WithTx.
type Store struct {
	db   *database
	inTx bool
}

func New() *Store {
	return &Store{db: &database{t: newTables()}}
}

func (s *Store) rlock() func() {
	if s.inTx {
		return func() {}
	}
	s.db.mu.RLock()
	return s.db.mu.RUnlock
}

func (s *Store) lock() func() {
	if s.inTx {
		return func() {}
	}
	s.db.mu.Lock()
	return s.db.mu.Unlock
}

// WithTx держит эксклюзивную блокировку на время fn и восстанавливает снимок
// таблиц, если fn вернула ошибку или запаниковала.
func (s *Store) WithTx(ctx context.Context, fn func(tx repositories.Store) error) (err error) {
	if s.inTx {
		return fn(s)
	}

	s.db.mu.Lock()
	defer s.db.mu.Unlock()

	snapshot := s.db.t.clone()
	ids := s.db.ids
	rollback := func() {
		s.db.t = snapshot
		s.db.ids = ids
	}

	defer func() {
		if r := recover(); r != nil {
			rollback()
			panic(r)
		}
	}()

	if err = fn(&Store{db: s.db, inTx: true}); err != nil {
		rollback()
	}
	return err
}

func (s *Store) DeleteAllUsers(ctx context.Context) error {
	return s.WithTx(ctx, func(tx repositories.Store) error {
		// Все таблицы зависят от users, поэтому каскад очищает хранилище целиком.
		// Счетчики id не сбрасываются, как и автоинкремент в БД.
		s.db.t = newTables()
		return nil
	})
}

func (s *Store) Ping(ctx context.Context) error {
	return ctx.Err()
}

func (s *Store) Close() error {
	return nil
}

func now() time.Time {
	return time.Now().UTC()
}

func stamp(t *time.Time) {
	if t.IsZero() {
		*t = now()
	}
}

// newestFirst сортирует по времени по убыванию, затем по id по убыванию.
func newestFirst[T any](items []T, at func(T) time.Time, id func(T) int64) {
	sort.Slice(items, func(i, j int) bool {
		ti, tj := at(items[i]), at(items[j])
		if !ti.Equal(tj) {
			return ti.After(tj)
		}
		return id(items[i]) > id(items[j])
	})
}
