package repositories

import "context"

// Store - единая точка доступа к данным. Реализации: memstore (в памяти)
// и gormstore (PostgreSQL / MySQL через GORM). Поведение обеих одинаково и
// проверяется общим набором тестов из storetest.
type Store interface {
	UserRepository
	WorkerRepository
	JobRepository
	ApplicationRepository
	RatingRepository
	VerificationRepository
	ConversationRepository
	MessageRepository

	// WithTx выполняет fn в транзакции. Ошибка из fn откатывает все изменения.
	// Вызов WithTx на транзакционном Store присоединяется к внешней транзакции.
	WithTx(ctx context.Context, fn func(tx Store) error) error

	// DeleteAllUsers удаляет всех пользователей и все зависимые записи одной
	// транзакцией, в порядке внешних ключей.
	DeleteAllUsers(ctx context.Context) error

	Ping(ctx context.Context) error
	Close() error
}
