package models

import (
	"math"

	"hyperlocal_backend/internal/models/chat"
)

// All возвращает все модели в порядке зависимостей внешних ключей.
// Используется для AutoMigrate.
func All() []interface{} {
	return []interface{}{
		&User{},
		&WorkerProfile{},
		&Job{},
		&Application{},
		&Rating{},
		&VerificationDocument{},
		&chat.Conversation{},
		&chat.Message{},
	}
}

// RoundRating округляет средний рейтинг до одного знака для отображения.
// В хранилище среднее лежит без округления.
func RoundRating(avg float64) float64 {
	return math.Round(avg*10) / 10
}
