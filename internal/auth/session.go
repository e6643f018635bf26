package auth

import (
	"crypto/rand"
	"net/http"
	"time"

	"github.com/gorilla/sessions"
)

const sessionUserKey = "uid"

// SessionManager хранит id пользователя в подписанной cookie.
type SessionManager struct {
	store *sessions.CookieStore
	name  string
}

// NewSessionManager создает хранилище сессий. Пустой секрет допустим только
// в разработке: ключ генерируется на старте, и сессии не переживают рестарт.
func NewSessionManager(secret, name string, maxAge time.Duration, secure bool) *SessionManager {
	key := []byte(secret)
	if len(key) == 0 {
		key = make([]byte, 32)
		if _, err := rand.Read(key); err != nil {
			panic(err)
		}
	}

	store := sessions.NewCookieStore(key)
	store.Options = &sessions.Options{
		Path:     "/",
		MaxAge:   int(maxAge.Seconds()),
		HttpOnly: true,
		Secure:   secure,
		SameSite: http.SameSiteLaxMode,
	}
	return &SessionManager{store: store, name: name}
}

// Name - имя cookie сессии
func (m *SessionManager) Name() string {
	return m.name
}

// Start записывает пользователя в сессию и выставляет cookie.
func (m *SessionManager) Start(w http.ResponseWriter, r *http.Request, userID int64) error {
	// Ошибку Get игнорируем: испорченная cookie просто заменяется новой.
	session, _ := m.store.Get(r, m.name)
	session.Values[sessionUserKey] = userID
	return session.Save(r, w)
}

// UserID возвращает пользователя из cookie, если она есть и подпись верна.
func (m *SessionManager) UserID(r *http.Request) (int64, bool) {
	session, err := m.store.Get(r, m.name)
	if err != nil || session.IsNew {
		return 0, false
	}
	id, ok := session.Values[sessionUserKey].(int64)
	return id, ok && id > 0
}

// Clear просрочивает cookie сессии.
func (m *SessionManager) Clear(w http.ResponseWriter, r *http.Request) error {
	session, _ := m.store.Get(r, m.name)
	delete(session.Values, sessionUserKey)
	session.Options.MaxAge = -1
	return session.Save(r, w)
}
