package contextkeys

// Ключи gin.Context, под которыми middleware авторизации кладет личность запроса.
const (
	UserIDKey = "user_id"
	UserKey   = "user"
	RoleKey   = "user_role"
)
