package model

import "time"

// Session - состояние входа владелицы, одно на всё приложение
type Session struct {
	IsLoggedIn bool   `json:"isLoggedIn"`
	OwnerName  string `json:"ownerName"`
}

// LocaleLayout повторяет формат toLocaleString() для en-US
const LocaleLayout = "1/2/2006, 3:04:05 PM"

// FormatLocale форматирует время так, как его видит пользователь в карточках
func FormatLocale(t time.Time) string {
	return t.Format(LocaleLayout)
}
