package model

import "errors"

// Типизированные ошибки жизненного цикла ссылки. HTTP-слой отображает их
// в коды статусов, слой хранилища и сервис возвращают их как есть.
var (
	// ErrAliasTaken — запрошенный alias уже занят активной ссылкой.
	ErrAliasTaken = errors.New("alias already taken")
	// ErrLinkNotFound — активная ссылка с таким кодом не найдена.
	ErrLinkNotFound = errors.New("link not found")
	// ErrLinkGone — ссылка существовала, но истекла и была удалена.
	ErrLinkGone = errors.New("link expired")
	// ErrForbidden — операция запрещена: чужая или анонимная ссылка.
	ErrForbidden = errors.New("forbidden")
)
