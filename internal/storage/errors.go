// Package storage содержит общие ошибки уровня хранилища.
package storage

import "errors"

// ErrNotFound возвращается, когда запись отсутствует или не принадлежит пользователю.
var ErrNotFound = errors.New("not found")
