package storage

import "errors"

var (
	// ErrAuthNotFound в хранилище нет пары токенов
	ErrAuthNotFound = errors.New("no stored session")

	// ErrStorageClosed хранилище уже закрыто
	ErrStorageClosed = errors.New("storage is closed")

	// ErrSchemaMismatch файл создан несовместимой версией клиента
	ErrSchemaMismatch = errors.New("storage schema version mismatch")

	// ErrCorrupted сохраненное значение не читается
	ErrCorrupted = errors.New("stored value is corrupted")
)
