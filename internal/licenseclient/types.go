package licenseclient

import (
	"encoding/json"
	"time"
)

// Result нормализованный итог проверки лицензионного ключа.
// Verify всегда возвращает Result, ошибки сети и декодирования
// переводятся в Valid=false с человекочитаемым сообщением.
type Result struct {
	Valid                bool       // Ключ действителен
	Message              string     // Человекочитаемое пояснение
	ProductName          string     // Название продукта (опционально)
	ExpiresAt            *time.Time // Срок действия лицензии (опционально)
	ActivationsRemaining *int       // Остаток активаций (опционально)
}

// Запрос на проверку ключа у лицензионного сервера.
type verifyRequest struct {
	LicenseKey  string `json:"license_key"`
	ProductName string `json:"product_name"`
}

// Ответ лицензионного сервера. Поле expires_at декодируется отложенно:
// некорректное значение не должно ронять разбор всего ответа.
type verifyResponse struct {
	Valid                bool            `json:"valid"`
	Message              string          `json:"message"`
	ProductName          string          `json:"product_name"`
	ExpiresAt            json.RawMessage `json:"expires_at"`
	ActivationsRemaining *int            `json:"activations_remaining"`
}
