package service

import (
	"time"

	"github.com/asquebay/dreamgirl-boutique/internal/repository/kv"
)

// ключи, под которыми каждый держатель состояния хранит свой документ
const (
	KeyOwnerAuth      = "ownerAuth"
	KeyUploadedImages = "uploadedImages"
	KeyCustomerOrders = "customerOrders"
	KeyShopIsOpen     = "shopIsOpen"
)

// StateStore определяет контракт постоянного хранилища для сервисов
// каждый сервис владеет ровно одним ключом
type StateStore interface {
	kv.Reader
	kv.Writer
}

// Clock отдаёт текущее время, в тестах подменяется
type Clock func() time.Time
