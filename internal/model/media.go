package model

import "fmt"

// MediaRecord - одна загруженная картинка галереи вместе с метаданными
// Src содержит саму картинку в виде data URL, внешних ссылок на файлы нет
type MediaRecord struct {
	// ID - миллисекунды времени загрузки плюс случайная дробная часть
	ID         float64 `json:"id" validate:"required"`
	Src        string  `json:"src" validate:"required"`
	Name       string  `json:"name"`
	SizeKB     string  `json:"size"`
	UploadedAt string  `json:"uploadedAt"`
}

// Gallery - упорядоченная коллекция картинок
type Gallery []MediaRecord

// Validate проверяет коллекцию при загрузке из хранилища
func (g Gallery) Validate() error {
	seen := make(map[float64]struct{}, len(g))
	for i, rec := range g {
		if errs := check(rec); len(errs) > 0 {
			return fmt.Errorf("image #%d: %w", i, errs)
		}
		if _, dup := seen[rec.ID]; dup {
			return fmt.Errorf("image #%d: duplicate id %v", i, rec.ID)
		}
		seen[rec.ID] = struct{}{}
	}
	return nil
}

// FormatSizeKB переводит байты в килобайты с двумя знаками после запятой
func FormatSizeKB(bytes int64) string {
	return fmt.Sprintf("%.2f", float64(bytes)/1024)
}
