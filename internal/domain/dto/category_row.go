package dto

import "sync"

// CategoryRowDto — сырая строка мастер-данных категорий; дубликаты и
// порядок разруливает dimension.Service при построении дерева.
type CategoryRowDto struct {
	GenderID        string `json:"gender_id" db:"gender_id"`
	GenderName      string `json:"gender_name" db:"gender_name"`
	CategoryID      string `json:"category_id" db:"category_id"`
	CategoryName    string `json:"category_name" db:"category_name"`
	SubCategoryID   string `json:"sub_category_id" db:"sub_category_id"`
	SubCategoryName string `json:"sub_category_name" db:"sub_category_name"`
	Position        int    `json:"position" db:"position"`
}

// CategoryBatchDto копит строки из параллельно разбираемых страниц
// мастер-данных.
type CategoryBatchDto struct {
	Rows   []*CategoryRowDto
	rowsMx sync.Mutex
}

func (b *CategoryBatchDto) Append(rows ...*CategoryRowDto) {
	b.rowsMx.Lock()
	defer b.rowsMx.Unlock()

	b.Rows = append(b.Rows, rows...)
}

func (b *CategoryBatchDto) Snapshot() []*CategoryRowDto {
	b.rowsMx.Lock()
	defer b.rowsMx.Unlock()

	out := make([]*CategoryRowDto, len(b.Rows))
	copy(out, b.Rows)
	return out
}
