package domain

import "strings"

// DimensionNode — узел иерархии Gender → Category → SubCategory.
// Дерево неизменяемо после построения и пересобирается целиком
// при обновлении мастер-данных.
type DimensionNode struct {
	ID       string           `json:"id"`
	Name     string           `json:"name"`
	Children []*DimensionNode `json:"children,omitempty"`
}

type DimensionTree struct {
	Genders []*DimensionNode `json:"genders"`
}

func (t *DimensionTree) Gender(genderID string) *DimensionNode {
	for _, g := range t.Genders {
		if g.ID == genderID {
			return g
		}
	}
	return nil
}

func (t *DimensionTree) Category(genderID, categoryID string) *DimensionNode {
	gender := t.Gender(genderID)
	if gender == nil {
		return nil
	}
	for _, c := range gender.Children {
		if c.ID == categoryID {
			return c
		}
	}
	return nil
}

// CellKey — составной ключ ячейки для вкладок по категориям.
func CellKey(genderID, categoryID, subCategoryID string) string {
	return strings.Join([]string{genderID, categoryID, subCategoryID}, "_")
}

// StoreCellKey — ключ ячейки для вкладки Collection/Gender (секция × магазин).
func StoreCellKey(sectionID, storeID string) string {
	return sectionID + "_" + storeID
}
