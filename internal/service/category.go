package service

import (
	"errors"

	"platero/internal/ledger"
	"platero/internal/models"

	"gorm.io/gorm"
)

// CategoryService owns the category tree: depth computation, reparenting with
// cycle protection, and protect-on-delete.
type CategoryService struct {
	db *gorm.DB
}

func NewCategoryService(db *gorm.DB) *CategoryService {
	return &CategoryService{db: db}
}

// Level returns the depth of the category in its tree: 1 for a root, else the
// parent's level plus one. A repeated node on the walk means the stored tree
// has a cycle and is reported as an error instead of recursing forever.
func (s *CategoryService) Level(category *models.Category) (int, error) {
	if category == nil || category.ID == 0 {
		return 0, validationf("level needs a persisted category")
	}

	level := 1
	seen := map[uint]bool{category.ID: true}
	parentID := category.ParentID
	for parentID != nil {
		if seen[*parentID] {
			return 0, validationf("category tree contains a cycle at id %d", *parentID)
		}
		seen[*parentID] = true

		var parent models.Category
		if err := s.db.First(&parent, *parentID).Error; err != nil {
			return 0, err
		}
		level++
		parentID = parent.ParentID
	}
	return level, nil
}

// SetParent reparents the category. Assigning itself or any of its
// descendants as parent is rejected, so no cycle can be written.
func (s *CategoryService) SetParent(category, parent *models.Category) error {
	if category == nil || category.ID == 0 {
		return validationf("reparent needs a persisted category")
	}
	if parent == nil {
		category.ParentID = nil
		return s.db.Model(category).Update("parent_id", nil).Error
	}
	if parent.UserID != category.UserID {
		return validationf("parent category belongs to another user")
	}
	if parent.ID == category.ID {
		return validationf("a category cannot be its own parent")
	}

	// walk up from the proposed parent; hitting the category means the
	// assignment would close a cycle
	seen := map[uint]bool{}
	ancestorID := &parent.ID
	for ancestorID != nil {
		if *ancestorID == category.ID {
			return validationf("assignment would create a category cycle")
		}
		if seen[*ancestorID] {
			return validationf("category tree contains a cycle at id %d", *ancestorID)
		}
		seen[*ancestorID] = true

		var ancestor models.Category
		if err := s.db.First(&ancestor, *ancestorID).Error; err != nil {
			return err
		}
		ancestorID = ancestor.ParentID
	}

	category.ParentID = &parent.ID
	return s.db.Model(category).Update("parent_id", parent.ID).Error
}

// Delete removes the category. It is blocked while subcategories or
// transactions still reference it.
func (s *CategoryService) Delete(category *models.Category) error {
	if category == nil || category.ID == 0 {
		return validationf("delete needs a persisted category")
	}

	var children int64
	if err := s.db.Model(&models.Category{}).
		Where("parent_id = ?", category.ID).
		Count(&children).Error; err != nil {
		return err
	}
	if children > 0 {
		return ledger.ErrProtected
	}

	var referencing int64
	if err := s.db.Model(&models.Transaction{}).
		Where("category_id = ?", category.ID).
		Count(&referencing).Error; err != nil {
		return err
	}
	if referencing > 0 {
		return ledger.ErrProtected
	}

	err := s.db.Delete(&models.Category{}, category.ID).Error
	if errors.Is(err, gorm.ErrForeignKeyViolated) {
		return ledger.ErrProtected
	}
	return err
}
