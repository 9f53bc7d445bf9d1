package store

import (
	"fmt"

	"github.com/rfaisal/noteminder/internal/models"
)

// EnsureUser returns the user's record, creating and persisting one seeded
// with the default categories on first access. Idempotent.
func (s *Store) EnsureUser(userID string) (models.UserData, error) {
	var out models.UserData
	err := s.update(func(doc *models.Document) (bool, error) {
		u, created := userData(doc, userID)
		out = *u
		return created, nil
	})
	return out, err
}

// AddCategory appends a category named name with a unique slug id. Slug
// collisions are resolved by appending -2, -3, and so on.
func (s *Store) AddCategory(userID, name string) (models.Category, error) {
	var out models.Category
	err := s.update(func(doc *models.Document) (bool, error) {
		u, _ := userData(doc, userID)
		out = models.Category{ID: uniqueSlug(name, u.Categories), Name: name}
		u.Categories = append(u.Categories, out)
		return true, nil
	})
	return out, err
}

func uniqueSlug(name string, existing []models.Category) string {
	taken := make(map[string]bool, len(existing))
	for _, c := range existing {
		taken[c.ID] = true
	}

	base := models.Slugify(name)
	slug := base
	for i := 2; taken[slug]; i++ {
		slug = fmt.Sprintf("%s-%d", base, i)
	}
	return slug
}

// ListCategories returns the user's categories in insertion order.
func (s *Store) ListCategories(userID string) []models.Category {
	var out []models.Category
	s.view(func(doc *models.Document) {
		u, _ := userData(doc, userID)
		out = append(out, u.Categories...)
	})
	return out
}

// RenameCategory renames a category in place. The slug id never changes, so
// renaming the general category is allowed. Returns false when the id is
// unknown.
func (s *Store) RenameCategory(userID, categoryID, newName string) (bool, error) {
	found := false
	err := s.update(func(doc *models.Document) (bool, error) {
		u, _ := userData(doc, userID)
		for i := range u.Categories {
			if u.Categories[i].ID == categoryID {
				u.Categories[i].Name = newName
				found = true
				break
			}
		}
		return found, nil
	})
	return found, err
}

// DeleteCategory removes a category and reassigns its notes to the general
// category in the same atomic write, so no note ever references a missing
// category. Deleting the general category is refused, and an unknown id
// returns false.
func (s *Store) DeleteCategory(userID, categoryID string) (bool, error) {
	if categoryID == models.GeneralCategoryID {
		return false, nil
	}

	found := false
	err := s.update(func(doc *models.Document) (bool, error) {
		u, _ := userData(doc, userID)

		kept := u.Categories[:0]
		for _, c := range u.Categories {
			if c.ID == categoryID {
				found = true
				continue
			}
			kept = append(kept, c)
		}
		if !found {
			return false, nil
		}
		u.Categories = kept

		for i := range u.Notes {
			if u.Notes[i].CategoryID == categoryID {
				u.Notes[i].CategoryID = models.GeneralCategoryID
			}
		}
		return true, nil
	})
	return found, err
}
