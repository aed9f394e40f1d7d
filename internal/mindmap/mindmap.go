// Package mindmap holds the ordered category/tool list shown on the map and
// the reducer functions that are the only way to change it.
package mindmap

import (
	"strings"
	"unicode"

	"github.com/dtroode/aitoolmap-server/internal/model"
)

// Slug derives a tool identifier from its name: lower-cased, whitespace removed.
func Slug(name string) string {
	return strings.Map(func(r rune) rune {
		if unicode.IsSpace(r) {
			return -1
		}
		return unicode.ToLower(r)
	}, name)
}

// Clone returns a deep copy of categories.
func Clone(categories []model.Category) []model.Category {
	if categories == nil {
		return nil
	}
	out := make([]model.Category, len(categories))
	for i, c := range categories {
		out[i] = model.Category{Name: c.Name, Tools: append([]model.Tool(nil), c.Tools...)}
		if out[i].Tools == nil {
			out[i].Tools = []model.Tool{}
		}
	}
	return out
}

// IndexOf returns the position of the category with exactly this name, or -1.
func IndexOf(categories []model.Category, name string) int {
	for i, c := range categories {
		if c.Name == name {
			return i
		}
	}
	return -1
}

// HasName reports whether a category with this name exists, ignoring case.
func HasName(categories []model.Category, name string) bool {
	for _, c := range categories {
		if strings.EqualFold(c.Name, name) {
			return true
		}
	}
	return false
}

// CanAddCategory checks the guards of the center control.
func CanAddCategory(categories []model.Category, signedIn bool) error {
	if !signedIn {
		return model.ErrSignInRequired
	}
	if len(categories) >= model.MaxCategories {
		return model.ErrCategoryLimit
	}
	return nil
}

// AddCategory appends an empty category named name (trimmed).
func AddCategory(categories []model.Category, name string) ([]model.Category, error) {
	name = strings.TrimSpace(name)
	if name == "" {
		return categories, model.ErrEmptyCategoryName
	}
	if HasName(categories, name) {
		return categories, model.ErrCategoryExists
	}
	if len(categories) >= model.MaxCategories {
		return categories, model.ErrCategoryLimit
	}
	out := Clone(categories)
	return append(out, model.Category{Name: name, Tools: []model.Tool{}}), nil
}

// AppendTool adds tool at the end of the named category.
func AppendTool(categories []model.Category, category string, tool model.Tool) ([]model.Category, error) {
	idx := IndexOf(categories, category)
	if idx == -1 {
		return categories, model.ErrCategoryNotFound
	}
	out := Clone(categories)
	out[idx].Tools = append(out[idx].Tools, tool)
	return out, nil
}

// RemoveTool drops the tool with remoteID from the named category.
// A category left without tools is dropped as well.
func RemoveTool(categories []model.Category, category, remoteID string) ([]model.Category, error) {
	idx := IndexOf(categories, category)
	if idx == -1 {
		return categories, model.ErrCategoryNotFound
	}
	out := Clone(categories)
	tools := out[idx].Tools[:0]
	for _, t := range out[idx].Tools {
		if t.RemoteID != remoteID {
			tools = append(tools, t)
		}
	}
	out[idx].Tools = tools
	if len(tools) == 0 {
		return append(out[:idx], out[idx+1:]...), nil
	}
	return out, nil
}

// RemoveCategory drops the named category.
func RemoveCategory(categories []model.Category, category string) ([]model.Category, error) {
	idx := IndexOf(categories, category)
	if idx == -1 {
		return categories, model.ErrCategoryNotFound
	}
	out := Clone(categories)
	return append(out[:idx], out[idx+1:]...), nil
}
