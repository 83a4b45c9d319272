package domain

import (
	"regexp"
	"strings"

	"ynab-recon-engine/internal/apperr"
)

// Category is the category carried on a transaction, either assigned by
// YNAB, inferred by the core, or the canonical "unknown" sentinel.
type Category struct {
	id   CategoryId
	name string
	typ  CategoryType
}

var whitespaceRun = regexp.MustCompile(`\s+`)

// NewCategory validates and constructs a Category.
func NewCategory(id CategoryId, name string, typ CategoryType) (Category, error) {
	if isBlank(string(id)) {
		return Category{}, apperr.InvalidArgument("category id must not be blank")
	}
	if isBlank(name) {
		return Category{}, apperr.InvalidArgument("category name must not be blank")
	}
	return Category{id: id, name: name, typ: typ}, nil
}

// Unknown returns the canonical sentinel category every BankTransaction
// starts with.
func Unknown() Category {
	return Category{id: "unknown", name: "Uncategorized", typ: CategoryUnknown}
}

// Inferred builds a Category for a bank-inferred category whose id is
// derived deterministically from its name.
func Inferred(name string) (Category, error) {
	if isBlank(name) {
		return Category{}, apperr.InvalidArgument("category name must not be blank")
	}
	id := "inferred_" + whitespaceRun.ReplaceAllString(strings.ToLower(name), "_")
	return Category{id: CategoryId(id), name: name, typ: CategoryBankInferred}, nil
}

func (c Category) Id() CategoryId     { return c.id }
func (c Category) Name() string       { return c.name }
func (c Category) Type() CategoryType { return c.typ }

// IsUnknown reports whether c is the canonical Unknown() sentinel.
func (c Category) IsUnknown() bool {
	return c == Unknown()
}

// IsSimilarTo reports whether c and other are equal, or their names
// match case-insensitively (spec §3).
func (c Category) IsSimilarTo(other Category) bool {
	if c == other {
		return true
	}
	return strings.EqualFold(c.name, other.name)
}

// YnabCategory is a catalog entry from the remote budget, as opposed to
// the lighter Category carried on a transaction.
type YnabCategory struct {
	id        CategoryId
	name      string
	groupId   string
	groupName string
	isHidden  bool
	isDeleted bool
}

// NewYnabCategory validates and constructs a YnabCategory.
func NewYnabCategory(id CategoryId, name, groupId, groupName string, isHidden, isDeleted bool) (YnabCategory, error) {
	if isBlank(string(id)) {
		return YnabCategory{}, apperr.InvalidArgument("ynab category id must not be blank")
	}
	if isBlank(name) {
		return YnabCategory{}, apperr.InvalidArgument("ynab category name must not be blank")
	}
	return YnabCategory{
		id:        id,
		name:      name,
		groupId:   groupId,
		groupName: groupName,
		isHidden:  isHidden,
		isDeleted: isDeleted,
	}, nil
}

func (c YnabCategory) Id() CategoryId   { return c.id }
func (c YnabCategory) Name() string     { return c.name }
func (c YnabCategory) GroupId() string  { return c.groupId }
func (c YnabCategory) GroupName() string { return c.groupName }
func (c YnabCategory) IsHidden() bool   { return c.isHidden }
func (c YnabCategory) IsDeleted() bool  { return c.isDeleted }

// IsAvailableForInference reports whether c may be used by the
// inference pipeline.
func (c YnabCategory) IsAvailableForInference() bool {
	return !c.isHidden && !c.isDeleted
}

// ToCategory projects a catalog entry down to the lighter Category
// shape carried on a transaction.
func (c YnabCategory) ToCategory() Category {
	return Category{id: c.id, name: c.name, typ: CategoryYnabAssigned}
}

// InferenceKeywords returns the lowercased keyword set used by the
// similarity fallback (spec §3).
func (c YnabCategory) InferenceKeywords() []string {
	name := strings.ToLower(c.name)
	group := strings.ToLower(c.groupName)
	return []string{name, group, group + ": " + name}
}

// Similarity scores a candidate text against c per spec §3's fixed
// formula. It returns 0.0 for a null/blank text.
func (c YnabCategory) Similarity(text string) float64 {
	if isBlank(text) {
		return 0.0
	}
	lowered := strings.ToLower(text)
	name := strings.ToLower(c.name)
	group := strings.ToLower(c.groupName)

	if strings.Contains(lowered, name) {
		return 1.0
	}
	if group != "" && strings.Contains(lowered, group) {
		return 0.7
	}
	for _, word := range strings.Fields(name) {
		if len(word) >= 3 && strings.Contains(lowered, word) {
			return 0.5
		}
	}
	return 0.0
}
