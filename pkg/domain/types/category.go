package types

import "github.com/m-mizutani/goerr/v2"

// TaskCategory represents the kind of work a task annotation covers
type TaskCategory string

const (
	TaskCategoryProof         TaskCategory = "proof"
	TaskCategoryStateAndProve TaskCategory = "state-and-prove"
	TaskCategoryRepair        TaskCategory = "repair"
	TaskCategoryRefactor      TaskCategory = "refactor"
	TaskCategoryQuery         TaskCategory = "query"
	TaskCategoryChore         TaskCategory = "chore"
)

// AllTaskCategories returns all valid task categories
func AllTaskCategories() []TaskCategory {
	return []TaskCategory{
		TaskCategoryProof,
		TaskCategoryStateAndProve,
		TaskCategoryRepair,
		TaskCategoryRefactor,
		TaskCategoryQuery,
		TaskCategoryChore,
	}
}

// IsValid checks if the task category is valid
func (c TaskCategory) IsValid() bool {
	switch c {
	case TaskCategoryProof,
		TaskCategoryStateAndProve,
		TaskCategoryRepair,
		TaskCategoryRefactor,
		TaskCategoryQuery,
		TaskCategoryChore:
		return true
	default:
		return false
	}
}

// String returns the string representation of the task category
func (c TaskCategory) String() string {
	return string(c)
}

// ParseTaskCategory parses a string into a TaskCategory
func ParseTaskCategory(s string) (TaskCategory, error) {
	category := TaskCategory(s)
	if !category.IsValid() {
		return "", goerr.Wrap(ErrInvalidCategory, "unknown task category", goerr.V("category", s))
	}
	return category, nil
}
