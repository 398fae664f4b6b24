package recipe

import "errors"

// Domain errors for recipe operations

var (
	ErrTitleTooShort      = errors.New("recipe title must be at least 3 characters")
	ErrTitleTooLong       = errors.New("recipe title must not exceed 200 characters")
	ErrDescriptionTooLong = errors.New("recipe description must not exceed 2000 characters")
	ErrInvalidServings    = errors.New("servings must be greater than 0")
	ErrNoIngredients      = errors.New("recipe must have at least one ingredient")
	ErrNoInstructions     = errors.New("recipe must have at least one instruction")
	ErrIncompleteRecipe   = errors.New("recipe needs ingredients and instructions before publishing")

	ErrAlreadyPublished = errors.New("recipe is already published")
	ErrRecipeArchived   = errors.New("cannot modify archived recipe")
	ErrRecipeNotFound   = errors.New("recipe not found")
	ErrNotRecipeOwner   = errors.New("only recipe owner can perform this action")
)
