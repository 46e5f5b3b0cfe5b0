package models

import (
	"errors"
	"fmt"
)

// Level is one categorical field of the cascade.
type Level string

const (
	LevelGroup     Level = "group"
	LevelCategory  Level = "category"
	LevelSize      Level = "size"
	LevelMaterial  Level = "material"
	LevelFinish    Level = "finish"
	LevelSides     Level = "sides"
	LevelVariables Level = "variables"
)

// Levels lists every level, shallowest first.
var Levels = []Level{
	LevelGroup, LevelCategory, LevelSize, LevelMaterial, LevelFinish, LevelSides, LevelVariables,
}

// SiblingLevels are the levels narrowed by group and category together. They
// do not narrow each other.
var SiblingLevels = []Level{
	LevelSize, LevelMaterial, LevelFinish, LevelSides, LevelVariables,
}

// ErrUnknownLevel is returned when a level name is not recognised.
var ErrUnknownLevel = errors.New("unknown level")

// ParseLevel maps a level name to its Level.
func ParseLevel(s string) (Level, error) {
	for _, l := range Levels {
		if string(l) == s {
			return l, nil
		}
	}
	return "", fmt.Errorf("%w: %q", ErrUnknownLevel, s)
}

// IsSibling reports whether l is one of the five group+category dependent levels.
func (l Level) IsSibling() bool {
	for _, s := range SiblingLevels {
		if s == l {
			return true
		}
	}
	return false
}

// Selection is the tuple of categorical choices. An empty field is unset.
type Selection struct {
	Group     string `json:"group"`
	Category  string `json:"category"`
	Size      string `json:"size"`
	Material  string `json:"material"`
	Finish    string `json:"finish"`
	Sides     string `json:"sides"`
	Variables string `json:"variables"`
}

// Get returns the value held at level l.
func (s Selection) Get(l Level) string {
	switch l {
	case LevelGroup:
		return s.Group
	case LevelCategory:
		return s.Category
	case LevelSize:
		return s.Size
	case LevelMaterial:
		return s.Material
	case LevelFinish:
		return s.Finish
	case LevelSides:
		return s.Sides
	case LevelVariables:
		return s.Variables
	}
	return ""
}

// Set stores v at level l. It performs no cascade.
func (s *Selection) Set(l Level, v string) {
	switch l {
	case LevelGroup:
		s.Group = v
	case LevelCategory:
		s.Category = v
	case LevelSize:
		s.Size = v
	case LevelMaterial:
		s.Material = v
	case LevelFinish:
		s.Finish = v
	case LevelSides:
		s.Sides = v
	case LevelVariables:
		s.Variables = v
	}
}

// Value returns the row's value for level l.
func (r CatalogRow) Value(l Level) string {
	switch l {
	case LevelGroup:
		return r.ProductGroup
	case LevelCategory:
		return r.ProductCategory
	case LevelSize:
		return r.Size
	case LevelMaterial:
		return r.Material
	case LevelFinish:
		return r.Finish
	case LevelSides:
		return r.PrintingSides
	case LevelVariables:
		return r.Variables
	}
	return ""
}

// Dimensions are the physical inputs of a configuration. Height and width
// are millimetres.
type Dimensions struct {
	Height   float64 `json:"height"`
	Width    float64 `json:"width"`
	Quantity int     `json:"quantity"`
}

// DefaultDimensions is the initial input state: no size, one piece.
var DefaultDimensions = Dimensions{Height: 0, Width: 0, Quantity: 1}

// ErrInvalidDimensions is returned for negative sizes or a quantity below one.
var ErrInvalidDimensions = errors.New("invalid dimensions")

// Validate checks height, width >= 0 and quantity >= 1.
func (d Dimensions) Validate() error {
	if d.Height < 0 {
		return fmt.Errorf("%w: height must be >= 0", ErrInvalidDimensions)
	}
	if d.Width < 0 {
		return fmt.Errorf("%w: width must be >= 0", ErrInvalidDimensions)
	}
	if d.Quantity < 1 {
		return fmt.Errorf("%w: quantity must be >= 1", ErrInvalidDimensions)
	}
	return nil
}
