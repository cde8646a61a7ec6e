package entity

import (
	"strings"

	"github.com/samber/lo"
)

// CodeLength is the number of digits in a verification code.
const CodeLength = 6

// Cells is the code buffer, one single-digit string per input cell.
// Index 0 is the most significant digit.
type Cells [CodeLength]string

func isDigit(r rune) bool { return r >= '0' && r <= '9' }

func isDigitString(v string) bool {
	return len(v) == 1 && isDigit(rune(v[0]))
}

// SetDigit writes value into the cell at index and returns the index that
// should hold focus next. value must be "" or one ASCII digit.
func (c *Cells) SetDigit(index int, value string) (int, error) {
	if index < 0 || index >= CodeLength {
		return index, ErrInvalidCodeFormat
	}
	if value != "" && !isDigitString(value) {
		return index, ErrInvalidCodeFormat
	}

	c[index] = value

	if value != "" && index < CodeLength-1 {
		return index + 1, nil
	}
	return index, nil
}

// Backspace returns where focus goes after backspace in the cell at index.
// It moves left only from an empty cell and never edits content.
func (c *Cells) Backspace(index int) int {
	if index > 0 && index < CodeLength && c[index] == "" {
		return index - 1
	}
	return index
}

// Paste builds cells from arbitrary text: non-digits are dropped, the rest
// is truncated to CodeLength and left-filled. Focus is the last filled cell,
// or 0 when no digit survived.
func Paste(text string) (Cells, int) {
	digits := lo.Filter([]rune(text), func(r rune, _ int) bool { return isDigit(r) })
	if len(digits) > CodeLength {
		digits = digits[:CodeLength]
	}

	var c Cells
	for i, r := range digits {
		c[i] = string(r)
	}

	if len(digits) == 0 {
		return c, 0
	}
	return c, len(digits) - 1
}

// Code concatenates the cells.
func (c *Cells) Code() string {
	return strings.Join(c[:], "")
}

// Complete reports whether every cell holds a digit.
func (c *Cells) Complete() bool {
	return lo.EveryBy(c[:], isDigitString)
}

// Filled counts non-empty cells.
func (c *Cells) Filled() int {
	return lo.CountBy(c[:], func(v string) bool { return v != "" })
}
