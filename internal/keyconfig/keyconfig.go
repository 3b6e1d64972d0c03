// Package keyconfig validates the key remapping submitted with a game and
// converts it between the stored form (key code -> chip symbol) and the form
// the player consumes (chip symbol -> key code).
package keyconfig

import (
	"fmt"
	"regexp"
	"sort"
	"strconv"
	"strings"

	"chip8arcade/internal/types"
)

const (
	MaxRows    = 16
	MinKeyCode = 0
	MaxKeyCode = 255

	KeyCodeField    = "key_code"
	ChipSymbolField = "chip_symbol"
	FormFieldPrefix = "key_config"

	ErrDuplicateKeyCodes = "keys mapped to multiple symbols"
	ErrEmptyMapping      = "at least one key must be mapped"
	ErrInvalidChipSymbol = "chip symbol must be a single hex digit, optionally prefixed with 0x"
	ErrInvalidKeyCode    = "key code must be a whole number between 0 and 255"
)

var (
	chipSymbolPattern = regexp.MustCompile(`^(0[xX])?[0-9a-fA-F]$`)
	rowFieldPattern   = regexp.MustCompile(
		`^` + FormFieldPrefix + `-(\d+)-(` + KeyCodeField + `|` + ChipSymbolField + `)$`,
	)
)

// Row is one submitted slot of the key configuration form. Either field may be blank.
type Row struct {
	KeyCode    string `json:"keyCode"`
	ChipSymbol string `json:"chipSymbol"`
}

// Mapping is the stored form: physical key code -> chip symbol.
type Mapping map[int]string

// Validate checks every row and builds the mapping from rows where both fields
// are filled in. Nothing is returned alongside an error.
func Validate(rows []Row) (Mapping, error) {
	verr := &types.ValidationError{}

	if len(rows) > MaxRows {
		verr.AddForm(fmt.Sprintf("no more than %d keys can be mapped", MaxRows))
		return nil, verr
	}

	mapping := make(Mapping, len(rows))
	duplicate := false

	for i, row := range rows {
		keyCode := strings.TrimSpace(row.KeyCode)
		symbol := strings.TrimSpace(row.ChipSymbol)

		if symbol != "" && !chipSymbolPattern.MatchString(symbol) {
			verr.AddField(FieldName(i, ChipSymbolField), ErrInvalidChipSymbol)
		}

		code, codeOK := 0, true
		if keyCode != "" {
			var err error
			code, err = strconv.Atoi(keyCode)
			if err != nil || code < MinKeyCode || code > MaxKeyCode {
				verr.AddField(FieldName(i, KeyCodeField), ErrInvalidKeyCode)
				codeOK = false
			}
		}

		if keyCode == "" || symbol == "" || !codeOK {
			continue
		}

		if _, exists := mapping[code]; exists {
			duplicate = true
			continue
		}
		mapping[code] = symbol
	}

	if duplicate {
		verr.AddForm(ErrDuplicateKeyCodes)
	}

	if verr.HasErrors() {
		return nil, verr
	}

	if len(mapping) == 0 {
		verr.AddForm(ErrEmptyMapping)
		return nil, verr
	}

	return mapping, nil
}

// Reverse builds the player view, chip symbol -> key code. When two key codes
// share a symbol the later write wins; key codes are visited in ascending
// order, so the highest key code keeps the binding.
func (m Mapping) Reverse() map[string]int {
	codes := m.KeyCodes()

	reversed := make(map[string]int, len(m))
	for _, code := range codes {
		reversed[m[code]] = code
	}

	return reversed
}

// KeyCodes returns the mapped key codes in ascending order.
func (m Mapping) KeyCodes() []int {
	codes := make([]int, 0, len(m))
	for code := range m {
		codes = append(codes, code)
	}
	sort.Ints(codes)
	return codes
}

// Rows converts the mapping back into form rows, ordered by key code.
func (m Mapping) Rows() []Row {
	rows := make([]Row, 0, len(m))
	for _, code := range m.KeyCodes() {
		rows = append(rows, Row{KeyCode: strconv.Itoa(code), ChipSymbol: m[code]})
	}
	return rows
}

// FieldName returns the form field name for a row, e.g. key_config-3-key_code.
func FieldName(index int, field string) string {
	return fmt.Sprintf("%s-%d-%s", FormFieldPrefix, index, field)
}

// ParseForm reads the submitted rows from multipart form values. Trailing
// slots with neither field filled in are dropped. A field beyond the last
// allowed slot yields MaxRows+1 rows so Validate reports the limit.
func ParseForm(values map[string][]string) []Row {
	get := func(key string) string {
		if v := values[key]; len(v) > 0 {
			return v[0]
		}
		return ""
	}

	count := 0
	for key := range values {
		match := rowFieldPattern.FindStringSubmatch(key)
		if match == nil {
			continue
		}
		index, err := strconv.Atoi(match[1])
		if err != nil || index >= MaxRows {
			count = MaxRows + 1
			break
		}
		count = max(count, index+1)
	}

	rows := make([]Row, 0, count)
	last := -1
	for i := 0; i < count; i++ {
		row := Row{
			KeyCode:    get(FieldName(i, KeyCodeField)),
			ChipSymbol: get(FieldName(i, ChipSymbolField)),
		}
		rows = append(rows, row)
		if i >= MaxRows || strings.TrimSpace(row.KeyCode) != "" || strings.TrimSpace(row.ChipSymbol) != "" {
			last = i
		}
	}

	return rows[:last+1]
}

// Submitted reports whether any key configuration field was sent.
func Submitted(values map[string][]string) bool {
	for key := range values {
		if rowFieldPattern.MatchString(key) {
			return true
		}
	}
	return false
}
