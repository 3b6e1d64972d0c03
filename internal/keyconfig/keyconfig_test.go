package keyconfig

import (
	"errors"
	"strconv"
	"testing"

	"chip8arcade/internal/types"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func validationError(t *testing.T, err error) *types.ValidationError {
	t.Helper()
	var verr *types.ValidationError
	require.True(t, errors.As(err, &verr), "expected a validation error, got %v", err)
	assert.True(t, errors.Is(err, types.ErrValidation))
	return verr
}

func TestValidate_BuildsMappingFromCompleteRows(t *testing.T) {
	rows := []Row{
		{KeyCode: "5", ChipSymbol: "2"},
		{KeyCode: " 6 ", ChipSymbol: " 4 "},
		{KeyCode: "", ChipSymbol: "8"},
		{KeyCode: "7", ChipSymbol: ""},
		{KeyCode: "", ChipSymbol: ""},
		{KeyCode: "81", ChipSymbol: "0xA"},
	}

	mapping, err := Validate(rows)

	require.NoError(t, err)
	assert.Equal(t, Mapping{5: "2", 6: "4", 81: "0xA"}, mapping)
}

func TestValidate_ChipSymbols(t *testing.T) {
	tests := []struct {
		name   string
		symbol string
		valid  bool
	}{
		{name: "digit", symbol: "0", valid: true},
		{name: "upper hex", symbol: "F", valid: true},
		{name: "lower hex", symbol: "c", valid: true},
		{name: "prefixed", symbol: "0x1", valid: true},
		{name: "upper prefix", symbol: "0Xb", valid: true},
		{name: "two digits", symbol: "10", valid: false},
		{name: "not hex", symbol: "G", valid: false},
		{name: "prefix only", symbol: "0x", valid: false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := Validate([]Row{{KeyCode: "32", ChipSymbol: tt.symbol}})
			if tt.valid {
				assert.NoError(t, err)
				return
			}

			verr := validationError(t, err)
			assert.Equal(t, []string{ErrInvalidChipSymbol}, verr.Fields[FieldName(0, ChipSymbolField)])
		})
	}
}

func TestValidate_KeyCodes(t *testing.T) {
	tests := []struct {
		name    string
		keyCode string
		valid   bool
	}{
		{name: "zero", keyCode: "0", valid: true},
		{name: "upper bound", keyCode: "255", valid: true},
		{name: "too large", keyCode: "256", valid: false},
		{name: "negative", keyCode: "-1", valid: false},
		{name: "not a number", keyCode: "space", valid: false},
		{name: "fraction", keyCode: "3.5", valid: false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := Validate([]Row{{KeyCode: tt.keyCode, ChipSymbol: "1"}})
			if tt.valid {
				assert.NoError(t, err)
				return
			}

			verr := validationError(t, err)
			assert.Equal(t, []string{ErrInvalidKeyCode}, verr.Fields[FieldName(0, KeyCodeField)])
		})
	}
}

func TestValidate_InvalidFieldInBlankRowStillFails(t *testing.T) {
	_, err := Validate([]Row{
		{KeyCode: "5", ChipSymbol: "2"},
		{KeyCode: "", ChipSymbol: "Z"},
	})

	verr := validationError(t, err)
	assert.Contains(t, verr.Fields, FieldName(1, ChipSymbolField))
}

func TestValidate_DuplicateKeyCodesReportedOnce(t *testing.T) {
	_, err := Validate([]Row{
		{KeyCode: "5", ChipSymbol: "1"},
		{KeyCode: "5", ChipSymbol: "2"},
		{KeyCode: "5", ChipSymbol: "3"},
		{KeyCode: "6", ChipSymbol: "4"},
	})

	verr := validationError(t, err)
	assert.Equal(t, []string{ErrDuplicateKeyCodes}, verr.Form)
	assert.Empty(t, verr.Fields)
}

func TestValidate_DuplicateKeyCodeWithBlankSymbolIsIgnored(t *testing.T) {
	mapping, err := Validate([]Row{
		{KeyCode: "5", ChipSymbol: "1"},
		{KeyCode: "5", ChipSymbol: ""},
	})

	require.NoError(t, err)
	assert.Equal(t, Mapping{5: "1"}, mapping)
}

func TestValidate_EmptyMapping(t *testing.T) {
	_, err := Validate([]Row{{}, {KeyCode: "4"}})

	verr := validationError(t, err)
	assert.Equal(t, []string{ErrEmptyMapping}, verr.Form)
}

func TestValidate_TooManyRows(t *testing.T) {
	rows := make([]Row, MaxRows+1)

	_, err := Validate(rows)

	verr := validationError(t, err)
	assert.Len(t, verr.Form, 1)
}

func TestValidate_SixteenDistinctRows(t *testing.T) {
	rows := make([]Row, 0, MaxRows)
	for i := 0; i < MaxRows; i++ {
		rows = append(rows, Row{KeyCode: strconv.Itoa(48 + i), ChipSymbol: "1"})
	}

	mapping, err := Validate(rows)

	require.NoError(t, err)
	assert.Len(t, mapping, MaxRows)
}

func TestMapping_Reverse(t *testing.T) {
	mapping := Mapping{5: "2", 6: "4"}

	assert.Equal(t, map[string]int{"2": 5, "4": 6}, mapping.Reverse())
}

// Colliding symbols keep only one binding; the highest key code wins.
func TestMapping_ReverseCollisionLastWriteWins(t *testing.T) {
	mapping := Mapping{81: "A", 65: "A", 90: "B"}

	var reversed map[string]int
	assert.NotPanics(t, func() { reversed = mapping.Reverse() })

	assert.Len(t, reversed, 2)
	assert.Equal(t, 81, reversed["A"])
	assert.Equal(t, 90, reversed["B"])
}

func TestMapping_Rows(t *testing.T) {
	mapping := Mapping{40: "8", 38: "2"}

	assert.Equal(t, []Row{
		{KeyCode: "38", ChipSymbol: "2"},
		{KeyCode: "40", ChipSymbol: "8"},
	}, mapping.Rows())
}

func TestParseForm(t *testing.T) {
	values := map[string][]string{
		"key_config-0-key_code":    {"38"},
		"key_config-0-chip_symbol": {"2"},
		"key_config-2-chip_symbol": {"8"},
		"key_config-3-key_code":    {" "},
		"title":                    {"Pong"},
	}

	rows := ParseForm(values)

	assert.Equal(t, []Row{
		{KeyCode: "38", ChipSymbol: "2"},
		{},
		{ChipSymbol: "8"},
	}, rows)
	assert.True(t, Submitted(values))
}

func TestParseForm_NoRows(t *testing.T) {
	values := map[string][]string{"title": {"Pong"}}

	assert.Empty(t, ParseForm(values))
	assert.False(t, Submitted(values))
}

func TestParseForm_RowBeyondLimitFailsValidation(t *testing.T) {
	values := map[string][]string{
		"key_config-0-key_code":     {"38"},
		"key_config-0-chip_symbol":  {"2"},
		"key_config-16-key_code":    {"40"},
		"key_config-16-chip_symbol": {"8"},
	}

	rows := ParseForm(values)
	require.Len(t, rows, MaxRows+1)

	_, err := Validate(rows)
	var verr *types.ValidationError
	require.ErrorAs(t, err, &verr)
	assert.Equal(t, []string{"no more than 16 keys can be mapped"}, verr.Form)
}

func TestParseForm_HugeIndexIsBounded(t *testing.T) {
	rows := ParseForm(map[string][]string{"key_config-99999999999999999999-key_code": {"1"}})

	assert.Len(t, rows, MaxRows+1)
}
