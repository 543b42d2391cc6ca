package ocr

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestCollapseHanSpaces(t *testing.T) {
	tests := []struct {
		name string
		in   string
		want string
	}{
		{name: "glyph spacing", in: "白 砂 糖", want: "白砂糖"},
		{name: "multiple spaces", in: "柠檬  酸", want: "柠檬酸"},
		{name: "punctuation keeps spacing", in: "配 料 ： 水 ， 白 砂 糖", want: "配料 ： 水 ， 白砂糖"},
		{name: "latin untouched", in: "citric acid, sodium benzoate", want: "citric acid, sodium benzoate"},
		{name: "mixed", in: "维 生 素 C 100 mg", want: "维生素 C 100 mg"},
		{name: "edges", in: " 糖 ", want: " 糖 "},
		{name: "empty", in: "", want: ""},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, CollapseHanSpaces(tt.in))
		})
	}
}
