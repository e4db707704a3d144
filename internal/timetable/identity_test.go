package timetable

import (
	"testing"

	"github.com/Freeeeeet/timetable_bot/internal/model"
	"github.com/stretchr/testify/assert"
)

func TestExtractIdentity(t *testing.T) {
	tests := []struct {
		name     string
		raw      string
		want     model.CourseIdentity
		strategy IdentityStrategy
	}{
		{
			name:     "title with trailing code",
			raw:      "Fluid Mechanics (CE612)",
			want:     model.CourseIdentity{Code: "CE612", Title: "Fluid Mechanics"},
			strategy: StrategyTrailingCode,
		},
		{
			name:     "trailing code without space",
			raw:      "Fluid Mechanics(CE612)",
			want:     model.CourseIdentity{Code: "CE612", Title: "Fluid Mechanics"},
			strategy: StrategyTrailingCode,
		},
		{
			name:     "surrounding whitespace is trimmed",
			raw:      "   Fluid Mechanics ( CE612 )  ",
			want:     model.CourseIdentity{Code: "CE612", Title: "Fluid Mechanics"},
			strategy: StrategyTrailingCode,
		},
		{
			name:     "scheme prefix then code",
			raw:      "(UG)(ELC113) Basic Electronics",
			want:     model.CourseIdentity{Code: "ELC113", Title: "(UG) Basic Electronics"},
			strategy: StrategyDigitGroup,
		},
		{
			name:     "code in the middle",
			raw:      "Intro (CS101) Lab",
			want:     model.CourseIdentity{Code: "CS101", Title: "Intro Lab"},
			strategy: StrategyDigitGroup,
		},
		{
			name:     "long trailing parenthetical falls through",
			raw:      "Advanced Topics (Special Lecture Series)",
			want:     model.CourseIdentity{Code: "Advanced Topics (Special Lecture Series)", Title: "Advanced Topics (Special Lecture Series)"},
			strategy: StrategyFallback,
		},
		{
			name:     "code dash title",
			raw:      "CS101 - Intro to Programming",
			want:     model.CourseIdentity{Code: "CS101", Title: "Intro to Programming"},
			strategy: StrategyCodeDashTitle,
		},
		{
			name:     "code dash title without spaces",
			raw:      "MTH201-Linear Algebra",
			want:     model.CourseIdentity{Code: "MTH201", Title: "Linear Algebra"},
			strategy: StrategyCodeDashTitle,
		},
		{
			name:     "plain text",
			raw:      "Thesis",
			want:     model.CourseIdentity{Code: "Thesis", Title: "Thesis"},
			strategy: StrategyFallback,
		},
		{
			name:     "empty",
			raw:      "",
			want:     model.CourseIdentity{},
			strategy: StrategyFallback,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, strategy := ExtractIdentityWithStrategy(tt.raw)
			assert.Equal(t, tt.want, got)
			assert.Equal(t, tt.strategy, strategy)
			assert.Equal(t, tt.want, ExtractIdentity(tt.raw))
		})
	}
}

func TestValidateCode(t *testing.T) {
	tests := []struct {
		code    string
		wantErr error
	}{
		{code: "AB"},
		{code: "A", wantErr: ErrCodeLength},
		{code: "ABCDEFGHIJKL"},
		{code: "ABCDEFGHIJKLM", wantErr: ErrCodeLength},
		{code: "", wantErr: ErrCodeLength},
		{code: "ce-612.a"},
		{code: "CS#101", wantErr: ErrCodeCharset},
		{code: "CS101", wantErr: nil},
	}

	for _, tt := range tests {
		t.Run(tt.code, func(t *testing.T) {
			assert.Equal(t, tt.wantErr, ValidateCode(tt.code))
		})
	}
}

func TestNormalizeCode(t *testing.T) {
	assert.Equal(t, "CS101", NormalizeCode("CS 101"))
	assert.Equal(t, "CS101", NormalizeCode(" CS 1 0 1 "))
}
