package keyboard

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestPaginationButtons(t *testing.T) {
	tests := []struct {
		name     string
		current  int
		total    int
		wantData []string
	}{
		{name: "single page", current: 0, total: 1},
		{name: "first page", current: 0, total: 3, wantData: []string{Noop, "p:1"}},
		{name: "middle page", current: 1, total: 3, wantData: []string{"p:0", Noop, "p:2"}},
		{name: "last page", current: 2, total: 3, wantData: []string{"p:1", Noop}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var got []string
			for _, b := range PaginationButtons("p:", tt.current, tt.total) {
				got = append(got, b.CallbackData)
			}
			assert.Equal(t, tt.wantData, got)
		})
	}
}

func TestPage(t *testing.T) {
	tests := []struct {
		name                       string
		total, perPage, page       int
		start, end, current, pages int
	}{
		{name: "empty", total: 0, perPage: 8, page: 0, start: 0, end: 0, current: 0, pages: 1},
		{name: "first", total: 20, perPage: 8, page: 0, start: 0, end: 8, current: 0, pages: 3},
		{name: "last partial", total: 20, perPage: 8, page: 2, start: 16, end: 20, current: 2, pages: 3},
		{name: "page beyond range", total: 20, perPage: 8, page: 9, start: 16, end: 20, current: 2, pages: 3},
		{name: "negative page", total: 5, perPage: 8, page: -1, start: 0, end: 5, current: 0, pages: 1},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			start, end, current, pages := Page(tt.total, tt.perPage, tt.page)
			assert.Equal(t, []int{tt.start, tt.end, tt.current, tt.pages}, []int{start, end, current, pages})
		})
	}
}

func TestBuilder(t *testing.T) {
	assert.Nil(t, NewBuilder().Build())

	kb := NewBuilder().
		Row(Button("a", "x:a")).
		Row().
		AddPagination("p:", 0, 2).
		Build()
	require.NotNil(t, kb)
	require.Len(t, kb.InlineKeyboard, 2)
	assert.Equal(t, "x:a", kb.InlineKeyboard[0][0].CallbackData)
}
