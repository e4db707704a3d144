package keyboard

import (
	"fmt"

	"github.com/go-telegram/bot/models"
)

// Noop callback для кнопок-индикаторов
const Noop = "noop"

// PaginationButtons создаёт ряд кнопок пагинации
// prefix - префикс для callback (например "courses_page:")
// currentPage - текущая страница (0-based)
// totalPages - всего страниц
func PaginationButtons(prefix string, currentPage, totalPages int) []models.InlineKeyboardButton {
	if totalPages <= 1 {
		return nil
	}

	var buttons []models.InlineKeyboardButton

	if currentPage > 0 {
		buttons = append(buttons, Button("⬅️", fmt.Sprintf("%s%d", prefix, currentPage-1)))
	}

	buttons = append(buttons, Button(
		fmt.Sprintf("📄 %d/%d", currentPage+1, totalPages),
		Noop,
	))

	if currentPage < totalPages-1 {
		buttons = append(buttons, Button("➡️", fmt.Sprintf("%s%d", prefix, currentPage+1)))
	}

	return buttons
}

// AddPagination добавляет пагинацию к builder
func (b *Builder) AddPagination(prefix string, currentPage, totalPages int) *Builder {
	buttons := PaginationButtons(prefix, currentPage, totalPages)
	if len(buttons) > 0 {
		b.Row(buttons...)
	}
	return b
}

// Page границы страницы [start, end) для total элементов. page приводится к допустимому диапазону.
func Page(total, perPage, page int) (start, end, current, pages int) {
	if perPage <= 0 {
		perPage = total
	}
	pages = 1
	if total > 0 && perPage > 0 {
		pages = (total + perPage - 1) / perPage
	}
	current = min(max(page, 0), pages-1)
	start = current * perPage
	end = min(start+perPage, total)
	return start, end, current, pages
}
