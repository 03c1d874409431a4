package modes

import (
	"github.com/charmbracelet/bubbles/textinput"

	"staffdash/internal/ui/input/types"
)

// SearchMode edits the list's free-text filter. Enter applies the term, esc
// keeps the one already in effect.
type SearchMode struct {
	TextInputMode
}

func NewSearchMode(ti *textinput.Model) *SearchMode {
	return &SearchMode{
		TextInputMode: NewTextInputMode(types.ModeSearch, "search", ti),
	}
}
