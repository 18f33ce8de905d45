package invoice

import (
	"fmt"

	"github.com/shopspring/decimal"
)

// Renderer writes a summary to a file.
type Renderer interface {
	Render(s Summary, path string) error
	// Ext is the file extension without the dot.
	Ext() string
}

// FileName is the conventional name for invoice n.
func FileName(number int64, ext string) string {
	return fmt.Sprintf("invoice_%04d.%s", number, ext)
}

func money(currency string, d decimal.Decimal) string {
	return currency + d.StringFixed(2)
}
