package pricing

import (
	"fmt"
	"strings"
)

// DisplayName returns the item name, or a generated "Item <position>" when it is blank
func DisplayName(name string, position int) string {
	if trimmed := strings.TrimSpace(name); trimmed != "" {
		return trimmed
	}
	return fmt.Sprintf("Item %d", position)
}
