package text

import (
	"fmt"
	"strings"
)

// StrokeOrder renders one stroke-order image tag per CJK unified ideograph
// in word. The images are external assets named after the character.
func StrokeOrder(word string) string {
	var b strings.Builder
	for _, r := range word {
		if r < 0x4E00 || r > 0x9FFF {
			continue
		}
		fmt.Fprintf(&b, `<img width="640" src="%c.svg">`, r)
	}
	return b.String()
}
