package roster

import (
	"fmt"
	"strings"
)

// PadJersey zero-pads single digit jersey numbers ("7" -> "07").
// Anything else, including the empty string, is returned unchanged.
func PadJersey(jersey string) string {
	if len(jersey) == 1 && jersey[0] >= '0' && jersey[0] <= '9' {
		return "0" + jersey
	}
	return jersey
}

// ParseBirthDate converts a MM/DD/YYYY date into YYYY-MM-DD, zero-padding month and day.
// Input that does not split into exactly three parts yields "" (no date).
func ParseBirthDate(raw string) string {
	if raw == "" {
		return ""
	}
	parts := strings.Split(raw, "/")
	if len(parts) != 3 {
		return ""
	}
	return fmt.Sprintf("%s-%s-%s", parts[2], zeroPad2(parts[0]), zeroPad2(parts[1]))
}

func zeroPad2(s string) string {
	if len(s) >= 2 {
		return s
	}
	return strings.Repeat("0", 2-len(s)) + s
}
