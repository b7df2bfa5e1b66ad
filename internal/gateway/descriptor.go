package gateway

import "strings"

// MaxDescriptorLength is Stripe's statement descriptor limit
const MaxDescriptorLength = 22

var descriptorStripper = strings.NewReplacer("<", "", ">", "", `"`, "", "*", "", "'", "")

// Descriptor builds a statement descriptor from prefix+value: the characters
// Stripe rejects are stripped, then the result is cut to 22 characters.
func Descriptor(value, prefix string) string {
	s := strings.TrimSpace(descriptorStripper.Replace(prefix + value))
	if r := []rune(s); len(r) > MaxDescriptorLength {
		s = strings.TrimSpace(string(r[:MaxDescriptorLength]))
	}
	return s
}
