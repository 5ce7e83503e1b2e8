package slug

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestMake(t *testing.T) {
	cases := []struct {
		name string
		want string
	}{
		{"Red Shoe", "red-shoe"},
		{"Red  Shoe", "red-shoe"},
		{"Café & Bar!", "caf-bar"},
		{"  trimmed  ", "trimmed"},
		{"UPPER_case-mix 42", "upper-case-mix-42"},
		{"!!!", ""},
	}
	for _, tc := range cases {
		assert.Equal(t, tc.want, Make(tc.name), "Make(%q)", tc.name)
	}
}

func TestWithSuffix(t *testing.T) {
	assert.Equal(t, "red-shoe", WithSuffix("red-shoe", 0))
	assert.Equal(t, "red-shoe-1", WithSuffix("red-shoe", 1))
	assert.Equal(t, "red-shoe-3", WithSuffix("red-shoe", 3))
}
