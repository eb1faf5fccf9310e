package upload

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestAllowedExtension(t *testing.T) {
	for _, name := range []string{"a.jpg", "a.jpeg", "a.png", "a.gif", "a.webp", "A.PNG", "photo.final.JPG"} {
		assert.True(t, AllowedExtension(name), name)
	}
	for _, name := range []string{"a.svg", "a.pdf", "a.exe", "a.png.sh", "a", ""} {
		assert.False(t, AllowedExtension(name), name)
	}
}
