package notification

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestInterpolate(t *testing.T) {
	data := map[string]string{
		"name":  "Alex",
		"hours": "24",
	}

	assert.Equal(t, "Hi Alex, 24 hours left",
		Interpolate("Hi {{name}}, {{hours}} hours left", data))

	assert.Equal(t, "No placeholders here",
		Interpolate("No placeholders here", data))

	assert.Equal(t, "Unknown {{plan}} stays",
		Interpolate("Unknown {{plan}} stays", data))

	assert.Equal(t, "Alex Alex",
		Interpolate("{{name}} {{name}}", data))
}
