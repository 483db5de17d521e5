package audio

import (
	"encoding/base64"
	"fmt"
	"os"
	"strings"
)

// Clip is a pre-encoded audio payload loaded once at startup and immutable
// afterwards.
type Clip struct {
	b64 string
}

// Load reads a base64-encoded audio file from disk and validates it decodes.
func Load(path string) (*Clip, error) {
	raw, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read clip %s: %w", path, err)
	}

	encoded := strings.TrimSpace(string(raw))
	if encoded == "" {
		return nil, fmt.Errorf("clip %s is empty", path)
	}
	if _, err := base64.StdEncoding.DecodeString(encoded); err != nil {
		return nil, fmt.Errorf("clip %s is not valid base64: %w", path, err)
	}

	return &Clip{b64: encoded}, nil
}

// Base64 returns the clip payload as delivered to the platform.
func (c *Clip) Base64() string {
	return c.b64
}
