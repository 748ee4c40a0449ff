package template

import (
	"encoding/json"

	"github.com/cardpress/cardpress/pkg/errors"
)

// ParseConfig decodes a persisted config document.
//
// Decoding is lenient: unknown fields are ignored and enum values are not
// checked, matching the render path's degrade-gracefully contract. Use
// [Config.Validate] for the builder's stricter save-time checks.
func ParseConfig(data []byte) (Config, error) {
	var c Config
	if err := json.Unmarshal(data, &c); err != nil {
		return Config{}, errors.Wrap(errors.ErrCodeInvalidConfig, err, "decoding template config")
	}
	return c, nil
}

// ParseContent decodes a content-variable bag.
func ParseContent(data []byte) (ContentData, error) {
	var c ContentData
	if err := json.Unmarshal(data, &c); err != nil {
		return nil, errors.Wrap(errors.ErrCodeInvalidInput, err, "decoding content data")
	}
	if c == nil {
		c = ContentData{}
	}
	return c, nil
}

// Encode serializes the config for persistence. Embedded asset URL strings
// pass through untouched: the persistence layer matches them by exact string
// for reference counting.
func (c *Config) Encode() ([]byte, error) {
	data, err := json.Marshal(c)
	if err != nil {
		return nil, errors.Wrap(errors.ErrCodeInvalidConfig, err, "encoding template config")
	}
	return data, nil
}
