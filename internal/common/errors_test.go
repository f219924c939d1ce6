package common

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestWrapError(t *testing.T) {
	base := errors.New("boom")
	wrapped := WrapError(base, "context")

	assert.EqualError(t, wrapped, "context: boom")
	assert.True(t, errors.Is(wrapped, base))
	assert.Nil(t, WrapError(nil, "context"))
}

func TestWrapErrorf(t *testing.T) {
	base := errors.New("boom")
	wrapped := WrapErrorf(base, "item %d of %d", 2, 5)

	assert.EqualError(t, wrapped, "item 2 of 5: boom")
	assert.Nil(t, WrapErrorf(nil, "item %d", 1))
}

func TestValidationError(t *testing.T) {
	err := NewValidationError("confidence", 1.5, "must be between 0 and 1")
	assert.Contains(t, err.Error(), "confidence")
	assert.Contains(t, err.Error(), "must be between 0 and 1")
}

func TestConfigurationError(t *testing.T) {
	err := NewConfigurationError("storage_config", "driver", "unsupported driver")
	assert.Contains(t, err.Error(), "storage_config")
	assert.Contains(t, err.Error(), "driver")

	sectionOnly := NewConfigurationError("storage_config", "", "broken")
	assert.Contains(t, sectionOnly.Error(), "storage_config")
}

func TestCombineErrors(t *testing.T) {
	assert.Nil(t, CombineErrors(nil))

	single := errors.New("only one")
	assert.Equal(t, single, CombineErrors([]error{single}))

	combined := CombineErrors([]error{errors.New("first"), errors.New("second")})
	assert.Contains(t, combined.Error(), "first")
	assert.Contains(t, combined.Error(), "second")
}

func TestErrorCollector(t *testing.T) {
	collector := &ErrorCollector{}
	assert.False(t, collector.HasErrors())
	assert.Zero(t, collector.Count())
	assert.Nil(t, collector.Error())

	collector.Add(nil)
	assert.False(t, collector.HasErrors())

	collector.Add(errors.New("first"))
	collector.AddWithContext(errors.New("second"), "while merging")
	assert.True(t, collector.HasErrors())
	assert.Equal(t, 2, collector.Count())
	assert.Contains(t, collector.Error().Error(), "while merging: second")
}
