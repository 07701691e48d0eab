package encoder

import (
	"fmt"

	"github.com/fleece-format/fleece/errs"
	"github.com/fleece-format/fleece/internal/options"
	"github.com/fleece-format/fleece/sharedkeys"
)

// config accumulates options before an Encoder is built.
type config struct {
	uniqueStrings    bool
	sortKeys         bool
	base             []byte
	reuseBaseStrings bool
	sharedKeys       *sharedkeys.SharedKeys
}

// Option represents a functional option for configuring an Encoder.
type Option = options.Option[*config]

func applyOptions(cfg *config, opts []Option) error {
	return options.Apply(cfg, opts...)
}

// WithUniqueStrings enables or disables string deduplication through the
// encoder's internal string table. It is enabled by default.
func WithUniqueStrings(enabled bool) Option {
	return options.NoError(func(c *config) {
		c.uniqueStrings = enabled
	})
}

// WithSortKeys enables or disables sorting dict keys into ascending order as
// each dict is closed. It is enabled by default, which lets readers look up
// keys with Dict.Get's binary search; disabling it is only useful when a
// caller independently guarantees a specific key order and reads it back
// with Dict.GetUnsorted.
func WithSortKeys(enabled bool) Option {
	return options.NoError(func(c *config) {
		c.sortKeys = enabled
	})
}

// WithBase configures the encoder to produce a delta buffer: pointers may
// reach backward past the start of the new output into base, so values
// already present in base don't need to be rewritten. base must be a
// complete, even-length Fleece buffer and must outlive every buffer produced
// by this encoder, since the delta output is not meaningful on its own.
func WithBase(base []byte) Option {
	return options.New(func(c *config) error {
		if len(base) < 2 || len(base)%2 != 0 {
			return fmt.Errorf("base buffer must have a positive even length: %w", errs.ErrInvalidData)
		}
		c.base = base
		return nil
	})
}

// WithReuseBaseStrings, combined with WithBase, pre-populates the encoder's
// string table with every string reachable from base whose length is within
// [MinSharedStringSize, MaxSharedStringSize], so that writing such a string
// again emits a pointer into base instead of a fresh copy. The table is only
// consulted while UniqueStrings is enabled.
func WithReuseBaseStrings(enabled bool) Option {
	return options.NoError(func(c *config) {
		c.reuseBaseStrings = enabled
	})
}

// WithSharedKeys configures a SharedKeys collaborator used to compress
// eligible dict keys into small integers instead of inline strings.
func WithSharedKeys(sk *sharedkeys.SharedKeys) Option {
	return options.NoError(func(c *config) {
		c.sharedKeys = sk
	})
}
