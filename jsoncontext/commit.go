package jsoncontext

import (
	"github.com/tlscontext/webtranscript/jsonspan"
	"github.com/tlscontext/webtranscript/rangeset"
	"github.com/tlscontext/webtranscript/transcript"
)

// JsonCommitter is the per-node-kind reveal planner, mirroring the
// original crate's JsonCommit trait (grounded on
// original_source/crates/context/src/json/commit.rs). Implementations may
// override any subset of methods to change how a node kind decomposes into
// committed ranges (a supplemented feature over the original's single
// DefaultJsonCommitter); CommitStructure dispatches to these per node kind.
type JsonCommitter interface {
	CommitObject(v jsonspan.Object, direction transcript.Direction) error
	CommitKeyValue(kv jsonspan.KeyValue, direction transcript.Direction) error
	CommitArray(v jsonspan.Array, direction transcript.Direction) error
	CommitString(v jsonspan.JString, direction transcript.Direction) error
	CommitNumber(v jsonspan.Number, direction transcript.Direction) error
	CommitBool(v jsonspan.Bool, direction transcript.Direction) error
	CommitNull(v jsonspan.Null, direction transcript.Direction) error
	CommitRedacted(v jsonspan.Redacted, direction transcript.Direction) error
}

// CommitValue dispatches value to the matching JsonCommitter method.
func CommitValue(c JsonCommitter, value jsonspan.Value, direction transcript.Direction) error {
	switch v := value.(type) {
	case jsonspan.Object:
		return c.CommitObject(v, direction)
	case jsonspan.Array:
		return c.CommitArray(v, direction)
	case jsonspan.JString:
		return c.CommitString(v, direction)
	case jsonspan.Number:
		return c.CommitNumber(v, direction)
	case jsonspan.Bool:
		return c.CommitBool(v, direction)
	case jsonspan.Null:
		return c.CommitNull(v, direction)
	case jsonspan.Redacted:
		return c.CommitRedacted(v, direction)
	default:
		return transcript.NewCommitIndexError("unsupported json value kind", nil)
	}
}

// DefaultJsonCommitter commits only structural bytes (braces, brackets,
// colons, keys, separators) to a transcript.CommitmentBuilder: primitive
// literals (string/number/bool/null) commit nothing, leaving the caller to
// commit a primitive's own span separately when it chooses to reveal that
// value.
type DefaultJsonCommitter struct {
	Builder transcript.CommitmentBuilder
}

func (d *DefaultJsonCommitter) commit(ranges rangeset.Set, direction transcript.Direction) error {
	if ranges.IsEmpty() {
		return nil
	}
	next, err := d.Builder.Commit(ranges, direction)
	if err != nil {
		return err
	}
	d.Builder = next
	return nil
}

// CommitObject commits the object's delimiter bytes (WithoutPairs), then
// recurses into each key-value pair in declaration order (spec.md §5).
func (d *DefaultJsonCommitter) CommitObject(v jsonspan.Object, direction transcript.Direction) error {
	if err := d.commit(v.WithoutPairs(), direction); err != nil {
		return err
	}
	for _, kv := range v.Elems {
		if err := d.CommitKeyValue(kv, direction); err != nil {
			return err
		}
	}
	return nil
}

// CommitKeyValue commits the key/colon/whitespace bytes (WithoutValue),
// then the value.
func (d *DefaultJsonCommitter) CommitKeyValue(kv jsonspan.KeyValue, direction transcript.Direction) error {
	if err := d.commit(kv.WithoutValue(), direction); err != nil {
		return err
	}
	return CommitValue(d, kv.Value, direction)
}

// CommitArray commits the brackets and separators, then recurses into each
// element in index order (spec.md §5).
func (d *DefaultJsonCommitter) CommitArray(v jsonspan.Array, direction transcript.Direction) error {
	if err := d.commit(v.WithoutValues(), direction); err != nil {
		return err
	}
	if err := d.commit(v.Separators(), direction); err != nil {
		return err
	}
	for _, elem := range v.Elems {
		if err := CommitValue(d, elem, direction); err != nil {
			return err
		}
	}
	return nil
}

// CommitString commits nothing: a primitive literal's bytes are left for
// the caller to commit separately when it chooses to reveal that value.
func (d *DefaultJsonCommitter) CommitString(v jsonspan.JString, direction transcript.Direction) error {
	return nil
}

func (d *DefaultJsonCommitter) CommitNumber(v jsonspan.Number, direction transcript.Direction) error {
	return nil
}

func (d *DefaultJsonCommitter) CommitBool(v jsonspan.Bool, direction transcript.Direction) error {
	return nil
}

func (d *DefaultJsonCommitter) CommitNull(v jsonspan.Null, direction transcript.Direction) error {
	return nil
}

// CommitRedacted commits nothing: a redacted node's bytes are not
// attested plaintext, so there is nothing to reveal.
func (d *DefaultJsonCommitter) CommitRedacted(v jsonspan.Redacted, direction transcript.Direction) error {
	return nil
}

// CommitStructure walks value with a DefaultJsonCommitter over builder,
// committing it as direction. It is the entry point spec.md §4.6 names.
func CommitStructure(builder transcript.CommitmentBuilder, value jsonspan.Value, direction transcript.Direction) (transcript.CommitmentBuilder, error) {
	d := &DefaultJsonCommitter{Builder: builder}
	if err := CommitValue(d, value, direction); err != nil {
		return nil, err
	}
	return d.Builder, nil
}
