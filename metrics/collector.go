package metrics

import (
	"bytes"
	"encoding/binary"
	"math"

	"github.com/apache/arrow-go/v18/arrow"
	"github.com/apache/arrow-go/v18/arrow/array"
	"github.com/rs/zerolog"

	"github.com/gear6io/floe/pkg/errors"
	"github.com/gear6io/floe/schema"
	"github.com/gear6io/floe/utils"
)

// FieldStats is what a file writer embeds into the written-file record:
// four statistics maps keyed by field ID. A column whose mode is none
// appears in none of them. Value counts include nulls.
type FieldStats struct {
	NullValueCounts map[int]int64
	ValueCounts     map[int]int64
	LowerBounds     map[int][]byte
	UpperBounds     map[int][]byte
}

// Collector folds Arrow batches into per-column statistics for one file
// write. It is single-writer: one collector per file, Add from one
// goroutine, Finish once. Columns resolve to schema fields by top-level
// position; struct columns descend into their child arrays by index and
// contribute statistics per leaf field ID.
type Collector struct {
	sch     *schema.Schema
	cfg     *MetricsConfig
	session string
	logger  zerolog.Logger

	states map[int]*fieldState
	rows   int64
}

// NewCollector starts statistics collection for one file write
func NewCollector(sch *schema.Schema, cfg *MetricsConfig, logger zerolog.Logger) *Collector {
	session := utils.GenerateULIDString()
	return &Collector{
		sch:     sch,
		cfg:     cfg,
		session: session,
		logger:  logger.With().Str("collect_session", session).Logger(),
		states:  make(map[int]*fieldState),
	}
}

// Add folds one record batch into the running statistics
func (c *Collector) Add(rec arrow.Record) error {
	fields := c.sch.Fields()
	if int(rec.NumCols()) != len(fields) {
		return errors.Newf(ErrColumnCountMismatch, "record has %d columns, schema has %d", rec.NumCols(), len(fields))
	}

	for i, f := range fields {
		if err := c.foldColumn(f.ID, f.Name, f.Type, rec.Column(i)); err != nil {
			return err
		}
	}

	c.rows += rec.NumRows()
	return nil
}

// Rows returns how many rows have been folded so far
func (c *Collector) Rows() int64 {
	return c.rows
}

func (c *Collector) foldColumn(id int, path string, typ schema.Type, arr arrow.Array) error {
	if st, ok := typ.(*schema.StructType); ok {
		structArr, ok := arr.(*array.Struct)
		if !ok {
			return errors.Newf(ErrColumnTypeMismatch, "column %s: schema says struct, array is %s", path, arr.DataType())
		}
		if structArr.NumField() != len(st.Fields) {
			return errors.Newf(ErrColumnTypeMismatch, "column %s: schema has %d struct fields, array has %d", path, len(st.Fields), structArr.NumField())
		}
		for j, child := range st.Fields {
			if err := c.foldColumn(child.ID, path+"."+child.Name, child.Type, structArr.Field(j)); err != nil {
				return err
			}
		}
		return nil
	}

	mode := c.cfg.ModeForField(id)
	if mode.Kind == ModeNone {
		return nil
	}

	fs := c.states[id]
	if fs == nil {
		fs = &fieldState{}
		c.states[id] = fs
	}

	fs.values += int64(arr.Len())
	fs.nulls += int64(arr.NullN())

	if mode.Kind == ModeCounts {
		return nil
	}
	fs.observeBounds(arr)
	return nil
}

// Finish applies the policy to the folded state and emits the statistics
// maps. The collector must not be reused afterwards.
func (c *Collector) Finish() FieldStats {
	stats := FieldStats{
		NullValueCounts: make(map[int]int64),
		ValueCounts:     make(map[int]int64),
		LowerBounds:     make(map[int][]byte),
		UpperBounds:     make(map[int][]byte),
	}

	for id, fs := range c.states {
		mode := c.cfg.ModeForField(id)

		stats.NullValueCounts[id] = fs.nulls
		stats.ValueCounts[id] = fs.values

		if mode.Kind == ModeCounts || !fs.hasBounds {
			continue
		}

		lower, upper := fs.encodedBounds()
		if mode.Kind == ModeTruncate && fs.kind == kindBytes {
			lower = TruncateLower(lower, mode.Length)
			upper = TruncateUpper(upper, mode.Length)
		}
		if lower != nil {
			stats.LowerBounds[id] = lower
		}
		if upper != nil {
			stats.UpperBounds[id] = upper
		}
	}

	c.logger.Debug().
		Int64("rows", c.rows).
		Int("columns", len(c.states)).
		Msg("metrics collection finished")

	return stats
}

// boundKind is the value domain a column's running bounds live in. One
// column never changes kind between batches.
type boundKind int

const (
	kindUnset boundKind = iota
	kindInt32
	kindInt64
	kindFloat32
	kindFloat64
	kindBytes
)

type fieldState struct {
	nulls  int64
	values int64

	kind      boundKind
	hasBounds bool
	intLo     int64
	intHi     int64
	floatLo   float64
	floatHi   float64
	bytesLo   []byte
	bytesHi   []byte
}

// observeBounds folds the non-null values of one array into the running
// min/max. Types with no useful pruning encoding (booleans, decimals,
// fixed blobs) contribute counts only and are skipped here.
func (fs *fieldState) observeBounds(arr arrow.Array) {
	switch a := arr.(type) {
	case *array.Int32:
		for i := 0; i < a.Len(); i++ {
			if !a.IsNull(i) {
				fs.observeInt(int64(a.Value(i)), kindInt32)
			}
		}
	case *array.Int64:
		for i := 0; i < a.Len(); i++ {
			if !a.IsNull(i) {
				fs.observeInt(a.Value(i), kindInt64)
			}
		}
	case *array.Date32:
		for i := 0; i < a.Len(); i++ {
			if !a.IsNull(i) {
				fs.observeInt(int64(a.Value(i)), kindInt32)
			}
		}
	case *array.Timestamp:
		for i := 0; i < a.Len(); i++ {
			if !a.IsNull(i) {
				fs.observeInt(int64(a.Value(i)), kindInt64)
			}
		}
	case *array.Time64:
		for i := 0; i < a.Len(); i++ {
			if !a.IsNull(i) {
				fs.observeInt(int64(a.Value(i)), kindInt64)
			}
		}
	case *array.Float32:
		for i := 0; i < a.Len(); i++ {
			if !a.IsNull(i) {
				fs.observeFloat(float64(a.Value(i)), kindFloat32)
			}
		}
	case *array.Float64:
		for i := 0; i < a.Len(); i++ {
			if !a.IsNull(i) {
				fs.observeFloat(a.Value(i), kindFloat64)
			}
		}
	case *array.String:
		for i := 0; i < a.Len(); i++ {
			if !a.IsNull(i) {
				fs.observeBytes([]byte(a.Value(i)))
			}
		}
	case *array.Binary:
		for i := 0; i < a.Len(); i++ {
			if !a.IsNull(i) {
				fs.observeBytes(a.Value(i))
			}
		}
	}
}

func (fs *fieldState) observeInt(v int64, k boundKind) {
	if !fs.hasBounds {
		fs.kind = k
		fs.intLo, fs.intHi = v, v
		fs.hasBounds = true
		return
	}
	if v < fs.intLo {
		fs.intLo = v
	}
	if v > fs.intHi {
		fs.intHi = v
	}
}

func (fs *fieldState) observeFloat(v float64, k boundKind) {
	// NaN compares false against everything and would poison the range
	if math.IsNaN(v) {
		return
	}
	if !fs.hasBounds {
		fs.kind = k
		fs.floatLo, fs.floatHi = v, v
		fs.hasBounds = true
		return
	}
	if v < fs.floatLo {
		fs.floatLo = v
	}
	if v > fs.floatHi {
		fs.floatHi = v
	}
}

func (fs *fieldState) observeBytes(v []byte) {
	if !fs.hasBounds {
		fs.kind = kindBytes
		fs.bytesLo = append([]byte(nil), v...)
		fs.bytesHi = append([]byte(nil), v...)
		fs.hasBounds = true
		return
	}
	if bytes.Compare(v, fs.bytesLo) < 0 {
		fs.bytesLo = append(fs.bytesLo[:0], v...)
	}
	if bytes.Compare(v, fs.bytesHi) > 0 {
		fs.bytesHi = append(fs.bytesHi[:0], v...)
	}
}

// encodedBounds renders the running min/max in the single-value
// serialization bounds use: little-endian fixed width for integers and
// floats, raw bytes for strings and binary.
func (fs *fieldState) encodedBounds() ([]byte, []byte) {
	switch fs.kind {
	case kindInt32:
		return encodeInt32(int32(fs.intLo)), encodeInt32(int32(fs.intHi))
	case kindInt64:
		return encodeInt64(fs.intLo), encodeInt64(fs.intHi)
	case kindFloat32:
		return encodeFloat32(float32(fs.floatLo)), encodeFloat32(float32(fs.floatHi))
	case kindFloat64:
		return encodeFloat64(fs.floatLo), encodeFloat64(fs.floatHi)
	case kindBytes:
		return append([]byte(nil), fs.bytesLo...), append([]byte(nil), fs.bytesHi...)
	default:
		return nil, nil
	}
}

func encodeInt32(v int32) []byte {
	b := make([]byte, 4)
	binary.LittleEndian.PutUint32(b, uint32(v))
	return b
}

func encodeInt64(v int64) []byte {
	b := make([]byte, 8)
	binary.LittleEndian.PutUint64(b, uint64(v))
	return b
}

func encodeFloat32(v float32) []byte {
	b := make([]byte, 4)
	binary.LittleEndian.PutUint32(b, math.Float32bits(v))
	return b
}

func encodeFloat64(v float64) []byte {
	b := make([]byte, 8)
	binary.LittleEndian.PutUint64(b, math.Float64bits(v))
	return b
}
