package metrics

import (
	"bytes"
	"encoding/binary"
	"math"
	"testing"

	"github.com/apache/arrow-go/v18/arrow"
	"github.com/apache/arrow-go/v18/arrow/array"
	"github.com/apache/arrow-go/v18/arrow/memory"
	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/gear6io/floe/schema"
)

func flatSchema(t *testing.T) *schema.Schema {
	t.Helper()
	return schema.MustNewSchema(
		schema.Field{ID: 1, Name: "id", Type: &schema.PrimitiveType{TypeName: schema.TypeInt64}},
		schema.Field{ID: 2, Name: "data", Type: &schema.PrimitiveType{TypeName: schema.TypeString}},
	)
}

// buildFlatRecord assembles an {id: int64, data: string} batch the way the
// engine's write path does: one builder per column, then a record over the
// finished arrays.
func buildFlatRecord(t *testing.T, ids []int64, idValid []bool, data []string, dataValid []bool) arrow.Record {
	t.Helper()
	pool := memory.NewGoAllocator()

	arrowSchema := arrow.NewSchema([]arrow.Field{
		{Name: "id", Type: arrow.PrimitiveTypes.Int64, Nullable: true},
		{Name: "data", Type: arrow.BinaryTypes.String, Nullable: true},
	}, nil)

	idBuilder := array.NewBuilder(pool, arrow.PrimitiveTypes.Int64).(*array.Int64Builder)
	defer idBuilder.Release()
	idBuilder.AppendValues(ids, idValid)
	idArr := idBuilder.NewArray()

	dataBuilder := array.NewBuilder(pool, arrow.BinaryTypes.String).(*array.StringBuilder)
	defer dataBuilder.Release()
	dataBuilder.AppendValues(data, dataValid)
	dataArr := dataBuilder.NewArray()

	return array.NewRecord(arrowSchema, []arrow.Array{idArr, dataArr}, int64(len(ids)))
}

func decodeInt64(t *testing.T, b []byte) int64 {
	t.Helper()
	require.Len(t, b, 8)
	return int64(binary.LittleEndian.Uint64(b))
}

func TestCollectorFullDefault(t *testing.T) {
	sch := flatSchema(t)
	cfg, err := NewMetricsConfig(sch, map[string]string{DefaultModeKey: "full"})
	require.NoError(t, err)

	rec := buildFlatRecord(t, []int64{1, 2, 3}, nil, []string{"foo", "bar", "baz"}, nil)
	defer rec.Release()

	c := NewCollector(sch, cfg, zerolog.Nop())
	require.NoError(t, c.Add(rec))
	stats := c.Finish()

	// One entry per column in every map
	assert.Len(t, stats.NullValueCounts, 2)
	assert.Len(t, stats.ValueCounts, 2)
	assert.Len(t, stats.LowerBounds, 2)
	assert.Len(t, stats.UpperBounds, 2)

	assert.Equal(t, int64(0), stats.NullValueCounts[1])
	assert.Equal(t, int64(3), stats.ValueCounts[1])
	assert.Equal(t, int64(1), decodeInt64(t, stats.LowerBounds[1]))
	assert.Equal(t, int64(3), decodeInt64(t, stats.UpperBounds[1]))

	assert.Equal(t, []byte("bar"), stats.LowerBounds[2])
	assert.Equal(t, []byte("foo"), stats.UpperBounds[2])
}

func TestCollectorNoneDefault(t *testing.T) {
	sch := flatSchema(t)
	cfg, err := NewMetricsConfig(sch, map[string]string{DefaultModeKey: "none"})
	require.NoError(t, err)

	rec := buildFlatRecord(t, []int64{1, 2, 3}, nil, []string{"foo", "bar", "baz"}, nil)
	defer rec.Release()

	c := NewCollector(sch, cfg, zerolog.Nop())
	require.NoError(t, c.Add(rec))
	stats := c.Finish()

	assert.Empty(t, stats.NullValueCounts)
	assert.Empty(t, stats.ValueCounts)
	assert.Empty(t, stats.LowerBounds)
	assert.Empty(t, stats.UpperBounds)
}

func TestCollectorCountsOmitsBounds(t *testing.T) {
	sch := flatSchema(t)
	cfg, err := NewMetricsConfig(sch, map[string]string{DefaultModeKey: "counts"})
	require.NoError(t, err)

	// One null in data
	rec := buildFlatRecord(t, []int64{1, 2, 3}, nil, []string{"foo", "", "baz"}, []bool{true, false, true})
	defer rec.Release()

	c := NewCollector(sch, cfg, zerolog.Nop())
	require.NoError(t, c.Add(rec))
	stats := c.Finish()

	assert.Len(t, stats.NullValueCounts, 2)
	assert.Len(t, stats.ValueCounts, 2)
	assert.Empty(t, stats.LowerBounds)
	assert.Empty(t, stats.UpperBounds)

	// Value counts include nulls
	assert.Equal(t, int64(1), stats.NullValueCounts[2])
	assert.Equal(t, int64(3), stats.ValueCounts[2])
	assert.Equal(t, int64(0), stats.NullValueCounts[1])
}

func TestCollectorOverrideBeatsDefault(t *testing.T) {
	sch := flatSchema(t)
	cfg, err := NewMetricsConfig(sch, map[string]string{
		DefaultModeKey:               "counts",
		ColumnModeKeyPrefix + "data": "full",
	})
	require.NoError(t, err)

	rec := buildFlatRecord(t, []int64{1, 2, 3}, nil, []string{"foo", "bar", "baz"}, nil)
	defer rec.Release()

	c := NewCollector(sch, cfg, zerolog.Nop())
	require.NoError(t, c.Add(rec))
	stats := c.Finish()

	assert.Len(t, stats.NullValueCounts, 2)
	assert.Len(t, stats.ValueCounts, 2)

	// Only the overridden column carries bounds
	require.Len(t, stats.LowerBounds, 1)
	require.Len(t, stats.UpperBounds, 1)
	assert.Equal(t, []byte("bar"), stats.LowerBounds[2])
	assert.Equal(t, []byte("foo"), stats.UpperBounds[2])
}

// buildNestedRecord matches nestedSchema: id, data, record{id, data}
func buildNestedRecord(t *testing.T, ids []int64, data []string, recIDs []int64, recData []string) arrow.Record {
	t.Helper()
	pool := memory.NewGoAllocator()

	structDT := arrow.StructOf(
		arrow.Field{Name: "id", Type: arrow.PrimitiveTypes.Int64, Nullable: true},
		arrow.Field{Name: "data", Type: arrow.BinaryTypes.String, Nullable: true},
	)
	arrowSchema := arrow.NewSchema([]arrow.Field{
		{Name: "id", Type: arrow.PrimitiveTypes.Int64, Nullable: true},
		{Name: "data", Type: arrow.BinaryTypes.String, Nullable: true},
		{Name: "record", Type: structDT, Nullable: true},
	}, nil)

	idBuilder := array.NewBuilder(pool, arrow.PrimitiveTypes.Int64).(*array.Int64Builder)
	defer idBuilder.Release()
	idBuilder.AppendValues(ids, nil)
	idArr := idBuilder.NewArray()

	dataBuilder := array.NewBuilder(pool, arrow.BinaryTypes.String).(*array.StringBuilder)
	defer dataBuilder.Release()
	dataBuilder.AppendValues(data, nil)
	dataArr := dataBuilder.NewArray()

	structBuilder := array.NewBuilder(pool, structDT).(*array.StructBuilder)
	defer structBuilder.Release()
	for i := range recIDs {
		structBuilder.Append(true)
		structBuilder.FieldBuilder(0).(*array.Int64Builder).Append(recIDs[i])
		structBuilder.FieldBuilder(1).(*array.StringBuilder).Append(recData[i])
	}
	structArr := structBuilder.NewArray()

	return array.NewRecord(arrowSchema, []arrow.Array{idArr, dataArr, structArr}, int64(len(ids)))
}

func TestCollectorNestedStructOverrides(t *testing.T) {
	sch := nestedSchema(t)
	cfg, err := NewMetricsConfig(sch, map[string]string{
		DefaultModeKey:                      "none",
		ColumnModeKeyPrefix + "id":          "counts",
		ColumnModeKeyPrefix + "record.id":   "full",
		ColumnModeKeyPrefix + "record.data": "truncate(2)",
	})
	require.NoError(t, err)

	rec := buildNestedRecord(t,
		[]int64{1, 2, 3},
		[]string{"x", "y", "z"},
		[]int64{10, 20, 30},
		[]string{"sponge", "bob", "squarepants"},
	)
	defer rec.Release()

	c := NewCollector(sch, cfg, zerolog.Nop())
	require.NoError(t, c.Add(rec))
	stats := c.Finish()

	// id, record.id and record.data are counted; data is mode none
	assert.Len(t, stats.NullValueCounts, 3)
	assert.Len(t, stats.ValueCounts, 3)
	assert.Contains(t, stats.ValueCounts, 1)
	assert.Contains(t, stats.ValueCounts, 4)
	assert.Contains(t, stats.ValueCounts, 5)

	// Bounds only where the mode asks for them
	assert.Len(t, stats.LowerBounds, 2)
	assert.Len(t, stats.UpperBounds, 2)

	assert.Equal(t, int64(10), decodeInt64(t, stats.LowerBounds[4]))
	assert.Equal(t, int64(30), decodeInt64(t, stats.UpperBounds[4]))

	// record.data bounds respect the 2-byte budget and still bracket the
	// true range
	lower, upper := stats.LowerBounds[5], stats.UpperBounds[5]
	assert.LessOrEqual(t, len(lower), 2)
	assert.LessOrEqual(t, len(upper), 2)
	assert.LessOrEqual(t, bytes.Compare(lower, []byte("bob")), 0)
	assert.GreaterOrEqual(t, bytes.Compare(upper, []byte("squarepants")), 0)
}

func TestCollectorTruncatedStringBounds(t *testing.T) {
	sch := flatSchema(t)
	cfg, err := NewMetricsConfig(sch, map[string]string{DefaultModeKey: "truncate(2)"})
	require.NoError(t, err)

	rec := buildFlatRecord(t, []int64{1, 2, 3}, nil,
		[]string{"aardvark", "applesauce", "zebra"}, nil)
	defer rec.Release()

	c := NewCollector(sch, cfg, zerolog.Nop())
	require.NoError(t, c.Add(rec))
	stats := c.Finish()

	assert.Equal(t, []byte("aa"), stats.LowerBounds[2])
	assert.Equal(t, []byte("zf"), stats.UpperBounds[2])

	// Fixed-width bounds are not length-truncated
	assert.Len(t, stats.LowerBounds[1], 8)
	assert.Equal(t, int64(3), decodeInt64(t, stats.UpperBounds[1]))
}

func TestCollectorAccumulatesBatches(t *testing.T) {
	sch := flatSchema(t)
	cfg, err := NewMetricsConfig(sch, map[string]string{DefaultModeKey: "full"})
	require.NoError(t, err)

	first := buildFlatRecord(t, []int64{5, 6, 7}, nil, []string{"mm", "nn", "oo"}, nil)
	defer first.Release()
	second := buildFlatRecord(t, []int64{1, 9}, nil, []string{"aa", "zz"}, nil)
	defer second.Release()

	c := NewCollector(sch, cfg, zerolog.Nop())
	require.NoError(t, c.Add(first))
	require.NoError(t, c.Add(second))
	assert.Equal(t, int64(5), c.Rows())

	stats := c.Finish()
	assert.Equal(t, int64(5), stats.ValueCounts[1])
	assert.Equal(t, int64(1), decodeInt64(t, stats.LowerBounds[1]))
	assert.Equal(t, int64(9), decodeInt64(t, stats.UpperBounds[1]))
	assert.Equal(t, []byte("aa"), stats.LowerBounds[2])
	assert.Equal(t, []byte("zz"), stats.UpperBounds[2])
}

func TestCollectorColumnCountMismatch(t *testing.T) {
	sch := nestedSchema(t)
	cfg, err := NewMetricsConfig(sch, nil)
	require.NoError(t, err)

	rec := buildFlatRecord(t, []int64{1}, nil, []string{"a"}, nil)
	defer rec.Release()

	c := NewCollector(sch, cfg, zerolog.Nop())
	err = c.Add(rec)
	require.Error(t, err)
}

func TestCollectorExcludesNaNFromBounds(t *testing.T) {
	sch := schema.MustNewSchema(
		schema.Field{ID: 1, Name: "reading", Type: &schema.PrimitiveType{TypeName: schema.TypeFloat64}},
	)
	cfg, err := NewMetricsConfig(sch, map[string]string{DefaultModeKey: "full"})
	require.NoError(t, err)

	pool := memory.NewGoAllocator()
	arrowSchema := arrow.NewSchema([]arrow.Field{
		{Name: "reading", Type: arrow.PrimitiveTypes.Float64, Nullable: true},
	}, nil)
	builder := array.NewBuilder(pool, arrow.PrimitiveTypes.Float64).(*array.Float64Builder)
	defer builder.Release()
	builder.AppendValues([]float64{1.5, math.NaN(), 2.5}, nil)
	arr := builder.NewArray()
	rec := array.NewRecord(arrowSchema, []arrow.Array{arr}, 3)
	defer rec.Release()

	c := NewCollector(sch, cfg, zerolog.Nop())
	require.NoError(t, c.Add(rec))
	stats := c.Finish()

	assert.Equal(t, int64(3), stats.ValueCounts[1])
	require.Len(t, stats.LowerBounds[1], 8)
	assert.Equal(t, 1.5, math.Float64frombits(binary.LittleEndian.Uint64(stats.LowerBounds[1])))
	assert.Equal(t, 2.5, math.Float64frombits(binary.LittleEndian.Uint64(stats.UpperBounds[1])))
}
