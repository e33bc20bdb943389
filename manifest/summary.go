package manifest

// PartitionFieldSummary aggregates one partition field across every data
// file a manifest tracks: whether any file holds a null or NaN partition
// value, and the field's byte-encoded value range. A manifest record
// carries one summary per partition field, in partition spec order.
type PartitionFieldSummary struct {
	ContainsNull bool
	// ContainsNaN is only tracked for floating-point partition fields;
	// nil means "not known", not "false"
	ContainsNaN *bool
	LowerBound  []byte
	UpperBound  []byte
}

// Copy returns an independent summary. Bound buffers are duplicated so
// mutating the copy never reaches the source.
func (s *PartitionFieldSummary) Copy() *PartitionFieldSummary {
	if s == nil {
		return nil
	}

	out := &PartitionFieldSummary{
		ContainsNull: s.ContainsNull,
	}
	if s.ContainsNaN != nil {
		v := *s.ContainsNaN
		out.ContainsNaN = &v
	}
	if s.LowerBound != nil {
		out.LowerBound = append([]byte(nil), s.LowerBound...)
	}
	if s.UpperBound != nil {
		out.UpperBound = append([]byte(nil), s.UpperBound...)
	}
	return out
}

func copySummaries(in []*PartitionFieldSummary) []*PartitionFieldSummary {
	if in == nil {
		return nil
	}
	out := make([]*PartitionFieldSummary, len(in))
	for i, s := range in {
		out[i] = s.Copy()
	}
	return out
}
