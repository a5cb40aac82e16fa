package fits

import (
	"iter"
	"strings"
)

// RecordSeq is an ordered sequence of records of different value types.
type RecordSeq struct {
	records []Record[VariantValue]
}

// NewRecordSeq returns a sequence holding records.
func NewRecordSeq(records ...Record[VariantValue]) *RecordSeq {
	return &RecordSeq{records: append([]Record[VariantValue](nil), records...)}
}

// AppendRecord appends a typed record to s.
func AppendRecord[T Value](s *RecordSeq, r Record[T]) {
	s.records = append(s.records, AnyRecord(r))
}

// Append appends records to s.
func (s *RecordSeq) Append(records ...Record[VariantValue]) {
	s.records = append(s.records, records...)
}

// Len returns the number of records.
func (s *RecordSeq) Len() int {
	return len(s.records)
}

// Records returns a copy of the records.
func (s *RecordSeq) Records() []Record[VariantValue] {
	return append([]Record[VariantValue](nil), s.records...)
}

// All iterates over the records in order.
func (s *RecordSeq) All() iter.Seq2[int, Record[VariantValue]] {
	return func(yield func(int, Record[VariantValue]) bool) {
		for i, r := range s.records {
			if !yield(i, r) {
				return
			}
		}
	}
}

// Keywords returns the keyword of every record.
func (s *RecordSeq) Keywords() []string {
	keywords := make([]string, len(s.records))
	for i, r := range s.records {
		keywords[i] = r.Keyword
	}
	return keywords
}

// Get returns the first record with the keyword, compared without regard
// to case.
func (s *RecordSeq) Get(keyword string) (Record[VariantValue], error) {
	for _, r := range s.records {
		if strings.EqualFold(r.Keyword, keyword) {
			return r, nil
		}
	}
	return Record[VariantValue]{}, &KeywordNotFoundError{Keyword: keyword}
}

// As returns the value of the record with the keyword when it is of type T.
func As[T Value](s *RecordSeq, keyword string) (T, error) {
	r, err := s.Get(keyword)
	if err != nil {
		var zero T
		return zero, err
	}
	r2, err := RecordAs[T](r)
	return r2.Value, err
}

// AsRecord returns the record with the keyword when its value is of type T.
func AsRecord[T Value](s *RecordSeq, keyword string) (Record[T], error) {
	r, err := s.Get(keyword)
	if err != nil {
		return Record[T]{}, err
	}
	return RecordAs[T](r)
}
