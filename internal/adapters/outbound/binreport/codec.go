// Package binreport implements the compact binary encoding used to hand
// reports between tools without re-parsing XML. Payloads are versioned:
// version 1 carries the core report shape, version 2 adds the variant
// label and build info.
package binreport

import (
	"bytes"
	"encoding/binary"
	"errors"
	"fmt"
	"io"
	"math"

	"github.com/trunk-io/analytics-cli/internal/domain/junit"
)

const (
	// VersionCore is the original payload shape.
	VersionCore = 1
	// VersionVariant adds the variant label and build info to the report.
	VersionVariant = 2
	// CurrentVersion is what Encode emits by default.
	CurrentVersion = VersionVariant
)

var ErrTruncated = errors.New("payload truncated")

// Decode reads a single-report payload. Trailing bytes after the record
// fail the call; buffers carrying several records go through DecodeAll.
func Decode(data []byte) (*junit.Report, error) {
	reports, err := DecodeAll(data)
	if err != nil {
		return nil, err
	}
	if len(reports) != 1 {
		return nil, fmt.Errorf("expected a single report, got %d", len(reports))
	}
	return &reports[0], nil
}

// DecodeAll reads every record in data, front to back, until the buffer is
// exhausted. A malformed or truncated record anywhere fails the whole call;
// there are no partial decodes.
func DecodeAll(data []byte) ([]junit.Report, error) {
	r := &reader{r: bytes.NewReader(data)}
	var reports []junit.Report
	for r.r.Len() > 0 {
		report, err := decodeRecord(r)
		if err != nil {
			return nil, err
		}
		reports = append(reports, *report)
	}
	return reports, nil
}

func decodeRecord(r *reader) (*junit.Report, error) {
	version := r.uvarint()
	if r.err != nil {
		return nil, r.err
	}
	if version != VersionCore && version != VersionVariant {
		return nil, fmt.Errorf("unsupported payload version %d", version)
	}

	report := &junit.Report{}
	report.Name = r.string()
	report.Tests = r.count()
	report.Failures = r.count()
	report.Errors = r.count()
	report.Skipped = r.count()
	report.Time = r.optFloat()
	report.Timestamp = r.optTimestamp()

	if version >= VersionVariant {
		report.Variant = r.string()
		if r.bool() {
			report.Build = &junit.BuildInfo{
				Label:  r.string(),
				Result: junit.BuildResult(r.uvarint()),
			}
		}
	}

	suites := r.length()
	for i := 0; i < suites && r.err == nil; i++ {
		report.TestSuites = append(report.TestSuites, r.suite())
	}

	if r.err != nil {
		return nil, r.err
	}
	return report, nil
}

// Encode writes report using the given payload version. Version 1 silently
// drops the variant label and build info.
func Encode(report *junit.Report, version int) ([]byte, error) {
	if version != VersionCore && version != VersionVariant {
		return nil, fmt.Errorf("unsupported payload version %d", version)
	}

	w := &writer{}
	w.uvarint(uint64(version))
	w.string(report.Name)
	w.count(report.Tests)
	w.count(report.Failures)
	w.count(report.Errors)
	w.count(report.Skipped)
	w.optFloat(report.Time)
	w.optTimestamp(report.Timestamp)

	if version >= VersionVariant {
		w.string(report.Variant)
		w.bool(report.Build != nil)
		if report.Build != nil {
			w.string(report.Build.Label)
			w.uvarint(uint64(report.Build.Result))
		}
	}

	w.count(len(report.TestSuites))
	for i := range report.TestSuites {
		w.suite(&report.TestSuites[i])
	}

	return w.buf.Bytes(), nil
}

type reader struct {
	r   *bytes.Reader
	err error
}

func (r *reader) fail(err error) {
	if r.err == nil {
		if errors.Is(err, io.EOF) || errors.Is(err, io.ErrUnexpectedEOF) {
			err = ErrTruncated
		}
		r.err = err
	}
}

func (r *reader) uvarint() uint64 {
	if r.err != nil {
		return 0
	}
	v, err := binary.ReadUvarint(r.r)
	if err != nil {
		r.fail(err)
		return 0
	}
	return v
}

func (r *reader) varint() int64 {
	if r.err != nil {
		return 0
	}
	v, err := binary.ReadVarint(r.r)
	if err != nil {
		r.fail(err)
		return 0
	}
	return v
}

func (r *reader) count() int {
	return int(r.uvarint())
}

// length reads a string or collection length. Every element consumes at
// least one byte, so a length beyond the remaining payload is a truncation.
func (r *reader) length() int {
	v := r.uvarint()
	if v > uint64(r.r.Len()) {
		r.fail(ErrTruncated)
		return 0
	}
	return int(v)
}

func (r *reader) string() string {
	n := r.length()
	if r.err != nil || n == 0 {
		return ""
	}
	buf := make([]byte, n)
	if _, err := io.ReadFull(r.r, buf); err != nil {
		r.fail(err)
		return ""
	}
	return string(buf)
}

func (r *reader) bool() bool {
	return r.uvarint() != 0
}

func (r *reader) float() float64 {
	if r.err != nil {
		return 0
	}
	var bits uint64
	if err := binary.Read(r.r, binary.LittleEndian, &bits); err != nil {
		r.fail(err)
		return 0
	}
	return math.Float64frombits(bits)
}

func (r *reader) optFloat() *float64 {
	if !r.bool() {
		return nil
	}
	f := r.float()
	if r.err != nil {
		return nil
	}
	return &f
}

func (r *reader) optTimestamp() *junit.Timestamp {
	if !r.bool() {
		return nil
	}
	seconds := r.varint()
	micros := r.uvarint()
	if micros > 999_999 {
		r.fail(fmt.Errorf("timestamp micros out of range: %d", micros))
	}
	if r.err != nil {
		return nil
	}
	return &junit.Timestamp{Seconds: seconds, Micros: int32(micros)}
}

func (r *reader) optInt() *int {
	if !r.bool() {
		return nil
	}
	v := int(r.varint())
	if r.err != nil {
		return nil
	}
	return &v
}

func (r *reader) suite() junit.TestSuite {
	suite := junit.TestSuite{}
	suite.Name = r.string()
	suite.ID = r.string()
	suite.Tests = r.count()
	suite.Failures = r.count()
	suite.Errors = r.count()
	suite.Skipped = r.count()
	suite.Time = r.optFloat()
	suite.Timestamp = r.optTimestamp()

	cases := r.length()
	for i := 0; i < cases && r.err == nil; i++ {
		suite.TestCases = append(suite.TestCases, r.testCase())
	}
	return suite
}

func (r *reader) testCase() junit.TestCase {
	tc := junit.TestCase{}
	tc.Name = r.string()
	tc.Classname = r.string()
	tc.File = r.string()
	tc.ID = r.string()
	tc.Line = r.optInt()
	tc.Assertions = r.optInt()
	tc.Time = r.optFloat()
	tc.Timestamp = r.optTimestamp()

	if r.bool() {
		tc.Status = junit.Status{
			Kind: junit.StatusNonSuccess,
			NonSuccess: &junit.NonSuccess{
				Kind:        junit.NonSuccessKind(r.uvarint()),
				Message:     r.string(),
				Description: r.string(),
			},
		}
	} else {
		tc.Status = junit.SuccessStatus()
	}
	return tc
}

type writer struct {
	buf     bytes.Buffer
	scratch [binary.MaxVarintLen64]byte
}

func (w *writer) uvarint(v uint64) {
	n := binary.PutUvarint(w.scratch[:], v)
	w.buf.Write(w.scratch[:n])
}

func (w *writer) varint(v int64) {
	n := binary.PutVarint(w.scratch[:], v)
	w.buf.Write(w.scratch[:n])
}

func (w *writer) count(v int) {
	w.uvarint(uint64(v))
}

func (w *writer) string(s string) {
	w.count(len(s))
	w.buf.WriteString(s)
}

func (w *writer) bool(v bool) {
	if v {
		w.uvarint(1)
	} else {
		w.uvarint(0)
	}
}

func (w *writer) optFloat(f *float64) {
	w.bool(f != nil)
	if f != nil {
		binary.Write(&w.buf, binary.LittleEndian, math.Float64bits(*f))
	}
}

func (w *writer) optTimestamp(ts *junit.Timestamp) {
	w.bool(ts != nil)
	if ts != nil {
		w.varint(ts.Seconds)
		w.uvarint(uint64(ts.Micros))
	}
}

func (w *writer) optInt(v *int) {
	w.bool(v != nil)
	if v != nil {
		w.varint(int64(*v))
	}
}

func (w *writer) suite(suite *junit.TestSuite) {
	w.string(suite.Name)
	w.string(suite.ID)
	w.count(suite.Tests)
	w.count(suite.Failures)
	w.count(suite.Errors)
	w.count(suite.Skipped)
	w.optFloat(suite.Time)
	w.optTimestamp(suite.Timestamp)

	w.count(len(suite.TestCases))
	for i := range suite.TestCases {
		w.testCase(&suite.TestCases[i])
	}
}

func (w *writer) testCase(tc *junit.TestCase) {
	w.string(tc.Name)
	w.string(tc.Classname)
	w.string(tc.File)
	w.string(tc.ID)
	w.optInt(tc.Line)
	w.optInt(tc.Assertions)
	w.optFloat(tc.Time)
	w.optTimestamp(tc.Timestamp)

	w.bool(tc.Status.NonSuccess != nil)
	if tc.Status.NonSuccess != nil {
		w.uvarint(uint64(tc.Status.NonSuccess.Kind))
		w.string(tc.Status.NonSuccess.Message)
		w.string(tc.Status.NonSuccess.Description)
	}
}
