package pdfconv

import (
	"fmt"
	"time"

	"github.com/tsawler/pdfconv/format"
	"github.com/tsawler/pdfconv/model"
)

// Status is the state of a conversion request.
type Status int

const (
	InProgress Status = iota
	Succeeded
	Failed
)

var statusNames = [...]string{"in_progress", "succeeded", "failed"}

func (s Status) String() string {
	if s >= 0 && int(s) < len(statusNames) {
		return statusNames[s]
	}
	return fmt.Sprintf("Status(%d)", int(s))
}

// ParseStatus is the inverse of Status.String.
func ParseStatus(s string) (Status, error) {
	for i, name := range statusNames {
		if name == s {
			return Status(i), nil
		}
	}
	return 0, fmt.Errorf("unknown status %q", s)
}

// MarshalText implements encoding.TextMarshaler.
func (s Status) MarshalText() ([]byte, error) {
	return []byte(s.String()), nil
}

// UnmarshalText implements encoding.TextUnmarshaler.
func (s *Status) UnmarshalText(b []byte) error {
	v, err := ParseStatus(string(b))
	if err != nil {
		return err
	}
	*s = v
	return nil
}

// Result describes one conversion request. It is owned by the caller.
type Result struct {
	Source string        `json:"source,omitempty" yaml:"source,omitempty"`
	Target format.Target `json:"target" yaml:"target"`
	Status Status        `json:"status" yaml:"status"`
	// Output is the file written by ConvertFile.
	Output string `json:"output,omitempty" yaml:"output,omitempty"`

	Pages    int   `json:"pages" yaml:"pages"`
	Elements int   `json:"elements" yaml:"elements"`
	Images   int   `json:"images" yaml:"images"`
	Bytes    int64 `json:"bytes" yaml:"bytes"`

	Skipped  []model.SkippedAsset `json:"skipped,omitempty" yaml:"skipped,omitempty"`
	Warnings []Warning            `json:"warnings,omitempty" yaml:"warnings,omitempty"`

	Started  time.Time `json:"started" yaml:"started"`
	Finished time.Time `json:"finished,omitempty" yaml:"finished,omitempty"`

	// Err is set when Status is Failed.
	Err error `json:"-" yaml:"-"`
}

func newResult(source string, target format.Target) *Result {
	return &Result{
		Source:  source,
		Target:  target,
		Status:  InProgress,
		Started: time.Now(),
	}
}

// Duration returns how long the request ran, or zero while in progress.
func (r *Result) Duration() time.Duration {
	if r.Finished.IsZero() {
		return 0
	}
	return r.Finished.Sub(r.Started)
}

func (r *Result) observe(doc *model.Document) {
	r.Pages = doc.PageCount()
	r.Elements = doc.ElementCount()
	r.Images = doc.ImageCount()
}

func (r *Result) succeed(n int64) *Result {
	r.Status = Succeeded
	r.Bytes = n
	r.Finished = time.Now()
	return r
}

func (r *Result) fail(err error) (*Result, error) {
	r.Status = Failed
	r.Err = err
	r.Finished = time.Now()
	return r, err
}
