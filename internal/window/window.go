// Package window turns operator-entered calendar dates into the Unix-second
// range used to list invoices.
package window

import (
	"bufio"
	"errors"
	"fmt"
	"io"
	"strings"
	"time"

	"github.com/mmynk/liquifier/internal/models"
)

// DateLayout is the only accepted date format.
const DateLayout = "2006-01-02"

var (
	ErrInvalidDate    = errors.New("invalid date, expected format YYYY-MM-DD")
	ErrReversedWindow = errors.New("end date is before start date")
)

// ParseDate returns midnight of the given date in loc as Unix seconds.
func ParseDate(s string, loc *time.Location) (int64, error) {
	if loc == nil {
		loc = time.Local
	}
	t, err := time.ParseInLocation(DateLayout, strings.TrimSpace(s), loc)
	if err != nil {
		return 0, fmt.Errorf("%w: %q", ErrInvalidDate, s)
	}
	return t.Unix(), nil
}

// New builds a window from two dates. Both bounds are midnight of their date,
// so invoices created later on the end date fall outside the window.
func New(start, end string, loc *time.Location) (models.DateWindow, error) {
	startUnix, err := ParseDate(start, loc)
	if err != nil {
		return models.DateWindow{}, fmt.Errorf("start date: %w", err)
	}
	endUnix, err := ParseDate(end, loc)
	if err != nil {
		return models.DateWindow{}, fmt.Errorf("end date: %w", err)
	}
	if endUnix < startUnix {
		return models.DateWindow{}, fmt.Errorf("%w: %s < %s", ErrReversedWindow, end, start)
	}
	return models.DateWindow{Start: startUnix, End: endUnix}, nil
}

// Prompter asks the operator for dates until a valid one is entered.
type Prompter struct {
	in  *bufio.Scanner
	out io.Writer
}

// NewPrompter reads answers from in and writes prompts to out.
func NewPrompter(in io.Reader, out io.Writer) *Prompter {
	return &Prompter{in: bufio.NewScanner(in), out: out}
}

// Date prints prompt and reads lines until one is a valid date.
// It returns the date as entered, or an error once input is exhausted.
func (p *Prompter) Date(prompt string) (string, error) {
	for {
		fmt.Fprint(p.out, prompt)
		if !p.in.Scan() {
			if err := p.in.Err(); err != nil {
				return "", fmt.Errorf("failed to read date: %w", err)
			}
			return "", io.ErrUnexpectedEOF
		}
		answer := strings.TrimSpace(p.in.Text())
		if _, err := time.Parse(DateLayout, answer); err == nil {
			return answer, nil
		}
		fmt.Fprintln(p.out, "Invalid date. Please enter a date in format YYYY-MM-DD.")
	}
}

// Window prompts for a start and end date and builds the window.
// A reversed range is reported after both dates are entered.
func (p *Prompter) Window(loc *time.Location) (models.DateWindow, error) {
	start, err := p.Date("Enter the start date (YYYY-MM-DD): ")
	if err != nil {
		return models.DateWindow{}, err
	}
	end, err := p.Date("Enter the end date (YYYY-MM-DD): ")
	if err != nil {
		return models.DateWindow{}, err
	}
	return New(start, end, loc)
}
