package core

import (
	"errors"
	"fmt"
	"strings"
	"time"
)

const (
	// DateLayout is the persisted renewal date format.
	DateLayout = "2006-01-02"
	// DisplayLayout is the fixed locale format used in the UI (pt-BR).
	DisplayLayout = "02/01/2006"
)

type (
	// Date is a calendar date stored at UTC midnight.
	Date struct {
		time.Time
	}

	Money struct {
		Cents int64
	}

	// Subscription is one recurring-cost service record in the ledger.
	Subscription struct {
		ID          string `json:"id"`
		Name        string `json:"name"`
		Price       Money  `json:"price"` // monthly
		RenewalDate Date   `json:"renewalDate"`
		Category    string `json:"category"`
		Icon        string `json:"icon"`
		Color       string `json:"color"`
	}
)

var (
	ErrInvalidDate   = errors.New("invalid date")
	ErrInvalidAmount = errors.New("invalid amount")
	ErrEmptyID       = errors.New("empty id")
	ErrEmptyName     = errors.New("empty name")
)

// NewDate creates a new Date from year, month, day
func NewDate(year, month, day int) Date {
	return Date{Time: time.Date(year, time.Month(month), day, 0, 0, 0, 0, time.UTC)}
}

// DateOf returns the calendar date t falls on in its own location.
func DateOf(t time.Time) Date {
	y, m, d := t.Date()
	return NewDate(y, int(m), d)
}

// ParseDate parses a YYYY-MM-DD string.
func ParseDate(s string) (Date, error) {
	t, err := time.Parse(DateLayout, strings.TrimSpace(s))
	if err != nil {
		return Date{}, fmt.Errorf("%w: %q", ErrInvalidDate, s)
	}
	return Date{Time: t}, nil
}

func (d Date) String() string {
	return d.Format(DateLayout)
}

// Display formats the date as dd/mm/yyyy.
func (d Date) Display() string {
	return d.Format(DisplayLayout)
}

func (d Date) MarshalJSON() ([]byte, error) {
	return []byte(`"` + d.String() + `"`), nil
}

func (d Date) Validate() error {
	if d.IsZero() {
		return fmt.Errorf("%w: zero date", ErrInvalidDate)
	}
	return nil
}

func (m Money) Validate() error {
	if m.Cents < 0 || m.Cents > MaxPriceCents {
		return ErrInvalidAmount
	}
	return nil
}

func (s Subscription) Validate() error {
	if strings.TrimSpace(s.ID) == "" {
		return ErrEmptyID
	}
	if strings.TrimSpace(s.Name) == "" {
		return ErrEmptyName
	}
	if err := s.Price.Validate(); err != nil {
		return err
	}
	return s.RenewalDate.Validate()
}
