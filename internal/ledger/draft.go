package ledger

import (
	"errors"
	"fmt"
	"strings"

	"github.com/go-playground/validator/v10"

	"subledger/internal/core"
)

var (
	// ErrIncompleteDraft marks an add that was ignored because name, price or
	// renewal date was blank. Callers treat it as a silent no-op.
	ErrIncompleteDraft = errors.New("incomplete subscription draft")
	ErrInvalidPrice    = errors.New("invalid price")
	ErrInvalidDate     = errors.New("invalid renewal date")
)

var validate = validator.New(validator.WithRequiredStructEnabled())

// Draft is the raw add-form input.
type Draft struct {
	Name        string `json:"name" validate:"required"`
	Price       string `json:"price" validate:"required"`
	RenewalDate string `json:"renewalDate" validate:"required"`
	Category    string `json:"category"`
}

func (d Draft) normalized() Draft {
	return Draft{
		Name:        strings.TrimSpace(d.Name),
		Price:       strings.TrimSpace(d.Price),
		RenewalDate: strings.TrimSpace(d.RenewalDate),
		Category:    strings.TrimSpace(d.Category),
	}
}

type parsedDraft struct {
	name     string
	price    core.Money
	renewal  core.Date
	category string
}

func (d Draft) parse(catalog core.Catalog) (parsedDraft, error) {
	d = d.normalized()
	if err := validate.Struct(d); err != nil {
		var verrs validator.ValidationErrors
		if errors.As(err, &verrs) {
			missing := make([]string, 0, len(verrs))
			for _, fe := range verrs {
				missing = append(missing, fe.Field())
			}
			return parsedDraft{}, fmt.Errorf("%w: missing %s", ErrIncompleteDraft, strings.Join(missing, ", "))
		}
		return parsedDraft{}, err
	}

	cents, err := core.ParseDecimalToCents(d.Price)
	if err != nil {
		return parsedDraft{}, fmt.Errorf("%w: %q", ErrInvalidPrice, d.Price)
	}
	renewal, err := core.ParseDate(d.RenewalDate)
	if err != nil {
		return parsedDraft{}, fmt.Errorf("%w: %q", ErrInvalidDate, d.RenewalDate)
	}

	category := d.Category
	if category == "" {
		if svc, ok := catalog.Lookup(d.Name); ok {
			category = svc.Category
		} else {
			category = core.DefaultCategory
		}
	}

	return parsedDraft{
		name:     d.Name,
		price:    core.Money{Cents: cents},
		renewal:  renewal,
		category: category,
	}, nil
}
