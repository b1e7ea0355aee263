package storage

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"strings"

	"github.com/go-playground/validator/v10"
	"github.com/shopspring/decimal"

	"subledger/internal/core"
)

// ErrCorruptSlot means the slot payload is not a JSON array at all.
var ErrCorruptSlot = errors.New("storage slot is not a JSON array")

var validate = validator.New(validator.WithRequiredStructEnabled())

var maxPrice = decimal.NewFromInt(core.MaxPriceCents)

// record is the persisted layout of one subscription.
type record struct {
	ID          string      `json:"id" validate:"required"`
	Name        string      `json:"name" validate:"required"`
	Price       json.Number `json:"price" validate:"required"`
	RenewalDate string      `json:"renewalDate" validate:"required"`
	Category    string      `json:"category"`
	Icon        string      `json:"icon"`
	Color       string      `json:"color"`
}

// Rejection describes a persisted record dropped during decoding.
type Rejection struct {
	Index  int
	ID     string
	Reason string
}

// EncodeSubscriptions serializes the ledger to the slot layout.
func EncodeSubscriptions(subs []core.Subscription) ([]byte, error) {
	records := make([]record, 0, len(subs))
	for _, s := range subs {
		records = append(records, record{
			ID:          s.ID,
			Name:        s.Name,
			Price:       json.Number(s.Price.Decimal().String()),
			RenewalDate: s.RenewalDate.String(),
			Category:    s.Category,
			Icon:        s.Icon,
			Color:       s.Color,
		})
	}
	return json.Marshal(records)
}

// DecodeSubscriptions parses a slot payload. Records that fail validation are
// skipped and reported; only a payload that is not an array is an error.
// An empty payload decodes to an empty ledger.
func DecodeSubscriptions(data []byte) ([]core.Subscription, []Rejection, error) {
	data = bytes.TrimSpace(data)
	if len(data) == 0 || bytes.Equal(data, []byte("null")) {
		return nil, nil, nil
	}

	var raws []json.RawMessage
	if err := json.Unmarshal(data, &raws); err != nil {
		return nil, nil, fmt.Errorf("%w: %v", ErrCorruptSlot, err)
	}

	var (
		subs     []core.Subscription
		rejected []Rejection
		seen     = make(map[string]struct{}, len(raws))
	)
	for i, raw := range raws {
		sub, err := decodeRecord(raw)
		if err != nil {
			rejected = append(rejected, Rejection{Index: i, ID: sub.ID, Reason: err.Error()})
			continue
		}
		if _, dup := seen[sub.ID]; dup {
			rejected = append(rejected, Rejection{Index: i, ID: sub.ID, Reason: "duplicate id"})
			continue
		}
		seen[sub.ID] = struct{}{}
		subs = append(subs, sub)
	}
	return subs, rejected, nil
}

func decodeRecord(raw json.RawMessage) (core.Subscription, error) {
	var r record
	dec := json.NewDecoder(bytes.NewReader(raw))
	dec.UseNumber()
	if err := dec.Decode(&r); err != nil {
		return core.Subscription{}, fmt.Errorf("malformed record: %v", err)
	}
	partial := core.Subscription{ID: r.ID}

	r.ID = strings.TrimSpace(r.ID)
	r.Name = strings.TrimSpace(r.Name)
	if err := validate.Struct(r); err != nil {
		var verrs validator.ValidationErrors
		if errors.As(err, &verrs) {
			fields := make([]string, 0, len(verrs))
			for _, fe := range verrs {
				fields = append(fields, fe.Field())
			}
			return partial, fmt.Errorf("missing %s", strings.Join(fields, ", "))
		}
		return partial, err
	}

	price, err := decimal.NewFromString(r.Price.String())
	if err != nil || price.IsNegative() || price.Shift(2).Round(0).GreaterThan(maxPrice) {
		return partial, fmt.Errorf("invalid price %q", r.Price.String())
	}
	renewal, err := core.ParseDate(r.RenewalDate)
	if err != nil {
		return partial, fmt.Errorf("invalid renewal date %q", r.RenewalDate)
	}

	icon, color := r.Icon, r.Color
	if !knownIcon(icon) {
		icon = core.DefaultIcon
	}
	if color == "" {
		color = core.DefaultColor
	}

	return core.Subscription{
		ID:          r.ID,
		Name:        r.Name,
		Price:       core.MoneyFromDecimal(price),
		RenewalDate: renewal,
		Category:    r.Category,
		Icon:        icon,
		Color:       color,
	}, nil
}

func knownIcon(icon string) bool {
	for _, i := range core.Icons {
		if i == icon {
			return true
		}
	}
	return false
}
