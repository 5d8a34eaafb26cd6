package core

import (
	"errors"
	"strings"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/google/uuid"
)

const (
	Income      Kind = "income"
	Expense     Kind = "expense"
	SavingsGoal Kind = "savings_goal" // reserved, nothing produces or reads it yet
)

const (
	PersonA Owner = "person_a"
	PersonB Owner = "person_b"
	Both    Owner = "both" // reserved, the entry form never assigns it
)

type (
	Kind     string
	Owner    string
	Category string

	// Entry is a single ledger record. Entries are never edited in place.
	Entry struct {
		ID          string
		Description string
		Amount      float64
		Kind        Kind
		Category    Category
		Owner       Owner
		OccurredAt  time.Time
	}

	// EntryInput carries the raw values submitted by the entry form.
	EntryInput struct {
		Description string   `validate:"required,max=200"`
		Amount      string   `validate:"required"`
		Kind        Kind     `validate:"required,oneof=income expense"`
		Category    Category `validate:"required,oneof=housing food transport entertainment health education salary investment other cruise car"`
		Owner       Owner    `validate:"required,oneof=person_a person_b"`
	}
)

var (
	ErrEmptyDescription   = errors.New("empty description")
	ErrDescriptionTooLong = errors.New("description too long")
	ErrInvalidAmount      = errors.New("invalid amount")
	ErrInvalidKind        = errors.New("invalid kind")
	ErrInvalidCategory    = errors.New("invalid category")
	ErrInvalidOwner       = errors.New("invalid owner")
	ErrDuplicateID        = errors.New("duplicate entry id")
)

var validate = validator.New()

// NewEntry validates the submitted form values and builds an entry dated in
// the given month index (0-11) of now's year.
func NewEntry(in EntryInput, now time.Time, month int) (Entry, error) {
	in.Description = strings.TrimSpace(in.Description)
	in.Amount = strings.TrimSpace(in.Amount)

	if err := validate.Struct(in); err != nil {
		return Entry{}, validationError(err)
	}

	amount, err := ParseAmount(in.Amount)
	if err != nil {
		return Entry{}, err
	}

	return Entry{
		ID:          uuid.NewString(),
		Description: in.Description,
		Amount:      amount,
		Kind:        in.Kind,
		Category:    in.Category,
		Owner:       in.Owner,
		OccurredAt:  DateInMonth(now, month),
	}, nil
}

// validationError maps the first failing field to its sentinel error.
func validationError(err error) error {
	var verrs validator.ValidationErrors
	if !errors.As(err, &verrs) || len(verrs) == 0 {
		return err
	}
	switch verrs[0].Field() {
	case "Description":
		if verrs[0].Tag() == "max" {
			return ErrDescriptionTooLong
		}
		return ErrEmptyDescription
	case "Amount":
		return ErrInvalidAmount
	case "Kind":
		return ErrInvalidKind
	case "Category":
		return ErrInvalidCategory
	case "Owner":
		return ErrInvalidOwner
	}
	return err
}

func (e Entry) Validate() error {
	if len(strings.TrimSpace(e.Description)) == 0 {
		return ErrEmptyDescription
	}
	if !(e.Amount > 0) {
		return ErrInvalidAmount
	}
	switch e.Kind {
	case Income, Expense, SavingsGoal:
	default:
		return ErrInvalidKind
	}
	if !e.Category.Valid() {
		return ErrInvalidCategory
	}
	switch e.Owner {
	case PersonA, PersonB, Both:
	default:
		return ErrInvalidOwner
	}
	return nil
}

// Signed returns the amount with income positive and everything else negative.
func (e Entry) Signed() float64 {
	if e.Kind == Income {
		return e.Amount
	}
	return -e.Amount
}

// Month returns the entry's calendar month as an index 0-11.
func (e Entry) Month() int {
	return int(e.OccurredAt.Month()) - 1
}

func (k Kind) Label() string {
	switch k {
	case Income:
		return "Receita"
	case Expense:
		return "Despesa"
	case SavingsGoal:
		return "Meta"
	}
	return string(k)
}
